package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/La-Phoenix/bugtrackr/internal/models"
)

// CreateLabelRequest represents a label creation request
type CreateLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// UpdateLabelRequest represents a label update request
type UpdateLabelRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// listLabels returns all labels
func (s *Server) listLabels(c *gin.Context) {
	var labels []models.Label
	if err := s.db.Order("created_at ASC").Find(&labels).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list labels")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, labels, "")
}

// createLabel creates a new label
func (s *Server) createLabel(c *gin.Context) {
	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	label := &models.Label{
		Name:  req.Name,
		Color: req.Color,
	}
	if label.Color == "" {
		label.Color = "#cccccc"
	}

	if err := s.db.Create(label).Error; err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create label")
		respondError(c, http.StatusConflict, "Label already exists")
		return
	}

	s.logger.Info().Str("label_id", label.ID).Str("name", label.Name).Msg("Label created")

	respondOK(c, http.StatusCreated, label, "")
}

// updateLabel modifies an existing label
func (s *Server) updateLabel(c *gin.Context) {
	labelID := c.Param("id")

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var label models.Label
	if err := models.FindByID(s.db, labelID, &label); err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Label not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find label")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Name != "" {
		label.Name = req.Name
	}
	if req.Color != "" {
		label.Color = req.Color
	}

	if err := s.db.Save(&label).Error; err != nil {
		s.logger.Error().Err(err).Str("label_id", labelID).Msg("Failed to update label")
		respondError(c, http.StatusInternalServerError, "Failed to update label")
		return
	}

	respondOK(c, http.StatusOK, label, "")
}

// deleteLabel removes a label by ID
func (s *Server) deleteLabel(c *gin.Context) {
	labelID := c.Param("id")

	var label models.Label
	if err := models.FindByID(s.db, labelID, &label); err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Label not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find label")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := s.db.Delete(&label).Error; err != nil {
		s.logger.Error().Err(err).Str("label_id", labelID).Msg("Failed to delete label")
		respondError(c, http.StatusInternalServerError, "Failed to delete label")
		return
	}

	s.logger.Info().Str("label_id", labelID).Msg("Label deleted")

	respondOK(c, http.StatusOK, nil, "Label deleted")
}
