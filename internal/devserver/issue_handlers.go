package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/La-Phoenix/bugtrackr/internal/models"
)

// CreateIssueRequest represents an issue creation request
type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"omitempty,issuepriority"`
	AssigneeID  string `json:"assignee_id"`
}

// UpdateIssueRequest represents an issue update request
type UpdateIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"omitempty,issuestatus"`
	Priority    string `json:"priority" binding:"omitempty,issuepriority"`
	AssigneeID  string `json:"assignee_id"`
}

// listIssues returns all issues
func (s *Server) listIssues(c *gin.Context) {
	var issues []models.Issue
	if err := s.db.Order("created_at DESC").Find(&issues).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list issues")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, issues, "")
}

// getIssue returns a single issue
func (s *Server) getIssue(c *gin.Context) {
	issueID := c.Param("id")

	var issue models.Issue
	if err := models.FindByID(s.db, issueID, &issue); err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Issue not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find issue")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondOK(c, http.StatusOK, issue, "")
}

// createIssue creates a new issue
func (s *Server) createIssue(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	sessionData, _ := GetSessionData(c)

	issue := &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusOpen,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		CreatedByID: sessionData.UserID,
	}
	if issue.Priority == "" {
		issue.Priority = "medium"
	}

	if err := s.db.Create(issue).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create issue")
		respondError(c, http.StatusInternalServerError, "Failed to create issue")
		return
	}

	s.logger.Info().Str("issue_id", issue.ID).Str("created_by", sessionData.UserID).Msg("Issue created")

	respondOK(c, http.StatusCreated, issue, "")
}

// updateIssue modifies an existing issue
func (s *Server) updateIssue(c *gin.Context) {
	issueID := c.Param("id")

	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var issue models.Issue
	if err := models.FindByID(s.db, issueID, &issue); err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Issue not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find issue")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Title != "" {
		issue.Title = req.Title
	}
	if req.Description != "" {
		issue.Description = req.Description
	}
	if req.Status != "" {
		issue.Status = req.Status
	}
	if req.Priority != "" {
		issue.Priority = req.Priority
	}
	if req.AssigneeID != "" {
		issue.AssigneeID = req.AssigneeID
	}

	if err := s.db.Save(&issue).Error; err != nil {
		s.logger.Error().Err(err).Str("issue_id", issueID).Msg("Failed to update issue")
		respondError(c, http.StatusInternalServerError, "Failed to update issue")
		return
	}

	respondOK(c, http.StatusOK, issue, "")
}

// deleteIssue removes an issue by ID
func (s *Server) deleteIssue(c *gin.Context) {
	issueID := c.Param("id")

	var issue models.Issue
	if err := models.FindByID(s.db, issueID, &issue); err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Issue not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find issue")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := s.db.Delete(&issue).Error; err != nil {
		s.logger.Error().Err(err).Str("issue_id", issueID).Msg("Failed to delete issue")
		respondError(c, http.StatusInternalServerError, "Failed to delete issue")
		return
	}

	s.logger.Info().Str("issue_id", issueID).Msg("Issue deleted")

	respondOK(c, http.StatusOK, nil, "Issue deleted")
}
