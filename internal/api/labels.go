package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateLabelRequest represents a label creation request
type CreateLabelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// UpdateLabelRequest represents a label update request
type UpdateLabelRequest struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

// LabelService wraps the label CRUD endpoints
type LabelService struct {
	client *Client
}

// NewLabelService creates a label service
func NewLabelService(client *Client) *LabelService {
	return &LabelService{client: client}
}

// List returns all labels
func (s *LabelService) List(ctx context.Context) Result[[]Label] {
	return do[[]Label](ctx, s.client, http.MethodGet, "/api/labels", nil)
}

// Create creates a new label
func (s *LabelService) Create(ctx context.Context, req CreateLabelRequest) Result[Label] {
	return do[Label](ctx, s.client, http.MethodPost, "/api/labels", req)
}

// Update modifies an existing label
func (s *LabelService) Update(ctx context.Context, id string, req UpdateLabelRequest) Result[Label] {
	return do[Label](ctx, s.client, http.MethodPut, fmt.Sprintf("/api/labels/%s", id), req)
}

// Delete removes a label by ID
func (s *LabelService) Delete(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, s.client, http.MethodDelete, fmt.Sprintf("/api/labels/%s", id), nil)
}
