package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateIssueRequest represents an issue creation request
type CreateIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssigneeID  string `json:"assignee_id,omitempty"`
}

// UpdateIssueRequest represents an issue update request
type UpdateIssueRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	AssigneeID  string `json:"assignee_id,omitempty"`
}

// IssueService wraps the issue CRUD endpoints
type IssueService struct {
	client *Client
}

// NewIssueService creates an issue service
func NewIssueService(client *Client) *IssueService {
	return &IssueService{client: client}
}

// List returns all issues
func (s *IssueService) List(ctx context.Context) Result[[]Issue] {
	return do[[]Issue](ctx, s.client, http.MethodGet, "/api/issues", nil)
}

// Get returns a single issue by ID
func (s *IssueService) Get(ctx context.Context, id string) Result[Issue] {
	return do[Issue](ctx, s.client, http.MethodGet, fmt.Sprintf("/api/issues/%s", id), nil)
}

// Create creates a new issue
func (s *IssueService) Create(ctx context.Context, req CreateIssueRequest) Result[Issue] {
	return do[Issue](ctx, s.client, http.MethodPost, "/api/issues", req)
}

// Update modifies an existing issue
func (s *IssueService) Update(ctx context.Context, id string, req UpdateIssueRequest) Result[Issue] {
	return do[Issue](ctx, s.client, http.MethodPut, fmt.Sprintf("/api/issues/%s", id), req)
}

// Delete removes an issue by ID
func (s *IssueService) Delete(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, s.client, http.MethodDelete, fmt.Sprintf("/api/issues/%s", id), nil)
}
