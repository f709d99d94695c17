package api

import (
	"context"
	"fmt"
	"net/http"
)

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserService wraps the user management endpoints (admin only)
type UserService struct {
	client *Client
}

// NewUserService creates a user service
func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

// List returns all users
func (s *UserService) List(ctx context.Context) Result[[]User] {
	return do[[]User](ctx, s.client, http.MethodGet, "/api/users", nil)
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) Result[User] {
	return do[User](ctx, s.client, http.MethodPost, "/api/users", req)
}

// Delete removes a user by ID
func (s *UserService) Delete(ctx context.Context, id string) Result[struct{}] {
	return do[struct{}](ctx, s.client, http.MethodDelete, fmt.Sprintf("/api/users/%s", id), nil)
}
