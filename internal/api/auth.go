package api

import (
	"context"
	"net/http"

	"github.com/La-Phoenix/bugtrackr/internal/credstore"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginData is the payload of a successful login
type LoginData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// AuthService wraps the authentication endpoints. Persisting the token and
// user record on successful login is part of this operation's own contract;
// the session store does not duplicate it.
type AuthService struct {
	client *Client
	creds  credstore.Store
}

// NewAuthService creates an auth service persisting credentials to creds
func NewAuthService(client *Client, creds credstore.Store) *AuthService {
	return &AuthService{client: client, creds: creds}
}

// Login authenticates with email and password. On success the token and user
// are persisted before the result is returned.
func (s *AuthService) Login(ctx context.Context, email, password string) Result[LoginData] {
	res := do[LoginData](ctx, s.client, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if !res.Success {
		return res
	}

	user := &credstore.User{
		ID:      res.Data.User.ID,
		Email:   res.Data.User.Email,
		Name:    res.Data.User.Name,
		IsAdmin: res.Data.User.IsAdmin,
	}
	if err := s.creds.SetCredentials(res.Data.Token, user); err != nil {
		s.client.log.Error().Err(err).Msg("Failed to persist credentials")
		return Failure[LoginData]("Failed to save session. Please try again.")
	}

	return res
}

// SetupRequest represents the first-run setup request
type SetupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Setup creates the first admin account. Like Login, it persists the
// credentials on success.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) Result[LoginData] {
	res := do[LoginData](ctx, s.client, http.MethodPost, "/api/setup", req)
	if !res.Success {
		return res
	}

	user := &credstore.User{
		ID:      res.Data.User.ID,
		Email:   res.Data.User.Email,
		Name:    res.Data.User.Name,
		IsAdmin: res.Data.User.IsAdmin,
	}
	if err := s.creds.SetCredentials(res.Data.Token, user); err != nil {
		s.client.log.Error().Err(err).Msg("Failed to persist credentials")
		return Failure[LoginData]("Failed to save session. Please try again.")
	}

	return res
}

// Me fetches the currently authenticated user
func (s *AuthService) Me(ctx context.Context) Result[User] {
	return do[User](ctx, s.client, http.MethodGet, "/api/auth/me", nil)
}
