// Package api implements the BugTrackr API client. Every operation follows
// the same normalization contract: outcomes map to a Result envelope, a 401
// triggers the forced-logout hook, and no transport detail leaks to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Fallback messages used when the server doesn't provide one
const (
	MsgNetworkError  = "Network error. Please try again."
	MsgAuthRequired  = "Authentication required"
	MsgAdminRequired = "Admin access required"
	MsgNotFound      = "Resource not found"
	MsgRequestFailed = "Request failed. Please try again."
)

// TokenSource supplies the bearer token attached to requests. Absence of a
// token is a valid state (anonymous calls).
type TokenSource interface {
	Token() (string, bool)
}

// Client represents an HTTP client for the BugTrackr API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger

	mu            sync.Mutex
	onAuthExpired func()
}

// New creates a new API client
func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		log:    log,
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// OnAuthExpired registers the forced-logout hook invoked whenever any
// operation receives a 401. This is a global policy: no endpoint opts out.
func (c *Client) OnAuthExpired(fn func()) {
	c.mu.Lock()
	c.onAuthExpired = fn
	c.mu.Unlock()
}

func (c *Client) authExpired() {
	c.mu.Lock()
	fn := c.onAuthExpired
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// do issues a request and normalizes the outcome into a Result. The order of
// checks mirrors the client contract: transport failure, 401, 403, 404,
// other non-2xx, then envelope pass-through.
func do[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			c.log.Error().Err(err).Str("path", path).Msg("Failed to marshal request")
			return Failure[T](MsgRequestFailed)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("Failed to create request")
		return Failure[T](MsgRequestFailed)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", ulid.Make().String())
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Request failed")
		return Failure[T](MsgNetworkError)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// Expired or invalid token is indistinguishable from "never logged
		// in": force the logout side effect and report uniformly
		c.authExpired()
		return Failure[T](MsgAuthRequired)

	case resp.StatusCode == http.StatusForbidden:
		// The session is still valid; the operation is merely disallowed
		return failureFromBody[T](resp, MsgAdminRequired)

	case resp.StatusCode == http.StatusNotFound:
		return failureFromBody[T](resp, MsgNotFound)

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return failureFromBody[T](resp, MsgRequestFailed)
	}

	var result Result[T]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("Failed to decode response")
		return Failure[T](MsgRequestFailed)
	}

	// The backend's own success flag is trusted and passed through
	return result
}

// failureFromBody extracts the server-provided message from an error body,
// falling back when the body is missing or malformed
func failureFromBody[T any](resp *http.Response, fallback string) Result[T] {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		return Failure[T](envelope.Message)
	}
	return Failure[T](fallback)
}
