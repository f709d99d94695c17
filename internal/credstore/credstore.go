// Package credstore persists the auth token and cached user record across
// process restarts and notifies watchers when another process (or this one)
// changes them. It is the reload-surviving half of the session: the session
// store itself is only an in-memory projection rebuilt from here.
package credstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// User is the cached record of the signed-in account
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

// Store defines the credential persistence operations.
// Watch callbacks fire after any mutation, including ones made by other
// processes sharing the same underlying storage.
type Store interface {
	Token() (string, bool)
	User() (*User, bool)
	SetCredentials(token string, user *User) error
	Clear() error
	Watch(fn func()) (cancel func())
}

// DefaultPath returns the path of the credential file, ~/.config/bugtrackr/credentials.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "bugtrackr", "credentials.json"), nil
}
