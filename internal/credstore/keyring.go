package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "bugtrackr-cli"
	keyringKey     = "api-token"
)

// KeyringStore keeps the auth token in the OS keychain/credential manager and
// the (non-secret) user record in a file store. The file doubles as the
// change marker: every mutation touches it, so Watch still observes token
// removal performed by another process.
type KeyringStore struct {
	file *FileStore
}

// NewKeyringStore creates a keyring-backed credential store. The file store
// carries the cached user record and change notifications.
func NewKeyringStore(file *FileStore) *KeyringStore {
	return &KeyringStore{file: file}
}

// Token retrieves the auth token from the OS keychain
func (s *KeyringStore) Token() (string, bool) {
	token, err := keyring.Get(keyringService, keyringKey)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// User returns the cached user record, if any
func (s *KeyringStore) User() (*User, bool) {
	return s.file.User()
}

// SetCredentials stores the token in the keychain and the user record on disk
func (s *KeyringStore) SetCredentials(token string, user *User) error {
	if err := keyring.Set(keyringService, keyringKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	// The file write is what other processes observe
	return s.file.SetCredentials("", user)
}

// Clear removes the token from the keychain and the user record from disk
func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(keyringService, keyringKey); err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete token: %w", err)
		}
	}
	return s.file.Clear()
}

// Watch registers fn to run after any credential change
func (s *KeyringStore) Watch(fn func()) (cancel func()) {
	return s.file.Watch(fn)
}
