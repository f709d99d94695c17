package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultPollInterval = 500 * time.Millisecond

// credentialFile is the on-disk format
type credentialFile struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// FileStore persists credentials in a JSON file. Mutations notify in-process
// watchers synchronously; a polling watcher picks up changes written by other
// processes sharing the same file. The poll interval bounds how stale another
// process's view can be.
type FileStore struct {
	path         string
	pollInterval time.Duration

	mu       sync.Mutex
	watchers map[int]func()
	nextID   int
	lastMod  time.Time
	stopPoll chan struct{}
}

// FileOption configures a FileStore
type FileOption func(*FileStore)

// WithPollInterval overrides how often the store checks the file for
// changes made by other processes
func WithPollInterval(d time.Duration) FileOption {
	return func(s *FileStore) {
		s.pollInterval = d
	}
}

// NewFileStore creates a file-backed credential store at path
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path:         path,
		pollInterval: defaultPollInterval,
		watchers:     make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the persisted auth token, if any
func (s *FileStore) Token() (string, bool) {
	f, err := s.read()
	if err != nil || f.Token == "" {
		return "", false
	}
	return f.Token, true
}

// User returns the persisted user record, if any
func (s *FileStore) User() (*User, bool) {
	f, err := s.read()
	if err != nil || f.User == nil {
		return nil, false
	}
	return f.User, true
}

// SetCredentials persists the token and user record and notifies watchers
func (s *FileStore) SetCredentials(token string, user *User) error {
	if err := s.write(credentialFile{Token: token, User: user}); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear removes the persisted credentials and notifies watchers
func (s *FileStore) Clear() error {
	s.mu.Lock()
	err := os.Remove(s.path)
	s.lastMod = time.Time{}
	s.mu.Unlock()

	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	s.notify()
	return nil
}

// Watch registers fn to run after any credential change. The first watcher
// starts the cross-process poller; the returned cancel deregisters fn.
func (s *FileStore) Watch(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	if s.stopPoll == nil {
		// Baseline the current state so the poller only reports changes
		// made after watching began
		if info, err := os.Stat(s.path); err == nil {
			s.lastMod = info.ModTime()
		} else {
			s.lastMod = time.Time{}
		}
		s.stopPoll = make(chan struct{})
		go s.poll(s.stopPoll)
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		if len(s.watchers) == 0 && s.stopPoll != nil {
			close(s.stopPoll)
			s.stopPoll = nil
		}
		s.mu.Unlock()
	}
}

func (s *FileStore) read() (credentialFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return credentialFile{}, err
	}

	var f credentialFile
	if err := json.Unmarshal(data, &f); err != nil {
		return credentialFile{}, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return f, nil
}

func (s *FileStore) write(f credentialFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	// Remember our own write so the poller doesn't re-report it
	if info, err := os.Stat(s.path); err == nil {
		s.lastMod = info.ModTime()
	}
	return nil
}

func (s *FileStore) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// poll watches the file for modifications made outside this process
func (s *FileStore) poll(stop chan struct{}) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			var changed bool
			s.mu.Lock()
			info, err := os.Stat(s.path)
			switch {
			case err != nil:
				// File removed by another process
				if !s.lastMod.IsZero() {
					s.lastMod = time.Time{}
					changed = true
				}
			case !info.ModTime().Equal(s.lastMod):
				s.lastMod = info.ModTime()
				changed = true
			}
			s.mu.Unlock()

			if changed {
				s.notify()
			}
		}
	}
}
