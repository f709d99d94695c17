// Package session holds the single source of truth for "who is logged in"
// within one process. The store is an in-memory projection of the credential
// store, rebuilt at startup and on every external storage change, so two
// processes sharing the same credential file converge on the same state.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/La-Phoenix/bugtrackr/internal/api"
	"github.com/La-Phoenix/bugtrackr/internal/credstore"
)

// ErrLoginFailed wraps login rejections reported by the backend
var ErrLoginFailed = errors.New("login failed")

// Authenticator is the authentication network operation the store delegates
// to. Its contract includes persisting token+user on success.
type Authenticator interface {
	Login(ctx context.Context, email, password string) api.Result[api.LoginData]
}

// Snapshot is an immutable view of the session state
type Snapshot struct {
	User          *credstore.User
	Authenticated bool
	Loading       bool
}

// Store tracks the authentication state of this process
type Store struct {
	creds credstore.Store
	auth  Authenticator
	log   zerolog.Logger

	mu            sync.Mutex
	user          *credstore.User
	authenticated bool
	loading       bool
	subscribers   map[int]func(Snapshot)
	nextSubID     int
	initOnce      sync.Once
	cancelWatch   func()
}

// New creates a session store. The state is Loading until Initialize runs;
// guard decisions made before that are Determining by construction.
func New(creds credstore.Store, auth Authenticator, log zerolog.Logger) *Store {
	return &Store{
		creds:       creds,
		auth:        auth,
		log:         log,
		loading:     true,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Initialize rebuilds the session from the credential store and subscribes to
// external storage changes. Runs exactly once per process; later calls are
// no-ops.
func (s *Store) Initialize() {
	s.initOnce.Do(func() {
		s.mu.Lock()
		token, hasToken := s.creds.Token()
		user, hasUser := s.creds.User()
		// Both token and user must be present; anything else is anonymous
		if hasToken && hasUser && token != "" {
			s.user = user
			s.authenticated = true
		} else {
			s.user = nil
			s.authenticated = false
		}
		s.loading = false
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.cancelWatch = s.creds.Watch(s.handleStorageChange)
		s.log.Debug().Bool("authenticated", snap.Authenticated).Msg("Session initialized")
		s.publish(snap)
	})
}

// Login authenticates with the backend. On failure the session state is left
// untouched and the error carries the backend's message; there is no
// intermediate half-logged-in state.
func (s *Store) Login(ctx context.Context, email, password string) error {
	res := s.auth.Login(ctx, email, password)
	if !res.Success {
		return fmt.Errorf("%w: %s", ErrLoginFailed, res.Message)
	}

	user := &credstore.User{
		ID:      res.Data.User.ID,
		Email:   res.Data.User.Email,
		Name:    res.Data.User.Name,
		IsAdmin: res.Data.User.IsAdmin,
	}
	if user.Name == "" {
		// Backend supplied no display name; derive one from the email
		user.Name = displayNameFromEmail(email)
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info().Str("email", user.Email).Msg("Logged in")
	s.publish(snap)
	return nil
}

// Logout clears the persisted credentials and resets the session to
// anonymous. The in-memory reset happens even if clearing storage fails.
func (s *Store) Logout() {
	if err := s.creds.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear credential store")
	}

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info().Msg("Logged out")
	s.publish(snap)
}

// handleStorageChange re-reads the credential store after an external
// mutation and converges the in-memory state. Logging out in one process
// logs out every process sharing the same store.
func (s *Store) handleStorageChange() {
	s.mu.Lock()
	token, hasToken := s.creds.Token()
	user, hasUser := s.creds.User()

	var changed bool
	if hasToken && hasUser && token != "" {
		changed = !s.authenticated || s.user == nil || s.user.ID != user.ID
		s.user = user
		s.authenticated = true
	} else {
		changed = s.authenticated || s.user != nil
		s.user = nil
		s.authenticated = false
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if changed {
		s.log.Debug().Bool("authenticated", snap.Authenticated).Msg("Session synchronized from storage")
		s.publish(snap)
	}
}

// Snapshot returns the current session state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive every subsequent state transition.
// The returned cancel deregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close stops watching the credential store
func (s *Store) Close() {
	if s.cancelWatch != nil {
		s.cancelWatch()
	}
}

// TokenExpiry decodes the persisted token's expiry claim without verifying
// the signature. Informational only: it never feeds the authenticated
// decision.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token, ok := s.creds.Token()
	if !ok {
		return time.Time{}, false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) snapshotLocked() Snapshot {
	var user *credstore.User
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{
		User:          user,
		Authenticated: s.authenticated,
		Loading:       s.loading,
	}
}

func (s *Store) publish(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// displayNameFromEmail derives a display name from the email local part
func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
