package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/La-Phoenix/bugtrackr/internal/api"
	"github.com/La-Phoenix/bugtrackr/internal/credstore"
)

// fakeAuth mimics the auth network operation, including its contract of
// persisting credentials on success
type fakeAuth struct {
	result api.Result[api.LoginData]
	creds  credstore.Store
	calls  int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) api.Result[api.LoginData] {
	f.calls++
	if f.result.Success {
		user := &credstore.User{
			ID:      f.result.Data.User.ID,
			Email:   f.result.Data.User.Email,
			Name:    f.result.Data.User.Name,
			IsAdmin: f.result.Data.User.IsAdmin,
		}
		if err := f.creds.SetCredentials(f.result.Data.Token, user); err != nil {
			panic(err)
		}
	}
	return f.result
}

func newFileStore(t *testing.T) *credstore.FileStore {
	t.Helper()
	return credstore.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func testUser() *credstore.User {
	return &credstore.User{ID: "user-1", Email: "dev@example.com", Name: "Dev"}
}

func TestInitialize_TokenAndUserPresent(t *testing.T) {
	creds := newFileStore(t)
	require.NoError(t, creds.SetCredentials("tok", testUser()))

	store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
	defer store.Close()

	// Before initialization the state is loading
	assert.True(t, store.Snapshot().Loading)

	store.Initialize()

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "dev@example.com", snap.User.Email)
}

func TestInitialize_MissingCredentialCombinations(t *testing.T) {
	tests := []struct {
		name  string
		token string
		user  *credstore.User
	}{
		{"empty store", "", nil},
		{"token without user", "tok", nil},
		{"user without token", "", testUser()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := newFileStore(t)
			if tt.token != "" || tt.user != nil {
				require.NoError(t, creds.SetCredentials(tt.token, tt.user))
			}

			store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
			defer store.Close()
			store.Initialize()

			snap := store.Snapshot()
			assert.False(t, snap.Loading)
			assert.False(t, snap.Authenticated)
			assert.Nil(t, snap.User)
		})
	}
}

func TestInitialize_RunsOnce(t *testing.T) {
	creds := newFileStore(t)
	store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
	defer store.Close()

	store.Initialize()
	require.False(t, store.Snapshot().Loading)

	// A second Initialize is a no-op
	store.Initialize()
	assert.False(t, store.Snapshot().Loading)
	assert.False(t, store.Snapshot().Authenticated)
}

func TestLogin_Success(t *testing.T) {
	creds := newFileStore(t)
	auth := &fakeAuth{
		creds: creds,
		result: api.Ok(api.LoginData{
			Token: "tok-abc",
			User:  api.User{ID: "user-1", Email: "dev@example.com", Name: "Dev"},
		}),
	}

	store := New(creds, auth, zerolog.Nop())
	defer store.Close()
	store.Initialize()

	err := store.Login(context.Background(), "dev@example.com", "secret")
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Dev", snap.User.Name)

	// The auth operation persisted token and user
	token, ok := creds.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)
	_, ok = creds.User()
	assert.True(t, ok)
}

func TestLogin_Failure_LeavesStateUnchanged(t *testing.T) {
	creds := newFileStore(t)
	auth := &fakeAuth{
		creds:  creds,
		result: api.Failure[api.LoginData]("Invalid email or password"),
	}

	store := New(creds, auth, zerolog.Nop())
	defer store.Close()
	store.Initialize()

	err := store.Login(context.Background(), "dev@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.Contains(t, err.Error(), "Invalid email or password")

	snap := store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)

	_, ok := creds.Token()
	assert.False(t, ok)
}

func TestLogin_DerivesNameFromEmailLocalPart(t *testing.T) {
	creds := newFileStore(t)
	auth := &fakeAuth{
		creds: creds,
		result: api.Ok(api.LoginData{
			Token: "tok",
			User:  api.User{ID: "1", Email: "a@b.com"}, // No name from the backend
		}),
	}

	store := New(creds, auth, zerolog.Nop())
	defer store.Close()
	store.Initialize()

	require.NoError(t, store.Login(context.Background(), "a@b.com", "x"))

	snap := store.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "a", snap.User.Name)
}

func TestLogout_AlwaysResultsInAnonymous(t *testing.T) {
	creds := newFileStore(t)
	require.NoError(t, creds.SetCredentials("tok", testUser()))

	store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
	defer store.Close()
	store.Initialize()
	require.True(t, store.Snapshot().Authenticated)

	store.Logout()

	snap := store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)

	_, ok := creds.Token()
	assert.False(t, ok)
	_, ok = creds.User()
	assert.False(t, ok)

	// Logging out twice is harmless
	store.Logout()
	assert.False(t, store.Snapshot().Authenticated)
}

func TestStorageChange_ClearedStoreForcesAnonymous(t *testing.T) {
	creds := newFileStore(t)
	require.NoError(t, creds.SetCredentials("tok", testUser()))

	store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
	defer store.Close()
	store.Initialize()
	require.True(t, store.Snapshot().Authenticated)

	// Clearing the store fires its watchers; the session converges without
	// anyone calling Logout on it
	require.NoError(t, creds.Clear())

	snap := store.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)
}

func TestStorageChange_NewCredentialsAreObserved(t *testing.T) {
	creds := newFileStore(t)

	store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
	defer store.Close()
	store.Initialize()
	require.False(t, store.Snapshot().Authenticated)

	require.NoError(t, creds.SetCredentials("tok", testUser()))

	snap := store.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "user-1", snap.User.ID)
}

func TestSubscribe_NotifiesOnTransitions(t *testing.T) {
	creds := newFileStore(t)
	auth := &fakeAuth{
		creds: creds,
		result: api.Ok(api.LoginData{
			Token: "tok",
			User:  api.User{ID: "1", Email: "dev@example.com", Name: "Dev"},
		}),
	}

	store := New(creds, auth, zerolog.Nop())
	defer store.Close()

	var snaps []Snapshot
	cancel := store.Subscribe(func(snap Snapshot) {
		snaps = append(snaps, snap)
	})
	defer cancel()

	store.Initialize()
	require.NoError(t, store.Login(context.Background(), "dev@example.com", "x"))
	store.Logout()

	require.GreaterOrEqual(t, len(snaps), 3)
	assert.False(t, snaps[0].Authenticated) // After initialize: anonymous
	assert.True(t, snaps[len(snaps)-2].Authenticated)
	assert.False(t, snaps[len(snaps)-1].Authenticated)
}

func TestTwoProcesses_LogoutPropagatesThroughSharedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	// Two independent store instances on the same file stand in for two
	// processes sharing the credential store
	credsA := credstore.NewFileStore(path, credstore.WithPollInterval(10*time.Millisecond))
	credsB := credstore.NewFileStore(path, credstore.WithPollInterval(10*time.Millisecond))

	require.NoError(t, credsA.SetCredentials("tok", testUser()))

	sessA := New(credsA, &fakeAuth{creds: credsA}, zerolog.Nop())
	defer sessA.Close()
	sessA.Initialize()

	sessB := New(credsB, &fakeAuth{creds: credsB}, zerolog.Nop())
	defer sessB.Close()
	sessB.Initialize()

	require.True(t, sessA.Snapshot().Authenticated)
	require.True(t, sessB.Snapshot().Authenticated)

	// Logout in A; B observes it through the storage change, no network call
	sessA.Logout()

	require.Eventually(t, func() bool {
		return !sessB.Snapshot().Authenticated
	}, 2*time.Second, 10*time.Millisecond, "second process should observe the logout")
	assert.Nil(t, sessB.Snapshot().User)
}

func TestTokenExpiry_InvalidTokenYieldsNothing(t *testing.T) {
	creds := newFileStore(t)
	require.NoError(t, creds.SetCredentials("not-a-jwt", testUser()))

	store := New(creds, &fakeAuth{creds: creds}, zerolog.Nop())
	defer store.Close()
	store.Initialize()

	_, ok := store.TokenExpiry()
	assert.False(t, ok)

	// An opaque token never affects the authenticated decision
	assert.True(t, store.Snapshot().Authenticated)
}
