package devserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/La-Phoenix/bugtrackr/internal/api"
	"github.com/La-Phoenix/bugtrackr/internal/config"
	"github.com/La-Phoenix/bugtrackr/internal/credstore"
)

type testEnv struct {
	server *httptest.Server
	creds  *credstore.FileStore
	client *api.Client
	auth   *api.AuthService
	labels *api.LabelService
	issues *api.IssueService
	users  *api.UserService
}

// newTestEnv spins up the dev server on a fresh sqlite database and wires
// the real API client against it, credentials included
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: filepath.Join(dir, "test.sqlite")},
		HTTP: config.HTTPConfig{
			Addr:        ":0",
			CORSOrigins: []string{"http://localhost:5173"},
		},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	creds := credstore.NewFileStore(filepath.Join(dir, "credentials.json"))
	client := api.New(ts.URL, creds, zerolog.Nop())

	return &testEnv{
		server: ts,
		creds:  creds,
		client: client,
		auth:   api.NewAuthService(client, creds),
		labels: api.NewLabelService(client),
		issues: api.NewIssueService(client),
		users:  api.NewUserService(client),
	}
}

// setupAdmin runs first-run setup, leaving admin credentials in the store
func (e *testEnv) setupAdmin(t *testing.T) api.User {
	t.Helper()

	res := e.auth.Setup(context.Background(), api.SetupRequest{
		Email:    "admin@example.com",
		Password: "admin-secret",
		Name:     "Admin",
	})
	require.True(t, res.Success, "setup failed: %s", res.Message)
	require.NotEmpty(t, res.Data.Token)
	return res.Data.User
}

func TestSetupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.setupAdmin(t)
	assert.True(t, admin.IsAdmin)

	// Setup persisted the credentials
	token, ok := env.creds.Token()
	require.True(t, ok)
	assert.NotEmpty(t, token)

	// Setup only works once
	res := env.auth.Setup(context.Background(), api.SetupRequest{
		Email:    "second@example.com",
		Password: "x",
		Name:     "Second",
	})
	assert.False(t, res.Success)
	assert.Equal(t, "Setup already completed", res.Message)

	// A fresh login with the same credentials succeeds and re-persists
	require.NoError(t, env.creds.Clear())
	login := env.auth.Login(context.Background(), "admin@example.com", "admin-secret")
	require.True(t, login.Success, "login failed: %s", login.Message)
	_, ok = env.creds.Token()
	assert.True(t, ok)
}

func TestLogin_WrongPasswordIsNotAForcedLogout(t *testing.T) {
	env := newTestEnv(t)
	env.setupAdmin(t)

	var logouts int
	env.client.OnAuthExpired(func() { logouts++ })

	res := env.auth.Login(context.Background(), "admin@example.com", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Message)

	// Rejected credentials are a validation failure, not an expired session
	assert.Zero(t, logouts)
	_, ok := env.creds.Token()
	assert.True(t, ok, "existing credentials survive a failed login attempt")
}

func TestCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.setupAdmin(t)

	res := env.auth.Me(context.Background())
	require.True(t, res.Success, "me failed: %s", res.Message)
	assert.Equal(t, admin.ID, res.Data.ID)
	assert.Equal(t, "admin@example.com", res.Data.Email)
}

func TestLabelLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.setupAdmin(t)
	ctx := context.Background()

	created := env.labels.Create(ctx, api.CreateLabelRequest{Name: "bug", Color: "#ff0000"})
	require.True(t, created.Success, "create failed: %s", created.Message)
	require.NotEmpty(t, created.Data.ID)

	// Duplicate names are rejected
	dup := env.labels.Create(ctx, api.CreateLabelRequest{Name: "bug"})
	assert.False(t, dup.Success)
	assert.Equal(t, "Label already exists", dup.Message)

	updated := env.labels.Update(ctx, created.Data.ID, api.UpdateLabelRequest{Color: "#00ff00"})
	require.True(t, updated.Success, "update failed: %s", updated.Message)
	assert.Equal(t, "#00ff00", updated.Data.Color)

	list := env.labels.List(ctx)
	require.True(t, list.Success)
	require.Len(t, list.Data, 1)

	deleted := env.labels.Delete(ctx, created.Data.ID)
	require.True(t, deleted.Success, "delete failed: %s", deleted.Message)

	// Deleting again reports the server's not-found message
	again := env.labels.Delete(ctx, created.Data.ID)
	assert.False(t, again.Success)
	assert.Equal(t, "Label not found", again.Message)
}

func TestIssueLifecycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.setupAdmin(t)
	ctx := context.Background()

	created := env.issues.Create(ctx, api.CreateIssueRequest{
		Title:       "Crash on save",
		Description: "Editor crashes when saving an empty file",
		AssigneeID:  admin.ID,
	})
	require.True(t, created.Success, "create failed: %s", created.Message)
	assert.Equal(t, "open", created.Data.Status)
	assert.Equal(t, "medium", created.Data.Priority)
	assert.Equal(t, admin.ID, created.Data.CreatedByID)

	// Invalid status values are rejected by validation
	bad := env.issues.Update(ctx, created.Data.ID, api.UpdateIssueRequest{Status: "finished"})
	assert.False(t, bad.Success)

	resolved := env.issues.Update(ctx, created.Data.ID, api.UpdateIssueRequest{Status: "resolved"})
	require.True(t, resolved.Success, "update failed: %s", resolved.Message)
	assert.Equal(t, "resolved", resolved.Data.Status)

	got := env.issues.Get(ctx, created.Data.ID)
	require.True(t, got.Success)
	assert.Equal(t, "Crash on save", got.Data.Title)

	deleted := env.issues.Delete(ctx, created.Data.ID)
	require.True(t, deleted.Success)

	missing := env.issues.Get(ctx, created.Data.ID)
	assert.False(t, missing.Success)
	assert.Equal(t, "Issue not found", missing.Message)
}

func TestUserManagement_AdminBoundary(t *testing.T) {
	env := newTestEnv(t)
	admin := env.setupAdmin(t)
	ctx := context.Background()

	created := env.users.Create(ctx, api.CreateUserRequest{
		Email:    "dev@example.com",
		Name:     "Dev",
		Password: "dev-secret",
	})
	require.True(t, created.Success, "create user failed: %s", created.Message)

	list := env.users.List(ctx)
	require.True(t, list.Success)
	assert.Len(t, list.Data, 2)

	// Admins cannot delete themselves
	self := env.users.Delete(ctx, admin.ID)
	assert.False(t, self.Success)
	assert.Equal(t, "Cannot delete yourself", self.Message)

	// Switch to the non-admin account
	login := env.auth.Login(ctx, "dev@example.com", "dev-secret")
	require.True(t, login.Success)

	var logouts int
	env.client.OnAuthExpired(func() { logouts++ })

	forbidden := env.users.List(ctx)
	assert.False(t, forbidden.Success)
	assert.Equal(t, "Admin access required", forbidden.Message)
	assert.Zero(t, logouts, "a 403 must not end the session")

	// The non-admin can still use regular endpoints
	me := env.auth.Me(ctx)
	require.True(t, me.Success)
	assert.Equal(t, "dev@example.com", me.Data.Email)
}

func TestExpiredSession_ForcesLogout(t *testing.T) {
	env := newTestEnv(t)
	env.setupAdmin(t)
	ctx := context.Background()

	// Replace the valid token with garbage, as an expired session would
	user, ok := env.creds.User()
	require.True(t, ok)
	require.NoError(t, env.creds.SetCredentials("garbage-token", user))

	var logouts int
	env.client.OnAuthExpired(func() { logouts++ })

	res := env.labels.List(ctx)
	assert.False(t, res.Success)
	assert.Equal(t, api.MsgAuthRequired, res.Message)
	assert.Equal(t, 1, logouts, "a rejected token must trigger the forced logout")
}

func TestAnonymousRequest_IsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.setupAdmin(t)
	require.NoError(t, env.creds.Clear())

	res := env.labels.List(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, api.MsgAuthRequired, res.Message)
}
