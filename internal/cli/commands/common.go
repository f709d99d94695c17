package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/La-Phoenix/bugtrackr/internal/api"
	"github.com/La-Phoenix/bugtrackr/internal/cli/userconfig"
	"github.com/La-Phoenix/bugtrackr/internal/credstore"
	"github.com/La-Phoenix/bugtrackr/internal/guard"
	"github.com/La-Phoenix/bugtrackr/internal/session"
)

// app wires the credential store, API client and session store for one
// command invocation
type app struct {
	cfg     *userconfig.UserConfig
	creds   credstore.Store
	client  *api.Client
	auth    *api.AuthService
	labels  *api.LabelService
	issues  *api.IssueService
	users   *api.UserService
	session *session.Store
}

// newApp builds the command context and initializes the session from the
// persisted credentials
func newApp() (*app, error) {
	cfg, err := userconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	creds, err := newCredStore()
	if err != nil {
		return nil, err
	}

	// CLI commands stay quiet unless something goes wrong
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()

	client := api.New(cfg.ServerURL, creds, log)
	authService := api.NewAuthService(client, creds)

	sess := session.New(creds, authService, log)
	// Any 401 anywhere forces the logout side effect
	client.OnAuthExpired(sess.Logout)
	sess.Initialize()

	return &app{
		cfg:     cfg,
		creds:   creds,
		client:  client,
		auth:    authService,
		labels:  api.NewLabelService(client),
		issues:  api.NewIssueService(client),
		users:   api.NewUserService(client),
		session: sess,
	}, nil
}

// newCredStore picks the credential backend. The OS keychain holds the token
// when BUGTRACKR_KEYRING=1; the JSON file store is the default so headless
// environments and tests behave identically.
func newCredStore() (credstore.Store, error) {
	path, err := credstore.DefaultPath()
	if err != nil {
		return nil, err
	}

	file := credstore.NewFileStore(path)
	if os.Getenv("BUGTRACKR_KEYRING") == "1" {
		return credstore.NewKeyringStore(file), nil
	}
	return file, nil
}

// requireAuth runs the protected-route guard for a command. An
// unauthenticated session yields an error naming the command the user was
// trying to reach.
func (a *app) requireAuth(command string) error {
	decision := guard.Protected(a.session.Snapshot(), command)
	switch decision.State {
	case guard.Authorized:
		return nil
	case guard.RedirectToLogin:
		return fmt.Errorf("not authenticated. Please run 'bugtrackr login' first, then retry '%s'", decision.Target)
	default:
		return fmt.Errorf("session state is still loading")
	}
}
