package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/La-Phoenix/bugtrackr/internal/guard"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a BugTrackr server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set BUGTRACKR_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set BUGTRACKR_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("BUGTRACKR_EMAIL")
	}
	if password == "" {
		password = os.Getenv("BUGTRACKR_PASSWORD")
	}

	// Validate email
	if email == "" {
		return fmt.Errorf("email is required (use --email flag or BUGTRACKR_EMAIL env var)")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.session.Close()

	// Public-route guard: an authenticated visitor is sent to the app, not
	// the login form
	decision := guard.Public(a.session.Snapshot(), a.cfg.Landing)
	if decision.State == guard.RedirectToApp {
		snap := a.session.Snapshot()
		fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s. Run 'bugtrackr logout' to switch accounts.\n", snap.User.Email)
		return nil
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or BUGTRACKR_PASSWORD env var)")
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logging in to %s...\n", a.cfg.ServerURL)

	if err := a.session.Login(cmd.Context(), email, password); err != nil {
		return err
	}

	snap := a.session.Snapshot()
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Login successful!")
	fmt.Fprintf(cmd.OutOrStdout(), "  User: %s (%s)\n", snap.User.Name, snap.User.Email)
	if snap.User.IsAdmin {
		fmt.Fprintln(cmd.OutOrStdout(), "  Role: Admin")
	}

	return nil
}
