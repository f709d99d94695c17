package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("whoami"); err != nil {
				return err
			}

			if remote {
				// Ask the server instead of trusting the cached record
				res := a.auth.Me(cmd.Context())
				if !res.Success {
					return errors.New(res.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", res.Data.Name, res.Data.Email)
				return nil
			}

			snap := a.session.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", snap.User.Name, snap.User.Email)
			if snap.User.IsAdmin {
				fmt.Fprintln(cmd.OutOrStdout(), "Role: Admin")
			}
			if expiry, ok := a.session.TokenExpiry(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Token expires: %s\n", expiry.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Verify against the server instead of the cached session")

	return cmd
}
