package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/La-Phoenix/bugtrackr/internal/cli/userconfig"
)

// NewServerCmd creates the server command for pointing the CLI at an API
func NewServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [url]",
		Short: "Show or set the BugTrackr server URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cfg, err := userconfig.Load()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cfg.ServerURL)
				return nil
			}

			if err := userconfig.SetServerURL(args[0]); err != nil {
				return fmt.Errorf("failed to save server URL: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Server set to %s\n", args[0])
			return nil
		},
	}
}
