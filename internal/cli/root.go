package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/La-Phoenix/bugtrackr/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "bugtrackr",
	Short: "BugTrackr - Issue tracking from the terminal",
	Long: `BugTrackr CLI - Manage issues, labels and your team against a
BugTrackr server. Credentials persist across invocations; signing out in one
terminal signs out every process sharing the same credential store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bugtrackr version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewLabelsCmd())
	rootCmd.AddCommand(commands.NewIssuesCmd())
	rootCmd.AddCommand(commands.NewTeamCmd())
	rootCmd.AddCommand(commands.NewServerCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
