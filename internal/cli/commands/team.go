package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/La-Phoenix/bugtrackr/internal/team"
)

// NewTeamCmd creates the team performance command
func NewTeamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "team",
		Short: "Show per-member issue metrics (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("team"); err != nil {
				return err
			}

			members, err := team.Load(cmd.Context(), a.users, a.issues)
			if err != nil {
				return err
			}

			if len(members) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No team members found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEMAIL\tASSIGNED\tRESOLVED\tRATE")
			fmt.Fprintln(w, "────\t─────\t────────\t────────\t────")

			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f%%\n",
					m.User.Name,
					m.User.Email,
					m.Assigned,
					m.Resolved,
					m.ResolutionRate*100,
				)
			}

			w.Flush()

			return nil
		},
	}
}
