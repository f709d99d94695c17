package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/La-Phoenix/bugtrackr/internal/api"
)

// NewIssuesCmd creates the issues command group
func NewIssuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Manage issues",
	}

	cmd.AddCommand(newIssuesListCmd())
	cmd.AddCommand(newIssuesCreateCmd())

	return cmd
}

func newIssuesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("issues ls"); err != nil {
				return err
			}

			res := a.issues.List(cmd.Context())
			if !res.Success {
				return errors.New(res.Message)
			}

			if len(res.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tCREATED AT")
			fmt.Fprintln(w, "──\t─────\t──────\t────────\t──────────")

			for _, issue := range res.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					issue.ID,
					issue.Title,
					issue.Status,
					issue.Priority,
					issue.CreatedAt.Local().Format("2006-01-02 15:04"),
				)
			}

			w.Flush()

			return nil
		},
	}
}

func newIssuesCreateCmd() *cobra.Command {
	var title, description, priority, assignee string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new issue",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("issue title is required (use --title)")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("issues create"); err != nil {
				return err
			}

			res := a.issues.Create(cmd.Context(), api.CreateIssueRequest{
				Title:       title,
				Description: description,
				Priority:    priority,
				AssigneeID:  assignee,
			})
			if !res.Success {
				return errors.New(res.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Issue '%s' created (%s)\n", res.Data.Title, res.Data.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Issue title")
	cmd.Flags().StringVar(&description, "description", "", "Issue description")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: low, medium, high, critical")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user ID")

	return cmd
}
