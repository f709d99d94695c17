package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/La-Phoenix/bugtrackr/internal/api"
)

// NewLabelsCmd creates the labels command group
func NewLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage issue labels",
	}

	cmd.AddCommand(newLabelsListCmd())
	cmd.AddCommand(newLabelsCreateCmd())
	cmd.AddCommand(newLabelsDeleteCmd())

	return cmd
}

func newLabelsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("labels ls"); err != nil {
				return err
			}

			res := a.labels.List(cmd.Context())
			if !res.Success {
				return errors.New(res.Message)
			}

			if len(res.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No labels found.")
				fmt.Fprintln(cmd.OutOrStdout(), "\nCreate a label with: bugtrackr labels create --name <name>")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tCREATED AT")
			fmt.Fprintln(w, "──\t────\t─────\t──────────")

			for _, label := range res.Data {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					label.ID,
					label.Name,
					label.Color,
					label.CreatedAt.Local().Format("2006-01-02 15:04"),
				)
			}

			w.Flush()

			return nil
		},
	}
}

func newLabelsCreateCmd() *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new label",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("label name is required (use --name)")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("labels create"); err != nil {
				return err
			}

			res := a.labels.Create(cmd.Context(), api.CreateLabelRequest{
				Name:  name,
				Color: color,
			})
			if !res.Success {
				return errors.New(res.Message)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Label '%s' created (%s)\n", res.Data.Name, res.Data.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Label name")
	cmd.Flags().StringVar(&color, "color", "", "Label color as hex, e.g. #ff0000")

	return cmd
}

func newLabelsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <label-id>",
		Short: "Delete a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.session.Close()

			if err := a.requireAuth("labels rm"); err != nil {
				return err
			}

			res := a.labels.Delete(cmd.Context(), args[0])
			if !res.Success {
				return errors.New(res.Message)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Label deleted")
			return nil
		},
	}
}
