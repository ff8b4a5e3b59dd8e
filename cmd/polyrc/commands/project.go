package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/git"
)

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectRenameCmd)
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage store projects",
	Run: func(c *cobra.Command, _ []string) {
		_ = c.Help()
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in the store",
	RunE: func(c *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		projects, err := st.ListProjects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Fprintln(c.OutOrStdout(), "No projects in store.")
			return nil
		}

		fmt.Fprintln(c.OutOrStdout(), "Projects in store:")
		for _, p := range projects {
			rules, err := st.LoadRules(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "  %s (%d rule(s))\n", p, len(rules))
		}
		return nil
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a project in the store",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		oldName, newName := args[0], args[1]
		if err := st.RenameProject(oldName, newName); err != nil {
			return err
		}
		msg := fmt.Sprintf("rename project %s to %s", oldName, newName)
		if err := git.Commit(st.Path, msg); err != nil {
			return err
		}
		fmt.Fprintf(c.OutOrStdout(), "Renamed %q to %q and committed.\n", oldName, newName)
		return nil
	},
}
