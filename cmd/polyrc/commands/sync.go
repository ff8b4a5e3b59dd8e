package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/git"
)

func init() {
	rootCmd.AddCommand(pushStoreCmd)
	rootCmd.AddCommand(pullStoreCmd)
}

var pushStoreCmd = &cobra.Command{
	Use:   "push-store",
	Short: "Push the store to its git remote",
	RunE: func(c *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), "Pushing store to remote...")
		if err := git.Push(st.Path); err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), "Done.")
		return nil
	},
}

var pullStoreCmd = &cobra.Command{
	Use:   "pull-store",
	Short: "Pull the store from its git remote",
	Long: `Pull-store fetches and merges the remote store. Git performs the
textual merge; afterwards every namespace is re-saved so record IDs and
metadata stay consistent with the merged files.`,
	RunE: func(c *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		fmt.Fprintln(c.OutOrStdout(), "Pulling from remote...")
		if err := git.Pull(st.Path); err != nil {
			return err
		}

		projects, err := st.ListProjects()
		if err != nil {
			return err
		}
		for _, project := range projects {
			rules, err := st.LoadRules(project)
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				continue
			}
			if _, err := st.SaveRules(project, rules, "pull-store"); err != nil {
				return err
			}
		}

		fmt.Fprintln(c.OutOrStdout(), "Pull complete.")
		return nil
	},
}
