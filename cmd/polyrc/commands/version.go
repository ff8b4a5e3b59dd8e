package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/cmd"
)

// version backs the --version flag on the root command.
const version = "0.1.0"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of polyrc.`,
	Run: func(c *cobra.Command, _ []string) {
		fmt.Fprintf(c.OutOrStdout(), "polyrc version %s\n", cmd.Version)
		fmt.Fprintf(c.OutOrStdout(), "  commit: %s\n", cmd.Commit)
		fmt.Fprintf(c.OutOrStdout(), "  built:  %s\n", cmd.Date)
	},
}
