package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/format"
)

func init() {
	rootCmd.AddCommand(listFormatsCmd)
}

var listFormatsCmd = &cobra.Command{
	Use:   "list-formats",
	Short: "List the supported formats",
	Run: func(c *cobra.Command, _ []string) {
		for _, f := range format.All() {
			fmt.Fprintf(c.OutOrStdout(), "%-15s %s\n", f, f.Description())
		}
	},
}
