package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/discover"
	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/format"
	"github.com/thoreinstein/polyrc/internal/paths"
)

var discoverFlags struct {
	user   bool
	format string
}

func init() {
	f := discoverCmd.Flags()
	f.BoolVar(&discoverFlags.user, "user", false, "report user-level config locations")
	f.StringVar(&discoverFlags.format, "format", "", "limit the report to one format")

	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Report where tools keep their user-level configs",
	Long: `Discover reports the canonical user-level config location for each
format and whether anything is there. It reads nothing beyond file
sizes; use pull-format or convert to actually move rules.`,
	Example: `  polyrc discover --user
  polyrc discover --user --format claude`,
	RunE: func(c *cobra.Command, _ []string) error {
		if !discoverFlags.user {
			return polyerrors.NewUserError(nil, "specify --user to discover user-level configs")
		}

		formats := format.All()
		if discoverFlags.format != "" {
			f, err := parseFormatFlag(discoverFlags.format)
			if err != nil {
				return err
			}
			formats = []format.Format{f}
		}

		home, err := paths.ResolveHome()
		if err != nil {
			return err
		}
		ctx := discover.Context{Home: home, ConfigDir: paths.ConfigHome()}
		discover.Report(c.OutOrStdout(), ctx, formats)
		return nil
	},
}
