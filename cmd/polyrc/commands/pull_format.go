package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/convert"
)

var pullFormatFlags struct {
	output  string
	project string
	scope   string
	path    string
	dryRun  bool
}

func init() {
	f := pullFormatCmd.Flags()
	f.StringVar(&pullFormatFlags.output, "output", ".", "directory to write the config to")
	f.StringVar(&pullFormatFlags.project, "project", "", "store namespace to load from (omit for user-scope rules)")
	f.StringVar(&pullFormatFlags.scope, "scope", "", "only pull rules with this scope: user, project, path")
	f.StringVar(&pullFormatFlags.path, "path", "", "only pull rules active for this file path (always-on and matching glob rules)")
	f.BoolVar(&pullFormatFlags.dryRun, "dry-run", false, "print what would be written without writing")

	rootCmd.AddCommand(pullFormatCmd)
}

var pullFormatCmd = &cobra.Command{
	Use:   "pull-format <format>",
	Short: "Write stored rules out as a format",
	Long: `Pull-format loads a namespace's rules from the store and writes them
under --output in the given format's native layout.`,
	Example: `  polyrc pull-format claude --output . --project myapp
  polyrc pull-format windsurf --scope user --output ~/.codeium/windsurf/memories`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		f, err := parseFormatFlag(args[0])
		if err != nil {
			return err
		}
		scope, err := parseScopeFlag(pullFormatFlags.scope)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}

		return convert.New(c.OutOrStdout(), log).Pull(st, convert.PullOptions{
			Format:  f,
			Output:  pullFormatFlags.output,
			Project: projectKey(pullFormatFlags.project, scope),
			Scope:   scope,
			Path:    pullFormatFlags.path,
			DryRun:  pullFormatFlags.dryRun,
		})
	},
}
