package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/convert"
)

var pushFormatFlags struct {
	input   string
	project string
	scope   string
	dryRun  bool
}

func init() {
	f := pushFormatCmd.Flags()
	f.StringVar(&pushFormatFlags.input, "input", ".", "directory to read the source config from")
	f.StringVar(&pushFormatFlags.project, "project", "", "store namespace to save into (omit for user-scope rules)")
	f.StringVar(&pushFormatFlags.scope, "scope", "", "only push rules with this scope: user, project, path")
	f.BoolVar(&pushFormatFlags.dryRun, "dry-run", false, "print what would be stored without writing")

	rootCmd.AddCommand(pushFormatCmd)
}

var pushFormatCmd = &cobra.Command{
	Use:   "push-format <format>",
	Short: "Parse a format and save its rules into the store",
	Long: `Push-format parses the given format's files under --input and saves
the resulting rules into the store, replacing the namespace's previous
contents and committing the change. Rules keep their identity across
pushes when their names match.`,
	Example: `  polyrc push-format cursor --input . --project myapp
  polyrc push-format windsurf --scope user`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		f, err := parseFormatFlag(args[0])
		if err != nil {
			return err
		}
		scope, err := parseScopeFlag(pushFormatFlags.scope)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}

		return convert.New(c.OutOrStdout(), log).Push(st, convert.PushOptions{
			Format:  f,
			Input:   pushFormatFlags.input,
			Project: projectKey(pushFormatFlags.project, scope),
			Scope:   scope,
			DryRun:  pushFormatFlags.dryRun,
		})
	},
}
