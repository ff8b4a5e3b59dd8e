package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/convert"
)

var convertFlags struct {
	from    string
	to      string
	input   string
	output  string
	scope   string
	path    string
	project string
	dryRun  bool
}

func init() {
	f := convertCmd.Flags()
	f.StringVar(&convertFlags.from, "from", "", "source format (required)")
	f.StringVar(&convertFlags.to, "to", "", "target format (required)")
	f.StringVar(&convertFlags.input, "input", ".", "directory to read the source config from")
	f.StringVar(&convertFlags.output, "output", ".", "directory to write the target config to")
	f.StringVar(&convertFlags.scope, "scope", "", "only convert rules with this scope: user, project, path")
	f.StringVar(&convertFlags.path, "path", "", "only convert rules active for this file path (always-on and matching glob rules)")
	f.StringVar(&convertFlags.project, "project", "", "route the conversion through the store under this project")
	f.BoolVar(&convertFlags.dryRun, "dry-run", false, "print what would be written without writing")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a config from one format to another",
	Long: `Convert parses the source format's files under --input, maps them to
the shared rule representation, and writes them under --output in the
target format.

With --project the rules are additionally persisted in the store under
that project before being written out.`,
	Example: `  polyrc convert --from cursor --to windsurf --input . --output .
  polyrc convert --from claude --to copilot --project myapp`,
	RunE: func(c *cobra.Command, _ []string) error {
		from, err := parseFormatFlag(convertFlags.from)
		if err != nil {
			return err
		}
		to, err := parseFormatFlag(convertFlags.to)
		if err != nil {
			return err
		}
		scope, err := parseScopeFlag(convertFlags.scope)
		if err != nil {
			return err
		}

		conv := convert.New(c.OutOrStdout(), log)

		if convertFlags.project != "" {
			st, err := openStore()
			if err != nil {
				return err
			}
			return conv.ViaStore(st, convert.ViaStoreOptions{
				From:    from,
				To:      to,
				Input:   convertFlags.input,
				Output:  convertFlags.output,
				Project: convertFlags.project,
				Scope:   scope,
				Path:    convertFlags.path,
				DryRun:  convertFlags.dryRun,
			})
		}

		return conv.Direct(convert.DirectOptions{
			From:   from,
			To:     to,
			Input:  convertFlags.input,
			Output: convertFlags.output,
			Scope:  scope,
			Path:   convertFlags.path,
			DryRun: convertFlags.dryRun,
		})
	},
}
