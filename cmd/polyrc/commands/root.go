// Package commands implements the CLI commands for polyrc.
package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// log is the process logger, configured in setupLogging before any
// command runs.
var log = logging.Default()

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("polyrc version {{.Version}}\n")

	// Silence errors and usage so main controls error output.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "polyrc",
	Short: "Convert AI coding assistant configs between tools",
	Long: `polyrc converts the rule and instruction files used by AI coding
assistants (Cursor, Windsurf, GitHub Copilot, Claude Code, Gemini CLI,
Google Antigravity) between their native on-disk formats, via a shared
intermediate representation.

Rules can also be kept in a git-backed local store, pushed to and pulled
from any supported format, and synced across machines through a git
remote.`,
	Example: `  # Convert Cursor rules to Windsurf in place
  polyrc convert --from cursor --to windsurf --input . --output .

  # Keep a project's rules in the store
  polyrc init
  polyrc push-format cursor --input . --project myapp

  # Write them back out for another tool
  polyrc pull-format claude --output . --project myapp`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the process logger from the verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbosity >= 1:
		level = slog.LevelDebug
	}

	log = logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(logFormat),
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(ctx)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
