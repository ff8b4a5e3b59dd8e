package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListFormats(t *testing.T) {
	out, err := execute(t, "list-formats")
	require.NoError(t, err)

	for _, name := range []string{"cursor", "windsurf", "copilot", "claude", "gemini", "antigravity"} {
		assert.Contains(t, out, name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "polyrc version")
	assert.Contains(t, out, "commit:")
	assert.Contains(t, out, "built:")
}

func TestDiscoverRequiresUserFlag(t *testing.T) {
	_, err := execute(t, "discover")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user")
}

func TestConvertRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "convert", "--from", "emacs", "--to", "cursor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestInitRejectsNonURLRepo(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := execute(t, "init", "--repo", "not-a-remote")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git URL")
}

func TestQuietAndVerboseConflict(t *testing.T) {
	_, err := execute(t, "list-formats", "-q", "-v")
	require.Error(t, err)

	// Reset for subsequent tests sharing the package-level flags.
	quiet = false
	verbosity = 0
}
