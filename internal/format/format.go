// Package format defines the closed set of supported tool formats and
// resolves each to its Parser and Writer. The set is fixed and small, so
// dispatch is an exhaustive switch rather than an open plugin registry.
package format

import (
	"log/slog"
	"strings"

	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/format/antigravity"
	"github.com/thoreinstein/polyrc/internal/format/claude"
	"github.com/thoreinstein/polyrc/internal/format/copilot"
	"github.com/thoreinstein/polyrc/internal/format/cursor"
	"github.com/thoreinstein/polyrc/internal/format/gemini"
	"github.com/thoreinstein/polyrc/internal/format/windsurf"
	"github.com/thoreinstein/polyrc/internal/ir"
)

// Parser reads a tool-specific configuration location rooted at a
// directory and produces rules. Parsing never mutates the filesystem and
// returns an empty slice, not an error, when no recognizable config
// exists at root.
type Parser interface {
	Parse(root string) ([]ir.Rule, error)
}

// Writer writes rules to the tool-specific configuration location under
// target, creating directories as needed. Writes are idempotent for a
// fixed input and never delete files beyond the ones they produce.
type Writer interface {
	Write(rules []ir.Rule, target string) error
}

// Format identifies one supported tool format.
type Format string

// The supported formats.
const (
	Cursor      Format = "cursor"
	Windsurf    Format = "windsurf"
	Copilot     Format = "copilot"
	Claude      Format = "claude"
	Gemini      Format = "gemini"
	Antigravity Format = "antigravity"
)

// All returns every supported format in display order.
func All() []Format {
	return []Format{Cursor, Windsurf, Copilot, Claude, Gemini, Antigravity}
}

// Names returns the canonical format names.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = string(f)
	}
	return names
}

// Parse resolves a user-supplied format name, including documented
// aliases, to a Format. Unknown names fail with an error listing the
// valid choices.
func Parse(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "cursor":
		return Cursor, nil
	case "windsurf":
		return Windsurf, nil
	case "copilot", "github-copilot", "ghcopilot":
		return Copilot, nil
	case "claude", "claude-code":
		return Claude, nil
	case "gemini", "gemini-cli":
		return Gemini, nil
	case "antigravity", "google-antigravity":
		return Antigravity, nil
	default:
		return "", &polyerrors.UnknownFormatError{Name: name, Valid: Names()}
	}
}

// Description returns a one-line summary of the format's on-disk layout.
func (f Format) Description() string {
	switch f {
	case Cursor:
		return "Cursor (.cursor/rules/*.mdc, YAML frontmatter)"
	case Windsurf:
		return "Windsurf (.windsurf/rules/*.md, plain markdown)"
	case Copilot:
		return "GitHub Copilot (.github/copilot-instructions.md + .github/instructions/)"
	case Claude:
		return "Claude Code (CLAUDE.md + .claude/{rules,commands,skills,agents})"
	case Gemini:
		return "Gemini CLI (GEMINI.md)"
	case Antigravity:
		return "Google Antigravity (.agent/rules/*.md)"
	default:
		return ""
	}
}

// Parser returns the parser for the format.
func (f Format) Parser() Parser {
	switch f {
	case Cursor:
		return cursor.Parser{}
	case Windsurf:
		return windsurf.Parser{}
	case Copilot:
		return copilot.Parser{}
	case Claude:
		return claude.Parser{}
	case Gemini:
		return gemini.Parser{}
	case Antigravity:
		return antigravity.Parser{}
	default:
		return nil
	}
}

// Writer returns the writer for the format. The logger receives advisory
// warnings (e.g. Windsurf size limits); writes still succeed when a
// warning fires.
func (f Format) Writer(log *slog.Logger) Writer {
	switch f {
	case Cursor:
		return cursor.Writer{}
	case Windsurf:
		return windsurf.NewWriter(log)
	case Copilot:
		return copilot.Writer{}
	case Claude:
		return claude.Writer{}
	case Gemini:
		return gemini.Writer{}
	case Antigravity:
		return antigravity.Writer{}
	default:
		return nil
	}
}
