// Package gemini implements the Gemini CLI codec: a single GEMINI.md at
// the project root. Multiple rules are concatenated under "## <name>"
// headers; a single rule is written verbatim.
package gemini

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// Parser reads GEMINI.md.
type Parser struct{}

// Writer writes GEMINI.md.
type Writer struct{}

// Parse reads root/GEMINI.md as one always-on project rule.
func (Parser) Parse(root string) ([]ir.Rule, error) {
	path := filepath.Join(root, "GEMINI.md")
	raw, err := fileutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(errors.UnwrapAll(err)) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	return []ir.Rule{{
		Scope:      ir.ScopeProject,
		Activation: ir.ActivationAlways,
		Name:       "gemini",
		Content:    strings.TrimRight(string(raw), " \t\r\n"),
	}}, nil
}

// Write emits target/GEMINI.md. Nothing is written for an empty rule set.
func (Writer) Write(rules []ir.Rule, target string) error {
	if len(rules) == 0 {
		return nil
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", target)
	}
	path := filepath.Join(target, "GEMINI.md")
	if err := os.WriteFile(path, []byte(JoinRules(rules)), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// JoinRules concatenates rules into a single markdown document with
// section headers. A single rule is returned verbatim plus a trailing
// newline. Shared with the Windsurf user layout.
func JoinRules(rules []ir.Rule) string {
	if len(rules) == 1 {
		return rules[0].Content + "\n"
	}
	sections := make([]string, len(rules))
	for i, r := range rules {
		header := r.Name
		if header == "" {
			header = "Rule"
		}
		sections[i] = "## " + header + "\n\n" + strings.TrimRight(r.Content, " \t\r\n") + "\n"
	}
	return strings.Join(sections, "\n")
}
