// Package antigravity implements the Google Antigravity codec: plain
// markdown files under .agent/rules/ in a project, with the older
// .agents/rules/ spelling still honored on read. The user layout keeps a
// bare rules/ directory directly under the given root.
package antigravity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// Parser reads .agent/rules/*.md (or the legacy .agents/rules/).
type Parser struct{}

// Writer writes .agent/rules/*.md.
type Writer struct{}

// projectRulesDir picks the project rules directory, preferring the
// current .agent spelling over the legacy .agents one.
func projectRulesDir(root string) (string, bool) {
	current := filepath.Join(root, ".agent", "rules")
	if _, err := os.Stat(current); err == nil {
		return current, true
	}
	legacy := filepath.Join(root, ".agents", "rules")
	if _, err := os.Stat(legacy); err == nil {
		return legacy, true
	}
	return "", false
}

// Parse reads the user layout (a bare rules/ directory at root) when no
// project layout exists, otherwise the project layout.
func (Parser) Parse(root string) ([]ir.Rule, error) {
	dir, ok := projectRulesDir(root)
	scope := ir.ScopeProject
	if !ok {
		userDir := filepath.Join(root, "rules")
		if _, err := os.Stat(userDir); err != nil {
			return nil, nil
		}
		dir = userDir
		scope = ir.ScopeUser
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var rules []ir.Rule
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := fileutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		rules = append(rules, ir.Rule{
			Scope:      scope,
			Activation: ir.ActivationAlways,
			Name:       strings.TrimSuffix(entry.Name(), ".md"),
			Content:    strings.TrimRight(string(raw), " \t\r\n"),
		})
	}
	return rules, nil
}

// Write emits one markdown file per rule. User-scoped rule sets go to
// target/rules, projects to target/.agent/rules; the legacy .agents
// spelling is never written.
func (Writer) Write(rules []ir.Rule, target string) error {
	isUser := false
	for _, r := range rules {
		if r.Scope == ir.ScopeUser {
			isUser = true
			break
		}
	}

	rulesDir := filepath.Join(target, ".agent", "rules")
	if isUser {
		rulesDir = filepath.Join(target, "rules")
	}
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", rulesDir)
	}

	for _, rule := range rules {
		path := filepath.Join(rulesDir, rule.FilenameStem()+".md")
		content := strings.TrimRight(rule.Content, " \t\r\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}
