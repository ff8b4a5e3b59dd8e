// Package windsurf implements the Windsurf codec: plain markdown files
// under .windsurf/rules/ (project) or a single global_rules.md (user).
//
// Windsurf enforces size limits on rule content. polyrc treats them as
// soft limits: oversized writes warn but still succeed.
package windsurf

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/polyrc/internal/format/gemini"
	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// Windsurf's documented limits, in characters.
const (
	FileCharLimit  = 6000
	TotalCharLimit = 12000
)

// Parser reads .windsurf/rules/*.md or global_rules.md.
type Parser struct{}

// Writer writes .windsurf/rules/*.md or global_rules.md. Advisory
// warnings go to Log.
type Writer struct {
	Log *slog.Logger
}

// NewWriter returns a Writer reporting advisory warnings to log.
// A nil log falls back to slog.Default.
func NewWriter(log *slog.Logger) Writer {
	if log == nil {
		log = slog.Default()
	}
	return Writer{Log: log}
}

// Parse reads the user layout (a global_rules.md directly at root) or the
// project layout (.windsurf/rules/*.md), in that order of detection.
func (Parser) Parse(root string) ([]ir.Rule, error) {
	globalRules := filepath.Join(root, "global_rules.md")
	if _, err := os.Stat(globalRules); err == nil {
		raw, err := fileutil.ReadFile(globalRules)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", globalRules)
		}
		if strings.TrimSpace(string(raw)) == "" {
			return nil, nil
		}
		return []ir.Rule{{
			Scope:      ir.ScopeUser,
			Activation: ir.ActivationAlways,
			Name:       "global-rules",
			Content:    strings.TrimRight(string(raw), " \t\r\n"),
		}}, nil
	}

	rulesDir := filepath.Join(root, ".windsurf", "rules")
	entries, err := os.ReadDir(rulesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", rulesDir)
	}

	var rules []ir.Rule
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(rulesDir, entry.Name())
		raw, err := fileutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		rules = append(rules, ir.Rule{
			Scope:      ir.ScopeProject,
			Activation: ir.ActivationAlways,
			Name:       strings.TrimSuffix(entry.Name(), ".md"),
			Content:    strings.TrimRight(string(raw), " \t\r\n"),
		})
	}
	return rules, nil
}

// Write emits the user layout (global_rules.md at target) when any rule
// is user-scoped, otherwise one file per rule under .windsurf/rules.
func (w Writer) Write(rules []ir.Rule, target string) error {
	isUser := false
	for _, r := range rules {
		if r.Scope == ir.ScopeUser {
			isUser = true
			break
		}
	}

	if isUser {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", target)
		}
		path := filepath.Join(target, "global_rules.md")
		content := gemini.JoinRules(rules)
		w.warnFileLimit("global-rules", content)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		return nil
	}

	rulesDir := filepath.Join(target, ".windsurf", "rules")
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", rulesDir)
	}

	total := 0
	for _, rule := range rules {
		content := strings.TrimRight(rule.Content, " \t\r\n") + "\n"
		name := rule.Name
		if name == "" {
			name = "rule"
		}

		w.warnFileLimit(name, content)
		total += utf8.RuneCountInString(content)

		path := filepath.Join(rulesDir, rule.FilenameStem()+".md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}

	if total > TotalCharLimit {
		w.log().Warn("total rules content exceeds Windsurf limit",
			"chars", total, "limit", TotalCharLimit)
	}
	return nil
}

func (w Writer) warnFileLimit(name, content string) {
	if n := utf8.RuneCountInString(content); n > FileCharLimit {
		w.log().Warn("rule exceeds Windsurf per-file limit",
			"rule", name, "chars", n, "limit", FileCharLimit)
	}
}

func (w Writer) log() *slog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return slog.Default()
}
