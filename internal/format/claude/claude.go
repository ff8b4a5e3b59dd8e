// Package claude implements the Claude Code codec.
//
// Two layouts are supported. In the project layout, root is a project
// directory holding CLAUDE.md plus a .claude/ subdirectory with rules/,
// commands/, skills/, agents/, and settings.json. In the user layout,
// root is the ~/.claude directory itself (detected by its basename) and
// the same entries sit directly under it.
//
// Activation mapping: CLAUDE.md and rules/* are always-on, commands/* are
// on-demand slash commands, skills/*/SKILL.md and agents/* are
// ai-decides. settings.json round-trips as a fenced json block and is
// written back as raw JSON. Empty files are skipped entirely.
package claude

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// settingsRuleName is the reserved rule name carrying settings.json.
const settingsRuleName = "settings"

// Parser reads the Claude Code layout.
type Parser struct{}

// Writer writes the Claude Code layout.
type Writer struct{}

// layout resolves the on-disk directories for a root, depending on
// whether root is the .claude config dir itself or a project root.
type layout struct {
	root     string
	user     bool
	rules    string
	commands string
	skills   string
	agents   string
	settings string
}

func resolveLayout(root string) layout {
	user := filepath.Base(root) == ".claude"
	base := root
	if !user {
		base = filepath.Join(root, ".claude")
	}
	return layout{
		root:     root,
		user:     user,
		rules:    filepath.Join(base, "rules"),
		commands: filepath.Join(base, "commands"),
		skills:   filepath.Join(base, "skills"),
		agents:   filepath.Join(base, "agents"),
		settings: filepath.Join(base, "settings.json"),
	}
}

func (l layout) scope() ir.Scope {
	if l.user {
		return ir.ScopeUser
	}
	return ir.ScopeProject
}

// Parse reads CLAUDE.md, rules/, commands/, skills/, agents/, and
// settings.json in that order.
func (Parser) Parse(root string) ([]ir.Rule, error) {
	l := resolveLayout(root)
	scope := l.scope()

	var rules []ir.Rule

	mainFile := filepath.Join(root, "CLAUDE.md")
	if _, err := os.Stat(mainFile); err == nil {
		raw, err := fileutil.ReadFile(mainFile)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", mainFile)
		}
		if strings.TrimSpace(string(raw)) != "" {
			rules = append(rules, ir.Rule{
				Scope:      scope,
				Activation: ir.ActivationAlways,
				Name:       "claude",
				Content:    strings.TrimRight(string(raw), " \t\r\n"),
			})
		}
	}

	if err := parseMarkdownDir(l.rules, scope, ir.ActivationAlways, &rules); err != nil {
		return nil, err
	}
	if err := parseMarkdownDir(l.commands, scope, ir.ActivationOnDemand, &rules); err != nil {
		return nil, err
	}
	if err := parseSkillDir(l.skills, scope, &rules); err != nil {
		return nil, err
	}
	if err := parseMarkdownDir(l.agents, scope, ir.ActivationAIDecides, &rules); err != nil {
		return nil, err
	}

	if _, err := os.Stat(l.settings); err == nil {
		raw, err := fileutil.ReadFile(l.settings)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", l.settings)
		}
		if strings.TrimSpace(string(raw)) != "" {
			rules = append(rules, ir.Rule{
				Scope:      scope,
				Activation: ir.ActivationAlways,
				Name:       settingsRuleName,
				Content:    fenceJSON(string(raw)),
			})
		}
	}

	return rules, nil
}

// parseMarkdownDir reads every *.md directly inside dir as one rule each,
// skipping empty files.
func parseMarkdownDir(dir string, scope ir.Scope, activation ir.Activation, rules *[]ir.Rule) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		raw, err := fileutil.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		if strings.TrimSpace(string(raw)) == "" {
			continue
		}
		*rules = append(*rules, ir.Rule{
			Scope:      scope,
			Activation: activation,
			Name:       strings.TrimSuffix(entry.Name(), ".md"),
			Content:    strings.TrimRight(string(raw), " \t\r\n"),
		})
	}
	return nil
}

// parseSkillDir reads skills/*/SKILL.md; each skill is a subdirectory and
// the subdirectory name is the skill name.
func parseSkillDir(dir string, scope ir.Scope, rules *[]ir.Rule) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", dir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillFile := filepath.Join(dir, entry.Name(), "SKILL.md")
		raw, err := fileutil.ReadFile(skillFile)
		if err != nil {
			if os.IsNotExist(errors.UnwrapAll(err)) {
				continue
			}
			return errors.Wrapf(err, "reading %s", skillFile)
		}
		if strings.TrimSpace(string(raw)) == "" {
			continue
		}
		*rules = append(*rules, ir.Rule{
			Scope:      scope,
			Activation: ir.ActivationAIDecides,
			Name:       entry.Name(),
			Content:    strings.TrimRight(string(raw), " \t\r\n"),
		})
	}
	return nil
}

// Write routes rules back into the Claude layout by activation: always-on
// rules land in CLAUDE.md (single rule) or rules/, on-demand rules in
// commands/, ai-decides rules in skills/<name>/SKILL.md, and the settings
// rule back in settings.json with its fence stripped.
func (Writer) Write(rules []ir.Rule, target string) error {
	if len(rules) == 0 {
		return nil
	}

	l := resolveLayout(target)

	// A lone always-on rule is the plain CLAUDE.md case.
	if len(rules) == 1 && rules[0].Activation == ir.ActivationAlways && !isSettingsRule(rules[0]) {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", target)
		}
		path := filepath.Join(target, "CLAUDE.md")
		content := strings.TrimRight(rules[0].Content, " \t\r\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		return nil
	}

	for _, rule := range rules {
		var path string
		switch {
		case isSettingsRule(rule):
			path = l.settings
		case rule.Name == "claude" && rule.Activation == ir.ActivationAlways:
			path = filepath.Join(target, "CLAUDE.md")
		case rule.Activation == ir.ActivationOnDemand:
			path = filepath.Join(l.commands, rule.FilenameStem()+".md")
		case rule.Activation == ir.ActivationAIDecides:
			path = filepath.Join(l.skills, rule.FilenameStem(), "SKILL.md")
		default:
			path = filepath.Join(l.rules, rule.FilenameStem()+".md")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", filepath.Dir(path))
		}

		content := strings.TrimRight(rule.Content, " \t\r\n") + "\n"
		if isSettingsRule(rule) {
			content = unfenceJSON(rule.Content) + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}

func isSettingsRule(r ir.Rule) bool {
	return r.Name == settingsRuleName && strings.HasPrefix(strings.TrimSpace(r.Content), "```json")
}

// fenceJSON wraps raw JSON in a markdown code fence so it survives the
// trip through opaque rule content.
func fenceJSON(raw string) string {
	return "```json\n" + strings.TrimRight(raw, " \t\r\n") + "\n```"
}

// unfenceJSON strips the code fence added by fenceJSON, returning the
// content untouched when it is not fenced.
func unfenceJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	rest, ok := strings.CutPrefix(trimmed, "```json")
	if !ok {
		return strings.TrimRight(content, " \t\r\n")
	}
	rest = strings.TrimPrefix(rest, "\n")
	rest, _ = strings.CutSuffix(rest, "```")
	return strings.TrimRight(rest, " \t\r\n")
}
