// Package copilot implements the GitHub Copilot codec:
// .github/copilot-instructions.md for project-wide always-on rules, and
// .github/instructions/*.instructions.md for path-scoped rules with
// name/description/applyTo frontmatter.
package copilot

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
	"github.com/thoreinstein/polyrc/pkg/frontmatter"
)

const instructionsSuffix = ".instructions.md"

// Parser reads the .github instruction files.
type Parser struct{}

// Writer writes the .github instruction files.
type Writer struct{}

type matter struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	ApplyTo     string `yaml:"applyTo,omitempty"`
}

// Parse reads the project-wide instructions file and every
// *.instructions.md under .github/instructions in filename order.
func (Parser) Parse(root string) ([]ir.Rule, error) {
	var rules []ir.Rule

	mainFile := filepath.Join(root, ".github", "copilot-instructions.md")
	if _, err := os.Stat(mainFile); err == nil {
		raw, err := fileutil.ReadFile(mainFile)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", mainFile)
		}
		if strings.TrimSpace(string(raw)) != "" {
			rules = append(rules, ir.Rule{
				Scope:      ir.ScopeProject,
				Activation: ir.ActivationAlways,
				Name:       "copilot-instructions",
				Content:    strings.TrimRight(string(raw), " \t\r\n"),
			})
		}
	}

	instructionsDir := filepath.Join(root, ".github", "instructions")
	entries, err := os.ReadDir(instructionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return nil, errors.Wrapf(err, "reading %s", instructionsDir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), instructionsSuffix) {
			continue
		}
		path := filepath.Join(instructionsDir, entry.Name())

		raw, err := fileutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}

		var fm matter
		body, err := frontmatter.Parse(raw, &fm)
		if err != nil {
			return nil, polyerrors.NewParseError(path, err)
		}

		name := fm.Name
		if name == "" {
			name = strings.TrimSuffix(entry.Name(), instructionsSuffix)
		}

		activation := ir.ActivationAlways
		var globs []string
		if fm.ApplyTo != "" {
			activation = ir.ActivationGlob
			globs = []string{fm.ApplyTo}
		}

		rules = append(rules, ir.Rule{
			Scope:       ir.ScopePath,
			Activation:  activation,
			Globs:       globs,
			Name:        name,
			Description: fm.Description,
			Content:     strings.TrimRight(string(body), " \t\r\n"),
		})
	}
	return rules, nil
}

// Write splits rules into project-wide instructions (everything without
// globs) and path-scoped instruction files (glob-activated rules).
func (Writer) Write(rules []ir.Rule, target string) error {
	var alwaysRules, globRules []ir.Rule
	for _, r := range rules {
		if r.Activation == ir.ActivationGlob || len(r.Globs) > 0 {
			globRules = append(globRules, r)
		} else {
			alwaysRules = append(alwaysRules, r)
		}
	}

	if len(alwaysRules) > 0 {
		githubDir := filepath.Join(target, ".github")
		if err := os.MkdirAll(githubDir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", githubDir)
		}

		var content string
		if len(alwaysRules) == 1 {
			content = strings.TrimRight(alwaysRules[0].Content, " \t\r\n") + "\n"
		} else {
			sections := make([]string, len(alwaysRules))
			for i, r := range alwaysRules {
				header := r.Name
				if header == "" {
					header = "Rule"
				}
				sections[i] = "## " + header + "\n\n" + strings.TrimRight(r.Content, " \t\r\n") + "\n"
			}
			content = strings.Join(sections, "\n")
		}

		path := filepath.Join(githubDir, "copilot-instructions.md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}

	if len(globRules) > 0 {
		instructionsDir := filepath.Join(target, ".github", "instructions")
		if err := os.MkdirAll(instructionsDir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", instructionsDir)
		}

		for _, rule := range globRules {
			fm := matter{
				Name:        rule.Name,
				Description: rule.Description,
			}
			if len(rule.Globs) > 0 {
				fm.ApplyTo = rule.Globs[0]
			}

			content, err := frontmatter.Format(fm, strings.TrimRight(rule.Content, " \t\r\n"))
			if err != nil {
				return polyerrors.NewParseError(instructionsDir, err)
			}

			path := filepath.Join(instructionsDir, rule.FilenameStem()+instructionsSuffix)
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", path)
			}
		}
	}
	return nil
}
