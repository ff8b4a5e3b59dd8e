// Package cursor implements the Cursor codec: one .mdc file per rule
// under .cursor/rules/, with a YAML frontmatter block carrying
// description, globs, and alwaysApply.
package cursor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
	"github.com/thoreinstein/polyrc/pkg/frontmatter"
)

// Parser reads .cursor/rules/*.mdc.
type Parser struct{}

// Writer writes .cursor/rules/*.mdc.
type Writer struct{}

// globList accepts Cursor's two spellings of the globs field: a YAML
// sequence, or a single (optionally comma-separated) string.
type globList []string

func (g *globList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		*g = out
		return nil
	default:
		var v []string
		if err := value.Decode(&v); err != nil {
			return err
		}
		*g = v
		return nil
	}
}

type matterIn struct {
	// Pointer so that an explicitly empty description still marks the
	// rule as description-activated; only an absent key means on-demand.
	Description *string  `yaml:"description"`
	Globs       globList `yaml:"globs"`
	AlwaysApply *bool    `yaml:"alwaysApply"`
}

type matterOut struct {
	Description string   `yaml:"description,omitempty"`
	Globs       []string `yaml:"globs,omitempty"`
	AlwaysApply *bool    `yaml:"alwaysApply,omitempty"`
}

// Parse reads every .mdc file under root/.cursor/rules in filename order.
func (Parser) Parse(root string) ([]ir.Rule, error) {
	rulesDir := filepath.Join(root, ".cursor", "rules")
	entries, err := os.ReadDir(rulesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", rulesDir)
	}

	var rules []ir.Rule
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mdc" {
			continue
		}
		path := filepath.Join(rulesDir, entry.Name())

		raw, err := fileutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}

		var fm matterIn
		body, err := frontmatter.Parse(raw, &fm)
		if err != nil {
			return nil, polyerrors.NewParseError(path, err)
		}

		globs := []string(fm.Globs)
		if len(globs) == 0 {
			globs = nil
		}

		var activation ir.Activation
		switch {
		case fm.AlwaysApply != nil && *fm.AlwaysApply:
			activation = ir.ActivationAlways
		case globs != nil:
			activation = ir.ActivationGlob
		case fm.Description != nil:
			activation = ir.ActivationAIDecides
		default:
			activation = ir.ActivationOnDemand
		}

		var description string
		if fm.Description != nil {
			description = *fm.Description
		}

		stem := strings.TrimSuffix(entry.Name(), ".mdc")

		rules = append(rules, ir.Rule{
			Scope:       ir.ScopeProject,
			Activation:  activation,
			Globs:       globs,
			Name:        stem,
			Description: description,
			Content:     strings.TrimRight(string(body), " \t\r\n"),
		})
	}
	return rules, nil
}

// Write emits one .mdc file per rule under target/.cursor/rules.
func (Writer) Write(rules []ir.Rule, target string) error {
	rulesDir := filepath.Join(target, ".cursor", "rules")
	if err := os.MkdirAll(rulesDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", rulesDir)
	}

	for _, rule := range rules {
		fm := matterOut{
			Description: rule.Description,
			Globs:       rule.Globs,
		}
		if rule.Activation == ir.ActivationAlways {
			always := true
			fm.AlwaysApply = &always
		}

		content, err := frontmatter.Format(fm, strings.TrimRight(rule.Content, " \t\r\n"))
		if err != nil {
			return polyerrors.NewParseError(rulesDir, err)
		}

		path := filepath.Join(rulesDir, rule.FilenameStem()+".mdc")
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}
