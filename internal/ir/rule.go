// Package ir defines the canonical rule representation that every format
// codec parses into and writes from, and that the store persists.
package ir

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// Scope identifies where a rule conceptually applies.
type Scope string

// Supported scopes.
const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
	ScopePath    Scope = "path"
)

// Activation describes how a consuming tool decides to surface a rule.
type Activation string

// Supported activation modes.
const (
	// ActivationAlways is injected into context unconditionally.
	ActivationAlways Activation = "always"
	// ActivationGlob is injected when a file matching Globs is open/edited.
	ActivationGlob Activation = "glob"
	// ActivationOnDemand requires manual invocation (slash command, @mention).
	ActivationOnDemand Activation = "on_demand"
	// ActivationAIDecides lets the tool decide based on Description.
	ActivationAIDecides Activation = "ai_decides"
)

// ParseScope converts a user-supplied scope name to a Scope.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "user":
		return ScopeUser, nil
	case "project":
		return ScopeProject, nil
	case "path":
		return ScopePath, nil
	default:
		return "", fmt.Errorf("unknown scope %q: expected user, project, or path", s)
	}
}

// Rule is one configuration directive in the interlingua. Content is raw
// markdown and is never interpreted beyond frontmatter extraction.
//
// The store metadata fields (ID through StoreVersion) are empty until the
// rule passes through the store; codecs ignore them.
type Rule struct {
	Scope       Scope      `yaml:"scope"`
	Activation  Activation `yaml:"activation"`
	Globs       []string   `yaml:"globs,omitempty"`
	Name        string     `yaml:"name,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Content     string     `yaml:"content"`

	// Store metadata.
	ID           string    `yaml:"id,omitempty"`
	Project      string    `yaml:"project,omitempty"`
	SourceFormat string    `yaml:"source_format,omitempty"`
	CreatedAt    time.Time `yaml:"created_at,omitempty"`
	UpdatedAt    time.Time `yaml:"updated_at,omitempty"`
	StoreVersion string    `yaml:"store_version,omitempty"`
}

// New returns a project-scoped, always-on rule with the given content.
func New(content string) Rule {
	return Rule{
		Scope:      ScopeProject,
		Activation: ActivationAlways,
		Content:    content,
	}
}

// FilenameStem returns a stable filename stem for multi-file writers and
// store records. It is a pure function of (Name, Content): a present name
// is sanitized, an absent one falls back to a hash of the content.
func (r Rule) FilenameStem() string {
	if r.Name != "" {
		return sanitizeFilename(r.Name)
	}
	return fmt.Sprintf("rule_%08x", fnv1a([]byte(r.Content)))
}

// AppliesTo reports whether the rule is active for the given file path.
// Always-on rules apply to every path; glob rules apply when any pattern
// matches; on-demand and ai-decides rules never apply implicitly.
func (r Rule) AppliesTo(path string) bool {
	switch r.Activation {
	case ActivationAlways:
		return true
	case ActivationGlob:
		for _, g := range r.Globs {
			if ok, err := doublestar.Match(g, path); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, c := range name {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune('-')
		default:
			b.WriteRune('_')
		}
	}
	return strings.ToLower(b.String())
}

// fnv1a folds content into a 32-bit hash. The fold order (multiply, then
// add) matches the store's existing on-disk filenames and must not change.
func fnv1a(data []byte) uint32 {
	h := uint32(2166136261)
	for _, b := range data {
		h = h*16777619 + uint32(b)
	}
	return h
}
