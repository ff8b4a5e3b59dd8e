package cursor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/polyrc/internal/ir"
)

func writeRule(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ".cursor", "rules")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestParseAlwaysApply(t *testing.T) {
	root := t.TempDir()
	writeRule(t, root, "strict.mdc", "---\nalwaysApply: true\n---\n\nUse strict mode.\n")

	rules, err := Parser{}.Parse(root)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	r := rules[0]
	if r.Activation != ir.ActivationAlways {
		t.Errorf("activation = %q, want always", r.Activation)
	}
	if r.Name != "strict" {
		t.Errorf("name = %q, want strict", r.Name)
	}
	if r.Content != "Use strict mode." {
		t.Errorf("content = %q", r.Content)
	}
	if r.Scope != ir.ScopeProject {
		t.Errorf("scope = %q, want project", r.Scope)
	}
}

func TestParseActivationMapping(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ir.Activation
		globs   []string
	}{
		{"globs list", "---\nglobs:\n  - \"*.ts\"\n  - \"*.tsx\"\n---\nbody\n", ir.ActivationGlob, []string{"*.ts", "*.tsx"}},
		{"globs scalar comma", "---\nglobs: \"*.go, *.mod\"\n---\nbody\n", ir.ActivationGlob, []string{"*.go", "*.mod"}},
		{"description only", "---\ndescription: API conventions\n---\nbody\n", ir.ActivationAIDecides, nil},
		{"description empty string", "---\ndescription: \"\"\n---\nbody\n", ir.ActivationAIDecides, nil},
		{"description null", "---\ndescription:\n---\nbody\n", ir.ActivationOnDemand, nil},
		{"bare", "body only\n", ir.ActivationOnDemand, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeRule(t, root, "r.mdc", tt.content)

			rules, err := Parser{}.Parse(root)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(rules) != 1 {
				t.Fatalf("got %d rules, want 1", len(rules))
			}
			if rules[0].Activation != tt.want {
				t.Errorf("activation = %q, want %q", rules[0].Activation, tt.want)
			}
			if len(rules[0].Globs) != len(tt.globs) {
				t.Fatalf("globs = %v, want %v", rules[0].Globs, tt.globs)
			}
			for i, g := range tt.globs {
				if rules[0].Globs[i] != g {
					t.Errorf("globs[%d] = %q, want %q", i, rules[0].Globs[i], g)
				}
			}
		})
	}
}

func TestParseBadFrontmatter(t *testing.T) {
	root := t.TempDir()
	writeRule(t, root, "bad.mdc", "---\n: [not yaml\n---\nbody\n")

	_, err := Parser{}.Parse(root)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "bad.mdc") {
		t.Errorf("error should carry the failing path, got %v", err)
	}
}

func TestParseMissingDir(t *testing.T) {
	rules, err := Parser{}.Parse(t.TempDir())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("got %d rules, want 0", len(rules))
	}
}

func TestWriteRoundTrip(t *testing.T) {
	in := []ir.Rule{
		{
			Scope:      ir.ScopeProject,
			Activation: ir.ActivationAlways,
			Name:       "Code Style",
			Content:    "Always use tabs.",
		},
		{
			Scope:       ir.ScopeProject,
			Activation:  ir.ActivationGlob,
			Globs:       []string{"*.ts"},
			Name:        "typescript",
			Description: "TS rules",
			Content:     "Prefer interfaces.",
		},
	}

	target := t.TempDir()
	if err := (Writer{}).Write(in, target); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Name sanitization lowercases and dashes the filename.
	if _, err := os.Stat(filepath.Join(target, ".cursor", "rules", "code-style.mdc")); err != nil {
		t.Fatalf("expected code-style.mdc: %v", err)
	}

	out, err := Parser{}.Parse(target)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d rules, want 2", len(out))
	}
	byName := map[string]ir.Rule{}
	for _, r := range out {
		byName[r.Name] = r
	}
	if got := byName["code-style"]; got.Activation != ir.ActivationAlways || got.Content != "Always use tabs." {
		t.Errorf("code-style = %+v", got)
	}
	ts := byName["typescript"]
	if ts.Activation != ir.ActivationGlob || len(ts.Globs) != 1 || ts.Globs[0] != "*.ts" {
		t.Errorf("typescript = %+v", ts)
	}
	if ts.Description != "TS rules" {
		t.Errorf("description = %q", ts.Description)
	}
}
