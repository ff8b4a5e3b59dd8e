package windsurf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/internal/logging"
)

func TestParseProjectLayout(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".windsurf", "rules")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range map[string]string{
		"style.md":   "Use tabs.\n",
		"testing.md": "Write table tests.\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	rules, err := Parser{}.Parse(root)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	// ReadDir ordering makes style.md come first.
	if rules[0].Name != "style" || rules[1].Name != "testing" {
		t.Errorf("names = %q, %q", rules[0].Name, rules[1].Name)
	}
	for _, r := range rules {
		if r.Scope != ir.ScopeProject || r.Activation != ir.ActivationAlways {
			t.Errorf("rule %q: scope=%q activation=%q", r.Name, r.Scope, r.Activation)
		}
	}
}

func TestParseUserLayout(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "global_rules.md"), []byte("Be terse.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rules, err := Parser{}.Parse(root)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(rules))
	}
	if rules[0].Scope != ir.ScopeUser || rules[0].Name != "global-rules" {
		t.Errorf("rule = %+v", rules[0])
	}
	if rules[0].Content != "Be terse." {
		t.Errorf("content = %q", rules[0].Content)
	}
}

func TestWriteProjectLayout(t *testing.T) {
	target := t.TempDir()
	in := []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "style", Content: "Use tabs."},
	}
	if err := NewWriter(logging.ForTest(t)).Write(in, target); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(target, ".windsurf", "rules", "style.md"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "Use tabs.\n" {
		t.Errorf("content = %q", raw)
	}
}

func TestWriteUserLayoutJoins(t *testing.T) {
	target := t.TempDir()
	in := []ir.Rule{
		{Scope: ir.ScopeUser, Activation: ir.ActivationAlways, Name: "one", Content: "First."},
		{Scope: ir.ScopeUser, Activation: ir.ActivationAlways, Name: "two", Content: "Second."},
	}
	if err := NewWriter(logging.ForTest(t)).Write(in, target); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(target, "global_rules.md"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	got := string(raw)
	if !strings.Contains(got, "## one") || !strings.Contains(got, "## two") {
		t.Errorf("joined content missing headers:\n%s", got)
	}
}

func TestWriteWarnsOverFileLimit(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Output: &buf, Format: "json"})

	target := t.TempDir()
	in := []ir.Rule{{
		Scope:      ir.ScopeProject,
		Activation: ir.ActivationAlways,
		Name:       "huge",
		Content:    strings.Repeat("x", FileCharLimit+1),
	}}
	if err := NewWriter(log).Write(in, target); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// The write must still land despite the warning.
	if _, err := os.Stat(filepath.Join(target, ".windsurf", "rules", "huge.md")); err != nil {
		t.Fatalf("rule file missing: %v", err)
	}
	if !strings.Contains(buf.String(), "per-file limit") {
		t.Errorf("expected per-file limit warning, log:\n%s", buf.String())
	}
}

func TestWriteWarnsOverTotalLimit(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Output: &buf, Format: "json"})

	target := t.TempDir()
	in := []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "a", Content: strings.Repeat("x", 5500)},
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "b", Content: strings.Repeat("y", 5500)},
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "c", Content: strings.Repeat("z", 1500)},
	}
	if err := NewWriter(log).Write(in, target); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "total rules content") {
		t.Errorf("expected total limit warning, log:\n%s", buf.String())
	}
}
