package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/ir"
)

// newStore creates a store on disk without going through git.
func newStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	if err := NewManifest().Save(dir); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpenMissingStore(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, polyerrors.ErrStoreNotFound) {
		t.Fatalf("err = %v, want ErrStoreNotFound", err)
	}
}

func TestOpenMigratesLegacyUserNamespace(t *testing.T) {
	dir := t.TempDir()
	if err := NewManifest().Save(dir); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	legacy := filepath.Join(dir, "rules", "_user")
	if err := os.MkdirAll(legacy, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(legacy, "a.yml"), []byte("scope: user\nactivation: always\nname: a\ncontent: A.\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Errorf("_user should be gone, stat err = %v", err)
	}
	rules, err := s.LoadRules("")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 1 || rules[0].Name != "a" {
		t.Errorf("rules = %+v", rules)
	}
}

func TestSaveRulesStampsMetadata(t *testing.T) {
	s := newStore(t)
	in := []ir.Rule{{
		Scope:      ir.ScopeProject,
		Activation: ir.ActivationAlways,
		Name:       "style",
		Content:    "Tabs.",
	}}

	stored, err := s.SaveRules("myapp", in, "cursor")
	if err != nil {
		t.Fatalf("SaveRules: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d rules", len(stored))
	}
	r := stored[0]
	if r.ID == "" {
		t.Error("ID not assigned")
	}
	if r.Project != "myapp" || r.SourceFormat != "cursor" || r.StoreVersion != "1" {
		t.Errorf("metadata = %+v", r)
	}
	if r.CreatedAt.IsZero() || r.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	loaded, err := s.LoadRules("myapp")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != r.ID || loaded[0].Content != "Tabs." {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestSaveRulesIdentityContinuity(t *testing.T) {
	s := newStore(t)
	first, err := s.SaveRules("app", []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "style", Content: "v1"},
	}, "cursor")
	if err != nil {
		t.Fatalf("first save: %v", err)
	}

	second, err := s.SaveRules("app", []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "style", Content: "v2"},
	}, "cursor")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if second[0].ID != first[0].ID {
		t.Errorf("ID changed: %s -> %s", first[0].ID, second[0].ID)
	}
	if !second[0].CreatedAt.Equal(first[0].CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first[0].CreatedAt, second[0].CreatedAt)
	}
	if second[0].Content != "v2" {
		t.Errorf("content = %q", second[0].Content)
	}
}

func TestSaveRulesReplacesSet(t *testing.T) {
	s := newStore(t)
	if _, err := s.SaveRules("app", []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "old", Content: "old"},
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "keep", Content: "keep"},
	}, "cursor"); err != nil {
		t.Fatalf("first save: %v", err)
	}

	if _, err := s.SaveRules("app", []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "keep", Content: "keep"},
	}, "cursor"); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := s.LoadRules("app")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "keep" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestSaveRulesEmptyProjectKeyIsUserNamespace(t *testing.T) {
	s := newStore(t)
	stored, err := s.SaveRules("", []ir.Rule{
		{Scope: ir.ScopeUser, Activation: ir.ActivationAlways, Name: "g", Content: "G"},
	}, "windsurf")
	if err != nil {
		t.Fatalf("SaveRules: %v", err)
	}
	if stored[0].Project != UserNamespace {
		t.Errorf("project = %q, want %q", stored[0].Project, UserNamespace)
	}
	if _, err := os.Stat(filepath.Join(s.Path, "rules", "user", "g.yml")); err != nil {
		t.Fatalf("record file: %v", err)
	}
}

func TestLoadRulesFailsClosedOnBadRecord(t *testing.T) {
	s := newStore(t)
	dir := filepath.Join(s.Path, "rules", "app")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(": [broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := s.LoadRules("app")
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *polyerrors.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T", err)
	}
	if filepath.Base(pe.Path) != "bad.yml" {
		t.Errorf("path = %q", pe.Path)
	}
}

func TestLoadRulesMissingNamespace(t *testing.T) {
	s := newStore(t)
	rules, err := s.LoadRules("nothing")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("got %d rules", len(rules))
	}
}

func TestLoadRuleByNameSearchOrder(t *testing.T) {
	s := newStore(t)
	if _, err := s.SaveRuleToNamespace(ProjectsNamespace, "recipe", ir.Rule{
		Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Content: "P",
	}); err != nil {
		t.Fatalf("save projects: %v", err)
	}
	if _, err := s.SaveRuleToNamespace(UserNamespace, "recipe", ir.Rule{
		Scope: ir.ScopeUser, Activation: ir.ActivationAlways, Content: "U",
	}); err != nil {
		t.Fatalf("save user: %v", err)
	}

	ns, rule, ok, err := s.LoadRuleByName("recipe")
	if err != nil {
		t.Fatalf("LoadRuleByName: %v", err)
	}
	if !ok || ns != ProjectsNamespace || rule.Content != "P" {
		t.Errorf("ns=%q ok=%v rule=%+v", ns, ok, rule)
	}

	_, _, ok, err = s.LoadRuleByName("missing")
	if err != nil {
		t.Fatalf("LoadRuleByName missing: %v", err)
	}
	if ok {
		t.Error("missing rule reported found")
	}
}

func TestSaveRuleToNamespaceKeepsIdentity(t *testing.T) {
	s := newStore(t)
	first, err := s.SaveRuleToNamespace(ProjectsNamespace, "recipe", ir.Rule{
		Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Content: "v1",
	})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.SaveRuleToNamespace(ProjectsNamespace, "recipe", ir.Rule{
		Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Content: "v2",
	})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.ID != first.ID || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("identity lost: %+v vs %+v", first, second)
	}
	if second.Name != "recipe" {
		t.Errorf("name = %q", second.Name)
	}
}

func TestListProjects(t *testing.T) {
	s := newStore(t)
	for _, p := range []string{"zeta", "alpha", ""} {
		if _, err := s.SaveRules(p, []ir.Rule{
			{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "r", Content: "c"},
		}, "cursor"); err != nil {
			t.Fatalf("save %q: %v", p, err)
		}
	}

	projects, err := s.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	want := []string{"alpha", "user", "zeta"}
	if len(projects) != len(want) {
		t.Fatalf("projects = %v", projects)
	}
	for i := range want {
		if projects[i] != want[i] {
			t.Errorf("projects[%d] = %q, want %q", i, projects[i], want[i])
		}
	}
}

func TestRenameProject(t *testing.T) {
	s := newStore(t)
	if _, err := s.SaveRules("old", []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "r", Content: "c"},
	}, "cursor"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.RenameProject("old", "new"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	rules, err := s.LoadRules("new")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("rules = %+v", rules)
	}

	if err := s.RenameProject("gone", "other"); !errors.Is(err, polyerrors.ErrProjectNotFound) {
		t.Errorf("missing source: err = %v", err)
	}

	if _, err := s.SaveRules("blocker", []ir.Rule{
		{Scope: ir.ScopeProject, Activation: ir.ActivationAlways, Name: "r", Content: "c"},
	}, "cursor"); err != nil {
		t.Fatalf("save blocker: %v", err)
	}
	if err := s.RenameProject("new", "blocker"); !errors.Is(err, polyerrors.ErrProjectExists) {
		t.Errorf("existing target: err = %v", err)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest()
	m.Remote.URL = "git@example.com:me/rules.git"
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if loaded.Store.Version != "1" {
		t.Errorf("version = %q", loaded.Store.Version)
	}
	if loaded.Remote.URL != m.Remote.URL {
		t.Errorf("remote = %q", loaded.Remote.URL)
	}
}
