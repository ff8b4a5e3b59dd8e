// Package store persists IR rules as YAML records inside a git-backed
// directory, one namespace per project plus reserved namespaces for
// user-scope rules and reusable named rules, and merges rule sets from
// divergent store copies.
package store

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/git"
	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

const rulesDir = "rules"

// Reserved namespaces under rules/.
const (
	// UserNamespace holds user-scope rules (ambient plus on-demand).
	UserNamespace = "user"
	// ProjectsNamespace holds reusable named rules pulled into any
	// project on demand.
	ProjectsNamespace = "projects"
)

// legacyUserNamespace is the pre-1.0 spelling, migrated on Open.
const legacyUserNamespace = "_user"

// Store is the local rule store: a manifest plus rules/<namespace>/*.yml
// records under a git repository root.
//
// There is no cross-process lock; concurrent writers from one user are
// serialized well enough by the atomic namespace swap in SaveRules.
type Store struct {
	Path string
}

// Open opens an existing store. It returns ErrStoreNotFound when the
// manifest is absent and never creates a store implicitly. A legacy
// _user namespace is renamed to user on open.
func Open(path string) (*Store, error) {
	if _, err := LoadManifest(path); err != nil {
		return nil, err
	}
	s := &Store{Path: path}
	if err := s.migrateLegacyUserNamespace(); err != nil {
		return nil, err
	}
	return s, nil
}

// Init creates a store at path: directory, manifest, and git repository.
// An optional remote URL is recorded in the manifest.
func Init(path, remoteURL string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}

	m := NewManifest()
	if remoteURL != "" {
		m.Remote.URL = remoteURL
	}
	if err := m.Save(path); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filepath.Join(path, ".git")); os.IsNotExist(err) {
		if err := git.Init(path); err != nil {
			return nil, err
		}
	}
	return &Store{Path: path}, nil
}

func (s *Store) migrateLegacyUserNamespace() error {
	legacy := filepath.Join(s.Path, rulesDir, legacyUserNamespace)
	current := filepath.Join(s.Path, rulesDir, UserNamespace)
	if _, err := os.Stat(legacy); err != nil {
		return nil
	}
	if _, err := os.Stat(current); err == nil {
		return nil
	}
	if err := os.Rename(legacy, current); err != nil {
		return errors.Wrapf(err, "migrating %s", legacy)
	}
	return nil
}

// namespaceDir maps a project key to its directory. The empty key is the
// user namespace.
func (s *Store) namespaceDir(project string) string {
	key := project
	if key == "" {
		key = UserNamespace
	}
	return filepath.Join(s.Path, rulesDir, key)
}

// LoadRules loads every record in a project's namespace in filename
// order. The empty project key loads the user namespace. A missing
// namespace yields an empty set; a malformed record fails the whole load
// with that file's path.
func (s *Store) LoadRules(project string) ([]ir.Rule, error) {
	return loadNamespace(s.namespaceDir(project))
}

func loadNamespace(dir string) ([]ir.Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var rules []ir.Rule
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		rule, err := loadRecord(path)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func loadRecord(path string) (ir.Rule, error) {
	raw, err := fileutil.ReadFile(path)
	if err != nil {
		return ir.Rule{}, errors.Wrapf(err, "reading %s", path)
	}
	var rule ir.Rule
	if err := yaml.Unmarshal(raw, &rule); err != nil {
		return ir.Rule{}, polyerrors.NewParseError(path, err)
	}
	return rule, nil
}

// SaveRules replaces a namespace's rule set with rules, stamping store
// metadata. Identity is continuous across saves: a rule whose name
// matches an existing record keeps that record's ID and CreatedAt;
// everything else gets a fresh UUID. Existing records not in the new set
// are removed.
//
// The new set is written into a temp directory next to the namespace and
// swapped in with renames, so a crash mid-save never leaves a partially
// replaced namespace.
func (s *Store) SaveRules(project string, rules []ir.Rule, sourceFormat string) ([]ir.Rule, error) {
	dir := s.namespaceDir(project)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", parent)
	}

	existing, err := loadNamespace(dir)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	projectKey := project
	if projectKey == "" {
		projectKey = UserNamespace
	}

	stored := make([]ir.Rule, 0, len(rules))
	for _, rule := range rules {
		r := rule
		r.Project = projectKey
		r.SourceFormat = sourceFormat
		r.StoreVersion = "1"

		if match, ok := findByName(existing, rule.Name); ok {
			r.ID = match.ID
			r.CreatedAt = match.CreatedAt
		} else {
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			r.CreatedAt = now
		}
		r.UpdatedAt = now
		stored = append(stored, r)
	}

	if err := swapNamespace(dir, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// findByName locates a persisted record with the given name; records that
// were never assigned an ID cannot anchor identity.
func findByName(rules []ir.Rule, name string) (ir.Rule, bool) {
	for _, r := range rules {
		if r.ID != "" && r.Name == name {
			return r, true
		}
	}
	return ir.Rule{}, false
}

// swapNamespace writes rules into a fresh temp directory and renames it
// over dir. The displaced directory is removed only after the swap.
func swapNamespace(dir string, rules []ir.Rule) error {
	parent := filepath.Dir(dir)
	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+"-*")
	if err != nil {
		return errors.Wrap(err, "creating swap directory")
	}
	defer os.RemoveAll(tmp)

	for _, r := range rules {
		path := filepath.Join(tmp, r.FilenameStem()+".yml")
		if err := fileutil.AtomicWriteYAML(path, r); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}

	old := dir + ".old"
	if _, err := os.Stat(dir); err == nil {
		// Leftover .old from an interrupted previous swap is discarded.
		if err := os.RemoveAll(old); err != nil {
			return errors.Wrapf(err, "removing %s", old)
		}
		if err := os.Rename(dir, old); err != nil {
			return errors.Wrapf(err, "renaming %s", dir)
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		// Try to restore the namespace before reporting.
		if _, statErr := os.Stat(old); statErr == nil {
			_ = os.Rename(old, dir)
		}
		return errors.Wrapf(err, "renaming %s", tmp)
	}
	return errors.Wrapf(os.RemoveAll(old), "removing %s", old)
}

// LoadRuleByName finds a record by filename stem, searching the projects
// namespace first and the user namespace second. It returns the
// namespace the rule was found in.
func (s *Store) LoadRuleByName(name string) (string, ir.Rule, bool, error) {
	for _, ns := range []string{ProjectsNamespace, UserNamespace} {
		path := filepath.Join(s.Path, rulesDir, ns, name+".yml")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		rule, err := loadRecord(path)
		if err != nil {
			return "", ir.Rule{}, false, err
		}
		return ns, rule, true, nil
	}
	return "", ir.Rule{}, false, nil
}

// SaveRuleToNamespace stores one named rule in a namespace without
// touching its siblings, with the same identity continuity as SaveRules.
func (s *Store) SaveRuleToNamespace(namespace, name string, rule ir.Rule) (ir.Rule, error) {
	dir := filepath.Join(s.Path, rulesDir, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ir.Rule{}, errors.Wrapf(err, "creating %s", dir)
	}

	now := time.Now().UTC()
	r := rule
	r.Project = namespace
	r.StoreVersion = "1"
	if r.Name == "" {
		r.Name = name
	}

	if _, existing, ok, err := s.LoadRuleByName(name); err != nil {
		return ir.Rule{}, err
	} else if ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	} else {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	path := filepath.Join(dir, name+".yml")
	if err := fileutil.AtomicWriteYAML(path, r); err != nil {
		return ir.Rule{}, errors.Wrapf(err, "writing %s", path)
	}
	return r, nil
}

// ListProjects returns every namespace under rules/, sorted.
func (s *Store) ListProjects() ([]string, error) {
	dir := filepath.Join(s.Path, rulesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", dir)
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			projects = append(projects, entry.Name())
		}
	}
	return projects, nil
}

// RenameProject renames a namespace. It fails when the old namespace is
// missing or the new one already exists.
func (s *Store) RenameProject(oldName, newName string) error {
	oldDir := filepath.Join(s.Path, rulesDir, oldName)
	newDir := filepath.Join(s.Path, rulesDir, newName)

	if _, err := os.Stat(oldDir); err != nil {
		return &polyerrors.WriteError{
			Path:   oldDir,
			Reason: "project not found",
			Err:    polyerrors.ErrProjectNotFound,
		}
	}
	if _, err := os.Stat(newDir); err == nil {
		return &polyerrors.WriteError{
			Path:   newDir,
			Reason: "target project already exists",
			Err:    polyerrors.ErrProjectExists,
		}
	}
	if err := os.Rename(oldDir, newDir); err != nil {
		return errors.Wrapf(err, "renaming %s", oldDir)
	}
	return nil
}
