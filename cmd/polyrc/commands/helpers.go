package commands

import (
	"github.com/thoreinstein/polyrc/internal/config"
	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/internal/format"
	"github.com/thoreinstein/polyrc/internal/ir"
	"github.com/thoreinstein/polyrc/internal/store"
)

// openStore loads the config and opens the store it points at.
func openStore() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.StorePath())
	if err != nil {
		return nil, polyerrors.NewUserError(err, "run 'polyrc init' to create a store first")
	}
	return st, nil
}

// parseFormatFlag resolves a --from/--to/format value.
func parseFormatFlag(name string) (format.Format, error) {
	f, err := format.Parse(name)
	if err != nil {
		return "", polyerrors.NewUserError(err, "run 'polyrc list-formats' to see supported formats")
	}
	return f, nil
}

// parseScopeFlag resolves an optional --scope value. Empty means no
// filtering.
func parseScopeFlag(scope string) (ir.Scope, error) {
	if scope == "" {
		return "", nil
	}
	s, err := ir.ParseScope(scope)
	if err != nil {
		return "", polyerrors.NewUserError(err, "valid scopes are user, project, and path")
	}
	return s, nil
}

// projectKey picks the store namespace for push/pull operations: a user
// scope always routes to the user namespace regardless of --project.
func projectKey(project string, scope ir.Scope) string {
	if scope == ir.ScopeUser {
		return ""
	}
	return project
}
