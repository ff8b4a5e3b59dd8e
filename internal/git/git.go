// Package git wraps the git subprocess operations the store relies on:
// init, clone, commit, push, pull. Calls are blocking and surface git's
// own stderr text on failure; polyrc never interprets diff or merge
// output beyond passing it through.
package git

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// IsURL returns true if s looks like a git repository URL.
// It checks for:
//   - URLs containing "://" (e.g., https://, git://)
//   - URLs ending with ".git"
//   - SSH-style URLs starting with "git@"
func IsURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	if strings.HasSuffix(s, ".git") {
		return true
	}
	return strings.HasPrefix(s, "git@")
}

// run executes git with args in dir, returning trimmed stdout.
// On failure the error carries git's stderr text.
func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.Newf("git %s: %s", args[0], msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Init initializes a new git repository at path.
func Init(path string) error {
	_, err := run(path, "init")
	return err
}

// Clone clones url into dest. If dest is already a git repo, the origin
// remote is re-pointed at url instead of re-cloning, so repeated init
// against the same path is idempotent.
func Clone(url, dest string) error {
	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		if _, err := run(dest, "remote", "set-url", "origin", url); err != nil {
			_, err = run(dest, "remote", "add", "origin", url)
			return err
		}
		return nil
	}

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", parent)
	}

	_, err := run(parent, "clone", url, dest)
	return err
}

// Commit stages all changes under path and commits with message.
// It is a no-op when nothing is staged.
func Commit(path, message string) error {
	if _, err := run(path, "add", "-A"); err != nil {
		return err
	}

	status, err := run(path, "status", "--porcelain")
	if err != nil {
		return err
	}
	if status == "" {
		return nil
	}

	_, err = run(path, "commit", "-m", message)
	return err
}

// Push pushes to the configured origin remote.
//
// Uses --set-upstream so it works for both the initial push to an empty
// remote and subsequent pushes.
func Push(path string) error {
	_, err := run(path, "push", "--set-upstream", "origin", "HEAD")
	return err
}

// Pull pulls from the configured origin remote.
//
// Fetches first to detect whether the remote has any commits. If the
// remote is empty (freshly initialized), the pull is skipped so that
// pull-store does not fail on first use.
func Pull(path string) error {
	// A fetch error (network, empty repo) is not fatal here; there is
	// simply nothing to merge yet.
	_, _ = run(path, "fetch", "origin")

	if _, err := run(path, "rev-parse", "--verify", "origin/main"); err != nil {
		// Remote is empty or main doesn't exist yet.
		return nil
	}

	_, err := run(path, "pull", "origin", "main")
	return err
}
