// Package paths resolves the directories polyrc reads and writes:
// the ~/.polyrc data dir, the config file, and XDG locations used when
// scanning for tool configs.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// Home returns the user's home directory, or an empty string when it
// cannot be determined. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// PolyrcDir returns the root directory for polyrc data and config:
// ~/.polyrc
func PolyrcDir() string {
	return filepath.Join(Home(), ".polyrc")
}

// ConfigFile returns the path of the polyrc config file.
func ConfigFile() string {
	return filepath.Join(PolyrcDir(), "config.toml")
}

// DefaultStorePath returns the default location of the local store.
func DefaultStorePath() string {
	return filepath.Join(PolyrcDir(), "store")
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
func ConfigHome() string {
	return xdg.ConfigHome
}

// ExpandTilde replaces a leading "~/" with the user's home directory.
func ExpandTilde(p string) string {
	if p == "~" {
		return Home()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(Home(), p[2:])
	}
	return p
}

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used. Idempotent.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}
