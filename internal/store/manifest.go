package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"

	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// ManifestFile is the store marker and metadata file at the store root.
const ManifestFile = "polyrc.toml"

// Manifest is the store's metadata, persisted as TOML at the store root.
// Its presence is what distinguishes a store from an ordinary directory.
type Manifest struct {
	Store  StoreSection  `toml:"store"`
	Remote RemoteSection `toml:"remote"`
}

// StoreSection describes the store itself.
type StoreSection struct {
	// Version is the record format version, for future migrations.
	Version string `toml:"version"`
	// CreatedAt is the RFC3339 creation timestamp.
	CreatedAt string `toml:"created_at"`
}

// RemoteSection holds the optional git remote configuration.
type RemoteSection struct {
	URL string `toml:"url,omitempty"`
}

// NewManifest returns a version-1 manifest stamped with the current time.
func NewManifest() *Manifest {
	return &Manifest{
		Store: StoreSection{
			Version:   "1",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// LoadManifest reads the manifest from a store directory.
func LoadManifest(storeDir string) (*Manifest, error) {
	path := filepath.Join(storeDir, ManifestFile)
	raw, err := fileutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(errors.UnwrapAll(err)) {
			return nil, polyerrors.ErrStoreNotFound
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var m Manifest
	if err := toml.Unmarshal(raw, &m); err != nil {
		return nil, polyerrors.NewParseError(path, err)
	}
	return &m, nil
}

// Save writes the manifest atomically into a store directory.
func (m *Manifest) Save(storeDir string) error {
	path := filepath.Join(storeDir, ManifestFile)
	if err := fileutil.AtomicWriteTOML(path, m); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
