// Package config loads and saves the polyrc configuration file
// (~/.polyrc/config.toml) with POLYRC_* environment overrides.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/polyrc/internal/paths"
	"github.com/thoreinstein/polyrc/pkg/fileutil"
)

// AppName is the application name used for env prefixes.
const AppName = "polyrc"

// Config represents the top-level configuration structure.
type Config struct {
	Store StoreConfig `mapstructure:"store" toml:"store"`
}

// StoreConfig configures where the local store lives.
type StoreConfig struct {
	// Path to the local store git repo. Defaults to ~/.polyrc/store.
	Path string `mapstructure:"path" toml:"path,omitempty"`

	// RemoteURL is the optional git remote used by push-store/pull-store.
	RemoteURL string `mapstructure:"remote_url" toml:"remote_url,omitempty"`
}

// Load reads the configuration file, if present, applying environment
// overrides (POLYRC_STORE_PATH, POLYRC_STORE_REMOTE_URL). A missing file
// is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(paths.ConfigFile())
	v.SetConfigType("toml")

	v.SetEnvPrefix("POLYRC")
	// Nested keys need explicit bindings for env overrides.
	_ = v.BindEnv("store.path", "POLYRC_STORE_PATH")
	_ = v.BindEnv("store.remote_url", "POLYRC_STORE_REMOTE_URL")

	// A missing file is fine; anything else (bad TOML, permissions) is not.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "reading config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

// Save writes the configuration to ~/.polyrc/config.toml, creating the
// directory if needed.
func (c *Config) Save() error {
	if err := paths.EnsureDir(paths.PolyrcDir(), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return fileutil.AtomicWriteTOML(paths.ConfigFile(), c)
}

// StorePath resolves the store location: the configured path (tilde
// expanded) or the default under ~/.polyrc.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return paths.ExpandTilde(c.Store.Path)
	}
	return paths.DefaultStorePath()
}

// SetStorePath records the store location and saves the config.
func (c *Config) SetStorePath(path string) error {
	c.Store.Path = path
	return c.Save()
}
