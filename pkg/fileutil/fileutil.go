// Package fileutil provides file system utilities shared by the store and
// the format codecs: atomic writes and size-limited reads.
package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// MaxFileSize is the maximum rule or record file size we read (1MB).
// Rule content is free text; anything larger is not a config file.
const MaxFileSize = 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFile reads a file up to MaxFileSize.
// It returns an error if the file is larger than the limit.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "reading %s", path)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "reading %s", path)
	}
	return data, nil
}

// AtomicWriteFile writes data to a file atomically using a temp file plus
// rename, so an interrupted write leaves the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	// Temp file in the same directory: rename requires one filesystem.
	tmp, err := os.CreateTemp(dir, ".polyrc-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// AtomicWriteYAML writes v as YAML to path atomically with 0644 permissions.
func AtomicWriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, 0o644)
}

// AtomicWriteTOML writes v as TOML to path atomically with 0644 permissions.
func AtomicWriteTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling TOML")
	}
	return AtomicWriteFile(path, data, 0o644)
}
