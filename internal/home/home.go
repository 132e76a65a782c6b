// Package home manages the scoreshelf home directory layout.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the scoreshelf home directory.
	DefaultDirName = ".scoreshelf"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// ExportsDirName is the subdirectory for exported metadata dumps.
	ExportsDirName = "exports"
)

// Dir represents the scoreshelf home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.scoreshelf).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ExportsPath returns the directory for exported metadata dumps.
func (d *Dir) ExportsPath() string {
	return filepath.Join(d.path, ExportsDirName)
}

// EnsureExists creates the home directory and subdirectories if they don't
// exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.ExportsPath(), 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
