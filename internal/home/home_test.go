package home

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DefaultsToUserHome(t *testing.T) {
	d, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(d.Path(), DefaultDirName) {
		t.Errorf("expected path ending in %s, got %s", DefaultDirName, d.Path())
	}
}

func TestDir_Paths(t *testing.T) {
	root := t.TempDir()
	d, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	if d.ConfigPath() != filepath.Join(root, ConfigFileName) {
		t.Errorf("config path: got %s", d.ConfigPath())
	}
	if d.ExportsPath() != filepath.Join(root, ExportsDirName) {
		t.Errorf("exports path: got %s", d.ExportsPath())
	}
}

func TestDir_EnsureExists(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fresh")
	d, err := New(root)
	if err != nil {
		t.Fatal(err)
	}

	if d.Exists() {
		t.Fatal("should not exist yet")
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatal(err)
	}
	if !d.Exists() {
		t.Error("expected home directory after EnsureExists")
	}
	if d.ConfigExists() {
		t.Error("config file should not appear out of thin air")
	}
}
