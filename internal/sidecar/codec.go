// Package sidecar serializes book metadata to and from the JSON sidecar
// file stored next to each book's PDF volumes, repairing known corruption
// patterns on load.
package sidecar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/scoreshelf/scoreshelf/internal/book"
	"github.com/scoreshelf/scoreshelf/internal/provider"
)

// FormatVersion is the sidecar document version written by Save.
const FormatVersion = 1

// document is the on-disk shape of a sidecar. Field names are part of the
// format and must not change.
type document struct {
	Version          int               `json:"version"`
	LastWrite        string            `json:"lastWrite"`
	LastPageNo       int               `json:"lastPageNo"`
	PageNumberOffset int               `json:"pageNumberOffset"`
	Notes            string            `json:"notes,omitempty"`
	Volumes          []book.VolumeInfo `json:"volumes"`
	TableOfContents  []book.TocEntry   `json:"tableOfContents"`
	Favorites        []book.Favorite   `json:"favorites"`
	InkStrokes       []book.InkStroke  `json:"inkStrokes"`
}

// Save persists the metadata to its sidecar path.
//
// A nil metadata reports false without error. Metadata that is not dirty is
// a successful no-op unless force is set; calling Save twice in a row is
// indistinguishable from calling it once. The write is whole-file
// write-then-rename so readers never observe a torn sidecar.
//
// Save is fully synchronous and never blocks on a continuation of its own,
// so it is safe to call from dispatcher-owned callers.
func Save(md *book.Metadata, force bool) (bool, error) {
	if md == nil {
		return false, nil
	}
	if !md.IsDirty() && !force {
		return true, nil
	}

	doc := document{
		Version:          FormatVersion,
		LastWrite:        time.Now().UTC().Format(time.RFC3339),
		LastPageNo:       md.LastPageNo,
		PageNumberOffset: md.PageNumberOffset,
		Notes:            md.Notes,
		Volumes:          md.Volumes,
		TableOfContents:  md.TocEntries,
		Favorites:        md.Favorites,
		InkStrokes:       md.InkStrokes,
	}
	// Empty lists serialize as [], never null; the schema requires arrays.
	if doc.Volumes == nil {
		doc.Volumes = []book.VolumeInfo{}
	}
	if doc.TableOfContents == nil {
		doc.TableOfContents = []book.TocEntry{}
	}
	if doc.Favorites == nil {
		doc.Favorites = []book.Favorite{}
	}
	if doc.InkStrokes == nil {
		doc.InkStrokes = []book.InkStroke{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal sidecar: %w", err)
	}

	path := md.SidecarPath()
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sidecar-*.json")
	if err != nil {
		return false, fmt.Errorf("failed to create temp sidecar: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, fmt.Errorf("failed to write sidecar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, fmt.Errorf("failed to close sidecar: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return false, fmt.Errorf("failed to replace sidecar: %w", err)
	}

	md.ClearDirty()
	return true, nil
}

// Load reads the sidecar at path and returns the metadata it describes.
//
// Malformed or schema-invalid JSON is treated as "no metadata": Load returns
// (nil, nil) and the caller falls back to fresh synthesis. Known content
// corruption (zero volume page counts, invalid TOC page sequences) is
// repaired via the document provider and leaves the result marked dirty so
// the fix persists on the next save.
func Load(ctx context.Context, path string, p provider.DocumentProvider, logger *slog.Logger) (*book.Metadata, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sidecar %s: %w", path, err)
	}

	if err := validate(data); err != nil {
		logger.Warn("sidecar failed validation, treating as absent",
			"path", path, "error", err)
		return nil, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("sidecar is not valid JSON, treating as absent",
			"path", path, "error", err)
		return nil, nil
	}
	if len(doc.Volumes) == 0 {
		logger.Warn("sidecar lists no volumes, treating as absent", "path", path)
		return nil, nil
	}

	dir := filepath.Dir(path)
	md := book.New(filepath.Join(dir, doc.Volumes[0].FileName), doc.Volumes)
	md.LastPageNo = doc.LastPageNo
	md.PageNumberOffset = doc.PageNumberOffset
	md.Notes = doc.Notes
	md.TocEntries = doc.TableOfContents
	md.Favorites = doc.Favorites
	md.InkStrokes = doc.InkStrokes

	if repaired := repair(ctx, md, p, logger); repaired {
		md.MarkDirty()
	}
	return md, nil
}
