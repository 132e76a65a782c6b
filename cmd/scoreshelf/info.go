package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/book"
	"github.com/scoreshelf/scoreshelf/internal/cli"
	"github.com/scoreshelf/scoreshelf/internal/sidecar"
)

// loadBook loads one book's sidecar given the path to its base PDF or to
// the sidecar itself. Repairs apply as on any load.
func loadBook(ctx context.Context, path string) (*book.Metadata, error) {
	logger := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	scPath := path
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		scPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	}

	md, err := sidecar.Load(ctx, scPath, newProvider(cfg, logger), logger)
	if err != nil {
		return nil, err
	}
	if md == nil {
		return nil, fmt.Errorf("no sidecar at %s (run scan first)", scPath)
	}
	return md, nil
}

// bookInfo is the info command's output document.
type bookInfo struct {
	Name             string            `json:"name" yaml:"name"`
	Path             string            `json:"path" yaml:"path"`
	Sidecar          string            `json:"sidecar" yaml:"sidecar"`
	PageNumberOffset int               `json:"pageNumberOffset" yaml:"pageNumberOffset"`
	LastPageNo       int               `json:"lastPageNo" yaml:"lastPageNo"`
	MaxPageNum       int               `json:"maxPageNum" yaml:"maxPageNum"`
	Notes            string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Volumes          []book.VolumeInfo `json:"volumes" yaml:"volumes"`
	TocEntries       int               `json:"tocEntries" yaml:"tocEntries"`
	Favorites        []book.Favorite   `json:"favorites,omitempty" yaml:"favorites,omitempty"`
	InkedPages       int               `json:"inkedPages" yaml:"inkedPages"`
	Dirty            bool              `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <book.pdf|book.json>",
	Short: "Show one book's sidecar metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := loadBook(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return cli.Output(bookInfo{
			Name:             md.BaseName(),
			Path:             md.FullPathFile,
			Sidecar:          md.SidecarPath(),
			PageNumberOffset: md.PageNumberOffset,
			LastPageNo:       md.LastPageNo,
			MaxPageNum:       md.MaxPageNum(),
			Notes:            md.Notes,
			Volumes:          md.Volumes,
			TocEntries:       len(md.TocEntries),
			Favorites:        md.Favorites,
			InkedPages:       len(md.InkStrokes),
			Dirty:            md.IsDirty(),
		})
	},
}
