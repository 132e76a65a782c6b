package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/book"
	"github.com/scoreshelf/scoreshelf/internal/cli"
	"github.com/scoreshelf/scoreshelf/internal/loader"
)

var (
	scanSequential bool
	scanNoSave     bool
)

// bookSummary is the per-book row printed by scan and watch.
type bookSummary struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
	Volumes int    `json:"volumes" yaml:"volumes"`
	Pages   int    `json:"pages" yaml:"pages"`
	Toc     int    `json:"toc" yaml:"toc"`
	Singles bool   `json:"singles,omitempty" yaml:"singles,omitempty"`
	Dirty   bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// scanSummary is the scan command's output document.
type scanSummary struct {
	Root    string        `json:"root" yaml:"root"`
	Folders int           `json:"folders" yaml:"folders"`
	Books   []bookSummary `json:"books" yaml:"books"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Scan the library and reconcile sidecar metadata",
	Long: `Scan walks the library for PDF files, groups continuation volumes into
books, loads each book's JSON sidecar, and synthesizes (and by default
saves) sidecars for books that lack one. Books whose sidecar already
exists are never re-probed.

Examples:
  scoreshelf scan                     # scan library.root from config
  scoreshelf scan ~/SheetMusic        # scan an explicit root
  scoreshelf scan --sequential        # reference single-threaded walk
  scoreshelf scan --no-save           # report without writing sidecars`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		root := cfg.Library.Root
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			return fmt.Errorf("no library root: pass one or set library.root in config")
		}

		opts := loader.Options{
			Provider:         newProvider(cfg, logger),
			Parallel:         cfg.Library.ParallelLoading && !scanSequential,
			AutoSave:         cfg.Library.AutoSaveNewMetadata && !scanNoSave,
			MaxWorkers:       cfg.Library.MaxWorkers,
			SinglesSuffixes:  cfg.Library.SinglesSuffixes,
			HiddenFolderName: cfg.Library.HiddenFolderName,
			Logger:           logger,
			OnError: func(context string, err error) {
				logger.Warn("book skipped", "context", context, "error", err)
			},
		}

		result, err := loader.LoadAll(cmd.Context(), root, opts)
		if err != nil {
			return err
		}

		summary := scanSummary{
			Root:    root,
			Folders: len(result.Folders),
			Books:   make([]bookSummary, 0, len(result.Books)),
		}
		for _, md := range result.Books {
			summary.Books = append(summary.Books, summarize(md))
		}
		return cli.Output(summary)
	},
}

func summarize(md *book.Metadata) bookSummary {
	return bookSummary{
		Name:    md.BaseName(),
		Path:    md.FullPathFile,
		Volumes: len(md.Volumes),
		Pages:   md.TotalPageCount(),
		Toc:     len(md.TocEntries),
		Singles: md.IsSinglesFolder,
		Dirty:   md.IsDirty(),
	}
}

func init() {
	scanCmd.Flags().BoolVar(&scanSequential, "sequential", false, "disable parallel probing")
	scanCmd.Flags().BoolVar(&scanNoSave, "no-save", false, "do not write sidecars for new books")
}
