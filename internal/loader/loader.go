// Package loader reconciles the on-disk PDF library against its JSON
// sidecars: it discovers books, loads or synthesizes their metadata, and
// persists newly discovered books.
package loader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/scoreshelf/scoreshelf/internal/book"
	"github.com/scoreshelf/scoreshelf/internal/provider"
	"github.com/scoreshelf/scoreshelf/internal/sidecar"
)

// ErrorHandler receives non-fatal per-book failures during a bulk load.
// The failing book is skipped; the scan continues.
type ErrorHandler func(context string, err error)

// Options controls one bulk load run.
type Options struct {
	// Provider answers page-count probes for PDFs without a sidecar.
	Provider provider.DocumentProvider

	// OnError, when set, is invoked for every skipped book. Nil means
	// per-book failures are swallowed.
	OnError ErrorHandler

	// Parallel probes distinct new books concurrently. The sequential
	// path is the reference walk; both produce the same book set.
	Parallel bool

	// AutoSave persists every newly synthesized or repaired (dirty) book
	// before it is returned.
	AutoSave bool

	// MaxWorkers bounds probe concurrency. Zero means NumCPU.
	MaxWorkers int

	// SinglesSuffixes marks folders of independent single-song PDFs by
	// folder-name suffix. Empty means the default (" Singles").
	SinglesSuffixes []string

	// HiddenFolderName is skipped entirely during the walk. Empty means
	// the default ("Hidden").
	HiddenFolderName string

	Logger *slog.Logger
}

// DefaultOptions returns the standard bulk-load settings: parallel probing,
// auto-save of new books.
func DefaultOptions(p provider.DocumentProvider) Options {
	return Options{
		Provider: p,
		Parallel: true,
		AutoSave: true,
	}
}

// Result is the outcome of one bulk load.
type Result struct {
	// RunID tags every log record of this run.
	RunID string

	// Books holds one metadata per discovered book, ordered by path.
	Books []*book.Metadata

	// Folders lists every scanned folder that contained PDFs.
	Folders []string
}

// unit is one book's worth of work: a continuation group in an ordinary
// folder, or an entire singles folder.
type unit struct {
	dir     string
	files   []string // volume order (group order, or alphabetical for singles)
	base    string
	singles bool
}

// LoadAll scans root for PDF books and returns their metadata.
//
// Books with an existing sidecar are loaded from JSON and their PDFs are
// never opened. Books without one are synthesized by probing each volume's
// page count through opts.Provider; continuation volumes found by the
// grouping pass are attached to the base book's metadata, never emitted as
// separate books. Cancellation is honored between per-book units of work.
func LoadAll(ctx context.Context, root string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.NumCPU()
	}
	if opts.HiddenFolderName == "" {
		opts.HiddenFolderName = "Hidden"
	}
	if len(opts.SinglesSuffixes) == 0 {
		opts.SinglesSuffixes = []string{" Singles"}
	}

	runID := uuid.New().String()
	logger = logger.With("run", runID[:8])
	logger.Info("starting library scan", "root", root, "parallel", opts.Parallel)

	folders, err := scanLibrary(root, opts.HiddenFolderName, opts.SinglesSuffixes)
	if err != nil {
		return nil, err
	}

	var units []unit
	folderPaths := make([]string, 0, len(folders))
	for _, f := range folders {
		folderPaths = append(folderPaths, f.path)
		if f.singles {
			units = append(units, unit{
				dir:     f.path,
				files:   f.names,
				base:    filepath.Base(f.path),
				singles: true,
			})
			continue
		}
		for _, g := range book.GroupContinuationVolumes(f.names) {
			units = append(units, unit{dir: f.path, files: g.Files, base: g.Base})
		}
	}
	logger.Debug("scan complete", "folders", len(folderPaths), "books", len(units))

	var books []*book.Metadata
	if opts.Parallel {
		books = loadParallel(ctx, units, opts, logger)
	} else {
		books = loadSequential(ctx, units, opts, logger)
	}

	sort.Slice(books, func(i, j int) bool {
		return books[i].FullPathFile < books[j].FullPathFile
	})
	logger.Info("library scan finished", "books", len(books))
	return &Result{RunID: runID, Books: books, Folders: folderPaths}, nil
}

// loadSequential processes every unit in order on the calling goroutine.
func loadSequential(ctx context.Context, units []unit, opts Options, logger *slog.Logger) []*book.Metadata {
	var books []*book.Metadata
	for _, u := range units {
		if ctx.Err() != nil {
			break
		}
		if md := loadUnit(ctx, u, opts, logger); md != nil {
			books = append(books, md)
		}
	}
	return books
}

// loadParallel loads books with existing sidecars synchronously (plain file
// reads, no probing) and probes new books concurrently with bounded
// parallelism.
func loadParallel(ctx context.Context, units []unit, opts Options, logger *slog.Logger) []*book.Metadata {
	var existing, fresh []unit
	for _, u := range units {
		if _, err := os.Stat(sidecarPathFor(u)); err == nil {
			existing = append(existing, u)
		} else {
			fresh = append(fresh, u)
		}
	}

	var books []*book.Metadata
	for _, u := range existing {
		if ctx.Err() != nil {
			return books
		}
		if md := loadUnit(ctx, u, opts, logger); md != nil {
			books = append(books, md)
		}
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, opts.MaxWorkers)
	)
	for _, u := range fresh {
		select {
		case sem <- struct{}{}: // acquire
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(u unit) {
			defer wg.Done()
			defer func() { <-sem }() // release
			if md := loadUnit(ctx, u, opts, logger); md != nil {
				mu.Lock()
				books = append(books, md)
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()
	return books
}

// loadUnit resolves one book: sidecar load when present, fresh synthesis
// otherwise, auto-save when requested. Returns nil when the book is skipped.
func loadUnit(ctx context.Context, u unit, opts Options, logger *slog.Logger) *book.Metadata {
	scPath := sidecarPathFor(u)

	md, err := sidecar.Load(ctx, scPath, opts.Provider, logger)
	if err != nil {
		reportError(opts, "load sidecar "+scPath, err)
		return nil
	}
	if md == nil {
		if u.singles {
			md = synthesizeSingles(ctx, u, opts, logger)
		} else {
			md = synthesizeBook(ctx, u, opts, logger)
		}
		if md == nil {
			return nil
		}
	}
	md.IsSinglesFolder = u.singles

	if opts.AutoSave && md.IsDirty() {
		if _, err := sidecar.Save(md, false); err != nil {
			reportError(opts, "save sidecar "+md.SidecarPath(), err)
		}
	}
	return md
}

// synthesizeBook builds fresh metadata for an ordinary book by probing each
// volume in group order. A probe error skips the whole book; a probe that
// merely cannot determine the count keeps the volume at zero pages for the
// repair pass to retry later.
func synthesizeBook(ctx context.Context, u unit, opts Options, logger *slog.Logger) *book.Metadata {
	if opts.Provider == nil {
		return nil
	}
	volumes := make([]book.VolumeInfo, 0, len(u.files))
	for _, name := range u.files {
		path := filepath.Join(u.dir, name)
		count, err := opts.Provider.PageCount(ctx, path)
		if err != nil {
			reportError(opts, "probe "+path, err)
			return nil
		}
		volumes = append(volumes, book.VolumeInfo{FileName: name, PageCount: count})
	}

	md := book.New(filepath.Join(u.dir, u.files[0]), volumes)
	md.MarkDirty()
	logger.Debug("synthesized book",
		"base", u.base, "volumes", len(volumes), "pages", md.TotalPageCount())
	return md
}

// synthesizeSingles builds one book for a singles folder: one volume per
// PDF in alphabetical order, with a synthesized TOC entry per song at its
// cumulative page offset. A failing probe keeps the song at zero pages
// rather than dropping it, so the book's identity stays the first file in
// the folder and the repair pass retries the count on later loads.
func synthesizeSingles(ctx context.Context, u unit, opts Options, logger *slog.Logger) *book.Metadata {
	if opts.Provider == nil {
		return nil
	}
	var (
		volumes []book.VolumeInfo
		toc     []book.TocEntry
		pageNo  int
		counted int
	)
	for _, name := range u.files {
		path := filepath.Join(u.dir, name)
		count, err := opts.Provider.PageCount(ctx, path)
		if err != nil {
			reportError(opts, "probe "+path, err)
			count = 0
		} else {
			counted++
		}
		volumes = append(volumes, book.VolumeInfo{FileName: name, PageCount: count})
		toc = append(toc, book.TocEntry{
			PageNo:   pageNo,
			SongName: strings.TrimSuffix(name, filepath.Ext(name)),
		})
		pageNo += count
	}
	if counted == 0 {
		return nil
	}

	md := book.New(filepath.Join(u.dir, volumes[0].FileName), volumes)
	md.TocEntries = toc
	md.IsSinglesFolder = true
	md.MarkDirty()
	logger.Debug("synthesized singles folder",
		"folder", u.base, "songs", len(volumes), "pages", md.TotalPageCount())
	return md
}

// sidecarPathFor returns the sidecar path of a unit before its metadata
// exists: volume 0's path with a .json extension.
func sidecarPathFor(u unit) string {
	first := u.files[0]
	stem := strings.TrimSuffix(first, filepath.Ext(first))
	return filepath.Join(u.dir, stem+".json")
}

func reportError(opts Options, context string, err error) {
	if opts.OnError != nil {
		opts.OnError(context, err)
	}
}
