// Package watch observes the library root for file changes and triggers
// rescans after a quiet period.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a library root recursively and invokes OnChange after
// file activity settles. Event bursts (a cloud sync dropping in dozens of
// PDFs) coalesce into a single rescan.
type Watcher struct {
	Root     string
	Debounce time.Duration

	// OnChange is called with the watcher's context after the debounce
	// window closes.
	OnChange func(ctx context.Context)

	Logger *slog.Logger
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := addRecursive(fw, w.Root); err != nil {
		return err
	}
	logger.Info("watching library", "root", w.Root, "debounce", debounce)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			// New directories need their own watch.
			if ev.Op.Has(fsnotify.Create) {
				_ = addRecursive(fw, ev.Name)
			}
			logger.Debug("library changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.AfterFunc(debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-fire:
			timer = nil
			if w.OnChange != nil {
				w.OnChange(ctx)
			}
		}
	}
}

// relevant filters events down to PDF and sidecar activity plus directory
// creation.
func relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(ev.Name))
	return ext == ".pdf" || ext == ".json" || ext == ""
}

// addRecursive watches path and every directory beneath it. Non-directory
// paths are ignored.
func addRecursive(fw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // vanished mid-walk, skip
		}
		if d.IsDir() {
			if err := fw.Add(p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
		}
		return nil
	})
}
