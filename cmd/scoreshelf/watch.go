package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/loader"
	"github.com/scoreshelf/scoreshelf/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Watch the library and rescan on changes",
	Long: `Watch runs an initial scan, then observes the library root and rescans
after file activity settles. New books dropped into the library get
their sidecars synthesized automatically. Runs until interrupted.`,
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
			Parallel:         cfg.Library.ParallelLoading,
			AutoSave:         cfg.Library.AutoSaveNewMetadata,
			MaxWorkers:       cfg.Library.MaxWorkers,
			SinglesSuffixes:  cfg.Library.SinglesSuffixes,
			HiddenFolderName: cfg.Library.HiddenFolderName,
			Logger:           logger,
			OnError: func(context string, err error) {
				logger.Warn("book skipped", "context", context, "error", err)
			},
		}

		rescan := func(ctx context.Context) {
			result, err := loader.LoadAll(ctx, root, opts)
			if err != nil {
				logger.Error("rescan failed", "error", err)
				return
			}
			logger.Info("rescan complete", "books", len(result.Books))
		}
		rescan(cmd.Context())

		w := &watch.Watcher{
			Root:     root,
			Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
			OnChange: rescan,
			Logger:   logger,
		}
		err = w.Run(cmd.Context())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
