package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoreshelf/scoreshelf/internal/cli"
	"github.com/scoreshelf/scoreshelf/internal/config"
	"github.com/scoreshelf/scoreshelf/internal/home"
	"github.com/scoreshelf/scoreshelf/internal/provider"
	"github.com/scoreshelf/scoreshelf/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "scoreshelf",
	Short: "PDF sheet-music library metadata manager",
	Long: `Scoreshelf maintains the metadata layer of a PDF sheet-music library:
it discovers books (single- and multi-volume scans, singles folders),
keeps a JSON sidecar per book (table of contents, favorites, ink
annotations, page offsets), and repairs sidecars corrupted by partial
cloud syncs.

The viewer UI consumes this metadata; scoreshelf itself never renders
a page.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.scoreshelf/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "scoreshelf home directory (default: ~/.scoreshelf)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cli.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(tocCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(watchCmd)
}

// newLogger builds the command logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig loads configuration, preferring --config, then the home
// directory's config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		h, err := home.New(homeDir)
		if err != nil {
			return nil, err
		}
		if h.ConfigExists() {
			path = h.ConfigPath()
		}
	}
	cm, err := config.NewManager(path)
	if err != nil {
		return nil, err
	}
	return cm.Get(), nil
}

// newProvider builds the pdfcpu document provider from probe settings.
func newProvider(cfg *config.Config, logger *slog.Logger) provider.DocumentProvider {
	return provider.NewPdfcpu(
		cfg.Probe.RetryAttempts,
		time.Duration(cfg.Probe.RetryDelayMS)*time.Millisecond,
		logger,
	)
}
