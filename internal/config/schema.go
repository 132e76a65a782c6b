package config

// Config holds scoreshelf configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Library LibraryCfg `mapstructure:"library" yaml:"library"`
	Probe   ProbeCfg   `mapstructure:"probe" yaml:"probe"`
	Watch   WatchCfg   `mapstructure:"watch" yaml:"watch"`
}

// LibraryCfg configures the music library scan.
type LibraryCfg struct {
	// Root is the folder holding the PDF library.
	Root string `mapstructure:"root" yaml:"root"`

	// ParallelLoading probes new books concurrently during a scan.
	ParallelLoading bool `mapstructure:"parallel_loading" yaml:"parallel_loading"`

	// AutoSaveNewMetadata persists sidecars for newly discovered books.
	AutoSaveNewMetadata bool `mapstructure:"auto_save_new_metadata" yaml:"auto_save_new_metadata"`

	// MaxWorkers bounds concurrent page-count probing (0 = NumCPU).
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`

	// SinglesSuffixes marks folders of independent single-song PDFs.
	SinglesSuffixes []string `mapstructure:"singles_suffixes" yaml:"singles_suffixes"`

	// HiddenFolderName is excluded from scans entirely.
	HiddenFolderName string `mapstructure:"hidden_folder_name" yaml:"hidden_folder_name"`
}

// ProbeCfg configures page-count probing of PDFs.
type ProbeCfg struct {
	// RetryAttempts is the total attempts per file. Cloud-synced files
	// often fail the first open and succeed shortly after.
	RetryAttempts uint `mapstructure:"retry_attempts" yaml:"retry_attempts"`

	// RetryDelayMS is the pause between attempts in milliseconds.
	RetryDelayMS int `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
}

// WatchCfg configures the library watcher.
type WatchCfg struct {
	// DebounceMS coalesces bursts of file events before a rescan.
	DebounceMS int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryCfg{
			ParallelLoading:     true,
			AutoSaveNewMetadata: true,
			SinglesSuffixes:     []string{" Singles"},
			HiddenFolderName:    "Hidden",
		},
		Probe: ProbeCfg{
			RetryAttempts: 3,
			RetryDelayMS:  500,
		},
		Watch: WatchCfg{
			DebounceMS: 2000,
		},
	}
}
