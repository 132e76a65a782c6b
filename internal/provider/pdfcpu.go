package provider

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Pdfcpu is the production DocumentProvider, backed by the pdfcpu library.
//
// Probes are retried a few times with a short delay: libraries synced
// through cloud storage routinely expose placeholder files that fail the
// first open and succeed moments later.
type Pdfcpu struct {
	// Attempts is the total number of probe attempts per file (min 1).
	Attempts uint

	// Delay is the pause between attempts.
	Delay time.Duration

	Logger *slog.Logger
}

// NewPdfcpu returns a provider with the given retry policy.
func NewPdfcpu(attempts uint, delay time.Duration, logger *slog.Logger) *Pdfcpu {
	if attempts == 0 {
		attempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pdfcpu{Attempts: attempts, Delay: delay, Logger: logger}
}

// PageCount returns the page count of the PDF at path, or (0, err) when it
// cannot be determined. A file that does not exist fails immediately without
// retrying.
func (p *Pdfcpu) PageCount(ctx context.Context, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("pdf not found: %s", path)
	}

	var count int
	err := retry.Do(
		func() error {
			n, err := api.PageCountFile(path)
			if err != nil {
				return err
			}
			count = n
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.Logger.Debug("retrying page-count probe",
				"path", path, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return count, nil
}
