// Package provider abstracts PDF document inspection so the metadata core
// stays independent of the rendering library.
package provider

import "context"

// DocumentProvider answers "how many pages does this PDF have".
//
// Implementations return (0, err) when the count cannot be determined
// (missing file, unreadable, non-PDF signature, cloud placeholder not yet
// synced). The core treats a zero count as "skip this volume's probe", never
// as a fatal condition.
type DocumentProvider interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// Func adapts a plain function to the DocumentProvider interface. Handy for
// tests and for callers that already have a page-count capability.
type Func func(ctx context.Context, path string) (int, error)

// PageCount implements DocumentProvider.
func (f Func) PageCount(ctx context.Context, path string) (int, error) {
	return f(ctx, path)
}
