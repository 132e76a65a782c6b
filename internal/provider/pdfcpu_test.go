package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPdfcpu_MissingFile(t *testing.T) {
	p := NewPdfcpu(3, time.Second, nil)

	start := time.Now()
	n, err := p.PageCount(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if n != 0 {
		t.Errorf("expected 0 pages, got %d", n)
	}
	// Missing files fail fast, without burning the retry budget.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("missing file took %v, should not retry", elapsed)
	}
}

func TestPdfcpu_InvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewPdfcpu(1, 0, nil)
	n, err := p.PageCount(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for invalid PDF")
	}
	if n != 0 {
		t.Errorf("expected 0 pages, got %d", n)
	}
}

func TestPdfcpu_CancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("still not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPdfcpu(10, time.Minute, nil)
	if _, err := p.PageCount(ctx, path); err == nil {
		t.Fatal("expected error under cancelled context")
	}
}

func TestFunc_Adapts(t *testing.T) {
	var got string
	p := Func(func(ctx context.Context, path string) (int, error) {
		got = path
		return 7, nil
	})

	n, err := p.PageCount(context.Background(), "x.pdf")
	if err != nil || n != 7 {
		t.Fatalf("got (%d, %v)", n, err)
	}
	if got != "x.pdf" {
		t.Errorf("path not forwarded: %q", got)
	}
}
