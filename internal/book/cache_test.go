package book

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// writeTestVolumes creates numbered fake PDF files and metadata over them.
func writeTestVolumes(t *testing.T, n int) *Metadata {
	t.Helper()
	dir := t.TempDir()
	volumes := make([]VolumeInfo, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Book%d.pdf", i)
		content := bytes.Repeat([]byte{byte('A' + i)}, 1024)
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatal(err)
		}
		volumes[i] = VolumeInfo{FileName: name, PageCount: 10}
	}
	return New(filepath.Join(dir, volumes[0].FileName), volumes)
}

func TestGetOrLoadVolumeBytes_SingleRead(t *testing.T) {
	md := writeTestVolumes(t, 1)

	first := md.GetOrLoadVolumeBytes(0)
	if first == nil {
		t.Fatal("expected bytes on first load")
	}

	// Deleting the backing file proves later calls never touch disk.
	if err := os.Remove(md.FullPathForVolNo(0)); err != nil {
		t.Fatal(err)
	}
	second := md.GetOrLoadVolumeBytes(0)
	if second == nil {
		t.Fatal("expected cached bytes after file removal")
	}
	if &first[0] != &second[0] {
		t.Error("expected the identical buffer instance, got a re-read")
	}
}

func TestGetOrLoadVolumeBytes_ConcurrentSameVolume(t *testing.T) {
	md := writeTestVolumes(t, 1)

	const callers = 16
	results := make([][]byte, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = md.GetOrLoadVolumeBytes(0)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, b := range results {
		if b == nil {
			t.Fatalf("caller %d got nil", i)
		}
		if &b[0] != &results[0][0] {
			t.Errorf("caller %d got a different buffer instance", i)
		}
	}
}

func TestGetOrLoadVolumeBytes_ConcurrentDistinctVolumes(t *testing.T) {
	const vols = 8
	md := writeTestVolumes(t, vols)

	var wg sync.WaitGroup
	for v := 0; v < vols; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			if md.GetOrLoadVolumeBytes(v) == nil {
				t.Errorf("volume %d failed to load", v)
			}
		}(v)
	}
	wg.Wait()

	seen := make(map[byte]bool)
	for v := 0; v < vols; v++ {
		b := md.GetCachedVolumeBytes(v)
		if b == nil {
			t.Fatalf("volume %d not cached", v)
		}
		if seen[b[0]] {
			t.Errorf("volume %d shares content with another volume", v)
		}
		seen[b[0]] = true
	}
}

func TestGetOrLoadVolumeBytes_MissingFile(t *testing.T) {
	md := writeTestVolumes(t, 1)
	if err := os.Remove(md.FullPathForVolNo(0)); err != nil {
		t.Fatal(err)
	}
	if b := md.GetOrLoadVolumeBytes(0); b != nil {
		t.Errorf("expected nil for missing file, got %d bytes", len(b))
	}
}

func TestGetOrLoadVolumeBytes_ClampsVolNo(t *testing.T) {
	md := writeTestVolumes(t, 2)

	last := md.GetOrLoadVolumeBytes(1)
	clamped := md.GetOrLoadVolumeBytes(99)
	if clamped == nil || &clamped[0] != &last[0] {
		t.Error("out-of-range volNo should clamp to the last volume's buffer")
	}
	if md.GetOrLoadVolumeBytes(-3) == nil {
		t.Error("negative volNo should clamp to volume 0")
	}
}

func TestGetCachedVolumeBytes_NeverLoads(t *testing.T) {
	md := writeTestVolumes(t, 1)
	if b := md.GetCachedVolumeBytes(0); b != nil {
		t.Error("expected nil before any load")
	}
}

func TestClearBytesCache(t *testing.T) {
	md := writeTestVolumes(t, 2)
	md.GetOrLoadVolumeBytes(0)
	md.GetOrLoadVolumeBytes(1)

	md.ClearBytesCache()
	if md.GetCachedVolumeBytes(0) != nil || md.GetCachedVolumeBytes(1) != nil {
		t.Error("expected empty cache after clear")
	}
	if md.GetOrLoadVolumeBytes(0) == nil {
		t.Error("expected reload to work after clear")
	}
}

func TestClearBytesCache_ConcurrentWithLoads(t *testing.T) {
	md := writeTestVolumes(t, 4)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			md.GetOrLoadVolumeBytes(i % 4)
		}(i)
		if i%10 == 0 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				md.ClearBytesCache()
			}()
		}
	}
	wg.Wait()

	// Cache still functional afterwards.
	if md.GetOrLoadVolumeBytes(0) == nil {
		t.Error("cache broken after concurrent clears")
	}
}

func TestPreloadAllVolumeBytes(t *testing.T) {
	md := writeTestVolumes(t, 3)
	md.PreloadAllVolumeBytes(context.Background())

	for v := 0; v < 3; v++ {
		if md.GetCachedVolumeBytes(v) == nil {
			t.Errorf("volume %d not preloaded", v)
		}
	}
}
