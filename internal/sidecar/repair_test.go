package sidecar

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/scoreshelf/scoreshelf/internal/book"
)

// writeSidecar builds a book in a temp dir, saves it with the given
// (possibly corrupt) volume and TOC state, and returns the sidecar path.
func writeSidecar(t *testing.T, volumes []book.VolumeInfo, toc []book.TocEntry) string {
	t.Helper()
	dir := t.TempDir()
	md := book.New(filepath.Join(dir, volumes[0].FileName), volumes)
	md.TocEntries = toc
	md.MarkDirty()
	if _, err := Save(md, false); err != nil {
		t.Fatal(err)
	}
	return md.SidecarPath()
}

func TestLoad_RepairsAllZeroToc(t *testing.T) {
	// Three one-page volumes with correct counts but a zeroed TOC.
	path := writeSidecar(t,
		[]book.VolumeInfo{
			{FileName: "Song A.pdf", PageCount: 1},
			{FileName: "Song B.pdf", PageCount: 1},
			{FileName: "Song C.pdf", PageCount: 1},
		},
		[]book.TocEntry{
			{PageNo: 0, SongName: "Song A"},
			{PageNo: 0, SongName: "Song B"},
			{PageNo: 0, SongName: "Song C"},
		},
	)

	p := &fakeProvider{}
	md, err := Load(context.Background(), path, p, nil)
	if err != nil || md == nil {
		t.Fatalf("Load: md=%v err=%v", md, err)
	}

	for i, want := range []int{0, 1, 2} {
		if md.TocEntries[i].PageNo != want {
			t.Errorf("toc entry %d: got page %d, want %d", i, md.TocEntries[i].PageNo, want)
		}
	}
	if !md.IsDirty() {
		t.Error("repaired metadata must be dirty")
	}
	if len(p.probedNames()) != 0 {
		t.Errorf("correct volume counts must not be re-probed, probed %v", p.probedNames())
	}
}

func TestLoad_RepairsMixedZeroPageCounts(t *testing.T) {
	// One correct and two zeroed volumes, as a partial cloud sync leaves
	// a singles folder. Only the zero ones get probed; the TOC is fully
	// recomputed either way.
	path := writeSidecar(t,
		[]book.VolumeInfo{
			{FileName: "Aria.pdf", PageCount: 5},
			{FileName: "Bolero.pdf", PageCount: 0},
			{FileName: "Czardas.pdf", PageCount: 0},
		},
		[]book.TocEntry{
			{PageNo: 0, SongName: "Aria"},
			{PageNo: 0, SongName: "Bolero"},
			{PageNo: 0, SongName: "Czardas"},
		},
	)

	p := &fakeProvider{counts: map[string]int{
		"Bolero.pdf":  3,
		"Czardas.pdf": 2,
	}}
	md, err := Load(context.Background(), path, p, nil)
	if err != nil || md == nil {
		t.Fatalf("Load: md=%v err=%v", md, err)
	}

	probed := p.probedNames()
	if len(probed) != 2 {
		t.Fatalf("expected 2 probes, got %v", probed)
	}
	for _, name := range probed {
		if name == "Aria.pdf" {
			t.Error("correct volume was re-probed")
		}
	}

	wantCounts := []int{5, 3, 2}
	for i, want := range wantCounts {
		if md.Volumes[i].PageCount != want {
			t.Errorf("volume %d: got %d pages, want %d", i, md.Volumes[i].PageCount, want)
		}
	}
	wantPages := []int{0, 5, 8}
	for i, want := range wantPages {
		if md.TocEntries[i].PageNo != want {
			t.Errorf("toc entry %d: got page %d, want %d", i, md.TocEntries[i].PageNo, want)
		}
	}
	if !md.IsDirty() {
		t.Error("repaired metadata must be dirty")
	}
}

func TestLoad_UnrepairableVolumeStaysZero(t *testing.T) {
	path := writeSidecar(t,
		[]book.VolumeInfo{
			{FileName: "Missing.pdf", PageCount: 0},
			{FileName: "Present.pdf", PageCount: 4},
		},
		nil,
	)

	p := &fakeProvider{counts: map[string]int{"Present.pdf": 4}}
	md, err := Load(context.Background(), path, p, nil)
	if err != nil || md == nil {
		t.Fatalf("Load: md=%v err=%v", md, err)
	}
	if md.Volumes[0].PageCount != 0 {
		t.Errorf("unprobeable volume should stay at 0, got %d", md.Volumes[0].PageCount)
	}
	if md.IsDirty() {
		t.Error("failed repair alone must not mark dirty")
	}
}

func TestLoad_CleanSidecarStaysClean(t *testing.T) {
	path := writeSidecar(t,
		[]book.VolumeInfo{
			{FileName: "Good.pdf", PageCount: 7},
			{FileName: "Good1.pdf", PageCount: 9},
		},
		[]book.TocEntry{
			{PageNo: 0, SongName: "Good"},
			{PageNo: 7, SongName: "Good, part two"},
		},
	)

	p := &fakeProvider{}
	md, err := Load(context.Background(), path, p, nil)
	if err != nil || md == nil {
		t.Fatalf("Load: md=%v err=%v", md, err)
	}
	if md.IsDirty() {
		t.Error("clean sidecar must not be dirty after load")
	}
	if len(p.probedNames()) != 0 {
		t.Errorf("clean sidecar must not trigger probes, got %v", p.probedNames())
	}

	// Saved repair persists: force-save and reload still clean.
	if _, err := Save(md, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_RespectsPageNumberOffset(t *testing.T) {
	dir := t.TempDir()
	md := book.New(filepath.Join(dir, "Offset.pdf"), []book.VolumeInfo{
		{FileName: "Offset.pdf", PageCount: 3},
		{FileName: "Offset1.pdf", PageCount: 4},
	})
	md.PageNumberOffset = 10
	md.TocEntries = []book.TocEntry{
		{PageNo: 0, SongName: "First"},
		{PageNo: 0, SongName: "Second"},
	}
	md.MarkDirty()
	if _, err := Save(md, false); err != nil {
		t.Fatal(err)
	}

	got, err := Load(context.Background(), md.SidecarPath(), &fakeProvider{}, nil)
	if err != nil || got == nil {
		t.Fatalf("Load: md=%v err=%v", got, err)
	}
	if got.TocEntries[0].PageNo != 10 || got.TocEntries[1].PageNo != 13 {
		t.Errorf("offset-aware repair: got (%d, %d), want (10, 13)",
			got.TocEntries[0].PageNo, got.TocEntries[1].PageNo)
	}
}
