package book

import (
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
)

// Metadata is the aggregate root for one book: an ordered list of physical
// volumes plus everything the sidecar persists about them. The identity of a
// book is FullPathFile, the path to volume 0.
//
// Metadata itself is not goroutine-safe except for the dirty flag and the
// volume byte cache; the bulk loader hands each instance to a single owner.
type Metadata struct {
	FullPathFile string

	Volumes    []VolumeInfo
	TocEntries []TocEntry
	Favorites  []Favorite
	InkStrokes []InkStroke

	PageNumberOffset int
	LastPageNo       int
	Notes            string

	// IsSinglesFolder is true when this "book" is a folder of independent
	// single-song PDFs rather than a multi-volume scan. Derived from the
	// folder name at load time, not persisted in the sidecar.
	IsSinglesFolder bool

	dirty atomic.Bool
	cache byteCache
}

// New creates metadata for the book whose volume 0 lives at fullPathFile.
func New(fullPathFile string, volumes []VolumeInfo) *Metadata {
	return &Metadata{
		FullPathFile: fullPathFile,
		Volumes:      volumes,
	}
}

// IsDirty reports whether in-memory state has diverged from the on-disk
// sidecar.
func (m *Metadata) IsDirty() bool { return m.dirty.Load() }

// MarkDirty flags the metadata as needing a save.
func (m *Metadata) MarkDirty() { m.dirty.Store(true) }

// ClearDirty is called by the sidecar codec after a successful save.
func (m *Metadata) ClearDirty() { m.dirty.Store(false) }

// Folder returns the directory containing the book's volumes.
func (m *Metadata) Folder() string { return filepath.Dir(m.FullPathFile) }

// BaseName returns the book's display name: volume 0's file name without
// its extension.
func (m *Metadata) BaseName() string {
	base := filepath.Base(m.FullPathFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SidecarPath returns the path of the JSON sidecar for this book: volume 0's
// path with the extension swapped for .json.
func (m *Metadata) SidecarPath() string {
	ext := filepath.Ext(m.FullPathFile)
	return strings.TrimSuffix(m.FullPathFile, ext) + ".json"
}

// TotalPageCount is the sum of all volumes' page counts.
func (m *Metadata) TotalPageCount() int {
	total := 0
	for _, v := range m.Volumes {
		total += v.PageCount
	}
	return total
}

// MaxPageNum is the exclusive upper bound of absolute page numbers for this
// book: the page-number offset plus every volume's page count.
func (m *Metadata) MaxPageNum() int {
	return m.PageNumberOffset + m.TotalPageCount()
}

// VolNoForPage maps an absolute page number to the index of the volume that
// contains it. Pages before the first volume map to volume 0 and pages past
// the end map to the last volume.
func (m *Metadata) VolNoForPage(pageNo int) int {
	if len(m.Volumes) == 0 {
		return 0
	}
	rel := pageNo - m.PageNumberOffset
	if rel < 0 {
		return 0
	}
	cum := 0
	for i, v := range m.Volumes {
		cum += v.PageCount
		if rel < cum {
			return i
		}
	}
	return len(m.Volumes) - 1
}

// FullPathForVolNo returns the full path of the given volume. An
// out-of-range volNo is clamped into the valid range rather than rejected;
// callers have historically relied on the clamped fallback.
func (m *Metadata) FullPathForVolNo(volNo int) string {
	if len(m.Volumes) == 0 {
		return m.FullPathFile
	}
	return filepath.Join(m.Folder(), m.Volumes[m.clampVolNo(volNo)].FileName)
}

func (m *Metadata) clampVolNo(volNo int) int {
	if volNo < 0 {
		return 0
	}
	if volNo >= len(m.Volumes) {
		return len(m.Volumes) - 1
	}
	return volNo
}

// AddTocEntry appends a TOC entry and marks the metadata dirty.
func (m *Metadata) AddTocEntry(e TocEntry) {
	m.TocEntries = append(m.TocEntries, e)
	m.MarkDirty()
}

// AddFavorite appends a favorite and marks the metadata dirty.
func (m *Metadata) AddFavorite(f Favorite) {
	m.Favorites = append(m.Favorites, f)
	m.MarkDirty()
}

// SetInkStroke replaces the ink blob for a page, or appends one if the page
// has none yet, and marks the metadata dirty.
func (m *Metadata) SetInkStroke(s InkStroke) {
	for i := range m.InkStrokes {
		if m.InkStrokes[i].PageNo == s.PageNo {
			m.InkStrokes[i] = s
			m.MarkDirty()
			return
		}
	}
	m.InkStrokes = append(m.InkStrokes, s)
	m.MarkDirty()
}

// SortedToc returns the TOC entries ordered by ascending page number.
// The stored order is preserved as written; display always sorts.
func (m *Metadata) SortedToc() []TocEntry {
	out := make([]TocEntry, len(m.TocEntries))
	copy(out, m.TocEntries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PageNo < out[j].PageNo
	})
	return out
}
