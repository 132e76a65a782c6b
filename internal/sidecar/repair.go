package sidecar

import (
	"context"
	"log/slog"

	"github.com/scoreshelf/scoreshelf/internal/book"
	"github.com/scoreshelf/scoreshelf/internal/provider"
)

// repair fixes the two corruption patterns partial cloud syncs leave behind:
// volumes persisted with a zero page count, and TOC page numbers that no
// longer line up with the volumes they index. Returns true when anything
// changed, in which case the caller must mark the metadata dirty.
func repair(ctx context.Context, md *book.Metadata, p provider.DocumentProvider, logger *slog.Logger) bool {
	repaired := repairVolumePageCounts(ctx, md, p, logger)
	if repairTocPageNumbers(md) {
		repaired = true
	}
	return repaired
}

// repairVolumePageCounts re-probes only the volumes whose persisted page
// count is zero. Volumes with a correct count are never re-opened; a probe
// that still cannot determine the count leaves the volume at zero for the
// next load to retry.
func repairVolumePageCounts(ctx context.Context, md *book.Metadata, p provider.DocumentProvider, logger *slog.Logger) bool {
	if p == nil {
		return false
	}
	repaired := false
	for i := range md.Volumes {
		if md.Volumes[i].PageCount != 0 {
			continue
		}
		path := md.FullPathForVolNo(i)
		count, err := p.PageCount(ctx, path)
		if err != nil || count == 0 {
			logger.Warn("could not repair zero page count",
				"path", path, "error", err)
			continue
		}
		logger.Info("repaired zero page count",
			"path", path, "pages", count)
		md.Volumes[i].PageCount = count
		repaired = true
	}
	return repaired
}

// repairTocPageNumbers recomputes per-volume TOC page numbers as the
// cumulative sum of the preceding volumes' page counts.
//
// Only the synthesized one-entry-per-volume shape (singles folders and
// freshly discovered books) is repairable this way; a hand-authored TOC with
// a different entry count is left untouched. The recompute runs off the
// current (possibly just-corrected) volume counts whenever the stored
// sequence deviates, regardless of whether any volume needed fixing.
func repairTocPageNumbers(md *book.Metadata) bool {
	if len(md.TocEntries) == 0 || len(md.TocEntries) != len(md.Volumes) {
		return false
	}

	repaired := false
	pageNo := md.PageNumberOffset
	for i := range md.TocEntries {
		if md.TocEntries[i].PageNo != pageNo {
			md.TocEntries[i].PageNo = pageNo
			repaired = true
		}
		pageNo += md.Volumes[i].PageCount
	}
	return repaired
}
