// Package book defines the metadata model for one logical book: its physical
// PDF volumes, table of contents, favorites, ink annotations, and the
// per-volume byte cache used when rendering pages.
package book

// VolumeInfo describes one physical PDF file belonging to a book.
// It is immutable once read from a valid PDF; the sidecar repair pass may
// correct PageCount in place when it was persisted as zero.
type VolumeInfo struct {
	FileName  string `json:"fileName"`
	PageCount int    `json:"pageCount"`
	Rotation  int    `json:"rotation"` // quarter turns, 0-3
}

// TocEntry is one table-of-contents row, keyed by absolute page number.
type TocEntry struct {
	PageNo   int    `json:"pageNo"`
	SongName string `json:"songName"`
	Composer string `json:"composer"`
	Date     string `json:"date"`
	Notes    string `json:"notes"`
	// Link is omitted from the sidecar entirely when empty, never
	// serialized as null or "".
	Link string `json:"link,omitempty"`
}

// Favorite marks a page the user bookmarked.
type Favorite struct {
	PageNo int    `json:"pageNo"`
	Name   string `json:"favoriteName,omitempty"`
}

// InkStroke holds the raw ink annotation blob for one page. StrokeData is an
// opaque serialized point/color/thickness stream owned by the drawing layer;
// the canvas dimensions let that layer rescale strokes on differently sized
// displays.
type InkStroke struct {
	PageNo       int     `json:"pageNo"`
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`
	StrokeData   []byte  `json:"strokeData,omitempty"`
}
