package forme

// This file grounds spec §3.1/§8 "Units & bounds" on the teacher's own
// int-based Buffer/Region coordinate conventions (buffer.go's InBounds,
// index, Get/Set clamping) by giving each dimension its own type so a call
// site can no longer silently mix a row with a column or a count with an
// index.

// ColIndex is a 0-based column index into a row.
type ColIndex int

// RowIndex is a 0-based row index into a grid.
type RowIndex int

// SegIndex is a 0-based index into a GCString's segment list.
type SegIndex int

// ColWidth is a count of display columns.
type ColWidth int

// RowHeight is a count of rows.
type RowHeight int

// Length is a count of items (graphemes, bytes, history entries, ...).
type Length int

// Pos is a grid position.
type Pos struct {
	Row RowIndex
	Col ColIndex
}

// GridSize is a grid extent, in rows and columns.
type GridSize struct {
	Rows RowHeight
	Cols ColWidth
}

// CaretRaw is a caret position relative to the visible viewport.
type CaretRaw Pos

// ScrOfs is the scroll offset of the viewport inside the document.
type ScrOfs Pos

// CaretScrAdj is a caret position relative to the whole document
// (CaretRaw + ScrOfs).
type CaretScrAdj Pos

// Add returns the scroll-adjusted caret for a raw caret at the given
// scroll offset.
func (c CaretRaw) Add(s ScrOfs) CaretScrAdj {
	return CaretScrAdj{Row: c.Row + s.Row, Col: c.Col + s.Col}
}

// BoundsResult classifies where an index falls relative to a length.
type BoundsResult uint8

const (
	// Within means the index is a valid element position.
	Within BoundsResult = iota
	// AtEnd means the index is exactly one past the last element — valid
	// only under cursor-style bounds checking.
	AtEnd
	// Beyond means the index is invalid under both bounds-check styles.
	Beyond
)

// CheckArrayBounds applies array-style bounds checking: index < length is
// the only valid range. This is the style used when indexing into an
// existing element (a cell, a segment, a history entry).
func CheckArrayBounds(index int, length int) BoundsResult {
	switch {
	case index < 0:
		return Beyond
	case index < length:
		return Within
	default:
		return Beyond
	}
}

// CheckCursorBounds applies cursor-style bounds checking: index <= length
// is valid, since one-past-the-end is a legal caret/cursor position. This
// is the style used when indexing a position that text can be inserted
// at, or a viewport row that should still be rendered when it coincides
// with the last row of the window.
func CheckCursorBounds(index int, length int) BoundsResult {
	switch {
	case index < 0:
		return Beyond
	case index < length:
		return Within
	case index == length:
		return AtEnd
	default:
		return Beyond
	}
}

// ClampToArray clamps index into [0, length) — the valid range for
// array-style bounds. Used by OffscreenBuffer cursor motion: a cursor can
// never sit one-past the last column or row of the window.
func ClampToArray(index, length int) int {
	if length <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

// ClampToCursor clamps index into [0, length] — the valid range for
// cursor-style bounds.
func ClampToCursor(index, length int) int {
	if index < 0 {
		return 0
	}
	if index > length {
		return length
	}
	return index
}
