package forme

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// GCString (spec §2.2/§3.2) owns a UTF-8 string together with the
// grapheme-cluster segmentation of that string. Segmentation itself is
// delegated to uniseg (the teacher's own width calls already lean on
// mattn/go-runewidth for East-Asian width; uniseg supplies the cluster
// boundaries runewidth doesn't attempt). No public API here slices by
// byte offset — only by Segment/ColIndex/ColWidth — per spec §3.2.
type GCString struct {
	raw      string
	segments []Segment
	width    ColWidth
}

// Segment is one grapheme cluster within a GCString.
type Segment struct {
	ByteStart int
	ByteEnd   int
	ColStart  ColIndex
	Width     ColWidth
	Index     SegIndex
}

// NewGCString segments s eagerly. The teacher's Buffer writers (WriteSpans,
// WriteString) walk a string rune-by-rune and track display width inline;
// GCString does the same work once, up front, so every later slice/caret
// operation is a segment lookup instead of a re-scan.
func NewGCString(s string) GCString {
	g := GCString{raw: s}
	g.segments = segmentGraphemes(s)
	for _, seg := range g.segments {
		g.width += seg.Width
	}
	return g
}

func segmentGraphemes(s string) []Segment {
	if s == "" {
		return nil
	}
	segs := make([]Segment, 0, len(s))
	state := -1
	byteOffset := 0
	colOffset := ColIndex(0)
	idx := SegIndex(0)
	remaining := s
	for len(remaining) > 0 {
		cluster, rest, width, newState := uniseg.FirstGraphemeClusterInString(remaining, state)
		state = newState
		w := ColWidth(width)
		if w == 0 {
			// Zero-width clusters (combining marks glued to a preceding
			// base, or the rare lone combining mark) still occupy the
			// grapheme stream; runewidth treats the visible rune as the
			// authority for display width, uniseg for cluster extent.
			w = ColWidth(runewidth.StringWidth(cluster))
		}
		segs = append(segs, Segment{
			ByteStart: byteOffset,
			ByteEnd:   byteOffset + len(cluster),
			ColStart:  colOffset,
			Width:     w,
			Index:     idx,
		})
		byteOffset += len(cluster)
		colOffset += ColIndex(w)
		idx++
		remaining = rest
	}
	return segs
}

// String returns the underlying UTF-8 content.
func (g GCString) String() string { return g.raw }

// DisplayWidth returns the sum of segment widths (spec §8 property:
// summing segment widths must equal this value — true by construction).
func (g GCString) DisplayWidth() ColWidth { return g.width }

// GraphemeCount returns the number of grapheme-cluster segments.
func (g GCString) GraphemeCount() Length { return Length(len(g.segments)) }

// Segments returns the segment list. The slice is owned by g and must not
// be mutated.
func (g GCString) Segments() []Segment { return g.segments }

// SegmentAt returns the segment whose column range contains col, and
// whether one exists (false once col >= DisplayWidth()).
func (g GCString) SegmentAt(col ColIndex) (Segment, bool) {
	for _, seg := range g.segments {
		if col >= seg.ColStart && col < seg.ColStart+ColIndex(seg.Width) {
			return seg, true
		}
	}
	return Segment{}, false
}

// SegmentIndexAtOrAfter returns the index of the first segment whose
// ColStart is >= col — used to find an insertion point between
// graphemes. Returns GraphemeCount() if col is past the end.
func (g GCString) SegmentIndexAtOrAfter(col ColIndex) SegIndex {
	for _, seg := range g.segments {
		if seg.ColStart >= col {
			return seg.Index
		}
	}
	return SegIndex(len(g.segments))
}

// Clip returns the sub-string covering [startCol, startCol+width), cut at
// grapheme boundaries — it never splits a cluster, so the returned
// string's display width may be less than width if a wide grapheme would
// have straddled the boundary. Spec §8: "Clipping s to any (start_col,
// width) yields a string whose display width <= width and whose content
// is a contiguous slice of graphemes of s."
func (g GCString) Clip(startCol ColIndex, width ColWidth) GCString {
	if width <= 0 || startCol >= ColIndex(g.width) {
		return GCString{}
	}
	endCol := startCol + ColIndex(width)
	var b strings.Builder
	for _, seg := range g.segments {
		if seg.ColStart < startCol {
			continue
		}
		if seg.ColStart+ColIndex(seg.Width) > endCol {
			break
		}
		b.WriteString(g.raw[seg.ByteStart:seg.ByteEnd])
	}
	return NewGCString(b.String())
}

// SliceBySegments returns the sub-string covering segments [start, end).
// Array-style bounds: both indices must be <= GraphemeCount(), start <=
// end.
func (g GCString) SliceBySegments(start, end SegIndex) GCString {
	if start < 0 || end > SegIndex(len(g.segments)) || start > end {
		return GCString{}
	}
	if start == end {
		return GCString{}
	}
	byteStart := g.segments[start].ByteStart
	byteEnd := g.segments[end-1].ByteEnd
	return NewGCString(g.raw[byteStart:byteEnd])
}

// InsertAt inserts text (itself re-segmented) before the segment at
// index, which must satisfy cursor-style bounds (0..=GraphemeCount()).
func (g GCString) InsertAt(index SegIndex, text string) GCString {
	if index < 0 || index > SegIndex(len(g.segments)) {
		index = SegIndex(len(g.segments))
	}
	byteOffset := len(g.raw)
	if int(index) < len(g.segments) {
		byteOffset = g.segments[index].ByteStart
	}
	return NewGCString(g.raw[:byteOffset] + text + g.raw[byteOffset:])
}

// DeleteSegment removes the grapheme at index (array-style bounds).
func (g GCString) DeleteSegment(index SegIndex) GCString {
	if index < 0 || int(index) >= len(g.segments) {
		return g
	}
	seg := g.segments[index]
	return NewGCString(g.raw[:seg.ByteStart] + g.raw[seg.ByteEnd:])
}
