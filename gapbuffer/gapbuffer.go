// Package gapbuffer implements the zero-copy line-oriented buffer spec
// §2.11/§3.6/§4.5 describes: one flat []byte holding every line's bytes
// back-to-back, each with reserved capacity and null padding, plus
// per-line grapheme-segment metadata rebuilt incrementally as the line's
// content changes. The teacher repo never needed this (its Buffer is an
// onscreen grid, not an editable text store); the append-optimized
// rebuild path is grounded on original_source/segment_construction.rs,
// the rest of the rebuild algorithm follows the same "segment once, slice
// many times" discipline forme.GCString already established for a single
// string.
package gapbuffer

import (
	"github.com/rivo/uniseg"
	"github.com/mattn/go-runewidth"
)

// minLineCapacity is the smallest capacity reserved for a new line, so
// that a handful of single-character insertions don't each force a
// reallocation.
const minLineCapacity = 32

// growthFactor controls how much spare capacity a line gets when it
// outgrows its current reservation.
const growthFactor = 2

// Segment is one grapheme cluster within a line, mirroring forme.Segment
// but scoped to gapbuffer so the package has no import-cycle dependency
// on the root package.
type Segment struct {
	ByteStart int
	ByteEnd   int
	ColStart  int
	Width     int
}

// LineInfo is the per-line metadata spec §3.6 names
// GapBufferLineInfo: byte bookkeeping plus the precomputed segment list,
// display width, and grapheme count.
type LineInfo struct {
	bufferOffset  int // byte offset of this line's region start in buf
	capacity      int // reserved bytes for this line
	contentLen    int // actual content bytes, always <= capacity

	Segments      []Segment
	DisplayWidth  int
	GraphemeCount int
}

// Buffer is the zero-copy gap buffer: all line content lives in one
// []byte, each line's region reserved with trailing null padding so most
// edits don't need to shift any other line's bytes.
type Buffer struct {
	buf   []byte
	lines []LineInfo
}

// New returns a buffer with a single empty line, matching
// EditorBuffer::new_empty's one-empty-line invariant (spec §3.7).
func New() *Buffer {
	b := &Buffer{}
	b.appendLine("")
	return b
}

// NewFromLines builds a buffer from an initial set of lines (used by
// EditorBuffer.SetLines to load a file's contents).
func NewFromLines(lines []string) *Buffer {
	b := &Buffer{}
	if len(lines) == 0 {
		lines = []string{""}
	}
	for _, l := range lines {
		b.appendLine(l)
	}
	return b
}

func (b *Buffer) appendLine(content string) {
	reserve := minLineCapacity
	for reserve < len(content) {
		reserve *= growthFactor
	}
	offset := len(b.buf)
	b.buf = append(b.buf, make([]byte, reserve)...)
	copy(b.buf[offset:], content)
	info := LineInfo{bufferOffset: offset, capacity: reserve, contentLen: len(content)}
	b.lines = append(b.lines, info)
	b.rebuildLineSegments(len(b.lines) - 1)
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line pairs a copy of a line's content with a pointer to its metadata —
// spec §4.5's GapBufferLine<'a>.
type Line struct {
	Content string
	Info    *LineInfo
}

// contentRange returns [start,end) of row's actual content within buf.
// Reading past contentLen (into the null-padded capacity tail) is a bug
// per spec §3.6's content-boundary invariant; every accessor here stops
// at contentLen.
func (b *Buffer) contentRange(row int) (int, int) {
	li := &b.lines[row]
	return li.bufferOffset, li.bufferOffset + li.contentLen
}

// GetLine returns row's content and metadata. ok is false if row is out
// of bounds (array-style: row must be < LineCount).
func (b *Buffer) GetLine(row int) (Line, bool) {
	if row < 0 || row >= len(b.lines) {
		return Line{}, false
	}
	start, end := b.contentRange(row)
	return Line{Content: string(b.buf[start:end]), Info: &b.lines[row]}, true
}

// LineBytes returns the raw content bytes of row without copying, valid
// only until the next mutation of the buffer.
func (b *Buffer) LineBytes(row int) []byte {
	start, end := b.contentRange(row)
	return b.buf[start:end]
}

// ensureCapacity grows row's reserved region in place (by shifting every
// region stored after it in buf forward once) to fit need bytes of
// content, preserving existing bytes. Storage order is not row order once
// InsertLineAt has placed a new line's region at the end of buf.
func (b *Buffer) ensureCapacity(row, need int) {
	li := &b.lines[row]
	if need <= li.capacity {
		return
	}
	newCap := li.capacity
	if newCap == 0 {
		newCap = minLineCapacity
	}
	for newCap < need {
		newCap *= growthFactor
	}
	delta := newCap - li.capacity
	// Shift every subsequent line's region forward by delta, then grow
	// buf and move their bytes once.
	oldEnd := li.bufferOffset + li.capacity
	tail := append([]byte(nil), b.buf[oldEnd:]...)
	b.buf = append(b.buf[:oldEnd], make([]byte, delta)...)
	b.buf = append(b.buf, tail...)
	li.capacity = newCap
	for i := range b.lines {
		if i != row && b.lines[i].bufferOffset >= oldEnd {
			b.lines[i].bufferOffset += delta
		}
	}
}

// InsertAt inserts text at byte offset col within row's content,
// returning the number of bytes inserted. This is a raw byte-offset
// primitive; forme/editor callers translate grapheme/column positions to
// byte offsets via the line's Segments before calling it (spec §4.5's
// UTF-8 contract: only valid UTF-8 enters here).
func (b *Buffer) InsertAt(row, byteCol int, text string) {
	li := &b.lines[row]
	start, _ := b.contentRange(row)
	insertAt := start + byteCol
	newLen := li.contentLen + len(text)
	b.ensureCapacity(row, newLen)
	li = &b.lines[row] // ensureCapacity may have reallocated
	start, end := b.contentRange(row)
	_ = end
	// Shift the tail of this line's content right by len(text), then
	// write text into the gap. This never touches another line's region.
	copy(b.buf[insertAt+len(text):start+newLen], b.buf[insertAt:start+li.contentLen])
	copy(b.buf[insertAt:insertAt+len(text)], text)
	li.contentLen = newLen
}

// DeleteRange deletes the byte range [fromCol, toCol) within row's
// content.
func (b *Buffer) DeleteRange(row, fromCol, toCol int) {
	if toCol <= fromCol {
		return
	}
	li := &b.lines[row]
	start, _ := b.contentRange(row)
	n := toCol - fromCol
	copy(b.buf[start+fromCol:start+li.contentLen-n], b.buf[start+toCol:start+li.contentLen])
	li.contentLen -= n
}

// InsertLineAt splits the buffer at (row, byteCol), inserting a new line
// break: the content after byteCol becomes the start of a new line
// inserted immediately after row.
func (b *Buffer) InsertLineAt(row, byteCol int) {
	content := b.LineBytes(row)
	tail := append([]byte(nil), content[byteCol:]...)
	b.DeleteRange(row, byteCol, len(content))

	// Make room for a new LineInfo slot at row+1, shifting every later
	// line's metadata (not its bytes — those stay where they are) right
	// by one.
	b.lines = append(b.lines, LineInfo{})
	copy(b.lines[row+2:], b.lines[row+1:len(b.lines)-1])

	capNeeded := minLineCapacity
	for capNeeded < len(tail) {
		capNeeded *= growthFactor
	}
	offset := len(b.buf)
	b.buf = append(b.buf, make([]byte, capNeeded)...)
	copy(b.buf[offset:], tail)
	b.lines[row+1] = LineInfo{bufferOffset: offset, capacity: capNeeded, contentLen: len(tail)}

	b.rebuildLineSegments(row)
	b.rebuildLineSegments(row + 1)
}

// JoinLines merges row+1's content onto the end of row, removing row+1.
func (b *Buffer) JoinLines(row int) {
	if row < 0 || row+1 >= len(b.lines) {
		return
	}
	next, _ := b.GetLine(row + 1)
	b.InsertAt(row, b.lines[row].contentLen, next.Content)
	b.lines = append(b.lines[:row+1], b.lines[row+2:]...)
	b.rebuildLineSegments(row)
}

// DeleteLine removes row entirely. At least one line always remains; a
// delete of the last remaining line instead clears it to empty.
func (b *Buffer) DeleteLine(row int) {
	if row < 0 || row >= len(b.lines) {
		return
	}
	if len(b.lines) == 1 {
		b.lines[0].contentLen = 0
		b.rebuildLineSegments(0)
		return
	}
	b.lines = append(b.lines[:row], b.lines[row+1:]...)
}

// segmentGraphemes computes grapheme-cluster segments for s (a content
// slice), mirroring forme.GCString's algorithm so gapbuffer and the root
// package agree on segmentation semantics.
func segmentGraphemes(s string) ([]Segment, int, int) {
	if s == "" {
		return nil, 0, 0
	}
	var segs []Segment
	state := -1
	byteOffset := 0
	colOffset := 0
	remaining := s
	for len(remaining) > 0 {
		cluster, rest, width, newState := uniseg.FirstGraphemeClusterInString(remaining, state)
		state = newState
		w := width
		if w == 0 {
			w = runewidth.StringWidth(cluster)
		}
		segs = append(segs, Segment{
			ByteStart: byteOffset,
			ByteEnd:   byteOffset + len(cluster),
			ColStart:  colOffset,
			Width:     w,
		})
		byteOffset += len(cluster)
		colOffset += w
		remaining = rest
	}
	return segs, colOffset, len(segs)
}

// RebuildLineSegments fully recomputes row's Segments/DisplayWidth/
// GraphemeCount from its current content (spec §4.5).
func (b *Buffer) RebuildLineSegments(row int) {
	b.rebuildLineSegments(row)
}

func (b *Buffer) rebuildLineSegments(row int) {
	if row < 0 || row >= len(b.lines) {
		return
	}
	content := b.LineBytes(row)
	segs, width, count := segmentGraphemes(string(content))
	li := &b.lines[row]
	li.Segments = segs
	li.DisplayWidth = width
	li.GraphemeCount = count
}

// RebuildLineSegmentsBatch rebuilds every row named in rows.
func (b *Buffer) RebuildLineSegmentsBatch(rows []int) {
	for _, r := range rows {
		b.rebuildLineSegments(r)
	}
}

// RebuildLineSegmentsAppendOptimized implements the fast path spec §4.5
// names: when row was non-empty before the insertion, the insertion sits
// at or past the old segment count (a pure append), and appendedText is
// exactly the bytes that were appended, this parses only appendedText and
// offsets its segments by the line's pre-insertion totals, skipping a
// full rescan of the line. Returns false (and leaves segment state
// untouched) whenever any precondition fails, signalling the caller to
// fall back to a full rebuild — callers MUST check the return value.
func (b *Buffer) RebuildLineSegmentsAppendOptimized(row, segIndex int, appendedText string) bool {
	if row < 0 || row >= len(b.lines) {
		return false
	}
	li := &b.lines[row]
	oldSegCount := len(li.Segments)
	if oldSegCount == 0 {
		return false // line was empty before: not an append, a fresh fill
	}
	if segIndex < oldSegCount {
		return false // insertion point is mid-line, not a pure append
	}
	// original_source/segment_construction.rs additionally asserts the
	// byte offset being appended at equals contentLen exactly; this is
	// that same precondition, checked (rather than a hard panic, per spec
	// §7) by confirming the line's current tail actually is appendedText.
	content := b.LineBytes(row)
	if len(content) < len(appendedText) || string(content[len(content)-len(appendedText):]) != appendedText {
		return false
	}
	newSegs, addedWidth, addedCount := segmentGraphemes(appendedText)
	byteBase := len(content) - len(appendedText)
	colBase := li.DisplayWidth
	for i := range newSegs {
		newSegs[i].ByteStart += byteBase
		newSegs[i].ByteEnd += byteBase
		newSegs[i].ColStart += colBase
	}
	li.Segments = append(li.Segments, newSegs...)
	li.DisplayWidth += addedWidth
	li.GraphemeCount += addedCount
	return true
}
