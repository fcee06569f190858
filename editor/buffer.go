package editor

import (
	"forme"
	"forme/gapbuffer"
)

// MaxUndoRedoSize bounds the history ring buffer (spec §4.6.4 "History
// full" policy: oldest entry dropped silently once this is reached).
const MaxUndoRedoSize = 64

// EditorContent is one immutable snapshot of everything Undo/Redo
// restores: the document's lines, caret, scroll offset, and selection
// (spec §3.7's EditorBuffer.content plus the history entries it feeds).
// Lines are kept as a plain []string rather than a cloned gapbuffer.Buffer
// — the gap buffer's internal layout (capacities, padding) is an
// implementation detail history doesn't need to preserve, only content.
type EditorContent struct {
	Lines            []string
	Caret            CaretRaw
	ScrOfs           ScrOfs
	Selection        SelectionList
	FileExtension    string
	FilePath         string
}

// history is the bounded ring buffer of EditorContent snapshots spec
// §4.6.4 describes, with a current-index cursor distinguishing "most
// recent state" from "where Undo/Redo currently sit".
type history struct {
	versions []EditorContent
	current  int // index into versions of the currently-applied state; 0 if empty
}

func (h *history) isEmpty() bool { return len(h.versions) == 0 }

// push appends snap as the new current version, first dropping any
// "future" (redo) versions beyond the current index, then dropping the
// oldest version if at capacity (spec §4.6.4).
func (h *history) push(snap EditorContent) {
	if h.current < len(h.versions)-1 {
		h.versions = h.versions[:h.current+1]
	}
	h.versions = append(h.versions, snap)
	h.current = len(h.versions) - 1
	if len(h.versions) > MaxUndoRedoSize {
		h.versions = h.versions[1:]
		h.current--
	}
}

func (h *history) canUndo() bool { return h.current > 0 }
func (h *history) canRedo() bool { return h.current >= 0 && h.current < len(h.versions)-1 }

// EditorBuffer is the editable document: gap-buffer-backed lines plus
// caret/scroll/selection state, bounded undo/redo history, and a render
// cache keyed by (scroll offset, viewport size) — spec §3.7.
type EditorBuffer struct {
	lines  *gapbuffer.Buffer
	caret  CaretRaw
	scrOfs ScrOfs
	sel    SelectionList

	fileExtension string
	filePath      string

	hist history

	renderCache map[renderCacheKey][][]forme.Span // cached rendered rows, keyed by (scroll offset, viewport size)
}

type renderCacheKey struct {
	ofs  ScrOfs
	rows int
	cols int
}

// NewEmpty returns a buffer with a single empty line — spec §3.7
// "EditorBuffer::new_empty() creates a one-empty-line buffer".
func NewEmpty() *EditorBuffer {
	return &EditorBuffer{
		lines:       gapbuffer.New(),
		sel:         SelectionList{},
		renderCache: map[renderCacheKey][][]forme.Span{},
	}
}

// SetLines replaces the buffer's content and wipes caret, scroll,
// selection, history, and render cache (spec §3.7).
func (b *EditorBuffer) SetLines(lines []string) {
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.lines = gapbuffer.NewFromLines(lines)
	b.caret = CaretRaw{}
	b.scrOfs = ScrOfs{}
	b.sel = SelectionList{}
	b.hist = history{}
	b.renderCache = map[renderCacheKey][][]forme.Span{}
}

// SetFileExtension records the extension used by render_engine to decide
// between the Markdown and plain render paths (spec §4.7).
func (b *EditorBuffer) SetFileExtension(ext string) { b.fileExtension = ext }

// FileExtension returns the extension set by SetFileExtension/SetLines.
func (b *EditorBuffer) FileExtension() string { return b.fileExtension }

// LineCount returns the number of lines in the document.
func (b *EditorBuffer) LineCount() int { return b.lines.LineCount() }

// Line returns row's content, or "" if out of range.
func (b *EditorBuffer) Line(row RowIndex) string {
	l, ok := b.lines.GetLine(row)
	if !ok {
		return ""
	}
	return l.Content
}

// LineDisplayWidth returns row's precomputed display width (0 if out of
// range).
func (b *EditorBuffer) LineDisplayWidth(row RowIndex) int {
	l, ok := b.lines.GetLine(row)
	if !ok {
		return 0
	}
	return l.Info.DisplayWidth
}

// LineGraphemeCount returns row's grapheme count (0 if out of range).
func (b *EditorBuffer) LineGraphemeCount(row RowIndex) int {
	l, ok := b.lines.GetLine(row)
	if !ok {
		return 0
	}
	return l.Info.GraphemeCount
}

// Caret returns the current viewport-relative caret position.
func (b *EditorBuffer) Caret() CaretRaw { return b.caret }

// ScrOfs returns the current scroll offset.
func (b *EditorBuffer) ScrOfs() ScrOfs { return b.scrOfs }

// CaretScrAdj returns the caret's document-absolute position.
func (b *EditorBuffer) CaretScrAdj() CaretRaw { return CaretScrAdj(b.caret, b.scrOfs) }

// Selection returns the current selection map (read-only; callers must
// not mutate the returned map).
func (b *EditorBuffer) Selection() SelectionList { return b.sel }

// GetAsStringWithNewlines serializes the whole document with '\n'
// separators (spec §6.4).
func (b *EditorBuffer) GetAsStringWithNewlines() string {
	return b.joinLines("\n")
}

// GetAsStringWithCommaInsteadOfNewlines serializes the whole document
// with ", " separators, the shape a one-line dialog summary needs (spec
// §6.4).
func (b *EditorBuffer) GetAsStringWithCommaInsteadOfNewlines() string {
	return b.joinLines(", ")
}

func (b *EditorBuffer) joinLines(sep string) string {
	n := b.lines.LineCount()
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += sep
		}
		out += b.Line(i)
	}
	return out
}

// snapshot captures the buffer's current content for history.
func (b *EditorBuffer) snapshot() EditorContent {
	n := b.lines.LineCount()
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		lines[i] = b.Line(i)
	}
	return EditorContent{
		Lines:         lines,
		Caret:         b.caret,
		ScrOfs:        b.scrOfs,
		Selection:     b.sel.Clone(),
		FileExtension: b.fileExtension,
		FilePath:      b.filePath,
	}
}

// restore replaces the buffer's live state from a snapshot, without
// touching history itself.
func (b *EditorBuffer) restore(c EditorContent) {
	b.lines = gapbuffer.NewFromLines(c.Lines)
	b.caret = c.Caret
	b.scrOfs = c.ScrOfs
	b.sel = c.Selection.Clone()
	b.fileExtension = c.FileExtension
	b.filePath = c.FilePath
}

// invalidateRenderCache drops every cached render, per spec §3.7 "any
// mutation that changes text invalidates the render cache".
func (b *EditorBuffer) invalidateRenderCache() {
	b.renderCache = map[renderCacheKey][][]forme.Span{}
}

// seedHistoryIfEmpty pushes the pre-event state as the seed the first
// time a text-modifying event fires on an empty history (spec §4.6.4).
func (b *EditorBuffer) seedHistoryIfEmpty() {
	if b.hist.isEmpty() {
		b.hist.push(b.snapshot())
	}
}

// pushHistory records the post-event state (spec §4.6.4: "any text-
// modifying event pushes a snapshot after applying the event").
func (b *EditorBuffer) pushHistory() {
	b.hist.push(b.snapshot())
}

// Undo restores the previous history entry but preserves the current
// caret position (spec §4.6.4). Returns false if there is nothing to
// undo.
func (b *EditorBuffer) Undo() bool {
	if !b.hist.canUndo() {
		return false
	}
	caret := b.caret
	b.hist.current--
	b.restore(b.hist.versions[b.hist.current])
	b.caret = caret
	b.invalidateRenderCache()
	return true
}

// Redo restores the next history entry entirely, including its caret
// (spec §4.6.4). Returns false if there is nothing to redo.
func (b *EditorBuffer) Redo() bool {
	if !b.hist.canRedo() {
		return false
	}
	b.hist.current++
	b.restore(b.hist.versions[b.hist.current])
	b.invalidateRenderCache()
	return true
}

// HistoryLen exposes the ring buffer's current size — used by the
// "history bound" property test (spec §8).
func (b *EditorBuffer) HistoryLen() int { return len(b.hist.versions) }
