package editor

import "forme/gapbuffer"

// EditorEngine translates input events into EditorBuffer mutations and
// renders the result (spec §3.7/§4.7/§4.8). The sticky desired column used
// by vertical caret motion lives here rather than on EditorBuffer, since
// it's transient per-session state, not part of the document — it resets
// on any horizontal move (spec §4.6.1).
type EditorEngine struct {
	desiredCol ColIndex

	hasAnchor bool
	anchorRow RowIndex
	anchorCol ColIndex

	selectMode SelectMode
	editMode   EditMode
	clipboard  ClipboardService

	viewportRows int
	viewportCols int
}

// NewEngine returns an engine in read-write mode with selection enabled.
func NewEngine(clipboard ClipboardService) *EditorEngine {
	return &EditorEngine{clipboard: clipboard, selectMode: SelectEnabled}
}

// SetViewport records the viewport size used by PageUp/PageDown and the
// render pass's cursor-style-bounds clipping (spec §4.7).
func (e *EditorEngine) SetViewport(rows, cols int) {
	e.viewportRows = rows
	e.viewportCols = cols
}

func (e *EditorEngine) SetEditMode(m EditMode) { e.editMode = m }
func (e *EditorEngine) EditMode() EditMode      { return e.editMode }

// SetSelectMode gates whether Select(*) events extend a selection at all
// (spec §4.8); a host that never offers shift-select can disable it so
// Select events fall through as no-ops instead of silently behaving like
// MoveCaret.
func (e *EditorEngine) SetSelectMode(m SelectMode) { e.selectMode = m }
func (e *EditorEngine) SelectMode() SelectMode      { return e.selectMode }

// colAtSegment returns the display column at segment index idx (0 and
// len(Segments) being the two boundary columns this line allows a caret
// at).
func colAtSegment(info *gapbuffer.LineInfo, idx int) int {
	if idx <= 0 {
		return 0
	}
	if idx >= len(info.Segments) {
		return info.DisplayWidth
	}
	return info.Segments[idx].ColStart
}

// segmentIndexAtCol returns the index of the first segment whose start
// column is at or after display column col, or len(Segments) if none is.
func segmentIndexAtCol(info *gapbuffer.LineInfo, col int) int {
	for i, s := range info.Segments {
		if col <= s.ColStart {
			return i
		}
	}
	return len(info.Segments)
}

// prevGraphemeCol returns the display column one grapheme cluster to the
// left of col within info (spec §4.6.1: movement is grapheme-wise, never
// splitting a cluster).
func prevGraphemeCol(info *gapbuffer.LineInfo, col int) int {
	idx := segmentIndexAtCol(info, col)
	if idx <= 0 {
		return 0
	}
	return colAtSegment(info, idx-1)
}

// nextGraphemeCol returns the display column one grapheme cluster to the
// right of col within info.
func nextGraphemeCol(info *gapbuffer.LineInfo, col int) int {
	idx := segmentIndexAtCol(info, col)
	if idx >= len(info.Segments) {
		return info.DisplayWidth
	}
	return colAtSegment(info, idx+1)
}

// moveLeft moves the caret one grapheme left, wrapping to the end of the
// previous line at column 0 (spec §4.6.1).
func (e *EditorEngine) moveLeft(b *EditorBuffer) {
	docRow := b.caret.Row + b.scrOfs.Row
	if b.caret.Col > 0 {
		line, _ := b.lines.GetLine(docRow)
		b.caret.Col = prevGraphemeCol(line.Info, b.caret.Col)
	} else if docRow > 0 {
		prevLine, _ := b.lines.GetLine(docRow - 1)
		b.scrollToRow(docRow - 1)
		b.caret.Col = prevLine.Info.DisplayWidth
	}
	e.desiredCol = b.caret.Col
}

// moveRight moves the caret one grapheme right, wrapping to column 0 of
// the next line at end-of-line (spec §4.6.1).
func (e *EditorEngine) moveRight(b *EditorBuffer) {
	docRow := b.caret.Row + b.scrOfs.Row
	line, ok := b.lines.GetLine(docRow)
	if !ok {
		return
	}
	if b.caret.Col < line.Info.DisplayWidth {
		b.caret.Col = nextGraphemeCol(line.Info, b.caret.Col)
	} else if docRow+1 < b.lines.LineCount() {
		b.scrollToRow(docRow + 1)
		b.caret.Col = 0
	}
	e.desiredCol = b.caret.Col
}

// moveUp/moveDown preserve the sticky desired column, clamping it to each
// visited line's display width (spec §4.6.1).
func (e *EditorEngine) moveUp(b *EditorBuffer) {
	docRow := b.caret.Row + b.scrOfs.Row
	if docRow == 0 {
		return
	}
	e.moveToRowKeepDesired(b, docRow-1)
}

func (e *EditorEngine) moveDown(b *EditorBuffer) {
	docRow := b.caret.Row + b.scrOfs.Row
	if docRow+1 >= b.lines.LineCount() {
		return
	}
	e.moveToRowKeepDesired(b, docRow+1)
}

func (e *EditorEngine) moveToRowKeepDesired(b *EditorBuffer, docRow int) {
	b.scrollToRow(docRow)
	line, _ := b.lines.GetLine(docRow)
	col := e.desiredCol
	if col > line.Info.DisplayWidth {
		col = line.Info.DisplayWidth
	}
	b.caret.Col = col
}

// moveHome/moveEnd move to column 0 / the line's display width (spec
// §4.6.1).
func (e *EditorEngine) moveHome(b *EditorBuffer) {
	b.caret.Col = 0
	e.desiredCol = 0
}

func (e *EditorEngine) moveEnd(b *EditorBuffer) {
	docRow := b.caret.Row + b.scrOfs.Row
	line, _ := b.lines.GetLine(docRow)
	b.caret.Col = line.Info.DisplayWidth
	e.desiredCol = b.caret.Col
}

// movePageUp/movePageDown move by the viewport's row height, clamped to
// the document (spec §4.6.1).
func (e *EditorEngine) movePageUp(b *EditorBuffer) {
	rows := e.viewportRows
	if rows <= 0 {
		rows = 1
	}
	docRow := b.caret.Row + b.scrOfs.Row
	target := docRow - rows
	if target < 0 {
		target = 0
	}
	e.moveToRowKeepDesired(b, target)
}

func (e *EditorEngine) movePageDown(b *EditorBuffer) {
	rows := e.viewportRows
	if rows <= 0 {
		rows = 1
	}
	docRow := b.caret.Row + b.scrOfs.Row
	target := docRow + rows
	if last := b.lines.LineCount() - 1; target > last {
		target = last
	}
	e.moveToRowKeepDesired(b, target)
}

// scrollToRow moves the caret's document row to docRow, adjusting
// scrOfs.Row and caret.Row together so CaretScrAdj().Row stays == docRow.
// It does not enforce viewport bounds on the low end beyond clamping
// caret.Row at 0 — Resize is what re-snaps scroll to keep the caret
// visible from above (spec §4.8 Resize).
func (b *EditorBuffer) scrollToRow(docRow int) {
	b.caret.Row = docRow - b.scrOfs.Row
	if b.caret.Row < 0 {
		b.scrOfs.Row = docRow
		b.caret.Row = 0
	}
}
