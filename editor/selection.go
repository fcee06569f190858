package editor

// Selection is anchored: the engine remembers where the user started
// extending the selection (anchorRow/anchorCol, document-absolute) and
// recomputes the whole SelectionList from (anchor, caret) on every
// select-move — rather than incrementally patching the previous map —
// so the result is always exactly the range between the two points,
// with no drift from missed update cases (spec §4.6.2/§4.6.3).

// beginSelection records the current caret as the anchor the next
// select-move will extend from. Called the first time a Select(*) event
// fires after the selection was empty (spec §4.8).
func (e *EditorEngine) beginSelection(b *EditorBuffer) {
	c := b.CaretScrAdj()
	e.anchorRow, e.anchorCol = c.Row, c.Col
	e.hasAnchor = true
}

// clearSelection drops the selection and its anchor (spec §4.8's
// Select(Esc) and any plain MoveCaret).
func (e *EditorEngine) clearSelection(b *EditorBuffer) {
	b.sel = SelectionList{}
	e.hasAnchor = false
}

// selectAll selects every row in full (spec §4.8's Select(All)).
func (e *EditorEngine) selectAll(b *EditorBuffer) {
	sel := make(SelectionList, b.lines.LineCount())
	for row := 0; row < b.lines.LineCount(); row++ {
		sel[row] = SelectionRange{Start: 0, End: b.LineDisplayWidth(row), LastDirection: DirRight}
	}
	b.sel = sel
	e.hasAnchor = false
}

// updateSelection recomputes b.sel as the range between the anchor
// (fixed at the start of the gesture) and the caret's current
// document-absolute position, after a caret move made under
// SelectEnabled.
func (e *EditorEngine) updateSelection(b *EditorBuffer) {
	if !e.hasAnchor {
		e.beginSelection(b)
		return
	}
	c := b.CaretScrAdj()
	if e.anchorRow == c.Row {
		b.sel = singleLineSelection(e.anchorRow, e.anchorCol, c.Col)
		return
	}
	b.sel = multiLineSelection(b, e.anchorRow, e.anchorCol, c.Row, c.Col)
}

// singleLineSelection builds the one-row selection table: which of
// anchor/caret is leftmost decides Start/End, and LastDirection records
// which side the caret is on so a subsequent opposite-direction move is
// recognized as shrinking rather than a fresh extension (spec §4.6.2).
func singleLineSelection(row RowIndex, anchorCol, caretCol ColIndex) SelectionList {
	if anchorCol == caretCol {
		return SelectionList{}
	}
	dir := DirRight
	start, end := anchorCol, caretCol
	if caretCol < anchorCol {
		dir = DirLeft
		start, end = caretCol, anchorCol
	}
	return SelectionList{row: {Start: start, End: end, LastDirection: dir}}
}

// multiLineSelection builds the range spanning every row between the
// anchor and the caret: the outer two rows get a partial range running
// to/from the anchor or caret column, every row strictly between them is
// selected in full (spec §4.6.3). dir is Down when the caret is below
// the anchor, Up when above, and is recorded on every row of the range.
func multiLineSelection(b *EditorBuffer, anchorRow RowIndex, anchorCol ColIndex, caretRow RowIndex, caretCol ColIndex) SelectionList {
	topRow, topCol := anchorRow, anchorCol
	botRow, botCol := caretRow, caretCol
	dir := DirDown
	if caretRow < anchorRow {
		topRow, topCol, botRow, botCol = caretRow, caretCol, anchorRow, anchorCol
		dir = DirUp
	}

	sel := make(SelectionList, botRow-topRow+1)
	sel[topRow] = SelectionRange{Start: topCol, End: b.LineDisplayWidth(topRow), LastDirection: dir}
	for row := topRow + 1; row < botRow; row++ {
		sel[row] = SelectionRange{Start: 0, End: b.LineDisplayWidth(row), LastDirection: dir}
	}
	sel[botRow] = SelectionRange{Start: 0, End: botCol, LastDirection: dir}
	return sel
}

// selectedText concatenates the selected portion of every selected row,
// each row's own text joined by '\n' (spec §4.6's "copy the selection"
// consumer, used by Copy/Cut).
func selectedText(b *EditorBuffer) string {
	if b.sel.IsEmpty() {
		return ""
	}
	minRow, maxRow := -1, -1
	for row := range b.sel {
		if minRow == -1 || row < minRow {
			minRow = row
		}
		if row > maxRow {
			maxRow = row
		}
	}
	out := ""
	for row := minRow; row <= maxRow; row++ {
		r, ok := b.sel[row]
		if !ok || r.empty() {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += sliceLineByDisplayCol(b, row, r.Start, r.End)
	}
	return out
}

// sliceLineByDisplayCol returns the substring of row's content between
// display columns [fromCol, toCol), using the line's precomputed
// grapheme segments rather than byte offsets directly.
func sliceLineByDisplayCol(b *EditorBuffer, row RowIndex, fromCol, toCol ColIndex) string {
	line, ok := b.lines.GetLine(row)
	if !ok {
		return ""
	}
	info := line.Info
	startByte, endByte := 0, len(line.Content)
	for _, s := range info.Segments {
		if s.ColStart < fromCol {
			startByte = s.ByteEnd
		}
	}
	for i, s := range info.Segments {
		if s.ColStart >= toCol {
			if i == 0 {
				endByte = 0
			} else {
				endByte = info.Segments[i-1].ByteEnd
			}
			break
		}
	}
	if startByte > len(line.Content) {
		startByte = len(line.Content)
	}
	if endByte > len(line.Content) {
		endByte = len(line.Content)
	}
	if startByte >= endByte {
		return ""
	}
	return line.Content[startByte:endByte]
}

// deleteSelection removes the selected text, collapsing the caret to the
// start of the former selection (spec §4.8's Delete/Backspace/Cut
// "selection present" branch).
func (e *EditorEngine) deleteSelection(b *EditorBuffer) {
	if b.sel.IsEmpty() {
		return
	}
	minRow, maxRow := -1, -1
	for row := range b.sel {
		if minRow == -1 || row < minRow {
			minRow = row
		}
		if row > maxRow {
			maxRow = row
		}
	}
	startCol := b.sel[minRow].Start
	endCol := b.sel[maxRow].End

	if minRow == maxRow {
		fromByte := displayColToByte(b, minRow, startCol)
		toByte := displayColToByte(b, minRow, endCol)
		b.lines.DeleteRange(minRow, fromByte, toByte)
		b.lines.RebuildLineSegments(minRow)
	} else {
		endByte := displayColToByte(b, maxRow, endCol)
		line, _ := b.lines.GetLine(maxRow)
		tail := line.Content[endByte:]
		for row := maxRow; row > minRow; row-- {
			b.lines.DeleteLine(row)
		}
		startByte := displayColToByte(b, minRow, startCol)
		b.lines.DeleteRange(minRow, startByte, lineByteLen(b, minRow))
		b.lines.InsertAt(minRow, startByte, tail)
		b.lines.RebuildLineSegments(minRow)
	}

	b.scrollToRow(minRow)
	b.caret.Col = startCol
	e.clearSelection(b)
	b.invalidateRenderCache()
}

func lineByteLen(b *EditorBuffer, row RowIndex) int {
	line, _ := b.lines.GetLine(row)
	return len(line.Content)
}

// displayColToByte converts a display column to a byte offset within
// row's content via its precomputed segments.
func displayColToByte(b *EditorBuffer, row RowIndex, col ColIndex) int {
	line, ok := b.lines.GetLine(row)
	if !ok {
		return 0
	}
	for _, s := range line.Info.Segments {
		if s.ColStart == col {
			return s.ByteStart
		}
		if s.ColStart > col {
			return s.ByteStart
		}
	}
	return len(line.Content)
}
