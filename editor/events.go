package editor

import (
	"strings"

	"forme"
)

// EditorEvent is the translated form of an input event the engine acts
// on (spec §4.8). Input events arrive as whatever the host's input layer
// produces; translating them into this closed set up front is what lets
// apply_event's dispatch be a single exhaustive switch instead of
// re-deriving intent from raw key codes.
type EditorEvent struct {
	Kind EditorEventKind

	// InsertChar/InsertString payload.
	Text string

	// MoveCaret/Select payload.
	Direction CaretDirection

	// Resize payload.
	Rows, Cols int
}

type EditorEventKind uint8

const (
	EvInsertChar EditorEventKind = iota
	EvInsertString
	EvInsertNewLine
	EvDelete    // forward delete
	EvBackspace // delete before caret
	EvCopy
	EvCut
	EvPaste
	EvMoveCaret
	EvSelect
	EvResize
	EvUndo
	EvRedo
)

// ApplyResult reports whether an event changed buffer state, so callers
// can decide whether a re-render is needed (spec §4.8).
type ApplyResult uint8

const (
	NotApplied ApplyResult = iota
	Applied
)

// isTextModifying reports whether kind is one of the events that must
// seed/push undo history (spec §4.6.4).
func (k EditorEventKind) isTextModifying() bool {
	switch k {
	case EvInsertChar, EvInsertString, EvInsertNewLine, EvDelete, EvBackspace, EvCut, EvPaste:
		return true
	default:
		return false
	}
}

// ApplyEvent is the engine's single entry point for mutating a buffer in
// response to one translated input event (spec §4.7/§4.8). ReadOnly mode
// rejects every event except MoveCaret/Select/Resize/Copy.
func (e *EditorEngine) ApplyEvent(b *EditorBuffer, ev EditorEvent) ApplyResult {
	if e.editMode == EditReadOnly && !readOnlySafe(ev.Kind) {
		return NotApplied
	}

	if ev.Kind.isTextModifying() {
		b.seedHistoryIfEmpty()
	}

	applied := e.dispatch(b, ev)

	if applied == Applied && ev.Kind.isTextModifying() {
		b.invalidateRenderCache()
		b.pushHistory()
	}
	return applied
}

func readOnlySafe(k EditorEventKind) bool {
	switch k {
	case EvMoveCaret, EvSelect, EvResize, EvCopy:
		return true
	default:
		return false
	}
}

func (e *EditorEngine) dispatch(b *EditorBuffer, ev EditorEvent) ApplyResult {
	switch ev.Kind {
	case EvInsertChar:
		return e.insertString(b, ev.Text)
	case EvInsertString:
		return e.insertString(b, ev.Text)
	case EvInsertNewLine:
		e.insertNewLine(b)
		return Applied
	case EvDelete:
		return e.delete(b)
	case EvBackspace:
		return e.backspace(b)
	case EvCopy:
		e.copy(b)
		return Applied
	case EvCut:
		return e.cut(b)
	case EvPaste:
		return e.paste(b)
	case EvMoveCaret:
		return e.moveCaret(b, ev.Direction)
	case EvSelect:
		return e.selectMove(b, ev.Direction)
	case EvResize:
		e.resize(b, ev.Rows, ev.Cols)
		return Applied
	case EvUndo:
		if b.Undo() {
			return Applied
		}
		return NotApplied
	case EvRedo:
		if b.Redo() {
			return Applied
		}
		return NotApplied
	default:
		return NotApplied
	}
}

// insertString normalizes CRLF/CR to LF and splits on embedded newlines
// into a sequence of byte-insert + InsertNewLine operations — the same
// path whether the text came from a single keystroke, an IME commit, or
// a paste (spec §4.8's InsertChar/InsertString/Paste all funnel here).
func (e *EditorEngine) insertString(b *EditorBuffer, text string) ApplyResult {
	if text == "" {
		return NotApplied
	}
	if !b.sel.IsEmpty() {
		e.deleteSelection(b)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, chunk := range lines {
		if chunk != "" {
			docRow := b.caret.Row + b.scrOfs.Row
			line, _ := b.lines.GetLine(docRow)
			byteCol := displayColToByte(b, docRow, b.caret.Col)
			segIndex := segmentIndexAtCol(line.Info, b.caret.Col)
			b.lines.InsertAt(docRow, byteCol, chunk)
			if !b.lines.RebuildLineSegmentsAppendOptimized(docRow, segIndex, chunk) {
				b.lines.RebuildLineSegments(docRow)
			}
			b.caret.Col += int(forme.NewGCString(chunk).DisplayWidth())
			e.desiredCol = b.caret.Col
		}
		if i < len(lines)-1 {
			e.insertNewLine(b)
		}
	}
	return Applied
}

func (e *EditorEngine) insertNewLine(b *EditorBuffer) {
	if !b.sel.IsEmpty() {
		e.deleteSelection(b)
	}
	docRow := b.caret.Row + b.scrOfs.Row
	byteCol := displayColToByte(b, docRow, b.caret.Col)
	b.lines.InsertLineAt(docRow, byteCol)
	b.scrollToRow(docRow + 1)
	b.caret.Col = 0
	e.desiredCol = 0
}

// delete removes one grapheme at the caret (forward delete), or the
// selection if present (spec §4.8).
func (e *EditorEngine) delete(b *EditorBuffer) ApplyResult {
	if !b.sel.IsEmpty() {
		e.deleteSelection(b)
		return Applied
	}
	docRow := b.caret.Row + b.scrOfs.Row
	line, ok := b.lines.GetLine(docRow)
	if !ok {
		return NotApplied
	}
	if b.caret.Col < line.Info.DisplayWidth {
		from := displayColToByte(b, docRow, b.caret.Col)
		to := displayColToByte(b, docRow, nextGraphemeCol(line.Info, b.caret.Col))
		b.lines.DeleteRange(docRow, from, to)
		b.lines.RebuildLineSegments(docRow)
		return Applied
	}
	if docRow+1 < b.lines.LineCount() {
		b.lines.JoinLines(docRow)
		return Applied
	}
	return NotApplied
}

// backspace removes one grapheme before the caret, joining with the
// previous line at column 0, or the selection if present (spec §4.8).
func (e *EditorEngine) backspace(b *EditorBuffer) ApplyResult {
	if !b.sel.IsEmpty() {
		e.deleteSelection(b)
		return Applied
	}
	docRow := b.caret.Row + b.scrOfs.Row
	if b.caret.Col > 0 {
		line, _ := b.lines.GetLine(docRow)
		newCol := prevGraphemeCol(line.Info, b.caret.Col)
		from := displayColToByte(b, docRow, newCol)
		to := displayColToByte(b, docRow, b.caret.Col)
		b.lines.DeleteRange(docRow, from, to)
		b.lines.RebuildLineSegments(docRow)
		b.caret.Col = newCol
		e.desiredCol = newCol
		return Applied
	}
	if docRow > 0 {
		prevLine, _ := b.lines.GetLine(docRow - 1)
		prevWidth := prevLine.Info.DisplayWidth
		b.lines.JoinLines(docRow - 1)
		b.scrollToRow(docRow - 1)
		b.caret.Col = prevWidth
		e.desiredCol = prevWidth
		return Applied
	}
	return NotApplied
}

func (e *EditorEngine) copy(b *EditorBuffer) {
	if e.clipboard == nil || b.sel.IsEmpty() {
		return
	}
	_ = e.clipboard.SetContentInClipboard(selectedText(b))
}

func (e *EditorEngine) cut(b *EditorBuffer) ApplyResult {
	if b.sel.IsEmpty() {
		return NotApplied
	}
	if e.clipboard != nil {
		_ = e.clipboard.SetContentInClipboard(selectedText(b))
	}
	e.deleteSelection(b)
	return Applied
}

func (e *EditorEngine) paste(b *EditorBuffer) ApplyResult {
	if e.clipboard == nil {
		return NotApplied
	}
	text, err := e.clipboard.TryGetContentFromClipboard()
	if err != nil || text == "" {
		return NotApplied
	}
	return e.insertString(b, text)
}

// moveCaret applies a plain (non-extending) caret motion, clearing any
// existing selection first (spec §4.8).
func (e *EditorEngine) moveCaret(b *EditorBuffer, dir CaretDirection) ApplyResult {
	if !b.sel.IsEmpty() {
		e.clearSelection(b)
	}
	e.hasAnchor = false
	e.applyDirection(b, dir)
	return Applied
}

// selectMove extends the selection in direction dir from wherever the
// anchor currently is (establishing one at the pre-move caret position
// if none exists yet) — spec §4.8's Select(*) events, excluding the
// All/Esc special cases which bypass caret movement entirely.
func (e *EditorEngine) selectMove(b *EditorBuffer, dir CaretDirection) ApplyResult {
	if e.selectMode != SelectEnabled {
		return NotApplied
	}
	switch dir {
	case MoveAll:
		e.selectAll(b)
		return Applied
	case MoveEsc:
		e.clearSelection(b)
		return Applied
	}
	if !e.hasAnchor {
		e.beginSelection(b)
	}
	e.applyDirection(b, dir)
	e.updateSelection(b)
	return Applied
}

func (e *EditorEngine) applyDirection(b *EditorBuffer, dir CaretDirection) {
	switch dir {
	case MoveLeft:
		e.moveLeft(b)
	case MoveRight:
		e.moveRight(b)
	case MoveUp:
		e.moveUp(b)
	case MoveDown:
		e.moveDown(b)
	case MoveHome:
		e.moveHome(b)
	case MoveEnd:
		e.moveEnd(b)
	case MovePageUp:
		e.movePageUp(b)
	case MovePageDown:
		e.movePageDown(b)
	}
}

// resize updates the viewport size and re-validates the scroll offset so
// the caret stays within the new viewport bounds (spec §4.8's Resize).
func (e *EditorEngine) resize(b *EditorBuffer, rows, cols int) {
	e.SetViewport(rows, cols)
	if rows <= 0 {
		return
	}
	docRow := b.caret.Row + b.scrOfs.Row
	if docRow < b.scrOfs.Row {
		b.scrOfs.Row = docRow
	}
	if docRow >= b.scrOfs.Row+rows {
		b.scrOfs.Row = docRow - rows + 1
	}
	b.caret.Row = docRow - b.scrOfs.Row
	b.invalidateRenderCache()
}
