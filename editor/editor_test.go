package editor

import "testing"

func newTestEngine() (*EditorEngine, *EditorBuffer) {
	e := NewEngine(NullClipboard{})
	e.SetViewport(10, 40)
	b := NewEmpty()
	return e, b
}

func TestInsertStringAcrossNewlines(t *testing.T) {
	e, b := newTestEngine()
	res := e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "hi\nthere"})
	if res != Applied {
		t.Fatalf("expected Applied")
	}
	if b.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", b.LineCount())
	}
	if b.Line(0) != "hi" || b.Line(1) != "there" {
		t.Fatalf("unexpected content: %q / %q", b.Line(0), b.Line(1))
	}
	if b.Caret().Row != 1 || b.Caret().Col != 5 {
		t.Fatalf("unexpected caret: %+v", b.Caret())
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	e, b := newTestEngine()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "foo\nbar"})
	// caret is at end of "bar"; move home then backspace to join lines.
	e.ApplyEvent(b, EditorEvent{Kind: EvMoveCaret, Direction: MoveHome})
	e.ApplyEvent(b, EditorEvent{Kind: EvBackspace})
	if b.LineCount() != 1 {
		t.Fatalf("expected join to 1 line, got %d", b.LineCount())
	}
	if b.Line(0) != "foobar" {
		t.Fatalf("unexpected joined content: %q", b.Line(0))
	}
}

func TestUndoPreservesCaretRedoRestoresIt(t *testing.T) {
	e, b := newTestEngine()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "abc"})
	caretAfterInsert := b.Caret()
	e.ApplyEvent(b, EditorEvent{Kind: EvMoveCaret, Direction: MoveHome})

	if !b.Undo() {
		t.Fatalf("expected undo to succeed")
	}
	if b.Line(0) != "" {
		t.Fatalf("expected undo to revert to empty line, got %q", b.Line(0))
	}
	if b.Caret() != (CaretRaw{}) {
		t.Fatalf("undo should preserve the pre-undo caret (moved Home), got %+v", b.Caret())
	}

	if !b.Redo() {
		t.Fatalf("expected redo to succeed")
	}
	if b.Line(0) != "abc" {
		t.Fatalf("expected redo to restore content, got %q", b.Line(0))
	}
	if b.Caret() != caretAfterInsert {
		t.Fatalf("redo should restore the caret exactly, want %+v got %+v", caretAfterInsert, b.Caret())
	}
}

func TestHistoryBounded(t *testing.T) {
	e, b := newTestEngine()
	for i := 0; i < MaxUndoRedoSize+10; i++ {
		e.ApplyEvent(b, EditorEvent{Kind: EvInsertChar, Text: "x"})
	}
	if b.HistoryLen() > MaxUndoRedoSize {
		t.Fatalf("history exceeded bound: %d > %d", b.HistoryLen(), MaxUndoRedoSize)
	}
}

func TestSingleLineSelectionGrowsAndShrinks(t *testing.T) {
	e, b := newTestEngine()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "hello world"})
	e.ApplyEvent(b, EditorEvent{Kind: EvMoveCaret, Direction: MoveHome})

	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveRight})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveRight})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveRight})
	sel, ok := b.Selection()[0]
	if !ok || sel.Start != 0 || sel.End != 3 {
		t.Fatalf("expected selection [0,3), got %+v ok=%v", sel, ok)
	}

	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveLeft})
	sel = b.Selection()[0]
	if sel.Start != 0 || sel.End != 2 {
		t.Fatalf("expected shrink to [0,2), got %+v", sel)
	}
}

func TestMultiLineSelectionSpansFullInteriorRows(t *testing.T) {
	e, b := newTestEngine()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "aaa\nbbb\nccc"})
	e.ApplyEvent(b, EditorEvent{Kind: EvMoveCaret, Direction: MoveHome})
	e.applyDirection(b, MoveUp)
	e.applyDirection(b, MoveUp)
	e.moveHome(b)
	// caret now at row 0 col 0; select down to row 2 col 1.
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveDown})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveDown})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveRight})

	sel := b.Selection()
	if r := sel[0]; r.Start != 0 || r.End != 3 {
		t.Fatalf("row0 expected full [0,3): %+v", r)
	}
	if r := sel[1]; r.Start != 0 || r.End != 3 {
		t.Fatalf("row1 expected full [0,3): %+v", r)
	}
	if r := sel[2]; r.Start != 0 || r.End != 1 {
		t.Fatalf("row2 expected partial [0,1): %+v", r)
	}
}

func TestSelectAllThenEscClears(t *testing.T) {
	e, b := newTestEngine()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "ab\ncd"})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveAll})
	if b.Selection().IsEmpty() {
		t.Fatalf("expected Select(All) to populate selection")
	}
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveEsc})
	if !b.Selection().IsEmpty() {
		t.Fatalf("expected Select(Esc) to clear selection")
	}
}

func TestCutRemovesSelection(t *testing.T) {
	clip := NullClipboard{}
	e := NewEngine(clip)
	e.SetViewport(10, 40)
	b := NewEmpty()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "hello"})
	e.ApplyEvent(b, EditorEvent{Kind: EvMoveCaret, Direction: MoveHome})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveRight})
	e.ApplyEvent(b, EditorEvent{Kind: EvSelect, Direction: MoveRight})

	res := e.ApplyEvent(b, EditorEvent{Kind: EvCut})
	if res != Applied {
		t.Fatalf("expected cut to apply")
	}
	if b.Line(0) != "llo" {
		t.Fatalf("expected remaining text 'llo', got %q", b.Line(0))
	}
	if !b.Selection().IsEmpty() {
		t.Fatalf("expected selection cleared after cut")
	}
}

func TestReadOnlyRejectsMutatingEvents(t *testing.T) {
	e, b := newTestEngine()
	e.SetEditMode(EditReadOnly)
	res := e.ApplyEvent(b, EditorEvent{Kind: EvInsertChar, Text: "x"})
	if res != NotApplied {
		t.Fatalf("expected InsertChar rejected in read-only mode")
	}
	res = e.ApplyEvent(b, EditorEvent{Kind: EvMoveCaret, Direction: MoveRight})
	if res != Applied {
		t.Fatalf("expected MoveCaret allowed in read-only mode")
	}
}

func TestResizeClampsScrollToKeepCaretVisible(t *testing.T) {
	e, b := newTestEngine()
	for i := 0; i < 20; i++ {
		e.ApplyEvent(b, EditorEvent{Kind: EvInsertNewLine})
	}
	e.ApplyEvent(b, EditorEvent{Kind: EvResize, Rows: 5, Cols: 40})
	caret := b.CaretScrAdj()
	if caret.Row < b.ScrOfs().Row || caret.Row >= b.ScrOfs().Row+5 {
		t.Fatalf("caret not within resized viewport: caret=%+v scrOfs=%+v", caret, b.ScrOfs())
	}
}

func TestRenderShowsEmptyHintWhenFocused(t *testing.T) {
	e, b := newTestEngine()
	rows := e.Render(b, RenderOptions{HasFocus: true})
	if len(rows) != 1 || len(rows[0]) == 0 {
		t.Fatalf("expected a single hint row, got %+v", rows)
	}
}

func TestRenderCacheHitReturnsSameSlice(t *testing.T) {
	e, b := newTestEngine()
	e.ApplyEvent(b, EditorEvent{Kind: EvInsertString, Text: "abc"})
	first := e.Render(b, RenderOptions{HasFocus: false})
	second := e.Render(b, RenderOptions{HasFocus: false})
	if len(first) != len(second) || &first[0] != &second[0] {
		t.Fatalf("expected the cached render slice to be returned again")
	}
}
