package forme

import "testing"

func TestRenderPipelinePaintsText(t *testing.T) {
	p := NewRenderPipeline()
	style := Style{FG: RGB(255, 0, 0)}
	p.Add(ZNormal, RenderOpIRVec{
		OpMoveCursorAbsTo(Pos{Row: 1, Col: 2}),
		OpPrint("hi", style),
	})
	buf := p.Paint(GridSize{Rows: 5, Cols: 10}, PaintOptions{})
	if r := buf.Get(2, 1).Rune; r != 'h' {
		t.Fatalf("Get(2,1) = %q, want 'h'", r)
	}
	if r := buf.Get(3, 1).Rune; r != 'i' {
		t.Fatalf("Get(3,1) = %q, want 'i'", r)
	}
	if fg := buf.Get(2, 1).Style.FG; fg != style.FG {
		t.Errorf("painted cell FG = %+v, want %+v", fg, style.FG)
	}
}

// Higher z-orders overwrite lower ones at the same cell (spec §3.8).
func TestRenderPipelineZOrder(t *testing.T) {
	p := NewRenderPipeline()
	p.Add(ZNormal, RenderOpIRVec{OpMoveCursorAbsTo(Pos{Row: 0, Col: 0}), OpPrint("A", DefaultStyle())})
	p.Add(ZHigh, RenderOpIRVec{OpMoveCursorAbsTo(Pos{Row: 0, Col: 0}), OpPrint("B", DefaultStyle())})
	buf := p.Paint(GridSize{Rows: 1, Cols: 3}, PaintOptions{})
	if r := buf.Get(0, 0).Rune; r != 'B' {
		t.Fatalf("Get(0,0) = %q, want 'B' (ZHigh over ZNormal)", r)
	}
}

func TestRenderPipelineCaretOverlay(t *testing.T) {
	p := NewRenderPipeline()
	p.Add(ZNormal, RenderOpIRVec{OpMoveCursorAbsTo(Pos{Row: 0, Col: 0}), OpPrint("X", DefaultStyle())})
	caret := Pos{Row: 0, Col: 0}
	buf := p.Paint(GridSize{Rows: 1, Cols: 3}, PaintOptions{Caret: &caret})
	cell := buf.Get(0, 0)
	if !cell.Style.Attr.Has(AttrInverse) {
		t.Errorf("caret overlay did not set Reverse/Inverse attribute")
	}
	if cell.Rune != 'X' {
		t.Errorf("caret overlay should not change the underlying glyph, got %q", cell.Rune)
	}
}

func TestPaintTextWithAttributesClips(t *testing.T) {
	p := NewRenderPipeline()
	style := DefaultStyle()
	p.Add(ZNormal, RenderOpIRVec{
		{Kind: OpSetClipRect, Rect: Rect{X: 2, Y: 0, W: 3, H: 1}},
		OpMoveCursorAbsTo(Pos{Row: 0, Col: 0}),
		OpPaintText("abcdefgh", &style),
	})
	buf := p.Paint(GridSize{Rows: 1, Cols: 10}, PaintOptions{})
	for x := 0; x < 2; x++ {
		if !buf.Get(x, 0).IsBlank() {
			t.Errorf("cell %d should be clipped (blank), got %+v", x, buf.Get(x, 0))
		}
	}
	for x := 5; x < 10; x++ {
		if !buf.Get(x, 0).IsBlank() {
			t.Errorf("cell %d should be clipped (blank), got %+v", x, buf.Get(x, 0))
		}
	}
}

func TestDiffEmptyWhenUnchanged(t *testing.T) {
	a := NewOffscreenBuffer(5, 2)
	b := NewOffscreenBuffer(5, 2)
	ops := Diff(a, b)
	if len(ops) != 0 {
		t.Fatalf("Diff of identical buffers produced %d ops, want 0", len(ops))
	}
}

func TestDiffForcesFullRepaintOnResize(t *testing.T) {
	a := NewOffscreenBuffer(5, 2)
	b := NewOffscreenBuffer(8, 2)
	ops := Diff(a, b)
	if len(ops) == 0 || ops[0].Kind != OutFullRepaint {
		t.Fatalf("Diff across a size change should start with OutFullRepaint")
	}
}

func TestDiffEmitsChangedRun(t *testing.T) {
	a := NewOffscreenBuffer(10, 1)
	b := NewOffscreenBuffer(10, 1)
	b.Set(3, 0, NewCell('x', Style{FG: RGB(1, 2, 3)}))
	b.Set(4, 0, NewCell('y', Style{FG: RGB(1, 2, 3)}))

	ops := Diff(a, b)
	var moved bool
	var text string
	for _, op := range ops {
		if op.Kind == OutMoveCursorAbs && op.Pos.Col == 3 {
			moved = true
		}
		if op.Kind == OutPaintText {
			text += op.Text
		}
	}
	if !moved {
		t.Errorf("Diff did not position the cursor at the start of the changed run")
	}
	if text != "xy" {
		t.Errorf("Diff painted text = %q, want \"xy\"", text)
	}
}
