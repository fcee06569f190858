package forme

import "testing"

func TestFlexTreeRenderPipelinePaintsText(t *testing.T) {
	root := FCol(FText("hello"), FText("world"))
	tree := NewFlexTree(root)

	p := tree.RenderPipeline(10, 2)
	buf := p.Paint(GridSize{Rows: 2, Cols: 10}, PaintOptions{})

	if got := rowText(buf, 0, 5, 0); got != "hello" {
		t.Errorf("row 0 = %q, want %q", got, "hello")
	}
	if got := rowText(buf, 0, 5, 1); got != "world" {
		t.Errorf("row 1 = %q, want %q", got, "world")
	}
}
