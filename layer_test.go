package forme

import "testing"

func TestLayerRenderPipelinePaintsViewport(t *testing.T) {
	l := NewLayer()
	style := DefaultStyle()
	l.SetContent([][]Span{
		{Styled("first line", style)},
		{Styled("second line", style)},
		{Styled("third line", style)},
	}, 20, 3)
	l.SetViewport(20, 2)
	l.ScrollDown(1)

	p := l.RenderPipeline(0, 0)
	buf := p.Paint(GridSize{Rows: 2, Cols: 20}, PaintOptions{})

	if got := rowText(buf, 0, 11, 0); got != "second line" {
		t.Errorf("row 0 = %q, want %q", got, "second line")
	}
	if got := rowText(buf, 0, 10, 1); got != "third line" {
		t.Errorf("row 1 = %q, want %q", got, "third line")
	}
}

func TestLayerRenderPipelineEmptyWhenNoBuffer(t *testing.T) {
	l := NewLayer()
	p := l.RenderPipeline(0, 0)
	buf := p.Paint(GridSize{Rows: 2, Cols: 5}, PaintOptions{})
	if !buf.Get(0, 0).IsBlank() {
		t.Errorf("empty layer should paint nothing")
	}
}
