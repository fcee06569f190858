package forme

import (
	"testing"

	"forme/ansiparser"
)

// parseInto feeds seq through a fresh ansiparser.Parser into bp, the
// shared helper every ansibridge/offscreen scenario test uses to drive
// the compositor via real ANSI bytes rather than calling buffer methods
// directly.
func parseInto(bp *BufferPerform, seq string) {
	p := ansiparser.New()
	p.AdvanceBytes([]byte(seq), bp)
}

func TestBridgeCUPAndSGR(t *testing.T) {
	b := NewOffscreenBuffer(20, 10)
	bp := &BufferPerform{Buf: b}

	parseInto(bp, "\x1b[5;10H")
	x, y := b.CursorPos()
	if x != 9 || y != 4 {
		t.Fatalf("CUP: cursor = (%d,%d), want (9,4)", x, y)
	}

	parseInto(bp, "\x1b[1;31m")
	st := b.CurrentStyle()
	if !st.Attr.Has(AttrBold) {
		t.Errorf("SGR 1: expected bold set")
	}
	if st.FG != BasicColor(1) {
		t.Errorf("SGR 31: FG = %+v, want BasicColor(1)", st.FG)
	}

	parseInto(bp, "\x1b[0m")
	if b.CurrentStyle().Attr.Has(AttrBold) {
		t.Errorf("SGR 0 should clear all attributes")
	}
}

func TestBridgeTruecolorSGR(t *testing.T) {
	b := NewOffscreenBuffer(10, 5)
	bp := &BufferPerform{Buf: b}
	parseInto(bp, "\x1b[38;2;10;20;30m")
	fg := b.CurrentStyle().FG
	if fg.Mode != ColorRGB || fg.R != 10 || fg.G != 20 || fg.B != 30 {
		t.Errorf("truecolor SGR: FG = %+v, want rgb(10,20,30)", fg)
	}
}

func TestBridge256ColorSGR(t *testing.T) {
	b := NewOffscreenBuffer(10, 5)
	bp := &BufferPerform{Buf: b}
	parseInto(bp, "\x1b[48:5:200m")
	bg := b.CurrentStyle().BG
	if bg.Mode != Color256 || bg.Index != 200 {
		t.Errorf("256-color colon-separated SGR: BG = %+v, want ansi256(200)", bg)
	}
}

// Spec §8: an unterminated CSI sequence never reaches a final byte, so
// it never dispatches — the compositor is never informed of garbage.
func TestBridgeUnterminatedSequenceDropped(t *testing.T) {
	b := NewOffscreenBuffer(10, 5)
	bp := &BufferPerform{Buf: b}
	b.MoveCursorTo(2, 2)
	parseInto(bp, "\x1b[1;2;3")
	x, y := b.CursorPos()
	if x != 2 || y != 2 {
		t.Errorf("unterminated CSI sequence moved the cursor to (%d,%d)", x, y)
	}
}

func TestBridgeEraseModes(t *testing.T) {
	b := NewOffscreenBuffer(5, 1)
	fillRow(b, 0, "abcde")
	bp := &BufferPerform{Buf: b}
	b.MoveCursorTo(2, 0)
	parseInto(bp, "\x1b[K") // EL mode 0: erase to end
	if !b.Get(2, 0).IsBlank() || !b.Get(4, 0).IsBlank() {
		t.Errorf("EL (default mode 0) did not erase to end of line")
	}
	if b.Get(0, 0).Rune != 'a' || b.Get(1, 0).Rune != 'b' {
		t.Errorf("EL (mode 0) erased before the cursor")
	}
}

func TestBridgeDECSCDECRC(t *testing.T) {
	b := NewOffscreenBuffer(10, 10)
	bp := &BufferPerform{Buf: b}
	b.MoveCursorTo(3, 4)
	parseInto(bp, "\x1b7") // DECSC
	b.MoveCursorTo(0, 0)
	parseInto(bp, "\x1b8") // DECRC
	x, y := b.CursorPos()
	if x != 3 || y != 4 {
		t.Errorf("DECSC/DECRC round trip: cursor = (%d,%d), want (3,4)", x, y)
	}
}
