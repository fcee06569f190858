package forme

import "testing"

func fillRow(b *OffscreenBuffer, y int, text string) {
	for i, r := range text {
		b.Set(i, y, NewCell(r, DefaultStyle()))
	}
}

// Spec §8: ICH(0) is a no-op and returns false.
func TestICHZeroIsNoop(t *testing.T) {
	b := NewOffscreenBuffer(10, 3)
	fillRow(b, 0, "abcdefghij")
	b.MoveCursorTo(3, 0)
	if b.ICH(0) {
		t.Fatalf("ICH(0) should return false")
	}
	if b.Get(3, 0).Rune != 'd' {
		t.Fatalf("ICH(0) mutated the row")
	}
}

// Spec §8: ICH/DCH are inverses under no overflow.
func TestICHDCHInverse(t *testing.T) {
	b := NewOffscreenBuffer(10, 3)
	fillRow(b, 0, "abcdefghij")
	b.MoveCursorTo(3, 0)

	if !b.ICH(2) {
		t.Fatalf("ICH(2) should report applied")
	}
	b.MoveCursorTo(3, 0)
	if !b.DCH(2) {
		t.Fatalf("DCH(2) should report applied")
	}

	want := "abcdefgh"
	for i := 0; i < 8; i++ {
		if r := b.Get(i, 0).Rune; r != rune(want[i]) {
			t.Errorf("cell %d = %q, want %q", i, r, want[i])
		}
	}
	for i := 8; i < 10; i++ {
		if !b.Get(i, 0).IsBlank() {
			t.Errorf("cell %d should be blank after ICH/DCH, got %+v", i, b.Get(i, 0))
		}
	}
}

// Spec §8: ECH preserves shift — cells outside the erased range are
// unchanged.
func TestECHPreservesOutsideCells(t *testing.T) {
	b := NewOffscreenBuffer(10, 3)
	fillRow(b, 0, "abcdefghij")
	b.MoveCursorTo(2, 0)
	if !b.ECH(3) {
		t.Fatalf("ECH(3) should report applied")
	}
	for i := 0; i < 2; i++ {
		if r := b.Get(i, 0).Rune; r != rune("ab"[i]) {
			t.Errorf("cell %d changed by ECH, got %q", i, r)
		}
	}
	for i := 2; i < 5; i++ {
		if !b.Get(i, 0).IsBlank() {
			t.Errorf("cell %d should be blank, got %+v", i, b.Get(i, 0))
		}
	}
	for i := 5; i < 10; i++ {
		want := "abcdefghij"[i]
		if r := b.Get(i, 0).Rune; r != rune(want) {
			t.Errorf("cell %d changed by ECH, got %q want %q", i, r, want)
		}
	}
}

// Spec §8: all three shift ops return false when the cursor is at or
// past the right margin.
func TestShiftOpsNoopAtMargin(t *testing.T) {
	b := NewOffscreenBuffer(5, 1)
	b.cursorX = 5 // one past the right margin; MoveCursorTo would clamp it back
	b.cursorY = 0
	if b.ICH(1) || b.DCH(1) || b.ECH(1) {
		t.Fatalf("shift ops should no-op when cursor is at/past the right margin")
	}
}

// Spec §8 end-to-end scenario 1: cursor clamp on a 10x10 buffer.
func TestCursorClampScenario(t *testing.T) {
	b := NewOffscreenBuffer(10, 10)
	bp := &BufferPerform{Buf: b}
	parseInto(bp, "\x1b[15;15H")
	x, y := b.CursorPos()
	if x != 9 || y != 9 {
		t.Fatalf("after CSI 15;15H, cursor = (%d,%d), want (9,9)", x, y)
	}
	parseInto(bp, "\x1b[0;0H")
	x, y = b.CursorPos()
	if x != 0 || y != 0 {
		t.Fatalf("after CSI 0;0H, cursor = (%d,%d), want (0,0)", x, y)
	}
}

// Spec §8 end-to-end scenario 2: VPA preserves column.
func TestVPAPreservesColumn(t *testing.T) {
	b := NewOffscreenBuffer(10, 10)
	b.MoveCursorTo(3, 5)
	bp := &BufferPerform{Buf: b}
	parseInto(bp, "\x1b[8d")
	x, y := b.CursorPos()
	if x != 3 || y != 7 {
		t.Fatalf("after VPA(8), cursor = (%d,%d), want (3,7)", x, y)
	}
}
