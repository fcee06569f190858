package forme

import "testing"

// Spec §8 "Units / bounds": for (index, length) with index < length,
// array-style returns Within; index == length returns Beyond (array) /
// AtEnd (cursor); index > length returns Beyond under both styles.
func TestBoundsChecking(t *testing.T) {
	cases := []struct {
		index, length int
		wantArray     BoundsResult
		wantCursor    BoundsResult
	}{
		{2, 5, Within, Within},
		{0, 5, Within, Within},
		{5, 5, Beyond, AtEnd},
		{6, 5, Beyond, Beyond},
		{-1, 5, Beyond, Beyond},
	}
	for _, c := range cases {
		if got := CheckArrayBounds(c.index, c.length); got != c.wantArray {
			t.Errorf("CheckArrayBounds(%d,%d) = %v, want %v", c.index, c.length, got, c.wantArray)
		}
		if got := CheckCursorBounds(c.index, c.length); got != c.wantCursor {
			t.Errorf("CheckCursorBounds(%d,%d) = %v, want %v", c.index, c.length, got, c.wantCursor)
		}
	}
}

func TestClampHelpers(t *testing.T) {
	if got := ClampToArray(10, 5); got != 4 {
		t.Errorf("ClampToArray(10,5) = %d, want 4", got)
	}
	if got := ClampToArray(-1, 5); got != 0 {
		t.Errorf("ClampToArray(-1,5) = %d, want 0", got)
	}
	if got := ClampToCursor(5, 5); got != 5 {
		t.Errorf("ClampToCursor(5,5) = %d, want 5 (one-past-end is legal)", got)
	}
	if got := ClampToCursor(6, 5); got != 5 {
		t.Errorf("ClampToCursor(6,5) = %d, want 5", got)
	}
}

func TestCaretScrAdj(t *testing.T) {
	caret := CaretRaw{Row: 2, Col: 3}
	ofs := ScrOfs{Row: 10, Col: 1}
	adj := caret.Add(ofs)
	if adj.Row != 12 || adj.Col != 4 {
		t.Errorf("Add() = %+v, want {12 4}", adj)
	}
}
