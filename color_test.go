package forme

import "testing"

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Spec §8: Rgb -> Ansi -> Rgb round trip is lossy but bounded. We probe
// with colors that sit on or near an actual 256-palette cube/grayscale
// entry so the bound holds regardless of how tight the perceptual
// nearest-neighbor search is for colors deep inside a cube cell.
func TestRgbAnsiRoundTripBounded(t *testing.T) {
	cases := []Color{
		RGB(215, 135, 0),  // exact 6x6x6 cube entry
		RGB(8, 8, 8),       // exact grayscale ramp entry
		RGB(90, 4, 2),      // near the (95,0,0) cube entry
		RGB(250, 250, 250), // near the top grayscale entry
	}
	for _, c := range cases {
		narrowed := c.Narrow(CapAnsi256)
		r1, g1, b1 := c.RGB()
		r2, g2, b2 := narrowed.RGB()
		if absInt(int(r1)-int(r2)) > 60 || absInt(int(g1)-int(g2)) > 60 || absInt(int(b1)-int(b2)) > 60 {
			t.Errorf("Narrow(%+v) = %+v (rgb %d,%d,%d vs %d,%d,%d): channel distance too large",
				c, narrowed, r1, g1, b1, r2, g2, b2)
		}
	}
}

func TestColorDefaultNarrowsToSelf(t *testing.T) {
	d := DefaultColor()
	if got := d.Narrow(CapAnsi16); got != d {
		t.Errorf("DefaultColor().Narrow(CapAnsi16) = %+v, want unchanged", got)
	}
}

func TestBasicColorNarrowIdentity(t *testing.T) {
	c := BasicColor(4)
	if got := c.Narrow(CapAnsi16); got != c {
		t.Errorf("BasicColor(4).Narrow(CapAnsi16) = %+v, want unchanged", got)
	}
}

// Spec §3.4: Style.Merge is non-commutative but associative; later
// style's set fields win, unset fields pass through.
func TestStyleMergeAssociative(t *testing.T) {
	a := Style{Attr: AttrBold}
	b := Style{FG: RGB(1, 2, 3)}
	c := Style{Attr: AttrItalic}

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if left != right {
		t.Errorf("Merge not associative: (a.b).c = %+v, a.(b.c) = %+v", left, right)
	}
}

func TestStyleMergeNonCommutative(t *testing.T) {
	a := Style{FG: RGB(1, 0, 0)}
	b := Style{FG: RGB(0, 1, 0)}
	if a.Merge(b) == b.Merge(a) {
		t.Errorf("Merge should be non-commutative when both sides set FG")
	}
	if got := a.Merge(b).FG; got != b.FG {
		t.Errorf("a.Merge(b).FG = %+v, want b's FG (overlay wins)", got)
	}
}
