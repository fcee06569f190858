package forme

import "strings"

// diff.go implements spec §4.3's frame diff: given prev and next buffers
// of the same size, emit the shortest sequence of RenderOpOutput that
// transforms the terminal from prev to next. Backend.ExecutePipeline
// consumes the result, eliding ops that are redundant against its own
// tracked cursor/color state (spec §4.4's optimization contract) — Diff
// itself stays stateless and always emits the fully explicit op list.

// RenderOpOutputKind tags a backend-level operation (spec §4.4).
type RenderOpOutputKind uint8

const (
	OutMoveCursorAbs RenderOpOutputKind = iota
	OutSetFgColor
	OutSetBgColor
	OutPaintText
	OutFullRepaint // buffer resized or otherwise fully invalidated
)

// RenderOpOutput is one backend-level operation produced by Diff.
type RenderOpOutput struct {
	Kind  RenderOpOutputKind
	Pos   Pos
	Color Color
	Text  string
	Style Style
}

// Diff computes the minimal ops transforming prev into next. A size
// mismatch forces a full repaint (spec §4.3's "full-screen invalidations
// force a full repaint").
func Diff(prev, next *OffscreenBuffer) []RenderOpOutput {
	if prev == nil || prev.Width() != next.Width() || prev.Height() != next.Height() {
		return fullRepaint(next)
	}

	var out []RenderOpOutput
	w, h := next.Width(), next.Height()
	for y := 0; y < h; y++ {
		out = append(out, diffRow(prev, next, y, w)...)
	}
	return out
}

// diffRow finds maximal runs of changed cells in row y and, within each
// run, sub-runs of cells sharing a style, emitting one MoveCursorAbs per
// run and one SetFgColor/SetBgColor/PaintText triple per style sub-run.
func diffRow(prev, next *OffscreenBuffer, y, w int) []RenderOpOutput {
	var out []RenderOpOutput
	x := 0
	for x < w {
		if prev.Get(x, y) == next.Get(x, y) {
			x++
			continue
		}
		runStart := x
		for x < w && prev.Get(x, y) != next.Get(x, y) {
			x++
		}
		runEnd := x

		out = append(out, RenderOpOutput{Kind: OutMoveCursorAbs, Pos: Pos{Row: RowIndex(y), Col: ColIndex(runStart)}})

		sx := runStart
		for sx < runEnd {
			style := next.Get(sx, y).Style
			sEnd := sx + 1
			for sEnd < runEnd && next.Get(sEnd, y).Style == style {
				sEnd++
			}
			out = append(out,
				RenderOpOutput{Kind: OutSetFgColor, Color: style.FG},
				RenderOpOutput{Kind: OutSetBgColor, Color: style.BG},
				RenderOpOutput{Kind: OutPaintText, Text: rowText(next, sx, sEnd, y), Style: style},
			)
			sx = sEnd
		}
	}
	return out
}

// fullRepaint treats the entire next buffer as one changed run per row.
func fullRepaint(next *OffscreenBuffer) []RenderOpOutput {
	out := []RenderOpOutput{{Kind: OutFullRepaint}}
	w, h := next.Width(), next.Height()
	for y := 0; y < h; y++ {
		out = append(out, RenderOpOutput{Kind: OutMoveCursorAbs, Pos: Pos{Row: RowIndex(y), Col: 0}})
		sx := 0
		for sx < w {
			style := next.Get(sx, y).Style
			sEnd := sx + 1
			for sEnd < w && next.Get(sEnd, y).Style == style {
				sEnd++
			}
			out = append(out,
				RenderOpOutput{Kind: OutSetFgColor, Color: style.FG},
				RenderOpOutput{Kind: OutSetBgColor, Color: style.BG},
				RenderOpOutput{Kind: OutPaintText, Text: rowText(next, sx, sEnd, y), Style: style},
			)
			sx = sEnd
		}
	}
	return out
}

// rowText renders cells [from,to) of row y to a string, skipping Spacer
// continuation cells and rendering Void as a space.
func rowText(buf *OffscreenBuffer, from, to, y int) string {
	var sb strings.Builder
	for x := from; x < to; x++ {
		c := buf.Get(x, y)
		switch c.Kind {
		case PixelCharSpacer:
			continue
		case PixelCharVoid:
			sb.WriteByte(' ')
		default:
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}

// RenderOpsLocalData is the backend executor's tracked state (spec
// §4.4): the cursor position and fg/bg colors last written to the
// terminal, used to elide redundant escapes.
type RenderOpsLocalData struct {
	CursorPos Pos
	HasCursor bool
	FgColor   Color
	HasFg     bool
	BgColor   Color
	HasBg     bool
}

// Reset clears all tracked state, forcing the next applyRenderOpOutput
// (backend.go) to emit every
// op unconditionally — used after a full repaint or raw-mode toggle.
func (d *RenderOpsLocalData) Reset() {
	*d = RenderOpsLocalData{}
}
