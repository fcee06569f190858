package forme

// renderops.go is the render pipeline & diff layer spec §2.9/§4.3/§3.8
// names: a backend-independent intermediate representation (RenderOpIR),
// a z-ordered pipeline of IR vectors (RenderPipeline), the compositor
// algorithm that paints a pipeline into a fresh OffscreenBuffer, and the
// diff pass that turns two buffers into a minimal list of backend-level
// RenderOpOutput values. Backend.ExecutePipeline (backend.go) is the
// consumer: it calls Paint, diffs against the front buffer, and writes
// the resulting ops as ANSI bytes via ansigen.go.
//
// This sits a level above offscreen_vt100.go's VT-100 primitives — a
// RenderOpIR is "what the app wants drawn", not "what byte sequence
// produces it"; ansibridge.go's BufferPerform is the mirror-image path
// (incoming bytes replayed onto a buffer) that this package's Diff
// output is, in a sense, designed to be re-parseable by.

// ZOrder is the paint order within one frame (spec §3.8). Higher
// z-orders overwrite lower ones where they draw to the same cell.
type ZOrder uint8

const (
	ZNormal ZOrder = iota
	ZHigh
	ZGlass
	ZCaret
)

// zOrdersAscending is the fixed paint order spec §3.8/§4.3 mandates.
var zOrdersAscending = [...]ZOrder{ZNormal, ZHigh, ZGlass, ZCaret}

// RenderOpKind tags a RenderOpIR's variant (spec §4.3's Common ops plus
// PaintTextWithAttributes).
type RenderOpKind uint8

const (
	OpNoop RenderOpKind = iota
	OpEnterRawMode
	OpExitRawMode
	OpMoveCursorAbs
	OpMoveCursorUp
	OpMoveCursorDown
	OpMoveCursorForward
	OpMoveCursorBackward
	OpMoveToColumn
	OpMoveToNextLine
	OpMoveToPrevLine
	OpClearScreen
	OpClearLine
	OpClearToEOL
	OpClearToSOL
	OpSetFgColor
	OpSetBgColor
	OpResetColors
	OpApplyStyle
	OpPrintText // already-composited styled text, printed verbatim
	OpShowCursor
	OpHideCursor
	OpSaveCursor
	OpRestoreCursor
	OpEnterAltScreen
	OpExitAltScreen
	OpEnableMouse
	OpDisableMouse
	OpEnableBracketedPaste
	OpDisableBracketedPaste
	OpSetClipRect   // establishes the active flex-box bounds for paint clipping
	OpClearClipRect // drops back to the previous (or no) clip
	OpPaintTextWithAttributes
)

// Rect is an axis-aligned clip box in buffer coordinates, used to clip
// PaintTextWithAttributes against the currently active flex box (spec
// §4.3 step 2).
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x,y) falls inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// RenderOpIR is one render-pipeline operation (spec §4.3). Only the
// fields relevant to Kind are meaningful.
type RenderOpIR struct {
	Kind     RenderOpKind
	Pos      Pos
	N        int
	Color    Color
	Style    Style
	HasStyle bool
	Text     string
	Rect     Rect
}

// RenderOpIRVec is one document-ordered batch of operations, the unit
// RenderPipeline groups by z-order (spec §3.8).
type RenderOpIRVec []RenderOpIR

// Convenience constructors, grounded on the *_test.go call sites these
// mirror and on ansigen.go's free-function shape.

func OpMoveCursorAbsTo(pos Pos) RenderOpIR { return RenderOpIR{Kind: OpMoveCursorAbs, Pos: pos} }
func OpClearScreenOp() RenderOpIR          { return RenderOpIR{Kind: OpClearScreen} }
func OpSetFg(c Color) RenderOpIR           { return RenderOpIR{Kind: OpSetFgColor, Color: c} }
func OpSetBg(c Color) RenderOpIR           { return RenderOpIR{Kind: OpSetBgColor, Color: c} }
func OpPrint(text string, style Style) RenderOpIR {
	return RenderOpIR{Kind: OpPrintText, Text: text, Style: style, HasStyle: true}
}
func OpPaintText(text string, style *Style) RenderOpIR {
	op := RenderOpIR{Kind: OpPaintTextWithAttributes, Text: text}
	if style != nil {
		op.Style = *style
		op.HasStyle = true
	}
	return op
}

// RenderPipeline is a z-ordered collection of RenderOpIRVecs (spec
// §3.8's `pipeline_map: Map<ZOrder, Vec<RenderOpIRVec>>`).
type RenderPipeline struct {
	pipelineMap map[ZOrder][]RenderOpIRVec
}

// NewRenderPipeline returns an empty pipeline.
func NewRenderPipeline() *RenderPipeline {
	return &RenderPipeline{pipelineMap: make(map[ZOrder][]RenderOpIRVec)}
}

// Add appends one document-ordered batch of ops under the given z-order.
func (p *RenderPipeline) Add(z ZOrder, ops RenderOpIRVec) {
	p.pipelineMap[z] = append(p.pipelineMap[z], ops)
}

// PaintOptions configures one Paint call.
type PaintOptions struct {
	// Caret, if non-nil, draws a single-cell Reverse overlay at this
	// position after the highest normal z-order (spec §4.3 step 3).
	Caret *Pos
}

// Paint runs the compositor algorithm (spec §4.3) into a freshly
// allocated buffer of size. Callers that render every frame (spec
// §4.4's render loop) should prefer PaintInto against a BufferPool
// buffer instead, to avoid an allocation per frame.
func (p *RenderPipeline) Paint(size GridSize, opts PaintOptions) *OffscreenBuffer {
	return p.PaintInto(NewOffscreenBuffer(int(size.Cols), int(size.Rows)), opts)
}

// PaintInto runs the compositor algorithm (spec §4.3) against an
// already-allocated, already-cleared buf: z-orders executed ascending,
// document order within a z-order, paint ops clipped to the currently
// active clip rect, then an optional caret overlay.
func (p *RenderPipeline) PaintInto(buf *OffscreenBuffer, opts PaintOptions) *OffscreenBuffer {
	var clip *Rect
	for _, z := range zOrdersAscending {
		for _, vec := range p.pipelineMap[z] {
			for _, op := range vec {
				clip = applyRenderOp(buf, op, clip)
			}
		}
	}
	if opts.Caret != nil {
		row, col := int(opts.Caret.Row), int(opts.Caret.Col)
		if buf.InBounds(col, row) {
			cell := buf.Get(col, row)
			cell.Style.Attr = cell.Style.Attr.With(AttrInverse)
			buf.Set(col, row, cell)
		}
	}
	return buf
}

// applyRenderOp executes one op against buf, returning the clip rect in
// effect for subsequent ops in the same Paint call.
func applyRenderOp(buf *OffscreenBuffer, op RenderOpIR, clip *Rect) *Rect {
	switch op.Kind {
	case OpNoop, OpEnterRawMode, OpExitRawMode:
		// No compositor-visible effect; these are backend/terminal-mode
		// concerns handled by Backend.ExecutePipeline, not the buffer.
	case OpMoveCursorAbs:
		buf.MoveCursorTo(int(op.Pos.Col), int(op.Pos.Row))
	case OpMoveCursorUp:
		buf.CursorUp(op.N)
	case OpMoveCursorDown:
		buf.CursorDown(op.N)
	case OpMoveCursorForward:
		buf.CursorForward(op.N)
	case OpMoveCursorBackward:
		buf.CursorBackward(op.N)
	case OpMoveToColumn:
		buf.CursorToColumn(op.N)
	case OpMoveToNextLine:
		buf.CursorNextLine(op.N)
	case OpMoveToPrevLine:
		buf.CursorPrevLine(op.N)
	case OpClearScreen:
		buf.ED(EraseAll)
	case OpClearLine:
		buf.EL(EraseAll)
	case OpClearToEOL:
		buf.EL(EraseToEnd)
	case OpClearToSOL:
		buf.EL(EraseToStart)
	case OpSetFgColor:
		buf.SetCurrentFgColor(op.Color)
	case OpSetBgColor:
		buf.SetCurrentBgColor(op.Color)
	case OpResetColors:
		buf.ResetCurrentColors()
	case OpApplyStyle:
		buf.ApplyCurrentStyle(op.Style)
	case OpPrintText:
		printStyledText(buf, op.Text, op.Style, nil)
	case OpShowCursor, OpHideCursor, OpSaveCursor, OpRestoreCursor,
		OpEnterAltScreen, OpExitAltScreen, OpEnableMouse, OpDisableMouse,
		OpEnableBracketedPaste, OpDisableBracketedPaste:
		// Terminal-session ops with no compositor-visible cell effect.
		switch op.Kind {
		case OpSaveCursor:
			buf.DECSC()
		case OpRestoreCursor:
			buf.DECRC()
		}
	case OpSetClipRect:
		r := op.Rect
		clip = &r
	case OpClearClipRect:
		clip = nil
	case OpPaintTextWithAttributes:
		style := buf.CurrentStyle()
		if op.HasStyle {
			style = op.Style
		}
		printStyledText(buf, op.Text, style, clip)
	}
	return clip
}

// printStyledText writes text starting at the buffer's current cursor,
// honoring clip (nil means unclipped) by dropping any cell whose column
// falls outside it (spec §4.3 step 2's "drop characters whose display
// cells fall outside the box").
func printStyledText(buf *OffscreenBuffer, text string, style Style, clip *Rect) {
	prev := buf.CurrentStyle()
	buf.SetCurrentStyle(style)
	defer buf.SetCurrentStyle(prev)

	row := buf.cursorY
	for _, r := range text {
		col := buf.cursorX
		if clip != nil && (!clip.Contains(col, row) || row != buf.cursorY) {
			// Advance past the rune without writing when clipped, so
			// cursor bookkeeping for the rest of the run stays correct.
			w := runeDisplayWidth(r)
			if w <= 0 {
				w = 1
			}
			buf.cursorX += w
			continue
		}
		buf.Print(r)
	}
}
