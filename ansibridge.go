package forme

import "forme/ansiparser"

// ansibridge.go wires forme/ansiparser's byte-stream decoder to
// OffscreenBuffer, completing the "RRT worker → raw bytes → ANSI parser →
// compositor mutation" data flow spec §2 describes. It is the Perform
// implementation the parser package's doc comment promises ("a single
// dispatch call can feed forme.OffscreenBuffer directly").
//
// DECSET/DECRST modes that have no meaning for an offscreen grid (mouse
// reporting, alt-screen, bracketed paste) are recognized and dropped —
// spec §4.1 only requires they be recognized, not that the compositor
// act on them; those are backend/terminal-session concerns.
type BufferPerform struct {
	Buf *OffscreenBuffer
}

var _ ansiparser.Perform = (*BufferPerform)(nil)

// Print writes one decoded rune via OffscreenBuffer.Print.
func (bp *BufferPerform) Print(r rune) {
	bp.Buf.Print(r)
}

// Execute handles a single C0 control byte.
func (bp *BufferPerform) Execute(b byte) {
	switch b {
	case '\n':
		bp.Buf.wrapToNextLine()
	case '\r':
		bp.Buf.cursorX = 0
	case '\t':
		x, _ := bp.Buf.CursorPos()
		next := (x/8 + 1) * 8
		bp.Buf.CursorToColumn(next)
	case 0x08: // BS backspace
		bp.Buf.CursorBackward(1)
	}
}

// EscDispatch handles non-CSI, non-OSC escapes: DECSC (ESC 7) and DECRC
// (ESC 8).
func (bp *BufferPerform) EscDispatch(intermediates []byte, final byte) {
	if len(intermediates) != 0 {
		return
	}
	switch final {
	case '7':
		bp.Buf.DECSC()
	case '8':
		bp.Buf.DECRC()
	}
}

// OscDispatch is a no-op: OSC sequences (window title, hyperlinks, ...)
// carry no compositor-visible state.
func (bp *BufferPerform) OscDispatch(data [][]byte) {}

// CsiDispatch maps a decoded CSI sequence onto the matching OffscreenBuffer
// method, per spec §4.1's required-recognition table.
func (bp *BufferPerform) CsiDispatch(params *ansiparser.Params, intermediates []byte, final byte) {
	b := bp.Buf

	// DECSET/DECRST (private '?' lead-in): recognized, not acted on.
	if len(intermediates) == 1 && intermediates[0] == '?' {
		return
	}

	switch final {
	case 'A': // CUU
		b.CursorUp(params.ExtractNthSingleNonZero(0))
	case 'B': // CUD
		b.CursorDown(params.ExtractNthSingleNonZero(0))
	case 'C': // CUF
		b.CursorForward(params.ExtractNthSingleNonZero(0))
	case 'D': // CUB
		b.CursorBackward(params.ExtractNthSingleNonZero(0))
	case 'E': // CNL
		b.CursorNextLine(params.ExtractNthSingleNonZero(0))
	case 'F': // CPL
		b.CursorPrevLine(params.ExtractNthSingleNonZero(0))
	case 'G': // CHA
		b.CursorToColumn(params.ExtractNthSingleNonZero(0) - 1)
	case 'd': // VPA
		b.VPA(params.ExtractNthSingleNonZero(0) - 1)
	case 'H', 'f': // CUP / HVP
		row, col := ansiparser.ParseCursorPosition(params)
		b.MoveCursorTo(col, row)
	case 'J': // ED
		b.ED(eraseModeFrom(params))
	case 'K': // EL
		b.EL(eraseModeFrom(params))
	case 'L': // IL
		b.IL(params.ExtractNthSingleNonZero(0))
	case 'M': // DL
		b.DL(params.ExtractNthSingleNonZero(0))
	case '@': // ICH
		b.ICH(params.ExtractNthSingleNonZero(0))
	case 'P': // DCH
		b.DCH(params.ExtractNthSingleNonZero(0))
	case 'X': // ECH
		b.ECH(params.ExtractNthSingleNonZero(0))
	case 'S': // SU
		b.SU(params.ExtractNthSingleNonZero(0))
	case 'T': // SD
		b.SD(params.ExtractNthSingleNonZero(0))
	case 'r': // DECSTBM
		if params.IsEmpty() {
			b.ResetScrollRegion()
			return
		}
		top := params.ExtractNthSingleNonZero(0) - 1
		bottom := params.ExtractNthSingleNonZero(1) - 1
		b.SetScrollRegion(top, bottom)
	case 'm': // SGR
		b.ApplySGR(params.Flatten())
	case 's': // CSI s (cursor save, ANSI.SYS alias for DECSC)
		b.DECSC()
	case 'u': // CSI u (cursor restore)
		b.DECRC()
	}
}

// eraseModeFrom reads position 0 of params as an EraseMode, defaulting to
// EraseToEnd when missing (the VT-100 default for both ED and EL).
func eraseModeFrom(params *ansiparser.Params) EraseMode {
	v, ok := params.ExtractNthSingleOptRaw(0)
	if !ok {
		return EraseToEnd
	}
	switch v {
	case 1:
		return EraseToStart
	case 2, 3:
		return EraseAll
	default:
		return EraseToEnd
	}
}
