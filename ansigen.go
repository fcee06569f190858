package forme

import "bytes"

// ansigen.go holds the free-function ANSI/VT-100 byte generators spec
// §2.6/§6.1 names as their own unit, separate from Backend's buffered
// double-frame bookkeeping in backend.go. Backend.writeStyle/writeColor
// delegate here so there is exactly one place that knows how a Style or
// Color becomes SGR parameters; offscreen_vt100.go is this file's
// mirror image — it applies incoming SGR to a Cell instead of emitting
// it.

// AppendSGR appends the full "\x1b[0;...m" sequence for style, always
// resetting first (spec §6.1: the renderer never assumes the previous
// cell's attributes, only its own emitted ones).
func AppendSGR(buf *bytes.Buffer, style Style) {
	buf.WriteString("\x1b[0")
	AppendAttrSGR(buf, style.Attr)
	AppendColorSGR(buf, style.FG, true)
	AppendColorSGR(buf, style.BG, false)
	buf.WriteByte('m')
}

// AppendAttrSGR appends the ";<n>" parameters for every attribute set in
// attr, in the teacher's fixed SGR-code order.
func AppendAttrSGR(buf *bytes.Buffer, attr Attribute) {
	if attr.Has(AttrBold) {
		buf.WriteString(";1")
	}
	if attr.Has(AttrDim) {
		buf.WriteString(";2")
	}
	if attr.Has(AttrItalic) {
		buf.WriteString(";3")
	}
	if attr.Has(AttrUnderline) {
		buf.WriteString(";4")
	}
	if attr.Has(AttrBlink) {
		buf.WriteString(";5")
	}
	if attr.Has(AttrInverse) {
		buf.WriteString(";7")
	}
	if attr.Has(AttrStrikethrough) {
		buf.WriteString(";9")
	}
}

// AppendColorSGR appends the ";<params>" needed to set c as either the
// foreground (fg=true) or background (fg=false) color, narrowing to
// whichever Color variant c carries (spec §3.3's Reset/Basic/Ansi/Rgb).
func AppendColorSGR(buf *bytes.Buffer, c Color, fg bool) {
	switch c.Mode {
	case ColorDefault:
		if fg {
			buf.WriteString(";39")
		} else {
			buf.WriteString(";49")
		}
	case Color16:
		base := 30
		if !fg {
			base = 40
		}
		buf.WriteByte(';')
		if c.Index >= 8 {
			appendUint(buf, uint(base+60+int(c.Index-8)))
		} else {
			appendUint(buf, uint(base+int(c.Index)))
		}
	case Color256:
		if fg {
			buf.WriteString(";38;5;")
		} else {
			buf.WriteString(";48;5;")
		}
		appendUint(buf, uint(c.Index))
	case ColorRGB:
		if fg {
			buf.WriteString(";38;2;")
		} else {
			buf.WriteString(";48;2;")
		}
		appendUint(buf, uint(c.R))
		buf.WriteByte(';')
		appendUint(buf, uint(c.G))
		buf.WriteByte(';')
		appendUint(buf, uint(c.B))
	}
}

// AppendCursorPosition appends a CUP sequence moving the cursor to
// (row, col), both 0-based; the wire format is 1-based (spec §4.1).
func AppendCursorPosition(buf *bytes.Buffer, row, col int) {
	buf.WriteString("\x1b[")
	appendUint(buf, uint(row+1))
	buf.WriteByte(';')
	appendUint(buf, uint(col+1))
	buf.WriteByte('H')
}

// AppendEraseLine appends an EL sequence for mode (spec §4.2's EraseMode:
// ToEnd/ToStart/All map to CSI Ps K with Ps 0/1/2).
func AppendEraseLine(buf *bytes.Buffer, mode EraseMode) {
	buf.WriteString("\x1b[")
	appendUint(buf, uint(mode))
	buf.WriteByte('K')
}

// AppendEraseDisplay appends an ED sequence for mode.
func AppendEraseDisplay(buf *bytes.Buffer, mode EraseMode) {
	buf.WriteString("\x1b[")
	appendUint(buf, uint(mode))
	buf.WriteByte('J')
}

// AppendSetScrollRegion appends a DECSTBM sequence restricting scrolling
// to [top, bottom] (both 0-based, inclusive).
func AppendSetScrollRegion(buf *bytes.Buffer, top, bottom int) {
	buf.WriteString("\x1b[")
	appendUint(buf, uint(top+1))
	buf.WriteByte(';')
	appendUint(buf, uint(bottom+1))
	buf.WriteByte('r')
}

// AppendResetScrollRegion appends a bare DECSTBM, restoring the full
// screen as the scroll region.
func AppendResetScrollRegion(buf *bytes.Buffer) {
	buf.WriteString("\x1b[r")
}

// AppendShowCursor/AppendHideCursor append DECTCEM sequences.
func AppendShowCursor(buf *bytes.Buffer) { buf.WriteString("\x1b[?25h") }
func AppendHideCursor(buf *bytes.Buffer) { buf.WriteString("\x1b[?25l") }

// appendUint appends n's decimal digits directly into buf without an
// intermediate allocation (mirrors Backend.writeIntToBuf, generalized to
// a free function so both Backend and the compositor's diff-to-bytes
// pass can share it).
func appendUint(buf *bytes.Buffer, n uint) {
	if n == 0 {
		buf.WriteByte('0')
		return
	}
	var tmp [20]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	buf.Write(tmp[i:])
}
