package forme

// Align represents text alignment within an allocated width.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style combines foreground, background colours and attributes. Merge
// is non-commutative (later style wins field-by-field where set) but
// associative, matching spec §3.4: applying (a then b) then c gives the
// same result as a then (b then c).
type Style struct {
	FG        Color
	BG        Color // text background (behind characters)
	Fill      Color // container fill (entire area)
	Attr      Attribute
	Transform TextTransform // text case transformation
	Align     Align         // text alignment within allocated width
	margin    [4]int16      // top, right, bottom, left — non-cascading
}

// DefaultStyle returns a style with default colours and no attributes.
func DefaultStyle() Style {
	return Style{
		FG: DefaultColor(),
		BG: DefaultColor(),
	}
}

// Foreground returns a new style with the given foreground color.
func (s Style) Foreground(c Color) Style {
	s.FG = c
	return s
}

// Background returns a new style with the given background color.
func (s Style) Background(c Color) Style {
	s.BG = c
	return s
}

// FillColor returns a new style with the given fill color (for containers).
func (s Style) FillColor(c Color) Style {
	s.Fill = c
	return s
}

func (s Style) Bold() Style          { s.Attr = s.Attr.With(AttrBold); return s }
func (s Style) Dim() Style           { s.Attr = s.Attr.With(AttrDim); return s }
func (s Style) Italic() Style        { s.Attr = s.Attr.With(AttrItalic); return s }
func (s Style) Underline() Style     { s.Attr = s.Attr.With(AttrUnderline); return s }
func (s Style) Inverse() Style       { s.Attr = s.Attr.With(AttrInverse); return s }
func (s Style) Strikethrough() Style { s.Attr = s.Attr.With(AttrStrikethrough); return s }

func (s Style) Uppercase() Style  { s.Transform = TransformUppercase; return s }
func (s Style) Lowercase() Style  { s.Transform = TransformLowercase; return s }
func (s Style) Capitalize() Style { s.Transform = TransformCapitalize; return s }

// Margin sets uniform margin on all sides.
func (s Style) Margin(all int16) Style { s.margin = [4]int16{all, all, all, all}; return s }

// MarginVH sets vertical and horizontal margin.
func (s Style) MarginVH(v, h int16) Style { s.margin = [4]int16{v, h, v, h}; return s }

// MarginTRBL sets individual margins for top, right, bottom, left.
func (s Style) MarginTRBL(t, r, b, l int16) Style { s.margin = [4]int16{t, r, b, l}; return s }

// Equal returns true if two styles are equal.
func (s Style) Equal(other Style) bool {
	return s == other
}

// isSet reports whether a color carries information beyond "unset". A
// zero-value Color (ColorDefault, all fields zero) is indistinguishable
// from an explicit reset, so Merge treats ColorDefault fields of the
// incoming style as "no opinion" rather than "set to terminal default" —
// matching the teacher's cascading-style intent in FlexNode/Style.
func (c Color) isSet() bool { return c.Mode != ColorDefault }

// Merge combines s with an overlay applied on top of it: fields the
// overlay has an opinion on (non-default colors, non-zero attributes)
// replace s's; everything else in s passes through. Merge is associative:
// a.Merge(b).Merge(c) == a.Merge(b.Merge(c)).
func (s Style) Merge(overlay Style) Style {
	out := s
	if overlay.FG.isSet() {
		out.FG = overlay.FG
	}
	if overlay.BG.isSet() {
		out.BG = overlay.BG
	}
	if overlay.Fill.isSet() {
		out.Fill = overlay.Fill
	}
	out.Attr = out.Attr | overlay.Attr
	if overlay.Transform != TransformNone {
		out.Transform = overlay.Transform
	}
	if overlay.Align != AlignLeft {
		out.Align = overlay.Align
	}
	return out
}

// PixelCharKind tags the three things a screen cell can hold (spec
// §2.8/§3.5): an occupied character cell, the trailing half of a
// double-width character, or an explicitly blanked cell.
type PixelCharKind uint8

const (
	// PixelCharPlainText is an ordinary occupied cell.
	PixelCharPlainText PixelCharKind = iota
	// PixelCharSpacer is the second column of a double-width grapheme;
	// it carries the same style as its owning cell but no rune of its
	// own, so the renderer skips writing a glyph for it.
	PixelCharSpacer
	// PixelCharVoid is a cell explicitly cleared to nothing — distinct
	// from a plain-text space so erase operations can be told apart
	// from a line that legitimately contains space characters.
	PixelCharVoid
)

// Cell (spec "PixelChar") is a single screen cell: a kind tag, the rune
// it shows (meaningful only for PixelCharPlainText), and its style.
type Cell struct {
	Kind  PixelCharKind
	Rune  rune
	Style Style
}

// EmptyCell returns a PlainText cell holding a space with default style —
// the teacher's Buffer.Fill default and OffscreenBuffer's blank cell.
func EmptyCell() Cell {
	return Cell{Kind: PixelCharPlainText, Rune: ' ', Style: DefaultStyle()}
}

// NewCell creates a PlainText cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Kind: PixelCharPlainText, Rune: r, Style: style}
}

// SpacerCell returns the trailing half of a double-width character,
// carrying style for correct SGR continuation but no glyph.
func SpacerCell(style Style) Cell {
	return Cell{Kind: PixelCharSpacer, Style: style}
}

// VoidCell returns a cell explicitly erased to nothing.
func VoidCell(style Style) Cell {
	return Cell{Kind: PixelCharVoid, Style: style}
}

// Equal returns true if two cells are equal.
func (c Cell) Equal(other Cell) bool {
	return c == other
}

// IsBlank reports whether the cell renders as empty space: a PlainText
// space, a Spacer, or a Void.
func (c Cell) IsBlank() bool {
	return c.Kind == PixelCharVoid || c.Kind == PixelCharSpacer || (c.Kind == PixelCharPlainText && c.Rune == ' ')
}

// Span is a styled run of text, the unit the colorwheel package and the
// editor's render path use to hand back per-segment coloring (spec §4.9
// "colorize_into_styled_texts").
type Span struct {
	Text  string
	Style Style
}

// Styled creates a span with the given style.
func Styled(text string, style Style) Span { return Span{Text: text, Style: style} }

func Bold(text string) Span      { return Span{Text: text, Style: Style{Attr: AttrBold}} }
func Dim(text string) Span       { return Span{Text: text, Style: Style{Attr: AttrDim}} }
func Italic(text string) Span    { return Span{Text: text, Style: Style{Attr: AttrItalic}} }
func Underline(text string) Span { return Span{Text: text, Style: Style{Attr: AttrUnderline}} }
func Inverse(text string) Span   { return Span{Text: text, Style: Style{Attr: AttrInverse}} }

// FG creates a span with foreground color.
func FG(text string, color Color) Span { return Span{Text: text, Style: Style{FG: color}} }

// BG creates a span with background color.
func BG(text string, color Color) Span { return Span{Text: text, Style: Style{BG: color}} }
