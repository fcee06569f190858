package forme

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text styling attributes that can be combined.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrStrikethrough
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// TextTransform represents text case transformations.
type TextTransform uint8

const (
	TransformNone TextTransform = iota
	TransformUppercase
	TransformLowercase
	TransformCapitalize // first letter of each word
)

// ColorMode names the four representations a TuiColor can hold (spec
// §3.3's Reset/Basic/Ansi/Rgb variants).
type ColorMode uint8

const (
	// ColorDefault defers to the terminal's own default — spec "Reset".
	ColorDefault ColorMode = iota
	// Color16 is one of the 16 basic ANSI colours — spec "Basic".
	Color16
	// Color256 is an index into the 256-colour palette — spec "Ansi".
	Color256
	// ColorRGB is a 24-bit truecolor value — spec "Rgb".
	ColorRGB
)

// Color is a terminal color in one of four representations. Conversions
// between representations are lossy in one direction (Rgb -> Ansi/Basic)
// and lossless in the other (Basic -> Rgb via the fixed palette below).
type Color struct {
	Mode    ColorMode
	R, G, B uint8 // valid when Mode == ColorRGB
	Index   uint8 // valid when Mode == Color16 or Color256
}

// DefaultColor returns the terminal's default color.
func DefaultColor() Color {
	return Color{Mode: ColorDefault}
}

// BasicColor returns one of the 16 basic terminal colours.
func BasicColor(index uint8) Color {
	return Color{Mode: Color16, Index: index}
}

// PaletteColor returns one of the 256 palette colours.
func PaletteColor(index uint8) Color {
	return Color{Mode: Color256, Index: index}
}

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorRGB, R: r, G: g, B: b}
}

// Hex returns a 24-bit true color from a hex value (e.g., 0xFF5500).
func Hex(hex uint32) Color {
	return Color{
		Mode: ColorRGB,
		R:    uint8((hex >> 16) & 0xFF),
		G:    uint8((hex >> 8) & 0xFF),
		B:    uint8(hex & 0xFF),
	}
}

// LerpColor blends between two colours in RGB space. t=0 returns a, t=1
// returns b. Used by the colorwheel gradient engine (spec §4.9) to step
// between stops.
func LerpColor(a, b Color, t float64) Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	ar, ag, ab := a.rgb()
	br, bg, bb := b.rgb()
	return RGB(
		uint8(math.Round(float64(ar)+t*(float64(br)-float64(ar)))),
		uint8(math.Round(float64(ag)+t*(float64(bg)-float64(ag)))),
		uint8(math.Round(float64(ab)+t*(float64(bb)-float64(ab)))),
	)
}

// Standard basic colours for convenience.
var (
	Black   = BasicColor(0)
	Red     = BasicColor(1)
	Green   = BasicColor(2)
	Yellow  = BasicColor(3)
	Blue    = BasicColor(4)
	Magenta = BasicColor(5)
	Cyan    = BasicColor(6)
	White   = BasicColor(7)

	BrightBlack   = BasicColor(8)
	BrightRed     = BasicColor(9)
	BrightGreen   = BasicColor(10)
	BrightYellow  = BasicColor(11)
	BrightBlue    = BasicColor(12)
	BrightMagenta = BasicColor(13)
	BrightCyan    = BasicColor(14)
	BrightWhite   = BasicColor(15)
)

// ansi16Palette is the conventional RGB approximation of the 16 basic
// colours, used as the conversion target/source whenever a Basic color
// needs an RGB value (LerpColor, Narrow's distance search).
var ansi16Palette = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// rgb returns an RGB approximation of c regardless of mode, so distance
// computations and blends have a common space to work in.
func (c Color) rgb() (uint8, uint8, uint8) {
	switch c.Mode {
	case ColorRGB:
		return c.R, c.G, c.B
	case Color16:
		p := ansi16Palette[c.Index%16]
		return p[0], p[1], p[2]
	case Color256:
		return ansi256ToRGB(c.Index)
	default:
		return 0, 0, 0
	}
}

// ansi256ToRGB converts a 256-color palette index to its conventional RGB
// value: 0-15 basic, 16-231 a 6x6x6 color cube, 232-255 a grayscale ramp.
func ansi256ToRGB(i uint8) (uint8, uint8, uint8) {
	switch {
	case i < 16:
		p := ansi16Palette[i]
		return p[0], p[1], p[2]
	case i < 232:
		n := int(i) - 16
		levels := [6]uint8{0, 95, 135, 175, 215, 255}
		r := levels[n/36]
		g := levels[(n/6)%6]
		b := levels[n%6]
		return r, g, b
	default:
		v := uint8(8 + (int(i)-232)*10)
		return v, v, v
	}
}

// RGB returns an RGB approximation of c regardless of its mode, so
// callers outside this package (e.g. forme/colorwheel's readable-
// foreground computation) can work in a single color space without
// reaching into private fields.
func (c Color) RGB() (uint8, uint8, uint8) {
	return c.rgb()
}

// Equal returns true if two colours are equal.
func (c Color) Equal(other Color) bool {
	return c == other
}

// Capability is the set of color representations a terminal can render,
// ordered by expressiveness. Set by Detect (capability.go) or overridden
// via SetCapabilityOverride.
type Capability uint8

const (
	// CapTrueColor supports 24-bit RGB directly.
	CapTrueColor Capability = iota
	// CapAnsi256 supports the 256-color palette but not arbitrary RGB.
	CapAnsi256
	// CapAnsi16 supports only the 16 basic colours.
	CapAnsi16
	// CapNone supports no color (attributes only).
	CapNone
)

// Narrow downgrades c to the given capability, picking the nearest
// representable color by perceptual (CIE L*a*b*) distance when c cannot
// be represented exactly — spec §3.3 "lossy narrowing by detected
// terminal capability". ColorDefault always narrows to itself.
func (c Color) Narrow(cap Capability) Color {
	if c.Mode == ColorDefault {
		return c
	}
	switch cap {
	case CapTrueColor:
		return c
	case CapAnsi256:
		if c.Mode == Color256 || c.Mode == Color16 {
			return c
		}
		return PaletteColor(nearestAnsi256(c))
	case CapAnsi16:
		if c.Mode == Color16 {
			return c
		}
		return BasicColor(nearestAnsi16(c))
	default:
		return DefaultColor()
	}
}

func labOf(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// nearestAnsi256 finds the 256-palette index with the smallest CIE76
// Lab distance to c.
func nearestAnsi256(c Color) uint8 {
	r, g, b := c.rgb()
	target := labOf(r, g, b)
	best := uint8(0)
	bestDist := math.MaxFloat64
	for i := 0; i < 256; i++ {
		pr, pg, pb := ansi256ToRGB(uint8(i))
		d := target.DistanceLab(labOf(pr, pg, pb))
		if d < bestDist {
			bestDist = d
			best = uint8(i)
		}
	}
	return best
}

// nearestAnsi16 finds the basic-palette index with the smallest CIE76
// Lab distance to c.
func nearestAnsi16(c Color) uint8 {
	r, g, b := c.rgb()
	target := labOf(r, g, b)
	best := uint8(0)
	bestDist := math.MaxFloat64
	for i, p := range ansi16Palette {
		d := target.DistanceLab(labOf(p[0], p[1], p[2]))
		if d < bestDist {
			bestDist = d
			best = uint8(i)
		}
	}
	return best
}
