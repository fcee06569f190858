// Package colorwheel implements the stateful gradient/color-wheel engine
// spec §2.5/§4.9 describes: a sequence of colors stepped through at a
// configurable speed, with bounce-at-the-ends semantics, used by the
// editor's syntax highlighter and by styled-text utilities. Grounded on
// original_source/color_wheel_impl.rs's ColorWheelSpeed/ColorWheel shape;
// the teacher repo has no equivalent (its own color handling in tui.go is
// static, never animated), so the state-machine algorithm here is ported
// from the Rust original rather than adapted from a teacher method.
package colorwheel

import (
	"math"

	"forme"
)

// Speed names the three ticks-per-advance constants the original source
// uses (SPEC_FULL §D.2 / DESIGN.md Open Question 2): next_color only
// steps the gradient index forward every Speed ticks.
type Speed int

const (
	SpeedSlow   Speed = 4
	SpeedMedium Speed = 2
	SpeedFast   Speed = 1
)

// ConfigKind names which ColorWheelConfig variant is active.
type ConfigKind uint8

const (
	KindRgb ConfigKind = iota
	KindRgbRandom
	KindAnsi256
	KindLolcat
)

// Config is one of the four ColorWheelConfig variants spec §4.9 names.
// Only the fields relevant to Kind are meaningful.
type Config struct {
	Kind ConfigKind

	// KindRgb
	Stops []forme.Color
	Steps int

	// KindRgb / KindRgbRandom / KindAnsi256
	Speed Speed

	// KindAnsi256
	AnsiIndices []uint8

	// KindLolcat
	Lolcat LolcatBuilder
}

// LolcatBuilder configures the lolcat-style per-character HSV cycling
// variant: seed plus color-change-speed, matching the classic lolcat
// algorithm the original source ports.
type LolcatBuilder struct {
	Seed             float64
	ColorChangeSpeed float64
	Background       bool // apply the color as background, computing a readable fg
}

// RgbConfig builds a KindRgb config from hex stops.
func RgbConfig(stops []forme.Color, speed Speed, steps int) Config {
	return Config{Kind: KindRgb, Stops: stops, Speed: speed, Steps: steps}
}

// RgbRandomConfig builds a KindRgbRandom config.
func RgbRandomConfig(speed Speed) Config {
	return Config{Kind: KindRgbRandom, Speed: speed}
}

// Ansi256Config builds a KindAnsi256 config cycling through the given
// palette indices.
func Ansi256Config(indices []uint8, speed Speed) Config {
	return Config{Kind: KindAnsi256, AnsiIndices: indices, Speed: speed}
}

// LolcatConfig builds a KindLolcat config.
func LolcatConfig(b LolcatBuilder) Config {
	return Config{Kind: KindLolcat, Lolcat: b}
}

// NarrowConfigBasedOnColorSupport picks the first config in configs that
// is renderable given support, downgrading per spec §3.3's precedence:
// Truecolor prefers Rgb/Lolcat/RgbRandom, then falls back to Ansi256 (or
// a grayscale Ansi256 that takes the speed of the first Rgb, RgbRandom or
// Ansi256 config found); Ansi256 support prefers an explicit Ansi256
// config, else the same grayscale fallback.
func NarrowConfigBasedOnColorSupport(configs []Config, support forme.Capability) Config {
	switch support {
	case forme.CapTrueColor:
		for _, c := range configs {
			if c.Kind == KindRgb || c.Kind == KindLolcat || c.Kind == KindRgbRandom {
				return c
			}
		}
		for _, c := range configs {
			if c.Kind == KindAnsi256 {
				return c
			}
		}
		return grayscaleAnsi256(configs)
	case forme.CapAnsi256:
		for _, c := range configs {
			if c.Kind == KindAnsi256 {
				return c
			}
		}
		return grayscaleAnsi256(configs)
	default:
		return grayscaleAnsi256(configs)
	}
}

// grayscaleAnsi256 is the "automatic downgrade to grayscale Ansi256"
// policy spec §7 requires for a palette mismatch at render time: it never
// fails, always returning *some* renderable config.
func grayscaleAnsi256(configs []Config) Config {
	indices := make([]uint8, 0, 8)
	for i := 232; i < 256; i += 3 {
		indices = append(indices, uint8(i))
	}
	if len(indices) == 0 {
		indices = []uint8{244}
	}
	speed := SpeedMedium
	for _, c := range configs {
		if c.Kind == KindRgb || c.Kind == KindRgbRandom || c.Kind == KindAnsi256 {
			speed = c.Speed
			break
		}
	}
	return Ansi256Config(indices, speed)
}

// Wheel is the stateful gradient iterator. Its zero value is not usable;
// construct with New.
type Wheel struct {
	config   Config
	gradient []forme.Color // memoized for Rgb/Ansi256/RgbRandom configs

	counter   int
	index     int
	direction int // +1 forward, -1 backward

	lolcatSeed float64
}

// New constructs a Wheel for config. The gradient itself is generated
// lazily by GenerateColorWheel / NextColor on first use.
func New(config Config) *Wheel {
	return &Wheel{config: config, direction: 1, lolcatSeed: config.Lolcat.Seed}
}

// GenerateColorWheel computes (or reuses, if already computed and steps
// is unset) the gradient backing this wheel. steps, if > 0, overrides the
// config's own step count — used by ColorEachCharacter/Word policies that
// size the gradient to the text length (spec §4.9).
func (w *Wheel) GenerateColorWheel(steps int) {
	if w.config.Kind == KindLolcat {
		return // lolcat has no memoized gradient; it's computed per-call
	}
	if steps <= 0 {
		steps = w.config.Steps
	}
	if steps <= 0 {
		steps = 1
	}
	switch w.config.Kind {
	case KindRgb:
		w.gradient = buildStopGradient(w.config.Stops, steps)
	case KindAnsi256:
		w.gradient = make([]forme.Color, 0, steps)
		n := len(w.config.AnsiIndices)
		if n == 0 {
			w.gradient = []forme.Color{forme.PaletteColor(244)}
			break
		}
		for i := 0; i < steps; i++ {
			w.gradient = append(w.gradient, forme.PaletteColor(w.config.AnsiIndices[i%n]))
		}
	case KindRgbRandom:
		w.gradient = buildStopGradient(defaultRandomStops(), steps)
	}
	w.counter = 0
	w.index = 0
	w.direction = 1
}

func defaultRandomStops() []forme.Color {
	return []forme.Color{
		forme.RGB(255, 0, 0), forme.RGB(0, 255, 0), forme.RGB(0, 0, 255),
		forme.RGB(255, 255, 0), forme.RGB(255, 0, 255), forme.RGB(0, 255, 255),
	}
}

// buildStopGradient interpolates through stops (evenly spaced) to produce
// exactly `steps` colors, via forme.LerpColor.
func buildStopGradient(stops []forme.Color, steps int) []forme.Color {
	if steps <= 0 {
		steps = 1
	}
	if len(stops) == 0 {
		return make([]forme.Color, steps)
	}
	if len(stops) == 1 || steps == 1 {
		out := make([]forme.Color, steps)
		for i := range out {
			out[i] = stops[0]
		}
		return out
	}
	out := make([]forme.Color, steps)
	segments := len(stops) - 1
	for i := 0; i < steps; i++ {
		// Divide by steps, not steps-1: the gradient spans [0, 1) over
		// its step count rather than landing exactly on the last stop at
		// the final index (matches spec §8 scenario 5's fixture values).
		pos := float64(i) / float64(steps) * float64(segments)
		seg := int(pos)
		if seg >= segments {
			seg = segments - 1
		}
		t := pos - float64(seg)
		out[i] = forme.LerpColor(stops[seg], stops[seg+1], t)
	}
	return out
}

// NextColor advances the wheel one tick and returns the current color,
// per spec §4.9: Lolcat configs derive directly from an advancing seed;
// gradient-backed configs only step their index every Speed ticks, and
// bounce (reverse direction) at each end.
func (w *Wheel) NextColor() forme.Color {
	if w.config.Kind == KindLolcat {
		w.lolcatSeed += w.config.Lolcat.ColorChangeSpeed
		return lolcatColor(w.lolcatSeed)
	}
	if len(w.gradient) == 0 {
		w.GenerateColorWheel(0)
	}
	if len(w.gradient) == 0 {
		return forme.DefaultColor()
	}
	speed := w.config.Speed
	if speed <= 0 {
		speed = SpeedMedium
	}
	c := w.gradient[w.index]
	w.counter++
	if w.counter >= int(speed) {
		w.counter = 0
		w.index += w.direction
		if w.index >= len(w.gradient) {
			w.direction = -1
			// Step back by 2 per spec §4.9: one to undo the overshoot
			// above, one more to actually move off the end.
			w.index -= 2
			if w.index < 0 {
				w.index = 0
			}
		} else if w.index < 0 {
			w.direction = 1
			w.index += 2
			if w.index >= len(w.gradient) {
				w.index = len(w.gradient) - 1
			}
		}
	}
	return c
}

// lolcatColor derives an RGB color from a running seed using the classic
// lolcat HSV-cycling formula: hue walks with the seed, saturation and
// value stay fixed for readable, vivid output.
func lolcatColor(seed float64) forme.Color {
	hue := math.Mod(seed, 1.0)
	if hue < 0 {
		hue += 1.0
	}
	r, g, b := hsvToRGB(hue, 0.85, 1.0)
	return forme.RGB(r, g, b)
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}
