package colorwheel

import (
	"forme"
)

// GradientPolicy controls whether/how the wheel's gradient is
// (re)computed before coloring a piece of text (spec §4.9).
type GradientPolicy uint8

const (
	// ReuseExisting keeps whatever gradient the wheel already has.
	ReuseExisting GradientPolicy = iota
	// RegenerateBasedOnTextLength sizes the gradient to the text's
	// grapheme count and
	// resets the index, so a short string always starts at the first
	// stop and a long one sees the full gradient exactly once.
	RegenerateBasedOnTextLength
)

// ColorizationPolicy selects the unit colorize_into_styled_texts walks.
type ColorizationPolicy uint8

const (
	// ColorEachCharacter emits one styled span per grapheme.
	ColorEachCharacter ColorizationPolicy = iota
	// ColorEachWord emits one styled span per ASCII-whitespace-delimited
	// word, with separators passed through at default style.
	ColorEachWord
)

// ColorizeIntoStyledTexts implements spec §4.9's
// colorize_into_styled_texts: walks text by grapheme or by word,
// assigning each unit the wheel's next color as foreground (or, for a
// background-lolcat config, as background with a computed readable
// foreground).
func ColorizeIntoStyledTexts(w *Wheel, text string, gradientPolicy GradientPolicy, colorization ColorizationPolicy) []forme.Span {
	if gradientPolicy == RegenerateBasedOnTextLength {
		w.GenerateColorWheel(int(forme.NewGCString(text).GraphemeCount()))
	}
	switch colorization {
	case ColorEachWord:
		return colorizeWords(w, text)
	default:
		return colorizeChars(w, text)
	}
}

func colorizeChars(w *Wheel, text string) []forme.Span {
	gc := forme.NewGCString(text)
	spans := make([]forme.Span, 0, gc.GraphemeCount())
	for _, seg := range gc.Segments() {
		grapheme := text[seg.ByteStart:seg.ByteEnd]
		spans = append(spans, spanFor(w, grapheme))
	}
	return spans
}

func colorizeWords(w *Wheel, text string) []forme.Span {
	var spans []forme.Span
	start := 0
	inWord := false
	flushWord := func(end int) {
		if end > start {
			spans = append(spans, spanFor(w, text[start:end]))
		}
	}
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if inWord {
				flushWord(i)
				inWord = false
			}
			spans = append(spans, forme.Span{Text: string(r), Style: forme.DefaultStyle()})
			start = i + len(string(r))
		} else if !inWord {
			inWord = true
			start = i
		}
	}
	if inWord {
		flushWord(len(text))
	}
	return spans
}

func spanFor(w *Wheel, unit string) forme.Span {
	c := w.NextColor()
	if w.config.Kind == KindLolcat && w.config.Lolcat.Background {
		return forme.Span{Text: unit, Style: forme.Style{BG: c, FG: readableForeground(c)}}
	}
	return forme.Span{Text: unit, Style: forme.Style{FG: c}}
}

// readableForeground picks black or white depending on the perceived
// luminance of bg, a simple threshold sufficient for a lolcat background
// — not meant to be WCAG-accurate.
func readableForeground(bg forme.Color) forme.Color {
	r, g, b := bg.RGB()
	luma := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if luma > 140 {
		return forme.BasicColor(0)
	}
	return forme.BasicColor(15)
}
