package editor

import "forme"

// emptyHintDefault is shown in place of the document when the buffer has
// exactly one empty line and the editor has focus (spec §4.7). It is
// configurable per SPEC_FULL §D.2 rather than hard-coded, since a caller
// embedding the editor (a command palette vs. a full-screen note editor)
// wants different placeholder copy.
const emptyHintDefault = "Type here..."

// RenderOptions configures one Render call (spec §4.7's render_engine
// inputs beyond the buffer/engine themselves).
type RenderOptions struct {
	HasFocus  bool
	EmptyHint string // overrides emptyHintDefault when non-empty
}

// Render produces one styled span slice per visible viewport row, using
// the engine's last SetViewport size to decide how many rows and where
// the scroll window sits — spec §4.7's render_engine, minus the final
// compositing into screen cells, which is the caller's job (typically
// via OffscreenBuffer.WriteSpans).
//
// Results are cached per (scroll offset, viewport size); callers that
// call Render twice with nothing mutated in between get the same slice
// back without recomputation (spec §3.7's render_cache).
func (e *EditorEngine) Render(b *EditorBuffer, opts RenderOptions) [][]forme.Span {
	rows, cols := e.viewportRows, e.viewportCols
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}

	if b.LineCount() == 1 && b.Line(0) == "" && opts.HasFocus {
		hint := opts.EmptyHint
		if hint == "" {
			hint = emptyHintDefault
		}
		return [][]forme.Span{{forme.Styled(hint, forme.Style{Attr: forme.AttrDim})}}
	}

	key := renderCacheKey{ofs: b.scrOfs, rows: rows, cols: cols}
	if cached, ok := b.renderCache[key]; ok {
		return cached
	}

	out := make([][]forme.Span, 0, rows)
	for i := 0; i < rows; i++ {
		docRow := b.scrOfs.Row + i
		if docRow >= b.LineCount() {
			break
		}
		out = append(out, e.renderRow(b, docRow, opts))
	}

	b.renderCache[key] = out
	return out
}

// RenderPipeline adapts Render's span rows into a forme.RenderPipeline
// (spec §4.7's literal render_engine(...) -> RenderPipeline signature):
// one PaintTextWithAttributes op per span, on ZNormal, positioned by
// row with MoveCursorAbs before each row's spans.
func (e *EditorEngine) RenderPipeline(b *EditorBuffer, opts RenderOptions) *forme.RenderPipeline {
	rows := e.Render(b, opts)
	p := forme.NewRenderPipeline()
	for y, spans := range rows {
		ops := make(forme.RenderOpIRVec, 0, len(spans)+1)
		ops = append(ops, forme.RenderOpIR{Kind: forme.OpMoveCursorAbs, Pos: forme.Pos{Row: forme.RowIndex(y), Col: 0}})
		for _, s := range spans {
			style := s.Style
			ops = append(ops, forme.OpPaintText(s.Text, &style))
		}
		p.Add(forme.ZNormal, ops)
	}
	return p
}

// renderRow builds one row's spans: the line's text, re-styled by file
// extension, with the selection (if this row is selected) and the caret
// (if it sits on this row) composited on top via Style.Merge so either
// overlay layers cleanly on top of any syntax styling underneath (spec
// §3.4's non-commutative Merge, §4.7's caret/selection overlay).
func (e *EditorEngine) renderRow(b *EditorBuffer, docRow RowIndex, opts RenderOptions) []forme.Span {
	base := styleLine(b.Line(docRow), b.fileExtension)

	if sel, ok := b.sel[docRow]; ok && !sel.empty() {
		base = overlaySelection(base, sel)
	}

	if opts.HasFocus {
		caret := b.CaretScrAdj()
		if caret.Row == docRow {
			base = overlayCaret(base, caret.Col)
		}
	}
	return base
}

// styleLine applies the plain-text path, or a lightweight Markdown
// emphasis pass for ".md" files (spec §4.7's "Markdown vs plain render
// path selection by file extension"). This is intentionally not a full
// Markdown renderer — block structure (headings, lists, code fences) is
// out of scope — just the inline **bold**/*italic* emphasis a single
// line can carry without needing a multi-line parse.
func styleLine(text string, ext string) []forme.Span {
	if ext != "md" && ext != "markdown" {
		return []forme.Span{forme.Styled(text, forme.DefaultStyle())}
	}
	return markdownInlineSpans(text)
}

func markdownInlineSpans(text string) []forme.Span {
	var spans []forme.Span
	plain := forme.DefaultStyle()
	bold := forme.DefaultStyle().Bold()
	italic := forme.DefaultStyle().Italic()

	i := 0
	for i < len(text) {
		switch {
		case hasPrefixAt(text, i, "**"):
			if end := indexFrom(text, i+2, "**"); end >= 0 {
				spans = append(spans, forme.Styled(text[i+2:end], bold))
				i = end + 2
				continue
			}
		case hasPrefixAt(text, i, "*"):
			if end := indexFrom(text, i+1, "*"); end >= 0 {
				spans = append(spans, forme.Styled(text[i+1:end], italic))
				i = end + 1
				continue
			}
		}
		j := i + 1
		for j < len(text) && text[j] != '*' {
			j++
		}
		spans = append(spans, forme.Styled(text[i:j], plain))
		i = j
	}
	if len(spans) == 0 {
		return []forme.Span{forme.Styled("", plain)}
	}
	return spans
}

func hasPrefixAt(s string, i int, prefix string) bool {
	return i+len(prefix) <= len(s) && s[i:i+len(prefix)] == prefix
}

func indexFrom(s string, from int, sep string) int {
	if from > len(s) {
		return -1
	}
	for k := from; k+len(sep) <= len(s); k++ {
		if s[k:k+len(sep)] == sep {
			return k
		}
	}
	return -1
}

// overlaySelection inverts the foreground/background of the spans
// falling within [sel.Start, sel.End) by re-splitting them at the
// selection boundary and merging an Inverse attribute on top.
func overlaySelection(spans []forme.Span, sel SelectionRange) []forme.Span {
	return overlayColumnRange(spans, sel.Start, sel.End, forme.Style{Attr: forme.AttrInverse})
}

// overlayCaret marks the single grapheme at caretCol (or a synthetic
// trailing cell at end-of-line) with an Inverse attribute.
func overlayCaret(spans []forme.Span, caretCol ColIndex) []forme.Span {
	out := overlayColumnRange(spans, caretCol, caretCol+1, forme.Style{Attr: forme.AttrInverse})
	total := 0
	for _, s := range spans {
		total += int(forme.NewGCString(s.Text).DisplayWidth())
	}
	if caretCol >= total {
		out = append(out, forme.Styled(" ", forme.Style{Attr: forme.AttrInverse}))
	}
	return out
}

// overlayColumnRange splits spans at display columns from/to and merges
// overlay onto every span segment that falls within [from, to).
func overlayColumnRange(spans []forme.Span, from, to ColIndex, overlay forme.Style) []forme.Span {
	var out []forme.Span
	col := 0
	for _, s := range spans {
		gc := forme.NewGCString(s.Text)
		w := int(gc.DisplayWidth())
		segStart, segEnd := col, col+w
		col = segEnd

		lo := maxInt(segStart, from)
		hi := minInt(segEnd, to)
		if lo >= hi {
			out = append(out, s)
			continue
		}
		if segStart < lo {
			out = append(out, forme.Styled(clipText(gc, 0, lo-segStart), s.Style))
		}
		out = append(out, forme.Styled(clipText(gc, lo-segStart, hi-segStart), s.Style.Merge(overlay)))
		if hi < segEnd {
			out = append(out, forme.Styled(clipText(gc, hi-segStart, w-(hi-segStart)), s.Style))
		}
	}
	return out
}

func clipText(gc forme.GCString, startCol, width int) string {
	return gc.Clip(forme.ColIndex(startCol), forme.ColWidth(width)).String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
