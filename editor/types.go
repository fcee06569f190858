// Package editor implements the text-editor buffer and engine spec
// §2.12/§2.13/§3.7/§4.6-4.8 describe: EditorBuffer wraps forme/gapbuffer
// with caret, scroll offset, a per-row selection map, and bounded undo/
// redo history; EditorEngine translates input events into buffer
// mutations and renders the result as a forme.RenderPipeline. Grounded on
// the teacher's Layer (layer.go, scroll/viewport bookkeeping) for the
// caret/scroll-offset shape and on original_source/editor_buffer_struct.rs
// for the parts the teacher has no equivalent of at all (selection,
// undo/redo, the event-application state machine).
package editor

// RowIndex/ColIndex mirror forme's typed units at the granularity the
// editor needs them; kept as plain ints rather than importing forme's
// types directly so gapbuffer's byte-offset math and the editor's
// grapheme-offset math are never accidentally mixed through a shared
// type.
type RowIndex = int
type ColIndex = int

// CaretRaw is the caret's position inside the viewport.
type CaretRaw struct {
	Row RowIndex
	Col ColIndex
}

// ScrOfs is the scroll offset of the viewport inside the buffer.
type ScrOfs struct {
	Row RowIndex
	Col ColIndex
}

// CaretScrAdj returns the caret's position inside the whole document:
// CaretRaw + ScrOfs (spec §3.1).
func CaretScrAdj(raw CaretRaw, ofs ScrOfs) CaretRaw {
	return CaretRaw{Row: raw.Row + ofs.Row, Col: raw.Col + ofs.Col}
}

// Direction disambiguates a selection update — the horizontal or
// vertical sense in which the caret most recently moved (spec §4.6.2's
// `D` and §D.1's `lastDirection`).
type Direction uint8

const (
	DirOverlap Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// SelectionRange is a half-open [Start, End) column range within one
// row, in scroll-adjusted coordinates, plus the direction that last
// modified it (spec §3.7's selection description, extended per
// SPEC_FULL §D.1 with the original source's direction marker so a
// zero-width range forming at a boundary knows which way it's about to
// grow).
type SelectionRange struct {
	Start         ColIndex
	End           ColIndex
	LastDirection Direction
}

func (r SelectionRange) empty() bool { return r.Start >= r.End }

// SelectionList maps RowIndex to that row's SelectionRange (spec §3.7).
type SelectionList map[RowIndex]SelectionRange

// Clone returns an independent copy, used when snapshotting history.
func (l SelectionList) Clone() SelectionList {
	if l == nil {
		return nil
	}
	out := make(SelectionList, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether no rows are selected.
func (l SelectionList) IsEmpty() bool { return len(l) == 0 }

// SelectMode distinguishes a plain caret motion from one that also
// extends the selection (spec §4.8's MoveCaret vs Select(*) split).
type SelectMode uint8

const (
	SelectDisabled SelectMode = iota
	SelectEnabled
)

// EditMode gates whether non-navigation events are accepted (spec §4.7
// step 1).
type EditMode uint8

const (
	EditReadWrite EditMode = iota
	EditReadOnly
)

// CaretDirection names the semantic motions MoveCaret/Select accept
// (spec §6.4's InputEvent -> EditorEvent table, collapsed to one enum).
type CaretDirection uint8

const (
	MoveLeft CaretDirection = iota
	MoveRight
	MoveUp
	MoveDown
	MoveHome
	MoveEnd
	MovePageUp
	MovePageDown
	MoveAll // Select(All) only — not a valid MoveCaret target
	MoveEsc // Select(Esc) only — clears selection, caret unchanged
)
