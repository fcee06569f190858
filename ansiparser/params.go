package ansiparser

// Params holds the parsed parameter list of a CSI sequence: a sequence of
// positions separated by ';', each position itself a sequence of
// sub-parameters separated by ':' (spec §4.1's VT-100 parameter
// semantics table).
type Params struct {
	positions [][]int
	cur       []int
	curDigits int
	curVal    int
	anyDigit  bool
	bare      bool // the only position was closed with nothing seen (bare CSI)
}

func (p *Params) reset() {
	p.positions = p.positions[:0]
	p.cur = p.cur[:0]
	p.curDigits = 0
	p.curVal = 0
	p.anyDigit = false
	p.bare = false
}

func (p *Params) startDigit(b byte) {
	if p.curDigits >= 4 {
		// VT-100 parameters are capped at 4 digits; ignore overflow
		// digits rather than letting a pathological sequence blow up
		// the accumulator.
		return
	}
	p.curVal = p.curVal*10 + int(b-'0')
	p.curDigits++
	p.anyDigit = true
}

// endSubParam closes the current sub-parameter (on ':') and starts a new
// one within the same position.
func (p *Params) endSubParam() {
	p.cur = append(p.cur, p.curVal)
	p.curVal = 0
	p.curDigits = 0
}

// endPosition closes the current position (on ';', or at dispatch time)
// and starts a new one.
func (p *Params) endPosition() {
	p.bare = len(p.positions) == 0 && len(p.cur) == 0 && !p.anyDigit
	p.cur = append(p.cur, p.curVal)
	p.positions = append(p.positions, append([]int(nil), p.cur...))
	p.cur = p.cur[:0]
	p.curVal = 0
	p.curDigits = 0
	p.anyDigit = false
}

// Len returns the number of positions.
func (p *Params) Len() int {
	return len(p.positions)
}

// IsEmpty reports whether no parameters were present at all (e.g. bare
// `CSI H`).
func (p *Params) IsEmpty() bool {
	return len(p.positions) == 0 || p.bare
}

// RawPosition returns the raw sub-value slice for position n, and
// whether that position exists.
func (p *Params) RawPosition(n int) ([]int, bool) {
	if n < 0 || n >= len(p.positions) {
		return nil, false
	}
	return p.positions[n], true
}

// ExtractNthSingleNonZero implements the spec's
// extract_nth_single_non_zero: the first sub-value of position n,
// coerced to 1 when missing, explicitly zero, or the position doesn't
// exist (VT-100 "a parameter of zero where 1 is required is coerced to
// 1").
func (p *Params) ExtractNthSingleNonZero(n int) int {
	pos, ok := p.RawPosition(n)
	if !ok || len(pos) == 0 {
		return 1
	}
	if pos[0] == 0 {
		return 1
	}
	return pos[0]
}

// ExtractNthSingleOptRaw implements extract_nth_single_opt_raw: the
// first sub-value of position n verbatim (including zero), Some(0) when
// missing or explicit zero, None when the position is out of range.
func (p *Params) ExtractNthSingleOptRaw(n int) (int, bool) {
	pos, ok := p.RawPosition(n)
	if !ok {
		return 0, false
	}
	if len(pos) == 0 {
		return 0, true
	}
	return pos[0], true
}

// ExtractNthManyRaw implements extract_nth_many_raw: the full sub-value
// slice for position n, Some([0]) when missing, None when out of range.
func (p *Params) ExtractNthManyRaw(n int) ([]int, bool) {
	pos, ok := p.RawPosition(n)
	if !ok {
		return nil, false
	}
	if len(pos) == 0 {
		return []int{0}, true
	}
	return pos, true
}

// ParseCursorPosition implements parse_cursor_position: always returns
// 0-based buffer indices by extracting positions 0 and 1 as
// non-zero-coerced single values and subtracting 1.
func ParseCursorPosition(params *Params) (row, col int) {
	row = params.ExtractNthSingleNonZero(0) - 1
	col = params.ExtractNthSingleNonZero(1) - 1
	return row, col
}

// AllRaw returns every position's raw sub-value slices, for dispatch
// sites (SGR, DECSET/DECRST) that need to walk the full parameter list
// rather than address it positionally.
func (p *Params) AllRaw() [][]int {
	return p.positions
}

// Flatten returns every sub-value of every position, in order, matching the
// plain `params []int` shape the compositor's ApplySGR already consumes
// (multi-colon sub-parameters like `38:2:r:g:b` are reported as a single
// flattened run so ApplySGR's existing sequential scan still works).
func (p *Params) Flatten() []int {
	out := make([]int, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos...)
	}
	return out
}
