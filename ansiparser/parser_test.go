package ansiparser

import "testing"

type recordSink struct {
	prints  []rune
	execs   []byte
	csis    []csiCall
	escs    []escCall
	oscs    [][][]byte
}

type csiCall struct {
	params        [][]int
	intermediates []byte
	final         byte
}

type escCall struct {
	intermediates []byte
	final         byte
}

func (r *recordSink) Print(c rune) { r.prints = append(r.prints, c) }
func (r *recordSink) Execute(b byte) { r.execs = append(r.execs, b) }
func (r *recordSink) CsiDispatch(params *Params, intermediates []byte, final byte) {
	r.csis = append(r.csis, csiCall{params: params.AllRaw(), intermediates: append([]byte(nil), intermediates...), final: final})
}
func (r *recordSink) EscDispatch(intermediates []byte, final byte) {
	r.escs = append(r.escs, escCall{intermediates: append([]byte(nil), intermediates...), final: final})
}
func (r *recordSink) OscDispatch(data [][]byte) { r.oscs = append(r.oscs, data) }

func TestCursorPositionSequence(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("\x1b[15;20H"), s)
	if len(s.csis) != 1 {
		t.Fatalf("expected one csi dispatch, got %d", len(s.csis))
	}
	got := s.csis[0]
	if got.final != 'H' {
		t.Fatalf("final = %q, want H", got.final)
	}
	if len(got.params) != 2 || got.params[0][0] != 15 || got.params[1][0] != 20 {
		t.Fatalf("params = %v, want [[15] [20]]", got.params)
	}
}

func TestParseCursorPositionMissing(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("\x1b[H"), s)
	row, col := ParseCursorPosition(s.csis[0].paramsObj())
	if row != 0 || col != 0 {
		t.Fatalf("got (%d,%d), want (0,0)", row, col)
	}
}

// paramsObj reconstructs a *Params good enough for ParseCursorPosition
// from the recorded raw slices (the sink only keeps the raw positions).
func (c csiCall) paramsObj() *Params {
	p := &Params{}
	p.positions = c.params
	return p
}

func TestExtractRawVariants(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("\x1b[5A"), s)
	params := s.csis[0].paramsObj()
	if v, ok := params.ExtractNthSingleOptRaw(0); !ok || v != 5 {
		t.Fatalf("ExtractNthSingleOptRaw(0) = (%d,%v), want (5,true)", v, ok)
	}
	if v := params.ExtractNthSingleNonZero(0); v != 5 {
		t.Fatalf("ExtractNthSingleNonZero(0) = %d, want 5", v)
	}

	s2 := &recordSink{}
	p2 := New()
	p2.AdvanceBytes([]byte("\x1b[A"), s2)
	params2 := s2.csis[0].paramsObj()
	if v, ok := params2.ExtractNthSingleOptRaw(0); !ok || v != 0 {
		t.Fatalf("ExtractNthSingleOptRaw(0) = (%d,%v), want (0,true)", v, ok)
	}
	if v := params2.ExtractNthSingleNonZero(0); v != 1 {
		t.Fatalf("ExtractNthSingleNonZero(0) = %d, want 1", v)
	}
}

func TestMalformedCSIDropped(t *testing.T) {
	p := New()
	s := &recordSink{}
	// A CSI sequence with a non-numeric byte among its parameters,
	// followed by a fresh printable char: the parser drops the sequence
	// through its final byte, returns to Ground and processes 'x' as a
	// print, never surfacing the garbage to the sink.
	p.AdvanceBytes([]byte("\x1b[1;?9m"), s)
	p.AdvanceBytes([]byte("x"), s)
	if len(s.csis) != 0 {
		t.Fatalf("expected no csi dispatch from malformed sequence, got %d", len(s.csis))
	}
}

func TestSGRTruecolorAndPalette(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("\x1b[38;2;10;20;30m"), s)
	p.AdvanceBytes([]byte("\x1b[38;5;200m"), s)
	if len(s.csis) != 2 {
		t.Fatalf("expected 2 csi dispatches, got %d", len(s.csis))
	}
	if s.csis[0].final != 'm' || s.csis[1].final != 'm' {
		t.Fatalf("expected SGR dispatches")
	}
}

func TestPrintAndExecute(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("ab\ncd"), s)
	if string(s.prints) != "abcd" {
		t.Fatalf("prints = %q, want abcd", string(s.prints))
	}
	if len(s.execs) != 1 || s.execs[0] != '\n' {
		t.Fatalf("execs = %v, want [\\n]", s.execs)
	}
}

func TestOSCDispatch(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("\x1b]0;my title\x07"), s)
	if len(s.oscs) != 1 {
		t.Fatalf("expected 1 osc dispatch, got %d", len(s.oscs))
	}
	if string(s.oscs[0][0]) != "0" || string(s.oscs[0][1]) != "my title" {
		t.Fatalf("osc fields = %v", s.oscs[0])
	}
}

func TestBracketedPasteSequence(t *testing.T) {
	p := New()
	s := &recordSink{}
	p.AdvanceBytes([]byte("\x1b[200~"), s)
	if len(s.csis) != 1 || s.csis[0].final != '~' {
		t.Fatalf("expected one CSI ~ dispatch for bracketed paste start marker")
	}
}
