package gapbuffer

import "testing"

func TestNewIsOneEmptyLine(t *testing.T) {
	b := New()
	if b.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", b.LineCount())
	}
	line, ok := b.GetLine(0)
	if !ok || line.Content != "" {
		t.Fatalf("GetLine(0) = %+v, ok=%v, want empty", line, ok)
	}
}

func TestInsertAndRebuild(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "hello")
	b.RebuildLineSegments(0)
	line, _ := b.GetLine(0)
	if line.Content != "hello" {
		t.Fatalf("content = %q, want hello", line.Content)
	}
	if line.Info.GraphemeCount != 5 || line.Info.DisplayWidth != 5 {
		t.Fatalf("metadata = %+v, want 5/5", line.Info)
	}
}

func TestContentBoundaryNeverLeaksPadding(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "ab")
	b.DeleteRange(0, 1, 2)
	b.RebuildLineSegments(0)
	line, _ := b.GetLine(0)
	if line.Content != "a" {
		t.Fatalf("content = %q, want %q", line.Content, "a")
	}
	if len(line.Info.Segments) != 1 {
		t.Fatalf("segments = %v, want 1 entry", line.Info.Segments)
	}
}

func TestInsertLineAtSplitsContent(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "abcdef")
	b.InsertLineAt(0, 3)
	if b.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", b.LineCount())
	}
	l0, _ := b.GetLine(0)
	l1, _ := b.GetLine(1)
	if l0.Content != "abc" || l1.Content != "def" {
		t.Fatalf("split = %q / %q, want abc / def", l0.Content, l1.Content)
	}
}

func TestJoinLinesMergesContent(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "abc")
	b.InsertLineAt(0, 3)
	b.InsertAt(1, 0, "def")
	b.JoinLines(0)
	if b.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", b.LineCount())
	}
	line, _ := b.GetLine(0)
	if line.Content != "abcdef" {
		t.Fatalf("content = %q, want abcdef", line.Content)
	}
}

func TestAppendOptimizedFastPath(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "abc")
	b.RebuildLineSegments(0)
	oldCount := b.lines[0].GraphemeCount
	b.InsertAt(0, 3, "def")
	ok := b.RebuildLineSegmentsAppendOptimized(0, oldCount, "def")
	if !ok {
		t.Fatalf("expected append-optimized path to apply")
	}
	line, _ := b.GetLine(0)
	if line.Info.GraphemeCount != 6 || line.Info.DisplayWidth != 6 {
		t.Fatalf("metadata after append = %+v", line.Info)
	}
	if line.Info.Segments[5].ColStart != 5 {
		t.Fatalf("segment offset wrong: %+v", line.Info.Segments[5])
	}
}

func TestAppendOptimizedFalseOnMidLineInsert(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "abcdef")
	b.RebuildLineSegments(0)
	// Insertion at segment 2 (mid-line), not a pure append: the caller
	// must fall back to a full rebuild.
	ok := b.RebuildLineSegmentsAppendOptimized(0, 2, "xyz")
	if ok {
		t.Fatalf("expected false for mid-line insertion")
	}
}

func TestAppendOptimizedFalseOnEmptyLine(t *testing.T) {
	b := New()
	ok := b.RebuildLineSegmentsAppendOptimized(0, 0, "abc")
	if ok {
		t.Fatalf("expected false for empty starting line")
	}
}

func TestDeleteLineKeepsAtLeastOne(t *testing.T) {
	b := New()
	b.InsertAt(0, 0, "x")
	b.DeleteLine(0)
	if b.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1 (cleared, not removed)", b.LineCount())
	}
	line, _ := b.GetLine(0)
	if line.Content != "" {
		t.Fatalf("content = %q, want empty", line.Content)
	}
}

func TestGrowthAcrossCapacityBoundary(t *testing.T) {
	b := New()
	long := make([]byte, minLineCapacity*3)
	for i := range long {
		long[i] = 'x'
	}
	b.InsertAt(0, 0, string(long))
	b.RebuildLineSegments(0)
	line, _ := b.GetLine(0)
	if len(line.Content) != len(long) {
		t.Fatalf("content len = %d, want %d", len(line.Content), len(long))
	}
	if line.Info.GraphemeCount != len(long) {
		t.Fatalf("grapheme count = %d, want %d", line.Info.GraphemeCount, len(long))
	}
}
