package backend

import (
	"testing"

	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

func TestNewScreenBuffer(t *testing.T) {
	sb := NewScreenBuffer(80, 24)

	w, h := sb.Size()
	if w != 80 || h != 24 {
		t.Errorf("expected size (80, 24), got (%d, %d)", w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, _ := sb.Get(x, y)
			if !c.Equals(core.BlankCell()) {
				t.Fatalf("cell (%d, %d) should be blank, got %+v", x, y, c)
			}
		}
	}
}

func TestScreenBufferSetGet(t *testing.T) {
	sb := NewScreenBuffer(80, 24)

	cell := core.NewCell("A", core.DefaultStyle().WithForeground(core.ColorBlue))
	sb.Set(10, 5, cell)

	got, ok := sb.Get(10, 5)
	if !ok || !got.Equals(cell) {
		t.Errorf("cell mismatch: expected %+v, got %+v", cell, got)
	}

	// Out of bounds
	sb.Set(-1, 0, cell) // Should not panic
	sb.Set(100, 0, cell)
	sb.Set(0, 24, cell)

	if _, ok := sb.Get(-1, 0); ok {
		t.Error("out of bounds Get should report false")
	}
	if sb.At(80, 0) != nil {
		t.Error("out of bounds At should return nil")
	}
}

func TestScreenBufferAt(t *testing.T) {
	sb := NewScreenBuffer(4, 2)

	c := sb.At(1, 1)
	if c == nil {
		t.Fatal("expected cell pointer")
	}
	c.Grapheme = "z"

	got, _ := sb.Get(1, 1)
	if got.Grapheme != "z" {
		t.Errorf("At should allow in-place edits, got %q", got.Grapheme)
	}
}

func TestScreenBufferWideCell(t *testing.T) {
	sb := NewScreenBuffer(4, 1)

	sb.Set(0, 0, core.NewCell("世", core.DefaultStyle()))
	next, _ := sb.Get(1, 0)
	if !next.IsContinuation() {
		t.Error("cell after wide glyph should be a continuation")
	}

	// Wide glyph in the last column keeps the glyph, skips the continuation.
	sb.Set(3, 0, core.NewCell("界", core.DefaultStyle()))
	last, _ := sb.Get(3, 0)
	if last.Grapheme != "界" || last.Width != 2 {
		t.Errorf("expected wide glyph at last column, got %+v", last)
	}
}

func TestScreenBufferOverwriteWideCell(t *testing.T) {
	glyph := func(g string) core.Cell { return core.NewCell(g, core.DefaultStyle()) }

	tests := []struct {
		name string
		set  func(sb *ScreenBuffer)
		want string
	}{
		{
			name: "narrow over continuation",
			set: func(sb *ScreenBuffer) {
				sb.Set(0, 0, glyph("世"))
				sb.Set(1, 0, glyph("a"))
			},
			want: " a  ",
		},
		{
			name: "narrow over wide glyph",
			set: func(sb *ScreenBuffer) {
				sb.Set(1, 0, glyph("世"))
				sb.Set(1, 0, glyph("b"))
			},
			want: " b  ",
		},
		{
			name: "wide continuation over wide glyph",
			set: func(sb *ScreenBuffer) {
				sb.Set(1, 0, glyph("界"))
				sb.Set(0, 0, glyph("世"))
			},
			want: "世  ",
		},
		{
			name: "wide over continuation",
			set: func(sb *ScreenBuffer) {
				sb.Set(0, 0, glyph("界"))
				sb.Set(1, 0, glyph("世"))
			},
			want: " 世 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := NewScreenBuffer(4, 1)
			tt.set(sb)

			if got := sb.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			checkWideInvariant(t, sb)
		})
	}
}

// checkWideInvariant verifies every wide glyph is followed by a
// continuation (except in the last column) and every continuation
// follows a wide glyph.
func checkWideInvariant(t *testing.T, sb *ScreenBuffer) {
	t.Helper()
	for y := 0; y < sb.Height(); y++ {
		row, _ := sb.Row(y)
		for x, c := range row {
			if c.IsWide() && x+1 < len(row) && !row[x+1].IsContinuation() {
				t.Errorf("wide glyph at (%d, %d) has no continuation", x, y)
			}
			if c.IsContinuation() && (x == 0 || !row[x-1].IsWide()) {
				t.Errorf("orphan continuation at (%d, %d)", x, y)
			}
		}
	}
}

func TestScreenBufferRow(t *testing.T) {
	sb := NewScreenBuffer(5, 3)
	sb.Set(2, 1, core.NewCell("x", core.DefaultStyle()))

	row, ok := sb.Row(1)
	if !ok {
		t.Fatal("expected row 1")
	}
	if len(row) != 5 {
		t.Errorf("expected row length 5, got %d", len(row))
	}
	if row[2].Grapheme != "x" {
		t.Errorf("expected 'x' at column 2, got %q", row[2].Grapheme)
	}

	if _, ok := sb.Row(3); ok {
		t.Error("row out of range should report false")
	}
	if _, ok := sb.Row(-1); ok {
		t.Error("negative row should report false")
	}
}

func TestScreenBufferClear(t *testing.T) {
	sb := NewScreenBuffer(80, 24)

	sb.Set(10, 10, core.NewCell("X", core.DefaultStyle()))
	sb.Clear()

	got, _ := sb.Get(10, 10)
	if !got.Equals(core.BlankCell()) {
		t.Error("clear should reset all cells")
	}
}

func TestScreenBufferResize(t *testing.T) {
	sb := NewScreenBuffer(10, 5)
	sb.Set(1, 1, core.NewCell("X", core.DefaultStyle()))

	sb.Resize(20, 10)
	w, h := sb.Size()
	if w != 20 || h != 10 {
		t.Errorf("expected size (20, 10), got (%d, %d)", w, h)
	}

	got, _ := sb.Get(1, 1)
	if !got.Equals(core.BlankCell()) {
		t.Error("resize should not preserve content")
	}

	sb.Resize(-5, 3)
	if sb.Width() != 0 || sb.Height() != 3 {
		t.Errorf("negative width should clamp to 0, got (%d, %d)", sb.Width(), sb.Height())
	}
}

func TestScreenBufferSetSegments(t *testing.T) {
	sb := NewScreenBuffer(10, 1)
	red := core.NewStyle(core.ColorRed)

	end := sb.SetSegments(0, 0, []segment.Segment{
		segment.New("a", red),
		segment.Control("\x1b[0m"),
		segment.Plain("世b"),
	})
	if end != 4 {
		t.Errorf("expected end column 4, got %d", end)
	}

	a, _ := sb.Get(0, 0)
	if a.Grapheme != "a" || !a.Style.Equals(red) {
		t.Errorf("unexpected cell 0: %+v", a)
	}
	wide, _ := sb.Get(1, 0)
	if wide.Grapheme != "世" || wide.Width != 2 {
		t.Errorf("unexpected cell 1: %+v", wide)
	}
	cont, _ := sb.Get(2, 0)
	if !cont.IsContinuation() {
		t.Error("cell 2 should be continuation")
	}
	b, _ := sb.Get(3, 0)
	if b.Grapheme != "b" {
		t.Errorf("expected 'b' at 3, got %q", b.Grapheme)
	}
}

func TestScreenBufferSetSegmentsCombiningSpan(t *testing.T) {
	sb := NewScreenBuffer(4, 1)

	end := sb.SetSegments(0, 0, []segment.Segment{
		segment.Plain("e"),
		segment.Plain("\u0301"),
		segment.Plain("世"),
		segment.Plain("\u0301x"),
	})
	if end != 4 {
		t.Errorf("expected end column 4, got %d", end)
	}

	e, _ := sb.Get(0, 0)
	if e.Grapheme != "e\u0301" || e.Width != 1 {
		t.Errorf("expected combining mark joined to 'e', got %+v", e)
	}
	wide, _ := sb.Get(1, 0)
	if wide.Grapheme != "世\u0301" {
		t.Errorf("expected combining mark joined to wide glyph, got %q", wide.Grapheme)
	}
	x, _ := sb.Get(3, 0)
	if x.Grapheme != "x" {
		t.Errorf("expected 'x' at 3, got %q", x.Grapheme)
	}

	// Nothing precedes the mark within the call: it is dropped.
	sb.Clear()
	if end := sb.SetSegments(0, 0, []segment.Segment{segment.Plain("\u0301a")}); end != 1 {
		t.Errorf("expected end column 1, got %d", end)
	}
	if got := sb.String(); got != "a   " {
		t.Errorf("expected %q, got %q", "a   ", got)
	}
}

func TestScreenBufferString(t *testing.T) {
	sb := NewScreenBuffer(3, 2)
	sb.SetSegments(0, 0, []segment.Segment{segment.Plain("ab")})
	sb.SetSegments(0, 1, []segment.Segment{segment.Plain("世c")})

	want := "ab \n世c"
	if got := sb.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDiffIdentical(t *testing.T) {
	a := NewScreenBuffer(10, 3)
	b := NewScreenBuffer(10, 3)
	a.SetSegments(0, 1, []segment.Segment{segment.Plain("same")})
	b.SetSegments(0, 1, []segment.Segment{segment.Plain("same")})

	if changes := a.Diff(b); len(changes) != 0 {
		t.Errorf("identical buffers should produce no changes, got %d", len(changes))
	}
}

func TestDiffReportsEachChangeOnce(t *testing.T) {
	prev := NewScreenBuffer(10, 3)
	cur := NewScreenBuffer(10, 3)
	cur.Set(2, 0, core.NewCell("x", core.DefaultStyle()))
	cur.Set(9, 2, core.NewCell("y", core.DefaultStyle()))
	// Style-only change.
	cur.Set(5, 1, core.Cell{Grapheme: " ", Width: 1, Style: core.DefaultStyle().Bold()})

	changes := cur.Diff(prev)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}

	want := [][2]int{{2, 0}, {5, 1}, {9, 2}}
	for i, ch := range changes {
		if ch.X != want[i][0] || ch.Y != want[i][1] {
			t.Errorf("change %d: expected (%d, %d), got (%d, %d)", i, want[i][0], want[i][1], ch.X, ch.Y)
		}
	}
}

func TestDiffWideGlyph(t *testing.T) {
	prev := NewScreenBuffer(6, 1)
	cur := NewScreenBuffer(6, 1)
	cur.Set(2, 0, core.NewCell("世", core.DefaultStyle()))

	changes := cur.Diff(prev)
	if len(changes) != 2 {
		t.Fatalf("wide glyph insertion should produce 2 changes, got %d", len(changes))
	}
	if changes[0].X != 2 || changes[1].X != 3 || !changes[1].Cell.IsContinuation() {
		t.Errorf("unexpected changes %+v", changes)
	}

	// Removing it again also touches both cells.
	back := prev.Diff(cur)
	if len(back) != 2 {
		t.Errorf("wide glyph removal should produce 2 changes, got %d", len(back))
	}
}

func TestDiffResize(t *testing.T) {
	prev := NewScreenBuffer(10, 3)
	cur := NewScreenBuffer(12, 4)

	changes := cur.Diff(prev)
	if len(changes) != 12*4 {
		t.Errorf("size mismatch should emit every cell, expected %d, got %d", 12*4, len(changes))
	}
	last := changes[len(changes)-1]
	if last.X != 11 || last.Y != 3 {
		t.Errorf("expected last change at (11, 3), got (%d, %d)", last.X, last.Y)
	}

	if got := cur.Diff(nil); len(got) != 12*4 {
		t.Errorf("nil previous should emit every cell, got %d", len(got))
	}
}
