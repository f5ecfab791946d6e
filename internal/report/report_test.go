package report

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/tidwall/gjson"

	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

func TestDiffJSON(t *testing.T) {
	red := core.NewStyle(core.ColorRed).Bold()
	changes := []backend.CellChange{
		{X: 1, Y: 0, Cell: core.NewCell("a", red)},
		{X: 2, Y: 3, Cell: core.NewCell("世", core.DefaultStyle().WithBackground(core.ColorFromIndex(42)))},
		{X: 3, Y: 3, Cell: core.ContinuationCell()},
	}

	data, err := DiffJSON(7, changes)
	if err != nil {
		t.Fatalf("DiffJSON: %v", err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatalf("invalid JSON: %s", data)
	}

	doc := gjson.ParseBytes(data)
	if got := doc.Get("frame").Uint(); got != 7 {
		t.Errorf("expected frame 7, got %d", got)
	}
	if got := doc.Get("count").Int(); got != 3 {
		t.Errorf("expected count 3, got %d", got)
	}
	if got := len(doc.Get("changes").Array()); got != 3 {
		t.Fatalf("expected 3 changes, got %d", got)
	}

	first := doc.Get("changes.0")
	if first.Get("x").Int() != 1 || first.Get("grapheme").String() != "a" {
		t.Errorf("unexpected first change %s", first.Raw)
	}
	if first.Get("fg").String() != "#FF0000" || first.Get("bg").String() != "default" {
		t.Errorf("unexpected colors %s", first.Raw)
	}
	if attrs := first.Get("attrs").Array(); len(attrs) != 1 || attrs[0].String() != "bold" {
		t.Errorf("expected [bold], got %s", first.Get("attrs").Raw)
	}

	second := doc.Get("changes.1")
	if second.Get("width").Int() != 2 || second.Get("bg").String() != "42" {
		t.Errorf("unexpected second change %s", second.Raw)
	}
	if second.Get("attrs").Raw != "[]" {
		t.Errorf("expected empty attrs, got %s", second.Get("attrs").Raw)
	}

	third := doc.Get("changes.2")
	if third.Get("grapheme").String() != "" || third.Get("width").Int() != 0 {
		t.Errorf("expected continuation change, got %s", third.Raw)
	}
}

func TestDiffJSONEmpty(t *testing.T) {
	data, err := DiffJSON(1, nil)
	if err != nil {
		t.Fatalf("DiffJSON: %v", err)
	}
	doc := gjson.ParseBytes(data)
	if doc.Get("count").Int() != 0 || doc.Get("changes").Raw != "[]" {
		t.Errorf("unexpected empty report %s", data)
	}
}

func testBuffer() *backend.ScreenBuffer {
	buf := backend.NewScreenBuffer(6, 2)
	red := core.NewStyle(core.ColorRed)
	buf.SetSegments(0, 0, []segment.Segment{segment.New("ab", red), segment.Plain("世"), segment.Plain("cd")})
	buf.SetSegments(0, 1, []segment.Segment{segment.Plain("plain")})
	return buf
}

func TestPlain(t *testing.T) {
	if got := Plain(testBuffer()); got != "ab世cd\nplain " {
		t.Errorf("unexpected plain output %q", got)
	}
}

func TestRowSegments(t *testing.T) {
	segs := RowSegments(testBuffer(), 0)
	if len(segs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %+v", len(segs), segs)
	}
	if segs[0].Text != "ab" || !segs[0].Style.Foreground.Equals(core.ColorRed) {
		t.Errorf("unexpected first run %+v", segs[0])
	}
	if segs[1].Text != "世cd" {
		t.Errorf("expected continuation skipped, got %q", segs[1].Text)
	}
	if RowSegments(testBuffer(), 5) != nil {
		t.Error("out of range row should give nil")
	}
}

func TestANSI(t *testing.T) {
	buf := testBuffer()
	out := ANSI(buf, termenv.TrueColor)

	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("expected true color red foreground, got %q", out)
	}
	if got := ansi.Strip(out); got != Plain(buf) {
		t.Errorf("stripped output should equal plain text, got %q", got)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 2 || lines[1] != "plain " {
		t.Errorf("default-styled row should carry no escapes, got %q", lines)
	}
}

func TestANSIIndexedColor(t *testing.T) {
	buf := backend.NewScreenBuffer(2, 1)
	buf.SetSegments(0, 0, []segment.Segment{segment.New("x", core.DefaultStyle().WithBackground(core.ColorFromIndex(208)))})

	out := ANSI(buf, termenv.ANSI256)
	if !strings.Contains(out, "48;5;208") {
		t.Errorf("expected 256-color background, got %q", out)
	}
}
