package backend

import (
	"testing"

	"github.com/dshills/tessera/internal/renderer/core"
)

func TestNullBackendApply(t *testing.T) {
	b := NewNullBackend(10, 2)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	b.Apply([]CellChange{
		{X: 1, Y: 0, Cell: core.NewCell("a", core.DefaultStyle())},
		{X: 50, Y: 0, Cell: core.NewCell("b", core.DefaultStyle())}, // ignored
	})
	b.Show()

	if got := b.Cell(1, 0); got.Grapheme != "a" {
		t.Errorf("expected 'a', got %q", got.Grapheme)
	}
	if b.AppliedCount() != 2 {
		t.Errorf("expected 2 applied changes, got %d", b.AppliedCount())
	}
	if b.ShowCount() != 1 {
		t.Errorf("expected 1 show, got %d", b.ShowCount())
	}
	if len(b.LastFrame()) != 2 {
		t.Errorf("expected last frame of 2 changes, got %d", len(b.LastFrame()))
	}
	if !b.Cell(-1, 0).Equals(core.BlankCell()) {
		t.Error("out of bounds cell should be blank")
	}
}

func TestNullBackendResize(t *testing.T) {
	b := NewNullBackend(10, 2)
	_ = b.Init()

	var gotW, gotH int
	b.OnResize(func(w, h int) {
		gotW, gotH = w, h
	})
	b.Resize(30, 7)

	if gotW != 30 || gotH != 7 {
		t.Errorf("resize handler got (%d, %d)", gotW, gotH)
	}
	w, h := b.Size()
	if w != 30 || h != 7 {
		t.Errorf("expected size (30, 7), got (%d, %d)", w, h)
	}
	if gw, gh := b.Grid().Size(); gw != 30 || gh != 7 {
		t.Errorf("grid should follow resize, got (%d, %d)", gw, gh)
	}
}

func TestNullBackendEvents(t *testing.T) {
	b := NewNullBackend(10, 2)
	b.PostEvent(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})

	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Rune != 'q' {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestSplitGrapheme(t *testing.T) {
	mainc, combc := splitGrapheme("e\u0301")
	if mainc != 'e' || len(combc) != 1 || combc[0] != '\u0301' {
		t.Errorf("unexpected split %q %q", mainc, combc)
	}

	mainc, combc = splitGrapheme("")
	if mainc != ' ' || combc != nil {
		t.Errorf("empty grapheme should map to space, got %q %q", mainc, combc)
	}
}

func TestConvertKey(t *testing.T) {
	for _, k := range []Key{KeyEscape, KeyEnter, KeyCtrlC} {
		if got := convertKey(convertToTcellKey(k)); got != k {
			t.Errorf("round trip of %d gave %d", k, got)
		}
	}
}
