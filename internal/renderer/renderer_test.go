package renderer

import (
	"testing"
	"time"

	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/compositor"
	"github.com/dshills/tessera/internal/renderer/core"
)

func layer(id string, x, y, w, h, z int, rows ...string) compositor.Layer {
	return compositor.NewLayer(id, core.NewRegion(x, y, w, h), z).WithRows(core.DefaultStyle(), rows...)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxFPS != 60 {
		t.Errorf("expected MaxFPS 60, got %d", opts.MaxFPS)
	}
	if got := opts.MinFrameInterval(); got != time.Second/60 {
		t.Errorf("expected %v, got %v", time.Second/60, got)
	}
	if got := (Options{}).MinFrameInterval(); got != 0 {
		t.Errorf("unlimited FPS should give 0 interval, got %v", got)
	}
}

func TestRenderFrameFirstFrameIsFull(t *testing.T) {
	be := backend.NewNullBackend(10, 3)
	r := New(be, DefaultOptions(), nil)

	stats := r.RenderFrame(nil)
	if !stats.FullRedraw {
		t.Error("first frame should be a full redraw")
	}
	if stats.Changes != 30 {
		t.Errorf("expected 30 changes, got %d", stats.Changes)
	}
	if stats.Frame != 1 {
		t.Errorf("expected frame 1, got %d", stats.Frame)
	}
	if be.ShowCount() != 1 {
		t.Errorf("expected 1 Show call, got %d", be.ShowCount())
	}
}

func TestRenderFrameIncremental(t *testing.T) {
	be := backend.NewNullBackend(10, 3)
	r := New(be, DefaultOptions(), nil)

	layers := []compositor.Layer{layer("bg", 0, 0, 10, 3, 0, "..........", "..........", "..........")}
	r.RenderFrame(layers)

	stats := r.RenderFrame(layers)
	if stats.FullRedraw || stats.Changes != 0 {
		t.Errorf("identical frame should produce no changes, got %+v", stats)
	}

	layers = append(layers, layer("win", 2, 1, 3, 1, 1, "abc"))
	stats = r.RenderFrame(layers)
	if stats.Changes != 3 {
		t.Errorf("expected 3 changes, got %d", stats.Changes)
	}
	for _, ch := range be.LastFrame() {
		if ch.Y != 1 || ch.X < 2 || ch.X > 4 {
			t.Errorf("unexpected change at (%d, %d)", ch.X, ch.Y)
		}
	}
	if got := be.Grid().String(); got != "..........\n..abc.....\n.........." {
		t.Errorf("unexpected backend grid %q", got)
	}

	// Moving the window away restores the background.
	stats = r.RenderFrame(layers[:1])
	if stats.Changes != 3 {
		t.Errorf("expected 3 changes, got %d", stats.Changes)
	}
	if got := be.Grid().String(); got != "..........\n..........\n.........." {
		t.Errorf("unexpected backend grid %q", got)
	}
}

func TestRenderFrameWideGlyph(t *testing.T) {
	be := backend.NewNullBackend(6, 1)
	r := New(be, DefaultOptions(), nil)

	r.RenderFrame([]compositor.Layer{layer("a", 0, 0, 6, 1, 0, "abcdef")})
	stats := r.RenderFrame([]compositor.Layer{layer("a", 0, 0, 6, 1, 0, "ab世ef")})

	// The wide glyph and its continuation cell.
	if stats.Changes != 2 {
		t.Errorf("expected 2 changes, got %d", stats.Changes)
	}
	if !be.Cell(3, 0).IsContinuation() {
		t.Error("expected continuation cell after wide glyph")
	}
}

func TestRenderFrameResize(t *testing.T) {
	be := backend.NewNullBackend(10, 3)
	r := New(be, DefaultOptions(), nil)
	r.RenderFrame(nil)

	be.Resize(12, 4)
	if w, h := r.Size(); w != 12 || h != 4 {
		t.Fatalf("expected size 12x4, got %dx%d", w, h)
	}

	stats := r.RenderFrame(nil)
	if !stats.FullRedraw {
		t.Error("frame after resize should be a full redraw")
	}
	if stats.Changes != 48 {
		t.Errorf("expected 48 changes, got %d", stats.Changes)
	}

	// The swapped-in buffer still has the old size and must be resized
	// without forcing another full redraw.
	stats = r.RenderFrame(nil)
	if stats.FullRedraw || stats.Changes != 0 {
		t.Errorf("expected quiet frame after resize, got %+v", stats)
	}
}

func TestRenderFrameSwapsBuffers(t *testing.T) {
	be := backend.NewNullBackend(4, 1)
	r := New(be, DefaultOptions(), nil)

	if r.Previous() != nil {
		t.Error("no previous frame before first render")
	}

	r.RenderFrame([]compositor.Layer{layer("a", 0, 0, 4, 1, 0, "abcd")})
	first := r.Previous()
	r.RenderFrame([]compositor.Layer{layer("a", 0, 0, 4, 1, 0, "wxyz")})
	second := r.Previous()

	if first == second {
		t.Error("buffers should alternate between frames")
	}
	if got := second.String(); got != "wxyz" {
		t.Errorf("expected previous %q, got %q", "wxyz", got)
	}
	r.RenderFrame(nil)
	if r.Previous() != first {
		t.Error("third frame should reuse the first buffer")
	}
}

func TestInvalidate(t *testing.T) {
	be := backend.NewNullBackend(5, 2)
	r := New(be, DefaultOptions(), nil)
	r.RenderFrame(nil)

	r.Invalidate()
	stats := r.RenderFrame(nil)
	if !stats.FullRedraw || stats.Changes != 10 {
		t.Errorf("expected full redraw of 10 cells, got %+v", stats)
	}
}

func TestShouldRender(t *testing.T) {
	be := backend.NewNullBackend(2, 1)
	r := New(be, Options{MaxFPS: 10}, nil)

	now := time.Now()
	if !r.ShouldRender(now) {
		t.Error("should render before the first frame")
	}
	r.RenderFrame(nil)
	if r.ShouldRender(time.Now()) {
		t.Error("should not render again within the frame interval")
	}
	if !r.ShouldRender(time.Now().Add(200 * time.Millisecond)) {
		t.Error("should render once the interval has passed")
	}
}

func TestRendererMetrics(t *testing.T) {
	be := backend.NewNullBackend(3, 1)
	r := New(be, DefaultOptions(), nil)

	r.RenderFrame(nil)
	r.RenderFrame([]compositor.Layer{layer("a", 0, 0, 1, 1, 0, "x")})

	snap := r.Metrics().Snapshot()
	if snap.FrameCount != 2 {
		t.Errorf("expected 2 frames, got %d", snap.FrameCount)
	}
	if snap.FullRedraws != 1 {
		t.Errorf("expected 1 full redraw, got %d", snap.FullRedraws)
	}
	if snap.CellsChanged != 4 {
		t.Errorf("expected 4 changed cells, got %d", snap.CellsChanged)
	}
	if r.FrameCount() != 2 {
		t.Errorf("expected FrameCount 2, got %d", r.FrameCount())
	}
}
