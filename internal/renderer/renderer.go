package renderer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/compositor"
)

// Options configures the renderer.
type Options struct {
	// MaxFPS caps how often a driving loop should call RenderFrame.
	// Zero or negative means unlimited.
	MaxFPS int
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		MaxFPS: 60,
	}
}

// MinFrameInterval returns the minimum time between frames implied by MaxFPS.
func (o Options) MinFrameInterval() time.Duration {
	if o.MaxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(o.MaxFPS)
}

// FrameStats describes one rendered frame.
type FrameStats struct {
	Frame      uint64
	Changes    int
	FullRedraw bool
	Duration   time.Duration
}

// Renderer is the frame loop facade. It composes layers into the current
// buffer, diffs against the previous frame and hands the changes to the
// backend.
type Renderer struct {
	mu sync.Mutex

	opts    Options
	backend backend.Backend
	logger  *log.Logger
	metrics *Metrics

	// current receives the next frame; previous holds what the backend shows.
	current  *backend.ScreenBuffer
	previous *backend.ScreenBuffer
	// shown is false until previous holds a frame the backend has displayed.
	shown bool

	width  int
	height int

	frameCount uint64
	lastFrame  time.Time
}

// New creates a renderer drawing to b. A nil logger discards output.
func New(b backend.Backend, opts Options, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	width, height := b.Size()

	r := &Renderer{
		opts:     opts,
		backend:  b,
		logger:   logger,
		metrics:  NewMetrics(),
		current:  backend.NewScreenBuffer(width, height),
		previous: backend.NewScreenBuffer(width, height),
		width:    width,
		height:   height,
	}

	b.OnResize(func(w, h int) {
		r.Resize(w, h)
	})

	return r
}

// RenderFrame composes layers into a full frame and sends the cells that
// changed since the previous frame to the backend.
func (r *Renderer) RenderFrame(layers []compositor.Layer) FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()

	if w, h := r.current.Size(); w != r.width || h != r.height {
		r.current.Resize(r.width, r.height)
	}
	compositor.ComposeInto(r.current, layers)

	var changes []backend.CellChange
	full := !r.shown || !sameSize(r.current, r.previous)
	if r.shown {
		changes = r.current.Diff(r.previous)
	} else {
		changes = r.current.Diff(nil)
	}

	r.backend.Apply(changes)
	r.backend.Show()

	// Swap, no copy. The old previous is recomposed from scratch next frame.
	r.current, r.previous = r.previous, r.current
	r.shown = true

	r.frameCount++
	r.lastFrame = time.Now()
	elapsed := r.lastFrame.Sub(start)
	r.metrics.RecordFrame(elapsed, len(changes), full)

	if full {
		r.logger.Debug("full redraw", "frame", r.frameCount, "width", r.width, "height", r.height, "cells", len(changes))
	}

	return FrameStats{
		Frame:      r.frameCount,
		Changes:    len(changes),
		FullRedraw: full,
		Duration:   elapsed,
	}
}

func sameSize(a, b *backend.ScreenBuffer) bool {
	aw, ah := a.Size()
	bw, bh := b.Size()
	return aw == bw && ah == bh
}

// Resize changes the target size. Only the current buffer is resized; the
// next frame's diff sees the size mismatch and redraws everything.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == r.width && height == r.height {
		return
	}
	r.logger.Debug("resize", "from", fmt.Sprintf("%dx%d", r.width, r.height), "to", fmt.Sprintf("%dx%d", width, height))
	r.width = width
	r.height = height
	r.current.Resize(width, height)
}

// Invalidate forgets the previous frame so the next one repaints every cell.
func (r *Renderer) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = false
}

// Size returns the current target dimensions.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Options returns the renderer options.
func (r *Renderer) Options() Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// ShouldRender reports whether enough time has passed since the last frame
// to honor MaxFPS.
func (r *Renderer) ShouldRender(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFrame.IsZero() || now.Sub(r.lastFrame) >= r.opts.MinFrameInterval()
}

// Previous returns the most recently rendered frame, or nil before the first
// frame. The buffer is owned by the renderer and is only valid until the
// next RenderFrame call.
func (r *Renderer) Previous() *backend.ScreenBuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.shown {
		return nil
	}
	return r.previous
}

// Metrics returns the renderer's frame metrics.
func (r *Renderer) Metrics() *Metrics {
	return r.metrics
}
