package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/tessera/internal/logging"
	"github.com/dshills/tessera/internal/renderer"
	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/renderer/compositor"
	"github.com/dshills/tessera/internal/renderer/core"
	"github.com/dshills/tessera/internal/renderer/segment"
)

// Demo palette.
var (
	demoSkyTop    = core.ColorFromRGB(18, 24, 48)
	demoSkyBottom = core.ColorFromRGB(72, 28, 88)
	demoStatus    = core.DefaultStyle().WithForeground(core.ColorBlack).WithBackground(core.ColorFromRGB(200, 200, 120))
)

type demoWindow struct {
	title  string
	body   []string
	frame  core.Color
	dx, dy int
	offset int
}

var demoWindows = []demoWindow{
	{title: "layers", body: []string{"z-ordered", "rectangles"}, frame: core.ColorCyan, dx: 1, dy: 1, offset: 0},
	{title: "世界", body: []string{"wide glyphs 世界", "never split"}, frame: core.ColorYellow, dx: 2, dy: 1, offset: 17},
	{title: "diff", body: []string{"only changed", "cells redraw"}, frame: core.ColorMagenta, dx: 1, dy: 2, offset: 41},
}

func (c *CLI) newDemoCmd() *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive floating-window demo (q to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.demo(cmd.Context(), frames)
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 runs until quit)")

	return cmd
}

func (c *CLI) demo(ctx context.Context, maxFrames int) error {
	be, err := c.newBackend()
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	if err := be.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}

	r := renderer.New(be, renderer.Options{MaxFPS: c.cfg.Render.MaxFPS}, logging.WithComponent(c.logger, "renderer"))

	events := make(chan backend.Event, 16)
	done := make(chan struct{})
	go func() {
		for {
			ev := be.PollEvent()
			select {
			case events <- ev:
			case <-done:
				return
			}
			if ev.Type == backend.EventInterrupt {
				return
			}
		}
	}()
	defer func() {
		close(done)
		be.PostEvent(backend.Event{Type: backend.EventInterrupt})
		be.Shutdown()
	}()

	interval := r.Options().MinFrameInterval()
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var tick int
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev.Type {
			case backend.EventKey:
				if isQuitKey(ev) {
					return nil
				}
			case backend.EventResize:
				c.logger.Debug("terminal resized", "width", ev.Width, "height", ev.Height)
			case backend.EventInterrupt:
				return nil
			}

		case <-ticker.C:
			width, height := r.Size()
			snap := r.Metrics().Snapshot()
			status := fmt.Sprintf(" tessera  frame %d  %.0f cells/frame  %s  q: quit ",
				snap.FrameCount, snap.AvgChangesPerFrame(), time.Duration(snap.AvgFrameTimeNs).Round(time.Microsecond))

			stats := r.RenderFrame(demoLayers(width, height, tick, status))
			tick++
			if maxFrames > 0 && stats.Frame >= uint64(maxFrames) {
				return nil
			}
		}
	}
}

func isQuitKey(ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return true
	case backend.KeyRune:
		return ev.Rune == 'q' || ev.Rune == 'Q'
	}
	return false
}

// demoLayers builds the demo scene for one tick: a shaded background,
// windows bouncing around the screen and a status line on top.
func demoLayers(width, height, tick int, status string) []compositor.Layer {
	if width <= 0 || height <= 0 {
		return nil
	}

	layers := make([]compositor.Layer, 0, len(demoWindows)+2)
	layers = append(layers, demoBackground(width, height))

	winW := min(24, max(width/2, 4))
	winH := min(6, max(height/2, 3))
	for i, dw := range demoWindows {
		x := bounce(tick*dw.dx+dw.offset, width-winW)
		y := bounce(tick*dw.dy+dw.offset/3, height-1-winH)
		z := i + 1
		// The middle window periodically jumps to the top of the stack.
		if i == 1 && (tick/40)%2 == 1 {
			z = len(demoWindows) + 1
		}
		layers = append(layers, demoWindowLayer(dw, core.NewRegion(x, y, winW, winH), z))
	}

	bar := compositor.NewLayer("status", core.NewRegion(0, height-1, width, 1), 100)
	bar.Content = [][]segment.Segment{{segment.New(status, demoStatus)}}
	layers = append(layers, bar)

	return layers
}

func demoBackground(width, height int) compositor.Layer {
	l := compositor.NewLayer("background", core.NewRegion(0, 0, width, height), 0)
	l.Content = make([][]segment.Segment, height)
	for y := range l.Content {
		amount := 0.0
		if height > 1 {
			amount = float64(y) / float64(height-1)
		}
		style := core.DefaultStyle().
			WithForeground(core.ColorGray).
			WithBackground(demoSkyTop.Blend(demoSkyBottom, amount))
		pattern := strings.Repeat("·   ", width/4+1)
		if y%2 == 1 {
			pattern = "  " + pattern
		}
		l.Content[y] = []segment.Segment{segment.New(pattern, style)}
	}
	return l
}

func demoWindowLayer(dw demoWindow, region core.Region, z int) compositor.Layer {
	border := core.DefaultStyle().WithForeground(dw.frame)
	body := core.DefaultStyle()
	inner := region.Width - 2

	l := compositor.NewLayer(dw.title, region, z)
	l.Content = make([][]segment.Segment, region.Height)

	title := " " + dw.title + " "
	top := []segment.Segment{
		segment.New("┌─", border),
		segment.New(title, border.Bold()),
	}
	top = append(top, segment.New(strings.Repeat("─", max(inner-1-segment.New(title, border).Width(), 0))+"┐", border))
	l.Content[0] = top

	for y := 1; y < region.Height-1; y++ {
		text := ""
		if y-1 < len(dw.body) {
			text = " " + dw.body[y-1]
		}
		pad := max(inner-segment.Plain(text).Width(), 0)
		l.Content[y] = []segment.Segment{
			segment.New("│", border),
			segment.New(text+strings.Repeat(" ", pad), body),
			segment.New("│", border),
		}
	}
	l.Content[region.Height-1] = []segment.Segment{
		segment.New("└"+strings.Repeat("─", max(inner, 0))+"┘", border),
	}
	return l
}

// bounce maps a monotonically increasing position onto [0, span] moving
// back and forth.
func bounce(pos, span int) int {
	if span <= 0 {
		return 0
	}
	period := 2 * span
	m := pos % period
	if m > span {
		return period - m
	}
	return m
}
