package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/tessera/internal/logging"
	"github.com/dshills/tessera/internal/renderer"
	"github.com/dshills/tessera/internal/renderer/backend"
	"github.com/dshills/tessera/internal/report"
	"github.com/dshills/tessera/internal/scene"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch SCENE",
		Short: "Recompose a scene on every change and print frame diffs as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.watch(cmd.Context(), args[0])
		},
	}
}

// watch prints the first frame as a full diff, then one diff per reload of
// the scene file until ctx is cancelled.
func (c *CLI) watch(ctx context.Context, path string) error {
	s, err := scene.Load(path)
	if err != nil {
		return err
	}

	w, err := scene.NewWatcher(path,
		scene.WithDebounce(c.cfg.Scene.Debounce.Std()),
		scene.WithLogger(logging.WithComponent(c.logger, "watcher")),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	width, height := c.frameSize(s, 0, 0)
	be := backend.NewNullBackend(width, height)
	r := renderer.New(be, renderer.Options{MaxFPS: c.cfg.Render.MaxFPS}, logging.WithComponent(c.logger, "renderer"))

	if err := c.emitFrame(r, be, s); err != nil {
		return err
	}
	c.logger.Info("watching scene", "path", w.Path())

	for {
		select {
		case <-ctx.Done():
			return <-runErr

		case s, ok := <-w.Scenes():
			if !ok {
				return <-runErr
			}
			if sw, sh := c.frameSize(s, 0, 0); sw != width || sh != height {
				width, height = sw, sh
				be.Resize(width, height)
			}
			if err := c.emitFrame(r, be, s); err != nil {
				return err
			}

		case err, ok := <-w.Errors():
			if !ok {
				return <-runErr
			}
			c.logger.Warn("scene not reloaded", "err", err)
		}
	}
}

func (c *CLI) emitFrame(r *renderer.Renderer, be *backend.NullBackend, s *scene.Scene) error {
	stats := r.RenderFrame(s.Layers)
	data, err := report.DiffJSON(stats.Frame, be.LastFrame())
	if err != nil {
		return err
	}
	c.logger.Debug("frame", "frame", stats.Frame, "changes", stats.Changes, "full", stats.FullRedraw, "took", stats.Duration)
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}
