package cli

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dshills/tessera/internal/renderer/compositor"
	"github.com/dshills/tessera/internal/report"
	"github.com/dshills/tessera/internal/scene"
)

const (
	formatPlain = "plain" // text only
	formatANSI  = "ansi"  // text with SGR styling
	formatJSON  = "json"  // every cell as a full-redraw diff
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	width  int
	height int
	format string
}

func (c *CLI) newRenderCmd() *cobra.Command {
	opts := renderOpts{format: formatPlain}

	cmd := &cobra.Command{
		Use:   "render SCENE",
		Short: "Compose one frame of a scene and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.render(args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "frame width (default: scene, terminal, then config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "frame height (default: scene, terminal, then config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatPlain, "output format: plain, ansi, json")

	return cmd
}

func (c *CLI) render(path string, opts renderOpts) error {
	format := strings.ToLower(opts.format)
	switch format {
	case formatPlain, formatANSI, formatJSON:
	default:
		return fmt.Errorf("unknown format %q (must be plain, ansi or json)", opts.format)
	}

	s, err := scene.Load(path)
	if err != nil {
		return err
	}
	width, height := c.frameSize(s, opts.width, opts.height)
	c.logger.Info("rendering scene", "path", path, "layers", len(s.Layers), "size", fmt.Sprintf("%dx%d", width, height))

	buf := compositor.Compose(s.Layers, width, height)

	switch format {
	case formatANSI:
		_, err = fmt.Fprintln(c.out, report.ANSI(buf, c.colorProfile()))
	case formatJSON:
		var data []byte
		if data, err = report.DiffJSON(1, buf.Diff(nil)); err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.out, string(data))
	default:
		_, err = fmt.Fprintln(c.out, report.Plain(buf))
	}
	return err
}

// frameSize picks each dimension from the first source that sets it:
// flags, the scene, the terminal on stdout, then configuration.
func (c *CLI) frameSize(s *scene.Scene, flagW, flagH int) (int, int) {
	defW, defH := c.cfg.Screen.Width, c.cfg.Screen.Height
	if tw, th, ok := c.termSize(); ok {
		defW, defH = tw, th
	}
	w, h := s.Size(defW, defH)
	if flagW > 0 {
		w = flagW
	}
	if flagH > 0 {
		h = flagH
	}
	return w, h
}

func (c *CLI) colorProfile() termenv.Profile {
	if c.cfg.Render.TrueColor {
		return termenv.TrueColor
	}
	return termenv.ANSI256
}
