// Package cli implements the tessera command-line interface.
//
// # Commands
//
//   - render: compose one frame of a scene file and print it
//   - watch: recompose a scene on every change and print frame diffs
//   - demo: interactive floating-window demo in the terminal
//   - version: print build information
//
// Configuration is loaded before every command from --config, TESSERA_*
// environment variables and flags, in that order of increasing priority.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/tessera/internal/config"
	"github.com/dshills/tessera/internal/logging"
	"github.com/dshills/tessera/internal/renderer/backend"
)

// CLI holds the state shared by all commands.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string

	cfg    config.Config
	logger *log.Logger
	closer io.Closer

	version string
	commit  string
	date    string

	// newBackend creates the interactive backend for demo.
	newBackend func() (backend.Backend, error)
	// termSize reports the size of the terminal on stdout, if any.
	termSize func() (width, height int, ok bool)
}

// New creates a CLI writing command output to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		out:     out,
		errOut:  errOut,
		cfg:     config.Default(),
		logger:  logging.Discard(),
		version: "dev",
		commit:  "unknown",
		date:    "unknown",
		newBackend: func() (backend.Backend, error) {
			return backend.NewTerminal()
		},
		termSize: stdoutSize,
	}
}

// SetVersion sets the build information printed by the version command.
func (c *CLI) SetVersion(version, commit, date string) {
	c.version = version
	c.commit = commit
	c.date = date
}

// Config returns the resolved configuration of the running command.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tessera",
		Short:         "tessera composites layered terminal scenes",
		Long:          `tessera flattens z-ordered rectangular layers into terminal frames and redraws only the cells that change between frames.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(c.newRenderCmd())
	root.AddCommand(c.newWatchCmd())
	root.AddCommand(c.newDemoCmd())
	root.AddCommand(c.newVersionCmd())

	return root
}

// setup resolves configuration and opens the logger.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = c.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg

	if cfg.Logging.File != "" {
		logger, closer, err := logging.Open(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return err
		}
		c.logger, c.closer = logger, closer
	} else {
		c.logger = logging.New(c.errOut, logging.ParseLevel(cfg.Logging.Level))
	}

	c.logger.Debug("configuration loaded", "config", c.configPath, "width", cfg.Screen.Width, "height", cfg.Screen.Height, "max_fps", cfg.Render.MaxFPS)
	return nil
}

func (c *CLI) teardown() {
	if c.closer != nil {
		_ = c.closer.Close()
		c.closer = nil
	}
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.out, "tessera %s\ncommit: %s\nbuilt: %s\n", c.version, c.commit, c.date)
		},
	}
}

func stdoutSize() (int, int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
