package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a scene file must see before it is
// reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a scene whenever its file changes.
//
// The file's directory is watched rather than the file itself so editors
// that save by renaming a temporary file over the original keep working.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *log.Logger

	fsw    *fsnotify.Watcher
	scenes chan *Scene
	errors chan error
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay. Non-positive values use
// DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger used for reload messages.
func WithLogger(l *log.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher for the scene at path. Call Run to start
// delivering scenes.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   log.Default(),
		scenes:   make(chan *Scene, 1),
		errors:   make(chan error, 1),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fsw = fsw
	return w, nil
}

// Scenes returns the channel of reloaded scenes.
func (w *Watcher) Scenes() <-chan *Scene {
	return w.scenes
}

// Errors returns the channel of load and watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes file events until ctx is cancelled. Both channels are
// closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.errors)
	defer close(w.scenes)
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.sendError(ctx, err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	s, err := Load(w.path)
	if err != nil {
		w.logger.Warn("scene reload failed", "path", w.path, "err", err)
		w.sendError(ctx, err)
		return
	}
	w.logger.Debug("scene reloaded", "path", w.path, "layers", len(s.Layers))

	select {
	case w.scenes <- s:
	case <-ctx.Done():
	}
}

func (w *Watcher) sendError(ctx context.Context, err error) {
	select {
	case w.errors <- err:
	case <-ctx.Done():
	default:
		w.logger.Error("scene watcher error dropped", "err", err)
	}
}
