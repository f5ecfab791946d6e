package config

import (
	"errors"
	"time"
)

// Config holds all tessera settings.
type Config struct {
	Screen  ScreenConfig  `toml:"screen"`
	Render  RenderConfig  `toml:"render"`
	Logging LoggingConfig `toml:"logging"`
	Scene   SceneConfig   `toml:"scene"`
}

// ScreenConfig is the fallback frame size used when neither flags, the
// scene nor the terminal provide one.
type ScreenConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// RenderConfig configures the frame loop.
type RenderConfig struct {
	MaxFPS    int  `toml:"max_fps"`
	TrueColor bool `toml:"true_color"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// SceneConfig configures scene file handling.
type SceneConfig struct {
	// Watch enables reloading scenes when their file changes.
	Watch bool `toml:"watch"`
	// Debounce coalesces bursts of file events.
	Debounce Duration `toml:"debounce"`
}

// Duration is a time.Duration that reads from TOML as a string like "150ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Screen: ScreenConfig{
			Width:  80,
			Height: 24,
		},
		Render: RenderConfig{
			MaxFPS:    60,
			TrueColor: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Scene: SceneConfig{
			Watch:    false,
			Debounce: Duration(100 * time.Millisecond),
		},
	}
}

var validLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks every setting and returns all problems joined. Each
// problem matches ErrInvalidConfig with errors.Is.
func (c Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 {
		errs = append(errs, &ValidationError{Path: "screen.width", Message: "must be positive", Value: c.Screen.Width})
	}
	if c.Screen.Height <= 0 {
		errs = append(errs, &ValidationError{Path: "screen.height", Message: "must be positive", Value: c.Screen.Height})
	}
	if c.Render.MaxFPS < 0 {
		errs = append(errs, &ValidationError{Path: "render.max_fps", Message: "must not be negative", Value: c.Render.MaxFPS})
	}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level})
	}
	if c.Scene.Debounce < 0 {
		errs = append(errs, &ValidationError{Path: "scene.debounce", Message: "must not be negative", Value: c.Scene.Debounce.Std()})
	}
	return errors.Join(errs...)
}
