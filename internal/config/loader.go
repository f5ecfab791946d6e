package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "TESSERA_"

// Load resolves the configuration: defaults, then the TOML file at path
// (a missing file is not an error), then TESSERA_* environment variables.
// The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path over cfg. Keys absent from the file
// keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data, cfg)
}

func parse(source string, data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		pe := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

// envSetters maps each environment variable to the setting it overrides.
var envSetters = map[string]func(cfg *Config, val string) error{
	"LOG_LEVEL": func(cfg *Config, val string) error {
		cfg.Logging.Level = strings.ToLower(val)
		return nil
	},
	"LOG_FILE": func(cfg *Config, val string) error {
		cfg.Logging.File = val
		return nil
	},
	"WIDTH": func(cfg *Config, val string) error {
		return setInt(&cfg.Screen.Width, val)
	},
	"HEIGHT": func(cfg *Config, val string) error {
		return setInt(&cfg.Screen.Height, val)
	},
	"MAX_FPS": func(cfg *Config, val string) error {
		return setInt(&cfg.Render.MaxFPS, val)
	},
	"TRUE_COLOR": func(cfg *Config, val string) error {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		cfg.Render.TrueColor = b
		return nil
	},
}

func setInt(dst *int, val string) error {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// ApplyEnv applies TESSERA_* overrides found through lookup, which is
// normally os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for name, set := range envSetters {
		val, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(cfg, val); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, EnvPrefix, name, val, err))
		}
	}
	return errors.Join(errs...)
}
