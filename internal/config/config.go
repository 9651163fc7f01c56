// Package config assembles the rxlab command configuration from defaults, an
// optional YAML file and RXLAB_* environment variables. Command-line flags
// are applied last by the command itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"go.dw1.io/rxlab/match"
)

// Color selects when terminal colours are used.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	ErrInvalidColor  = errors.New("config: color must be auto, always or never")
	ErrInvalidFormat = errors.New("config: format must be text or json")
	ErrInvalidLimit  = errors.New("config: limit must not be negative")
	ErrUnknownKey    = errors.New("config: unknown key")
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "RXLAB_"

// Config is the effective command configuration.
type Config struct {
	Flags   string
	Limit   int
	Timeout time.Duration
	Color   Color
	Format  Format
}

// Default returns the built-in configuration. The default flags mirror the
// interactive tester: global and multiline.
func Default() Config {
	return Config{
		Flags:  "gm",
		Limit:  match.DefaultLimit,
		Color:  ColorAuto,
		Format: FormatText,
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped when
// path is empty) and then with the environment as reported by getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}

		if err := cfg.applyYAML(data); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if getenv != nil {
		if err := cfg.applyEnv(getenv); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidColor, c.Color)
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Format)
	}

	if c.Limit < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, c.Limit)
	}

	return nil
}

// MatchOptions translates the configuration into extraction options.
func (c Config) MatchOptions() []match.Option {
	return []match.Option{
		match.WithLimit(c.Limit),
		match.WithTimeout(c.Timeout),
	}
}

func (c *Config) applyYAML(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := c.set(k, raw[k]); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	for _, k := range []string{"flags", "limit", "timeout", "color", "format"} {
		name := EnvPrefix + strings.ToUpper(k)
		v := getenv(name)
		if v == "" {
			continue
		}

		if err := c.set(k, v); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}

	return nil
}

func (c *Config) set(key string, v any) error {
	var err error

	switch key {
	case "flags":
		c.Flags, err = toString(v)
	case "limit":
		c.Limit, err = toInt(v)
	case "timeout":
		c.Timeout, err = toDuration(v)
	case "color":
		var s string
		s, err = toString(v)
		c.Color = Color(strings.ToLower(s))
	case "format":
		var s string
		s, err = toString(v)
		c.Format = Format(strings.ToLower(s))
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	return nil
}
