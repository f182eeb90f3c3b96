// Package config loads backdrop settings from YAML, layered over embedded defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/crazy3lf/colorconv"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/ambient-field/internal/field"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of the backdrop.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Field     FieldConfig     `yaml:"field"`
	Seed      int64           `yaml:"seed"` // 0 = time-based
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
	Resizable bool   `yaml:"resizable"`
}

// SurfaceConfig identifies the drawing surface and how resizes are coalesced.
type SurfaceConfig struct {
	ID             string        `yaml:"id"`
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
}

// FieldConfig mirrors field.Params with colours as hex strings.
type FieldConfig struct {
	AreaPerParticle int     `yaml:"area_per_particle"`
	MaxParticles    int     `yaml:"max_particles"`
	MaxVelocity     float64 `yaml:"max_velocity"`
	MaxRadius       float64 `yaml:"max_radius"`
	MinAlpha        float64 `yaml:"min_alpha"`
	MaxAlpha        float64 `yaml:"max_alpha"`
	Color           string  `yaml:"color"`      // #rrggbb
	Background      string  `yaml:"background"` // #rrggbb, empty = transparent
}

// TelemetryConfig controls frame timing collection.
type TelemetryConfig struct {
	Window int    `yaml:"window"` // frames kept for summaries
	CSV    string `yaml:"csv"`    // per-frame CSV path, empty = disabled
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file overwrite defaults
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and colour syntax.
func (c *Config) Validate() error {
	f := c.Field
	switch {
	case f.AreaPerParticle <= 0:
		return fmt.Errorf("%w: field.area_per_particle must be positive, got %d", ErrInvalid, f.AreaPerParticle)
	case f.MaxParticles < 0:
		return fmt.Errorf("%w: field.max_particles must not be negative, got %d", ErrInvalid, f.MaxParticles)
	case f.MaxVelocity < 0:
		return fmt.Errorf("%w: field.max_velocity must not be negative, got %g", ErrInvalid, f.MaxVelocity)
	case f.MaxRadius < 0:
		return fmt.Errorf("%w: field.max_radius must not be negative, got %g", ErrInvalid, f.MaxRadius)
	case f.MinAlpha < 0 || f.MaxAlpha > 1 || f.MinAlpha > f.MaxAlpha:
		return fmt.Errorf("%w: field alpha range [%g, %g) must lie within [0, 1]", ErrInvalid, f.MinAlpha, f.MaxAlpha)
	}
	if _, err := parseHex(f.Color); err != nil {
		return fmt.Errorf("%w: field.color: %v", ErrInvalid, err)
	}
	if f.Background != "" {
		if _, err := parseHex(f.Background); err != nil {
			return fmt.Errorf("%w: field.background: %v", ErrInvalid, err)
		}
	}
	if c.Surface.ID == "" {
		return fmt.Errorf("%w: surface.id must not be empty", ErrInvalid)
	}
	if c.Surface.ResizeDebounce < 0 {
		return fmt.Errorf("%w: surface.resize_debounce must not be negative", ErrInvalid)
	}
	if c.Telemetry.Window <= 0 {
		return fmt.Errorf("%w: telemetry.window must be positive", ErrInvalid)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	return nil
}

// FieldParams converts the field section into engine parameters.
// It assumes Validate has succeeded.
func (c *Config) FieldParams() field.Params {
	hue, _ := parseHex(c.Field.Color)
	return field.Params{
		AreaPerParticle: c.Field.AreaPerParticle,
		MaxParticles:    c.Field.MaxParticles,
		MaxVelocity:     c.Field.MaxVelocity,
		MaxRadius:       c.Field.MaxRadius,
		MinAlpha:        c.Field.MinAlpha,
		MaxAlpha:        c.Field.MaxAlpha,
		Color:           hue,
	}
}

// Background returns the clear colour; transparent when unset.
func (c *Config) Background() color.NRGBA {
	if c.Field.Background == "" {
		return color.NRGBA{}
	}
	bg, _ := parseHex(c.Field.Background)
	return bg
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("want #rrggbb, got %q", s)
	}
	r, g, b, err := colorconv.HexToRGB(s)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
