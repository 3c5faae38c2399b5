// Package config loads the ripple clock settings from YAML, layered over
// embedded defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"ripplewatch/ripple"
	"ripplewatch/wave"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Frontend names accepted in display.frontend.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
)

// Config holds all settings.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Ripple  RippleConfig  `yaml:"ripple"`
	Display DisplayConfig `yaml:"display"`
	Trace   TraceConfig   `yaml:"trace"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig sizes the simulated field.
type GridConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	SeedScale float64 `yaml:"seed_scale"` // displacement for a fully lit label pixel
	Workers   int     `yaml:"workers"`    // row bands stepped concurrently
}

// RippleConfig holds the scheduler timing.
type RippleConfig struct {
	CycleMs       int     `yaml:"cycle_ms"`
	FPS           int     `yaml:"fps"`
	FadeMs        int     `yaml:"fade_ms"`
	Damping       float64 `yaml:"damping"`
	StepDT        float64 `yaml:"step_dt"`
	CatchUpDT     float64 `yaml:"catch_up_dt"`
	CatchUpLeadMs int     `yaml:"catch_up_lead_ms"`
}

// DisplayConfig holds frontend settings.
type DisplayConfig struct {
	Frontend           string `yaml:"frontend"`
	TickMs             int    `yaml:"tick_ms"` // redraw interval in interactive mode
	WindowWidth        int    `yaml:"window_width"`
	WindowHeight       int    `yaml:"window_height"`
	LabelFormat        string `yaml:"label_format"`         // Go time layout
	AmbientLabelFormat string `yaml:"ambient_label_format"` // Go time layout
	AmbientAfterS      int    `yaml:"ambient_after_s"`      // idle seconds before ambient, 0 = never
}

// TraceConfig enables the per-render CSV trace.
type TraceConfig struct {
	Path string `yaml:"path"`
}

// DerivedConfig holds values computed from the loaded settings.
type DerivedConfig struct {
	Ripple       ripple.Config
	Tick         time.Duration
	AmbientAfter time.Duration
	TPS          int
}

// Load reads configuration from a YAML file, merging with embedded defaults.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.ComputeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ComputeDerived recalculates Derived; call it after changing fields by hand.
func (c *Config) ComputeDerived() {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	c.Derived.Ripple = ripple.Config{
		CycleDuration: ms(c.Ripple.CycleMs),
		FPS:           c.Ripple.FPS,
		FadeWindow:    ms(c.Ripple.FadeMs),
		Damping:       float32(c.Ripple.Damping),
		StepDT:        float32(c.Ripple.StepDT),
		CatchUpDT:     float32(c.Ripple.CatchUpDT),
		CatchUpLead:   ms(c.Ripple.CatchUpLeadMs),
	}
	c.Derived.Tick = ms(c.Display.TickMs)
	c.Derived.AmbientAfter = time.Duration(c.Display.AmbientAfterS) * time.Second
	c.Derived.TPS = 0
	if c.Display.TickMs > 0 {
		c.Derived.TPS = max(1, 1000/c.Display.TickMs)
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Grid.Width < 2 || c.Grid.Height < 2 {
		errs = append(errs, fmt.Errorf("grid %dx%d must be at least 2x2", c.Grid.Width, c.Grid.Height))
	}
	if c.Grid.SeedScale <= 0 {
		errs = append(errs, fmt.Errorf("grid.seed_scale %v must be positive", c.Grid.SeedScale))
	}
	if c.Display.TickMs <= 0 {
		errs = append(errs, fmt.Errorf("display.tick_ms %d must be positive", c.Display.TickMs))
	}
	switch c.Display.Frontend {
	case FrontendWindow, FrontendTerminal:
	default:
		errs = append(errs, fmt.Errorf("display.frontend %q is not %q or %q",
			c.Display.Frontend, FrontendWindow, FrontendTerminal))
	}
	if c.Display.LabelFormat == "" || c.Display.AmbientLabelFormat == "" {
		errs = append(errs, errors.New("label formats must not be empty"))
	}
	if err := c.Derived.Ripple.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewGrid builds the wave grid described by the config.
func (c *Config) NewGrid() *wave.Grid {
	g := wave.NewGrid(c.Grid.Width, c.Grid.Height)
	g.SeedScale = float32(c.Grid.SeedScale)
	g.Workers = c.Grid.Workers
	return g
}
