// Package config provides configuration loading and access for the
// layout optimizer.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/windshape/flow"
	"github.com/pthm-cable/windshape/layout"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all optimizer configuration parameters.
type Config struct {
	Wind        layout.WindCondition `yaml:"wind"`
	Constraints layout.Constraints   `yaml:"constraints"`
	Grid        flow.GridSpec        `yaml:"grid"`
	Annealing   AnnealingConfig      `yaml:"annealing"`
	Layout      LayoutConfig         `yaml:"layout"`
	Turbulence  TurbulenceConfig     `yaml:"turbulence"`
	Telemetry   TelemetryConfig      `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// AnnealingConfig holds the cooling schedule and run-length parameters.
type AnnealingConfig struct {
	InitialTemp   float64 `yaml:"initial_temp"`
	CoolingRate   float64 `yaml:"cooling_rate"`
	MinTemp       float64 `yaml:"min_temp"`
	MaxIterations int     `yaml:"max_iterations"`
	MaxStagnant   int     `yaml:"max_stagnant"`
	Seed          int64   `yaml:"seed"`
}

// LayoutConfig holds initial layout seeding parameters.
type LayoutConfig struct {
	Pillars int     `yaml:"pillars"`
	Jitter  float64 `yaml:"jitter"` // grid-cell jitter fraction for seeding
}

// TurbulenceConfig selects the turbulence noise source.
type TurbulenceConfig struct {
	Mode      string  `yaml:"mode"`       // "white" or "coherent"
	GustScale float64 `yaml:"gust_scale"` // spatial frequency for coherent gusts
}

// TelemetryConfig holds trace and reporting parameters.
type TelemetryConfig struct {
	LogEvery   int `yaml:"log_every"`   // progress log interval in steps
	PerfWindow int `yaml:"perf_window"` // rolling window for step timing
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Bounds flow.Bounds // simulated build volume
}

// Default headroom above the tallest allowed pillar when no explicit
// ceiling is configured.
const volumeHeadroom = 1.5

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate surfaces configuration errors before any annealing work
// starts.
func (c *Config) Validate() error {
	if err := c.Wind.Validate(); err != nil {
		return fmt.Errorf("wind: %w", err)
	}
	if err := c.Constraints.Validate(); err != nil {
		return fmt.Errorf("constraints: %w", err)
	}
	if c.Grid.NX <= 0 || c.Grid.NY <= 0 || c.Grid.NZ <= 0 {
		return fmt.Errorf("grid: resolution must be positive, got %dx%dx%d", c.Grid.NX, c.Grid.NY, c.Grid.NZ)
	}
	if c.Annealing.CoolingRate <= 0 || c.Annealing.CoolingRate > 1 {
		return fmt.Errorf("annealing: cooling_rate must be in (0, 1], got %v", c.Annealing.CoolingRate)
	}
	if c.Annealing.InitialTemp <= 0 {
		return fmt.Errorf("annealing: initial_temp must be positive, got %v", c.Annealing.InitialTemp)
	}
	if c.Annealing.MaxIterations <= 0 {
		return fmt.Errorf("annealing: max_iterations must be positive, got %d", c.Annealing.MaxIterations)
	}
	if c.Layout.Pillars <= 0 {
		return fmt.Errorf("layout: pillars must be positive, got %d", c.Layout.Pillars)
	}
	switch c.Turbulence.Mode {
	case "", string(flow.TurbulenceWhite), string(flow.TurbulenceCoherent):
	default:
		return fmt.Errorf("turbulence: unknown mode %q", c.Turbulence.Mode)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Bounds = flow.Bounds{
		Width:  c.Constraints.AreaWidth,
		Height: c.Constraints.MaxHeight * volumeHeadroom,
		Depth:  c.Constraints.AreaDepth,
	}
}

// SimulatorOptions maps the config to flow simulator options. The gust
// seed follows the annealing seed so a single config value pins the
// whole run.
func (c *Config) SimulatorOptions() flow.Options {
	return flow.Options{
		Turbulence: flow.TurbulenceMode(c.Turbulence.Mode),
		GustScale:  c.Turbulence.GustScale,
		GustSeed:   c.Annealing.Seed,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
