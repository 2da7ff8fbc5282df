// Package config loads lvgeom settings from a YAML file with environment
// overrides. Every variable uses the LVCAD_ prefix, and every field has a
// default so an empty or missing file is a valid configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/units"
)

// Export backends.
const (
	BackendDXF  = "dxf"
	BackendSDFX = "sdfx"
)

// Config holds all lvgeom configuration.
type Config struct {
	Tolerance ToleranceConfig `yaml:"tolerance"`
	Units     UnitsConfig     `yaml:"units"`
	Export    ExportConfig    `yaml:"export"`
	Engine    EngineConfig    `yaml:"engine"`
	Batch     BatchConfig     `yaml:"batch"`
}

// ToleranceConfig sets the geometric epsilon.
type ToleranceConfig struct {
	Epsilon float64 `yaml:"epsilon"` // LVCAD_EPSILON (default: 1e-9)
}

// UnitsConfig controls how lengths are displayed. Stored coordinates are
// always canonical inches.
type UnitsConfig struct {
	Display   string  `yaml:"display"`   // unit symbol, LVCAD_UNITS (default: in)
	Style     string  `yaml:"style"`     // decimal, fractional, architectural, LVCAD_UNIT_STYLE
	Precision int     `yaml:"precision"` // places or largest denominator, LVCAD_UNIT_PRECISION
	Snap      float64 `yaml:"snap"`      // grid increment in inches, 0 disables, LVCAD_SNAP
}

// ExportConfig selects the drawing backend.
type ExportConfig struct {
	Backend        string  `yaml:"backend"`         // dxf or sdfx, LVCAD_EXPORT_BACKEND
	ChordTolerance float64 `yaml:"chord_tolerance"` // for flattened curves, LVCAD_CHORD_TOLERANCE
}

// EngineConfig configures script evaluation.
type EngineConfig struct {
	Timeout string `yaml:"timeout"` // LVCAD_ENGINE_TIMEOUT (default: 5s)
}

// BatchConfig configures batch intersection.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 uses GOMAXPROCS, LVCAD_BATCH_WORKERS
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tolerance: ToleranceConfig{Epsilon: geom.DefaultTolerance.Epsilon},
		Units: UnitsConfig{
			Display:   units.DefaultFormat.Unit.Symbol,
			Style:     units.DefaultFormat.Style.String(),
			Precision: units.DefaultFormat.Precision,
		},
		Export: ExportConfig{
			Backend:        BackendDXF,
			ChordTolerance: 0.005,
		},
		Engine: EngineConfig{Timeout: "5s"},
	}
}

// Load reads configuration from a YAML file over the defaults, then applies
// environment overrides. A missing file yields the defaults. An empty path
// skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Tolerance.Epsilon = getEnvFloat("LVCAD_EPSILON", c.Tolerance.Epsilon)
	c.Units.Display = getEnv("LVCAD_UNITS", c.Units.Display)
	c.Units.Style = getEnv("LVCAD_UNIT_STYLE", c.Units.Style)
	c.Units.Precision = getEnvInt("LVCAD_UNIT_PRECISION", c.Units.Precision)
	c.Units.Snap = getEnvFloat("LVCAD_SNAP", c.Units.Snap)
	c.Export.Backend = getEnv("LVCAD_EXPORT_BACKEND", c.Export.Backend)
	c.Export.ChordTolerance = getEnvFloat("LVCAD_CHORD_TOLERANCE", c.Export.ChordTolerance)
	c.Engine.Timeout = getEnv("LVCAD_ENGINE_TIMEOUT", c.Engine.Timeout)
	c.Batch.Workers = getEnvInt("LVCAD_BATCH_WORKERS", c.Batch.Workers)
}

// Validate checks every section and reports the first problem.
func (c *Config) Validate() error {
	if _, err := c.Tol(); err != nil {
		return fmt.Errorf("config: tolerance.epsilon: %w", err)
	}
	if _, err := c.FormatOptions(); err != nil {
		return err
	}
	switch c.Export.Backend {
	case BackendDXF, BackendSDFX:
	default:
		return fmt.Errorf("config: invalid export.backend %q (valid: %s, %s)", c.Export.Backend, BackendDXF, BackendSDFX)
	}
	if !(c.Export.ChordTolerance > 0) {
		return fmt.Errorf("config: export.chord_tolerance %v must be positive", c.Export.ChordTolerance)
	}
	if _, err := c.EngineTimeout(); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("config: batch.workers %d must not be negative", c.Batch.Workers)
	}
	return nil
}

// Tol returns the configured tolerance.
func (c *Config) Tol() (geom.Tolerance, error) {
	return geom.NewTolerance(c.Tolerance.Epsilon)
}

// FormatOptions returns the display settings as units.Format options.
func (c *Config) FormatOptions() (units.FormatOptions, error) {
	u, ok := units.Lookup(c.Units.Display)
	if !ok {
		return units.FormatOptions{}, fmt.Errorf("config: unknown units.display %q", c.Units.Display)
	}
	st, err := units.ParseStyle(c.Units.Style)
	if err != nil {
		return units.FormatOptions{}, fmt.Errorf("config: units.style: %w", err)
	}
	if c.Units.Snap < 0 {
		return units.FormatOptions{}, fmt.Errorf("config: units.snap %v must not be negative", c.Units.Snap)
	}
	opts := units.FormatOptions{Unit: u, Style: st, Precision: c.Units.Precision, Snap: c.Units.Snap}
	// Format rejects bad precision; probe it once here so a bad file fails
	// at startup.
	if _, err := units.Format(0, opts); err != nil {
		return units.FormatOptions{}, fmt.Errorf("config: units.precision: %w", err)
	}
	return opts, nil
}

// EngineTimeout parses engine.timeout.
func (c *Config) EngineTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: engine.timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: engine.timeout %s must be positive", d)
	}
	return d, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat is getEnvInt for floats.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
