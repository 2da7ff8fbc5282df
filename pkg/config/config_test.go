package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/lvcad/pkg/config"
	"github.com/chazu/lvcad/pkg/geom"
	"github.com/chazu/lvcad/pkg/units"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lvgeom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	tol, err := cfg.Tol()
	require.NoError(t, err)
	assert.Equal(t, geom.DefaultTolerance, tol)

	opts, err := cfg.FormatOptions()
	require.NoError(t, err)
	assert.Equal(t, units.DefaultFormat, opts)

	d, err := cfg.EngineTimeout()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)
	assert.Equal(t, config.BackendDXF, cfg.Export.Backend)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_EmptyPathSkipsFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
tolerance:
  epsilon: 1e-6
units:
  display: mm
  style: decimal
  precision: 2
export:
  backend: sdfx
batch:
  workers: 3
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1e-6, cfg.Tolerance.Epsilon)
	assert.Equal(t, "mm", cfg.Units.Display)
	assert.Equal(t, 2, cfg.Units.Precision)
	assert.Equal(t, config.BackendSDFX, cfg.Export.Backend)
	assert.Equal(t, 3, cfg.Batch.Workers)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.005, cfg.Export.ChordTolerance)
	assert.Equal(t, "5s", cfg.Engine.Timeout)

	opts, err := cfg.FormatOptions()
	require.NoError(t, err)
	assert.Equal(t, units.Millimeter.Symbol, opts.Unit.Symbol)
	assert.Equal(t, units.Decimal, opts.Style)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := config.Load(writeFile(t, "units: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "units:\n  display: mm\n")
	t.Setenv("LVCAD_UNITS", "ft")
	t.Setenv("LVCAD_EPSILON", "1e-7")
	t.Setenv("LVCAD_BATCH_WORKERS", "8")
	t.Setenv("LVCAD_ENGINE_TIMEOUT", "250ms")
	t.Setenv("LVCAD_EXPORT_BACKEND", "sdfx")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ft", cfg.Units.Display)
	assert.Equal(t, 1e-7, cfg.Tolerance.Epsilon)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, config.BackendSDFX, cfg.Export.Backend)

	d, err := cfg.EngineTimeout()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLoad_UnparseableEnvKeepsValue(t *testing.T) {
	t.Setenv("LVCAD_BATCH_WORKERS", "many")
	t.Setenv("LVCAD_EPSILON", "tiny")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Batch.Workers)
	assert.Equal(t, geom.DefaultTolerance.Epsilon, cfg.Tolerance.Epsilon)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero epsilon", func(c *config.Config) { c.Tolerance.Epsilon = 0 }, "tolerance.epsilon"},
		{"unknown unit", func(c *config.Config) { c.Units.Display = "cubit" }, "units.display"},
		{"unknown style", func(c *config.Config) { c.Units.Style = "roman" }, "units.style"},
		{"bad denominator", func(c *config.Config) { c.Units.Precision = 10 }, "units.precision"},
		{"decimal places too high", func(c *config.Config) { c.Units.Style = "decimal"; c.Units.Precision = 16 }, "units.precision"},
		{"negative snap", func(c *config.Config) { c.Units.Snap = -1 }, "units.snap"},
		{"unknown backend", func(c *config.Config) { c.Export.Backend = "svg" }, "export.backend"},
		{"zero chord tolerance", func(c *config.Config) { c.Export.ChordTolerance = 0 }, "export.chord_tolerance"},
		{"bad timeout", func(c *config.Config) { c.Engine.Timeout = "soon" }, "engine.timeout"},
		{"negative timeout", func(c *config.Config) { c.Engine.Timeout = "-1s" }, "engine.timeout"},
		{"negative workers", func(c *config.Config) { c.Batch.Workers = -2 }, "batch.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Units.Display = "cm"
	cfg.Batch.Workers = 2

	path := filepath.Join(t.TempDir(), "nested", "lvgeom.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
