//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		cfg, err := Load(NewViper())

		require.NoError(t, err)
		assert.Equal(t, "warden", cfg.ItemSet)
		assert.False(t, cfg.Output.Enabled)
		assert.Equal(t, "output", cfg.Output.Path)
		assert.Equal(t, "perfectly-stackable:15", cfg.Search.Metric)
		assert.Equal(t, 1, cfg.Search.Workers)
		assert.Equal(t, 64, cfg.Search.CacheSize)
		assert.Equal(t, 50000, cfg.Solver.NodeLimit)
		assert.Equal(t, 1e-6, cfg.Solver.Tolerance)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Empty(t, cfg.Metrics.File)
		assert.Empty(t, cfg.Telemetry.TraceFile)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		t.Setenv("TRUCKLOAD_ITEM_SET", "material-grouped-warden")
		t.Setenv("TRUCKLOAD_OUTPUT_ENABLED", "true")
		t.Setenv("TRUCKLOAD_OUTPUT_PATH", "/tmp/out")
		t.Setenv("TRUCKLOAD_SEARCH_WORKERS", "4")
		t.Setenv("TRUCKLOAD_LOG_LEVEL", "DEBUG")
		t.Setenv("TRUCKLOAD_TELEMETRY_TRACE_FILE", "trace.json")

		cfg, err := Load(NewViper())

		require.NoError(t, err)
		assert.Equal(t, "material-grouped-warden", cfg.ItemSet)
		assert.True(t, cfg.Output.Enabled)
		assert.Equal(t, "/tmp/out", cfg.Output.Path)
		assert.Equal(t, 4, cfg.Search.Workers)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "trace.json", cfg.Telemetry.TraceFile)
	})

	t.Run("loads values from config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "truckload.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
item_set: warden
output:
  enabled: true
  long: true
search:
  metric: n-valid:12
  cache_size: 0
solver:
  node_limit: 10
`), 0o600))
		v := NewViper()
		v.Set(KeyConfigFile, path)

		cfg, err := Load(v)

		require.NoError(t, err)
		assert.True(t, cfg.Output.Enabled)
		assert.True(t, cfg.Output.Long)
		assert.Equal(t, "n-valid:12", cfg.Search.Metric)
		assert.Equal(t, 0, cfg.Search.CacheSize)
		assert.Equal(t, 10, cfg.Solver.NodeLimit)
	})

	t.Run("missing config file", func(t *testing.T) {
		v := NewViper()
		v.Set(KeyConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := Load(v)

		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load(NewViper())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no item set", mutate: func(c *Config) { c.ItemSet = "" }},
		{name: "output without path", mutate: func(c *Config) { c.Output.Enabled = true; c.Output.Path = "" }},
		{name: "zero workers", mutate: func(c *Config) { c.Search.Workers = 0 }},
		{name: "negative cache", mutate: func(c *Config) { c.Search.CacheSize = -1 }},
		{name: "zero node limit", mutate: func(c *Config) { c.Solver.NodeLimit = 0 }},
		{name: "tolerance too large", mutate: func(c *Config) { c.Solver.Tolerance = 0.5 }},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
