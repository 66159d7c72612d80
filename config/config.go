// Package config provides configuration management for the truckload CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRUCKLOAD_OUTPUT_PATH.
const EnvPrefix = "TRUCKLOAD"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the complete application configuration.
type Config struct {
	ItemSet     string
	OptionsPath string
	Output      OutputConfig
	Search      SearchConfig
	Solver      SolverConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Telemetry   TelemetryConfig
}

// OutputConfig controls result files.
type OutputConfig struct {
	Enabled bool
	Path    string
	Long    bool
	// JSONLines is an optional file receiving one JSON record per result.
	JSONLines string
}

// SearchConfig controls queue generation and batch search.
type SearchConfig struct {
	Metric    string
	Workers   int
	CacheSize int
}

// SolverConfig controls the integer-program solver.
type SolverConfig struct {
	NodeLimit int
	Tolerance float64
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// MetricsConfig holds the Prometheus textfile destination.
type MetricsConfig struct {
	File string
}

// TelemetryConfig holds tracing settings.
type TelemetryConfig struct {
	TraceFile string
}

// Keys shared by flags, env vars and config files.
const (
	KeyConfigFile  = "config"
	KeyItemSet     = "item_set"
	KeyOptions     = "options"
	KeyOutput      = "output.enabled"
	KeyOutputPath  = "output.path"
	KeyOutputLong  = "output.long"
	KeyOutputJSONL = "output.jsonl"
	KeyMetric      = "search.metric"
	KeyWorkers     = "search.workers"
	KeyCacheSize   = "search.cache_size"
	KeyNodeLimit   = "solver.node_limit"
	KeyTolerance   = "solver.tolerance"
	KeyLogLevel    = "log.level"
	KeyLogPretty   = "log.pretty"
	KeyMetricsFile = "metrics.file"
	KeyTraceFile   = "telemetry.trace_file"
)

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyItemSet, "warden")
	v.SetDefault(KeyOutput, false)
	v.SetDefault(KeyOutputPath, "output")
	v.SetDefault(KeyOutputLong, false)
	v.SetDefault(KeyMetric, "perfectly-stackable:15")
	v.SetDefault(KeyWorkers, 1)
	v.SetDefault(KeyCacheSize, 64)
	v.SetDefault(KeyNodeLimit, 50000)
	v.SetDefault(KeyTolerance, 1e-6)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogPretty, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file named by KeyConfigFile and builds a validated Config.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		ItemSet:     v.GetString(KeyItemSet),
		OptionsPath: v.GetString(KeyOptions),
		Output: OutputConfig{
			Enabled:   v.GetBool(KeyOutput),
			Path:      v.GetString(KeyOutputPath),
			Long:      v.GetBool(KeyOutputLong),
			JSONLines: v.GetString(KeyOutputJSONL),
		},
		Search: SearchConfig{
			Metric:    v.GetString(KeyMetric),
			Workers:   v.GetInt(KeyWorkers),
			CacheSize: v.GetInt(KeyCacheSize),
		},
		Solver: SolverConfig{
			NodeLimit: v.GetInt(KeyNodeLimit),
			Tolerance: v.GetFloat64(KeyTolerance),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Pretty: v.GetBool(KeyLogPretty),
		},
		Metrics:   MetricsConfig{File: v.GetString(KeyMetricsFile)},
		Telemetry: TelemetryConfig{TraceFile: v.GetString(KeyTraceFile)},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	switch {
	case c.ItemSet == "":
		return fmt.Errorf("%w: item set is required", ErrInvalidConfig)
	case c.Output.Enabled && c.Output.Path == "":
		return fmt.Errorf("%w: output path is required when output is enabled", ErrInvalidConfig)
	case c.Search.Workers < 1:
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Search.Workers)
	case c.Search.CacheSize < 0:
		return fmt.Errorf("%w: cache size must be >= 0, got %d", ErrInvalidConfig, c.Search.CacheSize)
	case c.Solver.NodeLimit < 1:
		return fmt.Errorf("%w: node limit must be >= 1, got %d", ErrInvalidConfig, c.Solver.NodeLimit)
	case c.Solver.Tolerance <= 0 || c.Solver.Tolerance >= 0.5:
		return fmt.Errorf("%w: tolerance must be in (0, 0.5), got %v", ErrInvalidConfig, c.Solver.Tolerance)
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}
