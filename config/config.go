// Package config resolves robustpn settings from defaults, an optional
// config file, ROBUSTPN_* environment variables and command-line flags, and
// builds the logger and solver options from them.
package config

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvPrefix prefixes environment overrides, e.g. ROBUSTPN_SOLVER_MAX_ITERATIONS.
const EnvPrefix = "ROBUSTPN"

// Config manages solver configuration using Viper.
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults.
func NewConfig() *Config {
	v := viper.New()

	// Solver parameters
	v.SetDefault("solver.algorithm", "expansion")
	v.SetDefault("solver.max_iterations", 50)
	v.SetDefault("solver.tolerance", 0.0)
	v.SetDefault("solver.record_trace", true)
	v.SetDefault("solver.seed", int64(0))

	// Max-flow parameters
	v.SetDefault("flow.algorithm", "dinic")
	v.SetDefault("flow.epsilon", 1e-12)
	v.SetDefault("flow.level_rebuild_interval", 0)
	v.SetDefault("flow.max_nodes", 0)

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
	v.SetDefault("logging.compress", false)

	// Batch parameters
	v.SetDefault("batch.workers", runtime.NumCPU())
	v.SetDefault("batch.out_dir", "")

	v.SetDefault("metrics.file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file. The format follows the
// extension (yaml, toml, json).
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	return nil
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"solver":         "solver.algorithm",
	"max-iterations": "solver.max_iterations",
	"tolerance":      "solver.tolerance",
	"trace":          "solver.record_trace",
	"seed":           "solver.seed",
	"flow":           "flow.algorithm",
	"log-level":      "logging.level",
	"log-file":       "logging.file",
	"workers":        "batch.workers",
	"out-dir":        "batch.out_dir",
	"metrics-file":   "metrics.file",
}

// BindFlags defines the command-line flags on fs and binds them, so a flag
// set on the command line overrides file and environment values.
func (c *Config) BindFlags(fs *pflag.FlagSet) error {
	fs.String("solver", c.SolverAlgorithm(), "solver: expansion, icm or viterbi")
	fs.Int("max-iterations", c.MaxIterations(), "maximum sweeps over all labels")
	fs.Float64("tolerance", c.Tolerance(), "energy changes at most this large count as unchanged")
	fs.Bool("trace", c.RecordTrace(), "record the energy trace")
	fs.Int64("seed", c.Seed(), "seed for random initial labellings")
	fs.String("flow", c.FlowAlgorithm(), "max-flow algorithm: dinic or edmonds-karp")
	fs.String("log-level", c.LogLevel(), "log level: trace, debug, info, warn, error")
	fs.String("log-file", c.LogFile(), "write JSON logs to this rotating file instead of stderr")
	fs.Int("workers", c.Workers(), "problems solved in parallel")
	fs.String("out-dir", c.OutDir(), "directory for result files (default: next to each input)")
	fs.String("metrics-file", c.MetricsFile(), "write Prometheus metrics to this file after the run")

	for name, key := range flagKeys {
		if err := c.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("config: bind --%s: %w", name, err)
		}
	}

	return nil
}

// Getters for solver parameters
func (c *Config) SolverAlgorithm() string { return c.v.GetString("solver.algorithm") }
func (c *Config) MaxIterations() int      { return c.v.GetInt("solver.max_iterations") }
func (c *Config) Tolerance() float64      { return c.v.GetFloat64("solver.tolerance") }
func (c *Config) RecordTrace() bool       { return c.v.GetBool("solver.record_trace") }
func (c *Config) Seed() int64             { return c.v.GetInt64("solver.seed") }

func (c *Config) FlowAlgorithm() string     { return c.v.GetString("flow.algorithm") }
func (c *Config) FlowEpsilon() float64      { return c.v.GetFloat64("flow.epsilon") }
func (c *Config) LevelRebuildInterval() int { return c.v.GetInt("flow.level_rebuild_interval") }
func (c *Config) MaxNodes() int             { return c.v.GetInt("flow.max_nodes") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) LogFile() string  { return c.v.GetString("logging.file") }

func (c *Config) Workers() int        { return c.v.GetInt("batch.workers") }
func (c *Config) OutDir() string      { return c.v.GetString("batch.out_dir") }
func (c *Config) MetricsFile() string { return c.v.GetString("metrics.file") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// Settings unmarshals the resolved configuration and validates it.
func (c *Config) Settings() (Settings, error) {
	var s Settings
	if err := c.v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validator.New().Struct(s); err != nil {
		return Settings{}, fmt.Errorf("config: validation failed: %w", err)
	}

	return s, nil
}

// CreateLogger creates a zerolog logger based on config. With logging.file
// set, JSON lines go to a lumberjack rotating file; otherwise a console
// writer on console is used. The returned Closer releases the file.
func (c *Config) CreateLogger(console io.Writer) (zerolog.Logger, io.Closer) {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: "15:04:05",
	}
	var closer io.Closer = nopCloser{}
	if file := c.LogFile(); file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    c.v.GetInt("logging.max_size_mb"),
			MaxBackups: c.v.GetInt("logging.max_backups"),
			MaxAge:     c.v.GetInt("logging.max_age_days"),
			Compress:   c.v.GetBool("logging.compress"),
		}
		out, closer = lj, lj
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "robustpn").Logger(), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
