package config

import (
	"github.com/rs/zerolog"

	"github.com/katalvlaran/robustpn/expansion"
	"github.com/katalvlaran/robustpn/icm"
	"github.com/katalvlaran/robustpn/maxflow"
)

// Settings is the validated snapshot of a Config.
type Settings struct {
	Solver  SolverSettings  `mapstructure:"solver"`
	Flow    FlowSettings    `mapstructure:"flow"`
	Logging LoggingSettings `mapstructure:"logging"`
	Batch   BatchSettings   `mapstructure:"batch"`
	Metrics MetricsSettings `mapstructure:"metrics"`
}

type SolverSettings struct {
	Algorithm     string  `mapstructure:"algorithm"      validate:"oneof=expansion icm viterbi"`
	MaxIterations int     `mapstructure:"max_iterations" validate:"min=0"`
	Tolerance     float64 `mapstructure:"tolerance"      validate:"min=0"`
	RecordTrace   bool    `mapstructure:"record_trace"`
	Seed          int64   `mapstructure:"seed"`
}

type FlowSettings struct {
	Algorithm            string  `mapstructure:"algorithm"              validate:"oneof=dinic edmonds-karp"`
	Epsilon              float64 `mapstructure:"epsilon"                validate:"min=0"`
	LevelRebuildInterval int     `mapstructure:"level_rebuild_interval" validate:"min=0"`
	MaxNodes             int     `mapstructure:"max_nodes"              validate:"min=0"`
}

type LoggingSettings struct {
	Level      string `mapstructure:"level"        validate:"oneof=trace debug info warn error fatal panic disabled"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

type BatchSettings struct {
	Workers int    `mapstructure:"workers" validate:"min=1"`
	OutDir  string `mapstructure:"out_dir"`
}

type MetricsSettings struct {
	File string `mapstructure:"file"`
}

// FlowOptions maps the flow section onto maxflow.Options.
func (s Settings) FlowOptions() maxflow.Options {
	return maxflow.Options{
		Algorithm:            maxflow.Algorithm(s.Flow.Algorithm),
		Epsilon:              s.Flow.Epsilon,
		LevelRebuildInterval: s.Flow.LevelRebuildInterval,
		MaxNodes:             s.Flow.MaxNodes,
	}
}

// ExpansionOptions maps the solver and flow sections onto expansion.Options.
func (s Settings) ExpansionOptions(log *zerolog.Logger) expansion.Options {
	return expansion.Options{
		MaxIterations: s.Solver.MaxIterations,
		Tolerance:     s.Solver.Tolerance,
		RecordTrace:   s.Solver.RecordTrace,
		Flow:          s.FlowOptions(),
		Logger:        log,
	}
}

// ICMOptions maps the solver section onto icm.Options.
func (s Settings) ICMOptions(log *zerolog.Logger) icm.Options {
	return icm.Options{
		MaxIterations: s.Solver.MaxIterations,
		Seed:          s.Solver.Seed,
		Logger:        log,
	}
}
