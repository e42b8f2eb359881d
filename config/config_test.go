package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/robustpn/maxflow"
)

func TestDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, "expansion", c.SolverAlgorithm())
	assert.Equal(t, 50, c.MaxIterations())
	assert.Equal(t, 0.0, c.Tolerance())
	assert.True(t, c.RecordTrace())
	assert.Equal(t, "dinic", c.FlowAlgorithm())
	assert.Equal(t, 1e-12, c.FlowEpsilon())
	assert.Equal(t, "info", c.LogLevel())
	assert.Equal(t, runtime.NumCPU(), c.Workers())
	assert.Empty(t, c.MetricsFile())

	s, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, 50, s.Solver.MaxIterations)
	assert.Equal(t, 100, s.Logging.MaxSizeMB)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("ROBUSTPN_SOLVER_MAX_ITERATIONS", "7")
	t.Setenv("ROBUSTPN_FLOW_ALGORITHM", "edmonds-karp")

	c := NewConfig()
	assert.Equal(t, 7, c.MaxIterations())
	assert.Equal(t, "edmonds-karp", c.FlowAlgorithm())
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "robustpn.yaml", `
solver:
  algorithm: icm
  max_iterations: 3
flow:
  algorithm: edmonds-karp
batch:
  workers: 2
`)
	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))
	assert.Equal(t, "icm", c.SolverAlgorithm())
	assert.Equal(t, 3, c.MaxIterations())
	assert.Equal(t, 2, c.Workers())
	assert.True(t, c.RecordTrace(), "keys absent from the file keep their defaults")

	s, err := c.Settings()
	require.NoError(t, err)
	assert.Equal(t, maxflow.EdmondsKarp, s.FlowOptions().Algorithm)

	require.Error(t, c.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "robustpn.yaml", "solver:\n  algorithm: icm\n")
	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))

	fs := pflag.NewFlagSet("robustpn", pflag.ContinueOnError)
	require.NoError(t, c.BindFlags(fs))
	require.NoError(t, fs.Parse([]string{"--solver=viterbi", "--max-iterations=4", "--trace=false"}))

	assert.Equal(t, "viterbi", c.SolverAlgorithm())
	assert.Equal(t, 4, c.MaxIterations())
	assert.False(t, c.RecordTrace())
	assert.Equal(t, "dinic", c.FlowAlgorithm())
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"unknown solver", "solver.algorithm", "annealing"},
		{"negative iterations", "solver.max_iterations", -1},
		{"negative tolerance", "solver.tolerance", -0.5},
		{"unknown flow", "flow.algorithm", "push-relabel"},
		{"negative epsilon", "flow.epsilon", -1e-12},
		{"bad level", "logging.level", "loud"},
		{"no workers", "batch.workers", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			c.Set(tt.key, tt.value)
			_, err := c.Settings()
			require.Error(t, err)
		})
	}
}

func TestSolverOptions(t *testing.T) {
	c := NewConfig()
	c.Set("solver.max_iterations", 9)
	c.Set("solver.tolerance", 1e-6)
	c.Set("solver.seed", 42)
	c.Set("flow.level_rebuild_interval", 5)
	c.Set("flow.epsilon", 0.0)
	s, err := c.Settings()
	require.NoError(t, err)

	log := zerologNop()
	eo := s.ExpansionOptions(log)
	assert.Equal(t, 9, eo.MaxIterations)
	assert.Equal(t, 1e-6, eo.Tolerance)
	assert.True(t, eo.RecordTrace)
	assert.Equal(t, maxflow.Dinic, eo.Flow.Algorithm)
	assert.Equal(t, 5, eo.Flow.LevelRebuildInterval)
	assert.Equal(t, 0.0, eo.Flow.Epsilon, "exact comparison is allowed")
	assert.Same(t, log, eo.Logger)

	icmOpts := s.ICMOptions(log)
	assert.Equal(t, 9, icmOpts.MaxIterations)
	assert.Equal(t, int64(42), icmOpts.Seed)
}

func TestCreateLoggerConsole(t *testing.T) {
	c := NewConfig()
	c.Set("logging.level", "warn")

	var buf bytes.Buffer
	log, closer := c.CreateLogger(&buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestCreateLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robustpn.log")
	c := NewConfig()
	c.Set("logging.file", path)

	var console bytes.Buffer
	log, closer := c.CreateLogger(&console)
	log.Info().Str("problem", "demo").Msg("solved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"robustpn"`)
	assert.Contains(t, string(data), `"message":"solved"`)
	assert.Empty(t, console.String())
}

func zerologNop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
