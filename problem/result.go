package problem

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/robustpn/expansion"
)

// Result is the YAML form of a solver outcome.
type Result struct {
	Name       string       `yaml:"name,omitempty"`
	Solver     string       `yaml:"solver"`
	State      string       `yaml:"state,omitempty"`
	Energy     float64      `yaml:"energy"`
	Iterations int          `yaml:"iterations,omitempty"`
	Moves      int          `yaml:"moves,omitempty"`
	Labels     []int        `yaml:"labels,flow"`
	Trace      []TracePoint `yaml:"trace,omitempty"`
}

// TracePoint is one energy sample.
type TracePoint struct {
	ElapsedMS float64 `yaml:"elapsed_ms"`
	Energy    float64 `yaml:"energy"`
}

// FromExpansion converts an expansion result.
func FromExpansion(name string, r expansion.Result) Result {
	out := Result{
		Name:       name,
		Solver:     "expansion",
		State:      r.State.String(),
		Energy:     r.Energy,
		Iterations: r.Iterations,
		Moves:      r.Moves,
		Labels:     r.Labels,
	}
	for _, s := range r.Trace {
		out.Trace = append(out.Trace, TracePoint{
			ElapsedMS: float64(s.Elapsed) / float64(time.Millisecond),
			Energy:    s.Energy,
		})
	}

	return out
}

// WriteResult encodes r as YAML with two-space indentation.
func WriteResult(w io.Writer, r Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("problem: encode result: %w", err)
	}

	return enc.Close()
}

// SaveResult writes r to path, replacing any existing file.
func SaveResult(path string, r Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("problem: create %s: %w", path, err)
	}
	if err = WriteResult(f, r); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// ReadResult decodes a result written by WriteResult.
func ReadResult(r io.Reader) (Result, error) {
	var res Result
	if err := yaml.NewDecoder(r).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("problem: decode result: %w", err)
	}

	return res, nil
}
