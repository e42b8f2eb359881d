package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/robustpn/config"
	"github.com/katalvlaran/robustpn/expansion"
	"github.com/katalvlaran/robustpn/icm"
	"github.com/katalvlaran/robustpn/metrics"
	"github.com/katalvlaran/robustpn/problem"
	"github.com/katalvlaran/robustpn/viterbi"
)

var errNoInput = errors.New("no problem files given")

// run parses args, solves every problem file on a bounded pool and writes
// the results. The first failure cancels problems not yet started.
func run(args []string, stderr io.Writer) error {
	cfg := config.NewConfig()
	fs := pflag.NewFlagSet("robustpn", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (yaml, toml or json)")
	if err := cfg.BindFlags(fs); err != nil {
		return err
	}
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: robustpn [flags] problem.yaml...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *configPath != "" {
		if err := cfg.LoadFromFile(*configPath); err != nil {
			return err
		}
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errNoInput
	}

	log, closer := cfg.CreateLogger(stderr)
	defer closer.Close()

	b := &batch{settings: settings, log: log, metrics: metrics.New()}
	p := pool.New().
		WithContext(context.Background()).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(settings.Batch.Workers)
	for _, path := range fs.Args() {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return b.solveFile(path)
		})
	}
	err = p.Wait()

	if file := settings.Metrics.File; file != "" {
		if werr := b.writeMetrics(file); werr != nil && err == nil {
			err = werr
		}
	}

	return err
}

type batch struct {
	settings config.Settings
	log      zerolog.Logger
	metrics  *metrics.Collector
}

func (b *batch) solveFile(path string) error {
	start := time.Now()
	prob, err := problem.Load(path)
	if err != nil {
		return err
	}
	log := b.log.With().Str("problem", prob.Name).Logger()

	res, err := b.solve(prob, &log)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := resultPath(path, prob.Name, b.settings.Batch.OutDir)
	if err = problem.SaveResult(out, res); err != nil {
		return err
	}
	log.Info().
		Str("solver", res.Solver).
		Str("state", res.State).
		Float64("energy", res.Energy).
		Dur("elapsed", time.Since(start)).
		Str("result", out).
		Msg("problem solved")

	return nil
}

func (b *batch) solve(prob *problem.Problem, log *zerolog.Logger) (problem.Result, error) {
	s := b.settings
	start := time.Now()

	switch s.Solver.Algorithm {
	case "icm":
		r, err := icm.Minimize(prob.Model, prob.Initial, s.ICMOptions(log))
		if err != nil {
			return problem.Result{}, err
		}
		state := expansion.IterationCapReached.String()
		if r.Converged {
			state = expansion.Converged.String()
		}
		b.metrics.RecordSolve("icm", state, prob.Name, r.Energy, time.Since(start).Seconds())
		return problem.Result{
			Name:       prob.Name,
			Solver:     "icm",
			State:      state,
			Energy:     r.Energy,
			Iterations: r.Sweeps,
			Labels:     r.Labels,
		}, nil

	case "viterbi":
		r, err := viterbi.DecodeModel(prob.Model)
		if err != nil {
			return problem.Result{}, err
		}
		b.metrics.RecordSolve("viterbi", "exact", prob.Name, r.Energy, time.Since(start).Seconds())
		return problem.Result{
			Name:   prob.Name,
			Solver: "viterbi",
			State:  "exact",
			Energy: r.Energy,
			Labels: r.Labels,
		}, nil

	default:
		opts := s.ExpansionOptions(log)
		opts.Observer = b.metrics.ForProblem(prob.Name)
		solver, err := expansion.NewSolver(prob.Model, opts)
		if err != nil {
			return problem.Result{}, err
		}
		labels := prob.Initial
		if labels == nil {
			labels = make([]int, prob.Model.NumNodes())
		}
		r, err := solver.Minimize(labels)
		if err != nil {
			return problem.Result{}, err
		}
		b.metrics.ObserveDuration("expansion", time.Since(start))
		return problem.FromExpansion(prob.Name, r), nil
	}
}

func (b *batch) writeMetrics(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics file: %w", err)
	}
	if err = b.metrics.WriteText(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// resultPath places <name>.result.yaml in outDir, or next to the input when
// outDir is empty.
func resultPath(input, name, outDir string) string {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}

	return filepath.Join(dir, name+".result.yaml")
}
