package expansion

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/maxflow"
)

// Solver runs alpha-expansion on one model. It owns its flow network and
// scratch buffers and is not safe for concurrent use; run one Solver per
// goroutine.
type Solver struct {
	m    *energy.Model
	opts Options
	log  zerolog.Logger

	eval   *energy.Evaluator
	move   *moveBuilder
	backup []int
}

// NewSolver validates opts and prepares a Solver for m. When opts.Network is
// nil a *maxflow.Graph is created from opts.Flow.
func NewSolver(m *energy.Model, opts Options) (*Solver, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if opts.MaxIterations < 0 {
		return nil, fmt.Errorf("%w: MaxIterations %d", ErrBadOptions, opts.MaxIterations)
	}
	if !(opts.Tolerance >= 0) || math.IsInf(opts.Tolerance, 1) {
		return nil, fmt.Errorf("%w: Tolerance %g", ErrBadOptions, opts.Tolerance)
	}

	net := opts.Network
	if net == nil {
		net = maxflow.New(opts.Flow)
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	eval := energy.NewEvaluator(m)

	return &Solver{
		m:      m,
		opts:   opts,
		log:    log.With().Str("component", "expansion").Logger(),
		eval:   eval,
		move:   newMoveBuilder(m, eval, net),
		backup: make([]int, m.NumNodes()),
	}, nil
}

// Model returns the model the Solver was built for.
func (s *Solver) Model() *energy.Model { return s.m }

// Minimize runs alpha-expansion starting from labels, which is updated in
// place and aliased by Result.Labels.
//
// Steps:
//  1. Validate labels and evaluate the starting energy (trace sample 0).
//  2. For each sweep and each α in 0..numLabels-1, perform one move
//     (build, cut, write back, re-evaluate, roll back if the energy rose).
//  3. An accepted move resets the stall counter to numLabels, any other move
//     decrements it; at zero the solve is Converged.
//  4. After MaxIterations sweeps the solve ends with IterationCapReached.
//
// On a *CollaboratorError the returned Result holds the labelling and
// energy from before the failing move.
func (s *Solver) Minimize(labels []int) (Result, error) {
	// 1) Start
	if err := s.m.ValidateLabels(labels); err != nil {
		return Result{}, err
	}
	start := time.Now()
	numLabels := s.m.NumLabels()
	e := s.eval.Energy(labels)
	res := Result{Labels: labels, Energy: e, State: IterationCapReached}
	if s.opts.RecordTrace {
		res.Trace = make([]Sample, 1, traceCapacity(s.opts.MaxIterations, numLabels))
		res.Trace[0] = Sample{Energy: e}
	}
	s.log.Debug().
		Int("nodes", s.m.NumNodes()).
		Int("labels", numLabels).
		Int("cliques", s.m.NumCliques()).
		Float64("energy", e).
		Msg("starting expansion")

	// 2) Sweeps
	stall := numLabels
	for it := 0; it < s.opts.MaxIterations && res.State != Converged; it++ {
		res.Iterations = it + 1
		for alpha := 0; alpha < numLabels; alpha++ {
			stats, err := s.step(it, alpha, labels, e)
			if err != nil {
				res.Energy = e

				return res, err
			}
			res.Moves++
			e = stats.Energy
			if res.Trace != nil {
				res.Trace = append(res.Trace, Sample{Elapsed: time.Since(start), Energy: e})
			}

			// 3) Convergence
			if stats.Outcome == Accepted {
				res.Accepted++
				stall = numLabels
			} else {
				stall--
			}
			if stall == 0 {
				res.State = Converged
				break
			}
		}
	}

	// 4) Done
	res.Energy = e
	s.log.Info().
		Str("state", res.State.String()).
		Int("iterations", res.Iterations).
		Int("moves", res.Moves).
		Float64("energy", e).
		Dur("elapsed", time.Since(start)).
		Msg("expansion finished")
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveSolve(res)
	}

	return res, nil
}

const (
	traceSweeps     = 4
	maxTraceReserve = 1 << 12
)

// traceCapacity is the initial trace allocation: room for a few sweeps,
// never more than maxTraceReserve samples. append grows it beyond that.
func traceCapacity(maxIterations, numLabels int) int {
	return 1 + min(min(maxIterations, traceSweeps)*numLabels, maxTraceReserve)
}

// Expand performs one α-expansion move on labels in place, with the same
// rollback rule as Minimize, and returns its statistics.
func (s *Solver) Expand(alpha int, labels []int) (MoveStats, error) {
	if err := s.m.ValidateLabels(labels); err != nil {
		return MoveStats{}, err
	}
	if alpha < 0 || alpha >= s.m.NumLabels() {
		return MoveStats{}, &energy.ValidationError{Field: "alpha", Index: alpha, Err: energy.ErrLabelOutOfRange}
	}

	return s.step(0, alpha, labels, s.eval.Energy(labels))
}

// step runs one move against the current energy e and classifies it.
func (s *Solver) step(iteration, alpha int, labels []int, e float64) (MoveStats, error) {
	copy(s.backup, labels)
	stats, err := s.move.expand(iteration, alpha, labels)
	if err != nil {
		copy(labels, s.backup)
		s.log.Error().Err(err).Int("iteration", iteration).Int("label", alpha).Msg("move failed")

		return stats, err
	}

	next := s.eval.Energy(labels)
	switch {
	case next > e+s.opts.Tolerance:
		copy(labels, s.backup)
		s.log.Warn().
			Int("iteration", iteration).
			Int("label", alpha).
			Float64("energy", e).
			Float64("rejected", next).
			Msg("move raised the energy, rolled back")
		stats.Outcome = RolledBack
		next = e
	case math.Abs(next-e) <= s.opts.Tolerance:
		stats.Outcome = Unchanged
	default:
		stats.Outcome = Accepted
	}
	stats.Energy = next

	s.log.Debug().
		Int("iteration", iteration).
		Int("label", alpha).
		Int("free", stats.FreeNodes).
		Int("aux", stats.AuxNodes).
		Int("changed", stats.Changed).
		Float64("energy", next).
		Stringer("outcome", stats.Outcome).
		Msg("move")
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveMove(stats)
	}

	return stats, nil
}
