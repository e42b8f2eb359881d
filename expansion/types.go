package expansion

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/robustpn/maxflow"
)

var (
	// ErrNilModel indicates NewSolver was called without a model.
	ErrNilModel = errors.New("expansion: nil model")
	// ErrBadOptions indicates negative or non-finite solver options.
	ErrBadOptions = errors.New("expansion: invalid options")
)

// FlowNetwork is the min-cut capability a move is built on. Node ids are
// assigned consecutively from 0 after every Reset. A node in the Sink
// segment pays capSource, a node in the Source segment pays capSink; an arc
// u→v is cut when u is in Source and v in Sink.
//
// *maxflow.Graph implements FlowNetwork.
type FlowNetwork interface {
	AddNode() (int, error)
	AddEdge(u, v int, capUV, capVU float64) error
	AddTWeights(u int, capSource, capSink float64) error
	MaxFlow() (float64, error)
	WhatSegment(u int) maxflow.Segment
	Reset()
}

// Observer receives per-move and per-solve statistics. Calls are made
// synchronously from the solving goroutine.
type Observer interface {
	ObserveMove(MoveStats)
	ObserveSolve(Result)
}

// Options configures a Solver.
//   - MaxIterations: full sweeps over all labels before giving up (default 50).
//   - Tolerance: energy changes with |ΔE| ≤ Tolerance count as unchanged.
//   - RecordTrace: keep (elapsed, energy) samples in Result.Trace.
//   - Network: min-cut backend; nil builds a *maxflow.Graph from Flow.
//   - Flow: options for the default backend.
//   - Logger: nil logs nothing.
//   - Observer: optional statistics sink.
type Options struct {
	MaxIterations int
	Tolerance     float64
	RecordTrace   bool
	Network       FlowNetwork
	Flow          maxflow.Options
	Logger        *zerolog.Logger
	Observer      Observer
}

// DefaultOptions returns the settings used by the command-line tool:
// 50 iterations, zero tolerance, trace on, Dinic max-flow.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 50,
		RecordTrace:   true,
		Flow:          maxflow.DefaultOptions(),
	}
}

// State is the terminal state of a solve.
type State int

const (
	// Running is never returned by Minimize; it labels in-flight moves.
	Running State = iota
	// Converged means numLabels consecutive moves left the energy unchanged.
	Converged
	// IterationCapReached means MaxIterations sweeps were performed.
	IterationCapReached
)

func (s State) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationCapReached:
		return "iteration_cap_reached"
	default:
		return "running"
	}
}

// Outcome classifies one move by its effect on the energy.
type Outcome int

const (
	// Accepted moves decreased the energy by more than the tolerance.
	Accepted Outcome = iota
	// Unchanged moves changed the energy by at most the tolerance.
	Unchanged
	// RolledBack moves increased the energy and were undone.
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Unchanged:
		return "unchanged"
	default:
		return "rolled_back"
	}
}

// MoveStats describes one expansion move.
type MoveStats struct {
	Iteration int
	Label     int
	// FreeNodes counts variables not already at Label; AuxNodes counts the
	// clique auxiliary nodes.
	FreeNodes int
	AuxNodes  int
	// MoveEnergy is constant + max-flow: the energy the cut predicts.
	Constant   float64
	Flow       float64
	MoveEnergy float64
	// Changed counts variables switched to Label (before any rollback).
	Changed  int
	Energy   float64
	Outcome  Outcome
	FlowTime time.Duration
}

// Sample is one point of the energy trace.
type Sample struct {
	Elapsed time.Duration
	Energy  float64
}

// Result is the outcome of Minimize. Labels aliases the slice passed in.
type Result struct {
	Labels     []int
	Energy     float64
	State      State
	Iterations int
	Moves      int
	Accepted   int
	Trace      []Sample
}

// CollaboratorError reports a failure of the flow network during the move
// for Label in sweep Iteration. Op names the failing call.
type CollaboratorError struct {
	Iteration int
	Label     int
	Op        string
	Err       error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("expansion: %s failed in iteration %d, label %d: %v", e.Op, e.Iteration, e.Label, e.Err)
}

// Unwrap returns the network's error.
func (e *CollaboratorError) Unwrap() error { return e.Err }
