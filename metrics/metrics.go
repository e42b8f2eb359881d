// Package metrics exports solver statistics in the Prometheus data model.
// A Collector implements expansion.Observer and may be shared by solvers
// running in parallel.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"

	"github.com/katalvlaran/robustpn/expansion"
)

// Collector owns a private registry and the solver metrics registered in it.
type Collector struct {
	registry *prometheus.Registry

	solves      *prometheus.CounterVec   // robustpn_solves_total{solver, state}
	moves       *prometheus.CounterVec   // robustpn_moves_total{outcome}
	flowSeconds prometheus.Histogram     // robustpn_maxflow_seconds
	auxNodes    prometheus.Counter       // robustpn_aux_nodes_total
	energy      *prometheus.GaugeVec     // robustpn_energy{problem}
	solveTime   *prometheus.HistogramVec // robustpn_solve_seconds{solver}
}

// New returns a Collector with Go runtime metrics and the solver metrics
// registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	c := &Collector{registry: reg}
	c.solves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robustpn_solves_total",
		Help: "Finished solves by solver and terminal state",
	}, []string{"solver", "state"})
	c.moves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robustpn_moves_total",
		Help: "Expansion moves by outcome",
	}, []string{"outcome"})
	c.flowSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "robustpn_maxflow_seconds",
		Help:    "Max-flow latency per expansion move",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	})
	c.auxNodes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "robustpn_aux_nodes_total",
		Help: "Clique auxiliary nodes added to flow networks",
	})
	c.energy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "robustpn_energy",
		Help: "Final energy of the last solve per problem",
	}, []string{"problem"})
	c.solveTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "robustpn_solve_seconds",
		Help:    "Wall time per solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"solver"})
	reg.MustRegister(c.solves, c.moves, c.flowSeconds, c.auxNodes, c.energy, c.solveTime)

	return c
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveMove implements expansion.Observer.
func (c *Collector) ObserveMove(s expansion.MoveStats) {
	c.moves.WithLabelValues(s.Outcome.String()).Inc()
	c.flowSeconds.Observe(s.FlowTime.Seconds())
	c.auxNodes.Add(float64(s.AuxNodes))
}

// ObserveSolve implements expansion.Observer without a problem label.
func (c *Collector) ObserveSolve(r expansion.Result) {
	c.solves.WithLabelValues("expansion", r.State.String()).Inc()
}

// ForProblem returns an Observer that also records the final energy under
// the given problem name.
func (c *Collector) ForProblem(name string) expansion.Observer {
	return problemObserver{c: c, name: name}
}

// RecordSolve counts a solve of any solver and records its energy and wall
// time in seconds.
func (c *Collector) RecordSolve(solver, state, problem string, energy, seconds float64) {
	c.solves.WithLabelValues(solver, state).Inc()
	c.energy.WithLabelValues(problem).Set(energy)
	c.solveTime.WithLabelValues(solver).Observe(seconds)
}

// ObserveDuration records the wall time of one solve. Expansion solves are
// counted through the Observer; their time is recorded here.
func (c *Collector) ObserveDuration(solver string, d time.Duration) {
	c.solveTime.WithLabelValues(solver).Observe(d.Seconds())
}

// WriteText writes every registered metric family in the Prometheus text
// exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

type problemObserver struct {
	c    *Collector
	name string
}

func (p problemObserver) ObserveMove(s expansion.MoveStats) { p.c.ObserveMove(s) }

func (p problemObserver) ObserveSolve(r expansion.Result) {
	p.c.ObserveSolve(r)
	p.c.energy.WithLabelValues(p.name).Set(r.Energy)
}
