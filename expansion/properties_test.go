package expansion_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/expansion"
)

// TestEnergyNeverIncreases runs random models, including cliques outside the
// exact regime, and checks the trace is non-increasing.
func TestEnergyNeverIncreases(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 100; trial++ {
		m := randomModel(t, rng, true, trial%2 == 0)
		labels := randomLabels(rng, m)

		solver, err := expansion.NewSolver(m, expansion.DefaultOptions())
		require.NoError(t, err)
		res, err := solver.Minimize(labels)
		require.NoError(t, err)

		require.Len(t, res.Trace, 1+res.Moves)
		for i := 1; i < len(res.Trace); i++ {
			require.LessOrEqual(t, res.Trace[i].Energy, res.Trace[i-1].Energy, "trial %d sample %d", trial, i)
		}
		got, err := energy.Evaluate(m, res.Labels)
		require.NoError(t, err)
		require.InDelta(t, got, res.Energy, 1e-9, "trial %d", trial)
	}
}

// TestConvergedIsFixedPoint re-solves a converged labelling and expects no
// change at all.
func TestConvergedIsFixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for trial := 0; trial < 60; trial++ {
		m := randomModel(t, rng, true, true)
		solver, err := expansion.NewSolver(m, expansion.DefaultOptions())
		require.NoError(t, err)

		first, err := solver.Minimize(randomLabels(rng, m))
		require.NoError(t, err)
		require.Equal(t, expansion.Converged, first.State, "trial %d", trial)
		fixed := append([]int(nil), first.Labels...)

		again, err := solver.Minimize(first.Labels)
		require.NoError(t, err)
		require.Equal(t, fixed, again.Labels, "trial %d", trial)
		require.Equal(t, first.Energy, again.Energy, "trial %d", trial)
		require.Zero(t, again.Accepted, "trial %d", trial)
		require.Equal(t, m.NumLabels(), again.Moves, "trial %d", trial)
	}
}

// TestMovesAreOptimal compares every single move with exhaustive search
// over all expansions when 2Q ≤ |c|.
func TestMovesAreOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for trial := 0; trial < 150; trial++ {
		m := randomModel(t, rng, true, true)
		solver, err := expansion.NewSolver(m, expansion.DefaultOptions())
		require.NoError(t, err)

		labels := randomLabels(rng, m)
		for alpha := 0; alpha < m.NumLabels(); alpha++ {
			_, wantE := bestMove(t, m, alpha, labels)
			stats, err := solver.Expand(alpha, labels)
			require.NoError(t, err)
			require.InDelta(t, wantE, stats.MoveEnergy, 1e-9, "trial %d alpha %d", trial, alpha)
			require.InDelta(t, wantE, stats.Energy, 1e-9, "trial %d alpha %d", trial, alpha)
			require.NotEqual(t, expansion.RolledBack, stats.Outcome)
		}
	}
}

// TestPairwiseMatchesReference runs models without cliques against an
// expansion loop whose moves come from exhaustive search, and expects the
// same trace, no auxiliary nodes and the same final labelling.
func TestPairwiseMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	for trial := 0; trial < 60; trial++ {
		m := randomModel(t, rng, false, true)
		init := randomLabels(rng, m)

		rec := &recorder{}
		opts := expansion.DefaultOptions()
		opts.Observer = rec
		solver, err := expansion.NewSolver(m, opts)
		require.NoError(t, err)
		res, err := solver.Minimize(append([]int(nil), init...))
		require.NoError(t, err)

		wantLabels, wantTrace := referenceExpansion(t, m, init, opts.MaxIterations)
		require.Equal(t, wantLabels, res.Labels, "trial %d", trial)
		require.InDeltaSlice(t, wantTrace, traceEnergies(res), 1e-9, "trial %d", trial)
		for _, mv := range rec.moves {
			require.Zero(t, mv.AuxNodes)
		}
	}
}

// TestDeterministic solves the same input twice.
func TestDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	m := randomModel(t, rng, true, false)
	init := randomLabels(rng, m)

	run := func() expansion.Result {
		solver, err := expansion.NewSolver(m, expansion.DefaultOptions())
		require.NoError(t, err)
		res, err := solver.Minimize(append([]int(nil), init...))
		require.NoError(t, err)

		return res
	}
	a, b := run(), run()
	require.Equal(t, a.Labels, b.Labels)
	require.Equal(t, a.Energy, b.Energy)
	require.Equal(t, traceEnergies(a), traceEnergies(b))
	require.Equal(t, a.Moves, b.Moves)
}

// referenceExpansion is the outer loop with exhaustive moves.
func referenceExpansion(t *testing.T, m *energy.Model, init []int, maxIter int) ([]int, []float64) {
	labels := append([]int(nil), init...)
	e, err := energy.Evaluate(m, labels)
	require.NoError(t, err)
	trace := []float64{e}

	stall := m.NumLabels()
	for it := 0; it < maxIter && stall > 0; it++ {
		for alpha := 0; alpha < m.NumLabels() && stall > 0; alpha++ {
			next, nextE := bestMove(t, m, alpha, labels)
			if nextE < e {
				stall = m.NumLabels()
			} else {
				stall--
			}
			labels, e = next, nextE
			trace = append(trace, e)
		}
	}

	return labels, trace
}

// scaled copies m with every cost multiplied by k. Powers of two keep the
// arithmetic bit-identical up to the factor.
func scaled(t testing.TB, m *energy.Model, k float64) *energy.Model {
	unary := make([][]float64, m.NumNodes())
	for v := range unary {
		unary[v] = make([]float64, m.NumLabels())
		for l := range unary[v] {
			unary[v][l] = m.Unary(v, l) * k
		}
	}
	edges := make([]energy.Edge, 0, m.NumEdges())
	for _, e := range m.Edges() {
		edges = append(edges, energy.Edge{U: e.U, V: e.V, Weight: e.Weight * k})
	}
	cliques := make([]energy.Clique, 0, m.NumCliques())
	for _, c := range m.Cliques() {
		gamma := make([]float64, len(c.Gamma))
		for l, g := range c.Gamma {
			gamma[l] = g * k
		}
		cliques = append(cliques, energy.Clique{Members: c.Members, Truncation: c.Truncation, Gamma: gamma, GammaMax: c.GammaMax * k})
	}

	return build(t, m.NumLabels(), unary, edges, cliques)
}

// TestScaleInvariant solves each model at three cost scales and expects the
// same labelling every time.
func TestScaleInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	for trial := 0; trial < 40; trial++ {
		m := randomModel(t, rng, trial%2 == 0, true)
		init := randomLabels(rng, m)

		var want []int
		for _, k := range []float64{1, math.Ldexp(1, -40), math.Ldexp(1, 40)} {
			solver, err := expansion.NewSolver(scaled(t, m, k), expansion.DefaultOptions())
			require.NoError(t, err)
			res, err := solver.Minimize(append([]int(nil), init...))
			require.NoError(t, err)
			if want == nil {
				want = res.Labels
				continue
			}
			require.Equal(t, want, res.Labels, "trial %d scale %g", trial, k)
		}
	}
}
