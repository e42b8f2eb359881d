package expansion_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/expansion"
)

// build assembles a model from plain literals.
func build(t testing.TB, numLabels int, unary [][]float64, edges []energy.Edge, cliques []energy.Clique) *energy.Model {
	t.Helper()
	b, err := energy.NewBuilder(numLabels, len(unary), 0, 0)
	require.NoError(t, err)
	for v, row := range unary {
		require.NoError(t, b.SetUnaryRow(v, row))
	}
	for _, e := range edges {
		b.AddEdge(e.U, e.V, e.Weight)
	}
	for _, c := range cliques {
		_, err = b.AddClique(c.Members, c.Truncation, c.Gamma, c.GammaMax)
		require.NoError(t, err)
	}
	m, err := b.Build()
	require.NoError(t, err)

	return m
}

// randomModel draws a small model. With exact set, every clique satisfies
// 2Q ≤ |c|; otherwise Q ranges up to 1.5·|c|.
func randomModel(t testing.TB, rng *rand.Rand, withCliques, exact bool) *energy.Model {
	numLabels := 2 + rng.Intn(3)
	n := 2 + rng.Intn(6)

	unary := make([][]float64, n)
	for v := range unary {
		unary[v] = make([]float64, numLabels)
		for l := range unary[v] {
			unary[v][l] = rng.Float64() * 10
		}
	}
	var edges []energy.Edge
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < 0.4 {
				edges = append(edges, energy.Edge{U: u, V: v, Weight: rng.Float64() * 5})
			}
		}
	}

	var cliques []energy.Clique
	if withCliques {
		for k := 1 + rng.Intn(3); k > 0; k-- {
			members := rng.Perm(n)[:2+rng.Intn(n-1)]
			size := float64(len(members))
			q := 0.25 + rng.Float64()*(size/2-0.25)
			if !exact {
				q = 0.25 + rng.Float64()*size*1.5
			}
			gMax := 5 + rng.Float64()*15
			gamma := make([]float64, numLabels)
			for l := range gamma {
				gamma[l] = rng.Float64() * gMax
			}
			cliques = append(cliques, energy.Clique{Members: members, Truncation: q, Gamma: gamma, GammaMax: gMax})
		}
	}

	return build(t, numLabels, unary, edges, cliques)
}

func randomLabels(rng *rand.Rand, m *energy.Model) []int {
	labels := make([]int, m.NumNodes())
	for i := range labels {
		labels[i] = rng.Intn(m.NumLabels())
	}

	return labels
}

// bestMove enumerates every α-expansion of labels and returns the labelling
// with the lowest energy. Ties keep the earliest mask, so the unchanged
// labelling wins over equal-energy alternatives.
func bestMove(t testing.TB, m *energy.Model, alpha int, labels []int) ([]int, float64) {
	var free []int
	for v, l := range labels {
		if l != alpha {
			free = append(free, v)
		}
	}
	best := append([]int(nil), labels...)
	bestE := math.Inf(1)
	cand := make([]int, len(labels))
	for mask := 0; mask < 1<<len(free); mask++ {
		copy(cand, labels)
		for i, v := range free {
			if mask&(1<<i) != 0 {
				cand[v] = alpha
			}
		}
		e, err := energy.Evaluate(m, cand)
		require.NoError(t, err)
		if e < bestE {
			bestE = e
			copy(best, cand)
		}
	}

	return best, bestE
}

// recorder collects observer callbacks.
type recorder struct {
	moves  []expansion.MoveStats
	solves []expansion.Result
}

func (r *recorder) ObserveMove(s expansion.MoveStats) { r.moves = append(r.moves, s) }
func (r *recorder) ObserveSolve(res expansion.Result) { r.solves = append(r.solves, res) }
