package viterbi

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/robustpn/energy"
)

var (
	// ErrEmpty indicates a chain without nodes or labels.
	ErrEmpty = errors.New("viterbi: empty chain")
	// ErrDimensionMismatch indicates len(pairwise) ≠ nodes−1.
	ErrDimensionMismatch = errors.New("viterbi: pairwise length must be nodes-1")
	// ErrNotChain indicates an edge other than (i, i+1).
	ErrNotChain = errors.New("viterbi: model edges do not form a chain")
	// ErrHigherOrder indicates a model with cliques.
	ErrHigherOrder = errors.New("viterbi: model has higher-order cliques")
)

// Result is an optimal labelling and its energy.
type Result struct {
	Labels []int
	Energy float64
}

// Decode returns the minimum-energy labelling of the chain with unary costs
// (rows = nodes, columns = labels) and Potts weights pairwise[i] between
// nodes i and i+1.
//
// Steps:
//  1. Row 0 of the cost table is the first unary row.
//  2. For each node, find the best and second-best labels of the previous
//     row, then take for every label the cheaper of staying and jumping from
//     the best other label (O(L) per node).
//  3. Pick the cheapest final label and follow the back-pointers.
//
// Complexity: O(n·L) time, O(n·L) memory for back-pointers.
func Decode(unary mat.Matrix, pairwise []float64) (Result, error) {
	n, numLabels := unary.Dims()
	if n == 0 || numLabels == 0 {
		return Result{}, ErrEmpty
	}
	if len(pairwise) != n-1 {
		return Result{}, fmt.Errorf("%w: got %d weights for %d nodes", ErrDimensionMismatch, len(pairwise), n)
	}

	// 1) First row
	prev := make([]float64, numLabels)
	cur := make([]float64, numLabels)
	back := make([]int, n*numLabels)
	for l := range prev {
		prev[l] = unary.At(0, l)
	}

	// 2) Forward pass
	for i := 1; i < n; i++ {
		best, second := bestTwo(prev)
		w := pairwise[i-1]
		for l := range cur {
			from := best
			if l == best {
				from = second
			}
			cur[l], back[i*numLabels+l] = prev[l], l
			if from >= 0 && prev[from]+w < prev[l] {
				cur[l], back[i*numLabels+l] = prev[from]+w, from
			}
			cur[l] += unary.At(i, l)
		}
		prev, cur = cur, prev
	}

	// 3) Backtrack
	last := 0
	for l := 1; l < numLabels; l++ {
		if prev[l] < prev[last] {
			last = l
		}
	}
	res := Result{Labels: make([]int, n), Energy: prev[last]}
	for i := n - 1; i >= 0; i-- {
		res.Labels[i] = last
		last = back[i*numLabels+last]
	}

	return res, nil
}

// bestTwo returns the indices of the smallest and second-smallest entries;
// second is -1 when there is only one entry. Ties keep the lower index first.
func bestTwo(row []float64) (best, second int) {
	best, second = 0, -1
	for l := 1; l < len(row); l++ {
		switch {
		case row[l] < row[best]:
			best, second = l, best
		case second < 0 || row[l] < row[second]:
			second = l
		}
	}

	return best, second
}

// FromModel extracts the unary table and chain weights of m. Edges must join
// consecutive nodes (in either orientation); missing links get weight 0.
func FromModel(m *energy.Model) (mat.Matrix, []float64, error) {
	if m.NumCliques() > 0 {
		return nil, nil, ErrHigherOrder
	}
	pairwise := make([]float64, m.NumNodes()-1)
	for i, e := range m.Edges() {
		lo, hi := min(e.U, e.V), max(e.U, e.V)
		if hi != lo+1 {
			return nil, nil, fmt.Errorf("%w: edge %d joins %d and %d", ErrNotChain, i, e.U, e.V)
		}
		pairwise[lo] = e.Weight
	}

	return m.UnaryMatrix(), pairwise, nil
}

// DecodeModel runs Decode on a chain-shaped model.
func DecodeModel(m *energy.Model) (Result, error) {
	unary, pairwise, err := FromModel(m)
	if err != nil {
		return Result{}, err
	}

	return Decode(unary, pairwise)
}
