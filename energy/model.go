package energy

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is an immutable robust P^n-Potts energy.
//
// Slices returned by accessors share storage with the Model and must not be
// modified by callers.
type Model struct {
	numLabels int
	numNodes  int
	unary     *mat.Dense
	edges     []Edge
	cliques   []Clique
}

// NumLabels returns the number of labels.
func (m *Model) NumLabels() int { return m.numLabels }

// NumNodes returns the number of variables.
func (m *Model) NumNodes() int { return m.numNodes }

// NumEdges returns the number of pairwise terms.
func (m *Model) NumEdges() int { return len(m.edges) }

// NumCliques returns the number of higher-order terms.
func (m *Model) NumCliques() int { return len(m.cliques) }

// Unary returns the cost of assigning label l to variable v.
func (m *Model) Unary(v, l int) float64 { return m.unary.At(v, l) }

// UnaryMatrix exposes the nodes × labels cost table.
func (m *Model) UnaryMatrix() mat.Matrix { return m.unary }

// Edge returns pairwise term i.
func (m *Model) Edge(i int) Edge { return m.edges[i] }

// Edges returns all pairwise terms.
func (m *Model) Edges() []Edge { return m.edges }

// Clique returns higher-order term c.
func (m *Model) Clique(c int) Clique { return m.cliques[c] }

// Cliques returns all higher-order terms.
func (m *Model) Cliques() []Clique { return m.cliques }

// ValidateLabels checks that labels is a full labelling of m.
func (m *Model) ValidateLabels(labels []int) error {
	if len(labels) != m.numNodes {
		return invalid("labels", -1, ErrDimensionMismatch)
	}
	for v, l := range labels {
		if l < 0 || l >= m.numLabels {
			return invalid("labels", v, ErrLabelOutOfRange)
		}
	}

	return nil
}

// validate enforces every model invariant. Called once by Builder.Build.
func (m *Model) validate() error {
	for v := 0; v < m.numNodes; v++ {
		for l := 0; l < m.numLabels; l++ {
			if !finite(m.unary.At(v, l)) {
				return invalid("unary", v, ErrNonFinite)
			}
		}
	}

	seen := make(map[[2]int]struct{}, len(m.edges))
	for i, e := range m.edges {
		if e.U < 0 || e.U >= m.numNodes || e.V < 0 || e.V >= m.numNodes {
			return invalid("edge", i, ErrNodeOutOfRange)
		}
		if e.U == e.V {
			return invalid("edge", i, ErrSelfPair)
		}
		if !finite(e.Weight) {
			return invalid("edge", i, ErrNonFinite)
		}
		if e.Weight < 0 {
			return invalid("edge", i, ErrNegativeWeight)
		}
		key := [2]int{e.U, e.V}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if _, dup := seen[key]; dup {
			return invalid("edge", i, ErrDuplicatePair)
		}
		seen[key] = struct{}{}
	}

	member := make(map[int]struct{})
	for c, cl := range m.cliques {
		if cl.Members == nil {
			return invalid("clique", c, ErrCliquesNotAllocated)
		}
		if len(cl.Members) == 0 {
			return invalid("clique", c, ErrEmptyClique)
		}
		if len(cl.Gamma) != m.numLabels {
			return invalid("clique", c, ErrDimensionMismatch)
		}
		if !finite(cl.Truncation) || cl.Truncation <= 0 {
			return invalid("clique", c, ErrBadTruncation)
		}
		if !finite(cl.GammaMax) {
			return invalid("clique", c, ErrNonFinite)
		}
		if cl.GammaMax < 0 {
			return invalid("clique", c, ErrNegativeCost)
		}
		for _, g := range cl.Gamma {
			if !finite(g) {
				return invalid("clique", c, ErrNonFinite)
			}
		}
		clear(member)
		for _, v := range cl.Members {
			if v < 0 || v >= m.numNodes {
				return invalid("clique", c, ErrNodeOutOfRange)
			}
			if _, dup := member[v]; dup {
				return invalid("clique", c, ErrDuplicateMember)
			}
			member[v] = struct{}{}
		}
	}

	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
