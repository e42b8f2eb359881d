package energy

import (
	"gonum.org/v1/gonum/mat"
)

// Builder assembles a Model.
//
// The layout follows the fixed-size construction of the solver: the number
// of labels, nodes, edges and cliques is declared up front, pairwise slots
// are filled by index, and cliques are built in two phases:
//
//	b.SetCliqueSize(c, n)       // for every clique
//	b.AllocateCliques()         // allocate member arrays
//	b.SetCliqueMember(c, j, v)  // fill them
//
// AddEdge and AddClique append terms instead, for callers that do not know
// the counts in advance. Build validates everything and returns an
// immutable Model; setters only check indices.
type Builder struct {
	numLabels int
	numNodes  int
	unary     *mat.Dense
	edges     []Edge
	edgeSet   []bool
	sizes     []int
	cliques   []Clique
}

// NewBuilder returns a Builder for numLabels labels, numNodes variables,
// numEdges pairwise slots and numCliques clique slots. All unary costs start
// at zero, clique discounts γ at zero.
//
// Complexity: O(numNodes·numLabels + numEdges + numCliques).
func NewBuilder(numLabels, numNodes, numEdges, numCliques int) (*Builder, error) {
	if numLabels < 1 {
		return nil, invalid("labels", -1, ErrNoLabels)
	}
	if numNodes < 1 {
		return nil, invalid("nodes", -1, ErrNoNodes)
	}
	if numEdges < 0 {
		return nil, invalid("edges", -1, ErrDimensionMismatch)
	}
	if numCliques < 0 {
		return nil, invalid("cliques", -1, ErrDimensionMismatch)
	}

	b := &Builder{
		numLabels: numLabels,
		numNodes:  numNodes,
		unary:     mat.NewDense(numNodes, numLabels, nil),
		edges:     make([]Edge, numEdges),
		edgeSet:   make([]bool, numEdges),
		sizes:     make([]int, numCliques),
		cliques:   make([]Clique, numCliques),
	}
	for c := range b.cliques {
		b.cliques[c].Gamma = make([]float64, numLabels)
	}

	return b, nil
}

// SetUnary sets the cost of label l at variable v.
func (b *Builder) SetUnary(v, l int, cost float64) error {
	if v < 0 || v >= b.numNodes {
		return invalid("unary", v, ErrNodeOutOfRange)
	}
	if l < 0 || l >= b.numLabels {
		return invalid("unary", v, ErrLabelOutOfRange)
	}
	b.unary.Set(v, l, cost)

	return nil
}

// SetUnaryRow sets all label costs of variable v.
func (b *Builder) SetUnaryRow(v int, costs []float64) error {
	if v < 0 || v >= b.numNodes {
		return invalid("unary", v, ErrNodeOutOfRange)
	}
	if len(costs) != b.numLabels {
		return invalid("unary", v, ErrDimensionMismatch)
	}
	b.unary.SetRow(v, costs)

	return nil
}

// SetUnaryMatrix copies a nodes × labels cost table.
func (b *Builder) SetUnaryMatrix(costs mat.Matrix) error {
	r, c := costs.Dims()
	if r != b.numNodes || c != b.numLabels {
		return invalid("unary", -1, ErrDimensionMismatch)
	}
	b.unary.Copy(costs)

	return nil
}

// SetEdge fills pairwise slot i with the Potts term (u, v, w).
func (b *Builder) SetEdge(i, u, v int, w float64) error {
	if i < 0 || i >= len(b.edges) {
		return invalid("edge", i, ErrEdgeOutOfRange)
	}
	b.edges[i] = Edge{U: u, V: v, Weight: w}
	b.edgeSet[i] = true

	return nil
}

// AddEdge appends a Potts term and returns its index.
func (b *Builder) AddEdge(u, v int, w float64) int {
	b.edges = append(b.edges, Edge{U: u, V: v, Weight: w})
	b.edgeSet = append(b.edgeSet, true)

	return len(b.edges) - 1
}

// SetCliqueSize declares the member count of clique c (phase one).
func (b *Builder) SetCliqueSize(c, size int) error {
	if c < 0 || c >= len(b.sizes) {
		return invalid("clique", c, ErrCliqueOutOfRange)
	}
	if b.cliques[c].Members != nil {
		return invalid("clique", c, ErrDimensionMismatch)
	}
	if size < 1 {
		return invalid("clique", c, ErrEmptyClique)
	}
	b.sizes[c] = size

	return nil
}

// AllocateCliques allocates member arrays for every declared clique size
// (phase two). Members start unset and must all be filled before Build.
func (b *Builder) AllocateCliques() error {
	for c := range b.cliques {
		if b.cliques[c].Members != nil {
			continue
		}
		if b.sizes[c] < 1 {
			return invalid("clique", c, ErrEmptyClique)
		}
		members := make([]int, b.sizes[c])
		for j := range members {
			members[j] = -1
		}
		b.cliques[c].Members = members
	}

	return nil
}

// SetCliqueMember sets member j of clique c to variable v.
func (b *Builder) SetCliqueMember(c, j, v int) error {
	if c < 0 || c >= len(b.cliques) {
		return invalid("clique", c, ErrCliqueOutOfRange)
	}
	members := b.cliques[c].Members
	if members == nil {
		return invalid("clique", c, ErrCliquesNotAllocated)
	}
	if j < 0 || j >= len(members) {
		return invalid("clique", c, ErrDimensionMismatch)
	}
	if v < 0 || v >= b.numNodes {
		return invalid("clique", c, ErrNodeOutOfRange)
	}
	members[j] = v

	return nil
}

// SetCliqueTruncation sets Q for clique c.
func (b *Builder) SetCliqueTruncation(c int, q float64) error {
	if c < 0 || c >= len(b.cliques) {
		return invalid("clique", c, ErrCliqueOutOfRange)
	}
	b.cliques[c].Truncation = q

	return nil
}

// SetCliqueCosts sets the per-label discounts γ and the maximum cost γmax
// of clique c.
func (b *Builder) SetCliqueCosts(c int, gamma []float64, gammaMax float64) error {
	if c < 0 || c >= len(b.cliques) {
		return invalid("clique", c, ErrCliqueOutOfRange)
	}
	if len(gamma) != b.numLabels {
		return invalid("clique", c, ErrDimensionMismatch)
	}
	copy(b.cliques[c].Gamma, gamma)
	b.cliques[c].GammaMax = gammaMax

	return nil
}

// AddClique appends a fully specified clique and returns its index.
// A nil gamma means zero discount for every label.
func (b *Builder) AddClique(members []int, q float64, gamma []float64, gammaMax float64) (int, error) {
	g := make([]float64, b.numLabels)
	if gamma != nil {
		if len(gamma) != b.numLabels {
			return -1, invalid("clique", len(b.cliques), ErrDimensionMismatch)
		}
		copy(g, gamma)
	}
	m := make([]int, len(members))
	copy(m, members)

	b.sizes = append(b.sizes, len(m))
	b.cliques = append(b.cliques, Clique{Members: m, Truncation: q, Gamma: g, GammaMax: gammaMax})

	return len(b.cliques) - 1, nil
}

// Build validates the accumulated terms and returns an immutable Model.
// The Builder may keep being used; the Model does not share its storage.
//
// Complexity: O(numNodes·numLabels + numEdges + Σ|c| + numCliques·numLabels).
func (b *Builder) Build() (*Model, error) {
	for i, ok := range b.edgeSet {
		if !ok {
			return nil, invalid("edge", i, ErrDimensionMismatch)
		}
	}

	m := &Model{
		numLabels: b.numLabels,
		numNodes:  b.numNodes,
		unary:     mat.DenseCopyOf(b.unary),
		edges:     append([]Edge(nil), b.edges...),
		cliques:   make([]Clique, len(b.cliques)),
	}
	for c, cl := range b.cliques {
		m.cliques[c] = Clique{
			Truncation: cl.Truncation,
			Gamma:      append([]float64(nil), cl.Gamma...),
			GammaMax:   cl.GammaMax,
		}
		if cl.Members != nil {
			m.cliques[c].Members = append([]int{}, cl.Members...)
		}
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}
