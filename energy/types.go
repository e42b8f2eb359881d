package energy

import (
	"errors"
	"fmt"
)

// NoLabel marks the absence of a dominant label in a clique.
const NoLabel = -1

// Sentinel errors for model construction and evaluation.
var (
	// ErrNoLabels indicates numLabels < 1.
	ErrNoLabels = errors.New("energy: number of labels must be at least 1")

	// ErrNoNodes indicates numNodes < 1.
	ErrNoNodes = errors.New("energy: number of nodes must be at least 1")

	// ErrDimensionMismatch indicates inconsistent counts or slice lengths.
	ErrDimensionMismatch = errors.New("energy: dimension mismatch")

	// ErrNodeOutOfRange indicates a variable index outside [0, numNodes).
	ErrNodeOutOfRange = errors.New("energy: node index out of range")

	// ErrLabelOutOfRange indicates a label outside [0, numLabels).
	ErrLabelOutOfRange = errors.New("energy: label out of range")

	// ErrEdgeOutOfRange indicates an edge slot outside [0, numEdges).
	ErrEdgeOutOfRange = errors.New("energy: edge index out of range")

	// ErrCliqueOutOfRange indicates a clique slot outside [0, numCliques).
	ErrCliqueOutOfRange = errors.New("energy: clique index out of range")

	// ErrNegativeWeight indicates a negative Potts weight.
	ErrNegativeWeight = errors.New("energy: negative pairwise weight")

	// ErrSelfPair indicates an edge whose endpoints coincide.
	ErrSelfPair = errors.New("energy: pairwise edge connects a node to itself")

	// ErrDuplicatePair indicates two edges over the same unordered pair.
	ErrDuplicatePair = errors.New("energy: duplicate pairwise edge")

	// ErrEmptyClique indicates a clique without members.
	ErrEmptyClique = errors.New("energy: clique must have at least one member")

	// ErrDuplicateMember indicates a variable listed twice in one clique.
	ErrDuplicateMember = errors.New("energy: duplicate clique member")

	// ErrBadTruncation indicates Q <= 0.
	ErrBadTruncation = errors.New("energy: truncation must be positive")

	// ErrNegativeCost indicates γmax < 0.
	ErrNegativeCost = errors.New("energy: maximum clique cost must be non-negative")

	// ErrNonFinite indicates a NaN or infinite cost.
	ErrNonFinite = errors.New("energy: cost must be finite")

	// ErrCliquesNotAllocated indicates members were set before AllocateCliques.
	ErrCliquesNotAllocated = errors.New("energy: clique members not allocated")
)

// ValidationError reports a malformed model or labelling.
// Field names the offending part ("edge", "clique", "unary", "labels", …)
// and Index its position, or -1 when not applicable.
type ValidationError struct {
	Field string
	Index int
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v (%s)", e.Err, e.Field)
	}

	return fmt.Sprintf("%v (%s %d)", e.Err, e.Field, e.Index)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, index int, err error) error {
	return &ValidationError{Field: field, Index: index, Err: err}
}

// Edge is an undirected pairwise Potts term: Weight is paid when U and V
// carry different labels.
type Edge struct {
	U, V   int
	Weight float64
}

// Clique is a higher-order robust P^n-Potts term.
//
// Members lists the variables of the segment. Truncation is Q, the number of
// dissenting members tolerated. Gamma[l] is the cost when every member is
// labelled l, GammaMax the cost of total disagreement.
type Clique struct {
	Members    []int
	Truncation float64
	Gamma      []float64
	GammaMax   float64
}

// Size returns the number of members.
func (c Clique) Size() int { return len(c.Members) }

// Slope returns (γmax − γ[l]) / Q, the cost of each additional dissenter
// when l is the reference label.
func (c Clique) Slope(l int) float64 {
	return (c.GammaMax - c.Gamma[l]) / c.Truncation
}
