package maxflow

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for graph construction and solving.
var (
	// ErrNodeOutOfRange indicates a node id outside [0, NumNodes()).
	ErrNodeOutOfRange = errors.New("maxflow: node out of range")
	// ErrNodeLimit indicates AddNode would exceed Options.MaxNodes.
	ErrNodeLimit = errors.New("maxflow: node limit reached")
	// ErrSelfLoop indicates an arc from a node to itself.
	ErrSelfLoop = errors.New("maxflow: self loop")
	// ErrSolved indicates a modification after MaxFlow without Reset.
	ErrSolved = errors.New("maxflow: graph already solved, call Reset")
	// ErrInvalidCapacity is wrapped by every *CapacityError.
	ErrInvalidCapacity = errors.New("maxflow: invalid capacity")
	// ErrUnknownAlgorithm indicates an unsupported Options.Algorithm.
	ErrUnknownAlgorithm = errors.New("maxflow: unknown algorithm")
)

// Terminal is the peer reported by CapacityError for terminal weights.
const Terminal = -1

// CapacityError reports a negative or non-finite capacity on the arc From→To.
// To is Terminal for terminal weights.
type CapacityError struct {
	From, To int
	Cap      float64
}

func (e *CapacityError) Error() string {
	if e.To == Terminal {
		return fmt.Sprintf("maxflow: invalid terminal weight on node %d: %g", e.From, e.Cap)
	}

	return fmt.Sprintf("maxflow: invalid capacity on arc %d→%d: %g", e.From, e.To, e.Cap)
}

// Unwrap returns ErrInvalidCapacity.
func (e *CapacityError) Unwrap() error { return ErrInvalidCapacity }

// Segment is the side of the minimum cut a node belongs to.
type Segment int

const (
	// Source is the side of the source terminal.
	Source Segment = iota
	// Sink is the side of the sink terminal.
	Sink
)

func (s Segment) String() string {
	if s == Sink {
		return "SINK"
	}

	return "SOURCE"
}

// Algorithm selects the max-flow routine used by MaxFlow.
type Algorithm string

const (
	// Dinic uses level graphs and blocking flows.
	Dinic Algorithm = "dinic"
	// EdmondsKarp uses BFS shortest augmenting paths.
	EdmondsKarp Algorithm = "edmonds-karp"
)

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case Dinic, EdmondsKarp:
		return a, nil
	case "edmondskarp", "ek":
		return EdmondsKarp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Options configures a Graph.
//   - Algorithm: Dinic (default) or EdmondsKarp.
//   - Epsilon: relative saturation threshold. A residual ≤ Epsilon·c, where c is the
//     largest capacity in the network, counts as saturated, so the cut does not depend
//     on the scale of the costs. 0 compares exactly (default 1e-12).
//   - LevelRebuildInterval: for Dinic, rebuild the level graph every N augmentations (0 = never early).
//   - MaxNodes: upper bound on AddNode calls between resets (0 = unlimited).
type Options struct {
	Algorithm            Algorithm
	Epsilon              float64
	LevelRebuildInterval int
	MaxNodes             int
}

// DefaultOptions returns Options{Algorithm: Dinic, Epsilon: 1e-12}.
func DefaultOptions() Options {
	return Options{
		Algorithm: Dinic,
		Epsilon:   1e-12,
	}
}

// normalize fills an empty Algorithm and clamps negative values to 0.
func (o *Options) normalize() {
	if o.Algorithm == "" {
		o.Algorithm = Dinic
	}
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) {
		o.Epsilon = 0
	}
	if o.LevelRebuildInterval < 0 {
		o.LevelRebuildInterval = 0
	}
	if o.MaxNodes < 0 {
		o.MaxNodes = 0
	}
}
