package grid

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for grid operations.
var (
	// ErrEmptyGrid indicates a grid without rows or columns.
	ErrEmptyGrid = errors.New("grid: width and height must be at least 1")
	// ErrSizeMismatch indicates a per-cell slice of the wrong length.
	ErrSizeMismatch = errors.New("grid: slice length does not match width×height")
	// ErrBadConnectivity indicates an unsupported connectivity.
	ErrBadConnectivity = errors.New("grid: unknown connectivity")
)

// Connectivity selects neighbour connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

// ParseConnectivity accepts "4", "conn4", "8" or "conn8" (empty means Conn4).
func ParseConnectivity(s string) (Connectivity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "4", "conn4":
		return Conn4, nil
	case "8", "conn8":
		return Conn8, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadConnectivity, s)
	}
}

// Options contains tunable parameters for a Grid.
type Options struct {
	// Conn chooses 4- or 8-directional connectivity.
	Conn Connectivity
}

// DefaultOptions returns Options{Conn: Conn4}.
func DefaultOptions() Options {
	return Options{Conn: Conn4}
}

// WeightFunc returns the Potts weight of the neighbour pair (u, v), given as
// row-major indices.
type WeightFunc func(u, v int) float64

// Grid is an immutable Width×Height lattice. Cell (x, y) has index y*Width+x.
type Grid struct {
	Width, Height int
	Conn          Connectivity

	neighborOffsets [][2]int // all neighbours
	forwardOffsets  [][2]int // one direction per unordered pair
}
