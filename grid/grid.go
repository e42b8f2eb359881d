package grid

import (
	"fmt"
	"math"

	"github.com/katalvlaran/robustpn/energy"
)

// New constructs a Grid of the given size.
// Returns ErrEmptyGrid if width or height is below 1 and ErrBadConnectivity
// for an unknown opts.Conn.
// Complexity: O(1).
func New(width, height int, opts Options) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	g := &Grid{Width: width, Height: height, Conn: opts.Conn}
	switch opts.Conn {
	case Conn4:
		g.neighborOffsets = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
		g.forwardOffsets = [][2]int{{1, 0}, {0, 1}}
	case Conn8:
		g.neighborOffsets = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
		g.forwardOffsets = [][2]int{{1, 0}, {-1, 1}, {0, 1}, {1, 1}}
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadConnectivity, opts.Conn)
	}

	return g, nil
}

// Size returns Width×Height.
func (g *Grid) Size() int { return g.Width * g.Height }

// InBounds reports whether (x,y) lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index maps (x,y) to a row-major index: y*Width + x.
// Complexity: O(1).
func (g *Grid) Index(x, y int) int {
	return y*g.Width + x
}

// Coordinate converts a row-major index back to (x,y).
// Complexity: O(1).
func (g *Grid) Coordinate(idx int) (x, y int) {
	return idx % g.Width, idx / g.Width
}

// Neighbors returns the in-bounds neighbours of idx in offset order.
func (g *Grid) Neighbors(idx int) []int {
	x, y := g.Coordinate(idx)
	out := make([]int, 0, len(g.neighborOffsets))
	for _, d := range g.neighborOffsets {
		if nx, ny := x+d[0], y+d[1]; g.InBounds(nx, ny) {
			out = append(out, g.Index(nx, ny))
		}
	}

	return out
}

// Edges returns every unordered neighbour pair once, in row-major order of
// the first endpoint, weighted by weight. Pairs with zero weight are kept so
// the edge count depends only on the grid.
// Complexity: O(W×H×d).
func (g *Grid) Edges(weight WeightFunc) []energy.Edge {
	edges := make([]energy.Edge, 0, g.Size()*len(g.forwardOffsets))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			u := g.Index(x, y)
			for _, d := range g.forwardOffsets {
				nx, ny := x+d[0], y+d[1]
				if !g.InBounds(nx, ny) {
					continue
				}
				v := g.Index(nx, ny)
				edges = append(edges, energy.Edge{U: u, V: v, Weight: weight(u, v)})
			}
		}
	}

	return edges
}

// Uniform returns a WeightFunc with constant weight w.
func Uniform(w float64) WeightFunc {
	return func(int, int) float64 { return w }
}

// ContrastWeight returns λ·exp(−β·(I_u−I_v)²) over the per-cell intensities.
// A non-positive beta is replaced by Beta(intensity).
func (g *Grid) ContrastWeight(intensity []float64, lambda, beta float64) (WeightFunc, error) {
	if len(intensity) != g.Size() {
		return nil, fmt.Errorf("%w: intensity has %d cells, want %d", ErrSizeMismatch, len(intensity), g.Size())
	}
	if beta <= 0 {
		beta = g.Beta(intensity)
	}

	return func(u, v int) float64 {
		d := intensity[u] - intensity[v]
		return lambda * math.Exp(-beta*d*d)
	}, nil
}

// Beta returns 1 / (2·mean((I_u−I_v)²)) over all neighbour pairs, or 0 when
// the image is flat. intensity must have Size() entries.
func (g *Grid) Beta(intensity []float64) float64 {
	var sum float64
	n := 0
	for _, e := range g.Edges(Uniform(0)) {
		d := intensity[e.U] - intensity[e.V]
		sum += d * d
		n++
	}
	if n == 0 || sum == 0 {
		return 0
	}

	return float64(n) / (2 * sum)
}
