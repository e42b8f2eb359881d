package grid

import (
	"fmt"
	"slices"
)

// Regions finds the connected components of cells sharing the same region
// id, according to g.Conn. Cells with a negative id belong to no region.
// Components are returned in row-major order of their first cell; each lists
// its cell indices in ascending order.
//
// Time:   O(W·H·d), where d = 4 or 8.
// Memory: O(W·H) for visited flags and output.
func (g *Grid) Regions(regionMap []int) ([][]int, error) {
	if len(regionMap) != g.Size() {
		return nil, fmt.Errorf("%w: region map has %d cells, want %d", ErrSizeMismatch, len(regionMap), g.Size())
	}

	seen := make([]bool, g.Size())
	var comps [][]int
	var queue []int
	for i0, id := range regionMap {
		if id < 0 || seen[i0] {
			continue
		}
		// BFS to collect component
		queue = append(queue[:0], i0)
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			ux, uy := g.Coordinate(queue[qi])
			for _, d := range g.neighborOffsets {
				vx, vy := ux+d[0], uy+d[1]
				if !g.InBounds(vx, vy) {
					continue
				}
				vi := g.Index(vx, vy)
				if !seen[vi] && regionMap[vi] == id {
					seen[vi] = true
					queue = append(queue, vi)
				}
			}
		}
		comp := slices.Clone(queue)
		slices.Sort(comp)
		comps = append(comps, comp)
	}

	return comps, nil
}
