package expansion_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/robustpn/energy"
	"github.com/katalvlaran/robustpn/expansion"
)

// gridModel builds a side×side 4-connected image model with one clique per
// 4×4 block.
func gridModel(b *testing.B, side, numLabels int) *energy.Model {
	rng := rand.New(rand.NewSource(1))
	bl, err := energy.NewBuilder(numLabels, side*side, 0, 0)
	if err != nil {
		b.Fatal(err)
	}
	for v := 0; v < side*side; v++ {
		row := make([]float64, numLabels)
		for l := range row {
			row[l] = rng.Float64() * 10
		}
		_ = bl.SetUnaryRow(v, row)
	}
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			u := y*side + x
			if x+1 < side {
				bl.AddEdge(u, u+1, 1)
			}
			if y+1 < side {
				bl.AddEdge(u, u+side, 1)
			}
		}
	}
	for by := 0; by+4 <= side; by += 4 {
		for bx := 0; bx+4 <= side; bx += 4 {
			members := make([]int, 0, 16)
			for y := by; y < by+4; y++ {
				for x := bx; x < bx+4; x++ {
					members = append(members, y*side+x)
				}
			}
			_, _ = bl.AddClique(members, 4, nil, 20)
		}
	}
	m, err := bl.Build()
	if err != nil {
		b.Fatal(err)
	}

	return m
}

// BenchmarkMinimize measures full solves on growing images.
func BenchmarkMinimize(b *testing.B) {
	for _, side := range []int{16, 32} {
		m := gridModel(b, side, 4)
		b.Run(fmt.Sprintf("%dx%d", side, side), func(b *testing.B) {
			solver, err := expansion.NewSolver(m, expansion.DefaultOptions())
			if err != nil {
				b.Fatal(err)
			}
			labels := make([]int, m.NumNodes())
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				clear(labels)
				if _, err = solver.Minimize(labels); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
