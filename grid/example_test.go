package grid_test

import (
	"fmt"

	"github.com/katalvlaran/robustpn/grid"
)

// ExampleGrid_Regions turns a 3×2 superpixel map into clique member lists.
//
//	7 7 4
//	4 7 4
func ExampleGrid_Regions() {
	g, _ := grid.New(3, 2, grid.DefaultOptions())
	regions, _ := g.Regions([]int{7, 7, 4, 4, 7, 4})
	fmt.Println(regions)
	// Output:
	// [[0 1 4] [2 5] [3]]
}
