// Package problem reads energy-minimization problems from YAML files and
// writes solver results back.
//
// Problem file:
//
//	labels: 2
//	nodes: 4                     # may be omitted when grid is given
//	unary:                       # nodes × labels, omitted rows cost 0
//	  - [0, 5]
//	  - ...
//	edges:                       # Potts pairs
//	  - {u: 0, v: 1, w: 1.5}
//	grid:                        # optional lattice edges, appended to edges
//	  width: 2
//	  height: 2
//	  connectivity: 4            # 4 or 8
//	  weight: 1                  # uniform Potts weight, or
//	  intensity: [...]           # contrast-sensitive λ·exp(−β·ΔI²)
//	  lambda: 2
//	  beta: 0                    # 0 = automatic
//	cliques:
//	  - {members: [0, 1, 2], truncation: 1, gamma: [0, 0], gamma_max: 10}
//	segments:                    # optional, needs grid
//	  - regions: [[0, 0], [1, 1]] # height × width region ids, -1 = none
//	    truncation_ratio: 0.2    # Q = ratio·|c| (or truncation: absolute Q)
//	    gamma: [0, 0]
//	    gamma_max: 6
//	initial: [0, 0, 1, 1]
//
// Every connected region of every segment map becomes one clique.
//
// Errors:
//
//   - ErrSchema: structural problems in the file (missing sizes, grid
//     mismatch, segments without grid).
//   - *energy.ValidationError: invalid model values.
//   - YAML syntax errors from gopkg.in/yaml.v3.
package problem
