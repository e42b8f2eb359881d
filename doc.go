// Package robustpn minimizes multi-label energies with robust P^n-Potts
// higher-order terms by alpha-expansion over graph cuts.
//
// What is a robust P^n-Potts energy?
//
//	E(x) = Σ_v U(v, x_v)                       unary costs
//	     + Σ_(u,v) w_uv · [x_u ≠ x_v]          pairwise Potts terms
//	     + Σ_c min( γmax_c,
//	                min_l γ_l,c + (|c| − n_l(x_c)) · (γmax_c − γ_l,c) / Q_c )
//
// A clique (usually a superpixel) costs γmax when its members disagree, and
// the cost falls linearly towards γ_l as more members take label l. Up to Q
// outliers are tolerated at a reduced penalty.
//
// Each alpha-expansion move asks every variable "keep your label or switch
// to α?" and answers it exactly with one s-t minimum cut when 2Q ≤ |c|.
// Sweeping α over all labels until no move helps gives a local minimum with
// the usual expansion quality guarantees.
//
// Packages:
//
//	energy/       model, builder, dominant label and energy evaluation
//	maxflow/      s-t min-cut graph (Dinic, Edmonds–Karp) with terminal weights
//	expansion/    move construction and the expansion driver
//	icm/          iterated conditional modes baseline for pairwise models
//	viterbi/      exact decoding for chain models
//	grid/         pixel lattices, contrast weights and region extraction
//	problem/      YAML problem and result files
//	config/       viper/pflag settings and the zerolog logger
//	metrics/      Prometheus collector for solves and moves
//	cmd/robustpn  batch command-line solver
//
// Quick example:
//
//	b, _ := energy.NewBuilder(2, 4, 0, 0)
//	// ... SetUnaryRow, AddEdge, AddClique ...
//	m, _ := b.Build()
//	s, _ := expansion.NewSolver(m, expansion.DefaultOptions())
//	res, _ := s.Minimize(make([]int, m.NumNodes()))
//	fmt.Println(res.Labels, res.Energy, res.State)
//
//	go get github.com/katalvlaran/robustpn
package robustpn
