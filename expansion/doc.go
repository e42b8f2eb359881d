// Package expansion minimizes robust P^n-Potts energies with alpha-expansion.
//
// What:
//
//   - Solver.Minimize runs the outer loop: for every candidate label α it
//     builds the flow network of one expansion move, cuts it, writes the
//     result back into the labelling and re-evaluates the energy. The loop
//     stops once numLabels consecutive moves leave the energy unchanged
//     (Converged) or after MaxIterations full sweeps (IterationCapReached).
//   - Solver.Expand performs a single α-expansion move.
//
// Move construction:
//
// Variables already at α are fixed; every other variable becomes a flow node
// whose SINK side means "switch to α". Unary and pairwise Potts terms map to
// terminal weights and arcs directly. Each clique adds an auxiliary node A
// charging the α-discount side of the robust cost and, when the clique has a
// dominant label d ≠ α, a node B charging the cost of leaving d:
//
//	A: tweights(0, γmax−γ[α]); arc A→x cap_vu=(γmax−γ[α])/Q for x not at α
//	B: tweights(γmax−λb, 0);    arc B→x cap_uv=(γmax−γ[d])/Q for x at d
//	constant −= γmax − (γ[α] + λb)
//
// with λb = γ[d] + (|c|−n_d)(γmax−γ[d])/Q, or λb = γmax without B. The
// encoding is exact whenever 2Q ≤ |c| and γ[l] ≤ γmax. Outside that regime a
// move may raise the energy; such moves are rolled back, so the energy trace
// is non-increasing regardless.
//
// Complexity:
//
//   - One move: O(V + E + Σ|c|) to build plus one max-flow call.
//   - Minimize: at most MaxIterations × numLabels moves.
//
// Errors:
//
//   - *energy.ValidationError: malformed labelling or candidate label.
//   - ErrNilModel, ErrBadOptions: invalid solver construction.
//   - *CollaboratorError: the flow network rejected an operation; the
//     labelling is restored to its state before the failing move.
package expansion
