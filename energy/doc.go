// Package energy defines the robust P^n-Potts energy model and its evaluator.
//
// What:
//
//   - Model is an immutable container of unary costs, pairwise Potts edges
//     and higher-order cliques (segments) with robust truncated costs.
//   - Builder assembles a Model with the same two-phase clique layout used
//     by the solvers: sizes first, then member indices.
//   - Evaluate computes the total energy of a labelling.
//
// Energy:
//
//	E(x) = Σ_v U(v, x_v)
//	     + Σ_(u,v) w_uv · [x_u ≠ x_v]
//	     + Σ_c min(γmax_c, min_l γ_c[l] + (|c| − n_l(x)) · (γmax_c − γ_c[l]) / Q_c)
//
// where n_l(x) is the number of members of clique c labelled l and Q_c is the
// truncation parameter (the number of dissenting members tolerated before the
// cost climbs to γmax_c).
//
// Unary costs are stored in a gonum *mat.Dense of shape nodes × labels.
//
// Errors:
//
//   - ErrNoLabels, ErrNoNodes: empty dimensions.
//   - ErrDimensionMismatch: counts or slice lengths disagree.
//   - ErrNodeOutOfRange, ErrLabelOutOfRange, ErrEdgeOutOfRange, ErrCliqueOutOfRange.
//   - ErrNegativeWeight: a Potts edge weight below zero.
//   - ErrSelfPair, ErrDuplicatePair: malformed pairwise edges.
//   - ErrEmptyClique, ErrDuplicateMember, ErrBadTruncation, ErrNegativeCost.
//   - ErrNonFinite: NaN or ±Inf anywhere in the model.
//   - ErrCliquesNotAllocated: members set before AllocateCliques.
//
// Every validation failure is returned as a *ValidationError naming the
// offending field and index; match the cause with errors.Is.
package energy
