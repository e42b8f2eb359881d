// Package icm implements Iterated Conditional Modes for pairwise Potts
// energies: a greedy local search used as a fast baseline and as a way to
// produce starting labellings for expansion.
//
// What:
//
//   - Minimize sweeps the nodes in index order. For each node it tries every
//     label in order and adopts a label as soon as it strictly lowers the
//     local energy (unary plus the Potts weights of disagreeing neighbours),
//     then keeps scanning the remaining labels against the new current one.
//   - Stops after a sweep without changes or after MaxIterations sweeps.
//   - Without an initial labelling, labels are drawn from math/rand seeded
//     with Options.Seed.
//
// Complexity:
//
//	Time:   O(MaxIterations · (V·L + E)).
//	Memory: O(V + E) for the adjacency lists.
//
// Errors:
//
//   - ErrHigherOrder: the model has cliques.
//   - ErrBadOptions: negative MaxIterations.
//   - *energy.ValidationError: malformed initial labelling.
package icm
