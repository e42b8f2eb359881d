// Package viterbi decodes 1-D Potts chains exactly.
//
// For a chain of n nodes with unary costs U (n×L) and n−1 Potts weights w,
//
//	cost[i][l] = U[i][l] + min(cost[i−1][l], min_{k≠l} cost[i−1][k] + w[i−1])
//
// The inner minimum only needs the best and second-best entries of the
// previous row, so a full decode is O(n·L) instead of O(n·L²). Ties prefer
// staying on the same label; among equal final costs the lowest label wins.
//
// Errors:
//
//   - ErrEmpty: no nodes or no labels.
//   - ErrDimensionMismatch: len(pairwise) ≠ n−1.
//   - ErrNotChain, ErrHigherOrder: FromModel on a model that is not a chain.
package viterbi
