// Package maxflow computes s-t minimum cuts on index-based capacitated graphs
// with implicit source and sink terminals. It is the min-cut collaborator of
// the expansion package and mirrors the Boykov–Kolmogorov API: nodes are
// added one at a time, pairwise arcs carry a capacity in each direction and
// every node carries a pair of terminal weights.
//
// What:
//
//   - AddNode / AddEdge / AddTWeights build the network.
//   - MaxFlow runs the configured algorithm and returns the flow value,
//     which equals the minimum cut cost.
//   - WhatSegment reports on which side of the cut a node ended up.
//   - Reset drops all nodes and arcs while keeping allocated buffers.
//
// Terminal weights:
//
// AddTWeights(u, capSource, capSink) means "u pays capSource if it ends in
// the SINK segment and capSink if it ends in the SOURCE segment". Weights are
// normalized on insertion: only the difference capSource − capSink is kept
// as a terminal arc, and min(capSource, capSink) is added to a constant flow
// offset. Terminal weights may therefore be negative; pairwise capacities
// may not.
//
// Segments:
//
// After MaxFlow a node is in SINK iff it can still reach the sink through
// residual arcs; every other node is in SOURCE. This picks the minimum cut
// with the smallest sink side, so nodes change side only when the cut
// forces them to.
//
// Algorithms:
//
//   - Dinic (default)
//
//   - Method: BFS level graph + DFS blocking flow.
//
//   - Time:   O(V²·E) worst case; near O(E·√V) on segmentation graphs.
//
//   - Memory: O(V + E) for levels, arc cursors and the residual arrays.
//
//   - Edmonds–Karp
//
//   - Method: BFS shortest augmenting paths.
//
//   - Time:   O(V·E²).
//
//   - Memory: O(V + E).
//
// Options:
//
//	type Options struct {
//	    Algorithm            Algorithm // Dinic or EdmondsKarp
//	    Epsilon              float64   // residuals ≤ Epsilon·max capacity count as saturated
//	    LevelRebuildInterval int       // Dinic only: rebuild levels every N pushes
//	    MaxNodes             int       // 0 = unlimited
//	}
//
// Errors:
//
//   - ErrNodeOutOfRange: a node id was never returned by AddNode.
//   - ErrNodeLimit: AddNode would exceed Options.MaxNodes.
//   - ErrSelfLoop: AddEdge with u == v.
//   - ErrSolved: the graph was modified after MaxFlow without Reset.
//   - ErrUnknownAlgorithm: Options.Algorithm is not recognised.
//   - *CapacityError (wraps ErrInvalidCapacity): negative or non-finite
//     capacity.
package maxflow
