// Package grid describes rectangular pixel lattices: neighbourhoods, the
// pairwise edges of an image model and the regions of a segmentation map.
//
// What:
//
//   - Grid maps (x, y) cells to row-major variable indices and back.
//   - Edges lists every unordered neighbour pair once, weighted by a
//     WeightFunc; ContrastWeight gives the contrast-sensitive Potts weight
//     λ·exp(−β·(I_u−I_v)²) used for image segmentation.
//   - Regions splits a region-id map (for example superpixels from several
//     over-segmentations) into connected components of equal id, each of
//     which becomes one robust P^n clique.
//
// Complexity:
//
//   - Edges:   O(W×H×d), Memory: O(W×H×d)   (d = 2 for Conn4, 4 for Conn8).
//   - Regions: O(W×H×d), Memory: O(W×H).
//
// Options:
//
//   - Options.Conn: Conn4 (4-neighbours) or Conn8 (8-neighbours).
//
// Errors:
//
//   - ErrEmptyGrid: width or height below 1.
//   - ErrSizeMismatch: a per-cell slice does not have W×H entries.
//   - ErrBadConnectivity: an unknown Connectivity value or name.
package grid
