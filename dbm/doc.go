// Package dbm implements the canonical Difference Bound Matrix (DBM) kernel:
// the dense N×N representation of a zone (a convex set of non-negative
// clock valuations) and the handful of operations every higher layer is
// built from.
//
// What:
//
//   - Bound: a saturating (value, strictness) pair encoding "xi - xj <= b"
//     or "xi - xj < b", with a dedicated positive-infinity sentinel.
//   - DBM: a flat row-major N*N matrix of Bound, where N = 1 + clockCount
//     and index 0 is the fictitious reference clock (always 0).
//   - Universal, Tighten, Constrain, Copy, Intersect, Reset, Delay, Belongs,
//     ReduceToValuation, Permute: the kernel operations spec'd in full.
//   - IsALUIncluded: abstract LU-bounded inclusion, kept for interface
//     completeness; the bisimulation path never calls it.
//
// Why:
//
//   - Every higher layer (zone containers, virtual constraints, the
//     synchronized-product exploration) needs one correct, canonical
//     closure routine. Centralizing it here keeps that routine tested once.
//
// Canonicity:
//
//   - A DBM is canonical when tighten has been applied and no triangle
//     inequality can further tighten any entry. Every exported operation
//     that can change the constraint set re-tightens before returning.
//   - Emptiness is uniform: once any diagonal entry is tighter than
//     (0, <=) -- negative, or (0, <) -- IsEmpty reports true and the DBM is left in that (otherwise
//     unspecified) state; callers must not read further entries.
//
// Complexity:
//
//   - Tighten / Delay / Constrain / ReduceToValuation: O(N^3)
//     (Floyd-Warshall closure).
//   - Copy / Belongs: O(N^2).
//
// Errors:
//
//   - ErrEmpty           the operation produced an empty DBM.
//   - ErrDimensionMismatch two DBMs of different N were combined.
//   - ErrIndexRange      a clock index was out of [0, N).
package dbm
