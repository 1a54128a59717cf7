// Package maxdelay implements the maximum-delay search of spec §4.8: the
// largest rational delta in [0, D] (D a non-negative integer bound) such
// that v + delta still belongs to a zone Z, restricted to denominators 1
// or 2 (the contradiction DAG builder never needs a finer granularity).
//
// Implementation note: spec §4.8's pseudocode recurses on both [m, D]
// and [0, m] and takes the max; since Z is convex, the set of feasible
// delays is itself an interval containing 0 (delaying only grows xi -
// x0, so once a point leaves the zone through an upper bound it never
// re-enters), so the two recursive branches are redundant with a single
// monotone bisection. This file implements that equivalent, simpler
// bisection directly; DESIGN.md records the equivalence.
package maxdelay
