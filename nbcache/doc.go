// Package nbcache implements the non-bisimilarity cache (spec §4.5): a
// mapping from pairs of discrete configurations (integer-variable
// valuation + location vector, one per side) to the compressed union of
// virtual constraints on which bisimulation has already been refuted.
//
// What:
//
//   - Key: a discrete-configuration pair, hashable and comparable.
//   - Cache: Emplace (append-only write, canonicalized via Combine then
//     Compress), AlreadyCached (read: intersect a projected virtual zone
//     with the stored union), IsCached (point query against the stored
//     union, deliberately NOT canonicalized on read -- see DESIGN.md's
//     resolution of spec §9's first open question).
//
// Why:
//
//   - The bisimulation core (package bisim) writes into this cache as it
//     explores; the contradiction DAG builder (package contradiction)
//     and the witness graph builder (package witness) only read from it.
//     No other component touches it.
//
// Invariants:
//
//   - Append-only for the lifetime of one bisimulation run: Emplace only
//     ever grows the stored container (monotone growth, testable
//     property in spec §8).
package nbcache
