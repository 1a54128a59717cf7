// Package vcg defines the syncprod / Virtual Clock Graph transition
// system interface the bisimulation core is built against (spec §4.4),
// plus a reference in-memory implementation of a network of timed
// automata so the core is exercisable and testable without the external
// textual-format parser, which spec §1 places out of scope.
//
// What:
//
//   - System: a network of Process automata composed by SyncVectors.
//   - VCG: the interface the bisimulation core (package bisim) and the
//     contradiction/witness builders consume -- Initial, NextWithSymbol,
//     AvailEvents, CloneState, clock counts, DelayAllowed.
//   - New: builds a VCG (augmented with virtual clocks mirroring the
//     other side's originals) over a System, given the other side's
//     original clock count (needed to size the virtual mirror block per
//     zone.Layout).
//
// Why:
//
//   - Keeping the transition-system surface behind an interface lets the
//     bisimulation core, the contradiction builder, and the witness
//     builder all be written and tested against SPEC_FULL.md's six
//     scenarios without depending on a parser.
package vcg
