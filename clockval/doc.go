// Package clockval implements concrete clock valuations: ordered tuples of
// non-negative exact rationals, one per clock, with index 0 fixed at zero
// for the reference clock.
//
// What:
//
//   - Valuation: a fixed-length []dbm.Rational with v[0] == 0.
//   - AddDelay: add an exact delay to every non-reference component.
//   - LexicalCmp: component-wise ordering (used for certificate-node
//     equality, which compares location pairs only, never valuations --
//     LexicalCmp exists for deterministic test fixtures and DOT rendering).
//   - Belongs: delegate membership testing to the owning zone's DBM.
//
// Why:
//
//   - The contradiction DAG builder and the maximum-delay search both
//     need exact arithmetic: a float64 would silently lose the
//     half-integer precision the builder relies on (spec §4.8's
//     denominator-1-or-2 invariant).
package clockval
