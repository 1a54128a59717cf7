// SPDX-License-Identifier: MIT
package dbm

import "math/big"

// Rational is the exact-arithmetic type used throughout the DBM and clock
// valuation layers. It is always non-negative for clock components (the
// reference clock's component is always the zero Rational).
type Rational = *big.Rat

// RatFromInt builds an exact Rational from an integer bound.
func RatFromInt(v int64) Rational { return new(big.Rat).SetInt64(v) }

// ratSub returns a-b as a fresh Rational without mutating a or b.
func ratSub(a, b Rational) Rational { return new(big.Rat).Sub(a, b) }

// int64Exact returns (v, true) when r is an integer and fits in int64.
func int64Exact(r Rational) (int64, bool) {
	if !r.IsInt() {
		return 0, false
	}
	num := r.Num()
	if !num.IsInt64() {
		return 0, false
	}
	return num.Int64(), true
}
