// SPDX-License-Identifier: MIT
package maxdelay

import (
	"math/big"

	"github.com/tck-go/tbisim/clockval"
	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/zone"
)

// Search returns the largest delta in [0, D] such that v+delta belongs
// to z. D must be a non-negative integer.
func Search(z *zone.Zone, v *clockval.Valuation, d int64) dbm.Rational {
	if belongsAtDelay(z, v, dbm.RatFromInt(d)) {
		return dbm.RatFromInt(d)
	}
	if !belongsAtDelay(z, v, dbm.RatFromInt(0)) {
		return dbm.RatFromInt(0)
	}
	return bisect(z, v, 0, d)
}

// bisect assumes belongsAtDelay(v+lo) == true and belongsAtDelay(v+hi)
// == false, and returns the largest feasible delay in [lo, hi], with
// denominator at most 2.
func bisect(z *zone.Zone, v *clockval.Valuation, lo, hi int64) dbm.Rational {
	if hi-lo == 1 {
		half := new(big.Rat).SetFrac64(2*lo+1, 2)
		if belongsAtDelay(z, v, half) {
			return half
		}
		return dbm.RatFromInt(lo)
	}
	mid := lo + (hi-lo)/2
	if belongsAtDelay(z, v, dbm.RatFromInt(mid)) {
		return bisect(z, v, mid, hi)
	}
	return bisect(z, v, lo, mid)
}

func belongsAtDelay(z *zone.Zone, v *clockval.Valuation, delta dbm.Rational) bool {
	out := clockval.NewZero(len(v.Vals))
	_ = clockval.AddDelay(out, v, delta)
	return clockval.Belongs(out, z.D)
}
