// SPDX-License-Identifier: MIT
package clockval

import (
	"errors"
	"math/big"

	"github.com/tck-go/tbisim/dbm"
)

// ErrLengthMismatch indicates two valuations (or a valuation and a zone)
// of differing length were combined.
var ErrLengthMismatch = errors.New("clockval: length mismatch")

// Valuation is an ordered tuple of non-negative exact rationals, one per
// clock, with Vals[0] always zero (the reference clock).
type Valuation struct {
	Vals []dbm.Rational
}

// NewZero returns the all-zero valuation of length n.
func NewZero(n int) *Valuation {
	v := &Valuation{Vals: make([]dbm.Rational, n)}
	for i := range v.Vals {
		v.Vals[i] = dbm.RatFromInt(0)
	}
	return v
}

// Clone returns an independent deep copy.
func (v *Valuation) Clone() *Valuation {
	out := &Valuation{Vals: make([]dbm.Rational, len(v.Vals))}
	for i, r := range v.Vals {
		out.Vals[i] = new(big.Rat).Set(r)
	}
	return out
}

// AddDelay writes src plus delta on every non-reference component into
// dest (dest may alias src). Index 0 is left at zero.
func AddDelay(dest, src *Valuation, delta dbm.Rational) error {
	if len(dest.Vals) != len(src.Vals) {
		return ErrLengthMismatch
	}
	for i := range src.Vals {
		if i == 0 {
			dest.Vals[0] = dbm.RatFromInt(0)
			continue
		}
		dest.Vals[i] = new(big.Rat).Add(src.Vals[i], delta)
	}
	return nil
}

// LexicalCmp compares a and b component-wise, returning -1, 0, or 1 at
// the first differing component (or by length if one is a prefix of the
// other).
func LexicalCmp(a, b *Valuation) int {
	n := len(a.Vals)
	if len(b.Vals) < n {
		n = len(b.Vals)
	}
	for i := 0; i < n; i++ {
		if c := a.Vals[i].Cmp(b.Vals[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a.Vals) < len(b.Vals):
		return -1
	case len(a.Vals) > len(b.Vals):
		return 1
	default:
		return 0
	}
}

// Belongs reports whether v satisfies every constraint of z.
func Belongs(v *Valuation, z *dbm.DBM) bool {
	if len(v.Vals) != z.N() {
		return false
	}
	return z.Belongs(v.Vals)
}
