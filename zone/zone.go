// SPDX-License-Identifier: MIT
package zone

import (
	"errors"
	"hash/fnv"

	"github.com/tck-go/tbisim/dbm"
)

// Sentinel errors for zone package operations.
var (
	// ErrDimensionMismatch indicates two zones of differing dimension were combined.
	ErrDimensionMismatch = errors.New("zone: dimension mismatch")

	// ErrEmptyZone indicates an operation was attempted on (or produced) an empty zone.
	ErrEmptyZone = errors.New("zone: empty")
)

// Zone is a non-empty convex set of clock valuations: a dimension paired
// with its canonical DBM.
type Zone struct {
	Dim int
	D   *dbm.DBM
}

// NewUniversal returns the zone of dimension dim with no constraints:
// every off-diagonal entry is unbounded, so not even non-negativity of
// the clocks is encoded.
func NewUniversal(dim int) *Zone {
	return &Zone{Dim: dim, D: dbm.Universal(dim)}
}

// FromDBM wraps an already-canonical DBM. Panics if d.N() != dim, a
// programming error per spec §7.
func FromDBM(dim int, d *dbm.DBM) *Zone {
	if d.N() != dim {
		panic("zone: dimension mismatch wrapping DBM")
	}
	return &Zone{Dim: dim, D: d}
}

// Clone returns an independent deep copy.
func (z *Zone) Clone() *Zone {
	return &Zone{Dim: z.Dim, D: z.D.Copy()}
}

// IsUniversal reports whether z has no constraint tighter than the
// universal zone of its dimension.
func (z *Zone) IsUniversal() bool {
	u := dbm.Universal(z.Dim)
	for i := 0; i < z.Dim; i++ {
		for j := 0; j < z.Dim; j++ {
			if z.D.At(i, j) != u.At(i, j) {
				return false
			}
		}
	}
	return true
}

// IsEmpty reports whether z's DBM has been driven empty.
func (z *Zone) IsEmpty() bool { return z.D.IsEmpty() }

// Contains reports whether valuation v belongs to z.
func (z *Zone) Contains(v []dbm.Rational) bool { return z.D.Belongs(v) }

// Intersect returns a new zone that is the intersection of z and other.
// Returns ErrEmptyZone if the result is empty.
func (z *Zone) Intersect(other *Zone) (*Zone, error) {
	if z.Dim != other.Dim {
		return nil, ErrDimensionMismatch
	}
	out := z.D.Copy()
	if err := out.Intersect(other.D); err != nil {
		return nil, ErrEmptyZone
	}
	return &Zone{Dim: z.Dim, D: out}, nil
}

// Le reports whether z is a subset of other (z <= other): intersecting
// other into a copy of z changes nothing.
func (z *Zone) Le(other *Zone) bool {
	if z.Dim != other.Dim {
		return false
	}
	for i := 0; i < z.Dim; i++ {
		for j := 0; j < z.Dim; j++ {
			zij := z.D.At(i, j)
			oij := other.D.At(i, j)
			if !boundLeq(zij, oij) {
				return false
			}
		}
	}
	return true
}

// boundLeq reports whether bound a implies bound b (a is at least as
// tight, so a zone constrained by a also satisfies b).
func boundLeq(a, b dbm.Bound) bool {
	if a.Val != b.Val {
		return a.Val < b.Val
	}
	return a.Strict || !b.Strict
}

// Hash returns an order-dependent content hash of z's canonical DBM.
// Two equal zones (same Dim, same canonical entries) always hash equal.
func (z *Zone) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 9)
	for i := 0; i < z.Dim; i++ {
		for j := 0; j < z.Dim; j++ {
			b := z.D.At(i, j)
			v := uint64(b.Val)
			for k := 0; k < 8; k++ {
				buf[k] = byte(v >> (8 * k))
			}
			if b.Strict {
				buf[8] = 1
			} else {
				buf[8] = 0
			}
			_, _ = h.Write(buf)
		}
	}
	return h.Sum64()
}

// Equal reports whether z and other have identical dimension and
// identical canonical entries.
func (z *Zone) Equal(other *Zone) bool {
	if z.Dim != other.Dim {
		return false
	}
	n := z.Dim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if z.D.At(i, j) != other.D.At(i, j) {
				return false
			}
		}
	}
	return true
}
