// SPDX-License-Identifier: MIT
//
// kernel.go — the DBM canonical-closure kernel.
//
// Grounded on matrix/impl_floydwarshall.go's fixed (k, i, j) loop order and
// flat-buffer access pattern, generalized from float64 min-plus to the
// Bound min-plus-with-strictness semiring described in spec §4.1.
package dbm

// Universal returns the universal DBM of dimension n: every off-diagonal
// entry is unconstrained (Inf) and every diagonal entry is Zero. It is
// canonical by construction.
func Universal(n int) *DBM {
	d := &DBM{n: n, data: make([]Bound, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				d.set(i, j, Zero)
			} else {
				d.set(i, j, Inf)
			}
		}
	}
	return d
}

// Copy returns an independent deep copy of d.
func (d *DBM) Copy() *DBM {
	out := &DBM{n: d.n, data: make([]Bound, len(d.data))}
	copy(out.data, d.data)
	return out
}

// IsEmpty reports whether d has been driven empty, i.e. any diagonal
// entry is tighter than (0, <=): negative, or (0, <). Tighten is the only
// operation that can introduce this condition; it is checked here so
// callers can test it at any point without re-running the closure.
func (d *DBM) IsEmpty() bool {
	for i := 0; i < d.n; i++ {
		e := d.At(i, i)
		if e.Val < 0 || (e.Val == 0 && e.Strict) {
			return true
		}
	}
	return false
}

// Tighten runs the all-pairs shortest-path closure in place using the
// fixed k -> i -> j loop order (deterministic accumulation, matching the
// teacher's FloydWarshall). Returns ErrEmpty if the result is empty; the
// receiver is left in the (uniformly detectable, otherwise unspecified)
// empty state in that case.
func (d *DBM) Tighten() error {
	n := d.n
	data := d.data
	for k := 0; k < n; k++ {
		baseK := k * n
		for i := 0; i < n; i++ {
			ik := data[i*n+k]
			if ik.Val >= InfVal {
				continue
			}
			baseI := i * n
			for j := 0; j < n; j++ {
				kj := data[baseK+j]
				if kj.Val >= InfVal {
					continue
				}
				cand := add(ik, kj)
				ij := data[baseI+j]
				if leq(cand, ij) && cand != ij {
					data[baseI+j] = cand
				}
			}
		}
	}
	if d.IsEmpty() {
		return ErrEmpty
	}
	return nil
}

// Constrain intersects d with the single constraint "xi - xj <prec> bound"
// and re-tightens. Returns ErrEmpty when the result is empty (the DBM is
// still left tightened and uniformly detectable as empty).
func (d *DBM) Constrain(i, j int, bound int64, strict bool) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if err := d.checkIndex(j); err != nil {
		return err
	}
	cand := Bound{Val: bound, Strict: strict}
	if leq(cand, d.At(i, j)) {
		d.set(i, j, cand)
	}
	return d.Tighten()
}

// Intersect conjoins other into d (both must share dimension N) and
// re-tightens. Commutative and idempotent once both sides are canonical.
func (d *DBM) Intersect(other *DBM) error {
	if d.n != other.n {
		return ErrDimensionMismatch
	}
	for k := range d.data {
		if leq(other.data[k], d.data[k]) {
			d.data[k] = other.data[k]
		}
	}
	return d.Tighten()
}

// Reset sets clock i to 0 (xi := 0): row i and column i collapse onto the
// reference clock's row/column, then the DBM is re-tightened.
func (d *DBM) Reset(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	n := d.n
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		d.set(i, j, d.At(0, j))
		d.set(j, i, d.At(j, 0))
	}
	d.set(i, i, Zero)
	return d.Tighten()
}

// Delay future-closes d (drops every upper bound xi - x0 <= c, i.e.
// allows unbounded time to pass on every non-reference clock) and then
// intersects the result with inv, a DBM of the same dimension encoding
// the target invariant. Canonical on return.
func (d *DBM) Delay(inv *DBM) error {
	n := d.n
	for i := 1; i < n; i++ {
		d.set(i, 0, Inf)
	}
	if err := d.Tighten(); err != nil {
		return err
	}
	if inv == nil {
		return nil
	}
	return d.Intersect(inv)
}

// Belongs reports whether valuation v (length N, v[0] == 0) satisfies
// every constraint of d.
func (d *DBM) Belongs(v []Rational) bool {
	n := d.n
	if len(v) != n {
		return false
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			b := d.At(i, j)
			if b.Val >= InfVal {
				continue
			}
			diff := ratSub(v[i], v[j])
			bound := RatFromInt(b.Val)
			if b.Strict {
				if diff.Cmp(bound) >= 0 {
					return false
				}
			} else {
				if diff.Cmp(bound) > 0 {
					return false
				}
			}
		}
	}
	return true
}

// ReduceToValuation constrains d so that the only valuation it contains
// is v: every entry (i, j) becomes exactly (v[i]-v[j], <=). Every
// pairwise difference v[i]-v[j] must be an integer; a non-integral
// difference (e.g. a half-integral component next to the integral
// reference clock) returns ErrValuationLength.
func (d *DBM) ReduceToValuation(v []Rational) error {
	n := d.n
	if len(v) != n {
		return ErrValuationLength
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			diff := ratSub(v[i], v[j])
			val, exact := int64Exact(diff)
			if !exact {
				// half-integral: round toward the nearest bound usable by
				// an integer DBM entry is not representable exactly, so we
				// fail closed rather than silently truncate.
				return ErrValuationLength
			}
			d.set(i, j, Bound{Val: val, Strict: false})
		}
	}
	return d.Tighten()
}

// Permute returns a new DBM whose clock i is the old DBM's clock
// order[i], for every i (order[0] must be 0: the reference clock never
// moves). Used by the zone layer to reorder a side's virtual-clock block
// into the canonical cross-side order before comparison.
func (d *DBM) Permute(order []int) (*DBM, error) {
	n := d.n
	if len(order) != n || order[0] != 0 {
		return nil, ErrDimensionMismatch
	}
	out := &DBM{n: n, data: make([]Bound, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.set(i, j, d.At(order[i], order[j]))
		}
	}
	return out, nil
}

// IsALUIncluded reports whether d is included in other under local LU
// abstraction bounds L, U (one pair per clock). Kept for interface
// completeness with reachability variants outside the bisimulation core;
// not exercised by any path in this module.
func (d *DBM) IsALUIncluded(other *DBM, L, U []int64) bool {
	n := d.n
	if other.n != n || len(L) != n || len(U) != n {
		return false
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dij := d.At(i, j)
			oij := other.At(i, j)
			if leq(dij, oij) {
				continue
			}
			// dij is strictly tighter than oij: allowed only if it is
			// abstracted away by the LU bound on clock i (or j == 0).
			if j == 0 && L[i] >= 0 && dij.Val > int64(L[i]) {
				continue
			}
			if i == 0 && U[j] >= 0 && -dij.Val > int64(U[j]) {
				continue
			}
			return false
		}
	}
	return true
}
