// SPDX-License-Identifier: MIT
//
// virtual.go -- virtual-clock projection and the synchronized-zone lift,
// per the clock layout documented in doc.go.
package zone

import "github.com/tck-go/tbisim/dbm"

// Side identifies which half of a synchronized pair a zone belongs to.
type Side int

const (
	// Left is the first automaton's side.
	Left Side = iota
	// Right is the second automaton's side.
	Right
)

// Layout describes the clock counts needed to compute indices into a
// side's full (original + virtual-mirror) zone.
type Layout struct {
	O1 int // left automaton's original clock count
	O2 int // right automaton's original clock count
}

// OwnCount returns the number of original clocks on side s.
func (l Layout) OwnCount(s Side) int {
	if s == Left {
		return l.O1
	}
	return l.O2
}

// OtherCount returns the number of original clocks on the other side.
func (l Layout) OtherCount(s Side) int {
	if s == Left {
		return l.O2
	}
	return l.O1
}

// FullDim returns 1 (ref) + own originals + (o1+o2) virtual mirror clocks
// for side s, i.e. the dimension of a full zone on that side.
func (l Layout) FullDim(s Side) int {
	own := l.OwnCount(s)
	return 1 + own + l.O1 + l.O2
}

// VirtualDim returns 1 + (o1+o2): the dimension of a virtual constraint.
func (l Layout) VirtualDim() int { return 1 + l.O1 + l.O2 }

// ProjectOntoVirtual existentially eliminates side s's own original
// clocks from z (a full zone of dimension l.FullDim(s)) and reorders the
// remaining virtual block into the canonical [o1 A-clocks, o2 B-clocks]
// order, returning a virtual constraint of dimension l.VirtualDim().
//
// Eliminating a clock from a canonical DBM is deleting its row/column
// after re-tightening: any path through the eliminated clock has already
// been folded into the surviving entries.
func ProjectOntoVirtual(z *Zone, l Layout, s Side) (*Zone, error) {
	own := l.OwnCount(s)
	want := l.FullDim(s)
	if z.Dim != want {
		return nil, ErrDimensionMismatch
	}
	d := z.D.Copy()
	if err := d.Tighten(); err != nil {
		return nil, ErrEmptyZone
	}

	// Keep = {0} U {own+1 .. fullDim-1}: drop indices 1..own.
	keep := make([]int, 0, z.Dim-own)
	keep = append(keep, 0)
	for i := own + 1; i < z.Dim; i++ {
		keep = append(keep, i)
	}
	reduced := deleteRowsCols(d, keep)

	// reduced's virtual block is currently [own-mirror(own), other-mirror(otherCount)]
	// in the side's native order. For Left this already equals the
	// canonical [A(o1), B(o2)] order (own==o1 is the A block). For Right
	// it is [B(o2), A(o1)] and must be swapped to [A(o1), B(o2)].
	if s == Right {
		order := make([]int, reduced.N())
		order[0] = 0
		// canonical slot 1..o1 <- right's other-mirror block (currently
		// at positions own+1..own+o1 i.e. l.O1+1..l.O1+l.O2? own==l.O2 here)
		otherCount := l.OtherCount(s)
		ownV := own // == l.O2
		idx := 1
		for k := 0; k < otherCount; k++ {
			order[idx] = 1 + ownV + k
			idx++
		}
		for k := 0; k < ownV; k++ {
			order[idx] = 1 + k
			idx++
		}
		permuted, err := reduced.Permute(order)
		if err != nil {
			return nil, err
		}
		reduced = permuted
	}

	return &Zone{Dim: reduced.N(), D: reduced}, nil
}

// deleteRowsCols returns a new DBM keeping only the rows/columns listed
// in keep (in the given order), after d has already been tightened.
func deleteRowsCols(d *dbm.DBM, keep []int) *dbm.DBM {
	n := len(keep)
	raw := make([]dbm.Bound, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			raw[i*n+j] = d.At(keep[i], keep[j])
		}
	}
	return dbm.FromRaw(n, raw)
}

// GenerateSynchronizedZones lifts a virtual constraint vc (dimension
// l.VirtualDim()) into the pair of full zones in which both sides are
// virtually equivalent to vc and, on each side, every original clock
// equals its own virtual mirror (xi == xi+own for the side's own block).
func GenerateSynchronizedZones(vc *Zone, l Layout) (left, right *Zone, err error) {
	if vc.Dim != l.VirtualDim() {
		return nil, nil, ErrDimensionMismatch
	}
	left, err = liftSide(vc, l, Left)
	if err != nil {
		return nil, nil, err
	}
	right, err = liftSide(vc, l, Right)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func liftSide(vc *Zone, l Layout, s Side) (*Zone, error) {
	own := l.OwnCount(s)
	full := l.FullDim(s)
	d := dbm.Universal(full)

	// Map canonical virtual index (0=ref, 1..o1=A-block, o1+1..o1+o2=
	// B-block) to this side's native full-dim index.
	//
	// Left's native virtual block is already [own-mirror(o1)=A,
	// other-mirror(o2)=B] starting at own+1, so canonical k -> own+k.
	//
	// Right's native virtual block is [own-mirror(o2)=B, other-mirror(o1)
	// =A] starting at own+1, so the A canonical block (1..o1) lands at
	// 2*own+1.. and the B canonical block (o1+1..o1+o2) lands at own+1..
	virtIndex := make([]int, l.VirtualDim())
	virtIndex[0] = 0
	if s == Left {
		for k := 1; k <= l.O1+l.O2; k++ {
			virtIndex[k] = own + k
		}
	} else {
		for k := 1; k <= l.O1; k++ { // canonical A-block
			virtIndex[k] = 2*own + k
		}
		for m := 1; m <= l.O2; m++ { // canonical B-block
			virtIndex[l.O1+m] = own + m
		}
	}

	// Copy vc's constraints onto the virtual-mirror sub-block.
	for i := 0; i < vc.Dim; i++ {
		for j := 0; j < vc.Dim; j++ {
			b := vc.D.At(i, j)
			di, dj := virtIndex[i], virtIndex[j]
			if boundLeq(b, d.At(di, dj)) {
				d.SetRaw(di, dj, b)
			}
		}
	}

	// Tie each original clock to its own virtual mirror: xi == x(own+i).
	for i := 1; i <= own; i++ {
		mirror := own + i
		d.SetRaw(i, mirror, dbm.Zero)
		d.SetRaw(mirror, i, dbm.Zero)
	}

	if err := d.Tighten(); err != nil {
		return nil, ErrEmptyZone
	}
	return &Zone{Dim: full, D: d}, nil
}
