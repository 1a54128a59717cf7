// Package zone wraps dbm.DBM with the dimension it was built for and adds
// the virtual-clock projection and zone-container operations spec'd for
// the bisimulation layer.
//
// What:
//
//   - Zone: (dim, *dbm.DBM) pair. IsUniversal, IsEmpty, Contains, Intersect,
//     Le (subset), Hash.
//   - Side / clock layout: a synchronized pair's valuation carries, per
//     side, its own original clocks, a virtual mirror of its own
//     originals, and a virtual mirror of the other side's originals (see
//     "Clock layout" below) -- this is the layout the contradiction
//     builder's node invariant in spec §4.7 requires.
//   - ProjectOntoVirtual: existentially eliminate a side's original
//     clocks, returning the shared virtual-constraint zone in the
//     canonical cross-side clock order.
//   - GenerateSynchronizedZones: the inverse lift, producing the pair of
//     full zones for a virtual constraint.
//   - Container: an unordered union of zones (or virtual constraints)
//     with Compress and Combine.
//
// Clock layout (a design decision spec §9's open questions leave to the
// implementer -- see DESIGN.md):
//
//	virtual space size V = o1 + o2 (shared by both sides)
//	left  zone dim = 1 + o1 + V  =  1 + 2*o1 + o2
//	   indices: 0 = ref
//	            1..o1            = left originals
//	            o1+1..2*o1       = left virtual mirror of its own originals
//	            2*o1+1..2*o1+o2  = left virtual mirror of the right's originals
//	right zone dim = 1 + o2 + V  =  1 + 2*o2 + o1
//	   indices: 0 = ref
//	            1..o2            = right originals
//	            o2+1..2*o2       = right virtual mirror of its own originals
//	            2*o2+1..2*o2+o1  = right virtual mirror of the left's originals
//
// No urgent-clock slot is allocated in either zone.
//
// The canonical virtual order (used for comparing the two sides'
// projections) is always [o1 A-clocks, o2 B-clocks]; left's virtual block
// already appears in that order, right's must be permuted (its own-mirror
// block of size o2 comes first in right's layout and must be moved after
// the o1-sized other-mirror block).
package zone
