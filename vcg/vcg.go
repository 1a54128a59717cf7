// SPDX-License-Identifier: MIT
package vcg

import (
	"errors"
	"sort"

	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/zone"
)

// Sentinel errors for vcg package operations.
var (
	// ErrNoInitialLocation indicates a Process has no valid Initial index.
	ErrNoInitialLocation = errors.New("vcg: invalid initial location")

	// ErrGuardUnsatisfiable indicates applying a guard produced an empty zone.
	ErrGuardUnsatisfiable = errors.New("vcg: guard unsatisfiable")
)

// SymbolicState is one node of a VCG's explored state space: a location
// per process, an (unused by this reference implementation, but carried
// per spec's data model) integer-variable valuation, and a zone over the
// side's full (original + virtual-mirror) clock space.
type SymbolicState struct {
	LocVec []int
	IntVal map[string]int
	Z      *zone.Zone
}

// TransitionInfo names the vedge (the tuple of per-process edge labels
// selected, in increasing process-index order) that produced a successor.
type TransitionInfo struct {
	VEdge []string
}

// Successor pairs a reachable target state with the transition that
// reaches it.
type Successor struct {
	Target     SymbolicState
	Transition TransitionInfo
}

// VCG is the syncprod / Virtual Clock Graph transition system interface
// spec §4.4 requires of the bisimulation core's collaborator.
type VCG interface {
	Initial() []SymbolicState
	NextWithSymbol(src SymbolicState, event string) ([]Successor, error)
	AvailEvents(src SymbolicState) map[string]bool
	CloneState(s SymbolicState) SymbolicState
	NumOriginalClocks() int
	NumVirtualClocks() int
	System() *System
	Delay(d *dbm.DBM, inv *dbm.DBM) error
	DelayAllowed(locVec []int) bool
	Invariant(locVec []int) (*dbm.DBM, error)
	// EventGuards returns the conjunction of guards contributed by every
	// participating process's (first matching) edge for event at
	// locVec, or ok=false if the event is not structurally enabled
	// there. Used by the bisimulation core to test guard-threshold
	// divergence against the other side's mirrored clocks within a
	// single joint zone, rather than only comparing post-reset states.
	EventGuards(locVec []int, event string) (guards []Guard, ok bool)
	Layout() zone.Layout
	Side() zone.Side
}

// graph is the reference VCG implementation over an in-memory System.
type graph struct {
	sys    *System
	layout zone.Layout
	side   zone.Side
}

// New builds a VCG over sys for the given side, with layout describing
// both sides' original clock counts (so the virtual mirror block can be
// sized per zone.Layout).
func New(sys *System, layout zone.Layout, side zone.Side) VCG {
	return &graph{sys: sys, layout: layout, side: side}
}

func (g *graph) Layout() zone.Layout    { return g.layout }
func (g *graph) Side() zone.Side        { return g.side }
func (g *graph) System() *System        { return g.sys }
func (g *graph) NumOriginalClocks() int { return g.layout.OwnCount(g.side) }
func (g *graph) NumVirtualClocks() int  { return g.layout.O1 + g.layout.O2 }

func (g *graph) fullDim() int { return g.layout.FullDim(g.side) }

// Delay exposes the VCG's own dbm.Delay (future-closure then intersect
// with inv); a thin wrapper so callers need not import dbm directly just
// to drive the semantics the interface promises.
func (g *graph) Delay(d *dbm.DBM, inv *dbm.DBM) error { return d.Delay(inv) }

// Invariant exposes invariantDBM to callers outside the package (the
// bisimulation core needs it to re-intersect after a delay closure).
func (g *graph) Invariant(locVec []int) (*dbm.DBM, error) { return g.invariantDBM(locVec) }

// invariantDBM builds the conjunction of every process's current
// location's invariant guards into a DBM of the VCG's full dimension.
func (g *graph) invariantDBM(locVec []int) (*dbm.DBM, error) {
	d := dbm.Universal(g.fullDim())
	for pi, li := range locVec {
		loc := g.sys.Processes[pi].Locations[li]
		for _, gd := range loc.Invariant {
			if err := applyGuard(d, gd); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// applyGuard intersects guard gd into d (clock index gd.Clock, 1-based
// into the original-clock block, which always starts at index 1).
func applyGuard(d *dbm.DBM, gd Guard) error {
	if gd.Lower {
		// clock >= bound  <=>  0 - clock <= -bound
		return d.Constrain(0, gd.Clock, -gd.Bound, gd.Strict)
	}
	// clock <= bound <=> clock - 0 <= bound
	return d.Constrain(gd.Clock, 0, gd.Bound, gd.Strict)
}

// DelayAllowed reports whether every process in locVec permits time to
// pass (no process sits in an urgent location).
func (g *graph) DelayAllowed(locVec []int) bool {
	for pi, li := range locVec {
		if g.sys.Processes[pi].Locations[li].Urgent {
			return false
		}
	}
	return true
}

// Initial returns the network's single initial symbolic state: every
// process at its Initial location, every original clock (and its virtual
// mirror) pinned to 0, intersected with the initial invariant.
func (g *graph) Initial() []SymbolicState {
	locVec := make([]int, len(g.sys.Processes))
	for i, p := range g.sys.Processes {
		locVec[i] = p.Initial
	}
	d := dbm.Universal(g.fullDim())
	own := g.layout.OwnCount(g.side)
	for i := 1; i <= own; i++ {
		if err := d.Reset(i); err != nil {
			return nil
		}
		if err := d.Reset(own + i); err != nil { // virtual mirror of own clock i
			return nil
		}
	}
	inv, err := g.invariantDBM(locVec)
	if err != nil {
		return nil
	}
	if err := d.Intersect(inv); err != nil {
		return nil
	}
	z := &zone.Zone{Dim: g.fullDim(), D: d}
	return []SymbolicState{{LocVec: locVec, IntVal: map[string]int{}, Z: z}}
}

// CloneState returns an independent deep copy of s.
func (g *graph) CloneState(s SymbolicState) SymbolicState {
	loc := make([]int, len(s.LocVec))
	copy(loc, s.LocVec)
	iv := make(map[string]int, len(s.IntVal))
	for k, v := range s.IntVal {
		iv[k] = v
	}
	return SymbolicState{LocVec: loc, IntVal: iv, Z: s.Z.Clone()}
}

// AvailEvents returns the set of synchronization-vector names for which
// at least one successor is reachable from src -- zone-sensitive, since
// a guard can be structurally present on every participating process yet
// unsatisfiable by src's current zone (this is what distinguishes, e.g.,
// "x >= 1" from "x >= 2" before either becomes a delay mismatch).
func (g *graph) AvailEvents(src SymbolicState) map[string]bool {
	out := map[string]bool{}
	for _, sv := range g.sys.SyncVectors {
		if !g.syncVectorEnabled(src, sv) {
			continue
		}
		succ, err := g.NextWithSymbol(src, sv.Name)
		if err == nil && len(succ) > 0 {
			out[sv.Name] = true
		}
	}
	return out
}

// EventGuards collects, for the sync vector named event, the guard
// conjunction of the first matching edge per participating process.
func (g *graph) EventGuards(locVec []int, event string) ([]Guard, bool) {
	var sv *SyncVector
	for i := range g.sys.SyncVectors {
		if g.sys.SyncVectors[i].Name == event {
			sv = &g.sys.SyncVectors[i]
			break
		}
	}
	if sv == nil {
		return nil, false
	}
	var guards []Guard
	for pi, label := range sv.Labels {
		if pi >= len(locVec) {
			return nil, false
		}
		found := false
		for _, e := range g.sys.Processes[pi].Edges {
			if e.From == locVec[pi] && e.Label == label {
				guards = append(guards, e.Guard...)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return guards, true
}

func (g *graph) syncVectorEnabled(src SymbolicState, sv SyncVector) bool {
	for pi, label := range sv.Labels {
		if pi >= len(src.LocVec) {
			return false
		}
		if !processHasEdge(g.sys.Processes[pi], src.LocVec[pi], label) {
			return false
		}
	}
	return true
}

func processHasEdge(p Process, locIdx int, label string) bool {
	for _, e := range p.Edges {
		if e.From == locIdx && e.Label == label {
			return true
		}
	}
	return false
}

// choice is one candidate edge for one participating process of a fired
// synchronization vector.
type choice struct {
	proc  int
	label string
	edge  Edge
}

// NextWithSymbol enumerates every successor reachable by firing event
// (a synchronization-vector name) from src.
func (g *graph) NextWithSymbol(src SymbolicState, event string) ([]Successor, error) {
	var sv *SyncVector
	for i := range g.sys.SyncVectors {
		if g.sys.SyncVectors[i].Name == event {
			sv = &g.sys.SyncVectors[i]
			break
		}
	}
	if sv == nil {
		return nil, nil
	}
	if !g.syncVectorEnabled(src, *sv) {
		return nil, nil
	}

	order := make([]int, 0, len(sv.Labels))
	for pi := range sv.Labels {
		order = append(order, pi)
	}
	sort.Ints(order)

	perProc := make([][]choice, 0, len(order))
	for _, pi := range order {
		label := sv.Labels[pi]
		var opts []choice
		for _, e := range g.sys.Processes[pi].Edges {
			if e.From == src.LocVec[pi] && e.Label == label {
				opts = append(opts, choice{proc: pi, label: label, edge: e})
			}
		}
		perProc = append(perProc, opts)
	}

	var successors []Successor
	var rec func(depth int, locVec []int, chosen []choice, vedge []string) error
	rec = func(depth int, locVec []int, chosen []choice, vedge []string) error {
		if depth == len(perProc) {
			z, err := g.buildSuccessorZone(src, locVec, chosen)
			if err != nil {
				return nil // unsatisfiable successor, simply not produced
			}
			target := g.CloneState(SymbolicState{LocVec: locVec, IntVal: src.IntVal, Z: z})
			vcopy := make([]string, len(vedge))
			copy(vcopy, vedge)
			successors = append(successors, Successor{Target: target, Transition: TransitionInfo{VEdge: vcopy}})
			return nil
		}
		for _, c := range perProc[depth] {
			nextLoc := append([]int{}, locVec...)
			nextLoc[c.proc] = c.edge.To
			nextChosen := append([]choice{}, chosen...)
			nextChosen = append(nextChosen, c)
			nextVedge := append(append([]string{}, vedge...), c.label)
			if err := rec(depth+1, nextLoc, nextChosen, nextVedge); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rec(0, append([]int{}, src.LocVec...), nil, nil); err != nil {
		return nil, err
	}
	return successors, nil
}

// buildSuccessorZone applies exactly the guard of each chosen edge (the
// edge actually selected for its process by the sync-vector label, not a
// re-scan by (From, To) alone -- two edges between the same pair of
// locations under different labels must not be conflated), resets the
// listed clocks (mirroring each reset onto the clock's virtual twin,
// since spec §4.7 synchronizes twins by resets only), then intersects
// with the target location vector's invariant.
func (g *graph) buildSuccessorZone(src SymbolicState, targetLoc []int, chosen []choice) (*zone.Zone, error) {
	d := src.Z.D.Copy()

	own := g.layout.OwnCount(g.side)
	for _, c := range chosen {
		for _, gd := range c.edge.Guard {
			if err := applyGuard(d, gd); err != nil {
				return nil, ErrGuardUnsatisfiable
			}
		}
		for _, ci := range c.edge.Resets {
			if err := d.Reset(ci); err != nil {
				return nil, ErrGuardUnsatisfiable
			}
			if ci >= 1 && ci <= own {
				if err := d.Reset(own + ci); err != nil {
					return nil, ErrGuardUnsatisfiable
				}
			}
		}
	}

	inv, err := g.invariantDBM(targetLoc)
	if err != nil {
		return nil, err
	}
	if err := d.Intersect(inv); err != nil {
		return nil, ErrGuardUnsatisfiable
	}
	return &zone.Zone{Dim: g.fullDim(), D: d}, nil
}
