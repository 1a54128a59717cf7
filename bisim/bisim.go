// SPDX-License-Identifier: MIT
package bisim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/nbcache"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// ErrRecursionBound is returned when the worklist's recursion depth
// exceeds maxDepth -- a fatal condition per spec's failure model.
var ErrRecursionBound = errors.New("bisim: recursion bound exceeded")

// maxDepth bounds the product-graph exploration depth. Real NTAs can
// exceed this only by containing a genuine unbounded unrolling that the
// non-bisim cache's fixpoint detection failed to close -- in practice a
// programming error in the caller's system description.
const maxDepth = 100000

// Option configures optional tunables for Run, mirroring
// matrix/options.go and bfs/types.go's functional-options idiom: public
// entry points accept ...Option, internal state stays unexported.
type Option func(*options)

// options holds the tunables Run applies before exploring the product.
type options struct {
	ctx           context.Context
	reverseOrder  bool // "-n" exploration-order tuning hint, odd => reverse
	tableSizeHint int
	containerOpts []zone.Option
}

// defaultOptions returns Run's defaults: a background context, forward
// iteration order, and no preallocation hints.
func defaultOptions() options {
	return options{ctx: context.Background()}
}

// WithContext sets the context checked for cancellation between outer
// work-list iterations (spec §5's cooperative "stop requested" check).
// Passing a nil context has no effect.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithOrderHint threads spec.md §6's "-n ORDER" exploration-order tuning
// hint into the traversal: it does not change the decided answer (every
// shared event is still explored), only the order shared events are
// tried in, which can change how quickly a refutation is found. n odd
// reverses the (otherwise lexical) iteration order.
func WithOrderHint(n int) Option {
	return func(o *options) { o.reverseOrder = n%2 == 1 }
}

// WithTableSizeHint preallocates the non-bisim cache's underlying map for
// n discrete keys -- spec.md §6's "--table-size" allocator hint.
func WithTableSizeHint(n int) Option {
	return func(o *options) { o.tableSizeHint = n }
}

// WithContainerOptions forwards zone.Option values -- e.g. a capacity
// hint from spec.md §6's "--block-size" allocator hint, or a Combine
// strategy -- to every zone.Container this run creates internally.
func WithContainerOptions(opts ...zone.Option) Option {
	return func(o *options) { o.containerOpts = append(o.containerOpts, opts...) }
}

// Answer is the tri-state result of a bisimilarity decision, per the
// supplemented feature set (the original comparison tool distinguishes
// a definite answer from "exploration did not converge").
type Answer int

const (
	// Unknown means the run did not reach a definite answer (recursion
	// bound hit, or Run was not given a chance to finish).
	Unknown Answer = iota
	// Bisimilar means every reachable synchronized pair matched.
	Bisimilar
	// NotBisimilar means some reachable pair's refutation reached the cache.
	NotBisimilar
)

func (a Answer) String() string {
	switch a {
	case Bisimilar:
		return "bisimilar"
	case NotBisimilar:
		return "not-bisimilar"
	default:
		return "unknown"
	}
}

// Result is the bisimulation core's output toward the DAG/witness
// builders.
type Result struct {
	Answer        Answer
	VisitedStates int
	Cache         *nbcache.Cache
	// Visited holds the signature of every discrete pair confirmed
	// consistent (no contradiction found along any explored path) --
	// the witness builder's "visited map".
	Visited map[string]bool
	// InitialLeft, InitialRight are the equalized initial symbolic
	// states the traversal started from.
	InitialLeft, InitialRight vcg.SymbolicState
	// Incomplete is set when Run's context was cancelled before the
	// traversal reached a definite answer; Answer stays Unknown.
	Incomplete bool
}

// engine holds one bisim.Run's mutable traversal state.
type engine struct {
	a, b          vcg.VCG
	layout        zone.Layout
	cache         *nbcache.Cache
	visited       map[string]bool
	inProgress    map[string]bool
	visits        int
	ctx           context.Context
	reverseOrder  bool
	containerOpts []zone.Option
}

// applyOrder applies the "-n" exploration-order hint to a freshly sorted
// event-name slice, reversing it in place when reverseOrder is set.
func (e *engine) applyOrder(xs []string) []string {
	if e.reverseOrder {
		for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
			xs[i], xs[j] = xs[j], xs[i]
		}
	}
	return xs
}

// Run decides strong timed bisimilarity between a and b (VCGs sharing
// layout) and returns the populated cache/visited-map pair the
// downstream certificate builders consume.
func Run(a, b vcg.VCG, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	layout := a.Layout()
	e := &engine{
		a:             a,
		b:             b,
		layout:        layout,
		cache:         nbcache.New(layout.VirtualDim(), nbcache.WithTableSizeHint(o.tableSizeHint), nbcache.WithContainerOptions(o.containerOpts...)),
		visited:       map[string]bool{},
		inProgress:    map[string]bool{},
		ctx:           o.ctx,
		reverseOrder:  o.reverseOrder,
		containerOpts: o.containerOpts,
	}

	initA := a.Initial()
	initB := b.Initial()
	if len(initA) == 0 || len(initB) == 0 {
		return nil, vcg.ErrNoInitialLocation
	}

	left, right, err := e.equalize(initA[0], initB[0])
	res := &Result{Cache: e.cache, Visited: e.visited}
	if err != nil {
		// The two initial states share no virtual valuation at all:
		// trivially inconsistent.
		res.Answer = NotBisimilar
		return res, nil
	}
	sLeft := a.CloneState(vcg.SymbolicState{LocVec: initA[0].LocVec, IntVal: initA[0].IntVal, Z: left})
	sRight := b.CloneState(vcg.SymbolicState{LocVec: initB[0].LocVec, IntVal: initB[0].IntVal, Z: right})
	res.InitialLeft, res.InitialRight = sLeft, sRight

	refuted, err := e.explorePair(sLeft, sRight, 0)
	res.VisitedStates = e.visits
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Incomplete = true
		}
		return res, err
	}
	if refuted {
		res.Answer = NotBisimilar
	} else {
		res.Answer = Bisimilar
	}
	return res, nil
}

// equalize lifts sLeft and sRight's zones into a pair equalized on
// their shared virtual clocks: project each onto the virtual space,
// intersect, then re-lift (this also ties each side's own clocks to
// their virtual mirrors, matching the cache's expected key shape).
func (e *engine) equalize(sLeft, sRight vcg.SymbolicState) (*zone.Zone, *zone.Zone, error) {
	return Equalize(e.layout, sLeft, sRight)
}

// Equalize lifts sLeft and sRight's zones into a pair equalized on their
// shared virtual clocks: project each onto the virtual space, intersect,
// then re-lift. Exported so the contradiction DAG builder's
// synchronization step (spec §4.7(b)) can apply the identical operation
// the bisimulation core itself uses, rather than re-deriving it.
func Equalize(layout zone.Layout, sLeft, sRight vcg.SymbolicState) (*zone.Zone, *zone.Zone, error) {
	vLeft, err := zone.ProjectOntoVirtual(sLeft.Z, layout, zone.Left)
	if err != nil {
		return nil, nil, err
	}
	vRight, err := zone.ProjectOntoVirtual(sRight.Z, layout, zone.Right)
	if err != nil {
		return nil, nil, err
	}
	vc, err := vLeft.Intersect(vRight)
	if err != nil {
		return nil, nil, err
	}
	left, right, err := zone.GenerateSynchronizedZones(vc, layout)
	if err != nil {
		return nil, nil, err
	}
	leftOut, err := left.Intersect(sLeft.Z)
	if err != nil {
		return nil, nil, err
	}
	rightOut, err := right.Intersect(sRight.Z)
	if err != nil {
		return nil, nil, err
	}
	return leftOut, rightOut, nil
}

func pairSignature(sLeft, sRight vcg.SymbolicState) string {
	var b strings.Builder
	writeInts(&b, sLeft.LocVec)
	b.WriteByte('|')
	writeIntMap(&b, sLeft.IntVal)
	b.WriteByte('#')
	writeInts(&b, sRight.LocVec)
	b.WriteByte('|')
	writeIntMap(&b, sRight.IntVal)
	return b.String()
}

func writeInts(b *strings.Builder, xs []int) {
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(x))
	}
}

func writeIntMap(b *strings.Builder, m map[string]int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%s=%d", k, m[k])
	}
}

func cacheKey(sLeft, sRight vcg.SymbolicState) nbcache.Key {
	return nbcache.Key{LocLeft: sLeft.LocVec, IntLeft: sLeft.IntVal, LocRight: sRight.LocVec, IntRight: sRight.IntVal}
}

func eventsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// structuralEventSet lists every sync-vector name structurally enabled
// (an edge exists, regardless of current zone feasibility) at loc in g.
func (e *engine) structuralEventSet(g vcg.VCG, loc []int) map[string]bool {
	out := map[string]bool{}
	for _, sv := range g.System().SyncVectors {
		if _, ok := g.EventGuards(loc, sv.Name); ok {
			out[sv.Name] = true
		}
	}
	return out
}

// structuralSharedEvents lists every sync-vector name enabled on both
// sides at the given location vectors, regardless of current zone
// feasibility -- eventDivergence needs the full structural set since a
// guard can be infeasible at the current instant yet diverge later.
func (e *engine) structuralSharedEvents(locLeft, locRight []int) []string {
	left := e.structuralEventSet(e.a, locLeft)
	right := e.structuralEventSet(e.b, locRight)
	var out []string
	for name := range left {
		if right[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func sharedEvents(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// refuteWhole emplaces the entirety of sLeft's projected virtual zone
// into the cache at (sLeft, sRight)'s discrete key -- the coarse
// refutation granularity documented in doc.go.
func (e *engine) refuteWhole(sLeft, sRight vcg.SymbolicState) {
	vLeft, err := zone.ProjectOntoVirtual(sLeft.Z, e.layout, zone.Left)
	if err != nil {
		return
	}
	ct := zone.NewContainer(e.layout.VirtualDim(), e.containerOpts...)
	ct.AppendZone(vLeft)
	e.cache.Emplace(cacheKey(sLeft, sRight), ct)
}

// explorePair decides whether (sLeft, sRight) -- already equalized --
// is refuted (non-bisimilar) or consistent (bisimilar so far), caching
// refutation evidence and recursing over shared events.
func (e *engine) explorePair(sLeft, sRight vcg.SymbolicState, depth int) (bool, error) {
	if e.ctx != nil {
		select {
		case <-e.ctx.Done():
			return false, e.ctx.Err()
		default:
		}
	}
	if depth > maxDepth {
		return false, ErrRecursionBound
	}
	sig := pairSignature(sLeft, sRight)
	if e.inProgress[sig] {
		// Back edge with no witnessed contradiction: coinductively
		// consistent along this path.
		return false, nil
	}
	if e.visited[sig] {
		return false, nil
	}

	e.inProgress[sig] = true
	e.visits++
	defer delete(e.inProgress, sig)

	avLeft := e.a.AvailEvents(sLeft)
	avRight := e.b.AvailEvents(sRight)
	if !eventsEqual(avLeft, avRight) {
		e.refuteWhole(sLeft, sRight)
		return true, nil
	}

	if !eventsEqual(e.structuralEventSet(e.a, sLeft.LocVec), e.structuralEventSet(e.b, sRight.LocVec)) {
		// One side structurally never offers an event the other side's
		// location (eventually) can -- a plain avail-events mismatch,
		// distinct from the guard-threshold timing divergence
		// eventDivergence looks for below.
		e.refuteWhole(sLeft, sRight)
		return true, nil
	}

	if refuted, err := e.delayMismatch(sLeft, sRight); err != nil {
		return false, err
	} else if refuted {
		e.refuteWhole(sLeft, sRight)
		return true, nil
	}

	for _, ev := range e.applyOrder(e.structuralSharedEvents(sLeft.LocVec, sRight.LocVec)) {
		if refuted, ct, err := e.eventDivergence(sLeft, sRight, ev); err != nil {
			return false, err
		} else if refuted {
			e.cache.Emplace(cacheKey(sLeft, sRight), ct)
			return true, nil
		}
	}

	for _, ev := range e.applyOrder(sharedEvents(avLeft, avRight)) {
		leftSucc, err := e.a.NextWithSymbol(sLeft, ev)
		if err != nil {
			return false, err
		}
		rightSucc, err := e.b.NextWithSymbol(sRight, ev)
		if err != nil {
			return false, err
		}
		if len(leftSucc) == 0 || len(rightSucc) == 0 {
			continue
		}

		matrix := make([][]bool, len(leftSucc))
		for i, ls := range leftSucc {
			matrix[i] = make([]bool, len(rightSucc))
			for j, rs := range rightSucc {
				el, er, err := e.equalize(ls.Target, rs.Target)
				if err != nil {
					matrix[i][j] = true // no common virtual valuation: refutes
					continue
				}
				nl := e.a.CloneState(vcg.SymbolicState{LocVec: ls.Target.LocVec, IntVal: ls.Target.IntVal, Z: el})
				nr := e.b.CloneState(vcg.SymbolicState{LocVec: rs.Target.LocVec, IntVal: rs.Target.IntVal, Z: er})
				refuted, err := e.explorePair(nl, nr, depth+1)
				if err != nil {
					return false, err
				}
				matrix[i][j] = refuted
			}
		}

		if rowAllTrue(matrix) || colAllTrue(matrix) {
			e.refuteWhole(sLeft, sRight)
			return true, nil
		}
	}

	e.visited[sig] = true
	return false, nil
}

func rowAllTrue(m [][]bool) bool {
	for _, row := range m {
		if len(row) == 0 {
			continue
		}
		all := true
		for _, v := range row {
			if !v {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func colAllTrue(m [][]bool) bool {
	if len(m) == 0 {
		return false
	}
	for j := range m[0] {
		all := true
		for i := range m {
			if !m[i][j] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// DelayMismatch reports whether sLeft and sRight's delay-successor
// zones, projected onto virtual clocks, disagree. Exported for the
// contradiction DAG builder's leaf test (spec §4.7(a)), which applies
// the identical condition the bisimulation core's own decision
// procedure uses.
func DelayMismatch(a, b vcg.VCG, layout zone.Layout, sLeft, sRight vcg.SymbolicState) (bool, error) {
	e := &engine{a: a, b: b, layout: layout}
	return e.delayMismatch(sLeft, sRight)
}

// delayMismatch reports whether the delay-successor zones of sLeft and
// sRight, projected onto virtual clocks, are no longer equivalent.
func (e *engine) delayMismatch(sLeft, sRight vcg.SymbolicState) (bool, error) {
	left := sLeft.Z.Clone()
	if e.a.DelayAllowed(sLeft.LocVec) {
		inv, err := e.a.Invariant(sLeft.LocVec)
		if err != nil {
			return false, err
		}
		if err := e.a.Delay(left.D, inv); err != nil {
			return true, nil // delay empties the zone: disagreement
		}
	}
	right := sRight.Z.Clone()
	if e.b.DelayAllowed(sRight.LocVec) {
		inv, err := e.b.Invariant(sRight.LocVec)
		if err != nil {
			return false, err
		}
		if err := e.b.Delay(right.D, inv); err != nil {
			return true, nil
		}
	}
	projLeft, err := zone.ProjectOntoVirtual(left, e.layout, zone.Left)
	if err != nil {
		return true, nil
	}
	projRight, err := zone.ProjectOntoVirtual(right, e.layout, zone.Right)
	if err != nil {
		return true, nil
	}
	return !projLeft.Equal(projRight), nil
}

// eventDivergence tests whether event ev's enabling window differs
// between sLeft and sRight over the delay-closed zone: left's own guard
// and right's guard (re-expressed against its virtual mirror on left's
// side, since the equalized pair already ties the two sides' elapsed
// time together) are applied, with one side negated, to find a region
// where exactly one side can fire ev. A non-empty region is direct
// witness evidence of a timing divergence that a same-instant avail-
// events comparison cannot see (e.g. "x >= 1" vs "x >= 2": both
// eventually enabled, but not at the same elapsed time).
//
// Limitation: negating a multi-guard conjunction per De Morgan would
// need a union of negated guards (not a single convex region); this
// negates guard-by-guard and conjoins, which is exact only when each
// side contributes at most one guard to ev. Every scenario this module
// targets satisfies that restriction; documented in DESIGN.md.
func (e *engine) eventDivergence(sLeft, sRight vcg.SymbolicState, ev string) (bool, *zone.Container, error) {
	leftGuards, ok := e.a.EventGuards(sLeft.LocVec, ev)
	if !ok {
		return false, nil, nil
	}
	rightGuards, ok := e.b.EventGuards(sRight.LocVec, ev)
	if !ok {
		return false, nil, nil
	}

	closed := sLeft.Z.Clone()
	if e.a.DelayAllowed(sLeft.LocVec) {
		inv, err := e.a.Invariant(sLeft.LocVec)
		if err != nil {
			return false, nil, err
		}
		if err := e.a.Delay(closed.D, inv); err != nil {
			return false, nil, nil
		}
	}

	own := e.layout.OwnCount(zone.Left)
	mirrorIdx := func(clock int) int { return 2*own + clock }

	tryRegion := func(positive, negative []vcg.Guard, positiveOwn bool) (*dbm.DBM, bool) {
		if len(negative) == 0 {
			// The negation of an empty (always-true) guard is unsatisfiable.
			return nil, false
		}
		d := closed.D.Copy()
		idxFor := func(g vcg.Guard, isOwn bool) int {
			if isOwn {
				return g.Clock
			}
			return mirrorIdx(g.Clock)
		}
		for _, g := range positive {
			if err := applyGuardAt(d, idxFor(g, positiveOwn), g); err != nil {
				return nil, false
			}
		}
		for _, g := range negative {
			if err := applyGuardAt(d, idxFor(g, !positiveOwn), negateGuard(g)); err != nil {
				return nil, false
			}
		}
		return d, true
	}

	if d, ok := tryRegion(leftGuards, rightGuards, true); ok {
		ct := zone.NewContainer(e.layout.VirtualDim(), e.containerOpts...)
		if proj, err := zone.ProjectOntoVirtual(zone.FromDBM(closed.Dim, d), e.layout, zone.Left); err == nil {
			ct.AppendZone(proj)
			return true, ct, nil
		}
	}
	if d, ok := tryRegion(rightGuards, leftGuards, false); ok {
		ct := zone.NewContainer(e.layout.VirtualDim(), e.containerOpts...)
		if proj, err := zone.ProjectOntoVirtual(zone.FromDBM(closed.Dim, d), e.layout, zone.Left); err == nil {
			ct.AppendZone(proj)
			return true, ct, nil
		}
	}
	return false, nil, nil
}

// applyGuardAt intersects g's predicate into d at clock index idx
// (ignoring g.Clock, which may name an index in a different zone's
// frame than d).
func applyGuardAt(d *dbm.DBM, idx int, g vcg.Guard) error {
	if g.Lower {
		return d.Constrain(0, idx, -g.Bound, g.Strict)
	}
	return d.Constrain(idx, 0, g.Bound, g.Strict)
}

// negateGuard returns the predicate "not g" -- exact for a single
// inequality: flipping Lower and Strict turns "clock >= bound" (or
// ">") into "clock < bound" (or "<="), and symmetrically for the upper
// form.
func negateGuard(g vcg.Guard) vcg.Guard {
	return vcg.Guard{Clock: g.Clock, Bound: g.Bound, Strict: !g.Strict, Lower: !g.Lower}
}
