// SPDX-License-Identifier: MIT
package contradiction

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/clockval"
	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/maxdelay"
	"github.com/tck-go/tbisim/nbcache"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// Option configures optional tunables for Build, mirroring
// dfs/topological.go's TopoOption idiom.
type Option func(*options)

// options holds Build's tunables.
type options struct {
	ctx context.Context
}

// defaultOptions returns Build's defaults: a background context.
func defaultOptions() options {
	return options{ctx: context.Background()}
}

// WithContext sets the context checked for cancellation between
// resolveNode's recursive steps (spec §5's cooperative "stop requested"
// check). Passing a nil context has no effect.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// builder holds one Build call's mutable state.
type builder struct {
	a, b   vcg.VCG
	layout zone.Layout
	cache  *nbcache.Cache
	dag    *DAG
	ctx    context.Context

	// byLocPair maps a node's location-pair signature to its index,
	// for the action step's merge-by-location-pair-equality rule. The
	// cycle check uses onPath, not this map.
	byLocPair map[string]int
	// onPath marks the location-pair signatures of every ancestor
	// still being resolved on the current recursive descent -- a back
	// reference to one of these is a genuine cycle, not a legitimate
	// DAG merge.
	onPath map[string]bool
	// delayed tracks (location-pair, valuation) signatures already
	// produced by the delay step, since a delay step's target shares
	// its parent's location pair by construction and so cannot be
	// deduplicated by location pair alone.
	delayed map[string]bool
}

// ErrNoCertificate is not returned by Build (which signals the same
// condition via ok == false, err == nil per spec §7's "cycle in
// contradiction builder" being non-fatal to the overall verdict); it is
// exposed for callers (the CLI driver) that want a single formatted
// message for that outcome.
var ErrNoCertificate = fmt.Errorf("contradiction: no finite certificate (cycle detected)")

// Build assembles the contradiction DAG witnessing a "not bisimilar"
// verdict, given the populated cache and the equalized initial pair
// bisim.Run produced. ok is false (with a nil error) exactly when no
// finite certificate exists; callers must not treat that as bisimilarity
// evidence, since the cache already decided otherwise.
func Build(a, b vcg.VCG, cache *nbcache.Cache, initLeft, initRight vcg.SymbolicState, opts ...Option) (*DAG, bool, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	layout := a.Layout()
	bd := &builder{
		a: a, b: b, layout: layout, cache: cache, ctx: o.ctx,
		dag:       &DAG{},
		byLocPair: map[string]int{},
		onPath:    map[string]bool{},
		delayed:   map[string]bool{},
	}

	root := &Node{
		LocLeft: initLeft.LocVec, LocRight: initRight.LocVec,
		IntLeft: initLeft.IntVal, IntRight: initRight.IntVal,
		ValLeft:     zeroValuation(a.NumOriginalClocks()),
		ValRight:    zeroValuation(b.NumOriginalClocks()),
		InvLeft:     collectInvariants(a, initLeft.LocVec),
		InvRight:    collectInvariants(b, initRight.LocVec),
		UrgentClock: !a.DelayAllowed(initLeft.LocVec) || !b.DelayAllowed(initRight.LocVec),
		IsInitial:   true,
		zLeft:       initLeft.Z,
		zRight:      initRight.Z,
	}
	rootIdx := bd.register(root)
	bd.dag.Root = rootIdx

	ok, err := bd.resolveNode(rootIdx)
	if err != nil {
		return bd.dag, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return bd.dag, true, nil
}

func zeroValuation(numOriginal int) *clockval.Valuation {
	return clockval.NewZero(1 + numOriginal)
}

func collectInvariants(g vcg.VCG, locVec []int) []vcg.Guard {
	var out []vcg.Guard
	sys := g.System()
	for pi, li := range locVec {
		out = append(out, sys.Processes[pi].Locations[li].Invariant...)
	}
	return out
}

// locPairSignature renders the discrete part of a node (location
// vectors plus integer-variable valuations) the same way nbcache.Key and
// bisim's internal signature do -- certificate-node equality per spec's
// data model.
func locPairSignature(n *Node) string {
	var b strings.Builder
	writeInts(&b, n.LocLeft)
	b.WriteByte('|')
	writeIntMap(&b, n.IntLeft)
	b.WriteByte('#')
	writeInts(&b, n.LocRight)
	b.WriteByte('|')
	writeIntMap(&b, n.IntRight)
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

func valuationSignature(v *clockval.Valuation) string {
	var b strings.Builder
	for i, r := range v.Vals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(r.RatString())
	}
	return b.String()
}

// register appends n to the DAG unconditionally and indexes it by
// location pair. Used for the root and by obtainNode for new nodes;
// delay-step targets are appended by tryDelay directly, without
// entering byLocPair.
func (bd *builder) register(n *Node) int {
	idx := len(bd.dag.Nodes)
	n.ID = idx
	bd.dag.Nodes = append(bd.dag.Nodes, n)
	sig := locPairSignature(n)
	if _, exists := bd.byLocPair[sig]; !exists {
		bd.byLocPair[sig] = idx
	}
	return idx
}

// obtainNode applies the action step's merge rule (spec §4.7, "Merging
// sub-DAGs"): a candidate sharing its location pair with a node already
// on the current recursion path is a genuine cycle (cyclic=true); one
// sharing its location pair with an already-registered node elsewhere in
// the DAG is reused in place of creating a duplicate.
func (bd *builder) obtainNode(candidate *Node) (idx int, cyclic bool) {
	sig := locPairSignature(candidate)
	if bd.onPath[sig] {
		return -1, true
	}
	if existing, ok := bd.byLocPair[sig]; ok {
		return existing, false
	}
	return bd.register(candidate), false
}

// resolveNode decides node (already registered) per the main loop: leaf
// test, then (node already synchronized by construction, per doc.go)
// delay step, then action step.
func (bd *builder) resolveNode(idx int) (bool, error) {
	if bd.ctx != nil {
		select {
		case <-bd.ctx.Done():
			bd.dag.Incomplete = true
			return false, bd.ctx.Err()
		default:
		}
	}
	node := bd.dag.Nodes[idx]
	if node.done {
		return node.ok, nil
	}
	sig := locPairSignature(node)
	if bd.onPath[sig] {
		return false, nil
	}
	bd.onPath[sig] = true
	defer delete(bd.onPath, sig)

	isLeaf, fin, err := bd.leafTest(node)
	if err != nil {
		return false, err
	}
	if isLeaf {
		node.Finality = fin
		node.done, node.ok = true, true
		return true, nil
	}

	delayedIdx, amount, ok, err := bd.tryDelay(node)
	if err != nil {
		return false, err
	}
	if ok {
		bd.dag.DelayEdges = append(bd.dag.DelayEdges, DelayEdge{From: idx, To: delayedIdx, Amount: amount})
		// The delayed node shares node's location pair; lift node's own
		// on-path mark while it resolves so it is not taken for a cycle.
		delete(bd.onPath, sig)
		resolved, err := bd.resolveNode(delayedIdx)
		bd.onPath[sig] = true
		node.done, node.ok = true, resolved
		return resolved, err
	}

	resolved, err := bd.actionStep(idx)
	node.done, node.ok = true, resolved
	return resolved, err
}

// leafTest implements spec §4.7(a): a synchronized node (every node this
// builder builds is synchronized per doc.go) is a leaf when its
// delay-closed zones diverge, or else when avail_events differ.
func (bd *builder) leafTest(node *Node) (bool, *Finality, error) {
	sLeft := vcg.SymbolicState{LocVec: node.LocLeft, IntVal: node.IntLeft, Z: node.zLeft}
	sRight := vcg.SymbolicState{LocVec: node.LocRight, IntVal: node.IntRight, Z: node.zRight}

	mismatch, err := bisim.DelayMismatch(bd.a, bd.b, bd.layout, sLeft, sRight)
	if err != nil {
		return false, nil, err
	}
	if mismatch {
		fin, err := bd.delayFinality(node, sLeft, sRight)
		if err != nil {
			return false, nil, err
		}
		return true, fin, nil
	}

	avLeft := bd.a.AvailEvents(sLeft)
	avRight := bd.b.AvailEvents(sRight)
	if fin := eventFinality(avLeft, avRight); fin != nil {
		return true, fin, nil
	}
	return false, nil, nil
}

// delayFinality computes each side's own maximum finite delay that
// keeps node's valuation inside its delay-closed zone (spec §4.7(a));
// the side that can delay longer is recorded as Side, and the smaller of
// the two amounts -- the point beyond which the sides provably diverge
// -- is the rendered delay.
func (bd *builder) delayFinality(node *Node, sLeft, sRight vcg.SymbolicState) (*Finality, error) {
	leftClosed := sLeft.Z.Clone()
	if bd.a.DelayAllowed(sLeft.LocVec) {
		inv, err := bd.a.Invariant(sLeft.LocVec)
		if err != nil {
			return nil, err
		}
		_ = bd.a.Delay(leftClosed.D, inv)
	}
	rightClosed := sRight.Z.Clone()
	if bd.b.DelayAllowed(sRight.LocVec) {
		inv, err := bd.b.Invariant(sRight.LocVec)
		if err != nil {
			return nil, err
		}
		_ = bd.b.Delay(rightClosed.D, inv)
	}

	// Search over the virtual projections with the node's virtual
	// valuation: ValLeft/ValRight hold only the own clocks, shorter than a
	// full zone's dimension.
	vv := virtualValuation(node, bd.layout)
	projLeft, err := zone.ProjectOntoVirtual(leftClosed, bd.layout, zone.Left)
	if err != nil {
		return nil, err
	}
	projRight, err := zone.ProjectOntoVirtual(rightClosed, bd.layout, zone.Right)
	if err != nil {
		return nil, err
	}
	deltaLeft := maxdelay.Search(projLeft, vv, finiteUpperBound(projLeft))
	deltaRight := maxdelay.Search(projRight, vv, finiteUpperBound(projRight))

	side := zone.Left
	amount := deltaLeft
	if deltaRight.Cmp(deltaLeft) > 0 {
		side = zone.Right
	}
	if deltaRight.Cmp(deltaLeft) < 0 {
		amount = deltaRight
	}
	return &Finality{Kind: FinalityDelay, Side: side, Delay: amount}, nil
}

// eventFinality returns a Finality when avLeft and avRight's symmetric
// difference is non-empty, per spec §4.7(a): the first non-empty
// left-only or right-only set (checked in that order, a deterministic
// stand-in for "first" since avail_events is an unordered set) picks the
// side and the witnessing event names.
func eventFinality(avLeft, avRight map[string]bool) *Finality {
	var leftOnly, rightOnly []string
	for k := range avLeft {
		if !avRight[k] {
			leftOnly = append(leftOnly, k)
		}
	}
	for k := range avRight {
		if !avLeft[k] {
			rightOnly = append(rightOnly, k)
		}
	}
	sort.Strings(leftOnly)
	sort.Strings(rightOnly)
	if len(leftOnly) > 0 {
		return &Finality{Kind: FinalityEvent, Side: zone.Left, Events: leftOnly}
	}
	if len(rightOnly) > 0 {
		return &Finality{Kind: FinalityEvent, Side: zone.Right, Events: rightOnly}
	}
	return nil
}

// finiteUpperBound scans z's reference-column entries for the largest
// finite value present, for use as maxdelay.Search's integer ceiling.
// Falls back to 1 when no finite bound exists on any clock -- a leaf or
// delay-step region with no finite bound at all does not arise from any
// invariant- or guard-bearing fixture this builder targets, but the
// fallback keeps Search well-defined rather than panicking.
func finiteUpperBound(z *zone.Zone) int64 {
	var max int64
	for i := 1; i < z.Dim; i++ {
		b := z.D.At(i, 0)
		if b.Val < dbm.InfVal && b.Val > max {
			max = b.Val
		}
	}
	if max == 0 {
		return 1
	}
	return max
}

// delayToEnter finds the smallest delta in [0, d] (denominator 1 or 2)
// such that v+delta belongs to region, or ok=false if region is never
// entered by d. This is the mirror image of maxdelay.Search: that
// function finds the supremum delay that keeps a valuation *inside* a
// zone it already occupies at delta 0 (feasibility can only shrink as
// delay grows, since Search's z is delay-closed from the start);
// refutation regions pulled from the cache instead typically have a
// positive lower bound on the divergence clock (the region is "guard
// satisfied but not yet satisfied on the other side"), so feasibility
// only begins partway through [0, d] rather than holding at 0. Search
// returns 0 for such a region unless v+d already lies inside it, so this
// module implements its own bounded scan instead of overloading
// maxdelay's contract.
func delayToEnter(region *zone.Zone, v *clockval.Valuation, d int64) (dbm.Rational, bool) {
	if belongsAtDelayLocal(region, v, dbm.RatFromInt(0)) {
		return dbm.RatFromInt(0), true
	}
	var foundAt int64 = -1
	for n := int64(1); n <= d; n++ {
		if belongsAtDelayLocal(region, v, dbm.RatFromInt(n)) {
			foundAt = n
			break
		}
	}
	if foundAt < 0 {
		return nil, false
	}
	half := new(big.Rat).SetFrac64(2*(foundAt-1)+1, 2)
	if belongsAtDelayLocal(region, v, half) {
		return half, true
	}
	return dbm.RatFromInt(foundAt), true
}

func belongsAtDelayLocal(z *zone.Zone, v *clockval.Valuation, delta dbm.Rational) bool {
	out := clockval.NewZero(len(v.Vals))
	_ = clockval.AddDelay(out, v, delta)
	return clockval.Belongs(out, z.D)
}

// tryDelay implements spec §4.7(c): query the cache by node's location
// pair, and if some refutation region contains a positive delay from
// node's current valuation, build the delayed node -- node's
// delay-closed zones narrowed to that region (so its own leaf test will
// fire) and its valuation
// advanced by the found delta.
func (bd *builder) tryDelay(node *Node) (int, dbm.Rational, bool, error) {
	key := nbcache.Key{LocLeft: node.LocLeft, IntLeft: node.IntLeft, LocRight: node.LocRight, IntRight: node.IntRight}
	container, ok := bd.cache.Lookup(key)
	if !ok || container.IsEmpty() {
		return 0, nil, false, nil
	}

	vv := virtualValuation(node, bd.layout)
	var bestDelta dbm.Rational
	var bestRegion *zone.Zone
	for _, region := range container.Members() {
		delta, found := delayToEnter(region, vv, finiteUpperBound(region))
		if !found {
			continue
		}
		if bestDelta == nil || delta.Cmp(bestDelta) < 0 {
			bestDelta = delta
			bestRegion = region
		}
	}
	if bestDelta == nil || bestDelta.Sign() <= 0 {
		return 0, nil, false, nil
	}

	leftLift, rightLift, err := zone.GenerateSynchronizedZones(bestRegion, bd.layout)
	if err != nil {
		return 0, nil, false, err
	}
	closedLeft, closedRight := node.zLeft.Clone(), node.zRight.Clone()
	for _, c := range []struct {
		g   vcg.VCG
		loc []int
		z   *zone.Zone
	}{{bd.a, node.LocLeft, closedLeft}, {bd.b, node.LocRight, closedRight}} {
		if c.g.DelayAllowed(c.loc) {
			inv, err := c.g.Invariant(c.loc)
			if err != nil {
				return 0, nil, false, err
			}
			_ = c.g.Delay(c.z.D, inv)
		}
	}
	zL, err := leftLift.Intersect(closedLeft)
	if err != nil {
		return 0, nil, false, nil
	}
	zR, err := rightLift.Intersect(closedRight)
	if err != nil {
		return 0, nil, false, nil
	}

	valLeft := node.ValLeft.Clone()
	valRight := node.ValRight.Clone()
	_ = clockval.AddDelay(valLeft, node.ValLeft, bestDelta)
	_ = clockval.AddDelay(valRight, node.ValRight, bestDelta)

	delayedNode := &Node{
		LocLeft: node.LocLeft, LocRight: node.LocRight,
		IntLeft: node.IntLeft, IntRight: node.IntRight,
		ValLeft: valLeft, ValRight: valRight,
		InvLeft: node.InvLeft, InvRight: node.InvRight,
		UrgentClock: node.UrgentClock,
		zLeft:       zL, zRight: zR,
	}

	dsig := locPairSignature(delayedNode) + "@" + valuationSignature(valLeft) + "/" + valuationSignature(valRight)
	if bd.delayed[dsig] {
		return 0, nil, false, nil
	}
	bd.delayed[dsig] = true

	idx := len(bd.dag.Nodes)
	delayedNode.ID = idx
	bd.dag.Nodes = append(bd.dag.Nodes, delayedNode)
	return idx, bestDelta, true, nil
}

// virtualValuation assembles the virtual-clock valuation [ref, left's
// own clocks, right's own clocks] from node's two own-side valuations --
// valid because every node this builder produces is synchronized, so
// each side's own clock already equals its virtual mirror.
func virtualValuation(node *Node, l zone.Layout) *clockval.Valuation {
	out := clockval.NewZero(l.VirtualDim())
	for i := 1; i <= l.O1; i++ {
		out.Vals[i] = node.ValLeft.Vals[i]
	}
	for i := 1; i <= l.O2; i++ {
		out.Vals[l.O1+i] = node.ValRight.Vals[i]
	}
	return out
}

// actionStep implements spec §4.7(d): branch on the current pair's
// shared events, build every candidate successor sub-root, resolve each
// recursively, and commit the first event whose result matrix has an
// all-true row or (failing that) an all-true column.
func (bd *builder) actionStep(idx int) (bool, error) {
	node := bd.dag.Nodes[idx]
	sLeft := vcg.SymbolicState{LocVec: node.LocLeft, IntVal: node.IntLeft, Z: node.zLeft}
	sRight := vcg.SymbolicState{LocVec: node.LocRight, IntVal: node.IntRight, Z: node.zRight}

	avLeft := bd.a.AvailEvents(sLeft)
	avRight := bd.b.AvailEvents(sRight)
	events := sharedEvents(avLeft, avRight)

	for _, ev := range events {
		leftSucc, err := bd.a.NextWithSymbol(sLeft, ev)
		if err != nil {
			return false, err
		}
		rightSucc, err := bd.b.NextWithSymbol(sRight, ev)
		if err != nil {
			return false, err
		}
		if len(leftSucc) == 0 || len(rightSucc) == 0 {
			continue
		}

		matrix := make([][]bool, len(leftSucc))
		subIdx := make([][]int, len(leftSucc))
		for i, ls := range leftSucc {
			matrix[i] = make([]bool, len(rightSucc))
			subIdx[i] = make([]int, len(rightSucc))
			for j, rs := range rightSucc {
				si, ok, err := bd.buildSubRoot(node, ls.Target, rs.Target)
				if err != nil {
					return false, err
				}
				subIdx[i][j] = si
				if !ok {
					continue
				}
				resolved, err := bd.resolveNode(si)
				if err != nil {
					return false, err
				}
				matrix[i][j] = resolved
			}
		}

		if row, ok := rowAllTrue(matrix); ok {
			bd.commitRow(idx, row, leftSucc, rightSucc, subIdx)
			return true, nil
		}
		// Row selection is tried first per spec §9's resolved tie-break
		// (the source picks the row when both a row and a column
		// qualify); only fall back to a column when no row qualifies.
		if col, ok := colAllTrue(matrix); ok {
			bd.commitColumn(idx, col, leftSucc, rightSucc, subIdx)
			return true, nil
		}
	}
	return false, nil
}

// buildSubRoot constructs the candidate sub-root for one (tr1, tr2)
// pair: cur's valuation with every clock identically zero in the
// equalized target zone reset to zero, registered under the action
// step's merge-by-location-pair rule.
func (bd *builder) buildSubRoot(parent *Node, lt, rt vcg.SymbolicState) (int, bool, error) {
	el, er, err := bisim.Equalize(bd.layout, lt, rt)
	if err != nil {
		return -1, false, nil
	}

	valLeft := parent.ValLeft.Clone()
	valRight := parent.ValRight.Clone()
	zeroIdenticalClocks(valLeft, el)
	zeroIdenticalClocks(valRight, er)

	candidate := &Node{
		LocLeft: lt.LocVec, LocRight: rt.LocVec,
		IntLeft: lt.IntVal, IntRight: rt.IntVal,
		ValLeft: valLeft, ValRight: valRight,
		InvLeft:     collectInvariants(bd.a, lt.LocVec),
		InvRight:    collectInvariants(bd.b, rt.LocVec),
		UrgentClock: !bd.a.DelayAllowed(lt.LocVec) || !bd.b.DelayAllowed(rt.LocVec),
		zLeft:       el, zRight: er,
	}
	idx, cyclic := bd.obtainNode(candidate)
	if cyclic {
		return -1, false, nil
	}
	return idx, true, nil
}

// zeroIdenticalClocks zeroes every component of v whose corresponding
// clock is pinned to exactly 0 in z (checked on z's own original-clock
// block, indices 1..len(v.Vals)-1).
func zeroIdenticalClocks(v *clockval.Valuation, z *zone.Zone) {
	for i := 1; i < len(v.Vals); i++ {
		if i >= z.Dim {
			break
		}
		if z.D.At(i, 0) == dbm.Zero && z.D.At(0, i) == dbm.Zero {
			v.Vals[i] = dbm.RatFromInt(0)
		}
	}
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

// rowAllTrue returns the first row index all of whose entries are true.
func rowAllTrue(m [][]bool) (int, bool) {
	for i, row := range m {
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
			return i, true
		}
	}
	return 0, false
}

// colAllTrue returns the first column index all of whose entries are true.
func colAllTrue(m [][]bool) (int, bool) {
	if len(m) == 0 || len(m[0]) == 0 {
		return 0, false
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
			return j, true
		}
	}
	return 0, false
}

func (bd *builder) commitRow(from, row int, leftSucc []vcg.Successor, rightSucc []vcg.Successor, subIdx [][]int) {
	for j := range rightSucc {
		bd.addActionEdge(from, subIdx[row][j], leftSucc[row], rightSucc[j])
	}
}

func (bd *builder) commitColumn(from, col int, leftSucc []vcg.Successor, rightSucc []vcg.Successor, subIdx [][]int) {
	for i := range leftSucc {
		bd.addActionEdge(from, subIdx[i][col], leftSucc[i], rightSucc[col])
	}
}

func (bd *builder) addActionEdge(from, to int, ls, rs vcg.Successor) {
	bd.dag.ActionEdges = append(bd.dag.ActionEdges, ActionEdge{
		From: from, To: to,
		VEdgeLeft: ls.Transition.VEdge, VEdgeRight: rs.Transition.VEdge,
	})
}
