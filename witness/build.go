// SPDX-License-Identifier: MIT
package witness

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/nbcache"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// ErrNotBisimilar is returned by Build when res did not reach
// bisim.Bisimilar -- a witness graph certifies bisimilarity, the
// contradiction DAG certifies its absence; each input belongs to
// exactly one builder.
var ErrNotBisimilar = errors.New("witness: result is not bisimilar")

type builder struct {
	a, b      vcg.VCG
	layout    zone.Layout
	cache     *nbcache.Cache
	graph     *Graph
	byLocPair map[string]int
	walked    map[int]bool
}

// Build constructs the witness graph for a Bisimilar result, walking
// the reachable product from res's equalized initial states and
// excluding any successor pair the non-bisim cache already holds a
// refutation entry for.
func Build(a, b vcg.VCG, res *bisim.Result) (*Graph, error) {
	if res.Answer != bisim.Bisimilar {
		return nil, ErrNotBisimilar
	}
	layout := a.Layout()
	bd := &builder{
		a: a, b: b, layout: layout, cache: res.Cache,
		graph:     &Graph{},
		byLocPair: map[string]int{},
		walked:    map[int]bool{},
	}

	rootIdx, err := bd.obtainNode(res.InitialLeft, res.InitialRight)
	if err != nil {
		return nil, err
	}
	bd.graph.Root = rootIdx

	if err := bd.walk(rootIdx, res.InitialLeft, res.InitialRight); err != nil {
		return nil, err
	}

	bd.edgeCleanup()
	bd.nodeCleanup()
	return bd.graph, nil
}

func locPairSignature(locLeft, locRight []int, intLeft, intRight map[string]int) string {
	var b strings.Builder
	writeInts(&b, locLeft)
	b.WriteByte('|')
	writeIntMap(&b, intLeft)
	b.WriteByte('#')
	writeInts(&b, locRight)
	b.WriteByte('|')
	writeIntMap(&b, intRight)
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

// obtainNode finds or creates the node for (s, t)'s discrete pair,
// accumulating s's projected virtual zone into that node's Condition
// regardless of whether the node already existed -- a pair can be
// reached along more than one path, each contributing its own
// consistent region.
func (bd *builder) obtainNode(s, t vcg.SymbolicState) (int, error) {
	sig := locPairSignature(s.LocVec, t.LocVec, s.IntVal, t.IntVal)
	vLeft, err := zone.ProjectOntoVirtual(s.Z, bd.layout, zone.Left)
	if err != nil {
		return -1, err
	}

	if idx, ok := bd.byLocPair[sig]; ok {
		bd.graph.Nodes[idx].Condition.AppendZone(vLeft)
		bd.graph.Nodes[idx].Condition.Compress()
		return idx, nil
	}

	cond := zone.NewContainer(bd.layout.VirtualDim())
	cond.AppendZone(vLeft)
	idx := len(bd.graph.Nodes)
	bd.graph.Nodes = append(bd.graph.Nodes, &Node{
		ID: idx,
		LocLeft: s.LocVec, LocRight: t.LocVec,
		IntLeft: s.IntVal, IntRight: t.IntVal,
		Condition: cond,
	})
	bd.byLocPair[sig] = idx
	return idx, nil
}

// walk recursively enumerates every shared-event successor pair from
// (sLeft, sRight) (registered as nodeIdx), skipping any pair the cache
// already holds a refutation entry for, and recurses into every
// newly-built node exactly once.
func (bd *builder) walk(nodeIdx int, sLeft, sRight vcg.SymbolicState) error {
	if bd.walked[nodeIdx] {
		return nil
	}
	bd.walked[nodeIdx] = true

	avLeft := bd.a.AvailEvents(sLeft)
	avRight := bd.b.AvailEvents(sRight)
	events := sharedEvents(avLeft, avRight)

	for _, ev := range events {
		leftSucc, err := bd.a.NextWithSymbol(sLeft, ev)
		if err != nil {
			return err
		}
		rightSucc, err := bd.b.NextWithSymbol(sRight, ev)
		if err != nil {
			return err
		}

		for _, ls := range leftSucc {
			for _, rs := range rightSucc {
				key := nbcache.Key{
					LocLeft: ls.Target.LocVec, IntLeft: ls.Target.IntVal,
					LocRight: rs.Target.LocVec, IntRight: rs.Target.IntVal,
				}
				if ct, ok := bd.cache.Lookup(key); ok && !ct.IsEmpty() {
					continue
				}

				el, er, err := bisim.Equalize(bd.layout, ls.Target, rs.Target)
				if err != nil {
					continue
				}
				nl := bd.a.CloneState(vcg.SymbolicState{LocVec: ls.Target.LocVec, IntVal: ls.Target.IntVal, Z: el})
				nr := bd.b.CloneState(vcg.SymbolicState{LocVec: rs.Target.LocVec, IntVal: rs.Target.IntVal, Z: er})

				targetIdx, err := bd.obtainNode(nl, nr)
				if err != nil {
					continue
				}
				vLeft, err := zone.ProjectOntoVirtual(el, bd.layout, zone.Left)
				if err != nil {
					continue
				}
				bd.graph.Edges = append(bd.graph.Edges, Edge{
					From: nodeIdx, To: targetIdx,
					VEdgeLeft: ls.Transition.VEdge, VEdgeRight: rs.Transition.VEdge,
					Condition: vLeft,
				})

				if err := bd.walk(targetIdx, nl, nr); err != nil {
					return err
				}
			}
		}
	}
	return nil
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

// edgeCleanup implements spec §4.9's edge_cleanup: drop an edge whose
// endpoints match another's and whose condition is a subset of that
// other edge's condition.
func (bd *builder) edgeCleanup() {
	edges := bd.graph.Edges
	keep := make([]bool, len(edges))
	for i := range edges {
		keep[i] = true
	}
	for i, e := range edges {
		for j, o := range edges {
			if i == j || e.From != o.From || e.To != o.To {
				continue
			}
			if e.Condition.Le(o.Condition) && (!o.Condition.Le(e.Condition) || j < i) {
				keep[i] = false
				break
			}
		}
	}
	out := make([]Edge, 0, len(edges))
	for i, e := range edges {
		if keep[i] {
			out = append(out, e)
		}
	}
	bd.graph.Edges = out
}

// nodeCleanup implements spec §4.9's node_cleanup: drop any node (other
// than the root) whose Condition is empty, or that no surviving edge
// references, then reindex the remaining nodes and edges.
func (bd *builder) nodeCleanup() {
	referenced := make([]bool, len(bd.graph.Nodes))
	referenced[bd.graph.Root] = true
	for _, e := range bd.graph.Edges {
		referenced[e.From] = true
		referenced[e.To] = true
	}

	remap := make([]int, len(bd.graph.Nodes))
	var nodes []*Node
	for i, n := range bd.graph.Nodes {
		if i != bd.graph.Root && (n.Condition.IsEmpty() || !referenced[i]) {
			remap[i] = -1
			continue
		}
		remap[i] = len(nodes)
		n.ID = len(nodes)
		nodes = append(nodes, n)
	}

	var edges []Edge
	for _, e := range bd.graph.Edges {
		from, to := remap[e.From], remap[e.To]
		if from < 0 || to < 0 {
			continue
		}
		e.From, e.To = from, to
		edges = append(edges, e)
	}

	bd.graph.Root = remap[bd.graph.Root]
	bd.graph.Nodes = nodes
	bd.graph.Edges = edges
}
