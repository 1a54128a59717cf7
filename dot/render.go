// SPDX-License-Identifier: MIT
package dot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tck-go/tbisim/clockval"
	"github.com/tck-go/tbisim/contradiction"
	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/witness"
	"github.com/tck-go/tbisim/zone"
)

// payloadKind tags a renderNode's variant, per spec §9's tagged-sum
// redesign note.
type payloadKind int

const (
	payloadNone payloadKind = iota
	payloadContradiction
	payloadWitness
)

// renderNode is the base record (shared by every node) plus exactly one
// variant payload, selected by kind.
type renderNode struct {
	id        int
	locLeft   []int
	locRight  []int
	intLeft   map[string]int
	intRight  map[string]int
	isInitial bool

	kind payloadKind

	// payloadContradiction
	valLeft, valRight *clockval.Valuation
	finality          *contradiction.Finality

	// payloadWitness
	condition *zone.Container
}

// renderEdge is the base record plus exactly one edge variant: an
// action edge (vedge labels) or a delay edge (rational amount).
type renderEdge struct {
	from, to int
	isDelay  bool

	vedgeLeft, vedgeRight []string
	delayRat              dbm.Rational
}

// Contradiction renders g as a DOT digraph named name. sysLeft/sysRight
// name the two sides' original clocks (vcg.System.ClockName); layout
// gives the virtual clock counts used to size each side's own-clock
// block within a node's valuation.
func Contradiction(g *contradiction.DAG, sysLeft, sysRight *vcg.System, layout zone.Layout, name string) string {
	nodes := make([]renderNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = renderNode{
			id: n.ID, locLeft: n.LocLeft, locRight: n.LocRight,
			intLeft: n.IntLeft, intRight: n.IntRight, isInitial: n.IsInitial,
			kind: payloadContradiction,
			valLeft: n.ValLeft, valRight: n.ValRight, finality: n.Finality,
		}
	}
	var edges []renderEdge
	for _, e := range g.ActionEdges {
		edges = append(edges, renderEdge{from: e.From, to: e.To, vedgeLeft: e.VEdgeLeft, vedgeRight: e.VEdgeRight})
	}
	for _, e := range g.DelayEdges {
		edges = append(edges, renderEdge{from: e.From, to: e.To, isDelay: true, delayRat: e.Amount})
	}
	return render(name, nodes, edges, sysLeft, sysRight, layout)
}

// Witness renders g as a DOT digraph named name.
func Witness(g *witness.Graph, sysLeft, sysRight *vcg.System, layout zone.Layout, name string) string {
	nodes := make([]renderNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = renderNode{
			id: n.ID, locLeft: n.LocLeft, locRight: n.LocRight,
			intLeft: n.IntLeft, intRight: n.IntRight, isInitial: n.ID == g.Root,
			kind: payloadWitness, condition: n.Condition,
		}
	}
	edges := make([]renderEdge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = renderEdge{from: e.From, to: e.To, vedgeLeft: e.VEdgeLeft, vedgeRight: e.VEdgeRight}
	}
	return render(name, nodes, edges, sysLeft, sysRight, layout)
}

func render(name string, nodes []renderNode, edges []renderEdge, sysLeft, sysRight *vcg.System, layout zone.Layout) string {
	nodeLines := make([]string, len(nodes))
	for i, n := range nodes {
		nodeLines[i] = renderNodeLine(n, sysLeft, sysRight, layout)
	}
	sort.Strings(nodeLines)

	edgeLines := make([]string, len(edges))
	for i, e := range edges {
		edgeLines[i] = renderEdgeLine(e)
	}
	sort.Strings(edgeLines)

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", name)
	for _, l := range nodeLines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for _, l := range edgeLines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}

// renderNodeLine dispatches once on n.kind -- the single-switch printer
// spec §9 asks for in place of per-type polymorphic attribute methods.
func renderNodeLine(n renderNode, sysLeft, sysRight *vcg.System, layout zone.Layout) string {
	attrs := []attr{
		{"initial", boolStr(n.isInitial)},
		{"first_vloc", locString(sysLeft, n.locLeft)},
		{"first_intval", intvalString(n.intLeft)},
		{"second_vloc", locString(sysRight, n.locRight)},
		{"second_intval", intvalString(n.intRight)},
	}

	switch n.kind {
	case payloadContradiction:
		attrs = append(attrs,
			attr{"clockval_1", valuationString(sysLeft, "1", n.valLeft, layout.O1)},
			attr{"clockval_2", valuationString(sysRight, "2", n.valRight, layout.O2)},
		)
		if n.finality != nil {
			attrs = append(attrs,
				attr{"final", contradiction.SideName(n.finality.Side)},
				attr{"final_symbol", finalitySymbol(n.finality)},
			)
		}
	case payloadWitness:
		attrs = append(attrs, attr{"condition", conditionString(n.condition)})
	}

	return fmt.Sprintf("%d [%s];", n.id, joinAttrs(attrs))
}

func renderEdgeLine(e renderEdge) string {
	var a attr
	if e.isDelay {
		a = attr{"delay", e.delayRat.FloatString(1)}
	} else {
		a = attr{"vedge", vedgeString(e.vedgeLeft, e.vedgeRight)}
	}
	return fmt.Sprintf("%d -> %d [%s];", e.from, e.to, joinAttrs([]attr{a}))
}

type attr struct{ key, val string }

func joinAttrs(attrs []attr) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = fmt.Sprintf("%s=%q", a.key, a.val)
	}
	return strings.Join(parts, ",")
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func locString(sys *vcg.System, locVec []int) string {
	parts := make([]string, len(locVec))
	for pi, li := range locVec {
		name := "p" + fmt.Sprint(pi)
		locName := fmt.Sprint(li)
		if pi < len(sys.Processes) {
			name = sys.Processes[pi].Name
			if li < len(sys.Processes[pi].Locations) {
				locName = sys.Processes[pi].Locations[li].Name
			}
		}
		parts[pi] = name + ":" + locName
	}
	return strings.Join(parts, ",")
}

func intvalString(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}

// valuationString renders v (reference clock at index 0, own clocks at
// 1..own) using sys's clock names and the _1/_2 side suffix spec §6's
// clock-naming convention requires; the reference clock renders as
// "Ref Clock" and any trailing slot beyond own is the urgent clock.
func valuationString(sys *vcg.System, side string, v *clockval.Valuation, own int) string {
	if v == nil {
		return ""
	}
	parts := make([]string, 0, len(v.Vals))
	for i, r := range v.Vals {
		var name string
		switch {
		case i == 0:
			name = "Ref Clock"
		case i <= own:
			name = sys.ClockName(i) + "_" + side
		default:
			name = "Urgent_Clock"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", name, r.FloatString(1)))
	}
	return strings.Join(parts, ",")
}

func finalitySymbol(f *contradiction.Finality) string {
	if f.Kind == contradiction.FinalityDelay {
		return f.Delay.FloatString(1)
	}
	return strings.Join(f.Events, ",")
}

func conditionString(c *zone.Container) string {
	if c == nil {
		return ""
	}
	hashes := make([]string, 0, c.Len())
	for _, m := range c.Members() {
		hashes = append(hashes, fmt.Sprintf("%x", m.Hash()))
	}
	sort.Strings(hashes)
	return strings.Join(hashes, ",")
}

func vedgeString(left, right []string) string {
	return strings.Join(left, "+") + "|" + strings.Join(right, "+")
}
