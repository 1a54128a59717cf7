// SPDX-License-Identifier: MIT
package contradiction

import (
	"github.com/tck-go/tbisim/clockval"
	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// FinalityKind distinguishes the two ways spec §4.7(a) can close a leaf.
type FinalityKind int

const (
	// FinalityDelay marks a leaf reached because the delay-closed zones
	// of the two sides, projected onto virtual clocks, diverged.
	FinalityDelay FinalityKind = iota
	// FinalityEvent marks a leaf reached because avail_events differed.
	FinalityEvent
)

// Finality annotates a leaf node: which side carries the distinguishing
// behavior (Side, rendered "first"/"second" per spec §6), and either the
// witnessing delay (FinalityDelay) or the witnessing event names
// (FinalityEvent).
type Finality struct {
	Kind  FinalityKind
	Side  zone.Side     // the side spec's prose calls "has the disabling transition"
	Delay dbm.Rational  // set when Kind == FinalityDelay
	Events []string     // set when Kind == FinalityEvent
}

// SideName renders s the way spec §3/§6 names it ("first" == Left).
func SideName(s zone.Side) string {
	if s == zone.Left {
		return "first"
	}
	return "second"
}

// Node is a contradiction-DAG node: a certificate node (location pair +
// integer valuation per side) plus the concrete clock valuations,
// invariant constraint lists, and urgent-clock flag spec §3's glossary
// entry adds, plus a Finality once this node has been resolved as a
// leaf. zLeft/zRight are this builder's own working zones (not part of
// the spec's node data model, but required internally to drive
// AvailEvents/NextWithSymbol/Delay the same way the bisimulation core
// does); they are not rendered by the dot printer.
type Node struct {
	ID int

	LocLeft, LocRight []int
	IntLeft, IntRight map[string]int

	ValLeft, ValRight *clockval.Valuation
	InvLeft, InvRight []vcg.Guard
	UrgentClock       bool

	IsInitial bool
	Finality  *Finality

	zLeft, zRight *zone.Zone
	// done marks that resolveNode has already produced a final verdict
	// for this node (ok); cached so the action step's merge rule can
	// reuse an already-resolved node without re-exploring it.
	done bool
	ok   bool
}

// ActionEdge is a transition edge: a pair of vedges (one per side) that
// fired together to reach To from From.
type ActionEdge struct {
	From, To              int
	VEdgeLeft, VEdgeRight []string
}

// DelayEdge is a pure time-passage edge of the given rational amount.
type DelayEdge struct {
	From, To int
	Amount   dbm.Rational
}

// DAG is the contradiction certificate: a rooted, directed, acyclic
// graph. Edges reference Nodes by index, never by pointer.
type DAG struct {
	Nodes       []*Node
	ActionEdges []ActionEdge
	DelayEdges  []DelayEdge
	Root        int
	// Incomplete is set when Build's context was cancelled before the
	// DAG reached a fully resolved state; Nodes/Edges hold whatever was
	// built up to that point.
	Incomplete bool
}
