// SPDX-License-Identifier: MIT
package witness

import "github.com/tck-go/tbisim/zone"

// Node is a witness-graph node: a certificate-equality discrete pair
// (location vectors plus integer valuations) plus the compressed union
// of virtual-constraint regions on which bisimilarity held for this
// pair, accumulated across every time the pair was reached.
type Node struct {
	ID int

	LocLeft, LocRight []int
	IntLeft, IntRight map[string]int

	Condition *zone.Container
}

// Edge is a synchronized transition pair: the pair of vedges that fired
// together, and the virtual-constraint region under which they did.
type Edge struct {
	From, To              int
	VEdgeLeft, VEdgeRight []string
	Condition             *zone.Zone
}

// Graph is the witness certificate: one node per reachable discrete
// pair, one edge per validated synchronized transition pair. Edges
// reference Nodes by index, matching the contradiction DAG's
// pointer-free edge convention.
type Graph struct {
	Nodes []*Node
	Edges []Edge
	Root  int
}
