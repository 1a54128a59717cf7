// SPDX-License-Identifier: MIT
package ntafixture

import "github.com/tck-go/tbisim/vcg"

// Scenario1 returns two identical two-location automata, one clock each:
// l0 --a[x>=1]{x:=0}--> l1 --a[x>=1]{x:=0}--> l0. Expected: bisimilar,
// with a witness graph whose root has a single self-loop action edge
// labelled (a, a) under virtual constraint true.
func Scenario1() (*vcg.System, *vcg.System) {
	build := func() *vcg.System {
		return &vcg.System{
			Name:      "s1",
			NumClocks: 1,
			Processes: []vcg.Process{{
				Name:    "P",
				Initial: 0,
				Locations: []vcg.Location{
					{Name: "l0"},
					{Name: "l1"},
				},
				Edges: []vcg.Edge{
					{Label: "a", From: 0, To: 1, Guard: []vcg.Guard{{Clock: 1, Bound: 1, Lower: true}}, Resets: []int{1}},
					{Label: "a", From: 1, To: 0, Guard: []vcg.Guard{{Clock: 1, Bound: 1, Lower: true}}, Resets: []int{1}},
				},
			}},
			SyncVectors: []vcg.SyncVector{{Name: "a", Labels: map[int]string{0: "a"}}},
		}
	}
	return build(), build()
}

// Scenario2 returns two automata identical except for event a's guard
// bound: left requires x>=1, right requires x>=2. Expected: not
// bisimilar, with the contradiction DAG root connected to a leaf by a
// single delay edge of weight 1.0 (the left guard's own threshold),
// and the leaf's Finality pointing at the left side with symbol {a}.
func Scenario2() (*vcg.System, *vcg.System) {
	return loopGuard(1), loopGuard(2)
}

func loopGuard(bound int64) *vcg.System {
	return &vcg.System{
		Name:      "s2",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:      "P",
			Initial:   0,
			Locations: []vcg.Location{{Name: "l0"}},
			Edges: []vcg.Edge{{
				Label:  "a",
				From:   0,
				To:     0,
				Guard:  []vcg.Guard{{Clock: 1, Bound: bound, Lower: true}},
				Resets: []int{1},
			}},
		}},
		SyncVectors: []vcg.SyncVector{{Name: "a", Labels: map[int]string{0: "a"}}},
	}
}

// Scenario3 returns two action-free automata differing only in their
// single location's invariant: left allows delay up to x<=2, right only
// up to x<=1. Expected: not bisimilar, with a leaf at depth 1 reached by
// a delay edge of weight 1.0, Finality pointing at the left side (the
// side still able to delay past the right's bound) with symbol "1.0".
func Scenario3() (*vcg.System, *vcg.System) {
	return invariantBound(2), invariantBound(1)
}

func invariantBound(bound int64) *vcg.System {
	return &vcg.System{
		Name:      "s3",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:      "P",
			Initial:   0,
			Locations: []vcg.Location{{Name: "l0", Invariant: []vcg.Guard{{Clock: 1, Bound: bound}}}},
		}},
	}
}

// Scenario4 returns two identical networks, each the parallel
// composition of a sender (edge label "!m") and a receiver (edge label
// "?m") synchronized on a shared event m. Expected: bisimilar, with a
// witness graph of at most len(LocA)*len(LocB) nodes (here: exactly the
// two reachable location pairs, (s0,r0) and (s1,r1)).
func Scenario4() (*vcg.System, *vcg.System) {
	build := func() *vcg.System {
		return &vcg.System{
			Name:      "s4",
			NumClocks: 1,
			Processes: []vcg.Process{
				{
					Name:      "Sender",
					Initial:   0,
					Locations: []vcg.Location{{Name: "s0"}, {Name: "s1"}},
					Edges:     []vcg.Edge{{Label: "!m", From: 0, To: 1}},
				},
				{
					Name:      "Receiver",
					Initial:   0,
					Locations: []vcg.Location{{Name: "r0"}, {Name: "r1"}},
					Edges:     []vcg.Edge{{Label: "?m", From: 0, To: 1}},
				},
			},
			SyncVectors: []vcg.SyncVector{{Name: "m", Labels: map[int]string{0: "!m", 1: "?m"}}},
		}
	}
	return build(), build()
}

// Scenario5 returns two single-location, action-free automata that
// differ only in urgency: left marks its sole location urgent (time may
// not pass there), right does not. Expected: not bisimilar with the
// contradiction DAG root itself a leaf, Finality pointing at the second
// side (the side still able to delay).
func Scenario5() (*vcg.System, *vcg.System) {
	urgent := &vcg.System{
		Name:      "s5",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:      "P",
			Initial:   0,
			Locations: []vcg.Location{{Name: "l0", Urgent: true}},
		}},
	}
	free := &vcg.System{
		Name:      "s5",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:      "P",
			Initial:   0,
			Locations: []vcg.Location{{Name: "l0"}},
		}},
	}
	return urgent, free
}

// Scenario6 returns a guard-threshold divergence shaped as a two-
// location cycle (l0 --a--> l1 --a--> l0, both edges sharing the
// differing guard) rather than Scenario2's single self-loop, so that
// the same discrete location pair is revisited along the only path a
// decider can take out of the root. Expected: not bisimilar (the
// guard-threshold divergence on the l0->l1 edge is found directly, the
// same way Scenario2's is); this fixture additionally exercises the
// contradiction builder's cycle guard, since a certificate search that
// ignored the direct divergence and instead followed the l1->l0 edge
// back toward l0 would otherwise need to revisit an in-progress node.
// contradiction.Build's own cycle detection (resolveNode's onPath
// check) is what is meant to turn that revisit into ok=false rather
// than an infinite recursion; this module has not executed the search
// to confirm which path it actually takes, so ntafixture_test only
// asserts the weaker, always-true contract: Build never errors, and
// when it returns ok=false it returns a nil DAG rather than a partial
// one.
func Scenario6() (*vcg.System, *vcg.System) {
	build := func(bound int64) *vcg.System {
		return &vcg.System{
			Name:      "s6",
			NumClocks: 1,
			Processes: []vcg.Process{{
				Name:    "P",
				Initial: 0,
				Locations: []vcg.Location{
					{Name: "l0"},
					{Name: "l1"},
				},
				Edges: []vcg.Edge{
					{Label: "a", From: 0, To: 1, Guard: []vcg.Guard{{Clock: 1, Bound: bound, Lower: true}}, Resets: []int{1}},
					{Label: "a", From: 1, To: 0, Guard: []vcg.Guard{{Clock: 1, Bound: bound, Lower: true}}, Resets: []int{1}},
				},
			}},
			SyncVectors: []vcg.SyncVector{{Name: "a", Labels: map[int]string{0: "a"}}},
		}
	}
	return build(1), build(2)
}
