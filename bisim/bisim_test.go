package bisim

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// loopSystem builds a single-clock automaton: l0 --a[x>=bound]{x:=0}--> l0.
func loopSystem(bound int64) *vcg.System {
	return &vcg.System{
		Name:      "loop",
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

// deadlockSystem offers no transitions at all.
func deadlockSystem() *vcg.System {
	return &vcg.System{
		Name:      "dead",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:      "P",
			Initial:   0,
			Locations: []vcg.Location{{Name: "l0"}},
		}},
	}
}

func TestRunIdenticalSystemsAreBisimilar(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(loopSystem(1), layout, zone.Left)
	b := vcg.New(loopSystem(1), layout, zone.Right)

	res, err := Run(a, b)
	require.NoError(t, err)
	require.Equal(t, Bisimilar, res.Answer)
	require.Equal(t, 0, res.Cache.Len())
}

func TestRunDifferingGuardsAreNotBisimilar(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(loopSystem(1), layout, zone.Left)
	b := vcg.New(loopSystem(2), layout, zone.Right)

	res, err := Run(a, b)
	require.NoError(t, err)
	require.Equal(t, NotBisimilar, res.Answer)
	require.Greater(t, res.Cache.Len(), 0)
}

func TestRunDifferingEventsAreNotBisimilar(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(loopSystem(1), layout, zone.Left)
	b := vcg.New(deadlockSystem(), layout, zone.Right)

	res, err := Run(a, b)
	require.NoError(t, err)
	require.Equal(t, NotBisimilar, res.Answer)
}

// invariantSystem offers no actions at all; delay is bounded by the
// single location's invariant x <= bound.
func invariantSystem(bound int64) *vcg.System {
	return &vcg.System{
		Name:      "inv",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:    "P",
			Initial: 0,
			Locations: []vcg.Location{{
				Name:      "l0",
				Invariant: []vcg.Guard{{Clock: 1, Bound: bound, Lower: false}},
			}},
		}},
	}
}

func TestRunInvariantDivergenceNotBisimilar(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(invariantSystem(2), layout, zone.Left)
	b := vcg.New(invariantSystem(1), layout, zone.Right)

	res, err := Run(a, b)
	require.NoError(t, err)
	require.Equal(t, NotBisimilar, res.Answer)
}

// urgentSystem has one location, optionally marked urgent (no delay).
func urgentSystem(urgent bool) *vcg.System {
	return &vcg.System{
		Name:      "urgent",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:      "P",
			Initial:   0,
			Locations: []vcg.Location{{Name: "l0", Urgent: urgent}},
		}},
	}
}

func TestRunUrgentDivergenceNotBisimilar(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(urgentSystem(true), layout, zone.Left)
	b := vcg.New(urgentSystem(false), layout, zone.Right)

	res, err := Run(a, b)
	require.NoError(t, err)
	require.Equal(t, NotBisimilar, res.Answer)
}
