package vcg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/zone"
)

// singleClockLoop builds a one-location automaton: loc0 --a[x>=1]{x:=0}--> loc0.
func singleClockLoop() *System {
	return &System{
		Name:      "loop",
		NumClocks: 1,
		Processes: []Process{{
			Name:      "P",
			Initial:   0,
			Locations: []Location{{Name: "l0"}},
			Edges: []Edge{{
				Label:  "a",
				From:   0,
				To:     0,
				Guard:  []Guard{{Clock: 1, Bound: 1, Lower: true}},
				Resets: []int{1},
			}},
		}},
		SyncVectors: []SyncVector{{Name: "a", Labels: map[int]string{0: "a"}}},
	}
}

func TestInitialAndNext(t *testing.T) {
	sys := singleClockLoop()
	layout := zone.Layout{O1: 1, O2: 0}
	g := New(sys, layout, zone.Left)

	inits := g.Initial()
	require.Len(t, inits, 1)
	src := inits[0]
	// The initial zone pins x to 0; let time pass so the guard x>=1 can hold.
	require.NoError(t, g.Delay(src.Z.D, nil))

	events := g.AvailEvents(src)
	require.True(t, events["a"])

	succs, err := g.NextWithSymbol(src, "a")
	require.NoError(t, err)
	require.Len(t, succs, 1)
	require.Equal(t, []string{"a"}, succs[0].Transition.VEdge)
}

func TestDelayAllowedNoUrgent(t *testing.T) {
	sys := singleClockLoop()
	layout := zone.Layout{O1: 1, O2: 0}
	g := New(sys, layout, zone.Left)
	require.True(t, g.DelayAllowed([]int{0}))
}
