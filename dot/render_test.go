package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/contradiction"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/witness"
	"github.com/tck-go/tbisim/zone"
)

func loopSystem(bound int64) *vcg.System {
	return &vcg.System{
		Name:      "loop",
		NumClocks: 1,
		Processes: []vcg.Process{{
			Name:    "P",
			Initial: 0,
			Locations: []vcg.Location{{
				Name: "l0",
			}},
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

func TestContradictionProducesWellFormedDOT(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(loopSystem(1), layout, zone.Left)
	b := vcg.New(loopSystem(2), layout, zone.Right)
	res, err := bisim.Run(a, b)
	require.NoError(t, err)
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := contradiction.Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.True(t, ok)

	out := Contradiction(dag, loopSystem(1), loopSystem(2), layout, "cert")
	require.True(t, strings.HasPrefix(out, "digraph cert {\n"))
	require.True(t, strings.HasSuffix(out, "}\n"))
	require.Contains(t, out, "initial=")
	require.Contains(t, out, "first_vloc=")
}

func TestWitnessProducesWellFormedDOT(t *testing.T) {
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(loopSystem(1), layout, zone.Left)
	b := vcg.New(loopSystem(1), layout, zone.Right)
	res, err := bisim.Run(a, b)
	require.NoError(t, err)
	require.Equal(t, bisim.Bisimilar, res.Answer)

	g, err := witness.Build(a, b, res)
	require.NoError(t, err)

	out := Witness(g, loopSystem(1), loopSystem(1), layout, "wit")
	require.True(t, strings.HasPrefix(out, "digraph wit {\n"))
	require.True(t, strings.HasSuffix(out, "}\n"))
	require.Contains(t, out, "condition=")
}
