package witness

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// loopSystem builds a single-clock automaton: l0 --a[x>=bound]{x:=0}--> l0.
// Mirrors bisim's and contradiction's own fixture of the same name, kept
// local since those are unexported in different packages.
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

func runBisim(t *testing.T, sysA, sysB *vcg.System) (*bisim.Result, vcg.VCG, vcg.VCG) {
	t.Helper()
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(sysA, layout, zone.Left)
	b := vcg.New(sysB, layout, zone.Right)
	res, err := bisim.Run(a, b)
	require.NoError(t, err)
	return res, a, b
}

func TestBuildBisimilarSystemsProducesRootedGraph(t *testing.T) {
	res, a, b := runBisim(t, loopSystem(1), loopSystem(1))
	require.Equal(t, bisim.Bisimilar, res.Answer)

	g, err := Build(a, b, res)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.NotEmpty(t, g.Nodes)
	require.GreaterOrEqual(t, g.Root, 0)
	require.Less(t, g.Root, len(g.Nodes))

	root := g.Nodes[g.Root]
	require.False(t, root.Condition.IsEmpty())

	for _, e := range g.Edges {
		require.GreaterOrEqual(t, e.From, 0)
		require.Less(t, e.From, len(g.Nodes))
		require.GreaterOrEqual(t, e.To, 0)
		require.Less(t, e.To, len(g.Nodes))
		require.NotNil(t, e.Condition)
	}

	for _, n := range g.Nodes {
		require.False(t, n.Condition.IsEmpty())
	}
}

func TestBuildRejectsNotBisimilarResult(t *testing.T) {
	res, a, b := runBisim(t, loopSystem(1), loopSystem(2))
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	_, err := Build(a, b, res)
	require.ErrorIs(t, err, ErrNotBisimilar)
}
