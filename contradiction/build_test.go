package contradiction

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/zone"
)

// invariantSystem offers no actions; delay is bounded by the single
// location's invariant x <= bound. Mirrors bisim's own fixture of the
// same name, kept local since bisim's fixtures are unexported.
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

func runBisim(t *testing.T, sysA, sysB *vcg.System) (*bisim.Result, vcg.VCG, vcg.VCG) {
	t.Helper()
	layout := zone.Layout{O1: 1, O2: 1}
	a := vcg.New(sysA, layout, zone.Left)
	b := vcg.New(sysB, layout, zone.Right)
	res, err := bisim.Run(a, b)
	require.NoError(t, err)
	return res, a, b
}

func TestBuildInvariantDivergenceProducesRootedDAG(t *testing.T) {
	res, a, b := runBisim(t, invariantSystem(2), invariantSystem(1))
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, dag)
	require.Equal(t, 0, dag.Root)
	require.NotEmpty(t, dag.Nodes)

	root := dag.Nodes[dag.Root]
	require.True(t, root.IsInitial)

	var sawFinality bool
	for _, n := range dag.Nodes {
		if n.Finality != nil {
			sawFinality = true
		}
	}
	require.True(t, sawFinality, "expected at least one leaf with a Finality record")

	for _, e := range dag.ActionEdges {
		require.GreaterOrEqual(t, e.From, 0)
		require.Less(t, e.From, len(dag.Nodes))
		require.GreaterOrEqual(t, e.To, 0)
		require.Less(t, e.To, len(dag.Nodes))
	}
	for _, e := range dag.DelayEdges {
		require.GreaterOrEqual(t, e.From, 0)
		require.Less(t, e.From, len(dag.Nodes))
		require.GreaterOrEqual(t, e.To, 0)
		require.Less(t, e.To, len(dag.Nodes))
	}
}

func TestBuildGuardThresholdDivergenceProducesRootedDAG(t *testing.T) {
	res, a, b := runBisim(t, loopSystem(1), loopSystem(2))
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, dag.Nodes)
}

func TestBuildIdenticalSystemsHasNoCertificate(t *testing.T) {
	res, a, b := runBisim(t, loopSystem(1), loopSystem(1))
	require.Equal(t, bisim.Bisimilar, res.Answer)
	require.Equal(t, 0, res.Cache.Len())

	// Nothing in the cache to build from: Build should find no leaf
	// reachable via the non-bisim cache and therefore no certificate.
	_, ok, err := Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.False(t, ok)
}
