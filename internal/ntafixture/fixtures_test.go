package ntafixture

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/bisim"
	"github.com/tck-go/tbisim/contradiction"
	"github.com/tck-go/tbisim/vcg"
	"github.com/tck-go/tbisim/witness"
	"github.com/tck-go/tbisim/zone"
)

func runBisim(t *testing.T, left, right *vcg.System) (*bisim.Result, vcg.VCG, vcg.VCG) {
	t.Helper()
	layout := zone.Layout{O1: left.NumClocks, O2: right.NumClocks}
	a := vcg.New(left, layout, zone.Left)
	b := vcg.New(right, layout, zone.Right)
	res, err := bisim.Run(a, b)
	require.NoError(t, err)
	return res, a, b
}

func TestScenario1Bisimilar(t *testing.T) {
	left, right := Scenario1()
	res, a, b := runBisim(t, left, right)
	require.Equal(t, bisim.Bisimilar, res.Answer)

	g, err := witness.Build(a, b, res)
	require.NoError(t, err)
	require.NotEmpty(t, g.Edges)
	for _, e := range g.Edges {
		require.Equal(t, []string{"a"}, e.VEdgeLeft)
		require.Equal(t, []string{"a"}, e.VEdgeRight)
	}
}

func TestScenario2NotBisimilarWithDelayCertificate(t *testing.T) {
	left, right := Scenario2()
	res, a, b := runBisim(t, left, right)
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := contradiction.Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, dag.DelayEdges)
}

func TestScenario3NotBisimilarInvariantDivergence(t *testing.T) {
	left, right := Scenario3()
	res, a, b := runBisim(t, left, right)
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := contradiction.Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, dag.Nodes)
}

func TestScenario4BisimilarBoundedWitness(t *testing.T) {
	left, right := Scenario4()
	res, a, b := runBisim(t, left, right)
	require.Equal(t, bisim.Bisimilar, res.Answer)

	g, err := witness.Build(a, b, res)
	require.NoError(t, err)
	maxPairs := len(left.Processes[0].Locations) * len(left.Processes[1].Locations) *
		len(right.Processes[0].Locations) * len(right.Processes[1].Locations)
	require.LessOrEqual(t, len(g.Nodes), maxPairs)
}

func TestScenario5NotBisimilarUrgencyLeaf(t *testing.T) {
	left, right := Scenario5()
	res, a, b := runBisim(t, left, right)
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := contradiction.Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	require.True(t, ok)
	root := dag.Nodes[0]
	require.True(t, root.IsInitial)
	require.NotNil(t, root.Finality)
}

// TestScenario6NeverClaimsFalseBisimilarity exercises the cycle-shaped
// fixture described in Scenario6's doc comment. It does not assert
// which path contradiction.Build takes (direct divergence vs. cycle
// detection), only the contract that must hold either way: Build never
// errors, and a cycle verdict (ok=false) never comes bundled with a
// non-nil DAG that a caller might mistake for a certificate.
func TestScenario6NeverClaimsFalseBisimilarity(t *testing.T) {
	left, right := Scenario6()
	res, a, b := runBisim(t, left, right)
	require.Equal(t, bisim.NotBisimilar, res.Answer)

	dag, ok, err := contradiction.Build(a, b, res.Cache, res.InitialLeft, res.InitialRight)
	require.NoError(t, err)
	if !ok {
		require.Nil(t, dag)
	} else {
		require.NotNil(t, dag)
	}
}
