package zone

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/dbm"
)

func TestIntersectAndLe(t *testing.T) {
	a := NewUniversal(2)
	require.NoError(t, a.D.Constrain(1, 0, 5, false)) // x <= 5
	b := NewUniversal(2)
	require.NoError(t, b.D.Constrain(0, 1, -1, false)) // x >= 1

	ab, err := a.Intersect(b)
	require.NoError(t, err)
	require.True(t, ab.Le(a))
	require.True(t, ab.Le(b))
	require.False(t, a.Le(ab))
}

func TestContainerCompressSubsumption(t *testing.T) {
	small := NewUniversal(2)
	require.NoError(t, small.D.Constrain(1, 0, 2, false))
	big := NewUniversal(2)
	require.NoError(t, big.D.Constrain(1, 0, 5, false))

	c := NewContainer(2)
	c.AppendZone(small)
	c.AppendZone(big)
	c.Compress()
	require.Equal(t, 1, c.Len())
	require.True(t, c.Members()[0].Equal(big))
}

func TestCombineIdempotent(t *testing.T) {
	c := NewContainer(2)
	z1 := NewUniversal(2)
	require.NoError(t, z1.D.Constrain(1, 0, 2, false))
	c.AppendZone(z1)

	once := c.Combine(2)
	twice := once.Combine(2)
	require.True(t, once.Equal(twice))
}

func TestProjectOntoVirtualRoundTrip(t *testing.T) {
	l := Layout{O1: 1, O2: 1}
	// Build a virtual constraint: ref + 2 virtual clocks (A,B), A<=3.
	vc := NewUniversal(l.VirtualDim())
	require.NoError(t, vc.D.Constrain(1, 0, 3, false))

	left, right, err := GenerateSynchronizedZones(vc, l)
	require.NoError(t, err)
	require.Equal(t, l.FullDim(Left), left.Dim)
	require.Equal(t, l.FullDim(Right), right.Dim)

	backLeft, err := ProjectOntoVirtual(left, l, Left)
	require.NoError(t, err)
	require.True(t, backLeft.Equal(vc))

	backRight, err := ProjectOntoVirtual(right, l, Right)
	require.NoError(t, err)
	require.True(t, backRight.Equal(vc))
}

func TestZoneHashStable(t *testing.T) {
	a := NewUniversal(2)
	require.NoError(t, a.D.Constrain(1, 0, 5, false))
	b := a.Clone()
	require.Equal(t, a.Hash(), b.Hash())
}

var _ = dbm.Zero
