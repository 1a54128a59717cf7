package nbcache

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/zone"
)

func key(loc1, loc2 []int) Key {
	return Key{LocLeft: loc1, IntLeft: map[string]int{}, LocRight: loc2, IntRight: map[string]int{}}
}

func TestEmplaceAndAlreadyCached(t *testing.T) {
	c := New(2)
	z := zone.NewUniversal(2)
	require.NoError(t, z.D.Constrain(1, 0, 3, false))
	ct := zone.NewContainer(2)
	ct.AppendZone(z)

	k := key([]int{0}, []int{0})
	c.Emplace(k, ct)
	require.Equal(t, 1, c.Len())

	query := zone.NewUniversal(2)
	require.NoError(t, query.D.Constrain(1, 0, 1, false))
	res := c.AlreadyCached(k, query)
	require.False(t, res.IsEmpty())
}

func TestIsCachedPointQuery(t *testing.T) {
	c := New(2)
	z := zone.NewUniversal(2)
	require.NoError(t, z.D.Constrain(1, 0, 3, false))
	ct := zone.NewContainer(2)
	ct.AppendZone(z)
	k := key([]int{0}, []int{0})
	c.Emplace(k, ct)

	require.True(t, c.IsCached(k, []dbm.Rational{dbm.RatFromInt(0), dbm.RatFromInt(2)}))
	require.False(t, c.IsCached(k, []dbm.Rational{dbm.RatFromInt(0), dbm.RatFromInt(5)}))
}

func TestMonotoneGrowth(t *testing.T) {
	c := New(2)
	k := key([]int{0}, []int{0})
	z1 := zone.NewUniversal(2)
	require.NoError(t, z1.D.Constrain(1, 0, 1, false))
	ct1 := zone.NewContainer(2)
	ct1.AppendZone(z1)
	c.Emplace(k, ct1)
	before, _ := c.Lookup(k)
	beforeMembers := before.Clone()

	z2 := zone.NewUniversal(2)
	require.NoError(t, z2.D.Constrain(1, 0, 10, false))
	ct2 := zone.NewContainer(2)
	ct2.AppendZone(z2)
	c.Emplace(k, ct2)
	after, _ := c.Lookup(k)

	require.True(t, beforeMembers.Combine(2).Members()[0].Le(after.Members()[0]))
}
