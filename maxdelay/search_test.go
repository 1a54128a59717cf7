package maxdelay

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/clockval"
	"github.com/tck-go/tbisim/dbm"
	"github.com/tck-go/tbisim/zone"
)

func TestSearchReachesEndpoint(t *testing.T) {
	z := zone.NewUniversal(2)
	require.NoError(t, z.D.Constrain(1, 0, 10, false)) // x <= 10
	v := clockval.NewZero(2)
	got := Search(z, v, 5)
	require.Equal(t, "5", got.RatString())
}

func TestSearchZeroWhenAlreadyOutside(t *testing.T) {
	z := zone.NewUniversal(2)
	require.NoError(t, z.D.Constrain(0, 1, -3, false)) // x >= 3
	require.NoError(t, z.D.Constrain(1, 0, 4, false))  // x <= 4, so v+5 is outside too
	v := clockval.NewZero(2)                           // x = 0, not in zone
	got := Search(z, v, 5)
	require.Equal(t, "0", got.RatString())
}

func TestSearchHalfBoundary(t *testing.T) {
	z := zone.NewUniversal(2)
	require.NoError(t, z.D.Constrain(1, 0, 3, false)) // x <= 3
	v := clockval.NewZero(2)
	v.Vals[1] = dbm.RatFromInt(0)
	got := Search(z, v, 4) // would exceed at 4, largest feasible in bisection is 3 (no half needed since integer boundary hit during bisect)
	require.Equal(t, "3", got.RatString())
}
