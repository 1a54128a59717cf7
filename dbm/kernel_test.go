package dbm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniversalCanonical(t *testing.T) {
	d := Universal(3)
	require.False(t, d.IsEmpty())
	for i := 0; i < 3; i++ {
		require.Equal(t, Zero, d.At(i, i))
	}
}

func TestConstrainAndTighten(t *testing.T) {
	d := Universal(2) // ref + x
	// 1 <= x <= 5
	require.NoError(t, d.Constrain(0, 1, -1, false)) // x - 0 >= 1  <=> 0 - x <= -1
	require.NoError(t, d.Constrain(1, 0, 5, false))  // x - 0 <= 5
	require.False(t, d.IsEmpty())

	v := []Rational{RatFromInt(0), RatFromInt(3)}
	require.True(t, d.Belongs(v))
	v2 := []Rational{RatFromInt(0), RatFromInt(6)}
	require.False(t, d.Belongs(v2))
}

func TestConstrainEmpty(t *testing.T) {
	d := Universal(2)
	require.NoError(t, d.Constrain(1, 0, 2, false)) // x <= 2
	err := d.Constrain(0, 1, -3, false)              // x >= 3, contradiction
	require.ErrorIs(t, err, ErrEmpty)
	require.True(t, d.IsEmpty())
}

func TestIntersectCommutativeIdempotent(t *testing.T) {
	a := Universal(2)
	require.NoError(t, a.Constrain(1, 0, 5, false))
	b := Universal(2)
	require.NoError(t, b.Constrain(0, 1, -1, false))

	ab := a.Copy()
	require.NoError(t, ab.Intersect(b))
	ba := b.Copy()
	require.NoError(t, ba.Intersect(a))
	require.Equal(t, ab.data, ba.data)

	aa := ab.Copy()
	require.NoError(t, aa.Intersect(ab))
	require.Equal(t, ab.data, aa.data)
}

func TestResetZeroesClock(t *testing.T) {
	d := Universal(2)
	require.NoError(t, d.Constrain(1, 0, 5, false))
	require.NoError(t, d.Constrain(0, 1, -2, false))
	require.NoError(t, d.Reset(1))
	require.True(t, d.Belongs([]Rational{RatFromInt(0), RatFromInt(0)}))
	require.False(t, d.Belongs([]Rational{RatFromInt(0), RatFromInt(1)}))
}

func TestDelayMonotone(t *testing.T) {
	d := Universal(2)
	require.NoError(t, d.Constrain(1, 0, 5, false)) // x <= 5
	require.NoError(t, d.Constrain(0, 1, -1, false)) // x >= 1
	before := d.Copy()

	inv := Universal(2) // no invariant restriction
	require.NoError(t, d.Delay(inv))

	// z subset delay(z, inv): every point satisfying `before` satisfies `d`.
	v := []Rational{RatFromInt(0), RatFromInt(3)}
	require.True(t, before.Belongs(v))
	require.True(t, d.Belongs(v))
	// delay allows larger values now.
	v2 := []Rational{RatFromInt(0), RatFromInt(100)}
	require.True(t, d.Belongs(v2))
}

func TestPermuteRoundTrip(t *testing.T) {
	d := Universal(3)
	require.NoError(t, d.Constrain(1, 0, 5, false))
	require.NoError(t, d.Constrain(2, 0, 7, false))

	swapped, err := d.Permute([]int{0, 2, 1})
	require.NoError(t, err)
	back, err := swapped.Permute([]int{0, 2, 1})
	require.NoError(t, err)
	require.Equal(t, d.data, back.data)
}

func TestCanonicityTriangleInequality(t *testing.T) {
	d := Universal(3)
	require.NoError(t, d.Constrain(1, 2, 3, false))
	require.NoError(t, d.Constrain(2, 0, 4, false))
	// d(1,0) must be tightened to at most d(1,2)+d(2,0) = 7.
	require.True(t, d.At(1, 0).Val <= 7)
}
