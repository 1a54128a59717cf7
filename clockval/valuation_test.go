package clockval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tck-go/tbisim/dbm"
)

func TestAddDelay(t *testing.T) {
	v := NewZero(3)
	v.Vals[1] = dbm.RatFromInt(1)
	v.Vals[2] = dbm.RatFromInt(2)

	out := NewZero(3)
	half := new(big.Rat).SetFrac64(1, 2)
	require.NoError(t, AddDelay(out, v, half))
	require.Equal(t, int64(0), out.Vals[0].Num().Int64())
	require.Equal(t, "3/2", out.Vals[1].RatString())
	require.Equal(t, "5/2", out.Vals[2].RatString())
}

func TestLexicalCmp(t *testing.T) {
	a := NewZero(2)
	a.Vals[1] = dbm.RatFromInt(1)
	b := NewZero(2)
	b.Vals[1] = dbm.RatFromInt(2)
	require.Equal(t, -1, LexicalCmp(a, b))
	require.Equal(t, 1, LexicalCmp(b, a))
	require.Equal(t, 0, LexicalCmp(a, a.Clone()))
}
