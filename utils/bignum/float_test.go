package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	testFunc1("Log", 1.4142135623730951, math.Log, Log, 1e-15, t)
	testFunc1("Exp", 1.4142135623730951, math.Exp, Exp, 1e-15, t)
	testFunc2("Pow", 2, 1.4142135623730951, math.Pow, Pow, 1e-15, t)
}

func testFunc1(name string, x float64, f func(x float64) (y float64), g func(x *big.Float) (y *big.Float), delta float64, t *testing.T) {
	t.Run(name, func(t *testing.T) {
		y, _ := g(NewFloat(x, 53)).Float64()
		require.InDelta(t, f(x), y, delta)
	})
}

func testFunc2(name string, x, e float64, f func(x, e float64) (y float64), g func(x, e *big.Float) (y *big.Float), delta float64, t *testing.T) {
	t.Run(name, func(t *testing.T) {
		y, _ := g(NewFloat(x, 53), NewFloat(e, 53)).Float64()
		require.InDelta(t, f(x, e), y, delta)
	})
}

func TestRound(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want int64
	}{
		{1.4, 1}, {1.5, 2}, {1.6, 2},
		{-1.4, -1}, {-1.5, -2}, {-1.6, -2},
		{0, 0},
	} {
		r, _ := Round(NewFloat(tc.in, 128)).Int64()
		require.Equal(t, tc.want, r)
	}
}

func TestGaussianTailBound(t *testing.T) {
	// erfc-style bound at 6 sigma is about 2*exp(-18) ~= 3.05e-8.
	tail, _ := GaussianTailBound(3.2, 19.2, 128).Float64()
	require.InDelta(t, 2*math.Exp(-18), tail, 1e-12)
}
