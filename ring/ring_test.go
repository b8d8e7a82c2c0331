package ring

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lpr/utils/sampling"
)

var testParameters = []struct {
	N int
	Q uint64
}{
	{2, 874},
	{16, 874},
	{32, 65929217},
	{64, 0x1fffffffffe00001},
}

const (
	testSigma = 3.2
	testBound = 6.0 * testSigma
)

func testString(opname string, r *Ring) string {
	return fmt.Sprintf("%s/N=%d/q=%d", opname, r.N, r.Modulus)
}

type testParams struct {
	ringQ           *Ring
	prng            sampling.PRNG
	uniformSamplerQ *UniformSampler
}

func genTestParams(N int, Q uint64) (tc *testParams, err error) {

	tc = new(testParams)

	if tc.ringQ, err = NewRing(N, Q); err != nil {
		return nil, err
	}
	if tc.prng, err = sampling.NewPRNG(); err != nil {
		return nil, err
	}
	tc.uniformSamplerQ = NewUniformSampler(tc.prng, tc.ringQ)
	return
}

func TestRing(t *testing.T) {

	var err error

	testNewRing(t)
	testFixedVectors(t)

	for _, defaultParam := range testParameters {

		var tc *testParams
		if tc, err = genTestParams(defaultParam.N, defaultParam.Q); err != nil {
			t.Fatal(err)
		}

		testPRNG(tc, t)
		testModularReduction(tc, t)
		testSetCoefficients(tc, t)
		testOperations(tc, t)
		testMulPolyNaive(tc, t)
		testReduce(tc, t)
		testSampler(tc, t)
	}

	testGaussianStatistics(t)
}

func testNewRing(t *testing.T) {
	t.Run("NewRing", func(t *testing.T) {

		r, err := NewRing(0, 874)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(1, 874) // smaller than MinRingDegree
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(12, 874) // not a power of two
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, 0)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, 1)
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(16, 1<<MaxModulusBits) // modulus too large
		require.Nil(t, r)
		require.Error(t, err)

		r, err = NewRing(2, 2) // smallest supported ring
		require.NotNil(t, r)
		require.NoError(t, err)

		r, err = NewRing(16, 874)
		require.NotNil(t, r)
		require.NoError(t, err)
	})
}

// testFixedVectors checks the ring arithmetic against hand-computed
// results in small rings.
func testFixedVectors(t *testing.T) {

	t.Run("FixedVectors/MulPolyNaive/N=16/q=10", func(t *testing.T) {

		r, err := NewRing(16, 10)
		require.NoError(t, err)

		// 2*X^14 * X^4 = 2*X^18 = -2*X^2 = 8*X^2
		p1 := r.NewPoly()
		p1.Coeffs[14] = 2
		p2 := r.NewPoly()
		p2.Coeffs[4] = 1

		p3 := r.MulPolyNaiveNew(p1, p2)

		want := r.NewPoly()
		want.Coeffs[2] = 8
		require.True(t, p3.Equal(&want))
	})

	t.Run("FixedVectors/Add/N=4/q=8", func(t *testing.T) {

		r, err := NewRing(4, 8)
		require.NoError(t, err)

		// (X^3 + 2*X^2 + 3*X + 4) + itself = 2*X^3 + 4*X^2 + 6*X
		p1, err := r.NewPolyFromUint64([]uint64{4, 3, 2, 1})
		require.NoError(t, err)

		p2 := r.AddNew(p1, p1)
		require.Equal(t, []uint64{0, 6, 4, 2}, p2.Coeffs)
	})

	t.Run("FixedVectors/MulPolyNaive/N=4/q=8", func(t *testing.T) {

		r, err := NewRing(4, 8)
		require.NoError(t, err)

		// (X^3 + 2*X^2 + 3*X + 4)^2 = 4*X^3 + 4*X + 6
		p1, err := r.NewPolyFromUint64([]uint64{4, 3, 2, 1})
		require.NoError(t, err)

		p2 := r.MulPolyNaiveNew(p1, p1)
		require.Equal(t, []uint64{6, 4, 0, 4}, p2.Coeffs)
	})

	t.Run("FixedVectors/MulScalar/N=16/q=874", func(t *testing.T) {

		r, err := NewRing(16, 874)
		require.NoError(t, err)

		// 3 * (2*X^2 + 5) = 6*X^2 + 15
		coeffs := make([]uint64, 16)
		coeffs[0], coeffs[2] = 5, 2
		p1, err := r.NewPolyFromUint64(coeffs)
		require.NoError(t, err)

		p2 := r.MulScalarNew(p1, 3)

		want := r.NewPoly()
		want.Coeffs[0], want.Coeffs[2] = 15, 6
		require.True(t, p2.Equal(&want))
	})
}

func testPRNG(tc *testParams, t *testing.T) {

	t.Run(testString("PRNG", tc.ringQ), func(t *testing.T) {

		key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07,
			0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb}

		prng1, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)
		prng2, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)

		crsGenerator1 := NewUniformSampler(prng1, tc.ringQ)
		crsGenerator2 := NewUniformSampler(prng2, tc.ringQ)

		p0 := crsGenerator1.ReadNew()
		p1 := crsGenerator2.ReadNew()

		require.True(t, p0.Equal(&p1))
	})
}

func testModularReduction(tc *testParams, t *testing.T) {

	t.Run(testString("ModularReduction/BRed", tc.ringQ), func(t *testing.T) {

		q := tc.ringQ.Modulus
		brc := tc.ringQ.BRedConstant
		bigQ := new(big.Int).SetUint64(q)

		checkBRed := func(x, y uint64) {
			result := new(big.Int).SetUint64(x)
			result.Mul(result, new(big.Int).SetUint64(y))
			result.Mod(result, bigQ)

			require.Equalf(t, result.Uint64(), BRed(x, y, q, brc), "x = %v, y = %v", x, y)
		}

		for _, xy := range [][2]uint64{
			{1, 1},
			{1, q - 1},
			{1, 0xFFFFFFFFFFFFFFFF},
			{q - 1, q - 1},
			{q - 1, 0xFFFFFFFFFFFFFFFF},
			{0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF},
		} {
			checkBRed(xy[0], xy[1])
		}

		for i := 0; i < 128; i++ {
			checkBRed(sampling.RandUint64(), sampling.RandUint64())
		}
	})

	t.Run(testString("ModularReduction/BRedAdd", tc.ringQ), func(t *testing.T) {

		q := tc.ringQ.Modulus
		brc := tc.ringQ.BRedConstant

		for _, x := range []uint64{0, 1, q - 1, q, q + 1, 2*q - 1, 0xFFFFFFFFFFFFFFFF} {
			require.Equalf(t, x%q, BRedAdd(x, q, brc), "x = %v", x)
		}

		for i := 0; i < 128; i++ {
			x := sampling.RandUint64()
			require.Equalf(t, x%q, BRedAdd(x, q, brc), "x = %v", x)
		}
	})
}

func testSetCoefficients(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	N := ringQ.N
	q := ringQ.Modulus

	t.Run(testString("SetCoefficientsInt64", ringQ), func(t *testing.T) {

		coeffs := make([]int64, N)
		coeffs[0] = -1
		coeffs[1] = -int64(q) - 1
		if N > 2 {
			coeffs[2] = int64(q) + 3
			coeffs[3] = -2 * int64(q)
		}

		pol, err := ringQ.NewPolyFromInt64(coeffs)
		require.NoError(t, err)

		require.Equal(t, q-1, pol.Coeffs[0])
		require.Equal(t, q-1, pol.Coeffs[1])
		if N > 2 {
			require.Equal(t, uint64(3), pol.Coeffs[2])
			require.Equal(t, uint64(0), pol.Coeffs[3])
		}

		// wrong number of coefficients
		_, err = ringQ.NewPolyFromInt64(make([]int64, N+1))
		require.ErrorIs(t, err, ErrInvalidDegree)
		_, err = ringQ.NewPolyFromInt64(nil)
		require.ErrorIs(t, err, ErrInvalidDegree)
	})

	t.Run(testString("SetCoefficientsUint64", ringQ), func(t *testing.T) {

		coeffs := make([]uint64, N)
		coeffs[0] = q
		coeffs[1] = 0xFFFFFFFFFFFFFFFF

		pol, err := ringQ.NewPolyFromUint64(coeffs)
		require.NoError(t, err)

		require.Equal(t, uint64(0), pol.Coeffs[0])
		require.Equal(t, 0xFFFFFFFFFFFFFFFF%q, pol.Coeffs[1])

		_, err = ringQ.NewPolyFromUint64(make([]uint64, N-1))
		require.ErrorIs(t, err, ErrInvalidDegree)
	})
}

func testOperations(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	q := ringQ.Modulus

	t.Run(testString("Operations/AddNegSub", ringQ), func(t *testing.T) {

		p1 := tc.uniformSamplerQ.ReadNew()
		p2 := tc.uniformSamplerQ.ReadNew()

		// p1 + (-p1) = 0
		zero := ringQ.AddNew(p1, ringQ.NegNew(p1))
		for j := range zero.Coeffs {
			require.Equal(t, uint64(0), zero.Coeffs[j])
		}

		// (p1 + p2) - p2 = p1
		p3 := ringQ.SubNew(ringQ.AddNew(p1, p2), p2)
		require.True(t, p3.Equal(&p1))

		// all outputs reduced
		for j := range p3.Coeffs {
			require.Less(t, p3.Coeffs[j], q)
		}
	})

	t.Run(testString("Operations/Scalar", ringQ), func(t *testing.T) {

		p1 := tc.uniformSamplerQ.ReadNew()

		// p1 * 1 = p1, p1 + 0 = p1
		p2 := ringQ.MulScalarNew(p1, 1)
		require.True(t, p2.Equal(&p1))
		ringQ.AddScalar(p1, 0, p2)
		require.True(t, p2.Equal(&p1))

		// p1 * 3 = p1 + p1 + p1
		p3 := ringQ.MulScalarNew(p1, 3)
		p4 := ringQ.AddNew(ringQ.AddNew(p1, p1), p1)
		require.True(t, p3.Equal(&p4))

		// scalars are reduced before use
		p5 := ringQ.MulScalarNew(p1, q+3)
		require.True(t, p5.Equal(&p3))
	})
}

// mulPolyNaiveRef is a big.Int negacyclic convolution used as reference.
func mulPolyNaiveRef(r *Ring, p1, p2 Poly) []uint64 {

	N := r.N
	bigQ := new(big.Int).SetUint64(r.Modulus)

	acc := make([]*big.Int, N)
	for i := range acc {
		acc[i] = new(big.Int)
	}

	tmp := new(big.Int)

	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			tmp.Mul(new(big.Int).SetUint64(p1.Coeffs[i]), new(big.Int).SetUint64(p2.Coeffs[j]))
			if k := i + j; k < N {
				acc[k].Add(acc[k], tmp)
			} else {
				acc[k-N].Sub(acc[k-N], tmp)
			}
		}
	}

	out := make([]uint64, N)
	for i := range acc {
		out[i] = acc[i].Mod(acc[i], bigQ).Uint64()
	}
	return out
}

func testMulPolyNaive(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ

	t.Run(testString("MulPolyNaive", ringQ), func(t *testing.T) {

		p1 := tc.uniformSamplerQ.ReadNew()
		p2 := tc.uniformSamplerQ.ReadNew()

		p3 := ringQ.MulPolyNaiveNew(p1, p2)
		require.Equal(t, mulPolyNaiveRef(ringQ, p1, p2), p3.Coeffs)

		// commutativity
		p4 := ringQ.MulPolyNaiveNew(p2, p1)
		require.True(t, p3.Equal(&p4))

		// X^(N-1) * X = -1
		m1 := ringQ.NewPoly()
		m1.Coeffs[ringQ.N-1] = 1
		m2 := ringQ.NewPoly()
		m2.Coeffs[1] = 1

		p5 := ringQ.MulPolyNaiveNew(m1, m2)
		want := ringQ.NewPoly()
		want.Coeffs[0] = ringQ.Modulus - 1
		require.True(t, p5.Equal(&want))
	})

	t.Run(testString("MulPolyNaive/Aliased", ringQ), func(t *testing.T) {

		p1 := tc.uniformSamplerQ.ReadNew()
		p2 := tc.uniformSamplerQ.ReadNew()

		want := ringQ.MulPolyNaiveNew(p1, p2)

		// output aliases one input
		ringQ.MulPolyNaive(p1, p2, p1)
		require.True(t, p1.Equal(&want))

		// squaring in place
		p3 := p2.CopyNew()
		ringQ.MulPolyNaive(p2, p2, p2)
		want = ringQ.MulPolyNaiveNew(p3, p3)
		require.True(t, p2.Equal(&want))
	})
}

// reduceRef folds a signed polynomial with a schoolbook long division by
// X^N + 1, used as reference for Ring.Reduce.
func reduceRef(r *Ring, coeffs []int64) []uint64 {

	c := make([]int64, len(coeffs))
	copy(c, coeffs)

	for i := len(c) - 1; i >= r.N; i-- {
		c[i-r.N] -= c[i]
		c[i] = 0
	}

	q := int64(r.Modulus)
	out := make([]uint64, r.N)
	for i := 0; i < r.N && i < len(c); i++ {
		out[i] = uint64(((c[i] % q) + q) % q)
	}
	return out
}

func testReduce(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	N := ringQ.N

	t.Run(testString("Reduce", ringQ), func(t *testing.T) {

		// arbitrary degrees, signed coefficients
		for _, size := range []int{0, 1, N - 1, N, N + 1, 2 * N, 4*N + 3} {

			coeffs := make([]int64, size)
			for i := range coeffs {
				coeffs[i] = int64(sampling.RandUint64()%(1<<40)) - (1 << 39)
			}

			pol := ringQ.Reduce(coeffs)
			require.Equal(t, reduceRef(ringQ, coeffs), pol.Coeffs, "size = %v", size)
		}
	})

	t.Run(testString("Reduce/MatchesSetCoefficientsInt64", ringQ), func(t *testing.T) {

		coeffs := make([]int64, N)
		for i := range coeffs {
			coeffs[i] = int64(sampling.RandUint64()%(1<<40)) - (1 << 39)
		}

		p1 := ringQ.Reduce(coeffs)
		p2, err := ringQ.NewPolyFromInt64(coeffs)
		require.NoError(t, err)
		require.True(t, p1.Equal(&p2))
	})

	t.Run(testString("Reduce/FoldedMonomial", ringQ), func(t *testing.T) {

		// X^N reduces to -1
		coeffs := make([]int64, N+1)
		coeffs[N] = 1

		pol := ringQ.Reduce(coeffs)
		want := ringQ.NewPoly()
		want.Coeffs[0] = ringQ.Modulus - 1
		require.True(t, pol.Equal(&want))

		// X^2N reduces to 1
		coeffs = make([]int64, 2*N+1)
		coeffs[2*N] = 1

		pol = ringQ.Reduce(coeffs)
		want = ringQ.NewPoly()
		want.Coeffs[0] = 1
		require.True(t, pol.Equal(&want))
	})
}

func testSampler(tc *testParams, t *testing.T) {

	ringQ := tc.ringQ
	N := ringQ.N
	q := ringQ.Modulus

	t.Run(testString("Sampler/Uniform", ringQ), func(t *testing.T) {

		pol := ringQ.NewPoly()
		tc.uniformSamplerQ.Read(pol)

		for i := 0; i < N; i++ {
			require.Less(t, pol.Coeffs[i], q)
		}
	})

	t.Run(testString("Sampler/Binary", ringQ), func(t *testing.T) {

		sampler, err := NewSampler(tc.prng, ringQ, Binary{})
		require.NoError(t, err)

		pol := sampler.ReadNew()

		for i := 0; i < N; i++ {
			require.LessOrEqual(t, pol.Coeffs[i], uint64(1))
		}
	})

	t.Run(testString("Sampler/Gaussian", ringQ), func(t *testing.T) {

		dist := DiscreteGaussian{Sigma: testSigma, Bound: testBound}

		sampler, err := NewSampler(tc.prng, ringQ, dist)
		require.NoError(t, err)

		noiseBound := uint64(dist.Bound)

		pol := sampler.ReadNew()

		for i := 0; i < N; i++ {
			require.False(t, noiseBound < pol.Coeffs[i] && pol.Coeffs[i] < (q-noiseBound))
		}
	})

	t.Run(testString("Sampler/Deterministic", ringQ), func(t *testing.T) {

		key := []byte{0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92}

		for _, X := range []DistributionParameters{
			Uniform{},
			Binary{},
			DiscreteGaussian{Sigma: testSigma, Bound: testBound},
		} {
			prng1, _ := sampling.NewKeyedPRNG(key)
			prng2, _ := sampling.NewKeyedPRNG(key)

			sampler1, err := NewSampler(prng1, ringQ, X)
			require.NoError(t, err)
			sampler2, err := NewSampler(prng2, ringQ, X)
			require.NoError(t, err)

			p1 := sampler1.ReadNew()
			p2 := sampler2.ReadNew()

			require.Truef(t, p1.Equal(&p2), "distribution %s", X.Type())
		}
	})

	t.Run(testString("Sampler/ReadAndAdd", ringQ), func(t *testing.T) {

		key := []byte{0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09}

		prng1, _ := sampling.NewKeyedPRNG(key)
		prng2, _ := sampling.NewKeyedPRNG(key)

		sampler1 := NewUniformSampler(prng1, ringQ)
		sampler2 := NewUniformSampler(prng2, ringQ)

		base := tc.uniformSamplerQ.ReadNew()

		p1 := base.CopyNew()
		sampler1.ReadAndAdd(p1)

		p2 := ringQ.AddNew(base, sampler2.ReadNew())

		require.True(t, p1.Equal(&p2))
	})

	t.Run(testString("Sampler/GaussianInvalid", ringQ), func(t *testing.T) {

		_, err := NewGaussianSampler(tc.prng, ringQ, DiscreteGaussian{Sigma: 0})
		require.Error(t, err)

		_, err = NewGaussianSampler(tc.prng, ringQ, DiscreteGaussian{Sigma: -3.2})
		require.Error(t, err)

		// bound above half of the modulus
		_, err = NewGaussianSampler(tc.prng, ringQ, DiscreteGaussian{Sigma: testSigma, Bound: float64(q)})
		require.Error(t, err)
	})
}

// testGaussianStatistics draws many Gaussian coefficients with a fixed key
// and checks the empirical moments of the centered samples.
func testGaussianStatistics(t *testing.T) {

	t.Run("Sampler/Gaussian/Statistics", func(t *testing.T) {

		ringQ, err := NewRing(1024, 0x1fffffffffe00001)
		require.NoError(t, err)

		prng, err := sampling.NewKeyedPRNG([]byte{0xee, 0x09, 0x7c, 0x98})
		require.NoError(t, err)

		sampler, err := NewGaussianSampler(prng, ringQ, DiscreteGaussian{Sigma: testSigma, Bound: testBound})
		require.NoError(t, err)

		samples := make([]float64, 0, 16*ringQ.N)
		for k := 0; k < 16; k++ {
			pol := sampler.ReadNew()
			for i := 0; i < ringQ.N; i++ {
				samples = append(samples, float64(ringQ.Center(pol.Coeffs[i])))
			}
		}

		mean, err := stats.Mean(samples)
		require.NoError(t, err)
		std, err := stats.StandardDeviation(samples)
		require.NoError(t, err)

		// rounding to integers adds a variance of about 1/12
		wantStd := math.Sqrt(testSigma*testSigma + 1.0/12.0)

		require.InDelta(t, 0, mean, 0.2)
		require.InEpsilon(t, wantStd, std, 0.1)
	})
}
