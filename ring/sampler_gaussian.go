package ring

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tuneinsight/lpr/utils/sampling"
)

// GaussianSampler keeps the state of a polynomial sampler in the rounded
// Gaussian distribution.
type GaussianSampler struct {
	*baseSampler
	*randomBuffer
	xe DiscreteGaussian
}

// NewGaussianSampler creates a new instance of GaussianSampler from a PRNG,
// a ring definition and the distribution parameters (see type
// DiscreteGaussian). An unset Bound is defaulted to 6*Sigma. The bound must
// remain below half of the ring modulus, otherwise the signed-to-ring
// mapping of the sampled coefficients is not injective.
func NewGaussianSampler(prng sampling.PRNG, baseRing *Ring, X DiscreteGaussian) (g *GaussianSampler, err error) {

	if X.Sigma <= 0 {
		return nil, fmt.Errorf("invalid DiscreteGaussian: Sigma must be strictly positive but is %f", X.Sigma)
	}

	if X.Bound == 0 {
		X.Bound = 6 * X.Sigma
	}

	if X.Bound < 0 {
		return nil, fmt.Errorf("invalid DiscreteGaussian: Bound must be positive but is %f", X.Bound)
	}

	if uint64(X.Bound) > (baseRing.Modulus-1)>>1 {
		return nil, fmt.Errorf("invalid DiscreteGaussian: Bound %f exceeds half of the ring modulus %d", X.Bound, baseRing.Modulus)
	}

	g = new(GaussianSampler)
	g.baseSampler = &baseSampler{}
	g.baseRing = baseRing
	g.prng = prng
	g.randomBuffer = newRandomBuffer()
	g.xe = X

	return
}

// Parameters returns the distribution parameters of the sampler, with the
// Bound field set to its effective value.
func (g *GaussianSampler) Parameters() DiscreteGaussian {
	return g.xe
}

// Read samples a polynomial with rounded Gaussian coefficients into pol.
func (g *GaussianSampler) Read(pol Poly) {
	g.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadNew samples a new polynomial with rounded Gaussian coefficients.
func (g *GaussianSampler) ReadNew() (pol Poly) {
	pol = g.baseRing.NewPoly()
	g.Read(pol)
	return
}

// ReadAndAdd samples a polynomial with rounded Gaussian coefficients and
// adds it on pol.
func (g *GaussianSampler) ReadAndAdd(pol Poly) {
	g.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

func (g *GaussianSampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	N := g.baseRing.N
	q := g.baseRing.Modulus

	sigma := g.xe.Sigma
	bound := g.xe.Bound

	var coeffFlo float64
	var coeffInt uint64

	coeffs := pol.Coeffs

	for i := 0; i < N; i++ {

		// Samples a rounded Gaussian integer within [-bound, bound]
		for {
			coeffFlo = math.Round(g.normFloat64() * sigma)
			if math.Abs(coeffFlo) <= bound {
				break
			}
		}

		if coeffFlo >= 0 {
			coeffInt = uint64(coeffFlo)
		} else {
			coeffInt = q - uint64(-coeffFlo)
		}

		coeffs[i] = f(coeffs[i], coeffInt, q)
	}
}

// normFloat64 returns a normally distributed float64 with mean 0 and
// standard deviation 1, computed with the Box-Muller transform over the
// PRNG output.
func (g *GaussianSampler) normFloat64() float64 {
	u1 := g.randFloat64()
	u2 := g.randFloat64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// randFloat64 returns a uniform float64 in (0, 1] with 53 bits of
// precision, consuming eight bytes of the random buffer.
func (g *GaussianSampler) randFloat64() float64 {

	buffer := g.randomBufferN

	// Refills the buff if it runs empty
	if g.ptr == 0 || g.ptr == len(buffer) {
		if _, err := g.prng.Read(buffer); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		g.ptr = 0
	}

	x := binary.BigEndian.Uint64(buffer[g.ptr : g.ptr+8])
	g.ptr += 8

	return (float64(x>>11) + 1) * (1.0 / (1 << 53))
}
