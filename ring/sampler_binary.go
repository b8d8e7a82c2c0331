package ring

import (
	"github.com/tuneinsight/lpr/utils/sampling"
)

// BinarySampler keeps the state of a polynomial sampler with coefficients
// uniformly distributed in {0, 1}.
type BinarySampler struct {
	*baseSampler
}

// NewBinarySampler creates a new instance of BinarySampler from a PRNG and
// ring definition.
func NewBinarySampler(prng sampling.PRNG, baseRing *Ring) (b *BinarySampler) {
	b = new(BinarySampler)
	b.baseSampler = &baseSampler{}
	b.baseRing = baseRing
	b.prng = prng
	return
}

// Read samples a polynomial with coefficients in {0, 1} into pol.
func (b *BinarySampler) Read(pol Poly) {
	b.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadNew samples a new polynomial with coefficients in {0, 1}.
func (b *BinarySampler) ReadNew() (pol Poly) {
	pol = b.baseRing.NewPoly()
	b.Read(pol)
	return
}

// ReadAndAdd samples a polynomial with coefficients in {0, 1} and adds it
// on pol.
func (b *BinarySampler) ReadAndAdd(pol Poly) {
	b.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

func (b *BinarySampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	N := b.baseRing.N
	q := b.baseRing.Modulus

	// one random bit per coefficient
	randomBytes := make([]byte, (N+7)>>3)

	if _, err := b.prng.Read(randomBytes); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}

	coeffs := pol.Coeffs

	for i := 0; i < N; i++ {
		bit := uint64(randomBytes[i>>3]>>(i&7)) & 1
		coeffs[i] = f(coeffs[i], bit, q)
	}
}
