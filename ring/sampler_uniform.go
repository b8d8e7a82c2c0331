package ring

import (
	"encoding/binary"

	"github.com/tuneinsight/lpr/utils/sampling"
)

// UniformSampler wraps a PRNG and represents the state of a sampler of
// uniform polynomials.
type UniformSampler struct {
	*baseSampler
	*randomBuffer
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG
// and ring definition.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) (u *UniformSampler) {
	u = new(UniformSampler)
	u.baseSampler = &baseSampler{}
	u.baseRing = baseRing
	u.prng = prng
	u.randomBuffer = newRandomBuffer()
	return
}

// Read samples a polynomial with coefficients following a uniform
// distribution over [0, Modulus-1] into pol.
func (u *UniformSampler) Read(pol Poly) {
	u.read(pol, func(a, b, c uint64) uint64 {
		return b
	})
}

// ReadNew samples a new polynomial with coefficients following a uniform
// distribution over [0, Modulus-1].
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return
}

// ReadAndAdd samples a polynomial with coefficients following a uniform
// distribution over [0, Modulus-1] and adds it on pol.
func (u *UniformSampler) ReadAndAdd(pol Poly) {
	u.read(pol, func(a, b, c uint64) uint64 {
		return CRed(a+b, c)
	})
}

func (u *UniformSampler) read(pol Poly, f func(a, b, c uint64) uint64) {

	var randomUint uint64

	prng := u.prng
	N := u.baseRing.N
	q := u.baseRing.Modulus
	mask := u.baseRing.Mask
	byteArrayLength := len(u.randomBufferN)

	var ptr int
	if ptr = u.ptr; ptr == 0 || ptr == byteArrayLength {
		if _, err := prng.Read(u.randomBufferN); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		ptr = 0 // for the case where ptr == byteArrayLength
	}

	buffer := u.randomBufferN

	coeffs := pol.Coeffs

	for i := 0; i < N; i++ {

		// Samples an integer between [0, q-1]
		for {

			// Refills the buff if it runs empty
			if ptr == byteArrayLength {
				if _, err := prng.Read(buffer); err != nil {
					// Sanity check, this error should not happen.
					panic(err)
				}
				ptr = 0
			}

			// Reads bytes from the buff
			randomUint = binary.BigEndian.Uint64(buffer[ptr:ptr+8]) & mask
			ptr += 8

			// If the integer is between [0, q-1], breaks the loop
			if randomUint < q {
				break
			}
		}

		coeffs[i] = f(coeffs[i], randomUint, q)
	}

	u.ptr = ptr
}
