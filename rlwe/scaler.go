package rlwe

import (
	"math/bits"

	"github.com/tuneinsight/lpr/ring"
)

// Scaler implements the plaintext scaling by Delta = floor(Q/T) and its
// rounded inverse, mapping polynomials between the plaintext-space ring
// and the ciphertext-space ring.
type Scaler struct {
	ringQ *ring.Ring
	ringT *ring.Ring
	delta uint64
}

// NewScaler creates a new Scaler from the rings and scaling factor of the
// given parameters.
func NewScaler(params Parameters) *Scaler {
	return &Scaler{
		ringQ: params.RingQ(),
		ringT: params.RingT(),
		delta: params.Delta(),
	}
}

// ScaleUpByQOverT evaluates pQ = Delta * pT, lifting a plaintext
// polynomial into the ciphertext-space ring. Since Delta*(T-1) < Q the
// products are exact and already reduced.
func (s *Scaler) ScaleUpByQOverT(pT, pQ ring.Poly) {
	delta := s.delta
	for i, c := range pT.Coeffs {
		pQ.Coeffs[i] = delta * c
	}
}

// DivByQOverTRounded evaluates pT = round(pQ * T / Q) mod T
// coefficient-wise, interpreting each coefficient of pQ as its centered
// representative in (-Q/2, Q/2]. The rounding is computed exactly with
// 128-bit integer arithmetic, ties rounding away from zero.
func (s *Scaler) DivByQOverTRounded(pQ, pT ring.Poly) {

	q := s.ringQ.Modulus
	t := s.ringT.Modulus
	qHalf := q >> 1
	brcT := s.ringT.BRedConstant

	for i, c := range pQ.Coeffs {

		neg := c > qHalf
		if neg {
			c = q - c
		}

		// round(c * t / q); c*t < q*2^64 so the division cannot overflow
		hi, lo := bits.Mul64(c, t)
		quo, rem := bits.Div64(hi, lo, q)
		if rem<<1 >= q {
			quo++
		}

		quo = ring.BRedAdd(quo, t, brcT)

		if neg && quo != 0 {
			quo = t - quo
		}

		pT.Coeffs[i] = quo
	}
}
