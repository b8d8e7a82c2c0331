// Package ring implements modular arithmetic for polynomials of the ring
// Z_q[X]/(X^N + 1) with N a power of two, including:
//
//   - addition, negation, negacyclic convolution and scalar operations,
//     with Barrett modular reduction;
//   - reduction of signed polynomials of arbitrary degree into the ring;
//   - uniform, binary and discrete Gaussian sampling.
package ring

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// MinRingDegree is the smallest supported ring degree.
	MinRingDegree = 2

	// MaxModulusBits is the largest supported bit-length for the modulus.
	MaxModulusBits = 61
)

// ErrInvalidDegree is returned when a coefficient vector whose length does
// not match the ring degree is used to construct or populate a polynomial.
var ErrInvalidDegree = errors.New("invalid polynomial degree")

// Ring is a structure storing the parameters and the precomputation for
// modular arithmetic in Z_q[X]/(X^N + 1). All operations keep coefficients
// reduced in [0, Modulus).
type Ring struct {

	// Polynomial nb.Coefficients
	N int

	// Modulus
	Modulus uint64

	// 2^bit_length(Modulus) - 1
	Mask uint64

	// Fast reduction constant
	BRedConstant [2]uint64 // Barrett Reduction
}

// NewRing creates a new Ring with degree N and modulus Modulus. N must be
// a power of two greater than or equal to MinRingDegree and Modulus an
// integer in [2, 2^MaxModulusBits).
func NewRing(N int, Modulus uint64) (r *Ring, err error) {

	if N < MinRingDegree || (N&(N-1)) != 0 {
		return nil, fmt.Errorf("invalid ring degree: must be a power of 2 greater than or equal to %d but is %d", MinRingDegree, N)
	}

	if Modulus < 2 || bits.Len64(Modulus) > MaxModulusBits {
		return nil, fmt.Errorf("invalid modulus: must be in [2, 2^%d) but is %d", MaxModulusBits, Modulus)
	}

	r = &Ring{}
	r.N = N
	r.Modulus = Modulus
	r.Mask = (1 << uint64(bits.Len64(Modulus-1))) - 1
	r.BRedConstant = GenBRedConstant(Modulus)

	return
}

// NewPoly creates a new polynomial with N coefficients set to zero.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// NewPolyFromUint64 creates a new polynomial from a vector of exactly N
// unsigned coefficients, each reduced modulo the ring modulus.
func (r *Ring) NewPolyFromUint64(coeffs []uint64) (Poly, error) {
	pol := r.NewPoly()
	if err := r.SetCoefficientsUint64(coeffs, pol); err != nil {
		return Poly{}, err
	}
	return pol, nil
}

// NewPolyFromInt64 creates a new polynomial from a vector of exactly N
// signed coefficients, each mapped to its representative in [0, Modulus).
func (r *Ring) NewPolyFromInt64(coeffs []int64) (Poly, error) {
	pol := r.NewPoly()
	if err := r.SetCoefficientsInt64(coeffs, pol); err != nil {
		return Poly{}, err
	}
	return pol, nil
}

// SetCoefficientsUint64 sets the coefficients of p1 from a vector of
// exactly N unsigned integers, reducing each coefficient modulo the ring
// modulus. Returns ErrInvalidDegree if the vector has a different length.
func (r *Ring) SetCoefficientsUint64(coeffs []uint64, p1 Poly) error {
	if len(coeffs) != r.N {
		return fmt.Errorf("%w: have %d coefficients but the ring degree is %d", ErrInvalidDegree, len(coeffs), r.N)
	}
	for i, coeff := range coeffs {
		p1.Coeffs[i] = BRedAdd(coeff, r.Modulus, r.BRedConstant)
	}
	return nil
}

// SetCoefficientsInt64 sets the coefficients of p1 from a vector of
// exactly N signed integers, mapping each coefficient to its non-negative
// representative in [0, Modulus). Returns ErrInvalidDegree if the vector
// has a different length.
func (r *Ring) SetCoefficientsInt64(coeffs []int64, p1 Poly) error {
	if len(coeffs) != r.N {
		return fmt.Errorf("%w: have %d coefficients but the ring degree is %d", ErrInvalidDegree, len(coeffs), r.N)
	}
	for i, coeff := range coeffs {
		p1.Coeffs[i] = CRed(uint64(coeff%int64(r.Modulus)+int64(r.Modulus)), r.Modulus)
	}
	return nil
}

// Reduce maps a signed polynomial of arbitrary degree into the ring,
// folding X^N to -1 and normalizing each coefficient to [0, Modulus).
// Vectors shorter than N are zero-padded, so the empty vector reduces to
// the zero polynomial.
func (r *Ring) Reduce(coeffs []int64) Poly {

	pol := r.NewPoly()

	q := r.Modulus

	for i, coeff := range coeffs {

		c := CRed(uint64(coeff%int64(q)+int64(q)), q)

		// X^(kN+j) = (-1)^k * X^j
		if (i/r.N)&1 == 1 && c != 0 {
			c = q - c
		}

		j := i & (r.N - 1)

		pol.Coeffs[j] = CRed(pol.Coeffs[j]+c, q)
	}

	return pol
}

// Center returns the representative of a in the centered interval
// (-Modulus/2, Modulus/2], with values strictly above Modulus/2
// interpreted as negative.
func (r *Ring) Center(a uint64) int64 {
	if a > r.Modulus>>1 {
		return int64(a) - int64(r.Modulus)
	}
	return int64(a)
}
