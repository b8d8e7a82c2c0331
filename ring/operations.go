package ring

import (
	"github.com/tuneinsight/lpr/utils"
)

// Add evaluates p3 = p1 + p2 coefficient-wise in the ring.
func (r *Ring) Add(p1, p2, p3 Poly) {
	q := r.Modulus
	p1tmp, p2tmp, p3tmp := p1.Coeffs, p2.Coeffs, p3.Coeffs
	for j := 0; j < r.N; j++ {
		p3tmp[j] = CRed(p1tmp[j]+p2tmp[j], q)
	}
}

// AddNew evaluates p3 = p1 + p2 coefficient-wise in the ring, returning
// the result on a new polynomial.
func (r *Ring) AddNew(p1, p2 Poly) (p3 Poly) {
	p3 = r.NewPoly()
	r.Add(p1, p2, p3)
	return
}

// Sub evaluates p3 = p1 - p2 coefficient-wise in the ring.
func (r *Ring) Sub(p1, p2, p3 Poly) {
	q := r.Modulus
	p1tmp, p2tmp, p3tmp := p1.Coeffs, p2.Coeffs, p3.Coeffs
	for j := 0; j < r.N; j++ {
		p3tmp[j] = CRed((p1tmp[j]+q)-p2tmp[j], q)
	}
}

// SubNew evaluates p3 = p1 - p2 coefficient-wise in the ring, returning
// the result on a new polynomial.
func (r *Ring) SubNew(p1, p2 Poly) (p3 Poly) {
	p3 = r.NewPoly()
	r.Sub(p1, p2, p3)
	return
}

// Neg evaluates p2 = -p1 coefficient-wise in the ring.
func (r *Ring) Neg(p1, p2 Poly) {
	q := r.Modulus
	p1tmp, p2tmp := p1.Coeffs, p2.Coeffs
	for j := 0; j < r.N; j++ {
		p2tmp[j] = CRed(q-p1tmp[j], q)
	}
}

// NegNew evaluates p2 = -p1 coefficient-wise in the ring, returning the
// result on a new polynomial.
func (r *Ring) NegNew(p1 Poly) (p2 Poly) {
	p2 = r.NewPoly()
	r.Neg(p1, p2)
	return
}

// AddScalar evaluates p2 = p1 + scalar coefficient-wise in the ring.
func (r *Ring) AddScalar(p1 Poly, scalar uint64, p2 Poly) {
	q := r.Modulus
	s := BRedAdd(scalar, q, r.BRedConstant)
	p1tmp, p2tmp := p1.Coeffs, p2.Coeffs
	for j := 0; j < r.N; j++ {
		p2tmp[j] = CRed(p1tmp[j]+s, q)
	}
}

// MulScalar evaluates p2 = p1 * scalar coefficient-wise in the ring.
func (r *Ring) MulScalar(p1 Poly, scalar uint64, p2 Poly) {
	q := r.Modulus
	s := BRedAdd(scalar, q, r.BRedConstant)
	p1tmp, p2tmp := p1.Coeffs, p2.Coeffs
	for j := 0; j < r.N; j++ {
		p2tmp[j] = BRed(p1tmp[j], s, q, r.BRedConstant)
	}
}

// MulScalarNew evaluates p2 = p1 * scalar coefficient-wise in the ring,
// returning the result on a new polynomial.
func (r *Ring) MulScalarNew(p1 Poly, scalar uint64) (p2 Poly) {
	p2 = r.NewPoly()
	r.MulScalar(p1, scalar, p2)
	return
}

// MulPolyNaive multiplies p1 by p2 with a naive negacyclic convolution,
// returning the result on p3. The output polynomial can alias either
// input.
func (r *Ring) MulPolyNaive(p1, p2, p3 Poly) {

	if utils.Alias1D(p1.Coeffs, p3.Coeffs) {
		p1 = p1.CopyNew()
	}
	if utils.Alias1D(p2.Coeffs, p3.Coeffs) {
		p2 = p2.CopyNew()
	}

	q := r.Modulus
	brc := r.BRedConstant

	p1tmp, p2tmp, p3tmp := p1.Coeffs, p2.Coeffs, p3.Coeffs

	p3.Zero()

	for i := 0; i < r.N; i++ {

		for j := 0; j < i; j++ {
			p3tmp[j] = CRed(p3tmp[j]+(q-BRed(p1tmp[i], p2tmp[r.N-i+j], q, brc)), q)
		}

		for j := i; j < r.N; j++ {
			p3tmp[j] = CRed(p3tmp[j]+BRed(p1tmp[i], p2tmp[j-i], q, brc), q)
		}
	}
}

// MulPolyNaiveNew multiplies p1 by p2 with a naive negacyclic convolution,
// returning the result on a new polynomial.
func (r *Ring) MulPolyNaiveNew(p1, p2 Poly) (p3 Poly) {
	p3 = r.NewPoly()
	r.MulPolyNaive(p1, p2, p3)
	return
}
