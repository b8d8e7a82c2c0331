package ring

import (
	"github.com/tuneinsight/lpr/utils"
)

// Poly is the structure that contains the coefficients of a polynomial.
// Coefficients are stored in increasing degree order, reduced modulo the
// modulus of the Ring that allocated the Poly.
type Poly struct {
	Coeffs []uint64
}

// NewPoly creates a new polynomial with N coefficients set to zero.
func NewPoly(N int) (pol Poly) {
	return Poly{Coeffs: make([]uint64, N)}
}

// N returns the number of coefficients of the polynomial, which equals the
// degree of the Ring cyclotomic polynomial.
func (pol Poly) N() int {
	return len(pol.Coeffs)
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly) Zero() {
	for i := range pol.Coeffs {
		pol.Coeffs[i] = 0
	}
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() (p1 Poly) {
	p1 = Poly{Coeffs: make([]uint64, len(pol.Coeffs))}
	copy(p1.Coeffs, pol.Coeffs)
	return
}

// Copy copies the coefficients of p1 on the target polynomial.
// Expects the degree of both polynomials to be identical.
func (pol Poly) Copy(p1 Poly) {
	if &pol.Coeffs[0] != &p1.Coeffs[0] {
		copy(pol.Coeffs, p1.Coeffs)
	}
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
// This function checks for strict equality between the polynomial
// coefficients.
func (pol Poly) Equal(other *Poly) bool {
	return utils.EqualSlice(pol.Coeffs, other.Coeffs)
}
