package rlwe

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/lpr/ring"
)

// ErrInvalidPlaintext is wrapped by the errors returned when a plaintext
// coefficient is not smaller than the plaintext modulus.
var ErrInvalidPlaintext = errors.New("invalid plaintext")

// Plaintext is a type for LPR plaintexts. Value is a polynomial over the
// plaintext-space ring, with coefficients in [0, T).
type Plaintext struct {
	Value ring.Poly
}

// NewPlaintext creates a new Plaintext from a vector of exactly N
// coefficients. It returns an error wrapping ErrInvalidPlaintext if a
// coefficient is not smaller than T and an error wrapping
// ring.ErrInvalidDegree if the vector does not have N coefficients.
func NewPlaintext(params Parameters, coeffs []uint64) (*Plaintext, error) {

	for i, c := range coeffs {
		if c >= params.T() {
			return nil, fmt.Errorf("%w: coefficient %d is %d but the plaintext modulus is %d", ErrInvalidPlaintext, i, c, params.T())
		}
	}

	value, err := params.RingT().NewPolyFromUint64(coeffs)
	if err != nil {
		return nil, err
	}

	return &Plaintext{Value: value}, nil
}

// NewPlaintextZero creates a new Plaintext with zero values.
func NewPlaintextZero(params Parameters) *Plaintext {
	return &Plaintext{Value: params.RingT().NewPoly()}
}

// CopyNew creates a deep copy of the receiver Plaintext and returns it.
func (pt *Plaintext) CopyNew() *Plaintext {
	if pt == nil {
		return nil
	}
	return &Plaintext{Value: pt.Value.CopyNew()}
}

// Equal checks two Plaintext structs for equality.
func (pt *Plaintext) Equal(other *Plaintext) bool {
	if pt == other {
		return true
	}
	return pt.Value.Equal(&other.Value)
}
