package rlwe

import (
	"github.com/tuneinsight/lpr/ring"
)

// Ciphertext is a type for LPR ciphertexts. Value[0] holds
// pk[0]*u + e1 + Delta*m and Value[1] holds pk[1]*u + e2, both over the
// ciphertext-space ring.
type Ciphertext struct {
	Value [2]ring.Poly
}

// NewCiphertext creates a new Ciphertext with zero values.
func NewCiphertext(params Parameters) *Ciphertext {
	return &Ciphertext{Value: [2]ring.Poly{params.RingQ().NewPoly(), params.RingQ().NewPoly()}}
}

// Degree returns the degree of the ciphertext, which is always 1 for a
// fresh encryption.
func (ct *Ciphertext) Degree() int {
	return len(ct.Value) - 1
}

// CopyNew creates a deep copy of the receiver Ciphertext and returns it.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	if ct == nil {
		return nil
	}
	return &Ciphertext{Value: [2]ring.Poly{ct.Value[0].CopyNew(), ct.Value[1].CopyNew()}}
}

// Equal checks two Ciphertext structs for equality.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	if ct == other {
		return true
	}
	return ct.Value[0].Equal(&other.Value[0]) && ct.Value[1].Equal(&other.Value[1])
}
