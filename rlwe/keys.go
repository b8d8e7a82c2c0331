package rlwe

import (
	"github.com/tuneinsight/lpr/ring"
)

// SecretKey is a type for LPR secret keys. The key is a polynomial drawn
// from the secret distribution of the parameters.
type SecretKey struct {
	Value ring.Poly
}

// PublicKey is a type for LPR public keys. Value[0] holds -(a*sk) + e and
// Value[1] holds the uniform polynomial a.
type PublicKey struct {
	Value [2]ring.Poly
}

// NewSecretKey generates a new SecretKey with zero values.
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: params.RingQ().NewPoly()}
}

// NewPublicKey returns a new PublicKey with zero values.
func NewPublicKey(params Parameters) *PublicKey {
	return &PublicKey{Value: [2]ring.Poly{params.RingQ().NewPoly(), params.RingQ().NewPoly()}}
}

// CopyNew creates a deep copy of the receiver secret key and returns it.
func (sk *SecretKey) CopyNew() *SecretKey {
	if sk == nil {
		return nil
	}
	return &SecretKey{sk.Value.CopyNew()}
}

// CopyNew creates a deep copy of the receiver PublicKey and returns it.
func (pk *PublicKey) CopyNew() *PublicKey {
	if pk == nil {
		return nil
	}
	return &PublicKey{[2]ring.Poly{pk.Value[0].CopyNew(), pk.Value[1].CopyNew()}}
}

// Equal checks two SecretKey structs for equality.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk == other {
		return true
	}
	return sk.Value.Equal(&other.Value)
}

// Equal checks two PublicKey structs for equality.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == other {
		return true
	}
	return pk.Value[0].Equal(&other.Value[0]) && pk.Value[1].Equal(&other.Value[1])
}
