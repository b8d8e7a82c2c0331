// Package rlwe implements the LPR public-key cryptosystem over the ring
// Z_q[X]/(X^N + 1): parameter validation, key generation, public-key
// encryption and decryption, together with the noise bookkeeping that
// determines when decryption is guaranteed to be correct.
package rlwe

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/lpr/ring"
)

const (
	// DefaultNoise is the default standard deviation of the error
	// distribution.
	DefaultNoise = 3.2

	// DefaultNoiseBound is the default truncation bound of the error
	// distribution, in absolute value.
	DefaultNoiseBound = 19.2 // 6*3.2
)

// DefaultXe is the default discrete Gaussian error distribution.
var DefaultXe = ring.DiscreteGaussian{Sigma: DefaultNoise, Bound: DefaultNoiseBound}

// DefaultXs is the default secret distribution.
var DefaultXs = ring.Binary{}

// ErrInvalidParameters is wrapped by the errors returned when a parameter
// literal is structurally invalid.
var ErrInvalidParameters = errors.New("invalid parameters")

// ErrNoiseBudgetExceeded is wrapped by the warning returned by
// NewParametersFromLiteral when a single error coefficient can already
// exceed the rounding margin Q/(2*T). The returned parameters remain
// usable; decryption is simply no longer guaranteed to be correct.
var ErrNoiseBudgetExceeded = errors.New("noise budget exceeded")

// ParametersLiteral is a literal representation of LPR parameters. It has
// public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The NewParametersFromLiteral function is
// used to generate the actual checked parameters from the literal
// representation.
//
// Users must set the ring degree N, the ciphertext modulus Q and the
// plaintext modulus T. Optionally, users may specify the error
// distribution (Xe) and the secret distribution (Xs); if left unset,
// DefaultXe and DefaultXs are substituted at parameter creation.
type ParametersLiteral struct {
	N  int
	Q  uint64
	T  uint64
	Xe ring.DistributionParameters `json:",omitempty"`
	Xs ring.DistributionParameters `json:",omitempty"`
}

// Parameters represents a checked set of LPR parameters. Its fields are
// private and immutable. See ParametersLiteral for user-specified
// parameters.
type Parameters struct {
	n     int
	q     uint64
	t     uint64
	delta uint64
	xe    Distribution
	xs    Distribution
	ringQ *ring.Ring
	ringT *ring.Ring
}

// NewParametersFromLiteral instantiates a set of LPR parameters from a
// ParametersLiteral specification. It returns the empty parameters
// Parameters{} and a non-nil error wrapping ErrInvalidParameters if the
// specified parameters are invalid.
//
// If the parameters are valid but the bound of the error distribution
// reaches Q/(2*T), the rounding margin of a single error coefficient, the
// method returns the usable parameters together with a non-nil warning
// wrapping ErrNoiseBudgetExceeded.
func NewParametersFromLiteral(paramDef ParametersLiteral) (params Parameters, err error) {

	if paramDef.Xs == nil {
		paramDef.Xs = DefaultXs
	}

	if paramDef.Xe == nil {
		// prevents the zero value of ParametersLiteral from resulting in
		// a noise-less parameter instance
		paramDef.Xe = DefaultXe
	}

	N, Q, T := paramDef.N, paramDef.Q, paramDef.T

	if T < 2 {
		return Parameters{}, fmt.Errorf("%w: plaintext modulus T must be at least 2 but is %d", ErrInvalidParameters, T)
	}

	if Q <= T {
		return Parameters{}, fmt.Errorf("%w: ciphertext modulus Q = %d must be larger than the plaintext modulus T = %d", ErrInvalidParameters, Q, T)
	}

	params = Parameters{
		n:     N,
		q:     Q,
		t:     T,
		delta: Q / T,
	}

	if params.ringQ, err = ring.NewRing(N, Q); err != nil {
		return Parameters{}, fmt.Errorf("%w: %s", ErrInvalidParameters, err)
	}

	if params.ringT, err = ring.NewRing(N, T); err != nil {
		return Parameters{}, fmt.Errorf("%w: %s", ErrInvalidParameters, err)
	}

	if params.xs, err = NewDistribution(paramDef.Xs, Q); err != nil {
		return Parameters{}, fmt.Errorf("%w: secret distribution: %s", ErrInvalidParameters, err)
	}

	if params.xe, err = NewDistribution(paramDef.Xe, Q); err != nil {
		return Parameters{}, fmt.Errorf("%w: error distribution: %s", ErrInvalidParameters, err)
	}

	var warning error
	if margin := float64(Q) / (2 * float64(T)); params.xe.AbsBound >= margin {
		warning = fmt.Errorf("%w: error bound %v is not smaller than Q/(2*T) = %v", ErrNoiseBudgetExceeded, params.xe.AbsBound, margin)
	}

	return params, warning
}

// ParametersLiteral returns the ParametersLiteral of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		N:  p.n,
		Q:  p.q,
		T:  p.t,
		Xe: p.xe.DistributionParameters,
		Xs: p.xs.DistributionParameters,
	}
}

// N returns the ring degree.
func (p Parameters) N() int {
	return p.n
}

// Q returns the ciphertext modulus.
func (p Parameters) Q() uint64 {
	return p.q
}

// T returns the plaintext modulus.
func (p Parameters) T() uint64 {
	return p.t
}

// Delta returns the plaintext scaling factor floor(Q/T). It is at least 1
// since Q > T.
func (p Parameters) Delta() uint64 {
	return p.delta
}

// RingQ returns a pointer to the ciphertext-space ring.
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// RingT returns a pointer to the plaintext-space ring.
func (p Parameters) RingT() *ring.Ring {
	return p.ringT
}

// Xe returns the error distribution.
func (p Parameters) Xe() ring.DistributionParameters {
	return p.xe.DistributionParameters
}

// Xs returns the secret distribution.
func (p Parameters) Xs() ring.DistributionParameters {
	return p.xs.DistributionParameters
}

// Sigma returns the standard deviation of the error distribution.
func (p Parameters) Sigma() float64 {
	return p.xe.Std
}

// NoiseBound returns the truncation bound of the error distribution.
func (p Parameters) NoiseBound() float64 {
	return p.xe.AbsBound
}

// Equal checks two Parameters structs for equality.
func (p Parameters) Equal(other *Parameters) (res bool) {
	res = p.n == other.n
	res = res && (p.q == other.q)
	res = res && (p.t == other.t)
	res = res && cmp.Equal(p.xe.DistributionParameters, other.xe.DistributionParameters)
	res = res && cmp.Equal(p.xs.DistributionParameters, other.xs.DistributionParameters)
	return
}

// MarshalJSON returns a JSON representation of this parameter set. See
// Marshal from the encoding/json package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the
// receiver Parameters. See Unmarshal from the encoding/json package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}

// UnmarshalJSON reads a JSON representation of a parameter literal into
// the receiver, resolving the distribution fields through
// ring.ParametersFromMap.
func (p *ParametersLiteral) UnmarshalJSON(b []byte) (err error) {

	var pl struct {
		N  int
		Q  uint64
		T  uint64
		Xe map[string]interface{}
		Xs map[string]interface{}
	}

	if err = json.Unmarshal(b, &pl); err != nil {
		return err
	}

	p.N = pl.N
	p.Q = pl.Q
	p.T = pl.T

	if pl.Xe != nil {
		if p.Xe, err = ring.ParametersFromMap(pl.Xe); err != nil {
			return err
		}
	}
	if pl.Xs != nil {
		if p.Xs, err = ring.ParametersFromMap(pl.Xs); err != nil {
			return err
		}
	}

	return
}
