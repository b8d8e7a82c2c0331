package rlwe

import (
	"fmt"

	"github.com/tuneinsight/lpr/ring"
	"github.com/tuneinsight/lpr/utils/sampling"
)

// Encryptor is a structure used to encrypt Plaintexts. It stores the
// public key and the samplers for the encryption randomness.
//
// Both samplers consume the same PRNG stream: each Encrypt call draws the
// ephemeral u, then e1, then e2, so for a given seed the sequence of
// ciphertexts is reproducible. An Encryptor is not safe for concurrent
// use.
type Encryptor struct {
	params    Parameters
	pk        *PublicKey
	xsSampler ring.Sampler
	xeSampler ring.Sampler
	scaler    *Scaler
	buffQ     [2]ring.Poly
}

// NewEncryptor creates a new Encryptor from the provided public key. If
// prng is nil, a fresh ThreadSafePRNG is used.
func NewEncryptor(params Parameters, pk *PublicKey, prng sampling.PRNG) *Encryptor {

	if pk.Value[0].N() != params.N() || pk.Value[1].N() != params.N() {
		panic(fmt.Errorf("cannot NewEncryptor: public key ring degree does not match parameters ring degree"))
	}

	if prng == nil {
		var err error
		if prng, err = sampling.NewPRNG(); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
	}

	xsSampler, err := ring.NewSampler(prng, params.RingQ(), params.Xs())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot NewEncryptor: %w", err))
	}

	xeSampler, err := ring.NewSampler(prng, params.RingQ(), params.Xe())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot NewEncryptor: %w", err))
	}

	return &Encryptor{
		params:    params,
		pk:        pk,
		xsSampler: xsSampler,
		xeSampler: xeSampler,
		scaler:    NewScaler(params),
		buffQ:     [2]ring.Poly{params.RingQ().NewPoly(), params.RingQ().NewPoly()},
	}
}

// Encrypt encrypts the input plaintext and writes the result on ct. The
// ephemeral secret u and the errors e1, e2 are drawn fresh on every call,
// so two encryptions of the same plaintext yield different ciphertexts.
func (enc *Encryptor) Encrypt(pt *Plaintext, ct *Ciphertext) {

	if pt.Value.N() != enc.params.N() {
		panic(fmt.Errorf("cannot Encrypt: plaintext ring degree does not match parameters ring degree"))
	}

	if ct.Value[0].N() != enc.params.N() || ct.Value[1].N() != enc.params.N() {
		panic(fmt.Errorf("cannot Encrypt: ciphertext ring degree does not match parameters ring degree"))
	}

	ringQ := enc.params.RingQ()
	u, buff := enc.buffQ[0], enc.buffQ[1]

	// ct[0] = pk[0]*u + e1 + Delta*m
	// ct[1] = pk[1]*u + e2
	enc.xsSampler.Read(u)

	ringQ.MulPolyNaive(enc.pk.Value[0], u, ct.Value[0])
	enc.xeSampler.ReadAndAdd(ct.Value[0])

	ringQ.MulPolyNaive(enc.pk.Value[1], u, ct.Value[1])
	enc.xeSampler.ReadAndAdd(ct.Value[1])

	enc.scaler.ScaleUpByQOverT(pt.Value, buff)
	ringQ.Add(ct.Value[0], buff, ct.Value[0])
}

// EncryptNew encrypts the input plaintext and returns the result on a new
// Ciphertext.
func (enc *Encryptor) EncryptNew(pt *Plaintext) (ct *Ciphertext) {
	ct = NewCiphertext(enc.params)
	enc.Encrypt(pt, ct)
	return
}
