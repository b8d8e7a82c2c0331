package rlwe

import (
	"fmt"

	"github.com/tuneinsight/lpr/ring"
	"github.com/tuneinsight/lpr/utils/sampling"
)

// KeyGenerator is a structure that stores the elements required to create
// new keys, as well as a small memory buffer for intermediate values.
//
// All three samplers consume the same PRNG stream, so for a given seed the
// draws are reproducible as long as the call order is: secret key, then
// for each public key the uniform polynomial a followed by the error e.
// A KeyGenerator is not safe for concurrent use.
type KeyGenerator struct {
	params          Parameters
	xsSampler       ring.Sampler
	xeSampler       ring.Sampler
	uniformSamplerQ *ring.UniformSampler
	buffQ           ring.Poly
}

// NewKeyGenerator creates a new KeyGenerator from which the secret and
// public keys can be generated. If prng is nil, a fresh ThreadSafePRNG is
// used.
func NewKeyGenerator(params Parameters, prng sampling.PRNG) *KeyGenerator {

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
		panic(fmt.Errorf("cannot NewKeyGenerator: %w", err))
	}

	xeSampler, err := ring.NewSampler(prng, params.RingQ(), params.Xe())
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot NewKeyGenerator: %w", err))
	}

	return &KeyGenerator{
		params:          params,
		xsSampler:       xsSampler,
		xeSampler:       xeSampler,
		uniformSamplerQ: ring.NewUniformSampler(prng, params.RingQ()),
		buffQ:           params.RingQ().NewPoly(),
	}
}

// GenSecretKey generates a new SecretKey from the secret distribution of
// the parameters.
func (kgen *KeyGenerator) GenSecretKey() (sk *SecretKey) {
	sk = NewSecretKey(kgen.params)
	kgen.xsSampler.Read(sk.Value)
	return
}

// GenPublicKey generates a new public key from the provided SecretKey.
func (kgen *KeyGenerator) GenPublicKey(sk *SecretKey) (pk *PublicKey) {

	// pk[0] = [-a*s + e]
	// pk[1] = [a]
	pk = NewPublicKey(kgen.params)
	ringQ := kgen.params.RingQ()

	kgen.uniformSamplerQ.Read(pk.Value[1])
	kgen.xeSampler.Read(kgen.buffQ)

	ringQ.MulPolyNaive(pk.Value[1], sk.Value, pk.Value[0])
	ringQ.Neg(pk.Value[0], pk.Value[0])
	ringQ.Add(pk.Value[0], kgen.buffQ, pk.Value[0])

	return
}

// GenKeyPair generates a new SecretKey and a corresponding public key.
func (kgen *KeyGenerator) GenKeyPair() (sk *SecretKey, pk *PublicKey) {
	sk = kgen.GenSecretKey()
	return sk, kgen.GenPublicKey(sk)
}
