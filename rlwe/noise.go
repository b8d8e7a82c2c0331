package rlwe

import (
	"math"

	"github.com/tuneinsight/lpr/utils/bignum"
)

const noiseEstimatePrec = 128

// DecryptionRadius returns the largest noise infinity norm below which
// decryption is guaranteed to recover the message for the given
// parameters: (Q/2 - (T-1)*(Q mod T)) / T. The radius can be negative
// when the scaling loss (Q mod T) alone exceeds the rounding margin.
func DecryptionRadius(params Parameters) float64 {
	q, t := float64(params.Q()), float64(params.T())
	qModT := float64(params.Q() % params.T())
	return (q/2 - (t-1)*qModT) / t
}

// FreshNoiseBound returns the worst-case noise infinity norm of a fresh
// encryption, Be*(2*N*Bs + 1) for the error bound Be and the secret bound
// Bs: the noise of a fresh ciphertext is e*u + e2*s + e1 for errors
// e, e1, e2 and binary u, s.
func FreshNoiseBound(params Parameters) float64 {
	return params.xe.AbsBound * (2*float64(params.N())*params.xs.AbsBound + 1)
}

// NoisePublicKey returns the noise infinity norm of the input PublicKey
// with respect to the given SecretKey, i.e. the norm of the error e drawn
// at key generation.
func NoisePublicKey(pk *PublicKey, sk *SecretKey, params Parameters) float64 {

	ringQ := params.RingQ()

	// [-a*s + e] + [a*s]
	buff := ringQ.NewPoly()
	ringQ.MulPolyNaive(pk.Value[1], sk.Value, buff)
	ringQ.Add(buff, pk.Value[0], buff)

	return normInf(buff.Coeffs, ringQ.Modulus)
}

// NoiseCiphertext returns the noise infinity norm of the input Ciphertext
// with respect to the given Plaintext and SecretKey, i.e. the norm of
// ct[1]*sk + ct[0] - Delta*m.
func NoiseCiphertext(ct *Ciphertext, pt *Plaintext, sk *SecretKey, params Parameters) float64 {

	ringQ := params.RingQ()

	buff := ringQ.NewPoly()
	ringQ.MulPolyNaive(ct.Value[1], sk.Value, buff)
	ringQ.Add(buff, ct.Value[0], buff)

	deltaM := ringQ.NewPoly()
	NewScaler(params).ScaleUpByQOverT(pt.Value, deltaM)
	ringQ.Sub(buff, deltaM, buff)

	return normInf(buff.Coeffs, ringQ.Modulus)
}

// FailureProbabilityLog2 returns the log2 of a heuristic estimate of the
// probability that at least one coefficient of a fresh encryption
// decrypts incorrectly. The estimate models each noise coefficient as a
// centered Gaussian of variance Sigma^2*(2*N*E[s^2] + 1) (central limit
// heuristic) and applies a union bound over the N coefficients; it is an
// estimate, not a proof.
//
// The estimate is 2*N*exp(-radius^2/(2*sigma^2)) and is computed in log
// space, so it stays exact far below the underflow threshold of float64.
func FailureProbabilityLog2(params Parameters) float64 {

	radius := DecryptionRadius(params)
	if radius <= 0 {
		return 0
	}

	N := float64(params.N())
	sigmaV := params.xe.Std * math.Sqrt(2*N*params.xs.SecondMoment+1)

	// radius^2 / (2*sigmaV^2)
	x := bignum.NewFloat(radius, noiseEstimatePrec)
	x.Mul(x, x)
	s := bignum.NewFloat(sigmaV, noiseEstimatePrec)
	s.Mul(s, s)
	s.Add(s, s)
	x.Quo(x, s)

	// log2(2*N) - radius^2/(2*sigmaV^2) * log2(e)
	ln2 := bignum.Log(bignum.NewFloat(2.0, noiseEstimatePrec))
	x.Quo(x, ln2)

	log2P := bignum.Log(bignum.NewFloat(2*N, noiseEstimatePrec))
	log2P.Quo(log2P, ln2)
	log2P.Sub(log2P, x)

	f, _ := log2P.Float64()
	if f > 0 {
		return 0
	}
	return f
}

// normInf returns the infinity norm of the centered representatives of
// coeffs modulo q.
func normInf(coeffs []uint64, q uint64) (norm float64) {
	qHalf := q >> 1
	for _, c := range coeffs {
		if c > qHalf {
			c = q - c
		}
		if v := float64(c); v > norm {
			norm = v
		}
	}
	return
}
