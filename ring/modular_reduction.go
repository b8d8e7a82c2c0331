package ring

import (
	"math/big"
	"math/bits"
)

// GenBRedConstant computes the constant required for the Barrett reduction
// with a radix of 2^128.
func GenBRedConstant(q uint64) (constant [2]uint64) {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	// 2^radix // q
	constant[0] = new(big.Int).Rsh(bigR, 64).Uint64()
	constant[1] = bigR.Uint64()

	return
}

// BRedAdd reduces a 64 bit integer by q.
// Assumes that x <= 64bits.
func BRedAdd(x, q uint64, bredconstant [2]uint64) (r uint64) {
	s0, _ := bits.Mul64(x, bredconstant[0])
	r = x - s0*q
	if r >= q {
		r -= q
	}
	return
}

// BRed computes x*y mod q with a Barrett reduction.
func BRed(x, y, q uint64, bredconstant [2]uint64) (r uint64) {

	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	// (alo*ulo)>>64

	lhi, _ = bits.Mul64(alo, bredconstant[1])

	// ((ahi*ulo + alo*uhi) + (alo*ulo))>>64

	mhi, mlo = bits.Mul64(alo, bredconstant[0])

	s0, carry = bits.Add64(mlo, lhi, 0)

	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, bredconstant[1])

	_, carry = bits.Add64(mlo, s0, 0)

	lhi = mhi + carry

	// (ahi*uhi) + (((ahi*ulo + alo*uhi) + (alo*ulo))>>64)

	s0 = ahi*bredconstant[0] + s1 + lhi

	r = alo - s0*q

	if r >= q {
		r -= q
	}

	return
}

// CRed reduce returns a mod q, where
// a is required to be in the range [0, 2q-1].
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}
