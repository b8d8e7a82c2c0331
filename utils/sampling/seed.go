package sampling

import (
	"github.com/zeebo/blake3"
)

// KeySize is the byte length of the keys produced by DeriveKey.
const KeySize = 32

// DeriveKey expands a master key into an independent sub-key bound to the
// given domain string, using blake3. Distinct domains yield unrelated
// streams, so callers needing several independent PRNG (one per sampler,
// one per goroutine) can derive them all from a single seed.
func DeriveKey(key []byte, domain string) []byte {
	hasher := blake3.New()
	hasher.Write(key)
	hasher.Write([]byte(domain))
	sum := hasher.Sum(nil)
	return sum[:KeySize]
}

// NewDerivedPRNG returns a KeyedPRNG keyed with DeriveKey(key, domain).
func NewDerivedPRNG(key []byte, domain string) (*KeyedPRNG, error) {
	return NewKeyedPRNG(DeriveKey(key, domain))
}
