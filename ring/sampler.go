package ring

import (
	"encoding/json"
	"fmt"

	"github.com/tuneinsight/lpr/utils/sampling"
)

const (
	discreteGaussianName = "DiscreteGaussian"
	binaryDistName       = "Binary"
	uniformDistName      = "Uniform"
)

// Sampler is an interface for random polynomial samplers.
// It has a single Read method which takes as argument the polynomial to be
// populated according to the Sampler's distribution.
//
// Samplers are deterministic functions of the underlying PRNG and keep
// internal buffers, so a given Sampler instance cannot be shared between
// goroutines.
type Sampler interface {
	Read(pol Poly)
	ReadNew() (pol Poly)
	ReadAndAdd(pol Poly)
}

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are three implementations of this interface:
//   - DiscreteGaussian for sampling polynomials with discretized
//     gaussian coefficients of given standard deviation and bound.
//   - Binary for sampling polynomials with coefficients in {0, 1}.
//   - Uniform for sampling polynomials with uniformly random
//     coefficients in the ring.
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a discrete Gaussian
// distribution with standard deviation Sigma and bounds [-Bound, Bound].
// Coefficients are drawn from a continuous normal distribution, rounded
// to the nearest integer and resampled while their magnitude exceeds
// Bound. A zero Bound is interpreted as 6*Sigma.
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Binary represents the parameters of a distribution with coefficients
// uniformly distributed in {0, 1}.
type Binary struct{}

// Uniform represents the parameters of a uniform distribution
// i.e., with coefficients uniformly distributed in the given ring.
type Uniform struct{}

// NewSampler instantiates a new Sampler for the distribution X over the
// given ring, reading its randomness from prng.
func NewSampler(prng sampling.PRNG, baseRing *Ring, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case DiscreteGaussian:
		return NewGaussianSampler(prng, baseRing, X)
	case Binary:
		return NewBinarySampler(prng, baseRing), nil
	case Uniform:
		return NewUniformSampler(prng, baseRing), nil
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.DiscreteGaussian, ring.Binary or ring.Uniform but have %T", X)
	}
}

type baseSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
}

type randomBuffer struct {
	randomBufferN []byte
	ptr           int
}

func newRandomBuffer() *randomBuffer {
	return &randomBuffer{
		randomBufferN: make([]byte, 1024),
	}
}

func (d DiscreteGaussian) Type() string {
	return discreteGaussianName
}

func (d DiscreteGaussian) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type         string
		Sigma, Bound float64 `json:",omitempty"`
	}{d.Type(), d.Sigma, d.Bound})
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Binary) Type() string {
	return binaryDistName
}

func (d Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
	}{Type: d.Type()})
}

func (d Binary) mustBeDist() {}

func (d Uniform) Type() string {
	return uniformDistName
}

func (d Uniform) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string
	}{Type: d.Type()})
}

func (d Uniform) mustBeDist() {}

func getFloatFromMap(distDef map[string]interface{}, key string) (float64, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return 0, fmt.Errorf("map specifies no value for %s", key)
	}
	f, isFloat := val.(float64)
	if !isFloat {
		return 0, fmt.Errorf("value for key %s in map should be of type float", key)
	}
	return f, nil
}

// ParametersFromMap builds DistributionParameters from their generic JSON
// decoding.
func ParametersFromMap(distDef map[string]interface{}) (DistributionParameters, error) {
	distTypeVal, specified := distDef["Type"]
	if !specified {
		return nil, fmt.Errorf("map specifies no distribution type")
	}
	distTypeStr, isString := distTypeVal.(string)
	if !isString {
		return nil, fmt.Errorf("value for key Type of map should be of type string")
	}
	switch distTypeStr {
	case uniformDistName:
		return Uniform{}, nil
	case binaryDistName:
		return Binary{}, nil
	case discreteGaussianName:
		sigma, errSigma := getFloatFromMap(distDef, "Sigma")
		if errSigma != nil {
			return nil, errSigma
		}
		// an absent bound is an unset value, defaulted by the sampler
		bound, _ := getFloatFromMap(distDef, "Bound")
		return DiscreteGaussian{Sigma: sigma, Bound: bound}, nil
	default:
		return nil, fmt.Errorf("distribution type %s does not exist", distTypeStr)
	}
}
