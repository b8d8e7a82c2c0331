package rlwe

import (
	"fmt"

	"github.com/tuneinsight/lpr/ring"
)

// Distribution wraps a ring.DistributionParameters along with the moments
// used by the noise analysis.
type Distribution struct {
	ring.DistributionParameters
	Std          float64
	AbsBound     float64
	SecondMoment float64
}

// NewDistribution computes the standard deviation, the absolute bound and
// the second moment of the given distribution over Z_q. Secrets are taken
// as their 0/1 values and errors as their centered values.
func NewDistribution(params ring.DistributionParameters, q uint64) (d Distribution, err error) {

	d.DistributionParameters = params

	switch params := params.(type) {
	case ring.DiscreteGaussian:

		bound := params.Bound
		switch {
		case params.Sigma <= 0:
			return Distribution{}, fmt.Errorf("sigma must be strictly positive but is %f", params.Sigma)
		case bound < 0:
			return Distribution{}, fmt.Errorf("bound must be non-negative but is %f", bound)
		case bound == 0:
			bound = 6 * params.Sigma
		}

		if uint64(bound) > (q-1)>>1 {
			return Distribution{}, fmt.Errorf("bound %f exceeds half of the modulus %d", bound, q)
		}

		d.Std = params.Sigma
		d.AbsBound = bound
		d.SecondMoment = params.Sigma * params.Sigma

	case ring.Binary:
		d.Std = 0.5
		d.AbsBound = 1
		d.SecondMoment = 0.5

	case ring.Uniform:
		qF := float64(q)
		d.Std = qF / 3.4641016151377544 // Sqrt(12)
		d.AbsBound = qF / 2
		d.SecondMoment = qF * qF / 12

	default:
		return Distribution{}, fmt.Errorf("distribution must be Binary, DiscreteGaussian or Uniform but is %T", params)
	}

	return
}
