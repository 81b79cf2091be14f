// Package calibrate turns raw ensemble sums into class probabilities and
// picks the predicted class.
//
// It holds the pieces shared by every ensemble variant: the multinomial
// log-sum-exp rescale, the class-balance correction, the distribution
// family link functions and the tie-breaking class selector.
package calibrate

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownFamily is returned by ParseFamily for unrecognized names.
var ErrUnknownFamily = errors.New("unknown distribution family")

// Family is the distribution family of a boosted ensemble.
type Family int

// Supported families.
const (
	AUTO Family = iota
	Gaussian
	Bernoulli
	QuasiBinomial
	ModifiedHuber
	Multinomial
	Poisson
	Gamma
	Tweedie
	Huber
	Laplace
	Quantile
)

var familyNames = [...]string{
	AUTO:          "AUTO",
	Gaussian:      "gaussian",
	Bernoulli:     "bernoulli",
	QuasiBinomial: "quasibinomial",
	ModifiedHuber: "modified_huber",
	Multinomial:   "multinomial",
	Poisson:       "poisson",
	Gamma:         "gamma",
	Tweedie:       "tweedie",
	Huber:         "huber",
	Laplace:       "laplace",
	Quantile:      "quantile",
}

// String returns the family name as written in the descriptor.
func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// ParseFamily resolves a descriptor family name. Matching ignores case.
func ParseFamily(name string) (Family, error) {
	for i, n := range familyNames {
		if strings.EqualFold(n, name) {
			return Family(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
}

// Binomial reports whether the family scores a single logit for two classes.
func (f Family) Binomial() bool {
	return f == Bernoulli || f == ModifiedHuber
}

// LinkInv maps a raw boosted sum back to the response scale.
func (f Family) LinkInv(x float64) float64 {
	switch f {
	case Bernoulli, QuasiBinomial, ModifiedHuber:
		return 1 / (1 + math.Exp(-x))
	case Poisson, Gamma, Tweedie:
		return math.Exp(x)
	default:
		return x
	}
}
