// Package measure computes association statistics over observed and
// expected contingency cells.
package measure

import (
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/colloc/pkg/colloc/contingency"
	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

// Kind identifies one association measure. The kind is resolved once per
// pipeline invocation, not re-checked per row.
type Kind int

const (
	// G2 is the log-likelihood ratio.
	G2 Kind = iota
	// Chi2 is Pearson's chi-squared.
	Chi2
	// PMI is pointwise mutual information over the fully-joint cell.
	PMI
	// Dice is the Dice coefficient.
	Dice
	// All computes every measure in one pass; ranking falls back to G2.
	All
)

// String returns the config-file spelling of the kind.
func (k Kind) String() string {
	switch k {
	case G2:
		return "g2"
	case Chi2:
		return "chi2"
	case PMI:
		return "pmi"
	case Dice:
		return "dice"
	case All:
		return "all"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a config string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "g2", "lr", "loglik":
		return G2, nil
	case "chi2", "x2":
		return Chi2, nil
	case "pmi":
		return PMI, nil
	case "dice":
		return Dice, nil
	case "all":
		return All, nil
	}
	return 0, fmt.Errorf("%w: %q", internalerr.ErrUnknownMeasure, s)
}

// DefaultEpsilon offsets zero cells inside the G2 logarithm. It is a
// smoothing constant keeping the logarithm finite, not Bayesian smoothing.
const DefaultEpsilon = 1e-9

// Values holds the computed measures for one candidate. Only the fields
// the requested Kind covers are populated.
type Values struct {
	G2   float64
	Chi2 float64
	PMI  float64
	Dice float64
}

// Pick returns the value ranking should sort by for the given kind.
// All ranks by G2.
func (v Values) Pick(k Kind) float64 {
	switch k {
	case Chi2:
		return v.Chi2
	case PMI:
		return v.PMI
	case Dice:
		return v.Dice
	default:
		return v.G2
	}
}

// Calculator computes association measures with a fixed epsilon.
type Calculator struct {
	epsilon float64
}

// NewCalculator creates a calculator. Epsilon values <= 0 fall back to
// DefaultEpsilon.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Calculator{epsilon: epsilon}
}

// Bigram computes the requested measure(s) for one bigram candidate.
// Chi-squared is undefined when an expected cell is exactly zero; such
// rows return ErrDegenerate and must be excluded, never propagated.
func (c *Calculator) Bigram(b contingency.Bigram, k Kind) (Values, error) {
	exp := b.Expected()
	obs := b.Obs[:]

	var v Values
	switch k {
	case G2:
		v.G2 = c.logLikelihood(obs, exp[:])
	case Chi2:
		chi2, err := chiSquared(obs, exp[:])
		if err != nil {
			return Values{}, err
		}
		v.Chi2 = chi2
	case PMI:
		v.PMI = math.Log(b.Obs[0] / exp[0])
	case Dice:
		v.Dice = 2 * b.Obs[0] / (b.Marg1 + b.Marg2)
	case All:
		chi2, err := chiSquared(obs, exp[:])
		if err != nil {
			return Values{}, err
		}
		v.G2 = c.logLikelihood(obs, exp[:])
		v.Chi2 = chi2
		v.PMI = math.Log(b.Obs[0] / exp[0])
		v.Dice = 2 * b.Obs[0] / (b.Marg1 + b.Marg2)
	default:
		return Values{}, fmt.Errorf("%w: %v", internalerr.ErrUnknownMeasure, k)
	}
	return v, nil
}

// Trigram computes the requested measure(s) for one trigram candidate.
func (c *Calculator) Trigram(t contingency.Trigram, k Kind) (Values, error) {
	exp := t.Expected()
	obs := t.Obs[:]

	var v Values
	switch k {
	case G2:
		v.G2 = c.logLikelihood(obs, exp[:])
	case Chi2:
		chi2, err := chiSquared(obs, exp[:])
		if err != nil {
			return Values{}, err
		}
		v.Chi2 = chi2
	case PMI:
		v.PMI = math.Log(t.Obs[0] / exp[0])
	case Dice:
		v.Dice = trigramDice(t)
	case All:
		chi2, err := chiSquared(obs, exp[:])
		if err != nil {
			return Values{}, err
		}
		v.G2 = c.logLikelihood(obs, exp[:])
		v.Chi2 = chi2
		v.PMI = math.Log(t.Obs[0] / exp[0])
		v.Dice = trigramDice(t)
	default:
		return Values{}, fmt.Errorf("%w: %v", internalerr.ErrUnknownMeasure, k)
	}
	return v, nil
}

// logLikelihood computes G2 = 2 * sum(n * log(n/(e+eps) + eps)). The
// epsilon offsets zero cells in both numerator and denominator so the
// logarithm stays finite.
func (c *Calculator) logLikelihood(obs, exp []float64) float64 {
	var sum float64
	for i := range obs {
		sum += obs[i] * math.Log(obs[i]/(exp[i]+c.epsilon)+c.epsilon)
	}
	return 2 * sum
}

// chiSquared computes X2 = sum((n-e)^2 / e). A zero expected cell makes
// the statistic undefined for this row.
func chiSquared(obs, exp []float64) (float64, error) {
	var sum float64
	for i := range obs {
		if exp[i] == 0 {
			return 0, fmt.Errorf("%w: zero expected cell %d", internalerr.ErrDegenerate, i)
		}
		d := obs[i] - exp[i]
		sum += d * d / exp[i]
	}
	return sum, nil
}

// trigramDice divides three times the joint count by the sum of the three
// pairwise totals. This matches the tabulated pairwise form rather than
// the textbook three-way coefficient.
func trigramDice(t contingency.Trigram) float64 {
	return 3 * t.Obs[0] / (t.Pair12 + t.Pair13 + t.Pair23)
}
