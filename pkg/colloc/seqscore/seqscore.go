// Package seqscore consumes externally produced lambda/sigma estimates for
// variable-length candidates and derives z-scores and one-sided p-values.
//
// The lambda model itself (Blaheta-Johnson) lives in the external producer;
// this package only scores and ranks its output.
package seqscore

import (
	"fmt"
	"math"
	"sort"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// Candidate sizes the variable-length engine accepts.
const (
	MinSize = 2
	MaxSize = 5
)

// DefaultMinCount is the variable-length engine's count threshold.
const DefaultMinCount = 2

// Candidate is one externally scored n-gram: its id tuple, raw count,
// estimated association strength lambda, and standard error sigma.
type Candidate struct {
	IDs    []vocab.ID
	Words  []string
	Count  int64
	Lambda float64
	Sigma  float64
}

// Scored is a candidate with its derived z-score and p-value.
type Scored struct {
	Candidate
	Z float64
	P float64
}

// Options controls scoring.
type Options struct {
	// MinCount keeps candidates with Count >= MinCount; values < 0 fall
	// back to DefaultMinCount.
	MinCount int64
}

// Score validates candidate sizes, computes z = lambda/sigma and
// p = 1 - Phi(z), filters by count, and sorts descending by z (stable, so
// ties keep input order). Candidates with sigma == 0 are dropped as
// degenerate rather than producing infinities.
func Score(cands []Candidate, opts Options) ([]Scored, error) {
	minCount := opts.MinCount
	if minCount < 0 {
		minCount = DefaultMinCount
	}

	for _, c := range cands {
		if len(c.IDs) < MinSize || len(c.IDs) > MaxSize {
			return nil, fmt.Errorf("%w: %d (supported: %d..%d)",
				internalerr.ErrUnsupportedSize, len(c.IDs), MinSize, MaxSize)
		}
	}

	out := make([]Scored, 0, len(cands))
	for _, c := range cands {
		if c.Count < minCount {
			continue
		}
		if c.Sigma == 0 {
			continue
		}
		z := c.Lambda / c.Sigma
		out = append(out, Scored{
			Candidate: c,
			Z:         z,
			P:         1 - normalCDF(z),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Z > out[j].Z
	})
	return out, nil
}

// normalCDF is the standard normal CDF Phi(z).
func normalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}
