// Package contingency builds observed contingency cells for candidate
// n-grams and estimates expected cells under a mutual-independence model.
//
// Expected counts are computed in log space: marginal totals are summed as
// logarithms and exponentiated once, which stays stable for corpus sizes
// where the direct product would overflow.
package contingency

import (
	"fmt"
	"math"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

// Bigram holds the 2x2 observed cells for one candidate pair, indexed by
// (is-w1, is-w2): n11, n12, n21, n22. Marg1 and Marg2 are the positional
// marginal totals the cells were derived from.
type Bigram struct {
	Obs          [4]float64
	N            float64
	Marg1, Marg2 float64
}

// NewBigram derives the observed cells from the joint count, the two
// positional marginals, and the candidate total. Inconsistent counts that
// would produce a negative cell are a degenerate row.
func NewBigram(joint, marg1, marg2, total int64) (Bigram, error) {
	n11 := float64(joint)
	n12 := float64(marg1 - joint)
	n21 := float64(marg2 - joint)
	n22 := float64(total - marg1 - marg2 + joint)

	b := Bigram{
		Obs:   [4]float64{n11, n12, n21, n22},
		N:     float64(total),
		Marg1: float64(marg1),
		Marg2: float64(marg2),
	}
	for _, cell := range b.Obs {
		if cell < 0 {
			return Bigram{}, fmt.Errorf("%w: negative cell from joint=%d marg1=%d marg2=%d N=%d",
				internalerr.ErrDegenerate, joint, marg1, marg2, total)
		}
	}
	return b, nil
}

// Expected returns the cell counts expected if the two words occurred
// independently: e_ij = exp(log(rowTotal) + log(colTotal) - log(N)).
func (b Bigram) Expected() [4]float64 {
	logN := math.Log(b.N)
	row := [2]float64{b.Marg1, b.N - b.Marg1}
	col := [2]float64{b.Marg2, b.N - b.Marg2}

	var e [4]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			e[i*2+j] = math.Exp(math.Log(row[i]) + math.Log(col[j]) - logN)
		}
	}
	return e
}

// Trigram holds the 2x2x2 observed cells for one candidate triple, indexed
// by (is-w1, is-w2, is-w3): n111, n112, n121, n122, n211, n212, n221, n222.
// The single-word marginals and pairwise totals are retained for the
// measures that need them.
type Trigram struct {
	Obs                    [8]float64
	N                      float64
	Marg1, Marg2, Marg3    float64
	Pair12, Pair13, Pair23 float64
}

// NewTrigram derives the observed cells from the joint count, the three
// single-word marginals, the three pairwise totals, and the candidate
// total. Inconsistent counts that would produce a negative cell are a
// degenerate row.
func NewTrigram(joint, m1, m2, m3, p12, p13, p23, total int64) (Trigram, error) {
	n111 := float64(joint)
	n112 := float64(p12 - joint)
	n121 := float64(p13 - joint)
	n122 := float64(m1 - p12 - p13 + joint)
	n211 := float64(p23 - joint)
	n212 := float64(m2 - p12 - p23 + joint)
	n221 := float64(m3 - p13 - p23 + joint)
	n222 := float64(total - m1 - m2 - m3 + p12 + p13 + p23 - joint)

	t := Trigram{
		Obs:    [8]float64{n111, n112, n121, n122, n211, n212, n221, n222},
		N:      float64(total),
		Marg1:  float64(m1),
		Marg2:  float64(m2),
		Marg3:  float64(m3),
		Pair12: float64(p12),
		Pair13: float64(p13),
		Pair23: float64(p23),
	}
	for _, cell := range t.Obs {
		if cell < 0 {
			return Trigram{}, fmt.Errorf("%w: negative cell from joint=%d marginals=(%d,%d,%d) pairs=(%d,%d,%d) N=%d",
				internalerr.ErrDegenerate, joint, m1, m2, m3, p12, p13, p23, total)
		}
	}
	return t, nil
}

// Expected returns the cell counts expected under mutual independence of
// all three words: each cell is the product of the three marginal or
// complement totals over N^2, computed as a sum of logs minus 2*log(N).
func (t Trigram) Expected() [8]float64 {
	logN := math.Log(t.N)
	m1 := [2]float64{t.Marg1, t.N - t.Marg1}
	m2 := [2]float64{t.Marg2, t.N - t.Marg2}
	m3 := [2]float64{t.Marg3, t.N - t.Marg3}

	var e [8]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				e[i*4+j*2+k] = math.Exp(math.Log(m1[i]) + math.Log(m2[j]) + math.Log(m3[k]) - 2*logN)
			}
		}
	}
	return e
}
