package tabulate

import (
	"fmt"

	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// BigramRow is one aggregated candidate: the ordered word pair and its
// joint occurrence count.
type BigramRow struct {
	W1, W2 vocab.ID
	Count  int64
}

// BigramTable holds aggregated bigram candidates in first-seen order,
// plus the positional marginal totals and the candidate total N.
type BigramTable struct {
	Rows []BigramRow
	N    int64

	// Marg1[w] is the total count of candidates whose first word is w;
	// Marg2[w] the total for the second position.
	Marg1 map[vocab.ID]int64
	Marg2 map[vocab.ID]int64

	index map[[2]vocab.ID]int
}

func emptyBigramTable() *BigramTable {
	return &BigramTable{index: make(map[[2]vocab.ID]int)}
}

func (t *BigramTable) add(w1, w2 vocab.ID, count int64) {
	key := [2]vocab.ID{w1, w2}
	if i, ok := t.index[key]; ok {
		t.Rows[i].Count += count
	} else {
		t.index[key] = len(t.Rows)
		t.Rows = append(t.Rows, BigramRow{W1: w1, W2: w2, Count: count})
	}
	t.N += count
}

// buildAggregates derives the marginal tables from the candidate rows.
func (t *BigramTable) buildAggregates() []Warning {
	bigramCount := func(r BigramRow) int64 { return r.Count }
	m1 := groupByID(t.Rows, func(r BigramRow) vocab.ID { return r.W1 }, bigramCount)
	m2 := groupByID(t.Rows, func(r BigramRow) vocab.ID { return r.W2 }, bigramCount)

	var warns []Warning
	t.Marg1, warns = foldMarginals(m1, 2, warns)
	t.Marg2, warns = foldMarginals(m2, 2, warns)
	return warns
}

// TrigramRow is one aggregated candidate: the ordered word triple and its
// joint occurrence count.
type TrigramRow struct {
	W1, W2, W3 vocab.ID
	Count      int64
}

// TrigramTable holds aggregated trigram candidates in first-seen order,
// plus all single-word and pairwise totals required by the independence
// model, and the candidate total N.
type TrigramTable struct {
	Rows []TrigramRow
	N    int64

	Marg1 map[vocab.ID]int64
	Marg2 map[vocab.ID]int64
	Marg3 map[vocab.ID]int64

	// Pairwise totals keyed by the two retained positions.
	Pair12 map[[2]vocab.ID]int64
	Pair13 map[[2]vocab.ID]int64
	Pair23 map[[2]vocab.ID]int64

	index map[[3]vocab.ID]int
}

func emptyTrigramTable() *TrigramTable {
	return &TrigramTable{index: make(map[[3]vocab.ID]int)}
}

func (t *TrigramTable) add(w1, w2, w3 vocab.ID, count int64) {
	key := [3]vocab.ID{w1, w2, w3}
	if i, ok := t.index[key]; ok {
		t.Rows[i].Count += count
	} else {
		t.index[key] = len(t.Rows)
		t.Rows = append(t.Rows, TrigramRow{W1: w1, W2: w2, W3: w3, Count: count})
	}
	t.N += count
}

// buildAggregates derives the marginal and pairwise tables from the
// candidate rows.
func (t *TrigramTable) buildAggregates() []Warning {
	trigramCount := func(r TrigramRow) int64 { return r.Count }
	m1 := groupByID(t.Rows, func(r TrigramRow) vocab.ID { return r.W1 }, trigramCount)
	m2 := groupByID(t.Rows, func(r TrigramRow) vocab.ID { return r.W2 }, trigramCount)
	m3 := groupByID(t.Rows, func(r TrigramRow) vocab.ID { return r.W3 }, trigramCount)

	p12 := groupByPair(t.Rows, func(r TrigramRow) [2]vocab.ID { return [2]vocab.ID{r.W1, r.W2} }, trigramCount)
	p13 := groupByPair(t.Rows, func(r TrigramRow) [2]vocab.ID { return [2]vocab.ID{r.W1, r.W3} }, trigramCount)
	p23 := groupByPair(t.Rows, func(r TrigramRow) [2]vocab.ID { return [2]vocab.ID{r.W2, r.W3} }, trigramCount)

	var warns []Warning
	t.Marg1, warns = foldMarginals(m1, 3, warns)
	t.Marg2, warns = foldMarginals(m2, 3, warns)
	t.Marg3, warns = foldMarginals(m3, 3, warns)
	t.Pair12, warns = foldPairs(p12, warns)
	t.Pair13, warns = foldPairs(p13, warns)
	t.Pair23, warns = foldPairs(p23, warns)
	return warns
}

// MarginalCount is one row of a grouped single-word aggregate.
type MarginalCount struct {
	ID    vocab.ID
	Count int64
}

// PairCount is one row of a grouped pairwise aggregate.
type PairCount struct {
	W1, W2 vocab.ID
	Count  int64
}

// groupByID sums row counts per extracted key, preserving first-seen order.
func groupByID[R any](rows []R, key func(R) vocab.ID, count func(R) int64) []MarginalCount {
	index := make(map[vocab.ID]int, len(rows))
	var out []MarginalCount
	for _, r := range rows {
		id := key(r)
		if i, ok := index[id]; ok {
			out[i].Count += count(r)
		} else {
			index[id] = len(out)
			out = append(out, MarginalCount{ID: id, Count: count(r)})
		}
	}
	return out
}

// groupByPair sums row counts per extracted pair key, preserving
// first-seen order.
func groupByPair[R any](rows []R, key func(R) [2]vocab.ID, count func(R) int64) []PairCount {
	index := make(map[[2]vocab.ID]int, len(rows))
	var out []PairCount
	for _, r := range rows {
		k := key(r)
		if i, ok := index[k]; ok {
			out[i].Count += count(r)
		} else {
			index[k] = len(out)
			out = append(out, PairCount{W1: k[0], W2: k[1], Count: count(r)})
		}
	}
	return out
}

// foldMarginals converts a grouped aggregate into a lookup map. A
// duplicate key is an anomaly in the grouped rows: the first occurrence
// wins and a warning is recorded, matching the behavior for externally
// assembled aggregates where grouping is not guaranteed.
func foldMarginals(rows []MarginalCount, size int, warns []Warning) (map[vocab.ID]int64, []Warning) {
	out := make(map[vocab.ID]int64, len(rows))
	for _, r := range rows {
		if _, ok := out[r.ID]; ok {
			warns = append(warns, Warning{
				Size:   size,
				Key:    fmt.Sprintf("%d", r.ID),
				Detail: "duplicate marginal key collapsed to first occurrence",
			})
			continue
		}
		out[r.ID] = r.Count
	}
	return out, warns
}

// foldPairs is foldMarginals for pairwise aggregates.
func foldPairs(rows []PairCount, warns []Warning) (map[[2]vocab.ID]int64, []Warning) {
	out := make(map[[2]vocab.ID]int64, len(rows))
	for _, r := range rows {
		key := [2]vocab.ID{r.W1, r.W2}
		if _, ok := out[key]; ok {
			warns = append(warns, Warning{
				Size:   3,
				Key:    fmt.Sprintf("%d,%d", r.W1, r.W2),
				Detail: "duplicate pairwise key collapsed to first occurrence",
			})
			continue
		}
		out[key] = r.Count
	}
	return out, warns
}

// FoldMarginals exposes the duplicate-collapsing fold for externally
// assembled single-word aggregates.
func FoldMarginals(rows []MarginalCount, size int) (map[vocab.ID]int64, []Warning) {
	return foldMarginals(rows, size, nil)
}

// FoldPairs exposes the duplicate-collapsing fold for externally
// assembled pairwise aggregates.
func FoldPairs(rows []PairCount) (map[[2]vocab.ID]int64, []Warning) {
	return foldPairs(rows, nil)
}
