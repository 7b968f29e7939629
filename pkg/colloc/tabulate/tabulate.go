// Package tabulate enumerates adjacent n-gram candidates from a token-id
// stream and aggregates the joint, marginal, and pairwise frequency counts
// the independence model needs.
package tabulate

import (
	"fmt"
	"sync"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// Supported candidate sizes for the contingency-table engine.
const (
	MinSize = 2
	MaxSize = 3
)

// Config controls one tabulation pass.
type Config struct {
	// Workers splits candidate enumeration into data-parallel shards.
	// Values <= 1 tabulate sequentially. Shard results are merged by
	// re-aggregation, so the final counts are identical either way.
	Workers int
}

// Warning records a recoverable data anomaly encountered while building
// aggregate tables. The affected key is collapsed, not dropped.
type Warning struct {
	Size   int
	Key    string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("size %d, key %s: %s", w.Size, w.Key, w.Detail)
}

// Result holds the frequency tables for the requested sizes.
type Result struct {
	Bigrams  *BigramTable
	Trigrams *TrigramTable
	Warnings []Warning
}

// ValidateSizes checks the requested n-gram sizes against the supported set.
func ValidateSizes(sizes []int) error {
	if len(sizes) == 0 {
		return fmt.Errorf("%w: no sizes requested", internalerr.ErrInvalidConfig)
	}
	for _, n := range sizes {
		if n < MinSize || n > MaxSize {
			return fmt.Errorf("%w: %d (supported: %d..%d)", internalerr.ErrUnsupportedSize, n, MinSize, MaxSize)
		}
	}
	return nil
}

// Tabulate enumerates adjacent candidates of each requested size over the
// stream, keeps only candidates whose components all belong to feats,
// and aggregates them into unique-key rows with their marginal and
// pairwise totals. Candidates containing the boundary sentinel never
// enter the tables. The inputs are not mutated.
func Tabulate(stream []vocab.ID, feats *vocab.FeatureSet, sizes []int, cfg Config) (*Result, error) {
	if err := ValidateSizes(sizes); err != nil {
		return nil, err
	}
	if feats == nil {
		feats = vocab.AllFeatures()
	}

	res := &Result{}
	for _, n := range uniqueSizes(sizes) {
		switch n {
		case 2:
			if res.Bigrams != nil {
				continue
			}
			table, warns := tabulateBigrams(stream, feats, cfg.Workers)
			res.Bigrams = table
			res.Warnings = append(res.Warnings, warns...)
		case 3:
			if res.Trigrams != nil {
				continue
			}
			table, warns := tabulateTrigrams(stream, feats, cfg.Workers)
			res.Trigrams = table
			res.Warnings = append(res.Warnings, warns...)
		}
	}
	return res, nil
}

func uniqueSizes(sizes []int) []int {
	seen := make(map[int]struct{}, len(sizes))
	out := make([]int, 0, len(sizes))
	for _, n := range sizes {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// shardRanges splits start positions [0, count) into at most workers
// contiguous ranges.
func shardRanges(count, workers int) [][2]int {
	if workers <= 1 || count <= workers {
		return [][2]int{{0, count}}
	}
	per := count / workers
	var out [][2]int
	for lo := 0; lo < count; lo += per {
		hi := lo + per
		if len(out) == workers-1 || hi > count {
			hi = count
		}
		out = append(out, [2]int{lo, hi})
		if hi == count {
			break
		}
	}
	return out
}

func tabulateBigrams(stream []vocab.ID, feats *vocab.FeatureSet, workers int) (*BigramTable, []Warning) {
	starts := len(stream) - 1
	if starts < 1 {
		return emptyBigramTable(), nil
	}

	ranges := shardRanges(starts, workers)
	parts := make([]*BigramTable, len(ranges))

	if len(ranges) == 1 {
		parts[0] = scanBigrams(stream, feats, 0, starts)
	} else {
		var wg sync.WaitGroup
		for i, r := range ranges {
			wg.Add(1)
			go func(slot int, lo, hi int) {
				defer wg.Done()
				parts[slot] = scanBigrams(stream, feats, lo, hi)
			}(i, r[0], r[1])
		}
		wg.Wait()
	}

	table := mergeBigrams(parts)
	warns := table.buildAggregates()
	return table, warns
}

func tabulateTrigrams(stream []vocab.ID, feats *vocab.FeatureSet, workers int) (*TrigramTable, []Warning) {
	starts := len(stream) - 2
	if starts < 1 {
		return emptyTrigramTable(), nil
	}

	ranges := shardRanges(starts, workers)
	parts := make([]*TrigramTable, len(ranges))

	if len(ranges) == 1 {
		parts[0] = scanTrigrams(stream, feats, 0, starts)
	} else {
		var wg sync.WaitGroup
		for i, r := range ranges {
			wg.Add(1)
			go func(slot int, lo, hi int) {
				defer wg.Done()
				parts[slot] = scanTrigrams(stream, feats, lo, hi)
			}(i, r[0], r[1])
		}
		wg.Wait()
	}

	table := mergeTrigrams(parts)
	warns := table.buildAggregates()
	return table, warns
}

// scanBigrams aggregates candidates starting at positions [lo, hi).
func scanBigrams(stream []vocab.ID, feats *vocab.FeatureSet, lo, hi int) *BigramTable {
	t := emptyBigramTable()
	for i := lo; i < hi; i++ {
		w1, w2 := stream[i], stream[i+1]
		if !feats.Contains(w1) || !feats.Contains(w2) {
			continue
		}
		t.add(w1, w2, 1)
	}
	return t
}

// scanTrigrams aggregates candidates starting at positions [lo, hi).
func scanTrigrams(stream []vocab.ID, feats *vocab.FeatureSet, lo, hi int) *TrigramTable {
	t := emptyTrigramTable()
	for i := lo; i < hi; i++ {
		w1, w2, w3 := stream[i], stream[i+1], stream[i+2]
		if !feats.Contains(w1) || !feats.Contains(w2) || !feats.Contains(w3) {
			continue
		}
		t.add(w1, w2, w3, 1)
	}
	return t
}

func mergeBigrams(parts []*BigramTable) *BigramTable {
	if len(parts) == 1 {
		return parts[0]
	}
	out := emptyBigramTable()
	for _, p := range parts {
		for _, row := range p.Rows {
			out.add(row.W1, row.W2, row.Count)
		}
	}
	return out
}

func mergeTrigrams(parts []*TrigramTable) *TrigramTable {
	if len(parts) == 1 {
		return parts[0]
	}
	out := emptyTrigramTable()
	for _, p := range parts {
		for _, row := range p.Rows {
			out.add(row.W1, row.W2, row.W3, row.Count)
		}
	}
	return out
}
