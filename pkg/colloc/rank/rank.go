// Package rank materializes the final ranked collocation table: it applies
// the minimum-count filter, defensively re-checks boundary exclusion, and
// sorts by the requested measure.
package rank

import (
	"sort"

	"github.com/cognicore/colloc/pkg/colloc/measure"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// Row is one ranked candidate with its resolved display form, original id
// tuple, raw count, and measure values.
type Row struct {
	// Words holds the display form; Words[2] is empty for bigrams.
	Words [3]string
	// IDs is the original token-id tuple, length 2 or 3.
	IDs    []vocab.ID
	Length int
	Count  int64
	Values measure.Values
}

// Score returns the value the table is ordered by.
func (r Row) Score(by measure.Kind) float64 {
	return r.Values.Pick(by)
}

// Options controls the ranking stage.
type Options struct {
	// MinCount keeps rows with Count >= MinCount. It is applied after
	// statistics computation so the marginals reflect the full
	// co-occurrence structure.
	MinCount int64
	// By selects the sort measure; measure.All sorts by G2.
	By measure.Kind
}

// DefaultMinCount is the contingency engine's minimum-count threshold.
const DefaultMinCount = 1

// Rank filters and orders candidate rows. The sort is descending by the
// selected measure and stable, so ties keep their aggregation order and
// repeated invocations produce identical output.
func Rank(rows []Row, opts Options) []Row {
	minCount := opts.MinCount
	if minCount < 0 {
		minCount = 0
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Count < minCount {
			continue
		}
		if containsBoundary(r.IDs) {
			// Tabulation already excludes sentinel-bearing candidates;
			// rows assembled elsewhere get the same treatment.
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score(opts.By) > out[j].Score(opts.By)
	})
	return out
}

func containsBoundary(ids []vocab.ID) bool {
	for _, id := range ids {
		if id == vocab.Boundary {
			return true
		}
	}
	return false
}

// Resolve fills in the display forms for each row from the vocabulary.
func Resolve(rows []Row, table *vocab.Table) {
	for i := range rows {
		for j, id := range rows[i].IDs {
			if j < len(rows[i].Words) {
				rows[i].Words[j] = table.Word(id)
			}
		}
	}
}
