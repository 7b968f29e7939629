package colloc

import (
	"fmt"

	"github.com/cognicore/colloc/pkg/colloc/contingency"
	"github.com/cognicore/colloc/pkg/colloc/internalerr"
	"github.com/cognicore/colloc/pkg/colloc/measure"
	"github.com/cognicore/colloc/pkg/colloc/rank"
	"github.com/cognicore/colloc/pkg/colloc/tabulate"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

// ExtractOptions parameterizes one extraction pass. The measure kind and
// sizes are validated once up front; per-row work never re-checks them.
type ExtractOptions struct {
	// Sizes lists the requested n-gram sizes (2 and/or 3).
	Sizes []int
	// Measure selects the association statistic rows are ranked by.
	Measure measure.Kind
	// MinCount keeps rows with count >= MinCount. It is applied after
	// statistics computation, so the independence model always sees the
	// full co-occurrence structure.
	MinCount int64
	// Epsilon is the G2 smoothing constant; <= 0 means the default.
	Epsilon float64
	// Workers shards candidate tabulation; <= 1 runs sequentially.
	Workers int
}

// Result is a ranked collocation table.
type Result struct {
	// Rows are sorted descending by the requested measure, ties in
	// aggregation order.
	Rows []rank.Row
	// By is the measure the table is ordered by.
	By measure.Kind
	// Warnings lists recovered data anomalies from tabulation.
	Warnings []tabulate.Warning
	// Dropped counts candidate rows excluded as numerically degenerate.
	Dropped int
	// ResultSetID is set when the table was persisted.
	ResultSetID string
}

// Extract runs the full pipeline over an in-memory token-id stream:
// tabulation, independence estimation, measure calculation, and ranking.
// table may be nil when callers only need id tuples. The stream and
// feature set are read-only for the duration of the call.
func Extract(stream []vocab.ID, feats *vocab.FeatureSet, table *vocab.Table, opts ExtractOptions) (Result, error) {
	if opts.Measure < measure.G2 || opts.Measure > measure.All {
		return Result{}, fmt.Errorf("%w: %v", internalerr.ErrUnknownMeasure, opts.Measure)
	}

	tab, err := tabulate.Tabulate(stream, feats, opts.Sizes, tabulate.Config{Workers: opts.Workers})
	if err != nil {
		return Result{}, err
	}

	calc := measure.NewCalculator(opts.Epsilon)
	res := Result{By: opts.Measure, Warnings: tab.Warnings}

	var rows []rank.Row
	if tab.Bigrams != nil {
		rows = append(rows, scoreBigrams(tab.Bigrams, calc, opts.Measure, &res.Dropped)...)
	}
	if tab.Trigrams != nil {
		rows = append(rows, scoreTrigrams(tab.Trigrams, calc, opts.Measure, &res.Dropped)...)
	}

	res.Rows = rank.Rank(rows, rank.Options{MinCount: opts.MinCount, By: opts.Measure})
	if table != nil {
		rank.Resolve(res.Rows, table)
	}
	return res, nil
}

// scoreBigrams derives cells and measures per candidate. Rows whose
// marginals are unavailable or whose cells are degenerate are excluded
// here, before any further aggregation.
func scoreBigrams(t *tabulate.BigramTable, calc *measure.Calculator, kind measure.Kind, dropped *int) []rank.Row {
	rows := make([]rank.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		m1, ok1 := t.Marg1[r.W1]
		m2, ok2 := t.Marg2[r.W2]
		if !ok1 || !ok2 {
			*dropped++
			continue
		}
		cells, err := contingency.NewBigram(r.Count, m1, m2, t.N)
		if err != nil {
			*dropped++
			continue
		}
		vals, err := calc.Bigram(cells, kind)
		if err != nil {
			*dropped++
			continue
		}
		rows = append(rows, rank.Row{
			IDs:    []vocab.ID{r.W1, r.W2},
			Length: 2,
			Count:  r.Count,
			Values: vals,
		})
	}
	return rows
}

func scoreTrigrams(t *tabulate.TrigramTable, calc *measure.Calculator, kind measure.Kind, dropped *int) []rank.Row {
	rows := make([]rank.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		m1, ok1 := t.Marg1[r.W1]
		m2, ok2 := t.Marg2[r.W2]
		m3, ok3 := t.Marg3[r.W3]
		p12, ok4 := t.Pair12[[2]vocab.ID{r.W1, r.W2}]
		p13, ok5 := t.Pair13[[2]vocab.ID{r.W1, r.W3}]
		p23, ok6 := t.Pair23[[2]vocab.ID{r.W2, r.W3}]
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
			*dropped++
			continue
		}
		cells, err := contingency.NewTrigram(r.Count, m1, m2, m3, p12, p13, p23, t.N)
		if err != nil {
			*dropped++
			continue
		}
		vals, err := calc.Trigram(cells, kind)
		if err != nil {
			*dropped++
			continue
		}
		rows = append(rows, rank.Row{
			IDs:    []vocab.ID{r.W1, r.W2, r.W3},
			Length: 3,
			Count:  r.Count,
			Values: vals,
		})
	}
	return rows
}
