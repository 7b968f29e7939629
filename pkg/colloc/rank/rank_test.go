package rank

import (
	"testing"

	"github.com/cognicore/colloc/pkg/colloc/measure"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

func row(w1, w2 vocab.ID, count int64, g2 float64) Row {
	return Row{
		IDs:    []vocab.ID{w1, w2},
		Length: 2,
		Count:  count,
		Values: measure.Values{G2: g2},
	}
}

func TestRankSortsDescending(t *testing.T) {
	rows := []Row{
		row(1, 2, 3, 1.0),
		row(2, 3, 3, 9.0),
		row(3, 4, 3, 4.0),
	}

	out := Rank(rows, Options{By: measure.G2})

	for i := 1; i < len(out); i++ {
		if out[i].Values.G2 > out[i-1].Values.G2 {
			t.Fatalf("measure column increases at row %d", i)
		}
	}
	if out[0].Values.G2 != 9.0 {
		t.Errorf("top row G2 = %f, want 9.0", out[0].Values.G2)
	}
}

func TestRankMinCountInclusive(t *testing.T) {
	rows := []Row{
		row(1, 2, 1, 5.0),
		row(2, 3, 2, 4.0),
		row(3, 4, 3, 3.0),
	}

	out := Rank(rows, Options{MinCount: 2, By: measure.G2})

	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	for _, r := range out {
		if r.Count < 2 {
			t.Errorf("row with count %d survived min_count=2", r.Count)
		}
	}
}

func TestRankStableTies(t *testing.T) {
	// Equal scores keep aggregation order, making output deterministic.
	rows := []Row{
		row(1, 2, 5, 2.0),
		row(3, 4, 5, 2.0),
		row(5, 6, 5, 2.0),
	}

	out := Rank(rows, Options{By: measure.G2})

	want := []vocab.ID{1, 3, 5}
	for i, r := range out {
		if r.IDs[0] != want[i] {
			t.Errorf("tie order broken at %d: got id %d, want %d", i, r.IDs[0], want[i])
		}
	}
}

func TestRankExcludesBoundaryRows(t *testing.T) {
	rows := []Row{
		row(1, vocab.Boundary, 10, 99.0),
		row(1, 2, 10, 1.0),
	}

	out := Rank(rows, Options{By: measure.G2})

	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].IDs[1] == vocab.Boundary {
		t.Error("boundary row survived the defensive check")
	}
}

func TestRankEmptyInput(t *testing.T) {
	out := Rank(nil, Options{MinCount: 5, By: measure.PMI})
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d rows", len(out))
	}
}

func TestRankByRequestedMeasure(t *testing.T) {
	a := Row{IDs: []vocab.ID{1, 2}, Count: 2, Values: measure.Values{G2: 1, Dice: 0.9}}
	b := Row{IDs: []vocab.ID{3, 4}, Count: 2, Values: measure.Values{G2: 5, Dice: 0.1}}

	byG2 := Rank([]Row{a, b}, Options{By: measure.G2})
	if byG2[0].IDs[0] != 3 {
		t.Error("G2 ordering should put the higher-G2 row first")
	}

	byDice := Rank([]Row{a, b}, Options{By: measure.Dice})
	if byDice[0].IDs[0] != 1 {
		t.Error("Dice ordering should put the higher-Dice row first")
	}
}

func TestResolve(t *testing.T) {
	table := vocab.New()
	newID := table.Add("new")
	yorkID := table.Add("york")

	rows := []Row{{IDs: []vocab.ID{newID, yorkID}, Length: 2}}
	Resolve(rows, table)

	if rows[0].Words[0] != "new" || rows[0].Words[1] != "york" {
		t.Errorf("Words = %v", rows[0].Words)
	}
	if rows[0].Words[2] != "" {
		t.Errorf("bigram Words[2] should stay empty, got %q", rows[0].Words[2])
	}
}
