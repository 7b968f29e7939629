package colloc

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cognicore/colloc/pkg/colloc/measure"
	"github.com/cognicore/colloc/pkg/colloc/vocab"
)

const b = vocab.Boundary

func TestExtractBigramScenario(t *testing.T) {
	// (1,2) occurs three times; (2,1) and (2,3) once each; nothing
	// straddles the boundary.
	stream := []vocab.ID{1, 2, 1, 2, 3, b, 1, 2}

	res, err := Extract(stream, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:    []int{2},
		Measure:  measure.G2,
		MinCount: 2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	r := res.Rows[0]
	if r.IDs[0] != 1 || r.IDs[1] != 2 {
		t.Errorf("top pair = (%d,%d), want (1,2)", r.IDs[0], r.IDs[1])
	}
	if r.Count != 3 {
		t.Errorf("joint count = %d, want 3", r.Count)
	}
	if res.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", res.Dropped)
	}
}

func TestExtractNoBoundaryTuples(t *testing.T) {
	stream := []vocab.ID{1, 2, b, 3, 4, b, 5, 6}

	res, err := Extract(stream, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:    []int{2, 3},
		Measure:  measure.All,
		MinCount: 1,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, r := range res.Rows {
		for _, id := range r.IDs {
			if id == vocab.Boundary {
				t.Fatalf("boundary id in output row %v", r.IDs)
			}
		}
	}
	// Each document is too short for a trigram, so only the three
	// within-document bigrams remain.
	if len(res.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(res.Rows))
	}
}

func TestExtractTrigramScenario(t *testing.T) {
	stream := []vocab.ID{1, 2, 3, b, 1, 2, 3, b, 1, 2, 3, b, 4, 5, 6}

	res, err := Extract(stream, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:    []int{3},
		Measure:  measure.G2,
		MinCount: 2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	r := res.Rows[0]
	if r.Length != 3 || r.IDs[0] != 1 || r.IDs[1] != 2 || r.IDs[2] != 3 {
		t.Errorf("top triple = %v, want (1,2,3)", r.IDs)
	}
	if r.Count != 3 {
		t.Errorf("joint count = %d, want 3", r.Count)
	}
}

func TestExtractMixedSizes(t *testing.T) {
	stream := []vocab.ID{1, 2, 3, 1, 2, 3, 1, 2, 3}

	res, err := Extract(stream, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:    []int{2, 3},
		Measure:  measure.G2,
		MinCount: 2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	lengths := map[int]int{}
	for _, r := range res.Rows {
		lengths[r.Length]++
	}
	if lengths[2] == 0 || lengths[3] == 0 {
		t.Errorf("expected both bigram and trigram rows, got %v", lengths)
	}
}

func TestExtractDeterministicAcrossWorkers(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	stream := make([]vocab.ID, 5000)
	for i := range stream {
		if rng.Intn(40) == 0 {
			stream[i] = b
			continue
		}
		stream[i] = vocab.ID(rng.Intn(30) + 1)
	}

	opts := ExtractOptions{Sizes: []int{2, 3}, Measure: measure.All, MinCount: 2}

	opts.Workers = 1
	seq, err := Extract(stream, vocab.AllFeatures(), nil, opts)
	if err != nil {
		t.Fatalf("Extract sequential: %v", err)
	}

	opts.Workers = 4
	par, err := Extract(stream, vocab.AllFeatures(), nil, opts)
	if err != nil {
		t.Fatalf("Extract parallel: %v", err)
	}

	if !reflect.DeepEqual(seq.Rows, par.Rows) {
		t.Error("worker count changed the ranked output")
	}
}

func TestExtractIndependenceSanity(t *testing.T) {
	// Tokens drawn uniformly at random carry no association: the mean G2
	// should sit near 1 (chi-square with one degree of freedom) and the
	// mean PMI near 0.
	rng := rand.New(rand.NewSource(7))
	stream := make([]vocab.ID, 20000)
	for i := range stream {
		stream[i] = vocab.ID(rng.Intn(10) + 1)
	}

	res, err := Extract(stream, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:    []int{2},
		Measure:  measure.All,
		MinCount: 1,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(res.Rows) == 0 {
		t.Fatal("no rows from a 20k-token stream")
	}

	var sumG2, sumPMI float64
	for _, r := range res.Rows {
		sumG2 += r.Values.G2
		sumPMI += r.Values.PMI
	}
	meanG2 := sumG2 / float64(len(res.Rows))
	meanPMI := sumPMI / float64(len(res.Rows))

	if meanG2 < 0.3 || meanG2 > 3.0 {
		t.Errorf("mean G2 on an independent corpus = %f, want near 1", meanG2)
	}
	if math.Abs(meanPMI) > 0.15 {
		t.Errorf("mean PMI on an independent corpus = %f, want near 0", meanPMI)
	}
}

func TestExtractFeatureFilter(t *testing.T) {
	stream := []vocab.ID{1, 2, 1, 2, 3, 4, 3, 4}

	res, err := Extract(stream, vocab.NewFeatureSet(1, 2), nil, ExtractOptions{
		Sizes:    []int{2},
		Measure:  measure.G2,
		MinCount: 1,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, r := range res.Rows {
		for _, id := range r.IDs {
			if id != 1 && id != 2 {
				t.Fatalf("non-feature id %d in output", id)
			}
		}
	}
}

func TestExtractResolvesWords(t *testing.T) {
	table := vocab.New()
	ids := table.Encode([]string{"new", "york", "new", "york"})

	res, err := Extract(ids, vocab.AllFeatures(), table, ExtractOptions{
		Sizes:    []int{2},
		Measure:  measure.G2,
		MinCount: 2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(res.Rows) == 0 {
		t.Fatal("no rows")
	}
	if res.Rows[0].Words[0] != "new" || res.Rows[0].Words[1] != "york" {
		t.Errorf("Words = %v", res.Rows[0].Words)
	}
}

func TestExtractUnknownMeasure(t *testing.T) {
	if _, err := Extract(nil, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:   []int{2},
		Measure: measure.Kind(99),
	}); err == nil {
		t.Error("out-of-range measure kind should fail")
	}
}

func TestExtractEmptyStream(t *testing.T) {
	res, err := Extract(nil, vocab.AllFeatures(), nil, ExtractOptions{
		Sizes:   []int{2, 3},
		Measure: measure.G2,
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(res.Rows))
	}
}
