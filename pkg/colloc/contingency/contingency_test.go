package contingency

import (
	"errors"
	"math"
	"testing"

	"github.com/cognicore/colloc/pkg/colloc/internalerr"
)

func TestBigramConservation(t *testing.T) {
	b, err := NewBigram(10, 20, 30, 100)
	if err != nil {
		t.Fatalf("NewBigram: %v", err)
	}

	var sum float64
	for _, cell := range b.Obs {
		sum += cell
	}
	if sum != b.N {
		t.Errorf("cells sum to %f, want N=%f", sum, b.N)
	}
}

func TestBigramCells(t *testing.T) {
	b, err := NewBigram(10, 20, 30, 100)
	if err != nil {
		t.Fatalf("NewBigram: %v", err)
	}

	want := [4]float64{10, 10, 20, 60}
	if b.Obs != want {
		t.Errorf("Obs = %v, want %v", b.Obs, want)
	}
}

func TestBigramExpected(t *testing.T) {
	b, err := NewBigram(10, 20, 30, 100)
	if err != nil {
		t.Fatalf("NewBigram: %v", err)
	}

	e := b.Expected()
	want := [4]float64{6, 14, 24, 56} // rowTotal*colTotal/N per cell

	for i := range want {
		if math.Abs(e[i]-want[i]) > 1e-9 {
			t.Errorf("e[%d] = %f, want %f", i, e[i], want[i])
		}
	}

	// Expected cells also conserve N.
	var sum float64
	for _, cell := range e {
		sum += cell
	}
	if math.Abs(sum-b.N) > 1e-9 {
		t.Errorf("expected cells sum to %f, want %f", sum, b.N)
	}
}

func TestBigramExpectedNonNegative(t *testing.T) {
	cases := []struct {
		joint, m1, m2, n int64
	}{
		{1, 1, 1, 1},
		{1, 1, 1, 2},
		{5, 5, 100, 100}, // marginal equals N: complement cell is zero
		{2, 4, 8, 1000000000},
	}
	for _, tc := range cases {
		b, err := NewBigram(tc.joint, tc.m1, tc.m2, tc.n)
		if err != nil {
			t.Errorf("NewBigram(%+v): %v", tc, err)
			continue
		}
		for i, e := range b.Expected() {
			if e < 0 || math.IsNaN(e) {
				t.Errorf("case %+v: e[%d] = %f", tc, i, e)
			}
		}
	}
}

func TestBigramDegenerate(t *testing.T) {
	// Joint larger than a marginal would force a negative cell.
	if _, err := NewBigram(10, 5, 30, 100); !errors.Is(err, internalerr.ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestBigramLargeCountsStayFinite(t *testing.T) {
	// Log-space arithmetic keeps huge corpora finite.
	b, err := NewBigram(1e15, 1e17, 1e17, 1e18)
	if err != nil {
		t.Fatalf("NewBigram: %v", err)
	}
	for i, e := range b.Expected() {
		if math.IsInf(e, 0) || math.IsNaN(e) {
			t.Errorf("e[%d] = %f for large corpus", i, e)
		}
	}
}

func TestTrigramConservation(t *testing.T) {
	tr, err := NewTrigram(5, 20, 25, 30, 8, 6, 7, 100)
	if err != nil {
		t.Fatalf("NewTrigram: %v", err)
	}

	var sum float64
	for _, cell := range tr.Obs {
		sum += cell
	}
	if sum != tr.N {
		t.Errorf("cells sum to %f, want N=%f", sum, tr.N)
	}
}

func TestTrigramCells(t *testing.T) {
	tr, err := NewTrigram(5, 20, 25, 30, 8, 6, 7, 100)
	if err != nil {
		t.Fatalf("NewTrigram: %v", err)
	}

	// n111, n112, n121, n122, n211, n212, n221, n222
	want := [8]float64{5, 3, 1, 11, 2, 15, 22, 41}
	if tr.Obs != want {
		t.Errorf("Obs = %v, want %v", tr.Obs, want)
	}
}

func TestTrigramExpected(t *testing.T) {
	tr, err := NewTrigram(5, 20, 25, 30, 8, 6, 7, 100)
	if err != nil {
		t.Fatalf("NewTrigram: %v", err)
	}

	e := tr.Expected()
	// e111 = 20*25*30 / 100^2
	if math.Abs(e[0]-1.5) > 1e-9 {
		t.Errorf("e111 = %f, want 1.5", e[0])
	}

	var sum float64
	for i, cell := range e {
		if cell < 0 {
			t.Errorf("e[%d] = %f, want >= 0", i, cell)
		}
		sum += cell
	}
	if math.Abs(sum-tr.N) > 1e-9 {
		t.Errorf("expected cells sum to %f, want %f", sum, tr.N)
	}
}

func TestTrigramDegenerate(t *testing.T) {
	// Pairwise count below the joint count is inconsistent.
	if _, err := NewTrigram(10, 20, 25, 30, 5, 12, 13, 100); !errors.Is(err, internalerr.ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}
