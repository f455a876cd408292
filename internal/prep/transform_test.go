package prep

import (
	"math"
	"testing"

	"github.com/apmslab/apmsprep/internal/table"
)

func TestZeroToMissing(t *testing.T) {
	tbl := table.New()
	if err := tbl.AppendNumeric("bait_1", []float64{0, 8, table.Missing}); err != nil {
		t.Fatalf("AppendNumeric: error return %v", err)
	}
	if err := tbl.AppendNumeric("mock_1", []float64{2, 0, 4}); err != nil {
		t.Fatalf("AppendNumeric: error return %v", err)
	}

	missing, err := ZeroToMissing(tbl, []string{"bait_1", "mock_1"})
	if err != nil {
		t.Fatalf("ZeroToMissing: error return %v", err)
	}
	// Two rewritten zeros plus one pre-existing missing cell
	if missing != 3 {
		t.Errorf("missing count: %d, should be 3", missing)
	}
	bait, _ := tbl.Numeric("bait_1")
	if !table.IsMissing(bait[0]) {
		t.Errorf("bait_1[0] = %v, should be missing", bait[0])
	}
	if bait[1] != 8 {
		t.Errorf("bait_1[1] = %v, should be 8", bait[1])
	}
}

func TestApplyTransformLog2(t *testing.T) {
	tbl := table.New()
	if err := tbl.AppendNumeric("bait_1", []float64{1, 8, table.Missing}); err != nil {
		t.Fatalf("AppendNumeric: error return %v", err)
	}
	if err := ApplyTransform(tbl, []string{"bait_1"}, Log2); err != nil {
		t.Fatalf("ApplyTransform: error return %v", err)
	}
	bait, _ := tbl.Numeric("bait_1")
	if bait[0] != 0 {
		t.Errorf("log2(1) = %v, should be 0", bait[0])
	}
	if bait[1] != 3 {
		t.Errorf("log2(8) = %v, should be 3", bait[1])
	}
	// Transform of missing is missing, never an error
	if !table.IsMissing(bait[2]) {
		t.Errorf("transform of missing = %v, should be missing", bait[2])
	}
}

func TestMedian(t *testing.T) {
	m := Median([]float64{3, table.Missing, 1, 2})
	if m != 2 {
		t.Errorf("Median: %v, should be 2", m)
	}
	if !table.IsMissing(Median([]float64{table.Missing, table.Missing})) {
		t.Errorf("Median of all-missing column should be missing")
	}
}

func TestNormalizeMedianSubtract(t *testing.T) {
	tbl := table.New()
	if err := tbl.AppendNumeric("bait_1", []float64{1, 2, 9, table.Missing, 4}); err != nil {
		t.Fatalf("AppendNumeric: error return %v", err)
	}
	if err := Normalize(tbl, []string{"bait_1"}, Median); err != nil {
		t.Fatalf("Normalize: error return %v", err)
	}
	bait, _ := tbl.Numeric("bait_1")
	// Median of the non-missing values (1,2,9,4) subtracted per cell
	m := Median(bait)
	if math.Abs(m) > 1e-12 {
		t.Errorf("column median after normalization: %v, should be 0", m)
	}
	if !table.IsMissing(bait[3]) {
		t.Errorf("normalize of missing = %v, should be missing", bait[3])
	}

	// Normalizing an already-normalized column is a no-op
	before := append([]float64(nil), bait...)
	if err := Normalize(tbl, []string{"bait_1"}, Median); err != nil {
		t.Fatalf("Normalize: error return %v", err)
	}
	after, _ := tbl.Numeric("bait_1")
	for i := range before {
		if table.IsMissing(before[i]) {
			continue
		}
		if math.Abs(before[i]-after[i]) > 1e-12 {
			t.Errorf("idempotence: cell %d changed from %v to %v", i, before[i], after[i])
		}
	}
}
