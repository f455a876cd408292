package prep

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/apmslab/apmsprep/internal/table"
)

// Log2 is the default intensity transform. Intensities are strictly
// positive once zeros have been reclassified as missing.
func Log2(v float64) float64 {
	return math.Log2(v)
}

// Median returns the median of the non-missing values in vals, or
// the missing sentinel when there are none.
func Median(vals []float64) float64 {
	obs := observed(vals)
	if len(obs) == 0 {
		return table.Missing
	}
	sort.Float64s(obs)
	return stat.Quantile(0.5, stat.Empirical, obs, nil)
}

// observed returns a copy of vals without the missing cells.
func observed(vals []float64) []float64 {
	obs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !table.IsMissing(v) {
			obs = append(obs, v)
		}
	}
	return obs
}

// ZeroToMissing reclassifies literal zero intensities as missing
// measurements: zero means "below detection", not a true zero. It
// returns the total number of missing cells in the given columns
// afterwards, pre-existing ones included.
func ZeroToMissing(t *table.Table, cols []string) (int, error) {
	missing := 0
	for _, name := range cols {
		values, err := t.Numeric(name)
		if err != nil {
			return 0, err
		}
		for i, v := range values {
			if v == 0 {
				values[i] = table.Missing
			}
			if table.IsMissing(values[i]) {
				missing++
			}
		}
	}
	return missing, nil
}

// ApplyTransform applies f to every cell of the given columns.
// Missing cells propagate unchanged.
func ApplyTransform(t *table.Table, cols []string, f func(float64) float64) error {
	for _, name := range cols {
		values, err := t.Numeric(name)
		if err != nil {
			return err
		}
		for i, v := range values {
			if !table.IsMissing(v) {
				values[i] = f(v)
			}
		}
	}
	return nil
}

// Normalize subtracts the per-column location statistic (computed
// over the non-missing values) from every cell of that column,
// correcting systematic loading differences between samples.
func Normalize(t *table.Table, cols []string, center func([]float64) float64) error {
	for _, name := range cols {
		values, err := t.Numeric(name)
		if err != nil {
			return err
		}
		m := center(values)
		if table.IsMissing(m) {
			continue // all cells missing, nothing to adjust
		}
		for i, v := range values {
			if !table.IsMissing(v) {
				values[i] = v - m
			}
		}
	}
	return nil
}
