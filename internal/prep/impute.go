package prep

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"golang.org/x/exp/rand"

	"github.com/apmslab/apmsprep/internal/table"
)

// ImputedColumn is the 0/1 column marking rows that received at
// least one imputed intensity. Only present in Gaussian mode.
const ImputedColumn = `imputed`

// DropMissing removes every row with a missing value in any of the
// given columns and returns the number of rows removed.
func DropMissing(t *table.Table, cols []string) (int, error) {
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range cols {
		values, err := t.Numeric(name)
		if err != nil {
			return 0, err
		}
		for i, v := range values {
			if table.IsMissing(v) {
				keep[i] = false
			}
		}
	}
	removed := 0
	for _, k := range keep {
		if !k {
			removed++
		}
	}
	if removed > 0 {
		if err := t.Keep(keep); err != nil {
			return 0, err
		}
	}
	return removed, nil
}

// GaussianImpute fills missing cells column by column with draws from
// a normal distribution fitted to the observed values and down-shifted
// per the imputation parameters, modeling below-detection-limit
// measurements. It adds the ImputedColumn flag and returns the number
// of cells imputed. Draws come from src, so a fixed seed makes the
// result reproducible.
func GaussianImpute(t *table.Table, cols []string, imp Imputation, src rand.Source) (int, error) {
	flags := make([]float64, t.NumRows())
	imputed := 0
	for _, name := range cols {
		values, err := t.Numeric(name)
		if err != nil {
			return 0, err
		}
		obs := observed(values)
		if len(obs) == 0 {
			continue // nothing to fit the distribution on
		}
		mu, sigma := stat.MeanStdDev(obs, nil)
		if len(obs) < 2 || table.IsMissing(sigma) {
			sigma = 0
		}
		dist := distuv.Normal{
			Mu:    mu + imp.Shift*sigma,
			Sigma: imp.Width * sigma,
			Src:   src,
		}
		for i, v := range values {
			if !table.IsMissing(v) {
				continue
			}
			if dist.Sigma > 0 {
				values[i] = dist.Rand()
			} else {
				values[i] = dist.Mu
			}
			flags[i] = 1
			imputed++
		}
	}
	if err := t.AppendNumeric(ImputedColumn, flags); err != nil {
		return 0, err
	}
	return imputed, nil
}
