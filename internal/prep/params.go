// Package prep prepares AP-MS bait-vs-control intensity tables for
// downstream interaction statistics: it resolves column roles, runs
// the transform/normalize/filter/impute stages and emits per-replicate
// log fold changes keyed by protein identity.
package prep

import (
	"errors"
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/apmslab/apmsprep/internal/accession"
)

// ErrConfig is the root of all fatal configuration errors. Callers
// test with errors.Is; a configuration error aborts the pipeline with
// no partial result.
var ErrConfig = errors.New("invalid configuration")

// Defaults for the recognized options.
const (
	DefaultControlLabel     = "mock"
	DefaultOrganismFilter   = "HUMAN"
	DefaultPeptideThreshold = 2
	DefaultFirstColumnName  = "gene"
)

// Imputation selects censored-value (Gaussian) imputation of missing
// intensities. Both parameters are required: for each column with
// observed mean mu and standard deviation sigma, missing cells are
// drawn from Normal(mu+Shift*sigma, Width*sigma). Shift is typically
// negative, modeling below-detection-limit measurements.
type Imputation struct {
	Width float64 // standard deviation multiplier, must be > 0
	Shift float64 // mean shift in units of the column standard deviation
}

// Params holds the pipeline configuration. Zero values select the
// documented defaults; use DefaultParams to obtain a pre-filled set.
type Params struct {
	// Baits are the label substrings identifying bait intensity
	// columns in the header. Required, at least one.
	Baits []string
	// ControlLabel identifies control intensity columns.
	ControlLabel string
	// Columns optionally lists the roles explicitly, bypassing
	// inference: accession, bait1, control1, bait2, control2, ...
	Columns []string
	// Impute selects censored-value imputation; nil drops rows with
	// missing values instead.
	Impute *Imputation
	// Transform is the elementwise intensity transform; nil selects
	// base-2 logarithm. Must be monotonic.
	Transform func(float64) float64
	// Center is the per-column location statistic subtracted during
	// normalization; nil selects the median.
	Center func([]float64) float64
	// OrganismFilter keeps only rows whose accession contains this
	// substring; empty disables the filter.
	OrganismFilter string
	// PeptideThreshold is the minimum unique-peptide count.
	PeptideThreshold int
	// IgnoreList rows (accession substring match) bypass the quality
	// filters.
	IgnoreList []string
	// FirstColumnName renames the leading identifier column of the
	// summary output.
	FirstColumnName string
	// Raw returns the full working table instead of the summary
	// projection.
	Raw bool
	// Resolver maps accessions to canonical identifiers; nil selects
	// the lexical UniProtKB resolver.
	Resolver accession.Resolver
	// Src seeds the imputation draws; nil draws a time-based seed.
	// Fix it to make the pipeline deterministic.
	Src rand.Source
}

// DefaultParams returns a Params with all defaults filled in for the
// given bait labels.
func DefaultParams(baits ...string) Params {
	return Params{
		Baits:            baits,
		ControlLabel:     DefaultControlLabel,
		OrganismFilter:   DefaultOrganismFilter,
		PeptideThreshold: DefaultPeptideThreshold,
		FirstColumnName:  DefaultFirstColumnName,
	}
}

func (p *Params) validate() error {
	if len(p.Baits) == 0 {
		return fmt.Errorf("%w: no bait label given", ErrConfig)
	}
	for _, b := range p.Baits {
		if b == `` {
			return fmt.Errorf("%w: empty bait label", ErrConfig)
		}
	}
	if p.Impute != nil && p.Impute.Width <= 0 {
		return fmt.Errorf("%w: imputation width must be > 0, got %g",
			ErrConfig, p.Impute.Width)
	}
	return nil
}

func (p *Params) transform() func(float64) float64 {
	if p.Transform != nil {
		return p.Transform
	}
	return Log2
}

func (p *Params) center() func([]float64) float64 {
	if p.Center != nil {
		return p.Center
	}
	return Median
}

func (p *Params) resolver() accession.Resolver {
	if p.Resolver != nil {
		return p.Resolver
	}
	return accession.Lexical{}
}

func (p *Params) firstColumnName() string {
	if p.FirstColumnName != `` {
		return p.FirstColumnName
	}
	return DefaultFirstColumnName
}
