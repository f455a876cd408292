package prep

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/apmslab/apmsprep/internal/table"
)

// Warning codes for the non-fatal data-quality diagnostics.
const (
	WarnNoPeptideColumn  = `no-peptide-column`
	WarnOrganismDisabled = `organism-filter-disabled`
	WarnRowsIgnored      = `rows-ignored`
	WarnRowsDropped      = `rows-dropped`
)

// Warning is a non-fatal data-quality diagnostic. The pipeline
// records warnings instead of logging, so callers and tests can
// assert on them deterministically.
type Warning struct {
	Code    string
	Message string
}

// Info carries the diagnostics accumulated over a pipeline run.
type Info struct {
	MissingCells int
	RowsRemoved  int
	IgnoredRows  int
	ImputedCells int
	Roles        Roles
	Warnings     []Warning `json:",omitempty"`
}

// Result is the pipeline output: the projected table plus the run
// diagnostics.
type Result struct {
	Table *table.Table
	Info  Info
}

// Column names added by the identifier-resolution stage.
const (
	geneColumn    = `gene`
	uniprotColumn = `uniprot`
)

// Run executes the preparation pipeline on t, mutating it in place:
// role resolution, zero-to-missing, transform, normalization, quality
// filtering, identifier resolution, imputation and fold-change
// computation, followed by the output projection. A configuration
// error aborts the run with no partial result.
func Run(t *table.Table, p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var info Info
	roles, err := ResolveColumns(t, p)
	if err != nil {
		return nil, err
	}
	info.Roles = roles
	intensity := roles.Intensity()

	info.MissingCells, err = ZeroToMissing(t, intensity)
	if err != nil {
		return nil, err
	}
	if err := ApplyTransform(t, intensity, p.transform()); err != nil {
		return nil, err
	}
	if err := Normalize(t, intensity, p.center()); err != nil {
		return nil, err
	}
	if err := Filter(t, roles, p, &info); err != nil {
		return nil, err
	}
	if err := resolveIdentifiers(t, roles, p); err != nil {
		return nil, err
	}

	if p.Impute == nil {
		dropped, err := DropMissing(t, intensity)
		if err != nil {
			return nil, err
		}
		if dropped > 0 {
			info.RowsRemoved += dropped
			info.warnf(WarnRowsDropped, "%d rows with missing values dropped", dropped)
		}
	} else {
		src := p.Src
		if src == nil {
			src = rand.NewSource(uint64(time.Now().UnixNano()))
		}
		info.ImputedCells, err = GaussianImpute(t, intensity, *p.Impute, src)
		if err != nil {
			return nil, err
		}
	}

	fcCols, err := FoldChanges(t, roles)
	if err != nil {
		return nil, err
	}

	if p.Raw {
		return &Result{Table: t, Info: info}, nil
	}
	summary, err := project(t, roles, p, fcCols)
	if err != nil {
		return nil, err
	}
	return &Result{Table: summary, Info: info}, nil
}

// resolveIdentifiers adds gene and uniprot columns from the
// configured resolver. Resolution failure is non-fatal: such rows
// keep empty identifiers and stay in the pipeline.
func resolveIdentifiers(t *table.Table, roles Roles, p Params) error {
	acc, err := t.Strings(roles.Accession)
	if err != nil {
		return err
	}
	r := p.resolver()
	genes := make([]string, len(acc))
	uniprot := make([]string, len(acc))
	for i, a := range acc {
		// Failure is non-fatal, any partially derived identity is kept
		id, _ := r.Resolve(a)
		genes[i] = id.Gene
		uniprot[i] = id.UniProt
	}
	if err := t.AppendText(geneColumn, genes); err != nil {
		return err
	}
	return t.AppendText(uniprotColumn, uniprot)
}

// project builds the summary output: the leading identifier column
// (gene symbol, falling back to the raw accession when unresolved),
// the uniprot column, the fold-change columns and the imputation flag
// when present. Intensity columns are not part of the summary.
func project(t *table.Table, roles Roles, p Params, fcCols []string) (*table.Table, error) {
	acc, err := t.Strings(roles.Accession)
	if err != nil {
		return nil, err
	}
	genes, err := t.Strings(geneColumn)
	if err != nil {
		return nil, err
	}
	lead := make([]string, len(acc))
	for i := range acc {
		if genes[i] != `` {
			lead[i] = genes[i]
		} else {
			lead[i] = acc[i]
		}
	}

	out := table.New()
	first := p.firstColumnName()
	if err := out.AppendText(first, lead); err != nil {
		return nil, err
	}
	if first != uniprotColumn {
		uniprot, err := t.Strings(uniprotColumn)
		if err != nil {
			return nil, err
		}
		if err := out.AppendText(uniprotColumn, uniprot); err != nil {
			return nil, err
		}
	}
	for _, name := range fcCols {
		values, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		if err := out.AppendNumeric(name, values); err != nil {
			return nil, err
		}
	}
	if t.Has(ImputedColumn) {
		flags, err := t.Numeric(ImputedColumn)
		if err != nil {
			return nil, err
		}
		if err := out.AppendNumeric(ImputedColumn, flags); err != nil {
			return nil, err
		}
	}
	return out, nil
}
