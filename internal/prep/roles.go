package prep

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apmslab/apmsprep/internal/table"
)

// Roles records which table columns play which experimental role.
// Baits and Controls are paired by position: replicate pair i is
// (Baits[i], Controls[i]).
type Roles struct {
	Accession     string
	Baits         []string
	Controls      []string
	UniquePeptide string `json:",omitempty"` // empty when absent
}

// Pairs returns the number of bait/control replicate pairs.
func (r Roles) Pairs() int {
	return len(r.Baits)
}

// Intensity returns all intensity column names, baits first.
func (r Roles) Intensity() []string {
	cols := make([]string, 0, len(r.Baits)+len(r.Controls))
	cols = append(cols, r.Baits...)
	cols = append(cols, r.Controls...)
	return cols
}

// ResolveColumns classifies the table columns into roles, either from
// the explicit column list in p or by inference from the header
// names. All structural invariants (matched bait/control counts, at
// most one unique-peptide column) are checked here, before any
// numeric stage runs.
func ResolveColumns(t *table.Table, p Params) (Roles, error) {
	var roles Roles

	peptide, err := findPeptideColumn(t)
	if err != nil {
		return roles, err
	}
	roles.UniquePeptide = peptide

	if len(p.Columns) > 0 {
		err = resolveExplicit(t, p.Columns, &roles)
	} else {
		err = inferRoles(t, p, &roles)
	}
	if err != nil {
		return roles, err
	}

	for _, name := range roles.Intensity() {
		c, err := t.Col(name)
		if err != nil {
			return roles, fmt.Errorf("%w: column %q not found", ErrConfig, name)
		}
		if !c.IsNumeric() {
			return roles, fmt.Errorf("%w: intensity column %q is not numeric",
				ErrConfig, name)
		}
	}
	return roles, nil
}

// resolveExplicit takes the columns exactly as listed:
// accession, bait1, control1, bait2, control2, ...
func resolveExplicit(t *table.Table, cols []string, roles *Roles) error {
	var unmatched []string
	for _, name := range cols {
		if !t.Has(name) {
			unmatched = append(unmatched, name)
		}
	}
	if len(unmatched) > 0 {
		return fmt.Errorf("%w: columns not in header: %s",
			ErrConfig, strings.Join(unmatched, `, `))
	}
	if len(cols) < 5 || len(cols)%2 == 0 {
		return fmt.Errorf("%w: explicit column list needs an accession column "+
			"plus at least 2 bait/control pairs, got %d entries", ErrConfig, len(cols))
	}
	roles.Accession = cols[0]
	for i := 1; i < len(cols); i += 2 {
		roles.Baits = append(roles.Baits, cols[i])
		roles.Controls = append(roles.Controls, cols[i+1])
	}
	return nil
}

// inferRoles classifies header names by the bait and control label
// substrings. Pre-existing ratio columns are excluded, as is the
// unique-peptide column. Bait and control groups are each sorted and
// paired by position; any pair count >= 2 is valid.
func inferRoles(t *table.Table, p Params, roles *Roles) error {
	controlLabel := p.ControlLabel
	if controlLabel == `` {
		controlLabel = DefaultControlLabel
	}

	matched := make(map[string]bool, len(p.Baits))
	for _, name := range t.Names() {
		if name == roles.UniquePeptide {
			continue
		}
		lower := strings.ToLower(name)
		if strings.Contains(lower, `ratio`) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(controlLabel)) {
			roles.Controls = append(roles.Controls, name)
			continue
		}
		for _, bait := range p.Baits {
			if strings.Contains(lower, strings.ToLower(bait)) {
				roles.Baits = append(roles.Baits, name)
				matched[bait] = true
				break
			}
		}
	}

	for _, bait := range p.Baits {
		if !matched[bait] {
			return fmt.Errorf("%w: bait label %q matches no column in the header",
				ErrConfig, bait)
		}
	}
	switch {
	case len(roles.Baits) == 0:
		return fmt.Errorf("%w: no bait columns found", ErrConfig)
	case len(roles.Controls) == 0:
		return fmt.Errorf("%w: no control columns found (label %q)",
			ErrConfig, controlLabel)
	case len(roles.Baits) == 1:
		return fmt.Errorf("%w: only one bait column found, need at least 2 replicates",
			ErrConfig)
	case len(roles.Controls) == 1:
		return fmt.Errorf("%w: only one control column found, need at least 2 replicates",
			ErrConfig)
	case len(roles.Baits) != len(roles.Controls):
		return fmt.Errorf("%w: %d bait columns but %d control columns",
			ErrConfig, len(roles.Baits), len(roles.Controls))
	}

	// Pair replicates by position after sorting each group, so that
	// e.g. bait_1/bait_2 line up with mock_1/mock_2
	sort.Strings(roles.Baits)
	sort.Strings(roles.Controls)

	acc, err := findAccessionColumn(t)
	if err != nil {
		return err
	}
	roles.Accession = acc
	return nil
}

// findAccessionColumn picks the first text column of the table.
func findAccessionColumn(t *table.Table) (string, error) {
	for _, name := range t.Names() {
		c, _ := t.Col(name)
		if !c.IsNumeric() {
			return name, nil
		}
	}
	return ``, fmt.Errorf("%w: no accession (text) column in table", ErrConfig)
}

// findPeptideColumn locates the unique-peptide-count column. More
// than one candidate is a configuration error; none is allowed and
// merely skips the peptide-count filter later.
func findPeptideColumn(t *table.Table) (string, error) {
	var found []string
	for _, name := range t.Names() {
		if strings.Contains(strings.ToLower(name), `unique`) {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return ``, nil
	case 1:
		return found[0], nil
	}
	return ``, fmt.Errorf("%w: more than one unique-peptide column: %s",
		ErrConfig, strings.Join(found, `, `))
}
