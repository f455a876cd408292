package prep

import (
	"fmt"
	"strings"

	"github.com/apmslab/apmsprep/internal/table"
)

// IgnoreColumn is the 0/1 column recording which rows matched the
// ignore list. Flagged rows bypass the peptide-count and organism
// filters.
const IgnoreColumn = `ignore`

// Filter applies the three row-removing quality stages in order:
// ignore-list flagging, unique-peptide threshold, organism filter.
// Row-removal counts and skipped-stage warnings are recorded in info.
func Filter(t *table.Table, roles Roles, p Params, info *Info) error {
	if err := flagIgnored(t, roles, p.IgnoreList, info); err != nil {
		return err
	}
	if err := filterPeptideCount(t, roles, p.PeptideThreshold, info); err != nil {
		return err
	}
	return filterOrganism(t, roles, p.OrganismFilter, info)
}

// flagIgnored adds the IgnoreColumn, set for rows whose accession
// contains any ignore-list entry.
func flagIgnored(t *table.Table, roles Roles, patterns []string, info *Info) error {
	acc, err := t.Strings(roles.Accession)
	if err != nil {
		return err
	}
	flags := make([]float64, len(acc))
	ignored := 0
	for i, a := range acc {
		for _, pat := range patterns {
			if pat != `` && strings.Contains(a, pat) {
				flags[i] = 1
				ignored++
				break
			}
		}
	}
	info.IgnoredRows = ignored
	if ignored > 0 {
		info.warnf(WarnRowsIgnored, "%d rows exempted from filtering by the ignore list", ignored)
	}
	return t.AppendNumeric(IgnoreColumn, flags)
}

// filterPeptideCount keeps rows whose unique-peptide count reaches
// the threshold, or that carry the ignore flag. Without a peptide
// column the stage is skipped with a warning.
func filterPeptideCount(t *table.Table, roles Roles, threshold int, info *Info) error {
	if roles.UniquePeptide == `` {
		info.warnf(WarnNoPeptideColumn,
			"no unique-peptide column found, peptide-count filter skipped")
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultPeptideThreshold
	}
	counts, err := t.Numeric(roles.UniquePeptide)
	if err != nil {
		return err
	}
	flags, err := t.Numeric(IgnoreColumn)
	if err != nil {
		return err
	}
	keep := make([]bool, len(counts))
	for i, c := range counts {
		keep[i] = flags[i] != 0 ||
			(!table.IsMissing(c) && c >= float64(threshold))
	}
	return removeRows(t, keep, info)
}

// filterOrganism keeps rows whose accession contains the organism
// substring, or that carry the ignore flag. An empty filter string
// disables the stage: all rows are then assumed valid.
func filterOrganism(t *table.Table, roles Roles, organism string, info *Info) error {
	if organism == `` {
		info.warnf(WarnOrganismDisabled,
			"organism filter disabled, all identifiers assumed valid")
		return nil
	}
	acc, err := t.Strings(roles.Accession)
	if err != nil {
		return err
	}
	flags, err := t.Numeric(IgnoreColumn)
	if err != nil {
		return err
	}
	keep := make([]bool, len(acc))
	for i, a := range acc {
		keep[i] = flags[i] != 0 || strings.Contains(a, organism)
	}
	return removeRows(t, keep, info)
}

func removeRows(t *table.Table, keep []bool, info *Info) error {
	removed := 0
	for _, k := range keep {
		if !k {
			removed++
		}
	}
	if removed == 0 {
		return nil
	}
	if err := t.Keep(keep); err != nil {
		return err
	}
	info.RowsRemoved += removed
	return nil
}

func (info *Info) warnf(code, format string, args ...interface{}) {
	info.Warnings = append(info.Warnings, Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}
