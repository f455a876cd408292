package prep

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/apmslab/apmsprep/internal/table"
)

func numeric(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i + 1)
	}
	return v
}

func baitMockTable(t *testing.T, headers ...string) *table.Table {
	t.Helper()
	tbl := table.New()
	if err := tbl.AppendText("accession", []string{"P1_HUMAN", "P2_HUMAN", "P3_HUMAN"}); err != nil {
		t.Fatalf("AppendText: error return %v", err)
	}
	for _, h := range headers {
		if err := tbl.AppendNumeric(h, numeric(3)); err != nil {
			t.Fatalf("AppendNumeric: error return %v", err)
		}
	}
	return tbl
}

func TestResolveColumnsInference(t *testing.T) {
	tbl := baitMockTable(t, "smad_2", "mock_2", "smad_1", "mock_1", "ratio_smad_mock")
	roles, err := ResolveColumns(tbl, DefaultParams("smad"))
	if err != nil {
		t.Fatalf("ResolveColumns: error return %v", err)
	}
	want := Roles{
		Accession: "accession",
		Baits:     []string{"smad_1", "smad_2"},
		Controls:  []string{"mock_1", "mock_2"},
	}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("Roles mismatch (-want +got):\n%s", diff)
	}
	if roles.Pairs() != 2 {
		t.Errorf("Pairs: %d, should be 2", roles.Pairs())
	}
}

func TestResolveColumnsThreeReplicates(t *testing.T) {
	// Any matched replicate count >= 2 is valid, not just 2 pairs
	tbl := baitMockTable(t, "smad_1", "smad_2", "smad_3", "mock_1", "mock_2", "mock_3")
	roles, err := ResolveColumns(tbl, DefaultParams("smad"))
	if err != nil {
		t.Fatalf("ResolveColumns: error return %v", err)
	}
	if roles.Pairs() != 3 {
		t.Errorf("Pairs: %d, should be 3", roles.Pairs())
	}
}

func TestResolveColumnsInferenceErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		headers []string
		baits   []string
	}{
		{"absent bait label", []string{"smad_1", "smad_2", "mock_1", "mock_2"}, []string{"tgfb"}},
		{"single bait column", []string{"smad_1", "mock_1", "mock_2"}, []string{"smad"}},
		{"single control column", []string{"smad_1", "smad_2", "mock_1"}, []string{"smad"}},
		{"count mismatch", []string{"smad_1", "smad_2", "smad_3", "mock_1", "mock_2"}, []string{"smad"}},
		{"no bait label", nil, nil},
	} {
		tbl := baitMockTable(t, tc.headers...)
		p := DefaultParams(tc.baits...)
		var err error
		if len(tc.baits) == 0 {
			err = p.validate()
		} else {
			_, err = ResolveColumns(tbl, p)
		}
		if !errors.Is(err, ErrConfig) {
			t.Errorf("%s: error return %v, should wrap ErrConfig", tc.name, err)
		}
	}
}

func TestResolveColumnsExplicit(t *testing.T) {
	tbl := baitMockTable(t, "b1", "c1", "b2", "c2")
	p := DefaultParams("smad")
	p.Columns = []string{"accession", "b1", "c1", "b2", "c2"}
	roles, err := ResolveColumns(tbl, p)
	if err != nil {
		t.Fatalf("ResolveColumns: error return %v", err)
	}
	want := Roles{
		Accession: "accession",
		Baits:     []string{"b1", "b2"},
		Controls:  []string{"c1", "c2"},
	}
	if diff := cmp.Diff(want, roles); diff != "" {
		t.Errorf("Roles mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveColumnsExplicitErrors(t *testing.T) {
	tbl := baitMockTable(t, "b1", "c1", "b2", "c2")

	// Fewer than 5 entries
	p := DefaultParams("smad")
	p.Columns = []string{"accession", "b1", "c1"}
	_, err := ResolveColumns(tbl, p)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("short list: error return %v, should wrap ErrConfig", err)
	}

	// Unmatched names are listed in the error
	p.Columns = []string{"accession", "b1", "c1", "nope1", "nope2"}
	_, err = ResolveColumns(tbl, p)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("unmatched: error return %v, should wrap ErrConfig", err)
	}
	for _, name := range []string{"nope1", "nope2"} {
		if err == nil || !strings.Contains(err.Error(), name) {
			t.Errorf("unmatched: error %q should name %s", err, name)
		}
	}
}

func TestFindPeptideColumn(t *testing.T) {
	tbl := baitMockTable(t, "smad_1", "smad_2", "mock_1", "mock_2", "Unique peptides")
	roles, err := ResolveColumns(tbl, DefaultParams("smad"))
	if err != nil {
		t.Fatalf("ResolveColumns: error return %v", err)
	}
	if roles.UniquePeptide != "Unique peptides" {
		t.Errorf("UniquePeptide: %q, should be %q", roles.UniquePeptide, "Unique peptides")
	}

	// More than one unique-peptide column is ambiguous
	tbl = baitMockTable(t, "smad_1", "smad_2", "mock_1", "mock_2",
		"Unique peptides", "unique count")
	_, err = ResolveColumns(tbl, DefaultParams("smad"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("ambiguous peptide column: error return %v, should wrap ErrConfig", err)
	}
}

func TestResolveColumnsNonNumericIntensity(t *testing.T) {
	tbl := table.New()
	if err := tbl.AppendText("accession", []string{"P1_HUMAN"}); err != nil {
		t.Fatalf("AppendText: error return %v", err)
	}
	if err := tbl.AppendText("smad_1", []string{"x"}); err != nil {
		t.Fatalf("AppendText: error return %v", err)
	}
	for _, h := range []string{"smad_2", "mock_1", "mock_2"} {
		if err := tbl.AppendNumeric(h, numeric(1)); err != nil {
			t.Fatalf("AppendNumeric: error return %v", err)
		}
	}
	_, err := ResolveColumns(tbl, DefaultParams("smad"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("non-numeric intensity: error return %v, should wrap ErrConfig", err)
	}
}
