// Copyright 2026 APMS Lab.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"github.com/apmslab/apmsprep/internal/prep"
	"github.com/apmslab/apmsprep/internal/table"
)

// Program name and version
const progName = "apmsPrep"

var progVersion = `Unknown`

const (
	infoDefault = iota
	infoSilent
	infoVerbose
)

// Command line parameters
type params struct {
	tableFilename   *string // set from the positional argument
	outFilename     *string // filename for the output table, empty for stdout
	infoFilename    *string // filename where JSON run diagnostics will be written
	bait            *string // comma-separated bait label(s)
	controlLabel    *string // control column label
	columns         *string // comma-separated explicit column role list
	imputeSpec      *string // censored imputation parameters, width:shift
	organism        *string // organism identifier substring filter
	peptideMin      *int    // minimum unique-peptide count
	ignoreList      *string // comma-separated accession substrings to exempt
	firstColumnName *string // name of the leading output column
	raw             *bool   // emit the full working table instead of the summary
	seed            *uint64 // imputation RNG seed, 0 for time-based
	verbosity       int     // verbosity of progress messages (infoDefault...)
	args            []string
}

var ErrImputeSpec = errors.New("invalid imputation specified")

// Parse a string like "0.3:-1.8" into the two censored-imputation
// parameters. Both must be present; an empty string selects
// drop-missing mode.
func parseImputeSpec(s string) (*prep.Imputation, error) {
	if s == `` {
		return nil, nil
	}
	re := regexp.MustCompile(`^\s*([-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?):([-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?)\s*$`)
	m := re.FindStringSubmatch(s)
	if len(m) < 5 {
		return nil, fmt.Errorf("%w: need both width and shift as <width>:<shift>, got %q",
			ErrImputeSpec, s)
	}
	width, _ := strconv.ParseFloat(m[1], 64)
	shift, _ := strconv.ParseFloat(m[3], 64)
	if width <= 0 {
		return nil, fmt.Errorf("%w: width must be > 0, got %g", ErrImputeSpec, width)
	}
	return &prep.Imputation{Width: width, Shift: shift}, nil
}

// parseList splits a comma-separated option value, dropping empty
// entries
func parseList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, `,`) {
		item = strings.TrimSpace(item)
		if item != `` {
			items = append(items, item)
		}
	}
	return items
}

func writeInfo(info prep.Info, par params) error {
	f, err := os.Create(*par.infoFilename)
	if err != nil {
		return err
	}
	defer f.Close()
	e := json.NewEncoder(f)
	e.SetIndent(``, `  `) // Make output easier to read for humans
	return e.Encode(info)
}

func writeTable(t *table.Table, par params) error {
	if *par.outFilename == `` {
		return t.Write(os.Stdout)
	}
	f, err := os.Create(*par.outFilename)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Write(f)
}

// prepParams converts the command line options into the pipeline
// configuration
func prepParams(par params) (prep.Params, error) {
	p := prep.DefaultParams(parseList(*par.bait)...)
	p.ControlLabel = *par.controlLabel
	p.Columns = parseList(*par.columns)
	p.OrganismFilter = *par.organism
	p.PeptideThreshold = *par.peptideMin
	p.IgnoreList = parseList(*par.ignoreList)
	p.FirstColumnName = *par.firstColumnName
	p.Raw = *par.raw

	imp, err := parseImputeSpec(*par.imputeSpec)
	if err != nil {
		return p, err
	}
	p.Impute = imp
	if *par.seed != 0 {
		p.Src = rand.NewSource(*par.seed)
	}
	return p, nil
}

// sanitizeParams does some checks on parameters, and fills missing
// filenames if possible
func sanitizeParams(par *params) {
	exeName := filepath.Base(os.Args[0])

	if len(par.args) != 1 {
		fmt.Fprintf(os.Stderr, `Last argument must be name of the intensity table file.
Type %s --help for usage
`, exeName)
		os.Exit(2)
	}
	tableFile := par.args[0]
	par.tableFilename = &tableFile

	if *par.bait == `` {
		fmt.Fprintf(os.Stderr, `Option -bait is required.
Type %s --help for usage
`, exeName)
		os.Exit(2)
	}
}

func run(par params) {
	p, err := prepParams(par)
	if err != nil {
		log.Fatalf("Invalid parameter 'impute': %v", err)
	}

	t := time.Now()
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "Reading intensity table from %s: ", *par.tableFilename)
	}
	tbl, err := table.ReadFile(*par.tableFilename)
	if err != nil {
		log.Fatalf("table.ReadFile: error return %v", err)
	}
	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		t = time.Now()
		fmt.Fprintf(os.Stderr, "Preparing table (%d rows): ", tbl.NumRows())
	}

	result, err := prep.Run(tbl, p)
	if err != nil {
		log.Fatalf("prep.Run: error return %v", err)
	}

	if par.verbosity == infoVerbose {
		fmt.Fprintf(os.Stderr, "%s\n", time.Since(t))
		fmt.Fprintf(os.Stderr, "Bait columns: %s\n",
			strings.Join(result.Info.Roles.Baits, `, `))
		fmt.Fprintf(os.Stderr, "Control columns: %s\n",
			strings.Join(result.Info.Roles.Controls, `, `))
	}
	if par.verbosity != infoSilent {
		for _, w := range result.Info.Warnings {
			log.Printf("Warning (%s): %s", w.Code, w.Message)
		}
		fmt.Fprintf(os.Stderr, "Rows out: %d, rows removed: %d, cells imputed: %d\n",
			result.Table.NumRows(), result.Info.RowsRemoved, result.Info.ImputedCells)
	}

	if *par.infoFilename != `` {
		if err := writeInfo(result.Info, par); err != nil {
			log.Fatalf("writeInfo: error return %v", err)
		}
	}
	if err := writeTable(result.Table, par); err != nil {
		log.Fatalf("writeTable: error return %v", err)
	}
}

func usage() {
	exeName := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr,
		`USAGE:
  %s [options] <tablefile>

  This program prepares a bait-vs-control intensity table (e.g. an
  affinity-purification MS quantification export, tab/comma separated
  or .xlsx) for interaction scoring. Columns are classified into bait
  and control replicates, intensities are log-transformed and
  median-normalized, low-quality rows are filtered, missing values are
  dropped or imputed, and per-replicate log fold changes are written,
  keyed by gene symbol.

OPTIONS:
`, exeName)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr,
		`
USAGE EXAMPLES:
  %s -bait smad pulldown.txt
    Prepare pulldown.txt using every column whose name contains "smad"
    as a bait replicate and every column containing "mock" as a
    control replicate. Rows with missing values are dropped.

  %s -bait smad -impute 0.3:-1.8 -seed 42 pulldown.txt
    Idem, but impute missing values from a normal distribution with
    width 0.3 sigma, down-shifted by 1.8 sigma, reproducibly.

NOTES:
    Zero intensities are treated as below the detection limit, not as
    measured zeros. Rows matching -ignore bypass the peptide-count and
    organism filters but are still reported.
`, exeName, exeName)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	var par params

	par.bait = flag.String("bait",
		"",
		"comma-separated `label`(s) identifying bait intensity columns (required)")
	par.controlLabel = flag.String("control",
		prep.DefaultControlLabel,
		"`label` identifying control intensity columns")
	par.columns = flag.String("cols",
		"",
		"explicit `columns`"+` to use instead of inferring them from the header.
Comma-separated, in order: accession, bait1, control1, bait2, control2, ...`)
	par.imputeSpec = flag.String("impute",
		"",
		"impute missing values from a down-shifted normal distribution,\nspecified as `width:shift`"+` in units of the column standard deviation
(shift is typically negative, e.g. 0.3:-1.8).
If empty (default), rows with missing values are dropped.`)
	par.organism = flag.String("organism",
		prep.DefaultOrganismFilter,
		"keep only rows whose accession contains this `substring`"+`.
Pass an empty string to disable the organism filter.`)
	par.peptideMin = flag.Int("minpept",
		prep.DefaultPeptideThreshold,
		"minimum unique-peptide `count` for a row to be kept")
	par.ignoreList = flag.String("ignore",
		"",
		"comma-separated accession `substring`(s); matching rows bypass\nthe peptide-count and organism filters")
	par.firstColumnName = flag.String("firstcol",
		prep.DefaultFirstColumnName,
		"`name` of the leading identifier column in the output")
	par.raw = flag.Bool("raw", false,
		`Write the full working table (intensities included) instead of
the identifier + fold-change summary`)
	par.outFilename = flag.String("o",
		"",
		"`filename` of the output table (default stdout)")
	par.infoFilename = flag.String("info",
		"",
		"`filename`"+` for JSON run diagnostics (missing/removed/imputed
counts, resolved column roles, warnings)`)
	par.seed = flag.Uint64("seed", 0,
		`Random seed for imputation. If 0 (default), a time-based seed is
used; fix it to make imputation reproducible.`)
	version := flag.Bool("version", false,
		`Show software version`)
	verbose := flag.Bool("verbose", false,
		`Print more verbose progress information`)
	quiet := flag.Bool("quiet", false,
		`Don't print any output except for errors`)
	flag.Usage = usage
	flag.Parse()
	if *version {
		fmt.Fprintf(os.Stderr, "%s version %s\n", progName, progVersion)
		return
	}
	if *verbose {
		par.verbosity = infoVerbose
	}
	if *quiet {
		par.verbosity = infoSilent
	}
	par.args = flag.Args()

	sanitizeParams(&par)
	run(par)
}
