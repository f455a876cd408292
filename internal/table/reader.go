package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"
)

// Tokens that mark a missing measurement in the input.
// A literal 0 is NOT missing at this point, it is reinterpreted
// later in the pipeline.
var missingTokens = map[string]bool{
	``:    true,
	`NA`:  true,
	`N/A`: true,
	`NaN`: true,
	`nan`: true,
}

// Read reads a delimited table from an io.Reader. The character set
// is sniffed (quantification software regularly emits UTF-16 or
// Latin-1 exports), as is the delimiter: tab, comma or semicolon,
// whichever occurs most often in the header line.
func Read(reader io.Reader) (*Table, error) {
	r, err := charset.NewReader(bufio.NewReader(reader), ``)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if len(head) == 0 && err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(head)
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRecords(records)
}

// ReadFile reads a table from a file path, dispatching on the
// extension: .xlsx is read as a spreadsheet, anything else as
// delimited text.
func ReadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), `.xlsx`) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadXLSX(f)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// ReadXLSX reads the first sheet of an xlsx workbook as a table.
func ReadXLSX(r io.Reader) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return fromRecords(rows)
}

// sniffDelimiter picks the delimiter that occurs most often in the
// first line of the input. Tab wins ties, being the common case for
// quantification exports.
func sniffDelimiter(head []byte) rune {
	line := string(head)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	best := '\t'
	bestCount := strings.Count(line, "\t")
	for _, d := range []rune{',', ';'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// fromRecords builds a table from a header row plus data rows.
// A column is numeric when every non-missing cell parses as a float;
// otherwise it is kept as text.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("table: input is empty")
	}
	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	rows := records[1:]

	t := New()
	for j, name := range header {
		name = strings.TrimSpace(name)
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}
		numeric := true
		for _, cell := range cells {
			if missingTokens[cell] {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
				break
			}
		}
		var err error
		if numeric && len(cells) > 0 {
			values := make([]float64, len(cells))
			for i, cell := range cells {
				if missingTokens[cell] {
					values[i] = Missing
				} else {
					values[i], _ = strconv.ParseFloat(cell, 64)
				}
			}
			err = t.AppendNumeric(name, values)
		} else {
			err = t.AppendText(name, cells)
		}
		if err != nil {
			return nil, fmt.Errorf("table: column %q: %w", name, err)
		}
	}
	return t, nil
}
