package table

import (
	"bufio"
	"io"
	"strconv"
)

// Write writes the table as tab-separated text. Missing values are
// written as NA so a written table reads back identically.
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, c := range t.cols {
		if i > 0 {
			if err := bw.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(c.Name); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	for row := 0; row < t.NumRows(); row++ {
		for i := range t.cols {
			if i > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return err
				}
			}
			c := &t.cols[i]
			var cell string
			if c.IsNumeric() {
				v := c.Values[row]
				if IsMissing(v) {
					cell = `NA`
				} else {
					cell = strconv.FormatFloat(v, 'g', -1, 64)
				}
			} else {
				cell = c.Text[row]
			}
			if _, err := bw.WriteString(cell); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
