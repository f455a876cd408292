package table

import (
	"errors"
	"math"
)

// Missing is the sentinel for intensity measurements below the
// detection limit. It is distinct from a true zero and from a cell
// that was never present in the input.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-measurement sentinel.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

var (
	// ErrNoSuchColumn means a column name is not present in the table
	ErrNoSuchColumn = errors.New("table: no such column")
	// ErrDuplicateColumn means a column name occurs more than once
	ErrDuplicateColumn = errors.New("table: duplicate column name")
	// ErrColumnLength means a column does not match the table row count
	ErrColumnLength = errors.New("table: column length mismatch")
	// ErrNotNumeric means a numeric operation was requested on a text column
	ErrNotNumeric = errors.New("table: column is not numeric")
	// ErrNotText means a text operation was requested on a numeric column
	ErrNotText = errors.New("table: column is not text")
)

// Column is a single named column. Exactly one of Text and Values
// is non-nil: Text for string columns, Values for intensity/count
// columns (with Missing marking absent measurements).
type Column struct {
	Name   string
	Text   []string
	Values []float64
}

// IsNumeric reports whether the column holds float values.
func (c *Column) IsNumeric() bool {
	return c.Values != nil
}

func (c *Column) len() int {
	if c.Values != nil {
		return len(c.Values)
	}
	return len(c.Text)
}

// Table is an ordered collection of equal-length named columns.
// Rows are only ever removed, never reordered or duplicated.
type Table struct {
	cols  []Column
	index map[string]int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Col returns the column with the given name.
func (t *Table) Col(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, ErrNoSuchColumn
	}
	return &t.cols[i], nil
}

// Numeric returns the float values of the named column.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	if !c.IsNumeric() {
		return nil, ErrNotNumeric
	}
	return c.Values, nil
}

// Strings returns the text cells of the named column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.Col(name)
	if err != nil {
		return nil, err
	}
	if c.IsNumeric() {
		return nil, ErrNotText
	}
	return c.Text, nil
}

func (t *Table) append(c Column) error {
	if _, ok := t.index[c.Name]; ok {
		return ErrDuplicateColumn
	}
	if len(t.cols) > 0 && c.len() != t.NumRows() {
		return ErrColumnLength
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AppendText adds a string column at the end of the table.
func (t *Table) AppendText(name string, cells []string) error {
	return t.append(Column{Name: name, Text: cells})
}

// AppendNumeric adds a float column at the end of the table.
func (t *Table) AppendNumeric(name string, values []float64) error {
	return t.append(Column{Name: name, Values: values})
}

// Rename changes the name of a column in place.
func (t *Table) Rename(old, new string) error {
	i, ok := t.index[old]
	if !ok {
		return ErrNoSuchColumn
	}
	if old == new {
		return nil
	}
	if _, ok := t.index[new]; ok {
		return ErrDuplicateColumn
	}
	delete(t.index, old)
	t.index[new] = i
	t.cols[i].Name = new
	return nil
}

// Keep removes all rows for which keep is false, across every column,
// preserving row order. len(keep) must equal the row count.
func (t *Table) Keep(keep []bool) error {
	if len(keep) != t.NumRows() {
		return ErrColumnLength
	}
	for i := range t.cols {
		c := &t.cols[i]
		if c.IsNumeric() {
			k := 0
			for j, v := range c.Values {
				if keep[j] {
					c.Values[k] = v
					k++
				}
			}
			c.Values = c.Values[:k]
		} else {
			k := 0
			for j, s := range c.Text {
				if keep[j] {
					c.Text[k] = s
					k++
				}
			}
			c.Text = c.Text[:k]
		}
	}
	return nil
}

// Select returns a new table holding the named columns, in the given
// order. Column data is shared with the receiver, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	sel := New()
	for _, name := range names {
		c, err := t.Col(name)
		if err != nil {
			return nil, err
		}
		if err := sel.append(*c); err != nil {
			return nil, err
		}
	}
	return sel, nil
}
