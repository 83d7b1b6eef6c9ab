package catalog

import (
	"strconv"
	"strings"
)

// Value is a single cell. Null marks a missing value (an empty CSV field).
type Value struct {
	Text string
	Null bool
}

// Text returns a non-null cell holding s.
func Text(s string) Value { return Value{Text: s} }

// NullValue returns a missing cell.
func NullValue() Value { return Value{Null: true} }

// Float parses the cell as a number. Null or malformed cells report false.
func (v Value) Float() (float64, bool) {
	if v.Null {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Table is an ordered set of catalog rows over named columns.
// Row order is meaningful: for ranked results it is the rank order.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable creates an empty table with the given column names.
// Duplicate names keep their first position.
func NewTable(columns ...string) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, ok := t.index[c]; ok {
			continue
		}
		t.index[c] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the named column is present.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Append adds a row. Short rows are padded with nulls and long rows truncated.
func (t *Table) Append(row []Value) {
	r := make([]Value, len(t.columns))
	for i := range r {
		if i < len(row) {
			r[i] = row[i]
		} else {
			r[i] = NullValue()
		}
	}
	t.rows = append(t.rows, r)
}

// AppendMap adds a row from a column->text map; absent keys become null and
// empty strings are stored as null like an empty CSV field.
func (t *Table) AppendMap(m map[string]string) {
	r := make([]Value, len(t.columns))
	for i, c := range t.columns {
		s, ok := m[c]
		if !ok || s == "" {
			r[i] = NullValue()
			continue
		}
		r[i] = Text(s)
	}
	t.rows = append(t.rows, r)
}

// Cell returns the value at row i of the named column.
func (t *Table) Cell(i int, name string) (Value, bool) {
	j, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return Value{}, false
	}
	return t.rows[i][j], true
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.columns))
	copy(out, t.rows[i])
	return out
}

// Column returns every cell of the named column, in row order.
// The second result is false when the column is absent.
func (t *Table) Column(name string) ([]Value, bool) {
	if t == nil {
		return nil, false
	}
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, true
}

// Floats returns the parseable numbers of the named column in row order.
// Null and malformed cells are skipped.
func (t *Table) Floats(name string) ([]float64, bool) {
	vals, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out, true
}

// Select returns a new table holding the given rows, in the given order.
// Out-of-range indices are ignored.
func (t *Table) Select(rows []int) *Table {
	out := NewTable(t.columns...)
	for _, i := range rows {
		if i < 0 || i >= len(t.rows) {
			continue
		}
		out.rows = append(out.rows, t.Row(i))
	}
	return out
}

// Head returns the first n rows. n <= 0 or n >= Len returns every row.
func (t *Table) Head(n int) *Table {
	if n <= 0 || n >= len(t.rows) {
		n = len(t.rows)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Select(idx)
}

// Project returns a table restricted to the named columns that are present,
// in the order given.
func (t *Table) Project(names ...string) *Table {
	var keep []string
	for _, n := range names {
		if t.Has(n) {
			keep = append(keep, n)
		}
	}
	out := NewTable(keep...)
	for _, r := range t.rows {
		row := make([]Value, len(keep))
		for k, n := range keep {
			row[k] = r[t.index[n]]
		}
		out.rows = append(out.rows, row)
	}
	return out
}
