package dataset

import (
	"fmt"
)

// Row is one table row together with its original position in the source
// data. The index survives filtering so defect messages can cite the row the
// user actually loaded.
type Row struct {
	Index int
	Cells []Value
}

// Table is an in-memory table of named columns over typed cells. All columns
// have equal length. Tables are treated as immutable by consumers: every
// transforming method returns a new Table and leaves the receiver untouched.
type Table struct {
	cols     []string
	colIndex map[string]int
	rows     []Row
	nextIdx  int
}

// New creates an empty table with the given column names.
func New(columns []string) *Table {
	t := &Table{
		cols:     append([]string(nil), columns...),
		colIndex: make(map[string]int, len(columns)),
	}
	for i, c := range t.cols {
		t.colIndex[c] = i
	}
	return t
}

// AppendRow adds a row of cells in column order. The row receives the next
// sequential original index.
func (t *Table) AppendRow(cells ...Value) error {
	if len(cells) != len(t.cols) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.cols))
	}
	t.rows = append(t.rows, Row{Index: t.nextIdx, Cells: append([]Value(nil), cells...)})
	t.nextIdx++
	return nil
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.cols) }

// Row returns the row at position i (not original index).
func (t *Table) Row(i int) Row { return t.rows[i] }

// Cell returns the cell at row position i in the named column.
func (t *Table) Cell(i int, column string) (Value, bool) {
	ci, ok := t.colIndex[column]
	if !ok || i < 0 || i >= len(t.rows) {
		return Value{}, false
	}
	return t.rows[i].Cells[ci], true
}

// Column returns the cells of the named column in row order.
func (t *Table) Column(name string) ([]Value, bool) {
	ci, ok := t.colIndex[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Cells[ci]
	}
	return out, true
}

// WithColumn returns a copy of the table with the named column's cells
// replaced. The replacement must have one cell per row.
func (t *Table) WithColumn(name string, cells []Value) (*Table, error) {
	ci, ok := t.colIndex[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found in data", name)
	}
	if len(cells) != len(t.rows) {
		return nil, fmt.Errorf("column %q replacement has %d cells, table has %d rows", name, len(cells), len(t.rows))
	}
	out := t.shell()
	out.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		row := Row{Index: r.Index, Cells: append([]Value(nil), r.Cells...)}
		row.Cells[ci] = cells[i]
		out.rows[i] = row
	}
	return out, nil
}

// Filter returns a copy containing only the rows at positions for which keep
// returns true. Original row indices are preserved, not renumbered.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := t.shell()
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Head returns a copy containing at most n leading rows.
func (t *Table) Head(n int) *Table {
	out := t.shell()
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out.rows = append(out.rows, t.rows[:n]...)
	return out
}

// shell copies the schema and index bookkeeping but no rows. Shared Row cell
// slices are never mutated after construction, so shallow row reuse in Filter
// and Head is safe.
func (t *Table) shell() *Table {
	out := &Table{
		cols:     t.cols,
		colIndex: t.colIndex,
		nextIdx:  t.nextIdx,
	}
	return out
}
