package pokedex

import "slices"

// Table is an ordered, immutable sequence of rows. The zero value is an
// empty table. Every accessor returns copies so no caller can mutate a table
// another render pass is reading.
type Table struct {
	rows []Row
}

// NewTable creates a table holding a copy of rows in the given order.
func NewTable(rows []Row) *Table {
	return &Table{rows: slices.Clone(rows)}
}

// wrap takes ownership of rows without copying. Only used by constructors
// in this package that build a fresh slice.
func wrap(rows []Row) *Table {
	return &Table{rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.rows)
}

// Row returns the row at index i. It panics if i is out of range, like a
// slice index.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns a copy of all rows in table order.
func (t *Table) Rows() []Row {
	if t == nil {
		return nil
	}

	return slices.Clone(t.rows)
}

// Select returns a new table with the rows for which keep returns true,
// preserving order. The result never aliases t.
func (t *Table) Select(keep func(Row) bool) *Table {
	out := make([]Row, 0, t.Len())

	for i := 0; i < t.Len(); i++ {
		if keep(t.rows[i]) {
			out = append(out, t.rows[i])
		}
	}

	return wrap(out)
}

// Distinct returns the non-empty values of d in first-seen order.
func (t *Table) Distinct(d Dimension) []string {
	seen := make(map[string]bool)
	out := []string{}

	for i := 0; i < t.Len(); i++ {
		v := d.Value(t.rows[i])
		if v == "" || seen[v] {
			continue
		}

		seen[v] = true

		out = append(out, v)
	}

	return out
}
