// Package table implements the ordered entity table flowing through the
// pipeline: one row per municipality, each holding numeric attribute
// values (missing values are absent, not zero) and string labels.
package table

import (
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Row is one entity of the table, keyed by a stable municipality id.
type Row struct {
	ID     int64
	Labels map[string]string
	Values map[string]float64
}

// Table is an ordered sequence of rows. Row order is preserved by every
// operation; it is the contract the index output relies on.
type Table struct {
	columns []string
	rows    []Row
}

// New returns an empty table. Columns may be pre-registered to fix their
// order; unseen columns are registered as rows are appended.
func New(columns ...string) *Table {
	t := &Table{}
	t.columns = append(t.columns, columns...)
	return t
}

// Append adds a row at the end of the table, registering any new columns
// in first-seen order. Several new columns introduced by the same row are
// registered in sorted order so column order does not depend on map
// iteration.
func (t *Table) Append(r Row) {
	var unseen []string
	for col := range r.Values {
		if !slices.Contains(t.columns, col) {
			unseen = append(unseen, col)
		}
	}
	for col := range r.Labels {
		if !slices.Contains(t.columns, col) {
			unseen = append(unseen, col)
		}
	}
	slices.Sort(unseen)
	t.columns = append(t.columns, unseen...)
	t.rows = append(t.rows, r)
}

// Len returns the row count.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in insertion order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Columns returns all registered column names in registration order.
func (t *Table) Columns() []string {
	return t.columns
}

// NumericColumns returns the columns whose values are uniformly numeric
// across the table: a column qualifies when no row holds it as a label.
// Missing values do not disqualify a column.
func (t *Table) NumericColumns() []string {
	var numeric []string
	for _, col := range t.columns {
		isLabel := false
		for _, r := range t.rows {
			if _, ok := r.Labels[col]; ok {
				isLabel = true
				break
			}
		}
		if !isLabel {
			numeric = append(numeric, col)
		}
	}
	return numeric
}

// Matrix builds the dense numeric matrix of the table restricted to the
// given feature columns, one row per table row in table order. Missing
// values are filled with 0. Returns nil when either dimension is empty,
// as gonum rejects zero-sized matrices.
func (t *Table) Matrix(features []string) *mat.Dense {
	if len(t.rows) == 0 || len(features) == 0 {
		return nil
	}
	m := mat.NewDense(len(t.rows), len(features), nil)
	for i, r := range t.rows {
		for j, col := range features {
			if v, ok := r.Values[col]; ok {
				m.Set(i, j, v)
			}
		}
	}
	return m
}
