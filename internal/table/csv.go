package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV parses a headered CSV stream into a table. The idColumn cell of
// each record becomes the row key; every other cell is stored as a numeric
// value when it parses as a float, as a label otherwise, and skipped when
// empty (missing, not zero).
func ReadCSV(r io.Reader, idColumn string) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idIdx := -1
	for i, col := range header {
		if col == idColumn {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("csv header missing id column %q", idColumn)
	}

	var cols []string
	for i, col := range header {
		if i != idIdx {
			cols = append(cols, col)
		}
	}
	t := New(cols...)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		id, err := strconv.ParseInt(record[idIdx], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id column %q: %w", record[idIdx], err)
		}

		row := Row{ID: id, Labels: map[string]string{}, Values: map[string]float64{}}
		for i, cell := range record {
			if i == idIdx || cell == "" {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				row.Values[header[i]] = v
			} else {
				row.Labels[header[i]] = cell
			}
		}
		t.Append(row)
	}

	return t, nil
}

// WriteCSV writes the table as a headered CSV stream, id column first and
// the remaining columns in registration order. Missing values are written
// as empty cells.
func WriteCSV(w io.Writer, t *Table, idColumn string) error {
	cw := csv.NewWriter(w)

	header := append([]string{idColumn}, t.Columns()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range t.Rows() {
		record := make([]string, 0, len(header))
		record = append(record, strconv.FormatInt(r.ID, 10))
		for _, col := range t.Columns() {
			if v, ok := r.Values[col]; ok {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			} else if s, ok := r.Labels[col]; ok {
				record = append(record, s)
			} else {
				record = append(record, "")
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
