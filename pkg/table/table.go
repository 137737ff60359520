/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package table implements the labeled float matrices exchanged between the
// benchmark harness and the meta-selector. Missing cells are NaN and are never
// read back as zero.
package table

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")

	// ErrRowNotFound is returned when a labeled row does not exist.
	ErrRowNotFound = errors.New("row not found")
)

// Table is a matrix of float cells keyed by row label and column name.
type Table struct {
	// Index is the header of the row label column.
	Index string

	// Rows holds the row labels in order.
	Rows []string

	// Columns holds the column names in order.
	Columns []string

	values [][]float64
}

// New returns a table with every cell missing.
func New(rows, columns []string) *Table {
	t := &Table{
		Rows:    append([]string(nil), rows...),
		Columns: append([]string(nil), columns...),
		values:  make([][]float64, len(rows)),
	}

	for i := range t.values {
		t.values[i] = make([]float64, len(columns))
		for j := range t.values[i] {
			t.values[i][j] = math.NaN()
		}
	}

	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for j, c := range t.Columns {
		if c == name {
			return j, true
		}
	}

	return -1, false
}

// RowIndex returns the position of the labeled row.
func (t *Table) RowIndex(label string) (int, bool) {
	for i, r := range t.Rows {
		if r == label {
			return i, true
		}
	}

	return -1, false
}

// At returns the cell at row i and column j.
func (t *Table) At(i, j int) float64 {
	return t.values[i][j]
}

// Missing reports whether the cell at row i and column j is missing.
func (t *Table) Missing(i, j int) bool {
	return math.IsNaN(t.values[i][j])
}

// Set stores v at row i and column j.
func (t *Table) Set(i, j int, v float64) {
	t.values[i][j] = v
}

// SetByName stores v in the cell addressed by row label and column name.
func (t *Table) SetByName(row, column string, v float64) error {
	i, ok := t.RowIndex(row)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRowNotFound, row)
	}

	j, ok := t.ColumnIndex(column)
	if !ok {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}

	t.values[i][j] = v
	return nil
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	column := make([]float64, len(t.Rows))
	for i := range t.Rows {
		column[i] = t.values[i][j]
	}

	return column, nil
}

// DropColumn returns a copy of the table without the named column.
func (t *Table) DropColumn(name string) (*Table, error) {
	drop, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	columns := make([]string, 0, len(t.Columns)-1)
	columns = append(columns, t.Columns[:drop]...)
	columns = append(columns, t.Columns[drop+1:]...)

	out := New(t.Rows, columns)
	out.Index = t.Index
	for i := range t.Rows {
		row := out.values[i][:0]
		row = append(row, t.values[i][:drop]...)
		row = append(row, t.values[i][drop+1:]...)
		out.values[i] = row
	}

	return out, nil
}

// SetColumn replaces the named column, appending it when absent.
func (t *Table) SetColumn(name string, values []float64) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d values, table has %d rows", name, len(values), len(t.Rows))
	}

	j, ok := t.ColumnIndex(name)
	if !ok {
		t.Columns = append(t.Columns, name)
		for i := range t.values {
			t.values[i] = append(t.values[i], math.NaN())
		}
		j = len(t.Columns) - 1
	}

	for i, v := range values {
		t.values[i][j] = v
	}

	return nil
}

// InnerJoin merges t and other on row label, keeping the row order of t.
// Columns present in both tables are suffixed with _x and _y.
func (t *Table) InnerJoin(other *Table) *Table {
	shared := make(map[string]bool)
	for _, c := range t.Columns {
		if _, ok := other.ColumnIndex(c); ok {
			shared[c] = true
		}
	}

	columns := make([]string, 0, len(t.Columns)+len(other.Columns))
	for _, c := range t.Columns {
		if shared[c] {
			c += "_x"
		}
		columns = append(columns, c)
	}
	for _, c := range other.Columns {
		if shared[c] {
			c += "_y"
		}
		columns = append(columns, c)
	}

	var rows []string
	for _, r := range t.Rows {
		if _, ok := other.RowIndex(r); ok {
			rows = append(rows, r)
		}
	}

	out := New(rows, columns)
	out.Index = t.Index
	for i, r := range rows {
		left, _ := t.RowIndex(r)
		right, _ := other.RowIndex(r)
		copy(out.values[i], t.values[left])
		copy(out.values[i][len(t.Columns):], other.values[right])
	}

	return out
}
