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

package table

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Read parses a CSV table whose first column holds the row labels.
func Read(r io.Reader) (*Table, error) {
	records, err := gocsv.DefaultCSVReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, errors.New("empty csv file given")
	}

	header := records[0]
	if len(header) == 0 {
		return nil, errors.New("csv header has no columns")
	}

	rows := make([]string, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, record[0])
	}

	t := New(rows, header[1:])
	t.Index = header[0]
	for i, record := range records[1:] {
		for j, cell := range record[1:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %q column %q: %w", record[0], header[j+1], err)
			}
			t.values[i][j] = v
		}
	}

	return t, nil
}

// ReadFile parses the CSV table stored at path.
func ReadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}

	return t, nil
}

// Write renders the table as CSV, missing cells as empty fields.
func (t *Table) Write(w io.Writer) error {
	writer := gocsv.DefaultCSVWriter(w)

	header := append([]string{t.Index}, t.Columns...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(t.Columns)+1)
	for i, label := range t.Rows {
		record[0] = label
		for j, v := range t.values[i] {
			record[j+1] = formatCell(v)
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile replaces the file at path with the rendered table. The content is
// written to a temporary file first so a crash never leaves a torn table.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(file.Name())

	if err := t.Write(file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(file.Name(), path)
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "none", "null":
		return math.NaN(), nil
	}

	return strconv.ParseFloat(cell, 64)
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}
