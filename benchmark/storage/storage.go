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

//go:generate mockgen -destination mocks/storage_mock.go -source storage.go -package mocks

package storage

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"d7y.io/metaod/pkg/metric"
	"d7y.io/metaod/pkg/table"
)

const (
	// FitTimeTable is the name of the fit duration table.
	FitTimeTable = "Time(fit)"

	// InferenceTimeTable is the name of the inference duration table.
	InferenceTimeTable = "Time(inference)"

	// CSVFileExt is extension of table file name.
	CSVFileExt = "csv"
)

// TableNames lists the result tables in the order they are written.
var TableNames = []string{metric.AUCROC, metric.AUCPR, FitTimeTable, InferenceTimeTable}

// Results holds the four tables of one sweep, rows keyed by experiment and
// columns by model.
type Results struct {
	AUCROC        *table.Table
	AUCPR         *table.Table
	FitTime       *table.Table
	InferenceTime *table.Table
}

// NewResults returns results with every cell missing.
func NewResults(rows, models []string) *Results {
	return &Results{
		AUCROC:        table.New(rows, models),
		AUCPR:         table.New(rows, models),
		FitTime:       table.New(rows, models),
		InferenceTime: table.New(rows, models),
	}
}

// Record stores one model evaluation. Nil durations stay missing.
func (r *Results) Record(row, model int, fit, inference *time.Duration, result metric.Result) {
	r.AUCROC.Set(row, model, result.AUCROC)
	r.AUCPR.Set(row, model, result.AUCPR)
	r.FitTime.Set(row, model, seconds(fit))
	r.InferenceTime.Set(row, model, seconds(inference))
}

// Tables returns the tables by name.
func (r *Results) Tables() map[string]*table.Table {
	return map[string]*table.Table{
		metric.AUCROC:      r.AUCROC,
		metric.AUCPR:       r.AUCPR,
		FitTimeTable:       r.FitTime,
		InferenceTimeTable: r.InferenceTime,
	}
}

func seconds(d *time.Duration) float64 {
	if d == nil {
		return math.NaN()
	}

	return d.Seconds()
}

// Storage is the interface used for storage.
type Storage interface {
	// CreateResults replaces the four result tables.
	CreateResults(r *Results) error

	// Filename returns the file name of the named result table.
	Filename(name string) string
}

type storage struct {
	resultDir string
	suffix    string
}

// New returns a new Storage instance writing tables named <name>_<suffix>.csv.
func New(resultDir, suffix string) Storage {
	return &storage{
		resultDir: resultDir,
		suffix:    suffix,
	}
}

// CreateResults replaces the four result tables. Every table is written
// atomically, a failure of one table does not prevent writing the others.
func (s *storage) CreateResults(r *Results) error {
	var errs *multierror.Error
	tables := r.Tables()
	for _, name := range TableNames {
		if err := tables[name].WriteFile(s.Filename(name)); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("write %s: %w", name, err))
		}
	}

	return errs.ErrorOrNil()
}

// Filename generates result table file name, such as
// AUCROC_SOTA_unsupervise.csv.
func (s *storage) Filename(name string) string {
	return filepath.Join(s.resultDir, fmt.Sprintf("%s_%s.%s", name, s.suffix, CSVFileExt))
}
