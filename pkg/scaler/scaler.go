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

// Package scaler implements min-max feature scaling. A scaler is fitted once
// and never changes afterwards, so the transform fitted on training data is
// the one applied at inference time.
package scaler

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"
)

// ErrEmpty is returned when fitting on no samples.
var ErrEmpty = errors.New("no samples to fit")

// MinMax rescales every feature to [0, 1] using the range seen at fit time.
type MinMax struct {
	min   []float64
	scale []float64
}

// Fit computes the per-feature range of rows.
func Fit(rows [][]float64) (*MinMax, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	width := len(rows[0])
	s := &MinMax{
		min:   make([]float64, width),
		scale: make([]float64, width),
	}

	column := make([]float64, len(rows))
	for j := 0; j < width; j++ {
		for i, row := range rows {
			if len(row) != width {
				return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
			}
			column[i] = row[j]
		}

		lo, err := stats.Min(column)
		if err != nil {
			return nil, err
		}

		hi, err := stats.Max(column)
		if err != nil {
			return nil, err
		}

		s.min[j] = lo
		s.scale[j] = 1
		if hi > lo {
			s.scale[j] = 1 / (hi - lo)
		}
	}

	return s, nil
}

// FitValues fits a single-feature scaler.
func FitValues(values []float64) (*MinMax, error) {
	rows := make([][]float64, len(values))
	for i, v := range values {
		rows[i] = []float64{v}
	}

	return Fit(rows)
}

// Width returns the number of features.
func (s *MinMax) Width() int {
	return len(s.min)
}

// Transform returns the scaled copy of row.
func (s *MinMax) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.min[j]) * s.scale[j]
	}

	return out
}

// TransformValue scales v with the first feature's range.
func (s *MinMax) TransformValue(v float64) float64 {
	return (v - s.min[0]) * s.scale[0]
}

// InverseTransform undoes Transform.
func (s *MinMax) InverseTransform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v/s.scale[j] + s.min[j]
	}

	return out
}
