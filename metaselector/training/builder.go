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

package training

import (
	"errors"
	"fmt"
	"math"

	"d7y.io/metaod/internal/dferrors"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/metaselector/encoding"
	"d7y.io/metaod/metaselector/storage"
	"d7y.io/metaod/pkg/table"
)

// DefaultCandidateLAs are the labeled-anomaly counts pooled for training.
var DefaultCandidateLAs = []int{5, 10, 25, 50}

// Builder assembles the training pool of a held-out dataset from the test
// performance tables of every candidate la.
type Builder struct {
	storage    storage.Storage
	metric     string
	candidates []int
}

// NewBuilder returns a builder reading tables of metric.
func NewBuilder(s storage.Storage, metric string, candidates []int) *Builder {
	return &Builder{
		storage:    s,
		metric:     metric,
		candidates: candidates,
	}
}

// Build returns the pool of examples of every dataset except target.
func (b *Builder) Build(target string) (*Pool, error) {
	pool := &Pool{
		Target:    target,
		Encodings: make(map[int]*encoding.Encoding, len(b.candidates)),
	}

	for _, la := range b.candidates {
		result, err := b.storage.Performance(b.metric, storage.TestSplit, la)
		if err != nil {
			return nil, err
		}

		result, err = result.DropColumn(target)
		if err != nil {
			if errors.Is(err, table.ErrColumnNotFound) {
				return nil, dferrors.Newf(dferrors.ErrDatasetNotFound, "dataset %s in %s table of la %d", target, b.metric, la)
			}
			return nil, err
		}

		// Codes of different la tables are not comparable, so every table
		// gets its own encoding.
		enc, codes, err := encoding.Encode(result.Rows)
		if err != nil {
			return nil, fmt.Errorf("encode la %d: %w", la, err)
		}

		if pool.layout == nil {
			pool.layout = enc
			pool.Cardinalities = make([]int, len(enc.Names()))
		} else if !enc.SameLayout(pool.layout) {
			return nil, dferrors.Newf(dferrors.ErrSlotLayout, "la %d encodes %v, la %d encodes %v", la, enc.Names(), b.candidates[0], pool.layout.Names())
		}
		pool.Encodings[la] = enc

		// Configurations observed only on the held-out dataset still get an
		// embedding row, so they stay selectable at inference.
		for k, n := range enc.Cardinalities() {
			if n > pool.Cardinalities[k] {
				pool.Cardinalities[k] = n
			}
		}

		for i := range result.Rows {
			for j, name := range result.Columns {
				if result.Missing(i, j) {
					continue
				}

				metaFeature, err := b.storage.MetaFeature(name, la)
				if err != nil {
					return nil, err
				}

				pool.Examples = append(pool.Examples, Example{
					Dataset:     name,
					MetaFeature: FillNaN(metaFeature),
					LA:          la,
					Components:  codes[i],
					Performance: result.At(i, j),
				})
			}
		}

		logger.Debugf("pooled %s table of la %d with %d configurations", b.metric, la, result.NumRows())
	}

	if len(pool.Examples) == 0 {
		return nil, fmt.Errorf("no training examples for held-out dataset %s", target)
	}

	return pool, nil
}

// FillNaN returns a copy of v with NaN replaced by 0.
func FillNaN(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if !math.IsNaN(x) {
			out[i] = x
		}
	}

	return out
}
