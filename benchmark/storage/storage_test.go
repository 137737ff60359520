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

package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d7y.io/metaod/pkg/metric"
	"d7y.io/metaod/pkg/table"
)

var (
	mockRows   = []string{"('cardio', 0.0, 1)", "('cardio', 0.0, 2)"}
	mockModels = []string{"IForest", "HBOS"}
)

func TestStorage_Filename(t *testing.T) {
	s := New("result", "SOTA_unsupervise")
	assert.Equal(t, filepath.Join("result", "Time(inference)_SOTA_unsupervise.csv"), s.Filename(InferenceTimeTable))
}

func TestStorage_CreateResults(t *testing.T) {
	tests := []struct {
		name   string
		mock   func(r *Results)
		expect func(t *testing.T, dir string, err error)
	}{
		{
			name: "record one evaluation",
			mock: func(r *Results) {
				fit, inference := 1500*time.Millisecond, 250*time.Millisecond
				r.Record(1, 0, &fit, &inference, metric.Result{AUCROC: 0.9, AUCPR: 0.4})
			},
			expect: func(t *testing.T, dir string, err error) {
				assert := assert.New(t)
				require.NoError(t, err)

				expected := map[string]float64{
					metric.AUCROC:      0.9,
					metric.AUCPR:       0.4,
					FitTimeTable:       1.5,
					InferenceTimeTable: 0.25,
				}
				for name, v := range expected {
					tbl, err := table.ReadFile(filepath.Join(dir, name+"_SOTA_unsupervise.csv"))
					require.NoError(t, err)
					assert.Equal(mockRows, tbl.Rows)
					assert.Equal(mockModels, tbl.Columns)
					assert.Equal(v, tbl.At(1, 0))
					assert.True(tbl.Missing(0, 0))
					assert.True(tbl.Missing(1, 1))
				}
			},
		},
		{
			name: "failed evaluation stays missing",
			mock: func(r *Results) {
				r.Record(0, 1, nil, nil, metric.NaN())
			},
			expect: func(t *testing.T, dir string, err error) {
				assert := assert.New(t)
				require.NoError(t, err)

				for _, name := range TableNames {
					tbl, err := table.ReadFile(filepath.Join(dir, name+"_SOTA_unsupervise.csv"))
					require.NoError(t, err)
					assert.True(math.IsNaN(tbl.At(0, 1)))
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			r := NewResults(mockRows, mockModels)
			tc.mock(r)
			tc.expect(t, dir, New(dir, "SOTA_unsupervise").CreateResults(r))
		})
	}
}

func TestStorage_CreateResultsReplaces(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	s := New(dir, "SOTA_supervise")
	r := NewResults(mockRows, mockModels)

	require.NoError(t, s.CreateResults(r))
	r.Record(0, 0, nil, nil, metric.Result{AUCROC: 0.7, AUCPR: 0.2})
	require.NoError(t, s.CreateResults(r))

	tbl, err := table.ReadFile(s.Filename(metric.AUCROC))
	require.NoError(t, err)
	assert.Equal(0.7, tbl.At(0, 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(entries, len(TableNames))
}
