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
	"bytes"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/sbinet/npyio/npz"
	"github.com/sjwhitworth/golearn/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d7y.io/metaod/pkg/table"
)

const mockPerformance = `,abalone,cardio
"{'loss': 'mse'}",0.7,
"{'loss': 'deviation'}",0.87,0.9
`

func TestStorage_New(t *testing.T) {
	assert := assert.New(t)
	s := New(t.TempDir(), t.TempDir(), Options{})
	assert.Equal(reflect.TypeOf(s).Elem().Name(), "storage")
}

func TestStorage_Performance(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		file    string
		expect  func(t *testing.T, s Storage)
	}{
		{
			name:    "read performance table without suffix",
			options: Options{GridMode: "small", GridSize: 1000},
			file:    "result-AUCPR-test-5-small-1000-GAN-False.csv",
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				tbl, err := s.Performance("AUCPR", TestSplit, 5)
				assert.NoError(err)
				assert.Equal([]string{"abalone", "cardio"}, tbl.Columns)
				assert.Equal(0.87, tbl.At(1, 0))

				cached, err := s.Performance("AUCPR", TestSplit, 5)
				assert.NoError(err)
				assert.Same(tbl, cached)
			},
		},
		{
			name:    "read performance table with suffix",
			options: Options{Suffix: "_v2", GridMode: "large", GridSize: 500, GANSpecific: true},
			file:    "result-AUCROC-train_v2-25-large-500-GAN-True.csv",
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				tbl, err := s.Performance("AUCROC", TrainSplit, 25)
				assert.NoError(err)
				assert.Equal(2, tbl.NumRows())
			},
		},
		{
			name:    "performance table does not exist",
			options: Options{GridMode: "small", GridSize: 1000},
			file:    "result-AUCPR-test-5-small-1000-GAN-False.csv",
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				_, err := s.Performance("AUCPR", TestSplit, 10)
				assert.True(os.IsNotExist(err))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tc.file), []byte(mockPerformance), 0600))
			tc.expect(t, New(dir, t.TempDir(), tc.options))
		})
	}
}

func TestStorage_MetaFeature(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	w, err := npz.Create(filepath.Join(dir, "meta-features-abalone-5-1.npz"))
	require.NoError(t, err)
	require.NoError(t, w.Write("data", []float64{0.5, math.NaN(), 2}))
	require.NoError(t, w.Close())

	s := New(t.TempDir(), dir, Options{})
	metaFeature, err := s.MetaFeature("abalone", 5)
	assert.NoError(err)
	assert.Len(metaFeature, 3)
	assert.Equal(0.5, metaFeature[0])
	assert.True(math.IsNaN(metaFeature[1]))

	metaFeature[0] = 100
	again, err := s.MetaFeature("abalone", 5)
	assert.NoError(err)
	assert.Equal(0.5, again[0])

	_, err = s.MetaFeature("abalone", 10)
	assert.Error(err)
}

func TestStorage_SOTA(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AUCPR-SOTA-supervise.csv"), []byte(",LR,NB\n\"('abalone', 5, 1)\",0.3,0.4\n"), 0600))

	s := New(dir, t.TempDir(), Options{})
	tbl, err := s.SOTA("AUCPR", "supervise")
	assert.NoError(err)
	assert.Equal([]string{"('abalone', 5, 1)"}, tbl.Rows)

	_, err = s.SOTA("AUCPR", "semi-supervise")
	assert.Error(err)
}

func TestStorage_CreateComparison(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	s := New(dir, t.TempDir(), Options{})

	tbl := table.New([]string{"('abalone', 5, 1)"}, []string{"Meta"})
	tbl.Set(0, 0, -1)
	assert.NoError(s.CreateComparison("AUCROC", "twostage", tbl))

	got, err := table.ReadFile(filepath.Join(dir, "AUCROC-meta-twostage.csv"))
	assert.NoError(err)
	assert.Equal(-1.0, got.At(0, 0))
}

func TestStorage_CreateHistory(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	s := New(dir, t.TempDir(), Options{})

	history := []History{{Epoch: 1, Loss: 0.5, Batches: 2, DurationMillis: 10}, {Epoch: 2, Loss: 0.25, Batches: 2, DurationMillis: 9}}
	assert.NoError(s.CreateHistory("end2end", "abalone", history))
	assert.NoError(s.CreateHistory("end2end", "abalone", history[:1]))

	file, err := os.Open(filepath.Join(dir, "meta-history-end2end-abalone.csv"))
	require.NoError(t, err)
	defer file.Close()

	var got []History
	assert.NoError(gocsv.UnmarshalFile(file, &got))
	assert.Equal(history[:1], got)
}

func TestStorage_CreatePool(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	s := New(dir, t.TempDir(), Options{})

	pool := base.NewDenseInstances()
	x := base.NewFloatAttribute("x")
	y := base.NewFloatAttribute("performance")
	specs := []base.AttributeSpec{pool.AddAttribute(x), pool.AddAttribute(y)}
	require.NoError(t, pool.AddClassAttribute(y))
	require.NoError(t, pool.Extend(1))
	pool.Set(specs[0], 0, base.PackFloatToBytes(0.5))
	pool.Set(specs[1], 0, base.PackFloatToBytes(0.87))

	path := filepath.Join(dir, "meta-pool-twostage-abalone.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale,row\n", 8)), 0600))

	assert.NoError(s.CreatePool("twostage", "abalone", pool))
	content, err := os.ReadFile(path)
	assert.NoError(err)
	records, err := gocsv.DefaultCSVReader(bytes.NewReader(content)).ReadAll()
	assert.NoError(err)
	assert.Len(records, 2)
	assert.Equal([]string{"x", "performance"}, records[0])
	assert.NotContains(string(content), "stale")

	entries, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Len(entries, 1)
}
