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

package harness

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbinet/npyio/npz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"d7y.io/metaod/benchmark/config"
	"d7y.io/metaod/benchmark/detector"
	"d7y.io/metaod/benchmark/storage"
	"d7y.io/metaod/benchmark/storage/mocks"
	"d7y.io/metaod/internal/dferrors"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/metric"
	"d7y.io/metaod/pkg/table"
	"d7y.io/metaod/pkg/types"
)

// writeDataset stores n samples with d increasing features, the last
// anomalies of which are anomalous.
func writeDataset(t *testing.T, dir, name string, n, d, anomalies int) {
	t.Helper()

	x := mat.NewDense(n, d, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			x.Set(i, j, float64(i*d+j))
		}
		if i >= n-anomalies {
			y[i] = 1
		}
	}

	w, err := npz.Create(filepath.Join(dir, name+dataset.Ext))
	require.NoError(t, err)
	require.NoError(t, w.Write("X", x))
	require.NoError(t, w.Write("y", y))
	require.NoError(t, w.Close())
}

func mockDatasets(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeDataset(t, dir, "cardio", 100, 2, 20)
	writeDataset(t, dir, "wine", 60, 2, 10)
	writeDataset(t, dir, "tiny", 20, 2, 4)
	writeDataset(t, dir, "flat", 80, 2, 0)
	return dir
}

func mockConfig(family string) *config.BenchmarkConfig {
	cfg := config.New().Benchmark
	cfg.Family = family
	cfg.RLAList = []float64{0, 0.5}
	cfg.NLAList = []int{0, 5}
	cfg.Seeds = []int64{1, 2}
	cfg.SamplesThreshold = 50
	return &cfg
}

func newGenerator(dir string, cfg *config.BenchmarkConfig) *dataset.Generator {
	return dataset.New(dir,
		dataset.WithGenerateDuplicates(cfg.GenerateDuplicates),
		dataset.WithSamplesThreshold(cfg.SamplesThreshold),
	)
}

type panicDetector struct{}

func (panicDetector) Fit(*mat.Dense, []float64) error { panic("boom") }

func (panicDetector) Score(*mat.Dense) ([]float64, error) { return nil, nil }

type constantDetector struct{}

func (constantDetector) Fit(*mat.Dense, []float64) error { return nil }

func (constantDetector) Score(x *mat.Dense) ([]float64, error) {
	n, _ := x.Dims()
	return make([]float64, n), nil
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		mock   func(cfg *config.BenchmarkConfig)
		expect func(t *testing.T, h *Harness, err error)
	}{
		{
			name: "all models of the family",
			mock: func(cfg *config.BenchmarkConfig) {},
			expect: func(t *testing.T, h *Harness, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{detector.LRModel, detector.NBModel}, h.models)
			},
		},
		{
			name: "selected models keep family order",
			mock: func(cfg *config.BenchmarkConfig) {
				cfg.Models = []string{detector.NBModel}
			},
			expect: func(t *testing.T, h *Harness, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{detector.NBModel}, h.models)
			},
		},
		{
			name: "unknown family",
			mock: func(cfg *config.BenchmarkConfig) {
				cfg.Family = "reinforce"
			},
			expect: func(t *testing.T, h *Harness, err error) {
				assert := assert.New(t)
				assert.True(errors.Is(err, dferrors.ErrUnknownFamily))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := mockConfig(detector.SuperviseFamily)
			tc.mock(cfg)
			h, err := New(cfg, dataset.New(t.TempDir()), storage.New(t.TempDir(), "SOTA"))
			tc.expect(t, h, err)
		})
	}
}

func TestHarness_DatasetFilter(t *testing.T) {
	dir := mockDatasets(t)

	tests := []struct {
		name   string
		mock   func(cfg *config.BenchmarkConfig)
		expect func(t *testing.T, datasets []string, err error)
	}{
		{
			name: "ratio mode sorted by size",
			mock: func(cfg *config.BenchmarkConfig) {},
			expect: func(t *testing.T, datasets []string, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{"wine", "cardio"}, datasets)
			},
		},
		{
			name: "count mode requires the largest count",
			mock: func(cfg *config.BenchmarkConfig) {
				cfg.LAMode = types.LAModeCount
				cfg.NLAList = []int{0, 10}
			},
			expect: func(t *testing.T, datasets []string, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{"cardio"}, datasets)
			},
		},
		{
			name: "duplicates keep small datasets",
			mock: func(cfg *config.BenchmarkConfig) {
				cfg.GenerateDuplicates = true
			},
			expect: func(t *testing.T, datasets []string, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{"tiny", "wine", "cardio"}, datasets)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := mockConfig(detector.SuperviseFamily)
			tc.mock(cfg)
			h, err := New(cfg, newGenerator(dir, cfg), storage.New(t.TempDir(), "SOTA"))
			require.NoError(t, err)

			datasets, err := h.DatasetFilter(context.Background())
			tc.expect(t, datasets, err)
		})
	}
}

func TestHarness_Experiments(t *testing.T) {
	assert := assert.New(t)
	h, err := New(mockConfig(detector.UnsuperviseFamily), dataset.New(t.TempDir()), storage.New(t.TempDir(), "SOTA"))
	require.NoError(t, err)

	experiments := h.Experiments([]string{"wine", "cardio"})
	assert.Len(experiments, 8)
	assert.Equal(Experiment{Index: 0, Dataset: "wine", LA: dataset.Ratio(0), Seed: 1}, experiments[0])
	assert.Equal("('wine', 0.0, 1)", experiments[0].Key())
	assert.Equal("('wine', 0.5, 2)", experiments[3].Key())
	assert.Equal("('cardio', 0.0, 1)", experiments[4].Key())
	for i, e := range experiments {
		assert.Equal(i, e.Index)
	}
}

func TestHarness_Run(t *testing.T) {
	dir := mockDatasets(t)

	tests := []struct {
		name   string
		family string
		expect func(t *testing.T, results map[string]*table.Table)
	}{
		{
			name:   "failing models leave missing cells",
			family: detector.SuperviseFamily,
			expect: func(t *testing.T, results map[string]*table.Table) {
				assert := assert.New(t)
				for name, tbl := range results {
					assert.Equal([]string{detector.LRModel, detector.NBModel}, tbl.Columns, name)
					assert.Len(tbl.Rows, 8, name)

					for i, row := range tbl.Rows {
						for j := range tbl.Columns {
							// Supervised models cannot fit without labeled anomalies.
							if i%4 < 2 {
								assert.True(tbl.Missing(i, j), row)
							} else {
								assert.False(tbl.Missing(i, j), row)
							}
						}
					}
				}

				aucroc := results[metric.AUCROC]
				for i := 2; i < 4; i++ {
					assert.GreaterOrEqual(aucroc.At(i, 0), 0.0)
					assert.LessOrEqual(aucroc.At(i, 0), 1.0)
				}
			},
		},
		{
			name:   "unsupervised models skip labeled experiments",
			family: detector.UnsuperviseFamily,
			expect: func(t *testing.T, results map[string]*table.Table) {
				assert := assert.New(t)
				tbl := results[metric.AUCPR]
				assert.Equal([]string{detector.IForestModel, detector.HBOSModel, detector.KNNModel}, tbl.Columns)
				for i, row := range tbl.Rows {
					for j := range tbl.Columns {
						assert.Equal(i%4 >= 2, tbl.Missing(i, j), row)
					}
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resultDir := t.TempDir()
			cfg := mockConfig(tc.family)
			s := storage.New(resultDir, cfg.TableSuffix())
			h, err := New(cfg, newGenerator(dir, cfg), s)
			require.NoError(t, err)
			require.NoError(t, h.Run(context.Background()))

			results := make(map[string]*table.Table)
			for _, name := range storage.TableNames {
				tbl, err := table.ReadFile(s.Filename(name))
				require.NoError(t, err)
				results[name] = tbl
			}
			tc.expect(t, results)
		})
	}
}

func TestHarness_RunPersistsEveryEvaluation(t *testing.T) {
	dir := mockDatasets(t)
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	tests := []struct {
		name   string
		mock   func(m *mocks.MockStorageMockRecorder)
		expect func(t *testing.T, err error)
	}{
		{
			name: "write after every evaluation",
			mock: func(m *mocks.MockStorageMockRecorder) {
				m.Filename(gomock.Any()).Return("AUCROC_SOTA_supervise.csv").AnyTimes()
				m.CreateResults(gomock.Any()).Return(nil).Times(16)
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.NoError(err)
			},
		},
		{
			name: "write failure aborts",
			mock: func(m *mocks.MockStorageMockRecorder) {
				m.Filename(gomock.Any()).Return("AUCROC_SOTA_supervise.csv").AnyTimes()
				m.CreateResults(gomock.Any()).Return(errors.New("foo")).Times(1)
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "save results of ('wine', 0.0, 1): foo")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := mocks.NewMockStorage(ctl)
			tc.mock(s.EXPECT())

			cfg := mockConfig(detector.SuperviseFamily)
			h, err := New(cfg, newGenerator(dir, cfg), s)
			require.NoError(t, err)
			tc.expect(t, h.Run(context.Background()))
		})
	}
}

func TestHarness_RunCanceled(t *testing.T) {
	cfg := mockConfig(detector.SuperviseFamily)
	h, err := New(cfg, newGenerator(mockDatasets(t), cfg), storage.New(t.TempDir(), "SOTA"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errors.Is(h.Run(ctx), context.Canceled))
}

func TestEvaluate(t *testing.T) {
	data := &dataset.Data{
		XTrain: mat.NewDense(2, 1, []float64{0, 1}),
		YTrain: []float64{0, 1},
		XTest:  mat.NewDense(2, 1, []float64{0, 1}),
		YTest:  []float64{0, 1},
	}

	tests := []struct {
		name     string
		detector detector.Detector
		expect   func(t *testing.T, result metric.Result, err error)
	}{
		{
			name:     "panic is recovered",
			detector: panicDetector{},
			expect: func(t *testing.T, result metric.Result, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "panic: boom")
			},
		},
		{
			name:     "constant scores",
			detector: constantDetector{},
			expect: func(t *testing.T, result metric.Result, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(0.5, result.AUCROC)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, result, err := evaluate(tc.detector, data)
			tc.expect(t, result, err)
		})
	}
}

func TestHarness_ModelFit(t *testing.T) {
	assert := assert.New(t)
	h, err := New(mockConfig(detector.SuperviseFamily), dataset.New(t.TempDir()), storage.New(t.TempDir(), "SOTA"))
	require.NoError(t, err)

	data := &dataset.Data{
		XTrain: mat.NewDense(4, 1, []float64{0, 1, 2, 3}),
		YTrain: []float64{0, 0, 0, 0},
		XTest:  mat.NewDense(2, 1, []float64{0, 3}),
		YTest:  []float64{0, 1},
	}

	fit, inference, result := h.ModelFit(Experiment{Dataset: "wine", LA: dataset.Ratio(0), Seed: 1}, detector.LRModel, data)
	assert.Nil(fit)
	assert.Nil(inference)
	assert.True(math.IsNaN(result.AUCROC))
	assert.True(math.IsNaN(result.AUCPR))

	data.YTrain = []float64{0, 0, 1, 1}
	fit, inference, result = h.ModelFit(Experiment{Dataset: "wine", LA: dataset.Ratio(1), Seed: 1}, detector.LRModel, data)
	assert.NotNil(fit)
	assert.NotNil(inference)
	assert.Equal(1.0, result.AUCROC)
}
