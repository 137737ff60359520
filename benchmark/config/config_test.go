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

package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"d7y.io/metaod/benchmark/detector"
	"d7y.io/metaod/cmd/dependency/base"
	"d7y.io/metaod/internal/dferrors"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/types"
)

func TestConfig_Load(t *testing.T) {
	config := &Config{
		Options: base.Options{
			Console: true,
			Verbose: false,
		},
		Server: ServerConfig{
			WorkHome:      "/var/lib/metaod",
			LogDir:        "/var/log/metaod",
			ResultDir:     "/var/lib/metaod/result",
			DatasetDir:    "/var/lib/metaod/datasets",
			LogMaxSize:    512,
			LogMaxAge:     5,
			LogMaxBackups: 3,
		},
		Benchmark: BenchmarkConfig{
			Suffix:             "Tuned",
			Family:             detector.SemiSuperviseFamily,
			LAMode:             types.LAModeCount,
			RLAList:            []float64{0, 0.1},
			NLAList:            []int{0, 5, 10},
			Seeds:              []int64{1, 2},
			GenerateDuplicates: true,
			SamplesThreshold:   500,
			TestSize:           0.25,
			MaxSize:            2000,
			Models:             []string{detector.DevNetModel},
		},
		Metrics: MetricsConfig{
			Enable: true,
			Addr:   ":9002",
		},
	}

	benchmarkConfigYAML := &Config{}
	contentYAML, _ := os.ReadFile("./testdata/benchmark.yaml")
	if err := yaml.Unmarshal(contentYAML, &benchmarkConfigYAML); err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.EqualValues(config, benchmarkConfigYAML)
	assert.NoError(benchmarkConfigYAML.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		mock   func(cfg *Config)
		expect func(t *testing.T, err error)
	}{
		{
			name:   "valid config",
			config: New(),
			mock:   func(cfg *Config) {},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.NoError(err)
			},
		},
		{
			name:   "benchmark requires parameter suffix",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.Suffix = ""
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "benchmark requires parameter suffix")
			},
		},
		{
			name:   "unknown family",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.Family = "reinforce"
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.True(errors.Is(err, dferrors.ErrUnknownFamily))
			},
		},
		{
			name:   "model outside family",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.Models = []string{detector.DevNetModel}
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.True(errors.Is(err, detector.ErrUnknownModel))
			},
		},
		{
			name:   "ratio out of range",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.RLAList = []float64{0, 1.5}
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "benchmark rlaList must be in [0, 1]")
			},
		},
		{
			name:   "benchmark requires parameter nlaList",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.LAMode = types.LAModeCount
				cfg.Benchmark.NLAList = nil
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "benchmark requires parameter nlaList")
			},
		},
		{
			name:   "benchmark requires parameter seeds",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.Seeds = nil
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "benchmark requires parameter seeds")
			},
		},
		{
			name:   "invalid test size",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Benchmark.TestSize = 1
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "benchmark testSize must be in (0, 1)")
			},
		},
		{
			name:   "metrics requires parameter addr",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Metrics.Enable = true
				cfg.Metrics.Addr = ""
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "metrics requires parameter addr")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mock(tc.config)
			tc.expect(t, tc.config.Validate())
		})
	}
}

func TestBenchmarkConfig_LAs(t *testing.T) {
	assert := assert.New(t)
	cfg := New().Benchmark
	assert.Equal(dataset.Ratios(DefaultRLAList...), cfg.LAs())
	assert.Equal("SOTA_unsupervise", cfg.TableSuffix())

	cfg.LAMode = types.LAModeCount
	assert.Equal(dataset.Counts(DefaultNLAList...), cfg.LAs())
}
