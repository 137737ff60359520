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
	"fmt"

	"d7y.io/metaod/benchmark/detector"
	"d7y.io/metaod/cmd/dependency/base"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/types"
)

type Config struct {
	// Base options.
	base.Options `yaml:",inline" mapstructure:",squash"`

	// Server configuration.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Benchmark configuration.
	Benchmark BenchmarkConfig `yaml:"benchmark" mapstructure:"benchmark"`

	// Metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type ServerConfig struct {
	// Work home directory.
	WorkHome string `yaml:"workHome" mapstructure:"workHome"`

	// Server log directory.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Result directory receiving the sweep tables.
	ResultDir string `yaml:"resultDir" mapstructure:"resultDir"`

	// Dataset directory holding npz archives.
	DatasetDir string `yaml:"datasetDir" mapstructure:"datasetDir"`

	// Maximum size in megabytes of log files before rotation.
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// Maximum number of days to retain old log files.
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// Maximum number of old log files to keep.
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`
}

type BenchmarkConfig struct {
	// Suffix of result tables, extended with the family name.
	Suffix string `yaml:"suffix" mapstructure:"suffix"`

	// Family is unsupervise, semi-supervise or supervise.
	Family string `yaml:"family" mapstructure:"family"`

	// LAMode sweeps ratios (rla) or counts (nla) of labeled anomalies.
	LAMode types.LAMode `yaml:"laMode" mapstructure:"laMode"`

	// RLAList is the sweep of labeled-anomaly ratios.
	RLAList []float64 `yaml:"rlaList" mapstructure:"rlaList"`

	// NLAList is the sweep of labeled-anomaly counts.
	NLAList []int `yaml:"nlaList" mapstructure:"nlaList"`

	// Seeds is the sweep of seeds.
	Seeds []int64 `yaml:"seeds" mapstructure:"seeds"`

	// GenerateDuplicates resamples datasets smaller than SamplesThreshold
	// instead of dropping them.
	GenerateDuplicates bool `yaml:"generateDuplicates" mapstructure:"generateDuplicates"`

	// SamplesThreshold is the minimum number of dataset samples.
	SamplesThreshold int `yaml:"samplesThreshold" mapstructure:"samplesThreshold"`

	// TestSize is the fraction of samples held out for testing.
	TestSize float64 `yaml:"testSize" mapstructure:"testSize"`

	// MaxSize is the number of samples kept from large datasets.
	MaxSize int `yaml:"maxSize" mapstructure:"maxSize"`

	// Models restricts the family to the named models, all when empty.
	Models []string `yaml:"models" mapstructure:"models"`
}

type MetricsConfig struct {
	// Enable metrics service.
	Enable bool `yaml:"enable" mapstructure:"enable"`

	// Metrics service address.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// New default configuration.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			LogMaxSize:    DefaultLogRotateMaxSize,
			LogMaxAge:     DefaultLogRotateMaxAge,
			LogMaxBackups: DefaultLogRotateMaxBackups,
		},
		Benchmark: BenchmarkConfig{
			Suffix:           DefaultSuffix,
			Family:           DefaultFamily,
			LAMode:           types.LAModeRatio,
			RLAList:          DefaultRLAList,
			NLAList:          DefaultNLAList,
			Seeds:            DefaultSeeds,
			SamplesThreshold: DefaultSamplesThreshold,
			TestSize:         DefaultTestSize,
			MaxSize:          DefaultMaxSize,
		},
		Metrics: MetricsConfig{
			Enable: false,
			Addr:   DefaultMetricsAddr,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Benchmark.Suffix == "" {
		return errors.New("benchmark requires parameter suffix")
	}

	family, err := detector.NewFamily(cfg.Benchmark.Family)
	if err != nil {
		return err
	}

	for _, model := range cfg.Benchmark.Models {
		if _, err := family.New(model, 0); err != nil {
			return fmt.Errorf("benchmark model: %w", err)
		}
	}

	switch cfg.Benchmark.LAMode {
	case types.LAModeRatio:
		if len(cfg.Benchmark.RLAList) == 0 {
			return errors.New("benchmark requires parameter rlaList")
		}

		for _, r := range cfg.Benchmark.RLAList {
			if r < 0 || r > 1 {
				return errors.New("benchmark rlaList must be in [0, 1]")
			}
		}
	case types.LAModeCount:
		if len(cfg.Benchmark.NLAList) == 0 {
			return errors.New("benchmark requires parameter nlaList")
		}

		for _, n := range cfg.Benchmark.NLAList {
			if n < 0 {
				return errors.New("benchmark nlaList must not be negative")
			}
		}
	default:
		return errors.New("benchmark laMode must be rla or nla")
	}

	if len(cfg.Benchmark.Seeds) == 0 {
		return errors.New("benchmark requires parameter seeds")
	}

	if cfg.Benchmark.SamplesThreshold < 0 {
		return errors.New("benchmark samplesThreshold must not be negative")
	}

	if cfg.Benchmark.TestSize <= 0 || cfg.Benchmark.TestSize >= 1 {
		return errors.New("benchmark testSize must be in (0, 1)")
	}

	if cfg.Metrics.Enable {
		if cfg.Metrics.Addr == "" {
			return errors.New("metrics requires parameter addr")
		}
	}

	return nil
}

// Convert fills parameters derived from others.
func (cfg *Config) Convert() error {
	if cfg.Benchmark.MaxSize < 0 {
		cfg.Benchmark.MaxSize = 0
	}

	return nil
}

// LAs returns the labeled-anomaly sweep of the configured mode.
func (cfg *BenchmarkConfig) LAs() []dataset.LA {
	if cfg.LAMode == types.LAModeCount {
		return dataset.Counts(cfg.NLAList...)
	}

	return dataset.Ratios(cfg.RLAList...)
}

// TableSuffix returns the suffix of result tables, such as SOTA_unsupervise.
func (cfg *BenchmarkConfig) TableSuffix() string {
	return cfg.Suffix + "_" + cfg.Family
}
