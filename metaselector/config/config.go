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
	"slices"

	"d7y.io/metaod/cmd/dependency/base"
	"d7y.io/metaod/internal/dferrors"
	"d7y.io/metaod/metaselector/training"
	"d7y.io/metaod/pkg/metric"
)

type Config struct {
	// Base options.
	base.Options `yaml:",inline" mapstructure:",squash"`

	// Server configuration.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Meta configuration.
	Meta MetaConfig `yaml:"meta" mapstructure:"meta"`

	// Training configuration.
	Training training.Config `yaml:"training" mapstructure:"training"`

	// Metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type ServerConfig struct {
	// Work home directory.
	WorkHome string `yaml:"workHome" mapstructure:"workHome"`

	// Server log directory.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Result directory holding performance tables.
	ResultDir string `yaml:"resultDir" mapstructure:"resultDir"`

	// Dataset directory holding npz archives and meta-features.
	DatasetDir string `yaml:"datasetDir" mapstructure:"datasetDir"`

	// Maximum size in megabytes of log files before rotation.
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// Maximum number of days to retain old log files.
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// Maximum number of old log files to keep.
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`
}

type MetaConfig struct {
	// Mode is two-stage or end-to-end.
	Mode string `yaml:"mode" mapstructure:"mode"`

	// Metrics are the compared metrics.
	Metrics []string `yaml:"metrics" mapstructure:"metrics"`

	// CandidateLAs are the la values pooled for training.
	CandidateLAs []int `yaml:"candidateLAs" mapstructure:"candidateLAs"`

	// Suffix of performance table names.
	Suffix string `yaml:"suffix" mapstructure:"suffix"`

	// GridMode of performance table names.
	GridMode string `yaml:"gridMode" mapstructure:"gridMode"`

	// GridSize of performance table names.
	GridSize int `yaml:"gridSize" mapstructure:"gridSize"`

	// GANSpecific of performance table names.
	GANSpecific bool `yaml:"ganSpecific" mapstructure:"ganSpecific"`

	// ExportPool writes the training pool of every held-out dataset.
	ExportPool bool `yaml:"exportPool" mapstructure:"exportPool"`

	// Seed of the random selection baseline.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
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
		Meta: MetaConfig{
			Mode:         DefaultMode,
			Metrics:      DefaultMetrics,
			CandidateLAs: training.DefaultCandidateLAs,
			GridMode:     DefaultGridMode,
			GridSize:     DefaultGridSize,
			Seed:         DefaultSelectionSeed,
		},
		Training: training.DefaultConfig(),
		Metrics: MetricsConfig{
			Enable: false,
			Addr:   DefaultMetricsAddr,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Meta.Mode != training.TwoStageMode && cfg.Meta.Mode != training.End2EndMode {
		return dferrors.Newf(dferrors.ErrUnknownMode, "meta requires parameter mode, got %q", cfg.Meta.Mode)
	}

	if len(cfg.Meta.Metrics) == 0 {
		return errors.New("meta requires parameter metrics")
	}

	for _, m := range cfg.Meta.Metrics {
		if !slices.Contains(metric.Names, m) {
			return fmt.Errorf("meta metric %q must be one of %v", m, metric.Names)
		}
	}

	if len(cfg.Meta.CandidateLAs) == 0 {
		return errors.New("meta requires parameter candidateLAs")
	}

	for _, la := range cfg.Meta.CandidateLAs {
		if la <= 0 {
			return errors.New("meta candidateLAs must be positive")
		}
	}

	if cfg.Meta.GridMode == "" {
		return errors.New("meta requires parameter gridMode")
	}

	if cfg.Meta.GridSize <= 0 {
		return errors.New("meta requires parameter gridSize")
	}

	if err := cfg.Training.Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
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
	if cfg.Training.MaxSamples <= 0 {
		cfg.Training.MaxSamples = training.DefaultMaxSamples
	}

	// Progress bars would interleave with console logs.
	if cfg.Console {
		cfg.Training.Progress = false
	}

	return nil
}
