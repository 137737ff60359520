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

import "errors"

const (
	// DefaultEpochs is the default number of passes over the pool.
	DefaultEpochs = 20

	// DefaultBatchSize is the default mini-batch size.
	DefaultBatchSize = 512

	// DefaultLearningRate is the default Adam learning rate.
	DefaultLearningRate = 1e-3

	// DefaultHiddenSize is the default width of the hidden layer.
	DefaultHiddenSize = 64

	// DefaultMaxEmbedding caps the width of an embedding table.
	DefaultMaxEmbedding = 600

	// DefaultRepresentationSize is the width of the end-to-end encoders.
	DefaultRepresentationSize = 16

	// DefaultMetaFeatureSize is the width of the learned meta-feature.
	DefaultMetaFeatureSize = 32

	// DefaultMaxSamples is the number of rows of a dataset the end-to-end
	// representation sees.
	DefaultMaxSamples = 256

	// DefaultSeed seeds initialization and shuffling.
	DefaultSeed = 42
)

// Config is the training configuration of a meta predictor.
type Config struct {
	Epochs             int     `yaml:"epochs" mapstructure:"epochs"`
	BatchSize          int     `yaml:"batchSize" mapstructure:"batchSize"`
	LearningRate       float64 `yaml:"learningRate" mapstructure:"learningRate"`
	HiddenSize         int     `yaml:"hiddenSize" mapstructure:"hiddenSize"`
	MaxEmbedding       int     `yaml:"maxEmbedding" mapstructure:"maxEmbedding"`
	RepresentationSize int     `yaml:"representationSize" mapstructure:"representationSize"`
	MetaFeatureSize    int     `yaml:"metaFeatureSize" mapstructure:"metaFeatureSize"`
	MaxSamples         int     `yaml:"maxSamples" mapstructure:"maxSamples"`
	Seed               int64   `yaml:"seed" mapstructure:"seed"`

	// Progress renders a progress bar over epochs.
	Progress bool `yaml:"progress" mapstructure:"progress"`
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		Epochs:             DefaultEpochs,
		BatchSize:          DefaultBatchSize,
		LearningRate:       DefaultLearningRate,
		HiddenSize:         DefaultHiddenSize,
		MaxEmbedding:       DefaultMaxEmbedding,
		RepresentationSize: DefaultRepresentationSize,
		MetaFeatureSize:    DefaultMetaFeatureSize,
		MaxSamples:         DefaultMaxSamples,
		Seed:               DefaultSeed,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return errors.New("epochs must be positive")
	}

	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}

	if c.LearningRate <= 0 {
		return errors.New("learning rate must be positive")
	}

	if c.HiddenSize <= 0 || c.MaxEmbedding <= 0 {
		return errors.New("hidden size and max embedding must be positive")
	}

	if c.RepresentationSize <= 0 || c.MetaFeatureSize <= 0 {
		return errors.New("representation and meta-feature sizes must be positive")
	}

	return nil
}
