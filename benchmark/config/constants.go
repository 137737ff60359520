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
	"d7y.io/metaod/benchmark/detector"
	"d7y.io/metaod/pkg/dataset"
)

const (
	// DefaultMetricsAddr is default address for metrics server.
	DefaultMetricsAddr = ":8002"

	// DefaultSuffix is default suffix of result tables.
	DefaultSuffix = "SOTA"

	// DefaultFamily is default detector family.
	DefaultFamily = detector.UnsuperviseFamily

	// DefaultSamplesThreshold is default minimum number of dataset samples.
	DefaultSamplesThreshold = dataset.DefaultSamplesThreshold

	// DefaultTestSize is default fraction of samples held out for testing.
	DefaultTestSize = dataset.DefaultTestSize

	// DefaultMaxSize is default number of samples kept from large datasets.
	DefaultMaxSize = dataset.DefaultMaxSize
)

const (
	// DefaultLogRotateMaxSize is default maximum size in megabytes of log files.
	DefaultLogRotateMaxSize = 300

	// DefaultLogRotateMaxAge is default maximum number of days to retain log files.
	DefaultLogRotateMaxAge = 7

	// DefaultLogRotateMaxBackups is default maximum number of old log files.
	DefaultLogRotateMaxBackups = 50
)

var (
	// DefaultRLAList is default sweep of labeled-anomaly ratios.
	DefaultRLAList = []float64{0.00, 0.01, 0.05, 0.10, 0.25, 0.50, 0.75, 1.00}

	// DefaultNLAList is default sweep of labeled-anomaly counts.
	DefaultNLAList = []int{0, 1, 5, 10, 25, 50, 75, 100}

	// DefaultSeeds is default sweep of seeds.
	DefaultSeeds = []int64{1, 2, 3}
)
