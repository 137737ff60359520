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
	"d7y.io/metaod/metaselector/training"
	"d7y.io/metaod/pkg/metric"
)

const (
	// DefaultMetricsAddr is default address for metrics server.
	DefaultMetricsAddr = ":8001"

	// DefaultGridMode is default grid of performance tables.
	DefaultGridMode = "small"

	// DefaultGridSize is default grid size of performance tables.
	DefaultGridSize = 1000

	// DefaultMode is default meta predictor mode.
	DefaultMode = training.TwoStageMode

	// DefaultSelectionSeed is default seed of the random selection baseline.
	DefaultSelectionSeed = 42
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
	// DefaultMetrics are the metrics compared by default.
	DefaultMetrics = []string{metric.AUCROC, metric.AUCPR}
)
