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

package comparison

import (
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"

	"d7y.io/metaod/metaselector/selector"
)

// RandomSelection draws up to draws random configurations and returns the
// observed performance of the first one that has any. NaN when none has, which
// the comparison table stores as an empty cell rather than 0.
func RandomSelection(rng *rand.Rand, observed []float64, draws int) float64 {
	if len(observed) == 0 {
		return math.NaN()
	}

	for i := 0; i < draws; i++ {
		if perf := observed[rng.Intn(len(observed))]; !math.IsNaN(perf) {
			return perf
		}
	}

	return math.NaN()
}

// ScoreSelection ranks configurations by their performance on the training
// split of the target dataset and returns the observed test performance of the
// best ranked one that has any. NaN when none has.
func ScoreSelection(train, observed []float64) float64 {
	for _, row := range selector.Rank(train) {
		if row < len(observed) && !math.IsNaN(observed[row]) {
			return observed[row]
		}
	}

	return math.NaN()
}

// GroundTruth is the best observed performance. NaN when nothing is observed,
// stored as an empty cell rather than 0.
func GroundTruth(observed []float64) float64 {
	var present []float64
	for _, v := range observed {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}

	best, err := stats.Max(present)
	if err != nil {
		return math.NaN()
	}

	return best
}
