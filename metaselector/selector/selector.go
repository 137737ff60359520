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

// Package selector picks the configuration predicted to perform best among
// those with a known result on the target dataset.
package selector

import (
	"fmt"
	"math"
	"sort"

	"d7y.io/metaod/internal/dferrors"
)

// Scorer predicts the performance of encoded configurations.
type Scorer interface {
	Score(codes [][]int) ([]float64, error)
}

// ScorerFunc adapts a function to a Scorer.
type ScorerFunc func(codes [][]int) ([]float64, error)

// Score calls f.
func (f ScorerFunc) Score(codes [][]int) ([]float64, error) {
	return f(codes)
}

// Selection is the chosen configuration.
type Selection struct {
	// Row is the configuration row of the selection.
	Row int

	// Score is the predicted performance.
	Score float64

	// Performance is the observed performance on the target dataset.
	Performance float64

	// Rank is the position of Row in the predicted ranking, starting at 0.
	Rank int
}

// Rank orders rows by descending score. Ties keep row order and NaN scores
// come last.
func Rank(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := scores[order[a]], scores[order[b]]
		if math.IsNaN(sb) {
			return !math.IsNaN(sa)
		}

		return sa > sb
	})

	return order
}

// Select scores every configuration and walks the ranking until a row whose
// observed performance is present. Observed performances decide legality
// only and never influence the ranking.
func Select(scorer Scorer, codes [][]int, observed []float64) (*Selection, error) {
	if len(codes) != len(observed) {
		return nil, fmt.Errorf("%d configurations with %d observed performances", len(codes), len(observed))
	}

	scores, err := scorer.Score(codes)
	if err != nil {
		return nil, err
	}

	if len(scores) != len(codes) {
		return nil, fmt.Errorf("%d scores for %d configurations", len(scores), len(codes))
	}

	for rank, row := range Rank(scores) {
		if math.IsNaN(observed[row]) {
			continue
		}

		return &Selection{
			Row:         row,
			Score:       scores[row],
			Performance: observed[row],
			Rank:        rank,
		}, nil
	}

	return nil, dferrors.Newf(dferrors.ErrNoLegalCandidate, "all %d configurations lack an observed performance", len(codes))
}
