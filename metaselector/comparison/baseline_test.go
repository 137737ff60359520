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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaselines(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name     string
		train    []float64
		observed []float64
		expect   func(t *testing.T, rs, ss, gt float64)
	}{
		{
			name:     "best training score lacks a result",
			train:    []float64{0.1, 0.7, 0.3},
			observed: []float64{0.9, nan, 0.8},
			expect: func(t *testing.T, rs, ss, gt float64) {
				assert := assert.New(t)
				assert.Contains([]float64{0.9, 0.8}, rs)
				assert.Equal(0.8, ss)
				assert.Equal(0.9, gt)
			},
		},
		{
			name:     "missing training scores rank last",
			train:    []float64{nan, 0.2, nan},
			observed: []float64{0.9, nan, 0.8},
			expect: func(t *testing.T, rs, ss, gt float64) {
				assert := assert.New(t)
				assert.Equal(0.9, ss)
			},
		},
		{
			name:     "nothing observed",
			train:    []float64{0.1, 0.7, 0.3},
			observed: []float64{nan, nan, nan},
			expect: func(t *testing.T, rs, ss, gt float64) {
				assert := assert.New(t)
				assert.True(math.IsNaN(rs))
				assert.True(math.IsNaN(ss))
				assert.True(math.IsNaN(gt))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rs := RandomSelection(rand.New(rand.NewSource(1)), tc.observed, 100)
			tc.expect(t, rs, ScoreSelection(tc.train, tc.observed), GroundTruth(tc.observed))
		})
	}
}

func TestRandomSelection_Seeded(t *testing.T) {
	observed := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	a := RandomSelection(rand.New(rand.NewSource(7)), observed, 5)
	b := RandomSelection(rand.New(rand.NewSource(7)), observed, 5)
	assert.Equal(t, a, b)
	assert.True(t, math.IsNaN(RandomSelection(rand.New(rand.NewSource(7)), nil, 5)))
}
