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

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"d7y.io/metaod/pkg/dataset"
)

// mockPool returns a pool where the second value of the only slot performs
// better on every dataset.
func mockPool() *Pool {
	pool := &Pool{Target: "target", Cardinalities: []int{2}}
	for d, name := range []string{"cardio", "wine", "satellite", "yeast"} {
		for _, la := range []int{5, 10} {
			for code := 0; code < 2; code++ {
				pool.Examples = append(pool.Examples, Example{
					Dataset:     name,
					MetaFeature: []float64{float64(d), float64(d * d)},
					LA:          la,
					Components:  []int{code},
					Performance: 0.2 + 0.6*float64(code) + 0.01*float64(d),
				})
			}
		}
	}

	return pool
}

func mockConfig() Config {
	cfg := DefaultConfig()
	cfg.Epochs = 150
	cfg.BatchSize = 8
	cfg.LearningRate = 1e-2
	cfg.HiddenSize = 16
	cfg.RepresentationSize = 4
	cfg.MetaFeatureSize = 4
	return cfg
}

func TestFitTwoStage(t *testing.T) {
	assert := assert.New(t)
	cfg := mockConfig()

	m, history, err := FitTwoStage(mockPool(), cfg)
	require.NoError(t, err)
	assert.Len(history, cfg.Epochs)
	assert.Equal(1, history[0].Epoch)
	assert.Equal(2, history[0].Batches)
	assert.Less(history[len(history)-1].Loss, history[0].Loss)
	assert.Less(m.Eval.MAE, 0.1)

	q, err := m.Query([]float64{1, 1}, 5)
	require.NoError(t, err)
	scores, err := q.Score([][]int{{0}, {1}})
	assert.NoError(err)
	assert.Len(scores, 2)
	assert.Greater(scores[1], scores[0])

	_, err = q.Score([][]int{{2}})
	assert.ErrorContains(err, "out of embedding range")

	_, err = q.Score([][]int{{0, 1}})
	assert.ErrorContains(err, "expected 1")

	_, err = m.Query([]float64{1}, 5)
	assert.ErrorContains(err, "expected 2")
}

func TestFitTwoStage_Seeded(t *testing.T) {
	assert := assert.New(t)
	cfg := mockConfig()
	cfg.Epochs = 5

	_, a, err := FitTwoStage(mockPool(), cfg)
	require.NoError(t, err)
	_, b, err := FitTwoStage(mockPool(), cfg)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(a[i].Loss, b[i].Loss)
	}
}

func TestFitTwoStage_InvalidConfig(t *testing.T) {
	cfg := mockConfig()
	cfg.BatchSize = 0

	_, _, err := FitTwoStage(mockPool(), cfg)
	assert.ErrorContains(t, err, "batch size")
}

type mockSource struct {
	rng     *rand.Rand
	failing map[string]bool
}

func (s *mockSource) Sample(name string, la int) (*Sample, error) {
	if s.failing[name] {
		return nil, dataset.ErrTooManyLabeled
	}

	sample := &Sample{}
	for i := 0; i < 12; i++ {
		sample.X = append(sample.X, []float64{s.rng.Float64(), s.rng.Float64(), float64(len(name)) / 10})
		sample.Y = append(sample.Y, float64(i%4/3))
	}

	return sample, nil
}

func TestFitEnd2End(t *testing.T) {
	tests := []struct {
		name    string
		failing map[string]bool
		expect  func(t *testing.T, m *End2End, err error)
	}{
		{
			name:    "failing datasets are skipped",
			failing: map[string]bool{"yeast": true},
			expect: func(t *testing.T, m *End2End, err error) {
				assert := assert.New(t)
				require.NoError(t, err)

				sample, err := (&mockSource{rng: rand.New(rand.NewSource(2))}).Sample("target", 5)
				require.NoError(t, err)
				q, err := m.Query(sample, 25)
				require.NoError(t, err)
				scores, err := q.Score([][]int{{0}, {1}})
				assert.NoError(err)
				assert.Len(scores, 2)

				_, err = m.Query(&Sample{}, 5)
				assert.Error(err)
			},
		},
		{
			name:    "no sample available",
			failing: map[string]bool{"cardio": true, "wine": true, "satellite": true, "yeast": true},
			expect: func(t *testing.T, m *End2End, err error) {
				assert := assert.New(t)
				assert.ErrorContains(err, "no dataset sample")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := mockConfig()
			cfg.Epochs = 10
			m, history, err := FitEnd2End(mockPool(), &mockSource{rng: rand.New(rand.NewSource(1)), failing: tc.failing}, cfg)
			if err == nil {
				assert.Len(t, history, cfg.Epochs)
				// One group per dataset and la, each smaller than a batch.
				assert.Equal(t, 6, history[0].Batches)
			}
			tc.expect(t, m, err)
		})
	}
}

func TestNewSample(t *testing.T) {
	assert := assert.New(t)
	data := &dataset.Data{
		XTrain: mat.NewDense(4, 2, []float64{0, 1, 2, 3, 4, 5, 6, 7}),
		YTrain: []float64{0, 0, 1, 0},
	}

	s, err := NewSample(data, 3, rand.New(rand.NewSource(1)))
	assert.NoError(err)
	assert.Len(s.X, 3)
	for i, row := range s.X {
		assert.Equal(row[0]+1, row[1])
		assert.Equal(data.YTrain[int(row[0])/2], s.Y[i])
	}

	s, err = NewSample(data, 0, rand.New(rand.NewSource(1)))
	assert.NoError(err)
	assert.Len(s.X, 4)

	_, err = NewSample(&dataset.Data{XTrain: &mat.Dense{}}, 3, rand.New(rand.NewSource(1)))
	assert.Error(err)
}

func TestBatches(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		size   int
		expect []int
	}{
		{name: "drop last partial batch", n: 10, size: 4, expect: []int{4, 4}},
		{name: "exact batches", n: 8, size: 4, expect: []int{4, 4}},
		{name: "smaller than one batch", n: 3, size: 4, expect: []int{3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sizes []int
			for _, b := range batches(sequence(tc.n), tc.size) {
				sizes = append(sizes, len(b))
			}
			assert.Equal(t, tc.expect, sizes)
		})
	}
}

func TestEvaluate(t *testing.T) {
	assert := assert.New(t)

	e, err := Evaluate([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.NoError(err)
	assert.Equal(0.0, e.MAE)
	assert.Equal(1.0, e.R2)

	e, err = Evaluate([]float64{1, 3}, []float64{2, 2})
	assert.NoError(err)
	assert.Equal(1.0, e.MAE)
	assert.Equal(1.0, e.RMSE)
	assert.Equal(0.0, e.R2)

	_, err = Evaluate([]float64{1}, []float64{1, 2})
	assert.Error(err)

	_, err = Evaluate(nil, nil)
	assert.Error(err)
}

func TestEval_Check(t *testing.T) {
	e := &Eval{}
	assert.NoError(t, e.Check())

	e.MAE = math.NaN()
	assert.EqualError(t, e.Check(), "model NAN")
}

func TestRepresentation_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := newRepresentation(mockConfig(), rng)

	s := &Sample{}
	for i := 0; i < 6; i++ {
		s.X = append(s.X, []float64{rng.Float64(), rng.Float64(), rng.Float64()})
		s.Y = append(s.Y, float64(i%2))
	}

	// Reverse samples and rotate features.
	p := &Sample{}
	for i := len(s.X) - 1; i >= 0; i-- {
		row := s.X[i]
		p.X = append(p.X, []float64{row[2], row[0], row[1]})
		p.Y = append(p.Y, s.Y[i])
	}

	assert.InDeltaSlice(t, r.forward(s).output, r.forward(p).output, 1e-12)
}
