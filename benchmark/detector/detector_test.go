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

package detector

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"d7y.io/metaod/internal/dferrors"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/metric"
)

// mockData draws normal samples around the origin and anomalies scattered far
// from it. Half of the anomalies are labeled.
func mockData(rng *rand.Rand, normals, anomalies int) (*mat.Dense, []float64, []float64) {
	x := mat.NewDense(normals+anomalies, 2, nil)
	labels := make([]float64, normals+anomalies)
	truth := make([]float64, normals+anomalies)
	for i := 0; i < normals; i++ {
		x.SetRow(i, []float64{rng.NormFloat64(), rng.NormFloat64()})
	}

	for i := normals; i < normals+anomalies; i++ {
		x.SetRow(i, []float64{4 + 6*rng.Float64(), 4 + 6*rng.Float64()})
		truth[i] = 1
		if i%2 == 0 {
			labels[i] = 1
		}
	}

	return x, labels, truth
}

func TestNewFamily(t *testing.T) {
	tests := []struct {
		name   string
		family string
		expect func(t *testing.T, f Family, err error)
	}{
		{
			name:   "unsupervise",
			family: UnsuperviseFamily,
			expect: func(t *testing.T, f Family, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal(UnsuperviseFamily, f.Name())
				assert.Equal([]string{IForestModel, HBOSModel, KNNModel}, f.Models())
				assert.True(f.Accepts(dataset.Ratio(0)))
				assert.True(f.Accepts(dataset.Count(0)))
				assert.False(f.Accepts(dataset.Ratio(0.05)))
			},
		},
		{
			name:   "semi-supervise",
			family: SemiSuperviseFamily,
			expect: func(t *testing.T, f Family, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{DevNetModel}, f.Models())
				assert.True(f.Accepts(dataset.Count(5)))
			},
		},
		{
			name:   "supervise",
			family: SuperviseFamily,
			expect: func(t *testing.T, f Family, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{LRModel, NBModel}, f.Models())
				assert.True(f.Accepts(dataset.Ratio(0)))
			},
		},
		{
			name:   "unknown family",
			family: "reinforce",
			expect: func(t *testing.T, f Family, err error) {
				assert := assert.New(t)
				assert.True(errors.Is(err, dferrors.ErrUnknownFamily))
				assert.True(dferrors.IsStructural(err))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFamily(tc.family)
			tc.expect(t, f, err)
		})
	}
}

func TestFamily_New(t *testing.T) {
	for _, name := range Families {
		f, err := NewFamily(name)
		require.NoError(t, err)

		for _, model := range f.Models() {
			d, err := f.New(model, 1)
			assert.NoError(t, err)
			assert.NotNil(t, d)
		}

		_, err = f.New("SVM", 1)
		assert.True(t, errors.Is(err, ErrUnknownModel))
	}
}

func TestDetector_Separates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	xTrain, yTrain, _ := mockData(rng, 200, 20)
	xTest, _, yTest := mockData(rng, 100, 10)

	for _, name := range Families {
		f, err := NewFamily(name)
		require.NoError(t, err)

		for _, model := range f.Models() {
			t.Run(model, func(t *testing.T) {
				assert := assert.New(t)
				d, err := f.New(model, 1)
				require.NoError(t, err)
				require.NoError(t, d.Fit(xTrain, yTrain))

				scores, err := d.Score(xTest)
				require.NoError(t, err)
				assert.Len(scores, 110)

				auc, err := metric.ROCAUC(yTest, scores)
				require.NoError(t, err)
				assert.Greater(auc, 0.9)
			})
		}
	}
}

func TestLogistic_FitsIntercept(t *testing.T) {
	assert := assert.New(t)

	x := mat.NewDense(100, 1, nil)
	y := make([]float64, 100)
	for i := 0; i < 10; i++ {
		y[i] = 1
	}

	l := &logistic{iterations: defaultLRIterations, learningRate: defaultLRLearningRate, l2: defaultLRL2}
	assert.NoError(l.Fit(x, y))
	assert.InDelta(math.Log(0.1/0.9), l.bias, 0.05)

	scores, err := l.Score(mat.NewDense(1, 1, nil))
	assert.NoError(err)
	assert.InDelta(0.1, scores[0], 0.005)
}

func TestDetector_Seeded(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	x, y, _ := mockData(rng, 100, 10)

	for _, model := range []string{IForestModel, DevNetModel} {
		family := UnsuperviseFamily
		if model == DevNetModel {
			family = SemiSuperviseFamily
		}

		f, err := NewFamily(family)
		require.NoError(t, err)

		var scores [2][]float64
		for k := range scores {
			d, err := f.New(model, 11)
			require.NoError(t, err)
			require.NoError(t, d.Fit(x, y))

			scores[k], err = d.Score(x)
			require.NoError(t, err)
		}

		assert.Equal(t, scores[0], scores[1], model)
	}
}

func TestDetector_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	x, _, _ := mockData(rng, 50, 5)
	unlabeled := make([]float64, 55)

	tests := []struct {
		name   string
		family string
		model  string
		run    func(d Detector) error
		expect func(t *testing.T, err error)
	}{
		{
			name:   "supervised without labeled anomalies",
			family: SuperviseFamily,
			model:  LRModel,
			run:    func(d Detector) error { return d.Fit(x, unlabeled) },
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.True(errors.Is(err, ErrSingleClass))
			},
		},
		{
			name:   "naive bayes without labeled anomalies",
			family: SuperviseFamily,
			model:  NBModel,
			run:    func(d Detector) error { return d.Fit(x, unlabeled) },
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.True(errors.Is(err, ErrSingleClass))
			},
		},
		{
			name:   "label length mismatch",
			family: SemiSuperviseFamily,
			model:  DevNetModel,
			run:    func(d Detector) error { return d.Fit(x, unlabeled[:3]) },
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "x has 55 rows, y has 3")
			},
		},
		{
			name:   "empty training data",
			family: UnsuperviseFamily,
			model:  KNNModel,
			run:    func(d Detector) error { return d.Fit(&mat.Dense{}, nil) },
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "empty training data")
			},
		},
		{
			name:   "score before fit",
			family: UnsuperviseFamily,
			model:  HBOSModel,
			run: func(d Detector) error {
				_, err := d.Score(x)
				return err
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "detector is not fitted")
			},
		},
		{
			name:   "feature width mismatch",
			family: UnsuperviseFamily,
			model:  IForestModel,
			run: func(d Detector) error {
				if err := d.Fit(x, nil); err != nil {
					return err
				}

				_, err := d.Score(mat.NewDense(1, 3, nil))
				return err
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "x has 3 features, expected 2")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFamily(tc.family)
			require.NoError(t, err)
			d, err := f.New(tc.model, 1)
			require.NoError(t, err)
			tc.expect(t, tc.run(d))
		})
	}
}

func TestAveragePathLength(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, averagePathLength(1))
	assert.Equal(1.0, averagePathLength(2))
	assert.InDelta(10.24, averagePathLength(256), 0.01)
}
