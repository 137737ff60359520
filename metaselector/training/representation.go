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
	"errors"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"d7y.io/metaod/pkg/dataset"
)

// Sample is the training split of a dataset as seen by the representation
// subnetwork.
type Sample struct {
	X [][]float64
	Y []float64
}

// NewSample keeps at most maxSamples random rows of the training split.
func NewSample(data *dataset.Data, maxSamples int, rng *rand.Rand) (*Sample, error) {
	n := len(data.YTrain)
	if n == 0 || data.XTrain.IsEmpty() {
		return nil, errors.New("empty training split")
	}

	rows := rng.Perm(n)
	if maxSamples > 0 && n > maxSamples {
		rows = rows[:maxSamples]
	}

	s := &Sample{}
	for _, i := range rows {
		s.X = append(s.X, mat.Row(nil, i, data.XTrain))
		s.Y = append(s.Y, data.YTrain[i])
	}

	return s, nil
}

// representation derives a meta-feature from a sample. Every cell (x_ij, y_i)
// is encoded, averaged over samples per feature, encoded again, averaged over
// features and projected, so the result does not depend on the order of
// samples or features.
type representation struct {
	cell       *dense
	feature    *dense
	projection *dense
}

type representationTrace struct {
	cellPre    [][][]float64
	summary    [][]float64
	featurePre [][]float64
	pooled     []float64
	output     []float64
}

func newRepresentation(cfg Config, rng *rand.Rand) *representation {
	return &representation{
		cell:       newDense(2, cfg.RepresentationSize, rng),
		feature:    newDense(cfg.RepresentationSize, cfg.RepresentationSize, rng),
		projection: newDense(cfg.RepresentationSize, cfg.MetaFeatureSize, rng),
	}
}

func (r *representation) forward(s *Sample) *representationTrace {
	n, d := len(s.X), len(s.X[0])
	t := &representationTrace{
		cellPre:    make([][][]float64, d),
		summary:    make([][]float64, d),
		featurePre: make([][]float64, d),
		pooled:     make([]float64, r.feature.out),
	}

	for j := 0; j < d; j++ {
		t.cellPre[j] = make([][]float64, n)
		sum := make([]float64, r.cell.out)
		for i := 0; i < n; i++ {
			pre := r.cell.forward([]float64{s.X[i][j], s.Y[i]})
			t.cellPre[j][i] = pre
			floats.Add(sum, relu(pre))
		}
		floats.Scale(1/float64(n), sum)
		t.summary[j] = sum

		t.featurePre[j] = r.feature.forward(sum)
		floats.Add(t.pooled, relu(t.featurePre[j]))
	}
	floats.Scale(1/float64(d), t.pooled)

	t.output = r.projection.forward(t.pooled)
	return t
}

func (r *representation) backward(s *Sample, t *representationTrace, dout []float64) {
	n, d := len(s.X), len(s.X[0])
	dpooled := r.projection.backward(t.pooled, dout)
	floats.Scale(1/float64(d), dpooled)

	for j := 0; j < d; j++ {
		dsummary := r.feature.backward(t.summary[j], reluGrad(t.featurePre[j], dpooled))
		floats.Scale(1/float64(n), dsummary)
		for i := 0; i < n; i++ {
			r.cell.backward([]float64{s.X[i][j], s.Y[i]}, reluGrad(t.cellPre[j][i], dsummary))
		}
	}
}

func (r *representation) params() []*param {
	params := append(r.cell.params(), r.feature.params()...)
	return append(params, r.projection.params()...)
}
