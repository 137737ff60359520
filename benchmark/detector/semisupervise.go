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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"d7y.io/metaod/pkg/dataset"
)

// DevNetModel is the deviation network.
const DevNetModel = "DevNet"

const (
	defaultDevNetEpochs       = 50
	defaultDevNetSteps        = 20
	defaultDevNetBatchSize    = 512
	defaultDevNetLearningRate = 1e-2
	defaultDevNetL2           = 1e-2
	defaultDevNetMargin       = 5.0
	defaultReferenceSize      = 5000
)

type semiSupervise struct{}

func (semiSupervise) Name() string { return SemiSuperviseFamily }

func (semiSupervise) Models() []string { return []string{DevNetModel} }

func (semiSupervise) New(model string, seed int64) (Detector, error) {
	if model != DevNetModel {
		return nil, unknownModel(SemiSuperviseFamily, model)
	}

	return &devnet{
		epochs:       defaultDevNetEpochs,
		steps:        defaultDevNetSteps,
		batchSize:    defaultDevNetBatchSize,
		learningRate: defaultDevNetLearningRate,
		l2:           defaultDevNetL2,
		margin:       defaultDevNetMargin,
		rng:          rand.New(rand.NewSource(seed)),
	}, nil
}

func (semiSupervise) Accepts(dataset.LA) bool { return true }

func (semiSupervise) sealed() {}

// devnet learns a linear anomaly score whose deviation from a Gaussian
// reference is small for unlabeled samples and at least margin for labeled
// anomalies.
type devnet struct {
	epochs       int
	steps        int
	batchSize    int
	learningRate float64
	l2           float64
	margin       float64
	rng          *rand.Rand

	weights []float64
	bias    float64
	mean    float64
	std     float64
}

func (d *devnet) Fit(x *mat.Dense, y []float64) error {
	n, width, err := check(x, y)
	if err != nil {
		return err
	}

	var anomalies, unlabeled []int
	for i := 0; i < n; i++ {
		if y[i] == 1 {
			anomalies = append(anomalies, i)
		} else {
			unlabeled = append(unlabeled, i)
		}
	}

	if len(unlabeled) == 0 {
		return errors.New("no unlabeled samples")
	}

	reference := make([]float64, defaultReferenceSize)
	for i := range reference {
		reference[i] = d.rng.NormFloat64()
	}
	d.mean, d.std = stat.MeanStdDev(reference, nil)

	d.weights = make([]float64, width)
	for j := range d.weights {
		d.weights[j] = d.rng.NormFloat64() * 0.01
	}
	d.bias = 0

	grad := make([]float64, width)
	for epoch := 0; epoch < d.epochs; epoch++ {
		for step := 0; step < d.steps; step++ {
			for j := range grad {
				grad[j] = 0
			}

			var gradBias float64
			for k := 0; k < d.batchSize; k++ {
				// Batches are balanced between labeled anomalies and unlabeled samples.
				i := unlabeled[d.rng.Intn(len(unlabeled))]
				if len(anomalies) > 0 && k%2 == 1 {
					i = anomalies[d.rng.Intn(len(anomalies))]
				}

				row := x.RawRowView(i)
				deviation := (floats.Dot(d.weights, row) + d.bias - d.mean) / d.std

				var g float64
				switch {
				case y[i] == 1 && deviation < d.margin:
					g = -1 / d.std
				case y[i] != 1 && deviation > 0:
					g = 1 / d.std
				case y[i] != 1 && deviation < 0:
					g = -1 / d.std
				}

				floats.AddScaled(grad, g, row)
				gradBias += g
			}

			floats.Scale(1/float64(d.batchSize), grad)
			floats.AddScaled(grad, d.l2, d.weights)
			floats.AddScaled(d.weights, -d.learningRate, grad)
			d.bias -= d.learningRate * gradBias / float64(d.batchSize)
		}

		if floats.HasNaN(d.weights) || math.IsNaN(d.bias) {
			return errors.New("training diverged")
		}
	}

	return nil
}

func (d *devnet) Score(x *mat.Dense) ([]float64, error) {
	n, err := checkScore(x, len(d.weights))
	if err != nil {
		return nil, err
	}

	var out mat.VecDense
	out.MulVec(x, mat.NewVecDense(len(d.weights), d.weights))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = out.AtVec(i) + d.bias
	}

	return scores, nil
}
