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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"d7y.io/metaod/pkg/dataset"
)

const (
	// LRModel is the logistic regression.
	LRModel = "LR"

	// NBModel is the Gaussian naive Bayes.
	NBModel = "NB"
)

const (
	defaultLRIterations   = 200
	defaultLRLearningRate = 0.5
	defaultLRL2           = 1e-4

	defaultVarSmoothing = 1e-9
)

// ErrSingleClass is returned when supervised detectors see only one class.
var ErrSingleClass = errors.New("training labels contain only one class")

type supervise struct{}

func (supervise) Name() string { return SuperviseFamily }

func (supervise) Models() []string { return []string{LRModel, NBModel} }

func (supervise) New(model string, _ int64) (Detector, error) {
	switch model {
	case LRModel:
		return &logistic{iterations: defaultLRIterations, learningRate: defaultLRLearningRate, l2: defaultLRL2}, nil
	case NBModel:
		return &naiveBayes{varSmoothing: defaultVarSmoothing}, nil
	}

	return nil, unknownModel(SuperviseFamily, model)
}

// Without labeled anomalies fitting fails and the result is recorded missing.
func (supervise) Accepts(dataset.LA) bool { return true }

func (supervise) sealed() {}

func classes(y []float64) (int, error) {
	positives := int(floats.Sum(y))
	if positives == 0 || positives == len(y) {
		return 0, ErrSingleClass
	}

	return positives, nil
}

type logistic struct {
	iterations   int
	learningRate float64
	l2           float64

	weights *mat.VecDense
	bias    float64
}

func (l *logistic) Fit(x *mat.Dense, y []float64) error {
	n, d, err := check(x, y)
	if err != nil {
		return err
	}

	if _, err := classes(y); err != nil {
		return err
	}

	l.weights = mat.NewVecDense(d, nil)
	l.bias = 0

	labels := mat.NewVecDense(n, y)
	var residual, grad mat.VecDense
	z := mat.NewVecDense(n, nil)
	for it := 0; it < l.iterations; it++ {
		l.logits(z, x)
		residual.SubVec(sigmoid(z), labels)

		grad.MulVec(x.T(), &residual)
		grad.ScaleVec(1/float64(n), &grad)
		grad.AddScaledVec(&grad, l.l2, l.weights)

		l.weights.AddScaledVec(l.weights, -l.learningRate, &grad)
		l.bias -= l.learningRate * mat.Sum(&residual) / float64(n)
	}

	if math.IsNaN(mat.Sum(l.weights)) || math.IsNaN(l.bias) {
		return errors.New("training diverged")
	}

	return nil
}

func (l *logistic) Score(x *mat.Dense) ([]float64, error) {
	var width int
	if l.weights != nil {
		width = l.weights.Len()
	}

	if _, err := checkScore(x, width); err != nil {
		return nil, err
	}

	n, _ := x.Dims()
	z := mat.NewVecDense(n, nil)
	l.logits(z, x)
	return mat.Col(nil, 0, sigmoid(z)), nil
}

// logits stores x·w + b in z.
func (l *logistic) logits(z *mat.VecDense, x *mat.Dense) {
	z.MulVec(x, l.weights)
	for i := 0; i < z.Len(); i++ {
		z.SetVec(i, z.AtVec(i)+l.bias)
	}
}

func sigmoid(z *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		out.SetVec(i, 1/(1+math.Exp(-z.AtVec(i))))
	}

	return out
}

type naiveBayes struct {
	varSmoothing float64

	logPrior  [2]float64
	means     [2][]float64
	variances [2][]float64
}

func (nb *naiveBayes) Fit(x *mat.Dense, y []float64) error {
	n, d, err := check(x, y)
	if err != nil {
		return err
	}

	positives, err := classes(y)
	if err != nil {
		return err
	}

	nb.logPrior = [2]float64{
		math.Log(float64(n-positives) / float64(n)),
		math.Log(float64(positives) / float64(n)),
	}

	var epsilon float64
	for j := 0; j < d; j++ {
		epsilon = math.Max(epsilon, stat.Variance(mat.Col(nil, j, x), nil))
	}
	epsilon *= nb.varSmoothing

	for c := range nb.means {
		nb.means[c] = make([]float64, d)
		nb.variances[c] = make([]float64, d)

		weights := make([]float64, n)
		for i, label := range y {
			if int(label) == c {
				weights[i] = 1
			}
		}

		for j := 0; j < d; j++ {
			column := mat.Col(nil, j, x)
			nb.means[c][j] = stat.Mean(column, weights)
			nb.variances[c][j] = stat.PopVariance(column, weights) + epsilon
		}
	}

	return nil
}

func (nb *naiveBayes) Score(x *mat.Dense) ([]float64, error) {
	n, err := checkScore(x, len(nb.means[0]))
	if err != nil {
		return nil, err
	}

	scores := make([]float64, n)
	for i := range scores {
		row := x.RawRowView(i)

		var joint [2]float64
		for c := range joint {
			joint[c] = nb.logPrior[c]
			for j, v := range row {
				variance := nb.variances[c][j]
				joint[c] -= 0.5*math.Log(2*math.Pi*variance) + (v-nb.means[c][j])*(v-nb.means[c][j])/(2*variance)
			}
		}

		// Log posterior of the anomaly class.
		scores[i] = joint[1] - floats.LogSumExp(joint[:])
	}

	return scores, nil
}
