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

// Package dataset loads classical anomaly-detection datasets stored as npz
// archives and generates seeded train/test splits with partially labeled
// anomalies.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"d7y.io/metaod/pkg/scaler"
)

const (
	// Ext is the file extension of dataset archives.
	Ext = ".npz"

	// DefaultTestSize is the default fraction of samples held out for testing.
	DefaultTestSize = 0.3

	// DefaultSamplesThreshold is the default minimum number of samples.
	DefaultSamplesThreshold = 1000

	// DefaultMaxSize is the default number of samples kept from large datasets.
	DefaultMaxSize = 10000
)

var (
	// ErrTooManyLabeled is returned when the requested count of labeled
	// anomalies exceeds the anomalies of the training split.
	ErrTooManyLabeled = errors.New("labeled anomalies exceed training anomalies")

	// ErrInvalidLabel is returned when y holds values other than 0 and 1.
	ErrInvalidLabel = errors.New("labels must be 0 or 1")
)

// Data is one generated split.
type Data struct {
	XTrain *mat.Dense
	YTrain []float64
	XTest  *mat.Dense
	YTest  []float64
}

// Size returns the number of samples of both splits.
func (d *Data) Size() int {
	return len(d.YTrain) + len(d.YTest)
}

// LabeledAnomalies returns the number of anomalies labeled in the training split.
func (d *Data) LabeledAnomalies() int {
	return int(floats.Sum(d.YTrain))
}

// Options configures a Generator.
type Options struct {
	// GenerateDuplicates resamples datasets smaller than SamplesThreshold.
	GenerateDuplicates bool

	// SamplesThreshold is the size small datasets are resampled to.
	SamplesThreshold int

	// TestSize is the fraction of samples held out for testing.
	TestSize float64

	// MaxSize is the number of samples kept from large datasets.
	MaxSize int
}

// Option sets an option of a Generator.
type Option func(*Options)

// WithGenerateDuplicates enables resampling of small datasets.
func WithGenerateDuplicates(generate bool) Option {
	return func(o *Options) {
		o.GenerateDuplicates = generate
	}
}

// WithSamplesThreshold sets the minimum number of samples.
func WithSamplesThreshold(n int) Option {
	return func(o *Options) {
		o.SamplesThreshold = n
	}
}

// WithTestSize sets the fraction of samples held out for testing.
func WithTestSize(size float64) Option {
	return func(o *Options) {
		o.TestSize = size
	}
}

// WithMaxSize sets the number of samples kept from large datasets.
func WithMaxSize(n int) Option {
	return func(o *Options) {
		o.MaxSize = n
	}
}

// Generator generates splits from the datasets of one directory.
type Generator struct {
	dir     string
	options Options
}

// New returns a generator over the npz archives of dir.
func New(dir string, options ...Option) *Generator {
	o := Options{
		SamplesThreshold: DefaultSamplesThreshold,
		TestSize:         DefaultTestSize,
		MaxSize:          DefaultMaxSize,
	}
	for _, opt := range options {
		opt(&o)
	}

	return &Generator{dir: dir, options: o}
}

// Options returns the options of g.
func (g *Generator) Options() Options {
	return g.options
}

// List returns the names of the datasets in the directory in lexical order.
func (g *Generator) List() ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), Ext))
	}

	return names, nil
}

// Load reads the feature matrix X and the labels y of a dataset.
func (g *Generator) Load(name string) (*mat.Dense, []float64, error) {
	path := filepath.Join(g.dir, name+Ext)
	x, err := ReadMatrix(path, "X")
	if err != nil {
		return nil, nil, err
	}

	y, err := ReadVector(path, "y")
	if err != nil {
		return nil, nil, err
	}

	if rows, _ := x.Dims(); rows != len(y) {
		return nil, nil, fmt.Errorf("dataset %s: X has %d rows, y has %d", name, rows, len(y))
	}

	for _, v := range y {
		if v != 0 && v != 1 {
			return nil, nil, fmt.Errorf("dataset %s: %w", name, ErrInvalidLabel)
		}
	}

	return x, y, nil
}

// Generate splits a dataset into stratified train and test parts, rescales
// features with the range of the training part and keeps the labels of only
// la training anomalies. Unlabeled training anomalies are marked normal.
func (g *Generator) Generate(name string, la LA, seed int64, atLeastOneLabeled bool) (*Data, error) {
	x, y, err := g.Load(name)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	n := len(y)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	if g.options.GenerateDuplicates && n < g.options.SamplesThreshold {
		idx = make([]int, g.options.SamplesThreshold)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
	}

	if g.options.MaxSize > 0 && len(idx) > g.options.MaxSize {
		perm := rng.Perm(len(idx))[:g.options.MaxSize]
		sampled := make([]int, len(perm))
		for i, p := range perm {
			sampled[i] = idx[p]
		}
		idx = sampled
	}

	trainIdx, testIdx := stratifiedSplit(idx, y, g.options.TestSize, rng)
	data := &Data{
		XTrain: rows(x, trainIdx),
		YTrain: pick(y, trainIdx),
		XTest:  rows(x, testIdx),
		YTest:  pick(y, testIdx),
	}

	if err := rescale(data); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}

	if err := label(data.YTrain, la, atLeastOneLabeled, rng); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}

	return data, nil
}

func stratifiedSplit(idx []int, y []float64, testSize float64, rng *rand.Rand) ([]int, []int) {
	var normal, anomaly []int
	for _, i := range idx {
		if y[i] == 1 {
			anomaly = append(anomaly, i)
		} else {
			normal = append(normal, i)
		}
	}

	var train, test []int
	for _, class := range [][]int{normal, anomaly} {
		rng.Shuffle(len(class), func(a, b int) {
			class[a], class[b] = class[b], class[a]
		})

		nTest := int(math.Round(testSize * float64(len(class))))
		if nTest >= len(class) && len(class) > 1 {
			nTest = len(class) - 1
		}

		test = append(test, class[:nTest]...)
		train = append(train, class[nTest:]...)
	}

	rng.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	rng.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })
	return train, test
}

func rescale(data *Data) error {
	n, _ := data.XTrain.Dims()
	if n == 0 {
		return errors.New("empty training split")
	}

	train := denseRows(data.XTrain)
	s, err := scaler.Fit(train)
	if err != nil {
		return err
	}

	for i, row := range train {
		data.XTrain.SetRow(i, s.Transform(row))
	}
	for i, row := range denseRows(data.XTest) {
		data.XTest.SetRow(i, s.Transform(row))
	}

	return nil
}

func label(y []float64, la LA, atLeastOneLabeled bool, rng *rand.Rand) error {
	var anomalies []int
	for i, v := range y {
		if v == 1 {
			anomalies = append(anomalies, i)
		}
	}

	var n int
	if la.IsCount() {
		n = int(la.Float64())
		if n > len(anomalies) {
			return fmt.Errorf("%w: %d > %d", ErrTooManyLabeled, n, len(anomalies))
		}
	} else if atLeastOneLabeled {
		n = int(math.Ceil(la.Float64() * float64(len(anomalies))))
	} else {
		n = int(la.Float64() * float64(len(anomalies)))
	}

	rng.Shuffle(len(anomalies), func(a, b int) {
		anomalies[a], anomalies[b] = anomalies[b], anomalies[a]
	})
	for _, i := range anomalies[n:] {
		y[i] = 0
	}

	return nil
}

func rows(x *mat.Dense, idx []int) *mat.Dense {
	_, d := x.Dims()
	if len(idx) == 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(len(idx), d, nil)
	for i, k := range idx {
		out.SetRow(i, x.RawRowView(k))
	}

	return out
}

func pick(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, k := range idx {
		out[i] = y[k]
	}

	return out
}

func denseRows(x *mat.Dense) [][]float64 {
	if x.IsEmpty() {
		return nil
	}

	n, _ := x.Dims()
	out := make([][]float64, n)
	for i := range out {
		out[i] = mat.Row(nil, i, x)
	}

	return out
}
