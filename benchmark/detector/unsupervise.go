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
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"d7y.io/metaod/pkg/dataset"
)

const (
	// IForestModel is the isolation forest.
	IForestModel = "IForest"

	// HBOSModel is the histogram-based outlier score.
	HBOSModel = "HBOS"

	// KNNModel scores by the distance to the k-th nearest training sample.
	KNNModel = "KNN"
)

const (
	defaultTrees      = 100
	defaultSampleSize = 256
	defaultBins       = 10
	defaultNeighbors  = 5

	eulerGamma = 0.5772156649015329
)

type unsupervise struct{}

func (unsupervise) Name() string { return UnsuperviseFamily }

func (unsupervise) Models() []string { return []string{IForestModel, HBOSModel, KNNModel} }

func (unsupervise) New(model string, seed int64) (Detector, error) {
	switch model {
	case IForestModel:
		return &iforest{trees: defaultTrees, sampleSize: defaultSampleSize, rng: rand.New(rand.NewSource(seed))}, nil
	case HBOSModel:
		return &hbos{bins: defaultBins}, nil
	case KNNModel:
		return &knn{k: defaultNeighbors}, nil
	}

	return nil, unknownModel(UnsuperviseFamily, model)
}

// Labels are unused, so only the unlabeled setting is evaluated.
func (unsupervise) Accepts(la dataset.LA) bool { return la.IsZero() }

func (unsupervise) sealed() {}

type itree struct {
	feature     int
	split       float64
	left, right *itree
	size        int
}

type iforest struct {
	trees      int
	sampleSize int
	rng        *rand.Rand

	width int
	psi   int
	roots []*itree
}

func (f *iforest) Fit(x *mat.Dense, _ []float64) error {
	n, d, err := check(x, nil)
	if err != nil {
		return err
	}

	f.width = d
	f.psi = f.sampleSize
	if n < f.psi {
		f.psi = n
	}

	limit := int(math.Ceil(math.Log2(math.Max(float64(f.psi), 2))))
	f.roots = make([]*itree, f.trees)
	for t := range f.roots {
		f.roots[t] = f.grow(x, f.rng.Perm(n)[:f.psi], 0, limit)
	}

	return nil
}

func (f *iforest) grow(x *mat.Dense, idx []int, depth, limit int) *itree {
	if depth >= limit || len(idx) <= 1 {
		return &itree{size: len(idx)}
	}

	_, d := x.Dims()
	var (
		candidates []int
		lows       []float64
		highs      []float64
	)
	for j := 0; j < d; j++ {
		low, high := math.Inf(1), math.Inf(-1)
		for _, i := range idx {
			low = math.Min(low, x.At(i, j))
			high = math.Max(high, x.At(i, j))
		}

		if high > low {
			candidates = append(candidates, j)
			lows = append(lows, low)
			highs = append(highs, high)
		}
	}

	if len(candidates) == 0 {
		return &itree{size: len(idx)}
	}

	k := f.rng.Intn(len(candidates))
	node := &itree{
		feature: candidates[k],
		split:   lows[k] + f.rng.Float64()*(highs[k]-lows[k]),
	}

	var left, right []int
	for _, i := range idx {
		if x.At(i, node.feature) < node.split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	node.left = f.grow(x, left, depth+1, limit)
	node.right = f.grow(x, right, depth+1, limit)
	return node
}

func (f *iforest) Score(x *mat.Dense) ([]float64, error) {
	n, err := checkScore(x, f.width)
	if err != nil {
		return nil, err
	}

	norm := averagePathLength(f.psi)
	scores := make([]float64, n)
	for i := range scores {
		row := x.RawRowView(i)

		var depth float64
		for _, root := range f.roots {
			depth += pathLength(root, row, 0)
		}

		if norm == 0 {
			continue
		}
		scores[i] = math.Pow(2, -depth/float64(len(f.roots))/norm)
	}

	return scores, nil
}

func pathLength(node *itree, row []float64, depth int) float64 {
	for node.left != nil {
		if row[node.feature] < node.split {
			node = node.left
		} else {
			node = node.right
		}
		depth++
	}

	return float64(depth) + averagePathLength(node.size)
}

// averagePathLength is the mean depth of an unsuccessful search in a binary
// search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}

	m := float64(n - 1)
	return 2*(math.Log(m)+eulerGamma) - 2*m/float64(n)
}

type hbos struct {
	bins int

	width    int
	dividers [][]float64
	density  [][]float64
}

func (h *hbos) Fit(x *mat.Dense, _ []float64) error {
	n, d, err := check(x, nil)
	if err != nil {
		return err
	}

	h.width = d
	h.dividers = make([][]float64, d)
	h.density = make([][]float64, d)
	for j := 0; j < d; j++ {
		column := mat.Col(nil, j, x)
		sort.Float64s(column)

		low, high := column[0], column[n-1]
		if high == low {
			continue
		}

		// Dividers are half-open, so the last one is moved past the maximum.
		dividers := floats.Span(make([]float64, h.bins+1), low, high)
		dividers[h.bins] = math.Nextafter(high, math.Inf(1))

		counts := stat.Histogram(nil, dividers, column, nil)
		density := make([]float64, h.bins)
		for b, c := range counts {
			density[b] = c / float64(n) / (dividers[b+1] - dividers[b])
		}

		h.dividers[j] = dividers
		h.density[j] = density
	}

	return nil
}

func (h *hbos) Score(x *mat.Dense) ([]float64, error) {
	n, err := checkScore(x, h.width)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, n)
	for i := range scores {
		for j, dividers := range h.dividers {
			if dividers == nil {
				continue
			}

			v := x.At(i, j)
			b := sort.Search(len(dividers), func(k int) bool { return dividers[k] > v }) - 1
			if b < 0 {
				b = 0
			}
			if b >= h.bins {
				b = h.bins - 1
			}

			scores[i] -= math.Log(h.density[j][b] + 1e-10)
		}
	}

	return scores, nil
}

type knn struct {
	k int

	train *mat.Dense
}

func (k *knn) Fit(x *mat.Dense, _ []float64) error {
	if _, _, err := check(x, nil); err != nil {
		return err
	}

	k.train = mat.DenseCopyOf(x)
	return nil
}

func (k *knn) Score(x *mat.Dense) ([]float64, error) {
	var width int
	if k.train != nil {
		_, width = k.train.Dims()
	}

	n, err := checkScore(x, width)
	if err != nil {
		return nil, err
	}

	m, _ := k.train.Dims()
	neighbors := k.k
	if neighbors > m {
		neighbors = m
	}

	scores := make([]float64, n)
	distances := make([]float64, m)
	for i := range scores {
		row := x.RawRowView(i)
		for t := range distances {
			distances[t] = floats.Distance(row, k.train.RawRowView(t), 2)
		}

		sort.Float64s(distances)
		scores[i] = distances[neighbors-1]
	}

	return scores, nil
}
