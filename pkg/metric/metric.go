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

// Package metric computes ranking metrics of anomaly scores.
package metric

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

const (
	// AUCROC is the name of the area under the ROC curve.
	AUCROC = "AUCROC"

	// AUCPR is the name of the area under the precision-recall curve.
	AUCPR = "AUCPR"
)

// Names lists the metrics recorded by the benchmark in order.
var Names = []string{AUCROC, AUCPR}

// ErrSingleClass is returned when labels contain only one class.
var ErrSingleClass = errors.New("only one class present in labels")

// Result holds the metrics of one evaluation.
type Result struct {
	AUCROC float64
	AUCPR  float64
}

// NaN returns a result with both metrics missing.
func NaN() Result {
	return Result{AUCROC: math.NaN(), AUCPR: math.NaN()}
}

// Evaluate computes both metrics for scores against binary labels, where a
// higher score means more anomalous and label 1 marks an anomaly.
func Evaluate(labels, scores []float64) (Result, error) {
	aucroc, err := ROCAUC(labels, scores)
	if err != nil {
		return NaN(), err
	}

	aucpr, err := AveragePrecision(labels, scores)
	if err != nil {
		return NaN(), err
	}

	return Result{AUCROC: aucroc, AUCPR: aucpr}, nil
}

// ROCAUC returns the area under the ROC curve.
func ROCAUC(labels, scores []float64) (float64, error) {
	classes, sorted, err := sortByScore(labels, scores)
	if err != nil {
		return 0, err
	}

	tpr, fpr, _ := stat.ROC(nil, sorted, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// AveragePrecision returns the area under the precision-recall curve as the
// recall-weighted mean of precisions at each distinct score threshold.
func AveragePrecision(labels, scores []float64) (float64, error) {
	if err := check(labels, scores); err != nil {
		return 0, err
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	var positives float64
	for _, l := range labels {
		if l == 1 {
			positives++
		}
	}

	var (
		tp, fp, ap, prevRecall float64
	)
	for i, k := range idx {
		if labels[k] == 1 {
			tp++
		} else {
			fp++
		}

		// Emit a point only at the last sample of each tied score.
		if i+1 < len(idx) && scores[idx[i+1]] == scores[k] {
			continue
		}

		recall := tp / positives
		precision := tp / (tp + fp)
		ap += (recall - prevRecall) * precision
		prevRecall = recall
	}

	return ap, nil
}

func sortByScore(labels, scores []float64) ([]bool, []float64, error) {
	if err := check(labels, scores); err != nil {
		return nil, nil, err
	}

	classes := make([]bool, len(labels))
	for i, l := range labels {
		classes[i] = l == 1
	}

	sorted := append([]float64(nil), scores...)
	stat.SortWeightedLabeled(sorted, classes, nil)
	return classes, sorted, nil
}

func check(labels, scores []float64) error {
	if len(labels) != len(scores) {
		return fmt.Errorf("labels and scores length mismatch: %d != %d", len(labels), len(scores))
	}

	var pos, neg int
	for i, l := range labels {
		if math.IsNaN(scores[i]) {
			return errors.New("scores contain NaN")
		}

		if l == 1 {
			pos++
		} else {
			neg++
		}
	}

	if pos == 0 || neg == 0 {
		return ErrSingleClass
	}

	return nil
}
