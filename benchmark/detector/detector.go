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

// Package detector implements the anomaly detectors evaluated by the
// benchmark, grouped into closed families by the supervision they use.
package detector

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"d7y.io/metaod/internal/dferrors"
	"d7y.io/metaod/pkg/dataset"
)

const (
	// UnsuperviseFamily ignores labels.
	UnsuperviseFamily = "unsupervise"

	// SemiSuperviseFamily learns from the few labeled anomalies.
	SemiSuperviseFamily = "semi-supervise"

	// SuperviseFamily treats partial labels as ground truth.
	SuperviseFamily = "supervise"
)

// Families lists the detector families in order.
var Families = []string{UnsuperviseFamily, SemiSuperviseFamily, SuperviseFamily}

var (
	// ErrUnknownModel is returned when a family has no model of a name.
	ErrUnknownModel = errors.New("unknown model")

	errEmpty     = errors.New("empty training data")
	errNotFitted = errors.New("detector is not fitted")
)

// Detector scores samples, higher scores are more anomalous.
type Detector interface {
	// Fit trains the detector on features x with training labels y, where
	// 1 marks a labeled anomaly.
	Fit(x *mat.Dense, y []float64) error

	// Score returns the anomaly scores of x.
	Score(x *mat.Dense) ([]float64, error)
}

// Family is one kind of supervision with its models.
type Family interface {
	// Name returns the name of the family.
	Name() string

	// Models returns the model names in evaluation order.
	Models() []string

	// New returns a fresh detector of the named model.
	New(model string, seed int64) (Detector, error)

	// Accepts reports whether the family is evaluated at la.
	Accepts(la dataset.LA) bool

	sealed()
}

// NewFamily returns the family of name.
func NewFamily(name string) (Family, error) {
	switch name {
	case UnsuperviseFamily:
		return unsupervise{}, nil
	case SemiSuperviseFamily:
		return semiSupervise{}, nil
	case SuperviseFamily:
		return supervise{}, nil
	}

	return nil, dferrors.Newf(dferrors.ErrUnknownFamily, "%q must be one of %v", name, Families)
}

func unknownModel(family, model string) error {
	return fmt.Errorf("%w %q in family %s", ErrUnknownModel, model, family)
}

func check(x *mat.Dense, y []float64) (int, int, error) {
	if x == nil || x.IsEmpty() {
		return 0, 0, errEmpty
	}

	n, d := x.Dims()
	if y != nil && len(y) != n {
		return 0, 0, fmt.Errorf("x has %d rows, y has %d", n, len(y))
	}

	return n, d, nil
}

func checkScore(x *mat.Dense, width int) (int, error) {
	if width == 0 {
		return 0, errNotFitted
	}

	if x == nil || x.IsEmpty() {
		return 0, errEmpty
	}

	n, d := x.Dims()
	if d != width {
		return 0, fmt.Errorf("x has %d features, expected %d", d, width)
	}

	return n, nil
}
