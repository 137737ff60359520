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
	"fmt"
	"strconv"

	"github.com/sjwhitworth/golearn/base"

	"d7y.io/metaod/internal/dferrors"
	"d7y.io/metaod/metaselector/encoding"
)

// Example is one observed performance of a configuration on a dataset.
type Example struct {
	// Dataset is the dataset column the performance was read from.
	Dataset string

	// MetaFeature is the meta-feature vector of Dataset at LA, NaN filled with 0.
	MetaFeature []float64

	// LA is the number of labeled anomalies.
	LA int

	// Components is the encoded configuration.
	Components []int

	// Performance is the observed metric value.
	Performance float64
}

// Pool is the training set of one held-out dataset.
type Pool struct {
	// Target is the held-out dataset.
	Target string

	// Examples holds examples of every candidate la in order.
	Examples []Example

	// Encodings holds the encoding fitted on the table of each candidate la.
	Encodings map[int]*encoding.Encoding

	// Cardinalities is the embedding size of each slot, the largest vocabulary
	// of the slot over the fitted encodings.
	Cardinalities []int

	layout *encoding.Encoding
}

// Slots returns the names of the encoded component slots.
func (p *Pool) Slots() []string {
	if p.layout == nil {
		return nil
	}

	return p.layout.Names()
}

// Codes encodes configuration labels for the given la. The encoding fitted
// for la is reused when la is a candidate, otherwise a fresh one is fitted on
// labels and must produce the slot layout of the pool.
func (p *Pool) Codes(la int, labels []string) ([][]int, error) {
	enc, ok := p.Encodings[la]
	if !ok {
		fresh, err := encoding.Fit(labels)
		if err != nil {
			return nil, err
		}

		if p.layout != nil && !fresh.SameLayout(p.layout) {
			return nil, dferrors.Newf(dferrors.ErrSlotLayout, "la %d encodes %v, pool encodes %v", la, fresh.Names(), p.layout.Names())
		}
		enc = fresh
	}

	codes, err := enc.Transform(labels)
	if err != nil {
		return nil, err
	}

	for _, row := range codes {
		for k, code := range row {
			if code >= p.Cardinalities[k] {
				return nil, fmt.Errorf("slot %s code %d exceeds embedding size %d", p.layout.Names()[k], code, p.Cardinalities[k])
			}
		}
	}

	return codes, nil
}

// MetaFeatures returns the meta-feature vectors of all examples.
func (p *Pool) MetaFeatures() [][]float64 {
	rows := make([][]float64, len(p.Examples))
	for i, e := range p.Examples {
		rows[i] = e.MetaFeature
	}

	return rows
}

// LAs returns the la of all examples.
func (p *Pool) LAs() []float64 {
	las := make([]float64, len(p.Examples))
	for i, e := range p.Examples {
		las[i] = float64(e.LA)
	}

	return las
}

// Performances returns the targets of all examples.
func (p *Pool) Performances() []float64 {
	perfs := make([]float64, len(p.Examples))
	for i, e := range p.Examples {
		perfs[i] = e.Performance
	}

	return perfs
}

// Instances converts the pool into a golearn instance grid whose class
// attribute is the performance.
func (p *Pool) Instances() (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	if len(p.Examples) == 0 {
		return inst, nil
	}

	var specs []base.AttributeSpec
	for i := range p.Examples[0].MetaFeature {
		specs = append(specs, inst.AddAttribute(base.NewFloatAttribute("mf"+strconv.Itoa(i))))
	}
	specs = append(specs, inst.AddAttribute(base.NewFloatAttribute("la")))
	for _, slot := range p.Slots() {
		specs = append(specs, inst.AddAttribute(base.NewFloatAttribute(slot)))
	}

	performance := base.NewFloatAttribute("performance")
	specs = append(specs, inst.AddAttribute(performance))
	if err := inst.AddClassAttribute(performance); err != nil {
		return nil, err
	}

	if err := inst.Extend(len(p.Examples)); err != nil {
		return nil, err
	}

	for i, e := range p.Examples {
		row := make([]float64, 0, len(specs))
		row = append(row, e.MetaFeature...)
		row = append(row, float64(e.LA))
		for _, code := range e.Components {
			row = append(row, float64(code))
		}
		row = append(row, e.Performance)

		for j, v := range row {
			inst.Set(specs[j], i, base.PackFloatToBytes(v))
		}
	}

	return inst, nil
}
