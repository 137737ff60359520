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

// Package encoding turns pipeline configuration labels into integer codes,
// one column per component slot that varies across configurations.
package encoding

import (
	"errors"
	"fmt"
	"sort"

	"d7y.io/metaod/pkg/container/set"
	"d7y.io/metaod/pkg/literal"
)

// NoneValue replaces a missing component value in retained slots.
const NoneValue = "None"

var (
	// ErrNoConfigurations is returned when fitting on no labels.
	ErrNoConfigurations = errors.New("no configurations to encode")

	// ErrUnknownValue is returned when a value was not seen at fit time.
	ErrUnknownValue = errors.New("unknown component value")
)

// Slot is one retained component slot and its sorted vocabulary.
type Slot struct {
	Name       string
	Vocabulary []string
}

// Encoding is the fitted mapping from configuration labels to codes. It is
// immutable once returned by Fit.
type Encoding struct {
	slots []Slot
}

// Fit derives the retained slots and their vocabularies. Slot names are
// taken from the first label in order. A slot is dropped when its non-null
// values take at most one distinct value.
func Fit(labels []string) (*Encoding, error) {
	if len(labels) == 0 {
		return nil, ErrNoConfigurations
	}

	configs, err := parse(labels)
	if err != nil {
		return nil, err
	}

	e := &Encoding{}
	for _, key := range configs[0].Keys() {
		options := set.New[string]()
		hasNone := false
		for _, c := range configs {
			v, ok := c.Get(key)
			if !ok || v.IsNone() {
				hasNone = true
				continue
			}
			options.Add(v.Str())
		}

		if options.Len() <= 1 {
			continue
		}

		if hasNone {
			options.Add(NoneValue)
		}

		e.slots = append(e.slots, Slot{Name: key, Vocabulary: set.Sorted(options)})
	}

	return e, nil
}

// Encode fits an encoding on labels and transforms them.
func Encode(labels []string) (*Encoding, [][]int, error) {
	e, err := Fit(labels)
	if err != nil {
		return nil, nil, err
	}

	codes, err := e.Transform(labels)
	if err != nil {
		return nil, nil, err
	}

	return e, codes, nil
}

// Transform returns one row of codes per label, one code per retained slot.
func (e *Encoding) Transform(labels []string) ([][]int, error) {
	configs, err := parse(labels)
	if err != nil {
		return nil, err
	}

	codes := make([][]int, len(configs))
	for i, c := range configs {
		row := make([]int, len(e.slots))
		for j, slot := range e.slots {
			value := NoneValue
			if v, ok := c.Get(slot.Name); ok && !v.IsNone() {
				value = v.Str()
			}

			code := sort.SearchStrings(slot.Vocabulary, value)
			if code == len(slot.Vocabulary) || slot.Vocabulary[code] != value {
				return nil, fmt.Errorf("%w: %s=%q", ErrUnknownValue, slot.Name, value)
			}
			row[j] = code
		}
		codes[i] = row
	}

	return codes, nil
}

// Slots returns the retained slots in order.
func (e *Encoding) Slots() []Slot {
	return append([]Slot(nil), e.slots...)
}

// Names returns the names of the retained slots in order.
func (e *Encoding) Names() []string {
	names := make([]string, len(e.slots))
	for i, slot := range e.slots {
		names[i] = slot.Name
	}

	return names
}

// Cardinalities returns the vocabulary size of each retained slot.
func (e *Encoding) Cardinalities() []int {
	cards := make([]int, len(e.slots))
	for i, slot := range e.slots {
		cards[i] = len(slot.Vocabulary)
	}

	return cards
}

// SameLayout reports whether e and other retain the same slots in the same order.
func (e *Encoding) SameLayout(other *Encoding) bool {
	if len(e.slots) != len(other.slots) {
		return false
	}

	for i := range e.slots {
		if e.slots[i].Name != other.slots[i].Name {
			return false
		}
	}

	return true
}

func parse(labels []string) ([]literal.Value, error) {
	configs := make([]literal.Value, len(labels))
	for i, label := range labels {
		c, err := literal.ParseDict(label)
		if err != nil {
			return nil, err
		}
		configs[i] = c
	}

	return configs, nil
}
