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

package dataset

import (
	"d7y.io/metaod/pkg/literal"
)

// LA is the labeled-anomaly parameter of a generation, either a ratio of the
// training anomalies or an absolute count.
type LA struct {
	value float64
	count bool
}

// Ratio labels the given fraction of training anomalies.
func Ratio(r float64) LA {
	return LA{value: r}
}

// Count labels exactly n training anomalies.
func Count(n int) LA {
	return LA{value: float64(n), count: true}
}

// IsCount reports whether la is an absolute count.
func (la LA) IsCount() bool {
	return la.count
}

// IsZero reports whether no anomaly is labeled.
func (la LA) IsZero() bool {
	return la.value == 0
}

// Float64 returns the ratio or the count as a float.
func (la LA) Float64() float64 {
	return la.value
}

// Literal returns la as the literal stored in sweep row keys.
func (la LA) Literal() literal.Value {
	if la.count {
		return literal.Int(int64(la.value))
	}

	return literal.Float(la.value)
}

// String renders la the way it appears in sweep row keys.
func (la LA) String() string {
	return la.Literal().Repr()
}

// ParseLA parses a rendered la, treating values with a decimal point or an
// exponent as ratios.
func ParseLA(s string) (LA, error) {
	v, err := literal.Parse(s)
	if err != nil {
		return LA{}, err
	}

	return FromLiteral(v)
}

// FromLiteral converts a number literal into an la.
func FromLiteral(v literal.Value) (LA, error) {
	if n, err := v.Int64(); err == nil {
		return Count(int(n)), nil
	}

	f, err := v.Float64()
	if err != nil {
		return LA{}, err
	}

	return Ratio(f), nil
}

// Ratios returns the ratio sweep.
func Ratios(values ...float64) []LA {
	las := make([]LA, 0, len(values))
	for _, v := range values {
		las = append(las, Ratio(v))
	}

	return las
}

// Counts returns the count sweep.
func Counts(values ...int) []LA {
	las := make([]LA, 0, len(values))
	for _, v := range values {
		las = append(las, Count(v))
	}

	return las
}
