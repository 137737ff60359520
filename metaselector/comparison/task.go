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

package comparison

import (
	"errors"
	"fmt"

	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/literal"
)

// ErrNonIntegerLA is returned for tasks whose la is not a count.
var ErrNonIntegerLA = errors.New("la is not an integer count")

// Task is one row of the baseline tables: a dataset, an la and a seed.
type Task struct {
	// Row is the row key the task was parsed from.
	Row string

	Dataset string
	LA      dataset.LA
	Seed    int64
}

// ParseTask parses a row key such as ('cardio', 5, 1).
func ParseTask(row string) (Task, error) {
	v, err := literal.ParseTuple(row)
	if err != nil {
		return Task{}, err
	}

	if len(v.Items) != 3 || v.Items[0].Kind != literal.StringKind {
		return Task{}, fmt.Errorf("row %s is not a (dataset, la, seed) tuple", row)
	}

	la, err := dataset.FromLiteral(v.Items[1])
	if err != nil {
		return Task{}, fmt.Errorf("row %s: %w", row, err)
	}

	seed, err := v.Items[2].Int64()
	if err != nil {
		return Task{}, fmt.Errorf("row %s: %w", row, err)
	}

	return Task{Row: row, Dataset: v.Items[0].Text, LA: la, Seed: seed}, nil
}

// Count returns the la of the task as a count of labeled anomalies.
func (t Task) Count() (int, error) {
	if !t.LA.IsCount() {
		return 0, fmt.Errorf("%w: %s", ErrNonIntegerLA, t.LA)
	}

	return int(t.LA.Float64()), nil
}
