/*
 *     Copyright 2020 The Dragonfly Authors
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

package dferrors

import (
	"errors"
	"fmt"
)

// Structural errors indicate a misconfigured experiment. They abort a run
// instead of being recorded as a failed task.
var (
	ErrDatasetNotFound  = errors.New("held-out dataset column not found")
	ErrNoLegalCandidate = errors.New("no configuration has a ground-truth value")
	ErrUnknownMode      = errors.New("unknown meta-selector mode")
	ErrUnknownFamily    = errors.New("unknown detector family")
	ErrSlotLayout       = errors.New("component slots differ across labeled-anomaly counts")
)

var structural = []error{
	ErrDatasetNotFound,
	ErrNoLegalCandidate,
	ErrUnknownMode,
	ErrUnknownFamily,
	ErrSlotLayout,
}

// IsStructural reports whether err wraps a structural error.
func IsStructural(err error) bool {
	if err == nil {
		return false
	}

	for _, target := range structural {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Newf wraps a structural error with context.
func Newf(target error, format string, a ...any) error {
	return fmt.Errorf("%w: %s", target, fmt.Sprintf(format, a...))
}
