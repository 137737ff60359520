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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsStructural(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{name: "nil", err: nil, expect: false},
		{name: "plain error", err: errors.New("model NAN"), expect: false},
		{name: "sentinel", err: ErrNoLegalCandidate, expect: true},
		{name: "wrapped sentinel", err: fmt.Errorf("fit abalone: %w", Newf(ErrDatasetNotFound, "%s", "abalone")), expect: true},
		{name: "unknown family", err: Newf(ErrUnknownFamily, "family %q", "weak"), expect: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, IsStructural(tc.err))
		})
	}
}

func TestNewf(t *testing.T) {
	assert := assert.New(t)
	err := Newf(ErrUnknownMode, "mode %q", "hybrid")
	assert.EqualError(err, `unknown meta-selector mode: mode "hybrid"`)
	assert.True(errors.Is(err, ErrUnknownMode))
}
