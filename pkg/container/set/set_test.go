/*
 *     Copyright 2022 The Dragonfly Authors
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

package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		expect func(t *testing.T, s Set[string])
	}{
		{
			name: "empty set",
			expect: func(t *testing.T, s Set[string]) {
				assert := assert.New(t)
				assert.Equal(uint(0), s.Len())
				assert.Nil(s.Values())
				assert.True(s.Add("relu"))
				assert.False(s.Add("relu"))
				assert.True(s.Contains("relu"))
			},
		},
		{
			name:   "duplicates collapse",
			values: []string{"relu", "tanh", "relu"},
			expect: func(t *testing.T, s Set[string]) {
				assert := assert.New(t)
				assert.Equal(uint(2), s.Len())
				assert.True(s.Contains("relu", "tanh"))
				assert.False(s.Contains("relu", "sigmoid"))
				assert.Equal([]string{"relu", "tanh"}, Sorted(s))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, New(tc.values...))
		})
	}
}
