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
	"cmp"
	"slices"
)

type Set[T comparable] interface {
	Values() []T
	Add(T) bool
	Contains(...T) bool
	Len() uint
}

type set[T comparable] map[T]struct{}

func New[T comparable](values ...T) Set[T] {
	s := make(set[T], len(values))
	for _, v := range values {
		s.Add(v)
	}

	return &s
}

func (s *set[T]) Values() []T {
	var result []T
	for v := range *s {
		result = append(result, v)
	}

	return result
}

func (s *set[T]) Add(v T) bool {
	if _, found := (*s)[v]; found {
		return false
	}

	(*s)[v] = struct{}{}
	return true
}

func (s *set[T]) Contains(vals ...T) bool {
	for _, v := range vals {
		if _, ok := (*s)[v]; !ok {
			return false
		}
	}

	return true
}

func (s *set[T]) Len() uint {
	return uint(len(*s))
}

// Sorted returns the values of s in ascending order.
func Sorted[T cmp.Ordered](s Set[T]) []T {
	values := s.Values()
	slices.Sort(values)
	return values
}
