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
	"fmt"
	"strings"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// ReadVector reads the named one-dimensional array from an npz archive.
// Integer and boolean arrays are converted to float64.
func ReadVector(path, name string) ([]float64, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	key, err := lookup(r, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return readVector(r, key)
}

// ReadMatrix reads the named two-dimensional float64 array from an npz archive.
func ReadMatrix(path, name string) (*mat.Dense, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	key, err := lookup(r, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var m mat.Dense
	if err := r.Read(key, &m); err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", path, name, err)
	}

	return &m, nil
}

// lookup finds the archive key of name, which numpy stores with a .npy suffix.
func lookup(r *npz.Reader, name string) (string, error) {
	for _, key := range r.Keys() {
		if strings.TrimSuffix(key, ".npy") == name {
			return key, nil
		}
	}

	return "", fmt.Errorf("array %q not found", name)
}

func readVector(r *npz.Reader, key string) ([]float64, error) {
	var f64 []float64
	err := r.Read(key, &f64)
	if err == nil {
		return f64, nil
	}

	var i64 []int64
	if r.Read(key, &i64) == nil {
		return convert(i64, func(v int64) float64 { return float64(v) }), nil
	}

	var i32 []int32
	if r.Read(key, &i32) == nil {
		return convert(i32, func(v int32) float64 { return float64(v) }), nil
	}

	var f32 []float32
	if r.Read(key, &f32) == nil {
		return convert(f32, func(v float32) float64 { return float64(v) }), nil
	}

	var b []bool
	if r.Read(key, &b) == nil {
		return convert(b, func(v bool) float64 {
			if v {
				return 1
			}
			return 0
		}), nil
	}

	return nil, fmt.Errorf("read %s: %w", key, err)
}

func convert[T any](in []T, f func(T) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = f(v)
	}

	return out
}
