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

package types

import (
	"errors"

	"gopkg.in/yaml.v3"
)

const (
	// MetricsNamespace is the namespace of prometheus metrics.
	MetricsNamespace = "metaod"

	// BenchmarkMetricsName is the subsystem of benchmark metrics.
	BenchmarkMetricsName = "benchmark"

	// MetaSelectorMetricsName is the subsystem of meta-selector metrics.
	MetaSelectorMetricsName = "metaselector"
)

const (
	// BenchmarkName is the name of the benchmark harness.
	BenchmarkName = "benchmark"

	// MetaSelectorName is the name of the meta-selector.
	MetaSelectorName = "metaselector"
)

// LAMode is the kind of labeled-anomaly sweep.
type LAMode int

const (
	// LAModeRatio sweeps ratios of the training anomalies.
	LAModeRatio LAMode = iota

	// LAModeCount sweeps absolute counts of labeled anomalies.
	LAModeCount
)

const (
	// LAModeRatioName is the name of ratio sweeps.
	LAModeRatioName = "rla"

	// LAModeCountName is the name of count sweeps.
	LAModeCountName = "nla"
)

// Name returns the name of la mode.
func (m LAMode) Name() string {
	if m == LAModeCount {
		return LAModeCountName
	}

	return LAModeRatioName
}

// ParseLAMode parses la mode by name.
func ParseLAMode(name string) (LAMode, error) {
	switch name {
	case LAModeRatioName:
		return LAModeRatio, nil
	case LAModeCountName:
		return LAModeCount, nil
	}

	return LAModeRatio, errors.New("la mode must be rla or nla")
}

// MarshalYAML renders la mode by name.
func (m LAMode) MarshalYAML() (any, error) {
	return m.Name(), nil
}

// UnmarshalYAML parses la mode from its name.
func (m *LAMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	switch node.Kind {
	case yaml.ScalarNode:
		if err := node.Decode(&s); err != nil {
			return err
		}
	default:
		return errors.New("invalid la mode")
	}

	mode, err := ParseLAMode(s)
	if err != nil {
		return err
	}

	*m = mode
	return nil
}
