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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"d7y.io/metaod/benchmark/config"
	"d7y.io/metaod/pkg/types"
	"d7y.io/metaod/version"
)

// Variables declared for metrics.
var (
	DatasetCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "dataset",
		Help:      "Gauge of the number of the datasets kept by the filter.",
	}, []string{"family"})

	ExperimentCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "experiment_total",
		Help:      "Counter of the number of the experiments.",
	}, []string{"family"})

	ExperimentFailureCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "experiment_failure_total",
		Help:      "Counter of the number of failed of the experiment data generation.",
	}, []string{"family"})

	EvaluationCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "evaluation_total",
		Help:      "Counter of the number of the model evaluations.",
	}, []string{"family", "model"})

	EvaluationFailureCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "evaluation_failure_total",
		Help:      "Counter of the number of failed of the model evaluations.",
	}, []string{"family", "model"})

	FitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "fit_duration_seconds",
		Help:      "Histogram of the time each model fit took.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"family", "model"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "inference_duration_seconds",
		Help:      "Histogram of the time each model inference took.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"family", "model"})

	VersionGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: types.MetricsNamespace,
		Subsystem: types.BenchmarkMetricsName,
		Name:      "version",
		Help:      "Version info of the service.",
	}, []string{"major", "minor", "git_version", "git_commit", "platform", "build_time", "go_version"})
)

func New(cfg *config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	VersionGauge.WithLabelValues(version.Major, version.Minor, version.GitVersion, version.GitCommit, version.Platform, version.BuildTime, version.GoVersion).Set(1)
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
}
