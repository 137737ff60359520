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

// Package harness runs the benchmark sweep of one detector family.
package harness

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"

	"d7y.io/metaod/benchmark/config"
	"d7y.io/metaod/benchmark/detector"
	"d7y.io/metaod/benchmark/metrics"
	"d7y.io/metaod/benchmark/storage"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/literal"
	"d7y.io/metaod/pkg/metric"
	"d7y.io/metaod/pkg/types"
)

// Experiment is one (dataset, la, seed) combination of the sweep.
type Experiment struct {
	// Index is the row of the experiment in the result tables.
	Index int

	Dataset string
	LA      dataset.LA
	Seed    int64
}

// Key returns the row label of the experiment, such as ('cardio', 0.05, 1).
func (e Experiment) Key() string {
	return literal.Tuple(literal.String(e.Dataset), e.LA.Literal(), literal.Int(e.Seed)).Repr()
}

// Option is a functional option for configuring the harness.
type Option func(h *Harness)

// WithProgress reports the sweep progress to w.
func WithProgress(w io.Writer) Option {
	return func(h *Harness) {
		h.progress = w
	}
}

// Harness evaluates every model of a family on every experiment.
type Harness struct {
	config    *config.BenchmarkConfig
	generator *dataset.Generator
	storage   storage.Storage
	family    detector.Family
	models    []string
	progress  io.Writer
}

// New returns a harness of the configured family.
func New(cfg *config.BenchmarkConfig, g *dataset.Generator, s storage.Storage, options ...Option) (*Harness, error) {
	family, err := detector.NewFamily(cfg.Family)
	if err != nil {
		return nil, err
	}

	models := family.Models()
	if len(cfg.Models) > 0 {
		models = models[:0:0]
		for _, model := range family.Models() {
			if slices.Contains(cfg.Models, model) {
				models = append(models, model)
			}
		}
	}

	h := &Harness{
		config:    cfg,
		generator: g,
		storage:   s,
		family:    family,
		models:    models,
		progress:  io.Discard,
	}

	for _, opt := range options {
		opt(h)
	}

	return h, nil
}

// DatasetFilter returns the datasets meeting the experimental requirements,
// sorted ascending by sample size.
func (h *Harness) DatasetFilter(ctx context.Context) ([]string, error) {
	names, err := h.generator.List()
	if err != nil {
		return nil, err
	}

	type candidate struct {
		name string
		size int
	}

	var candidates []candidate
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		add, size := true, 0
		for _, seed := range h.config.Seeds {
			data, err := h.generator.Generate(name, dataset.Ratio(1), seed, true)
			if err != nil {
				logger.WithExperiment(name, "1.0", seed).Warnf("generate data failed: %s", err.Error())
				add = false
				break
			}

			size = data.Size()
			switch {
			case !h.config.GenerateDuplicates && size < h.config.SamplesThreshold:
				add = false
			case h.config.LAMode == types.LAModeCount && data.LabeledAnomalies() < h.config.NLAList[len(h.config.NLAList)-1]:
				add = false
			case h.config.LAMode == types.LAModeRatio && data.LabeledAnomalies() == 0:
				add = false
			}
		}

		if !add {
			logger.Infof("remove the dataset %s", name)
			continue
		}

		candidates = append(candidates, candidate{name: name, size: size})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].size < candidates[j].size
	})

	datasets := make([]string, 0, len(candidates))
	for _, c := range candidates {
		datasets = append(datasets, c.name)
	}

	return datasets, nil
}

// Experiments returns the product of datasets, la sweep and seeds in sweep
// order.
func (h *Harness) Experiments(datasets []string) []Experiment {
	var experiments []Experiment
	for _, name := range datasets {
		for _, la := range h.config.LAs() {
			for _, seed := range h.config.Seeds {
				experiments = append(experiments, Experiment{
					Index:   len(experiments),
					Dataset: name,
					LA:      la,
					Seed:    seed,
				})
			}
		}
	}

	return experiments
}

// Run evaluates every model on every experiment the family accepts and
// persists the result tables after each evaluation.
func (h *Harness) Run(ctx context.Context) error {
	datasets, err := h.DatasetFilter(ctx)
	if err != nil {
		return fmt.Errorf("filter datasets: %w", err)
	}
	metrics.DatasetCount.WithLabelValues(h.family.Name()).Set(float64(len(datasets)))

	experiments := h.Experiments(datasets)
	rows := make([]string, len(experiments))
	for i, e := range experiments {
		rows[i] = e.Key()
	}

	logger.Infof("%d datasets, %d models, results are written to %s", len(datasets), len(h.models), h.storage.Filename(metric.AUCROC))
	results := storage.NewResults(rows, h.models)
	bar := progressbar.NewOptions(len(experiments),
		progressbar.OptionSetDescription(h.family.Name()),
		progressbar.OptionSetWriter(h.progress),
		progressbar.OptionShowCount(),
	)

	for _, e := range experiments {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := bar.Add(1); err != nil {
			logger.Debugf("progress: %s", err.Error())
		}

		if !h.family.Accepts(e.LA) {
			continue
		}

		log := logger.WithExperiment(e.Dataset, e.LA.String(), e.Seed)
		log.Info("current experiment parameters")
		metrics.ExperimentCount.WithLabelValues(h.family.Name()).Inc()

		data, err := h.generator.Generate(e.Dataset, e.LA, e.Seed, true)
		if err != nil {
			log.Errorf("generate data failed: %s", err.Error())
			metrics.ExperimentFailureCount.WithLabelValues(h.family.Name()).Inc()
			continue
		}

		for j, model := range h.models {
			fit, inference, result := h.ModelFit(e, model, data)
			results.Record(e.Index, j, fit, inference, result)

			if err := h.storage.CreateResults(results); err != nil {
				return fmt.Errorf("save results of %s: %w", e.Key(), err)
			}
		}
	}

	return nil
}

// ModelFit fits a fresh detector of model on the experiment data and scores
// the test split. Failures are logged and reported as NaN metrics with nil
// durations.
func (h *Harness) ModelFit(e Experiment, model string, data *dataset.Data) (*time.Duration, *time.Duration, metric.Result) {
	log := logger.WithModel(model, e.Dataset, e.LA.String(), e.Seed)
	metrics.EvaluationCount.WithLabelValues(h.family.Name(), model).Inc()

	d, err := h.family.New(model, e.Seed)
	if err != nil {
		log.Errorf("error in model initialization: %s", err.Error())
		metrics.EvaluationFailureCount.WithLabelValues(h.family.Name(), model).Inc()
		return nil, nil, metric.NaN()
	}

	fit, inference, result, err := evaluate(d, data)
	if err != nil {
		log.Errorf("error in model fitting: %s", err.Error())
		metrics.EvaluationFailureCount.WithLabelValues(h.family.Name(), model).Inc()
		return nil, nil, metric.NaN()
	}

	metrics.FitDuration.WithLabelValues(h.family.Name(), model).Observe(fit.Seconds())
	metrics.InferenceDuration.WithLabelValues(h.family.Name(), model).Observe(inference.Seconds())
	log.Infof("AUC-ROC: %.4f, AUC-PR: %.4f", result.AUCROC, result.AUCPR)
	return &fit, &inference, result
}

func evaluate(d detector.Detector, data *dataset.Data) (fit, inference time.Duration, result metric.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	start := time.Now()
	if err := d.Fit(data.XTrain, data.YTrain); err != nil {
		return 0, 0, metric.NaN(), err
	}
	fit = time.Since(start)

	start = time.Now()
	scores, err := d.Score(data.XTest)
	if err != nil {
		return 0, 0, metric.NaN(), err
	}
	inference = time.Since(start)

	result, err = metric.Evaluate(data.YTest, scores)
	if err != nil {
		return 0, 0, metric.NaN(), err
	}

	return fit, inference, result, nil
}
