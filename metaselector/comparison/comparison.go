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

// Package comparison compares the meta-selector with the baselines of the
// benchmark on every (dataset, la, seed) task of the baseline tables.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/hashicorp/go-multierror"

	"d7y.io/metaod/internal/dferrors"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/metaselector/metrics"
	"d7y.io/metaod/metaselector/storage"
	"d7y.io/metaod/metaselector/training"
	"d7y.io/metaod/pkg/table"
)

const (
	// SemiSuperviseFamily names the semi-supervised baseline table.
	SemiSuperviseFamily = "semi-supervise"

	// SuperviseFamily names the supervised baseline table.
	SuperviseFamily = "supervise"

	// IndexColumn is the header of the row key column of comparison tables.
	IndexColumn = "Unnamed: 0"
)

const (
	// RandomSelectionColumn holds the random selection baseline.
	RandomSelectionColumn = "Meta_baseline_rs"

	// ScoreSelectionColumn holds the training score selection baseline.
	ScoreSelectionColumn = "Meta_baseline_ss"

	// GroundTruthColumn holds the best observed performance.
	GroundTruthColumn = "Meta_baseline_gt"

	// MetaColumn holds the performance of the meta-selector.
	MetaColumn = "Meta"
)

// FailureSentinel is recorded in MetaColumn when a task fails.
const FailureSentinel = -1

// Config configures a comparison.
type Config struct {
	// Mode is two-stage or end-to-end.
	Mode string

	// Metrics are the compared metrics in order.
	Metrics []string

	// CandidateLAs are the la values pooled for training.
	CandidateLAs []int

	// Training configures the meta predictor. Its seed is replaced by the
	// seed of the first task of every held-out dataset.
	Training training.Config

	// Seed seeds the random selection baseline.
	Seed int64

	// ExportPool writes the training pool of every held-out dataset.
	ExportPool bool
}

// Option sets an option of a comparison.
type Option func(*Comparison)

// WithSource sets the dataset samples of end-to-end fits.
func WithSource(f SourceFunc) Option {
	return func(c *Comparison) {
		c.meta.newSource = f
	}
}

// Summary counts the outcome of a comparison.
type Summary struct {
	// Tasks is the number of evaluated tasks.
	Tasks int

	// Failures aggregates the errors of tasks recorded with FailureSentinel.
	Failures *multierror.Error
}

// Failed returns the number of tasks recorded with FailureSentinel.
func (s *Summary) Failed() int {
	if s.Failures == nil {
		return 0
	}

	return len(s.Failures.Errors)
}

// Comparison runs the meta-selector against the baselines.
type Comparison struct {
	config  Config
	storage storage.Storage
	rng     *rand.Rand
	meta    *meta
}

// New returns a comparison reading and writing tables through s.
func New(cfg Config, s storage.Storage, options ...Option) (*Comparison, error) {
	if cfg.Mode != training.TwoStageMode && cfg.Mode != training.End2EndMode {
		return nil, dferrors.Newf(dferrors.ErrUnknownMode, "%q", cfg.Mode)
	}

	c := &Comparison{
		config:  cfg,
		storage: s,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		meta: &meta{
			mode:       cfg.Mode,
			storage:    s,
			candidates: cfg.CandidateLAs,
			config:     cfg.Training,
			exportPool: cfg.ExportPool,
		},
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// Run compares every metric in order. Task failures are recorded with
// FailureSentinel and summarized. Structural errors abort the run.
func (c *Comparison) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	for _, metric := range c.config.Metrics {
		if err := c.runMetric(ctx, metric, summary); err != nil {
			return summary, fmt.Errorf("compare %s: %w", metric, err)
		}
	}

	if summary.Failed() > 0 {
		logger.Warnf("%d of %d tasks failed: %s", summary.Failed(), summary.Tasks, summary.Failures.Error())
	} else {
		logger.Infof("%d tasks compared", summary.Tasks)
	}

	return summary, nil
}

func (c *Comparison) runMetric(ctx context.Context, metric string, summary *Summary) error {
	semi, err := c.storage.SOTA(metric, SemiSuperviseFamily)
	if err != nil {
		return err
	}

	sup, err := c.storage.SOTA(metric, SuperviseFamily)
	if err != nil {
		return err
	}

	result := semi.InnerJoin(sup)
	if result.Index == "" {
		result.Index = IndexColumn
	}

	n := result.NumRows()
	columns := map[string][]float64{
		RandomSelectionColumn: missing(n),
		ScoreSelectionColumn:  missing(n),
		GroundTruthColumn:     missing(n),
		MetaColumn:            missing(n),
	}

	// Every metric starts with a fresh fit.
	var (
		fitted string
		fitErr error
	)
	for i, row := range result.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, err := ParseTask(row)
		if err != nil {
			return err
		}

		log := logger.WithComparison(metric, task.Dataset, task.LA.String(), task.Seed)
		log.Infof("compare meta-selector on task %s", row)
		summary.Tasks++
		metrics.TaskCount.WithLabelValues(c.config.Mode, metric).Inc()

		la, err := task.Count()
		if err == nil {
			var rs, ss, gt float64
			if rs, ss, gt, err = c.baselines(metric, task.Dataset, la); err != nil {
				return err
			}
			columns[RandomSelectionColumn][i] = rs
			columns[ScoreSelectionColumn][i] = ss
			columns[GroundTruthColumn][i] = gt

			if i == 0 || task.Dataset != fitted {
				fitted = task.Dataset
				if fitErr = c.meta.fit(metric, task.Dataset, task.Seed); fitErr != nil {
					fitErr = fmt.Errorf("fit meta predictor: %w", fitErr)
				}
			}

			err = fitErr
			if err == nil {
				var perf float64
				if perf, err = c.evaluate(metric, task.Dataset, la); err == nil {
					columns[MetaColumn][i] = perf
				}
			}
		}

		if err != nil {
			if dferrors.IsStructural(err) {
				return fmt.Errorf("task %s: %w", row, err)
			}

			log.Errorf("meta-selector failed: %s", err.Error())
			metrics.TaskFailureCount.WithLabelValues(c.config.Mode, metric).Inc()
			summary.Failures = multierror.Append(summary.Failures, fmt.Errorf("%s %s: %w", metric, row, err))
			columns[MetaColumn][i] = FailureSentinel
		}

		for _, name := range []string{RandomSelectionColumn, ScoreSelectionColumn, GroundTruthColumn, MetaColumn} {
			if err := result.SetColumn(name, columns[name]); err != nil {
				return err
			}
		}

		if err := c.storage.CreateComparison(metric, fileTag(c.config.Mode), result); err != nil {
			return err
		}
	}

	return nil
}

func (c *Comparison) evaluate(metric, dataset string, la int) (float64, error) {
	selection, err := c.meta.selectFor(metric, dataset, la)
	if err != nil {
		return 0, err
	}

	metrics.SelectionRank.WithLabelValues(c.config.Mode, metric).Observe(float64(selection.Rank))
	return selection.Performance, nil
}

// baselines computes the random, score and ground truth selections of dataset
// from the performance tables of la.
func (c *Comparison) baselines(metric, dataset string, la int) (float64, float64, float64, error) {
	train, err := c.column(metric, storage.TrainSplit, dataset, la)
	if err != nil {
		return 0, 0, 0, err
	}

	test, err := c.column(metric, storage.TestSplit, dataset, la)
	if err != nil {
		return 0, 0, 0, err
	}

	if len(train) != len(test) {
		return 0, 0, 0, fmt.Errorf("la %d: train table has %d configurations, test table has %d", la, len(train), len(test))
	}

	return RandomSelection(c.rng, test, len(train)), ScoreSelection(train, test), GroundTruth(test), nil
}

func (c *Comparison) column(metric, split, dataset string, la int) ([]float64, error) {
	t, err := c.storage.Performance(metric, split, la)
	if err != nil {
		return nil, err
	}

	column, err := t.Column(dataset)
	if err != nil {
		if errors.Is(err, table.ErrColumnNotFound) {
			return nil, dferrors.Newf(dferrors.ErrDatasetNotFound, "dataset %s in %s %s table of la %d", dataset, metric, split, la)
		}
		return nil, err
	}

	return column, nil
}

func missing(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}

	return v
}
