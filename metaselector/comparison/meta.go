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
	"time"

	"d7y.io/metaod/internal/dferrors"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/metaselector/metrics"
	"d7y.io/metaod/metaselector/selector"
	"d7y.io/metaod/metaselector/storage"
	"d7y.io/metaod/metaselector/training"
	"d7y.io/metaod/pkg/table"
)

// SourceFunc returns the dataset samples of an end-to-end fit seeded with seed.
type SourceFunc func(seed int64) training.SampleSource

// meta is the meta predictor of one held-out dataset.
type meta struct {
	mode       string
	storage    storage.Storage
	candidates []int
	config     training.Config
	exportPool bool
	newSource  SourceFunc

	pool     *training.Pool
	twoStage *training.TwoStage
	end2End  *training.End2End
	source   training.SampleSource
}

// fit trains the predictor of target on every other dataset.
func (m *meta) fit(metric, target string, seed int64) error {
	m.pool, m.twoStage, m.end2End, m.source = nil, nil, nil, nil

	start := time.Now()
	metrics.TrainingCount.WithLabelValues(m.mode, metric).Inc()

	pool, err := training.NewBuilder(m.storage, metric, m.candidates).Build(target)
	if err != nil {
		metrics.TrainingFailureCount.WithLabelValues(m.mode, metric).Inc()
		return err
	}

	cfg := m.config
	cfg.Seed = seed

	var history []storage.History
	switch m.mode {
	case training.TwoStageMode:
		m.twoStage, history, err = training.FitTwoStage(pool, cfg)
	case training.End2EndMode:
		if m.newSource == nil {
			return errors.New("end-to-end mode requires a dataset source")
		}
		m.source = m.newSource(seed)
		m.end2End, history, err = training.FitEnd2End(pool, m.source, cfg)
	default:
		return dferrors.Newf(dferrors.ErrUnknownMode, "%q", m.mode)
	}
	if err != nil {
		metrics.TrainingFailureCount.WithLabelValues(m.mode, metric).Inc()
		return err
	}
	m.pool = pool
	metrics.TrainingDuration.WithLabelValues(m.mode, metric).Observe(time.Since(start).Seconds())

	tag := fileTag(m.mode)
	if err := m.storage.CreateHistory(tag, target, history); err != nil {
		logger.Warnf("write %s training history of %s: %s", m.mode, target, err.Error())
	}

	if m.exportPool {
		inst, err := pool.Instances()
		if err != nil {
			return err
		}

		if err := m.storage.CreatePool(tag, target, inst); err != nil {
			logger.Warnf("export %s training pool of %s: %s", m.mode, target, err.Error())
		}
	}

	return nil
}

// selectFor selects the configuration of target at la among those with an
// observed test performance.
func (m *meta) selectFor(metric, target string, la int) (*selector.Selection, error) {
	if m.pool == nil {
		return nil, errors.New("meta predictor is not fitted")
	}

	test, err := m.storage.Performance(metric, storage.TestSplit, la)
	if err != nil {
		return nil, err
	}

	observed, err := test.Column(target)
	if err != nil {
		if errors.Is(err, table.ErrColumnNotFound) {
			return nil, dferrors.Newf(dferrors.ErrDatasetNotFound, "dataset %s in %s test table of la %d", target, metric, la)
		}
		return nil, err
	}

	codes, err := m.pool.Codes(la, test.Rows)
	if err != nil {
		return nil, err
	}

	var q *training.Query
	switch {
	case m.twoStage != nil:
		metaFeature, err := m.storage.MetaFeature(target, la)
		if err != nil {
			return nil, err
		}

		if q, err = m.twoStage.Query(metaFeature, la); err != nil {
			return nil, err
		}
	case m.end2End != nil:
		sample, err := m.source.Sample(target, la)
		if err != nil {
			return nil, err
		}

		if q, err = m.end2End.Query(sample, la); err != nil {
			return nil, err
		}
	}

	return selector.Select(q, codes, observed)
}

// fileTag names the output files of a mode.
func fileTag(mode string) string {
	if mode == training.End2EndMode {
		return "end2end"
	}

	return "twostage"
}
