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

package training

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/floats"

	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/metaselector/storage"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/scaler"
)

const (
	// TwoStageMode trains on precomputed meta-features.
	TwoStageMode = "two-stage"

	// End2EndMode learns the meta-feature from raw dataset samples.
	End2EndMode = "end-to-end"
)

// Query scores configurations for one bound target dataset and la.
type Query struct {
	network     *Network
	metaFeature []float64
	la          float64
}

// Score predicts the performance of every encoded configuration.
func (q *Query) Score(codes [][]int) ([]float64, error) {
	scores := make([]float64, len(codes))
	for i, components := range codes {
		if len(components) != len(q.network.embeddings) {
			return nil, fmt.Errorf("configuration %d has %d components, expected %d", i, len(components), len(q.network.embeddings))
		}

		for k, code := range components {
			if code < 0 || code >= q.network.embeddings[k].size {
				return nil, fmt.Errorf("configuration %d: code %d out of embedding range %d", i, code, q.network.embeddings[k].size)
			}
		}

		_, scores[i] = q.network.Forward(Input{MetaFeature: q.metaFeature, LA: q.la, Components: components})
	}

	return scores, nil
}

// TwoStage is a predictor fitted on precomputed meta-features.
type TwoStage struct {
	// Pool is the training pool the predictor was fitted on.
	Pool *Pool

	// Eval is the fit quality on the pool.
	Eval *Eval

	metaFeatureScaler *scaler.MinMax
	laScaler          *scaler.MinMax
	network           *Network
}

// FitTwoStage fits a predictor on pool and returns it with its history.
func FitTwoStage(pool *Pool, cfg Config) (*TwoStage, []storage.History, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	mfScaler, err := scaler.Fit(pool.MetaFeatures())
	if err != nil {
		return nil, nil, fmt.Errorf("fit meta-feature scaler: %w", err)
	}

	laScaler, err := scaler.FitValues(pool.LAs())
	if err != nil {
		return nil, nil, fmt.Errorf("fit la scaler: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m := &TwoStage{
		Pool:              pool,
		metaFeatureScaler: mfScaler,
		laScaler:          laScaler,
		network:           NewNetwork(mfScaler.Width(), pool.Cardinalities, cfg, rng),
	}

	inputs := make([]Input, len(pool.Examples))
	for i, e := range pool.Examples {
		inputs[i] = Input{
			MetaFeature: mfScaler.Transform(e.MetaFeature),
			LA:          laScaler.TransformValue(float64(e.LA)),
			Components:  e.Components,
		}
	}
	target := pool.Performances()

	history, err := fit(TwoStageMode, cfg, [][]int{sequence(len(inputs))}, rng, m.network.params(), func(_ int, batch []int) float64 {
		var loss float64
		for _, i := range batch {
			t := m.network.forward(inputs[i])
			diff := t.pred - target[i]
			loss += diff * diff
			m.network.backward(inputs[i], t, 2*diff/float64(len(batch)))
		}

		return loss
	})
	if err != nil {
		return nil, nil, err
	}

	preds := make([]float64, len(inputs))
	for i, in := range inputs {
		_, preds[i] = m.network.Forward(in)
	}

	if m.Eval, err = Evaluate(preds, target); err != nil {
		return nil, nil, err
	}

	logger.TrainLogger.Infof("%s predictor for %s: MAE %.4f, MSE %.4f, RMSE %.4f, R2 %.4f",
		TwoStageMode, pool.Target, m.Eval.MAE, m.Eval.MSE, m.Eval.RMSE, m.Eval.R2)
	return m, history, nil
}

// Query binds the predictor to a raw meta-feature vector and an la.
func (m *TwoStage) Query(metaFeature []float64, la int) (*Query, error) {
	if len(metaFeature) != m.metaFeatureScaler.Width() {
		return nil, fmt.Errorf("meta-feature has %d entries, expected %d", len(metaFeature), m.metaFeatureScaler.Width())
	}

	return &Query{
		network:     m.network,
		metaFeature: m.metaFeatureScaler.Transform(FillNaN(metaFeature)),
		la:          m.laScaler.TransformValue(float64(la)),
	}, nil
}

// SampleSource provides the raw training sample of a dataset at an la.
type SampleSource interface {
	Sample(dataset string, la int) (*Sample, error)
}

type sampleKey struct {
	dataset string
	la      int
}

type generatorSource struct {
	generator  *dataset.Generator
	seed       int64
	maxSamples int
	samples    map[sampleKey]*Sample
}

// NewGeneratorSource generates samples with la labeled anomalies and caches them.
func NewGeneratorSource(g *dataset.Generator, seed int64, maxSamples int) SampleSource {
	return &generatorSource{
		generator:  g,
		seed:       seed,
		maxSamples: maxSamples,
		samples:    make(map[sampleKey]*Sample),
	}
}

func (s *generatorSource) Sample(name string, la int) (*Sample, error) {
	key := sampleKey{dataset: name, la: la}
	if sample, ok := s.samples[key]; ok {
		return sample, nil
	}

	data, err := s.generator.Generate(name, dataset.Count(la), s.seed, false)
	if err != nil {
		return nil, err
	}

	sample, err := NewSample(data, s.maxSamples, rand.New(rand.NewSource(s.seed)))
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}

	s.samples[key] = sample
	return sample, nil
}

// End2End is a predictor whose meta-feature is learned from dataset samples.
type End2End struct {
	// Pool is the training pool the predictor was fitted on.
	Pool *Pool

	// Eval is the fit quality on the pool.
	Eval *Eval

	laScaler       *scaler.MinMax
	representation *representation
	network        *Network
}

// FitEnd2End fits a predictor on pool with samples drawn from source. Pool
// datasets without a sample are skipped.
func FitEnd2End(pool *Pool, source SampleSource, cfg Config) (*End2End, []storage.History, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		keys    []sampleKey
		groups  [][]int
		samples []*Sample
	)
	index := make(map[sampleKey]int)
	skipped := make(map[sampleKey]bool)
	for i, e := range pool.Examples {
		key := sampleKey{dataset: e.Dataset, la: e.LA}
		if skipped[key] {
			continue
		}

		g, ok := index[key]
		if !ok {
			sample, err := source.Sample(e.Dataset, e.LA)
			if err != nil {
				logger.With("dataset", e.Dataset, "la", e.LA).Warnf("skip dataset sample: %s", err.Error())
				skipped[key] = true
				continue
			}

			g = len(groups)
			index[key] = g
			keys = append(keys, key)
			groups = append(groups, nil)
			samples = append(samples, sample)
		}
		groups[g] = append(groups[g], i)
	}

	if len(groups) == 0 {
		return nil, nil, errors.New("no dataset sample available for training")
	}

	var las []float64
	for _, key := range keys {
		las = append(las, float64(key.la))
	}
	laScaler, err := scaler.FitValues(las)
	if err != nil {
		return nil, nil, fmt.Errorf("fit la scaler: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m := &End2End{
		Pool:           pool,
		laScaler:       laScaler,
		representation: newRepresentation(cfg, rng),
		network:        NewNetwork(cfg.MetaFeatureSize, pool.Cardinalities, cfg, rng),
	}

	params := append(m.representation.params(), m.network.params()...)
	history, err := fit(End2EndMode, cfg, groups, rng, params, func(g int, batch []int) float64 {
		rt := m.representation.forward(samples[g])
		la := laScaler.TransformValue(float64(keys[g].la))
		dout := make([]float64, cfg.MetaFeatureSize)

		var loss float64
		for _, i := range batch {
			e := pool.Examples[i]
			in := Input{MetaFeature: rt.output, LA: la, Components: e.Components}
			t := m.network.forward(in)
			diff := t.pred - e.Performance
			loss += diff * diff
			floats.Add(dout, m.network.backward(in, t, 2*diff/float64(len(batch))))
		}
		m.representation.backward(samples[g], rt, dout)

		return loss
	})
	if err != nil {
		return nil, nil, err
	}

	var preds, target []float64
	for g, group := range groups {
		q := m.query(samples[g], keys[g].la)
		for _, i := range group {
			e := pool.Examples[i]
			_, pred := m.network.Forward(Input{MetaFeature: q.metaFeature, LA: q.la, Components: e.Components})
			preds = append(preds, pred)
			target = append(target, e.Performance)
		}
	}

	if m.Eval, err = Evaluate(preds, target); err != nil {
		return nil, nil, err
	}

	logger.TrainLogger.Infof("%s predictor for %s on %d samples: MAE %.4f, MSE %.4f, RMSE %.4f, R2 %.4f",
		End2EndMode, pool.Target, len(groups), m.Eval.MAE, m.Eval.MSE, m.Eval.RMSE, m.Eval.R2)
	return m, history, nil
}

// Query binds the predictor to the sample of the target dataset and an la.
func (m *End2End) Query(sample *Sample, la int) (*Query, error) {
	if sample == nil || len(sample.X) == 0 || len(sample.X[0]) == 0 {
		return nil, errors.New("empty dataset sample")
	}

	return m.query(sample, la), nil
}

func (m *End2End) query(sample *Sample, la int) *Query {
	return &Query{
		network:     m.network,
		metaFeature: m.representation.forward(sample).output,
		la:          m.laScaler.TransformValue(float64(la)),
	}
}

// fit runs the epochs of a training loop. step accumulates the gradients of a
// mini-batch of group g and returns its summed loss.
func fit(name string, cfg Config, groups [][]int, rng *rand.Rand, params []*param, step func(g int, batch []int) float64) ([]storage.History, error) {
	var w io.Writer = io.Discard
	if cfg.Progress {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(cfg.Epochs,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
	)

	opt := newAdam(cfg.LearningRate)
	history := make([]storage.History, 0, cfg.Epochs)
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		start := time.Now()

		var (
			loss  float64
			seen  int
			count int
		)
		for _, g := range rng.Perm(len(groups)) {
			idx := append([]int(nil), groups[g]...)
			rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

			for _, batch := range batches(idx, cfg.BatchSize) {
				loss += step(g, batch)
				opt.update(params)
				seen += len(batch)
				count++
			}
		}

		mean := loss / float64(seen)
		if math.IsNaN(mean) || math.IsInf(mean, 0) {
			return nil, fmt.Errorf("%s training diverged at epoch %d", name, epoch)
		}

		h := storage.History{
			Epoch:          epoch,
			Loss:           mean,
			Batches:        count,
			DurationMillis: time.Since(start).Milliseconds(),
		}
		history = append(history, h)
		logger.TrainLogger.Debugf("%s epoch %d/%d: loss %.6f over %d batches", name, epoch, cfg.Epochs, h.Loss, h.Batches)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return history, nil
}

// batches cuts idx into mini-batches of size, dropping the last partial
// batch. An idx shorter than size forms a single batch.
func batches(idx []int, size int) [][]int {
	if len(idx) <= size {
		return [][]int{idx}
	}

	out := make([][]int, 0, len(idx)/size)
	for b := 0; b+size <= len(idx); b += size {
		out = append(out, idx[b:b+size])
	}

	return out
}

func sequence(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}
