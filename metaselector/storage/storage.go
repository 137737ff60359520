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

//go:generate mockgen -destination mocks/storage_mock.go -source storage.go -package mocks

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/golang/groupcache/lru"
	"github.com/sjwhitworth/golearn/base"

	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/table"
)

const (
	// ResultFilePrefix is prefix of performance table file name.
	ResultFilePrefix = "result"

	// MetaFeatureFilePrefix is prefix of meta-feature file name.
	MetaFeatureFilePrefix = "meta-features"

	// HistoryFilePrefix is prefix of training history file name.
	HistoryFilePrefix = "meta-history"

	// PoolFilePrefix is prefix of exported training pool file name.
	PoolFilePrefix = "meta-pool"

	// CSVFileExt is extension of table file name.
	CSVFileExt = "csv"

	// MetaFeatureKey is the array holding the meta-feature vector.
	MetaFeatureKey = "data"
)

const (
	// TrainSplit names performance tables measured on training data.
	TrainSplit = "train"

	// TestSplit names performance tables measured on test data.
	TestSplit = "test"
)

const (
	defaultCacheSize = 256
)

// History is one epoch of a meta predictor fit.
type History struct {
	// Epoch is the index of the epoch, starting at 1.
	Epoch int `csv:"epoch"`

	// Loss is the mean training loss of the epoch.
	Loss float64 `csv:"loss"`

	// Batches is the number of mini-batches of the epoch.
	Batches int `csv:"batches"`

	// DurationMillis is the wall time of the epoch.
	DurationMillis int64 `csv:"duration_ms"`
}

// Options names the grid of a performance table family.
type Options struct {
	Suffix      string
	GridMode    string
	GridSize    int
	GANSpecific bool
}

// Storage is the interface used for storage.
type Storage interface {
	// Performance returns the performance table of the given metric, split and la.
	Performance(metric, split string, la int) (*table.Table, error)

	// MetaFeature returns the meta-feature vector of the given dataset and la.
	MetaFeature(dataset string, la int) ([]float64, error)

	// SOTA returns the baseline table of the given metric and detector family.
	SOTA(metric, family string) (*table.Table, error)

	// CreateComparison replaces the comparison table of the given metric and mode.
	CreateComparison(metric, mode string, t *table.Table) error

	// CreateHistory replaces the training history of the given mode and dataset.
	CreateHistory(mode, dataset string, history []History) error

	// CreatePool exports the training pool of the given mode and dataset.
	CreatePool(mode, dataset string, pool *base.DenseInstances) error
}

type storage struct {
	resultDir      string
	metaFeatureDir string
	options        Options

	mu           sync.Mutex
	tables       *lru.Cache
	metaFeatures *lru.Cache
}

// New returns a new Storage instance.
func New(resultDir, metaFeatureDir string, options Options) Storage {
	return &storage{
		resultDir:      resultDir,
		metaFeatureDir: metaFeatureDir,
		options:        options,
		tables:         lru.New(defaultCacheSize),
		metaFeatures:   lru.New(defaultCacheSize),
	}
}

// Performance returns the performance table of the given metric, split and la.
// Returned tables are shared and must not be modified.
func (s *storage) Performance(metric, split string, la int) (*table.Table, error) {
	return s.readTable(s.performanceFilename(metric, split, la))
}

// MetaFeature returns the meta-feature vector of the given dataset and la.
func (s *storage) MetaFeature(name string, la int) ([]float64, error) {
	filename := s.metaFeatureFilename(name, la)

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.metaFeatures.Get(filename); ok {
		return append([]float64(nil), v.([]float64)...), nil
	}

	metaFeature, err := dataset.ReadVector(filename, MetaFeatureKey)
	if err != nil {
		return nil, err
	}

	s.metaFeatures.Add(filename, metaFeature)
	return append([]float64(nil), metaFeature...), nil
}

// SOTA returns the baseline table of the given metric and detector family.
func (s *storage) SOTA(metric, family string) (*table.Table, error) {
	return s.readTable(filepath.Join(s.resultDir, fmt.Sprintf("%s-SOTA-%s.%s", metric, family, CSVFileExt)))
}

// CreateComparison replaces the comparison table of the given metric and mode.
func (s *storage) CreateComparison(metric, mode string, t *table.Table) error {
	return t.WriteFile(filepath.Join(s.resultDir, fmt.Sprintf("%s-meta-%s.%s", metric, mode, CSVFileExt)))
}

// CreateHistory replaces the training history of the given mode and dataset.
func (s *storage) CreateHistory(mode, name string, history []History) error {
	file, err := os.OpenFile(s.historyFilename(mode, name), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	return gocsv.MarshalFile(&history, file)
}

// CreatePool exports the training pool of the given mode and dataset.
func (s *storage) CreatePool(mode, name string, pool *base.DenseInstances) error {
	path := s.poolFilename(mode, name)
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(file.Name())

	if err := base.SerializeInstancesToCSVStream(pool, file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(file.Name(), path)
}

func (s *storage) readTable(filename string) (*table.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.tables.Get(filename); ok {
		return v.(*table.Table), nil
	}

	t, err := table.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	s.tables.Add(filename, t)
	return t, nil
}

// performanceFilename generates performance table file name, such as
// result-AUCPR-test-5-small-1000-GAN-False.csv.
func (s *storage) performanceFilename(metric, split string, la int) string {
	name := strings.Join([]string{
		ResultFilePrefix,
		metric,
		split + strings.Join([]string{
			s.options.Suffix,
			strconv.Itoa(la),
			s.options.GridMode,
			strconv.Itoa(s.options.GridSize),
			"GAN",
			pythonBool(s.options.GANSpecific),
		}, "-"),
	}, "-")

	return filepath.Join(s.resultDir, fmt.Sprintf("%s.%s", name, CSVFileExt))
}

// metaFeatureFilename generates meta-feature file name, such as
// meta-features-abalone-5-1.npz.
func (s *storage) metaFeatureFilename(name string, la int) string {
	return filepath.Join(s.metaFeatureDir, fmt.Sprintf("%s-%s-%d-1%s", MetaFeatureFilePrefix, name, la, dataset.Ext))
}

// historyFilename generates training history file name.
func (s *storage) historyFilename(mode, name string) string {
	return filepath.Join(s.resultDir, fmt.Sprintf("%s-%s-%s.%s", HistoryFilePrefix, mode, name, CSVFileExt))
}

// poolFilename generates exported training pool file name, such as
// meta-pool-twostage-abalone.csv.
func (s *storage) poolFilename(mode, name string) string {
	return filepath.Join(s.resultDir, fmt.Sprintf("%s-%s-%s.%s", PoolFilePrefix, mode, name, CSVFileExt))
}

func pythonBool(b bool) string {
	if b {
		return "True"
	}

	return "False"
}
