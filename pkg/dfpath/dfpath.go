/*
 *     Copyright 2020 The Dragonfly Authors
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

//go:generate mockgen -destination mocks/dfpath_mock.go -source dfpath.go -package mocks

package dfpath

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
)

var (
	// DefaultWorkHome is the experiment directory, holding datasets and results.
	DefaultWorkHome = "."

	// DefaultWorkHomeMode is the mode of directories created under the work home.
	DefaultWorkHomeMode = os.FileMode(0700)

	// DefaultConfigDir is the directory of the default config file.
	DefaultConfigDir = "/etc/metaod"
)

// Dfpath is the interface used for init experiment paths.
type Dfpath interface {
	WorkHome() string
	WorkHomeMode() fs.FileMode
	LogDir() string
	ResultDir() string
	DatasetDir() string
	MetaFeatureDir() string
	ResultLockPath() string
}

// dfpath provides init experiment path function.
type dfpath struct {
	workHome       string
	workHomeMode   fs.FileMode
	logDir         string
	resultDir      string
	datasetDir     string
	metaFeatureDir string
	resultLockPath string
}

// Cache of the dfpath.
var cache struct {
	sync.Once
	d   *dfpath
	err *multierror.Error
}

// Option is a functional option for configuring the dfpath.
type Option func(d *dfpath)

// WithWorkHome set the workhome directory.
func WithWorkHome(dir string) Option {
	return func(d *dfpath) {
		d.workHome = dir
	}
}

// WithWorkHomeMode sets the workHome directory mode
func WithWorkHomeMode(mode fs.FileMode) Option {
	return func(d *dfpath) {
		d.workHomeMode = mode
	}
}

// WithLogDir set the log directory.
func WithLogDir(dir string) Option {
	return func(d *dfpath) {
		d.logDir = dir
	}
}

// WithResultDir set the result table directory.
func WithResultDir(dir string) Option {
	return func(d *dfpath) {
		d.resultDir = dir
	}
}

// WithDatasetDir set the dataset directory.
func WithDatasetDir(dir string) Option {
	return func(d *dfpath) {
		d.datasetDir = dir
	}
}

// New returns a new dfpath interface. Directories left unset are placed
// under the work home.
func New(options ...Option) (Dfpath, error) {
	cache.Do(func() {
		d := &dfpath{
			workHome:     DefaultWorkHome,
			workHomeMode: DefaultWorkHomeMode,
		}

		for _, opt := range options {
			opt(d)
		}

		if d.logDir == "" {
			d.logDir = filepath.Join(d.workHome, "logs")
		}

		if d.resultDir == "" {
			d.resultDir = filepath.Join(d.workHome, "result")
		}

		if d.datasetDir == "" {
			d.datasetDir = filepath.Join(d.workHome, "datasets")
		}

		d.metaFeatureDir = filepath.Join(d.datasetDir, "meta-features")
		d.resultLockPath = filepath.Join(d.resultDir, ".metaod.lock")

		// Create workhome directory.
		if err := os.MkdirAll(d.workHome, d.workHomeMode); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		// Create log directory.
		if err := os.MkdirAll(d.logDir, d.workHomeMode); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		// Create result directory.
		if err := os.MkdirAll(d.resultDir, d.workHomeMode); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		cache.d = d
	})

	if cache.err.ErrorOrNil() != nil {
		return nil, cache.err
	}

	d := *cache.d
	return &d, nil
}

func (d *dfpath) WorkHome() string {
	return d.workHome
}

func (d *dfpath) WorkHomeMode() fs.FileMode {
	return d.workHomeMode
}

func (d *dfpath) LogDir() string {
	return d.logDir
}

func (d *dfpath) ResultDir() string {
	return d.resultDir
}

func (d *dfpath) DatasetDir() string {
	return d.datasetDir
}

func (d *dfpath) MetaFeatureDir() string {
	return d.metaFeatureDir
}

func (d *dfpath) ResultLockPath() string {
	return d.resultLockPath
}
