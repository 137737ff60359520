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

package metaselector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/metaselector/comparison"
	"d7y.io/metaod/metaselector/config"
	"d7y.io/metaod/metaselector/metrics"
	"d7y.io/metaod/metaselector/storage"
	"d7y.io/metaod/metaselector/training"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/dfpath"
)

// ManifestFilePrefix is prefix of run manifest file name.
const ManifestFilePrefix = "meta-run"

// Manifest records one comparison run.
type Manifest struct {
	RunID      string         `yaml:"runID"`
	StartedAt  time.Time      `yaml:"startedAt"`
	FinishedAt time.Time      `yaml:"finishedAt"`
	Tasks      int            `yaml:"tasks"`
	Failed     int            `yaml:"failed"`
	Error      string         `yaml:"error,omitempty"`
	Config     *config.Config `yaml:"config"`
}

type Server struct {
	// Server configuration.
	config *config.Config

	// Run id.
	runID string

	// Result directory.
	resultDir string

	// Metrics server.
	metricsServer *http.Server

	// Storage interface.
	storage storage.Storage

	// Comparison of the meta-selector with the baselines.
	comparison *comparison.Comparison

	// Set once Stop has run.
	stopped *atomic.Bool
}

func New(ctx context.Context, cfg *config.Config, d dfpath.Dfpath) (*Server, error) {
	s := &Server{
		config:    cfg,
		runID:     uuid.NewString(),
		stopped:   atomic.NewBool(false),
		resultDir: d.ResultDir(),
	}

	// Initialize Storage.
	s.storage = storage.New(d.ResultDir(), d.MetaFeatureDir(), storage.Options{
		Suffix:      cfg.Meta.Suffix,
		GridMode:    cfg.Meta.GridMode,
		GridSize:    cfg.Meta.GridSize,
		GANSpecific: cfg.Meta.GANSpecific,
	})

	// Initialize comparison.
	generator := dataset.New(d.DatasetDir())
	c, err := comparison.New(comparison.Config{
		Mode:         cfg.Meta.Mode,
		Metrics:      cfg.Meta.Metrics,
		CandidateLAs: cfg.Meta.CandidateLAs,
		Training:     cfg.Training,
		Seed:         cfg.Meta.Seed,
		ExportPool:   cfg.Meta.ExportPool,
	}, s.storage, comparison.WithSource(func(seed int64) training.SampleSource {
		return training.NewGeneratorSource(generator, seed, cfg.Training.MaxSamples)
	}))
	if err != nil {
		return nil, err
	}
	s.comparison = c

	// Initialize metrics.
	if cfg.Metrics.Enable {
		s.metricsServer = metrics.New(&cfg.Metrics)
	}

	return s, nil
}

// Serve runs the comparison and the metrics server until the comparison ends
// or ctx is canceled.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if s.metricsServer != nil {
		g.Go(func() error {
			logger.Infof("started metrics server at %s", s.metricsServer.Addr)
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server closed unexpect: %w", err)
			}

			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			return s.metricsServer.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		defer cancel()

		log := logger.WithRunID(s.runID)
		log.Infof("start %s comparison", s.config.Meta.Mode)
		manifest := &Manifest{RunID: s.runID, StartedAt: time.Now(), Config: s.config}

		summary, err := s.comparison.Run(gctx)
		manifest.FinishedAt = time.Now()
		if summary != nil {
			manifest.Tasks = summary.Tasks
			manifest.Failed = summary.Failed()
		}
		if err != nil {
			manifest.Error = err.Error()
		}

		if err := s.writeManifest(manifest); err != nil {
			log.Warnf("write manifest: %s", err.Error())
		}

		if err != nil {
			return err
		}

		log.Infof("%s comparison finished in %s", s.config.Meta.Mode, manifest.FinishedAt.Sub(manifest.StartedAt))
		return nil
	})

	return g.Wait()
}

func (s *Server) Stop() {
	if s.stopped.Swap(true) {
		return
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(context.Background()); err != nil {
			logger.Errorf("metrics server failed to stop: %s", err.Error())
		} else {
			logger.Info("metrics server closed under request")
		}
	}
}

func (s *Server) writeManifest(m *Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.resultDir, fmt.Sprintf("%s-%s.yaml", ManifestFilePrefix, s.runID)), out, 0600)
}
