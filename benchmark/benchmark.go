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

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"d7y.io/metaod/benchmark/config"
	"d7y.io/metaod/benchmark/harness"
	"d7y.io/metaod/benchmark/metrics"
	"d7y.io/metaod/benchmark/storage"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/pkg/dataset"
	"d7y.io/metaod/pkg/dfpath"
)

type Server struct {
	// Server configuration.
	config *config.Config

	// Run id.
	runID string

	// Metrics server.
	metricsServer *http.Server

	// Storage interface.
	storage storage.Storage

	// Benchmark harness.
	harness *harness.Harness

	// Set once Stop has run.
	stopped *atomic.Bool
}

func New(ctx context.Context, cfg *config.Config, d dfpath.Dfpath) (*Server, error) {
	s := &Server{
		config:  cfg,
		runID:   uuid.NewString(),
		stopped: atomic.NewBool(false),
	}

	// Initialize Storage.
	s.storage = storage.New(d.ResultDir(), cfg.Benchmark.TableSuffix())

	// Initialize harness.
	generator := dataset.New(d.DatasetDir(),
		dataset.WithGenerateDuplicates(cfg.Benchmark.GenerateDuplicates),
		dataset.WithSamplesThreshold(cfg.Benchmark.SamplesThreshold),
		dataset.WithTestSize(cfg.Benchmark.TestSize),
		dataset.WithMaxSize(cfg.Benchmark.MaxSize),
	)

	var options []harness.Option
	if !cfg.Console {
		options = append(options, harness.WithProgress(os.Stderr))
	}

	h, err := harness.New(&cfg.Benchmark, generator, s.storage, options...)
	if err != nil {
		return nil, err
	}
	s.harness = h

	// Initialize metrics.
	if cfg.Metrics.Enable {
		s.metricsServer = metrics.New(&cfg.Metrics)
	}

	return s, nil
}

// Serve runs the sweep and the metrics server until the sweep ends or ctx is
// canceled.
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
		log.Infof("start %s benchmark", s.config.Benchmark.Family)
		start := time.Now()
		if err := s.harness.Run(gctx); err != nil {
			log.Errorf("benchmark failed: %s", err.Error())
			return err
		}

		log.Infof("%s benchmark finished in %s", s.config.Benchmark.Family, time.Since(start))
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
