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

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"d7y.io/metaod/benchmark"
	"d7y.io/metaod/benchmark/config"
	"d7y.io/metaod/cmd/dependency"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/pkg/dfpath"
	"d7y.io/metaod/version"
)

var (
	benchmarkConfig = config.New()
	benchmarkViper  = viper.New()
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "run the detector benchmark sweep",
	Long: `Benchmark evaluates every detector of one family on every dataset, labeled-anomaly and seed
combination and records AUC-ROC, AUC-PR, fit and inference time tables after each evaluation.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := benchmarkConfig

		// Convert config.
		if err := cfg.Convert(); err != nil {
			return err
		}

		// Validate config.
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Initialize dfpath.
		d, err := initDfpath(serverPaths{
			WorkHome:   cfg.Server.WorkHome,
			LogDir:     cfg.Server.LogDir,
			ResultDir:  cfg.Server.ResultDir,
			DatasetDir: cfg.Server.DatasetDir,
		})
		if err != nil {
			return err
		}

		// Initialize logger.
		if err := logger.InitBenchmark(cfg.Verbose, cfg.Console, d.LogDir(), logger.LogRotateConfig{
			MaxSize:    cfg.Server.LogMaxSize,
			MaxAge:     cfg.Server.LogMaxAge,
			MaxBackups: cfg.Server.LogMaxBackups,
		}); err != nil {
			return fmt.Errorf("init benchmark logger: %w", err)
		}

		return runBenchmark(context.Background(), cfg, d)
	},
}

func init() {
	defaults := config.New()
	flags := benchmarkCmd.Flags()
	flags.String("work-home", defaults.Server.WorkHome, "the work home directory")
	flags.String("result-dir", defaults.Server.ResultDir, "the directory receiving result tables, default is <work-home>/result")
	flags.String("dataset-dir", defaults.Server.DatasetDir, "the directory of npz datasets, default is <work-home>/datasets")
	flags.String("suffix", defaults.Benchmark.Suffix, "the suffix of result tables")
	flags.String("family", defaults.Benchmark.Family, "the detector family, must be in [unsupervise, semi-supervise, supervise]")
	flags.String("la-mode", defaults.Benchmark.LAMode.Name(), "sweep ratios (rla) or counts (nla) of labeled anomalies")
	flags.Bool("generate-duplicates", defaults.Benchmark.GenerateDuplicates, "resample datasets smaller than samples threshold instead of dropping them")
	flags.Int("samples-threshold", defaults.Benchmark.SamplesThreshold, "the minimum number of dataset samples")
	flags.Bool("metrics", defaults.Metrics.Enable, "serve prometheus metrics")

	dependency.InitCommandAndConfig(benchmarkCmd, benchmarkViper, benchmarkConfig,
		dependency.Flag{Key: "server.workHome", Name: "work-home"},
		dependency.Flag{Key: "server.resultDir", Name: "result-dir"},
		dependency.Flag{Key: "server.datasetDir", Name: "dataset-dir"},
		dependency.Flag{Key: "benchmark.suffix", Name: "suffix"},
		dependency.Flag{Key: "benchmark.family", Name: "family"},
		dependency.Flag{Key: "benchmark.laMode", Name: "la-mode"},
		dependency.Flag{Key: "benchmark.generateDuplicates", Name: "generate-duplicates"},
		dependency.Flag{Key: "benchmark.samplesThreshold", Name: "samples-threshold"},
		dependency.Flag{Key: "metrics.enable", Name: "metrics"},
	)
}

func runBenchmark(ctx context.Context, cfg *config.Config, d dfpath.Dfpath) error {
	logger.Infof("version:\n%s", version.Version())

	lock, err := dependency.LockResultDir(d)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svr, err := benchmark.New(ctx, cfg, d)
	if err != nil {
		return err
	}

	dependency.SetupQuitSignalHandler(func() {
		cancel()
		svr.Stop()
	})
	return svr.Serve(ctx)
}
