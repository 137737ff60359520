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

	"d7y.io/metaod/cmd/dependency"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/metaselector"
	"d7y.io/metaod/metaselector/config"
	"d7y.io/metaod/pkg/dfpath"
	"d7y.io/metaod/version"
)

var (
	metaConfig = config.New()
	metaViper  = viper.New()
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "compare the meta-selector with the baselines",
	Long: `Meta trains a meta predictor for every held-out dataset from the performance tables of the
other datasets and compares its selection with random, training-score and ground-truth baselines.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := metaConfig

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
		if err := logger.InitMeta(cfg.Verbose, cfg.Console, d.LogDir(), logger.LogRotateConfig{
			MaxSize:    cfg.Server.LogMaxSize,
			MaxAge:     cfg.Server.LogMaxAge,
			MaxBackups: cfg.Server.LogMaxBackups,
		}); err != nil {
			return fmt.Errorf("init meta logger: %w", err)
		}

		return runMeta(context.Background(), cfg, d)
	},
}

func init() {
	defaults := config.New()
	flags := metaCmd.Flags()
	flags.String("work-home", defaults.Server.WorkHome, "the work home directory")
	flags.String("result-dir", defaults.Server.ResultDir, "the directory of performance tables, default is <work-home>/result")
	flags.String("dataset-dir", defaults.Server.DatasetDir, "the directory of datasets and meta-features, default is <work-home>/datasets")
	flags.String("mode", defaults.Meta.Mode, "the meta predictor, must be in [two-stage, end-to-end]")
	flags.String("suffix", defaults.Meta.Suffix, "the suffix of performance tables")
	flags.String("grid-mode", defaults.Meta.GridMode, "the grid mode of performance tables")
	flags.Int("grid-size", defaults.Meta.GridSize, "the grid size of performance tables")
	flags.Bool("gan-specific", defaults.Meta.GANSpecific, "read the GAN specific performance tables")
	flags.Bool("export-pool", defaults.Meta.ExportPool, "write the training pool of every held-out dataset")
	flags.Bool("metrics", defaults.Metrics.Enable, "serve prometheus metrics")

	dependency.InitCommandAndConfig(metaCmd, metaViper, metaConfig,
		dependency.Flag{Key: "server.workHome", Name: "work-home"},
		dependency.Flag{Key: "server.resultDir", Name: "result-dir"},
		dependency.Flag{Key: "server.datasetDir", Name: "dataset-dir"},
		dependency.Flag{Key: "meta.mode", Name: "mode"},
		dependency.Flag{Key: "meta.suffix", Name: "suffix"},
		dependency.Flag{Key: "meta.gridMode", Name: "grid-mode"},
		dependency.Flag{Key: "meta.gridSize", Name: "grid-size"},
		dependency.Flag{Key: "meta.ganSpecific", Name: "gan-specific"},
		dependency.Flag{Key: "meta.exportPool", Name: "export-pool"},
		dependency.Flag{Key: "metrics.enable", Name: "metrics"},
	)
}

func runMeta(ctx context.Context, cfg *config.Config, d dfpath.Dfpath) error {
	logger.Infof("version:\n%s", version.Version())

	lock, err := dependency.LockResultDir(d)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svr, err := metaselector.New(ctx, cfg, d)
	if err != nil {
		return err
	}

	dependency.SetupQuitSignalHandler(func() {
		cancel()
		svr.Stop()
	})
	return svr.Serve(ctx)
}
