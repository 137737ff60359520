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
	"os"

	"github.com/spf13/cobra"

	"d7y.io/metaod/cmd/dependency"
	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/pkg/dfpath"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "metaod",
	Short: "anomaly detection benchmark and meta-selector",
	Long: `metaod benchmarks anomaly detectors over labeled-anomaly sweeps and trains a meta predictor
selecting the detection pipeline expected to perform best on an unseen dataset.`,
	Args:              cobra.NoArgs,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(benchmarkCmd, metaCmd, dependency.VersionCmd)
}

type serverPaths struct {
	WorkHome   string
	LogDir     string
	ResultDir  string
	DatasetDir string
}

func initDfpath(paths serverPaths) (dfpath.Dfpath, error) {
	var options []dfpath.Option
	if paths.WorkHome != "" {
		options = append(options, dfpath.WithWorkHome(paths.WorkHome))
	}

	if paths.LogDir != "" {
		options = append(options, dfpath.WithLogDir(paths.LogDir))
	}

	if paths.ResultDir != "" {
		options = append(options, dfpath.WithResultDir(paths.ResultDir))
	}

	if paths.DatasetDir != "" {
		options = append(options, dfpath.WithDatasetDir(paths.DatasetDir))
	}

	return dfpath.New(options...)
}
