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

package logger

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	benchmarkLogDirName = "benchmark"
	metaLogDirName      = "meta"
)

// logFiles maps a log directory to the file of each of its loggers.
var logFiles = map[string]map[string]func(*zap.SugaredLogger){
	benchmarkLogDirName: {
		CoreLogFileName: SetCoreLogger,
	},
	metaLogDirName: {
		CoreLogFileName:  SetCoreLogger,
		TrainLogFileName: SetTrainLogger,
	},
}

// InitBenchmark initializes the loggers of the benchmark sweep.
func InitBenchmark(verbose, console bool, dir string, rotate LogRotateConfig) error {
	return initLoggers(benchmarkLogDirName, verbose, console, dir, rotate)
}

// InitMeta initializes the loggers of the meta-selector. Training progress is
// split into its own file.
func InitMeta(verbose, console bool, dir string, rotate LogRotateConfig) error {
	return initLoggers(metaLogDirName, verbose, console, dir, rotate)
}

func initLoggers(name string, verbose, console bool, dir string, rotate LogRotateConfig) error {
	files, ok := logFiles[name]
	if !ok {
		return fmt.Errorf("unknown log directory %s", name)
	}

	levels = nil
	if console {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		if verbose {
			config.Level.SetLevel(zap.DebugLevel)
		}

		log, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1))
		if err != nil {
			return err
		}

		for _, set := range files {
			set(log.Sugar())
		}
		SetTrainLogger(log.Sugar())
		levels = append(levels, config.Level)
		return nil
	}

	logDir := filepath.Join(dir, name)
	for fileName, set := range files {
		log, level, err := CreateLogger(filepath.Join(logDir, fileName), verbose, rotate)
		if err != nil {
			return err
		}

		set(log.Sugar())
		levels = append(levels, level)
	}

	// The benchmark has no training output of its own.
	if _, ok := files[TrainLogFileName]; !ok {
		SetTrainLogger(CoreLogger)
	}

	return nil
}
