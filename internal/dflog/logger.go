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

// Package logger holds the process-wide zap loggers. Core events go to
// CoreLogger, per-epoch training output of the meta-selector goes to
// TrainLogger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	CoreLogger  *zap.SugaredLogger
	TrainLogger *zap.SugaredLogger

	coreLogLevelEnabler zapcore.LevelEnabler
	levels              []zap.AtomicLevel
)

func init() {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	log, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1))
	if err == nil {
		sugar := log.Sugar()
		SetCoreLogger(sugar)
		SetTrainLogger(sugar)
	}
	levels = append(levels, config.Level)
}

// SetLevel updates the level of every initialized logger.
func SetLevel(level zapcore.Level) {
	Infof("change log level to %s", level.String())
	for _, l := range levels {
		l.SetLevel(level)
	}
}

func SetCoreLogger(log *zap.SugaredLogger) {
	CoreLogger = log
	coreLogLevelEnabler = log.Desugar().Core()
}

func SetTrainLogger(log *zap.SugaredLogger) {
	TrainLogger = log
}

// FieldLogger logs to CoreLogger with a fixed set of key-value pairs.
type FieldLogger struct {
	fields []any
}

func With(args ...any) *FieldLogger {
	return &FieldLogger{fields: args}
}

func WithRunID(runID string) *FieldLogger {
	return With("runID", runID)
}

// WithExperiment carries the parameters of one sweep iteration.
func WithExperiment(dataset string, la any, seed int64) *FieldLogger {
	return With("dataset", dataset, "la", la, "seed", seed)
}

// WithModel carries one model evaluation of a sweep iteration.
func WithModel(model, dataset string, la any, seed int64) *FieldLogger {
	return WithExperiment(dataset, la, seed).With("model", model)
}

// WithComparison carries one row of a meta-selector comparison.
func WithComparison(metric, dataset string, la any, seed int64) *FieldLogger {
	return WithExperiment(dataset, la, seed).With("metric", metric)
}

func (l *FieldLogger) With(args ...any) *FieldLogger {
	fields := make([]any, 0, len(args)+len(l.fields))
	fields = append(fields, args...)
	return &FieldLogger{fields: append(fields, l.fields...)}
}

func (l *FieldLogger) log(level zapcore.Level, msg string) {
	if !coreLogLevelEnabler.Enabled(level) {
		return
	}

	switch level {
	case zapcore.DebugLevel:
		CoreLogger.Debugw(msg, l.fields...)
	case zapcore.InfoLevel:
		CoreLogger.Infow(msg, l.fields...)
	case zapcore.WarnLevel:
		CoreLogger.Warnw(msg, l.fields...)
	default:
		CoreLogger.Errorw(msg, l.fields...)
	}
}

func (l *FieldLogger) Debugf(template string, args ...any) {
	l.log(zapcore.DebugLevel, fmt.Sprintf(template, args...))
}

func (l *FieldLogger) Info(args ...any) {
	l.log(zapcore.InfoLevel, fmt.Sprint(args...))
}

func (l *FieldLogger) Infof(template string, args ...any) {
	l.log(zapcore.InfoLevel, fmt.Sprintf(template, args...))
}

func (l *FieldLogger) Warnf(template string, args ...any) {
	l.log(zapcore.WarnLevel, fmt.Sprintf(template, args...))
}

func (l *FieldLogger) Errorf(template string, args ...any) {
	l.log(zapcore.ErrorLevel, fmt.Sprintf(template, args...))
}

func (l *FieldLogger) IsDebug() bool {
	return coreLogLevelEnabler.Enabled(zap.DebugLevel)
}

func Debugf(template string, args ...any) {
	CoreLogger.Debugf(template, args...)
}

func Info(args ...any) {
	CoreLogger.Info(args...)
}

func Infof(template string, args ...any) {
	CoreLogger.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	CoreLogger.Warnf(template, args...)
}

func Error(args ...any) {
	CoreLogger.Error(args...)
}

func Errorf(template string, args ...any) {
	CoreLogger.Errorf(template, args...)
}

func IsDebug() bool {
	return coreLogLevelEnabler.Enabled(zap.DebugLevel)
}
