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

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInitMeta(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	assert.NoError(InitMeta(false, false, dir, DefaultLogRotateConfig()))
	WithComparison("AUCPR", "abalone", 5, 1).Infof("train %s", "done")
	TrainLogger.Infof("epoch %d", 1)
	assert.NoError(CoreLogger.Sync())
	assert.NoError(TrainLogger.Sync())

	core, err := os.ReadFile(filepath.Join(dir, "meta", CoreLogFileName))
	assert.NoError(err)
	assert.True(strings.Contains(string(core), `"dataset":"abalone"`))
	assert.True(strings.Contains(string(core), `"metric":"AUCPR"`))
	assert.True(strings.Contains(string(core), "train done"))

	train, err := os.ReadFile(filepath.Join(dir, "meta", TrainLogFileName))
	assert.NoError(err)
	assert.True(strings.Contains(string(train), "epoch 1"))
}

func TestSetLevel(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	assert.NoError(InitBenchmark(false, false, dir, DefaultLogRotateConfig()))
	assert.False(IsDebug())

	SetLevel(zapcore.DebugLevel)
	assert.True(IsDebug())
	assert.True(WithExperiment("abalone", 0.0, 1).IsDebug())
}

func TestInitConsole(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(InitBenchmark(true, true, t.TempDir(), DefaultLogRotateConfig()))
	assert.True(IsDebug())
}

func TestFieldLogger_With(t *testing.T) {
	assert := assert.New(t)
	l := WithModel("IForest", "wine", "0.0", 2).With("trial", 3)
	assert.Equal([]any{"trial", 3, "model", "IForest", "dataset", "wine", "la", "0.0", "seed", int64(2)}, l.fields)
}
