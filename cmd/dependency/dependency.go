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

package dependency

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	logger "d7y.io/metaod/internal/dflog"
	"d7y.io/metaod/pkg/dfpath"
	"d7y.io/metaod/pkg/types"
)

const (
	// EnvPrefix is the environment prefix for viper.
	// Both BindEnv and AutomaticEnv will use this prefix.
	EnvPrefix = "metaod"
)

var (
	// DefaultConfigPath is the path of the config file read when --config is not set.
	DefaultConfigPath = filepath.Join(dfpath.DefaultConfigDir, "metaod.yaml")
)

// Flag binds a command line flag to a config key.
type Flag struct {
	Key  string
	Name string
}

// InitCommandAndConfig registers the flags shared by every command on cmd,
// binds them together with flags to v and decodes flags, environment and
// config file into config before cmd runs.
func InitCommandAndConfig(cmd *cobra.Command, v *viper.Viper, config any, flags ...Flag) {
	flagSet := cmd.Flags()
	flagSet.String("config", DefaultConfigPath, "the path of configuration file with yaml extension name, it can also be set by env var: METAOD_CONFIG")
	flagSet.Bool("console", false, "whether logger output records to the stdout")
	flagSet.Bool("verbose", false, "whether logger use debug level")

	flags = append(flags,
		Flag{Key: "config", Name: "config"},
		Flag{Key: "console", Name: "console"},
		Flag{Key: "verbose", Name: "verbose"},
	)
	for _, f := range flags {
		if err := v.BindPFlag(f.Key, flagSet.Lookup(f.Name)); err != nil {
			panic(fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		// Load config file into the given viper instance.
		if err := readConfigFile(v, cmd); err != nil {
			return fmt.Errorf("read config file: %w", err)
		}

		if err := v.Unmarshal(config, initDecoderConfig); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}

		return nil
	}
}

// readConfigFile reads config file into the given viper instance. If we're
// reading the default configuration file and the file does not exist, nil will
// be returned.
func readConfigFile(v *viper.Viper, cmd *cobra.Command) error {
	v.SetConfigFile(v.GetString("config"))
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		// When the default config file is not found, ignore the error.
		if os.IsNotExist(err) && !cmd.Flag("config").Changed {
			return nil
		}

		return err
	}

	return nil
}

func initDecoderConfig(dc *mapstructure.DecoderConfig) {
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		decodeWithYAML(
			reflect.TypeOf(types.LAModeRatio),
		),
	)
}

// decodeWithYAML returns a mapstructure.DecodeHookFunc to decode the given
// types by unmarshalling from yaml text.
func decodeWithYAML(typs ...reflect.Type) mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data any) (any, error) {
		for _, typ := range typs {
			if t == typ {
				b, err := yaml.Marshal(data)
				if err != nil {
					return nil, err
				}

				v := reflect.New(t)
				if err := yaml.Unmarshal(b, v.Interface()); err != nil {
					return nil, err
				}

				return v.Elem().Interface(), nil
			}
		}

		return data, nil
	}
}

// LockResultDir takes the lock of the result directory so two runs never
// write the same tables.
func LockResultDir(d dfpath.Dfpath) (*flock.Flock, error) {
	lock := flock.New(d.ResultLockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("lock file %s failed, other process is already using %s", d.ResultLockPath(), d.ResultDir())
	}

	return lock, nil
}

// SetupQuitSignalHandler calls handler once on SIGINT or SIGTERM.
func SetupQuitSignalHandler(handler func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	var once sync.Once
	go func() {
		for sig := range signals {
			logger.Infof("receive %s signal", sig)
			once.Do(handler)
		}
	}()
}
