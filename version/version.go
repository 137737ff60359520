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

package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags at build time.
var (
	Major      = "0"
	Minor      = "1"
	GitVersion = "v0.1.0"
	GitCommit  = "unknown"
	BuildTime  = "unknown"
)

var (
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// Info is the build information of a binary.
type Info struct {
	Major      string `yaml:"major"`
	Minor      string `yaml:"minor"`
	GitVersion string `yaml:"gitVersion"`
	GitCommit  string `yaml:"gitCommit"`
	Platform   string `yaml:"platform"`
	BuildTime  string `yaml:"buildTime"`
	GoVersion  string `yaml:"goVersion"`
}

// Get returns the build information of the running binary.
func Get() Info {
	return Info{
		Major:      Major,
		Minor:      Minor,
		GitVersion: GitVersion,
		GitCommit:  GitCommit,
		Platform:   Platform,
		BuildTime:  BuildTime,
		GoVersion:  GoVersion,
	}
}

// Version returns the build information on one line.
func Version() string {
	return fmt.Sprintf(`Major: %s, Minor: %s, GitVersion: %s, GitCommit: %s, Platform: %s, BuildTime: %s, GoVersion: %s`,
		Major, Minor, GitVersion, GitCommit, Platform, BuildTime, GoVersion)
}
