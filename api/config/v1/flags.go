/**
# Copyright 2024 NVIDIA CORPORATION
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

package v1

import (
	"fmt"
	"time"

	cli "github.com/urfave/cli/v2"
)

// ptr returns a reference to whatever type is passed into it
func ptr[T any](x T) *T {
	return &x
}

// updateFromCLIFlag conditionally updates the config flag at 'pflag' to the value of the CLI flag with name 'flagName'
func updateFromCLIFlag[T any](pflag **T, c *cli.Context, flagName string) {
	if c.IsSet(flagName) || *pflag == (*T)(nil) {
		switch flag := any(pflag).(type) {
		case **string:
			*flag = ptr(c.String(flagName))
		case **bool:
			*flag = ptr(c.Bool(flagName))
		case **Duration:
			*flag = ptr(Duration(c.Duration(flagName)))
		default:
			panic(fmt.Errorf("unsupported flag type for %v: %T", flagName, flag))
		}
	}
}

// Flags holds the full list of flags used to configure the tools.
type Flags struct {
	CommandLineFlags
}

// CommandLineFlags holds the list of command line flags shared by the tools.
type CommandLineFlags struct {
	NvapiLibrary    *string                   `json:"nvapiLibrary,omitempty" yaml:"nvapiLibrary,omitempty"`
	FailOnInitError *bool                     `json:"failOnInitError"        yaml:"failOnInitError"`
	Exporter        *ExporterCommandLineFlags `json:"exporter,omitempty"     yaml:"exporter,omitempty"`
}

// ExporterCommandLineFlags holds the list of command line flags specific to the exporter.
type ExporterCommandLineFlags struct {
	ListenAddress *string   `json:"listenAddress" yaml:"listenAddress"`
	MetricsPath   *string   `json:"metricsPath"   yaml:"metricsPath"`
	PollInterval  *Duration `json:"pollInterval"  yaml:"pollInterval"`
}

// UpdateFromCLIFlags updates Flags from settings in the cli Flags if they are set.
func (f *Flags) UpdateFromCLIFlags(c *cli.Context, flags []cli.Flag) {
	for _, flag := range flags {
		for _, n := range flag.Names() {
			// Common flags
			switch n {
			case FlagNvapiLibrary:
				updateFromCLIFlag(&f.NvapiLibrary, c, n)
			case FlagFailOnInitError:
				updateFromCLIFlag(&f.FailOnInitError, c, n)
			}
			// Exporter specific flags
			switch n {
			case FlagListenAddress, FlagMetricsPath, FlagPollInterval:
				if f.Exporter == nil {
					f.Exporter = &ExporterCommandLineFlags{}
				}
			}
			switch n {
			case FlagListenAddress:
				updateFromCLIFlag(&f.Exporter.ListenAddress, c, n)
			case FlagMetricsPath:
				updateFromCLIFlag(&f.Exporter.MetricsPath, c, n)
			case FlagPollInterval:
				updateFromCLIFlag(&f.Exporter.PollInterval, c, n)
			}
		}
	}
}

// LibraryPath returns the configured NVAPI library path, or "" for the
// default.
func (f *Flags) LibraryPath() string {
	if f.NvapiLibrary == nil {
		return ""
	}
	return *f.NvapiLibrary
}

// ShouldFailOnInitError reports whether a missing driver is fatal.
func (f *Flags) ShouldFailOnInitError() bool {
	return f.FailOnInitError != nil && *f.FailOnInitError
}

// PollInterval returns the exporter poll interval, falling back to
// DefaultPollInterval when it is unset or zero.
func (f *Flags) PollInterval() time.Duration {
	if f.Exporter == nil || f.Exporter.PollInterval == nil || *f.Exporter.PollInterval == 0 {
		return DefaultPollInterval
	}
	return time.Duration(*f.Exporter.PollInterval)
}
