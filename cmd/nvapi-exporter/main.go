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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	spec "github.com/NVIDIA/go-nvapi/api/config/v1"
	"github.com/NVIDIA/go-nvapi/internal/info"
	"github.com/NVIDIA/go-nvapi/internal/watch"
)

// Config represents a collection of config options for the exporter.
type Config struct {
	configFile string

	// flags stores the CLI flags for later processing.
	flags []cli.Flag
}

func main() {
	config := &Config{}

	c := cli.NewApp()
	c.Name = "NVAPI Exporter"
	c.Usage = "export G-SYNC, GPU and Mosaic state as Prometheus metrics"
	c.Version = info.GetVersionString()
	c.Action = func(ctx *cli.Context) error {
		return start(ctx, config)
	}

	config.flags = []cli.Flag{
		&cli.StringFlag{
			Name:    spec.FlagNvapiLibrary,
			Usage:   "the path of the NVAPI driver DLL; the DLL matching the process architecture is used if unset",
			EnvVars: []string{"NVAPI_LIBRARY"},
		},
		&cli.BoolFlag{
			Name:    spec.FlagFailOnInitError,
			Value:   true,
			Usage:   "fail the exporter if NVAPI cannot be initialized, otherwise wait for a restart",
			EnvVars: []string{"NVAPI_EXPORTER_FAIL_ON_INIT_ERROR", "FAIL_ON_INIT_ERROR"},
		},
		&cli.StringFlag{
			Name:    spec.FlagListenAddress,
			Value:   spec.DefaultListenAddress,
			Usage:   "the address to serve metrics on",
			EnvVars: []string{"NVAPI_EXPORTER_LISTEN_ADDRESS"},
		},
		&cli.StringFlag{
			Name:    spec.FlagMetricsPath,
			Value:   spec.DefaultMetricsPath,
			Usage:   "the HTTP path metrics are served under",
			EnvVars: []string{"NVAPI_EXPORTER_METRICS_PATH"},
		},
		&cli.DurationFlag{
			Name:    spec.FlagPollInterval,
			Value:   spec.DefaultPollInterval,
			Usage:   "the minimum time between two reads of the driver; scrapes in between are served from cache",
			EnvVars: []string{"NVAPI_EXPORTER_POLL_INTERVAL"},
		},
		&cli.StringFlag{
			Name:        spec.FlagConfigFile,
			Usage:       "the path to a config file as an alternative to command line options or environment variables",
			Destination: &config.configFile,
			EnvVars:     []string{"NVAPI_EXPORTER_CONFIG_FILE", "CONFIG_FILE"},
		},
	}
	c.Flags = config.flags

	if err := c.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func validateFlags(config *spec.Config) error {
	if *config.Flags.Exporter.ListenAddress == "" {
		return fmt.Errorf("invalid --%v option: must not be empty", spec.FlagListenAddress)
	}
	path := *config.Flags.Exporter.MetricsPath
	if !strings.HasPrefix(path, "/") || path == "/" {
		return fmt.Errorf("invalid --%v option %q: must be an absolute path other than /", spec.FlagMetricsPath, path)
	}
	return nil
}

// loadConfig loads the config from the config file, if one is set.
func (cfg *Config) loadConfig(c *cli.Context) (*spec.Config, error) {
	config, err := spec.NewConfig(c, cfg.flags)
	if err != nil {
		return nil, fmt.Errorf("unable to finalize config: %v", err)
	}
	err = validateFlags(config)
	if err != nil {
		return nil, fmt.Errorf("unable to validate flags: %v", err)
	}

	return config, nil
}

func start(c *cli.Context, cfg *Config) error {
	defer func() {
		log.Info("Exiting")
	}()

	log.Info("Starting OS watcher.")
	sigs := watch.Signals(syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var changes <-chan string
	if cfg.configFile != "" {
		log.Info("Starting FS watcher.")
		files, err := watch.Files(log.StandardLogger(), cfg.configFile)
		if err != nil {
			return err
		}
		defer files.Close()
		changes = files.Changes()
	}

	for {
		log.Info("Loading configuration.")
		config, err := cfg.loadConfig(c)
		if err != nil {
			return fmt.Errorf("unable to load config: %v", err)
		}

		configJSON, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %v", err)
		}
		log.Infof("\nRunning with config:\n%v", string(configJSON))

		e := &exporter{config: config}
		restart, err := e.run(sigs, changes)
		if err != nil {
			return err
		}

		if !restart {
			return nil
		}
	}
}
