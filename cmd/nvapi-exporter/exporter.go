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
	"fmt"
	"os"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	spec "github.com/NVIDIA/go-nvapi/api/config/v1"
	"github.com/NVIDIA/go-nvapi/internal/info"
	"github.com/NVIDIA/go-nvapi/internal/metrics"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

type exporter struct {
	config *spec.Config
}

// run serves metrics until a signal or a config change arrives. It reports
// whether the exporter should be restarted.
func (e *exporter) run(sigs chan os.Signal, changes <-chan string) (bool, error) {
	lib := nvapi.New(nvapi.WithLibraryPath(e.config.Flags.LibraryPath()))

	log.Info("Loading NVAPI")
	if ret := lib.Init(); ret != nvapi.OK {
		log.Errorf("Failed to initialize NVAPI: %v.", ret)
		log.Errorf("If this is a workstation with an NVIDIA GPU, check that the display driver is installed.")
		if e.config.Flags.ShouldFailOnInitError() {
			return false, fmt.Errorf("failed to initialize NVAPI: %w", ret)
		}
		log.Info("Waiting for a restart.")
		return e.wait(sigs, changes, nil)
	}
	defer func() {
		log.Infof("Shutdown of NVAPI returned: %v", lib.Shutdown())
	}()

	if driver, err := info.DriverVersionString(lib); err != nil {
		log.Warningf("Unable to read driver version: %v", err)
	} else {
		log.Infof("NVIDIA driver %s", driver)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		metrics.NewCollector(lib,
			metrics.WithLogger(log.StandardLogger()),
			metrics.WithCacheTTL(e.config.Flags.PollInterval()),
		),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server := newHTTPServer(*e.config.Flags.Exporter.ListenAddress, *e.config.Flags.Exporter.MetricsPath, registry)
	defer stopHTTP(server)

	serveErrors := make(chan error, 1)
	go func() {
		log.Infof("Serving metrics on %s%s", server.Addr, *e.config.Flags.Exporter.MetricsPath)
		serveErrors <- startHTTP(server)
	}()

	return e.wait(sigs, changes, serveErrors)
}

// wait blocks until the exporter should restart or exit. On SIGHUP or a
// config change it returns true; on all other signals it returns false.
func (e *exporter) wait(sigs chan os.Signal, changes <-chan string, serveErrors <-chan error) (bool, error) {
	for {
		select {
		case file := <-changes:
			log.Infof("inotify: %s changed, restarting.", file)
			return true, nil

		// The server only stops on its own when it cannot listen.
		case err := <-serveErrors:
			return false, err

		case s := <-sigs:
			switch s {
			case syscall.SIGHUP:
				log.Info("Received SIGHUP, restarting.")
				return true, nil
			default:
				log.Infof("Received signal %v, shutting down.", s)
				return false, nil
			}
		}
	}
}
