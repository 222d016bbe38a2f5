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
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const connectionTimeout = 10 * time.Second

const landingPage = `<html>
<head><title>NVAPI Exporter</title></head>
<body>
<h1>NVAPI Exporter</h1>
<p><a href="%s">Metrics</a></p>
</body>
</html>
`

func newHTTPServer(addr string, metricsPath string, gatherer prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()

	s := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  connectionTimeout,
		WriteTimeout: connectionTimeout,
	}

	mux.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:      log.StandardLogger(),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, landingPage, metricsPath)
	})
	return s
}

func startHTTP(s *http.Server) error {
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error listening for requests at %v: %w", s.Addr, err)
	}
	return nil
}

func stopHTTP(s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Errorf("error shutting down the http server: %v", err)
	} else {
		log.Info("http server stopped")
	}
}
