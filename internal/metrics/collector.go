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

// Package metrics exports the state of G-SYNC boards, GPUs and Mosaic as
// Prometheus metrics. Values are read from the driver when scraped.
package metrics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NVIDIA/go-nvapi/internal/logger"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/gpu"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/gsync"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/mosaic"
)

const namespace = "nvapi"

var (
	gpuInfo = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gpu", "info"),
		"Physical GPU, always 1",
		[]string{"gpu", "name", "vbios"}, nil,
	)
	gpuTemperature = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gpu", "temperature_celsius"),
		"Current temperature of a GPU thermal sensor",
		[]string{"gpu", "sensor", "controller", "target"}, nil,
	)
	gsyncGpuSynced = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "gpu_synced"),
		"Whether the GPU is synced to the G-SYNC board",
		[]string{"device", "gpu"}, nil,
	)
	gsyncGpuStereoSynced = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "gpu_stereo_synced"),
		"Whether the GPU stereo signal is synced to the G-SYNC board",
		[]string{"device", "gpu"}, nil,
	)
	gsyncSignalAvailable = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "sync_signal_available"),
		"Whether a sync signal is available at the GPU",
		[]string{"device", "gpu"}, nil,
	)
	gsyncRefreshRate = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "refresh_rate_hertz"),
		"Refresh rate of the sync signal",
		[]string{"device"}, nil,
	)
	gsyncHouseSyncIncoming = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "house_sync_incoming"),
		"Incoming house sync rate as reported by the board",
		[]string{"device"}, nil,
	)
	gsyncHouseSync = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "house_sync"),
		"Whether a house sync signal is present",
		[]string{"device"}, nil,
	)
	gsyncDisplaySyncState = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "gsync", "display_sync_state"),
		"Sync state of a display: 0 unsynced, 1 slave, 2 master",
		[]string{"device", "display"}, nil,
	)
	mosaicEnabled = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "mosaic", "enabled"),
		"Whether the current Mosaic topology is enabled",
		[]string{"topology"}, nil,
	)
	collectErrors = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "collect_errors"),
		"Number of errors during the last collection",
		nil, nil,
	)
)

// Collector is a prometheus.Collector over an initialized nvapi library.
type Collector struct {
	gsync  gsync.Interface
	gpu    gpu.Interface
	mosaic mosaic.Interface
	logger logger.Interface
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	last    time.Time
	metrics []prometheus.Metric
}

var _ prometheus.Collector = (*Collector)(nil)

// Option defines a function for passing options to the NewCollector() call.
type Option func(*Collector)

// WithLogger sets the logger that collection errors are reported to.
func WithLogger(log logger.Interface) Option {
	return func(c *Collector) {
		c.logger = log
	}
}

// WithCacheTTL makes scrapes within ttl of a collection reuse its values.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Collector) {
		c.ttl = ttl
	}
}

// WithMosaic sets the Mosaic session the collector reads.
func WithMosaic(session mosaic.Interface) Option {
	return func(c *Collector) {
		c.mosaic = session
	}
}

// NewCollector creates a collector for lib.
func NewCollector(lib nvapi.Interface, opts ...Option) *Collector {
	c := &Collector{
		gsync: gsync.New(gsync.WithNvapi(lib)),
		gpu:   gpu.New(gpu.WithNvapi(lib)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mosaic == nil {
		c.mosaic = mosaic.New(mosaic.WithNvapi(lib))
	}
	if c.logger == nil {
		c.logger = logger.ToKlog
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		gpuInfo,
		gpuTemperature,
		gsyncGpuSynced,
		gsyncGpuStereoSynced,
		gsyncSignalAvailable,
		gsyncRefreshRate,
		gsyncHouseSyncIncoming,
		gsyncHouseSync,
		gsyncDisplaySyncState,
		mosaicEnabled,
		collectErrors,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.snapshot() {
		ch <- m
	}
}

func (c *Collector) snapshot() []prometheus.Metric {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.metrics != nil && now.Sub(c.last) < c.ttl {
		return c.metrics
	}

	r := &collection{}
	gpus := c.collectGPUs(r)
	c.collectGSync(r, gpus)
	c.collectMosaic(r)

	count := 0
	if r.errs != nil {
		count = len(r.errs.Errors)
		c.logger.Warningf("error collecting metrics: %v", r.errs)
	}
	r.add(collectErrors, float64(count))

	c.last = now
	c.metrics = r.metrics
	return c.metrics
}

// collection accumulates the metrics and errors of one collection.
type collection struct {
	metrics []prometheus.Metric
	errs    *multierror.Error
}

func (r *collection) add(desc *prometheus.Desc, value float64, labels ...string) {
	r.metrics = append(r.metrics, prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value, labels...))
}

// fail records err. Missing hardware and features the driver lacks are
// not errors for an exporter.
func (r *collection) fail(err error) {
	if nvapi.IsNotFound(err) || nvapi.IsNotSupported(err) {
		return
	}
	r.errs = multierror.Append(r.errs, err)
}

// collectGPUs returns the label of every physical GPU.
func (c *Collector) collectGPUs(r *collection) map[nvapi.PhysicalGpuHandle]string {
	labels := make(map[nvapi.PhysicalGpuHandle]string)

	devices, err := c.gpu.Devices()
	if err != nil {
		r.fail(err)
		return labels
	}
	for i, d := range devices {
		label := strconv.Itoa(i)
		labels[d.Handle()] = label

		name, err := d.FullName()
		if err != nil {
			r.fail(err)
		}
		vbios, err := d.VbiosVersion()
		if err != nil {
			r.fail(err)
		}
		r.add(gpuInfo, 1, label, name, vbios)

		sensors, err := d.ThermalSettings(nvapi.ThermalSensorAll)
		if err != nil {
			r.fail(err)
			continue
		}
		for j, s := range sensors {
			r.add(gpuTemperature, float64(s.CurrentTemp), label, strconv.Itoa(j), s.Controller.String(), s.Target.String())
		}
	}
	return labels
}

func (c *Collector) collectGSync(r *collection, gpus map[nvapi.PhysicalGpuHandle]string) {
	devices, err := c.gsync.Devices()
	if err != nil {
		r.fail(err)
		return
	}
	for i, d := range devices {
		device := strconv.Itoa(i)

		params, err := d.StatusParameters()
		if err != nil {
			r.fail(err)
		} else {
			r.add(gsyncRefreshRate, float64(params.RefreshRate)/100, device)
			r.add(gsyncHouseSyncIncoming, float64(params.HouseSyncIncoming), device)
			r.add(gsyncHouseSync, boolValue(params.HouseSync.Bool()), device)
		}

		topo, err := d.Topology()
		if err != nil {
			r.fail(err)
			continue
		}
		for _, disp := range topo.Displays {
			r.add(gsyncDisplaySyncState, float64(disp.SyncState), device, fmt.Sprintf("0x%08x", disp.DisplayID))
		}
		for j := range topo.GPUs {
			h, ok := topo.GPUs[j].Gpu()
			if !ok {
				continue
			}
			status, err := d.SyncStatus(h)
			if err != nil {
				r.fail(err)
				continue
			}
			label, known := gpus[h]
			if !known {
				label = fmt.Sprintf("%#x", uintptr(h))
			}
			r.add(gsyncGpuSynced, boolValue(status.IsSynced.Bool()), device, label)
			r.add(gsyncGpuStereoSynced, boolValue(status.IsStereoSynced.Bool()), device, label)
			r.add(gsyncSignalAvailable, boolValue(status.IsSyncSignalAvailable.Bool()), device, label)
		}
	}
}

func (c *Collector) collectMosaic(r *collection) {
	current, err := c.mosaic.CurrentTopology()
	if err != nil {
		r.fail(err)
		return
	}
	r.add(mosaicEnabled, boolValue(current.Brief.Enabled.Bool()), current.Brief.Topo.String())
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
