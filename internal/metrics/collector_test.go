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

package metrics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi/mock"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Infof(string, ...interface{}) {}

func (l *recordingLogger) Warningf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(string, ...interface{}) {}

func newServer(t *testing.T, s *mock.Server) *mock.Server {
	require.Equal(t, nvapi.OK, s.Init())
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func TestCollectWorkstation(t *testing.T) {
	server := newServer(t, mock.New())
	c := NewCollector(server, WithLogger(&recordingLogger{}))

	expected := `
# HELP nvapi_gpu_temperature_celsius Current temperature of a GPU thermal sensor
# TYPE nvapi_gpu_temperature_celsius gauge
nvapi_gpu_temperature_celsius{controller="GpuInternal",gpu="0",sensor="0",target="Gpu"} 45
nvapi_gpu_temperature_celsius{controller="GpuInternal",gpu="1",sensor="0",target="Gpu"} 48
# HELP nvapi_gpu_info Physical GPU, always 1
# TYPE nvapi_gpu_info gauge
nvapi_gpu_info{gpu="0",name="NVIDIA RTX A6000",vbios="94.02.5C.00.02"} 1
nvapi_gpu_info{gpu="1",name="NVIDIA RTX A6000",vbios="94.02.5C.00.02"} 1
# HELP nvapi_gsync_gpu_synced Whether the GPU is synced to the G-SYNC board
# TYPE nvapi_gsync_gpu_synced gauge
nvapi_gsync_gpu_synced{device="0",gpu="0"} 0
nvapi_gsync_gpu_synced{device="0",gpu="1"} 0
# HELP nvapi_gsync_sync_signal_available Whether a sync signal is available at the GPU
# TYPE nvapi_gsync_sync_signal_available gauge
nvapi_gsync_sync_signal_available{device="0",gpu="0"} 1
nvapi_gsync_sync_signal_available{device="0",gpu="1"} 1
# HELP nvapi_gsync_refresh_rate_hertz Refresh rate of the sync signal
# TYPE nvapi_gsync_refresh_rate_hertz gauge
nvapi_gsync_refresh_rate_hertz{device="0"} 60
# HELP nvapi_gsync_house_sync Whether a house sync signal is present
# TYPE nvapi_gsync_house_sync gauge
nvapi_gsync_house_sync{device="0"} 0
# HELP nvapi_gsync_display_sync_state Sync state of a display: 0 unsynced, 1 slave, 2 master
# TYPE nvapi_gsync_display_sync_state gauge
nvapi_gsync_display_sync_state{device="0",display="0x80061082"} 0
nvapi_gsync_display_sync_state{device="0",display="0x80061083"} 0
nvapi_gsync_display_sync_state{device="0",display="0x80062082"} 0
nvapi_gsync_display_sync_state{device="0",display="0x80062083"} 0
# HELP nvapi_mosaic_enabled Whether the current Mosaic topology is enabled
# TYPE nvapi_mosaic_enabled gauge
nvapi_mosaic_enabled{topology="None"} 0
# HELP nvapi_collect_errors Number of errors during the last collection
# TYPE nvapi_collect_errors gauge
nvapi_collect_errors 0
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"nvapi_gpu_temperature_celsius",
		"nvapi_gpu_info",
		"nvapi_gsync_gpu_synced",
		"nvapi_gsync_sync_signal_available",
		"nvapi_gsync_refresh_rate_hertz",
		"nvapi_gsync_house_sync",
		"nvapi_gsync_display_sync_state",
		"nvapi_mosaic_enabled",
		"nvapi_collect_errors",
	)
	require.NoError(t, err)
}

func TestCollectSyncedBoard(t *testing.T) {
	server := newServer(t, mock.New())
	server.GSyncDevices[0].Displays[0].SyncState = nvapi.DisplaySyncStateMaster
	server.Mosaic.Current = nvapi.MosaicTopo2x2Basic
	server.Mosaic.Enabled = true
	c := NewCollector(server, WithLogger(&recordingLogger{}))

	expected := `
# HELP nvapi_gsync_gpu_synced Whether the GPU is synced to the G-SYNC board
# TYPE nvapi_gsync_gpu_synced gauge
nvapi_gsync_gpu_synced{device="0",gpu="0"} 1
nvapi_gsync_gpu_synced{device="0",gpu="1"} 0
# HELP nvapi_gsync_display_sync_state Sync state of a display: 0 unsynced, 1 slave, 2 master
# TYPE nvapi_gsync_display_sync_state gauge
nvapi_gsync_display_sync_state{device="0",display="0x80061082"} 2
nvapi_gsync_display_sync_state{device="0",display="0x80061083"} 0
nvapi_gsync_display_sync_state{device="0",display="0x80062082"} 0
nvapi_gsync_display_sync_state{device="0",display="0x80062083"} 0
# HELP nvapi_mosaic_enabled Whether the current Mosaic topology is enabled
# TYPE nvapi_mosaic_enabled gauge
nvapi_mosaic_enabled{topology="2x2"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"nvapi_gsync_gpu_synced",
		"nvapi_gsync_display_sync_state",
		"nvapi_mosaic_enabled",
	)
	require.NoError(t, err)
}

func TestCollectErrors(t *testing.T) {
	testCases := []struct {
		description      string
		fail             map[string]nvapi.Status
		expectedErrors   float64
		expectedWarnings int
		absent           string
	}{
		{
			description:      "thermal failure on every GPU",
			fail:             map[string]nvapi.Status{"GpuGetThermalSettings": nvapi.ERROR},
			expectedErrors:   2,
			expectedWarnings: 1,
			absent:           "nvapi_gpu_temperature_celsius",
		},
		{
			description:    "unsupported status parameters are skipped",
			fail:           map[string]nvapi.Status{"GSyncGetStatusParameters": nvapi.NOT_SUPPORTED},
			expectedErrors: 0,
			absent:         "nvapi_gsync_refresh_rate_hertz",
		},
		{
			description:      "mosaic failure",
			fail:             map[string]nvapi.Status{"MosaicGetCurrentTopo": nvapi.ERROR},
			expectedErrors:   1,
			expectedWarnings: 1,
			absent:           "nvapi_mosaic_enabled",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			server := newServer(t, mock.New())
			for method, ret := range tc.fail {
				server.Fail[method] = ret
			}
			log := &recordingLogger{}
			c := NewCollector(server, WithLogger(log))

			registry := prometheus.NewPedanticRegistry()
			require.NoError(t, registry.Register(c))

			families, err := registry.Gather()
			require.NoError(t, err)

			names := make(map[string]float64)
			for _, f := range families {
				names[f.GetName()] = f.GetMetric()[0].GetGauge().GetValue()
			}
			require.NotContains(t, names, tc.absent)
			require.Contains(t, names, "nvapi_gpu_info")
			require.Equal(t, tc.expectedErrors, names["nvapi_collect_errors"])
			require.Len(t, log.warnings, tc.expectedWarnings)
		})
	}
}

func TestCollectNoHardware(t *testing.T) {
	server := newServer(t, mock.NewServer())
	c := NewCollector(server, WithLogger(&recordingLogger{}))

	expected := `
# HELP nvapi_mosaic_enabled Whether the current Mosaic topology is enabled
# TYPE nvapi_mosaic_enabled gauge
nvapi_mosaic_enabled{topology="None"} 0
# HELP nvapi_collect_errors Number of errors during the last collection
# TYPE nvapi_collect_errors gauge
nvapi_collect_errors 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))
}

func TestCollectCache(t *testing.T) {
	server := newServer(t, mock.New())
	c := NewCollector(server, WithLogger(&recordingLogger{}), WithCacheTTL(time.Minute))

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.Equal(t, 19, testutil.CollectAndCount(c))
	require.Equal(t, 19, testutil.CollectAndCount(c))
	require.Equal(t, 1, server.Calls["EnumPhysicalGPUs"])

	now = now.Add(2 * time.Minute)
	require.Equal(t, 19, testutil.CollectAndCount(c))
	require.Equal(t, 2, server.Calls["EnumPhysicalGPUs"])
}
