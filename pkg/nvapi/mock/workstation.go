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

package mock

import (
	"fmt"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// DisplayIDs are the monitors of the default workstation. Each GPU drives
// two DisplayPort monitors.
var DisplayIDs = [4]uint32{0x80061082, 0x80061083, 0x80062082, 0x80062083}

// New returns a workstation with two RTX A6000 GPUs, one Quadro Sync II
// board connected to both and four 1080p monitors. Mosaic is supported but
// not configured: every display is its own grid.
func New() *Server {
	s := NewServer()

	for i := 0; i < 2; i++ {
		g := &GPU{
			Handle:       nvapi.PhysicalGpuHandle(0x100 * (i + 1)),
			FullName:     "NVIDIA RTX A6000",
			ShortName:    "GA102",
			VbiosVersion: "94.02.5C.00.02",
			Sensors: []nvapi.ThermalSensorV2{
				{
					Controller:     nvapi.ThermalControllerGpuInternal,
					DefaultMinTemp: 0,
					DefaultMaxTemp: 127,
					CurrentTemp:    int32(45 + 3*i),
					Target:         nvapi.ThermalTargetGpu,
				},
			},
			PolicyInfo: []nvapi.ThermalPolicyInfoEntry{
				{
					Controller:  nvapi.ThermalControllerGpuInternal,
					MinTemp:     65,
					DefaultTemp: 83,
					MaxTemp:     91,
				},
			},
			PolicyStatus: []nvapi.ThermalPolicyStatusEntry{
				{
					Controller: nvapi.ThermalControllerGpuInternal,
					Value:      83 << 8,
				},
			},
		}
		for _, id := range DisplayIDs[2*i : 2*i+2] {
			g.DisplayIds = append(g.DisplayIds, nvapi.GpuDisplayIds{
				Version:       nvapi.GpuDisplayIdsVer,
				ConnectorType: nvapi.MonitorConnectorDP,
				DisplayID:     id,
				Flags:         nvapi.DisplayIdsFlagActive | nvapi.DisplayIdsFlagConnected | nvapi.DisplayIdsFlagOSVisible | nvapi.DisplayIdsFlagPhysicallyConnected,
			})
		}
		// An unused output that is not connected.
		g.DisplayIds = append(g.DisplayIds, nvapi.GpuDisplayIds{
			Version:       nvapi.GpuDisplayIdsVer,
			ConnectorType: nvapi.MonitorConnectorHDMI,
			DisplayID:     0x80060090 + uint32(i)<<12,
		})
		s.GPUs = append(s.GPUs, g)
	}
	s.LogicalGPUs = []nvapi.LogicalGpuHandle{0x5000}

	for i := range DisplayIDs {
		s.Displays = append(s.Displays, &Display{
			Handle: nvapi.DisplayHandle(0x2001 + i),
			Name:   fmt.Sprintf(`\\.\DISPLAY%d`, i+1),
		})
	}

	board := &GSyncDevice{
		Handle: 0x1000,
		Capabilities: nvapi.GSyncCapabilitiesV2{
			Version:          nvapi.GSyncCapabilitiesVer2,
			BoardID:          0x358,
			Revision:         2,
			ExtendedRevision: 1,
		},
		GPUs: []GSyncGpu{
			{GPU: s.GPUs[0], Connector: nvapi.GSyncConnectorPrimary},
			{GPU: s.GPUs[1], Connector: nvapi.GSyncConnectorSecondary},
		},
		Control: nvapi.GSyncControlParams{
			Version:      nvapi.GSyncControlParamsVer,
			Polarity:     nvapi.GSyncPolarityRisingEdge,
			VMode:        nvapi.GSyncVideoModeNone,
			Interval:     1,
			Source:       nvapi.GSyncSyncSourceVSync,
			SyncSkew:     nvapi.GSyncDelay{Version: nvapi.GSyncDelayVer, MaxLines: 1124, MinPixels: 8},
			StartupDelay: nvapi.GSyncDelay{Version: nvapi.GSyncDelayVer, MaxLines: 1124, MinPixels: 8},
		},
		StatusParams: nvapi.GSyncStatusParamsV2{
			Version:     nvapi.GSyncStatusParamsVer2,
			RefreshRate: 6000,
			RJ45IO:      [nvapi.MaxRJ45PerGSync]nvapi.GSyncRJ45IO{nvapi.GSyncRJ45Output, nvapi.GSyncRJ45Unused},
		},
		SyncSignalAvailable: true,
	}
	for _, id := range DisplayIDs {
		d := nvapi.GSyncDisplay{Version: nvapi.GSyncDisplayVer, DisplayID: id}
		d.SetMasterable(true)
		board.Displays = append(board.Displays, d)
	}
	s.GSyncDevices = []*GSyncDevice{board}

	s.Mosaic.Supported = []nvapi.TopoBrief{
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo1x2Basic, IsPossible: 1},
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo2x1Basic, IsPossible: 1},
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo1x4Basic, IsPossible: 1},
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo4x1Basic, IsPossible: 1},
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo2x2Basic, IsPossible: 1},
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo1x2PassiveStereo, IsPossible: 1},
		{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo2x2PassiveStereo, IsPossible: 0},
	}
	s.Mosaic.Settings = []nvapi.DisplaySettingV2{
		{Version: nvapi.DisplaySettingVer2, Width: 1920, Height: 1080, Bpp: 32, Freq: 60, Rrx1k: 60000},
		{Version: nvapi.DisplaySettingVer2, Width: 1920, Height: 1080, Bpp: 32, Freq: 59, Rrx1k: 59940},
		{Version: nvapi.DisplaySettingVer2, Width: 1280, Height: 720, Bpp: 32, Freq: 60, Rrx1k: 60000},
	}
	s.Mosaic.MinOverlapX, s.Mosaic.MaxOverlapX = -256, 256
	s.Mosaic.MinOverlapY, s.Mosaic.MaxOverlapY = -256, 256
	for _, id := range DisplayIDs {
		g := nvapi.NewGridTopoV2()
		g.Rows, g.Columns, g.DisplayCount = 1, 1, 1
		g.Displays[0].DisplayID = id
		g.DisplaySettings = nvapi.DisplaySettingV1{Version: nvapi.DisplaySettingVer1, Width: 1920, Height: 1080, Bpp: 32, Freq: 60}
		s.Mosaic.Grids = append(s.Mosaic.Grids, g)
	}
	s.Mosaic.Legacy = []LegacyTopology{{Rows: 1, Columns: 2}, {Rows: 2, Columns: 1}, {Rows: 2, Columns: 2}}

	return s
}
