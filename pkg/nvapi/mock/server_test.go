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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

func newInitialized(t *testing.T) *Server {
	s := New()
	require.Equal(t, nvapi.OK, s.Init())
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func grid2x2() nvapi.GridTopoV2 {
	g := nvapi.NewGridTopoV2()
	g.Rows, g.Columns, g.DisplayCount = 2, 2, 4
	for i, id := range DisplayIDs {
		g.Displays[i].DisplayID = id
	}
	g.DisplaySettings = nvapi.DisplaySettingV1{Version: nvapi.DisplaySettingVer1, Width: 1920, Height: 1080, Bpp: 32, Freq: 60}
	return g
}

func connectedDisplayIds(s *Server, gpu nvapi.PhysicalGpuHandle) ([]nvapi.GpuDisplayIds, error) {
	return nvapi.Enumerate(
		func(n *uint32) nvapi.Status { return s.GpuGetConnectedDisplayIds(gpu, nil, n, 0) },
		func(buf []nvapi.GpuDisplayIds, n *uint32) nvapi.Status {
			return s.GpuGetConnectedDisplayIds(gpu, buf, n, 0)
		},
		func(d *nvapi.GpuDisplayIds) { d.Version = nvapi.GpuDisplayIdsVer },
	)
}

func TestInitShutdown(t *testing.T) {
	s := New()

	_, ret := s.GetInterfaceVersionString()
	require.Equal(t, nvapi.API_NOT_INITIALIZED, ret)

	require.Equal(t, nvapi.OK, s.Init())
	require.True(t, s.Initialized())
	version, ret := s.GetInterfaceVersionString()
	require.Equal(t, nvapi.OK, ret)
	require.Equal(t, "NVidia Complete Version 1.10", version)

	require.Equal(t, nvapi.OK, s.Shutdown())
	require.False(t, s.Initialized())
	require.Equal(t, nvapi.API_NOT_INITIALIZED, s.Shutdown())
}

func TestFailInjection(t *testing.T) {
	s := newInitialized(t)
	s.Fail["GSyncEnumSyncDevices"] = nvapi.NO_IMPLEMENTATION

	var handles [nvapi.MaxGSyncDevices]nvapi.GSyncDeviceHandle
	var count uint32
	require.Equal(t, nvapi.NO_IMPLEMENTATION, s.GSyncEnumSyncDevices(&handles, &count))
	require.Equal(t, 1, s.Calls["GSyncEnumSyncDevices"])
}

func TestDisplayIds(t *testing.T) {
	s := newInitialized(t)

	ids, err := connectedDisplayIds(s, s.GPUs[0].Handle)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, DisplayIDs[0], ids[0].DisplayID)
	require.True(t, ids[1].IsConnected())

	all, err := nvapi.Enumerate(
		func(n *uint32) nvapi.Status { return s.GpuGetAllDisplayIds(s.GPUs[1].Handle, nil, n) },
		func(buf []nvapi.GpuDisplayIds, n *uint32) nvapi.Status {
			return s.GpuGetAllDisplayIds(s.GPUs[1].Handle, buf, n)
		},
		func(d *nvapi.GpuDisplayIds) { d.Version = nvapi.GpuDisplayIdsVer },
	)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.False(t, all[2].IsConnected())
}

func TestDisplayIdsGrowBetweenCountAndFill(t *testing.T) {
	s := newInitialized(t)
	gpu := s.GPUs[0]
	grown := false
	s.AfterCount = func(method string) {
		if grown {
			return
		}
		grown = true
		gpu.DisplayIds = append(gpu.DisplayIds, nvapi.GpuDisplayIds{
			Version:   nvapi.GpuDisplayIdsVer,
			DisplayID: 0x80061084,
			Flags:     nvapi.DisplayIdsFlagConnected,
		})
	}

	ids, err := connectedDisplayIds(s, gpu.Handle)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	require.Equal(t, 4, s.Calls["GpuGetConnectedDisplayIds"])
}

func TestDisplayIdsRequireTags(t *testing.T) {
	s := newInitialized(t)
	buf := make([]nvapi.GpuDisplayIds, 2)
	n := uint32(len(buf))
	require.Equal(t, nvapi.INCOMPATIBLE_STRUCT_VERSION, s.GpuGetConnectedDisplayIds(s.GPUs[0].Handle, buf, &n, 0))

	n = 5
	require.Equal(t, nvapi.INVALID_ARGUMENT, s.GpuGetConnectedDisplayIds(s.GPUs[0].Handle, buf, &n, 0))
}

func TestRejectedVersionFallsBack(t *testing.T) {
	s := newInitialized(t)
	s.RejectVersions[nvapi.GSyncCapabilitiesVer2] = true
	board := s.GSyncDevices[0].Handle

	var caps nvapi.GSyncCapabilitiesV2
	err := nvapi.WithVersionFallback(
		func() error {
			caps = nvapi.GSyncCapabilitiesV2{Version: nvapi.GSyncCapabilitiesVer2}
			return s.GSyncQueryCapabilities(board, &caps).Err()
		},
		func() error {
			v1 := nvapi.GSyncCapabilitiesV1{Version: nvapi.GSyncCapabilitiesVer1}
			if err := s.GSyncQueryCapabilitiesV1(board, &v1).Err(); err != nil {
				return err
			}
			caps = v1.Upgrade()
			return nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, uint32(0x358), caps.BoardID)
	require.Zero(t, caps.ExtendedRevision)
	require.Equal(t, 1, s.Calls["GSyncQueryCapabilities"])
	require.Equal(t, 1, s.Calls["GSyncQueryCapabilitiesV1"])
}

func TestModeSetInvalidatesHandles(t *testing.T) {
	s := newInitialized(t)
	s.InvalidateHandlesOnModeSet = true
	old := s.GPUs[0].Handle

	grids := []nvapi.GridTopoV2{grid2x2()}
	require.Equal(t, nvapi.OK, s.MosaicSetDisplayGrids(grids, 0))
	require.Equal(t, 1, s.ModeSets)

	var name nvapi.ShortString
	ret := s.GpuGetFullName(old, &name)
	require.Equal(t, nvapi.HANDLE_INVALIDATED, ret)
	require.True(t, nvapi.IsStale(ret))

	var handles [nvapi.MaxPhysicalGpus]nvapi.PhysicalGpuHandle
	var count uint32
	require.Equal(t, nvapi.OK, s.EnumPhysicalGPUs(&handles, &count))
	require.Equal(t, uint32(2), count)
	require.NotEqual(t, old, handles[0])
	require.Equal(t, nvapi.OK, s.GpuGetFullName(handles[0], &name))
	require.Equal(t, "NVIDIA RTX A6000", name.String())

	require.Equal(t, nvapi.EXPECTED_PHYSICAL_GPU_HANDLE, s.GpuGetFullName(0x4242, &name))
}

func TestGSyncSyncState(t *testing.T) {
	s := newInitialized(t)
	board := s.GSyncDevices[0].Handle

	topology := func() ([]nvapi.GSyncGpu, []nvapi.GSyncDisplay) {
		gpus, displays, err := nvapi.Enumerate2(
			func(a, b *uint32) nvapi.Status { return s.GSyncGetTopology(board, a, nil, b, nil) },
			func(a []nvapi.GSyncGpu, na *uint32, b []nvapi.GSyncDisplay, nb *uint32) nvapi.Status {
				return s.GSyncGetTopology(board, na, a, nb, b)
			},
			func(g *nvapi.GSyncGpu) { g.Version = nvapi.GSyncGpuVer },
			func(d *nvapi.GSyncDisplay) { d.Version = nvapi.GSyncDisplayVer },
		)
		require.NoError(t, err)
		return gpus, displays
	}

	gpus, displays := topology()
	require.Len(t, gpus, 2)
	require.Len(t, displays, 4)
	require.False(t, gpus[0].IsSynced())

	displays[0].SyncState = nvapi.DisplaySyncStateMaster
	for i := 1; i < len(displays); i++ {
		displays[i].SyncState = nvapi.DisplaySyncStateSlave
	}
	require.Equal(t, nvapi.OK, s.GSyncSetSyncStateSettings(displays, 0))

	gpus, displays = topology()
	require.True(t, gpus[0].IsSynced())
	require.True(t, gpus[1].IsSynced())
	require.Equal(t, nvapi.DisplaySyncStateMaster, displays[0].SyncState)

	status := nvapi.GSyncStatus{Version: nvapi.GSyncStatusVer}
	require.Equal(t, nvapi.OK, s.GSyncGetSyncStatus(board, s.GPUs[1].Handle, &status))
	require.True(t, status.IsSynced.Bool())
	require.True(t, status.IsSyncSignalAvailable.Bool())

	displays[1].SyncState = nvapi.DisplaySyncStateMaster
	require.Equal(t, nvapi.INVALID_SYNC_TOPOLOGY, s.GSyncSetSyncStateSettings(displays, 0))

	unknown := []nvapi.GSyncDisplay{{Version: nvapi.GSyncDisplayVer, DisplayID: 0x1234}}
	require.Equal(t, nvapi.INVALID_ARGUMENT, s.GSyncSetSyncStateSettings(unknown, 0))

	require.Equal(t, nvapi.OK, s.GSyncSetSyncStateSettings(nil, 0))
	gpus, _ = topology()
	require.False(t, gpus[0].IsSynced())
}

func TestGSyncControlParameters(t *testing.T) {
	s := newInitialized(t)
	board := s.GSyncDevices[0].Handle

	params := nvapi.NewGSyncControlParams()
	require.Equal(t, nvapi.OK, s.GSyncGetControlParameters(board, &params))
	require.Equal(t, uint32(1124), params.SyncSkew.MaxLines)

	params.SyncSkew.NumLines = 10
	params.SyncSkew.NumPixels = 13
	params.Source = nvapi.GSyncSyncSourceHouseSync
	require.Equal(t, nvapi.OK, s.GSyncSetControlParameters(board, &params))
	require.Equal(t, uint32(8), params.SyncSkew.NumPixels)
	require.Equal(t, nvapi.GSyncSyncSourceHouseSync, s.GSyncDevices[0].Control.Source)

	params.StartupDelay.NumLines = 5000
	require.Equal(t, nvapi.INVALID_ARGUMENT, s.GSyncSetControlParameters(board, &params))

	bad := nvapi.NewGSyncControlParams()
	bad.SyncSkew.Version = 0
	require.Equal(t, nvapi.INCOMPATIBLE_STRUCT_VERSION, s.GSyncGetControlParameters(board, &bad))
}

func TestGSyncAdjustSyncDelay(t *testing.T) {
	s := newInitialized(t)
	board := s.GSyncDevices[0].Handle

	delay := nvapi.GSyncDelay{Version: nvapi.GSyncDelayVer, NumLines: 1, NumPixels: 20}
	var steps uint32
	require.Equal(t, nvapi.OK, s.GSyncAdjustSyncDelay(board, nvapi.GSyncDelayTypeSyncSkew, &delay, &steps))
	require.Equal(t, uint32(16), delay.NumPixels)
	require.Equal(t, uint32(8), delay.MinPixels)
	require.Equal(t, uint32((2200+16)/8), steps)

	require.Equal(t, nvapi.INVALID_ARGUMENT, s.GSyncAdjustSyncDelay(board, nvapi.GSyncDelayTypeUnknown, &delay, &steps))
	require.Equal(t, nvapi.INVALID_HANDLE, s.GSyncAdjustSyncDelay(0x9999, nvapi.GSyncDelayTypeSyncSkew, &delay, &steps))
}

func TestMosaicSupportedTopoInfo(t *testing.T) {
	s := newInitialized(t)

	info := nvapi.NewSupportedTopoInfoV2()
	require.Equal(t, nvapi.OK, s.MosaicGetSupportedTopoInfo(info, nvapi.MosaicTopoTypeBasic))
	require.Len(t, info.Briefs(), 5)
	require.Len(t, info.Settings(), 3)

	require.Equal(t, nvapi.OK, s.MosaicGetSupportedTopoInfo(info, nvapi.MosaicTopoTypePassiveStereo))
	require.Len(t, info.Briefs(), 2)

	require.Equal(t, nvapi.OK, s.MosaicGetSupportedTopoInfo(info, nvapi.MosaicTopoTypeScaledClone))
	require.Empty(t, info.Briefs())
	require.Empty(t, info.Settings())

	v1 := nvapi.NewSupportedTopoInfoV1()
	require.Equal(t, nvapi.OK, s.MosaicGetSupportedTopoInfoV1(v1, nvapi.MosaicTopoTypeAll))
	require.Equal(t, uint32(7), v1.TopoBriefsCount)
	require.Equal(t, nvapi.DisplaySettingVer1, v1.DisplaySettings[0].Version)
	require.Equal(t, uint32(1920), v1.DisplaySettings[0].Width)
}

func TestMosaicCurrentTopo(t *testing.T) {
	s := newInitialized(t)

	brief := nvapi.TopoBrief{Version: nvapi.TopoBriefVer}
	setting := nvapi.DisplaySettingV2{Version: nvapi.DisplaySettingVer2}
	var ox, oy int32
	require.Equal(t, nvapi.OK, s.MosaicGetCurrentTopo(&brief, &setting, &ox, &oy))
	require.Equal(t, nvapi.MosaicTopoNone, brief.Topo)
	require.Equal(t, nvapi.TOPO_NOT_POSSIBLE, s.MosaicEnableCurrentTopo(true))

	brief = nvapi.TopoBrief{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo1x2Basic}
	setting = s.Mosaic.Settings[0]
	require.Equal(t, nvapi.OK, s.MosaicSetCurrentTopo(&brief, &setting, 10, 0, true))
	require.Equal(t, 1, s.ModeSets)

	got := nvapi.TopoBrief{Version: nvapi.TopoBriefVer}
	gotSetting := nvapi.DisplaySettingV1{Version: nvapi.DisplaySettingVer1}
	require.Equal(t, nvapi.OK, s.MosaicGetCurrentTopoV1(&got, &gotSetting, &ox, &oy))
	require.Equal(t, nvapi.MosaicTopo1x2Basic, got.Topo)
	require.True(t, got.Enabled.Bool())
	require.Equal(t, int32(10), ox)
	require.Equal(t, uint32(1920), gotSetting.Width)

	require.Equal(t, nvapi.OK, s.MosaicEnableCurrentTopo(false))
	require.False(t, s.Mosaic.Enabled)

	impossible := nvapi.TopoBrief{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo2x2PassiveStereo}
	require.Equal(t, nvapi.TOPO_NOT_POSSIBLE, s.MosaicSetCurrentTopo(&impossible, &setting, 0, 0, true))
	require.Equal(t, nvapi.INVALID_ARGUMENT, s.MosaicSetCurrentTopo(&brief, &setting, 1000, 0, true))
}

func TestMosaicTopoGroup(t *testing.T) {
	s := newInitialized(t)

	brief := nvapi.TopoBrief{Version: nvapi.TopoBriefVer, Topo: nvapi.MosaicTopo2x2Basic}
	group := nvapi.NewTopoGroup()
	require.Equal(t, nvapi.OK, s.MosaicGetTopoGroup(&brief, group))
	require.Len(t, group.Details(), 1)
	details := group.Details()[0]
	require.True(t, details.IsValid())
	require.Equal(t, uint32(2), details.RowCount)
	require.Equal(t, s.GPUs[1].Handle, details.GpuLayout[0][1].PhysicalGpu)

	var minX, maxX, minY, maxY int32
	setting := s.Mosaic.Settings[0]
	require.Equal(t, nvapi.OK, s.MosaicGetOverlapLimits(&brief, &setting, &minX, &maxX, &minY, &maxY))
	require.Equal(t, int32(-256), minX)
	require.Equal(t, int32(256), maxY)

	brief.Topo = nvapi.MosaicTopo7x1Basic
	require.Equal(t, nvapi.TOPO_NOT_POSSIBLE, s.MosaicGetTopoGroup(&brief, group))
}

func TestMosaicDisplayGrids(t *testing.T) {
	s := newInitialized(t)

	enumerate := func() []nvapi.GridTopoV2 {
		grids, err := nvapi.Enumerate(
			func(n *uint32) nvapi.Status { return s.MosaicEnumDisplayGrids(nil, n) },
			s.MosaicEnumDisplayGrids,
			func(g *nvapi.GridTopoV2) { *g = nvapi.NewGridTopoV2() },
		)
		require.NoError(t, err)
		return grids
	}
	require.Len(t, enumerate(), 4)

	statuses := []nvapi.DisplayTopoStatus{{Version: nvapi.DisplayTopoStatusVer}}
	bad := grid2x2()
	bad.Displays[3].DisplayID = 0x1234
	require.Equal(t, nvapi.OK, s.MosaicValidateDisplayGrids(0, []nvapi.GridTopoV2{bad}, statuses))
	require.NotZero(t, statuses[0].ErrorFlags&nvapi.DisplayCapsProblemNoDisplayConnected)
	require.Len(t, statuses[0].ActiveDisplays(), 4)
	require.Zero(t, statuses[0].Displays[0].ErrorFlags)
	require.Equal(t, nvapi.TOPO_NOT_POSSIBLE, s.MosaicSetDisplayGrids([]nvapi.GridTopoV2{bad}, 0))
	require.Zero(t, s.ModeSets)

	good := grid2x2()
	good.SetFlag(nvapi.GridFlagBezelCorrected, true)
	require.Equal(t, nvapi.OK, s.MosaicSetDisplayGrids([]nvapi.GridTopoV2{good}, 0))
	grids := enumerate()
	require.Len(t, grids, 1)
	require.Equal(t, uint32(4), grids[0].DisplayCount)
	require.Equal(t, nvapi.MosaicTopo2x2Basic, s.Mosaic.Current)
	require.True(t, s.Mosaic.Enabled)

	var viewports [nvapi.MosaicMaxDisplays]nvapi.Rect
	var bezel uint8
	require.Equal(t, nvapi.OK, s.MosaicGetDisplayViewportsByResolution(DisplayIDs[3], 0, 0, &viewports, &bezel))
	require.Equal(t, uint8(1), bezel)
	require.Equal(t, nvapi.Rect{Left: 0, Top: 0, Right: 1919, Bottom: 1079}, viewports[0])
	require.Equal(t, nvapi.Rect{Left: 1920, Top: 1080, Right: 3839, Bottom: 2159}, viewports[3])
	require.True(t, viewports[4].IsEmpty())

	require.Equal(t, nvapi.INVALID_DISPLAY_ID, s.MosaicGetDisplayViewportsByResolution(0x1234, 0, 0, &viewports, &bezel))
}

func TestMosaicDisplayGridsV1(t *testing.T) {
	s := newInitialized(t)

	g := grid2x2()
	v1, err := g.Downgrade()
	require.NoError(t, err)
	require.Equal(t, nvapi.OK, s.MosaicSetDisplayGridsV1([]nvapi.GridTopoV1{v1}, 0))

	out := []nvapi.GridTopoV1{nvapi.NewGridTopoV1()}
	n := uint32(1)
	require.Equal(t, nvapi.OK, s.MosaicEnumDisplayGridsV1(out, &n))
	require.Equal(t, v1, out[0])

	shifted := grid2x2()
	shifted.Displays[0].PixelShiftType = nvapi.PixelShiftTopLeft2x2
	require.Equal(t, nvapi.OK, s.MosaicSetDisplayGrids([]nvapi.GridTopoV2{shifted}, 0))
	require.Equal(t, nvapi.INCOMPATIBLE_STRUCT_VERSION, s.MosaicEnumDisplayGridsV1(out, &n))
}

func TestLegacyMosaic(t *testing.T) {
	s := newInitialized(t)

	supported := nvapi.SupportedMosaicTopologies{Version: nvapi.SupportedMosaicTopologiesVer}
	require.Equal(t, nvapi.OK, s.GetSupportedMosaicTopologies(&supported))
	require.Len(t, supported.Topologies(), 3)

	current := nvapi.MosaicTopology{Version: nvapi.MosaicTopologyVer}
	var enabled uint32
	require.Equal(t, nvapi.OK, s.GetCurrentMosaicTopology(&current, &enabled))
	require.Zero(t, current.RowCount)
	require.Equal(t, nvapi.TOPO_NOT_POSSIBLE, s.EnableCurrentMosaicTopology(true))

	require.Equal(t, nvapi.OK, s.SetCurrentMosaicTopology(&supported.Topos[2]))
	require.Equal(t, nvapi.OK, s.GetCurrentMosaicTopology(&current, &enabled))
	require.Equal(t, uint32(2), current.RowCount)
	require.Equal(t, uint32(1), enabled)

	require.Equal(t, nvapi.OK, s.EnableCurrentMosaicTopology(false))
	require.Equal(t, nvapi.OK, s.GetCurrentMosaicTopology(&current, &enabled))
	require.Zero(t, enabled)
}

func TestThermal(t *testing.T) {
	s := newInitialized(t)
	gpu := s.GPUs[1].Handle

	settings := nvapi.GpuThermalSettingsV2{Version: nvapi.GpuThermalSettingsVer2}
	require.Equal(t, nvapi.OK, s.GpuGetThermalSettings(gpu, nvapi.ThermalSensorAll, &settings))
	require.Len(t, settings.Sensors(), 1)
	require.Equal(t, int32(48), settings.Sensors()[0].CurrentTemp)
	require.Equal(t, nvapi.INVALID_ARGUMENT, s.GpuGetThermalSettings(gpu, 2, &settings))

	status := nvapi.ThermalPoliciesStatusV2{Version: nvapi.ThermalPoliciesStatusVer2}
	require.Equal(t, nvapi.OK, s.GpuClientThermalPoliciesGetStatus(gpu, &status))
	require.Equal(t, int32(83), status.Entries[0].Celsius())

	status.Entries[0].SetCelsius(70)
	require.Equal(t, nvapi.OK, s.GpuClientThermalPoliciesSetStatus(gpu, &status))
	require.Equal(t, int32(70), s.GPUs[1].PolicyStatus[0].Celsius())

	status.Entries[0].SetCelsius(100)
	require.Equal(t, nvapi.INVALID_ARGUMENT, s.GpuClientThermalPoliciesSetStatus(gpu, &status))
}

func TestDisplayHandles(t *testing.T) {
	s := newInitialized(t)

	handles, err := nvapi.EnumerateIndexed(nvapi.MaxDisplays, s.EnumNvidiaDisplayHandle)
	require.NoError(t, err)
	require.Len(t, handles, 4)

	var name nvapi.ShortString
	require.Equal(t, nvapi.OK, s.GetAssociatedNvidiaDisplayName(handles[1], &name))
	require.Equal(t, `\\.\DISPLAY2`, name.String())

	var h nvapi.DisplayHandle
	require.Equal(t, nvapi.OK, s.GetAssociatedNvidiaDisplayHandle(`\\.\DISPLAY2`, &h))
	require.Equal(t, handles[1], h)
	require.Equal(t, nvapi.NVIDIA_DEVICE_NOT_FOUND, s.GetAssociatedNvidiaDisplayHandle(`\\.\DISPLAY9`, &h))

	unattached, err := nvapi.EnumerateIndexed(nvapi.MaxDisplays, s.EnumNvidiaUnAttachedDisplayHandle)
	require.NoError(t, err)
	require.Empty(t, unattached)
}
