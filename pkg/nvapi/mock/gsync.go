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
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// lineLength is the total pixels per line used to convert delays to steps.
const lineLength = 2200

// GSyncDevice is a G-SYNC board and the GPUs and displays attached to it.
type GSyncDevice struct {
	Handle              nvapi.GSyncDeviceHandle
	Capabilities        nvapi.GSyncCapabilitiesV2
	GPUs                []GSyncGpu
	Displays            []nvapi.GSyncDisplay
	Control             nvapi.GSyncControlParams
	StatusParams        nvapi.GSyncStatusParamsV2
	SyncSignalAvailable bool
	// LastSyncStateFlags holds the flags of the last SetSyncStateSettings.
	LastSyncStateFlags uint32
}

// GSyncGpu is a GPU connected to a G-SYNC board, directly or through a
// proxy GPU.
type GSyncGpu struct {
	GPU       *GPU
	Proxy     *GPU
	Connector nvapi.GSyncConnector
}

func (s *Server) lookupGSync(h nvapi.GSyncDeviceHandle) (*GSyncDevice, nvapi.Status) {
	for _, d := range s.GSyncDevices {
		if d.Handle == h {
			return d, nvapi.OK
		}
	}
	if s.stale[uintptr(h)] {
		return nil, nvapi.HANDLE_INVALIDATED
	}
	return nil, nvapi.INVALID_HANDLE
}

func (d *GSyncDevice) hasMaster() bool {
	for _, disp := range d.Displays {
		if disp.SyncState == nvapi.DisplaySyncStateMaster {
			return true
		}
	}
	return false
}

// isSynced reports whether a GPU of the board drives a synced display while
// the board has a timing master.
func (s *Server) isSynced(d *GSyncDevice, g *GPU) bool {
	if g == nil || !d.hasMaster() {
		return false
	}
	for _, disp := range d.Displays {
		if disp.SyncState == nvapi.DisplaySyncStateUnsynced {
			continue
		}
		if owner, _ := s.findDisplayID(disp.DisplayID); owner == g {
			return true
		}
	}
	return false
}

// GSyncEnumSyncDevices implements nvapi.Interface.
func (s *Server) GSyncEnumSyncDevices(handles *[nvapi.MaxGSyncDevices]nvapi.GSyncDeviceHandle, count *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncEnumSyncDevices"); ret != nvapi.OK {
		return ret
	}
	if handles == nil || count == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if len(s.GSyncDevices) == 0 {
		return nvapi.NVIDIA_DEVICE_NOT_FOUND
	}
	for i, d := range s.GSyncDevices {
		handles[i] = d.Handle
	}
	*count = uint32(len(s.GSyncDevices))
	return nvapi.OK
}

// GSyncQueryCapabilities implements nvapi.Interface.
func (s *Server) GSyncQueryCapabilities(device nvapi.GSyncDeviceHandle, caps *nvapi.GSyncCapabilitiesV2) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncQueryCapabilities"); ret != nvapi.OK {
		return ret
	}
	if caps == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(caps.Version, nvapi.GSyncCapabilitiesVer2); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	*caps = d.Capabilities
	caps.Version = nvapi.GSyncCapabilitiesVer2
	return nvapi.OK
}

// GSyncQueryCapabilitiesV1 implements nvapi.Interface.
func (s *Server) GSyncQueryCapabilitiesV1(device nvapi.GSyncDeviceHandle, caps *nvapi.GSyncCapabilitiesV1) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncQueryCapabilitiesV1"); ret != nvapi.OK {
		return ret
	}
	if caps == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(caps.Version, nvapi.GSyncCapabilitiesVer1); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	*caps = d.Capabilities.Downgrade()
	return nvapi.OK
}

// GSyncGetTopology implements nvapi.Interface. Passing nil for both
// buffers queries the counts. A buffer that is too small fails with
// INSUFFICIENT_BUFFER after reporting the required counts.
func (s *Server) GSyncGetTopology(device nvapi.GSyncDeviceHandle, gpuCount *uint32, gpus []nvapi.GSyncGpu, displayCount *uint32, displays []nvapi.GSyncDisplay) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncGetTopology"); ret != nvapi.OK {
		return ret
	}
	if gpuCount == nil || displayCount == nil {
		return nvapi.INVALID_ARGUMENT
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}

	ng, nd := uint32(len(d.GPUs)), uint32(len(d.Displays))
	if gpus == nil && displays == nil {
		*gpuCount, *displayCount = ng, nd
		s.counted("GSyncGetTopology")
		return nvapi.OK
	}

	if gpus != nil && int(*gpuCount) > len(gpus) {
		return nvapi.INVALID_ARGUMENT
	}
	if displays != nil && int(*displayCount) > len(displays) {
		return nvapi.INVALID_ARGUMENT
	}
	for i := range gpus {
		if ret := s.checkTag(gpus[i].Version, nvapi.GSyncGpuVer); ret != nvapi.OK {
			return ret
		}
	}
	for i := range displays {
		if ret := s.checkTag(displays[i].Version, nvapi.GSyncDisplayVer); ret != nvapi.OK {
			return ret
		}
	}
	if (gpus != nil && ng > *gpuCount) || (displays != nil && nd > *displayCount) {
		*gpuCount, *displayCount = ng, nd
		return nvapi.INSUFFICIENT_BUFFER
	}

	if gpus != nil {
		for i, link := range d.GPUs {
			g := nvapi.GSyncGpu{Version: gpus[i].Version, Connector: link.Connector}
			if link.GPU != nil {
				g.PhysicalGpu = link.GPU.Handle
			}
			if link.Proxy != nil {
				g.ProxyPhysicalGpu = link.Proxy.Handle
			}
			g.SetSynced(s.isSynced(d, link.GPU))
			gpus[i] = g
		}
	}
	if displays != nil {
		for i, disp := range d.Displays {
			disp.Version = displays[i].Version
			displays[i] = disp
		}
	}
	*gpuCount, *displayCount = ng, nd
	return nvapi.OK
}

// GSyncSetSyncStateSettings implements nvapi.Interface. Displays of every
// board that are missing from the list become unsynced.
func (s *Server) GSyncSetSyncStateSettings(displays []nvapi.GSyncDisplay, flags uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncSetSyncStateSettings"); ret != nvapi.OK {
		return ret
	}

	requested := make(map[uint32]nvapi.DisplaySyncState, len(displays))
	masters := 0
	for i := range displays {
		if ret := s.checkTag(displays[i].Version, nvapi.GSyncDisplayVer); ret != nvapi.OK {
			return ret
		}
		if _, err := nvapi.DisplaySyncStateFromRaw(int32(displays[i].SyncState)); err != nil {
			return nvapi.INVALID_ARGUMENT
		}
		if displays[i].SyncState == nvapi.DisplaySyncStateMaster {
			masters++
		}
		requested[displays[i].DisplayID] = displays[i].SyncState
	}
	if masters > 1 {
		return nvapi.INVALID_SYNC_TOPOLOGY
	}

	known := 0
	for _, d := range s.GSyncDevices {
		for _, disp := range d.Displays {
			state, ok := requested[disp.DisplayID]
			if !ok {
				continue
			}
			known++
			if state == nvapi.DisplaySyncStateMaster && !disp.IsMasterable() {
				return nvapi.INVALID_SYNC_TOPOLOGY
			}
		}
	}
	if known != len(requested) {
		return nvapi.INVALID_ARGUMENT
	}

	for _, d := range s.GSyncDevices {
		for i := range d.Displays {
			state, ok := requested[d.Displays[i].DisplayID]
			if !ok {
				state = nvapi.DisplaySyncStateUnsynced
			}
			d.Displays[i].SyncState = state
		}
		d.LastSyncStateFlags = flags
	}
	return nvapi.OK
}

// GSyncGetControlParameters implements nvapi.Interface.
func (s *Server) GSyncGetControlParameters(device nvapi.GSyncDeviceHandle, params *nvapi.GSyncControlParams) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncGetControlParameters"); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkControlParams(params); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	*params = d.Control
	params.Version = nvapi.GSyncControlParamsVer
	params.SyncSkew.Version = nvapi.GSyncDelayVer
	params.StartupDelay.Version = nvapi.GSyncDelayVer
	return nvapi.OK
}

func (s *Server) checkControlParams(params *nvapi.GSyncControlParams) nvapi.Status {
	if params == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(params.Version, nvapi.GSyncControlParamsVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(params.SyncSkew.Version, nvapi.GSyncDelayVer); ret != nvapi.OK {
		return ret
	}
	return s.checkTag(params.StartupDelay.Version, nvapi.GSyncDelayVer)
}

// applyDelay validates a requested delay against the board limits in ref
// and rounds the pixel count down to the board's pixel granularity. The
// read-only limits of ref are copied into the result.
func applyDelay(requested nvapi.GSyncDelay, ref nvapi.GSyncDelay) (nvapi.GSyncDelay, nvapi.Status) {
	if requested.NumLines > ref.MaxLines {
		return requested, nvapi.INVALID_ARGUMENT
	}
	out := requested
	if ref.MinPixels > 0 {
		out.NumPixels -= out.NumPixels % ref.MinPixels
	}
	out.MaxLines = ref.MaxLines
	out.MinPixels = ref.MinPixels
	return out, nvapi.OK
}

// GSyncSetControlParameters implements nvapi.Interface. The applied values
// are written back to params.
func (s *Server) GSyncSetControlParameters(device nvapi.GSyncDeviceHandle, params *nvapi.GSyncControlParams) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncSetControlParameters"); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkControlParams(params); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	if _, err := nvapi.GSyncPolarityFromRaw(int32(params.Polarity)); err != nil {
		return nvapi.INVALID_ARGUMENT
	}
	if _, err := nvapi.GSyncVideoModeFromRaw(int32(params.VMode)); err != nil {
		return nvapi.INVALID_ARGUMENT
	}
	if _, err := nvapi.GSyncSyncSourceFromRaw(int32(params.Source)); err != nil {
		return nvapi.INVALID_ARGUMENT
	}

	applied := *params
	if applied.SyncSkew, ret = applyDelay(params.SyncSkew, d.Control.SyncSkew); ret != nvapi.OK {
		return ret
	}
	if applied.StartupDelay, ret = applyDelay(params.StartupDelay, d.Control.StartupDelay); ret != nvapi.OK {
		return ret
	}
	d.Control = applied
	*params = applied
	return nvapi.OK
}

// GSyncAdjustSyncDelay implements nvapi.Interface. It rounds the delay to
// what the board can apply and reports the number of hardware steps; the
// board configuration is not changed.
func (s *Server) GSyncAdjustSyncDelay(device nvapi.GSyncDeviceHandle, delayType nvapi.GSyncDelayType, delay *nvapi.GSyncDelay, steps *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncAdjustSyncDelay"); ret != nvapi.OK {
		return ret
	}
	if delay == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(delay.Version, nvapi.GSyncDelayVer); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}

	var ref nvapi.GSyncDelay
	switch delayType {
	case nvapi.GSyncDelayTypeSyncSkew:
		ref = d.Control.SyncSkew
	case nvapi.GSyncDelayTypeStartup:
		ref = d.Control.StartupDelay
	default:
		return nvapi.INVALID_ARGUMENT
	}
	adjusted, ret := applyDelay(*delay, ref)
	if ret != nvapi.OK {
		return ret
	}
	*delay = adjusted
	if steps != nil && adjusted.MinPixels > 0 {
		*steps = (adjusted.NumLines*lineLength + adjusted.NumPixels) / adjusted.MinPixels
	}
	return nvapi.OK
}

// GSyncGetSyncStatus implements nvapi.Interface.
func (s *Server) GSyncGetSyncStatus(device nvapi.GSyncDeviceHandle, gpu nvapi.PhysicalGpuHandle, status *nvapi.GSyncStatus) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncGetSyncStatus"); ret != nvapi.OK {
		return ret
	}
	if status == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(status.Version, nvapi.GSyncStatusVer); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	g, ret := s.lookupGPU(gpu)
	if ret != nvapi.OK {
		return ret
	}
	attached := false
	for _, link := range d.GPUs {
		if link.GPU == g || link.Proxy == g {
			attached = true
		}
	}
	if !attached {
		return nvapi.INVALID_ARGUMENT
	}
	*status = nvapi.GSyncStatus{
		Version:               status.Version,
		IsSynced:              nvapi.NewBool(s.isSynced(d, g)),
		IsSyncSignalAvailable: nvapi.NewBool(d.SyncSignalAvailable),
	}
	return nvapi.OK
}

// GSyncGetStatusParameters implements nvapi.Interface.
func (s *Server) GSyncGetStatusParameters(device nvapi.GSyncDeviceHandle, params *nvapi.GSyncStatusParamsV2) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncGetStatusParameters"); ret != nvapi.OK {
		return ret
	}
	if params == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(params.Version, nvapi.GSyncStatusParamsVer2); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	*params = d.StatusParams
	params.Version = nvapi.GSyncStatusParamsVer2
	return nvapi.OK
}

// GSyncGetStatusParametersV1 implements nvapi.Interface.
func (s *Server) GSyncGetStatusParametersV1(device nvapi.GSyncDeviceHandle, params *nvapi.GSyncStatusParamsV1) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GSyncGetStatusParametersV1"); ret != nvapi.OK {
		return ret
	}
	if params == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(params.Version, nvapi.GSyncStatusParamsVer1); ret != nvapi.OK {
		return ret
	}
	d, ret := s.lookupGSync(device)
	if ret != nvapi.OK {
		return ret
	}
	*params = d.StatusParams.Downgrade()
	return nvapi.OK
}
