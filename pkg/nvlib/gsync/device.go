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

package gsync

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// Device is a G-SYNC board.
type Device interface {
	Handle() nvapi.GSyncDeviceHandle
	Capabilities() (nvapi.GSyncCapabilitiesV2, error)
	Topology() (Topology, error)
	PhysicalGPUs() ([]nvapi.PhysicalGpuHandle, error)
	SetSyncStateRaw(displays []nvapi.GSyncDisplay, flags uint32) error
	SetSyncState(requests []SyncStateRequest, flags uint32) error
	Resync(flags uint32) error
	ControlParameters() (nvapi.GSyncControlParams, error)
	SetControlParameters(params nvapi.GSyncControlParams) (nvapi.GSyncControlParams, error)
	AdjustSyncDelay(delayType nvapi.GSyncDelayType, delay nvapi.GSyncDelay) (DelayAdjustment, error)
	SyncStatus(gpu nvapi.PhysicalGpuHandle) (nvapi.GSyncStatus, error)
	StatusParameters() (nvapi.GSyncStatusParamsV2, error)
	ValidateControlPath() (nvapi.GSyncControlParams, error)
}

// Topology is the set of GPUs and displays attached to a board.
type Topology struct {
	GPUs     []nvapi.GSyncGpu
	Displays []nvapi.GSyncDisplay
}

// SyncStateRequest changes the sync state of one display. A nil State
// keeps the display's current state.
type SyncStateRequest struct {
	DisplayID uint32
	State     *nvapi.DisplaySyncState
}

// DelayAdjustment is a delay as the board would apply it and the number of
// hardware steps it corresponds to.
type DelayAdjustment struct {
	Delay nvapi.GSyncDelay
	Steps uint32
}

type device struct {
	lib    *gsynclib
	handle nvapi.GSyncDeviceHandle
}

var _ Device = &device{}

// Handle returns the driver handle of the board.
func (d *device) Handle() nvapi.GSyncDeviceHandle {
	return d.handle
}

// Capabilities returns the board capabilities. Drivers that only know the
// V1 layout report an extended revision of zero.
func (d *device) Capabilities() (nvapi.GSyncCapabilitiesV2, error) {
	var caps nvapi.GSyncCapabilitiesV2
	err := nvapi.WithVersionFallback(
		func() error {
			caps = nvapi.GSyncCapabilitiesV2{Version: nvapi.GSyncCapabilitiesVer2}
			return d.lib.nvapi.GSyncQueryCapabilities(d.handle, &caps).Err()
		},
		func() error {
			v1 := nvapi.GSyncCapabilitiesV1{Version: nvapi.GSyncCapabilitiesVer1}
			if err := d.lib.nvapi.GSyncQueryCapabilitiesV1(d.handle, &v1).Err(); err != nil {
				return err
			}
			caps = v1.Upgrade()
			return nil
		},
	)
	klog.V(4).Infof("gsync.Capabilities(%v): %v", d.handle, err)
	if err != nil {
		return nvapi.GSyncCapabilitiesV2{}, fmt.Errorf("error querying G-SYNC capabilities: %w", err)
	}
	return caps, nil
}

// Topology returns the GPUs and displays attached to the board.
func (d *device) Topology() (Topology, error) {
	gpus, displays, err := nvapi.Enumerate2(
		func(gpuCount, displayCount *uint32) nvapi.Status {
			return d.lib.nvapi.GSyncGetTopology(d.handle, gpuCount, nil, displayCount, nil)
		},
		func(gpus []nvapi.GSyncGpu, gpuCount *uint32, displays []nvapi.GSyncDisplay, displayCount *uint32) nvapi.Status {
			return d.lib.nvapi.GSyncGetTopology(d.handle, gpuCount, gpus, displayCount, displays)
		},
		func(g *nvapi.GSyncGpu) { g.Version = nvapi.GSyncGpuVer },
		func(disp *nvapi.GSyncDisplay) { disp.Version = nvapi.GSyncDisplayVer },
	)
	klog.V(4).Infof("gsync.Topology(%v) [%d, %d]: %v", d.handle, len(gpus), len(displays), err)
	if err != nil {
		return Topology{}, fmt.Errorf("error getting G-SYNC topology: %w", err)
	}
	return Topology{GPUs: gpus, Displays: displays}, nil
}

// PhysicalGPUs returns the GPUs attached to the board. A GPU that is only
// reachable through a proxy is reported by its proxy handle.
func (d *device) PhysicalGPUs() ([]nvapi.PhysicalGpuHandle, error) {
	topo, err := d.Topology()
	if err != nil {
		return nil, err
	}
	handles := []nvapi.PhysicalGpuHandle{}
	for i := range topo.GPUs {
		if h, ok := topo.GPUs[i].Gpu(); ok {
			handles = append(handles, h)
		}
	}
	return handles, nil
}

// SetSyncStateRaw passes displays to the driver unchanged except for
// entries without a version tag, which get the current one. Displays that
// are not listed are unsynced by the driver.
func (d *device) SetSyncStateRaw(displays []nvapi.GSyncDisplay, flags uint32) error {
	tagged := make([]nvapi.GSyncDisplay, len(displays))
	copy(tagged, displays)
	for i := range tagged {
		if !tagged[i].Version.IsSet() {
			tagged[i].Version = nvapi.GSyncDisplayVer
		}
	}
	ret := d.lib.nvapi.GSyncSetSyncStateSettings(tagged, flags)
	klog.V(4).Infof("gsync.SetSyncStateRaw(%d displays, 0x%x): %v", len(tagged), flags, ret)
	if ret != nvapi.OK {
		return fmt.Errorf("error setting sync state: %w", ret)
	}
	return nil
}

// SetSyncState applies requests on top of the current topology. Displays
// that are not named keep their sync state.
func (d *device) SetSyncState(requests []SyncStateRequest, flags uint32) error {
	topo, err := d.Topology()
	if err != nil {
		return err
	}

	displays := topo.Displays
	index := make(map[uint32]int, len(displays))
	for i := range displays {
		index[displays[i].DisplayID] = i
	}
	for _, r := range requests {
		i, known := index[r.DisplayID]
		switch {
		case known && r.State != nil:
			displays[i].SyncState = *r.State
		case known:
		case r.State == nil:
			return fmt.Errorf("display 0x%08x is not attached to G-SYNC device %v: %w", r.DisplayID, d.handle, nvapi.INVALID_ARGUMENT)
		default:
			index[r.DisplayID] = len(displays)
			displays = append(displays, nvapi.GSyncDisplay{
				Version:   nvapi.GSyncDisplayVer,
				DisplayID: r.DisplayID,
				SyncState: *r.State,
			})
		}
	}
	return d.SetSyncStateRaw(displays, flags)
}

// Resync writes the current sync state of every display back to the
// driver.
func (d *device) Resync(flags uint32) error {
	topo, err := d.Topology()
	if err != nil {
		return err
	}
	return d.SetSyncStateRaw(topo.Displays, flags)
}

// ControlParameters returns the board's control parameters.
func (d *device) ControlParameters() (nvapi.GSyncControlParams, error) {
	params := nvapi.NewGSyncControlParams()
	ret := d.lib.nvapi.GSyncGetControlParameters(d.handle, &params)
	klog.V(4).Infof("gsync.ControlParameters(%v): %v", d.handle, ret)
	if ret != nvapi.OK {
		return nvapi.GSyncControlParams{}, fmt.Errorf("error getting control parameters: %w", ret)
	}
	return params, nil
}

// SetControlParameters writes params and returns the values the driver
// applied. Untagged structs are tagged with the current version.
func (d *device) SetControlParameters(params nvapi.GSyncControlParams) (nvapi.GSyncControlParams, error) {
	if !params.Version.IsSet() {
		params.Version = nvapi.GSyncControlParamsVer
	}
	if !params.SyncSkew.Version.IsSet() {
		params.SyncSkew.Version = nvapi.GSyncDelayVer
	}
	if !params.StartupDelay.Version.IsSet() {
		params.StartupDelay.Version = nvapi.GSyncDelayVer
	}
	ret := d.lib.nvapi.GSyncSetControlParameters(d.handle, &params)
	klog.V(4).Infof("gsync.SetControlParameters(%v): %v", d.handle, ret)
	if ret != nvapi.OK {
		return nvapi.GSyncControlParams{}, fmt.Errorf("error setting control parameters: %w", ret)
	}
	return params, nil
}

// AdjustSyncDelay asks the board how it would apply delay. The board
// configuration is not changed.
func (d *device) AdjustSyncDelay(delayType nvapi.GSyncDelayType, delay nvapi.GSyncDelay) (DelayAdjustment, error) {
	if !delay.Version.IsSet() {
		delay.Version = nvapi.GSyncDelayVer
	}
	var steps uint32
	ret := d.lib.nvapi.GSyncAdjustSyncDelay(d.handle, delayType, &delay, &steps)
	klog.V(4).Infof("gsync.AdjustSyncDelay(%v, %v): %v", d.handle, delayType, ret)
	if ret != nvapi.OK {
		return DelayAdjustment{}, fmt.Errorf("error adjusting %v delay: %w", delayType, ret)
	}
	return DelayAdjustment{Delay: delay, Steps: steps}, nil
}

// SyncStatus returns the sync status of a GPU attached to the board.
func (d *device) SyncStatus(gpu nvapi.PhysicalGpuHandle) (nvapi.GSyncStatus, error) {
	status := nvapi.GSyncStatus{Version: nvapi.GSyncStatusVer}
	ret := d.lib.nvapi.GSyncGetSyncStatus(d.handle, gpu, &status)
	klog.V(4).Infof("gsync.SyncStatus(%v, %v): %v", d.handle, gpu, ret)
	if ret != nvapi.OK {
		return nvapi.GSyncStatus{}, fmt.Errorf("error getting sync status of GPU %v: %w", gpu, ret)
	}
	return status, nil
}

// StatusParameters returns the board status, upgraded to the V2 layout
// when the driver only knows V1.
func (d *device) StatusParameters() (nvapi.GSyncStatusParamsV2, error) {
	var params nvapi.GSyncStatusParamsV2
	err := nvapi.WithVersionFallback(
		func() error {
			params = nvapi.GSyncStatusParamsV2{Version: nvapi.GSyncStatusParamsVer2}
			return d.lib.nvapi.GSyncGetStatusParameters(d.handle, &params).Err()
		},
		func() error {
			v1 := nvapi.GSyncStatusParamsV1{Version: nvapi.GSyncStatusParamsVer1}
			if err := d.lib.nvapi.GSyncGetStatusParametersV1(d.handle, &v1).Err(); err != nil {
				return err
			}
			params = v1.Upgrade()
			return nil
		},
	)
	klog.V(4).Infof("gsync.StatusParameters(%v): %v", d.handle, err)
	if err != nil {
		return nvapi.GSyncStatusParamsV2{}, fmt.Errorf("error getting status parameters: %w", err)
	}
	return params, nil
}

// ValidateControlPath writes the current control parameters back to the
// board and reads them again. The values must survive the round trip;
// delays may differ by less than the board's pixel granularity.
func (d *device) ValidateControlPath() (nvapi.GSyncControlParams, error) {
	before, err := d.ControlParameters()
	if err != nil {
		return nvapi.GSyncControlParams{}, err
	}
	if _, err := d.SetControlParameters(before); err != nil {
		return nvapi.GSyncControlParams{}, err
	}
	after, err := d.ControlParameters()
	if err != nil {
		return nvapi.GSyncControlParams{}, err
	}
	if !sameControlParams(before, after) {
		return after, fmt.Errorf("%w: wrote %+v, read %+v", ErrControlPathMismatch, before, after)
	}
	return after, nil
}

func sameControlParams(a, b nvapi.GSyncControlParams) bool {
	return a.Polarity == b.Polarity &&
		a.VMode == b.VMode &&
		a.Interval == b.Interval &&
		a.Source == b.Source &&
		a.Flags == b.Flags &&
		sameDelay(a.SyncSkew, b.SyncSkew) &&
		sameDelay(a.StartupDelay, b.StartupDelay)
}

func sameDelay(a, b nvapi.GSyncDelay) bool {
	if a.NumLines != b.NumLines {
		return false
	}
	diff := a.NumPixels - b.NumPixels
	if b.NumPixels > a.NumPixels {
		diff = b.NumPixels - a.NumPixels
	}
	return diff < max(b.MinPixels, 1)
}
