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

package nvapi

import (
	"unsafe"

	"github.com/NVIDIA/go-nvapi/pkg/dl"
)

// nvapi.GSyncEnumSyncDevices()
func (l *library) GSyncEnumSyncDevices(handles *[MaxGSyncDevices]GSyncDeviceHandle, count *uint32) Status {
	if handles == nil || count == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idGSyncEnumSyncDevices)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(handles)), uintptr(unsafe.Pointer(count))))
}

// nvapi.GSyncQueryCapabilities()
func (l *library) GSyncQueryCapabilities(device GSyncDeviceHandle, caps *GSyncCapabilitiesV2) Status {
	if caps == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGSyncQueryCapabilities.String(), caps.Version, GSyncCapabilitiesVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncQueryCapabilities)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(unsafe.Pointer(caps))))
}

// nvapi.GSyncQueryCapabilitiesV1()
func (l *library) GSyncQueryCapabilitiesV1(device GSyncDeviceHandle, caps *GSyncCapabilitiesV1) Status {
	if caps == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGSyncQueryCapabilities.String(), caps.Version, GSyncCapabilitiesVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncQueryCapabilities)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(unsafe.Pointer(caps))))
}

// nvapi.GSyncGetTopology()
func (l *library) GSyncGetTopology(device GSyncDeviceHandle, gpuCount *uint32, gpus []GSyncGpu, displayCount *uint32, displays []GSyncDisplay) Status {
	name := idGSyncGetTopology.String()
	if ret := checkCapacity(gpuCount, gpus != nil, len(gpus)); ret != OK {
		return ret
	}
	if ret := checkCapacity(displayCount, displays != nil, len(displays)); ret != OK {
		return ret
	}
	for i := range gpus {
		if ret := checkVersion(name, gpus[i].Version, GSyncGpuVer); ret != OK {
			return ret
		}
	}
	for i := range displays {
		if ret := checkVersion(name, displays[i].Version, GSyncDisplayVer); ret != OK {
			return ret
		}
	}
	fn, ret := l.proc(idGSyncGetTopology)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn,
		uintptr(device),
		uintptr(unsafe.Pointer(gpuCount)),
		uintptr(unsafe.Pointer(unsafe.SliceData(gpus))),
		uintptr(unsafe.Pointer(displayCount)),
		uintptr(unsafe.Pointer(unsafe.SliceData(displays))),
	))
}

// nvapi.GSyncSetSyncStateSettings()
func (l *library) GSyncSetSyncStateSettings(displays []GSyncDisplay, flags uint32) Status {
	name := idGSyncSetSyncStateSettings.String()
	for i := range displays {
		if ret := checkVersion(name, displays[i].Version, GSyncDisplayVer); ret != OK {
			return ret
		}
	}
	fn, ret := l.proc(idGSyncSetSyncStateSettings)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(len(displays)), uintptr(unsafe.Pointer(unsafe.SliceData(displays))), uintptr(flags)))
}

func checkControlParams(id InterfaceID, params *GSyncControlParams) Status {
	if params == nil {
		return INVALID_ARGUMENT
	}
	name := id.String()
	if ret := checkVersion(name, params.Version, GSyncControlParamsVer); ret != OK {
		return ret
	}
	if ret := checkVersion(name, params.SyncSkew.Version, GSyncDelayVer); ret != OK {
		return ret
	}
	return checkVersion(name, params.StartupDelay.Version, GSyncDelayVer)
}

// nvapi.GSyncGetControlParameters()
func (l *library) GSyncGetControlParameters(device GSyncDeviceHandle, params *GSyncControlParams) Status {
	if ret := checkControlParams(idGSyncGetControlParameters, params); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncGetControlParameters)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(unsafe.Pointer(params))))
}

// nvapi.GSyncSetControlParameters()
func (l *library) GSyncSetControlParameters(device GSyncDeviceHandle, params *GSyncControlParams) Status {
	if ret := checkControlParams(idGSyncSetControlParameters, params); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncSetControlParameters)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(unsafe.Pointer(params))))
}

// nvapi.GSyncAdjustSyncDelay()
func (l *library) GSyncAdjustSyncDelay(device GSyncDeviceHandle, delayType GSyncDelayType, delay *GSyncDelay, steps *uint32) Status {
	if delay == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGSyncAdjustSyncDelay.String(), delay.Version, GSyncDelayVer); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncAdjustSyncDelay)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(delayType), uintptr(unsafe.Pointer(delay)), uintptr(unsafe.Pointer(steps))))
}

// nvapi.GSyncGetSyncStatus()
func (l *library) GSyncGetSyncStatus(device GSyncDeviceHandle, gpu PhysicalGpuHandle, s *GSyncStatus) Status {
	if s == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGSyncGetSyncStatus.String(), s.Version, GSyncStatusVer); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncGetSyncStatus)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(gpu), uintptr(unsafe.Pointer(s))))
}

// nvapi.GSyncGetStatusParameters()
func (l *library) GSyncGetStatusParameters(device GSyncDeviceHandle, params *GSyncStatusParamsV2) Status {
	if params == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGSyncGetStatusParameters.String(), params.Version, GSyncStatusParamsVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncGetStatusParameters)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(unsafe.Pointer(params))))
}

// nvapi.GSyncGetStatusParametersV1()
func (l *library) GSyncGetStatusParametersV1(device GSyncDeviceHandle, params *GSyncStatusParamsV1) Status {
	if params == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGSyncGetStatusParameters.String(), params.Version, GSyncStatusParamsVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGSyncGetStatusParameters)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(device), uintptr(unsafe.Pointer(params))))
}
