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

// nvapi.EnumPhysicalGPUs()
func (l *library) EnumPhysicalGPUs(handles *[MaxPhysicalGpus]PhysicalGpuHandle, count *uint32) Status {
	if handles == nil || count == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idEnumPhysicalGPUs)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(handles)), uintptr(unsafe.Pointer(count))))
}

// nvapi.EnumLogicalGPUs()
func (l *library) EnumLogicalGPUs(handles *[MaxLogicalGpus]LogicalGpuHandle, count *uint32) Status {
	if handles == nil || count == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idEnumLogicalGPUs)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(handles)), uintptr(unsafe.Pointer(count))))
}

func (l *library) gpuString(id InterfaceID, gpu PhysicalGpuHandle, out *ShortString) Status {
	if out == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(id)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(unsafe.Pointer(out))))
}

// nvapi.GpuGetFullName()
func (l *library) GpuGetFullName(gpu PhysicalGpuHandle, name *ShortString) Status {
	return l.gpuString(idGPUGetFullName, gpu, name)
}

// nvapi.GpuGetShortName()
func (l *library) GpuGetShortName(gpu PhysicalGpuHandle, name *ShortString) Status {
	return l.gpuString(idGPUGetShortName, gpu, name)
}

// nvapi.GpuGetVbiosVersionString()
func (l *library) GpuGetVbiosVersionString(gpu PhysicalGpuHandle, version *ShortString) Status {
	return l.gpuString(idGPUGetVbiosVersionString, gpu, version)
}

func checkDisplayIds(id InterfaceID, ids []GpuDisplayIds, count *uint32) Status {
	if ret := checkCapacity(count, ids != nil, len(ids)); ret != OK {
		return ret
	}
	for i := range ids {
		if ret := checkVersion(id.String(), ids[i].Version, GpuDisplayIdsVer1, GpuDisplayIdsVer2); ret != OK {
			return ret
		}
	}
	return OK
}

// nvapi.GpuGetConnectedDisplayIds()
func (l *library) GpuGetConnectedDisplayIds(gpu PhysicalGpuHandle, ids []GpuDisplayIds, count *uint32, flags uint32) Status {
	if ret := checkDisplayIds(idGPUGetConnectedDisplayIds, ids, count); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGPUGetConnectedDisplayIds)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(unsafe.Pointer(unsafe.SliceData(ids))), uintptr(unsafe.Pointer(count)), uintptr(flags)))
}

// nvapi.GpuGetAllDisplayIds()
func (l *library) GpuGetAllDisplayIds(gpu PhysicalGpuHandle, ids []GpuDisplayIds, count *uint32) Status {
	if ret := checkDisplayIds(idGPUGetAllDisplayIds, ids, count); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGPUGetAllDisplayIds)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(unsafe.Pointer(unsafe.SliceData(ids))), uintptr(unsafe.Pointer(count))))
}

// nvapi.GpuGetThermalSettings()
func (l *library) GpuGetThermalSettings(gpu PhysicalGpuHandle, sensorIndex uint32, settings *GpuThermalSettingsV2) Status {
	if settings == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGPUGetThermalSettings.String(), settings.Version, GpuThermalSettingsVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGPUGetThermalSettings)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(sensorIndex), uintptr(unsafe.Pointer(settings))))
}

// nvapi.GpuGetThermalSettingsV1()
func (l *library) GpuGetThermalSettingsV1(gpu PhysicalGpuHandle, sensorIndex uint32, settings *GpuThermalSettingsV1) Status {
	if settings == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGPUGetThermalSettings.String(), settings.Version, GpuThermalSettingsVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGPUGetThermalSettings)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(sensorIndex), uintptr(unsafe.Pointer(settings))))
}

// nvapi.GpuClientThermalPoliciesGetInfo()
func (l *library) GpuClientThermalPoliciesGetInfo(gpu PhysicalGpuHandle, info *ThermalPoliciesInfoV2) Status {
	if info == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGPUThermalPoliciesGetInfo.String(), info.Version, ThermalPoliciesInfoVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGPUThermalPoliciesGetInfo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(unsafe.Pointer(info))))
}

// nvapi.GpuClientThermalPoliciesGetStatus()
func (l *library) GpuClientThermalPoliciesGetStatus(gpu PhysicalGpuHandle, s *ThermalPoliciesStatusV2) Status {
	return l.thermalPoliciesStatus(idGPUThermalPoliciesGetStatus, gpu, s)
}

// nvapi.GpuClientThermalPoliciesSetStatus()
func (l *library) GpuClientThermalPoliciesSetStatus(gpu PhysicalGpuHandle, s *ThermalPoliciesStatusV2) Status {
	return l.thermalPoliciesStatus(idGPUThermalPoliciesSetStatus, gpu, s)
}

func (l *library) thermalPoliciesStatus(id InterfaceID, gpu PhysicalGpuHandle, s *ThermalPoliciesStatusV2) Status {
	if s == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(id.String(), s.Version, ThermalPoliciesStatusVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(id)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(gpu), uintptr(unsafe.Pointer(s))))
}
