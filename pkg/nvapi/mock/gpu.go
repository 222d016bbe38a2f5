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

// EnumPhysicalGPUs implements nvapi.Interface.
func (s *Server) EnumPhysicalGPUs(handles *[nvapi.MaxPhysicalGpus]nvapi.PhysicalGpuHandle, count *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("EnumPhysicalGPUs"); ret != nvapi.OK {
		return ret
	}
	if handles == nil || count == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if len(s.GPUs) == 0 {
		return nvapi.NVIDIA_DEVICE_NOT_FOUND
	}
	for i, g := range s.GPUs {
		handles[i] = g.Handle
	}
	*count = uint32(len(s.GPUs))
	return nvapi.OK
}

// EnumLogicalGPUs implements nvapi.Interface.
func (s *Server) EnumLogicalGPUs(handles *[nvapi.MaxLogicalGpus]nvapi.LogicalGpuHandle, count *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("EnumLogicalGPUs"); ret != nvapi.OK {
		return ret
	}
	if handles == nil || count == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if len(s.LogicalGPUs) == 0 {
		return nvapi.NVIDIA_DEVICE_NOT_FOUND
	}
	copy(handles[:], s.LogicalGPUs)
	*count = uint32(len(s.LogicalGPUs))
	return nvapi.OK
}

func (s *Server) gpuString(method string, h nvapi.PhysicalGpuHandle, out *nvapi.ShortString, get func(*GPU) string) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin(method); ret != nvapi.OK {
		return ret
	}
	if out == nil {
		return nvapi.INVALID_ARGUMENT
	}
	g, ret := s.lookupGPU(h)
	if ret != nvapi.OK {
		return ret
	}
	*out = nvapi.NewShortString(get(g))
	return nvapi.OK
}

// GpuGetFullName implements nvapi.Interface.
func (s *Server) GpuGetFullName(gpu nvapi.PhysicalGpuHandle, name *nvapi.ShortString) nvapi.Status {
	return s.gpuString("GpuGetFullName", gpu, name, func(g *GPU) string { return g.FullName })
}

// GpuGetShortName implements nvapi.Interface.
func (s *Server) GpuGetShortName(gpu nvapi.PhysicalGpuHandle, name *nvapi.ShortString) nvapi.Status {
	return s.gpuString("GpuGetShortName", gpu, name, func(g *GPU) string { return g.ShortName })
}

// GpuGetVbiosVersionString implements nvapi.Interface.
func (s *Server) GpuGetVbiosVersionString(gpu nvapi.PhysicalGpuHandle, version *nvapi.ShortString) nvapi.Status {
	return s.gpuString("GpuGetVbiosVersionString", gpu, version, func(g *GPU) string { return g.VbiosVersion })
}

// displayIds answers both display ID queries. A nil buffer is a count
// query. When the buffer is too small the required count is reported
// without writing any entry.
func (s *Server) displayIds(method string, h nvapi.PhysicalGpuHandle, ids []nvapi.GpuDisplayIds, count *uint32, include func(*nvapi.GpuDisplayIds) bool) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin(method); ret != nvapi.OK {
		return ret
	}
	if count == nil {
		return nvapi.INVALID_ARGUMENT
	}
	g, ret := s.lookupGPU(h)
	if ret != nvapi.OK {
		return ret
	}

	var entries []nvapi.GpuDisplayIds
	for i := range g.DisplayIds {
		if include(&g.DisplayIds[i]) {
			entries = append(entries, g.DisplayIds[i])
		}
	}

	if ids == nil {
		*count = uint32(len(entries))
		s.counted(method)
		return nvapi.OK
	}
	if int(*count) > len(ids) {
		return nvapi.INVALID_ARGUMENT
	}
	for i := range ids {
		if ret := s.checkTag(ids[i].Version, nvapi.GpuDisplayIdsVer); ret != nvapi.OK {
			return ret
		}
	}
	if len(entries) > int(*count) {
		*count = uint32(len(entries))
		return nvapi.OK
	}
	for i, e := range entries {
		e.Version = ids[i].Version
		ids[i] = e
	}
	*count = uint32(len(entries))
	return nvapi.OK
}

// GpuGetConnectedDisplayIds implements nvapi.Interface.
func (s *Server) GpuGetConnectedDisplayIds(gpu nvapi.PhysicalGpuHandle, ids []nvapi.GpuDisplayIds, count *uint32, flags uint32) nvapi.Status {
	return s.displayIds("GpuGetConnectedDisplayIds", gpu, ids, count, func(d *nvapi.GpuDisplayIds) bool {
		return d.IsConnected()
	})
}

// GpuGetAllDisplayIds implements nvapi.Interface.
func (s *Server) GpuGetAllDisplayIds(gpu nvapi.PhysicalGpuHandle, ids []nvapi.GpuDisplayIds, count *uint32) nvapi.Status {
	return s.displayIds("GpuGetAllDisplayIds", gpu, ids, count, func(*nvapi.GpuDisplayIds) bool {
		return true
	})
}

// sensors selects the sensors addressed by sensorIndex.
func (g *GPU) sensors(sensorIndex uint32) ([]nvapi.ThermalSensorV2, nvapi.Status) {
	if len(g.Sensors) == 0 {
		return nil, nvapi.NOT_SUPPORTED
	}
	if sensorIndex == nvapi.ThermalSensorAll {
		return g.Sensors[:min(len(g.Sensors), nvapi.MaxThermalSensorsPerGpu)], nvapi.OK
	}
	if int(sensorIndex) >= len(g.Sensors) || sensorIndex >= nvapi.MaxThermalSensorsPerGpu {
		return nil, nvapi.INVALID_ARGUMENT
	}
	return g.Sensors[sensorIndex : sensorIndex+1], nvapi.OK
}

// GpuGetThermalSettings implements nvapi.Interface.
func (s *Server) GpuGetThermalSettings(gpu nvapi.PhysicalGpuHandle, sensorIndex uint32, settings *nvapi.GpuThermalSettingsV2) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GpuGetThermalSettings"); ret != nvapi.OK {
		return ret
	}
	if settings == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(settings.Version, nvapi.GpuThermalSettingsVer2); ret != nvapi.OK {
		return ret
	}
	g, ret := s.lookupGPU(gpu)
	if ret != nvapi.OK {
		return ret
	}
	sensors, ret := g.sensors(sensorIndex)
	if ret != nvapi.OK {
		return ret
	}
	settings.Count = uint32(copy(settings.Sensor[:], sensors))
	return nvapi.OK
}

// GpuGetThermalSettingsV1 implements nvapi.Interface.
func (s *Server) GpuGetThermalSettingsV1(gpu nvapi.PhysicalGpuHandle, sensorIndex uint32, settings *nvapi.GpuThermalSettingsV1) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GpuGetThermalSettingsV1"); ret != nvapi.OK {
		return ret
	}
	if settings == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(settings.Version, nvapi.GpuThermalSettingsVer1); ret != nvapi.OK {
		return ret
	}
	g, ret := s.lookupGPU(gpu)
	if ret != nvapi.OK {
		return ret
	}
	sensors, ret := g.sensors(sensorIndex)
	if ret != nvapi.OK {
		return ret
	}
	for i, sensor := range sensors {
		settings.Sensor[i] = nvapi.ThermalSensorV1{
			Controller:     sensor.Controller,
			DefaultMinTemp: uint32(sensor.DefaultMinTemp),
			DefaultMaxTemp: uint32(sensor.DefaultMaxTemp),
			CurrentTemp:    uint32(sensor.CurrentTemp),
			Target:         sensor.Target,
		}
	}
	settings.Count = uint32(len(sensors))
	return nvapi.OK
}

// GpuClientThermalPoliciesGetInfo implements nvapi.Interface.
func (s *Server) GpuClientThermalPoliciesGetInfo(gpu nvapi.PhysicalGpuHandle, info *nvapi.ThermalPoliciesInfoV2) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GpuClientThermalPoliciesGetInfo"); ret != nvapi.OK {
		return ret
	}
	if info == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(info.Version, nvapi.ThermalPoliciesInfoVer2); ret != nvapi.OK {
		return ret
	}
	g, ret := s.lookupGPU(gpu)
	if ret != nvapi.OK {
		return ret
	}
	if len(g.PolicyInfo) == 0 {
		return nvapi.NOT_SUPPORTED
	}
	info.Count = uint8(copy(info.Entries[:], g.PolicyInfo))
	return nvapi.OK
}

// GpuClientThermalPoliciesGetStatus implements nvapi.Interface. Flags
// reports the number of entries.
func (s *Server) GpuClientThermalPoliciesGetStatus(gpu nvapi.PhysicalGpuHandle, status *nvapi.ThermalPoliciesStatusV2) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GpuClientThermalPoliciesGetStatus"); ret != nvapi.OK {
		return ret
	}
	if status == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(status.Version, nvapi.ThermalPoliciesStatusVer2); ret != nvapi.OK {
		return ret
	}
	g, ret := s.lookupGPU(gpu)
	if ret != nvapi.OK {
		return ret
	}
	if len(g.PolicyStatus) == 0 {
		return nvapi.NOT_SUPPORTED
	}
	status.Flags = uint32(copy(status.Entries[:], g.PolicyStatus))
	return nvapi.OK
}

// GpuClientThermalPoliciesSetStatus implements nvapi.Interface. Entries are
// matched by controller; entries without a controller are ignored.
func (s *Server) GpuClientThermalPoliciesSetStatus(gpu nvapi.PhysicalGpuHandle, status *nvapi.ThermalPoliciesStatusV2) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GpuClientThermalPoliciesSetStatus"); ret != nvapi.OK {
		return ret
	}
	if status == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(status.Version, nvapi.ThermalPoliciesStatusVer2); ret != nvapi.OK {
		return ret
	}
	g, ret := s.lookupGPU(gpu)
	if ret != nvapi.OK {
		return ret
	}
	if len(g.PolicyStatus) == 0 {
		return nvapi.NOT_SUPPORTED
	}

	updated := append([]nvapi.ThermalPolicyStatusEntry(nil), g.PolicyStatus...)
	for _, e := range status.Entries {
		if e.Controller == nvapi.ThermalControllerNone {
			continue
		}
		i := policyIndex(g.PolicyInfo, e.Controller)
		if i < 0 || i >= len(updated) {
			return nvapi.INVALID_ARGUMENT
		}
		limits := g.PolicyInfo[i]
		if c := e.Celsius(); c < limits.MinTemp || c > limits.MaxTemp {
			return nvapi.INVALID_ARGUMENT
		}
		updated[i] = e
	}
	g.PolicyStatus = updated
	return nvapi.OK
}

func policyIndex(info []nvapi.ThermalPolicyInfoEntry, c nvapi.ThermalController) int {
	for i, e := range info {
		if e.Controller == c {
			return i
		}
	}
	return -1
}
