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

package gpu

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// Device is a physical GPU.
type Device interface {
	Handle() nvapi.PhysicalGpuHandle
	FullName() (string, error)
	ShortName() (string, error)
	VbiosVersion() (string, error)
	ConnectedDisplayIDs(flags uint32) ([]nvapi.GpuDisplayIds, error)
	AllDisplayIDs() ([]nvapi.GpuDisplayIds, error)
	ThermalSettings(sensorIndex uint32) ([]nvapi.ThermalSensor, error)
	ThermalPolicies() ([]ThermalPolicy, error)
	SetThermalPolicyLimit(controller nvapi.ThermalController, celsius int32) error
}

// ThermalPolicy is a thermal limit of a GPU together with its bounds. All
// temperatures are in degrees Celsius.
type ThermalPolicy struct {
	Controller  nvapi.ThermalController
	MinTemp     int32
	DefaultTemp int32
	MaxTemp     int32
	Limit       int32
}

type device struct {
	lib    *gpulib
	handle nvapi.PhysicalGpuHandle
}

var _ Device = &device{}

func (d *device) Handle() nvapi.PhysicalGpuHandle {
	return d.handle
}

func (d *device) getString(what string, get func(nvapi.PhysicalGpuHandle, *nvapi.ShortString) nvapi.Status) (string, error) {
	var s nvapi.ShortString
	ret := get(d.handle, &s)
	klog.V(4).Infof("gpu.%s(%v): %v", what, d.handle, ret)
	if ret != nvapi.OK {
		return "", fmt.Errorf("error getting %s of GPU %v: %w", what, d.handle, ret)
	}
	return s.String(), nil
}

// FullName returns the marketing name, e.g. "NVIDIA RTX A6000".
func (d *device) FullName() (string, error) {
	return d.getString("FullName", d.lib.nvapi.GpuGetFullName)
}

// ShortName returns the chip name.
func (d *device) ShortName() (string, error) {
	return d.getString("ShortName", d.lib.nvapi.GpuGetShortName)
}

// VbiosVersion returns the video BIOS version string.
func (d *device) VbiosVersion() (string, error) {
	return d.getString("VbiosVersion", d.lib.nvapi.GpuGetVbiosVersionString)
}

// ConnectedDisplayIDs returns the displays connected to the GPU.
func (d *device) ConnectedDisplayIDs(flags uint32) ([]nvapi.GpuDisplayIds, error) {
	ids, err := nvapi.Enumerate(
		func(count *uint32) nvapi.Status {
			return d.lib.nvapi.GpuGetConnectedDisplayIds(d.handle, nil, count, flags)
		},
		func(buf []nvapi.GpuDisplayIds, count *uint32) nvapi.Status {
			return d.lib.nvapi.GpuGetConnectedDisplayIds(d.handle, buf, count, flags)
		},
		tagDisplayIds,
	)
	klog.V(4).Infof("gpu.ConnectedDisplayIDs(%v) [%d]: %v", d.handle, len(ids), err)
	if err != nil {
		return nil, fmt.Errorf("error getting connected displays of GPU %v: %w", d.handle, err)
	}
	return ids, nil
}

// AllDisplayIDs returns every display output of the GPU, connected or not.
func (d *device) AllDisplayIDs() ([]nvapi.GpuDisplayIds, error) {
	ids, err := nvapi.Enumerate(
		func(count *uint32) nvapi.Status {
			return d.lib.nvapi.GpuGetAllDisplayIds(d.handle, nil, count)
		},
		func(buf []nvapi.GpuDisplayIds, count *uint32) nvapi.Status {
			return d.lib.nvapi.GpuGetAllDisplayIds(d.handle, buf, count)
		},
		tagDisplayIds,
	)
	klog.V(4).Infof("gpu.AllDisplayIDs(%v) [%d]: %v", d.handle, len(ids), err)
	if err != nil {
		return nil, fmt.Errorf("error getting displays of GPU %v: %w", d.handle, err)
	}
	return ids, nil
}

func tagDisplayIds(id *nvapi.GpuDisplayIds) {
	id.Version = nvapi.GpuDisplayIdsVer
}

// ThermalSettings returns the sensor at sensorIndex, or every sensor for
// nvapi.ThermalSensorAll.
func (d *device) ThermalSettings(sensorIndex uint32) ([]nvapi.ThermalSensor, error) {
	var settings nvapi.GpuThermalSettingsV2
	err := nvapi.WithVersionFallback(
		func() error {
			settings = nvapi.GpuThermalSettingsV2{Version: nvapi.GpuThermalSettingsVer2}
			return d.lib.nvapi.GpuGetThermalSettings(d.handle, sensorIndex, &settings).Err()
		},
		func() error {
			v1 := nvapi.GpuThermalSettingsV1{Version: nvapi.GpuThermalSettingsVer1}
			if err := d.lib.nvapi.GpuGetThermalSettingsV1(d.handle, sensorIndex, &v1).Err(); err != nil {
				return err
			}
			settings = v1.Upgrade()
			return nil
		},
	)
	klog.V(4).Infof("gpu.ThermalSettings(%v, %d): %v", d.handle, sensorIndex, err)
	if err != nil {
		return nil, fmt.Errorf("error getting thermal settings of GPU %v: %w", d.handle, err)
	}
	return append([]nvapi.ThermalSensor{}, settings.Sensors()...), nil
}

func (d *device) thermalPolicies() (*nvapi.ThermalPoliciesInfoV2, *nvapi.ThermalPoliciesStatusV2, error) {
	info := &nvapi.ThermalPoliciesInfoV2{Version: nvapi.ThermalPoliciesInfoVer2}
	if ret := d.lib.nvapi.GpuClientThermalPoliciesGetInfo(d.handle, info); ret != nvapi.OK {
		return nil, nil, fmt.Errorf("error getting thermal policies of GPU %v: %w", d.handle, ret)
	}
	status := &nvapi.ThermalPoliciesStatusV2{Version: nvapi.ThermalPoliciesStatusVer2}
	if ret := d.lib.nvapi.GpuClientThermalPoliciesGetStatus(d.handle, status); ret != nvapi.OK {
		return nil, nil, fmt.Errorf("error getting thermal policy status of GPU %v: %w", d.handle, ret)
	}
	return info, status, nil
}

// statusEntry returns the status of the policy of controller. The status
// carries one entry per reported policy and the unused slots are zeroed, so
// ThermalControllerNone never matches.
func statusEntry(info *nvapi.ThermalPoliciesInfoV2, status *nvapi.ThermalPoliciesStatusV2, controller nvapi.ThermalController) *nvapi.ThermalPolicyStatusEntry {
	if controller == nvapi.ThermalControllerNone {
		return nil
	}
	n := min(len(info.Policies()), len(status.Entries))
	for i := range status.Entries[:n] {
		if status.Entries[i].Controller == controller {
			return &status.Entries[i]
		}
	}
	return nil
}

// ThermalPolicies returns the thermal limits of the GPU.
func (d *device) ThermalPolicies() ([]ThermalPolicy, error) {
	info, status, err := d.thermalPolicies()
	klog.V(4).Infof("gpu.ThermalPolicies(%v): %v", d.handle, err)
	if err != nil {
		return nil, err
	}

	policies := []ThermalPolicy{}
	for _, p := range info.Policies() {
		policy := ThermalPolicy{
			Controller:  p.Controller,
			MinTemp:     p.MinTemp,
			DefaultTemp: p.DefaultTemp,
			MaxTemp:     p.MaxTemp,
			Limit:       p.DefaultTemp,
		}
		if e := statusEntry(info, status, p.Controller); e != nil {
			policy.Limit = e.Celsius()
		}
		policies = append(policies, policy)
	}
	return policies, nil
}

// SetThermalPolicyLimit sets the limit of the policy of controller. The
// limit must lie within the policy's bounds.
func (d *device) SetThermalPolicyLimit(controller nvapi.ThermalController, celsius int32) error {
	info, status, err := d.thermalPolicies()
	if err != nil {
		return err
	}

	var policy *nvapi.ThermalPolicyInfoEntry
	for i, p := range info.Policies() {
		if p.Controller == controller {
			policy = &info.Entries[i]
			break
		}
	}
	if policy == nil {
		return fmt.Errorf("GPU %v has no %v thermal policy: %w", d.handle, controller, nvapi.NOT_SUPPORTED)
	}
	if celsius < policy.MinTemp || celsius > policy.MaxTemp {
		return fmt.Errorf("limit %d outside [%d, %d]: %w", celsius, policy.MinTemp, policy.MaxTemp, nvapi.INVALID_ARGUMENT)
	}

	entry := statusEntry(info, status, controller)
	if entry == nil {
		return fmt.Errorf("GPU %v reports no status for %v thermal policy: %w", d.handle, controller, nvapi.NOT_SUPPORTED)
	}
	entry.SetCelsius(celsius)

	ret := d.lib.nvapi.GpuClientThermalPoliciesSetStatus(d.handle, status)
	klog.V(4).Infof("gpu.SetThermalPolicyLimit(%v, %v, %d): %v", d.handle, controller, celsius, ret)
	if ret != nvapi.OK {
		return fmt.Errorf("error setting thermal policy of GPU %v: %w", d.handle, ret)
	}
	return nil
}
