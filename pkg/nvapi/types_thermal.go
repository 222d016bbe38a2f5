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

import "unsafe"

// MaxThermalSensorsPerGpu is the capacity of GpuThermalSettings.
const MaxThermalSensorsPerGpu = 3

// ThermalSensorAll as a sensor index queries every sensor of a GPU.
const ThermalSensorAll = 15

// ThermalController identifies the chip that reads a sensor.
type ThermalController int32

// Thermal controllers.
const (
	ThermalControllerUnknown     ThermalController = -1
	ThermalControllerNone        ThermalController = 0
	ThermalControllerGpuInternal ThermalController = 1
	ThermalControllerADM1032     ThermalController = 2
	ThermalControllerMAX6649     ThermalController = 3
	ThermalControllerMAX1617     ThermalController = 4
	ThermalControllerLM99        ThermalController = 5
	ThermalControllerLM89        ThermalController = 6
	ThermalControllerLM64        ThermalController = 7
	ThermalControllerADT7473     ThermalController = 8
	ThermalControllerSBMAX6649   ThermalController = 9
	ThermalControllerVBIOSEVT    ThermalController = 10
	ThermalControllerOS          ThermalController = 11
)

var thermalControllers = enumValues[ThermalController]{"ThermalController", map[ThermalController]string{
	ThermalControllerUnknown:     "Unknown",
	ThermalControllerNone:        "None",
	ThermalControllerGpuInternal: "GpuInternal",
	ThermalControllerADM1032:     "ADM1032",
	ThermalControllerMAX6649:     "MAX6649",
	ThermalControllerMAX1617:     "MAX1617",
	ThermalControllerLM99:        "LM99",
	ThermalControllerLM89:        "LM89",
	ThermalControllerLM64:        "LM64",
	ThermalControllerADT7473:     "ADT7473",
	ThermalControllerSBMAX6649:   "SBMAX6649",
	ThermalControllerVBIOSEVT:    "VBIOSEVT",
	ThermalControllerOS:          "OS",
}}

// ThermalControllerFromRaw validates a raw driver value.
func ThermalControllerFromRaw(v int32) (ThermalController, error) {
	return thermalControllers.fromRaw(v)
}

func (c ThermalController) String() string { return thermalControllers.name(c) }

// ThermalTarget is the component a sensor measures.
type ThermalTarget int32

// Thermal targets.
const (
	ThermalTargetUnknown     ThermalTarget = -1
	ThermalTargetNone        ThermalTarget = 0
	ThermalTargetGpu         ThermalTarget = 1
	ThermalTargetMemory      ThermalTarget = 2
	ThermalTargetPowerSupply ThermalTarget = 4
	ThermalTargetBoard       ThermalTarget = 8
	ThermalTargetVcdBoard    ThermalTarget = 9
	ThermalTargetVcdInlet    ThermalTarget = 10
	ThermalTargetVcdOutlet   ThermalTarget = 11
	ThermalTargetAll         ThermalTarget = 15
)

var thermalTargets = enumValues[ThermalTarget]{"ThermalTarget", map[ThermalTarget]string{
	ThermalTargetUnknown:     "Unknown",
	ThermalTargetNone:        "None",
	ThermalTargetGpu:         "Gpu",
	ThermalTargetMemory:      "Memory",
	ThermalTargetPowerSupply: "PowerSupply",
	ThermalTargetBoard:       "Board",
	ThermalTargetVcdBoard:    "VcdBoard",
	ThermalTargetVcdInlet:    "VcdInlet",
	ThermalTargetVcdOutlet:   "VcdOutlet",
	ThermalTargetAll:         "All",
}}

// ThermalTargetFromRaw validates a raw driver value.
func ThermalTargetFromRaw(v int32) (ThermalTarget, error) {
	return thermalTargets.fromRaw(v)
}

func (t ThermalTarget) String() string { return thermalTargets.name(t) }

// ThermalSensorV1 is one sensor of GpuThermalSettingsV1. Temperatures are
// unsigned degrees Celsius.
type ThermalSensorV1 struct {
	Controller     ThermalController
	DefaultMinTemp uint32
	DefaultMaxTemp uint32
	CurrentTemp    uint32
	Target         ThermalTarget
}

// ThermalSensorV2 is one sensor of GpuThermalSettingsV2. Temperatures are
// signed degrees Celsius.
type ThermalSensorV2 struct {
	Controller     ThermalController
	DefaultMinTemp int32
	DefaultMaxTemp int32
	CurrentTemp    int32
	Target         ThermalTarget
}

// ThermalSensor is the newest sensor layout.
type ThermalSensor = ThermalSensorV2

// GpuThermalSettingsV1 is NV_GPU_THERMAL_SETTINGS_V1.
type GpuThermalSettingsV1 struct {
	Version StructVersion
	Count   uint32
	Sensor  [MaxThermalSensorsPerGpu]ThermalSensorV1
}

// GpuThermalSettingsV2 is NV_GPU_THERMAL_SETTINGS_V2.
type GpuThermalSettingsV2 struct {
	Version StructVersion
	Count   uint32
	Sensor  [MaxThermalSensorsPerGpu]ThermalSensorV2
}

// GpuThermalSettings is the newest thermal settings layout.
type GpuThermalSettings = GpuThermalSettingsV2

// Upgrade converts to the V2 layout. Temperatures above the int32 range
// cannot be reported by the driver and are not clamped.
func (s GpuThermalSettingsV1) Upgrade() GpuThermalSettingsV2 {
	out := GpuThermalSettingsV2{Version: GpuThermalSettingsVer2, Count: s.Count}
	for i, sensor := range s.Sensor {
		out.Sensor[i] = ThermalSensorV2{
			Controller:     sensor.Controller,
			DefaultMinTemp: int32(sensor.DefaultMinTemp),
			DefaultMaxTemp: int32(sensor.DefaultMaxTemp),
			CurrentTemp:    int32(sensor.CurrentTemp),
			Target:         sensor.Target,
		}
	}
	return out
}

// Sensors returns the populated sensors.
func (s *GpuThermalSettingsV2) Sensors() []ThermalSensorV2 {
	n := min(int(s.Count), len(s.Sensor))
	return s.Sensor[:n]
}

// MaxThermalPolicyEntries is the capacity of the client thermal policy
// structs.
const MaxThermalPolicyEntries = 4

// ThermalPolicyInfoEntry describes the limits of one thermal policy.
type ThermalPolicyInfoEntry struct {
	Controller   ThermalController
	Unknown      uint32
	MinTemp      int32
	DefaultTemp  int32
	MaxTemp      int32
	DefaultFlags uint32
}

// ThermalPoliciesInfoV2 is the private client thermal policies info struct.
type ThermalPoliciesInfoV2 struct {
	Version StructVersion
	Count   uint8
	Flags   uint8
	_       [2]uint8
	Entries [MaxThermalPolicyEntries]ThermalPolicyInfoEntry
}

// Policies returns the populated policy entries.
func (info *ThermalPoliciesInfoV2) Policies() []ThermalPolicyInfoEntry {
	n := min(int(info.Count), len(info.Entries))
	return info.Entries[:n]
}

// ThermalPolicyStatusEntry is the current limit of one thermal policy.
// Value is in 1/256 degrees Celsius.
type ThermalPolicyStatusEntry struct {
	Controller ThermalController
	Value      uint32
	Flags      uint32
}

// Celsius returns the limit in whole degrees.
func (e ThermalPolicyStatusEntry) Celsius() int32 {
	return int32(e.Value >> 8)
}

// SetCelsius sets the limit in whole degrees.
func (e *ThermalPolicyStatusEntry) SetCelsius(c int32) {
	e.Value = uint32(c) << 8
}

// ThermalPoliciesStatusV2 is the private client thermal policies status
// struct.
type ThermalPoliciesStatusV2 struct {
	Version StructVersion
	Flags   uint32
	Entries [MaxThermalPolicyEntries]ThermalPolicyStatusEntry
}

// Struct version tags.
const (
	GpuThermalSettingsVer1 = StructVersion(unsafe.Sizeof(GpuThermalSettingsV1{})) | 1<<16
	GpuThermalSettingsVer2 = StructVersion(unsafe.Sizeof(GpuThermalSettingsV2{})) | 2<<16
	GpuThermalSettingsVer  = GpuThermalSettingsVer2

	ThermalPoliciesInfoVer2   = StructVersion(unsafe.Sizeof(ThermalPoliciesInfoV2{})) | 2<<16
	ThermalPoliciesStatusVer2 = StructVersion(unsafe.Sizeof(ThermalPoliciesStatusV2{})) | 2<<16
)
