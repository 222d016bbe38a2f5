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

// MonitorConnectorType is the physical connector of a display.
type MonitorConnectorType int32

// Connector types.
const (
	MonitorConnectorUnknown       MonitorConnectorType = -1
	MonitorConnectorUninitialized MonitorConnectorType = 0
	MonitorConnectorVGA           MonitorConnectorType = 1
	MonitorConnectorComponent     MonitorConnectorType = 2
	MonitorConnectorSVideo        MonitorConnectorType = 3
	MonitorConnectorHDMI          MonitorConnectorType = 4
	MonitorConnectorDVI           MonitorConnectorType = 5
	MonitorConnectorLVDS          MonitorConnectorType = 6
	MonitorConnectorDP            MonitorConnectorType = 7
	MonitorConnectorComposite     MonitorConnectorType = 8
)

var monitorConnectorTypes = enumValues[MonitorConnectorType]{"MonitorConnectorType", map[MonitorConnectorType]string{
	MonitorConnectorUnknown:       "Unknown",
	MonitorConnectorUninitialized: "Uninitialized",
	MonitorConnectorVGA:           "VGA",
	MonitorConnectorComponent:     "Component",
	MonitorConnectorSVideo:        "SVideo",
	MonitorConnectorHDMI:          "HDMI",
	MonitorConnectorDVI:           "DVI",
	MonitorConnectorLVDS:          "LVDS",
	MonitorConnectorDP:            "DP",
	MonitorConnectorComposite:     "Composite",
}}

// MonitorConnectorTypeFromRaw validates a raw driver value.
func MonitorConnectorTypeFromRaw(v int32) (MonitorConnectorType, error) {
	return monitorConnectorTypes.fromRaw(v)
}

func (t MonitorConnectorType) String() string { return monitorConnectorTypes.name(t) }

// Flags accepted by GPU_GetConnectedDisplayIds.
const (
	ConnectedIDsFlagUncached   uint32 = 1 << 0
	ConnectedIDsFlagSLI        uint32 = 1 << 1
	ConnectedIDsFlagLidState   uint32 = 1 << 2
	ConnectedIDsFlagFake       uint32 = 1 << 3
	ConnectedIDsFlagExcludeMST uint32 = 1 << 4
)

// Bits of GpuDisplayIds.Flags.
const (
	DisplayIdsFlagDynamic             uint32 = 1 << 0
	DisplayIdsFlagMultiStreamRoot     uint32 = 1 << 1
	DisplayIdsFlagActive              uint32 = 1 << 2
	DisplayIdsFlagCluster             uint32 = 1 << 3
	DisplayIdsFlagOSVisible           uint32 = 1 << 4
	DisplayIdsFlagWFD                 uint32 = 1 << 5
	DisplayIdsFlagConnected           uint32 = 1 << 6
	DisplayIdsFlagPhysicallyConnected uint32 = 1 << 17
)

// GpuDisplayIds is NV_GPU_DISPLAYIDS.
type GpuDisplayIds struct {
	Version       StructVersion
	ConnectorType MonitorConnectorType
	DisplayID     uint32
	Flags         uint32
}

// IsActive reports whether the display is part of the desktop.
func (d *GpuDisplayIds) IsActive() bool { return d.Flags&DisplayIdsFlagActive != 0 }

// IsConnected reports whether the display is connected.
func (d *GpuDisplayIds) IsConnected() bool { return d.Flags&DisplayIdsFlagConnected != 0 }

// IsDynamic reports whether the display ID was assigned at runtime.
func (d *GpuDisplayIds) IsDynamic() bool { return d.Flags&DisplayIdsFlagDynamic != 0 }

// Struct version tags. The second layout revision carries version number 3.
const (
	GpuDisplayIdsVer1 = StructVersion(unsafe.Sizeof(GpuDisplayIds{})) | 1<<16
	GpuDisplayIdsVer2 = StructVersion(unsafe.Sizeof(GpuDisplayIds{})) | 3<<16
	GpuDisplayIdsVer  = GpuDisplayIdsVer2
)
