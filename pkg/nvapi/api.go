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

// The variables below represent package level methods from the library type.
var (
	Init                         = libnvapi.Init
	Shutdown                     = libnvapi.Shutdown
	GetErrorMessage              = libnvapi.GetErrorMessage
	GetInterfaceVersionString    = libnvapi.GetInterfaceVersionString
	SysGetDriverAndBranchVersion = libnvapi.SysGetDriverAndBranchVersion
)

// Default returns the process-wide nvapi library.
func Default() Interface {
	return libnvapi
}

// Interface represents the nvapi entry points bound by this package.
//
// Methods mirror the driver ABI: callers own every buffer and must set the
// version tag of every struct before the call. Entry points that exist in
// several struct versions have one method per version; the unsuffixed
// method takes the newest layout.
type Interface interface {
	Init() Status
	Shutdown() Status
	GetErrorMessage(Status) (string, Status)
	GetInterfaceVersionString() (string, Status)
	SysGetDriverAndBranchVersion() (uint32, string, Status)

	EnumPhysicalGPUs(handles *[MaxPhysicalGpus]PhysicalGpuHandle, count *uint32) Status
	EnumLogicalGPUs(handles *[MaxLogicalGpus]LogicalGpuHandle, count *uint32) Status
	GpuGetFullName(gpu PhysicalGpuHandle, name *ShortString) Status
	GpuGetShortName(gpu PhysicalGpuHandle, name *ShortString) Status
	GpuGetVbiosVersionString(gpu PhysicalGpuHandle, version *ShortString) Status
	GpuGetConnectedDisplayIds(gpu PhysicalGpuHandle, ids []GpuDisplayIds, count *uint32, flags uint32) Status
	GpuGetAllDisplayIds(gpu PhysicalGpuHandle, ids []GpuDisplayIds, count *uint32) Status
	GpuGetThermalSettings(gpu PhysicalGpuHandle, sensorIndex uint32, settings *GpuThermalSettingsV2) Status
	GpuGetThermalSettingsV1(gpu PhysicalGpuHandle, sensorIndex uint32, settings *GpuThermalSettingsV1) Status
	GpuClientThermalPoliciesGetInfo(gpu PhysicalGpuHandle, info *ThermalPoliciesInfoV2) Status
	GpuClientThermalPoliciesGetStatus(gpu PhysicalGpuHandle, status *ThermalPoliciesStatusV2) Status
	GpuClientThermalPoliciesSetStatus(gpu PhysicalGpuHandle, status *ThermalPoliciesStatusV2) Status

	EnumNvidiaDisplayHandle(index uint32, handle *DisplayHandle) Status
	EnumNvidiaUnAttachedDisplayHandle(index uint32, handle *UnAttachedDisplayHandle) Status
	GetAssociatedNvidiaDisplayHandle(name string, handle *DisplayHandle) Status
	GetAssociatedUnAttachedNvidiaDisplayHandle(name string, handle *UnAttachedDisplayHandle) Status
	GetAssociatedNvidiaDisplayName(handle DisplayHandle, name *ShortString) Status

	GSyncEnumSyncDevices(handles *[MaxGSyncDevices]GSyncDeviceHandle, count *uint32) Status
	GSyncQueryCapabilities(device GSyncDeviceHandle, caps *GSyncCapabilitiesV2) Status
	GSyncQueryCapabilitiesV1(device GSyncDeviceHandle, caps *GSyncCapabilitiesV1) Status
	GSyncGetTopology(device GSyncDeviceHandle, gpuCount *uint32, gpus []GSyncGpu, displayCount *uint32, displays []GSyncDisplay) Status
	GSyncSetSyncStateSettings(displays []GSyncDisplay, flags uint32) Status
	GSyncGetControlParameters(device GSyncDeviceHandle, params *GSyncControlParams) Status
	GSyncSetControlParameters(device GSyncDeviceHandle, params *GSyncControlParams) Status
	GSyncAdjustSyncDelay(device GSyncDeviceHandle, delayType GSyncDelayType, delay *GSyncDelay, steps *uint32) Status
	GSyncGetSyncStatus(device GSyncDeviceHandle, gpu PhysicalGpuHandle, status *GSyncStatus) Status
	GSyncGetStatusParameters(device GSyncDeviceHandle, params *GSyncStatusParamsV2) Status
	GSyncGetStatusParametersV1(device GSyncDeviceHandle, params *GSyncStatusParamsV1) Status

	MosaicGetSupportedTopoInfo(info *SupportedTopoInfoV2, topoType MosaicTopoType) Status
	MosaicGetSupportedTopoInfoV1(info *SupportedTopoInfoV1, topoType MosaicTopoType) Status
	MosaicGetTopoGroup(brief *TopoBrief, group *TopoGroup) Status
	MosaicGetOverlapLimits(brief *TopoBrief, setting *DisplaySettingV2, minX, maxX, minY, maxY *int32) Status
	MosaicGetOverlapLimitsV1(brief *TopoBrief, setting *DisplaySettingV1, minX, maxX, minY, maxY *int32) Status
	MosaicSetCurrentTopo(brief *TopoBrief, setting *DisplaySettingV2, overlapX, overlapY int32, enable bool) Status
	MosaicSetCurrentTopoV1(brief *TopoBrief, setting *DisplaySettingV1, overlapX, overlapY int32, enable bool) Status
	MosaicGetCurrentTopo(brief *TopoBrief, setting *DisplaySettingV2, overlapX, overlapY *int32) Status
	MosaicGetCurrentTopoV1(brief *TopoBrief, setting *DisplaySettingV1, overlapX, overlapY *int32) Status
	MosaicEnableCurrentTopo(enable bool) Status
	MosaicSetDisplayGrids(grids []GridTopoV2, flags uint32) Status
	MosaicSetDisplayGridsV1(grids []GridTopoV1, flags uint32) Status
	MosaicValidateDisplayGrids(flags uint32, grids []GridTopoV2, statuses []DisplayTopoStatus) Status
	MosaicValidateDisplayGridsV1(flags uint32, grids []GridTopoV1, statuses []DisplayTopoStatus) Status
	MosaicEnumDisplayGrids(grids []GridTopoV2, count *uint32) Status
	MosaicEnumDisplayGridsV1(grids []GridTopoV1, count *uint32) Status
	MosaicGetDisplayViewportsByResolution(displayID uint32, width, height uint32, viewports *[MosaicMaxDisplays]Rect, bezelCorrected *uint8) Status

	GetSupportedMosaicTopologies(topos *SupportedMosaicTopologies) Status
	GetCurrentMosaicTopology(topo *MosaicTopology, enabled *uint32) Status
	SetCurrentMosaicTopology(topo *MosaicTopology) Status
	EnableCurrentMosaicTopology(enable bool) Status
}
