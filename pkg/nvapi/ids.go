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

import "fmt"

// InterfaceID identifies a driver entry point for nvapi_QueryInterface.
// IDs never change between driver releases.
type InterfaceID uint32

// Entry points used by this package.
const (
	idInitialize                InterfaceID = 0x0150e828
	idUnload                    InterfaceID = 0xd22bdd7e
	idGetErrorMessage           InterfaceID = 0x6c2d048c
	idGetInterfaceVersionString InterfaceID = 0x01053fa5
	idSysGetDriverAndBranch     InterfaceID = 0x2926aaad

	idEnumPhysicalGPUs            InterfaceID = 0xe5ac921f
	idEnumLogicalGPUs             InterfaceID = 0x48b3ea59
	idGPUGetFullName              InterfaceID = 0xceee8e9f
	idGPUGetShortName             InterfaceID = 0xd988f0f3
	idGPUGetVbiosVersionString    InterfaceID = 0xa561fd7d
	idGPUGetConnectedDisplayIds   InterfaceID = 0x0078dba2
	idGPUGetAllDisplayIds         InterfaceID = 0x785210a2
	idGPUGetThermalSettings       InterfaceID = 0xe3640a56
	idGPUThermalPoliciesGetInfo   InterfaceID = 0x0d258bb5
	idGPUThermalPoliciesGetStatus InterfaceID = 0xe9c425a1
	idGPUThermalPoliciesSetStatus InterfaceID = 0x34c0b13d

	idEnumNvidiaDisplayHandle              InterfaceID = 0x9abdd40d
	idEnumNvidiaUnAttachedDisplayHandle    InterfaceID = 0x20de9260
	idGetAssociatedNvidiaDisplayHandle     InterfaceID = 0x35c29134
	idGetAssociatedUnAttachedDisplayHandle InterfaceID = 0xa70503b2
	idGetAssociatedNvidiaDisplayName       InterfaceID = 0x22a78b05

	idGSyncEnumSyncDevices      InterfaceID = 0xd9639601
	idGSyncQueryCapabilities    InterfaceID = 0x44a3f1d1
	idGSyncGetTopology          InterfaceID = 0x4562bc38
	idGSyncSetSyncStateSettings InterfaceID = 0x60acdfdd
	idGSyncGetControlParameters InterfaceID = 0x16de1c6a
	idGSyncSetControlParameters InterfaceID = 0x8bbff88b
	idGSyncAdjustSyncDelay      InterfaceID = 0x2d11ff51
	idGSyncGetSyncStatus        InterfaceID = 0xf1f5b434
	idGSyncGetStatusParameters  InterfaceID = 0x70d404ec

	idMosaicGetSupportedTopoInfo            InterfaceID = 0xfdb63c81
	idMosaicGetTopoGroup                    InterfaceID = 0xcb89381d
	idMosaicGetOverlapLimits                InterfaceID = 0x989685f0
	idMosaicSetCurrentTopo                  InterfaceID = 0x9b542831
	idMosaicGetCurrentTopo                  InterfaceID = 0xec32944e
	idMosaicEnableCurrentTopo               InterfaceID = 0x5f1aa66c
	idMosaicSetDisplayGrids                 InterfaceID = 0x4d959a89
	idMosaicValidateDisplayGrids            InterfaceID = 0xcf43903d
	idMosaicEnumDisplayGrids                InterfaceID = 0xdf2887af
	idMosaicGetDisplayViewportsByResolution InterfaceID = 0xdc6dc8d3

	idGetSupportedMosaicTopologies InterfaceID = 0x410b5c25
	idGetCurrentMosaicTopology     InterfaceID = 0xf60852bd
	idSetCurrentMosaicTopology     InterfaceID = 0xd54b8989
	idEnableCurrentMosaicTopology  InterfaceID = 0x74073cc9
)

var interfaceNames = map[InterfaceID]string{
	idInitialize:                "NvAPI_Initialize",
	idUnload:                    "NvAPI_Unload",
	idGetErrorMessage:           "NvAPI_GetErrorMessage",
	idGetInterfaceVersionString: "NvAPI_GetInterfaceVersionString",
	idSysGetDriverAndBranch:     "NvAPI_SYS_GetDriverAndBranchVersion",

	idEnumPhysicalGPUs:            "NvAPI_EnumPhysicalGPUs",
	idEnumLogicalGPUs:             "NvAPI_EnumLogicalGPUs",
	idGPUGetFullName:              "NvAPI_GPU_GetFullName",
	idGPUGetShortName:             "NvAPI_GPU_GetShortName",
	idGPUGetVbiosVersionString:    "NvAPI_GPU_GetVbiosVersionString",
	idGPUGetConnectedDisplayIds:   "NvAPI_GPU_GetConnectedDisplayIds",
	idGPUGetAllDisplayIds:         "NvAPI_GPU_GetAllDisplayIds",
	idGPUGetThermalSettings:       "NvAPI_GPU_GetThermalSettings",
	idGPUThermalPoliciesGetInfo:   "NvAPI_GPU_ClientThermalPoliciesGetInfo",
	idGPUThermalPoliciesGetStatus: "NvAPI_GPU_ClientThermalPoliciesGetStatus",
	idGPUThermalPoliciesSetStatus: "NvAPI_GPU_ClientThermalPoliciesSetStatus",

	idEnumNvidiaDisplayHandle:              "NvAPI_EnumNvidiaDisplayHandle",
	idEnumNvidiaUnAttachedDisplayHandle:    "NvAPI_EnumNvidiaUnAttachedDisplayHandle",
	idGetAssociatedNvidiaDisplayHandle:     "NvAPI_GetAssociatedNvidiaDisplayHandle",
	idGetAssociatedUnAttachedDisplayHandle: "NvAPI_DISP_GetAssociatedUnAttachedNvidiaDisplayHandle",
	idGetAssociatedNvidiaDisplayName:       "NvAPI_GetAssociatedNvidiaDisplayName",

	idGSyncEnumSyncDevices:      "NvAPI_GSync_EnumSyncDevices",
	idGSyncQueryCapabilities:    "NvAPI_GSync_QueryCapabilities",
	idGSyncGetTopology:          "NvAPI_GSync_GetTopology",
	idGSyncSetSyncStateSettings: "NvAPI_GSync_SetSyncStateSettings",
	idGSyncGetControlParameters: "NvAPI_GSync_GetControlParameters",
	idGSyncSetControlParameters: "NvAPI_GSync_SetControlParameters",
	idGSyncAdjustSyncDelay:      "NvAPI_GSync_AdjustSyncDelay",
	idGSyncGetSyncStatus:        "NvAPI_GSync_GetSyncStatus",
	idGSyncGetStatusParameters:  "NvAPI_GSync_GetStatusParameters",

	idMosaicGetSupportedTopoInfo:            "NvAPI_Mosaic_GetSupportedTopoInfo",
	idMosaicGetTopoGroup:                    "NvAPI_Mosaic_GetTopoGroup",
	idMosaicGetOverlapLimits:                "NvAPI_Mosaic_GetOverlapLimits",
	idMosaicSetCurrentTopo:                  "NvAPI_Mosaic_SetCurrentTopo",
	idMosaicGetCurrentTopo:                  "NvAPI_Mosaic_GetCurrentTopo",
	idMosaicEnableCurrentTopo:               "NvAPI_Mosaic_EnableCurrentTopo",
	idMosaicSetDisplayGrids:                 "NvAPI_Mosaic_SetDisplayGrids",
	idMosaicValidateDisplayGrids:            "NvAPI_Mosaic_ValidateDisplayGrids",
	idMosaicEnumDisplayGrids:                "NvAPI_Mosaic_EnumDisplayGrids",
	idMosaicGetDisplayViewportsByResolution: "NvAPI_Mosaic_GetDisplayViewportsByResolution",

	idGetSupportedMosaicTopologies: "NvAPI_GetSupportedMosaicTopologies",
	idGetCurrentMosaicTopology:     "NvAPI_GetCurrentMosaicTopology",
	idSetCurrentMosaicTopology:     "NvAPI_SetCurrentMosaicTopology",
	idEnableCurrentMosaicTopology:  "NvAPI_EnableCurrentMosaicTopology",
}

func (id InterfaceID) String() string {
	if n, ok := interfaceNames[id]; ok {
		return n
	}
	return fmt.Sprintf("0x%08x", uint32(id))
}
