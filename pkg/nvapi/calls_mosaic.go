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

// nvapi.MosaicGetSupportedTopoInfo()
func (l *library) MosaicGetSupportedTopoInfo(info *SupportedTopoInfoV2, topoType MosaicTopoType) Status {
	if info == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idMosaicGetSupportedTopoInfo.String(), info.Version, SupportedTopoInfoVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetSupportedTopoInfo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(info)), uintptr(topoType)))
}

// nvapi.MosaicGetSupportedTopoInfoV1()
func (l *library) MosaicGetSupportedTopoInfoV1(info *SupportedTopoInfoV1, topoType MosaicTopoType) Status {
	if info == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idMosaicGetSupportedTopoInfo.String(), info.Version, SupportedTopoInfoVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetSupportedTopoInfo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(info)), uintptr(topoType)))
}

// nvapi.MosaicGetTopoGroup()
func (l *library) MosaicGetTopoGroup(brief *TopoBrief, group *TopoGroup) Status {
	if brief == nil || group == nil {
		return INVALID_ARGUMENT
	}
	name := idMosaicGetTopoGroup.String()
	if ret := checkVersion(name, brief.Version, TopoBriefVer); ret != OK {
		return ret
	}
	if ret := checkVersion(name, group.Version, TopoGroupVer); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetTopoGroup)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(brief)), uintptr(unsafe.Pointer(group))))
}

func checkBriefAndSetting(id InterfaceID, brief *TopoBrief, setting StructVersion, accepted StructVersion) Status {
	if brief == nil {
		return INVALID_ARGUMENT
	}
	name := id.String()
	if ret := checkVersion(name, brief.Version, TopoBriefVer); ret != OK {
		return ret
	}
	return checkVersion(name, setting, accepted)
}

// nvapi.MosaicGetOverlapLimits()
func (l *library) MosaicGetOverlapLimits(brief *TopoBrief, setting *DisplaySettingV2, minX, maxX, minY, maxY *int32) Status {
	if setting == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkBriefAndSetting(idMosaicGetOverlapLimits, brief, setting.Version, DisplaySettingVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetOverlapLimits)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn,
		uintptr(unsafe.Pointer(brief)),
		uintptr(unsafe.Pointer(setting)),
		uintptr(unsafe.Pointer(minX)),
		uintptr(unsafe.Pointer(maxX)),
		uintptr(unsafe.Pointer(minY)),
		uintptr(unsafe.Pointer(maxY)),
	))
}

// nvapi.MosaicGetOverlapLimitsV1()
func (l *library) MosaicGetOverlapLimitsV1(brief *TopoBrief, setting *DisplaySettingV1, minX, maxX, minY, maxY *int32) Status {
	if setting == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkBriefAndSetting(idMosaicGetOverlapLimits, brief, setting.Version, DisplaySettingVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetOverlapLimits)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn,
		uintptr(unsafe.Pointer(brief)),
		uintptr(unsafe.Pointer(setting)),
		uintptr(unsafe.Pointer(minX)),
		uintptr(unsafe.Pointer(maxX)),
		uintptr(unsafe.Pointer(minY)),
		uintptr(unsafe.Pointer(maxY)),
	))
}

// nvapi.MosaicSetCurrentTopo()
func (l *library) MosaicSetCurrentTopo(brief *TopoBrief, setting *DisplaySettingV2, overlapX, overlapY int32, enable bool) Status {
	if setting == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkBriefAndSetting(idMosaicSetCurrentTopo, brief, setting.Version, DisplaySettingVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicSetCurrentTopo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(brief)), uintptr(unsafe.Pointer(setting)), uintptr(overlapX), uintptr(overlapY), uintptr(NewBool(enable))))
}

// nvapi.MosaicSetCurrentTopoV1()
func (l *library) MosaicSetCurrentTopoV1(brief *TopoBrief, setting *DisplaySettingV1, overlapX, overlapY int32, enable bool) Status {
	if setting == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkBriefAndSetting(idMosaicSetCurrentTopo, brief, setting.Version, DisplaySettingVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicSetCurrentTopo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(brief)), uintptr(unsafe.Pointer(setting)), uintptr(overlapX), uintptr(overlapY), uintptr(NewBool(enable))))
}

// nvapi.MosaicGetCurrentTopo()
func (l *library) MosaicGetCurrentTopo(brief *TopoBrief, setting *DisplaySettingV2, overlapX, overlapY *int32) Status {
	if setting == nil || overlapX == nil || overlapY == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkBriefAndSetting(idMosaicGetCurrentTopo, brief, setting.Version, DisplaySettingVer2); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetCurrentTopo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(brief)), uintptr(unsafe.Pointer(setting)), uintptr(unsafe.Pointer(overlapX)), uintptr(unsafe.Pointer(overlapY))))
}

// nvapi.MosaicGetCurrentTopoV1()
func (l *library) MosaicGetCurrentTopoV1(brief *TopoBrief, setting *DisplaySettingV1, overlapX, overlapY *int32) Status {
	if setting == nil || overlapX == nil || overlapY == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkBriefAndSetting(idMosaicGetCurrentTopo, brief, setting.Version, DisplaySettingVer1); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicGetCurrentTopo)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(brief)), uintptr(unsafe.Pointer(setting)), uintptr(unsafe.Pointer(overlapX)), uintptr(unsafe.Pointer(overlapY))))
}

// nvapi.MosaicEnableCurrentTopo()
func (l *library) MosaicEnableCurrentTopo(enable bool) Status {
	fn, ret := l.proc(idMosaicEnableCurrentTopo)
	if ret != OK {
		return ret
	}
	return status(l.rawCall(fn, uintptr(NewBool(enable))))
}

func checkGridsV2(id InterfaceID, grids []GridTopoV2) Status {
	name := id.String()
	for i := range grids {
		g := &grids[i]
		if ret := checkVersion(name, g.Version, GridTopoVer2); ret != OK {
			return ret
		}
		if g.DisplayCount > MosaicMaxDisplays {
			return INVALID_ARGUMENT
		}
		if ret := checkVersion(name, g.DisplaySettings.Version, DisplaySettingVer1); ret != OK {
			return ret
		}
		for j := 0; j < int(g.DisplayCount); j++ {
			if ret := checkVersion(name, g.Displays[j].Version, GridTopoDisplayVer2); ret != OK {
				return ret
			}
		}
	}
	return OK
}

func checkGridsV1(id InterfaceID, grids []GridTopoV1) Status {
	name := id.String()
	for i := range grids {
		g := &grids[i]
		if ret := checkVersion(name, g.Version, GridTopoVer1); ret != OK {
			return ret
		}
		if g.DisplayCount > MosaicMaxDisplays {
			return INVALID_ARGUMENT
		}
		if ret := checkVersion(name, g.DisplaySettings.Version, DisplaySettingVer1); ret != OK {
			return ret
		}
	}
	return OK
}

// nvapi.MosaicSetDisplayGrids()
func (l *library) MosaicSetDisplayGrids(grids []GridTopoV2, flags uint32) Status {
	if ret := checkGridsV2(idMosaicSetDisplayGrids, grids); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicSetDisplayGrids)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(unsafe.SliceData(grids))), uintptr(len(grids)), uintptr(flags)))
}

// nvapi.MosaicSetDisplayGridsV1()
func (l *library) MosaicSetDisplayGridsV1(grids []GridTopoV1, flags uint32) Status {
	if ret := checkGridsV1(idMosaicSetDisplayGrids, grids); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicSetDisplayGrids)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(unsafe.SliceData(grids))), uintptr(len(grids)), uintptr(flags)))
}

func checkTopoStatuses(id InterfaceID, statuses []DisplayTopoStatus, grids int) Status {
	if len(statuses) < grids {
		return INVALID_ARGUMENT
	}
	for i := range statuses {
		if ret := checkVersion(id.String(), statuses[i].Version, DisplayTopoStatusVer); ret != OK {
			return ret
		}
	}
	return OK
}

// nvapi.MosaicValidateDisplayGrids()
func (l *library) MosaicValidateDisplayGrids(flags uint32, grids []GridTopoV2, statuses []DisplayTopoStatus) Status {
	if ret := checkGridsV2(idMosaicValidateDisplayGrids, grids); ret != OK {
		return ret
	}
	if ret := checkTopoStatuses(idMosaicValidateDisplayGrids, statuses, len(grids)); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicValidateDisplayGrids)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn,
		uintptr(flags),
		uintptr(unsafe.Pointer(unsafe.SliceData(grids))),
		uintptr(unsafe.Pointer(unsafe.SliceData(statuses))),
		uintptr(len(grids)),
	))
}

// nvapi.MosaicValidateDisplayGridsV1()
func (l *library) MosaicValidateDisplayGridsV1(flags uint32, grids []GridTopoV1, statuses []DisplayTopoStatus) Status {
	if ret := checkGridsV1(idMosaicValidateDisplayGrids, grids); ret != OK {
		return ret
	}
	if ret := checkTopoStatuses(idMosaicValidateDisplayGrids, statuses, len(grids)); ret != OK {
		return ret
	}
	fn, ret := l.proc(idMosaicValidateDisplayGrids)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn,
		uintptr(flags),
		uintptr(unsafe.Pointer(unsafe.SliceData(grids))),
		uintptr(unsafe.Pointer(unsafe.SliceData(statuses))),
		uintptr(len(grids)),
	))
}

// nvapi.MosaicEnumDisplayGrids()
func (l *library) MosaicEnumDisplayGrids(grids []GridTopoV2, count *uint32) Status {
	if ret := checkCapacity(count, grids != nil, len(grids)); ret != OK {
		return ret
	}
	name := idMosaicEnumDisplayGrids.String()
	for i := range grids {
		if ret := checkVersion(name, grids[i].Version, GridTopoVer2); ret != OK {
			return ret
		}
	}
	fn, ret := l.proc(idMosaicEnumDisplayGrids)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(unsafe.SliceData(grids))), uintptr(unsafe.Pointer(count))))
}

// nvapi.MosaicEnumDisplayGridsV1()
func (l *library) MosaicEnumDisplayGridsV1(grids []GridTopoV1, count *uint32) Status {
	if ret := checkCapacity(count, grids != nil, len(grids)); ret != OK {
		return ret
	}
	name := idMosaicEnumDisplayGrids.String()
	for i := range grids {
		if ret := checkVersion(name, grids[i].Version, GridTopoVer1); ret != OK {
			return ret
		}
	}
	fn, ret := l.proc(idMosaicEnumDisplayGrids)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(unsafe.SliceData(grids))), uintptr(unsafe.Pointer(count))))
}

// nvapi.MosaicGetDisplayViewportsByResolution()
func (l *library) MosaicGetDisplayViewportsByResolution(displayID uint32, width, height uint32, viewports *[MosaicMaxDisplays]Rect, bezelCorrected *uint8) Status {
	if viewports == nil || bezelCorrected == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idMosaicGetDisplayViewportsByResolution)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(displayID), uintptr(width), uintptr(height), uintptr(unsafe.Pointer(viewports)), uintptr(unsafe.Pointer(bezelCorrected))))
}

// nvapi.GetSupportedMosaicTopologies()
func (l *library) GetSupportedMosaicTopologies(topos *SupportedMosaicTopologies) Status {
	if topos == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGetSupportedMosaicTopologies.String(), topos.Version, SupportedMosaicTopologiesVer); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGetSupportedMosaicTopologies)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(topos))))
}

// nvapi.GetCurrentMosaicTopology()
func (l *library) GetCurrentMosaicTopology(topo *MosaicTopology, enabled *uint32) Status {
	if topo == nil || enabled == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idGetCurrentMosaicTopology.String(), topo.Version, MosaicTopologyVer); ret != OK {
		return ret
	}
	fn, ret := l.proc(idGetCurrentMosaicTopology)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(topo)), uintptr(unsafe.Pointer(enabled))))
}

// nvapi.SetCurrentMosaicTopology()
func (l *library) SetCurrentMosaicTopology(topo *MosaicTopology) Status {
	if topo == nil {
		return INVALID_ARGUMENT
	}
	if ret := checkVersion(idSetCurrentMosaicTopology.String(), topo.Version, MosaicTopologyVer); ret != OK {
		return ret
	}
	fn, ret := l.proc(idSetCurrentMosaicTopology)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(topo))))
}

// nvapi.EnableCurrentMosaicTopology()
func (l *library) EnableCurrentMosaicTopology(enable bool) Status {
	fn, ret := l.proc(idEnableCurrentMosaicTopology)
	if ret != OK {
		return ret
	}
	return status(l.rawCall(fn, uintptr(NewBool(enable))))
}
