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

// Mosaic is the display grid state of the driver.
type Mosaic struct {
	// Supported lists the topologies the system can drive.
	Supported []nvapi.TopoBrief
	// Settings lists the display modes common to all supported topologies.
	Settings []nvapi.DisplaySettingV2

	MinOverlapX int32
	MaxOverlapX int32
	MinOverlapY int32
	MaxOverlapY int32

	Current        nvapi.MosaicTopo
	CurrentSetting nvapi.DisplaySettingV2
	OverlapX       int32
	OverlapY       int32
	Enabled        bool

	Grids []nvapi.GridTopoV2

	// Legacy lists the topologies of the pre-grid API. LegacyCurrent is an
	// index into Legacy or -1.
	Legacy        []LegacyTopology
	LegacyCurrent int
	LegacyEnabled bool
}

// LegacyTopology is a row and column count of the legacy Mosaic API.
type LegacyTopology struct {
	Rows    uint32
	Columns uint32
}

func (s *Server) supportedBrief(topo nvapi.MosaicTopo) (nvapi.TopoBrief, bool) {
	for _, b := range s.Mosaic.Supported {
		if b.Topo == topo {
			return b, true
		}
	}
	return nvapi.TopoBrief{}, false
}

func (s *Server) settingSupported(width, height uint32) bool {
	for _, m := range s.Mosaic.Settings {
		if m.Width == width && m.Height == height {
			return true
		}
	}
	return false
}

func (s *Server) overlapAllowed(x, y int32) bool {
	m := &s.Mosaic
	return x >= m.MinOverlapX && x <= m.MaxOverlapX && y >= m.MinOverlapY && y <= m.MaxOverlapY
}

// gpuLayout spreads the cells of a rows x cols grid over the GPUs.
func (s *Server) gpuLayout(rows, cols uint32) [nvapi.MosaicMaxRows][nvapi.MosaicMaxColumns]nvapi.GpuLayoutElem {
	var layout [nvapi.MosaicMaxRows][nvapi.MosaicMaxColumns]nvapi.GpuLayoutElem
	if len(s.GPUs) == 0 {
		return layout
	}
	for r := uint32(0); r < min(rows, nvapi.MosaicMaxRows); r++ {
		for c := uint32(0); c < min(cols, nvapi.MosaicMaxColumns); c++ {
			i := int(r*cols + c)
			layout[r][c] = nvapi.GpuLayoutElem{
				PhysicalGpu:     s.GPUs[i%len(s.GPUs)].Handle,
				DisplayOutputID: 1 << (i / len(s.GPUs)),
			}
		}
	}
	return layout
}

func (s *Server) topoDetails(brief nvapi.TopoBrief) nvapi.TopoDetails {
	rows, cols := brief.Topo.Dimensions()
	d := nvapi.TopoDetails{
		Version:   nvapi.TopoDetailsVer,
		RowCount:  rows,
		ColCount:  cols,
		GpuLayout: s.gpuLayout(rows, cols),
	}
	if len(s.LogicalGPUs) > 0 {
		d.LogicalGpu = s.LogicalGPUs[0]
	}
	if !brief.IsPossible.Bool() {
		d.ValidityMask = nvapi.MosaicTopoValidityMissingDisplay
	}
	return d
}

func matchesTopoType(topo nvapi.MosaicTopo, topoType nvapi.MosaicTopoType) bool {
	switch topoType {
	case nvapi.MosaicTopoTypeAll:
		return true
	case nvapi.MosaicTopoTypeBasic:
		return !topo.IsPassiveStereo()
	case nvapi.MosaicTopoTypePassiveStereo:
		return topo.IsPassiveStereo()
	}
	return false
}

// supportedTopoInfo fills the V2 layout; the V1 entry point downgrades it.
func (s *Server) supportedTopoInfo(info *nvapi.SupportedTopoInfoV2, topoType nvapi.MosaicTopoType) nvapi.Status {
	if _, err := nvapi.MosaicTopoTypeFromRaw(int32(topoType)); err != nil {
		return nvapi.INVALID_ARGUMENT
	}
	var briefs uint32
	for _, b := range s.Mosaic.Supported {
		if !matchesTopoType(b.Topo, topoType) || briefs == nvapi.MosaicTopoBriefsMax {
			continue
		}
		b.Version = nvapi.TopoBriefVer
		b.Enabled = nvapi.NewBool(s.Mosaic.Enabled && s.Mosaic.Current == b.Topo)
		info.TopoBriefs[briefs] = b
		briefs++
	}
	info.TopoBriefsCount = briefs

	var settings uint32
	if briefs > 0 {
		for _, m := range s.Mosaic.Settings {
			if settings == nvapi.MosaicDisplaySettingsMax {
				break
			}
			m.Version = nvapi.DisplaySettingVer2
			info.DisplaySettings[settings] = m
			settings++
		}
	}
	info.DisplaySettingsCount = settings
	return nvapi.OK
}

// MosaicGetSupportedTopoInfo implements nvapi.Interface.
func (s *Server) MosaicGetSupportedTopoInfo(info *nvapi.SupportedTopoInfoV2, topoType nvapi.MosaicTopoType) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetSupportedTopoInfo"); ret != nvapi.OK {
		return ret
	}
	if info == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(info.Version, nvapi.SupportedTopoInfoVer2); ret != nvapi.OK {
		return ret
	}
	return s.supportedTopoInfo(info, topoType)
}

// MosaicGetSupportedTopoInfoV1 implements nvapi.Interface.
func (s *Server) MosaicGetSupportedTopoInfoV1(info *nvapi.SupportedTopoInfoV1, topoType nvapi.MosaicTopoType) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetSupportedTopoInfoV1"); ret != nvapi.OK {
		return ret
	}
	if info == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(info.Version, nvapi.SupportedTopoInfoVer1); ret != nvapi.OK {
		return ret
	}
	v2 := nvapi.NewSupportedTopoInfoV2()
	if ret := s.supportedTopoInfo(v2, topoType); ret != nvapi.OK {
		return ret
	}
	info.TopoBriefsCount = v2.TopoBriefsCount
	info.TopoBriefs = v2.TopoBriefs
	info.DisplaySettingsCount = v2.DisplaySettingsCount
	for i := range v2.DisplaySettings {
		info.DisplaySettings[i] = v2.DisplaySettings[i].Downgrade()
	}
	return nvapi.OK
}

// MosaicGetTopoGroup implements nvapi.Interface.
func (s *Server) MosaicGetTopoGroup(brief *nvapi.TopoBrief, group *nvapi.TopoGroup) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetTopoGroup"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || group == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(group.Version, nvapi.TopoGroupVer); ret != nvapi.OK {
		return ret
	}
	b, ok := s.supportedBrief(brief.Topo)
	if !ok {
		return nvapi.TOPO_NOT_POSSIBLE
	}
	b.Version = nvapi.TopoBriefVer
	b.Enabled = nvapi.NewBool(s.Mosaic.Enabled && s.Mosaic.Current == b.Topo)

	*group = *nvapi.NewTopoGroup()
	group.Brief = b
	group.Count = 1
	group.Topos[0] = s.topoDetails(b)
	return nvapi.OK
}

// overlapLimits checks a brief and mode and returns the overlap limits.
func (s *Server) overlapLimits(brief *nvapi.TopoBrief, width, height uint32, minX, maxX, minY, maxY *int32) nvapi.Status {
	if minX == nil || maxX == nil || minY == nil || maxY == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if _, ok := s.supportedBrief(brief.Topo); !ok {
		return nvapi.TOPO_NOT_POSSIBLE
	}
	if !s.settingSupported(width, height) {
		return nvapi.INVALID_ARGUMENT
	}
	*minX, *maxX = s.Mosaic.MinOverlapX, s.Mosaic.MaxOverlapX
	*minY, *maxY = s.Mosaic.MinOverlapY, s.Mosaic.MaxOverlapY
	return nvapi.OK
}

// MosaicGetOverlapLimits implements nvapi.Interface.
func (s *Server) MosaicGetOverlapLimits(brief *nvapi.TopoBrief, setting *nvapi.DisplaySettingV2, minX, maxX, minY, maxY *int32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetOverlapLimits"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || setting == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(setting.Version, nvapi.DisplaySettingVer2); ret != nvapi.OK {
		return ret
	}
	return s.overlapLimits(brief, setting.Width, setting.Height, minX, maxX, minY, maxY)
}

// MosaicGetOverlapLimitsV1 implements nvapi.Interface.
func (s *Server) MosaicGetOverlapLimitsV1(brief *nvapi.TopoBrief, setting *nvapi.DisplaySettingV1, minX, maxX, minY, maxY *int32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetOverlapLimitsV1"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || setting == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(setting.Version, nvapi.DisplaySettingVer1); ret != nvapi.OK {
		return ret
	}
	return s.overlapLimits(brief, setting.Width, setting.Height, minX, maxX, minY, maxY)
}

func (s *Server) setCurrentTopo(brief *nvapi.TopoBrief, setting nvapi.DisplaySettingV2, overlapX, overlapY int32, enable bool) nvapi.Status {
	b, ok := s.supportedBrief(brief.Topo)
	if !ok || !b.IsPossible.Bool() {
		return nvapi.TOPO_NOT_POSSIBLE
	}
	if !s.settingSupported(setting.Width, setting.Height) || !s.overlapAllowed(overlapX, overlapY) {
		return nvapi.INVALID_ARGUMENT
	}
	setting.Version = nvapi.DisplaySettingVer2
	s.Mosaic.Current = b.Topo
	s.Mosaic.CurrentSetting = setting
	s.Mosaic.OverlapX = overlapX
	s.Mosaic.OverlapY = overlapY
	s.Mosaic.Enabled = enable
	if enable {
		s.modeSet()
	}
	return nvapi.OK
}

// MosaicSetCurrentTopo implements nvapi.Interface.
func (s *Server) MosaicSetCurrentTopo(brief *nvapi.TopoBrief, setting *nvapi.DisplaySettingV2, overlapX, overlapY int32, enable bool) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicSetCurrentTopo"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || setting == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(setting.Version, nvapi.DisplaySettingVer2); ret != nvapi.OK {
		return ret
	}
	return s.setCurrentTopo(brief, *setting, overlapX, overlapY, enable)
}

// MosaicSetCurrentTopoV1 implements nvapi.Interface.
func (s *Server) MosaicSetCurrentTopoV1(brief *nvapi.TopoBrief, setting *nvapi.DisplaySettingV1, overlapX, overlapY int32, enable bool) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicSetCurrentTopoV1"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || setting == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(setting.Version, nvapi.DisplaySettingVer1); ret != nvapi.OK {
		return ret
	}
	return s.setCurrentTopo(brief, setting.Upgrade(), overlapX, overlapY, enable)
}

// currentTopo fills brief and the overlaps and returns the current mode.
// An unconfigured system reports MosaicTopoNone.
func (s *Server) currentTopo(brief *nvapi.TopoBrief, overlapX, overlapY *int32) nvapi.DisplaySettingV2 {
	m := &s.Mosaic
	brief.Topo = m.Current
	brief.Enabled = nvapi.NewBool(m.Enabled)
	brief.IsPossible = nvapi.NewBool(m.Current != nvapi.MosaicTopoNone)
	*overlapX, *overlapY = m.OverlapX, m.OverlapY
	return m.CurrentSetting
}

// MosaicGetCurrentTopo implements nvapi.Interface.
func (s *Server) MosaicGetCurrentTopo(brief *nvapi.TopoBrief, setting *nvapi.DisplaySettingV2, overlapX, overlapY *int32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetCurrentTopo"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || setting == nil || overlapX == nil || overlapY == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(setting.Version, nvapi.DisplaySettingVer2); ret != nvapi.OK {
		return ret
	}
	current := s.currentTopo(brief, overlapX, overlapY)
	current.Version = setting.Version
	*setting = current
	return nvapi.OK
}

// MosaicGetCurrentTopoV1 implements nvapi.Interface.
func (s *Server) MosaicGetCurrentTopoV1(brief *nvapi.TopoBrief, setting *nvapi.DisplaySettingV1, overlapX, overlapY *int32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetCurrentTopoV1"); ret != nvapi.OK {
		return ret
	}
	if brief == nil || setting == nil || overlapX == nil || overlapY == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(brief.Version, nvapi.TopoBriefVer); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkTag(setting.Version, nvapi.DisplaySettingVer1); ret != nvapi.OK {
		return ret
	}
	*setting = s.currentTopo(brief, overlapX, overlapY).Downgrade()
	return nvapi.OK
}

// MosaicEnableCurrentTopo implements nvapi.Interface.
func (s *Server) MosaicEnableCurrentTopo(enable bool) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicEnableCurrentTopo"); ret != nvapi.OK {
		return ret
	}
	if s.Mosaic.Current == nvapi.MosaicTopoNone {
		return nvapi.TOPO_NOT_POSSIBLE
	}
	if s.Mosaic.Enabled != enable {
		s.Mosaic.Enabled = enable
		s.modeSet()
	}
	return nvapi.OK
}

func (s *Server) checkGrid(g *nvapi.GridTopoV2) nvapi.Status {
	if ret := s.checkTag(g.DisplaySettings.Version, nvapi.DisplaySettingVer1); ret != nvapi.OK {
		return ret
	}
	if g.DisplayCount > nvapi.MosaicMaxDisplays {
		return nvapi.INVALID_ARGUMENT
	}
	for i := range g.ActiveDisplays() {
		if ret := s.checkTag(g.Displays[i].Version, nvapi.GridTopoDisplayVer2); ret != nvapi.OK {
			return ret
		}
	}
	return nvapi.OK
}

// validateGrid reports the problems of one grid. Displays must be
// connected, multi-display grids must use a mode common to all displays
// and overlaps outside the limits produce a position warning.
func (s *Server) validateGrid(g *nvapi.GridTopoV2, st *nvapi.DisplayTopoStatus) {
	*st = nvapi.DisplayTopoStatus{Version: st.Version, DisplayCount: g.DisplayCount}
	if g.Rows == 0 || g.Columns == 0 || g.Rows*g.Columns > g.DisplayCount {
		st.ErrorFlags |= nvapi.DisplayCapsProblemNotSupported
	}
	for i, d := range g.ActiveDisplays() {
		sd := &st.Displays[i]
		sd.DisplayID = d.DisplayID
		sd.Flags = nvapi.DisplayTopoStatusFlagSupportsRotation
		if _, id := s.findDisplayID(d.DisplayID); id == nil || !id.IsConnected() {
			sd.ErrorFlags |= nvapi.DisplayCapsProblemNoDisplayConnected
		}
		if g.DisplayCount > 1 && !s.settingSupported(g.DisplaySettings.Width, g.DisplaySettings.Height) {
			sd.ErrorFlags |= nvapi.DisplayCapsProblemNoCommonTimings
		}
		if !s.overlapAllowed(d.OverlapX, d.OverlapY) {
			sd.WarningFlags |= nvapi.DisplayTopoWarningDisplayPosition
		}
		st.ErrorFlags |= sd.ErrorFlags
		st.WarningFlags |= sd.WarningFlags
	}
}

func (s *Server) checkGridsV2(grids []nvapi.GridTopoV2) nvapi.Status {
	for i := range grids {
		if ret := s.checkTag(grids[i].Version, nvapi.GridTopoVer2); ret != nvapi.OK {
			return ret
		}
		if ret := s.checkGrid(&grids[i]); ret != nvapi.OK {
			return ret
		}
	}
	return nvapi.OK
}

// validateGrids expects grids whose tags were checked by the entry point.
func (s *Server) validateGrids(grids []nvapi.GridTopoV2, statuses []nvapi.DisplayTopoStatus) nvapi.Status {
	if len(grids) == 0 || len(statuses) < len(grids) {
		return nvapi.INVALID_ARGUMENT
	}
	for i := range grids {
		if ret := s.checkTag(statuses[i].Version, nvapi.DisplayTopoStatusVer); ret != nvapi.OK {
			return ret
		}
	}
	for i := range grids {
		s.validateGrid(&grids[i], &statuses[i])
	}
	return nvapi.OK
}

// MosaicValidateDisplayGrids implements nvapi.Interface.
func (s *Server) MosaicValidateDisplayGrids(flags uint32, grids []nvapi.GridTopoV2, statuses []nvapi.DisplayTopoStatus) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicValidateDisplayGrids"); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkGridsV2(grids); ret != nvapi.OK {
		return ret
	}
	return s.validateGrids(grids, statuses)
}

// MosaicValidateDisplayGridsV1 implements nvapi.Interface.
func (s *Server) MosaicValidateDisplayGridsV1(flags uint32, grids []nvapi.GridTopoV1, statuses []nvapi.DisplayTopoStatus) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicValidateDisplayGridsV1"); ret != nvapi.OK {
		return ret
	}
	upgraded, ret := s.upgradeGrids(grids)
	if ret != nvapi.OK {
		return ret
	}
	return s.validateGrids(upgraded, statuses)
}

func (s *Server) upgradeGrids(grids []nvapi.GridTopoV1) ([]nvapi.GridTopoV2, nvapi.Status) {
	upgraded := make([]nvapi.GridTopoV2, len(grids))
	for i := range grids {
		if ret := s.checkTag(grids[i].Version, nvapi.GridTopoVer1); ret != nvapi.OK {
			return nil, ret
		}
		if ret := s.checkTag(grids[i].DisplaySettings.Version, nvapi.DisplaySettingVer1); ret != nvapi.OK {
			return nil, ret
		}
		if grids[i].DisplayCount > nvapi.MosaicMaxDisplays {
			return nil, nvapi.INVALID_ARGUMENT
		}
		upgraded[i] = grids[i].Upgrade()
	}
	return upgraded, nvapi.OK
}

// setDisplayGrids applies a grid set. Unless SetDisplayTopoFlagAllowInvalid
// is passed, a set with any error is rejected. The first multi-display
// grid becomes the current topology.
func (s *Server) setDisplayGrids(grids []nvapi.GridTopoV2, flags uint32) nvapi.Status {
	if len(grids) == 0 {
		return nvapi.INVALID_ARGUMENT
	}
	statuses := make([]nvapi.DisplayTopoStatus, len(grids))
	for i := range statuses {
		statuses[i].Version = nvapi.DisplayTopoStatusVer
	}
	if ret := s.validateGrids(grids, statuses); ret != nvapi.OK {
		return ret
	}
	if flags&nvapi.SetDisplayTopoFlagAllowInvalid == 0 {
		for _, st := range statuses {
			if st.ErrorFlags != 0 {
				return nvapi.TOPO_NOT_POSSIBLE
			}
		}
	}

	s.Mosaic.Grids = append([]nvapi.GridTopoV2(nil), grids...)
	s.Mosaic.Current = nvapi.MosaicTopoNone
	s.Mosaic.Enabled = false
	for _, g := range grids {
		if g.DisplayCount < 2 {
			continue
		}
		if topo, ok := nvapi.MosaicTopoFromDimensions(g.Rows, g.Columns, false); ok {
			s.Mosaic.Current = topo
			s.Mosaic.CurrentSetting = g.DisplaySettings.Upgrade()
			s.Mosaic.OverlapX = g.Displays[0].OverlapX
			s.Mosaic.OverlapY = g.Displays[0].OverlapY
			s.Mosaic.Enabled = true
			break
		}
	}
	s.modeSet()
	return nvapi.OK
}

// MosaicSetDisplayGrids implements nvapi.Interface.
func (s *Server) MosaicSetDisplayGrids(grids []nvapi.GridTopoV2, flags uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicSetDisplayGrids"); ret != nvapi.OK {
		return ret
	}
	if ret := s.checkGridsV2(grids); ret != nvapi.OK {
		return ret
	}
	return s.setDisplayGrids(grids, flags)
}

// MosaicSetDisplayGridsV1 implements nvapi.Interface.
func (s *Server) MosaicSetDisplayGridsV1(grids []nvapi.GridTopoV1, flags uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicSetDisplayGridsV1"); ret != nvapi.OK {
		return ret
	}
	upgraded, ret := s.upgradeGrids(grids)
	if ret != nvapi.OK {
		return ret
	}
	return s.setDisplayGrids(upgraded, flags)
}

// MosaicEnumDisplayGrids implements nvapi.Interface. A nil buffer queries
// the count; a buffer that is too small fails with INSUFFICIENT_BUFFER.
func (s *Server) MosaicEnumDisplayGrids(grids []nvapi.GridTopoV2, count *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicEnumDisplayGrids"); ret != nvapi.OK {
		return ret
	}
	if count == nil {
		return nvapi.INVALID_ARGUMENT
	}
	n := uint32(len(s.Mosaic.Grids))
	if grids == nil {
		*count = n
		s.counted("MosaicEnumDisplayGrids")
		return nvapi.OK
	}
	if int(*count) > len(grids) {
		return nvapi.INVALID_ARGUMENT
	}
	for i := range grids {
		if ret := s.checkTag(grids[i].Version, nvapi.GridTopoVer2); ret != nvapi.OK {
			return ret
		}
	}
	if n > *count {
		*count = n
		return nvapi.INSUFFICIENT_BUFFER
	}
	copy(grids, s.Mosaic.Grids)
	*count = n
	return nvapi.OK
}

// MosaicEnumDisplayGridsV1 implements nvapi.Interface. Grids using pixel
// shift cannot be expressed in V1 and fail the call.
func (s *Server) MosaicEnumDisplayGridsV1(grids []nvapi.GridTopoV1, count *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicEnumDisplayGridsV1"); ret != nvapi.OK {
		return ret
	}
	if count == nil {
		return nvapi.INVALID_ARGUMENT
	}
	n := uint32(len(s.Mosaic.Grids))
	if grids == nil {
		*count = n
		s.counted("MosaicEnumDisplayGridsV1")
		return nvapi.OK
	}
	if int(*count) > len(grids) {
		return nvapi.INVALID_ARGUMENT
	}
	for i := range grids {
		if ret := s.checkTag(grids[i].Version, nvapi.GridTopoVer1); ret != nvapi.OK {
			return ret
		}
	}
	if n > *count {
		*count = n
		return nvapi.INSUFFICIENT_BUFFER
	}
	for i := range s.Mosaic.Grids {
		g, err := s.Mosaic.Grids[i].Downgrade()
		if err != nil {
			return nvapi.INCOMPATIBLE_STRUCT_VERSION
		}
		grids[i] = g
	}
	*count = n
	return nvapi.OK
}

// MosaicGetDisplayViewportsByResolution implements nvapi.Interface. A zero
// width and height select the grid's current mode. Viewports are laid out
// row-major in grid order.
func (s *Server) MosaicGetDisplayViewportsByResolution(displayID uint32, width, height uint32, viewports *[nvapi.MosaicMaxDisplays]nvapi.Rect, bezelCorrected *uint8) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("MosaicGetDisplayViewportsByResolution"); ret != nvapi.OK {
		return ret
	}
	if viewports == nil || bezelCorrected == nil {
		return nvapi.INVALID_ARGUMENT
	}

	var grid *nvapi.GridTopoV2
	for i := range s.Mosaic.Grids {
		for _, d := range s.Mosaic.Grids[i].ActiveDisplays() {
			if d.DisplayID == displayID {
				grid = &s.Mosaic.Grids[i]
			}
		}
	}
	if grid == nil {
		return nvapi.INVALID_DISPLAY_ID
	}
	if width == 0 && height == 0 {
		width, height = grid.DisplaySettings.Width, grid.DisplaySettings.Height
	} else if !s.settingSupported(width, height) {
		return nvapi.INVALID_ARGUMENT
	}

	*viewports = [nvapi.MosaicMaxDisplays]nvapi.Rect{}
	cols := max(grid.Columns, 1)
	for i := range grid.ActiveDisplays() {
		row, col := uint32(i)/cols, uint32(i)%cols
		left, top := col*width, row*height
		viewports[i] = nvapi.Rect{Left: left, Top: top, Right: left + width - 1, Bottom: top + height - 1}
	}
	*bezelCorrected = 0
	if grid.HasFlag(nvapi.GridFlagBezelCorrected) {
		*bezelCorrected = 1
	}
	return nvapi.OK
}

func (s *Server) legacyTopology(t LegacyTopology) nvapi.MosaicTopology {
	return nvapi.MosaicTopology{
		Version:   nvapi.MosaicTopologyVer,
		RowCount:  t.Rows,
		ColCount:  t.Columns,
		GpuLayout: s.gpuLayout(t.Rows, t.Columns),
	}
}

// GetSupportedMosaicTopologies implements nvapi.Interface.
func (s *Server) GetSupportedMosaicTopologies(topos *nvapi.SupportedMosaicTopologies) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GetSupportedMosaicTopologies"); ret != nvapi.OK {
		return ret
	}
	if topos == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(topos.Version, nvapi.SupportedMosaicTopologiesVer); ret != nvapi.OK {
		return ret
	}
	n := min(len(s.Mosaic.Legacy), nvapi.MosaicMaxTopos)
	for i := 0; i < n; i++ {
		topos.Topos[i] = s.legacyTopology(s.Mosaic.Legacy[i])
	}
	topos.TotalCount = uint32(n)
	return nvapi.OK
}

// GetCurrentMosaicTopology implements nvapi.Interface.
func (s *Server) GetCurrentMosaicTopology(topo *nvapi.MosaicTopology, enabled *uint32) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GetCurrentMosaicTopology"); ret != nvapi.OK {
		return ret
	}
	if topo == nil || enabled == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(topo.Version, nvapi.MosaicTopologyVer); ret != nvapi.OK {
		return ret
	}
	current := s.Mosaic.LegacyCurrent
	if current < 0 || current >= len(s.Mosaic.Legacy) {
		*topo = nvapi.MosaicTopology{Version: nvapi.MosaicTopologyVer}
		*enabled = 0
		return nvapi.OK
	}
	*topo = s.legacyTopology(s.Mosaic.Legacy[current])
	*enabled = 0
	if s.Mosaic.LegacyEnabled {
		*enabled = 1
	}
	return nvapi.OK
}

// SetCurrentMosaicTopology implements nvapi.Interface. The topology is
// matched against the supported list by row and column count and enabled.
func (s *Server) SetCurrentMosaicTopology(topo *nvapi.MosaicTopology) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("SetCurrentMosaicTopology"); ret != nvapi.OK {
		return ret
	}
	if topo == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if ret := s.checkTag(topo.Version, nvapi.MosaicTopologyVer); ret != nvapi.OK {
		return ret
	}
	for i, t := range s.Mosaic.Legacy {
		if t.Rows == topo.RowCount && t.Columns == topo.ColCount {
			s.Mosaic.LegacyCurrent = i
			s.Mosaic.LegacyEnabled = true
			s.modeSet()
			return nvapi.OK
		}
	}
	return nvapi.TOPO_NOT_POSSIBLE
}

// EnableCurrentMosaicTopology implements nvapi.Interface.
func (s *Server) EnableCurrentMosaicTopology(enable bool) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("EnableCurrentMosaicTopology"); ret != nvapi.OK {
		return ret
	}
	if s.Mosaic.LegacyCurrent < 0 {
		return nvapi.TOPO_NOT_POSSIBLE
	}
	if s.Mosaic.LegacyEnabled != enable {
		s.Mosaic.LegacyEnabled = enable
		s.modeSet()
	}
	return nvapi.OK
}
