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
	"fmt"
	"unsafe"
)

// Mosaic array capacities.
const (
	MosaicMaxRows              = 8
	MosaicMaxColumns           = 8
	MosaicMaxTopos             = 16
	MosaicTopoBriefsMax        = 35
	MosaicDisplaySettingsMax   = 40
	MosaicMaxToposPerTopoGroup = 2
	MosaicMaxDisplays          = 64
)

// Bits of TopoDetails.ValidityMask.
const (
	MosaicTopoValidityValid             uint32 = 0
	MosaicTopoValidityMissingGpu        uint32 = 1 << 0
	MosaicTopoValidityMissingDisplay    uint32 = 1 << 1
	MosaicTopoValidityMixedDisplayTypes uint32 = 1 << 2
)

// Bits of the display grid flags field.
const (
	GridFlagBezelCorrected           uint32 = 1 << 0
	GridFlagImmersiveGaming          uint32 = 1 << 1
	GridFlagBaseMosaic               uint32 = 1 << 2
	GridFlagDriverReloadAllowed      uint32 = 1 << 3
	GridFlagAcceleratePrimaryDisplay uint32 = 1 << 4
	// GridFlagPixelShift is only meaningful in GridTopoV2.
	GridFlagPixelShift uint32 = 1 << 5
)

// Per-display topology warning flags.
const (
	DisplayTopoWarningDisplayPosition      uint32 = 1 << 0
	DisplayTopoWarningDriverReloadRequired uint32 = 1 << 1
)

// Per-display topology error flags.
const (
	DisplayCapsProblemDisplayOnInvalidGpu     uint32 = 1 << 0
	DisplayCapsProblemDisplayOnWrongConnector uint32 = 1 << 1
	DisplayCapsProblemNoCommonTimings         uint32 = 1 << 2
	DisplayCapsProblemNoEDIDAvailable         uint32 = 1 << 3
	DisplayCapsProblemMismatchedOutputType    uint32 = 1 << 4
	DisplayCapsProblemNoDisplayConnected      uint32 = 1 << 5
	DisplayCapsProblemNoGpuTopology           uint32 = 1 << 6
	DisplayCapsProblemNotSupported            uint32 = 1 << 7
	DisplayCapsProblemNoSLIBridge             uint32 = 1 << 8
	DisplayCapsProblemECCEnabled              uint32 = 1 << 9
	DisplayCapsProblemGpuTopologyNotSupported uint32 = 1 << 10
)

// Flags accepted by SetDisplayGrids and ValidateDisplayGrids.
const (
	SetDisplayTopoFlagCurrentGpuTopology  uint32 = 1 << 0
	SetDisplayTopoFlagNoDriverReload      uint32 = 1 << 1
	SetDisplayTopoFlagMaximizePerformance uint32 = 1 << 2
	SetDisplayTopoFlagAllowInvalid        uint32 = 1 << 3
)

// MosaicTopoType filters the topologies returned by GetSupportedTopoInfo.
type MosaicTopoType int32

// Topology types.
const (
	MosaicTopoTypeAll                      MosaicTopoType = 0
	MosaicTopoTypeBasic                    MosaicTopoType = 1
	MosaicTopoTypePassiveStereo            MosaicTopoType = 2
	MosaicTopoTypeScaledClone              MosaicTopoType = 3
	MosaicTopoTypePassiveStereoScaledClone MosaicTopoType = 4
)

var mosaicTopoTypes = enumValues[MosaicTopoType]{"MosaicTopoType", map[MosaicTopoType]string{
	MosaicTopoTypeAll:                      "All",
	MosaicTopoTypeBasic:                    "Basic",
	MosaicTopoTypePassiveStereo:            "PassiveStereo",
	MosaicTopoTypeScaledClone:              "ScaledClone",
	MosaicTopoTypePassiveStereoScaledClone: "PassiveStereoScaledClone",
}}

// MosaicTopoTypeFromRaw validates a raw driver value.
func MosaicTopoTypeFromRaw(v int32) (MosaicTopoType, error) {
	return mosaicTopoTypes.fromRaw(v)
}

func (t MosaicTopoType) String() string { return mosaicTopoTypes.name(t) }

// MosaicTopo names a fixed grid arrangement.
type MosaicTopo int32

// Topologies.
const (
	MosaicTopoNone MosaicTopo = 0

	MosaicTopo1x2Basic MosaicTopo = 1
	MosaicTopo2x1Basic MosaicTopo = 2
	MosaicTopo1x3Basic MosaicTopo = 3
	MosaicTopo3x1Basic MosaicTopo = 4
	MosaicTopo1x4Basic MosaicTopo = 5
	MosaicTopo4x1Basic MosaicTopo = 6
	MosaicTopo2x2Basic MosaicTopo = 7
	MosaicTopo2x3Basic MosaicTopo = 8
	MosaicTopo2x4Basic MosaicTopo = 9
	MosaicTopo3x2Basic MosaicTopo = 10
	MosaicTopo4x2Basic MosaicTopo = 11
	MosaicTopo1x5Basic MosaicTopo = 12
	MosaicTopo1x6Basic MosaicTopo = 13
	MosaicTopo7x1Basic MosaicTopo = 14

	MosaicTopo1x2PassiveStereo MosaicTopo = 24
	MosaicTopo2x1PassiveStereo MosaicTopo = 25
	MosaicTopo1x3PassiveStereo MosaicTopo = 26
	MosaicTopo3x1PassiveStereo MosaicTopo = 27
	MosaicTopo1x4PassiveStereo MosaicTopo = 28
	MosaicTopo4x1PassiveStereo MosaicTopo = 29
	MosaicTopo2x2PassiveStereo MosaicTopo = 30

	MosaicTopoMax MosaicTopo = 35
)

var mosaicTopos = enumValues[MosaicTopo]{"MosaicTopo", map[MosaicTopo]string{
	MosaicTopoNone:             "None",
	MosaicTopo1x2Basic:         "1x2",
	MosaicTopo2x1Basic:         "2x1",
	MosaicTopo1x3Basic:         "1x3",
	MosaicTopo3x1Basic:         "3x1",
	MosaicTopo1x4Basic:         "1x4",
	MosaicTopo4x1Basic:         "4x1",
	MosaicTopo2x2Basic:         "2x2",
	MosaicTopo2x3Basic:         "2x3",
	MosaicTopo2x4Basic:         "2x4",
	MosaicTopo3x2Basic:         "3x2",
	MosaicTopo4x2Basic:         "4x2",
	MosaicTopo1x5Basic:         "1x5",
	MosaicTopo1x6Basic:         "1x6",
	MosaicTopo7x1Basic:         "7x1",
	MosaicTopo1x2PassiveStereo: "1x2-passive-stereo",
	MosaicTopo2x1PassiveStereo: "2x1-passive-stereo",
	MosaicTopo1x3PassiveStereo: "1x3-passive-stereo",
	MosaicTopo3x1PassiveStereo: "3x1-passive-stereo",
	MosaicTopo1x4PassiveStereo: "1x4-passive-stereo",
	MosaicTopo4x1PassiveStereo: "4x1-passive-stereo",
	MosaicTopo2x2PassiveStereo: "2x2-passive-stereo",
}}

// MosaicTopoFromRaw validates a raw driver value.
func MosaicTopoFromRaw(v int32) (MosaicTopo, error) {
	return mosaicTopos.fromRaw(v)
}

func (t MosaicTopo) String() string { return mosaicTopos.name(t) }

// IsPassiveStereo reports whether the topology is a passive stereo layout.
func (t MosaicTopo) IsPassiveStereo() bool {
	return t >= MosaicTopo1x2PassiveStereo && t <= MosaicTopo2x2PassiveStereo
}

var mosaicTopoDimensions = map[MosaicTopo][2]uint32{
	MosaicTopo1x2Basic:         {1, 2},
	MosaicTopo2x1Basic:         {2, 1},
	MosaicTopo1x3Basic:         {1, 3},
	MosaicTopo3x1Basic:         {3, 1},
	MosaicTopo1x4Basic:         {1, 4},
	MosaicTopo4x1Basic:         {4, 1},
	MosaicTopo2x2Basic:         {2, 2},
	MosaicTopo2x3Basic:         {2, 3},
	MosaicTopo2x4Basic:         {2, 4},
	MosaicTopo3x2Basic:         {3, 2},
	MosaicTopo4x2Basic:         {4, 2},
	MosaicTopo1x5Basic:         {1, 5},
	MosaicTopo1x6Basic:         {1, 6},
	MosaicTopo7x1Basic:         {7, 1},
	MosaicTopo1x2PassiveStereo: {1, 2},
	MosaicTopo2x1PassiveStereo: {2, 1},
	MosaicTopo1x3PassiveStereo: {1, 3},
	MosaicTopo3x1PassiveStereo: {3, 1},
	MosaicTopo1x4PassiveStereo: {1, 4},
	MosaicTopo4x1PassiveStereo: {4, 1},
	MosaicTopo2x2PassiveStereo: {2, 2},
}

// Dimensions returns the rows and columns of the topology. Both are zero
// for MosaicTopoNone and unknown values.
func (t MosaicTopo) Dimensions() (rows uint32, cols uint32) {
	d := mosaicTopoDimensions[t]
	return d[0], d[1]
}

// MosaicTopoFromDimensions returns the topology with the given grid size.
func MosaicTopoFromDimensions(rows, cols uint32, passiveStereo bool) (MosaicTopo, bool) {
	for t, d := range mosaicTopoDimensions {
		if d[0] == rows && d[1] == cols && t.IsPassiveStereo() == passiveStereo {
			return t, true
		}
	}
	return MosaicTopoNone, false
}

// Rotate is the display rotation in a grid.
type Rotate int32

// Rotations.
const (
	Rotate0       Rotate = 0
	Rotate90      Rotate = 1
	Rotate180     Rotate = 2
	Rotate270     Rotate = 3
	RotateIgnored Rotate = 4
)

var rotations = enumValues[Rotate]{"Rotate", map[Rotate]string{
	Rotate0:       "0",
	Rotate90:      "90",
	Rotate180:     "180",
	Rotate270:     "270",
	RotateIgnored: "ignored",
}}

// RotateFromRaw validates a raw driver value.
func RotateFromRaw(v int32) (Rotate, error) {
	return rotations.fromRaw(v)
}

// RotateFromDegrees converts 0, 90, 180 or 270 degrees.
func RotateFromDegrees(deg int) (Rotate, error) {
	switch deg {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return RotateIgnored, fmt.Errorf("unsupported rotation %d", deg)
}

func (r Rotate) String() string { return rotations.name(r) }

// PixelShiftType selects the pixel shift mode of a V2 grid display.
type PixelShiftType int32

// Pixel shift modes.
const (
	PixelShiftNone           PixelShiftType = 0
	PixelShiftTopLeft2x2     PixelShiftType = 1
	PixelShiftBottomRight2x2 PixelShiftType = 2
	PixelShiftTopRight2x2    PixelShiftType = 4
	PixelShiftBottomLeft2x2  PixelShiftType = 8
)

var pixelShiftTypes = enumValues[PixelShiftType]{"PixelShiftType", map[PixelShiftType]string{
	PixelShiftNone:           "None",
	PixelShiftTopLeft2x2:     "TopLeft2x2",
	PixelShiftBottomRight2x2: "BottomRight2x2",
	PixelShiftTopRight2x2:    "TopRight2x2",
	PixelShiftBottomLeft2x2:  "BottomLeft2x2",
}}

// PixelShiftTypeFromRaw validates a raw driver value.
func PixelShiftTypeFromRaw(v int32) (PixelShiftType, error) {
	return pixelShiftTypes.fromRaw(v)
}

func (p PixelShiftType) String() string { return pixelShiftTypes.name(p) }

// TopoBrief is NV_MOSAIC_TOPO_BRIEF.
type TopoBrief struct {
	Version    StructVersion
	Topo       MosaicTopo
	Enabled    Bool
	IsPossible Bool
}

// DisplaySettingV1 is NV_MOSAIC_DISPLAY_SETTING_V1.
type DisplaySettingV1 struct {
	Version StructVersion
	Width   uint32
	Height  uint32
	Bpp     uint32
	Freq    uint32
}

// DisplaySettingV2 is NV_MOSAIC_DISPLAY_SETTING_V2. Rrx1k is the refresh
// rate in millihertz.
type DisplaySettingV2 struct {
	Version StructVersion
	Width   uint32
	Height  uint32
	Bpp     uint32
	Freq    uint32
	Rrx1k   uint32
}

// DisplaySetting is the newest display setting layout.
type DisplaySetting = DisplaySettingV2

// Upgrade converts to the V2 layout, deriving the precise refresh rate
// from the integer one.
func (s DisplaySettingV1) Upgrade() DisplaySettingV2 {
	return DisplaySettingV2{
		Version: DisplaySettingVer2,
		Width:   s.Width,
		Height:  s.Height,
		Bpp:     s.Bpp,
		Freq:    s.Freq,
		Rrx1k:   s.Freq * 1000,
	}
}

// Downgrade converts to the V1 layout.
func (s DisplaySettingV2) Downgrade() DisplaySettingV1 {
	return DisplaySettingV1{
		Version: DisplaySettingVer1,
		Width:   s.Width,
		Height:  s.Height,
		Bpp:     s.Bpp,
		Freq:    s.Freq,
	}
}

// SupportedTopoInfoV1 is NV_MOSAIC_SUPPORTED_TOPO_INFO_V1.
type SupportedTopoInfoV1 struct {
	Version              StructVersion
	TopoBriefsCount      uint32
	TopoBriefs           [MosaicTopoBriefsMax]TopoBrief
	DisplaySettingsCount uint32
	DisplaySettings      [MosaicDisplaySettingsMax]DisplaySettingV1
}

// SupportedTopoInfoV2 is NV_MOSAIC_SUPPORTED_TOPO_INFO_V2.
type SupportedTopoInfoV2 struct {
	Version              StructVersion
	TopoBriefsCount      uint32
	TopoBriefs           [MosaicTopoBriefsMax]TopoBrief
	DisplaySettingsCount uint32
	DisplaySettings      [MosaicDisplaySettingsMax]DisplaySettingV2
}

// SupportedTopoInfo is the newest supported topology layout.
type SupportedTopoInfo = SupportedTopoInfoV2

// NewSupportedTopoInfoV1 returns a V1 buffer with every nested tag set.
func NewSupportedTopoInfoV1() *SupportedTopoInfoV1 {
	info := &SupportedTopoInfoV1{Version: SupportedTopoInfoVer1}
	for i := range info.TopoBriefs {
		info.TopoBriefs[i].Version = TopoBriefVer
	}
	for i := range info.DisplaySettings {
		info.DisplaySettings[i].Version = DisplaySettingVer1
	}
	return info
}

// NewSupportedTopoInfoV2 returns a V2 buffer with every nested tag set.
func NewSupportedTopoInfoV2() *SupportedTopoInfoV2 {
	info := &SupportedTopoInfoV2{Version: SupportedTopoInfoVer2}
	for i := range info.TopoBriefs {
		info.TopoBriefs[i].Version = TopoBriefVer
	}
	for i := range info.DisplaySettings {
		info.DisplaySettings[i].Version = DisplaySettingVer2
	}
	return info
}

// Upgrade converts to the V2 layout.
func (info *SupportedTopoInfoV1) Upgrade() *SupportedTopoInfoV2 {
	out := NewSupportedTopoInfoV2()
	out.TopoBriefsCount = info.TopoBriefsCount
	out.TopoBriefs = info.TopoBriefs
	out.DisplaySettingsCount = info.DisplaySettingsCount
	for i := range info.DisplaySettings {
		out.DisplaySettings[i] = info.DisplaySettings[i].Upgrade()
	}
	return out
}

// Briefs returns the populated topology briefs.
func (info *SupportedTopoInfoV2) Briefs() []TopoBrief {
	n := min(int(info.TopoBriefsCount), len(info.TopoBriefs))
	return info.TopoBriefs[:n]
}

// Settings returns the populated display settings.
func (info *SupportedTopoInfoV2) Settings() []DisplaySettingV2 {
	n := min(int(info.DisplaySettingsCount), len(info.DisplaySettings))
	return info.DisplaySettings[:n]
}

// GpuLayoutElem is one cell of a topology's GPU layout.
type GpuLayoutElem struct {
	PhysicalGpu     PhysicalGpuHandle
	DisplayOutputID uint32
	OverlapX        int32
	OverlapY        int32
}

// TopoDetails is NV_MOSAIC_TOPO_DETAILS.
type TopoDetails struct {
	Version      StructVersion
	LogicalGpu   LogicalGpuHandle
	ValidityMask uint32
	RowCount     uint32
	ColCount     uint32
	GpuLayout    [MosaicMaxRows][MosaicMaxColumns]GpuLayoutElem
}

// IsValid reports whether the topology has no validity problems.
func (d *TopoDetails) IsValid() bool {
	return d.ValidityMask == MosaicTopoValidityValid
}

// TopoGroup is NV_MOSAIC_TOPO_GROUP.
type TopoGroup struct {
	Version StructVersion
	Brief   TopoBrief
	Count   uint32
	Topos   [MosaicMaxToposPerTopoGroup]TopoDetails
}

// Details returns the populated topology details.
func (g *TopoGroup) Details() []TopoDetails {
	n := min(int(g.Count), len(g.Topos))
	return g.Topos[:n]
}

// NewTopoGroup returns a group with every nested tag set.
func NewTopoGroup() *TopoGroup {
	g := &TopoGroup{Version: TopoGroupVer}
	g.Brief.Version = TopoBriefVer
	for i := range g.Topos {
		g.Topos[i].Version = TopoDetailsVer
	}
	return g
}

// GridTopoDisplayV1 is NV_MOSAIC_GRID_TOPO_DISPLAY_V1.
type GridTopoDisplayV1 struct {
	DisplayID  uint32
	OverlapX   int32
	OverlapY   int32
	Rotation   Rotate
	CloneGroup uint32
}

// GridTopoDisplayV2 is NV_MOSAIC_GRID_TOPO_DISPLAY_V2.
type GridTopoDisplayV2 struct {
	Version        StructVersion
	DisplayID      uint32
	OverlapX       int32
	OverlapY       int32
	Rotation       Rotate
	CloneGroup     uint32
	PixelShiftType PixelShiftType
}

// GridTopoV1 is NV_MOSAIC_GRID_TOPO_V1.
type GridTopoV1 struct {
	Version         StructVersion
	Rows            uint32
	Columns         uint32
	DisplayCount    uint32
	Flags           uint32
	Displays        [MosaicMaxDisplays]GridTopoDisplayV1
	DisplaySettings DisplaySettingV1
}

// GridTopoV2 is NV_MOSAIC_GRID_TOPO_V2.
type GridTopoV2 struct {
	Version         StructVersion
	Rows            uint32
	Columns         uint32
	DisplayCount    uint32
	Flags           uint32
	Displays        [MosaicMaxDisplays]GridTopoDisplayV2
	DisplaySettings DisplaySettingV1
}

// GridTopo is the newest grid layout.
type GridTopo = GridTopoV2

// NewGridTopoV1 returns a V1 grid with every nested tag set.
func NewGridTopoV1() GridTopoV1 {
	return GridTopoV1{
		Version:         GridTopoVer1,
		DisplaySettings: DisplaySettingV1{Version: DisplaySettingVer1},
	}
}

// NewGridTopoV2 returns a V2 grid with every nested tag set.
func NewGridTopoV2() GridTopoV2 {
	g := GridTopoV2{
		Version:         GridTopoVer2,
		DisplaySettings: DisplaySettingV1{Version: DisplaySettingVer1},
	}
	for i := range g.Displays {
		g.Displays[i].Version = GridTopoDisplayVer2
	}
	return g
}

// HasFlag reports whether the given grid flag bit is set.
func (g *GridTopoV1) HasFlag(mask uint32) bool { return g.Flags&mask != 0 }

// SetFlag updates a grid flag bit.
func (g *GridTopoV1) SetFlag(mask uint32, v bool) { g.Flags = setBit(g.Flags, mask, v) }

// HasFlag reports whether the given grid flag bit is set.
func (g *GridTopoV2) HasFlag(mask uint32) bool { return g.Flags&mask != 0 }

// SetFlag updates a grid flag bit.
func (g *GridTopoV2) SetFlag(mask uint32, v bool) { g.Flags = setBit(g.Flags, mask, v) }

// ActiveDisplays returns the populated displays of the grid.
func (g *GridTopoV2) ActiveDisplays() []GridTopoDisplayV2 {
	n := min(int(g.DisplayCount), len(g.Displays))
	return g.Displays[:n]
}

// Upgrade converts to the V2 layout. V1 has no pixel shift, so every
// display gets PixelShiftNone.
func (g *GridTopoV1) Upgrade() GridTopoV2 {
	out := NewGridTopoV2()
	out.Rows = g.Rows
	out.Columns = g.Columns
	out.DisplayCount = g.DisplayCount
	out.Flags = g.Flags &^ GridFlagPixelShift
	out.DisplaySettings = g.DisplaySettings
	out.DisplaySettings.Version = DisplaySettingVer1
	for i, d := range g.Displays {
		out.Displays[i] = GridTopoDisplayV2{
			Version:        GridTopoDisplayVer2,
			DisplayID:      d.DisplayID,
			OverlapX:       d.OverlapX,
			OverlapY:       d.OverlapY,
			Rotation:       d.Rotation,
			CloneGroup:     d.CloneGroup,
			PixelShiftType: PixelShiftNone,
		}
	}
	return out
}

// Downgrade converts to the V1 layout. It fails if the grid uses pixel
// shift, which V1 cannot express.
func (g *GridTopoV2) Downgrade() (GridTopoV1, error) {
	if g.HasFlag(GridFlagPixelShift) {
		return GridTopoV1{}, fmt.Errorf("grid uses pixel shift which V1 grids do not support")
	}
	out := NewGridTopoV1()
	out.Rows = g.Rows
	out.Columns = g.Columns
	out.DisplayCount = g.DisplayCount
	out.Flags = g.Flags
	out.DisplaySettings = g.DisplaySettings
	for i, d := range g.Displays {
		if i < int(g.DisplayCount) && d.PixelShiftType != PixelShiftNone {
			return GridTopoV1{}, fmt.Errorf("display %d uses pixel shift %v which V1 grids do not support", d.DisplayID, d.PixelShiftType)
		}
		out.Displays[i] = GridTopoDisplayV1{
			DisplayID:  d.DisplayID,
			OverlapX:   d.OverlapX,
			OverlapY:   d.OverlapY,
			Rotation:   d.Rotation,
			CloneGroup: d.CloneGroup,
		}
	}
	return out, nil
}

// DisplayTopoStatusDisplay is the per-display part of DisplayTopoStatus.
type DisplayTopoStatusDisplay struct {
	DisplayID    uint32
	ErrorFlags   uint32
	WarningFlags uint32
	Flags        uint32
}

// Bits of DisplayTopoStatusDisplay.Flags.
const (
	DisplayTopoStatusFlagSupportsRotation uint32 = 1 << 0
)

// SupportsRotation reports whether the display can be rotated.
func (d *DisplayTopoStatusDisplay) SupportsRotation() bool {
	return d.Flags&DisplayTopoStatusFlagSupportsRotation != 0
}

// DisplayTopoStatus is NV_MOSAIC_DISPLAY_TOPO_STATUS.
type DisplayTopoStatus struct {
	Version      StructVersion
	ErrorFlags   uint32
	WarningFlags uint32
	DisplayCount uint32
	Displays     [MaxDisplays]DisplayTopoStatusDisplay
}

// ActiveDisplays returns the populated per-display results.
func (s *DisplayTopoStatus) ActiveDisplays() []DisplayTopoStatusDisplay {
	n := min(int(s.DisplayCount), len(s.Displays))
	return s.Displays[:n]
}

// Rect is NV_RECT.
type Rect struct {
	Left   uint32
	Top    uint32
	Right  uint32
	Bottom uint32
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// MosaicTopology is the legacy NV_MOSAIC_TOPOLOGY.
type MosaicTopology struct {
	Version   StructVersion
	RowCount  uint32
	ColCount  uint32
	GpuLayout [MosaicMaxRows][MosaicMaxColumns]GpuLayoutElem
}

// SupportedMosaicTopologies is the legacy NV_MOSAIC_SUPPORTED_TOPOLOGIES.
type SupportedMosaicTopologies struct {
	Version    StructVersion
	TotalCount uint32
	Topos      [MosaicMaxTopos]MosaicTopology
}

// Topologies returns the populated legacy topologies.
func (s *SupportedMosaicTopologies) Topologies() []MosaicTopology {
	n := min(int(s.TotalCount), len(s.Topos))
	return s.Topos[:n]
}

// Struct version tags.
const (
	TopoBriefVer   = StructVersion(unsafe.Sizeof(TopoBrief{})) | 1<<16
	TopoDetailsVer = StructVersion(unsafe.Sizeof(TopoDetails{})) | 1<<16
	TopoGroupVer   = StructVersion(unsafe.Sizeof(TopoGroup{})) | 1<<16

	DisplaySettingVer1 = StructVersion(unsafe.Sizeof(DisplaySettingV1{})) | 1<<16
	DisplaySettingVer2 = StructVersion(unsafe.Sizeof(DisplaySettingV2{})) | 2<<16
	DisplaySettingVer  = DisplaySettingVer2

	SupportedTopoInfoVer1 = StructVersion(unsafe.Sizeof(SupportedTopoInfoV1{})) | 1<<16
	SupportedTopoInfoVer2 = StructVersion(unsafe.Sizeof(SupportedTopoInfoV2{})) | 2<<16
	SupportedTopoInfoVer  = SupportedTopoInfoVer2

	GridTopoDisplayVer2 = StructVersion(unsafe.Sizeof(GridTopoDisplayV2{})) | 2<<16

	GridTopoVer1 = StructVersion(unsafe.Sizeof(GridTopoV1{})) | 1<<16
	GridTopoVer2 = StructVersion(unsafe.Sizeof(GridTopoV2{})) | 2<<16
	GridTopoVer  = GridTopoVer2

	DisplayTopoStatusVer = StructVersion(unsafe.Sizeof(DisplayTopoStatus{})) | 1<<16

	MosaicTopologyVer            = StructVersion(unsafe.Sizeof(MosaicTopology{})) | 1<<16
	SupportedMosaicTopologiesVer = StructVersion(unsafe.Sizeof(SupportedMosaicTopologies{})) | 1<<16
)
