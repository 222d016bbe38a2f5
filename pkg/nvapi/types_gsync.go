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

// MaxRJ45PerGSync is the number of RJ45 ports on a G-SYNC board.
const MaxRJ45PerGSync = 2

// DisplaySyncState is the role of a display in a sync topology.
type DisplaySyncState int32

// Display sync states.
const (
	DisplaySyncStateUnsynced DisplaySyncState = 0
	DisplaySyncStateSlave    DisplaySyncState = 1
	DisplaySyncStateMaster   DisplaySyncState = 2
)

var displaySyncStates = enumValues[DisplaySyncState]{"DisplaySyncState", map[DisplaySyncState]string{
	DisplaySyncStateUnsynced: "Unsynced",
	DisplaySyncStateSlave:    "Slave",
	DisplaySyncStateMaster:   "Master",
}}

// DisplaySyncStateFromRaw validates a raw driver value.
func DisplaySyncStateFromRaw(v int32) (DisplaySyncState, error) {
	return displaySyncStates.fromRaw(v)
}

func (s DisplaySyncState) String() string { return displaySyncStates.name(s) }

// GSyncConnector identifies the G-SYNC board connector a GPU is attached to.
type GSyncConnector int32

// G-SYNC connectors.
const (
	GSyncConnectorNone        GSyncConnector = 0
	GSyncConnectorPrimary     GSyncConnector = 1
	GSyncConnectorSecondary   GSyncConnector = 2
	GSyncConnectorTertiary    GSyncConnector = 3
	GSyncConnectorQuarternary GSyncConnector = 4
)

var gsyncConnectors = enumValues[GSyncConnector]{"GSyncConnector", map[GSyncConnector]string{
	GSyncConnectorNone:        "None",
	GSyncConnectorPrimary:     "Primary",
	GSyncConnectorSecondary:   "Secondary",
	GSyncConnectorTertiary:    "Tertiary",
	GSyncConnectorQuarternary: "Quarternary",
}}

// GSyncConnectorFromRaw validates a raw driver value.
func GSyncConnectorFromRaw(v int32) (GSyncConnector, error) {
	return gsyncConnectors.fromRaw(v)
}

func (c GSyncConnector) String() string { return gsyncConnectors.name(c) }

// GSyncPolarity selects the house sync edge.
type GSyncPolarity int32

// Polarities.
const (
	GSyncPolarityRisingEdge  GSyncPolarity = 0
	GSyncPolarityFallingEdge GSyncPolarity = 1
	GSyncPolarityBothEdges   GSyncPolarity = 2
)

var gsyncPolarities = enumValues[GSyncPolarity]{"GSyncPolarity", map[GSyncPolarity]string{
	GSyncPolarityRisingEdge:  "RisingEdge",
	GSyncPolarityFallingEdge: "FallingEdge",
	GSyncPolarityBothEdges:   "BothEdges",
}}

// GSyncPolarityFromRaw validates a raw driver value.
func GSyncPolarityFromRaw(v int32) (GSyncPolarity, error) {
	return gsyncPolarities.fromRaw(v)
}

func (p GSyncPolarity) String() string { return gsyncPolarities.name(p) }

// GSyncVideoMode is the house sync signal format.
type GSyncVideoMode int32

// Video modes.
const (
	GSyncVideoModeNone         GSyncVideoMode = 0
	GSyncVideoModeTTL          GSyncVideoMode = 1
	GSyncVideoModeNTSCPALSECAM GSyncVideoMode = 2
	GSyncVideoModeHDTV         GSyncVideoMode = 3
	GSyncVideoModeComposite    GSyncVideoMode = 4
)

var gsyncVideoModes = enumValues[GSyncVideoMode]{"GSyncVideoMode", map[GSyncVideoMode]string{
	GSyncVideoModeNone:         "None",
	GSyncVideoModeTTL:          "TTL",
	GSyncVideoModeNTSCPALSECAM: "NTSCPALSECAM",
	GSyncVideoModeHDTV:         "HDTV",
	GSyncVideoModeComposite:    "Composite",
}}

// GSyncVideoModeFromRaw validates a raw driver value.
func GSyncVideoModeFromRaw(v int32) (GSyncVideoMode, error) {
	return gsyncVideoModes.fromRaw(v)
}

func (m GSyncVideoMode) String() string { return gsyncVideoModes.name(m) }

// GSyncSyncSource selects between the master display's vsync and house sync.
type GSyncSyncSource int32

// Sync sources.
const (
	GSyncSyncSourceVSync     GSyncSyncSource = 0
	GSyncSyncSourceHouseSync GSyncSyncSource = 1
)

var gsyncSyncSources = enumValues[GSyncSyncSource]{"GSyncSyncSource", map[GSyncSyncSource]string{
	GSyncSyncSourceVSync:     "VSync",
	GSyncSyncSourceHouseSync: "HouseSync",
}}

// GSyncSyncSourceFromRaw validates a raw driver value.
func GSyncSyncSourceFromRaw(v int32) (GSyncSyncSource, error) {
	return gsyncSyncSources.fromRaw(v)
}

func (s GSyncSyncSource) String() string { return gsyncSyncSources.name(s) }

// GSyncDelayType selects which delay AdjustSyncDelay operates on.
type GSyncDelayType int32

// Delay types.
const (
	GSyncDelayTypeUnknown  GSyncDelayType = 0
	GSyncDelayTypeSyncSkew GSyncDelayType = 1
	GSyncDelayTypeStartup  GSyncDelayType = 2
)

var gsyncDelayTypes = enumValues[GSyncDelayType]{"GSyncDelayType", map[GSyncDelayType]string{
	GSyncDelayTypeUnknown:  "Unknown",
	GSyncDelayTypeSyncSkew: "SyncSkew",
	GSyncDelayTypeStartup:  "Startup",
}}

// GSyncDelayTypeFromRaw validates a raw driver value.
func GSyncDelayTypeFromRaw(v int32) (GSyncDelayType, error) {
	return gsyncDelayTypes.fromRaw(v)
}

func (t GSyncDelayType) String() string { return gsyncDelayTypes.name(t) }

// GSyncRJ45IO is the direction of an RJ45 port.
type GSyncRJ45IO int32

// RJ45 port directions.
const (
	GSyncRJ45Output GSyncRJ45IO = 0
	GSyncRJ45Input  GSyncRJ45IO = 1
	GSyncRJ45Unused GSyncRJ45IO = 2
)

var gsyncRJ45IOs = enumValues[GSyncRJ45IO]{"GSyncRJ45IO", map[GSyncRJ45IO]string{
	GSyncRJ45Output: "Output",
	GSyncRJ45Input:  "Input",
	GSyncRJ45Unused: "Unused",
}}

// GSyncRJ45IOFromRaw validates a raw driver value.
func GSyncRJ45IOFromRaw(v int32) (GSyncRJ45IO, error) {
	return gsyncRJ45IOs.fromRaw(v)
}

func (io GSyncRJ45IO) String() string { return gsyncRJ45IOs.name(io) }

// GSyncCapabilitiesV1 is NV_GSYNC_CAPABILITIES_V1.
type GSyncCapabilitiesV1 struct {
	Version  StructVersion
	BoardID  uint32
	Revision uint32
	CapFlags uint32
}

// GSyncCapabilitiesV2 is NV_GSYNC_CAPABILITIES_V2.
type GSyncCapabilitiesV2 struct {
	Version          StructVersion
	BoardID          uint32
	Revision         uint32
	CapFlags         uint32
	ExtendedRevision uint32
}

// GSyncCapabilities is the newest capabilities layout.
type GSyncCapabilities = GSyncCapabilitiesV2

// Upgrade converts to the V2 layout. The extended revision is unknown to
// V1 boards and reads as zero.
func (c GSyncCapabilitiesV1) Upgrade() GSyncCapabilitiesV2 {
	return GSyncCapabilitiesV2{
		Version:  GSyncCapabilitiesVer2,
		BoardID:  c.BoardID,
		Revision: c.Revision,
		CapFlags: c.CapFlags,
	}
}

// Downgrade converts to the V1 layout, dropping the extended revision.
func (c GSyncCapabilitiesV2) Downgrade() GSyncCapabilitiesV1 {
	return GSyncCapabilitiesV1{
		Version:  GSyncCapabilitiesVer1,
		BoardID:  c.BoardID,
		Revision: c.Revision,
		CapFlags: c.CapFlags,
	}
}

// GSyncDisplay is NV_GSYNC_DISPLAY.
type GSyncDisplay struct {
	Version   StructVersion
	DisplayID uint32
	Flags     uint32
	SyncState DisplaySyncState
}

// Bits of GSyncDisplay.Flags.
const (
	GSyncDisplayFlagMasterable uint32 = 1 << 0
)

// IsMasterable reports whether the display can be the timing master.
func (d *GSyncDisplay) IsMasterable() bool {
	return d.Flags&GSyncDisplayFlagMasterable != 0
}

// SetMasterable updates the masterable bit, leaving reserved bits intact.
func (d *GSyncDisplay) SetMasterable(v bool) {
	d.Flags = setBit(d.Flags, GSyncDisplayFlagMasterable, v)
}

// GSyncGpu is NV_GSYNC_GPU.
type GSyncGpu struct {
	Version          StructVersion
	PhysicalGpu      PhysicalGpuHandle
	Connector        GSyncConnector
	ProxyPhysicalGpu PhysicalGpuHandle
	Flags            uint32
}

// Bits of GSyncGpu.Flags.
const (
	GSyncGpuFlagSynced uint32 = 1 << 0
)

// IsSynced reports whether the GPU is locked to the sync signal.
func (g *GSyncGpu) IsSynced() bool {
	return g.Flags&GSyncGpuFlagSynced != 0
}

// SetSynced updates the synced bit.
func (g *GSyncGpu) SetSynced(v bool) {
	g.Flags = setBit(g.Flags, GSyncGpuFlagSynced, v)
}

// Gpu returns the GPU to address for this topology entry: the directly
// attached GPU when present, otherwise the proxy GPU.
func (g *GSyncGpu) Gpu() (PhysicalGpuHandle, bool) {
	if !g.PhysicalGpu.IsNil() {
		return g.PhysicalGpu, true
	}
	if !g.ProxyPhysicalGpu.IsNil() {
		return g.ProxyPhysicalGpu, true
	}
	return 0, false
}

// GSyncDelay is NV_GSYNC_DELAY.
type GSyncDelay struct {
	Version   StructVersion
	NumLines  uint32
	NumPixels uint32
	MaxLines  uint32
	MinPixels uint32
}

// GSyncControlParams is NV_GSYNC_CONTROL_PARAMS.
type GSyncControlParams struct {
	Version      StructVersion
	Polarity     GSyncPolarity
	VMode        GSyncVideoMode
	Interval     uint32
	Source       GSyncSyncSource
	Flags        uint32
	SyncSkew     GSyncDelay
	StartupDelay GSyncDelay
}

// Bits of GSyncControlParams.Flags.
const (
	GSyncControlFlagInterlaceMode      uint32 = 1 << 0
	GSyncControlFlagSyncSourceIsOutput uint32 = 1 << 1
)

// InterlaceMode reports whether interlaced house sync is expected.
func (p *GSyncControlParams) InterlaceMode() bool {
	return p.Flags&GSyncControlFlagInterlaceMode != 0
}

// SetInterlaceMode updates the interlace bit.
func (p *GSyncControlParams) SetInterlaceMode(v bool) {
	p.Flags = setBit(p.Flags, GSyncControlFlagInterlaceMode, v)
}

// SyncSourceIsOutput reports whether the sync source is driven out of the
// board's BNC connector.
func (p *GSyncControlParams) SyncSourceIsOutput() bool {
	return p.Flags&GSyncControlFlagSyncSourceIsOutput != 0
}

// SetSyncSourceIsOutput updates the sync-source-output bit.
func (p *GSyncControlParams) SetSyncSourceIsOutput(v bool) {
	p.Flags = setBit(p.Flags, GSyncControlFlagSyncSourceIsOutput, v)
}

// GSyncStatus is NV_GSYNC_STATUS.
type GSyncStatus struct {
	Version               StructVersion
	IsSynced              Bool
	IsStereoSynced        Bool
	IsSyncSignalAvailable Bool
}

// GSyncStatusParamsV1 is NV_GSYNC_STATUS_PARAMS_V1.
type GSyncStatusParamsV1 struct {
	Version           StructVersion
	RefreshRate       uint32
	RJ45IO            [MaxRJ45PerGSync]GSyncRJ45IO
	RJ45Ethernet      [MaxRJ45PerGSync]uint32
	HouseSyncIncoming uint32
	HouseSync         Bool
}

// GSyncStatusParamsV2 is NV_GSYNC_STATUS_PARAMS_V2.
type GSyncStatusParamsV2 struct {
	Version           StructVersion
	RefreshRate       uint32
	RJ45IO            [MaxRJ45PerGSync]GSyncRJ45IO
	RJ45Ethernet      [MaxRJ45PerGSync]uint32
	HouseSyncIncoming uint32
	HouseSync         Bool
	Flags             uint32
}

// GSyncStatusParams is the newest status parameters layout.
type GSyncStatusParams = GSyncStatusParamsV2

// Bits of GSyncStatusParamsV2.Flags.
const (
	GSyncStatusFlagInternalSlave uint32 = 1 << 0
)

// InternalSlave reports whether the board is an internal slave.
func (p *GSyncStatusParamsV2) InternalSlave() bool {
	return p.Flags&GSyncStatusFlagInternalSlave != 0
}

// Upgrade converts to the V2 layout.
func (p GSyncStatusParamsV1) Upgrade() GSyncStatusParamsV2 {
	return GSyncStatusParamsV2{
		Version:           GSyncStatusParamsVer2,
		RefreshRate:       p.RefreshRate,
		RJ45IO:            p.RJ45IO,
		RJ45Ethernet:      p.RJ45Ethernet,
		HouseSyncIncoming: p.HouseSyncIncoming,
		HouseSync:         p.HouseSync,
	}
}

// Downgrade converts to the V1 layout, dropping the V2 flags.
func (p GSyncStatusParamsV2) Downgrade() GSyncStatusParamsV1 {
	return GSyncStatusParamsV1{
		Version:           GSyncStatusParamsVer1,
		RefreshRate:       p.RefreshRate,
		RJ45IO:            p.RJ45IO,
		RJ45Ethernet:      p.RJ45Ethernet,
		HouseSyncIncoming: p.HouseSyncIncoming,
		HouseSync:         p.HouseSync,
	}
}

// Struct version tags.
const (
	GSyncCapabilitiesVer1 = StructVersion(unsafe.Sizeof(GSyncCapabilitiesV1{})) | 1<<16
	GSyncCapabilitiesVer2 = StructVersion(unsafe.Sizeof(GSyncCapabilitiesV2{})) | 2<<16
	GSyncCapabilitiesVer  = GSyncCapabilitiesVer2

	GSyncDisplayVer       = StructVersion(unsafe.Sizeof(GSyncDisplay{})) | 1<<16
	GSyncGpuVer           = StructVersion(unsafe.Sizeof(GSyncGpu{})) | 1<<16
	GSyncDelayVer         = StructVersion(unsafe.Sizeof(GSyncDelay{})) | 1<<16
	GSyncControlParamsVer = StructVersion(unsafe.Sizeof(GSyncControlParams{})) | 1<<16
	GSyncStatusVer        = StructVersion(unsafe.Sizeof(GSyncStatus{})) | 1<<16

	GSyncStatusParamsVer1 = StructVersion(unsafe.Sizeof(GSyncStatusParamsV1{})) | 1<<16
	GSyncStatusParamsVer2 = StructVersion(unsafe.Sizeof(GSyncStatusParamsV2{})) | 2<<16
	GSyncStatusParamsVer  = GSyncStatusParamsVer2
)

// NewGSyncControlParams returns control parameters with all tags set.
func NewGSyncControlParams() GSyncControlParams {
	return GSyncControlParams{
		Version:      GSyncControlParamsVer,
		SyncSkew:     GSyncDelay{Version: GSyncDelayVer},
		StartupDelay: GSyncDelay{Version: GSyncDelayVer},
	}
}

func setBit(flags uint32, mask uint32, v bool) uint32 {
	if v {
		return flags | mask
	}
	return flags &^ mask
}
