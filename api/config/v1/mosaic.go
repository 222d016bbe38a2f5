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

package v1

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// MosaicLayout is a declarative set of display grids.
type MosaicLayout struct {
	Grids        []Grid   `json:"grids"                  yaml:"grids"`
	SetTopoFlags []string `json:"setTopoFlags,omitempty" yaml:"setTopoFlags,omitempty"`
}

// Grid is one display grid of a MosaicLayout.
type Grid struct {
	Rows       uint32        `json:"rows"            yaml:"rows"`
	Columns    uint32        `json:"columns"         yaml:"columns"`
	Resolution Resolution    `json:"resolution"      yaml:"resolution"`
	Flags      []string      `json:"flags,omitempty" yaml:"flags,omitempty"`
	Displays   []GridDisplay `json:"displays"        yaml:"displays"`
}

// Resolution is the display mode of every display in a grid.
type Resolution struct {
	Width   uint32 `json:"width"         yaml:"width"`
	Height  uint32 `json:"height"        yaml:"height"`
	Bpp     uint32 `json:"bpp,omitempty" yaml:"bpp,omitempty"`
	Refresh uint32 `json:"refresh"       yaml:"refresh"`
}

// GridDisplay places one display in a grid. Displays are listed row-major.
type GridDisplay struct {
	DisplayID  uint32 `json:"displayId"            yaml:"displayId"`
	OverlapX   int32  `json:"overlapX,omitempty"   yaml:"overlapX,omitempty"`
	OverlapY   int32  `json:"overlapY,omitempty"   yaml:"overlapY,omitempty"`
	Rotation   int    `json:"rotation,omitempty"   yaml:"rotation,omitempty"`
	CloneGroup uint32 `json:"cloneGroup,omitempty" yaml:"cloneGroup,omitempty"`
	PixelShift string `json:"pixelShift,omitempty" yaml:"pixelShift,omitempty"`
}

const defaultBpp = 32

var gridFlags = map[string]uint32{
	GridFlagBezelCorrected:           nvapi.GridFlagBezelCorrected,
	GridFlagImmersiveGaming:          nvapi.GridFlagImmersiveGaming,
	GridFlagBaseMosaic:               nvapi.GridFlagBaseMosaic,
	GridFlagDriverReloadAllowed:      nvapi.GridFlagDriverReloadAllowed,
	GridFlagAcceleratePrimaryDisplay: nvapi.GridFlagAcceleratePrimaryDisplay,
	GridFlagPixelShift:               nvapi.GridFlagPixelShift,
}

var setTopoFlags = map[string]uint32{
	SetTopoFlagCurrentGpuTopology:  nvapi.SetDisplayTopoFlagCurrentGpuTopology,
	SetTopoFlagNoDriverReload:      nvapi.SetDisplayTopoFlagNoDriverReload,
	SetTopoFlagMaximizePerformance: nvapi.SetDisplayTopoFlagMaximizePerformance,
	SetTopoFlagAllowInvalid:        nvapi.SetDisplayTopoFlagAllowInvalid,
}

var pixelShifts = []nvapi.PixelShiftType{
	nvapi.PixelShiftNone,
	nvapi.PixelShiftTopLeft2x2,
	nvapi.PixelShiftBottomRight2x2,
	nvapi.PixelShiftTopRight2x2,
	nvapi.PixelShiftBottomLeft2x2,
}

// ToGridTopos converts the layout into driver grids and the flags to set
// them with. Every problem in the layout is reported.
func (l *MosaicLayout) ToGridTopos() ([]nvapi.GridTopoV2, uint32, error) {
	var errs error
	if len(l.Grids) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("layout has no grids"))
	}

	flags, err := maskOf(setTopoFlags, l.SetTopoFlags)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("setTopoFlags: %w", err))
	}

	seen := make(map[uint32]int)
	grids := make([]nvapi.GridTopoV2, 0, len(l.Grids))
	for i := range l.Grids {
		g, err := l.Grids[i].toGridTopo()
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("grid %d: %w", i, err))
			continue
		}
		for _, d := range g.ActiveDisplays() {
			if other, ok := seen[d.DisplayID]; ok {
				errs = multierror.Append(errs, fmt.Errorf("grid %d: display %#x is already used by grid %d", i, d.DisplayID, other))
			}
			seen[d.DisplayID] = i
		}
		grids = append(grids, g)
	}
	if errs != nil {
		return nil, 0, errs
	}
	return grids, flags, nil
}

func (g *Grid) toGridTopo() (nvapi.GridTopoV2, error) {
	if g.Rows == 0 || g.Columns == 0 {
		return nvapi.GridTopoV2{}, fmt.Errorf("rows and columns must be positive")
	}
	if g.Rows > nvapi.MosaicMaxRows || g.Columns > nvapi.MosaicMaxColumns {
		return nvapi.GridTopoV2{}, fmt.Errorf("%dx%d exceeds the maximum of %dx%d", g.Rows, g.Columns, nvapi.MosaicMaxRows, nvapi.MosaicMaxColumns)
	}
	if len(g.Displays) < int(g.Rows*g.Columns) {
		return nvapi.GridTopoV2{}, fmt.Errorf("%dx%d grid needs at least %d displays, got %d", g.Rows, g.Columns, g.Rows*g.Columns, len(g.Displays))
	}
	if len(g.Displays) > nvapi.MosaicMaxDisplays {
		return nvapi.GridTopoV2{}, fmt.Errorf("too many displays: %d", len(g.Displays))
	}
	if g.Resolution.Width == 0 || g.Resolution.Height == 0 {
		return nvapi.GridTopoV2{}, fmt.Errorf("resolution is required")
	}
	flags, err := maskOf(gridFlags, g.Flags)
	if err != nil {
		return nvapi.GridTopoV2{}, err
	}

	topo := nvapi.NewGridTopoV2()
	topo.Rows = g.Rows
	topo.Columns = g.Columns
	topo.DisplayCount = uint32(len(g.Displays))
	topo.Flags = flags
	topo.DisplaySettings.Width = g.Resolution.Width
	topo.DisplaySettings.Height = g.Resolution.Height
	topo.DisplaySettings.Bpp = g.Resolution.Bpp
	if topo.DisplaySettings.Bpp == 0 {
		topo.DisplaySettings.Bpp = defaultBpp
	}
	topo.DisplaySettings.Freq = g.Resolution.Refresh

	for i, d := range g.Displays {
		rotation, err := nvapi.RotateFromDegrees(d.Rotation)
		if err != nil {
			return nvapi.GridTopoV2{}, fmt.Errorf("display %#x: %w", d.DisplayID, err)
		}
		shift, err := parsePixelShift(d.PixelShift)
		if err != nil {
			return nvapi.GridTopoV2{}, fmt.Errorf("display %#x: %w", d.DisplayID, err)
		}
		if shift != nvapi.PixelShiftNone && !topo.HasFlag(nvapi.GridFlagPixelShift) {
			return nvapi.GridTopoV2{}, fmt.Errorf("display %#x: pixel shift requires the %q grid flag", d.DisplayID, GridFlagPixelShift)
		}
		topo.Displays[i].DisplayID = d.DisplayID
		topo.Displays[i].OverlapX = d.OverlapX
		topo.Displays[i].OverlapY = d.OverlapY
		topo.Displays[i].Rotation = rotation
		topo.Displays[i].CloneGroup = d.CloneGroup
		topo.Displays[i].PixelShiftType = shift
	}
	return topo, nil
}

// LayoutFromGridTopos describes driver grids as a layout.
func LayoutFromGridTopos(grids []nvapi.GridTopoV2) *MosaicLayout {
	layout := &MosaicLayout{Grids: []Grid{}}
	for i := range grids {
		g := &grids[i]
		grid := Grid{
			Rows:    g.Rows,
			Columns: g.Columns,
			Resolution: Resolution{
				Width:   g.DisplaySettings.Width,
				Height:  g.DisplaySettings.Height,
				Bpp:     g.DisplaySettings.Bpp,
				Refresh: g.DisplaySettings.Freq,
			},
			Flags:    namesOf(gridFlags, g.Flags),
			Displays: []GridDisplay{},
		}
		for _, d := range g.ActiveDisplays() {
			display := GridDisplay{
				DisplayID:  d.DisplayID,
				OverlapX:   d.OverlapX,
				OverlapY:   d.OverlapY,
				Rotation:   rotationDegrees(d.Rotation),
				CloneGroup: d.CloneGroup,
			}
			if d.PixelShiftType != nvapi.PixelShiftNone {
				display.PixelShift = d.PixelShiftType.String()
			}
			grid.Displays = append(grid.Displays, display)
		}
		layout.Grids = append(layout.Grids, grid)
	}
	return layout
}

func maskOf(known map[string]uint32, names []string) (uint32, error) {
	var mask uint32
	for _, n := range names {
		bit, ok := known[n]
		if !ok {
			return 0, fmt.Errorf("unknown flag %q", n)
		}
		mask |= bit
	}
	return mask, nil
}

func namesOf(known map[string]uint32, mask uint32) []string {
	var names []string
	for n, bit := range known {
		if mask&bit != 0 {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func parsePixelShift(name string) (nvapi.PixelShiftType, error) {
	if name == "" {
		return nvapi.PixelShiftNone, nil
	}
	for _, p := range pixelShifts {
		if p.String() == name {
			return p, nil
		}
	}
	return nvapi.PixelShiftNone, fmt.Errorf("unknown pixel shift %q", name)
}

func rotationDegrees(r nvapi.Rotate) int {
	switch r {
	case nvapi.Rotate90:
		return 90
	case nvapi.Rotate180:
		return 180
	case nvapi.Rotate270:
		return 270
	}
	return 0
}
