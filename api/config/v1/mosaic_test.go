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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

func grid1x2(first, second uint32) Grid {
	return Grid{
		Rows:       1,
		Columns:    2,
		Resolution: Resolution{Width: 1920, Height: 1080, Refresh: 60},
		Displays: []GridDisplay{
			{DisplayID: first},
			{DisplayID: second, OverlapX: -16},
		},
	}
}

func TestToGridTopos(t *testing.T) {
	testCases := []struct {
		description   string
		layout        MosaicLayout
		expectedFlags uint32
		expectedError string
		check         func(*testing.T, []nvapi.GridTopoV2)
	}{
		{
			description: "single 1x2 grid",
			layout:      MosaicLayout{Grids: []Grid{grid1x2(0x80061082, 0x80062082)}},
			check: func(t *testing.T, grids []nvapi.GridTopoV2) {
				require.Len(t, grids, 1)
				g := grids[0]
				require.Equal(t, nvapi.GridTopoVer2, g.Version)
				require.Equal(t, nvapi.DisplaySettingVer1, g.DisplaySettings.Version)
				require.Equal(t, uint32(2), g.DisplayCount)
				require.Equal(t, uint32(32), g.DisplaySettings.Bpp)
				require.Equal(t, uint32(60), g.DisplaySettings.Freq)
				require.Equal(t, uint32(0x80062082), g.Displays[1].DisplayID)
				require.Equal(t, int32(-16), g.Displays[1].OverlapX)
				require.Equal(t, nvapi.GridTopoDisplayVer2, g.Displays[1].Version)
			},
		},
		{
			description: "flags rotation and pixel shift",
			layout: MosaicLayout{
				SetTopoFlags: []string{SetTopoFlagAllowInvalid, SetTopoFlagNoDriverReload},
				Grids: []Grid{
					{
						Rows:       1,
						Columns:    1,
						Resolution: Resolution{Width: 3840, Height: 2160, Bpp: 24, Refresh: 30},
						Flags:      []string{GridFlagBezelCorrected, GridFlagPixelShift},
						Displays: []GridDisplay{
							{DisplayID: 0x1, Rotation: 270, PixelShift: "TopLeft2x2", CloneGroup: 1},
						},
					},
				},
			},
			expectedFlags: nvapi.SetDisplayTopoFlagAllowInvalid | nvapi.SetDisplayTopoFlagNoDriverReload,
			check: func(t *testing.T, grids []nvapi.GridTopoV2) {
				g := grids[0]
				require.True(t, g.HasFlag(nvapi.GridFlagBezelCorrected))
				require.True(t, g.HasFlag(nvapi.GridFlagPixelShift))
				require.False(t, g.HasFlag(nvapi.GridFlagBaseMosaic))
				require.Equal(t, uint32(24), g.DisplaySettings.Bpp)
				require.Equal(t, nvapi.Rotate270, g.Displays[0].Rotation)
				require.Equal(t, nvapi.PixelShiftTopLeft2x2, g.Displays[0].PixelShiftType)
				require.Equal(t, uint32(1), g.Displays[0].CloneGroup)
			},
		},
		{
			description:   "no grids",
			layout:        MosaicLayout{},
			expectedError: "layout has no grids",
		},
		{
			description: "unknown set flag",
			layout: MosaicLayout{
				SetTopoFlags: []string{"force"},
				Grids:        []Grid{grid1x2(1, 2)},
			},
			expectedError: `unknown flag "force"`,
		},
		{
			description: "too few displays",
			layout: MosaicLayout{Grids: []Grid{{
				Rows:       2,
				Columns:    2,
				Resolution: Resolution{Width: 1920, Height: 1080},
				Displays:   []GridDisplay{{DisplayID: 1}},
			}}},
			expectedError: "2x2 grid needs at least 4 displays, got 1",
		},
		{
			description: "empty grid",
			layout: MosaicLayout{Grids: []Grid{{
				Resolution: Resolution{Width: 1920, Height: 1080},
			}}},
			expectedError: "rows and columns must be positive",
		},
		{
			description: "missing resolution",
			layout: MosaicLayout{Grids: []Grid{{
				Rows:     1,
				Columns:  1,
				Displays: []GridDisplay{{DisplayID: 1}},
			}}},
			expectedError: "resolution is required",
		},
		{
			description: "bad rotation",
			layout: MosaicLayout{Grids: []Grid{{
				Rows:       1,
				Columns:    1,
				Resolution: Resolution{Width: 1920, Height: 1080},
				Displays:   []GridDisplay{{DisplayID: 1, Rotation: 45}},
			}}},
			expectedError: "unsupported rotation 45",
		},
		{
			description: "pixel shift without grid flag",
			layout: MosaicLayout{Grids: []Grid{{
				Rows:       1,
				Columns:    1,
				Resolution: Resolution{Width: 1920, Height: 1080},
				Displays:   []GridDisplay{{DisplayID: 1, PixelShift: "TopLeft2x2"}},
			}}},
			expectedError: "pixel shift requires",
		},
		{
			description: "unknown pixel shift",
			layout: MosaicLayout{Grids: []Grid{{
				Rows:       1,
				Columns:    1,
				Resolution: Resolution{Width: 1920, Height: 1080},
				Flags:      []string{GridFlagPixelShift},
				Displays:   []GridDisplay{{DisplayID: 1, PixelShift: "Diagonal"}},
			}}},
			expectedError: `unknown pixel shift "Diagonal"`,
		},
		{
			description: "display in two grids",
			layout: MosaicLayout{Grids: []Grid{
				grid1x2(1, 2),
				grid1x2(3, 1),
			}},
			expectedError: "display 0x1 is already used by grid 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			grids, flags, err := tc.layout.ToGridTopos()
			if tc.expectedError != "" {
				require.ErrorContains(t, err, tc.expectedError)
				require.Nil(t, grids)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedFlags, flags)
			tc.check(t, grids)
		})
	}
}

func TestToGridToposReportsEveryProblem(t *testing.T) {
	layout := MosaicLayout{
		SetTopoFlags: []string{"force"},
		Grids: []Grid{
			{Rows: 0, Columns: 1},
			grid1x2(1, 2),
			{Rows: 1, Columns: 1, Displays: []GridDisplay{{DisplayID: 3}}},
		},
	}

	_, _, err := layout.ToGridTopos()
	require.ErrorContains(t, err, "setTopoFlags")
	require.ErrorContains(t, err, "grid 0: rows and columns must be positive")
	require.ErrorContains(t, err, "grid 2: resolution is required")
	require.NotContains(t, err.Error(), "grid 1:")
}

func TestLayoutFromGridTopos(t *testing.T) {
	layout := MosaicLayout{
		Grids: []Grid{
			{
				Rows:       1,
				Columns:    2,
				Resolution: Resolution{Width: 1920, Height: 1080, Bpp: 32, Refresh: 60},
				Flags:      []string{GridFlagBezelCorrected, GridFlagPixelShift},
				Displays: []GridDisplay{
					{DisplayID: 0x80061082, Rotation: 90},
					{DisplayID: 0x80062082, OverlapX: 32, PixelShift: "BottomRight2x2"},
				},
			},
			{
				Rows:       1,
				Columns:    1,
				Resolution: Resolution{Width: 1280, Height: 720, Bpp: 32, Refresh: 60},
				Displays:   []GridDisplay{{DisplayID: 0x80061083}},
			},
		},
	}

	grids, _, err := layout.ToGridTopos()
	require.NoError(t, err)

	described := LayoutFromGridTopos(grids)
	require.Equal(t, &layout, described)
}

func TestLayoutFromNoGrids(t *testing.T) {
	layout := LayoutFromGridTopos(nil)
	require.NotNil(t, layout.Grids)
	require.Empty(t, layout.Grids)
}
