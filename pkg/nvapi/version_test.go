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
	"errors"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestMakeVersion(t *testing.T) {
	v := MakeVersion(36, 2)
	require.Equal(t, StructVersion(36|2<<16), v)
	require.Equal(t, uint32(36), v.Size())
	require.Equal(t, uint16(2), v.Number())
	require.True(t, v.IsSet())
	require.Equal(t, "v2(36 bytes)", v.String())

	require.False(t, StructVersion(0).IsSet())
}

// The expected sizes are those of the driver headers on 64-bit Windows.
func TestStructVersionSizes(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("struct sizes are checked for 64-bit layouts only")
	}

	testCases := []struct {
		description string
		tag         StructVersion
		size        uintptr
		version     uint16
		expected    uint32
	}{
		{"GSyncCapabilitiesV1", GSyncCapabilitiesVer1, unsafe.Sizeof(GSyncCapabilitiesV1{}), 1, 16},
		{"GSyncCapabilitiesV2", GSyncCapabilitiesVer2, unsafe.Sizeof(GSyncCapabilitiesV2{}), 2, 20},
		{"GSyncDisplay", GSyncDisplayVer, unsafe.Sizeof(GSyncDisplay{}), 1, 16},
		{"GSyncGpu", GSyncGpuVer, unsafe.Sizeof(GSyncGpu{}), 1, 40},
		{"GSyncDelay", GSyncDelayVer, unsafe.Sizeof(GSyncDelay{}), 1, 20},
		{"GSyncControlParams", GSyncControlParamsVer, unsafe.Sizeof(GSyncControlParams{}), 1, 64},
		{"GSyncStatus", GSyncStatusVer, unsafe.Sizeof(GSyncStatus{}), 1, 16},
		{"GSyncStatusParamsV1", GSyncStatusParamsVer1, unsafe.Sizeof(GSyncStatusParamsV1{}), 1, 32},
		{"GSyncStatusParamsV2", GSyncStatusParamsVer2, unsafe.Sizeof(GSyncStatusParamsV2{}), 2, 36},
		{"TopoBrief", TopoBriefVer, unsafe.Sizeof(TopoBrief{}), 1, 16},
		{"DisplaySettingV1", DisplaySettingVer1, unsafe.Sizeof(DisplaySettingV1{}), 1, 20},
		{"DisplaySettingV2", DisplaySettingVer2, unsafe.Sizeof(DisplaySettingV2{}), 2, 24},
		{"SupportedTopoInfoV1", SupportedTopoInfoVer1, unsafe.Sizeof(SupportedTopoInfoV1{}), 1, 1372},
		{"SupportedTopoInfoV2", SupportedTopoInfoVer2, unsafe.Sizeof(SupportedTopoInfoV2{}), 2, 1532},
		{"TopoDetails", TopoDetailsVer, unsafe.Sizeof(TopoDetails{}), 1, 1568},
		{"TopoGroup", TopoGroupVer, unsafe.Sizeof(TopoGroup{}), 1, 3160},
		{"GridTopoDisplayV2", GridTopoDisplayVer2, unsafe.Sizeof(GridTopoDisplayV2{}), 2, 28},
		{"GridTopoV1", GridTopoVer1, unsafe.Sizeof(GridTopoV1{}), 1, 1320},
		{"GridTopoV2", GridTopoVer2, unsafe.Sizeof(GridTopoV2{}), 2, 1832},
		{"DisplayTopoStatus", DisplayTopoStatusVer, unsafe.Sizeof(DisplayTopoStatus{}), 1, 4112},
		{"MosaicTopology", MosaicTopologyVer, unsafe.Sizeof(MosaicTopology{}), 1, 1552},
		{"SupportedMosaicTopologies", SupportedMosaicTopologiesVer, unsafe.Sizeof(SupportedMosaicTopologies{}), 1, 24840},
		{"GpuThermalSettingsV1", GpuThermalSettingsVer1, unsafe.Sizeof(GpuThermalSettingsV1{}), 1, 68},
		{"GpuThermalSettingsV2", GpuThermalSettingsVer2, unsafe.Sizeof(GpuThermalSettingsV2{}), 2, 68},
		{"ThermalPoliciesInfoV2", ThermalPoliciesInfoVer2, unsafe.Sizeof(ThermalPoliciesInfoV2{}), 2, 104},
		{"ThermalPoliciesStatusV2", ThermalPoliciesStatusVer2, unsafe.Sizeof(ThermalPoliciesStatusV2{}), 2, 56},
		{"GpuDisplayIdsV1", GpuDisplayIdsVer1, unsafe.Sizeof(GpuDisplayIds{}), 1, 16},
		{"GpuDisplayIdsV2", GpuDisplayIdsVer2, unsafe.Sizeof(GpuDisplayIds{}), 3, 16},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.Equal(t, tc.expected, uint32(tc.size))
			require.Equal(t, uint32(tc.size), tc.tag.Size())
			require.Equal(t, tc.version, tc.tag.Number())
		})
	}
}

func TestSmallStructSizes(t *testing.T) {
	require.Equal(t, uintptr(20), unsafe.Sizeof(GridTopoDisplayV1{}))
	require.Equal(t, uintptr(16), unsafe.Sizeof(Rect{}))
	require.Equal(t, uintptr(64), unsafe.Sizeof(ShortString{}))
}

func TestCheckVersion(t *testing.T) {
	require.Equal(t, OK, checkVersion("test", GSyncCapabilitiesVer2, GSyncCapabilitiesVer1, GSyncCapabilitiesVer2))
	require.Equal(t, INCOMPATIBLE_STRUCT_VERSION, checkVersion("test", 0, GSyncCapabilitiesVer2))
	require.Equal(t, INCOMPATIBLE_STRUCT_VERSION, checkVersion("test", MakeVersion(20, 7), GSyncCapabilitiesVer2))
}

func TestWithVersionFallback(t *testing.T) {
	testCases := []struct {
		description string
		results     []error
		expectedErr error
		expectedRun int
	}{
		{
			description: "newest version accepted",
			results:     []error{nil, nil},
			expectedRun: 1,
		},
		{
			description: "falls back on version mismatch",
			results:     []error{INCOMPATIBLE_STRUCT_VERSION, nil},
			expectedRun: 2,
		},
		{
			description: "other errors do not fall back",
			results:     []error{NOT_SUPPORTED, nil},
			expectedErr: NOT_SUPPORTED,
			expectedRun: 1,
		},
		{
			description: "wrapped mismatch falls back",
			results:     []error{fmt.Errorf("caps: %w", INCOMPATIBLE_STRUCT_VERSION), nil},
			expectedRun: 2,
		},
		{
			description: "every version rejected",
			results:     []error{INCOMPATIBLE_STRUCT_VERSION, INCOMPATIBLE_STRUCT_VERSION},
			expectedErr: INCOMPATIBLE_STRUCT_VERSION,
			expectedRun: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			run := 0
			var attempts []func() error
			for _, r := range tc.results {
				r := r
				attempts = append(attempts, func() error {
					run++
					return r
				})
			}
			err := WithVersionFallback(attempts...)
			if tc.expectedErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, errors.Is(err, tc.expectedErr))
			}
			require.Equal(t, tc.expectedRun, run)
		})
	}
}
