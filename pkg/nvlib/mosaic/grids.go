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

package mosaic

import (
	"fmt"
	"slices"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// Viewports are the desktop rectangles of the displays in a grid.
type Viewports struct {
	Rects          []nvapi.Rect
	BezelCorrected bool
}

// DisplayGrids returns the current display grids.
func (s *Session) DisplayGrids() ([]nvapi.GridTopoV2, error) {
	var grids []nvapi.GridTopoV2
	err := nvapi.WithVersionFallback(
		func() error {
			var err error
			grids, err = nvapi.Enumerate(
				func(count *uint32) nvapi.Status {
					return s.nvapi.MosaicEnumDisplayGrids(nil, count)
				},
				func(buf []nvapi.GridTopoV2, count *uint32) nvapi.Status {
					return s.nvapi.MosaicEnumDisplayGrids(buf, count)
				},
				func(g *nvapi.GridTopoV2) { *g = nvapi.NewGridTopoV2() },
			)
			return err
		},
		func() error {
			v1, err := nvapi.Enumerate(
				func(count *uint32) nvapi.Status {
					return s.nvapi.MosaicEnumDisplayGridsV1(nil, count)
				},
				func(buf []nvapi.GridTopoV1, count *uint32) nvapi.Status {
					return s.nvapi.MosaicEnumDisplayGridsV1(buf, count)
				},
				func(g *nvapi.GridTopoV1) { *g = nvapi.NewGridTopoV1() },
			)
			if err != nil {
				return err
			}
			grids = make([]nvapi.GridTopoV2, len(v1))
			for i := range v1 {
				grids[i] = v1[i].Upgrade()
			}
			return nil
		},
	)
	klog.V(4).Infof("mosaic.DisplayGrids() [%d]: %v", len(grids), err)
	s.queried(err)
	if err != nil {
		return nil, fmt.Errorf("error enumerating display grids: %w", err)
	}
	return grids, nil
}

// SetDisplayGrids applies a set of display grids. This is a mode-set: on
// success the session returns to Unqueried.
func (s *Session) SetDisplayGrids(grids []nvapi.GridTopoV2, flags uint32) error {
	if len(grids) == 0 {
		return fmt.Errorf("error setting display grids: %w", nvapi.INVALID_ARGUMENT)
	}
	grids = tagGrids(grids)
	err := nvapi.WithVersionFallback(
		func() error {
			return s.nvapi.MosaicSetDisplayGrids(grids, flags).Err()
		},
		func() error {
			v1, err := downgradeGrids(grids)
			if err != nil {
				return err
			}
			return s.nvapi.MosaicSetDisplayGridsV1(v1, flags).Err()
		},
	)
	klog.V(4).Infof("mosaic.SetDisplayGrids([%d], %#x): %v", len(grids), flags, err)
	if err == nil || nvapi.IsStale(err) {
		s.Invalidate()
	}
	if err != nil {
		return fmt.Errorf("error setting display grids: %w", err)
	}
	return nil
}

// ValidateDisplayGrids checks a set of display grids without applying it.
// There is one status per grid. A grid without displays always yields a
// status with no per-display entries.
func (s *Session) ValidateDisplayGrids(grids []nvapi.GridTopoV2, flags uint32) ([]nvapi.DisplayTopoStatus, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("error validating display grids: %w", nvapi.INVALID_ARGUMENT)
	}
	grids = tagGrids(grids)
	statuses := make([]nvapi.DisplayTopoStatus, len(grids))
	err := nvapi.WithVersionFallback(
		func() error {
			for i := range statuses {
				statuses[i] = nvapi.DisplayTopoStatus{Version: nvapi.DisplayTopoStatusVer}
			}
			return s.nvapi.MosaicValidateDisplayGrids(flags, grids, statuses).Err()
		},
		func() error {
			v1, err := downgradeGrids(grids)
			if err != nil {
				return err
			}
			for i := range statuses {
				statuses[i] = nvapi.DisplayTopoStatus{Version: nvapi.DisplayTopoStatusVer}
			}
			return s.nvapi.MosaicValidateDisplayGridsV1(flags, v1, statuses).Err()
		},
	)
	klog.V(4).Infof("mosaic.ValidateDisplayGrids([%d], %#x): %v", len(grids), flags, err)
	s.queried(err)
	if err != nil {
		return nil, fmt.Errorf("error validating display grids: %w", err)
	}

	for i := range grids {
		if grids[i].DisplayCount == 0 {
			statuses[i].DisplayCount = 0
			statuses[i].Displays = [nvapi.MaxDisplays]nvapi.DisplayTopoStatusDisplay{}
		}
	}
	return statuses, nil
}

// DisplayViewportsByResolution returns the viewports of the grid that
// contains displayID. A zero width and height select the current mode.
func (s *Session) DisplayViewportsByResolution(displayID uint32, width, height uint32) (Viewports, error) {
	var rects [nvapi.MosaicMaxDisplays]nvapi.Rect
	var bezelCorrected uint8
	ret := s.nvapi.MosaicGetDisplayViewportsByResolution(displayID, width, height, &rects, &bezelCorrected)
	klog.V(4).Infof("mosaic.DisplayViewportsByResolution(%#x, %d, %d): %v", displayID, width, height, ret)
	err := ret.Err()
	s.queried(err)
	if err != nil {
		return Viewports{}, fmt.Errorf("error getting viewports of display %#x: %w", displayID, err)
	}

	viewports := Viewports{
		Rects:          []nvapi.Rect{},
		BezelCorrected: bezelCorrected != 0,
	}
	for _, r := range rects {
		if !r.IsEmpty() {
			viewports.Rects = append(viewports.Rects, r)
		}
	}
	return viewports, nil
}

// tagGrids returns a copy of grids with every unset version tag filled in.
func tagGrids(grids []nvapi.GridTopoV2) []nvapi.GridTopoV2 {
	grids = slices.Clone(grids)
	for i := range grids {
		g := &grids[i]
		if !g.Version.IsSet() {
			g.Version = nvapi.GridTopoVer2
		}
		if !g.DisplaySettings.Version.IsSet() {
			g.DisplaySettings.Version = nvapi.DisplaySettingVer1
		}
		for j := range g.Displays {
			if !g.Displays[j].Version.IsSet() {
				g.Displays[j].Version = nvapi.GridTopoDisplayVer2
			}
		}
	}
	return grids
}

func downgradeGrids(grids []nvapi.GridTopoV2) ([]nvapi.GridTopoV1, error) {
	v1 := make([]nvapi.GridTopoV1, len(grids))
	for i := range grids {
		g, err := grids[i].Downgrade()
		if err != nil {
			return nil, err
		}
		v1[i] = g
	}
	return v1, nil
}
