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

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// CurrentTopology is the topology the driver is configured with.
type CurrentTopology struct {
	Brief    nvapi.TopoBrief
	Setting  nvapi.DisplaySettingV2
	OverlapX int32
	OverlapY int32
}

// OverlapLimits are the overlap bounds, in pixels, for a topology and mode.
type OverlapLimits struct {
	MinX int32
	MaxX int32
	MinY int32
	MaxY int32
}

// SupportedTopologies returns the topologies of the given type that the
// system can drive and the display modes they have in common. Results are
// cached until the session is invalidated or the configuration changes.
func (s *Session) SupportedTopologies(topoType nvapi.MosaicTopoType) (*nvapi.SupportedTopoInfoV2, error) {
	s.mu.Lock()
	cached, ok := s.supported[topoType]
	generation := s.generation
	s.mu.Unlock()
	if ok {
		return &cached, nil
	}

	var info *nvapi.SupportedTopoInfoV2
	err := nvapi.WithVersionFallback(
		func() error {
			info = nvapi.NewSupportedTopoInfoV2()
			return s.nvapi.MosaicGetSupportedTopoInfo(info, topoType).Err()
		},
		func() error {
			v1 := nvapi.NewSupportedTopoInfoV1()
			if err := s.nvapi.MosaicGetSupportedTopoInfoV1(v1, topoType).Err(); err != nil {
				return err
			}
			info = v1.Upgrade()
			return nil
		},
	)
	klog.V(4).Infof("mosaic.SupportedTopologies(%v): %v", topoType, err)
	s.queried(err)
	if err != nil {
		return nil, fmt.Errorf("error getting supported %v topologies: %w", topoType, err)
	}

	s.mu.Lock()
	if s.generation == generation {
		s.supported[topoType] = *info
	}
	s.mu.Unlock()
	return info, nil
}

// TopologyDetails returns the GPU layout of a topology.
func (s *Session) TopologyDetails(brief nvapi.TopoBrief) (*nvapi.TopoGroup, error) {
	brief.Version = nvapi.TopoBriefVer
	group := nvapi.NewTopoGroup()
	ret := s.nvapi.MosaicGetTopoGroup(&brief, group)
	klog.V(4).Infof("mosaic.TopologyDetails(%v): %v", brief.Topo, ret)
	err := ret.Err()
	s.queried(err)
	if err != nil {
		return nil, fmt.Errorf("error getting details of topology %v: %w", brief.Topo, err)
	}
	return group, nil
}

// CurrentTopology returns the current topology. A system that is not
// configured for Mosaic reports nvapi.MosaicTopoNone.
func (s *Session) CurrentTopology() (CurrentTopology, error) {
	var current CurrentTopology
	err := nvapi.WithVersionFallback(
		func() error {
			current = CurrentTopology{
				Brief:   nvapi.TopoBrief{Version: nvapi.TopoBriefVer},
				Setting: nvapi.DisplaySettingV2{Version: nvapi.DisplaySettingVer2},
			}
			return s.nvapi.MosaicGetCurrentTopo(&current.Brief, &current.Setting, &current.OverlapX, &current.OverlapY).Err()
		},
		func() error {
			current = CurrentTopology{Brief: nvapi.TopoBrief{Version: nvapi.TopoBriefVer}}
			setting := nvapi.DisplaySettingV1{Version: nvapi.DisplaySettingVer1}
			if err := s.nvapi.MosaicGetCurrentTopoV1(&current.Brief, &setting, &current.OverlapX, &current.OverlapY).Err(); err != nil {
				return err
			}
			current.Setting = setting.Upgrade()
			return nil
		},
	)
	klog.V(4).Infof("mosaic.CurrentTopology() [%v]: %v", current.Brief.Topo, err)
	s.queried(err)
	if err != nil {
		return CurrentTopology{}, fmt.Errorf("error getting current topology: %w", err)
	}
	return current, nil
}

// SetCurrentTopology configures a topology. With enable false the
// configuration is stored but not applied.
func (s *Session) SetCurrentTopology(brief nvapi.TopoBrief, setting nvapi.DisplaySettingV2, overlapX, overlapY int32, enable bool) error {
	brief.Version = nvapi.TopoBriefVer
	err := nvapi.WithVersionFallback(
		func() error {
			setting.Version = nvapi.DisplaySettingVer2
			return s.nvapi.MosaicSetCurrentTopo(&brief, &setting, overlapX, overlapY, enable).Err()
		},
		func() error {
			v1 := setting.Downgrade()
			return s.nvapi.MosaicSetCurrentTopoV1(&brief, &v1, overlapX, overlapY, enable).Err()
		},
	)
	klog.V(4).Infof("mosaic.SetCurrentTopology(%v, %dx%d, %v): %v", brief.Topo, setting.Width, setting.Height, enable, err)
	next := ConfiguredButDisabled
	if enable {
		next = Enabled
	}
	s.configured(err, next)
	if err != nil {
		return fmt.Errorf("error setting topology %v: %w", brief.Topo, err)
	}
	return nil
}

// EnableCurrentTopology enables or disables the configured topology. The
// configuration is kept when disabling. The configuration may predate the
// session, so enabling succeeds from any state if the driver has one.
func (s *Session) EnableCurrentTopology(enable bool) error {
	ret := s.nvapi.MosaicEnableCurrentTopo(enable)
	klog.V(4).Infof("mosaic.EnableCurrentTopology(%v): %v", enable, ret)
	err := ret.Err()
	next := ConfiguredButDisabled
	if enable {
		next = Enabled
	}
	s.configured(err, next)
	if err != nil {
		return fmt.Errorf("error enabling current topology: %w", err)
	}
	return nil
}

// OverlapLimits returns the overlap bounds for a topology and mode.
func (s *Session) OverlapLimits(brief nvapi.TopoBrief, setting nvapi.DisplaySettingV2) (OverlapLimits, error) {
	brief.Version = nvapi.TopoBriefVer
	var limits OverlapLimits
	err := nvapi.WithVersionFallback(
		func() error {
			setting.Version = nvapi.DisplaySettingVer2
			return s.nvapi.MosaicGetOverlapLimits(&brief, &setting, &limits.MinX, &limits.MaxX, &limits.MinY, &limits.MaxY).Err()
		},
		func() error {
			v1 := setting.Downgrade()
			return s.nvapi.MosaicGetOverlapLimitsV1(&brief, &v1, &limits.MinX, &limits.MaxX, &limits.MinY, &limits.MaxY).Err()
		},
	)
	klog.V(4).Infof("mosaic.OverlapLimits(%v): %v", brief.Topo, err)
	s.queried(err)
	if err != nil {
		return OverlapLimits{}, fmt.Errorf("error getting overlap limits of topology %v: %w", brief.Topo, err)
	}
	return limits, nil
}
