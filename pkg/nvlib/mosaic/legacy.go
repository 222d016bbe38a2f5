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

// SupportedMosaicTopologies returns the topologies of the pre-grid API.
func (s *Session) SupportedMosaicTopologies() ([]nvapi.MosaicTopology, error) {
	supported := nvapi.SupportedMosaicTopologies{Version: nvapi.SupportedMosaicTopologiesVer}
	ret := s.nvapi.GetSupportedMosaicTopologies(&supported)
	klog.V(4).Infof("mosaic.SupportedMosaicTopologies() [%d]: %v", supported.TotalCount, ret)
	err := ret.Err()
	s.queried(err)
	if err != nil {
		return nil, fmt.Errorf("error getting supported mosaic topologies: %w", err)
	}
	return append([]nvapi.MosaicTopology{}, supported.Topologies()...), nil
}

// CurrentMosaicTopology returns the current topology of the pre-grid API
// and whether it is enabled. An unconfigured system reports a topology
// with no rows.
func (s *Session) CurrentMosaicTopology() (nvapi.MosaicTopology, bool, error) {
	topo := nvapi.MosaicTopology{Version: nvapi.MosaicTopologyVer}
	var enabled uint32
	ret := s.nvapi.GetCurrentMosaicTopology(&topo, &enabled)
	klog.V(4).Infof("mosaic.CurrentMosaicTopology() [%dx%d, %d]: %v", topo.RowCount, topo.ColCount, enabled, ret)
	err := ret.Err()
	s.queried(err)
	if err != nil {
		return nvapi.MosaicTopology{}, false, fmt.Errorf("error getting current mosaic topology: %w", err)
	}
	return topo, enabled != 0, nil
}

// SetCurrentMosaicTopology sets and enables a topology of the pre-grid API.
func (s *Session) SetCurrentMosaicTopology(topo nvapi.MosaicTopology) error {
	topo.Version = nvapi.MosaicTopologyVer
	ret := s.nvapi.SetCurrentMosaicTopology(&topo)
	klog.V(4).Infof("mosaic.SetCurrentMosaicTopology(%dx%d): %v", topo.RowCount, topo.ColCount, ret)
	err := ret.Err()
	s.configured(err, Enabled)
	if err != nil {
		return fmt.Errorf("error setting %dx%d mosaic topology: %w", topo.RowCount, topo.ColCount, err)
	}
	return nil
}

// EnableCurrentMosaicTopology enables or disables the current topology of
// the pre-grid API.
func (s *Session) EnableCurrentMosaicTopology(enable bool) error {
	ret := s.nvapi.EnableCurrentMosaicTopology(enable)
	klog.V(4).Infof("mosaic.EnableCurrentMosaicTopology(%v): %v", enable, ret)
	err := ret.Err()
	next := ConfiguredButDisabled
	if enable {
		next = Enabled
	}
	s.configured(err, next)
	if err != nil {
		return fmt.Errorf("error enabling current mosaic topology: %w", err)
	}
	return nil
}
