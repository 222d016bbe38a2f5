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

// Package mosaic wraps the Mosaic entry points of nvapi.
//
// A Session tracks what the caller has done to the Mosaic configuration:
//
//	Unqueried -> Queried -> ConfiguredButDisabled <-> Enabled
//
// A mode-set that invalidates driver handles returns the session to
// Unqueried and drops every cached snapshot.
package mosaic

import (
	"sync"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// State is the state of a Session.
type State int

// Session states.
const (
	Unqueried State = iota
	Queried
	ConfiguredButDisabled
	Enabled
)

func (s State) String() string {
	switch s {
	case Unqueried:
		return "Unqueried"
	case Queried:
		return "Queried"
	case ConfiguredButDisabled:
		return "ConfiguredButDisabled"
	case Enabled:
		return "Enabled"
	}
	return "Unknown"
}

// Interface provides the Mosaic API.
type Interface interface {
	State() State
	Invalidate()

	SupportedTopologies(topoType nvapi.MosaicTopoType) (*nvapi.SupportedTopoInfoV2, error)
	TopologyDetails(brief nvapi.TopoBrief) (*nvapi.TopoGroup, error)
	CurrentTopology() (CurrentTopology, error)
	SetCurrentTopology(brief nvapi.TopoBrief, setting nvapi.DisplaySettingV2, overlapX, overlapY int32, enable bool) error
	EnableCurrentTopology(enable bool) error
	OverlapLimits(brief nvapi.TopoBrief, setting nvapi.DisplaySettingV2) (OverlapLimits, error)

	DisplayGrids() ([]nvapi.GridTopoV2, error)
	SetDisplayGrids(grids []nvapi.GridTopoV2, flags uint32) error
	ValidateDisplayGrids(grids []nvapi.GridTopoV2, flags uint32) ([]nvapi.DisplayTopoStatus, error)
	DisplayViewportsByResolution(displayID uint32, width, height uint32) (Viewports, error)

	SupportedMosaicTopologies() ([]nvapi.MosaicTopology, error)
	CurrentMosaicTopology() (nvapi.MosaicTopology, bool, error)
	SetCurrentMosaicTopology(topo nvapi.MosaicTopology) error
	EnableCurrentMosaicTopology(enable bool) error
}

// Session is a Mosaic session. It is safe for concurrent use.
type Session struct {
	nvapi nvapi.Interface

	mu        sync.Mutex
	state     State
	supported map[nvapi.MosaicTopoType]nvapi.SupportedTopoInfoV2
	// generation changes whenever supported is dropped. A query started
	// before the change does not repopulate the cache.
	generation uint64
}

var _ Interface = &Session{}

// Option defines a function for passing options to the New() call.
type Option func(*Session)

// New creates a new Mosaic session in the Unqueried state.
func New(opts ...Option) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if s.nvapi == nil {
		s.nvapi = nvapi.New()
	}
	s.supported = make(map[nvapi.MosaicTopoType]nvapi.SupportedTopoInfoV2)
	return s
}

// WithNvapi sets the nvapi library used by the session.
func WithNvapi(lib nvapi.Interface) Option {
	return func(s *Session) {
		s.nvapi = lib
	}
}

// State returns the current state of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Invalidate returns the session to Unqueried and drops cached snapshots.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidate()
}

func (s *Session) invalidate() {
	klog.V(4).Infof("mosaic: session invalidated in state %v", s.state)
	s.state = Unqueried
	s.dropSupported()
}

func (s *Session) dropSupported() {
	s.supported = make(map[nvapi.MosaicTopoType]nvapi.SupportedTopoInfoV2)
	s.generation++
}

// queried records the outcome of a query.
func (s *Session) queried(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case nvapi.IsStale(err):
		s.invalidate()
	case err == nil && s.state == Unqueried:
		s.state = Queried
	}
}

// configured records the outcome of a call that changes the configuration.
// On success the session moves to next and the supported topologies, whose
// enabled flags reflect the old configuration, are dropped.
func (s *Session) configured(err error, next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case nvapi.IsStale(err):
		s.invalidate()
	case err == nil:
		s.state = next
		s.dropSupported()
	}
}
