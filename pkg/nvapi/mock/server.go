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

// Package mock provides an in-memory nvapi driver. It validates struct
// version tags and buffer sizes the way the driver does and keeps enough
// state for G-SYNC, Mosaic, GPU and display calls to be exercised without
// hardware.
package mock

import (
	"fmt"
	"sync"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// handleGenerationStep is added to every handle on a mode-set when handles
// are invalidated.
const handleGenerationStep = 0x10000

// Server is a fake nvapi driver. Exported fields may be modified by tests
// between calls; AfterCount runs with the server locked and may modify
// them too, but must not call Server methods.
type Server struct {
	sync.Mutex

	DriverVersion    uint32
	BranchString     string
	InterfaceVersion string

	GPUs               []*GPU
	LogicalGPUs        []nvapi.LogicalGpuHandle
	GSyncDevices       []*GSyncDevice
	Displays           []*Display
	UnAttachedDisplays []*UnAttachedDisplay
	Mosaic             Mosaic

	// Fail forces the named method to return the given status.
	Fail map[string]nvapi.Status
	// RejectVersions lists struct versions the driver does not know.
	RejectVersions map[nvapi.StructVersion]bool
	// AfterCount is called after every count query of a two-phase
	// enumeration with the name of the method.
	AfterCount func(method string)
	// InvalidateHandlesOnModeSet gives every handle a new value on each
	// mode-set. Calls with an old handle return HANDLE_INVALIDATED.
	InvalidateHandlesOnModeSet bool

	// Calls counts invocations per method name.
	Calls    map[string]int
	ModeSets int

	refcount int
	stale    map[uintptr]bool
}

// GPU is a physical GPU.
type GPU struct {
	Handle       nvapi.PhysicalGpuHandle
	FullName     string
	ShortName    string
	VbiosVersion string
	DisplayIds   []nvapi.GpuDisplayIds
	Sensors      []nvapi.ThermalSensorV2
	PolicyInfo   []nvapi.ThermalPolicyInfoEntry
	PolicyStatus []nvapi.ThermalPolicyStatusEntry
}

// Display is an attached display handle and its OS name.
type Display struct {
	Handle nvapi.DisplayHandle
	Name   string
}

// UnAttachedDisplay is a display that is not part of the desktop.
type UnAttachedDisplay struct {
	Handle nvapi.UnAttachedDisplayHandle
	Name   string
}

var _ nvapi.Interface = (*Server)(nil)

// NewServer returns a server with no devices.
func NewServer() *Server {
	return &Server{
		DriverVersion:    53698,
		BranchString:     "r535_00",
		InterfaceVersion: "NVidia Complete Version 1.10",
		Fail:             make(map[string]nvapi.Status),
		RejectVersions:   make(map[nvapi.StructVersion]bool),
		Calls:            make(map[string]int),
		stale:            make(map[uintptr]bool),
		Mosaic:           Mosaic{LegacyCurrent: -1},
	}
}

// begin records a call and applies the common driver checks. Every method
// other than Init and Shutdown requires an initialized driver.
func (s *Server) begin(method string) nvapi.Status {
	s.Calls[method]++
	if ret, ok := s.Fail[method]; ok {
		return ret
	}
	if s.refcount == 0 {
		return nvapi.API_NOT_INITIALIZED
	}
	return nvapi.OK
}

func (s *Server) checkTag(got nvapi.StructVersion, want nvapi.StructVersion) nvapi.Status {
	if got != want || s.RejectVersions[want] {
		return nvapi.INCOMPATIBLE_STRUCT_VERSION
	}
	return nvapi.OK
}

func (s *Server) counted(method string) {
	if s.AfterCount != nil {
		s.AfterCount(method)
	}
}

// modeSet records a display reconfiguration.
func (s *Server) modeSet() {
	s.ModeSets++
	if !s.InvalidateHandlesOnModeSet {
		return
	}
	for _, g := range s.GPUs {
		s.stale[uintptr(g.Handle)] = true
		g.Handle += handleGenerationStep
	}
	for i, h := range s.LogicalGPUs {
		s.stale[uintptr(h)] = true
		s.LogicalGPUs[i] = h + handleGenerationStep
	}
	for _, d := range s.GSyncDevices {
		s.stale[uintptr(d.Handle)] = true
		d.Handle += handleGenerationStep
	}
	for _, d := range s.Displays {
		s.stale[uintptr(d.Handle)] = true
		d.Handle += handleGenerationStep
	}
	for _, d := range s.UnAttachedDisplays {
		s.stale[uintptr(d.Handle)] = true
		d.Handle += handleGenerationStep
	}
}

func (s *Server) lookupGPU(h nvapi.PhysicalGpuHandle) (*GPU, nvapi.Status) {
	for _, g := range s.GPUs {
		if g.Handle == h {
			return g, nvapi.OK
		}
	}
	if s.stale[uintptr(h)] {
		return nil, nvapi.HANDLE_INVALIDATED
	}
	return nil, nvapi.EXPECTED_PHYSICAL_GPU_HANDLE
}

func (s *Server) lookupDisplay(h nvapi.DisplayHandle) (*Display, nvapi.Status) {
	for _, d := range s.Displays {
		if d.Handle == h {
			return d, nvapi.OK
		}
	}
	if s.stale[uintptr(h)] {
		return nil, nvapi.HANDLE_INVALIDATED
	}
	return nil, nvapi.EXPECTED_DISPLAY_HANDLE
}

// findDisplayID returns the GPU driving a display and the display entry.
func (s *Server) findDisplayID(id uint32) (*GPU, *nvapi.GpuDisplayIds) {
	for _, g := range s.GPUs {
		for i := range g.DisplayIds {
			if g.DisplayIds[i].DisplayID == id {
				return g, &g.DisplayIds[i]
			}
		}
	}
	return nil, nil
}

// Init implements nvapi.Interface.
func (s *Server) Init() nvapi.Status {
	s.Lock()
	defer s.Unlock()
	s.Calls["Init"]++
	if ret, ok := s.Fail["Init"]; ok {
		return ret
	}
	s.refcount++
	return nvapi.OK
}

// Shutdown implements nvapi.Interface.
func (s *Server) Shutdown() nvapi.Status {
	s.Lock()
	defer s.Unlock()
	s.Calls["Shutdown"]++
	if ret, ok := s.Fail["Shutdown"]; ok {
		return ret
	}
	if s.refcount == 0 {
		return nvapi.API_NOT_INITIALIZED
	}
	s.refcount--
	return nvapi.OK
}

// Initialized reports whether Init has been called more often than
// Shutdown.
func (s *Server) Initialized() bool {
	s.Lock()
	defer s.Unlock()
	return s.refcount > 0
}

// GetErrorMessage implements nvapi.Interface.
func (s *Server) GetErrorMessage(ret nvapi.Status) (string, nvapi.Status) {
	s.Lock()
	defer s.Unlock()
	if r := s.begin("GetErrorMessage"); r != nvapi.OK {
		return "", r
	}
	return fmt.Sprintf("NVAPI_%s", ret.Name()), nvapi.OK
}

// GetInterfaceVersionString implements nvapi.Interface.
func (s *Server) GetInterfaceVersionString() (string, nvapi.Status) {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GetInterfaceVersionString"); ret != nvapi.OK {
		return "", ret
	}
	return s.InterfaceVersion, nvapi.OK
}

// SysGetDriverAndBranchVersion implements nvapi.Interface.
func (s *Server) SysGetDriverAndBranchVersion() (uint32, string, nvapi.Status) {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("SysGetDriverAndBranchVersion"); ret != nvapi.OK {
		return 0, "", ret
	}
	return s.DriverVersion, s.BranchString, nvapi.OK
}
