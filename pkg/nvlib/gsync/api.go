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

// Package gsync wraps the G-SYNC entry points of nvapi. It takes care of
// struct version tags, two-phase enumeration and version fallback so that
// callers work with plain Go values.
package gsync

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// ErrControlPathMismatch is returned by ValidateControlPath when the
// parameters read back differ from the ones written.
var ErrControlPathMismatch = errors.New("control parameters changed on write-back")

// Interface provides the G-SYNC API.
type Interface interface {
	Devices() ([]Device, error)
}

type gsynclib struct {
	nvapi nvapi.Interface
}

var _ Interface = &gsynclib{}

// Option defines a function for passing options to the New() call.
type Option func(*gsynclib)

// New creates a new instance of the G-SYNC interface. The nvapi library
// must be initialized by the caller.
func New(opts ...Option) Interface {
	g := &gsynclib{}
	for _, opt := range opts {
		opt(g)
	}
	if g.nvapi == nil {
		g.nvapi = nvapi.New()
	}
	return g
}

// WithNvapi sets the nvapi library used by the interface.
func WithNvapi(lib nvapi.Interface) Option {
	return func(g *gsynclib) {
		g.nvapi = lib
	}
}

// Devices returns every G-SYNC board in the system. A system without
// boards yields an empty slice.
func (g *gsynclib) Devices() ([]Device, error) {
	var handles [nvapi.MaxGSyncDevices]nvapi.GSyncDeviceHandle
	var count uint32
	ret := g.nvapi.GSyncEnumSyncDevices(&handles, &count)
	klog.V(4).Infof("gsync.Devices() [%d]: %v", count, ret)
	if ret == nvapi.NVIDIA_DEVICE_NOT_FOUND {
		return []Device{}, nil
	}
	if ret != nvapi.OK {
		return nil, fmt.Errorf("error enumerating G-SYNC devices: %w", ret)
	}

	devices := make([]Device, 0, count)
	for _, h := range handles[:min(int(count), len(handles))] {
		devices = append(devices, &device{lib: g, handle: h})
	}
	return devices, nil
}
