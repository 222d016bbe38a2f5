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

package gpu

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// Interface provides the API to the GPUs of a system.
type Interface interface {
	Devices() ([]Device, error)
	LogicalDevices() ([]nvapi.LogicalGpuHandle, error)
}

type gpulib struct {
	nvapi nvapi.Interface
}

var _ Interface = &gpulib{}

// Option defines a function for passing options to the New() call.
type Option func(*gpulib)

// New creates a new instance of the GPU interface.
func New(opts ...Option) Interface {
	g := &gpulib{}
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
	return func(g *gpulib) {
		g.nvapi = lib
	}
}

// Devices returns the physical GPUs. A system without NVIDIA GPUs yields an
// empty slice.
func (g *gpulib) Devices() ([]Device, error) {
	var handles [nvapi.MaxPhysicalGpus]nvapi.PhysicalGpuHandle
	var count uint32
	ret := g.nvapi.EnumPhysicalGPUs(&handles, &count)
	klog.V(4).Infof("gpu.Devices() [%d]: %v", count, ret)
	if ret == nvapi.NVIDIA_DEVICE_NOT_FOUND {
		return []Device{}, nil
	}
	if ret != nvapi.OK {
		return nil, fmt.Errorf("error enumerating physical GPUs: %w", ret)
	}

	devices := make([]Device, 0, count)
	for _, h := range handles[:min(int(count), len(handles))] {
		devices = append(devices, &device{lib: g, handle: h})
	}
	return devices, nil
}

// LogicalDevices returns the logical GPU handles.
func (g *gpulib) LogicalDevices() ([]nvapi.LogicalGpuHandle, error) {
	var handles [nvapi.MaxLogicalGpus]nvapi.LogicalGpuHandle
	var count uint32
	ret := g.nvapi.EnumLogicalGPUs(&handles, &count)
	klog.V(4).Infof("gpu.LogicalDevices() [%d]: %v", count, ret)
	if ret == nvapi.NVIDIA_DEVICE_NOT_FOUND {
		return []nvapi.LogicalGpuHandle{}, nil
	}
	if ret != nvapi.OK {
		return nil, fmt.Errorf("error enumerating logical GPUs: %w", ret)
	}
	return append([]nvapi.LogicalGpuHandle{}, handles[:min(int(count), len(handles))]...), nil
}
