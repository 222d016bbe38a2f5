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

package display

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// Interface provides the API to NVIDIA display handles.
type Interface interface {
	Handles() ([]nvapi.DisplayHandle, error)
	UnAttachedHandles() ([]nvapi.UnAttachedDisplayHandle, error)
	HandleByName(name string) (nvapi.DisplayHandle, error)
	UnAttachedHandleByName(name string) (nvapi.UnAttachedDisplayHandle, error)
	Name(handle nvapi.DisplayHandle) (string, error)
}

type displaylib struct {
	nvapi nvapi.Interface
}

var _ Interface = &displaylib{}

// Option defines a function for passing options to the New() call.
type Option func(*displaylib)

// New creates a new instance of the display interface.
func New(opts ...Option) Interface {
	d := &displaylib{}
	for _, opt := range opts {
		opt(d)
	}
	if d.nvapi == nil {
		d.nvapi = nvapi.New()
	}
	return d
}

// WithNvapi sets the nvapi library used by the interface.
func WithNvapi(lib nvapi.Interface) Option {
	return func(d *displaylib) {
		d.nvapi = lib
	}
}

// Handles returns the handles of the displays that are part of the
// desktop.
func (d *displaylib) Handles() ([]nvapi.DisplayHandle, error) {
	handles, err := nvapi.EnumerateIndexed(nvapi.MaxDisplays, d.nvapi.EnumNvidiaDisplayHandle)
	klog.V(4).Infof("display.Handles() [%d]: %v", len(handles), err)
	if err != nil {
		return nil, fmt.Errorf("error enumerating displays: %w", err)
	}
	return handles, nil
}

// UnAttachedHandles returns the handles of the displays that are not part
// of the desktop.
func (d *displaylib) UnAttachedHandles() ([]nvapi.UnAttachedDisplayHandle, error) {
	handles, err := nvapi.EnumerateIndexed(nvapi.MaxDisplays, d.nvapi.EnumNvidiaUnAttachedDisplayHandle)
	klog.V(4).Infof("display.UnAttachedHandles() [%d]: %v", len(handles), err)
	if err != nil {
		return nil, fmt.Errorf("error enumerating unattached displays: %w", err)
	}
	return handles, nil
}

// HandleByName returns the handle of a display by its OS name, e.g.
// `\\.\DISPLAY1`.
func (d *displaylib) HandleByName(name string) (nvapi.DisplayHandle, error) {
	var handle nvapi.DisplayHandle
	ret := d.nvapi.GetAssociatedNvidiaDisplayHandle(name, &handle)
	klog.V(4).Infof("display.HandleByName(%q): %v", name, ret)
	if ret != nvapi.OK {
		return 0, fmt.Errorf("error getting handle of display %q: %w", name, ret)
	}
	return handle, nil
}

// UnAttachedHandleByName is HandleByName for unattached displays.
func (d *displaylib) UnAttachedHandleByName(name string) (nvapi.UnAttachedDisplayHandle, error) {
	var handle nvapi.UnAttachedDisplayHandle
	ret := d.nvapi.GetAssociatedUnAttachedNvidiaDisplayHandle(name, &handle)
	klog.V(4).Infof("display.UnAttachedHandleByName(%q): %v", name, ret)
	if ret != nvapi.OK {
		return 0, fmt.Errorf("error getting handle of unattached display %q: %w", name, ret)
	}
	return handle, nil
}

// Name returns the OS name of a display.
func (d *displaylib) Name(handle nvapi.DisplayHandle) (string, error) {
	var name nvapi.ShortString
	ret := d.nvapi.GetAssociatedNvidiaDisplayName(handle, &name)
	klog.V(4).Infof("display.Name(%v): %v", handle, ret)
	if ret != nvapi.OK {
		return "", fmt.Errorf("error getting name of display %v: %w", handle, ret)
	}
	return name.String(), nil
}
