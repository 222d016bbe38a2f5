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

// Package dl opens a driver DLL, resolves its exported symbols and performs
// raw calls through function pointers obtained from it.
package dl

import "errors"

// ErrUnsupportedPlatform is returned by Open on platforms without a loader.
var ErrUnsupportedPlatform = errors.New("dynamic library loading is not supported on this platform")

var errNotOpen = errors.New("library not open")

// DynamicLibrary is a handle to a dynamically loaded library.
type DynamicLibrary struct {
	Name   string
	handle uintptr
}

// New creates a DynamicLibrary for the named library. The library is not
// opened until Open is called.
func New(name string) *DynamicLibrary {
	return &DynamicLibrary{
		Name: name,
	}
}

// IsOpen reports whether the library has been opened.
func (dl *DynamicLibrary) IsOpen() bool {
	return dl != nil && dl.handle != 0
}
