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

//go:build !windows

package dl

import "fmt"

// Open always fails: the driver interface only ships with the Windows driver.
func (dl *DynamicLibrary) Open() error {
	return fmt.Errorf("failed to load %s: %w", dl.Name, ErrUnsupportedPlatform)
}

// Close is a no-op.
func (dl *DynamicLibrary) Close() error {
	return nil
}

// Lookup always fails.
func (dl *DynamicLibrary) Lookup(symbol string) (uintptr, error) {
	return 0, fmt.Errorf("error looking up %s: %w", symbol, errNotOpen)
}

// Call is never reached on this platform since no function pointer can be
// resolved. It returns the NVAPI_LIBRARY_NOT_FOUND status for safety.
//
//go:uintptrescapes
func Call(fn uintptr, args ...uintptr) uintptr {
	return uintptr(0xFFFFFFFE)
}
