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

package dl

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// Open loads the library from the system directory.
func (dl *DynamicLibrary) Open() error {
	if dl.IsOpen() {
		return nil
	}
	h, err := windows.LoadLibraryEx(dl.Name, 0, windows.LOAD_LIBRARY_SEARCH_SYSTEM32)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", dl.Name, err)
	}
	dl.handle = uintptr(h)
	return nil
}

// Close releases the library.
func (dl *DynamicLibrary) Close() error {
	if !dl.IsOpen() {
		return nil
	}
	if err := windows.FreeLibrary(windows.Handle(dl.handle)); err != nil {
		return fmt.Errorf("failed to free %s: %w", dl.Name, err)
	}
	dl.handle = 0
	return nil
}

// Lookup returns the address of an exported symbol.
func (dl *DynamicLibrary) Lookup(symbol string) (uintptr, error) {
	if !dl.IsOpen() {
		return 0, fmt.Errorf("error looking up %s: %w", symbol, errNotOpen)
	}
	addr, err := windows.GetProcAddress(windows.Handle(dl.handle), symbol)
	if err != nil {
		return 0, fmt.Errorf("error looking up %s in %s: %w", symbol, dl.Name, err)
	}
	return addr, nil
}

// Call invokes the C function at fn with the supplied arguments and returns
// its raw result. Pointer arguments must be converted to uintptr in the
// argument list of the call to Call itself.
//
//go:uintptrescapes
func Call(fn uintptr, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(fn, args...)
	return r
}
