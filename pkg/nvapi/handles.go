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

package nvapi

// Driver-owned opaque handles. The zero value is the absent handle. Handles
// are invalidated by display mode-sets and must then be enumerated again.
type (
	PhysicalGpuHandle       uintptr
	LogicalGpuHandle        uintptr
	GSyncDeviceHandle       uintptr
	DisplayHandle           uintptr
	UnAttachedDisplayHandle uintptr
)

// IsNil reports whether the handle is absent.
func (h PhysicalGpuHandle) IsNil() bool { return h == 0 }

// IsNil reports whether the handle is absent.
func (h LogicalGpuHandle) IsNil() bool { return h == 0 }

// IsNil reports whether the handle is absent.
func (h GSyncDeviceHandle) IsNil() bool { return h == 0 }

// IsNil reports whether the handle is absent.
func (h DisplayHandle) IsNil() bool { return h == 0 }

// IsNil reports whether the handle is absent.
func (h UnAttachedDisplayHandle) IsNil() bool { return h == 0 }

// Fixed capacities of caller-allocated arrays.
const (
	MaxPhysicalGpus = 64
	MaxLogicalGpus  = 64
	MaxGSyncDevices = 4
	MaxDisplays     = MaxPhysicalGpus * 4
)

// ShortString is the fixed NvAPI_ShortString buffer.
type ShortString [64]byte

// String returns the NUL-terminated contents of s.
func (s *ShortString) String() string {
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s[:])
}

// NewShortString copies str into a NUL-terminated ShortString, truncating
// it if needed.
func NewShortString(str string) ShortString {
	var s ShortString
	n := copy(s[:len(s)-1], str)
	s[n] = 0
	return s
}

// Bool is the driver's 32-bit boolean.
type Bool uint32

// NewBool converts a Go bool.
func NewBool(b bool) Bool {
	if b {
		return 1
	}
	return 0
}

// Bool converts to a Go bool.
func (b Bool) Bool() bool {
	return b != 0
}
