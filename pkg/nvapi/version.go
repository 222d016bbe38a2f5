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

import (
	"fmt"

	"k8s.io/klog/v2"
)

// StructVersion is the tag stored in the first field of every struct that
// crosses the driver boundary: the struct size in the low 16 bits and the
// version number in the high 16 bits.
type StructVersion uint32

// MakeVersion packs a struct size and version number into a tag.
func MakeVersion(size uintptr, version uint16) StructVersion {
	return StructVersion(uint32(size) | uint32(version)<<16)
}

// Size returns the struct size encoded in the tag.
func (v StructVersion) Size() uint32 {
	return uint32(v) & 0xffff
}

// Number returns the version number encoded in the tag.
func (v StructVersion) Number() uint16 {
	return uint16(uint32(v) >> 16)
}

// IsSet reports whether the tag has been populated.
func (v StructVersion) IsSet() bool {
	return v != 0
}

func (v StructVersion) String() string {
	return fmt.Sprintf("v%d(%d bytes)", v.Number(), v.Size())
}

// checkVersion verifies that a tag matches one of the versions an entry
// point accepts. An unset or unknown tag never reaches the driver.
func checkVersion(fn string, got StructVersion, accepted ...StructVersion) Status {
	for _, v := range accepted {
		if got == v {
			return OK
		}
	}
	if !got.IsSet() {
		klog.Errorf("%s: struct version tag not set", fn)
	} else {
		klog.Errorf("%s: unexpected struct version %v", fn, got)
	}
	return INCOMPATIBLE_STRUCT_VERSION
}

// WithVersionFallback runs each attempt in order, moving to the next one
// only when the driver rejects the struct version. The error of the last
// attempt is returned if every version is rejected.
func WithVersionFallback(attempts ...func() error) error {
	var err error
	for i, attempt := range attempts {
		err = attempt()
		if err == nil || !IsVersionMismatch(err) {
			return err
		}
		if i < len(attempts)-1 {
			klog.V(4).Infof("struct version rejected (%v), retrying with older version", err)
		}
	}
	return err
}
