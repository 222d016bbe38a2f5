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
	"strings"
	"unsafe"

	"github.com/NVIDIA/go-nvapi/pkg/dl"
)

// status converts the raw return register of a call.
func status(r uintptr) Status {
	return Status(int32(r))
}

// checkCapacity verifies that an in/out count does not exceed the buffer
// it describes. A nil buffer is a count query and is always accepted.
func checkCapacity(count *uint32, hasBuffer bool, capacity int) Status {
	if count == nil {
		return INVALID_ARGUMENT
	}
	if hasBuffer && int(*count) > capacity {
		return INVALID_ARGUMENT
	}
	return OK
}

// cString returns a NUL-terminated copy of s. Strings with embedded NUL
// bytes are rejected.
func cString(s string) ([]byte, Status) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, INVALID_ARGUMENT
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, OK
}

// nvapi.GetErrorMessage()
func (l *library) GetErrorMessage(s Status) (string, Status) {
	fn, ret := l.proc(idGetErrorMessage)
	if ret != OK {
		return "", ret
	}
	var msg ShortString
	ret = status(dl.Call(fn, uintptr(s), uintptr(unsafe.Pointer(&msg))))
	return msg.String(), ret
}

// nvapi.GetInterfaceVersionString()
func (l *library) GetInterfaceVersionString() (string, Status) {
	fn, ret := l.proc(idGetInterfaceVersionString)
	if ret != OK {
		return "", ret
	}
	var version ShortString
	ret = status(dl.Call(fn, uintptr(unsafe.Pointer(&version))))
	return version.String(), ret
}

// nvapi.SysGetDriverAndBranchVersion()
func (l *library) SysGetDriverAndBranchVersion() (uint32, string, Status) {
	fn, ret := l.proc(idSysGetDriverAndBranch)
	if ret != OK {
		return 0, "", ret
	}
	var version uint32
	var branch ShortString
	ret = status(dl.Call(fn, uintptr(unsafe.Pointer(&version)), uintptr(unsafe.Pointer(&branch))))
	return version, branch.String(), ret
}
