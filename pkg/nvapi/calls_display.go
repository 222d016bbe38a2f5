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
	"unsafe"

	"github.com/NVIDIA/go-nvapi/pkg/dl"
)

// nvapi.EnumNvidiaDisplayHandle()
func (l *library) EnumNvidiaDisplayHandle(index uint32, handle *DisplayHandle) Status {
	if handle == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idEnumNvidiaDisplayHandle)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(index), uintptr(unsafe.Pointer(handle))))
}

// nvapi.EnumNvidiaUnAttachedDisplayHandle()
func (l *library) EnumNvidiaUnAttachedDisplayHandle(index uint32, handle *UnAttachedDisplayHandle) Status {
	if handle == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idEnumNvidiaUnAttachedDisplayHandle)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(index), uintptr(unsafe.Pointer(handle))))
}

// nvapi.GetAssociatedNvidiaDisplayHandle()
func (l *library) GetAssociatedNvidiaDisplayHandle(name string, handle *DisplayHandle) Status {
	if handle == nil {
		return INVALID_ARGUMENT
	}
	cname, ret := cString(name)
	if ret != OK {
		return ret
	}
	fn, ret := l.proc(idGetAssociatedNvidiaDisplayHandle)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(&cname[0])), uintptr(unsafe.Pointer(handle))))
}

// nvapi.GetAssociatedUnAttachedNvidiaDisplayHandle()
func (l *library) GetAssociatedUnAttachedNvidiaDisplayHandle(name string, handle *UnAttachedDisplayHandle) Status {
	if handle == nil {
		return INVALID_ARGUMENT
	}
	cname, ret := cString(name)
	if ret != OK {
		return ret
	}
	fn, ret := l.proc(idGetAssociatedUnAttachedDisplayHandle)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(unsafe.Pointer(&cname[0])), uintptr(unsafe.Pointer(handle))))
}

// nvapi.GetAssociatedNvidiaDisplayName()
func (l *library) GetAssociatedNvidiaDisplayName(handle DisplayHandle, name *ShortString) Status {
	if name == nil {
		return INVALID_ARGUMENT
	}
	fn, ret := l.proc(idGetAssociatedNvidiaDisplayName)
	if ret != OK {
		return ret
	}
	return status(dl.Call(fn, uintptr(handle), uintptr(unsafe.Pointer(name))))
}
