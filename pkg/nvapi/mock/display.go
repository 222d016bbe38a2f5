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

package mock

import (
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

// EnumNvidiaDisplayHandle implements nvapi.Interface.
func (s *Server) EnumNvidiaDisplayHandle(index uint32, handle *nvapi.DisplayHandle) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("EnumNvidiaDisplayHandle"); ret != nvapi.OK {
		return ret
	}
	if handle == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if int(index) >= len(s.Displays) {
		return nvapi.END_ENUMERATION
	}
	*handle = s.Displays[index].Handle
	return nvapi.OK
}

// EnumNvidiaUnAttachedDisplayHandle implements nvapi.Interface.
func (s *Server) EnumNvidiaUnAttachedDisplayHandle(index uint32, handle *nvapi.UnAttachedDisplayHandle) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("EnumNvidiaUnAttachedDisplayHandle"); ret != nvapi.OK {
		return ret
	}
	if handle == nil {
		return nvapi.INVALID_ARGUMENT
	}
	if int(index) >= len(s.UnAttachedDisplays) {
		return nvapi.END_ENUMERATION
	}
	*handle = s.UnAttachedDisplays[index].Handle
	return nvapi.OK
}

// GetAssociatedNvidiaDisplayHandle implements nvapi.Interface.
func (s *Server) GetAssociatedNvidiaDisplayHandle(name string, handle *nvapi.DisplayHandle) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GetAssociatedNvidiaDisplayHandle"); ret != nvapi.OK {
		return ret
	}
	if handle == nil || name == "" {
		return nvapi.INVALID_ARGUMENT
	}
	for _, d := range s.Displays {
		if d.Name == name {
			*handle = d.Handle
			return nvapi.OK
		}
	}
	return nvapi.NVIDIA_DEVICE_NOT_FOUND
}

// GetAssociatedUnAttachedNvidiaDisplayHandle implements nvapi.Interface.
func (s *Server) GetAssociatedUnAttachedNvidiaDisplayHandle(name string, handle *nvapi.UnAttachedDisplayHandle) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GetAssociatedUnAttachedNvidiaDisplayHandle"); ret != nvapi.OK {
		return ret
	}
	if handle == nil || name == "" {
		return nvapi.INVALID_ARGUMENT
	}
	for _, d := range s.UnAttachedDisplays {
		if d.Name == name {
			*handle = d.Handle
			return nvapi.OK
		}
	}
	return nvapi.NVIDIA_DEVICE_NOT_FOUND
}

// GetAssociatedNvidiaDisplayName implements nvapi.Interface.
func (s *Server) GetAssociatedNvidiaDisplayName(handle nvapi.DisplayHandle, name *nvapi.ShortString) nvapi.Status {
	s.Lock()
	defer s.Unlock()
	if ret := s.begin("GetAssociatedNvidiaDisplayName"); ret != nvapi.OK {
		return ret
	}
	if name == nil {
		return nvapi.INVALID_ARGUMENT
	}
	d, ret := s.lookupDisplay(handle)
	if ret != nvapi.OK {
		return ret
	}
	*name = nvapi.NewShortString(d.Name)
	return nvapi.OK
}
