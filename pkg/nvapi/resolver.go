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
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// queryInterfaceFunc asks the driver for the address of an entry point.
// It returns 0 if the driver does not know the ID.
type queryInterfaceFunc func(id InterfaceID) uintptr

// resolver caches entry point addresses by interface ID. Each ID owns a
// slot that is written at most once; readers never take a lock.
type resolver struct {
	query queryInterfaceFunc
	slots sync.Map // InterfaceID -> *atomic.Uintptr
}

func newResolver(query queryInterfaceFunc) *resolver {
	return &resolver{query: query}
}

func (r *resolver) slot(id InterfaceID) *atomic.Uintptr {
	if s, ok := r.slots.Load(id); ok {
		return s.(*atomic.Uintptr)
	}
	s, _ := r.slots.LoadOrStore(id, new(atomic.Uintptr))
	return s.(*atomic.Uintptr)
}

// resolve returns the address of the entry point with the given ID.
// Unknown IDs fail with NO_IMPLEMENTATION and are not cached, so a null
// pointer is never handed to a caller.
func (r *resolver) resolve(id InterfaceID) (uintptr, Status) {
	if r == nil || r.query == nil {
		return 0, API_NOT_INITIALIZED
	}

	s := r.slot(id)
	if p := s.Load(); p != 0 {
		return p, OK
	}

	p := r.query(id)
	if p == 0 {
		klog.V(4).Infof("nvapi_QueryInterface(%v): not available", id)
		return 0, NO_IMPLEMENTATION
	}
	if !s.CompareAndSwap(0, p) {
		p = s.Load()
	}
	klog.V(4).Infof("nvapi_QueryInterface(%v) = %#x", id, p)
	return p, OK
}
