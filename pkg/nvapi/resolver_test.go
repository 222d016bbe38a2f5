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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCachesPointer(t *testing.T) {
	var queries atomic.Int32
	r := newResolver(func(id InterfaceID) uintptr {
		queries.Add(1)
		if id == idGSyncEnumSyncDevices {
			return 0xdead0
		}
		return 0
	})

	p, ret := r.resolve(idGSyncEnumSyncDevices)
	require.Equal(t, OK, ret)
	require.Equal(t, uintptr(0xdead0), p)

	p, ret = r.resolve(idGSyncEnumSyncDevices)
	require.Equal(t, OK, ret)
	require.Equal(t, uintptr(0xdead0), p)
	require.Equal(t, int32(1), queries.Load())
}

func TestResolveUnknownIDFailsClosed(t *testing.T) {
	var queries atomic.Int32
	r := newResolver(func(id InterfaceID) uintptr {
		queries.Add(1)
		return 0
	})

	for i := 0; i < 2; i++ {
		p, ret := r.resolve(idMosaicEnumDisplayGrids)
		require.Equal(t, NO_IMPLEMENTATION, ret)
		require.Zero(t, p)
	}
	// Unknown IDs are asked again rather than cached as null.
	require.Equal(t, int32(2), queries.Load())
}

func TestResolveWithoutDriver(t *testing.T) {
	var r *resolver
	_, ret := r.resolve(idInitialize)
	require.Equal(t, API_NOT_INITIALIZED, ret)

	_, ret = newResolver(nil).resolve(idInitialize)
	require.Equal(t, API_NOT_INITIALIZED, ret)
}

func TestResolveConcurrent(t *testing.T) {
	var next atomic.Uintptr
	next.Store(0x1000)
	r := newResolver(func(id InterfaceID) uintptr {
		// Every query hands out a different address so that racing
		// resolutions are observable.
		return next.Add(8)
	})

	const workers = 32
	results := make([]uintptr, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			p, ret := r.resolve(idGSyncGetTopology)
			if ret == OK {
				results[i] = p
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for _, p := range results {
		require.NotZero(t, p)
		require.Equal(t, results[0], p)
	}

	p, ret := r.resolve(idGSyncGetTopology)
	require.Equal(t, OK, ret)
	require.Equal(t, results[0], p)
}

func TestInterfaceIDString(t *testing.T) {
	require.Equal(t, "NvAPI_Mosaic_EnumDisplayGrids", idMosaicEnumDisplayGrids.String())
	require.Equal(t, "0x12345678", InterfaceID(0x12345678).String())
}
