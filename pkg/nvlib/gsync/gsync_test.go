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

package gsync

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi/mock"
)

func newDevice(t *testing.T, s *mock.Server) Device {
	require.Equal(t, nvapi.OK, s.Init())
	t.Cleanup(func() { s.Shutdown() })

	devices, err := New(WithNvapi(s)).Devices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	return devices[0]
}

func syncStates(s *mock.Server) []nvapi.DisplaySyncState {
	var states []nvapi.DisplaySyncState
	for _, d := range s.GSyncDevices[0].Displays {
		states = append(states, d.SyncState)
	}
	return states
}

func state(s nvapi.DisplaySyncState) *nvapi.DisplaySyncState {
	return &s
}

func TestDevices(t *testing.T) {
	testCases := []struct {
		description   string
		server        func() *mock.Server
		expectedCount int
		expectedError error
	}{
		{
			description:   "workstation with one board",
			server:        mock.New,
			expectedCount: 1,
		},
		{
			description:   "no boards is not an error",
			server:        mock.NewServer,
			expectedCount: 0,
		},
		{
			description: "driver failure is returned",
			server: func() *mock.Server {
				s := mock.New()
				s.Fail["GSyncEnumSyncDevices"] = nvapi.NO_IMPLEMENTATION
				return s
			},
			expectedError: nvapi.NO_IMPLEMENTATION,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := tc.server()
			require.Equal(t, nvapi.OK, s.Init())
			defer s.Shutdown()

			devices, err := New(WithNvapi(s)).Devices()
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, devices)
			require.Len(t, devices, tc.expectedCount)
		})
	}
}

func TestCapabilities(t *testing.T) {
	testCases := []struct {
		description              string
		rejectV2                 bool
		expectedExtendedRevision uint32
	}{
		{
			description:              "V2 driver",
			expectedExtendedRevision: 1,
		},
		{
			description:              "V1 driver",
			rejectV2:                 true,
			expectedExtendedRevision: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := mock.New()
			s.RejectVersions[nvapi.GSyncCapabilitiesVer2] = tc.rejectV2
			d := newDevice(t, s)

			caps, err := d.Capabilities()
			require.NoError(t, err)
			require.Equal(t, nvapi.GSyncCapabilitiesVer2, caps.Version)
			require.Equal(t, uint32(0x358), caps.BoardID)
			require.Equal(t, uint32(2), caps.Revision)
			require.Equal(t, tc.expectedExtendedRevision, caps.ExtendedRevision)
		})
	}
}

func TestPhysicalGPUs(t *testing.T) {
	s := mock.New()
	board := s.GSyncDevices[0]
	board.GPUs = []mock.GSyncGpu{
		{GPU: s.GPUs[0], Connector: nvapi.GSyncConnectorPrimary},
		{Proxy: s.GPUs[1], Connector: nvapi.GSyncConnectorSecondary},
		{Connector: nvapi.GSyncConnectorTertiary},
	}
	d := newDevice(t, s)

	topo, err := d.Topology()
	require.NoError(t, err)
	require.Len(t, topo.GPUs, 3)
	require.Len(t, topo.Displays, 4)

	gpus, err := d.PhysicalGPUs()
	require.NoError(t, err)
	require.Equal(t, []nvapi.PhysicalGpuHandle{s.GPUs[0].Handle, s.GPUs[1].Handle}, gpus)
}

func TestTopologyGrowth(t *testing.T) {
	s := mock.New()
	d := newDevice(t, s)
	s.AfterCount = func(string) {
		board := s.GSyncDevices[0]
		board.Displays = append(board.Displays, nvapi.GSyncDisplay{
			Version:   nvapi.GSyncDisplayVer,
			DisplayID: 0x80070000 + uint32(len(board.Displays)),
		})
	}

	_, err := d.Topology()
	require.ErrorIs(t, err, nvapi.ErrTopologyChanged)
	require.Equal(t, 2*nvapi.MaxEnumerateAttempts, s.Calls["GSyncGetTopology"])
}

func TestSetSyncState(t *testing.T) {
	ids := mock.DisplayIDs

	testCases := []struct {
		description    string
		requests       []SyncStateRequest
		expectedStates []nvapi.DisplaySyncState
		expectedError  error
	}{
		{
			description: "master and slaves",
			requests: []SyncStateRequest{
				{DisplayID: ids[0], State: state(nvapi.DisplaySyncStateMaster)},
				{DisplayID: ids[1], State: state(nvapi.DisplaySyncStateSlave)},
				{DisplayID: ids[2], State: state(nvapi.DisplaySyncStateSlave)},
			},
			expectedStates: []nvapi.DisplaySyncState{
				nvapi.DisplaySyncStateMaster,
				nvapi.DisplaySyncStateSlave,
				nvapi.DisplaySyncStateSlave,
				nvapi.DisplaySyncStateUnsynced,
			},
		},
		{
			description: "display without state keeps its state",
			requests: []SyncStateRequest{
				{DisplayID: ids[0]},
			},
			expectedStates: []nvapi.DisplaySyncState{
				nvapi.DisplaySyncStateUnsynced,
				nvapi.DisplaySyncStateUnsynced,
				nvapi.DisplaySyncStateUnsynced,
				nvapi.DisplaySyncStateUnsynced,
			},
		},
		{
			description: "unknown display without state",
			requests: []SyncStateRequest{
				{DisplayID: 0x1234},
			},
			expectedError: nvapi.ErrInvalidArgument,
		},
		{
			description: "unknown display with state is rejected by the driver",
			requests: []SyncStateRequest{
				{DisplayID: 0x1234, State: state(nvapi.DisplaySyncStateSlave)},
			},
			expectedError: nvapi.INVALID_ARGUMENT,
		},
		{
			description: "two masters",
			requests: []SyncStateRequest{
				{DisplayID: ids[0], State: state(nvapi.DisplaySyncStateMaster)},
				{DisplayID: ids[3], State: state(nvapi.DisplaySyncStateMaster)},
			},
			expectedError: nvapi.INVALID_SYNC_TOPOLOGY,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := mock.New()
			d := newDevice(t, s)

			err := d.SetSyncState(tc.requests, 0)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedStates, syncStates(s))
		})
	}
}

func TestSetSyncStateKeepsUnnamedDisplays(t *testing.T) {
	s := mock.New()
	d := newDevice(t, s)
	ids := mock.DisplayIDs

	err := d.SetSyncState([]SyncStateRequest{
		{DisplayID: ids[0], State: state(nvapi.DisplaySyncStateMaster)},
		{DisplayID: ids[1], State: state(nvapi.DisplaySyncStateSlave)},
	}, 0)
	require.NoError(t, err)

	err = d.SetSyncState([]SyncStateRequest{
		{DisplayID: ids[3], State: state(nvapi.DisplaySyncStateSlave)},
	}, 0)
	require.NoError(t, err)
	require.Equal(t, []nvapi.DisplaySyncState{
		nvapi.DisplaySyncStateMaster,
		nvapi.DisplaySyncStateSlave,
		nvapi.DisplaySyncStateUnsynced,
		nvapi.DisplaySyncStateSlave,
	}, syncStates(s))

	status, err := d.SyncStatus(s.GPUs[1].Handle)
	require.NoError(t, err)
	require.True(t, status.IsSynced.Bool())

	require.NoError(t, d.Resync(0x1))
	require.Equal(t, uint32(0x1), s.GSyncDevices[0].LastSyncStateFlags)
	require.Equal(t, nvapi.DisplaySyncStateMaster, syncStates(s)[0])
}

func TestSetSyncStateRawTagsDisplays(t *testing.T) {
	s := mock.New()
	d := newDevice(t, s)

	err := d.SetSyncStateRaw([]nvapi.GSyncDisplay{
		{DisplayID: mock.DisplayIDs[2], SyncState: nvapi.DisplaySyncStateMaster},
	}, 0)
	require.NoError(t, err)
	require.Equal(t, nvapi.DisplaySyncStateMaster, syncStates(s)[2])
	require.Equal(t, nvapi.DisplaySyncStateUnsynced, syncStates(s)[0])
}

func TestSyncStatusOfForeignGPU(t *testing.T) {
	s := mock.New()
	s.GSyncDevices[0].GPUs = s.GSyncDevices[0].GPUs[:1]
	d := newDevice(t, s)

	_, err := d.SyncStatus(s.GPUs[1].Handle)
	require.ErrorIs(t, err, nvapi.ErrInvalidArgument)
}

func TestSetControlParameters(t *testing.T) {
	s := mock.New()
	d := newDevice(t, s)

	applied, err := d.SetControlParameters(nvapi.GSyncControlParams{
		Interval: 2,
		Source:   nvapi.GSyncSyncSourceHouseSync,
		SyncSkew: nvapi.GSyncDelay{NumLines: 3, NumPixels: 13},
	})
	require.NoError(t, err)
	require.Equal(t, nvapi.GSyncControlParamsVer, applied.Version)
	require.Equal(t, uint32(8), applied.SyncSkew.NumPixels)
	require.Equal(t, uint32(1124), applied.SyncSkew.MaxLines)

	current, err := d.ControlParameters()
	require.NoError(t, err)
	require.Equal(t, applied, current)

	_, err = d.SetControlParameters(nvapi.GSyncControlParams{VMode: 9})
	require.ErrorIs(t, err, nvapi.ErrInvalidArgument)
}

type driftingServer struct {
	*mock.Server
}

func (s driftingServer) GSyncSetControlParameters(h nvapi.GSyncDeviceHandle, params *nvapi.GSyncControlParams) nvapi.Status {
	ret := s.Server.GSyncSetControlParameters(h, params)
	s.GSyncDevices[0].Control.Interval++
	return ret
}

func TestValidateControlPath(t *testing.T) {
	t.Run("round trip is a no-op", func(t *testing.T) {
		s := mock.New()
		s.GSyncDevices[0].Control.SyncSkew.NumPixels = 24
		d := newDevice(t, s)

		before, err := d.ControlParameters()
		require.NoError(t, err)
		after, err := d.ValidateControlPath()
		require.NoError(t, err)
		require.Equal(t, before, after)
		require.Equal(t, 1, s.Calls["GSyncSetControlParameters"])
	})

	t.Run("changed values are reported", func(t *testing.T) {
		s := mock.New()
		require.Equal(t, nvapi.OK, s.Init())
		defer s.Shutdown()

		devices, err := New(WithNvapi(driftingServer{s})).Devices()
		require.NoError(t, err)

		_, err = devices[0].ValidateControlPath()
		require.ErrorIs(t, err, ErrControlPathMismatch)
	})
}

func TestSameDelay(t *testing.T) {
	testCases := []struct {
		description string
		a, b        nvapi.GSyncDelay
		expected    bool
	}{
		{
			description: "identical",
			a:           nvapi.GSyncDelay{NumLines: 1, NumPixels: 8},
			b:           nvapi.GSyncDelay{NumLines: 1, NumPixels: 8, MinPixels: 8},
			expected:    true,
		},
		{
			description: "rounded within granularity",
			a:           nvapi.GSyncDelay{NumLines: 1, NumPixels: 13},
			b:           nvapi.GSyncDelay{NumLines: 1, NumPixels: 8, MinPixels: 8},
			expected:    true,
		},
		{
			description: "pixels off by a full step",
			a:           nvapi.GSyncDelay{NumLines: 1, NumPixels: 16},
			b:           nvapi.GSyncDelay{NumLines: 1, NumPixels: 8, MinPixels: 8},
			expected:    false,
		},
		{
			description: "lines differ",
			a:           nvapi.GSyncDelay{NumLines: 1},
			b:           nvapi.GSyncDelay{NumLines: 2},
			expected:    false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.Equal(t, tc.expected, sameDelay(tc.a, tc.b))
		})
	}
}

func TestAdjustSyncDelay(t *testing.T) {
	s := mock.New()
	d := newDevice(t, s)

	adj, err := d.AdjustSyncDelay(nvapi.GSyncDelayTypeStartup, nvapi.GSyncDelay{NumLines: 2, NumPixels: 5})
	require.NoError(t, err)
	require.Zero(t, adj.Delay.NumPixels)
	require.Equal(t, uint32(2*2200/8), adj.Steps)
	require.Zero(t, s.GSyncDevices[0].Control.StartupDelay.NumLines)

	_, err = d.AdjustSyncDelay(nvapi.GSyncDelayTypeUnknown, nvapi.GSyncDelay{})
	require.ErrorIs(t, err, nvapi.ErrInvalidArgument)
}

func TestStatusParameters(t *testing.T) {
	testCases := []struct {
		description string
		rejectV2    bool
		expectedV1  bool
	}{
		{description: "V2 driver"},
		{description: "V1 driver", rejectV2: true, expectedV1: true},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := mock.New()
			s.RejectVersions[nvapi.GSyncStatusParamsVer2] = tc.rejectV2
			s.GSyncDevices[0].StatusParams.Flags = 0x1
			d := newDevice(t, s)

			params, err := d.StatusParameters()
			require.NoError(t, err)
			require.Equal(t, nvapi.GSyncStatusParamsVer2, params.Version)
			require.Equal(t, uint32(6000), params.RefreshRate)
			require.Equal(t, !tc.expectedV1, params.InternalSlave())
			require.Equal(t, tc.expectedV1, s.Calls["GSyncGetStatusParametersV1"] == 1)
		})
	}
}

func TestErrorsWrapStatus(t *testing.T) {
	s := mock.New()
	d := newDevice(t, s)
	s.Fail["GSyncGetControlParameters"] = nvapi.NOT_SUPPORTED

	_, err := d.ControlParameters()
	require.True(t, nvapi.IsNotSupported(err))
	ret, ok := nvapi.StatusOf(err)
	require.True(t, ok)
	require.Equal(t, nvapi.NOT_SUPPORTED, ret)
	require.False(t, errors.Is(err, nvapi.ErrDeviceNotFound))
}
