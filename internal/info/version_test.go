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

package info

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi/mock"
)

func TestGetVersionString(t *testing.T) {
	defer func(v, c string) { version, gitCommit = v, c }(version, gitCommit)

	version, gitCommit = "v0.1.0", ""
	require.Equal(t, "v0.1.0", GetVersionString())

	gitCommit = "abc123"
	require.Equal(t, "v0.1.0\ncommit: abc123\ndriver: 536.98", GetVersionString("driver: 536.98"))
}

func TestDriverVersionString(t *testing.T) {
	server := mock.New()
	require.Equal(t, nvapi.OK, server.Init())
	defer server.Shutdown()

	v, err := DriverVersionString(server)
	require.NoError(t, err)
	require.Equal(t, "536.98 (r535_00)", v)

	server.DriverVersion = 55102
	v, err = DriverVersionString(server)
	require.NoError(t, err)
	require.Equal(t, "551.02 (r535_00)", v)
}

func TestDriverVersionStringNotInitialized(t *testing.T) {
	_, err := DriverVersionString(mock.New())
	require.ErrorIs(t, err, nvapi.API_NOT_INITIALIZED)
}
