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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi/mock"
)

func TestSaveThenApply(t *testing.T) {
	server := newServer(t, mock.New())
	session := newSession(server)

	dir := t.TempDir()
	file := filepath.Join(dir, "current.yaml")
	require.NoError(t, os.WriteFile(file, []byte("stale"), 0600))

	var out bytes.Buffer
	require.NoError(t, save(session, file, &out))
	require.Contains(t, out.String(), "Saved current display grids to "+file)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	layout, err := loadLayout(file)
	require.NoError(t, err)
	require.Len(t, layout.Grids, len(mock.DisplayIDs))

	require.NoError(t, applyFile(session, file, &bytes.Buffer{}))
	require.Equal(t, 1, server.Calls["MosaicSetDisplayGrids"])
}

func TestWriteFileAtomicallyMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "layout.yaml")
	err := writeFileAtomically(path, []byte("version: v1\n"), 0644)
	require.ErrorContains(t, err, "fail to create temporary output file")
	require.NoFileExists(t, path)
}
