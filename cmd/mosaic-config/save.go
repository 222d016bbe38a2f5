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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/NVIDIA/go-nvapi/pkg/nvlib/mosaic"
)

// save writes the current display grids to file as a layout that apply
// accepts.
func save(session mosaic.Interface, file string, out io.Writer) error {
	buffer := new(bytes.Buffer)
	if err := show(session, buffer, outputYAML); err != nil {
		return err
	}
	if err := writeFileAtomically(file, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("error atomically writing file '%s': %w", file, err)
	}
	fmt.Fprintf(out, "Saved current display grids to %s\n", file)
	return nil
}

// writeFileAtomically replaces path with contents. A watcher on path never
// observes a partially written layout.
func writeFileAtomically(path string, contents []byte, perm os.FileMode) (err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to retrieve absolute path of output file: %v", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(absPath), ".mosaic-config-")
	if err != nil {
		return fmt.Errorf("fail to create temporary output file: %v", err)
	}
	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpFile.Name())
		}
	}()

	if _, err = tmpFile.Write(contents); err != nil {
		return fmt.Errorf("error writing temporary file '%v': %v", tmpFile.Name(), err)
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file '%v': %v", tmpFile.Name(), err)
	}
	if err = os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("error setting permissions on '%v': %v", tmpFile.Name(), err)
	}
	if err = os.Rename(tmpFile.Name(), absPath); err != nil {
		return fmt.Errorf("error moving temporary file to '%v': %v", absPath, err)
	}
	return nil
}
