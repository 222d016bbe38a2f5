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
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/gsync"
)

func newGSync(lib nvapi.Interface) gsync.Interface {
	return gsync.New(gsync.WithNvapi(lib))
}

// resync checks that the control parameters of every board survive a
// write-back and then writes the current sync state back. A failing board
// does not stop the others.
func resync(lib gsync.Interface, out io.Writer) error {
	devices, err := lib.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		fmt.Fprintln(out, "No G-SYNC devices found.")
		return nil
	}

	var errs error
	for i, d := range devices {
		if _, err := d.ValidateControlPath(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("G-SYNC device %d: %w", i, err))
			continue
		}
		if err := d.Resync(0); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("G-SYNC device %d: %w", i, err))
			continue
		}
		fmt.Fprintf(out, "G-SYNC device %d: control path valid, sync state re-applied\n", i)
	}
	return errs
}
