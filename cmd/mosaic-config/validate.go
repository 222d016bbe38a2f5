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
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"

	spec "github.com/NVIDIA/go-nvapi/api/config/v1"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/mosaic"
)

var problemNames = []struct {
	bit  uint32
	name string
}{
	{nvapi.DisplayCapsProblemDisplayOnInvalidGpu, "display-on-invalid-gpu"},
	{nvapi.DisplayCapsProblemDisplayOnWrongConnector, "display-on-wrong-connector"},
	{nvapi.DisplayCapsProblemNoCommonTimings, "no-common-timings"},
	{nvapi.DisplayCapsProblemNoEDIDAvailable, "no-edid-available"},
	{nvapi.DisplayCapsProblemMismatchedOutputType, "mismatched-output-type"},
	{nvapi.DisplayCapsProblemNoDisplayConnected, "no-display-connected"},
	{nvapi.DisplayCapsProblemNoGpuTopology, "no-gpu-topology"},
	{nvapi.DisplayCapsProblemNotSupported, "not-supported"},
	{nvapi.DisplayCapsProblemNoSLIBridge, "no-sli-bridge"},
	{nvapi.DisplayCapsProblemECCEnabled, "ecc-enabled"},
	{nvapi.DisplayCapsProblemGpuTopologyNotSupported, "gpu-topology-not-supported"},
}

var warningNames = []struct {
	bit  uint32
	name string
}{
	{nvapi.DisplayTopoWarningDisplayPosition, "display-position"},
	{nvapi.DisplayTopoWarningDriverReloadRequired, "driver-reload-required"},
}

func describeProblems(mask uint32) string {
	var names []string
	for _, p := range problemNames {
		if mask&p.bit != 0 {
			names = append(names, p.name)
			mask &^= p.bit
		}
	}
	if mask != 0 {
		names = append(names, fmt.Sprintf("0x%x", mask))
	}
	return strings.Join(names, ",")
}

func describeWarnings(mask uint32) string {
	var names []string
	for _, w := range warningNames {
		if mask&w.bit != 0 {
			names = append(names, w.name)
			mask &^= w.bit
		}
	}
	if mask != 0 {
		names = append(names, fmt.Sprintf("0x%x", mask))
	}
	return strings.Join(names, ",")
}

// validate converts layout and asks the driver to validate it. The
// per-display results are printed; any error flag fails the validation.
func validate(session mosaic.Interface, layout *spec.MosaicLayout, out io.Writer) ([]nvapi.GridTopoV2, uint32, error) {
	grids, flags, err := layout.ToGridTopos()
	if err != nil {
		return nil, 0, fmt.Errorf("invalid layout: %w", err)
	}

	statuses, err := session.ValidateDisplayGrids(grids, flags)
	if err != nil {
		return nil, 0, err
	}

	var errs error
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Grid", "Display", "Problems", "Warnings"})
	table.SetAutoWrapText(false)
	for i := range statuses {
		st := &statuses[i]
		gridProblems := st.ErrorFlags
		for _, d := range st.ActiveDisplays() {
			gridProblems &^= d.ErrorFlags
			table.Append([]string{
				strconv.Itoa(i),
				fmt.Sprintf("0x%08x", d.DisplayID),
				describeProblems(d.ErrorFlags),
				describeWarnings(d.WarningFlags),
			})
			if d.ErrorFlags != 0 {
				errs = multierror.Append(errs, fmt.Errorf("grid %d: display 0x%08x: %s", i, d.DisplayID, describeProblems(d.ErrorFlags)))
			}
		}
		// Problems of the grid as a whole are not attributed to a display.
		if gridProblems != 0 {
			table.Append([]string{strconv.Itoa(i), "-", describeProblems(gridProblems), ""})
			errs = multierror.Append(errs, fmt.Errorf("grid %d: %s", i, describeProblems(gridProblems)))
		}
	}
	table.Render()

	if errs != nil {
		return nil, 0, fmt.Errorf("layout is not valid: %w", errs)
	}
	return grids, flags, nil
}
