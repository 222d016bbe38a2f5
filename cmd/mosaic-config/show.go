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

	"github.com/olekukonko/tablewriter"

	spec "github.com/NVIDIA/go-nvapi/api/config/v1"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/mosaic"
)

func newSession(lib nvapi.Interface) mosaic.Interface {
	return mosaic.New(mosaic.WithNvapi(lib))
}

// show prints the current grids in the given format. The YAML output is a
// layout file that apply accepts.
func show(session mosaic.Interface, out io.Writer, format string) error {
	grids, err := session.DisplayGrids()
	if err != nil {
		return err
	}
	layout := spec.LayoutFromGridTopos(grids)

	switch format {
	case outputYAML:
		data, err := (&spec.Config{Version: spec.Version, Mosaic: layout}).Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal layout: %w", err)
		}
		_, err = out.Write(data)
		return err
	case outputTable:
	default:
		return fmt.Errorf("invalid --%v option %q", flagOutput, format)
	}

	current, err := session.CurrentTopology()
	if err != nil {
		return err
	}
	state := "disabled"
	if current.Brief.Enabled.Bool() {
		state = "enabled"
	}
	fmt.Fprintf(out, "Mosaic topology: %v (%s)\n", current.Brief.Topo, state)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Grid", "Size", "Mode", "Flags", "Display", "Overlap", "Rotation"})
	table.SetAutoWrapText(false)
	table.SetAutoMergeCells(true)
	for i, g := range layout.Grids {
		size := fmt.Sprintf("%dx%d", g.Rows, g.Columns)
		mode := fmt.Sprintf("%dx%dx%d@%dHz", g.Resolution.Width, g.Resolution.Height, g.Resolution.Bpp, g.Resolution.Refresh)
		flags := strings.Join(g.Flags, ",")
		for _, d := range g.Displays {
			table.Append([]string{
				strconv.Itoa(i),
				size,
				mode,
				flags,
				fmt.Sprintf("0x%08x", d.DisplayID),
				fmt.Sprintf("%d,%d", d.OverlapX, d.OverlapY),
				strconv.Itoa(d.Rotation),
			})
		}
	}
	table.Render()
	return nil
}
