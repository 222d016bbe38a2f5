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
	"flag"
	"fmt"
	"os"
	"strconv"

	cli "github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	spec "github.com/NVIDIA/go-nvapi/api/config/v1"
	"github.com/NVIDIA/go-nvapi/internal/info"
	"github.com/NVIDIA/go-nvapi/pkg/nvapi"
)

const (
	flagFile    = "file"
	flagOutput  = "output"
	flagWatch   = "watch"
	flagVerbose = "v"

	outputTable = "table"
	outputYAML  = "yaml"
)

func main() {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	defer klog.Flush()

	c := cli.NewApp()
	c.Name = "mosaic-config"
	c.Usage = "inspect and apply NVIDIA Mosaic display layouts"
	c.Version = info.GetVersionString()
	c.Before = func(ctx *cli.Context) error {
		return klogFlags.Set("v", strconv.Itoa(ctx.Int(flagVerbose)))
	}

	c.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    spec.FlagNvapiLibrary,
			Usage:   "the path of the NVAPI driver DLL; the DLL matching the process architecture is used if unset",
			EnvVars: []string{"NVAPI_LIBRARY"},
		},
		&cli.IntFlag{
			Name:  flagVerbose,
			Usage: "the klog verbosity; 4 traces every driver call",
		},
	}

	layoutFlag := &cli.StringFlag{
		Name:     flagFile,
		Aliases:  []string{"f"},
		Usage:    "the layout file (a v1 config with a mosaic section)",
		Required: true,
	}

	c.Commands = []*cli.Command{
		{
			Name:  "show",
			Usage: "print the current display grids",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagOutput,
					Aliases: []string{"o"},
					Value:   outputTable,
					Usage:   "the output format: [table | yaml]",
				},
			},
			Action: func(ctx *cli.Context) error {
				return withNvapi(ctx, func(lib nvapi.Interface) error {
					return show(newSession(lib), os.Stdout, ctx.String(flagOutput))
				})
			},
		},
		{
			Name:  "save",
			Usage: "write the current display grids to a layout file",
			Flags: []cli.Flag{layoutFlag},
			Action: func(ctx *cli.Context) error {
				return withNvapi(ctx, func(lib nvapi.Interface) error {
					return save(newSession(lib), ctx.String(flagFile), os.Stdout)
				})
			},
		},
		{
			Name:  "validate",
			Usage: "check a layout against the connected displays",
			Flags: []cli.Flag{layoutFlag},
			Action: func(ctx *cli.Context) error {
				layout, err := loadLayout(ctx.String(flagFile))
				if err != nil {
					return err
				}
				return withNvapi(ctx, func(lib nvapi.Interface) error {
					_, _, err := validate(newSession(lib), layout, os.Stdout)
					return err
				})
			},
		},
		{
			Name:  "apply",
			Usage: "validate a layout and set it as the current display grids",
			Flags: []cli.Flag{
				layoutFlag,
				&cli.BoolFlag{
					Name:  flagWatch,
					Usage: "keep running and re-apply the layout whenever the file changes",
				},
			},
			Action: func(ctx *cli.Context) error {
				file := ctx.String(flagFile)
				return withNvapi(ctx, func(lib nvapi.Interface) error {
					session := newSession(lib)
					if ctx.Bool(flagWatch) {
						return applyAndWatch(session, file, os.Stdout)
					}
					return applyFile(session, file, os.Stdout)
				})
			},
		},
		{
			Name:  "gsync",
			Usage: "G-SYNC maintenance",
			Subcommands: []*cli.Command{
				{
					Name:  "resync",
					Usage: "validate the control path of every G-SYNC board and re-apply its sync state",
					Action: func(ctx *cli.Context) error {
						return withNvapi(ctx, func(lib nvapi.Interface) error {
							return resync(newGSync(lib), os.Stdout)
						})
					},
				},
			},
		},
	}

	if err := c.Run(os.Args); err != nil {
		klog.Error(err)
		klog.Flush()
		os.Exit(1)
	}
}

// withNvapi runs fn with an initialized nvapi library.
func withNvapi(ctx *cli.Context, fn func(nvapi.Interface) error) error {
	lib := nvapi.New(nvapi.WithLibraryPath(ctx.String(spec.FlagNvapiLibrary)))
	if ret := lib.Init(); ret != nvapi.OK {
		return fmt.Errorf("failed to initialize NVAPI: %w", ret)
	}
	defer func() {
		if ret := lib.Shutdown(); ret != nvapi.OK {
			klog.Warningf("Shutdown of NVAPI returned: %v", ret)
		}
	}()

	if driver, err := info.DriverVersionString(lib); err == nil {
		klog.V(1).Infof("NVIDIA driver %s", driver)
	}
	return fn(lib)
}

// loadLayout reads the mosaic section of a config file.
func loadLayout(file string) (*spec.MosaicLayout, error) {
	config, err := spec.Load(file)
	if err != nil {
		return nil, err
	}
	if config.Mosaic == nil {
		return nil, fmt.Errorf("%v has no mosaic section", file)
	}
	return config.Mosaic, nil
}
