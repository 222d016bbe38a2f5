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

package v1

import (
	"time"
)

// Exporter defaults
const (
	DefaultListenAddress = ":9835"
	DefaultMetricsPath   = "/metrics"
	DefaultPollInterval  = 10 * time.Second
)

// Command line flag names - Common flags
const (
	FlagConfigFile      = "config-file"
	FlagNvapiLibrary    = "nvapi-library"
	FlagFailOnInitError = "fail-on-init-error"
)

// Command line flag names - Exporter flags
const (
	FlagListenAddress = "listen-address"
	FlagMetricsPath   = "metrics-path"
	FlagPollInterval  = "poll-interval"
)

// Names of the grid flags in a Mosaic layout
const (
	GridFlagBezelCorrected           = "bezel-corrected"
	GridFlagImmersiveGaming          = "immersive-gaming"
	GridFlagBaseMosaic               = "base-mosaic"
	GridFlagDriverReloadAllowed      = "driver-reload-allowed"
	GridFlagAcceleratePrimaryDisplay = "accelerate-primary-display"
	GridFlagPixelShift               = "pixel-shift"
)

// Names of the flags passed when setting a Mosaic layout
const (
	SetTopoFlagCurrentGpuTopology  = "current-gpu-topology"
	SetTopoFlagNoDriverReload      = "no-driver-reload"
	SetTopoFlagMaximizePerformance = "maximize-performance"
	SetTopoFlagAllowInvalid        = "allow-invalid"
)
