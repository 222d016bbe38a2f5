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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
)

func TestParseConfigFrom(t *testing.T) {
	testCases := []struct {
		description   string
		input         string
		expectedError string
		expected      *Config
	}{
		{
			description:   "empty",
			input:         "",
			expectedError: "missing version field",
		},
		{
			description:   "unknown version",
			input:         "version: v2\n",
			expectedError: "unknown version: v2",
		},
		{
			description:   "not yaml",
			input:         "version: [v1\n",
			expectedError: "unmarshal error",
		},
		{
			description: "version only",
			input:       "version: v1\n",
			expected:    &Config{Version: Version},
		},
		{
			description: "flags and mosaic",
			input: `version: v1
flags:
  failOnInitError: true
  exporter:
    pollInterval: 30s
mosaic:
  setTopoFlags: [allow-invalid]
  grids:
  - rows: 1
    columns: 2
    resolution:
      width: 1920
      height: 1080
      refresh: 60
    flags: [bezel-corrected]
    displays:
    - displayId: 0x80061082
    - displayId: 0x80062082
      overlapX: -16
`,
			expected: &Config{
				Version: Version,
				Flags: Flags{
					CommandLineFlags{
						FailOnInitError: ptr(true),
						Exporter: &ExporterCommandLineFlags{
							PollInterval: ptr(Duration(30 * time.Second)),
						},
					},
				},
				Mosaic: &MosaicLayout{
					SetTopoFlags: []string{SetTopoFlagAllowInvalid},
					Grids: []Grid{
						{
							Rows:       1,
							Columns:    2,
							Resolution: Resolution{Width: 1920, Height: 1080, Refresh: 60},
							Flags:      []string{GridFlagBezelCorrected},
							Displays: []GridDisplay{
								{DisplayID: 0x80061082},
								{DisplayID: 0x80062082, OverlapX: -16},
							},
						},
					},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			config, err := parseConfigFrom(strings.NewReader(tc.input))
			if tc.expectedError != "" {
				require.ErrorContains(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, config)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	config := &Config{
		Version: Version,
		Mosaic: &MosaicLayout{
			Grids: []Grid{
				{
					Rows:       1,
					Columns:    1,
					Resolution: Resolution{Width: 1280, Height: 720, Bpp: 32, Refresh: 60},
					Displays:   []GridDisplay{{DisplayID: 0x1, Rotation: 180}},
				},
			},
		},
	}

	data, err := config.Marshal()
	require.NoError(t, err)

	parsed, err := parseConfigFrom(strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Equal(t, config.Mosaic, parsed.Mosaic)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "error opening config file")
}

func TestNewConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	contents := `version: v1
flags:
  nvapiLibrary: /opt/nvapi/libnvapi.so
  exporter:
    listenAddress: ":9000"
`
	require.NoError(t, os.WriteFile(configFile, []byte(contents), 0600))

	flags := []cli.Flag{
		&cli.StringFlag{Name: FlagConfigFile},
		&cli.StringFlag{Name: FlagNvapiLibrary},
		&cli.BoolFlag{Name: FlagFailOnInitError},
		&cli.StringFlag{Name: FlagListenAddress, Value: DefaultListenAddress},
		&cli.StringFlag{Name: FlagMetricsPath, Value: DefaultMetricsPath},
		&cli.DurationFlag{Name: FlagPollInterval, Value: DefaultPollInterval},
	}

	var config *Config
	app := &cli.App{
		Flags: flags,
		Action: func(c *cli.Context) error {
			var err error
			config, err = NewConfig(c, flags)
			return err
		},
	}
	require.NoError(t, app.Run([]string{"test", "--config-file", configFile, "--metrics-path=/nvapi"}))

	require.Equal(t, "/opt/nvapi/libnvapi.so", config.Flags.LibraryPath())
	require.False(t, config.Flags.ShouldFailOnInitError())
	require.Equal(t, ":9000", *config.Flags.Exporter.ListenAddress)
	require.Equal(t, "/nvapi", *config.Flags.Exporter.MetricsPath)
	require.Equal(t, DefaultPollInterval, config.Flags.PollInterval())
	require.Nil(t, config.Mosaic)
}

func TestNewConfigBadFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("version: v0\n"), 0600))

	flags := []cli.Flag{&cli.StringFlag{Name: FlagConfigFile}}
	app := &cli.App{
		Flags: flags,
		Action: func(c *cli.Context) error {
			_, err := NewConfig(c, flags)
			return err
		},
	}
	err := app.Run([]string{"test", "--config-file", configFile})
	require.ErrorContains(t, err, "unknown version: v0")
}
