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

package nvapi

import (
	"fmt"
	"sync/atomic"
)

// Status is the NvAPI_Status value returned by every driver entry point.
type Status int32

// Status values defined by the driver. The set is not closed: newer drivers
// may return codes that are not listed here.
const (
	OK                                 Status = 0
	ERROR                              Status = -1
	LIBRARY_NOT_FOUND                  Status = -2
	NO_IMPLEMENTATION                  Status = -3
	API_NOT_INITIALIZED                Status = -4
	INVALID_ARGUMENT                   Status = -5
	NVIDIA_DEVICE_NOT_FOUND            Status = -6
	END_ENUMERATION                    Status = -7
	INVALID_HANDLE                     Status = -8
	INCOMPATIBLE_STRUCT_VERSION        Status = -9
	HANDLE_INVALIDATED                 Status = -10
	INVALID_POINTER                    Status = -14
	EXPECTED_LOGICAL_GPU_HANDLE        Status = -100
	EXPECTED_PHYSICAL_GPU_HANDLE       Status = -101
	EXPECTED_DISPLAY_HANDLE            Status = -102
	INVALID_COMBINATION                Status = -103
	NOT_SUPPORTED                      Status = -104
	PORTID_NOT_FOUND                   Status = -105
	EXPECTED_UNATTACHED_DISPLAY_HANDLE Status = -106
	INVALID_PERF_LEVEL                 Status = -107
	DEVICE_BUSY                        Status = -108
	ARGUMENT_EXCEED_MAX_SIZE           Status = -116
	DATA_NOT_FOUND                     Status = -121
	REQUIRES_REBOOT                    Status = -124
	OUT_OF_MEMORY                      Status = -130
	INVALID_CALL                       Status = -134
	FUNCTION_NOT_FOUND                 Status = -136
	INVALID_USER_PRIVILEGE             Status = -137
	TOPO_NOT_POSSIBLE                  Status = -149
	MODE_CHANGE_FAILED                 Status = -150
	STRING_TOO_SMALL                   Status = -153
	MATCHING_DEVICE_NOT_FOUND          Status = -154
	ERROR_DRIVER_RELOAD_REQUIRED       Status = -157
	INSUFFICIENT_BUFFER                Status = -174
	ACCESS_DENIED                      Status = -175
	MOSAIC_NOT_ACTIVE                  Status = -176
	INVALID_CONFIGURATION              Status = -180
	INVALID_DISPLAY_ID                 Status = -187
	TIMEOUT                            Status = -191
	SYNC_NOT_ACTIVE                    Status = -194
	SYNC_MASTER_NOT_FOUND              Status = -195
	INVALID_SYNC_TOPOLOGY              Status = -196
)

var statusNames = map[Status]string{
	OK:                                 "OK",
	ERROR:                              "ERROR",
	LIBRARY_NOT_FOUND:                  "LIBRARY_NOT_FOUND",
	NO_IMPLEMENTATION:                  "NO_IMPLEMENTATION",
	API_NOT_INITIALIZED:                "API_NOT_INITIALIZED",
	INVALID_ARGUMENT:                   "INVALID_ARGUMENT",
	NVIDIA_DEVICE_NOT_FOUND:            "NVIDIA_DEVICE_NOT_FOUND",
	END_ENUMERATION:                    "END_ENUMERATION",
	INVALID_HANDLE:                     "INVALID_HANDLE",
	INCOMPATIBLE_STRUCT_VERSION:        "INCOMPATIBLE_STRUCT_VERSION",
	HANDLE_INVALIDATED:                 "HANDLE_INVALIDATED",
	INVALID_POINTER:                    "INVALID_POINTER",
	EXPECTED_LOGICAL_GPU_HANDLE:        "EXPECTED_LOGICAL_GPU_HANDLE",
	EXPECTED_PHYSICAL_GPU_HANDLE:       "EXPECTED_PHYSICAL_GPU_HANDLE",
	EXPECTED_DISPLAY_HANDLE:            "EXPECTED_DISPLAY_HANDLE",
	INVALID_COMBINATION:                "INVALID_COMBINATION",
	NOT_SUPPORTED:                      "NOT_SUPPORTED",
	PORTID_NOT_FOUND:                   "PORTID_NOT_FOUND",
	EXPECTED_UNATTACHED_DISPLAY_HANDLE: "EXPECTED_UNATTACHED_DISPLAY_HANDLE",
	INVALID_PERF_LEVEL:                 "INVALID_PERF_LEVEL",
	DEVICE_BUSY:                        "DEVICE_BUSY",
	ARGUMENT_EXCEED_MAX_SIZE:           "ARGUMENT_EXCEED_MAX_SIZE",
	DATA_NOT_FOUND:                     "DATA_NOT_FOUND",
	REQUIRES_REBOOT:                    "REQUIRES_REBOOT",
	OUT_OF_MEMORY:                      "OUT_OF_MEMORY",
	INVALID_CALL:                       "INVALID_CALL",
	FUNCTION_NOT_FOUND:                 "FUNCTION_NOT_FOUND",
	INVALID_USER_PRIVILEGE:             "INVALID_USER_PRIVILEGE",
	TOPO_NOT_POSSIBLE:                  "TOPO_NOT_POSSIBLE",
	MODE_CHANGE_FAILED:                 "MODE_CHANGE_FAILED",
	STRING_TOO_SMALL:                   "STRING_TOO_SMALL",
	MATCHING_DEVICE_NOT_FOUND:          "MATCHING_DEVICE_NOT_FOUND",
	ERROR_DRIVER_RELOAD_REQUIRED:       "ERROR_DRIVER_RELOAD_REQUIRED",
	INSUFFICIENT_BUFFER:                "INSUFFICIENT_BUFFER",
	ACCESS_DENIED:                      "ACCESS_DENIED",
	MOSAIC_NOT_ACTIVE:                  "MOSAIC_NOT_ACTIVE",
	INVALID_CONFIGURATION:              "INVALID_CONFIGURATION",
	INVALID_DISPLAY_ID:                 "INVALID_DISPLAY_ID",
	TIMEOUT:                            "TIMEOUT",
	SYNC_NOT_ACTIVE:                    "SYNC_NOT_ACTIVE",
	SYNC_MASTER_NOT_FOUND:              "SYNC_MASTER_NOT_FOUND",
	INVALID_SYNC_TOPOLOGY:              "INVALID_SYNC_TOPOLOGY",
}

var statusKinds = map[Status]ErrorKind{
	LIBRARY_NOT_FOUND:                  ErrNotSupported,
	NO_IMPLEMENTATION:                  ErrNotSupported,
	NOT_SUPPORTED:                      ErrNotSupported,
	FUNCTION_NOT_FOUND:                 ErrNotSupported,
	NVIDIA_DEVICE_NOT_FOUND:            ErrDeviceNotFound,
	END_ENUMERATION:                    ErrDeviceNotFound,
	DATA_NOT_FOUND:                     ErrDeviceNotFound,
	MATCHING_DEVICE_NOT_FOUND:          ErrDeviceNotFound,
	INCOMPATIBLE_STRUCT_VERSION:        ErrIncompatibleStructVersion,
	INSUFFICIENT_BUFFER:                ErrInsufficientBuffer,
	INVALID_ARGUMENT:                   ErrInvalidArgument,
	INVALID_POINTER:                    ErrInvalidArgument,
	INVALID_HANDLE:                     ErrInvalidArgument,
	EXPECTED_LOGICAL_GPU_HANDLE:        ErrInvalidArgument,
	EXPECTED_PHYSICAL_GPU_HANDLE:       ErrInvalidArgument,
	EXPECTED_DISPLAY_HANDLE:            ErrInvalidArgument,
	EXPECTED_UNATTACHED_DISPLAY_HANDLE: ErrInvalidArgument,
	INVALID_COMBINATION:                ErrInvalidArgument,
	INVALID_DISPLAY_ID:                 ErrInvalidArgument,
	INVALID_CONFIGURATION:              ErrInvalidArgument,
	TOPO_NOT_POSSIBLE:                  ErrInvalidArgument,
	HANDLE_INVALIDATED:                 ErrHandleInvalidated,
}

// Kind returns the error category of a status. OK has no kind and any
// status outside the known table maps to ErrUnknown.
func (s Status) Kind() ErrorKind {
	if s == OK {
		return 0
	}
	if k, ok := statusKinds[s]; ok {
		return k
	}
	return ErrUnknown
}

// Name returns the driver's symbolic name for s, or UNKNOWN(code).
func (s Status) Name() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(s))
}

// Code returns the raw status value.
func (s Status) Code() int32 {
	return int32(s)
}

// String returns the string representation of a Status.
func (s Status) String() string {
	return s.Name()
}

// Error returns the string representation of a Status.
func (s Status) Error() string {
	return errorStrings.Load().render(s)
}

// Is allows errors.Is to match a Status against its ErrorKind.
func (s Status) Is(target error) bool {
	k, ok := target.(ErrorKind)
	if !ok {
		return false
	}
	return s != OK && s.Kind() == k
}

// errorStringer renders statuses. While a library is loaded it owns the
// current errorStringer and statuses are rendered by the driver.
type errorStringer struct {
	owner  *library
	render func(Status) string
}

var defaultErrorStringer = &errorStringer{render: defaultErrorStringFunc}

var errorStrings atomic.Pointer[errorStringer]

func init() {
	errorStrings.Store(defaultErrorStringer)
}

// claimErrorStrings makes l render statuses unless another library already
// does.
func claimErrorStrings(l *library) {
	errorStrings.CompareAndSwap(defaultErrorStringer, &errorStringer{owner: l, render: l.errorString})
}

// releaseErrorStrings restores the default rendering if l owns it.
func releaseErrorStrings(l *library) {
	if current := errorStrings.Load(); current.owner == l {
		errorStrings.CompareAndSwap(current, defaultErrorStringer)
	}
}

// defaultErrorStringFunc renders a status without calling into the driver.
var defaultErrorStringFunc = func(s Status) string {
	return fmt.Sprintf("NVAPI_%s", s.Name())
}

// Translate maps a raw status code to an error. Zero maps to nil.
func Translate(code int32) error {
	if code == 0 {
		return nil
	}
	return Status(code)
}

// Err is Translate for a Status value.
func (s Status) Err() error {
	return Translate(int32(s))
}
