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
	"errors"
	"fmt"
)

// ErrorKind groups driver statuses into the categories callers act on.
// A Status matches its kind with errors.Is.
type ErrorKind int

// Error kinds.
const (
	ErrNotSupported ErrorKind = iota + 1
	ErrDeviceNotFound
	ErrIncompatibleStructVersion
	ErrInsufficientBuffer
	ErrInvalidArgument
	ErrHandleInvalidated
	ErrUnknown
)

func (k ErrorKind) Error() string {
	switch k {
	case ErrNotSupported:
		return "not supported"
	case ErrDeviceNotFound:
		return "device not found"
	case ErrIncompatibleStructVersion:
		return "incompatible struct version"
	case ErrInsufficientBuffer:
		return "insufficient buffer"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrHandleInvalidated:
		return "handle invalidated"
	case ErrUnknown:
		return "unknown error"
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// ErrTopologyChanged is returned when an enumeration keeps growing between
// the count and fill calls.
var ErrTopologyChanged = errors.New("topology changed during enumeration")

// UnrecognizedValueError is returned when the driver hands back an enum
// value that is not known to this package.
type UnrecognizedValueError struct {
	Type  string
	Value int32
}

func (e *UnrecognizedValueError) Error() string {
	return fmt.Sprintf("unrecognized %s value %d", e.Type, e.Value)
}

// StatusOf extracts the driver status wrapped in err, if any.
func StatusOf(err error) (Status, bool) {
	var s Status
	if errors.As(err, &s) {
		return s, true
	}
	return OK, false
}

// IsNotFound reports whether err indicates missing hardware.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDeviceNotFound)
}

// IsNotSupported reports whether err indicates an entry point or feature
// the installed driver does not provide.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

// IsVersionMismatch reports whether the driver rejected a struct version.
func IsVersionMismatch(err error) bool {
	return errors.Is(err, ErrIncompatibleStructVersion)
}

// IsStale reports whether err indicates handles invalidated by a mode-set.
func IsStale(err error) bool {
	return errors.Is(err, ErrHandleInvalidated)
}
