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
	"sync"
	"sync/atomic"
	"unsafe"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/pkg/dl"
)

const (
	queryInterfaceSymbol = "nvapi_QueryInterface"
)

var errLibraryNotLoaded = errors.New("library not loaded")
var errLibraryAlreadyLoaded = errors.New("library already loaded")

// defaultLibraryName returns the driver DLL matching the pointer size of
// the running process.
func defaultLibraryName() string {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return "nvapi64.dll"
	}
	return "nvapi.dll"
}

// dynamicLibrary is the subset of dl.DynamicLibrary used by the library.
type dynamicLibrary interface {
	Open() error
	Close() error
	Lookup(string) (uintptr, error)
}

// newDynamicLibrary is a function variable that can be overridden for testing.
var newDynamicLibrary = func(path string) dynamicLibrary {
	return dl.New(path)
}

// library represents the nvapi library.
// This includes a reference to the underlying DynamicLibrary and the cache
// of resolved entry points.
type library struct {
	sync.Mutex
	path     string
	refcount refcount
	dl       dynamicLibrary
	resolver atomic.Pointer[resolver]
	// rawCall invokes entry points that take no pointer arguments. Calls
	// with pointer arguments go through dl.Call directly.
	rawCall func(fn uintptr, args ...uintptr) uintptr
}

// libnvapi is the process-wide default instance of the nvapi library.
var libnvapi = newLibrary()

var _ Interface = (*library)(nil)

// LibraryOption represents a functional option to configure the underlying
// nvapi library.
type LibraryOption func(*library)

// WithLibraryPath sets the path of the driver DLL.
func WithLibraryPath(path string) LibraryOption {
	return func(l *library) {
		l.path = path
	}
}

// New creates a new instance of the nvapi interface.
func New(opts ...LibraryOption) Interface {
	return newLibrary(opts...)
}

func newLibrary(opts ...LibraryOption) *library {
	l := &library{
		rawCall: callNoPointers,
	}
	l.init(opts...)
	return l
}

func (l *library) init(opts ...LibraryOption) {
	for _, opt := range opts {
		opt(l)
	}
	if l.path == "" {
		l.path = defaultLibraryName()
	}
}

// callNoPointers forwards to dl.Call. It must only be used for calls whose
// arguments are plain integers.
func callNoPointers(fn uintptr, args ...uintptr) uintptr {
	return dl.Call(fn, args...)
}

// SetLibraryOptions applies the specified options to the default nvapi
// library. It fails if the library is already loaded.
func SetLibraryOptions(opts ...LibraryOption) error {
	return libnvapi.SetLibraryOptions(opts...)
}

// SetLibraryOptions applies the specified options to the library. It fails
// if the library is already loaded.
func (l *library) SetLibraryOptions(opts ...LibraryOption) error {
	l.Lock()
	defer l.Unlock()
	if l.dl != nil {
		return errLibraryAlreadyLoaded
	}
	l.init(opts...)
	return nil
}

// Init loads the driver DLL and initializes nvapi. Every successful call
// must be paired with a call to Shutdown.
func (l *library) Init() Status {
	l.Lock()
	defer l.Unlock()

	ret := l.initFirst()
	l.refcount.IncOnNoError(ret.Err())
	return ret
}

func (l *library) initFirst() Status {
	if l.refcount > 0 {
		return OK
	}

	if err := l.load(); err != nil {
		klog.V(2).Infof("nvapi: %v", err)
		return LIBRARY_NOT_FOUND
	}

	ret := l.initialize()
	if ret != OK {
		if err := l.unload(); err != nil {
			klog.Warningf("nvapi: %v", err)
		}
		return ret
	}

	claimErrorStrings(l)
	return OK
}

// Shutdown unloads nvapi once the last reference is released.
func (l *library) Shutdown() Status {
	l.Lock()
	defer l.Unlock()

	if l.refcount == 0 {
		return API_NOT_INITIALIZED
	}
	ret := l.shutdownLast()
	l.refcount.DecOnNoError(ret.Err())
	return ret
}

func (l *library) shutdownLast() Status {
	if l.refcount > 1 {
		return OK
	}

	fn, ret := l.proc(idUnload)
	if ret == OK {
		ret = Status(int32(l.rawCall(fn)))
	}
	if ret != OK && ret != NO_IMPLEMENTATION {
		return ret
	}

	releaseErrorStrings(l)
	if err := l.unload(); err != nil {
		klog.Warningf("nvapi: %v", err)
	}
	return OK
}

// load opens the DLL and installs a resolver backed by its query function.
func (l *library) load() error {
	lib := newDynamicLibrary(l.path)
	if err := lib.Open(); err != nil {
		return fmt.Errorf("error opening %s: %w", l.path, err)
	}

	qi, err := lib.Lookup(queryInterfaceSymbol)
	if err != nil {
		_ = lib.Close()
		return fmt.Errorf("error resolving %s: %w", queryInterfaceSymbol, err)
	}
	if qi == 0 {
		_ = lib.Close()
		return fmt.Errorf("error resolving %s: %w", queryInterfaceSymbol, errLibraryNotLoaded)
	}

	call := l.rawCall
	l.dl = lib
	l.resolver.Store(newResolver(func(id InterfaceID) uintptr {
		return call(qi, uintptr(id))
	}))
	return nil
}

// unload drops the resolver and closes the DLL.
func (l *library) unload() error {
	l.resolver.Store(nil)
	if l.dl == nil {
		return nil
	}
	err := l.dl.Close()
	l.dl = nil
	if err != nil {
		return fmt.Errorf("error closing %s: %w", l.path, err)
	}
	return nil
}

func (l *library) initialize() Status {
	fn, ret := l.proc(idInitialize)
	if ret != OK {
		return ret
	}
	return Status(int32(l.rawCall(fn)))
}

// proc resolves an entry point through the current resolver.
func (l *library) proc(id InterfaceID) (uintptr, Status) {
	return l.resolver.Load().resolve(id)
}

// errorString renders a status through the driver, falling back to the
// static name table.
func (l *library) errorString(s Status) string {
	msg, ret := l.GetErrorMessage(s)
	if ret != OK || msg == "" {
		return defaultErrorStringFunc(s)
	}
	return msg
}
