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
	"os"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/NVIDIA/go-nvapi/internal/logger"
	"github.com/NVIDIA/go-nvapi/internal/watch"
	"github.com/NVIDIA/go-nvapi/pkg/nvlib/mosaic"
)

// applyFile validates the layout in file and sets it.
func applyFile(session mosaic.Interface, file string, out io.Writer) error {
	layout, err := loadLayout(file)
	if err != nil {
		return err
	}
	grids, flags, err := validate(session, layout, out)
	if err != nil {
		return err
	}
	if err := session.SetDisplayGrids(grids, flags); err != nil {
		return err
	}
	fmt.Fprintf(out, "Applied %d display grid(s) from %s\n", len(grids), file)
	return nil
}

// applyAndWatch applies file and re-applies it on every change until
// the process is signalled.
func applyAndWatch(session mosaic.Interface, file string, out io.Writer) error {
	klog.Info("Starting FS watcher.")
	files, err := watch.Files(logger.ToKlog, file)
	if err != nil {
		return err
	}
	defer files.Close()

	klog.Info("Starting OS watcher.")
	sigs := watch.Signals(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	return watchLoop(func() error { return applyFile(session, file, out) }, files.Changes(), sigs)
}

// watchLoop runs apply once and again after each change. Failed applies
// are logged and do not end the loop.
func watchLoop(apply func() error, changes <-chan string, sigs <-chan os.Signal) error {
	if err := apply(); err != nil {
		klog.Errorf("Failed to apply layout: %v", err)
	}
	for {
		select {
		case file := <-changes:
			klog.Infof("inotify: %s changed, re-applying.", file)
			if err := apply(); err != nil {
				klog.Errorf("Failed to apply layout: %v", err)
			}
		case s := <-sigs:
			klog.Infof("Received signal %v, shutting down.", s)
			return nil
		}
	}
}
