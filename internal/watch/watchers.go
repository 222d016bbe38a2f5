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

package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/NVIDIA/go-nvapi/internal/logger"
)

// Signals returns a channel that receives the given signals.
func Signals(sigs ...os.Signal) chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, sigs...)

	return sigChan
}

// FileWatcher reports changes to a set of files.
//
// The parent directories are watched rather than the files themselves, so
// that files replaced by a rename (as editors and config map updates do)
// keep being tracked.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	logger  logger.Interface
	files   map[string]bool
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// Files starts watching files. Errors reported by the watcher are logged.
func Files(log logger.Interface, files ...string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create FS watcher: %w", err)
	}

	w := &FileWatcher{
		watcher: watcher,
		logger:  log,
		files:   make(map[string]bool),
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %v: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %v: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Changes receives the path of a watched file after it is written,
// created or renamed. Bursts of events are coalesced.
func (w *FileWatcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *FileWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case w.changes <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warningf("inotify: %v", err)
		}
	}
}
