// Copyright 2025 The Rivaas Authors
// Copyright 2025 Company.info B.V.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"rivaas.dev/settings/config/codec"
)

// FileOption configures a [File] source.
type FileOption func(*File)

// Optional makes a missing file load as an empty source instead of
// failing with [ErrSourceUnavailable]. Parse errors still fail.
func Optional() FileOption {
	return func(f *File) {
		f.optional = true
	}
}

// OnWatchError sets a handler for errors reported by the file watcher.
// Without a handler those errors are dropped.
func OnWatchError(fn func(error)) FileOption {
	return func(f *File) {
		f.onWatchError = fn
	}
}

// File loads configuration from a file on disk.
type File struct {
	path         string
	decoder      codec.Decoder
	optional     bool
	onWatchError func(error)
}

// NewFile creates a File source that decodes path with decoder.
func NewFile(path string, decoder codec.Decoder, opts ...FileOption) *File {
	f := &File{
		path:    path,
		decoder: decoder,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Name identifies the source in provenance records and errors.
func (f *File) Name() string {
	return "file:" + f.path
}

// Path returns the watched file path.
func (f *File) Path() string {
	return f.path
}

// IsOptional reports whether a missing file is tolerated.
func (f *File) IsOptional() bool {
	return f.optional
}

// Load reads and decodes the file.
//
// Errors:
//   - [ErrSourceUnavailable] if the file cannot be read and is not optional
//   - [ErrSourceMalformed] if decoding fails
func (f *File) Load(context.Context) ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if f.optional && errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, Unavailable(f.path, err)
	}

	var tree map[string]any
	if err = f.decoder.Decode(data, &tree); err != nil {
		return nil, Malformed(f.path, data, err)
	}

	return Flatten(tree), nil
}

// Watch calls onChange whenever the file is written, created, renamed or
// removed. The parent directory is watched so that editors which replace
// the file atomically are noticed too. Watch returns once the watcher is
// installed; it stops when ctx is done.
func (f *File) Watch(ctx context.Context, onChange func()) error {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", f.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err = watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go f.watchLoop(ctx, watcher, abs, onChange)

	return nil
}

func (f *File) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, abs string, onChange func()) {
	defer watcher.Close()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&relevant != 0 {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if f.onWatchError != nil {
				f.onWatchError(err)
			}
		}
	}
}
