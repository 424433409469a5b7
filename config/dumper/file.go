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

package dumper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rivaas.dev/settings/config/codec"
)

// DefaultFilePermissions is the mode of dumped files: read/write for the
// owner and read for group and others (0644).
const DefaultFilePermissions os.FileMode = 0o644

// Option configures a [File] dumper.
type Option func(*File)

// WithPermissions sets the mode of the dumped file, for example 0600 when
// the merged tree holds credentials.
func WithPermissions(perm os.FileMode) Option {
	return func(f *File) {
		f.permissions = perm
	}
}

// File writes the merged configuration tree to a file.
type File struct {
	path        string
	encoder     codec.Encoder
	permissions os.FileMode
}

// NewFile creates a File dumper that encodes the tree with encoder.
func NewFile(path string, encoder codec.Encoder, opts ...Option) *File {
	f := &File{
		path:        path,
		encoder:     encoder,
		permissions: DefaultFilePermissions,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Dump encodes tree and replaces the file with the result. The data is
// written to a temporary file in the same directory first and renamed into
// place, so readers never see a partial file.
//
// Errors:
//   - Returns error if encoding fails
//   - Returns error if writing or renaming the file fails
func (f *File) Dump(_ context.Context, tree map[string]any) error {
	data, err := f.encoder.Encode(tree)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Chmod(f.permissions); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Writer encodes the merged configuration tree to an io.Writer, such as
// os.Stdout.
type Writer struct {
	w       io.Writer
	encoder codec.Encoder
}

// NewWriter creates a Writer dumper.
func NewWriter(w io.Writer, encoder codec.Encoder) *Writer {
	return &Writer{w: w, encoder: encoder}
}

// Dump encodes tree and writes it followed by a newline.
func (d *Writer) Dump(_ context.Context, tree map[string]any) error {
	data, err := d.encoder.Encode(tree)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if _, err = d.w.Write(data); err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}

	return nil
}
