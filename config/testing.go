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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/settings/config/keypath"
	"rivaas.dev/settings/config/source"
)

// MockSource is an in-memory [Source] and [Watcher] for tests. Its values
// can be replaced between builds and Trigger simulates a change event.
type MockSource struct {
	mu        sync.Mutex
	name      string
	values    map[string]string
	err       error
	loads     int
	listeners []func()
}

// Name implements [Namer].
func (m *MockSource) Name() string {
	return m.name
}

// Load implements the Source interface for testing.
func (m *MockSource) Load(ctx context.Context) ([]source.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads++
	if m.err != nil {
		return nil, m.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]source.Entry, 0, len(m.values))
	for k, v := range m.values {
		entries = append(entries, source.Entry{Path: keypath.Parse(k), Value: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key() < entries[j].Key() })

	return entries, nil
}

// Watch implements [Watcher]. Listeners are dropped when ctx is done.
func (m *MockSource) Watch(ctx context.Context, onChange func()) error {
	m.mu.Lock()
	m.listeners = append(m.listeners, onChange)
	idx := len(m.listeners) - 1
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		m.listeners[idx] = nil
		m.mu.Unlock()
	}()

	return nil
}

// Set replaces the values returned by the next Load.
func (m *MockSource) Set(values map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = values
	m.err = nil
}

// SetError makes the next Load fail with err.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Loads returns how many times Load has been called.
func (m *MockSource) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loads
}

// Trigger calls every active change listener.
func (m *MockSource) Trigger() {
	m.mu.Lock()
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		if fn != nil {
			fn()
		}
	}
}

// TestSource creates a named source returning values, keyed by textual
// key paths such as "Mail:Port".
func TestSource(name string, values map[string]string) *MockSource {
	return &MockSource{name: name, values: values}
}

// TestSourceWithError creates a source whose Load always fails with err.
func TestSourceWithError(err error) *MockSource {
	return &MockSource{name: "failing", err: err}
}

// MockDumper is a test implementation of the Dumper interface.
type MockDumper struct {
	called bool
	tree   map[string]any
	err    error
}

// Dump implements the Dumper interface for testing.
func (m *MockDumper) Dump(_ context.Context, tree map[string]any) error {
	m.called = true
	m.tree = tree
	return m.err
}

// Called reports whether Dump was called.
func (m *MockDumper) Called() bool {
	return m.called
}

// Tree returns the tree passed to the last Dump call.
func (m *MockDumper) Tree() map[string]any {
	return m.tree
}

// TestDumper creates a dumper that records its input.
func TestDumper() *MockDumper {
	return &MockDumper{}
}

// TestDumperWithError creates a dumper that always fails with err.
func TestDumperWithError(err error) *MockDumper {
	return &MockDumper{err: err}
}

// TestStore creates a Store and fails the test if any option fails.
func TestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err, "failed to create test store")
	return s
}

// TestStoreBuilt creates a Store over the given sources and builds it.
func TestStoreBuilt(t *testing.T, sources ...Source) *Store {
	t.Helper()
	opts := make([]Option, len(sources))
	for i, src := range sources {
		opts[i] = WithSource(src)
	}
	s := TestStore(t, opts...)
	_, err := s.Build(context.Background())
	require.NoError(t, err, "failed to build test store")
	return s
}

// TestFile writes content to a file called name in a fresh temporary
// directory and returns its path.
func TestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600), "failed to create test file")
	return path
}

// TestJSONFile writes content to config.json in a temporary directory.
func TestJSONFile(t *testing.T, content []byte) string {
	t.Helper()
	return TestFile(t, "config.json", content)
}

// TestYAMLFile writes content to config.yaml in a temporary directory.
func TestYAMLFile(t *testing.T, content []byte) string {
	t.Helper()
	return TestFile(t, "config.yaml", content)
}

// TestTOMLFile writes content to config.toml in a temporary directory.
func TestTOMLFile(t *testing.T, content []byte) string {
	t.Helper()
	return TestFile(t, "config.toml", content)
}

// AssertValue asserts that key holds the raw value expected.
func AssertValue(t *testing.T, r Reader, key, expected string) {
	t.Helper()
	got, ok := r.Lookup(key)
	assert.True(t, ok, "key %q not found", key)
	assert.Equal(t, expected, got, "unexpected value at %q", key)
}

// AssertAbsent asserts that key holds no value.
func AssertAbsent(t *testing.T, r Reader, key string) {
	t.Helper()
	_, ok := r.Lookup(key)
	assert.False(t, ok, "key %q should be absent", key)
}
