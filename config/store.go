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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/settings/config/codec"
	"rivaas.dev/settings/config/dumper"
	"rivaas.dev/settings/config/keypath"
	"rivaas.dev/settings/config/source"
)

// Option is a functional option that can be used to configure a Store instance.
type Option func(s *Store) error

// layer is a registered source and its merge position.
type layer struct {
	src        Source
	name       string
	precedence int
}

// Store merges configuration from an ordered list of sources.
//
// Sources are merged leaf by leaf in ascending precedence; a source with a
// higher precedence overrides the individual leaves it defines and leaves
// all others alone. Sources with equal precedence merge in registration
// order.
//
// Readers always see the last published [Snapshot]; merging never blocks
// them and they never observe a partially merged state. Merges and
// publication are serialized.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu      sync.Mutex // guards layers and dumpers
	layers  []layer
	dumpers []Dumper

	buildMu sync.Mutex // serializes Merge
	version atomic.Uint64
	current atomic.Pointer[Snapshot]

	logger *slog.Logger
}

// WithSource registers src after every source registered so far.
func WithSource(src Source) Option {
	return func(s *Store) error {
		return s.Add(src)
	}
}

// WithSourceAt registers src with an explicit precedence.
func WithSourceAt(src Source, precedence int) Option {
	return func(s *Store) error {
		return s.RegisterSource(src, precedence)
	}
}

// WithFile returns an Option that loads configuration from a required file.
// The format is automatically detected from the file extension (.yaml, .yml, .json, .toml, .env).
// For files without extensions or custom formats, use WithFileAs instead.
//
// Paths support environment variable expansion using ${VAR} or $VAR syntax.
// Example: "${CONFIG_DIR}/app.yaml" expands to "/etc/myapp/app.yaml" when CONFIG_DIR=/etc/myapp
//
// Example:
//
//	store := config.MustNew(
//	    config.WithFile("appsettings.json"),
//	    config.WithOptionalFile("appsettings.Development.json"),
//	)
func WithFile(path string, opts ...source.FileOption) Option {
	return func(s *Store) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-source", "detect-format", err)
		}

		return withFile(s, path, format, opts)
	}
}

// WithOptionalFile is WithFile for a file that may be missing.
// A missing file contributes nothing; a malformed one still fails.
func WithOptionalFile(path string, opts ...source.FileOption) Option {
	return WithFile(path, append([]source.FileOption{source.Optional()}, opts...)...)
}

// WithFileAs returns an Option that loads configuration from a file with explicit format.
// Use this when the file doesn't have an extension or when you need to override the format detection.
//
// Example:
//
//	store := config.MustNew(
//	    config.WithFileAs("settings", codec.TypeYAML),
//	)
func WithFileAs(path string, codecType codec.Type, opts ...source.FileOption) Option {
	return func(s *Store) error {
		return withFile(s, os.ExpandEnv(path), codecType, opts)
	}
}

func withFile(s *Store, path string, codecType codec.Type, opts []source.FileOption) error {
	decoder, err := codec.GetDecoder(codecType)
	if err != nil {
		return NewError("file-source", "get-decoder", err)
	}

	return s.Add(source.NewFile(path, decoder, opts...))
}

// WithContent returns an Option that loads configuration from a byte slice.
// The codecType parameter specifies the format of the data (e.g., codec.TypeJSON, codec.TypeYAML).
//
// Example:
//
//	store := config.MustNew(
//	    config.WithContent([]byte(`{"Mail":{"Port":25}}`), codec.TypeJSON),
//	)
func WithContent(data []byte, codecType codec.Type) Option {
	return func(s *Store) error {
		decoder, err := codec.GetDecoder(codecType)
		if err != nil {
			return NewError("content-source", "get-decoder", err)
		}

		return s.Add(source.NewContent(data, decoder))
	}
}

// WithEnv returns an Option that loads configuration from environment variables
// starting with prefix. A double underscore separates key segments.
//
// Example:
//
//	store := config.MustNew(
//	    config.WithFile("appsettings.json"),
//	    config.WithEnv(""),  // MAIL__PORT=587 overrides Mail:Port
//	)
func WithEnv(prefix string, opts ...source.EnvOption) Option {
	return func(s *Store) error {
		return s.Add(source.NewEnv(prefix, opts...))
	}
}

// WithArgs returns an Option that loads configuration from command-line
// arguments such as --Mail:Port=587.
func WithArgs(args []string, opts ...source.ArgsOption) Option {
	return func(s *Store) error {
		return s.Add(source.NewArgs(args, opts...))
	}
}

// WithConsul returns an Option that loads configuration from a Consul key.
// The format is automatically detected from the path extension.
// For custom formats, use WithConsulAs instead.
//
// If CONSUL_HTTP_ADDR is not set, this option is silently skipped, allowing
// development without Consul while requiring it in production environments.
//
// Required environment variables (production only):
//   - CONSUL_HTTP_ADDR: The address of the Consul server (e.g., "http://localhost:8500")
//   - CONSUL_HTTP_TOKEN: The access token for authentication with Consul (optional)
func WithConsul(path string) Option {
	return func(s *Store) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("consul-source", "detect-format", err)
		}

		return withConsul(s, path, format)
	}
}

// WithConsulAs is WithConsul with an explicit format, for example
// codec.TypeCasterInt for a key holding a single number.
func WithConsulAs(path string, codecType codec.Type) Option {
	return func(s *Store) error {
		return withConsul(s, os.ExpandEnv(path), codecType)
	}
}

func withConsul(s *Store, path string, codecType codec.Type) error {
	if os.Getenv("CONSUL_HTTP_ADDR") == "" {
		return nil
	}

	decoder, err := codec.GetDecoder(codecType)
	if err != nil {
		return NewError("consul-source", "get-decoder", err)
	}

	src, err := source.NewConsul(path, decoder, nil)
	if err != nil {
		return NewError("consul-source", "create-client", err)
	}

	return s.Add(src)
}

// WithDumper adds a dumper that receives the merged tree on [Store.Dump].
func WithDumper(d Dumper) Option {
	return func(s *Store) error {
		if d == nil {
			return errors.New("dumper cannot be nil")
		}
		s.mu.Lock()
		s.dumpers = append(s.dumpers, d)
		s.mu.Unlock()
		return nil
	}
}

// WithFileDumper returns an Option that dumps the merged tree to a file.
// The format is automatically detected from the file extension.
//
// Paths support environment variable expansion using ${VAR} or $VAR syntax.
func WithFileDumper(path string, opts ...dumper.Option) Option {
	return func(s *Store) error {
		path = os.ExpandEnv(path)

		format, err := detectFormat(path)
		if err != nil {
			return NewError("file-dumper", "detect-format", err)
		}

		return WithFileDumperAs(path, format, opts...)(s)
	}
}

// WithFileDumperAs returns an Option that dumps the merged tree to a file with explicit format.
func WithFileDumperAs(path string, codecType codec.Type, opts ...dumper.Option) Option {
	return func(s *Store) error {
		encoder, err := codec.GetEncoder(codecType)
		if err != nil {
			return NewError("file-dumper", "get-encoder", err)
		}

		return WithDumper(dumper.NewFile(os.ExpandEnv(path), encoder, opts...))(s)
	}
}

// WithLogger sets the logger used for build and watch events.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// New creates a new Store with the provided options.
// If any of the options return an error, the errors are collected and returned
// together with the partially initialized Store.
func New(options ...Option) (*Store, error) {
	var errs error
	s := &Store{
		logger: slog.New(slog.DiscardHandler),
	}
	s.current.Store(emptySnapshot())

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return s, errs //nolint:nilnil // Returning partial store with error is intentional
}

// MustNew creates a new Store with the provided options.
// It panics if any option returns an error.
// Use this in main() or initialization code where panic is acceptable.
func MustNew(options ...Option) *Store {
	s, err := New(options...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to create store: %v", err))
	}
	return s
}

// RegisterSource adds src to the merge order at precedence. Higher
// precedence wins; equal precedence keeps registration order.
func (s *Store) RegisterSource(src Source, precedence int) error {
	if src == nil {
		return errors.New("source cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.layers = append(s.layers, layer{src: src, precedence: precedence})
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].precedence < s.layers[j].precedence
	})
	for i := range s.layers {
		s.layers[i].name = sourceName(s.layers[i].src, i)
	}

	return nil
}

// Add registers src with a precedence above every source registered so far.
func (s *Store) Add(src Source) error {
	s.mu.Lock()
	next := 0
	if n := len(s.layers); n > 0 {
		next = s.layers[n-1].precedence + 1
	}
	s.mu.Unlock()

	return s.RegisterSource(src, next)
}

// Sources returns the names of the registered sources in merge order.
func (s *Store) Sources() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.name
	}

	return names
}

func (s *Store) snapshotLayers() []layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]layer(nil), s.layers...)
}

// Merge loads every source in merge order and folds their entries into a
// new snapshot, leaf by leaf. The snapshot is not published; see
// [Store.Publish] and [Store.Build].
//
// Errors:
//   - Returns the context error if ctx is done between sources
//   - Returns [*Error] wrapping the source error if any source fails to load
func (s *Store) Merge(ctx context.Context) (*Snapshot, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	layers := s.snapshotLayers()
	values := make(map[string]Value)

	for i, l := range layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := l.src.Load(ctx)
		if err != nil {
			s.logger.Warn("config source failed to load", "source", l.name, "error", err)
			return nil, NewError(l.name, "load", err)
		}

		for _, e := range entries {
			path := keypath.Parse(e.Path.String())
			if path.IsRoot() {
				continue
			}
			values[path.Canonical()] = Value{
				Path:   path,
				Raw:    e.Value,
				Source: l.name,
				Layer:  i,
			}
		}
	}

	snap := newSnapshot(values, s.version.Add(1))
	s.logger.Debug("config merged",
		"sources", len(layers),
		"keys", snap.Len(),
		"version", snap.Version(),
		"duration", time.Since(start),
	)

	return snap, nil
}

// Publish makes snap the snapshot seen by readers and reports whether it
// did. A nil snapshot, or one not newer than the current snapshot, is
// ignored, so a slow publisher never replaces a newer merge.
func (s *Store) Publish(snap *Snapshot) bool {
	if snap == nil {
		return false
	}
	for {
		cur := s.current.Load()
		if cur != nil && snap.Version() <= cur.Version() {
			return false
		}
		if s.current.CompareAndSwap(cur, snap) {
			return true
		}
	}
}

// Build merges and publishes. On error the previously published snapshot
// stays in place.
func (s *Store) Build(ctx context.Context) (*Snapshot, error) {
	snap, err := s.Merge(ctx)
	if err != nil {
		return nil, err
	}
	s.Publish(snap)

	return snap, nil
}

// MustBuild builds or panics on error.
// Use this in main() or initialization code where panic is acceptable.
func (s *Store) MustBuild(ctx context.Context) *Snapshot {
	snap, err := s.Build(ctx)
	if err != nil {
		panic(fmt.Sprintf("config: failed to build: %v", err))
	}
	return snap
}

// Snapshot returns the published snapshot. Before the first build it is
// empty.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Root returns the whole published snapshot as a section.
func (s *Store) Root() *Section {
	return s.Snapshot().Root()
}

// Lookup returns the raw value at key in the published snapshot.
func (s *Store) Lookup(key string) (string, bool) {
	return s.Snapshot().Lookup(key)
}

// Get returns the raw value at key, or "" if it is absent.
func (s *Store) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// Section returns the sub-tree at key of the published snapshot.
func (s *Store) Section(key string) *Section {
	return s.Snapshot().Section(key)
}

// RequiredSection is Section for a key that must exist.
//
// Errors:
//   - Returns [*Error] wrapping [ErrSectionNotFound] if nothing lives at or below key
func (s *Store) RequiredSection(key string) (*Section, error) {
	sec := s.Section(key)
	if !sec.Exists() {
		return nil, NewFieldError("store", keypath.Canonical(key), "section", ErrSectionNotFound)
	}

	return sec, nil
}

// Provenance returns the leaf at key together with its source.
func (s *Store) Provenance(key string) (Value, bool) {
	return s.Snapshot().Provenance(key)
}

// Watch installs onChange on every source that implements [Watcher] and
// returns how many were installed. Listeners stop when ctx is done.
//
// Errors:
//   - Returns [*Error] for every watcher that could not be installed; the
//     others stay installed
func (s *Store) Watch(ctx context.Context, onChange func()) (int, error) {
	var (
		errs      error
		installed int
	)
	for _, l := range s.snapshotLayers() {
		w, ok := l.src.(Watcher)
		if !ok {
			continue
		}
		if err := w.Watch(ctx, onChange); err != nil {
			errs = errors.Join(errs, NewError(l.name, "watch", err))
			continue
		}
		installed++
		s.logger.Debug("watching config source", "source", l.name)
	}

	return installed, errs
}

// Dump writes the published tree to every registered dumper.
//
// Errors:
//   - Returns [*Error] for the first dumper that fails
func (s *Store) Dump(ctx context.Context) error {
	s.mu.Lock()
	dumpers := append([]Dumper(nil), s.dumpers...)
	s.mu.Unlock()

	tree := s.Snapshot().Tree()
	for i, d := range dumpers {
		if err := d.Dump(ctx, tree); err != nil {
			return NewError(fmt.Sprintf("dumper[%d]", i), "dump", err)
		}
	}

	return nil
}

// MustDump writes configuration to dumpers or panics on error.
func (s *Store) MustDump(ctx context.Context) {
	if err := s.Dump(ctx); err != nil {
		panic(fmt.Sprintf("config: failed to dump: %v", err))
	}
}
