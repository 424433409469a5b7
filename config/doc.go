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

// Package config provides a layered configuration store.
//
// A [Store] owns an ordered list of sources: files, environment variables,
// command-line arguments, in-memory content and Consul keys. Building the
// store loads every source and merges their leaves into an immutable
// [Snapshot]. Later sources override earlier ones one leaf at a time, so a
// sub-tree defined partly by two sources is merged field by field. All keys
// are case-insensitive and accept either '.' or ':' as delimiter.
//
// # Key Features
//
//   - Per-leaf layering with explicit precedence
//   - Automatic format detection and decoding (JSON, YAML, TOML, .env)
//   - Case-insensitive hierarchical keys with section extraction
//   - Provenance: every value records the source that supplied it
//   - Immutable snapshots published atomically; readers never block
//   - File and Consul change notifications
//   - Configuration dumping to files or custom destinations
//
// # Quick Start
//
// Create a store with sources. Registration order is precedence:
//
//	store := config.MustNew(
//	    config.WithFile("appsettings.json"),
//	    config.WithOptionalFile("appsettings.Development.json"),
//	    config.WithEnv(""),
//	    config.WithArgs(os.Args[1:]),
//	)
//
// Build the store:
//
//	if _, err := store.Build(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Access configuration values:
//
//	name := store.Get("AppName")
//	port := store.Int("Kestrel:Endpoints:Http:UrlPort")
//	mail, err := store.RequiredSection("Mail")
//
// # Configuration Sources
//
// Files with automatic format detection:
//
//	config.WithFile("config.yaml")     // Detects YAML
//	config.WithFile("config.json")     // Detects JSON
//	config.WithFile("config.toml")     // Detects TOML
//	config.WithFile(".env")            // KEY=VALUE lines
//
// Files with explicit format:
//
//	config.WithFileAs("config", codec.TypeYAML)
//
// Environment variables, where a double underscore separates segments:
//
//	config.WithEnv("APP_")  // APP_MAIL__PORT is Mail.Port
//
// Command-line arguments:
//
//	config.WithArgs(os.Args[1:])  // --Mail:Port=587, --Mail.Port 587, /Mail:Port=587
//
// Consul key-value store:
//
//	config.WithConsul("production/service.yaml")
//
// # Snapshots and Sections
//
// [Store.Build] is [Store.Merge] followed by [Store.Publish]. A failed
// merge leaves the published snapshot untouched. A [Section] is a view of
// one snapshot below a key path; it keeps reading that snapshot after the
// store has been rebuilt.
//
//	sec := store.Section("Mail")
//	sec.Get("Port")          // "587"
//	sec.Map()                // map[from:x@a.com host:a.com port:587]
//	sec.Provenance("Port")   // Value{Source: "env", ...}
//
// Typed access uses the cast library:
//
//	port := config.Get[int](store, "Mail:Port")
//	hosts := config.GetOr(store, "Hosts", []string{"localhost"})
//
// Binding sections into typed objects lives in the bind package; validation
// in the validation package; change monitoring in the monitor package.
//
// # Error Handling
//
// Source failures are returned as [*Error] wrapping a source error, which
// in turn matches [source.ErrSourceUnavailable] or [source.ErrSourceMalformed]:
//
//	if _, err := store.Build(ctx); errors.Is(err, source.ErrSourceMalformed) {
//	    // fix the file
//	}
package config
