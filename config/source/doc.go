// Copyright 2025 The Rivaas Authors
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

// Package source provides configuration source implementations.
//
// A source loads one origin, such as a file, the process environment, the
// command line or a Consul key, and returns it as a sorted list of [Entry]
// values: one key path and string value per leaf. Nested documents are
// flattened with [Flatten]; arrays contribute index segments.
//
// # Available Sources
//
//   - File: a JSON, YAML, TOML or .env file; can be optional and watched
//   - Content: an in-memory document
//   - Env: environment variables, MAIL__PORT addresses Mail.Port
//   - Args: command-line arguments such as --Mail:Port=587
//   - Consul: a document or scalar stored in Consul's key-value store
//
// # Errors
//
// Load failures are reported as [*Error] and match either
// [ErrSourceUnavailable] or [ErrSourceMalformed] with errors.Is.
//
// # Example
//
//	decoder, _ := codec.GetDecoder(codec.TypeJSON)
//	entries, err := source.NewFile("appsettings.json", decoder).Load(ctx)
//
//	entries, err = source.NewEnv("APP_").Load(ctx)
package source
