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

// Package codec converts configuration documents between bytes and Go values.
//
// Document codecs (JSON, YAML, TOML and dotenv-style environment files)
// decode into a *map[string]any that the source package flattens into key
// paths. Scalar casters decode one value, which is how a single Consul key
// holding "587" becomes a number.
//
// Codecs are looked up by [Type] in a process-wide registry:
//
//	dec, err := codec.GetDecoder(codec.TypeYAML)
//
// Custom formats register themselves with [Register], [RegisterEncoder] or
// [RegisterDecoder], usually from an init function.
package codec
