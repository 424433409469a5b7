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

// Package binding turns a configuration section into a typed value.
//
// Two binders are provided. [Schema] declares every field explicitly with
// a key and a setter, so binding needs no reflection and every problem
// is reported against the field that caused it:
//
//	type Mail struct {
//	    Host string
//	    Port int
//	    From string
//	}
//
//	schema := binding.NewSchema(
//	    binding.String("Host", func(m *Mail, v string) { m.Host = v }),
//	    binding.Int("Port", func(m *Mail, v int) { m.Port = v }).Default("25"),
//	    binding.String("From", func(m *Mail, v string) { m.From = v }),
//	)
//
//	mail, err := schema.Bind(store.Section("Mail"))
//
// [Struct] decodes the section into a tagged struct with mapstructure:
//
//	type Mail struct {
//	    Host string `config:"host,required"`
//	    Port int    `config:"port" default:"25"`
//	}
//
//	mail, err := binding.MustStruct[Mail]().Bind(store.Section("Mail"))
//
// # Errors
//
// Binding never stops at the first problem. A failed bind returns an
// [*Error] listing one [*FieldError] per offending field, and no partially
// filled value. Use errors.Is with [ErrMissingRequired] or
// [ErrTypeMismatch] to classify the failure.
//
// # Coercion
//
// Raw values are strings. Schema fields convert them as follows:
//   - String: unchanged
//   - Int, Int64: base-10 integers
//   - Bool: "true" or "false", case-insensitive
//   - Float64, Duration: via spf13/cast
//   - Strings: the values of array children, or a comma-separated list
//
// [Custom] accepts any parse function, such as the ones returned by
// [TimeConverter], [DurationConverter], [EnumConverter] and
// [BoolConverter].
package binding
