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

package validation

// Option configures a [Chain].
type Option func(*config)

// config holds chain-wide settings.
type config struct {
	maxErrors       int
	fieldNameMapper func(string) string
}

// validate checks the configuration for errors.
func (c *config) validate() error {
	if c.maxErrors < 0 {
		return ErrInvalidMaxErrors
	}

	return nil
}

// WithMaxErrors limits the number of reported failures. Every rule still
// runs; failures past the limit are dropped and the result is marked
// truncated. 0 means unlimited.
//
// Example:
//
//	chain := validation.MustChain[Mail](validation.WithMaxErrors(10))
func WithMaxErrors(maxErrors int) Option {
	return func(c *config) {
		c.maxErrors = maxErrors
	}
}

// WithFieldNameMapper transforms every reported field path.
//
// Example:
//
//	validation.WithFieldNameMapper(strings.ToLower)
func WithFieldNameMapper(mapper func(string) string) Option {
	return func(c *config) {
		c.fieldNameMapper = mapper
	}
}
