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
	"os"
	"sort"
	"strings"

	"rivaas.dev/settings/config/codec"
	"rivaas.dev/settings/config/keypath"
)

// EnvOption configures an [Env] source.
type EnvOption func(*Env)

// WithSeparator sets the string that separates key segments in variable
// names. The default is [codec.DefaultEnvSeparator] ("__").
func WithSeparator(sep string) EnvOption {
	return func(e *Env) {
		e.codec.Separator = sep
	}
}

// WithEnviron replaces os.Environ as the variable provider.
func WithEnviron(environ func() []string) EnvOption {
	return func(e *Env) {
		e.environ = environ
	}
}

// Env loads configuration from environment variables.
//
// With prefix "APP_", APP_MAIL__PORT=587 becomes MAIL.PORT=587, which matches
// Mail.Port case-insensitively. Paths keep the variable's spelling. The prefix
// is matched case-insensitively and stripped; variables without it are
// ignored. Names that are empty after splitting are ignored too.
type Env struct {
	prefix  string
	codec   codec.EnvVarCodec
	environ func() []string
}

// NewEnv creates an environment source for variables starting with prefix.
// An empty prefix selects every variable.
func NewEnv(prefix string, opts ...EnvOption) *Env {
	e := &Env{
		prefix:  prefix,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Name identifies the source in provenance records and errors.
func (e *Env) Name() string {
	if e.prefix == "" {
		return "env"
	}

	return "env:" + e.prefix
}

// Load returns one entry per selected variable, sorted by key.
// When two variables map to the same key in different case, the one that
// sorts last by name wins.
func (e *Env) Load(context.Context) ([]Entry, error) {
	vars := append([]string(nil), e.environ()...)
	sort.Strings(vars)

	entries := make([]Entry, 0, len(vars))
	for _, kv := range vars {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hasPrefixFold(name, e.prefix) {
			continue
		}

		path := e.Path(name[len(e.prefix):])
		if path.IsRoot() {
			continue
		}
		entries = append(entries, Entry{Path: path, Value: value})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key() < entries[j].Key()
	})

	return entries, nil
}

// Path converts an unprefixed variable name into a key path.
// Segments may also use the ':' delimiter, so Mail:Port works as well as
// Mail__Port where the platform allows it.
func (e *Env) Path(name string) keypath.Path {
	var path keypath.Path
	for _, part := range e.codec.Split(name) {
		path = path.Append(keypath.Parse(part))
	}

	return path
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
