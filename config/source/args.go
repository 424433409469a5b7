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
	"fmt"
	"sort"
	"strings"

	"rivaas.dev/settings/config/keypath"
)

// ArgsOption configures an [Args] source.
type ArgsOption func(*Args)

// WithSwitchMappings maps switches to keys, for example "-p" to "Mail:Port"
// or "--port" to "Mail:Port". Switches are matched case-insensitively.
// Single-dash switches are only accepted when they are mapped.
func WithSwitchMappings(mappings map[string]string) ArgsOption {
	return func(a *Args) {
		for sw, key := range mappings {
			a.switches[strings.ToLower(sw)] = key
		}
	}
}

// Args loads configuration from command-line arguments.
//
// Accepted forms:
//
//	--Mail:Port=587   --Mail.Port 587   /Mail:Port=587   Mail:Port=587
//
// Tokens that are neither a switch nor a key=value pair are ignored, so
// positional arguments can be mixed in, and so is a bare "--". A token
// starting with '/' is a switch only when it contains '=' or is mapped;
// otherwise it is a positional path such as /etc/app.json. When a key is
// given more than once the last occurrence wins.
type Args struct {
	args     []string
	switches map[string]string
}

// NewArgs creates a source over args, which should not include the
// program name.
func NewArgs(args []string, opts ...ArgsOption) *Args {
	a := &Args{
		args:     append([]string(nil), args...),
		switches: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Name identifies the source in provenance records and errors.
func (a *Args) Name() string {
	return "args"
}

// Load parses the arguments. A switch without a value, an unmapped
// single-dash switch or an empty key fails with [ErrSourceMalformed].
func (a *Args) Load(context.Context) ([]Entry, error) {
	index := make(map[string]int)
	var entries []Entry

	for i := 0; i < len(a.args); i++ {
		arg := a.args[i]

		key, value, consumed, err := a.parse(arg, a.args[i+1:])
		if err != nil {
			return nil, a.malformed(i, arg, err)
		}
		if key == "" {
			continue
		}

		path := keypath.Parse(key)
		if path.IsRoot() {
			return nil, a.malformed(i, arg, fmt.Errorf("empty key"))
		}
		i += consumed

		entry := Entry{Path: path, Value: value}
		if at, ok := index[entry.Key()]; ok {
			entries[at] = entry
			continue
		}
		index[entry.Key()] = len(entries)
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key() < entries[j].Key()
	})

	return entries, nil
}

// parse reads one token. It returns an empty key for tokens that carry no
// configuration and the number of following tokens used as the value.
func (a *Args) parse(arg string, rest []string) (key, value string, consumed int, err error) {
	var name string
	switch {
	case arg == "--":
		return "", "", 0, nil
	case strings.HasPrefix(arg, "-"):
		name = arg
	case strings.HasPrefix(arg, "/"):
		sw, _, hasValue := strings.Cut(arg, "=")
		switch {
		case a.mapped(sw):
			name = arg
		case hasValue || a.mapped("--"+sw[1:]):
			name = "--" + arg[1:]
		default:
			return "", "", 0, nil
		}
	default:
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return "", "", 0, nil
		}
		if k == "" {
			return "", "", 0, fmt.Errorf("empty key")
		}
		return k, v, 0, nil
	}

	sw, value, hasValue := strings.Cut(name, "=")
	key, err = a.resolve(sw)
	if err != nil {
		return "", "", 0, err
	}
	if key == "" {
		return "", "", 0, fmt.Errorf("empty key")
	}
	if hasValue {
		return key, value, 0, nil
	}

	if len(rest) == 0 {
		return "", "", 0, fmt.Errorf("missing value for %s", sw)
	}

	return key, rest[0], 1, nil
}

func (a *Args) mapped(sw string) bool {
	_, ok := a.switches[strings.ToLower(sw)]
	return ok
}

func (a *Args) resolve(sw string) (string, error) {
	if key, ok := a.switches[strings.ToLower(sw)]; ok {
		return key, nil
	}
	if strings.HasPrefix(sw, "--") {
		return sw[2:], nil
	}

	return "", fmt.Errorf("short switch %s is not mapped", sw)
}

func (a *Args) malformed(index int, arg string, err error) *Error {
	return Malformed("args", nil, fmt.Errorf("argument %d %q: %w", index, arg, err))
}
