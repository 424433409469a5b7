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
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cast"

	"rivaas.dev/settings/config/keypath"
)

// Entry is a single leaf value contributed by a source.
type Entry struct {
	Path  keypath.Path
	Value string
}

// Key returns the canonical form of the entry's path.
func (e Entry) Key() string {
	return e.Path.Canonical()
}

// Flatten turns a decoded document into one entry per leaf.
//
// Nested maps contribute one segment per level, or more when a key itself
// contains '.' or ':' delimiters, and arrays contribute their decimal index, so {"Hosts":["a","b"]} yields Hosts.0=a and Hosts.1=b.
// Empty maps and arrays yield nothing. Scalars are stringified: numbers
// keep their decimal form, booleans become true/false and null becomes the
// empty string.
//
// The result is sorted by canonical path. Keys that differ only in case are
// kept in byte order, so the last one wins once the entries are merged.
func Flatten(tree map[string]any) []Entry {
	entries := make([]Entry, 0, len(tree))
	entries = flatten(entries, nil, tree)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key() < entries[j].Key()
	})

	return entries
}

func flatten(dst []Entry, prefix keypath.Path, value any) []Entry {
	switch v := value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			dst = flatten(dst, prefix.Append(keypath.Parse(k)), v[k])
		}
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, child := range v {
			m[cast.ToString(k)] = child
		}
		dst = flatten(dst, prefix, m)
	case []any:
		for i, child := range v {
			dst = flatten(dst, prefix.Join(strconv.Itoa(i)), child)
		}
	case []map[string]any:
		for i, child := range v {
			dst = flatten(dst, prefix.Join(strconv.Itoa(i)), child)
		}
	default:
		if len(prefix) == 0 {
			return dst
		}
		dst = append(dst, Entry{Path: prefix, Value: Stringify(v)})
	}

	return dst
}

// Stringify renders a decoded scalar the way it is stored in a snapshot.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case time.Time:
		return s.Format(time.RFC3339Nano)
	case time.Duration:
		return s.String()
	default:
		return cast.ToString(v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
