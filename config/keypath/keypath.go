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

// Package keypath implements hierarchical, case-insensitive configuration keys.
//
// A [Path] is an ordered list of segments such as ["Mail", "Port"]. Textual
// keys accept either '.' or ':' as the segment delimiter, so "Mail:Port",
// "mail.port" and "MAIL.PORT" all address the same value. Two paths are equal
// when every segment is equal under Unicode case folding.
//
// The canonical form of a path (see [Path.Canonical]) is the lower-cased
// segments joined with [Delimiter]. It is used as the map key inside the
// layered store.
package keypath

import (
	"strings"
)

// Delimiter joins segments in the canonical and display forms of a path.
const Delimiter = "."

// Path is an ordered sequence of key segments.
// The zero value is the root path.
type Path []string

// New returns a path made of the given segments. Empty segments are dropped.
func New(segments ...string) Path {
	p := make(Path, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			p = append(p, s)
		}
	}

	return p
}

// Parse splits a textual key on '.' and ':' delimiters.
// Empty segments are dropped, so "Mail::Port" and ".mail.port." parse to
// the same path as "Mail:Port".
func Parse(key string) Path {
	if key == "" {
		return Path{}
	}

	return New(strings.FieldsFunc(key, isDelimiter)...)
}

func isDelimiter(r rune) bool {
	return r == '.' || r == ':'
}

// Canonical returns the lower-cased canonical form of a textual key.
func Canonical(key string) string {
	return Parse(key).Canonical()
}

// String returns the segments joined with [Delimiter], preserving case.
func (p Path) String() string {
	return strings.Join(p, Delimiter)
}

// Canonical returns the lower-cased segments joined with [Delimiter].
func (p Path) Canonical() string {
	return strings.ToLower(p.String())
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Last returns the final segment, or "" for the root path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// Parent returns the path without its final segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}

	return p.clone()[:len(p)-1]
}

// Join returns a new path with the segments appended.
// The receiver is never modified.
func (p Path) Join(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)

	return append(out, New(segments...)...)
}

// Append returns a new path with all segments of q appended.
func (p Path) Append(q Path) Path {
	return p.Join(q...)
}

// Equal reports whether both paths have the same segments, ignoring case.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !strings.EqualFold(p[i], q[i]) {
			return false
		}
	}

	return true
}

// HasPrefix reports whether prefix is a leading sub-path of p.
// The root path is a prefix of every path.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}

	return p[:len(prefix)].Equal(prefix)
}

// TrimPrefix returns p relative to prefix and true, or nil and false if
// prefix is not a prefix of p.
func (p Path) TrimPrefix(prefix Path) (Path, bool) {
	if !p.HasPrefix(prefix) {
		return nil, false
	}

	return p.clone()[len(prefix):], true
}

func (p Path) clone() Path {
	out := make(Path, len(p))
	copy(out, p)

	return out
}
