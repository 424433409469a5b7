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
	"sort"
	"strconv"
	"strings"

	"rivaas.dev/settings/config/keypath"
)

// Value is a merged leaf together with the source that supplied it.
type Value struct {
	// Path is the key path as spelled by the winning source.
	Path keypath.Path
	// Raw is the unconverted string value.
	Raw string
	// Source names the winning source.
	Source string
	// Layer is the position of the winning source in merge order.
	Layer int
}

// Snapshot is an immutable result of merging every registered source.
// Snapshots are safe for concurrent use and never change after they have
// been built; a rebuild produces a new snapshot.
type Snapshot struct {
	values  map[string]Value
	keys    []string
	version uint64
}

func newSnapshot(values map[string]Value, version uint64) *Snapshot {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Snapshot{values: values, keys: keys, version: version}
}

func emptySnapshot() *Snapshot {
	return newSnapshot(map[string]Value{}, 0)
}

// Version is incremented for every snapshot a store merges. The empty
// snapshot of a store that has never been built has version 0.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of leaves.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// Keys returns the canonical keys of all leaves in sorted order.
func (s *Snapshot) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Entries returns every leaf sorted by canonical key.
func (s *Snapshot) Entries() []Value {
	out := make([]Value, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.values[k]
	}

	return out
}

// Lookup returns the raw value stored at key.
func (s *Snapshot) Lookup(key string) (string, bool) {
	v, ok := s.values[keypath.Canonical(key)]
	return v.Raw, ok
}

// Provenance returns the leaf stored at key, including its source.
func (s *Snapshot) Provenance(key string) (Value, bool) {
	v, ok := s.values[keypath.Canonical(key)]
	return v, ok
}

// Root returns the section spanning the whole snapshot.
func (s *Snapshot) Root() *Section {
	return &Section{snap: s}
}

// Section returns the sub-tree rooted at key. The section exists even if
// no leaf lives under key; see [Section.Exists].
func (s *Snapshot) Section(key string) *Section {
	return s.Root().Section(key)
}

// Tree returns the snapshot as a nested map. See [Section.Tree].
func (s *Snapshot) Tree() map[string]any {
	return s.Root().Tree()
}

// under returns the canonical keys strictly below prefix, in order.
func (s *Snapshot) under(prefix string) []string {
	if prefix == "" {
		return s.keys
	}

	lead := prefix + keypath.Delimiter
	start := sort.SearchStrings(s.keys, lead)
	end := start
	for end < len(s.keys) && strings.HasPrefix(s.keys[end], lead) {
		end++
	}

	return s.keys[start:end]
}

// Section is a read-only view of the leaves below a key path of one
// snapshot. Keys passed to its methods are relative to that path.
//
// A section keeps the snapshot it was taken from: it does not observe
// later rebuilds.
type Section struct {
	snap *Snapshot
	path keypath.Path
}

// Path returns the absolute path of the section.
func (s *Section) Path() keypath.Path {
	return keypath.New(s.path...)
}

// Key returns the last segment of the section path, or "" for the root.
func (s *Section) Key() string {
	return s.path.Last()
}

// Snapshot returns the snapshot the section belongs to.
func (s *Section) Snapshot() *Snapshot {
	return s.snap
}

// Value returns the leaf stored at the section path itself.
func (s *Section) Value() (string, bool) {
	v, ok := s.snap.values[s.path.Canonical()]
	return v.Raw, ok
}

// Exists reports whether the section has a value or any leaf below it.
func (s *Section) Exists() bool {
	if _, ok := s.Value(); ok {
		return true
	}

	return len(s.snap.under(s.path.Canonical())) > 0
}

func (s *Section) abs(key string) keypath.Path {
	return s.path.Append(keypath.Parse(key))
}

// Lookup returns the raw value at key.
func (s *Section) Lookup(key string) (string, bool) {
	v, ok := s.snap.values[s.abs(key).Canonical()]
	return v.Raw, ok
}

// Get returns the raw value at key, or "" if it is absent.
func (s *Section) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// Provenance returns the leaf at key, including the source that supplied it.
func (s *Section) Provenance(key string) (Value, bool) {
	v, ok := s.snap.values[s.abs(key).Canonical()]
	return v, ok
}

// Section returns the sub-section at key.
func (s *Section) Section(key string) *Section {
	return &Section{snap: s.snap, path: s.abs(key)}
}

// Children returns the immediate sub-sections, ordered by key. Numeric keys
// produced by arrays are ordered numerically.
func (s *Section) Children() []*Section {
	depth := len(s.path)
	seen := make(map[string]struct{})

	var children []*Section
	for _, k := range s.snap.under(s.path.Canonical()) {
		v := s.snap.values[k]
		name := v.Path[depth]
		canon := strings.ToLower(name)
		if _, ok := seen[canon]; ok {
			continue
		}
		seen[canon] = struct{}{}
		children = append(children, &Section{snap: s.snap, path: s.path.Join(name)})
	}

	sort.SliceStable(children, func(i, j int) bool {
		return segmentLess(children[i].Key(), children[j].Key())
	})

	return children
}

// Entries returns the leaves below the section with paths relative to it,
// sorted by canonical key. A value stored at the section path itself is
// not included.
func (s *Section) Entries() []Value {
	keys := s.snap.under(s.path.Canonical())
	out := make([]Value, len(keys))
	for i, k := range keys {
		v := s.snap.values[k]
		v.Path, _ = v.Path.TrimPrefix(s.path)
		out[i] = v
	}

	return out
}

// Map returns the leaves below the section as canonical relative key to
// raw value.
func (s *Section) Map() map[string]string {
	entries := s.Entries()
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Path.Canonical()] = e.Raw
	}

	return out
}

// Tree returns the leaves below the section as nested maps, using the key
// spelling of the winning sources. Nested maps whose keys are exactly
// 0..n-1 are returned as []any. When a key holds both a value and
// children, the children win.
func (s *Section) Tree() map[string]any {
	return s.tree().buildMap()
}

func (s *Section) tree() *node {
	root := newNode()
	for _, e := range s.Entries() {
		root.insert(e.Path, e.Raw)
	}

	return root
}

type node struct {
	name     string
	value    string
	children map[string]*node
	order    []string
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) insert(path keypath.Path, value string) {
	cur := n
	for _, seg := range path {
		canon := strings.ToLower(seg)
		child, ok := cur.children[canon]
		if !ok {
			child = newNode()
			child.name = seg
			cur.children[canon] = child
			cur.order = append(cur.order, canon)
		}
		cur = child
	}
	cur.value = value
}

func (n *node) build() any {
	if len(n.children) == 0 {
		return n.value
	}

	if n.isList() {
		list := make([]any, len(n.children))
		for i := range list {
			list[i] = n.children[strconv.Itoa(i)].build()
		}
		return list
	}

	return n.buildMap()
}

func (n *node) buildMap() map[string]any {
	m := make(map[string]any, len(n.children))
	for _, canon := range n.order {
		child := n.children[canon]
		m[child.name] = child.build()
	}

	return m
}

func (n *node) isList() bool {
	for i := range len(n.children) {
		if _, ok := n.children[strconv.Itoa(i)]; !ok {
			return false
		}
	}

	return true
}

func segmentLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}

	return strings.ToLower(a) < strings.ToLower(b)
}
