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

//go:build !integration

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typedStore(t *testing.T) *Store {
	t.Helper()
	return TestStoreBuilt(t, TestSource("a", map[string]string{
		"port":        "587",
		"ratio":       "1.5",
		"debug":       "TRUE",
		"timeout":     "5s",
		"started":     "2025-01-02T03:04:05Z",
		"hosts:0":     "a",
		"hosts:1":     "b",
		"ports:0":     "25",
		"ports:1":     "587",
		"tags":        "x, y ,z",
		"mail:host":   "a.com",
		"mail:port":   "25",
		"name":        "demo",
		"bad":         "abc",
		"empty":       "",
		"big":         "9000000000",
		"kestrel:url": "http://localhost:5000",
	}))
}

func TestGet(t *testing.T) {
	t.Parallel()

	store := typedStore(t)

	assert.Equal(t, 587, Get[int](store, "port"))
	assert.Equal(t, int64(9000000000), Get[int64](store, "big"))
	assert.InDelta(t, 1.5, Get[float64](store, "ratio"), 1e-9)
	assert.True(t, Get[bool](store, "debug"))
	assert.Equal(t, 5*time.Second, Get[time.Duration](store, "timeout"))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), Get[time.Time](store, "started").UTC())
	assert.Equal(t, "demo", Get[string](store, "name"))
	assert.Equal(t, []string{"a", "b"}, Get[[]string](store, "hosts"))
	assert.Equal(t, []int{25, 587}, Get[[]int](store, "ports"))
	assert.Equal(t, []string{"x", "y", "z"}, Get[[]string](store, "tags"))
	assert.Equal(t, map[string]any{"host": "a.com", "port": "25"}, Get[map[string]any](store, "mail"))
	assert.Equal(t, map[string]string{"host": "a.com", "port": "25"}, Get[map[string]string](store, "mail"))
}

func TestGet_MissingOrInvalidReturnsZero(t *testing.T) {
	t.Parallel()

	store := typedStore(t)

	assert.Zero(t, Get[int](store, "missing"))
	assert.Zero(t, Get[int](store, "bad"))
	assert.Equal(t, []string{}, Get[[]string](store, "missing"))
	assert.Equal(t, map[string]any{}, Get[map[string]any](store, "missing"))
}

func TestGetOr(t *testing.T) {
	t.Parallel()

	store := typedStore(t)

	assert.Equal(t, 587, GetOr(store, "port", 25))
	assert.Equal(t, 25, GetOr(store, "missing", 25))
	assert.Equal(t, 25, GetOr(store, "bad", 25))
	assert.Equal(t, "localhost", GetOr(store, "missing", "localhost"))
	assert.Equal(t, []string{"a", "b"}, GetOr(store, "hosts", []string{"z"}))
}

func TestGetE(t *testing.T) {
	t.Parallel()

	store := typedStore(t)

	v, err := GetE[int](store, "Mail:Port")
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	_, err = GetE[int](store, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "missing" not found`)

	_, err = GetE[int](store, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot convert")

	type custom struct{}
	_, err = GetE[custom](store, "name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported target type")

	var nilStore *Store
	_, err = GetE[int](nilStore, "port")
	require.Error(t, err)
}

func TestGet_OnSectionAndSnapshot(t *testing.T) {
	t.Parallel()

	store := typedStore(t)

	assert.Equal(t, 25, Get[int](store.Section("mail"), "port"))
	assert.Equal(t, "http://localhost:5000", Get[string](store.Snapshot(), "Kestrel:Url"))
}

func TestTypedGetters(t *testing.T) {
	t.Parallel()

	store := typedStore(t)
	sec := store.Root()

	assert.Equal(t, "demo", store.String("name"))
	assert.Equal(t, 587, store.Int("port"))
	assert.Equal(t, int64(9000000000), store.Int64("big"))
	assert.InDelta(t, 1.5, store.Float64("ratio"), 1e-9)
	assert.True(t, store.Bool("debug"))
	assert.Equal(t, 5*time.Second, store.Duration("timeout"))
	assert.Equal(t, []string{"a", "b"}, store.StringSlice("hosts"))
	assert.Equal(t, []int{25, 587}, sec.IntSlice("ports"))
	assert.Equal(t, map[string]any{"host": "a.com", "port": "25"}, sec.StringMap("mail"))
	assert.Equal(t, 2025, sec.Time("started").Year())

	assert.Equal(t, "fallback", store.StringOr("missing", "fallback"))
	assert.Empty(t, store.StringOr("empty", "fallback"), "present but empty is not missing")
	assert.Equal(t, 8080, store.IntOr("missing", 8080))
	assert.True(t, store.BoolOr("missing", true))
	assert.Equal(t, time.Minute, store.DurationOr("missing", time.Minute))
	assert.Equal(t, int64(7), sec.Int64Or("missing", 7))
	assert.InDelta(t, 0.5, sec.Float64Or("missing", 0.5), 1e-9)
	assert.Equal(t, []string{"d"}, sec.StringSliceOr("missing", []string{"d"}))
}
