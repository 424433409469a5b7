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

package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/settings/config/codec"
)

// mockConsulKV serves a fixed pair and simulates blocking queries: a query
// whose WaitIndex equals the current index waits until the value changes or
// the query context ends.
type mockConsulKV struct {
	mu      sync.Mutex
	pair    *api.KVPair
	index   uint64
	err     error
	delay   time.Duration
	changed chan struct{}
}

func newMockConsulKV(key, value string) *mockConsulKV {
	m := &mockConsulKV{index: 1, changed: make(chan struct{})}
	if value != "" {
		m.pair = &api.KVPair{Key: key, Value: []byte(value)}
	}

	return m
}

func (m *mockConsulKV) set(value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = &api.KVPair{Key: m.pair.Key, Value: []byte(value)}
	m.index++
	close(m.changed)
	m.changed = make(chan struct{})
}

func (m *mockConsulKV) Get(_ string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error) {
	ctx := q.Context()
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, nil, m.err
	}

	m.mu.Lock()
	if q.WaitIndex != 0 && q.WaitIndex == m.index {
		changed := m.changed
		m.mu.Unlock()
		select {
		case <-changed:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
		m.mu.Lock()
	}
	defer m.mu.Unlock()

	return m.pair, &api.QueryMeta{LastIndex: m.index}, nil
}

func TestConsul_LoadDocument(t *testing.T) {
	t.Parallel()

	kv := newMockConsulKV("app/config", `{"Mail":{"Host":"a.com","Port":25}}`)
	src, err := NewConsul("app/config", codec.JSONCodec{}, kv)
	require.NoError(t, err)

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Mail.Host=a.com", "Mail.Port=25"}, keys(entries))
	assert.Equal(t, "consul:app/config", src.Name())
}

func TestConsul_LoadCaster(t *testing.T) {
	t.Parallel()

	kv := newMockConsulKV("app/mail/port", "0587")
	src, err := NewConsul("app/mail/port", codec.NewCaster(codec.CastTypeString), kv)
	require.NoError(t, err)

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"port=0587"}, keys(entries))
}

func TestConsul_LoadMissingKey(t *testing.T) {
	t.Parallel()

	src, err := NewConsul("absent", codec.JSONCodec{}, newMockConsulKV("absent", ""))
	require.NoError(t, err)

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConsul_LoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("query failure is unavailable", func(t *testing.T) {
		t.Parallel()

		kv := newMockConsulKV("k", "")
		kv.err = errors.New("KV operation failed")
		src, err := NewConsul("k", codec.JSONCodec{}, kv)
		require.NoError(t, err)

		_, err = src.Load(context.Background())
		require.ErrorIs(t, err, ErrSourceUnavailable)
		assert.Contains(t, err.Error(), "KV operation failed")
	})

	t.Run("bad document is malformed", func(t *testing.T) {
		t.Parallel()

		src, err := NewConsul("k", codec.JSONCodec{}, newMockConsulKV("k", `{"foo": "bar"`))
		require.NoError(t, err)

		_, err = src.Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
		assert.Contains(t, err.Error(), "failed to decode consul value")
	})

	t.Run("bad scalar is malformed", func(t *testing.T) {
		t.Parallel()

		src, err := NewConsul("k", codec.NewCaster(codec.CastTypeInt), newMockConsulKV("k", "not-a-number"))
		require.NoError(t, err)

		_, err = src.Load(context.Background())
		require.ErrorIs(t, err, ErrSourceMalformed)
	})

	t.Run("context timeout", func(t *testing.T) {
		t.Parallel()

		kv := newMockConsulKV("k", "")
		kv.delay = 100 * time.Millisecond
		src, err := NewConsul("k", codec.JSONCodec{}, kv)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err = src.Load(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestConsul_WatchNotifiesOnIndexChange(t *testing.T) {
	t.Parallel()

	kv := newMockConsulKV("app/config", `{"a":"1"}`)
	src, err := NewConsul("app/config", codec.JSONCodec{}, kv)
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	require.NoError(t, src.Watch(ctx, func() { calls.Add(1) }))

	kv.set(`{"a":"2"}`)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a=2"}, keys(entries))
}
