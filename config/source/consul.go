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
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/settings/config/codec"
	"rivaas.dev/settings/config/keypath"
)

// ConsulKV defines the interface for Consul key-value operations.
// This interface enables testing by allowing mock implementations.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads configuration from a single key in Consul's key-value store.
// The value is either a whole document decoded by a structured codec (JSON,
// YAML, TOML) or a scalar decoded by a [codec.CasterCodec], in which case it
// is stored under the last segment of the Consul key.
//
// The Consul client is configured using environment variables:
//   - CONSUL_HTTP_ADDR: The address of the Consul server (e.g., "http://localhost:8500")
//   - CONSUL_HTTP_TOKEN: The access token for authentication (optional)
type Consul struct {
	kv        ConsulKV
	path      string
	decoder   codec.Decoder
	lastIndex atomic.Uint64

	// WaitTime bounds each blocking query issued by Watch.
	WaitTime time.Duration
	// RetryInterval is the pause after a failed blocking query.
	RetryInterval time.Duration
}

// NewConsul creates a Consul source for path. If kv is nil, the KV endpoint
// of a client built from the environment is used.
//
// Errors:
//   - Returns error if the Consul client cannot be created
func NewConsul(path string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}

	return &Consul{
		kv:            kv,
		path:          path,
		decoder:       decoder,
		WaitTime:      5 * time.Minute,
		RetryInterval: 5 * time.Second,
	}, nil
}

// Name identifies the source in provenance records and errors.
func (c *Consul) Name() string {
	return "consul:" + c.path
}

// Load fetches and decodes the key. A missing key loads as an empty source.
//
// Errors:
//   - [ErrSourceUnavailable] if the Consul query fails
//   - [ErrSourceMalformed] if decoding the value fails
func (c *Consul) Load(ctx context.Context) ([]Entry, error) {
	pair, meta, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, Unavailable(c.Name(), fmt.Errorf("failed to get consul key: %w", err))
	}
	if meta != nil {
		c.lastIndex.Store(meta.LastIndex)
	}
	if pair == nil {
		return []Entry{}, nil
	}

	if caster, ok := c.decoder.(*codec.CasterCodec); ok {
		var val any
		if err = caster.Decode(pair.Value, &val); err != nil {
			return nil, Malformed(c.Name(), nil, fmt.Errorf("failed to decode consul value: %w", err))
		}

		keyParts := strings.Split(strings.TrimSuffix(pair.Key, "/"), "/")
		key := keyParts[len(keyParts)-1]

		return []Entry{{Path: keypath.Parse(key), Value: Stringify(val)}}, nil
	}

	var tree map[string]any
	if err = c.decoder.Decode(pair.Value, &tree); err != nil {
		return nil, Malformed(c.Name(), pair.Value, fmt.Errorf("failed to decode consul value: %w", err))
	}

	return Flatten(tree), nil
}

// Watch issues blocking queries against the key and calls onChange each
// time its modify index moves past the one seen by the last Load or query.
// It returns immediately; the query loop stops when ctx is done.
func (c *Consul) Watch(ctx context.Context, onChange func()) error {
	go c.watchLoop(ctx, onChange)
	return nil
}

func (c *Consul) watchLoop(ctx context.Context, onChange func()) {
	for ctx.Err() == nil {
		index := c.lastIndex.Load()
		q := (&api.QueryOptions{WaitIndex: index, WaitTime: c.WaitTime}).WithContext(ctx)

		_, meta, err := c.kv.Get(c.path, q)
		if err != nil || meta == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.RetryInterval):
			}
			continue
		}

		switch {
		case meta.LastIndex < index:
			// The index went backwards, for example after a snapshot
			// restore. Start over.
			c.lastIndex.Store(0)
		case meta.LastIndex > index:
			c.lastIndex.Store(meta.LastIndex)
			if index != 0 {
				onChange()
			}
		}
	}
}
