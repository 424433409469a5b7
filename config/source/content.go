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

	"rivaas.dev/settings/config/codec"
)

// Content loads configuration from an in-memory document.
type Content struct {
	name    string
	data    []byte
	decoder codec.Decoder
}

// NewContent creates a source that decodes data with decoder.
// The bytes are copied, so later changes to data are not observed.
func NewContent(data []byte, decoder codec.Decoder) *Content {
	return &Content{
		name:    "content",
		data:    append([]byte(nil), data...),
		decoder: decoder,
	}
}

// Named sets the name used in provenance records and errors.
func (c *Content) Named(name string) *Content {
	c.name = name
	return c
}

// Name identifies the source in provenance records and errors.
func (c *Content) Name() string {
	return c.name
}

// Load decodes the content. Decoding failures wrap [ErrSourceMalformed].
func (c *Content) Load(context.Context) ([]Entry, error) {
	var tree map[string]any
	if err := c.decoder.Decode(c.data, &tree); err != nil {
		return nil, Malformed(c.name, c.data, err)
	}

	return Flatten(tree), nil
}
