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

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// TypeJSON identifies the JSON codec.
const TypeJSON Type = "json"

func init() {
	Register(TypeJSON, JSONCodec{})
}

// JSONCodec encodes and decodes JSON documents.
//
// Numbers are decoded as [json.Number] so that the literal text of a value
// ("25", "1.50") survives flattening unchanged.
type JSONCodec struct{}

// Encode marshals v as indented JSON. Map keys are emitted in sorted order.
func (JSONCodec) Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Decode unmarshals exactly one JSON value from data into v.
// Trailing content after the value is a syntax error.
func (JSONCodec) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &SyntaxError{Offset: dec.InputOffset(), Msg: "invalid character after top-level value"}
	}

	return nil
}
