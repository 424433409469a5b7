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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"rivaas.dev/settings/config/codec"
)

var (
	// ErrSourceUnavailable is returned when a required origin, such as a
	// mandatory file, does not exist or cannot be read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSourceMalformed is returned when an origin's content cannot be parsed.
	ErrSourceMalformed = errors.New("source malformed")
)

// Error describes a failed load. Kind is [ErrSourceUnavailable] or
// [ErrSourceMalformed]; both Kind and Err can be matched with errors.Is
// and errors.As.
type Error struct {
	Origin string // file path, "env", "args" or consul key
	Kind   error
	Offset int64 // byte offset of a syntax error, -1 when unknown
	Line   int   // 1-based line of a syntax error, 0 when unknown
	Err    error
}

func (e *Error) Error() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s: %v", e.Origin, e.Kind)
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Unavailable wraps err as an [ErrSourceUnavailable] failure of origin.
func Unavailable(origin string, err error) *Error {
	return &Error{Origin: origin, Kind: ErrSourceUnavailable, Offset: -1, Err: err}
}

// Malformed wraps a decoder error as an [ErrSourceMalformed] failure of
// origin. When the decoder reports a position it is copied onto the error;
// a byte offset is also translated into a line number using data.
func Malformed(origin string, data []byte, err error) *Error {
	e := &Error{Origin: origin, Kind: ErrSourceMalformed, Offset: -1, Err: err}

	var (
		jsonSyntax *json.SyntaxError
		jsonType   *json.UnmarshalTypeError
		syntax     *codec.SyntaxError
		tomlParse  toml.ParseError
	)
	switch {
	case errors.As(err, &jsonSyntax):
		e.Offset = jsonSyntax.Offset
	case errors.As(err, &jsonType):
		e.Offset = jsonType.Offset
	case errors.As(err, &syntax):
		e.Offset = syntax.Offset
	case errors.As(err, &tomlParse):
		e.Offset = int64(tomlParse.Position.Start)
		e.Line = tomlParse.Position.Line
	}

	if e.Line == 0 && e.Offset >= 0 && data != nil {
		e.Line = lineAt(data, e.Offset)
	}

	return e
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}
