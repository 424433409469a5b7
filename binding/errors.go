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

package binding

import (
	"errors"
	"fmt"
	"strings"
)

// Static errors for binding failures.
var (
	// ErrMissingRequired is reported for a required field with no value
	// and no default.
	ErrMissingRequired = errors.New("missing required value")

	// ErrTypeMismatch is reported when a raw value cannot be converted to
	// the field type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNilSection is returned when binding is called without a section.
	ErrNilSection = errors.New("section is nil")

	// ErrUnsupportedTarget is returned by NewStruct when T is not a struct.
	ErrUnsupportedTarget = errors.New("target must be a struct type")
)

// FieldError describes why a single field could not be bound.
type FieldError struct {
	Field string // Key path relative to the bound section
	Kind  error  // ErrMissingRequired or ErrTypeMismatch
	Value string // Raw value that failed to convert
	Type  string // Target type name
	Err   error  // Underlying conversion error, if any
}

// Error returns a formatted error message.
func (e *FieldError) Error() string {
	if errors.Is(e.Kind, ErrMissingRequired) {
		return fmt.Sprintf("binding field %q: %v", e.Field, e.Kind)
	}

	msg := fmt.Sprintf("binding field %q: cannot convert %q to %s", e.Field, e.Value, e.Type)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the kind and the underlying error.
func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// Error collects every field error of one bind call, in field order.
type Error struct {
	Section string // Path of the bound section, "" for the root
	Fields  []*FieldError
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	target := "root section"
	if e.Section != "" {
		target = fmt.Sprintf("section %q", e.Section)
	}

	if len(e.Fields) == 1 {
		return fmt.Sprintf("binding %s: %v", target, e.Fields[0])
	}

	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}

	return fmt.Sprintf("binding %s: %d errors: %s", target, len(e.Fields), strings.Join(msgs, "; "))
}

// Unwrap returns the field errors so errors.Is and errors.As can inspect them.
func (e *Error) Unwrap() []error {
	out := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f
	}

	return out
}

// Field returns the error reported for field, matched case-insensitively.
func (e *Error) Field(field string) *FieldError {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Field, field) {
			return f
		}
	}

	return nil
}

func missing(field, typ string) *FieldError {
	return &FieldError{Field: field, Kind: ErrMissingRequired, Type: typ}
}

func mismatch(field, typ, raw string, err error) *FieldError {
	return &FieldError{Field: field, Kind: ErrTypeMismatch, Value: raw, Type: typ, Err: err}
}
