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

package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrValidationFailed is wrapped by every [Error] and [FieldError].
// Use errors.Is(err, ErrValidationFailed) to check for a validation failure.
var ErrValidationFailed = errors.New("validation failed")

// ErrInvalidMaxErrors is returned by NewChain for a negative limit.
var ErrInvalidMaxErrors = errors.New("maxErrors must be non-negative")

// FieldError represents a single failed rule.
// Multiple FieldError values are collected in an [Error].
//
// Example:
//
//	err := FieldError{
//	    Path:    "Port",
//	    Code:    "field.range",
//	    Message: "Port must be between 1 and 65535.",
//	    Meta:    map[string]any{"min": 1, "max": 65535},
//	}
type FieldError struct {
	Path    string         `json:"path,omitempty"` // Field path, empty for object-level rules
	Code    string         `json:"code"`           // Rule identifier (e.g., "field.required", "tag.min")
	Message string         `json:"message"`        // Human-readable message
	Meta    map[string]any `json:"meta,omitempty"` // Additional metadata (tag, param, value, etc.)
}

// Error returns the message, prefixed with the path when the message does
// not already mention it.
func (e FieldError) Error() string {
	if e.Path == "" || strings.Contains(e.Message, e.Path) {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns [ErrValidationFailed] for errors.Is compatibility.
func (e FieldError) Unwrap() error {
	return ErrValidationFailed
}

// Error represents the failures of one validation run.
//
// Example:
//
//	var err *Error
//	if errors.As(validationErr, &err) {
//	    for _, fieldErr := range err.Fields {
//	        fmt.Printf("%s: %s\n", fieldErr.Path, fieldErr.Message)
//	    }
//	}
//
//nolint:recvcheck // Error must use value receiver for error interface compatibility, mutating methods use pointer
type Error struct {
	Fields    []FieldError `json:"errors"`              // Failures in rule order
	Truncated bool         `json:"truncated,omitempty"` // True if failures were dropped due to the maxErrors limit
}

// Error returns a formatted error message.
func (v Error) Error() string {
	if len(v.Fields) == 0 {
		return ""
	}
	if len(v.Fields) == 1 {
		return "validation failed: " + v.Fields[0].Error()
	}

	suffix := ""
	if v.Truncated {
		suffix = " (truncated)"
	}

	msgs := make([]string, len(v.Fields))
	for i, err := range v.Fields {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("validation failed: %s%s", strings.Join(msgs, "; "), suffix)
}

// Unwrap returns [ErrValidationFailed] for errors.Is compatibility.
func (v Error) Unwrap() error {
	return ErrValidationFailed
}

// Add adds a new [FieldError] to the collection.
func (v *Error) Add(path, code, message string, meta map[string]any) {
	v.Fields = append(v.Fields, FieldError{
		Path:    path,
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// AddError adds an error to the collection. [FieldError] and [Error]
// values are merged as they are; any other error becomes one entry with
// the given code.
func (v *Error) AddError(code string, err error) {
	if err == nil {
		return
	}

	var fe FieldError
	if errors.As(err, &fe) {
		v.Fields = append(v.Fields, fe)
		return
	}

	var ve *Error
	if errors.As(err, &ve) {
		v.Fields = append(v.Fields, ve.Fields...)
		v.Truncated = v.Truncated || ve.Truncated
		return
	}

	var vv Error
	if errors.As(err, &vv) {
		v.Fields = append(v.Fields, vv.Fields...)
		v.Truncated = v.Truncated || vv.Truncated
		return
	}

	v.Fields = append(v.Fields, FieldError{Code: code, Message: err.Error()})
}

// HasErrors returns true if there are any errors.
func (v Error) HasErrors() bool {
	return len(v.Fields) > 0
}

// HasCode returns true if any error has the given code.
func (v Error) HasCode(code string) bool {
	for _, e := range v.Fields {
		if e.Code == code {
			return true
		}
	}

	return false
}

// Has checks if a specific field path has an error.
func (v Error) Has(path string) bool {
	return v.GetField(path) != nil
}

// GetField returns the first [FieldError] for a given path, or nil if not found.
func (v Error) GetField(path string) *FieldError {
	for i := range v.Fields {
		if v.Fields[i].Path == path {
			return &v.Fields[i]
		}
	}

	return nil
}

// Messages returns the failure messages in order.
func (v Error) Messages() []string {
	out := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		out[i] = f.Message
	}

	return out
}

// Sort sorts errors by path, then by code. Failures are reported in rule
// order by default; Sort is for callers that prefer grouping by field.
func (v *Error) Sort() {
	sort.SliceStable(v.Fields, func(i, j int) bool {
		if v.Fields[i].Path != v.Fields[j].Path {
			return v.Fields[i].Path < v.Fields[j].Path
		}

		return v.Fields[i].Code < v.Fields[j].Code
	})
}
