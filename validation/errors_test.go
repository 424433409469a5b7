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

package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  FieldError
		want string
	}{
		{name: "object level", err: FieldError{Code: "predicate.must", Message: "Port must be > 0"}, want: "Port must be > 0"},
		{name: "path in message", err: FieldError{Path: "Host", Message: "Host is required."}, want: "Host is required."},
		{name: "path prefixed", err: FieldError{Path: "Host", Message: "is required"}, want: "Host: is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrValidationFailed)
		})
	}
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	var e Error
	assert.Empty(t, e.Error())
	assert.False(t, e.HasErrors())

	e.Add("Host", "field.required", "Host is required.", nil)
	assert.Equal(t, "validation failed: Host is required.", e.Error())

	e.Add("", "predicate.must", "Port must be > 0", nil)
	assert.Equal(t, "validation failed: Host is required.; Port must be > 0", e.Error())
	assert.Equal(t, []string{"Host is required.", "Port must be > 0"}, e.Messages())
}

func TestError_AddError(t *testing.T) {
	t.Parallel()

	var e Error
	e.AddError("x", nil)
	assert.False(t, e.HasErrors())

	e.AddError("x", errors.New("plain"))
	e.AddError("x", FieldError{Path: "A", Code: "a", Message: "a"})
	e.AddError("x", &Error{Fields: []FieldError{{Code: "b"}}, Truncated: true})
	e.AddError("x", fmt.Errorf("wrapped: %w", Error{Fields: []FieldError{{Code: "c"}}}))

	require.Len(t, e.Fields, 4)
	assert.Equal(t, "x", e.Fields[0].Code)
	assert.Equal(t, "plain", e.Fields[0].Message)
	assert.Equal(t, "a", e.Fields[1].Code)
	assert.Equal(t, "b", e.Fields[2].Code)
	assert.Equal(t, "c", e.Fields[3].Code)
	assert.True(t, e.Truncated)
}

func TestError_Lookup(t *testing.T) {
	t.Parallel()

	e := Error{Fields: []FieldError{
		{Path: "Port", Code: "field.range"},
		{Path: "Host", Code: "field.required"},
		{Path: "Port", Code: "field.min"},
	}}

	assert.True(t, e.Has("Port"))
	assert.False(t, e.Has("From"))
	assert.Nil(t, e.GetField("From"))
	assert.Equal(t, "field.range", e.GetField("Port").Code)
	assert.True(t, e.HasCode("field.min"))

	e.Sort()
	assert.Equal(t, "Host", e.Fields[0].Path)
	assert.Equal(t, "field.min", e.Fields[1].Code)
	assert.Equal(t, "field.range", e.Fields[2].Code)
}

func TestError_ErrorsAs(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("reload: %w", Result{Fields: []FieldError{{Code: "c", Message: "m"}}}.Err())

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Len(t, verr.Fields, 1)
}
