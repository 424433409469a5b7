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
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mail struct {
	Host string
	Port int
	From string
}

func mailChain(t *testing.T) *Chain[mail] {
	t.Helper()

	c, err := NewChain[mail]()
	require.NoError(t, err)

	return c.
		Constrain(
			Field("Host", func(m mail) string { return m.Host }, NotEmpty().WithMessage("Host is required.")),
			Field("Port", func(m mail) int { return m.Port }, Range(1, 65535).WithMessage("Port must be between 1 and 65535.")),
			Field("From", func(m mail) string { return m.From }, Required[string]().WithMessage("From address is required.")),
		).
		Must(func(m mail) bool { return m.Port > 0 }, "Port must be > 0")
}

func TestChain_Validate_Accepts(t *testing.T) {
	t.Parallel()

	r := mailChain(t).Validate(mail{Host: "smtp.example.com", Port: 587, From: "x@a.com"})
	assert.True(t, r.OK())
	assert.NoError(t, r.Err())
}

func TestChain_Validate_NoShortCircuit(t *testing.T) {
	t.Parallel()

	r := mailChain(t).Validate(mail{Host: "smtp.example.com", Port: 0})
	require.False(t, r.OK())
	require.Len(t, r.Fields, 3)

	assert.Equal(t, []string{
		"Port must be between 1 and 65535.",
		"From address is required.",
		"Port must be > 0",
	}, messages(r))
	assert.Equal(t, []string{"field.range", "field.required", "predicate.must"}, codes(r))
}

func TestChain_Validate_StableOrder(t *testing.T) {
	t.Parallel()

	c := mailChain(t)
	first := c.Validate(mail{Port: -1})
	for range 20 {
		assert.Equal(t, first, c.Validate(mail{Port: -1}))
	}
	assert.Equal(t, []string{"Host", "Port", "From", ""}, paths(first))
}

func TestChain_Validate_Err(t *testing.T) {
	t.Parallel()

	err := mailChain(t).Validate(mail{}).Err()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrValidationFailed)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
	assert.True(t, verr.Has("Host"))
	assert.True(t, verr.HasCode("predicate.must"))
	assert.Contains(t, err.Error(), "Host is required.")
}

func TestChain_Func(t *testing.T) {
	t.Parallel()

	c := MustChain[mail]().
		Func("from_domain", func(m mail) error {
			if !strings.HasSuffix(m.From, "@example.com") {
				return errors.New("From must be an example.com address")
			}
			return nil
		}).
		Func("structured", func(m mail) error {
			var e Error
			e.Add("Host", "custom.host", "bad host", nil)
			e.Add("Port", "custom.port", "bad port", nil)
			return &e
		}).
		Func("single", func(m mail) error {
			return FieldError{Path: "From", Code: "custom.from", Message: "bad from"}
		}).
		Func("ok", func(mail) error { return nil })

	r := c.Validate(mail{From: "x@other.com"})
	assert.Equal(t, []string{"predicate.from_domain", "custom.host", "custom.port", "custom.from"}, codes(r))
	assert.Equal(t, 4, c.Len())
}

type selfChecked struct {
	Name string
}

func (s selfChecked) Constraints() []Rule[selfChecked] {
	return []Rule[selfChecked]{
		Field("Name", func(s selfChecked) string { return s.Name }, NotEmpty()),
	}
}

func (s selfChecked) Validate() error {
	if s.Name == "root" {
		return errors.New("name is reserved")
	}
	return nil
}

func TestChain_TypeContributedRules(t *testing.T) {
	t.Parallel()

	c := MustChain[selfChecked]().
		Constrain(Field("Name", func(s selfChecked) string { return s.Name }, Max("zzzz"))).
		Must(func(s selfChecked) bool { return len(s.Name) < 10 }, "Name is too long")

	r := c.Validate(selfChecked{})
	assert.Equal(t, []string{"field.not_empty"}, codes(r))

	r = c.Validate(selfChecked{Name: "root"})
	assert.Equal(t, []string{"predicate.validate"}, codes(r))
	assert.Equal(t, "name is reserved", r.Fields[0].Message)

	r = c.Validate(selfChecked{Name: "zzzzzzzzzzzz"})
	assert.Equal(t, []string{"field.max", "predicate.must"}, codes(r))
}

type ctxChecked struct{ Region string }

type regionKey struct{}

func (c ctxChecked) Validate() error { return errors.New("must not be called") }

func (c ctxChecked) ValidateContext(ctx context.Context) error {
	if want, _ := ctx.Value(regionKey{}).(string); want != c.Region {
		return errors.New("region mismatch")
	}
	return nil
}

func TestChain_ValidateContext_Preferred(t *testing.T) {
	t.Parallel()

	c := MustChain[ctxChecked]()
	ctx := context.WithValue(context.Background(), regionKey{}, "eu")

	assert.True(t, c.ValidateContext(ctx, ctxChecked{Region: "eu"}).OK())
	r := c.ValidateContext(ctx, ctxChecked{Region: "us"})
	require.Len(t, r.Fields, 1)
	assert.Equal(t, "region mismatch", r.Fields[0].Message)
}

func TestChain_Options(t *testing.T) {
	t.Parallel()

	_, err := NewChain[mail](WithMaxErrors(-1))
	require.ErrorIs(t, err, ErrInvalidMaxErrors)
	assert.Panics(t, func() { MustChain[mail](WithMaxErrors(-1)) })

	c := MustChain[mail](WithMaxErrors(2), WithFieldNameMapper(strings.ToLower)).
		Constrain(
			Field("Host", func(m mail) string { return m.Host }, NotEmpty()),
			Field("Port", func(m mail) int { return m.Port }, Min(1)),
			Field("From", func(m mail) string { return m.From }, NotEmpty()),
			nil,
		)

	r := c.Validate(mail{})
	assert.True(t, r.Truncated)
	assert.Equal(t, []string{"host", "port"}, paths(r))

	var verr *Error
	require.ErrorAs(t, r.Err(), &verr)
	assert.True(t, verr.Truncated)
	assert.Contains(t, verr.Error(), "(truncated)")
}

func TestResult_ErrIsIndependentCopy(t *testing.T) {
	t.Parallel()

	r := mailChain(t).Validate(mail{})
	var verr *Error
	require.ErrorAs(t, r.Err(), &verr)
	verr.Fields[0].Message = "changed"
	assert.Equal(t, "Host is required.", r.Fields[0].Message)
}

func messages(r Result) []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Message
	}
	return out
}

func codes(r Result) []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Code
	}
	return out
}

func paths(r Result) []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Path
	}
	return out
}
