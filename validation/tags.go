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
	"maps"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TagOption configures a [Tags] rule.
type TagOption func(*tagConfig)

type customTag struct {
	name string
	fn   validator.Func
}

type tagConfig struct {
	customTags []customTag
	messages   map[string]string
}

// WithCustomTag registers a custom validation tag.
//
// Example:
//
//	validation.Tags[Mail](validation.WithCustomTag("hostname_port", func(fl validator.FieldLevel) bool {
//	    _, _, err := net.SplitHostPort(fl.Field().String())
//	    return err == nil
//	}))
func WithCustomTag(name string, fn validator.Func) TagOption {
	return func(c *tagConfig) {
		c.customTags = append(c.customTags, customTag{name: name, fn: fn})
	}
}

// WithMessages sets static failure messages per tag, overriding the
// defaults.
//
// Example:
//
//	validation.WithMessages(map[string]string{"required": "cannot be empty"})
func WithMessages(messages map[string]string) TagOption {
	return func(c *tagConfig) {
		if c.messages == nil {
			c.messages = make(map[string]string)
		}
		maps.Copy(c.messages, messages)
	}
}

type tagRule[T any] struct {
	validate *validator.Validate
	initErr  error
	messages map[string]string
}

// Tags creates a rule evaluating go-playground/validator `validate` struct
// tags on T. Field paths use the `config` tag name, then the `json` tag
// name, then the Go field name. Failures keep struct field order and use
// codes of the form "tag.<tag>".
//
// Example:
//
//	type Mail struct {
//	    Host string `validate:"required,hostname"`
//	    Port int    `validate:"min=1,max=65535"`
//	}
//
//	chain.Constrain(validation.Tags[Mail]())
func Tags[T any](opts ...TagOption) Rule[T] {
	cfg := &tagConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := &tagRule[T]{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		messages: cfg.messages,
	}
	r.validate.RegisterTagNameFunc(fieldName)

	for _, ct := range cfg.customTags {
		if err := r.validate.RegisterValidation(ct.name, ct.fn); err != nil {
			r.initErr = fmt.Errorf("register custom tag %q: %w", ct.name, err)
			break
		}
	}

	return r
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"config", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}

	return fld.Name
}

// Check implements [Rule].
func (r *tagRule[T]) Check(v T) []FieldError {
	if r.initErr != nil {
		return []FieldError{{Code: "tag.error", Message: r.initErr.Error()}}
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := r.validate.Struct(rv.Interface())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Code: "tag.error", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		path := e.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}

		out = append(out, FieldError{
			Path:    path,
			Code:    "tag." + e.Tag(),
			Message: r.message(e),
			Meta: map[string]any{
				"tag":   e.Tag(),
				"param": e.Param(),
				"value": fmt.Sprint(e.Value()),
			},
		})
	}

	return out
}

func (r *tagRule[T]) message(e validator.FieldError) string {
	if msg, ok := r.messages[e.Tag()]; ok {
		return msg
	}

	return getTagErrorMessage(e)
}

// getTagErrorMessage returns a human-readable error message for a tag error.
func getTagErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "hostname", "hostname_rfc1123":
		return "must be a valid hostname"
	case "min", "gte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}
