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
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Check is one constraint on a field value. Checks are combined with
// [Field].
type Check[V any] struct {
	code    string
	test    func(V) bool
	message func(field string) string
	meta    map[string]any
}

// WithMessage replaces the default failure message.
func (c Check[V]) WithMessage(message string) Check[V] {
	c.message = func(string) string { return message }
	return c
}

// Code returns the rule identifier reported on failure.
func (c Check[V]) Code() string {
	return "field." + c.code
}

// Field creates a rule reading one value of T with get and applying every
// check to it. Each failing check reports one failure at path name.
//
// Example:
//
//	validation.Field("Port", func(m Mail) int { return m.Port }, validation.Range(1, 65535))
func Field[T, V any](name string, get func(T) V, checks ...Check[V]) Rule[T] {
	return RuleFunc[T](func(v T) []FieldError {
		val := get(v)

		var errs []FieldError
		for _, c := range checks {
			if c.test(val) {
				continue
			}
			errs = append(errs, FieldError{
				Path:    name,
				Code:    c.Code(),
				Message: c.message(name),
				Meta:    c.meta,
			})
		}

		return errs
	})
}

// Required fails on the zero value of V.
func Required[V comparable]() Check[V] {
	var zero V
	return Check[V]{
		code:    "required",
		test:    func(v V) bool { return v != zero },
		message: func(field string) string { return field + " is required." },
	}
}

// NotEmpty fails on a string that is empty or only whitespace.
func NotEmpty() Check[string] {
	return Check[string]{
		code:    "not_empty",
		test:    func(v string) bool { return strings.TrimSpace(v) != "" },
		message: func(field string) string { return field + " must not be empty." },
	}
}

// Range fails when the value is outside [lo, hi].
func Range[V cmp.Ordered](lo, hi V) Check[V] {
	return Check[V]{
		code: "range",
		test: func(v V) bool { return v >= lo && v <= hi },
		message: func(field string) string {
			return fmt.Sprintf("%s must be between %v and %v.", field, lo, hi)
		},
		meta: map[string]any{"min": lo, "max": hi},
	}
}

// Min fails when the value is below lo.
func Min[V cmp.Ordered](lo V) Check[V] {
	return Check[V]{
		code:    "min",
		test:    func(v V) bool { return v >= lo },
		message: func(field string) string { return fmt.Sprintf("%s must be at least %v.", field, lo) },
		meta:    map[string]any{"min": lo},
	}
}

// Max fails when the value is above hi.
func Max[V cmp.Ordered](hi V) Check[V] {
	return Check[V]{
		code:    "max",
		test:    func(v V) bool { return v <= hi },
		message: func(field string) string { return fmt.Sprintf("%s must be at most %v.", field, hi) },
		meta:    map[string]any{"max": hi},
	}
}

// Pattern fails when the value does not match the regular expression
// expr. It panics if expr does not compile.
func Pattern(expr string) Check[string] {
	re := regexp.MustCompile(expr)
	return Check[string]{
		code:    "pattern",
		test:    re.MatchString,
		message: func(field string) string { return fmt.Sprintf("%s must match %s.", field, expr) },
		meta:    map[string]any{"pattern": expr},
	}
}

// OneOf fails when the value is not one of allowed.
func OneOf[V comparable](allowed ...V) Check[V] {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = fmt.Sprint(a)
	}

	return Check[V]{
		code: "oneof",
		test: func(v V) bool { return slices.Contains(allowed, v) },
		message: func(field string) string {
			return fmt.Sprintf("%s must be one of [%s].", field, strings.Join(names, " "))
		},
		meta: map[string]any{"allowed": names},
	}
}
