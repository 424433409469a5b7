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
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"rivaas.dev/settings/config"
)

// Binder converts a section into a T.
type Binder[T any] interface {
	Bind(sec *config.Section) (T, error)
}

// BinderFunc adapts a function to the [Binder] interface.
type BinderFunc[T any] func(sec *config.Section) (T, error)

// Bind calls f(sec).
func (f BinderFunc[T]) Bind(sec *config.Section) (T, error) {
	return f(sec)
}

// Bind binds sec with b.
func Bind[T any](sec *config.Section, b Binder[T]) (T, error) {
	return b.Bind(sec)
}

// Schema is an explicit list of fields describing how to build a T.
// A Schema is safe for concurrent use once built.
type Schema[T any] struct {
	fields []*Field[T]
}

// NewSchema creates a schema from fields. Fields are bound, and errors are
// reported, in the given order.
func NewSchema[T any](fields ...*Field[T]) *Schema[T] {
	return &Schema[T]{fields: fields}
}

// Add appends fields to the schema and returns it.
func (s *Schema[T]) Add(fields ...*Field[T]) *Schema[T] {
	s.fields = append(s.fields, fields...)
	return s
}

// Bind builds a T from sec. On failure it returns the zero T and an
// [*Error] listing every failing field.
func (s *Schema[T]) Bind(sec *config.Section) (T, error) {
	var zero T
	if sec == nil {
		return zero, ErrNilSection
	}

	out, errs := s.bind(sec)
	if len(errs) > 0 {
		return zero, &Error{Section: sec.Path().String(), Fields: errs}
	}

	return out, nil
}

func (s *Schema[T]) bind(sec *config.Section) (T, []*FieldError) {
	var out T
	var errs []*FieldError
	for _, f := range s.fields {
		errs = append(errs, f.bind(&out, sec)...)
	}

	return out, errs
}

// Field binds one key of a section into a T.
type Field[T any] struct {
	key      string
	typ      string
	def      *string
	optional bool
	bind     func(dst *T, sec *config.Section) []*FieldError
}

// Key returns the key the field reads, relative to the bound section.
func (f *Field[T]) Key() string {
	return f.key
}

// Default sets the raw value used when the key is absent. A default is
// converted like a configured value.
func (f *Field[T]) Default(raw string) *Field[T] {
	f.def = &raw
	return f
}

// Optional leaves the field at its zero value when the key is absent
// instead of reporting [ErrMissingRequired].
func (f *Field[T]) Optional() *Field[T] {
	f.optional = true
	return f
}

// resolve returns the raw value for the field, falling back to its default.
// handled is true when nothing further should be done.
func (f *Field[T]) resolve(sec *config.Section) (raw string, errs []*FieldError, handled bool) {
	if raw, ok := sec.Lookup(f.key); ok {
		return raw, nil, false
	}
	if f.def != nil {
		return *f.def, nil, false
	}
	if f.optional {
		return "", nil, true
	}

	return "", []*FieldError{missing(f.key, f.typ)}, true
}

// Custom creates a field converted by parse. The parse functions returned
// by [TimeConverter], [DurationConverter], [EnumConverter] and
// [BoolConverter] fit here.
func Custom[T, V any](key string, parse func(string) (V, error), set func(*T, V)) *Field[T] {
	f := &Field[T]{key: key, typ: reflect.TypeFor[V]().String()}
	f.bind = func(dst *T, sec *config.Section) []*FieldError {
		raw, errs, handled := f.resolve(sec)
		if handled {
			return errs
		}

		v, err := parse(raw)
		if err != nil {
			return []*FieldError{mismatch(f.key, f.typ, raw, err)}
		}
		set(dst, v)

		return nil
	}

	return f
}

// String creates a field holding the raw value unchanged.
func String[T any](key string, set func(*T, string)) *Field[T] {
	return Custom(key, func(raw string) (string, error) { return raw, nil }, set)
}

// Int creates a base-10 integer field.
func Int[T any](key string, set func(*T, int)) *Field[T] {
	return Custom(key, parseInt, set)
}

// Int64 creates a base-10 64-bit integer field.
func Int64[T any](key string, set func(*T, int64)) *Field[T] {
	return Custom(key, parseInt64, set)
}

// Bool creates a field accepting "true" or "false" in any case.
func Bool[T any](key string, set func(*T, bool)) *Field[T] {
	return Custom(key, parseBool, set)
}

// Float64 creates a floating point field.
func Float64[T any](key string, set func(*T, float64)) *Field[T] {
	return Custom(key, parseFloat64, set)
}

// Duration creates a field parsed as a Go duration string such as "1m30s".
func Duration[T any](key string, set func(*T, time.Duration)) *Field[T] {
	return Custom(key, parseDuration, set)
}

// Strings creates a list field. Array children under key are used in index
// order; a leaf value is split on commas.
func Strings[T any](key string, set func(*T, []string)) *Field[T] {
	f := &Field[T]{key: key, typ: "[]string"}
	f.bind = func(dst *T, sec *config.Section) []*FieldError {
		if children := sec.Section(key).Children(); len(children) > 0 {
			vals := make([]string, 0, len(children))
			var errs []*FieldError
			for _, c := range children {
				v, ok := c.Value()
				if !ok {
					errs = append(errs, mismatch(key+"."+c.Key(), "string", "", ErrSectionValue))
					continue
				}
				vals = append(vals, v)
			}
			if len(errs) > 0 {
				return errs
			}
			set(dst, vals)

			return nil
		}

		raw, errs, handled := f.resolve(sec)
		if handled {
			return errs
		}
		set(dst, splitList(raw))

		return nil
	}

	return f
}

// Nested creates a field bound from the sub-section at key with schema.
// Errors of the nested fields are reported with key as a prefix.
func Nested[T, N any](key string, schema *Schema[N], set func(*T, N)) *Field[T] {
	f := &Field[T]{key: key, typ: reflect.TypeFor[N]().String()}
	f.bind = func(dst *T, sec *config.Section) []*FieldError {
		sub := sec.Section(key)
		if f.optional && !sub.Exists() {
			return nil
		}

		v, errs := schema.bind(sub)
		if len(errs) > 0 {
			for _, e := range errs {
				e.Field = key + "." + e.Field
			}
			return errs
		}
		set(dst, v)

		return nil
	}

	return f
}

func parseInt(raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, strconv.IntSize)
	return int(n), err
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func parseFloat64(raw string) (float64, error) {
	return cast.ToFloat64E(strings.TrimSpace(raw))
}

func parseDuration(raw string) (time.Duration, error) {
	return cast.ToDurationE(strings.TrimSpace(raw))
}

func parseBool(raw string) (bool, error) {
	switch s := strings.TrimSpace(raw); {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, ErrInvalidBooleanValue
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
