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
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/settings/config"
)

// DefaultTagName is the struct tag read by [Struct].
const DefaultTagName = "config"

// StructOption configures a [Struct] binder.
type StructOption[T any] func(*Struct[T]) error

// WithTagName sets the struct tag used for key names. Defaults to "config".
func WithTagName[T any](name string) StructOption[T] {
	return func(s *Struct[T]) error {
		if name == "" {
			return errors.New("tag name cannot be empty")
		}
		s.tagName = name

		return nil
	}
}

// WithDefaults fills every zero field of the bound value from defaults
// after decoding.
func WithDefaults[T any](defaults T) StructOption[T] {
	return func(s *Struct[T]) error {
		s.defaults = &defaults
		return nil
	}
}

// WithDecodeHook adds a mapstructure decode hook, run after the built-in
// duration, comma list, RFC 3339 time and URL hooks.
func WithDecodeHook[T any](hook mapstructure.DecodeHookFunc) StructOption[T] {
	return func(s *Struct[T]) error {
		if hook == nil {
			return errors.New("decode hook cannot be nil")
		}
		s.hooks = append(s.hooks, hook)

		return nil
	}
}

// Struct binds a section into a tagged struct using mapstructure.
//
// Keys match field tags (or field names) case-insensitively. A field whose
// tag carries the "required" option must be present in the section; a
// "default" tag supplies the raw value for a zero field. Struct is safe
// for concurrent use.
type Struct[T any] struct {
	tagName  string
	defaults *T
	hooks    []mapstructure.DecodeHookFunc
}

// NewStruct creates a struct binder. T must be a struct type.
func NewStruct[T any](opts ...StructOption[T]) (*Struct[T], error) {
	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedTarget, reflect.TypeFor[T]())
	}

	s := &Struct[T]{tagName: DefaultTagName}

	var errs []error
	for _, opt := range opts {
		if err := opt(s); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return s, nil
}

// MustStruct is like NewStruct but panics on error.
func MustStruct[T any](opts ...StructOption[T]) *Struct[T] {
	s, err := NewStruct(opts...)
	if err != nil {
		panic(fmt.Sprintf("binding.MustStruct: %v", err))
	}

	return s
}

// Bind decodes sec into a T. Decode failures are reported as
// [ErrTypeMismatch], absent required fields as [ErrMissingRequired].
func (s *Struct[T]) Bind(sec *config.Section) (T, error) {
	var zero T
	if sec == nil {
		return zero, ErrNilSection
	}

	var out T
	var fields []*FieldError
	if err := s.decode(sec.Tree(), &out); err != nil {
		fields = append(fields, mismatch(sec.Key(), reflect.TypeFor[T]().String(), "", err))
	}
	if err := setDefaults(reflect.ValueOf(&out).Elem()); err != nil {
		fields = append(fields, mismatch(sec.Key(), reflect.TypeFor[T]().String(), "", err))
	}
	if s.defaults != nil {
		if err := mergo.Merge(&out, *s.defaults); err != nil {
			return zero, fmt.Errorf("failed to merge defaults: %w", err)
		}
	}
	fields = append(fields, s.checkRequired(sec, reflect.TypeFor[T](), "")...)

	if len(fields) > 0 {
		return zero, &Error{Section: sec.Path().String(), Fields: fields}
	}

	return out, nil
}

func (s *Struct[T]) decode(tree map[string]any, out *T) error {
	hooks := append([]mapstructure.DecodeHookFunc{
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToURLHookFunc(),
	}, s.hooks...)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          s.tagName,
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(hooks...),
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	return decoder.Decode(tree)
}

// checkRequired walks typ and reports every field tagged "required" whose
// key has no value in sec.
func (s *Struct[T]) checkRequired(sec *config.Section, typ reflect.Type, prefix string) []*FieldError {
	var errs []*FieldError
	for i := range typ.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, opts := parseTag(sf.Tag.Get(s.tagName))
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if hasOption(opts, "squash") || (sf.Anonymous && name == sf.Name) {
			key = prefix
		}

		if hasOption(opts, "required") && !sec.Section(key).Exists() {
			errs = append(errs, missing(key, sf.Type.String()))
			continue
		}

		if isNestedStruct(sf.Type) {
			errs = append(errs, s.checkRequired(sec, sf.Type, key)...)
		}
	}

	return errs
}

func parseTag(tag string) (string, []string) {
	parts := strings.Split(tag, ",")
	return strings.TrimSpace(parts[0]), parts[1:]
}

func hasOption(opts []string, option string) bool {
	for _, o := range opts {
		if strings.TrimSpace(o) == option {
			return true
		}
	}

	return false
}

func isNestedStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t != reflect.TypeFor[time.Time]()
}

// setDefaults applies `default:"..."` tags to zero fields, recursing into
// nested structs.
func setDefaults(val reflect.Value) error {
	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		if isNestedStruct(field.Type()) {
			if err := setDefaults(field); err != nil {
				return err
			}
			continue
		}

		tag := typ.Field(i).Tag.Get("default")
		if tag == "" || !field.IsZero() {
			continue
		}

		if err := setDefaultValue(field, tag); err != nil {
			return fmt.Errorf("failed to set default for field %s: %w", typ.Field(i).Name, err)
		}
	}

	return nil
}

func setDefaultValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeFor[time.Duration]() {
			d, err := cast.ToDurationE(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := cast.ToInt64E(raw)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := cast.ToUint64E(raw)
		if err != nil {
			return err
		}
		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type for default tag: %s", field.Type())
		}
		field.Set(reflect.ValueOf(splitList(raw)).Convert(field.Type()))
	default:
		return fmt.Errorf("unsupported type for default tag: %s", field.Kind())
	}

	return nil
}
