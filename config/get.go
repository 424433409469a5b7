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

package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Reader is implemented by [*Store], [*Snapshot] and [*Section].
type Reader interface {
	Lookup(key string) (string, bool)
	Section(key string) *Section
}

// Get returns the value associated with the given key as type T.
// If the key is not found or cannot be converted to type T, it returns the zero value of T.
//
// Example:
//
//	port := config.Get[int](store, "Mail:Port")
//	timeout := config.Get[time.Duration](store, "Mail.Timeout")
func Get[T any](r Reader, key string) T {
	v, _ := GetE[T](r, key)
	return v
}

// GetOr returns the value associated with the given key as type T.
// If the key is not found or cannot be converted to type T, it returns the provided default value.
// The type T is inferred from the default value.
//
// Example:
//
//	port := config.GetOr(store, "Mail:Port", 25)
//	host := config.GetOr(store, "Mail:Host", "localhost")
func GetOr[T any](r Reader, key string, defaultVal T) T {
	v, err := GetE[T](r, key)
	if err != nil {
		return defaultVal
	}
	return v
}

// GetE returns the value associated with the given key as type T, with error handling.
// Slices and maps are read from the leaves below key, so Get[[]string] of
// "Hosts" collects Hosts.0, Hosts.1 and so on; a single leaf holding a
// comma separated list works as well.
//
// Example:
//
//	port, err := config.GetE[int](store, "Mail:Port")
//	if err != nil {
//	    return fmt.Errorf("failed to get port: %w", err)
//	}
func GetE[T any](r Reader, key string) (T, error) {
	zero := getZeroValue[T]()
	if isNil(r) {
		return zero, fmt.Errorf("config reader is nil")
	}

	val, ok := lookupAny[T](r, key)
	if !ok {
		return zero, fmt.Errorf("key %q not found", key)
	}

	if result, ok := val.(T); ok {
		return result, nil
	}

	result, err := convertToType[T](val)
	if err != nil {
		return zero, fmt.Errorf("cannot convert value at key %q to type %T: %w", key, zero, err)
	}

	return result, nil
}

// lookupAny returns the leaf at key, or for slice and map targets the tree
// below it.
func lookupAny[T any](r Reader, key string) (any, bool) {
	var zero T
	switch reflect.TypeOf(&zero).Elem().Kind() {
	case reflect.Slice, reflect.Map:
		if root := r.Section(key).tree(); len(root.children) > 0 {
			return root.build(), true
		}
	}

	raw, ok := r.Lookup(key)
	if !ok {
		return nil, false
	}

	switch any(zero).(type) {
	case []string, []int:
		return splitList(raw), true
	}

	return raw, true
}

func isNil(r Reader) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)

	return v.Kind() == reflect.Pointer && v.IsNil()
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

// getZeroValue returns a proper zero value for type T.
// For slices and maps, it returns empty initialized values instead of nil.
func getZeroValue[T any]() T {
	var zero T
	v := reflect.ValueOf(&zero).Elem()

	switch v.Kind() {
	case reflect.Slice:
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	case reflect.Map:
		v.Set(reflect.MakeMap(v.Type()))
	}

	return zero
}

// convertToType converts a value to type T using the cast library.
// This handles common type conversions (int, string, bool, etc.) but won't work for custom types.
func convertToType[T any](val any) (T, error) {
	var zero T
	var (
		result any
		err    error
	)

	switch any(zero).(type) {
	case string:
		result, err = cast.ToStringE(val)
	case int:
		result, err = cast.ToIntE(val)
	case int64:
		result, err = cast.ToInt64E(val)
	case int32:
		result, err = cast.ToInt32E(val)
	case uint:
		result, err = cast.ToUintE(val)
	case uint64:
		result, err = cast.ToUint64E(val)
	case uint32:
		result, err = cast.ToUint32E(val)
	case float64:
		result, err = cast.ToFloat64E(val)
	case float32:
		result, err = cast.ToFloat32E(val)
	case bool:
		result, err = cast.ToBoolE(val)
	case []string:
		result, err = cast.ToStringSliceE(val)
	case []int:
		result, err = cast.ToIntSliceE(val)
	case map[string]any:
		result, err = cast.ToStringMapE(val)
	case map[string]string:
		result, err = cast.ToStringMapStringE(val)
	case time.Duration:
		result, err = cast.ToDurationE(val)
	case time.Time:
		result, err = cast.ToTimeE(val)
	default:
		return zero, fmt.Errorf("unsupported target type %T", zero)
	}
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T", result)
	}

	return typed, nil
}

// String returns the value at key as a string, or "" if absent.
func (s *Section) String(key string) string { return Get[string](s, key) }

// Int returns the value at key as an int, or 0 if absent or not a number.
func (s *Section) Int(key string) int { return Get[int](s, key) }

// Int64 returns the value at key as an int64.
func (s *Section) Int64(key string) int64 { return Get[int64](s, key) }

// Float64 returns the value at key as a float64.
func (s *Section) Float64(key string) float64 { return Get[float64](s, key) }

// Bool returns the value at key as a bool.
func (s *Section) Bool(key string) bool { return Get[bool](s, key) }

// Duration returns the value at key as a time.Duration.
// Plain numbers are read as nanoseconds.
func (s *Section) Duration(key string) time.Duration { return Get[time.Duration](s, key) }

// Time returns the value at key as a time.Time.
func (s *Section) Time(key string) time.Time { return Get[time.Time](s, key) }

// StringSlice returns the array or comma separated list at key.
func (s *Section) StringSlice(key string) []string { return Get[[]string](s, key) }

// IntSlice returns the array or comma separated list at key as ints.
func (s *Section) IntSlice(key string) []int { return Get[[]int](s, key) }

// StringMap returns the sub-tree at key.
func (s *Section) StringMap(key string) map[string]any { return Get[map[string]any](s, key) }

// StringOr returns the value at key, or defaultVal if absent.
func (s *Section) StringOr(key, defaultVal string) string { return GetOr(s, key, defaultVal) }

// IntOr returns the value at key as an int, or defaultVal.
func (s *Section) IntOr(key string, defaultVal int) int { return GetOr(s, key, defaultVal) }

// Int64Or returns the value at key as an int64, or defaultVal.
func (s *Section) Int64Or(key string, defaultVal int64) int64 { return GetOr(s, key, defaultVal) }

// Float64Or returns the value at key as a float64, or defaultVal.
func (s *Section) Float64Or(key string, defaultVal float64) float64 {
	return GetOr(s, key, defaultVal)
}

// BoolOr returns the value at key as a bool, or defaultVal.
func (s *Section) BoolOr(key string, defaultVal bool) bool { return GetOr(s, key, defaultVal) }

// DurationOr returns the value at key as a time.Duration, or defaultVal.
func (s *Section) DurationOr(key string, defaultVal time.Duration) time.Duration {
	return GetOr(s, key, defaultVal)
}

// StringSliceOr returns the list at key, or defaultVal.
func (s *Section) StringSliceOr(key string, defaultVal []string) []string {
	return GetOr(s, key, defaultVal)
}

// String returns the value at key as a string.
func (s *Store) String(key string) string { return s.Root().String(key) }

// Int returns the value at key as an int.
func (s *Store) Int(key string) int { return s.Root().Int(key) }

// Int64 returns the value at key as an int64.
func (s *Store) Int64(key string) int64 { return s.Root().Int64(key) }

// Float64 returns the value at key as a float64.
func (s *Store) Float64(key string) float64 { return s.Root().Float64(key) }

// Bool returns the value at key as a bool.
func (s *Store) Bool(key string) bool { return s.Root().Bool(key) }

// Duration returns the value at key as a time.Duration.
func (s *Store) Duration(key string) time.Duration { return s.Root().Duration(key) }

// StringSlice returns the array or comma separated list at key.
func (s *Store) StringSlice(key string) []string { return s.Root().StringSlice(key) }

// StringOr returns the value at key, or defaultVal if absent.
func (s *Store) StringOr(key, defaultVal string) string { return s.Root().StringOr(key, defaultVal) }

// IntOr returns the value at key as an int, or defaultVal.
func (s *Store) IntOr(key string, defaultVal int) int { return s.Root().IntOr(key, defaultVal) }

// BoolOr returns the value at key as a bool, or defaultVal.
func (s *Store) BoolOr(key string, defaultVal bool) bool { return s.Root().BoolOr(key, defaultVal) }

// DurationOr returns the value at key as a time.Duration, or defaultVal.
func (s *Store) DurationOr(key string, defaultVal time.Duration) time.Duration {
	return s.Root().DurationOr(key, defaultVal)
}
