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
	"time"
)

// Errors returned by the converters.
var (
	ErrInvalidBooleanValue = errors.New("invalid boolean value")
	ErrEmptyTimeValue      = errors.New("empty time value")
	ErrSectionValue        = errors.New("value is a section")
)

// TimeConverter returns a parse function for time.Time trying each layout
// in order.
//
// Example:
//
//	binding.Custom("Deploy.Window", binding.TimeConverter(time.DateOnly, "02/01/2006"),
//	    func(c *Cfg, t time.Time) { c.Window = t })
func TimeConverter(layouts ...string) func(string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = []string{time.RFC3339}
	}

	return func(s string) (time.Time, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, ErrEmptyTimeValue
		}

		var lastErr error
		for _, layout := range layouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}

		return time.Time{}, fmt.Errorf("unable to parse time %q (tried %d layouts): %w",
			s, len(layouts), lastErr)
	}
}

// DurationConverter returns a parse function for time.Duration that checks
// aliases (case-insensitive) before time.ParseDuration.
//
// Example:
//
//	binding.Custom("Retry.Backoff", binding.DurationConverter(map[string]time.Duration{
//	    "fast": 100 * time.Millisecond,
//	    "slow": 5 * time.Second,
//	}), func(c *Cfg, d time.Duration) { c.Backoff = d })
func DurationConverter(aliases map[string]time.Duration) func(string) (time.Duration, error) {
	lowered := make(map[string]time.Duration, len(aliases))
	for alias, d := range aliases {
		lowered[strings.ToLower(alias)] = d
	}

	return func(s string) (time.Duration, error) {
		s = strings.TrimSpace(s)
		if d, ok := lowered[strings.ToLower(s)]; ok {
			return d, nil
		}

		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}

		return d, nil
	}
}

// EnumConverter returns a parse function that accepts only the allowed
// values, compared case-insensitively. The allowed spelling is returned.
//
// Example:
//
//	type Level string
//
//	binding.Custom("Log.Level", binding.EnumConverter[Level]("debug", "info", "warn"),
//	    func(c *Cfg, l Level) { c.Level = l })
func EnumConverter[T ~string](allowed ...T) func(string) (T, error) {
	byLower := make(map[string]T, len(allowed))
	names := make([]string, len(allowed))
	for i, val := range allowed {
		byLower[strings.ToLower(string(val))] = val
		names[i] = string(val)
	}

	return func(s string) (T, error) {
		if val, ok := byLower[strings.ToLower(strings.TrimSpace(s))]; ok {
			return val, nil
		}

		return T(""), fmt.Errorf("invalid value %q: must be one of: %s",
			s, strings.Join(names, ", "))
	}
}

// BoolConverter returns a parse function accepting custom truthy and falsy
// words, compared case-insensitively. Use it when "true"/"false" is too
// strict, for example to accept "yes", "on" or "1".
func BoolConverter(truthy, falsy []string) func(string) (bool, error) {
	words := make(map[string]bool, len(truthy)+len(falsy))
	for _, w := range truthy {
		words[strings.ToLower(w)] = true
	}
	for _, w := range falsy {
		words[strings.ToLower(w)] = false
	}

	return func(s string) (bool, error) {
		b, ok := words[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			accepted := append(append([]string{}, truthy...), falsy...)
			return false, fmt.Errorf("%w: %q (accepted values: %s)",
				ErrInvalidBooleanValue, s, strings.Join(accepted, ", "))
		}

		return b, nil
	}
}
