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
	"context"
	"fmt"
	"slices"
)

// Result is the outcome of one validation run: accepted, or a non-empty
// ordered list of failures.
type Result struct {
	Fields    []FieldError
	Truncated bool
}

// OK reports whether every rule accepted the value.
func (r Result) OK() bool {
	return len(r.Fields) == 0
}

// Err returns nil for an accepted value, or an [*Error] wrapping
// [ErrValidationFailed].
func (r Result) Err() error {
	if r.OK() {
		return nil
	}

	return &Error{Fields: slices.Clone(r.Fields), Truncated: r.Truncated}
}

// Chain runs two tiers of rules against a T: declarative constraints
// ([Chain.Constrain] and [Constrained]) then predicates ([Chain.Must],
// [Chain.Func] and [ValidatorInterface]). No rule short-circuits another.
//
// Register rules before the chain is shared; Validate is safe for
// concurrent use once configuration is complete.
type Chain[T any] struct {
	cfg        *config
	rules      []Rule[T]
	predicates []Rule[T]
}

// NewChain creates an empty chain.
//
// Example:
//
//	chain, err := validation.NewChain[Mail](validation.WithMaxErrors(20))
//	if err != nil {
//	    return fmt.Errorf("failed to create chain: %w", err)
//	}
func NewChain[T any](opts ...Option) (*Chain[T], error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Chain[T]{cfg: cfg}, nil
}

// MustChain is like NewChain but panics on error.
func MustChain[T any](opts ...Option) *Chain[T] {
	c, err := NewChain[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("validation.MustChain: %v", err))
	}

	return c
}

// Constrain appends tier-1 rules. Nil rules are ignored.
func (c *Chain[T]) Constrain(rules ...Rule[T]) *Chain[T] {
	for _, r := range rules {
		if r != nil {
			c.rules = append(c.rules, r)
		}
	}

	return c
}

// Must appends a predicate: when pred returns false, one failure with
// message is reported.
func (c *Chain[T]) Must(pred func(T) bool, message string) *Chain[T] {
	c.predicates = append(c.predicates, RuleFunc[T](func(v T) []FieldError {
		if pred(v) {
			return nil
		}

		return []FieldError{{Code: "predicate.must", Message: message}}
	}))

	return c
}

// Func appends a named predicate. A returned [FieldError] or [Error] is
// reported as is; any other error becomes one failure with code
// "predicate.<name>".
func (c *Chain[T]) Func(name string, fn func(T) error) *Chain[T] {
	c.predicates = append(c.predicates, RuleFunc[T](func(v T) []FieldError {
		var errs Error
		errs.AddError("predicate."+name, fn(v))
		return errs.Fields
	}))

	return c
}

// Len returns the number of registered rules across both tiers, not
// counting constraints contributed by the type itself.
func (c *Chain[T]) Len() int {
	return len(c.rules) + len(c.predicates)
}

// Validate runs every rule against v.
func (c *Chain[T]) Validate(v T) Result {
	return c.ValidateContext(context.Background(), v)
}

// ValidateContext runs every rule against v, passing ctx to a
// [ValidatorWithContext] implementation.
func (c *Chain[T]) ValidateContext(ctx context.Context, v T) Result {
	var all Error

	if ct, ok := any(v).(Constrained[T]); ok {
		for _, r := range ct.Constraints() {
			if r != nil {
				all.Fields = append(all.Fields, r.Check(v)...)
			}
		}
	}
	for _, r := range c.rules {
		all.Fields = append(all.Fields, r.Check(v)...)
	}
	for _, r := range c.predicates {
		all.Fields = append(all.Fields, r.Check(v)...)
	}

	switch sv := any(v).(type) {
	case ValidatorWithContext:
		all.AddError("predicate.validate", sv.ValidateContext(ctx))
	case ValidatorInterface:
		all.AddError("predicate.validate", sv.Validate())
	}

	return c.result(all.Fields)
}

func (c *Chain[T]) result(fields []FieldError) Result {
	if c.cfg.fieldNameMapper != nil {
		for i := range fields {
			if fields[i].Path != "" {
				fields[i].Path = c.cfg.fieldNameMapper(fields[i].Path)
			}
		}
	}

	r := Result{Fields: fields}
	if c.cfg.maxErrors > 0 && len(fields) > c.cfg.maxErrors {
		r.Fields = fields[:c.cfg.maxErrors]
		r.Truncated = true
	}

	return r
}
