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

import "context"

// Rule is one acceptance rule. Check returns the failures it found, or
// nothing when the value is accepted.
type Rule[T any] interface {
	Check(v T) []FieldError
}

// RuleFunc adapts a function to the [Rule] interface.
type RuleFunc[T any] func(v T) []FieldError

// Check calls f(v).
func (f RuleFunc[T]) Check(v T) []FieldError {
	return f(v)
}

// Constrained is implemented by settings types that carry their own
// declarative constraints. A [Chain] runs them before any rule registered
// with [Chain.Constrain].
//
// Example:
//
//	func (Mail) Constraints() []validation.Rule[Mail] {
//	    return []validation.Rule[Mail]{
//	        validation.Field("Host", func(m Mail) string { return m.Host }, validation.NotEmpty()),
//	    }
//	}
type Constrained[T any] interface {
	Constraints() []Rule[T]
}

// ValidatorInterface is implemented by settings types with custom
// validation logic. It runs as the last predicate of a [Chain].
//
// Example:
//
//	func (m Mail) Validate() error {
//	    if !strings.Contains(m.From, "@") {
//	        return errors.New("From must be an email address")
//	    }
//	    return nil
//	}
type ValidatorInterface interface {
	Validate() error
}

// ValidatorWithContext is the context-aware form of [ValidatorInterface].
// It is preferred when a type implements both.
type ValidatorWithContext interface {
	ValidateContext(context.Context) error
}
