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

// Package validation runs ordered acceptance rules against a bound settings
// object and aggregates every failure.
//
// # Getting Started
//
// Rules come in two tiers. Declarative constraints run first, then
// predicates. Every rule always runs; the object is accepted only when no
// rule fails:
//
//	chain := validation.MustChain[Mail]().
//		Constrain(
//			validation.Field("Host", func(m Mail) string { return m.Host },
//				validation.NotEmpty().WithMessage("Host is required.")),
//			validation.Field("Port", func(m Mail) int { return m.Port },
//				validation.Range(1, 65535)),
//		).
//		Must(func(m Mail) bool { return m.Port > 0 }, "Port must be > 0")
//
//	if err := chain.Validate(mail).Err(); err != nil {
//		var verr *validation.Error
//		if errors.As(err, &verr) {
//			for _, fieldErr := range verr.Fields {
//				fmt.Printf("%s: %s\n", fieldErr.Code, fieldErr.Message)
//			}
//		}
//	}
//
// # Declarative constraints
//
//   - [Field] checks one value with [Required], [NotEmpty], [Range], [Min],
//     [Max], [Pattern] and [OneOf]
//   - [Tags] evaluates go-playground/validator `validate` struct tags
//   - [JSONSchema] validates the JSON form of the object against a schema
//   - types implementing [Constrained] contribute their own constraints
//
// # Predicates
//
// [Chain.Must] registers a boolean predicate with a message, [Chain.Func]
// a named function returning an error. A type implementing
// [ValidatorInterface] or [ValidatorWithContext] is checked last.
//
// # Ordering
//
// Failures are reported in rule registration order, tier 1 before tier 2,
// so messages are stable across runs.
package validation
