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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rule    Rule[mail]
		value   mail
		wantMsg string
	}{
		{
			name:  "required passes",
			rule:  Field("From", func(m mail) string { return m.From }, Required[string]()),
			value: mail{From: "x"},
		},
		{
			name:    "required fails on zero",
			rule:    Field("From", func(m mail) string { return m.From }, Required[string]()),
			wantMsg: "From is required.",
		},
		{
			name:    "required int",
			rule:    Field("Port", func(m mail) int { return m.Port }, Required[int]()),
			wantMsg: "Port is required.",
		},
		{
			name:    "not empty rejects whitespace",
			rule:    Field("Host", func(m mail) string { return m.Host }, NotEmpty()),
			value:   mail{Host: "  "},
			wantMsg: "Host must not be empty.",
		},
		{
			name:  "range inclusive low",
			rule:  Field("Port", func(m mail) int { return m.Port }, Range(1, 65535)),
			value: mail{Port: 1},
		},
		{
			name:  "range inclusive high",
			rule:  Field("Port", func(m mail) int { return m.Port }, Range(1, 65535)),
			value: mail{Port: 65535},
		},
		{
			name:    "range above",
			rule:    Field("Port", func(m mail) int { return m.Port }, Range(1, 65535)),
			value:   mail{Port: 65536},
			wantMsg: "Port must be between 1 and 65535.",
		},
		{
			name:    "min",
			rule:    Field("Port", func(m mail) int { return m.Port }, Min(1024)),
			value:   mail{Port: 25},
			wantMsg: "Port must be at least 1024.",
		},
		{
			name:    "max",
			rule:    Field("Port", func(m mail) int { return m.Port }, Max(1024)),
			value:   mail{Port: 8080},
			wantMsg: "Port must be at most 1024.",
		},
		{
			name:  "pattern matches",
			rule:  Field("From", func(m mail) string { return m.From }, Pattern(`^[^@]+@[^@]+$`)),
			value: mail{From: "x@a.com"},
		},
		{
			name:    "pattern fails",
			rule:    Field("From", func(m mail) string { return m.From }, Pattern(`^[^@]+@[^@]+$`)),
			value:   mail{From: "nobody"},
			wantMsg: "From must match ^[^@]+@[^@]+$.",
		},
		{
			name:    "one of",
			rule:    Field("Port", func(m mail) int { return m.Port }, OneOf(25, 465, 587)),
			value:   mail{Port: 2525},
			wantMsg: "Port must be one of [25 465 587].",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := tt.rule.Check(tt.value)
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
				return
			}
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.wantMsg, errs[0].Message)
			}
		})
	}
}

func TestField_AllChecksRun(t *testing.T) {
	t.Parallel()

	rule := Field("Host", func(m mail) string { return m.Host },
		NotEmpty(),
		Pattern(`\.`),
		OneOf("a.com", "b.com"),
	)

	errs := rule.Check(mail{})
	assert.Len(t, errs, 3)
	assert.Equal(t, "field.not_empty", errs[0].Code)
	assert.Equal(t, "field.pattern", errs[1].Code)
	assert.Equal(t, "field.oneof", errs[2].Code)
	assert.Equal(t, []string{"a.com", "b.com"}, errs[2].Meta["allowed"])
}

func TestRange_Duration(t *testing.T) {
	t.Parallel()

	type opts struct{ Timeout time.Duration }
	rule := Field("Timeout", func(o opts) time.Duration { return o.Timeout }, Range(time.Second, time.Minute))

	assert.Empty(t, rule.Check(opts{Timeout: 30 * time.Second}))
	errs := rule.Check(opts{Timeout: time.Hour})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "Timeout must be between 1s and 1m0s.", errs[0].Message)
	}
}

func TestPattern_PanicsOnBadExpression(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Pattern("(") })
}
