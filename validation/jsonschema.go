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
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// defaultSchemaURL names a schema resource added without an explicit id.
const defaultSchemaURL = "schema.json"

type schemaRule[T any] struct {
	schema *jsonschema.Schema
	err    error
}

// JSONSchema creates a rule validating the JSON encoding of T against
// schema. Property names in the schema follow the JSON encoding of T
// (json tags, or Go field names). A schema that fails to compile is
// reported as a failure with code "schema.compile" on every run; use
// [CompileSchema] to check it up front.
//
// Example:
//
//	chain.Constrain(validation.JSONSchema[Mail](`{
//	    "type": "object",
//	    "properties": {"Port": {"type": "integer", "minimum": 1}},
//	    "required": ["Host"]
//	}`))
func JSONSchema[T any](schema string) Rule[T] {
	compiled, err := CompileSchema("", schema)
	return &schemaRule[T]{schema: compiled, err: err}
}

// CompileSchema compiles a JSON Schema document with format and content
// assertions enabled.
func CompileSchema(id, schemaJSON string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.AssertContent()

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	schemaURL := id
	if schemaURL == "" {
		schemaURL = defaultSchemaURL
	}
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}

// Check implements [Rule]. Failures are sorted by path, then code.
func (r *schemaRule[T]) Check(v T) []FieldError {
	if r.err != nil {
		return []FieldError{{Code: "schema.compile", Message: r.err.Error()}}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return []FieldError{{Code: "schema.marshal", Message: err.Error()}}
	}

	var data any
	if err = json.Unmarshal(raw, &data); err != nil {
		return []FieldError{{Code: "schema.unmarshal", Message: err.Error()}}
	}

	err = r.schema.Validate(data)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []FieldError{{Code: "schema.error", Message: err.Error()}}
	}

	var out Error
	collectSchemaErrors(verr, &out)
	out.Sort()

	return out.Fields
}

// collectSchemaErrors flattens the leaves of the ValidationError tree into out.
func collectSchemaErrors(verr *jsonschema.ValidationError, out *Error) {
	if len(verr.Causes) == 0 {
		code := "schema"
		if kw := verr.ErrorKind.KeywordPath(); len(kw) > 0 {
			code += "." + strings.Join(kw, ".")
		}

		out.Add(strings.Join(verr.InstanceLocation, "."), code, leafMessage(verr.Error()), map[string]any{
			"schema_url": verr.SchemaURL,
		})

		return
	}

	for _, cause := range verr.Causes {
		collectSchemaErrors(cause, out)
	}
}

// leafMessage keeps the last line of a schema error without its
// "- at '/path': " prefix.
func leafMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if i := strings.LastIndex(msg, "\n"); i >= 0 {
		msg = strings.TrimSpace(msg[i+1:])
	}
	if strings.HasPrefix(msg, "- at '") {
		if _, rest, ok := strings.Cut(msg, "': "); ok {
			msg = rest
		}
	}

	return msg
}
