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

package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// TypeEnvVar identifies the environment-variable codec (dotenv style
// KEY=VALUE lines).
const TypeEnvVar Type = "env_var"

// DefaultEnvSeparator splits variable names into key segments:
// MAIL__SMTP__PORT addresses Mail.Smtp.Port.
const DefaultEnvSeparator = "__"

func init() {
	Register(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes KEY=VALUE lines into a nested configuration map.
// Blank lines, lines starting with '#', an optional "export " prefix and
// lines without '=' are skipped. Values keep their inner whitespace; a
// single pair of surrounding quotes is removed.
type EnvVarCodec struct {
	// Separator splits names into segments. Empty means [DefaultEnvSeparator].
	Separator string
}

// Encode is not supported; environment variables are read-only.
func (EnvVarCodec) Encode(_ any) ([]byte, error) {
	return nil, fmt.Errorf("encoding to environment variables is not supported")
}

// Split converts a variable name into key segments. Empty segments are
// dropped; a name made only of separators yields nil.
func (c EnvVarCodec) Split(name string) []string {
	sep := c.Separator
	if sep == "" {
		sep = DefaultEnvSeparator
	}

	raw := strings.Split(strings.TrimSpace(name), sep)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}

	return parts
}

// Decode parses data into v, which must be a *map[string]any.
// When a name is both a value and a parent of other names, the entry that
// comes later in data wins.
func (c EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		text = strings.TrimPrefix(text, "export ")

		name, value, found := strings.Cut(text, "=")
		if !found {
			continue
		}

		parts := c.Split(name)
		if parts == nil {
			continue
		}

		insert(conf, parts, unquote(value))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}

	*ptr = conf

	return nil
}

func insert(conf map[string]any, parts []string, value string) {
	current := conf
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}

	return s
}
