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

package logging

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"rivaas.dev/settings/config"
)

// Keys read by [FromSection], relative to the logging section.
const (
	KeyLevel       = "LogLevel:Default"
	KeyFormat      = "Format"
	KeySource      = "IncludeSource"
	KeyRedactExtra = "Redact"
)

// FromSection builds a Logger from a settings section such as
// snapshot.Section("Logging"). Explicit opts are applied after the section
// values and therefore win. A missing or nil section yields the defaults.
func FromSection(sec *config.Section, opts ...Option) (*Logger, error) {
	sectionOpts, err := SectionOptions(sec)
	if err != nil {
		return nil, err
	}
	return New(append(sectionOpts, opts...)...)
}

// SectionOptions translates a logging section into options.
func SectionOptions(sec *config.Section) ([]Option, error) {
	if sec == nil || !sec.Exists() {
		return nil, nil
	}

	var opts []Option
	if lvl, ok, err := LevelFromSection(sec); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, WithLevel(lvl))
	}

	if raw, ok := sec.Lookup(KeyFormat); ok && strings.TrimSpace(raw) != "" {
		ht := HandlerType(strings.ToLower(strings.TrimSpace(raw)))
		switch ht {
		case JSONHandler, TextHandler, ConsoleHandler:
			opts = append(opts, WithHandlerType(ht))
		default:
			return nil, fmt.Errorf("%s: %w: %q", sec.Section(KeyFormat).Path(), ErrInvalidHandler, raw)
		}
	}

	if raw, ok := sec.Lookup(KeySource); ok {
		enabled, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sec.Section(KeySource).Path(), err)
		}
		opts = append(opts, WithSource(enabled))
	}

	var extra []string
	redact := sec.Section(KeyRedactExtra)
	if children := redact.Children(); len(children) > 0 {
		for _, c := range children {
			if v, ok := c.Value(); ok {
				extra = append(extra, v)
			}
		}
	} else if raw, ok := redact.Value(); ok {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				extra = append(extra, k)
			}
		}
	}
	if len(extra) > 0 {
		opts = append(opts, WithRedactedKeys(extra...))
	}

	return opts, nil
}

// LevelFromSection reads "LogLevel:Default" from a logging section. The
// boolean is false when the key is absent or empty.
func LevelFromSection(sec *config.Section) (Level, bool, error) {
	if sec == nil {
		return LevelInfo, false, nil
	}
	raw, ok := sec.Lookup(KeyLevel)
	if !ok || strings.TrimSpace(raw) == "" {
		return LevelInfo, false, nil
	}
	lvl, err := ParseLevel(raw)
	if err != nil {
		return LevelInfo, false, fmt.Errorf("%s: %w", sec.Section(KeyLevel).Path(), err)
	}
	return lvl, true, nil
}
