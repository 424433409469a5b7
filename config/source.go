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
	"context"
	"fmt"

	"rivaas.dev/settings/config/source"
)

// Source defines the interface for configuration sources.
// Implementations load configuration data from various locations
// such as files, environment variables, or remote services.
//
// Load must be safe to call concurrently.
type Source interface {
	// Load returns one entry per leaf. Failures should wrap
	// [source.ErrSourceUnavailable] or [source.ErrSourceMalformed].
	Load(ctx context.Context) ([]source.Entry, error)
}

// Watcher is implemented by sources that can report changes.
type Watcher interface {
	// Watch installs a change listener and returns without blocking.
	// onChange may be called from any goroutine until ctx is done.
	Watch(ctx context.Context, onChange func()) error
}

// Namer is implemented by sources that have a human readable name.
// The name is recorded as the provenance of every value the source wins.
type Namer interface {
	Name() string
}

// Dumper writes the merged configuration tree somewhere.
type Dumper interface {
	Dump(ctx context.Context, tree map[string]any) error
}

func sourceName(src Source, index int) string {
	if n, ok := src.(Namer); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}

	return fmt.Sprintf("source[%d]", index)
}
