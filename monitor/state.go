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

package monitor

// State is a phase of the reload cycle.
type State int32

const (
	// Idle means no change is pending.
	Idle State = iota
	// Detecting means a change was reported and the debounce timer runs.
	Detecting
	// Rebuilding means sources are being merged, bound and validated.
	Rebuilding
	// Publishing means the new value is being swapped in and subscribers
	// are notified.
	Publishing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Detecting:
		return "detecting"
	case Rebuilding:
		return "rebuilding"
	case Publishing:
		return "publishing"
	default:
		return "unknown"
	}
}

// Policy selects what [Monitor.Value] returns.
type Policy int

const (
	// Cached returns the value published by the last successful load.
	Cached Policy = iota
	// OnDemand merges, binds and validates on every call.
	OnDemand
)

func (p Policy) String() string {
	switch p {
	case Cached:
		return "cached"
	case OnDemand:
		return "on-demand"
	default:
		return "unknown"
	}
}
