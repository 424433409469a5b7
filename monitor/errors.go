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

import "errors"

var (
	// ErrNotLoaded is returned when the monitor is used before a successful
	// [Monitor.Load].
	ErrNotLoaded = errors.New("settings not loaded")

	// ErrClosed is returned by operations on a closed monitor.
	ErrClosed = errors.New("monitor closed")

	// ErrNilStore is returned by [New] when no store is given.
	ErrNilStore = errors.New("store cannot be nil")

	// ErrNilBinder is returned by [New] when no binder is given.
	ErrNilBinder = errors.New("binder cannot be nil")

	// ErrChainType is returned by [New] when [WithChain] was given a chain
	// for another settings type.
	ErrChainType = errors.New("validation chain type does not match settings type")

	// ErrCloneType is returned by [New] when [WithClone] was given a
	// function for another settings type.
	ErrCloneType = errors.New("clone function type does not match settings type")
)
