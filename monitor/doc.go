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

// Package monitor keeps a typed, validated settings object in step with its
// configuration sources.
//
// A [Monitor] binds one section of a [config.Store] into a T, validates it,
// and publishes the result as an immutable value. When a watchable source
// reports a change, the monitor waits for the burst to settle, re-merges the
// store, binds and validates again, and only then swaps in the new value and
// notifies subscribers. A failed rebuild leaves the previous value in place.
//
// Values handed out are never touched again: a caller holding the result of
// [Monitor.Current] keeps seeing the same fields after any number of
// reloads. The copy is shallow. Slices, maps and pointers inside T are
// shared with the published value unless [WithClone] supplies a deep copy.
//
// # Lifecycle
//
//	Idle → Detecting → Rebuilding → Publishing → Idle
//
// [Monitor.Notify] moves an idle monitor to Detecting and (re)arms the
// debounce timer. Every notification inside the window restarts it, so a
// burst produces one rebuild. A rebuild that is already running completes
// before the next one starts.
//
// # Example
//
//	store := config.MustNew(
//	    config.WithFile("appsettings.json"),
//	    config.WithEnv(""),
//	)
//	mon, err := monitor.New(store, "Mail", mailSchema,
//	    monitor.WithChain(mailChain),
//	    monitor.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := mon.Load(ctx); err != nil {
//	    return err // initial load failures are fatal
//	}
//	if err := mon.Start(ctx); err != nil {
//	    return err
//	}
//	defer mon.Close()
//
//	cancel := mon.Subscribe(func(m Mail) { log.Printf("mail settings now %+v", m) })
//	defer cancel()
//
// # Policies
//
// With [Cached] (the default), [Monitor.Value] returns the published value.
// With [OnDemand], every call re-merges the sources and binds afresh, which
// mirrors reading configuration per request.
//
// # Telemetry
//
// [WithMeterProvider] records the instruments of the metrics package for
// every rebuild, and [WithTracerProvider] wraps each rebuild in a
// settings.reload span with one child span per stage. Failure logs carry
// the trace and span IDs.
package monitor
