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

// Package metrics builds the OpenTelemetry meter providers that settings
// components report to, and defines the instruments a change monitor records.
//
// A [Recorder] owns a [metric.MeterProvider] backed by one of three exporters:
//
//   - Prometheus (default): a private registry served over HTTP by
//     [Recorder.Start], or mounted manually through [Recorder.Handler]
//   - OTLP over HTTP: periodic push to a collector
//   - Stdout: periodic JSON dumps, useful during development
//
// A provider created elsewhere can be adopted with [WithMeterProvider]; the
// Recorder then neither flushes nor shuts it down.
//
// # Basic Usage
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheus(":9090", "/metrics"),
//	    metrics.WithServiceName("mailer"),
//	)
//	if err := recorder.Start(ctx); err != nil {
//	    return err
//	}
//	defer recorder.Shutdown(context.Background())
//
//	mon, err := monitor.New(store, "Mail", binder,
//	    monitor.WithMeterProvider(recorder.MeterProvider()),
//	)
//
// # Instruments
//
// [NewInstruments] creates the reload counter, the reload duration histogram,
// the snapshot version gauge and the subscriber panic counter on any meter
// provider:
//
//	settings.reloads                 counter   {reload}  section, result
//	settings.reload.duration         histogram s         section, result
//	settings.snapshot.version        gauge     1         section
//	settings.subscriber.panics       counter   {panic}   section
//
// By default the global OpenTelemetry meter provider is left untouched. Use
// [WithGlobalMeterProvider] to register the Recorder's provider globally.
package metrics
