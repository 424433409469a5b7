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

// Package tracing records OpenTelemetry spans for settings reloads.
//
// A [Tracer] owns a tracer provider and its exporter. Monitors take the
// provider through monitor.WithTracerProvider and emit one span per
// rebuild, with a child span for each stage:
//
//	settings.reload            section, trigger, result, snapshot version
//	├── settings.merge         number of sources
//	├── settings.bind
//	└── settings.validate
//
// A failed stage marks its span and the reload span with an error status,
// so a rejected configuration edit shows up next to the request traces of
// the service that loaded it.
//
// # Providers
//
//   - NoopProvider (default): spans are created but never exported
//   - StdoutProvider: spans are written as JSON to a writer
//   - OTLPProvider: spans are sent to a collector over gRPC
//   - OTLPHTTPProvider: spans are sent to a collector over HTTP
//
// OTLP exporters are created by [Tracer.Start]; until then the tracer
// provider records nothing.
//
//	tracer, err := tracing.New(
//	    tracing.WithServiceName("mail"),
//	    tracing.WithOTLP("localhost:4317", true),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := tracer.Start(ctx); err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	m, err := monitor.New(store, "Mail", schema,
//	    monitor.WithTracerProvider(tracer.TracerProvider()),
//	)
//
// # Testing
//
// [TestTracerProvider] returns an SDK provider with an in-memory span
// recorder, and [Spans] filters the recorded spans by name.
package tracing
