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

package tracing

import (
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithTracerProvider adopts a tracer provider managed by the caller. The
// Tracer neither flushes nor shuts it down.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		if provider == nil {
			t.validationErrors = append(t.validationErrors, errors.New("tracer provider is nil"))
			return
		}
		t.tracerProvider = provider
		t.provider = CustomProvider
		t.providerSetCount++
	}
}

// WithGlobalTracerProvider registers the provider as the global
// OpenTelemetry tracer provider via otel.SetTracerProvider.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithSampleRate samples the given fraction of root spans, from 0 to 1.
// Child spans follow their parent's decision.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = rate
	}
}

// WithStdout writes spans to os.Stdout.
func WithStdout() Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.providerSetCount++
	}
}

// WithStdoutWriter writes spans to w instead of os.Stdout.
func WithStdoutWriter(w io.Writer) Option {
	return func(t *Tracer) {
		if w == nil {
			t.validationErrors = append(t.validationErrors, errors.New("stdout writer is nil"))
			return
		}
		t.stdoutWriter = w
	}
}

// WithOTLP exports spans over gRPC to endpoint, a host:port.
func WithOTLP(endpoint string, insecure bool) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.otlpEndpoint = endpoint
		t.otlpInsecure = insecure
		t.providerSetCount++
	}
}

// WithOTLPHTTP exports spans over HTTP to endpoint. An http:// URL selects
// a plain-text connection, and a URL path replaces the default /v1/traces.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.otlpEndpoint = endpoint
		t.providerSetCount++
	}
}

// WithLogger logs provider lifecycle events to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger == nil {
			t.validationErrors = append(t.validationErrors, errors.New("logger is nil"))
			return
		}
		t.logger = logger
	}
}
