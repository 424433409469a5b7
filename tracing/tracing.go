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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ScopeName is the instrumentation scope of settings spans.
const ScopeName = "rivaas.dev/settings"

var (
	// ErrConflictingProviders is returned when more than one provider option
	// is given.
	ErrConflictingProviders = errors.New("conflicting provider options")

	// ErrUnsupportedProvider indicates an unknown [Provider] value.
	ErrUnsupportedProvider = errors.New("unsupported tracing provider")
)

// Provider represents the available tracing providers.
type Provider string

const (
	// NoopProvider creates spans without exporting them (default).
	NoopProvider Provider = "noop"
	// StdoutProvider writes spans to a writer, os.Stdout by default.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans over OTLP gRPC.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans over OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"
	// CustomProvider marks a tracer provider supplied with [WithTracerProvider].
	CustomProvider Provider = "custom"
)

// Tracer owns a tracer provider and its exporter. All methods are safe for
// concurrent use.
type Tracer struct {
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	logger         *slog.Logger

	validationErrors []error

	provider         Provider
	providerSetCount int
	sampleRate       float64
	stdoutWriter     io.Writer

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	otlpInsecure   bool

	mu             sync.RWMutex
	isStarted      atomic.Bool
	isShuttingDown atomic.Bool
	registerGlobal bool
}

// New creates a [Tracer]. Noop, stdout and custom providers are ready on
// return; OTLP providers are connected by [Tracer.Start].
func New(opts ...Option) (*Tracer, error) {
	t := newDefaultTracer()

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if !t.needsStart() {
		if err := t.initializeProvider(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	return t, nil
}

// MustNew creates a new [Tracer] or panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("tracing.MustNew: %v", err))
	}
	return t
}

func newDefaultTracer() *Tracer {
	return &Tracer{
		logger:       slog.New(slog.DiscardHandler),
		provider:     NoopProvider,
		sampleRate:   1.0,
		stdoutWriter: os.Stdout,
		serviceName:  "settings",
	}
}

func (t *Tracer) validate() error {
	errs := append([]error(nil), t.validationErrors...)

	if t.providerSetCount > 1 {
		errs = append(errs, fmt.Errorf("%w: only one of WithStdout, WithOTLP, WithOTLPHTTP or WithTracerProvider can be used", ErrConflictingProviders))
	}
	if t.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if t.sampleRate < 0 || t.sampleRate > 1 {
		errs = append(errs, fmt.Errorf("sample rate must be between 0 and 1, got %v", t.sampleRate))
	}

	switch t.provider {
	case NoopProvider, StdoutProvider, CustomProvider:
	case OTLPProvider, OTLPHTTPProvider:
		if t.otlpEndpoint == "" {
			errs = append(errs, fmt.Errorf("%s provider requires an endpoint", t.provider))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnsupportedProvider, t.provider))
	}

	return errors.Join(errs...)
}

func (t *Tracer) needsStart() bool {
	return t.provider == OTLPProvider || t.provider == OTLPHTTPProvider
}

// Start creates the OTLP exporter. It does nothing for other providers and
// on repeated calls.
func (t *Tracer) Start(ctx context.Context) error {
	if !t.needsStart() {
		return nil
	}
	if !t.isStarted.CompareAndSwap(false, true) {
		return nil
	}
	if err := t.initializeProvider(ctx); err != nil {
		t.isStarted.Store(false)
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	return nil
}

// TracerProvider returns the provider to hand to instrumented components.
// Before an OTLP tracer is started it returns a no-op provider.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.tracerProvider == nil {
		return noop.NewTracerProvider()
	}
	return t.tracerProvider
}

// Tracer returns a tracer for the settings scope.
func (t *Tracer) Tracer() trace.Tracer {
	return t.TracerProvider().Tracer(ScopeName)
}

// Provider returns the configured provider.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// ServiceName returns the service.name resource attribute.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// ServiceVersion returns the service.version resource attribute.
func (t *Tracer) ServiceVersion() string {
	return t.serviceVersion
}

// ForceFlush exports all ended spans that have not been exported yet.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	t.mu.RLock()
	sdk := t.sdkProvider
	t.mu.RUnlock()

	if sdk == nil {
		return nil
	}
	return sdk.ForceFlush(ctx)
}

// Shutdown flushes and stops the SDK provider. A provider supplied with
// [WithTracerProvider] is left to its owner. Repeated calls return nil.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	t.mu.RLock()
	sdk := t.sdkProvider
	t.mu.RUnlock()

	if sdk == nil {
		return nil
	}
	if err := sdk.Shutdown(ctx); err != nil {
		t.logger.Error("Error shutting down tracer provider", "error", err)
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	t.logger.Debug("Tracer provider shut down", "provider", string(t.provider))

	return nil
}
