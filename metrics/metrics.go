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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Meter scope used by settings components.
const ScopeName = "rivaas.dev/settings"

// DefaultDurationBuckets are histogram boundaries for reload durations in
// seconds. Reloads are dominated by source I/O, so the range reaches 10s.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// ErrConflictingProviders is returned when more than one of WithPrometheus,
	// WithOTLP, WithStdout or WithMeterProvider is given.
	ErrConflictingProviders = errors.New("conflicting provider options")

	// ErrUnsupportedProvider indicates an unknown [Provider] value.
	ErrUnsupportedProvider = errors.New("unsupported metrics provider")

	// ErrNoHandler is returned by [Recorder.Handler] for push providers.
	ErrNoHandler = errors.New("handler only available with Prometheus provider")
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to export metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event (e.g., metrics server started).
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event represents an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the metrics package.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to logger.
// If logger is nil, events are discarded.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider uses Prometheus exporter for metrics (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider uses OTLP HTTP exporter for metrics.
	OTLPProvider Provider = "otlp"
	// StdoutProvider uses stdout exporter for metrics (development/testing).
	StdoutProvider Provider = "stdout"
	// CustomProvider marks a meter provider supplied with [WithMeterProvider].
	CustomProvider Provider = "custom"
)

// Recorder owns a meter provider and its exporter. All methods are safe for
// concurrent use.
type Recorder struct {
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	server      *http.Server
	listener    net.Listener
	serverMutex sync.Mutex

	validationErrors []error

	provider         Provider
	providerSetCount int
	exportInterval   time.Duration
	stdoutWriter     io.Writer

	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	serverAddr     string
	metricsPath    string

	isStarted      atomic.Bool
	isShuttingDown atomic.Bool

	autoStartServer bool
	registerGlobal  bool
}

// New creates a new [Recorder] with the given options.
// Returns an error if the metrics provider fails to initialize.
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew creates a new [Recorder] or panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("metrics.MustNew: %v", err))
	}
	return r
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		stdoutWriter:    os.Stdout,
		serviceName:     "settings",
		serverAddr:      ":9090",
		metricsPath:     "/metrics",
		autoStartServer: true,
	}
}

func (r *Recorder) validate() error {
	errs := append([]error(nil), r.validationErrors...)

	if r.providerSetCount > 1 {
		errs = append(errs, fmt.Errorf("%w: only one of WithPrometheus, WithOTLP, WithStdout or WithMeterProvider can be used", ErrConflictingProviders))
	}
	if r.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}

	switch r.provider {
	case PrometheusProvider:
		if r.autoStartServer && r.serverAddr == "" {
			errs = append(errs, errors.New("metrics address cannot be empty for Prometheus provider"))
		}
		if r.metricsPath == "" || r.metricsPath[0] != '/' {
			errs = append(errs, fmt.Errorf("metrics path must start with '/', got %q", r.metricsPath))
		}
	case OTLPProvider:
		if r.otlpEndpoint == "" {
			r.emitWarning("OTLP endpoint not specified, will use default", "default", "http://localhost:4318")
			r.otlpEndpoint = "http://localhost:4318"
		}
	case StdoutProvider, CustomProvider:
	default:
		errs = append(errs, fmt.Errorf("%w: %s", ErrUnsupportedProvider, r.provider))
	}

	return errors.Join(errs...)
}

// MeterProvider returns the provider instruments should be created on.
func (r *Recorder) MeterProvider() metric.MeterProvider {
	return r.meterProvider
}

// Meter returns the settings meter of the provider.
func (r *Recorder) Meter() metric.Meter {
	return r.meterProvider.Meter(ScopeName)
}

// Handler returns the Prometheus metrics [http.Handler] for mounting on an
// existing server. Returns [ErrNoHandler] for other providers.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.provider != PrometheusProvider || r.prometheusHandler == nil {
		return nil, fmt.Errorf("%w, current provider: %s", ErrNoHandler, r.provider)
	}
	return r.prometheusHandler, nil
}

// Provider returns the current metrics provider.
func (r *Recorder) Provider() Provider {
	return r.provider
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ServiceVersion returns the service version.
func (r *Recorder) ServiceVersion() string {
	return r.serviceVersion
}

// ServerAddress returns the address the metrics server listens on. Once
// started it is the bound address, so ":0" resolves to the chosen port.
// Returns "" when no server is configured.
func (r *Recorder) ServerAddress() string {
	if r.provider != PrometheusProvider || !r.autoStartServer {
		return ""
	}
	r.serverMutex.Lock()
	defer r.serverMutex.Unlock()
	if r.listener != nil {
		return r.listener.Addr().String()
	}
	return r.serverAddr
}

// Path returns the path of the Prometheus endpoint, or "" for other providers.
func (r *Recorder) Path() string {
	if r.provider != PrometheusProvider {
		return ""
	}
	return r.metricsPath
}

// Start starts the Prometheus metrics server when one is configured. It is
// idempotent. The listener is bound before Start returns, so a port conflict
// is reported to the caller. Cancelling ctx shuts the server down.
func (r *Recorder) Start(ctx context.Context) error {
	if !r.isStarted.CompareAndSwap(false, true) {
		return nil
	}
	if r.provider != PrometheusProvider || !r.autoStartServer {
		return nil
	}
	if err := r.startMetricsServer(); err != nil {
		r.isStarted.Store(false)
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.stopMetricsServer(shutdownCtx); err != nil {
			r.emitWarning("metrics server stop", "error", err)
		}
	}()
	return nil
}

// Shutdown stops the metrics server and flushes and shuts down the meter
// provider. Providers adopted with [WithMeterProvider] are left to their
// owner. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	if err := r.stopMetricsServer(ctx); err != nil {
		errs = append(errs, err)
	}

	if r.provider == CustomProvider {
		r.emitDebug("Skipping shutdown of custom meter provider")
	} else if err := r.shutdownSDKMeterProvider(ctx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (r *Recorder) shutdownSDKMeterProvider(ctx context.Context) error {
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	r.emitDebug("Meter provider shut down")
	return nil
}

// ForceFlush immediately exports pending metric data. It is a no-op for
// Prometheus, which is pulled, and after Shutdown.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}
	return nil
}

func (r *Recorder) emitError(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (r *Recorder) emitInfo(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventInfo, Message: msg, Args: args})
	}
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
