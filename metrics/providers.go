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
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"rivaas.dev/settings/telemetry/semconv"
)

func (r *Recorder) initializeProvider() error {
	if r.provider == CustomProvider {
		r.emitDebug("Using custom meter provider")
		return nil
	}

	var reader sdkmetric.Reader
	var err error
	switch r.provider {
	case PrometheusProvider:
		reader, err = r.prometheusReader()
	case OTLPProvider:
		reader, err = r.otlpReader()
	case StdoutProvider:
		reader, err = r.stdoutReader()
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedProvider, r.provider)
	}
	if err != nil {
		return err
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(r.resource()),
	)

	if r.registerGlobal {
		r.emitDebug("Setting global OpenTelemetry meter provider", "provider", r.provider)
		otel.SetMeterProvider(r.meterProvider)
	}
	return nil
}

// resource describes the service every exported metric belongs to.
func (r *Recorder) resource() *resource.Resource {
	attrs := []attribute.KeyValue{attribute.String(semconv.ServiceName, r.serviceName)}
	if r.serviceVersion != "" {
		attrs = append(attrs, attribute.String(semconv.ServiceVersion, r.serviceVersion))
	}
	return resource.NewSchemaless(attrs...)
}

func (r *Recorder) prometheusReader() (sdkmetric.Reader, error) {
	// A private registry keeps several recorders in one process apart.
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(r.prometheusRegistry))
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})
	return exporter, nil
}

func (r *Recorder) otlpReader() (sdkmetric.Reader, error) {
	opts, err := otlpOptions(r.otlpEndpoint)
	if err != nil {
		return nil, err
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)), nil
}

// otlpOptions translates an endpoint such as "http://collector:4318/v1/metrics"
// into exporter options. A bare "host:port" is treated as https.
func otlpOptions(endpoint string) ([]otlpmetrichttp.Option, error) {
	if endpoint == "" {
		return nil, nil
	}

	if !strings.Contains(endpoint, "://") {
		return []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(strings.TrimSuffix(endpoint, "/"))}, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid OTLP endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid OTLP endpoint %q: missing host", endpoint)
	}

	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(u.Host)}
	switch u.Scheme {
	case "http":
		opts = append(opts, otlpmetrichttp.WithInsecure())
	case "https":
	default:
		return nil, fmt.Errorf("invalid OTLP endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if p := strings.TrimSuffix(u.Path, "/"); p != "" {
		opts = append(opts, otlpmetrichttp.WithURLPath(p))
	}
	return opts, nil
}

func (r *Recorder) stdoutReader() (sdkmetric.Reader, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(r.stdoutWriter))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)), nil
}

// startMetricsServer binds the listener synchronously and serves in the
// background.
func (r *Recorder) startMetricsServer() error {
	if r.prometheusHandler == nil {
		return nil
	}
	if r.isShuttingDown.Load() {
		return errors.New("metrics recorder is shut down")
	}

	ln, err := net.Listen("tcp", r.serverAddr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", r.serverAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(r.metricsPath, r.prometheusHandler)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	r.serverMutex.Lock()
	r.server = server
	r.listener = ln
	r.serverMutex.Unlock()

	r.emitInfo("Metrics server starting", "address", ln.Addr().String(), "path", r.metricsPath)

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.emitError("Metrics server error", "error", err)
		}
	}()
	return nil
}

func (r *Recorder) stopMetricsServer(ctx context.Context) error {
	r.serverMutex.Lock()
	server := r.server
	r.server = nil
	r.serverMutex.Unlock()

	if server == nil {
		return nil
	}
	if err := server.Shutdown(ctx); err != nil {
		r.emitError("Error shutting down metrics server", "error", err)
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	r.emitDebug("Metrics server shut down")
	return nil
}
