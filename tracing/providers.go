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
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rivaas.dev/settings/telemetry/semconv"
)

// initializeProvider builds the SDK provider for t.provider. ctx is only
// used by the OTLP exporters.
func (t *Tracer) initializeProvider(ctx context.Context) error {
	if t.provider == CustomProvider {
		t.logger.Debug("Using custom user-provided tracer provider")
		t.registerGlobalProvider()
		return nil
	}

	var opts []sdktrace.TracerProviderOption
	switch t.provider {
	case NoopProvider:
	case StdoutProvider:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(t.stdoutWriter))
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case OTLPProvider:
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(t.otlpEndpoint)}
		if t.otlpInsecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case OTLPHTTPProvider:
		httpOpts, err := otlpHTTPOptions(t.otlpEndpoint)
		if err != nil {
			return err
		}
		exporter, err := otlptracehttp.New(ctx, httpOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, t.provider)
	}

	opts = append(opts,
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	)
	tp := sdktrace.NewTracerProvider(opts...)

	t.mu.Lock()
	t.sdkProvider = tp
	t.tracerProvider = tp
	t.mu.Unlock()

	t.registerGlobalProvider()
	t.logger.Info("Tracing initialized", "provider", string(t.provider), "endpoint", t.otlpEndpoint, "service", t.serviceName)

	return nil
}

func (t *Tracer) registerGlobalProvider() {
	if !t.registerGlobal {
		return
	}
	t.logger.Debug("Setting global OpenTelemetry tracer provider", "provider", string(t.provider))
	otel.SetTracerProvider(t.TracerProvider())
}

// otlpHTTPOptions turns an endpoint into exporter options. Both "host:port"
// and a full URL are accepted.
func otlpHTTPOptions(endpoint string) ([]otlptracehttp.Option, error) {
	if !strings.Contains(endpoint, "://") {
		return []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid OTLP endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid OTLP endpoint %q: missing host", endpoint)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(u.Host)}
	switch u.Scheme {
	case "http":
		opts = append(opts, otlptracehttp.WithInsecure())
	case "https":
	default:
		return nil, fmt.Errorf("invalid OTLP endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if u.Path != "" && u.Path != "/" {
		opts = append(opts, otlptracehttp.WithURLPath(u.Path))
	}

	return opts, nil
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	attrs := []attribute.KeyValue{attribute.String(semconv.ServiceName, serviceName)}
	if serviceVersion != "" {
		attrs = append(attrs, attribute.String(semconv.ServiceVersion, serviceVersion))
	}
	return resource.NewSchemaless(attrs...)
}
