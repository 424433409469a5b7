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
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// ErrServerNotReady is returned when the metrics server fails to start within the timeout.
var ErrServerNotReady = errors.New("metrics server not ready")

// TestingRecorder creates a [Recorder] using [StdoutProvider] with output
// discarded. It is shut down when the test ends.
func TestingRecorder(t testing.TB, serviceName string, opts ...Option) *Recorder {
	t.Helper()

	allOpts := append([]Option{
		WithServiceName(serviceName),
		WithStdout(),
		WithStdoutWriter(io.Discard),
	}, opts...)

	recorder, err := New(allOpts...)
	require.NoError(t, err, "TestingRecorder: failed to create recorder")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Shutdown(ctx); err != nil {
			t.Logf("TestingRecorder: shutdown warning: %v", err)
		}
	})

	return recorder
}

// TestingRecorderWithPrometheus creates a started [Recorder] using
// [PrometheusProvider] on a loopback port chosen by the kernel.
func TestingRecorderWithPrometheus(t testing.TB, serviceName string, opts ...Option) *Recorder {
	t.Helper()

	allOpts := append([]Option{
		WithServiceName(serviceName),
		WithPrometheus("127.0.0.1:0", "/metrics"),
	}, opts...)

	recorder, err := New(allOpts...)
	require.NoError(t, err, "TestingRecorderWithPrometheus: failed to create recorder")
	require.NoError(t, recorder.Start(context.Background()), "TestingRecorderWithPrometheus: failed to start")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Shutdown(ctx); err != nil {
			t.Logf("TestingRecorderWithPrometheus: shutdown warning: %v", err)
		}
	})

	return recorder
}

// WaitForMetricsServer waits for the metrics server to accept connections.
func WaitForMetricsServer(t testing.TB, address string, timeout time.Duration) error {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", address, 100*time.Millisecond)
		if err == nil {
			conn.Close() //nolint:errcheck // best-effort close in a test helper
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("%w after %v", ErrServerNotReady, timeout)
}

// TestMeterProvider returns a meter provider backed by a manual reader, for
// asserting on recorded values with [Collect] and the value helpers.
func TestMeterProvider(t testing.TB) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background()) //nolint:errcheck // test cleanup
	})
	return mp, reader
}

// Collect gathers the current metrics of reader and returns the named one.
// The boolean is false when nothing was recorded under name.
func Collect(t testing.TB, reader sdkmetric.Reader, name string) (metricdata.Metrics, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// CounterValue sums the int64 counter name over data points carrying attrs.
func CounterValue(t testing.TB, reader sdkmetric.Reader, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	m, ok := Collect(t, reader, name)
	if !ok {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is %T, not an int64 sum", name, m.Data)

	var total int64
	for _, dp := range sum.DataPoints {
		if hasAttrs(dp.Attributes, attrs) {
			total += dp.Value
		}
	}
	return total
}

// HistogramCount returns how many values the float64 histogram name recorded
// over data points carrying attrs.
func HistogramCount(t testing.TB, reader sdkmetric.Reader, name string, attrs ...attribute.KeyValue) uint64 {
	t.Helper()

	m, ok := Collect(t, reader, name)
	if !ok {
		return 0
	}
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "%s is %T, not a float64 histogram", name, m.Data)

	var count uint64
	for _, dp := range hist.DataPoints {
		if hasAttrs(dp.Attributes, attrs) {
			count += dp.Count
		}
	}
	return count
}

// GaugeValue returns the last value of the int64 gauge name for attrs.
func GaugeValue(t testing.TB, reader sdkmetric.Reader, name string, attrs ...attribute.KeyValue) (int64, bool) {
	t.Helper()

	m, ok := Collect(t, reader, name)
	if !ok {
		return 0, false
	}
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	require.True(t, ok, "%s is %T, not an int64 gauge", name, m.Data)

	for _, dp := range gauge.DataPoints {
		if hasAttrs(dp.Attributes, attrs) {
			return dp.Value, true
		}
	}
	return 0, false
}

func hasAttrs(set attribute.Set, want []attribute.KeyValue) bool {
	for _, kv := range want {
		v, ok := set.Value(kv.Key)
		if !ok || v.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}
