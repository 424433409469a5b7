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

package metrics_test

import (
	"context"
	"fmt"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"rivaas.dev/settings/metrics"
)

func ExampleNewInstruments() {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background()) //nolint:errcheck // example

	in, err := metrics.NewInstruments(mp)
	if err != nil {
		panic(err)
	}
	in.RecordReload(context.Background(), "Mail", metrics.ResultSuccess, 15*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		panic(err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			fmt.Println(m.Name)
		}
	}
	// Output:
	// settings.reloads
	// settings.reload.duration
}

func ExampleRecorder_Handler() {
	recorder := metrics.MustNew(
		metrics.WithPrometheus(":9090", "/metrics"),
		metrics.WithServerDisabled(),
		metrics.WithServiceName("mailer"),
	)
	defer recorder.Shutdown(context.Background()) //nolint:errcheck // example

	handler, err := recorder.Handler()
	fmt.Println(handler != nil, err)
	// Output: true <nil>
}
