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
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instrument names.
const (
	ReloadsName          = "settings.reloads"
	ReloadDurationName   = "settings.reload.duration"
	SnapshotVersionName  = "settings.snapshot.version"
	SubscriberPanicsName = "settings.subscriber.panics"
)

// Attribute keys.
const (
	AttrSection = attribute.Key("section")
	AttrResult  = attribute.Key("result")
)

// Result classifies the outcome of a reload.
type Result string

const (
	ResultSuccess         Result = "success"
	ResultSourceError     Result = "source_error"
	ResultBindError       Result = "bind_error"
	ResultValidationError Result = "validation_error"
	ResultCanceled        Result = "canceled"
)

// Instruments records reload activity of change monitors.
// A nil *Instruments records nothing.
type Instruments struct {
	reloads  metric.Int64Counter
	duration metric.Float64Histogram
	version  metric.Int64Gauge
	panics   metric.Int64Counter
}

// NewInstruments creates the settings instruments on mp. A nil provider
// yields no-op instruments.
func NewInstruments(mp metric.MeterProvider) (*Instruments, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter(ScopeName)

	var (
		in   Instruments
		err  error
		errs []error
	)

	in.reloads, err = meter.Int64Counter(ReloadsName,
		metric.WithDescription("Number of settings reloads by outcome"),
		metric.WithUnit("{reload}"),
	)
	errs = append(errs, err)

	in.duration, err = meter.Float64Histogram(ReloadDurationName,
		metric.WithDescription("Time spent re-reading sources, binding and validating"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultDurationBuckets...),
	)
	errs = append(errs, err)

	in.version, err = meter.Int64Gauge(SnapshotVersionName,
		metric.WithDescription("Version of the snapshot currently published"),
		metric.WithUnit("1"),
	)
	errs = append(errs, err)

	in.panics, err = meter.Int64Counter(SubscriberPanicsName,
		metric.WithDescription("Number of recovered panics in change subscribers"),
		metric.WithUnit("{panic}"),
	)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("create settings instruments: %w", err)
	}
	return &in, nil
}

// RecordReload counts one reload and its duration.
func (in *Instruments) RecordReload(ctx context.Context, section string, result Result, took time.Duration) {
	if in == nil {
		return
	}
	attrs := metric.WithAttributeSet(attribute.NewSet(
		AttrSection.String(section),
		AttrResult.String(string(result)),
	))
	in.reloads.Add(ctx, 1, attrs)
	in.duration.Record(ctx, took.Seconds(), attrs)
}

// RecordVersion sets the published snapshot version of section.
func (in *Instruments) RecordVersion(ctx context.Context, section string, version uint64) {
	if in == nil {
		return
	}
	v := int64(math.MaxInt64)
	if version < math.MaxInt64 {
		v = int64(version)
	}
	in.version.Record(ctx, v, metric.WithAttributes(AttrSection.String(section)))
}

// RecordPanic counts a recovered subscriber panic.
func (in *Instruments) RecordPanic(ctx context.Context, section string) {
	if in == nil {
		return
	}
	in.panics.Add(ctx, 1, metric.WithAttributes(AttrSection.String(section)))
}
