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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/settings/telemetry/semconv"
)

// Span names.
const (
	SpanReload   = "settings.reload"
	SpanMerge    = "settings.merge"
	SpanBind     = "settings.bind"
	SpanValidate = "settings.validate"
)

// Attribute keys.
const (
	AttrSection = attribute.Key(semconv.SettingsSection)
	AttrTrigger = attribute.Key(semconv.SettingsTrigger)
	AttrResult  = attribute.Key(semconv.SettingsResult)
	AttrVersion = attribute.Key(semconv.SettingsSnapshotVersion)
	AttrSources = attribute.Key(semconv.SettingsSources)
)

// StartReload starts the span covering one rebuild of section.
func StartReload(ctx context.Context, tracer trace.Tracer, section, trigger string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanReload,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrSection.String(section), AttrTrigger.String(trigger)),
	)
}

// StartStage starts a child span for one stage of a rebuild.
func StartStage(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// EndReload records the outcome of a rebuild and ends span. A zero version
// is not recorded.
func EndReload(span trace.Span, result string, version uint64, err error) {
	span.SetAttributes(AttrResult.String(result))
	if version > 0 {
		span.SetAttributes(AttrVersion.Int64(int64(version)))
	}
	if err == nil {
		span.SetStatus(codes.Ok, "")
	}
	End(span, err)
}

// TraceID returns the trace ID of the span in ctx, or "" when there is no
// valid span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// SpanID returns the span ID of the span in ctx, or "" when there is no
// valid span.
func SpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
