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

// Package semconv defines the attribute keys shared by settings logs,
// metrics and traces.
//
// Service keys follow the OpenTelemetry resource conventions. Settings keys
// use the "settings." namespace so they sort together in a trace viewer:
//
//	span.SetAttributes(
//	    attribute.String(semconv.SettingsSection, "Mail"),
//	    attribute.String(semconv.SettingsResult, "validation_error"),
//	)
//
// Log correlation keys are plain snake_case, matching what log pipelines
// expect to join on:
//
//	logger.Warn("settings rebuild failed",
//	    semconv.TraceID, tracing.TraceID(ctx),
//	)
package semconv
