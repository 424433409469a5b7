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

package semconv

// Service metadata, set once on the exporter resource.
const (
	// ServiceName identifies the logical service.
	ServiceName = "service.name"

	// ServiceVersion is the version of the running service.
	ServiceVersion = "service.version"

	// DeploymentEnviron is the deployment environment, such as "production".
	DeploymentEnviron = "deployment.environment"
)

// Settings attributes.
const (
	// SettingsSection is the section a monitor binds, or "(root)".
	SettingsSection = "settings.section"

	// SettingsTrigger says what started a rebuild: "load", "manual",
	// "change" or "on_demand".
	SettingsTrigger = "settings.trigger"

	// SettingsResult is the outcome of a rebuild, such as "success" or
	// "validation_error".
	SettingsResult = "settings.result"

	// SettingsSnapshotVersion is the version of the merged snapshot.
	SettingsSnapshotVersion = "settings.snapshot.version"

	// SettingsSources is the number of registered sources.
	SettingsSources = "settings.sources"

	// SettingsSource names the source a value came from, such as
	// "file:appsettings.json".
	SettingsSource = "settings.source"

	// SettingsKey is a configuration key path.
	SettingsKey = "settings.key"
)

// Correlation keys for log records.
const (
	// TraceID is the hex trace ID of the active span.
	TraceID = "trace_id"

	// SpanID is the hex span ID of the active span.
	SpanID = "span_id"
)
