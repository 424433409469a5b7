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

// Package logging builds the structured [log/slog] loggers used across the
// settings module.
//
// A [Logger] wraps a JSON, text or console handler, stamps every record with
// service metadata, and redacts values whose keys look like secrets. Settings
// frequently carry connection strings and credentials, so the redaction list
// covers those by default and can be extended with [WithRedactedKeys].
//
// # Basic Usage
//
//	logger := logging.MustNew(logging.WithConsoleHandler())
//	logger.Info("settings loaded", "keys", snapshot.Len())
//
// # Configuring From Settings
//
// [FromSection] reads the conventional "Logging" section of a snapshot:
//
//	{
//	  "Logging": {
//	    "LogLevel": { "Default": "Debug" },
//	    "Format": "console"
//	  }
//	}
//
//	logger, err := logging.FromSection(snapshot.Section("Logging"),
//	    logging.WithServiceName("mailer"),
//	)
//
// # Dynamic Level
//
// [Logger.SetLevel] changes the minimum level of a running logger without
// rebuilding its handler, which lets a change monitor apply a new
// "Logging:LogLevel:Default" value at runtime.
//
// # Testing
//
// [NewTestLogger] returns a logger writing JSON into a buffer, and
// [TestHelper] parses that buffer back into [LogEntry] values.
package logging
