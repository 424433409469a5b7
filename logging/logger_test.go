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

//go:build !integration

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/settings/config"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults", opts: nil},
		{name: "nil output", opts: []Option{WithOutput(nil)}, wantErr: ErrNilOutput},
		{name: "nil custom logger", opts: []Option{WithCustomLogger(nil)}, wantErr: ErrNilLogger},
		{name: "unknown handler", opts: []Option{WithHandlerType("xml")}, wantErr: ErrInvalidHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := New(tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l.Logger())
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t,
		"logging.MustNew: invalid configuration: output writer is nil",
		func() { MustNew(WithOutput(nil)) })
}

func TestLogger_ServiceAttributes(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t,
		WithServiceName("mailer"),
		WithServiceVersion("1.2.0"),
		WithEnvironment("staging"),
	)
	th.Logger.Info("settings loaded", "keys", 12)

	th.AssertLog(t, "INFO", "settings loaded", map[string]any{
		"service": "mailer",
		"version": "1.2.0",
		"env":     "staging",
		"keys":    12,
	})
	assert.Equal(t, "mailer", th.Logger.ServiceName())
	assert.Equal(t, "1.2.0", th.Logger.ServiceVersion())
	assert.Equal(t, "staging", th.Logger.Environment())
}

func TestLogger_Redaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		key      string
		redacted bool
	}{
		{name: "default key", key: "password", redacted: true},
		{name: "case insensitive", key: "ConnectionString", redacted: true},
		{name: "hierarchical key", key: "Database:Password", redacted: true},
		{name: "dotted key", key: "smtp.token", redacted: true},
		{name: "ordinary key", key: "host", redacted: false},
		{name: "extra key", opts: []Option{WithRedactedKeys("Pin")}, key: "pin", redacted: true},
		{name: "disabled", opts: []Option{WithoutRedaction()}, key: "password", redacted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			th := NewTestHelper(t, tt.opts...)
			th.Logger.Info("value", tt.key, "hunter2")

			entry, err := th.LastLog()
			require.NoError(t, err)
			if tt.redacted {
				assert.Equal(t, Redacted, entry.Attrs[tt.key])
			} else {
				assert.Equal(t, "hunter2", entry.Attrs[tt.key])
			}
		})
	}
}

func TestLogger_ReplaceAttrRunsAfterRedaction(t *testing.T) {
	t.Parallel()

	var seen []string
	th := NewTestHelper(t, WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "secret" {
			seen = append(seen, a.Value.String())
		}
		if a.Key == "drop" {
			return slog.Attr{}
		}
		return a
	}))
	th.Logger.Info("replace", "secret", "s3cr3t", "drop", "me")

	entry, err := th.LastLog()
	require.NoError(t, err)
	assert.Equal(t, Redacted, entry.Attrs["secret"])
	assert.NotContains(t, entry.Attrs, "drop")
	assert.Empty(t, seen, "user replacer must not see redacted values")
}

func TestLogger_SetLevel(t *testing.T) {
	t.Parallel()

	th := NewTestHelper(t, WithLevel(LevelWarn))
	derived := th.Logger.With("component", "monitor")

	th.Logger.Info("dropped")
	derived.Info("dropped too")
	assert.Equal(t, 0, th.CountLevel("INFO"))

	require.NoError(t, th.Logger.SetLevel(LevelDebug))
	assert.Equal(t, LevelDebug, th.Logger.Level())

	th.Logger.Debug("kept")
	derived.Info("kept too")
	assert.True(t, th.ContainsLog("kept"))
	assert.True(t, th.ContainsAttr("component", "monitor"))
}

func TestLogger_SetLevelCustomLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	l := MustNew(WithCustomLogger(custom))

	assert.Same(t, custom, l.Logger())
	assert.ErrorIs(t, l.SetLevel(LevelDebug), ErrCannotChangeLevel)
}

func TestLogger_TextHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := MustNew(WithTextHandler(), WithOutput(&buf))
	l.Warn("reload failed", "error", errors.New("boom"))

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="reload failed"`)
	assert.Contains(t, buf.String(), "error=boom")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "Debug", want: LevelDebug},
		{in: "Trace", want: LevelDebug},
		{in: "Information", want: LevelInfo},
		{in: " info ", want: LevelInfo},
		{in: "Warning", want: LevelWarn},
		{in: "WARN", want: LevelWarn},
		{in: "Critical", want: LevelError},
		{in: "ERROR+2", want: LevelError + 2},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromSection(t *testing.T) {
	t.Parallel()

	store := config.TestStoreBuilt(t, config.TestSource("appsettings", map[string]string{
		"Logging:LogLevel:Default": "Warning",
		"Logging:Format":           "text",
		"Logging:IncludeSource":    "false",
		"Logging:Redact:0":         "Pin",
	}))

	var buf bytes.Buffer
	l, err := FromSection(store.Section("Logging"), WithOutput(&buf))
	require.NoError(t, err)

	assert.Equal(t, LevelWarn, l.Level())
	l.Info("hidden")
	l.Warn("shown", "pin", "1234")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "pin="+Redacted)
}

func TestFromSection_ExplicitOptionsWin(t *testing.T) {
	t.Parallel()

	store := config.TestStoreBuilt(t, config.TestSource("appsettings", map[string]string{
		"Logging:LogLevel:Default": "Error",
	}))

	l, err := FromSection(store.Section("Logging"), WithLevel(LevelDebug), WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, l.Level())
}

func TestFromSection_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]string
		wantErr error
		wantMsg string
	}{
		{
			name:    "bad level",
			values:  map[string]string{"Logging:LogLevel:Default": "loud"},
			wantErr: ErrInvalidLevel,
			wantMsg: "Logging.LogLevel.Default",
		},
		{
			name:    "bad format",
			values:  map[string]string{"Logging:Format": "xml"},
			wantErr: ErrInvalidHandler,
			wantMsg: "Logging.Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := config.TestStoreBuilt(t, config.TestSource("appsettings", tt.values))
			_, err := FromSection(store.Section("Logging"))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromSection_Missing(t *testing.T) {
	t.Parallel()

	store := config.TestStoreBuilt(t, config.TestSource("appsettings", map[string]string{"AppName": "x"}))

	l, err := FromSection(store.Section("Logging"), WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, l.Level())

	l, err = FromSection(nil, WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, l.Level())
}
