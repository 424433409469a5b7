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

package binding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/settings/config"
)

type mailOptions struct {
	Host       string
	Port       int
	From       string
	UseTLS     bool
	Timeout    time.Duration
	Recipients []string
}

func mailSchema() *Schema[mailOptions] {
	return NewSchema(
		String("Host", func(m *mailOptions, v string) { m.Host = v }),
		Int("Port", func(m *mailOptions, v int) { m.Port = v }).Default("25"),
		String("From", func(m *mailOptions, v string) { m.From = v }),
		Bool("UseTLS", func(m *mailOptions, v bool) { m.UseTLS = v }).Optional(),
		Duration("Timeout", func(m *mailOptions, v time.Duration) { m.Timeout = v }).Default("30s"),
		Strings("Recipients", func(m *mailOptions, v []string) { m.Recipients = v }).Optional(),
	)
}

func section(t *testing.T, key string, values map[string]string) *config.Section {
	t.Helper()
	return config.TestStoreBuilt(t, config.TestSource("test", values)).Section(key)
}

func TestSchema_Bind_MailScenario(t *testing.T) {
	t.Parallel()

	files := config.TestSource("appsettings.json", map[string]string{
		"Mail:Host": "smtp.example.com",
		"Mail:Port": "25",
	})
	env := config.TestSource("env", map[string]string{"MAIL:PORT": "587"})
	store := config.TestStoreBuilt(t, files, env)

	_, err := mailSchema().Bind(store.Section("Mail"))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMissingRequired)

	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	require.Len(t, bindErr.Fields, 1)
	assert.Equal(t, "From", bindErr.Fields[0].Field)
	assert.Equal(t, "Mail", bindErr.Section)

	files.Set(map[string]string{
		"Mail:Host": "smtp.example.com",
		"Mail:Port": "25",
		"Mail:From": "noreply@example.com",
	})
	_, err = store.Build(t.Context())
	require.NoError(t, err)

	mail, err := mailSchema().Bind(store.Section("Mail"))
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", mail.Host)
	assert.Equal(t, 587, mail.Port)
	assert.Equal(t, "noreply@example.com", mail.From)
	assert.Equal(t, 30*time.Second, mail.Timeout)
	assert.False(t, mail.UseTLS)
	assert.Nil(t, mail.Recipients)
}

func TestSchema_Bind_Coercion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]string
		check   func(t *testing.T, m mailOptions)
		wantErr string
	}{
		{
			name:   "bool is case-insensitive",
			values: map[string]string{"UseTLS": "TRUE"},
			check:  func(t *testing.T, m mailOptions) { assert.True(t, m.UseTLS) },
		},
		{
			name:    "bool rejects yes",
			values:  map[string]string{"UseTLS": "yes"},
			wantErr: "UseTLS",
		},
		{
			name:    "int rejects hex",
			values:  map[string]string{"Port": "0x19"},
			wantErr: "Port",
		},
		{
			name:    "int rejects fraction",
			values:  map[string]string{"Port": "25.5"},
			wantErr: "Port",
		},
		{
			name:   "int tolerates surrounding space",
			values: map[string]string{"Port": " 2525 "},
			check:  func(t *testing.T, m mailOptions) { assert.Equal(t, 2525, m.Port) },
		},
		{
			name:   "duration",
			values: map[string]string{"Timeout": "1m30s"},
			check:  func(t *testing.T, m mailOptions) { assert.Equal(t, 90*time.Second, m.Timeout) },
		},
		{
			name:    "bad duration",
			values:  map[string]string{"Timeout": "soon"},
			wantErr: "Timeout",
		},
		{
			name:   "string list from comma value",
			values: map[string]string{"Recipients": "a@x.com, b@x.com,,"},
			check: func(t *testing.T, m mailOptions) {
				assert.Equal(t, []string{"a@x.com", "b@x.com"}, m.Recipients)
			},
		},
		{
			name: "string list from array children",
			values: map[string]string{
				"Recipients:10": "c@x.com",
				"Recipients:2":  "b@x.com",
				"Recipients:0":  "a@x.com",
			},
			check: func(t *testing.T, m mailOptions) {
				assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, m.Recipients)
			},
		},
		{
			name:   "string kept verbatim",
			values: map[string]string{"Host": "  spaced  "},
			check:  func(t *testing.T, m mailOptions) { assert.Equal(t, "  spaced  ", m.Host) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values := map[string]string{"Host": "h", "From": "f"}
			for k, v := range tt.values {
				values[k] = v
			}

			m, err := mailSchema().Bind(section(t, "", values))
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrTypeMismatch)
				var bindErr *Error
				require.ErrorAs(t, err, &bindErr)
				assert.NotNil(t, bindErr.Field(tt.wantErr))
				assert.Equal(t, mailOptions{}, m)
				return
			}

			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestSchema_Bind_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	sec := section(t, "Mail", map[string]string{
		"Mail:Port":    "abc",
		"Mail:Timeout": "forever",
	})

	m, err := mailSchema().Bind(sec)
	require.Error(t, err)
	assert.Equal(t, mailOptions{}, m)

	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	require.Len(t, bindErr.Fields, 4)

	got := make([]string, len(bindErr.Fields))
	for i, f := range bindErr.Fields {
		got[i] = f.Field
	}
	assert.Equal(t, []string{"Host", "Port", "From", "Timeout"}, got)

	assert.ErrorIs(t, bindErr.Fields[0], ErrMissingRequired)
	assert.ErrorIs(t, bindErr.Fields[1], ErrTypeMismatch)
	assert.Equal(t, "abc", bindErr.Fields[1].Value)
	assert.Equal(t, "int", bindErr.Fields[1].Type)
	assert.Contains(t, err.Error(), "4 errors")
}

func TestSchema_Bind_DefaultIsConverted(t *testing.T) {
	t.Parallel()

	type opts struct{ Port int }
	schema := NewSchema(Int("Port", func(o *opts, v int) { o.Port = v }).Default("not-a-number"))

	_, err := schema.Bind(section(t, "", nil))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSchema_Bind_PresentButEmpty(t *testing.T) {
	t.Parallel()

	type opts struct{ Name string }
	schema := NewSchema(String("Name", func(o *opts, v string) { o.Name = v }).Default("fallback"))

	o, err := schema.Bind(section(t, "", map[string]string{"Name": ""}))
	require.NoError(t, err)
	assert.Empty(t, o.Name)
}

func TestSchema_Bind_Nested(t *testing.T) {
	t.Parallel()

	type tls struct {
		Cert string
		Port int
	}
	type server struct {
		Name string
		TLS  tls
	}

	tlsSchema := NewSchema(
		String("Cert", func(t *tls, v string) { t.Cert = v }),
		Int("Port", func(t *tls, v int) { t.Port = v }).Default("443"),
	)

	t.Run("bound", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema(
			String("Name", func(s *server, v string) { s.Name = v }),
			Nested("TLS", tlsSchema, func(s *server, v tls) { s.TLS = v }),
		)
		s, err := schema.Bind(section(t, "Server", map[string]string{
			"Server:Name":     "api",
			"Server:tls:cert": "/etc/cert.pem",
		}))
		require.NoError(t, err)
		assert.Equal(t, server{Name: "api", TLS: tls{Cert: "/etc/cert.pem", Port: 443}}, s)
	})

	t.Run("nested errors are prefixed", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema(
			String("Name", func(s *server, v string) { s.Name = v }),
			Nested("TLS", tlsSchema, func(s *server, v tls) { s.TLS = v }),
		)
		_, err := schema.Bind(section(t, "Server", map[string]string{
			"Server:Name":     "api",
			"Server:TLS:Port": "https",
		}))

		var bindErr *Error
		require.ErrorAs(t, err, &bindErr)
		require.Len(t, bindErr.Fields, 2)
		assert.Equal(t, "TLS.Cert", bindErr.Fields[0].Field)
		assert.Equal(t, "TLS.Port", bindErr.Fields[1].Field)
	})

	t.Run("optional and absent", func(t *testing.T) {
		t.Parallel()

		schema := NewSchema(
			String("Name", func(s *server, v string) { s.Name = v }),
			Nested("TLS", tlsSchema, func(s *server, v tls) { s.TLS = v }).Optional(),
		)
		s, err := schema.Bind(section(t, "Server", map[string]string{"Server:Name": "api"}))
		require.NoError(t, err)
		assert.Equal(t, tls{}, s.TLS)
	})
}

func TestSchema_Bind_ArrayElementIsSection(t *testing.T) {
	t.Parallel()

	type opts struct{ Hosts []string }
	schema := NewSchema(Strings("Hosts", func(o *opts, v []string) { o.Hosts = v }))

	_, err := schema.Bind(section(t, "", map[string]string{"Hosts:0:Name": "a"}))
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorIs(t, err, ErrSectionValue)
}

func TestSchema_Bind_FloatAndDuration(t *testing.T) {
	t.Parallel()

	type limits struct {
		Ratio   float64
		Timeout time.Duration
	}
	schema := NewSchema(
		Float64("Ratio", func(l *limits, v float64) { l.Ratio = v }),
		Duration("Timeout", func(l *limits, v time.Duration) { l.Timeout = v }),
	)

	tests := []struct {
		name     string
		values   map[string]string
		want     limits
		wantErrs []string
	}{
		{
			name:   "valid values",
			values: map[string]string{"Ratio": "0.25", "Timeout": "1m30s"},
			want:   limits{Ratio: 0.25, Timeout: 90 * time.Second},
		},
		{
			name:   "surrounding space",
			values: map[string]string{"Ratio": " 2 ", "Timeout": " 5s "},
			want:   limits{Ratio: 2, Timeout: 5 * time.Second},
		},
		{
			name:     "both invalid",
			values:   map[string]string{"Ratio": "half", "Timeout": "soon"},
			wantErrs: []string{"Ratio", "Timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := schema.Bind(section(t, "", tt.values))
			if len(tt.wantErrs) > 0 {
				require.ErrorIs(t, err, ErrTypeMismatch)
				var bindErr *Error
				require.ErrorAs(t, err, &bindErr)
				require.Len(t, bindErr.Fields, len(tt.wantErrs))
				for _, f := range tt.wantErrs {
					assert.NotNil(t, bindErr.Field(f), f)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_Bind_ArrayReportsEverySectionElement(t *testing.T) {
	t.Parallel()

	type opts struct{ Hosts []string }
	schema := NewSchema(Strings("Hosts", func(o *opts, v []string) { o.Hosts = v }))

	_, err := schema.Bind(section(t, "", map[string]string{
		"Hosts:0:Name": "a",
		"Hosts:1":      "b",
		"Hosts:2:Name": "c",
	}))
	require.ErrorIs(t, err, ErrSectionValue)

	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	require.Len(t, bindErr.Fields, 2)
	assert.Equal(t, "Hosts.0", bindErr.Fields[0].Field)
	assert.Equal(t, "Hosts.2", bindErr.Fields[1].Field)
}

func TestSchema_Bind_NilSection(t *testing.T) {
	t.Parallel()

	_, err := mailSchema().Bind(nil)
	assert.ErrorIs(t, err, ErrNilSection)
}

func TestSchema_Bind_Custom(t *testing.T) {
	t.Parallel()

	type level string
	type opts struct {
		Level  level
		Start  time.Time
		Strict bool
	}

	schema := NewSchema(
		Custom("Level", EnumConverter[level]("debug", "info"), func(o *opts, v level) { o.Level = v }),
		Custom("Start", TimeConverter(time.DateOnly), func(o *opts, v time.Time) { o.Start = v }),
		Custom("Strict", BoolConverter([]string{"on"}, []string{"off"}), func(o *opts, v bool) { o.Strict = v }),
	)

	o, err := schema.Bind(section(t, "", map[string]string{
		"Level":  "INFO",
		"Start":  "2025-03-01",
		"Strict": "on",
	}))
	require.NoError(t, err)
	assert.Equal(t, level("info"), o.Level)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), o.Start)
	assert.True(t, o.Strict)

	_, err = schema.Bind(section(t, "", map[string]string{
		"Level":  "trace",
		"Start":  "2025-03-01",
		"Strict": "on",
	}))
	var bindErr *Error
	require.ErrorAs(t, err, &bindErr)
	require.Len(t, bindErr.Fields, 1)
	assert.Equal(t, "binding.level", bindErr.Fields[0].Type)
}

func TestBind_BinderFunc(t *testing.T) {
	t.Parallel()

	calls := 0
	b := BinderFunc[string](func(sec *config.Section) (string, error) {
		calls++
		return sec.Get("name"), nil
	})

	got, err := Bind[string](section(t, "", map[string]string{"Name": "x"}), b)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
	assert.Equal(t, 1, calls)
}

func TestFieldError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `binding field "From": missing required value`, missing("From", "string").Error())
	assert.Equal(t,
		`binding field "Port": cannot convert "abc" to int: boom`,
		mismatch("Port", "int", "abc", errors.New("boom")).Error())

	single := &Error{Section: "Mail", Fields: []*FieldError{missing("From", "string")}}
	assert.Equal(t, `binding section "Mail": binding field "From": missing required value`, single.Error())

	root := &Error{Fields: []*FieldError{missing("A", "string"), missing("B", "string")}}
	assert.Contains(t, root.Error(), "binding root section: 2 errors")
	assert.Nil(t, root.Field("C"))
	assert.NotNil(t, root.Field("a"))
}
