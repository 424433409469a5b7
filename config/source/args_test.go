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

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_Load(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		opts []ArgsOption
		want []string
	}{
		{
			name: "double dash with equals",
			args: []string{"--Mail:Port=587"},
			want: []string{"Mail.Port=587"},
		},
		{
			name: "double dash with separate value",
			args: []string{"--Mail.Host", "a.com"},
			want: []string{"Mail.Host=a.com"},
		},
		{
			name: "slash prefix",
			args: []string{"/Mail:From=x@a.com"},
			want: []string{"Mail.From=x@a.com"},
		},
		{
			name: "slash path without value is positional",
			args: []string{"/etc/app.json", "--a=1"},
			want: []string{"a=1"},
		},
		{
			name: "mapped slash switch takes next value",
			args: []string{"/p", "587", "/port", "25"},
			opts: []ArgsOption{WithSwitchMappings(map[string]string{"/p": "Mail:Port", "--port": "Mail:Alt"})},
			want: []string{"Mail.Alt=25", "Mail.Port=587"},
		},
		{
			name: "bare key value",
			args: []string{"AppName=demo"},
			want: []string{"AppName=demo"},
		},
		{
			name: "later duplicate wins ignoring case",
			args: []string{"--mail:port=1", "--Mail:Port=2"},
			want: []string{"Mail.Port=2"},
		},
		{
			name: "positional tokens and bare terminator are ignored",
			args: []string{"serve", "--", "--a=1"},
			want: []string{"a=1"},
		},
		{
			name: "empty value is kept",
			args: []string{"--a="},
			want: []string{"a="},
		},
		{
			name: "switch mappings",
			args: []string{"-p", "587", "--HOST=a.com"},
			opts: []ArgsOption{WithSwitchMappings(map[string]string{"-p": "Mail:Port", "--host": "Mail:Host"})},
			want: []string{"Mail.Host=a.com", "Mail.Port=587"},
		},
		{
			name: "value may look like a switch",
			args: []string{"--a", "--b"},
			want: []string{"a=--b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := NewArgs(tt.args, tt.opts...).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys(entries))
		})
	}
}

func TestArgs_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "dangling switch", args: []string{"--a=1", "--Mail:Port"}, msg: "missing value for --Mail:Port"},
		{name: "unmapped short switch", args: []string{"-p", "1"}, msg: "short switch -p is not mapped"},
		{name: "empty key", args: []string{"=x"}, msg: "empty key"},
		{name: "delimiters only", args: []string{"--::=x"}, msg: "empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewArgs(tt.args).Load(context.Background())
			require.ErrorIs(t, err, ErrSourceMalformed)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestArgs_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	args := []string{"--a=1"}
	src := NewArgs(args)
	args[0] = "--a=2"

	entries, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1"}, keys(entries))
}

func FuzzArgs_Load(f *testing.F) {
	f.Add("--Mail:Port=587")
	f.Add("/a.b=c")
	f.Add("-x")
	f.Add("k=v")

	f.Fuzz(func(t *testing.T, arg string) {
		entries, err := NewArgs([]string{arg, "tail"}).Load(context.Background())
		if err != nil {
			require.ErrorIs(t, err, ErrSourceMalformed)
			return
		}
		for _, e := range entries {
			assert.False(t, e.Path.IsRoot())
		}
	})
}
