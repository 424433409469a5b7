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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeConverter(t *testing.T) {
	t.Parallel()

	conv := TimeConverter("01/02/2006", time.DateOnly)

	got, err := conv(" 2025-06-30 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), got)

	got, err = conv("06/30/2025")
	require.NoError(t, err)
	assert.Equal(t, 30, got.Day())

	_, err = conv("")
	require.ErrorIs(t, err, ErrEmptyTimeValue)

	_, err = conv("yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tried 2 layouts")

	got, err = TimeConverter()("2025-06-30T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())
}

func TestDurationConverter(t *testing.T) {
	t.Parallel()

	conv := DurationConverter(map[string]time.Duration{"Fast": 100 * time.Millisecond})

	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "fast", want: 100 * time.Millisecond},
		{in: "FAST", want: 100 * time.Millisecond},
		{in: "2s", want: 2 * time.Second},
		{in: "slow", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := conv(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumConverter(t *testing.T) {
	t.Parallel()

	type mode string
	conv := EnumConverter[mode]("OnDemand", "Cached")

	got, err := conv("cached")
	require.NoError(t, err)
	assert.Equal(t, mode("Cached"), got)

	_, err = conv("eager")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OnDemand, Cached")
}

func TestBoolConverter(t *testing.T) {
	t.Parallel()

	conv := BoolConverter([]string{"yes", "on"}, []string{"no", "off"})

	for in, want := range map[string]bool{"YES": true, " on": true, "no": false, "Off": false} {
		got, err := conv(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := conv("maybe")
	require.ErrorIs(t, err, ErrInvalidBooleanValue)
	assert.Contains(t, err.Error(), "yes, on, no, off")
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"true", "TRUE", "True", " true "} {
		b, err := parseBool(in)
		require.NoError(t, err)
		assert.True(t, b)
	}

	for _, in := range []string{"1", "yes", "on", "t", ""} {
		_, err := parseBool(in)
		assert.ErrorIs(t, err, ErrInvalidBooleanValue, in)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, splitList(""))
	assert.Equal(t, []string{}, splitList("  "))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , ,b, "))
}
