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

package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/settings/validation"
)

// DefaultDebounce is the quiet period after the last change notification
// before a rebuild starts.
const DefaultDebounce = 250 * time.Millisecond

// Option configures a [Monitor].
type Option func(*options) error

type options struct {
	chain          any
	clone          any
	debounce       time.Duration
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	policy         Policy
	onError        func(error)
}

func defaultOptions() *options {
	return &options{
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
		policy:   Cached,
	}
}

// WithChain validates every bound value with chain. A value failing
// validation is never published.
func WithChain[T any](chain *validation.Chain[T]) Option {
	return func(o *options) error {
		if chain == nil {
			return errors.New("validation chain cannot be nil")
		}
		o.chain = chain
		return nil
	}
}

// WithClone copies the published value with fn before it is handed out by
// [Monitor.Current], [Monitor.Value] and to subscribers. Without it the
// freeze is shallow: slices, maps and pointers in T share memory with the
// published value.
func WithClone[T any](fn func(T) T) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.New("clone function cannot be nil")
		}
		o.clone = fn
		return nil
	}
}

// WithDebounce sets the quiet period that coalesces bursts of change
// notifications. Zero rebuilds on the next timer tick.
func WithDebounce(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("debounce must not be negative, got %v", d)
		}
		o.debounce = d
		return nil
	}
}

// WithLogger sets the logger for reload events. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithMeterProvider records reload metrics on mp. Without it no metrics are
// recorded.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) error {
		if mp == nil {
			return errors.New("meter provider cannot be nil")
		}
		o.meterProvider = mp
		return nil
	}
}

// WithTracerProvider emits a span for every rebuild on tp. Without it no
// spans are created.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider cannot be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithPolicy selects the [Policy] used by [Monitor.Value].
func WithPolicy(p Policy) Option {
	return func(o *options) error {
		if p != Cached && p != OnDemand {
			return fmt.Errorf("unknown policy %d", p)
		}
		o.policy = p
		return nil
	}
}

// WithOnError calls fn with the error of every failed background reload.
func WithOnError(fn func(error)) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.New("error handler cannot be nil")
		}
		o.onError = fn
		return nil
	}
}
