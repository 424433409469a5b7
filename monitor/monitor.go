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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/settings/binding"
	"rivaas.dev/settings/config"
	"rivaas.dev/settings/metrics"
	"rivaas.dev/settings/telemetry/semconv"
	"rivaas.dev/settings/tracing"
	"rivaas.dev/settings/validation"
)

// published is one successfully bound and validated value together with
// the snapshot it came from.
type published[T any] struct {
	value T
	snap  *config.Snapshot
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Monitor binds a section of a store into a T and republishes it when the
// store's sources change. It is safe for concurrent use.
type Monitor[T any] struct {
	store   *config.Store
	section string
	binder  binding.Binder[T]
	chain   *validation.Chain[T]
	clone   func(T) T

	debounce    time.Duration
	policy      Policy
	onError     func(error)
	logger      *slog.Logger
	instruments *metrics.Instruments
	tracer      trace.Tracer

	reloadMu sync.Mutex // serializes rebuilds
	current  atomic.Pointer[published[T]]
	state    atomic.Int32

	errMu   sync.Mutex
	lastErr error

	timerMu     sync.Mutex // guards the fields below
	timer       *time.Timer
	gen         uint64
	pending     bool
	started     bool
	closed      bool
	watchCtx    context.Context
	cancelWatch context.CancelFunc

	subMu  sync.Mutex
	subs   []subscriber[T]
	nextID uint64
}

// New creates a monitor binding section of store with binder. An empty
// section binds the root. Nothing is loaded until [Monitor.Load].
func New[T any](store *config.Store, section string, binder binding.Binder[T], opts ...Option) (*Monitor[T], error) {
	var errs []error
	if store == nil {
		errs = append(errs, ErrNilStore)
	}
	if binder == nil {
		errs = append(errs, ErrNilBinder)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			errs = append(errs, err)
		}
	}

	var chain *validation.Chain[T]
	if o.chain != nil {
		c, ok := o.chain.(*validation.Chain[T])
		if !ok {
			errs = append(errs, fmt.Errorf("%w: got %T", ErrChainType, o.chain))
		}
		chain = c
	}

	var clone func(T) T
	if o.clone != nil {
		fn, ok := o.clone.(func(T) T)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: got %T", ErrCloneType, o.clone))
		}
		clone = fn
	}

	instruments, err := metrics.NewInstruments(o.meterProvider)
	if err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	return &Monitor[T]{
		store:       store,
		section:     section,
		binder:      binder,
		chain:       chain,
		clone:       clone,
		debounce:    o.debounce,
		policy:      o.policy,
		onError:     o.onError,
		logger:      o.logger.With("section", sectionLabel(section)),
		instruments: instruments,
		tracer:      tp.Tracer(tracing.ScopeName),
	}, nil
}

// MustNew creates a monitor or panics on error.
func MustNew[T any](store *config.Store, section string, binder binding.Binder[T], opts ...Option) *Monitor[T] {
	m, err := New(store, section, binder, opts...)
	if err != nil {
		panic(fmt.Sprintf("monitor.MustNew: %v", err))
	}
	return m
}

func sectionLabel(section string) string {
	if section == "" {
		return "(root)"
	}
	return section
}

// Section returns the key path of the monitored section.
func (m *Monitor[T]) Section() string {
	return m.section
}

// State returns the current phase of the reload cycle.
func (m *Monitor[T]) State() State {
	return State(m.state.Load())
}

// Policy returns the policy used by [Monitor.Value].
func (m *Monitor[T]) Policy() Policy {
	return m.policy
}

// Load merges the store, binds and validates the section, and publishes the
// result. Callers treat an error as fatal: nothing is published.
func (m *Monitor[T]) Load(ctx context.Context) error {
	return m.reload(ctx, "load")
}

// Reload rebuilds synchronously. On failure the previous value stays
// published and the error is returned.
func (m *Monitor[T]) Reload(ctx context.Context) error {
	return m.reload(ctx, "manual")
}

// Loaded reports whether a value has been published.
func (m *Monitor[T]) Loaded() bool {
	return m.current.Load() != nil
}

// Current returns the published value, or the zero T before the first
// successful load. Later reloads never modify it; see [WithClone] for
// reference fields.
func (m *Monitor[T]) Current() T {
	if p := m.current.Load(); p != nil {
		return m.handOut(p.value)
	}
	var zero T
	return zero
}

// Snapshot returns the store snapshot the published value was bound from,
// or nil before the first successful load.
func (m *Monitor[T]) Snapshot() *config.Snapshot {
	if p := m.current.Load(); p != nil {
		return p.snap
	}
	return nil
}

// Value returns the settings according to the policy. Under [Cached] it is
// [Monitor.Current], or [ErrNotLoaded]. Under [OnDemand] the store is merged,
// bound and validated on every call and nothing is published.
func (m *Monitor[T]) Value(ctx context.Context) (T, error) {
	if m.policy == OnDemand {
		ctx, span := tracing.StartReload(ctx, m.tracer, sectionLabel(m.section), "on_demand")
		v, snap, result, err := m.rebuild(ctx)
		tracing.EndReload(span, string(result), snapVersion(snap), err)
		return v, err
	}

	p := m.current.Load()
	if p == nil {
		var zero T
		return zero, ErrNotLoaded
	}
	return m.handOut(p.value), nil
}

func (m *Monitor[T]) handOut(v T) T {
	if m.clone == nil {
		return v
	}
	return m.clone(v)
}

// LastError returns the error of the most recent rebuild, or nil if it
// succeeded.
func (m *Monitor[T]) LastError() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	return m.lastErr
}

func (m *Monitor[T]) setLastErr(err error) {
	m.errMu.Lock()
	m.lastErr = err
	m.errMu.Unlock()
}

// Subscribe registers fn to receive every newly published value, in
// publication order. A panicking subscriber is recovered and logged. The
// returned function removes the subscription.
func (m *Monitor[T]) Subscribe(fn func(T)) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	m.subMu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber[T]{id: id, fn: fn})
	m.subMu.Unlock()

	return sync.OnceFunc(func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		m.subs = slices.DeleteFunc(m.subs, func(s subscriber[T]) bool { return s.id == id })
	})
}

// Start installs change listeners on every watchable source of the store.
// Listeners and pending rebuilds stop when ctx is done or on Close. Start is
// idempotent.
func (m *Monitor[T]) Start(ctx context.Context) error {
	m.timerMu.Lock()
	if m.closed {
		m.timerMu.Unlock()
		return ErrClosed
	}
	if m.started {
		m.timerMu.Unlock()
		return nil
	}
	m.started = true
	m.watchCtx, m.cancelWatch = context.WithCancel(ctx)
	watchCtx := m.watchCtx
	m.timerMu.Unlock()

	n, err := m.store.Watch(watchCtx, m.Notify)
	if n == 0 && err == nil {
		m.logger.Warn("no watchable settings sources; changes will not be picked up")
	} else {
		m.logger.Debug("watching settings sources", "sources", n)
	}
	return err
}

// Notify reports a change. It restarts the debounce window; the rebuild runs
// once no further notification arrives within it.
func (m *Monitor[T]) Notify() {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if m.closed {
		return
	}

	m.pending = true
	m.state.CompareAndSwap(int32(Idle), int32(Detecting))

	m.gen++
	gen := m.gen
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, func() { m.fire(gen) })
}

// fire runs the rebuild armed by notification gen unless a newer
// notification superseded it.
func (m *Monitor[T]) fire(gen uint64) {
	m.timerMu.Lock()
	if m.closed || gen != m.gen {
		m.timerMu.Unlock()
		return
	}
	m.pending = false
	ctx := m.watchCtx
	m.timerMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		m.settle()
		return
	}

	if err := m.reload(ctx, "watch"); err != nil && m.onError != nil && !errors.Is(err, ErrClosed) {
		m.onError(err)
	}
}

// settle returns to Detecting if another notification is pending, else to
// Idle.
func (m *Monitor[T]) settle() {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()

	if m.pending && !m.closed {
		m.state.Store(int32(Detecting))
		return
	}
	m.state.Store(int32(Idle))
}

// Close stops watching, drops any pending rebuild, waits for a running one
// and removes all subscribers. The published value stays readable. Close
// must not be called from a subscriber.
func (m *Monitor[T]) Close() error {
	m.timerMu.Lock()
	if m.closed {
		m.timerMu.Unlock()
		return nil
	}
	m.closed = true
	m.pending = false
	if m.timer != nil {
		m.timer.Stop()
	}
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
	m.timerMu.Unlock()

	m.reloadMu.Lock()
	m.state.Store(int32(Idle))
	m.reloadMu.Unlock()

	m.subMu.Lock()
	m.subs = nil
	m.subMu.Unlock()

	return nil
}

func (m *Monitor[T]) isClosed() bool {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()
	return m.closed
}

// reload runs one Rebuilding → Publishing cycle.
func (m *Monitor[T]) reload(ctx context.Context, trigger string) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	if m.isClosed() {
		return ErrClosed
	}

	ctx, span := tracing.StartReload(ctx, m.tracer, sectionLabel(m.section), trigger)
	start := time.Now()
	m.state.Store(int32(Rebuilding))
	v, snap, result, err := m.rebuild(ctx)
	took := time.Since(start)
	tracing.EndReload(span, string(result), snapVersion(snap), err)

	mctx := context.WithoutCancel(ctx)
	m.instruments.RecordReload(mctx, sectionLabel(m.section), result, took)

	if err != nil {
		m.setLastErr(err)
		m.settle()
		m.logFailure(ctx, trigger, result, took, err)
		return err
	}
	m.setLastErr(nil)

	m.state.Store(int32(Publishing))
	if !m.store.Publish(snap) {
		m.logger.Debug("store holds a newer snapshot; not republishing",
			"version", snap.Version(),
			"store_version", m.store.Snapshot().Version(),
		)
	}
	m.current.Store(&published[T]{value: v, snap: snap})
	m.instruments.RecordVersion(mctx, sectionLabel(m.section), snap.Version())

	m.logger.Info("settings published",
		"trigger", trigger,
		"version", snap.Version(),
		"duration", took,
	)

	m.notify(mctx, v)
	m.settle()
	return nil
}

func (m *Monitor[T]) logFailure(ctx context.Context, trigger string, result metrics.Result, took time.Duration, err error) {
	args := []any{"trigger", trigger, "result", string(result), "duration", took, "error", err}
	if id := tracing.TraceID(ctx); id != "" {
		args = append(args, semconv.TraceID, id, semconv.SpanID, tracing.SpanID(ctx))
	}
	switch {
	case result == metrics.ResultCanceled:
		m.logger.Debug("settings rebuild canceled", args...)
	case m.current.Load() != nil:
		m.logger.Warn("settings rebuild failed; keeping previous value", args...)
	default:
		m.logger.Error("settings rebuild failed", args...)
	}
}

// rebuild merges the store without publishing, then binds and validates.
// Each stage runs in its own span.
func (m *Monitor[T]) rebuild(ctx context.Context) (T, *config.Snapshot, metrics.Result, error) {
	var zero T

	mctx, span := tracing.StartStage(ctx, m.tracer, tracing.SpanMerge,
		tracing.AttrSources.Int(len(m.store.Sources())))
	snap, err := m.store.Merge(mctx)
	tracing.End(span, err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return zero, nil, metrics.ResultCanceled, err
		}
		return zero, nil, metrics.ResultSourceError, err
	}

	sec := snap.Root()
	if m.section != "" {
		sec = snap.Section(m.section)
	}

	_, span = tracing.StartStage(ctx, m.tracer, tracing.SpanBind)
	v, err := m.binder.Bind(sec)
	tracing.End(span, err)
	if err != nil {
		return zero, nil, metrics.ResultBindError, err
	}

	if m.chain != nil {
		vctx, span := tracing.StartStage(ctx, m.tracer, tracing.SpanValidate)
		res := m.chain.ValidateContext(vctx, v)
		err := res.Err()
		tracing.End(span, err)
		if err != nil {
			return zero, nil, metrics.ResultValidationError, err
		}
	}

	return v, snap, metrics.ResultSuccess, nil
}

func snapVersion(snap *config.Snapshot) uint64 {
	if snap == nil {
		return 0
	}
	return snap.Version()
}

// notify delivers v to a copy of the subscriber list.
func (m *Monitor[T]) notify(ctx context.Context, v T) {
	m.subMu.Lock()
	subs := slices.Clone(m.subs)
	m.subMu.Unlock()

	for _, s := range subs {
		m.call(ctx, s.fn, m.handOut(v))
	}
}

func (m *Monitor[T]) call(ctx context.Context, fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("settings subscriber panicked", "panic", r)
			m.instruments.RecordPanic(ctx, sectionLabel(m.section))
		}
	}()
	fn(v)
}
