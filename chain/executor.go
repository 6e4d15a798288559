package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrClosed is returned by the invocations of the closed Executor.
var ErrClosed = errors.New("executor is closed")

// Prm groups parameters of the Executor.
type Prm struct {
	// Store holding the module state. Required.
	Store storage.Store

	// Logger for executor messages and invocation logs. Optional: no-op by
	// default.
	Logger *zap.Logger

	// Registerer to export metrics to. Optional: metrics are not exported
	// if unset.
	Registerer prometheus.Registerer

	// Height of the first block. Optional.
	Height uint32
}

// Receipt describes successfully applied invocation.
type Receipt struct {
	ID     uuid.UUID
	Method string
	Caller util.Uint160
	Height uint32
	Weight uint64
	Events []state.NotificationEvent
}

// Method is a module method executed within an invocation.
type Method func(*Context) error

// Executor applies invocations to the module store one at a time.
type Executor struct {
	log     *zap.Logger
	metrics *metrics

	mtx         sync.Mutex
	store       storage.Store
	height      uint32
	closed      bool
	subscribers []func(Receipt)
}

// NewExecutor constructs Executor from the given parameters.
func NewExecutor(prm Prm) (*Executor, error) {
	if prm.Store == nil {
		return nil, errors.New("missing store")
	}

	e := &Executor{
		log:     prm.Logger,
		metrics: newMetrics(),
		store:   prm.Store,
		height:  prm.Height,
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}

	if prm.Registerer != nil {
		if err := e.metrics.register(prm.Registerer); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	e.metrics.height.Set(float64(e.height))

	return e, nil
}

// Height returns current block height.
func (e *Executor) Height() uint32 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.height
}

// SetHeight moves executor to the given block height.
func (e *Executor) SetHeight(h uint32) {
	e.mtx.Lock()
	e.height = h
	e.mtx.Unlock()
	e.metrics.height.Set(float64(h))
}

// Subscribe registers handler called with the receipt of each successful
// invocation. Handlers are called synchronously in invocation order and must
// not call the Executor.
func (e *Executor) Subscribe(h func(Receipt)) {
	e.mtx.Lock()
	e.subscribers = append(e.subscribers, h)
	e.mtx.Unlock()
}

// Invoke executes method on behalf of the caller. Store changes are committed
// only if method returns no error, the error is returned as is. Storage read
// failures fail the invocation regardless of the method result.
func (e *Executor) Invoke(ctx context.Context, caller util.Uint160, method string, weight uint64, f Method) (*Receipt, error) {
	start := time.Now()

	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	log := e.log.With(
		zap.String("method", method),
		zap.Stringer("invocation", id),
		zap.String("caller", caller.StringLE()),
	)

	ic := NewContext(e.store, caller, e.height, log)

	err := f(ic)
	if rerr := ic.Err(); rerr != nil {
		err = fmt.Errorf("storage failure: %w", rerr)
	} else if err == nil {
		err = ic.Commit()
		if err != nil {
			err = fmt.Errorf("commit changes: %w", err)
		}
	}

	e.metrics.duration.Observe(time.Since(start).Seconds())

	if err != nil {
		e.metrics.invocations.WithLabelValues(method, "fault").Inc()
		log.Debug("invocation failed", zap.Error(err))
		return nil, err
	}

	e.metrics.invocations.WithLabelValues(method, "halt").Inc()
	e.metrics.weight.WithLabelValues(method).Observe(float64(weight))

	r := Receipt{
		ID:     id,
		Method: method,
		Caller: caller,
		Height: e.height,
		Weight: weight,
		Events: ic.Events(),
	}

	for _, h := range e.subscribers {
		h(r)
	}

	return &r, nil
}

// View runs f against the current state. Changes made by f are discarded.
func (e *Executor) View(f Method) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return ErrClosed
	}

	ic := NewContext(e.store, util.Uint160{}, e.height, e.log)
	if err := f(ic); err != nil {
		return err
	}
	return ic.Err()
}

// Close closes the underlying store. Executor becomes unusable.
func (e *Executor) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	return e.store.Close()
}
