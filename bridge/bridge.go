// Package bridge runs context-driven operations in the background and hands
// their outcome back to callers that have to block.
//
// Every call starts its operation on its own goroutine and gets a
// single-slot result channel. The caller waits on that channel for at most
// the configured timeout; a result arriving later is dropped into the slot
// and discarded with it. Operations are never cancelled by a timeout, they
// keep running on the bridge's own context, and an abandoned operation never
// holds up the calls that follow it.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/s3fs/data/errors"
	"github.com/mwantia/s3fs/log"
	"github.com/mwantia/s3fs/telemetry"
)

const DefaultTimeout = 10 * time.Second

// Bridge owns the context all synchronous calls are executed on.
type Bridge struct {
	log      *log.Logger
	recorder *telemetry.Recorder
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

type state int

const (
	statePending state = iota
	stateResolved
	stateRejected
	stateTimedOut
)

func (s state) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateResolved:
		return "resolved"
	case stateRejected:
		return "rejected"
	case stateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// pending tracks a single synchronous call.
type pending struct {
	id     string
	op     string
	run    func(context.Context) (any, error)
	result chan outcome
}

type outcome struct {
	value any
	err   error
}

func (o outcome) state() state {
	if o.err != nil {
		return stateRejected
	}
	return stateResolved
}

// New creates a bridge. Close must be called once it is no longer used.
func New(opts ...Option) *Bridge {
	options := newDefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		log:      options.Logger,
		recorder: options.Recorder,
		timeout:  options.Timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Timeout returns the maximum time a call blocks.
func (b *Bridge) Timeout() time.Duration {
	return b.timeout
}

// Close stops accepting calls. Operations still running are not cancelled.
func (b *Bridge) Close() error {
	b.once.Do(func() {
		b.cancel()
	})
	return nil
}

// start runs job detached from the bridge lifecycle, so Close never aborts it.
// A panic of the operation settles the call as rejected.
func (b *Bridge) start(job *pending) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("%s %s: panicked: %v", job.id, job.op, r)
				job.result <- outcome{err: fmt.Errorf("%w: %s: %v", errors.ErrPanicked, job.op, r)}
			}
		}()

		value, err := job.run(context.WithoutCancel(b.ctx))
		job.result <- outcome{value: value, err: err}
	}()
}

// execute blocks until the operation settled or the timeout elapsed.
func (b *Bridge) execute(op string, run func(context.Context) (any, error)) (any, error) {
	if b.ctx.Err() != nil {
		return nil, errors.ErrBridgeClosed
	}

	job := &pending{
		id:     uuid.Must(uuid.NewV7()).String(),
		op:     op,
		run:    run,
		result: make(chan outcome, 1),
	}

	started := time.Now()
	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	b.log.Debug("%s %s: %s", job.id, job.op, statePending)
	b.start(job)

	select {
	case out := <-job.result:
		b.log.Debug("%s %s: %s", job.id, job.op, out.state())
		b.recorder.RecordBridge(b.ctx, job.op, out.state().String(), time.Since(started))
		return out.value, out.err
	case <-timer.C:
		return nil, b.timedOut(job, started)
	}
}

func (b *Bridge) timedOut(job *pending, started time.Time) error {
	b.log.Warn("%s %s: %s after %s", job.id, job.op, stateTimedOut, b.timeout)
	b.recorder.RecordBridge(b.ctx, job.op, stateTimedOut.String(), time.Since(started))
	return &errors.TimeoutError{Op: job.op, After: b.timeout}
}

// Call runs fn on the bridge and blocks until it settled, returning its value
// or error unchanged. A call exceeding the timeout returns *errors.TimeoutError.
func Call[T any](b *Bridge, op string, fn func(context.Context) (T, error)) (T, error) {
	value, err := b.execute(op, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})

	var result T
	if err != nil {
		return result, err
	}

	if value != nil {
		result = value.(T)
	}

	return result, nil
}

// Do is Call for operations that only return an error.
func Do(b *Bridge, op string, fn func(context.Context) error) error {
	_, err := b.execute(op, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})

	return err
}
