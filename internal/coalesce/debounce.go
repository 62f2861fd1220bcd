package coalesce

import (
	"context"
	"sync"
	"time"

	"github.com/bevzzz/cody/internal/errors"
)

// batch is one open debounce window. Every caller coalesced into it blocks
// on done and then reads the shared outcome.
type batch[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Debounce delays an argument-taking producer until calls go quiet for a
// window, then executes once with the most recent arguments. All coalesced
// callers receive that single result (or its failure). Pending state never
// leaks across windows: each quiet period closes its batch completely.
type Debounce[A, T any] struct {
	window time.Duration
	fn     func(context.Context, A) (T, error)

	mu      sync.Mutex
	pending *batch[T]
	timer   *time.Timer
	latest  A
	closed  bool
}

// NewDebounce creates a debouncer around fn.
func NewDebounce[A, T any](window time.Duration, fn func(context.Context, A) (T, error)) *Debounce[A, T] {
	return &Debounce[A, T]{window: window, fn: fn}
}

// Do schedules arg and blocks until the batch it joined executes. A call
// arriving while a batch is pending replaces the batch's arguments and
// pushes the execution deadline out. The context bounds only this caller's
// wait; the batch still executes for everyone else.
func (d *Debounce[A, T]) Do(ctx context.Context, arg A) (T, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		var zero T
		return zero, errors.ErrSkipped
	}

	d.latest = arg
	if d.pending == nil {
		d.pending = &batch[T]{done: make(chan struct{})}
		d.timer = time.AfterFunc(d.window, d.fire)
	} else {
		d.timer.Reset(d.window)
	}
	b := d.pending
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-b.done:
		return b.val, b.err
	}
}

// fire executes the pending batch with the latest arguments. It runs on the
// timer goroutine, detached from every caller context.
func (d *Debounce[A, T]) fire() {
	d.mu.Lock()
	b := d.pending
	arg := d.latest
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if b == nil {
		return
	}

	b.val, b.err = d.fn(context.Background(), arg)
	close(b.done)
}

// Close abandons any pending batch; its callers receive the skipped
// sentinel, which downstream maps to an empty result rather than a failure.
func (d *Debounce[A, T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending != nil {
		d.pending.err = errors.ErrSkipped
		close(d.pending.done)
		d.pending = nil
	}
}
