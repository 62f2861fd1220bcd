// Package coalesce provides the two request-coalescing policies the engine
// runs its backends through: a window throttle for the expensive
// full-workspace sweep and a trailing-edge debounce for rapid-fire remote
// queries.
package coalesce

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Throttle runs a zero-argument producer at most once per window and shares
// the result with every caller that arrives inside it. The producer is
// detached from caller contexts: cancelling a caller abandons that caller's
// wait but never the invocation itself, because a half-finished sweep would
// poison the shared cached result.
type Throttle[T any] struct {
	window time.Duration

	group singleflight.Group

	mu      sync.Mutex
	hasLast bool
	lastAt  time.Time
	lastVal T
	lastErr error
}

// NewThrottle creates a throttle with the given window.
func NewThrottle[T any](window time.Duration) *Throttle[T] {
	return &Throttle[T]{window: window}
}

// Do returns the cached result if the window has not elapsed, joins the
// in-flight invocation if one is running, and otherwise invokes fn. The
// context bounds only this caller's wait.
func (t *Throttle[T]) Do(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	t.mu.Lock()
	if t.hasLast && time.Since(t.lastAt) < t.window {
		val, err := t.lastVal, t.lastErr
		t.mu.Unlock()
		return val, err
	}
	t.mu.Unlock()

	ch := t.group.DoChan("run", func() (interface{}, error) {
		val, err := fn(context.Background())
		t.mu.Lock()
		t.lastVal, t.lastErr = val, err
		t.hasLast = true
		t.lastAt = time.Now()
		t.mu.Unlock()
		return val, err
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops the cached result so the next call re-invokes the
// producer regardless of the window.
func (t *Throttle[T]) Invalidate() {
	t.mu.Lock()
	t.hasLast = false
	t.mu.Unlock()
}
