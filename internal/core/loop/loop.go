// Package loop provides the single goroutine that owns all panel state.
// Background work never mutates state directly; it posts a closure here.
package loop

import (
	"context"
	"sync"
)

// Poster accepts state mutations for execution on the owning goroutine.
type Poster interface {
	Post(fn func())
}

// Runner posts mutations and can wait for them to run.
type Runner interface {
	Poster
	Call(ctx context.Context, fn func()) error
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(fn func())

// Post calls the function.
func (post PosterFunc) Post(fn func()) {
	post(fn)
}

// Inline runs mutations immediately on the calling goroutine. Tests use it to
// drive state machines synchronously.
type Inline struct{}

// Post runs fn.
func (Inline) Post(fn func()) {
	fn()
}

// Call runs fn.
func (Inline) Call(_ context.Context, fn func()) error {
	fn()
	return nil
}

// Loop serializes mutations onto one goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop with the given queue depth.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. After the loop stops, mutations are dropped.
func (loop *Loop) Post(fn func()) {
	select {
	case <-loop.done:
		return
	default:
	}
	select {
	case loop.queue <- fn:
	case <-loop.done:
	}
}

// Run executes posted mutations until ctx is cancelled.
func (loop *Loop) Run(ctx context.Context) {
	defer loop.once.Do(func() { close(loop.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-loop.queue:
			fn()
		}
	}
}

// Call posts fn and waits until it has run. It must not be called from the
// loop goroutine itself.
func (loop *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	loop.Post(func() {
		fn()
		close(finished)
	})
	select {
	case <-finished:
		return nil
	case <-loop.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}
