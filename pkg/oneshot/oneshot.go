// Package oneshot provides a single-use, single-producer/single-consumer
// reply slot. Every dispatched request carries exactly one Replier; the
// executor that processes the request sends exactly one value through it
// and the original caller receives it.
package oneshot

import (
	"context"
	"sync"
)

// Replier is a one-shot reply channel. It must never be reused across calls.
type Replier[T any] struct {
	ch   chan T
	once sync.Once
}

// New creates a fresh reply slot bound to a single call.
func New[T any]() *Replier[T] {
	// Capacity 1 so Send never blocks, even when the receiver is gone.
	return &Replier[T]{ch: make(chan T, 1)}
}

// Send delivers the value to the slot. Only the first Send wins; any later
// call is dropped and reported through the returned flag. Sending is never
// fatal: a receiver that has already given up simply leaves the value
// unobserved.
func (r *Replier[T]) Send(value T) bool {
	sent := false
	r.once.Do(func() {
		r.ch <- value
		sent = true
	})
	return sent
}

// Recv blocks until a value has been sent or the context is done.
func (r *Replier[T]) Recv(ctx context.Context) (T, error) {
	select {
	case value := <-r.ch:
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
