package table

import "context"

// Deferred is the asynchronous delivery of one operation's outcome. Every
// operation has an Async variant returning one; the synchronous methods
// are the single execution path underneath.
type Deferred[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func deferredOf[T any](fn func() (T, error)) *Deferred[T] {
	d := &Deferred[T]{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		d.val, d.err = fn()
	}()
	return d
}

// Await blocks until the operation settles or ctx is cancelled.
func (d *Deferred[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then invokes fn once the operation settles, on a separate goroutine.
func (d *Deferred[T]) Then(fn func(T, error)) {
	go func() {
		<-d.done
		fn(d.val, d.err)
	}()
}
