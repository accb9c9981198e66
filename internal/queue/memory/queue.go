// Package memory provides an unbounded in-process FIFO queue with
// competing-consumer semantics.
//
// Enqueue never blocks: the buffer grows with the backlog and there is no
// backpressure, so a producer that outpaces every consumer grows memory
// without limit. Dequeue blocks until an item is available or the queue has
// been closed and drained. The internal lock is held only for the push or
// pop itself.
package memory

import (
	"errors"
	"sync"

	"github.com/gammazero/deque"
)

// ErrClosed is returned by Enqueue after Close, and by Dequeue once a closed
// queue has been drained.
var ErrClosed = errors.New("queue closed")

// Queue is an unbounded, ordered, multi-producer multi-consumer queue.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *deque.Deque[T]
	closed bool
}

// NewQueue constructs an empty queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{items: deque.New[T]()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item to the back of the queue.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.items.PushBack(item)
	q.cond.Signal()
	return nil
}

// Dequeue removes and returns the front item, blocking while the queue is
// open and empty. Each item is handed to exactly one caller.
func (q *Queue[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 {
		if q.closed {
			var zero T
			return zero, ErrClosed
		}
		q.cond.Wait()
	}
	return q.items.PopFront(), nil
}

// Close stops accepting items and wakes every blocked consumer. Items already
// queued remain available to Dequeue. Closing twice is a no-op.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Drain closes the queue and returns every remaining item in order.
func (q *Queue[T]) Drain() []T {
	q.Close()
	out := make([]T, 0, q.Len())
	for {
		item, err := q.Dequeue()
		if err != nil {
			return out
		}
		out = append(out, item)
	}
}
