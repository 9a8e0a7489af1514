package events

import "sync"

// queue is an unbounded FIFO. Send never blocks; Receive blocks until an
// item is available or the queue is closed.
type queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool

	sent     int64
	received int64
}

func newQueue[T any](capacity int) *queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	q := &queue[T]{items: make([]T, 0, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send appends item. Returns false if the queue is closed.
func (q *queue[T]) Send(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, item)
	q.sent++
	q.cond.Signal()
	return true
}

// Receive pops the oldest item. Returns false once closed and drained.
func (q *queue[T]) Receive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	q.received++
	return item, true
}

// Close wakes all receivers. Items already queued can still be received.
func (q *queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// QueueStats reports queue throughput.
type QueueStats struct {
	Pending  int
	Sent     int64
	Received int64
}

func (q *queue[T]) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{Pending: len(q.items), Sent: q.sent, Received: q.received}
}
