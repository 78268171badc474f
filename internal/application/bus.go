package application

import (
	"sync"

	"github.com/davarch/actions-dash/internal/domain"
)

// Bus is the many-producer, single-consumer event queue at the center of
// the application. Dispatch never blocks and preserves per-producer FIFO
// order; after Close events are dropped silently, which is the signal
// that the consumer is gone.
type Bus struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	queue    []domain.Event
	closed   bool
}

func NewBus() *Bus {
	b := &Bus{}
	b.nonEmpty = sync.NewCond(&b.mu)
	return b
}

// Dispatch enqueues an event. Implements domain.Dispatcher.
func (b *Bus) Dispatch(e domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.queue = append(b.queue, e)
	b.nonEmpty.Signal()
}

// Next blocks until an event is available or the bus is closed and
// drained; the second return is false only in the latter case.
func (b *Bus) Next() (domain.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.queue) == 0 && !b.closed {
		b.nonEmpty.Wait()
	}
	if len(b.queue) == 0 {
		return nil, false
	}
	return b.pop(), true
}

// TryNext pops an event without blocking.
func (b *Bus) TryNext() (domain.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	return b.pop(), true
}

// Close stops accepting events; pending ones remain readable.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.nonEmpty.Broadcast()
}

// Closed reports whether Close has been called.
func (b *Bus) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len reports the number of queued events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

func (b *Bus) pop() domain.Event {
	e := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	if len(b.queue) == 0 {
		b.queue = nil
	}
	return e
}
