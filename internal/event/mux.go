package event

import (
	"context"
	"errors"
	"sync"
)

// DefaultBuffer is the channel capacity used by NewMux.
const DefaultBuffer = 256

// ErrClosed is returned by Send and Recv once the Mux is closed.
var ErrClosed = errors.New("event mux closed")

// Mux is the many-producer, single-consumer channel between the input
// reader, the watcher and the controller. Each producer's events keep their
// relative order; interleaving across producers is arrival order.
//
// The underlying channel is never closed, so producers racing with Close
// cannot panic; they observe ErrClosed instead.
type Mux struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewMux creates a Mux with DefaultBuffer capacity.
func NewMux() *Mux {
	return NewMuxSize(DefaultBuffer)
}

// NewMuxSize creates a Mux with the given buffer capacity.
func NewMuxSize(size int) *Mux {
	return &Mux{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// Send enqueues ev, blocking while the buffer is full.
func (m *Mux) Send(ctx context.Context, ev Event) error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}

	select {
	case m.ch <- ev:
		return nil
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend enqueues ev without blocking. It reports false when the buffer is
// full or the Mux is closed.
func (m *Mux) TrySend(ev Event) bool {
	select {
	case <-m.done:
		return false
	default:
	}

	select {
	case m.ch <- ev:
		return true
	default:
		return false
	}
}

// Recv blocks until an event arrives. This is the controller's only
// suspension point.
func (m *Mux) Recv(ctx context.Context) (Event, error) {
	select {
	case ev := <-m.ch:
		return ev, nil
	case <-m.done:
		return Event{}, ErrClosed
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// TryRecv returns the next queued event without blocking.
func (m *Mux) TryRecv() (Event, bool) {
	select {
	case ev := <-m.ch:
		return ev, true
	default:
		return Event{}, false
	}
}

// Drain removes and returns every event queued right now, in order.
func (m *Mux) Drain() []Event {
	var out []Event
	for {
		ev, ok := m.TryRecv()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Len returns the number of queued events.
func (m *Mux) Len() int {
	return len(m.ch)
}

// Close stops the Mux. It is safe to call more than once.
func (m *Mux) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// Done is closed once Close has been called.
func (m *Mux) Done() <-chan struct{} {
	return m.done
}
