package eventbus

import (
	"context"
	"sync"
)

// Event represents an arbitrary event passed on the bus.
type Event interface{}

// EventBus is the publish/subscribe contract shared by the controller, the
// transports and the metrics collector.
type EventBus interface {
	// Publish delivers e to every subscriber with room in its buffer and
	// drops it for the others.
	Publish(Event)
	// PublishWait delivers e to every subscriber, waiting for buffer space
	// until ctx is done.
	PublishWait(ctx context.Context, e Event) error
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// DefaultBuffer is the channel capacity of each subscriber.
const DefaultBuffer = 32

// subscriber pairs a channel with the state needed to close it while a
// PublishWait may still be sending to it.
type subscriber struct {
	ch   chan Event
	done chan struct{}
	once sync.Once

	mu     sync.RWMutex
	closed bool
}

func newSubscriber(buffer int) *subscriber {
	return &subscriber{ch: make(chan Event, buffer), done: make(chan struct{})}
}

// trySend delivers e if the subscriber has room in its buffer.
func (s *subscriber) trySend(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

// send waits for the subscriber to accept e. It reports false only when ctx
// expired first.
func (s *subscriber) send(ctx context.Context, e Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- e:
		return true
	case <-s.done:
		return true
	case <-ctx.Done():
		return false
	}
}

// close releases blocked senders, then closes the channel once they are gone.
func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
}

// Bus is the default EventBus implementation using fan-out channels.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscriber
	buffer int
	closed bool
}

// New creates a new Bus.
func New() *Bus { return &Bus{buffer: DefaultBuffer} }

// NewWithBuffer creates a Bus whose subscribers get n slots of buffer.
func NewWithBuffer(n int) *Bus {
	if n < 0 {
		n = 0
	}
	return &Bus{buffer: n}
}

func (b *Bus) snapshot() []*subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	return append([]*subscriber(nil), b.subs...)
}

// Publish sends the event to all subscribers. Delivery is non-blocking.
func (b *Bus) Publish(e Event) {
	for _, sub := range b.snapshot() {
		sub.trySend(e)
	}
}

// PublishWait sends the event to all subscribers in subscription order. It
// returns ctx.Err() if a subscriber could not accept the event in time; the
// remaining subscribers are skipped in that case. Subscribers removed while
// the call is blocked are skipped. The bus lock is not held while waiting.
func (b *Bus) PublishWait(ctx context.Context, e Event) error {
	for _, sub := range b.snapshot() {
		if !sub.send(ctx, e) {
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a new subscriber and returns its channel.
func (b *Bus) Subscribe() <-chan Event {
	sub := newSubscriber(b.buffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.close()
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub.ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	var found *subscriber
	for i, sub := range b.subs {
		if sub.ch == ch {
			found = sub
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
	if found != nil {
		found.close()
	}
}

// Close closes all subscriber channels and clears the list.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, sub := range subs {
		sub.close()
	}
}
