package broker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// subscriberBuffer bounds each subscriber channel. Publish blocks when a
// subscriber falls this far behind rather than dropping events.
const subscriberBuffer = 100

// subscription pairs a delivery channel with the bookkeeping needed to
// tear it down while publishers still hold references to it. The channel
// is closed only after stop is closed and every sender has left.
type subscription struct {
	ch      chan Message
	stop    chan struct{}
	senders sync.WaitGroup
}

// InMemoryBroker is a process-local Broker. It fans every published
// message out to all subscribers of the topic and assigns offsets per
// topic. Used when no external brokers are configured.
type InMemoryBroker struct {
	mu          sync.Mutex
	subscribers map[string][]*subscription
	offsets     map[string]int64
	inFlight    sync.WaitGroup
	done        chan struct{}
	closed      bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subscribers: make(map[string][]*subscription),
		offsets:     make(map[string]int64),
		done:        make(chan struct{}),
	}
}

// Publish delivers the message to every current subscriber of the topic.
// Implements the Broker interface; the key is recorded on the message but
// plays no routing role in process. A send blocked on a full subscriber
// buffer returns once the caller's context ends, the subscriber leaves,
// or the broker closes; it never touches a closed channel.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("broker is closed")
	}
	b.inFlight.Add(1)
	defer b.inFlight.Done()
	offset := b.offsets[topic]
	b.offsets[topic] = offset + 1
	subs := append([]*subscription(nil), b.subscribers[topic]...)
	for _, s := range subs {
		s.senders.Add(1)
	}
	b.mu.Unlock()

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     value,
		Offset:    offset,
		Timestamp: time.Now().UnixMilli(),
	}

	var publishErr error
	for _, s := range subs {
		if publishErr == nil {
			select {
			case s.ch <- msg:
			case <-s.stop:
				// Subscriber left; skip it.
			case <-b.done:
				publishErr = fmt.Errorf("broker is closed")
			case <-ctx.Done():
				publishErr = ctx.Err()
			}
		}
		s.senders.Done()
	}
	return publishErr
}

// Subscribe registers a new consumer channel for the topic. The groupID
// is ignored; every subscriber sees every message. The channel is closed
// when the context ends (after already-buffered messages) or when the
// broker closes, matching the Redpanda consumer loop.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("broker is closed")
	}

	s := &subscription{
		ch:   make(chan Message, subscriberBuffer),
		stop: make(chan struct{}),
	}
	b.subscribers[topic] = append(b.subscribers[topic], s)
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(topic, s)
		case <-b.done:
			// Close owns the channel teardown.
		}
	}()

	return s.ch, nil
}

// unsubscribe detaches a subscription once its context has ended. Whoever
// removes the subscription from the map owns closing its channel; losing
// the removal race to Close means Close closes it instead.
func (b *InMemoryBroker) unsubscribe(topic string, s *subscription) {
	b.mu.Lock()
	removed := false
	subs := b.subscribers[topic]
	for i, candidate := range subs {
		if candidate == s {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			removed = true
			break
		}
	}
	b.mu.Unlock()

	if !removed {
		return
	}
	close(s.stop)
	s.senders.Wait()
	close(s.ch)
}

// Close rejects further use, waits for in-flight publishes to drain, and
// only then closes the remaining subscriber channels.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	remaining := b.subscribers
	b.subscribers = nil
	b.mu.Unlock()

	b.inFlight.Wait()

	for _, subs := range remaining {
		for _, s := range subs {
			close(s.ch)
		}
	}
	return nil
}
