// Package eventbus provides a small topic-based publish/subscribe bus.
//
// The loading runtime and the live configuration store publish lifecycle
// events here; the admin event stream and tests consume them. Delivery is
// best effort: publishing never blocks, and when a subscriber's buffer is
// full the oldest pending event is dropped to make room.
package eventbus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Topic names a stream of related events.
type Topic string

const (
	// TopicModuleLifecycle carries module state transitions during boot.
	TopicModuleLifecycle Topic = "modules.lifecycle"
	// TopicConfigReloaded fires after a live configuration merge completes.
	TopicConfigReloaded Topic = "config.reloaded"
)

// Event is a single published occurrence. Payload keys are event-specific.
type Event struct {
	ID      string         `json:"id"`
	Topic   Topic          `json:"topic"`
	Time    time.Time      `json:"time"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Subscription is a handle to a subscriber's event channel. Cancel releases
// the subscription and closes the channel.
type Subscription struct {
	C      <-chan Event
	cancel func()
}

// Cancel detaches the subscription from the bus and closes C.
func (s *Subscription) Cancel() {
	s.cancel()
}

// Bus fan-outs events per topic to any number of subscribers.
type Bus struct {
	mu          sync.Mutex
	subscribers map[Topic]map[uint64]chan Event
	nextID      uint64
	bufferSize  int
	closed      bool
}

const defaultBufferSize = 64

// New constructs an empty bus.
func New() *Bus {
	return &Bus{
		subscribers: make(map[Topic]map[uint64]chan Event),
		bufferSize:  defaultBufferSize,
	}
}

// Subscribe registers a new subscriber for topic.
func (b *Bus) Subscribe(topic Topic) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	if b.closed {
		close(ch)
		return &Subscription{C: ch, cancel: func() {}}
	}

	b.nextID++
	id := b.nextID
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[uint64]chan Event)
	}
	b.subscribers[topic][id] = ch

	return &Subscription{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subscribers[topic]; ok {
				if c, ok := subs[id]; ok {
					delete(subs, id)
					close(c)
				}
			}
		},
	}
}

// Publish delivers an event to every subscriber of topic without blocking.
// The event's ID and timestamp are filled in here.
func (b *Bus) Publish(topic Topic, payload map[string]any) {
	event := Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		Time:    time.Now().UTC(),
		Payload: payload,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- event:
		default:
			// Buffer full: drop the oldest pending event to keep the
			// subscriber current rather than stalled.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// Close shuts the bus down and closes every subscriber channel. Publishing
// after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for topic, subs := range b.subscribers {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
		delete(b.subscribers, topic)
	}
}
