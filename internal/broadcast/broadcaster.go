package broadcast

import (
	"sync"

	model "omniauction/internal/models"
	"omniauction/utils"
)

// SubscriberBuffer is the per-subscriber event queue depth. A subscriber
// that falls this far behind is dropped rather than allowed to stall
// publishing.
const SubscriberBuffer = 32

// Subscriber is a handle to one registered event sink. Events arrive on the
// channel returned by Events; the channel is closed when the subscriber is
// unsubscribed or dropped.
type Subscriber struct {
	id string
	ch chan model.BidPlacedEvent
}

// Events returns the subscriber's delivery channel.
func (s *Subscriber) Events() <-chan model.BidPlacedEvent {
	return s.ch
}

// Broadcaster fans events out to all currently registered subscribers.
// Publish never blocks: each delivery is a non-blocking buffered send, and a
// subscriber whose buffer is full is removed. Because Publish enqueues in
// call order and each subscriber drains a single channel, any one subscriber
// receives events in the order they were published.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

// New creates a Broadcaster with no subscribers.
func New() *Broadcaster {
	return &Broadcaster{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber and returns its handle.
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: utils.GenerateID(),
		ch: make(chan model.BidPlacedEvent, SubscriberBuffer),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	utils.Debug("broadcast: subscriber registered", map[string]any{"subscriber_id": sub.id})
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call more
// than once and safe to race with Publish.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

// Publish delivers the event to every registered subscriber independently.
// A failed delivery removes that subscriber and never affects the others.
func (b *Broadcaster) Publish(event model.BidPlacedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			// Buffer full: the subscriber is not draining. Drop it rather
			// than retry or block the publisher.
			utils.Warn("broadcast: dropping slow subscriber", map[string]any{"subscriber_id": sub.id})
			b.removeLocked(sub)
		}
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// removeLocked deletes and closes a subscriber; callers must hold b.mu.
// Closing under the lock keeps Publish from sending on a closed channel.
func (b *Broadcaster) removeLocked(sub *Subscriber) {
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}
