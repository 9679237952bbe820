package broadcast

import (
	"fmt"
	"sync"
	"testing"

	model "omniauction/internal/models"

	"github.com/stretchr/testify/require"
)

func newEvent(productID string, amount float64) model.BidPlacedEvent {
	return model.BidPlacedEvent{
		Type:      model.EventBidPlaced,
		ProductID: productID,
		User:      "user1",
		Amount:    amount,
		Message:   fmt.Sprintf("Bid of $%.2f placed", amount),
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	t.Parallel()

	b := New()
	sub1 := b.Subscribe()
	sub2 := b.Subscribe()
	require.Equal(t, 2, b.SubscriberCount())

	event := newEvent("watch", 150)
	b.Publish(event)

	require.Equal(t, event, <-sub1.Events())
	require.Equal(t, event, <-sub2.Events())
}

func TestBroadcaster_FIFOPerSubscriber(t *testing.T) {
	t.Parallel()

	b := New()
	sub := b.Subscribe()

	for i := 1; i <= 5; i++ {
		b.Publish(newEvent("watch", float64(i)))
	}

	for i := 1; i <= 5; i++ {
		got := <-sub.Events()
		require.Equal(t, float64(i), got.Amount)
	}
}

func TestBroadcaster_SlowSubscriberDropped(t *testing.T) {
	t.Parallel()

	b := New()
	sub := b.Subscribe()

	// Fill the buffer without draining, then publish one more: the
	// subscriber must be removed and its channel closed.
	for i := 0; i <= SubscriberBuffer; i++ {
		b.Publish(newEvent("watch", float64(i)))
	}
	require.Equal(t, 0, b.SubscriberCount())

	received := 0
	for range sub.Events() {
		received++
	}
	require.Equal(t, SubscriberBuffer, received)
}

func TestBroadcaster_DeadSubscriberDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	b := New()
	dead := b.Subscribe()

	// Saturate the dead subscriber's buffer before the healthy one joins.
	for i := 0; i < SubscriberBuffer; i++ {
		b.Publish(newEvent("watch", float64(i)))
	}

	healthy := b.Subscribe()
	event := newEvent("watch", 999)
	b.Publish(event)

	// The healthy subscriber still gets the event; the dead one is gone.
	require.Equal(t, event, <-healthy.Events())
	require.Equal(t, 1, b.SubscriberCount())

	drained := 0
	for range dead.Events() {
		drained++
	}
	require.Equal(t, SubscriberBuffer, drained)
}

func TestBroadcaster_UnsubscribeIdempotent(t *testing.T) {
	t.Parallel()

	b := New()
	sub := b.Subscribe()

	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	require.Equal(t, 0, b.SubscriberCount())

	// Publishing after removal is a no-op for this subscriber.
	b.Publish(newEvent("watch", 100))
	_, open := <-sub.Events()
	require.False(t, open)
}

func TestBroadcaster_ConcurrentSubscribePublish(t *testing.T) {
	t.Parallel()

	b := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		i := i
		go func() {
			defer wg.Done()
			sub := b.Subscribe()
			// Drain whatever arrives until the channel closes.
			go func() {
				for range sub.Events() {
				}
			}()
			if i%2 == 0 {
				b.Unsubscribe(sub)
			}
		}()
		go func() {
			defer wg.Done()
			b.Publish(newEvent("watch", float64(i)))
		}()
	}
	wg.Wait()
}
