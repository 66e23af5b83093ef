package changefeed_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"foodorders/internal/adapters/out/changefeed"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type collector struct {
	mu     sync.Mutex
	events []order.Event
}

func (c *collector) handle(ev order.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) statuses() []order.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]order.Status, 0, len(c.events))
	for _, ev := range c.events {
		if u, ok := ev.(order.UpdatedEvent); ok {
			out = append(out, u.Status)
		}
	}
	return out
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func updated(id kernel.UUID, status order.Status, version int64) order.UpdatedEvent {
	return order.UpdatedEvent{
		OrderID:       id,
		ChangedFields: []string{"status", "updated_at"},
		Status:        status,
		UpdatedAt:     time.Now().UTC(),
		Version:       version,
	}
}

func TestBroker_SubscribeOneFiltersAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	b := changefeed.NewBroker(16, discardLogger())
	x, y := kernel.NewUUID(), kernel.NewUUID()

	var onX collector
	sub := b.SubscribeOne(x, onX.handle)
	defer sub.Unsubscribe()

	require.NoError(t, b.Publish(ctx, updated(x, order.Confirmed, 2)))
	require.NoError(t, b.Publish(ctx, updated(y, order.Cancelled, 2)))
	require.NoError(t, b.Publish(ctx, updated(x, order.Preparing, 3)))

	require.Eventually(t, func() bool { return onX.len() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []order.Status{order.Confirmed, order.Preparing}, onX.statuses())
}

func TestBroker_SkipsEventsOlderThanDelivered(t *testing.T) {
	ctx := context.Background()
	b := changefeed.NewBroker(16, discardLogger())
	x, y := kernel.NewUUID(), kernel.NewUUID()

	var onX, all collector
	subX := b.SubscribeOne(x, onX.handle)
	defer subX.Unsubscribe()
	subAll := b.SubscribeAll(all.handle)
	defer subAll.Unsubscribe()

	// The v3 writer published first; v2 arrives late and v3 is redelivered.
	require.NoError(t, b.Publish(ctx, updated(x, order.Preparing, 3)))
	require.NoError(t, b.Publish(ctx, updated(x, order.Confirmed, 2)))
	require.NoError(t, b.Publish(ctx, updated(x, order.Preparing, 3)))
	require.NoError(t, b.Publish(ctx, updated(y, order.Confirmed, 2)))
	require.NoError(t, b.Publish(ctx, updated(x, order.Ready, 4)))

	require.Eventually(t, func() bool { return all.len() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []order.Status{order.Preparing, order.Ready}, onX.statuses())
	assert.Equal(t, []order.Status{order.Preparing, order.Confirmed, order.Ready}, all.statuses())
	assert.Equal(t, 3, all.len())
}

func TestBroker_CreatedEventCountsAsFirstVersion(t *testing.T) {
	ctx := context.Background()
	b := changefeed.NewBroker(16, discardLogger())
	id := kernel.NewUUID()

	var c collector
	sub := b.SubscribeOne(id, c.handle)
	defer sub.Unsubscribe()

	created := order.CreatedEvent{Order: order.Snapshot{ID: id, Status: order.Pending, Version: 1}}
	require.NoError(t, b.Publish(ctx, created, created, updated(id, order.Confirmed, 2)))

	require.Eventually(t, func() bool { return c.len() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, c.len())
	assert.Equal(t, []order.Status{order.Confirmed}, c.statuses())
}

func TestBroker_SubscribeAllReceivesEveryOrder(t *testing.T) {
	ctx := context.Background()
	b := changefeed.NewBroker(16, discardLogger())

	var all collector
	sub := b.SubscribeAll(all.handle)
	defer sub.Unsubscribe()

	require.NoError(t, b.Publish(ctx,
		updated(kernel.NewUUID(), order.Ready, 2),
		updated(kernel.NewUUID(), order.Delivered, 5),
	))
	require.Eventually(t, func() bool { return all.len() == 2 }, time.Second, 5*time.Millisecond)
}

func TestBroker_UnsubscribeIsIdempotent(t *testing.T) {
	b := changefeed.NewBroker(4, discardLogger())
	var c collector
	sub := b.SubscribeAll(c.handle)
	assert.Equal(t, 1, b.Subscribers())

	sub.Unsubscribe()
	sub.Unsubscribe()

	assert.Equal(t, 0, b.Subscribers())
	assert.False(t, sub.Lagged())
	select {
	case <-sub.Done():
	default:
		t.Fatal("Done must be closed after Unsubscribe")
	}

	require.NoError(t, b.Publish(context.Background(), updated(kernel.NewUUID(), order.Ready, 2)))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, c.len())
}

func TestBroker_SlowSubscriberIsDroppedAsLagged(t *testing.T) {
	ctx := context.Background()
	b := changefeed.NewBroker(2, discardLogger())
	id := kernel.NewUUID()

	release := make(chan struct{})
	blocked := b.SubscribeOne(id, func(order.Event) { <-release })
	defer close(release)

	var healthy collector
	other := b.SubscribeAll(healthy.handle)
	defer other.Unsubscribe()

	start := time.Now()
	// One event is held by the blocked handler, two fill the mailbox, the fourth overflows.
	for v := int64(2); v <= 6; v++ {
		require.NoError(t, b.Publish(ctx, updated(id, order.Preparing, v)))
		time.Sleep(5 * time.Millisecond)
	}
	assert.Less(t, time.Since(start), time.Second, "publish must not block on a slow subscriber")

	select {
	case <-blocked.Done():
	case <-time.After(time.Second):
		t.Fatal("slow subscriber was not dropped")
	}
	assert.True(t, blocked.Lagged())
	blocked.Unsubscribe()

	require.Eventually(t, func() bool { return healthy.len() == 5 }, time.Second, 5*time.Millisecond)
	assert.False(t, other.Lagged())
}

func TestBroker_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	ctx := context.Background()
	b := changefeed.NewBroker(8, discardLogger())

	var mu sync.Mutex
	calls := 0
	sub := b.SubscribeAll(func(order.Event) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			panic("boom")
		}
	})
	defer sub.Unsubscribe()

	require.NoError(t, b.Publish(ctx, updated(kernel.NewUUID(), order.Ready, 2)))
	require.NoError(t, b.Publish(ctx, updated(kernel.NewUUID(), order.Ready, 2)))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	}, time.Second, 5*time.Millisecond)
}

func TestBroker_Close(t *testing.T) {
	b := changefeed.NewBroker(4, discardLogger())
	s1 := b.SubscribeAll(func(order.Event) {})
	s2 := b.SubscribeOne(kernel.NewUUID(), func(order.Event) {})

	b.Close()

	assert.Equal(t, 0, b.Subscribers())
	<-s1.Done()
	<-s2.Done()
}
