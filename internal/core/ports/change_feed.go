package ports

import (
	"context"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
)

// EventPublisher hands committed domain events to the change feed. Publish never blocks
// on slow subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.Event) error
}

// EventHandler receives events on the subscriber's own delivery goroutine.
type EventHandler func(order.Event)

// Subscription is returned by the Subscribe calls.
type Subscription interface {
	// Unsubscribe stops delivery. It is idempotent and safe after the feed dropped the
	// subscriber.
	Unsubscribe()

	// Done is closed once the subscription ends for any reason.
	Done() <-chan struct{}

	// Lagged reports whether the feed dropped the subscriber because its mailbox
	// overflowed. A lagged subscriber must re-fetch authoritative state.
	Lagged() bool
}

// ChangeFeed fans committed order events out to subscribers. Delivery is best effort and
// at least once. Events of one order reach each subscriber in publish order; there is no
// ordering across orders.
type ChangeFeed interface {
	EventPublisher
	SubscribeAll(handler EventHandler) Subscription
	SubscribeOne(orderID kernel.UUID, handler EventHandler) Subscription
}
