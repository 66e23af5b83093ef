package ports

import (
	"context"

	"foodorders/internal/core/domain/model/order"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// NotificationDispatcher makes exactly one delivery attempt. Failures are returned as
// errs.NotificationFailedError and only ever logged.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, placed order.Snapshot, channel Channel) error
}

// OrderNotifier schedules the placement notifications of an order without waiting for
// them. It must never block or fail order creation.
type OrderNotifier interface {
	NotifyPlaced(placed order.Snapshot)
}
