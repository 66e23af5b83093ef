package order

import (
	"time"

	"foodorders/internal/core/domain/model/kernel"
)

// Event is a domain event recorded by the Order aggregate. Events are published to the
// change feed only after the enclosing transaction commits.
type Event interface {
	AggregateID() kernel.UUID
	EventType() string
}

const (
	CreatedEventType = "OrderCreated"
	UpdatedEventType = "OrderUpdated"
)

// CreatedEvent carries the full order as first committed.
type CreatedEvent struct {
	Order Snapshot
}

func (e CreatedEvent) AggregateID() kernel.UUID { return e.Order.ID }

func (e CreatedEvent) EventType() string { return CreatedEventType }

// UpdatedEvent carries the changed status columns. Version orders updates of one order.
type UpdatedEvent struct {
	OrderID       kernel.UUID
	ChangedFields []string
	Status        Status
	UpdatedAt     time.Time
	Version       int64
}

func (e UpdatedEvent) AggregateID() kernel.UUID { return e.OrderID }

func (e UpdatedEvent) EventType() string { return UpdatedEventType }
