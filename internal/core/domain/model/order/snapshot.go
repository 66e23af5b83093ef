package order

import (
	"time"

	"foodorders/internal/core/domain/model/kernel"
)

// Snapshot is an immutable copy of an order used by read models, the change feed
// and the HTTP layer.
type Snapshot struct {
	ID              kernel.UUID
	Number          Number
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Notes           string
	Total           kernel.Money
	PaymentMethod   PaymentMethod
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	Lines           []LineSnapshot
}

type LineSnapshot struct {
	ID        kernel.UUID
	ItemName  string
	Quantity  int
	UnitPrice kernel.Money
}

// Apply merges a status update into the snapshot. Updates older than the snapshot's
// version are ignored and reported as not applied.
func (s Snapshot) Apply(ev UpdatedEvent) (Snapshot, bool) {
	if !s.ID.IsEqual(ev.OrderID) || ev.Version < s.Version {
		return s, false
	}
	s.Status = ev.Status
	s.UpdatedAt = ev.UpdatedAt
	s.Version = ev.Version
	return s, true
}

// Clone copies the line slice so the result can be handed to another goroutine.
func (s Snapshot) Clone() Snapshot {
	lines := make([]LineSnapshot, len(s.Lines))
	copy(lines, s.Lines)
	s.Lines = lines
	return s
}
