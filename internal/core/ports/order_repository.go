package ports

import (
	"context"
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
)

var (
	// ErrOrderAlreadyExists is returned by Add when an order with the same id is stored, or
	// by Commit when a concurrent transaction stored it first. Create retries rely on it to
	// stay idempotent.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrOrderNumberTaken is returned by Add when the order number collides with another
	// order. The caller draws a new number and retries inside the same transaction.
	ErrOrderNumberTaken = errors.New("order number is already taken")
)

// OrderRepository is the write side of the order store. It is always obtained from a
// UnitOfWork so every call runs in the caller's transaction.
type OrderRepository interface {
	// Add inserts the order row and then its line rows.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, updated_at and version.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its lines, or returns errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the transaction ends, so concurrent
	// status writers on one id are serialised.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderReader is the read side used by queries and projections. It works outside any
// transaction and returns snapshots.
type OrderReader interface {
	// Get returns errs.ObjectNotFoundError when the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (order.Snapshot, error)

	// FindByNumber does an exact, case-sensitive match. A miss returns (nil, nil).
	FindByNumber(ctx context.Context, number string) (*order.Snapshot, error)

	// ListAll returns every order, newest created_at first. There is no pagination.
	ListAll(ctx context.Context) ([]order.Snapshot, error)
}
