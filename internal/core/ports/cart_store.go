package ports

import (
	"context"
	"time"

	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/domain/model/kernel"
)

// CartStore owns the carts of live sessions. Update runs fn with exclusive access to one
// cart; calls on different carts do not block each other.
type CartStore interface {
	Create(ctx context.Context) (kernel.UUID, error)
	Update(ctx context.Context, id kernel.UUID, fn func(*cart.Cart) error) error
	// View runs fn with read access; fn must not retain the cart.
	View(ctx context.Context, id kernel.UUID, fn func(*cart.Cart) error) error
	Delete(ctx context.Context, id kernel.UUID) error
}

// CartSweeper drops carts idle for longer than ttl and reports how many it removed.
type CartSweeper interface {
	Sweep(ttl time.Duration) int
}
