package commands

import (
	"context"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/ports"
)

// CreateCartCommandHandler opens a cart session.
type CreateCartCommandHandler struct {
	carts ports.CartStore
}

func NewCreateCartCommandHandler(carts ports.CartStore) CreateCartCommandHandler {
	return CreateCartCommandHandler{carts: carts}
}

func (h CreateCartCommandHandler) Handle(ctx context.Context) (kernel.UUID, error) {
	return h.carts.Create(ctx)
}

// DiscardCartCommandHandler ends a cart session and drops its unsubmitted lines.
type DiscardCartCommandHandler struct {
	carts ports.CartStore
}

func NewDiscardCartCommandHandler(carts ports.CartStore) DiscardCartCommandHandler {
	return DiscardCartCommandHandler{carts: carts}
}

func (h DiscardCartCommandHandler) Handle(ctx context.Context, cartID kernel.UUID) error {
	if err := cartID.Validate(); err != nil {
		return err
	}
	return h.carts.Delete(ctx, cartID)
}
