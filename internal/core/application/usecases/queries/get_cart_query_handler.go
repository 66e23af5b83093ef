package queries

import (
	"context"

	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/ports"
)

// CartView is a read-only copy of a cart.
type CartView struct {
	ID          kernel.UUID
	Lines       []CartLineView
	TotalAmount kernel.Money
	TotalCount  int
}

type CartLineView struct {
	MenuItemID int
	Name       string
	UnitPrice  kernel.Money
	Quantity   int
	Subtotal   kernel.Money
}

type GetCartQueryHandler struct {
	carts ports.CartStore
}

func NewGetCartQueryHandler(carts ports.CartStore) GetCartQueryHandler {
	return GetCartQueryHandler{carts: carts}
}

func (h GetCartQueryHandler) Handle(ctx context.Context, cartID kernel.UUID) (CartView, error) {
	if err := cartID.Validate(); err != nil {
		return CartView{}, err
	}

	var view CartView
	err := h.carts.View(ctx, cartID, func(c *cart.Cart) error {
		view = CartView{
			ID:          c.ID(),
			TotalAmount: c.TotalAmount(),
			TotalCount:  c.TotalCount(),
		}
		for _, l := range c.Lines() {
			view.Lines = append(view.Lines, CartLineView{
				MenuItemID: l.Item.ID(),
				Name:       l.Item.Name(),
				UnitPrice:  l.Item.Price(),
				Quantity:   l.Quantity,
				Subtotal:   l.Subtotal(),
			})
		}
		return nil
	})
	return view, err
}
