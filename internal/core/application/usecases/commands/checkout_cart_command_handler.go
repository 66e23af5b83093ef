package commands

import (
	"context"
	"errors"

	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

type orderPlacer interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (order.Snapshot, error)
}

// CheckoutCartCommandHandler places an order from the cart's current lines and clears
// the cart exactly once, only after the order is committed. A failed placement leaves the
// cart as it was so the customer can retry.
type CheckoutCartCommandHandler struct {
	carts  ports.CartStore
	orders ports.OrderReader
	placer orderPlacer
}

func NewCheckoutCartCommandHandler(
	carts ports.CartStore,
	orders ports.OrderReader,
	placer orderPlacer,
) CheckoutCartCommandHandler {
	return CheckoutCartCommandHandler{carts: carts, orders: orders, placer: placer}
}

func (h CheckoutCartCommandHandler) Handle(ctx context.Context, cmd CheckoutCartCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	existing, err := h.orders.Get(ctx, cmd.OrderID())
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return order.Snapshot{}, persistenceError("load order", err)
	}

	var placed order.Snapshot
	err = h.carts.Update(ctx, cmd.CartID(), func(c *cart.Cart) error {
		if c.IsEmpty() {
			return errs.NewValueIsRequiredErrorWithCause("cart", errors.New("cart is empty"))
		}

		cartLines := c.Lines()
		lines := make([]LineInput, 0, len(cartLines))
		for _, l := range cartLines {
			lines = append(lines, LineInput{
				ItemName:  l.Item.Name(),
				Quantity:  l.Quantity,
				UnitPrice: l.Item.Price(),
			})
		}

		placeCmd, err := NewPlaceOrderCommand(cmd.OrderID(), cmd.Customer(), cmd.Notes(), lines, cmd.PaymentMethod())
		if err != nil {
			return err
		}

		placed, err = h.placer.Handle(ctx, placeCmd)
		if err != nil {
			return err
		}

		c.Clear()
		return nil
	})
	if err != nil {
		return order.Snapshot{}, err
	}
	return placed, nil
}
