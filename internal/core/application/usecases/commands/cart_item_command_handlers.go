package commands

import (
	"context"

	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/ports"
)

// CartItemCommandHandler edits cart lines. Items are resolved against the menu so a cart
// only ever holds catalog entries.
type CartItemCommandHandler struct {
	carts ports.CartStore
	menu  ports.MenuCatalog
}

func NewCartItemCommandHandler(carts ports.CartStore, menu ports.MenuCatalog) CartItemCommandHandler {
	return CartItemCommandHandler{carts: carts, menu: menu}
}

func (h CartItemCommandHandler) HandleAdd(ctx context.Context, cmd AddCartItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	item, err := h.menu.Find(cmd.MenuItemID())
	if err != nil {
		return err
	}
	return h.carts.Update(ctx, cmd.CartID(), func(c *cart.Cart) error {
		return c.AddItem(item)
	})
}

func (h CartItemCommandHandler) HandleSetQuantity(ctx context.Context, cmd SetCartItemQuantityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.carts.Update(ctx, cmd.CartID(), func(c *cart.Cart) error {
		c.SetQuantity(cmd.MenuItemID(), cmd.Quantity())
		return nil
	})
}

func (h CartItemCommandHandler) HandleRemove(ctx context.Context, cmd RemoveCartItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.carts.Update(ctx, cmd.CartID(), func(c *cart.Cart) error {
		c.RemoveItem(cmd.MenuItemID())
		return nil
	})
}
