package commands

import (
	"errors"
	"fmt"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var (
	ErrAddCartItemCommandIsNotConstructed = errors.New(
		"AddCartItemCommand must be created via NewAddCartItemCommand constructor",
	)
	ErrSetCartItemQuantityCommandIsNotConstructed = errors.New(
		"SetCartItemQuantityCommand must be created via NewSetCartItemQuantityCommand constructor",
	)
	ErrRemoveCartItemCommandIsNotConstructed = errors.New(
		"RemoveCartItemCommand must be created via NewRemoveCartItemCommand constructor",
	)
)

// AddCartItemCommand adds one unit of a menu item to a cart.
type AddCartItemCommand struct {
	cartID     kernel.UUID
	menuItemID int

	guard guard.ConstructorGuard
}

func NewAddCartItemCommand(cartID kernel.UUID, menuItemID int) (AddCartItemCommand, error) {
	if err := errors.Join(cartID.Validate(), validateMenuItemID(menuItemID)); err != nil {
		return AddCartItemCommand{}, err
	}
	return AddCartItemCommand{cartID: cartID, menuItemID: menuItemID, guard: guard.NewConstructorGuard()}, nil
}

func (c AddCartItemCommand) Validate() error {
	return c.guard.Validate(ErrAddCartItemCommandIsNotConstructed)
}

func (c AddCartItemCommand) CartID() kernel.UUID { return c.cartID }

func (c AddCartItemCommand) MenuItemID() int { return c.menuItemID }

// SetCartItemQuantityCommand overwrites a line's quantity. A quantity of zero or less
// removes the line.
type SetCartItemQuantityCommand struct {
	cartID     kernel.UUID
	menuItemID int
	quantity   int

	guard guard.ConstructorGuard
}

func NewSetCartItemQuantityCommand(cartID kernel.UUID, menuItemID, quantity int) (SetCartItemQuantityCommand, error) {
	if err := errors.Join(cartID.Validate(), validateMenuItemID(menuItemID)); err != nil {
		return SetCartItemQuantityCommand{}, err
	}
	return SetCartItemQuantityCommand{
		cartID:     cartID,
		menuItemID: menuItemID,
		quantity:   quantity,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SetCartItemQuantityCommand) Validate() error {
	return c.guard.Validate(ErrSetCartItemQuantityCommandIsNotConstructed)
}

func (c SetCartItemQuantityCommand) CartID() kernel.UUID { return c.cartID }

func (c SetCartItemQuantityCommand) MenuItemID() int { return c.menuItemID }

func (c SetCartItemQuantityCommand) Quantity() int { return c.quantity }

type RemoveCartItemCommand struct {
	cartID     kernel.UUID
	menuItemID int

	guard guard.ConstructorGuard
}

func NewRemoveCartItemCommand(cartID kernel.UUID, menuItemID int) (RemoveCartItemCommand, error) {
	if err := errors.Join(cartID.Validate(), validateMenuItemID(menuItemID)); err != nil {
		return RemoveCartItemCommand{}, err
	}
	return RemoveCartItemCommand{cartID: cartID, menuItemID: menuItemID, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveCartItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCartItemCommandIsNotConstructed)
}

func (c RemoveCartItemCommand) CartID() kernel.UUID { return c.cartID }

func (c RemoveCartItemCommand) MenuItemID() int { return c.menuItemID }

func validateMenuItemID(id int) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("menuItemId", fmt.Errorf("%d is not positive", id))
	}
	return nil
}
