package commands

import (
	"errors"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/guard"
)

var ErrCheckoutCartCommandIsNotConstructed = errors.New(
	"CheckoutCartCommand must be created via NewCheckoutCartCommand constructor",
)

// CheckoutCartCommand turns a cart into an order. orderID doubles as the idempotency key:
// resubmitting the same checkout returns the order placed the first time.
type CheckoutCartCommand struct {
	cartID        kernel.UUID
	orderID       kernel.UUID
	customer      CustomerInput
	notes         string
	paymentMethod string

	guard guard.ConstructorGuard
}

func NewCheckoutCartCommand(
	cartID kernel.UUID,
	orderID kernel.UUID,
	customer CustomerInput,
	notes string,
	paymentMethod string,
) (CheckoutCartCommand, error) {
	var customerErr error
	if _, err := order.NewCustomer(customer.Name, customer.Email, customer.Phone, customer.Address); err != nil {
		customerErr = err
	}
	var paymentErr error
	if _, err := order.ParsePaymentMethod(paymentMethod); err != nil {
		paymentErr = err
	}
	if err := errors.Join(cartID.Validate(), orderID.Validate(), customerErr, paymentErr); err != nil {
		return CheckoutCartCommand{}, err
	}

	return CheckoutCartCommand{
		cartID:        cartID,
		orderID:       orderID,
		customer:      customer,
		notes:         notes,
		paymentMethod: paymentMethod,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c CheckoutCartCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCartCommandIsNotConstructed)
}

func (c CheckoutCartCommand) CartID() kernel.UUID { return c.cartID }

func (c CheckoutCartCommand) OrderID() kernel.UUID { return c.orderID }

func (c CheckoutCartCommand) Customer() CustomerInput { return c.customer }

func (c CheckoutCartCommand) Notes() string { return c.notes }

func (c CheckoutCartCommand) PaymentMethod() string { return c.paymentMethod }
