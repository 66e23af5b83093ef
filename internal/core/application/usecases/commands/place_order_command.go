package commands

import (
	"errors"
	"fmt"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// CustomerInput is the contact data entered at checkout.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// LineInput is one checked-out cart line, priced at checkout time.
type LineInput struct {
	ItemName  string
	Quantity  int
	UnitPrice kernel.Money
}

// PlaceOrderCommand creates an order in pending status. The order id is chosen by the
// caller so that retrying the same command never creates a second order.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), CustomerInput{...}, "", lines, "cod")
//	if err != nil {
//	    return err
//	}
//	placed, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	customer      order.Customer
	notes         string
	lines         []order.Line
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

func NewPlaceOrderCommand(
	orderID kernel.UUID,
	customer CustomerInput,
	notes string,
	lines []LineInput,
	paymentMethod string,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customer),
		cmd.setLines(lines),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Customer() order.Customer {
	return c.customer
}

func (c PlaceOrderCommand) Notes() string {
	return c.notes
}

func (c PlaceOrderCommand) Lines() []order.Line {
	out := make([]order.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setCustomer(in CustomerInput) error {
	customer, err := order.NewCustomer(in.Name, in.Email, in.Phone, in.Address)
	if err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *PlaceOrderCommand) setLines(in []LineInput) error {
	if len(in) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("lines", errors.New("cart is empty"))
	}
	lines := make([]order.Line, 0, len(in))
	for i, l := range in {
		line, err := order.NewLine(kernel.NewUUID(), l.ItemName, l.Quantity, l.UnitPrice)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lines[%d]", i), err)
		}
		lines = append(lines, line)
	}
	c.lines = lines
	return nil
}

func (c *PlaceOrderCommand) setPaymentMethod(s string) error {
	pm, err := order.ParsePaymentMethod(s)
	if err != nil {
		return err
	}
	c.paymentMethod = pm
	return nil
}
