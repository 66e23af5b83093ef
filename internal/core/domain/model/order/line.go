package order

import (
	"errors"
	"fmt"
	"strings"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// Line is a snapshot of one cart line taken at checkout. It is never mutated afterwards,
// so later menu price changes do not affect placed orders.
type Line struct {
	id        kernel.UUID
	itemName  string
	quantity  int
	unitPrice kernel.Money
}

func NewLine(id kernel.UUID, itemName string, quantity int, unitPrice kernel.Money) (Line, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(itemName) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("itemName"))
	}
	if quantity < 1 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 1", quantity)))
	}
	if err := unitPrice.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return Line{}, err
	}
	return Line{id: id, itemName: itemName, quantity: quantity, unitPrice: unitPrice}, nil
}

func (l Line) ID() kernel.UUID {
	return l.id
}

func (l Line) ItemName() string {
	return l.itemName
}

func (l Line) Quantity() int {
	return l.quantity
}

func (l Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

func (l Line) Subtotal() kernel.Money {
	return l.unitPrice.Times(l.quantity)
}
