package order

import (
	"fmt"

	"foodorders/internal/pkg/errs"
)

// PaymentMethod is a label only; no settlement happens in this service.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cod"
	UPI            PaymentMethod = "upi"
	Card           PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	pm := PaymentMethod(s)
	if err := pm.Validate(); err != nil {
		return "", err
	}
	return pm, nil
}

func (pm PaymentMethod) Validate() error {
	switch pm {
	case CashOnDelivery, UPI, Card:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"paymentMethod", fmt.Errorf("%q is not one of cod, upi, card", string(pm)))
	}
}

func (pm PaymentMethod) String() string {
	return string(pm)
}
