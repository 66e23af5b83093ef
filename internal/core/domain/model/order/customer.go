package order

import (
	"errors"
	"fmt"
	"strings"

	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer")

// Customer is the contact and delivery information captured at checkout.
type Customer struct {
	name    string
	email   string
	phone   string
	address string
	guard   guard.ConstructorGuard
}

func NewCustomer(name, email, phone, address string) (Customer, error) {
	name, email, phone, address = strings.TrimSpace(name), strings.TrimSpace(email),
		strings.TrimSpace(phone), strings.TrimSpace(address)

	var errList []error
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("customerName"))
	}
	switch {
	case email == "":
		errList = append(errList, errs.NewValueIsRequiredError("customerEmail"))
	case !strings.Contains(email, "@"):
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("customerEmail", fmt.Errorf("%q has no @", email)))
	}
	if phone == "" {
		errList = append(errList, errs.NewValueIsRequiredError("customerPhone"))
	}
	if address == "" {
		errList = append(errList, errs.NewValueIsRequiredError("deliveryAddress"))
	}
	if err := errors.Join(errList...); err != nil {
		return Customer{}, err
	}

	return Customer{
		name:    name,
		email:   email,
		phone:   phone,
		address: address,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c Customer) Name() string {
	return c.name
}

func (c Customer) Email() string {
	return c.email
}

func (c Customer) Phone() string {
	return c.phone
}

func (c Customer) Address() string {
	return c.address
}
