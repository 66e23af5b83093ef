package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the order lifecycle. Lines, customer data and the total
// are fixed at creation; only status, updatedAt and version change afterwards.
//
// Invariants:
//   - at least one line
//   - total equals the sum of line subtotals
//   - updatedAt strictly increases with every status write
//   - version increases by one with every status write
type Order struct {
	id            kernel.UUID
	number        Number
	customer      Customer
	notes         string
	lines         []Line
	total         kernel.Money
	paymentMethod PaymentMethod
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
	version       int64

	events        []Event
	isConstructed bool
}

// NewOrder creates a pending order and records a CreatedEvent.
func NewOrder(
	id kernel.UUID,
	number Number,
	customer Customer,
	notes string,
	lines []Line,
	paymentMethod PaymentMethod,
	now time.Time,
) (*Order, error) {
	o := &Order{
		notes:         strings.TrimSpace(notes),
		status:        Pending,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomer(customer),
		o.setLines(lines),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	o.createdAt = normalize(now)
	o.updatedAt = o.createdAt
	o.events = append(o.events, CreatedEvent{Order: o.Snapshot()})
	return o, nil
}

// RestoreParams is the persisted shape of an order.
type RestoreParams struct {
	ID            kernel.UUID
	Number        Number
	Customer      Customer
	Notes         string
	Lines         []Line
	Total         kernel.Money
	PaymentMethod PaymentMethod
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// RestoreOrder rebuilds an order loaded from storage. It records no events.
func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		notes:         p.Notes,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
		version:       p.Version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setCustomer(p.Customer),
		o.setLines(p.Lines),
		o.setPaymentMethod(p.PaymentMethod),
		p.Status.Validate(),
		p.Total.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = p.Status
	// The stored total is authoritative for restored rows.
	o.total = p.Total
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) Customer() Customer {
	return o.customer
}

func (o *Order) Notes() string {
	return o.notes
}

// Lines returns a copy.
func (o *Order) Lines() []Line {
	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int64 {
	return o.version
}

// ChangeStatus moves the order to target if policy allows it. updatedAt becomes
// max(now, previous+1µs) and an UpdatedEvent is recorded.
func (o *Order) ChangeStatus(target Status, policy TransitionPolicy, now time.Time) error {
	if err := policy.CanAdvanceTo(o.status, target); err != nil {
		return err
	}

	updatedAt := normalize(now)
	if !updatedAt.After(o.updatedAt) {
		updatedAt = o.updatedAt.Add(time.Microsecond)
	}

	o.status = target
	o.updatedAt = updatedAt
	o.version++
	o.events = append(o.events, UpdatedEvent{
		OrderID:       o.id,
		ChangedFields: []string{"status", "updated_at"},
		Status:        o.status,
		UpdatedAt:     o.updatedAt,
		Version:       o.version,
	})
	return nil
}

// RenumberTo replaces the order number before the first successful insert.
func (o *Order) RenumberTo(n Number) error {
	if err := o.setNumber(n); err != nil {
		return err
	}
	for i, ev := range o.events {
		if created, ok := ev.(CreatedEvent); ok {
			created.Order.Number = n
			o.events[i] = created
		}
	}
	return nil
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) Snapshot() Snapshot {
	lines := make([]LineSnapshot, 0, len(o.lines))
	for _, l := range o.lines {
		lines = append(lines, LineSnapshot{
			ID:        l.id,
			ItemName:  l.itemName,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
		})
	}
	return Snapshot{
		ID:              o.id,
		Number:          o.number,
		CustomerName:    o.customer.Name(),
		CustomerEmail:   o.customer.Email(),
		CustomerPhone:   o.customer.Phone(),
		DeliveryAddress: o.customer.Address(),
		Notes:           o.notes,
		Total:           o.total,
		PaymentMethod:   o.paymentMethod,
		Status:          o.status,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
		Version:         o.version,
		Lines:           lines,
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(n Number) error {
	if _, err := ParseNumber(n.String()); err != nil {
		return err
	}
	o.number = n
	return nil
}

func (o *Order) setCustomer(c Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.customer = c
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("lines", errors.New("an order needs at least one line"))
	}
	total := kernel.ZeroMoney()
	for i, l := range lines {
		if err := l.id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("lines[%d]", i), err)
		}
		total = total.Add(l.Subtotal())
	}
	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	o.total = total
	return nil
}

func (o *Order) setPaymentMethod(pm PaymentMethod) error {
	if err := pm.Validate(); err != nil {
		return err
	}
	o.paymentMethod = pm
	return nil
}

// normalize keeps timestamps at the microsecond precision Postgres stores.
func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
