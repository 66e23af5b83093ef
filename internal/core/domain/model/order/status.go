package order

import (
	"fmt"

	"foodorders/internal/pkg/errs"
)

// Status is the fulfilment state of an order.
//
//	pending -> confirmed -> preparing -> ready -> out_for_delivery -> delivered
//	    any of the above ---------------------------------------------> cancelled
//
// Which moves are accepted is decided by a TransitionPolicy, not by Status itself.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	Ready
	OutForDelivery
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "pending",
	Confirmed:      "confirmed",
	Preparing:      "preparing",
	Ready:          "ready",
	OutForDelivery: "out_for_delivery",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

// Statuses lists every valid status, canonical order first and cancelled last.
func Statuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus maps the persisted/wire name back to a Status. Matching is exact.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal is true for delivered and cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// rank is the position in the canonical chain; cancelled sits outside it.
func (s Status) rank() int {
	if s == Cancelled {
		return -1
	}
	return int(s)
}
