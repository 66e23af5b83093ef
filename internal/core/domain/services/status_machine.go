package services

import (
	"time"

	"foodorders/internal/core/domain/model/order"
)

// StatusMachine is the single authority for operator status changes. It owns the
// transition policy and the clock so every write path stamps updatedAt the same way.
//
// Example usage:
//
//	sm := services.NewStatusMachine(order.Monotonic, time.Now)
//	if err := sm.Apply(o, order.Confirmed); err != nil {
//	    // errs.ErrTransitionNotAllowed or a validation error
//	}
type StatusMachine struct {
	policy order.TransitionPolicy
	now    func() time.Time
}

func NewStatusMachine(policy order.TransitionPolicy, now func() time.Time) StatusMachine {
	if now == nil {
		now = time.Now
	}
	return StatusMachine{policy: policy, now: now}
}

func (sm StatusMachine) Policy() order.TransitionPolicy {
	return sm.policy
}

// CanAdvanceTo reports whether the policy accepts current -> target.
func (sm StatusMachine) CanAdvanceTo(current, target order.Status) error {
	return sm.policy.CanAdvanceTo(current, target)
}

// Apply writes target onto o, refreshing updatedAt and version and recording an
// UpdatedEvent. The caller persists o and publishes the event after commit.
func (sm StatusMachine) Apply(o *order.Order, target order.Status) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.ChangeStatus(target, sm.policy, sm.now())
}
