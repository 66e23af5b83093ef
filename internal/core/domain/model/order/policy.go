package order

import (
	"fmt"

	"foodorders/internal/pkg/errs"
)

// TransitionPolicy decides which status changes the operator may make.
type TransitionPolicy int

const (
	// Permissive accepts any valid target from any state, including backwards moves and
	// leaving a terminal state.
	Permissive TransitionPolicy = iota
	// Monotonic only moves forward along the canonical chain or to cancelled, and never
	// out of delivered or cancelled.
	Monotonic
)

// ParseTransitionPolicy reads ORDER_TRANSITION_POLICY. Empty means permissive.
func ParseTransitionPolicy(s string) (TransitionPolicy, error) {
	switch s {
	case "", "permissive":
		return Permissive, nil
	case "monotonic":
		return Monotonic, nil
	default:
		return Permissive, errs.NewValueIsInvalidErrorWithCause(
			"transitionPolicy", fmt.Errorf("%q is neither permissive nor monotonic", s))
	}
}

func (p TransitionPolicy) String() string {
	if p == Monotonic {
		return "monotonic"
	}
	return "permissive"
}

// CanAdvanceTo reports whether current -> target is allowed. An invalid target is a
// validation error; a valid target refused by the policy is ErrTransitionNotAllowed.
func (p TransitionPolicy) CanAdvanceTo(current, target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if p == Permissive {
		return nil
	}

	if current.IsTerminal() || current == target {
		return errs.NewTransitionNotAllowedError(current.String(), target.String())
	}
	if target == Cancelled || target.rank() > current.rank() {
		return nil
	}
	return errs.NewTransitionNotAllowedError(current.String(), target.String())
}
