package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/pkg/guard"
)

var ErrSweepIdleCartsCommandIsNotConstructed = errors.New(
	"SweepIdleCartsCommand must be created via NewSweepIdleCartsCommand constructor",
)

// SweepIdleCartsCommand drops cart sessions nobody touched for longer than IdleTTL.
type SweepIdleCartsCommand struct {
	idleTTL time.Duration

	guard guard.ConstructorGuard
}

func NewSweepIdleCartsCommand(idleTTL time.Duration) (SweepIdleCartsCommand, error) {
	if idleTTL <= 0 {
		return SweepIdleCartsCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"idleTTL", fmt.Errorf("%s is not positive", idleTTL))
	}
	return SweepIdleCartsCommand{idleTTL: idleTTL, guard: guard.NewConstructorGuard()}, nil
}

func (c SweepIdleCartsCommand) Validate() error {
	return c.guard.Validate(ErrSweepIdleCartsCommandIsNotConstructed)
}

func (c SweepIdleCartsCommand) IdleTTL() time.Duration { return c.idleTTL }

type SweepIdleCartsCommandHandler struct {
	sweeper ports.CartSweeper
}

func NewSweepIdleCartsCommandHandler(sweeper ports.CartSweeper) SweepIdleCartsCommandHandler {
	return SweepIdleCartsCommandHandler{sweeper: sweeper}
}

// Handle returns the number of carts removed.
func (h SweepIdleCartsCommandHandler) Handle(_ context.Context, cmd SweepIdleCartsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.sweeper.Sweep(cmd.IdleTTL()), nil
}
