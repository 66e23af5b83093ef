package commands

import (
	"context"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/domain/services"
)

// ChangeOrderStatusCommandHandler applies an operator status change under a row lock.
// On any failure the transaction is rolled back, the committed status stays as it was and
// nothing is published.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	machine    services.StatusMachine
}

func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	machine services.StatusMachine,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle returns the order as committed.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Snapshot{}, persistenceError("begin transaction", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return order.Snapshot{}, persistenceError("lock order", err)
	}

	if err = h.machine.Apply(o, cmd.Status()); err != nil {
		return order.Snapshot{}, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return order.Snapshot{}, persistenceError("update order status", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, persistenceError("commit order status", err)
	}

	return o.Snapshot(), nil
}
