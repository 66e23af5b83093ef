package commands

import (
	"context"
	"errors"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

// maxNumberAttempts bounds the redraws after order number collisions.
const maxNumberAttempts = 5

// PlaceOrderCommandHandler persists a new order and its lines in one transaction. The
// OrderCreated event goes out when the unit of work commits, and the placement
// notifications are scheduled afterwards without waiting for them.
//
// Retrying a command whose order id is already stored returns the stored order unchanged
// and sends nothing.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.OrderNotifier
	now        func() time.Time
}

func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.OrderNotifier,
	now func() time.Time,
) PlaceOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		now:        now,
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (order.Snapshot, error) {
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

	existing, err := repo.Get(ctx, cmd.OrderID())
	switch {
	case err == nil:
		return existing.Snapshot(), nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return order.Snapshot{}, persistenceError("load order", err)
	}

	now := h.now()
	placed, err := order.NewOrder(
		cmd.OrderID(),
		order.NumberAt(now),
		cmd.Customer(),
		cmd.Notes(),
		cmd.Lines(),
		cmd.PaymentMethod(),
		now,
	)
	if err != nil {
		return order.Snapshot{}, err
	}

	err = repo.Add(ctx, placed)
	for attempt := 1; errors.Is(err, ports.ErrOrderNumberTaken) && attempt < maxNumberAttempts; attempt++ {
		if err = placed.RenumberTo(placed.Number().Next()); err != nil {
			return order.Snapshot{}, err
		}
		err = repo.Add(ctx, placed)
	}
	if errors.Is(err, ports.ErrOrderAlreadyExists) {
		// A concurrent retry of the same command won the insert.
		return h.loadStored(ctx, repo, cmd.OrderID())
	}
	if err != nil {
		return order.Snapshot{}, persistenceError("create order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		if errors.Is(err, ports.ErrOrderAlreadyExists) {
			// The transaction is gone; read through a fresh unit outside it.
			return h.loadStored(ctx, h.uowFactory.Create().OrderRepository(), cmd.OrderID())
		}
		return order.Snapshot{}, persistenceError("commit order", err)
	}

	snapshot := placed.Snapshot()
	if h.notifier != nil {
		h.notifier.NotifyPlaced(snapshot)
	}
	return snapshot, nil
}

func (h PlaceOrderCommandHandler) loadStored(ctx context.Context, repo ports.OrderRepository, id kernel.UUID) (order.Snapshot, error) {
	stored, err := repo.Get(ctx, id)
	if err != nil {
		return order.Snapshot{}, persistenceError("load order", err)
	}
	return stored.Snapshot(), nil
}
