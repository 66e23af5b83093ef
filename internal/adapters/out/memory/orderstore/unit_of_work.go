package orderstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

var ErrNoTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store     *Store
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewUnitOfWorkFactory(store *Store, publisher ports.EventPublisher, logger *slog.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		store:     store,
		publisher: publisher,
		logger:    logger.With("component", "memory_uow"),
	}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{
		store:     f.store,
		publisher: f.publisher,
		logger:    f.logger,
	}
}

// UnitOfWork stages writes and applies them to the store on Commit. Row locks taken by
// GetForUpdate are held until the commit's events are published, so events of one order
// reach the feed in commit order.
type UnitOfWork struct {
	store     *Store
	publisher ports.EventPublisher
	logger    *slog.Logger

	active  bool
	inserts []order.Snapshot
	updates []order.Snapshot
	tracked []*order.Order
	held    []*sync.Mutex
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	defer u.reset()
	if err := u.store.apply(u.inserts, u.updates); err != nil {
		return err
	}

	for _, agg := range u.tracked {
		events := agg.DomainEvents()
		agg.ClearDomainEvents()
		if u.publisher == nil || len(events) == 0 {
			continue
		}
		if pubErr := u.publisher.Publish(ctx, events...); pubErr != nil {
			u.logger.Warn("publish after commit failed", "orderId", agg.ID().String(), "error", pubErr)
		}
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrNoTransaction
	}
	u.reset()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &repository{uow: u}
}

func (u *UnitOfWork) reset() {
	for i := len(u.held) - 1; i >= 0; i-- {
		u.held[i].Unlock()
	}
	u.active = false
	u.inserts, u.updates, u.tracked, u.held = nil, nil, nil, nil
}

func (u *UnitOfWork) track(agg *order.Order) {
	for _, t := range u.tracked {
		if t == agg {
			return
		}
	}
	u.tracked = append(u.tracked, agg)
}

type repository struct {
	uow *UnitOfWork
}

func (r *repository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.uow.store.lookup(aggregate.ID()); ok {
		return ports.ErrOrderAlreadyExists
	}
	if _, ok := r.uow.store.numberOwner(aggregate.Number()); ok {
		return ports.ErrOrderNumberTaken
	}
	for _, staged := range r.uow.inserts {
		if staged.ID.IsEqual(aggregate.ID()) {
			return ports.ErrOrderAlreadyExists
		}
		if staged.Number == aggregate.Number() {
			return ports.ErrOrderNumberTaken
		}
	}
	r.uow.inserts = append(r.uow.inserts, aggregate.Snapshot())
	r.uow.track(aggregate)
	return nil
}

func (r *repository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.uow.store.lookup(aggregate.ID()); !ok {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID().String())
	}
	r.uow.updates = append(r.uow.updates, aggregate.Snapshot())
	r.uow.track(aggregate)
	return nil
}

func (r *repository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	snap, ok := r.uow.store.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id.String())
	}
	return restore(snap)
}

// GetForUpdate holds the order's row lock until Commit or Rollback.
func (r *repository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if !r.uow.active {
		return nil, ErrNoTransaction
	}
	lock := r.uow.store.rowLock(id)
	lock.Lock()
	r.uow.held = append(r.uow.held, lock)
	return r.Get(ctx, id)
}
