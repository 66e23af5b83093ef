// Package postgres implements the order store on PostgreSQL through GORM.
//
// A GormUnitOfWork wraps one database transaction. Repositories obtained from it run in
// that transaction and register every aggregate they save. After a successful Commit the
// unit of work hands the aggregates' domain events to the change feed; a rolled back unit
// publishes nothing.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction, which the deferred
// call ignores.
//
// GetForUpdate also takes an in-process lock on the order id, held until the commit's
// events are published. Writers of one order in this process therefore publish in the
// order their transactions committed.
package postgres

import (
	"context"
	"log/slog"
	"sync"

	"foodorders/internal/adapters/out/postgres/orderrepo"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"

	"gorm.io/gorm"
)

// eventSource is an aggregate that records domain events.
type eventSource interface {
	DomainEvents() []order.Event
	ClearDomainEvents()
}

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate eventSource
}

// publishLocks hands out one mutex per order id. Entries are dropped when unused.
type publishLocks struct {
	mu    sync.Mutex
	locks map[kernel.UUID]*publishLock
}

type publishLock struct {
	sync.Mutex
	refs int
}

func (l *publishLocks) acquire(id kernel.UUID) {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &publishLock{}
		l.locks[id] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
}

func (l *publishLocks) release(id kernel.UUID) {
	l.mu.Lock()
	lock := l.locks[id]
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()

	lock.Unlock()
}

// GormUnitOfWorkFactory creates one UnitOfWork per business operation.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	locks     *publishLocks
	logger    *slog.Logger
}

func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		locks:     &publishLocks{locks: make(map[kernel.UUID]*publishLock)},
		logger:    logger.With("component", "postgres_uow"),
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		locks:             f.locks,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork is not safe for concurrent use; each goroutine creates its own.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	locks             *publishLocks
	held              []kernel.UUID
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin is a no-op when a transaction is already open.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}
	return nil
}

// Commit ends the transaction and then publishes the tracked aggregates' events. A failed
// publish is logged; the committed state stands and readers converge on their next fetch.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	defer uow.releaseLocks()
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)
	if err != nil {
		return err
	}

	for _, t := range tracked {
		events := t.Aggregate.DomainEvents()
		t.Aggregate.ClearDomainEvents()
		if uow.publisher == nil || len(events) == 0 {
			continue
		}
		if pubErr := uow.publisher.Publish(ctx, events...); pubErr != nil {
			uow.logger.Warn("publish after commit failed", "orderId", t.ID.String(), "error", pubErr)
		}
	}
	return nil
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	defer uow.releaseLocks()
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = make([]trackedAggregate, 0)
	return err
}

// OrderRepository runs in the open transaction, or on the plain connection before Begin.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers an aggregate saved in this unit. Saving the same aggregate
// twice keeps one entry.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate *order.Order) {
	for _, t := range uow.trackedAggregates {
		if t.ID.IsEqual(id) {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// LockForPublish takes the order's publish lock for the rest of this unit. Taking it twice
// is a no-op.
func (uow *GormUnitOfWork) LockForPublish(id kernel.UUID) {
	for _, h := range uow.held {
		if h.IsEqual(id) {
			return
		}
	}
	uow.locks.acquire(id)
	uow.held = append(uow.held, id)
}

func (uow *GormUnitOfWork) releaseLocks() {
	for i := len(uow.held) - 1; i >= 0; i-- {
		uow.locks.release(uow.held[i])
	}
	uow.held = nil
}
