// Package orderstore is an in-process order store. It backs local runs without Postgres
// and the end-to-end tests, and follows the same contract as the gorm repository:
// atomic create, row locks for status writes, and events published after commit.
package orderstore

import (
	"context"
	"sort"
	"sync"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

// Store holds committed orders as snapshots.
type Store struct {
	mu       sync.RWMutex
	orders   map[kernel.UUID]order.Snapshot
	byNumber map[order.Number]kernel.UUID

	locksMu sync.Mutex
	locks   map[kernel.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		orders:   make(map[kernel.UUID]order.Snapshot),
		byNumber: make(map[order.Number]kernel.UUID),
		locks:    make(map[kernel.UUID]*sync.Mutex),
	}
}

func (s *Store) Get(_ context.Context, id kernel.UUID) (order.Snapshot, error) {
	if err := id.Validate(); err != nil {
		return order.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.orders[id]
	if !ok {
		return order.Snapshot{}, errs.NewObjectNotFoundError("orderId", id.String())
	}
	return snap.Clone(), nil
}

func (s *Store) FindByNumber(_ context.Context, number string) (*order.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[order.Number(number)]
	if !ok {
		return nil, nil
	}
	snap := s.orders[id].Clone()
	return &snap, nil
}

func (s *Store) ListAll(_ context.Context) ([]order.Snapshot, error) {
	s.mu.RLock()
	out := make([]order.Snapshot, 0, len(s.orders))
	for _, snap := range s.orders {
		out = append(out, snap.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Number > out[j].Number
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) rowLock(id kernel.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) lookup(id kernel.UUID) (order.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.orders[id]
	return snap, ok
}

func (s *Store) numberOwner(n order.Number) (kernel.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[n]
	return id, ok
}

// apply commits staged writes. Inserts are re-checked so two transactions cannot both
// claim one id or number; losing the id race reports ports.ErrOrderAlreadyExists, as the
// unique constraint does in Postgres.
func (s *Store) apply(inserts, updates []order.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range inserts {
		if _, ok := s.orders[snap.ID]; ok {
			return ports.ErrOrderAlreadyExists
		}
		if _, ok := s.byNumber[snap.Number]; ok {
			return errs.NewPersistenceFailedError("create order", ports.ErrOrderNumberTaken)
		}
	}
	for _, snap := range updates {
		if _, ok := s.orders[snap.ID]; !ok {
			return errs.NewObjectNotFoundError("orderId", snap.ID.String())
		}
	}

	for _, snap := range inserts {
		s.orders[snap.ID] = snap.Clone()
		s.byNumber[snap.Number] = snap.ID
	}
	for _, snap := range updates {
		stored := s.orders[snap.ID]
		stored.Status = snap.Status
		stored.UpdatedAt = snap.UpdatedAt
		stored.Version = snap.Version
		s.orders[snap.ID] = stored
	}
	return nil
}

// restore rebuilds an aggregate from a committed snapshot.
func restore(snap order.Snapshot) (*order.Order, error) {
	customer, err := order.NewCustomer(snap.CustomerName, snap.CustomerEmail, snap.CustomerPhone, snap.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	lines := make([]order.Line, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		line, lineErr := order.NewLine(l.ID, l.ItemName, l.Quantity, l.UnitPrice)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}
	return order.RestoreOrder(order.RestoreParams{
		ID:            snap.ID,
		Number:        snap.Number,
		Customer:      customer,
		Notes:         snap.Notes,
		Lines:         lines,
		Total:         snap.Total,
		PaymentMethod: snap.PaymentMethod,
		Status:        snap.Status,
		CreatedAt:     snap.CreatedAt,
		UpdatedAt:     snap.UpdatedAt,
		Version:       snap.Version,
	})
}
