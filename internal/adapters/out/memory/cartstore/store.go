// Package cartstore keeps the carts of live customer sessions in memory. A cart lives until
// it is deleted, or until it sits idle longer than the sweep TTL.
package cartstore

import (
	"context"
	"sync"
	"time"

	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

type entry struct {
	mu         sync.Mutex
	cart       *cart.Cart
	lastAccess time.Time
	deleted    bool
}

// Store is safe for concurrent use. Calls on one cart are serialised; calls on different
// carts only share the short map lookup.
type Store struct {
	mu    sync.RWMutex
	carts map[kernel.UUID]*entry
	now   func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		carts: make(map[kernel.UUID]*entry),
		now:   now,
	}
}

func (s *Store) Create(_ context.Context) (kernel.UUID, error) {
	id := kernel.NewUUID()
	c, err := cart.NewCart(id)
	if err != nil {
		return kernel.UUID{}, err
	}

	s.mu.Lock()
	s.carts[id] = &entry{cart: c, lastAccess: s.now()}
	s.mu.Unlock()
	return id, nil
}

func (s *Store) Update(ctx context.Context, id kernel.UUID, fn func(*cart.Cart) error) error {
	return s.with(ctx, id, fn)
}

func (s *Store) View(ctx context.Context, id kernel.UUID, fn func(*cart.Cart) error) error {
	return s.with(ctx, id, fn)
}

func (s *Store) Delete(_ context.Context, id kernel.UUID) error {
	s.mu.Lock()
	e, ok := s.carts[id]
	delete(s.carts, id)
	s.mu.Unlock()
	if !ok {
		return errs.NewObjectNotFoundError("cartId", id.String())
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
	return nil
}

// Sweep drops carts idle for longer than ttl and returns how many were removed.
// A cart whose lock is held is in use and is skipped.
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.carts {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastAccess.Before(cutoff) {
			e.deleted = true
			delete(s.carts, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

func (s *Store) with(ctx context.Context, id kernel.UUID, fn func(*cart.Cart) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := id.Validate(); err != nil {
		return err
	}

	s.mu.RLock()
	e, ok := s.carts[id]
	s.mu.RUnlock()
	if !ok {
		return errs.NewObjectNotFoundError("cartId", id.String())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return errs.NewObjectNotFoundError("cartId", id.String())
	}
	e.lastAccess = s.now()
	return fn(e.cart)
}
