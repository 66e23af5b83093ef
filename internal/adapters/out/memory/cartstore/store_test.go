package cartstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"foodorders/internal/adapters/out/memory/cartstore"
	"foodorders/internal/core/domain/model/cart"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/menu"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewStore(nil)
	item, err := menu.DefaultCatalog().Find(1)
	require.NoError(t, err)

	id, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, id, func(c *cart.Cart) error {
		return c.AddItem(item)
	}))

	var count int
	require.NoError(t, store.View(ctx, id, func(c *cart.Cart) error {
		count = c.TotalCount()
		return nil
	}))
	assert.Equal(t, 1, count)

	require.NoError(t, store.Delete(ctx, id))
	err = store.View(ctx, id, func(*cart.Cart) error { return nil })
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	require.ErrorIs(t, store.Delete(ctx, id), errs.ErrObjectNotFound)
}

func TestStore_UpdateReturnsCallbackError(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewStore(nil)
	id, err := store.Create(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	require.ErrorIs(t, store.Update(ctx, id, func(*cart.Cart) error { return boom }), boom)
}

func TestStore_UnknownCart(t *testing.T) {
	store := cartstore.NewStore(nil)
	err := store.Update(context.Background(), kernel.NewUUID(), func(*cart.Cart) error { return nil })
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestStore_ConcurrentUpdatesAreSerialised(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewStore(nil)
	item, err := menu.DefaultCatalog().Find(2)
	require.NoError(t, err)
	id, err := store.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, id, func(c *cart.Cart) error { return c.AddItem(item) })
		}()
	}
	wg.Wait()

	require.NoError(t, store.View(ctx, id, func(c *cart.Cart) error {
		assert.Equal(t, 50, c.TotalCount())
		return nil
	}))
}

func TestStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	store := cartstore.NewStore(clk.Now)

	idle, err := store.Create(ctx)
	require.NoError(t, err)
	clk.Advance(20 * time.Minute)
	active, err := store.Create(ctx)
	require.NoError(t, err)

	clk.Advance(15 * time.Minute)
	assert.Equal(t, 1, store.Sweep(30*time.Minute))
	assert.Equal(t, 1, store.Len())

	require.ErrorIs(t, store.View(ctx, idle, func(*cart.Cart) error { return nil }), errs.ErrObjectNotFound)
	require.NoError(t, store.View(ctx, active, func(*cart.Cart) error { return nil }))
}
