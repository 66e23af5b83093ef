package views_test

import (
	"context"
	"sync"
	"testing"

	"foodorders/internal/core/application/views"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSessionView_InterleavedOrdersOnlyDeliverOwnUpdates(t *testing.T) {
	h := newHarness(t, 16)
	x := h.placeOrder(t, "Asha")
	y := h.placeOrder(t, "Ravi")

	rec := &statusRecorder{}
	view := views.NewOrderSessionView(h.feed, h.store, x.ID, rec.record, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	h.setStatus(t, x.ID, "confirmed")
	h.setStatus(t, y.ID, "confirmed")
	h.setStatus(t, y.ID, "preparing")
	h.setStatus(t, x.ID, "preparing")

	require.Eventually(t, func() bool { return len(rec.Statuses()) == 3 }, waitFor, tick)
	assert.Equal(t, []order.Status{order.Pending, order.Confirmed, order.Preparing}, rec.Statuses())

	current, ok := view.Current()
	require.True(t, ok)
	assert.Equal(t, order.Preparing, current.Status)
	assert.True(t, current.UpdatedAt.After(x.UpdatedAt))
}

func TestOrderSessionView_StartUnknownOrder(t *testing.T) {
	h := newHarness(t, 16)

	view := views.NewOrderSessionView(h.feed, h.store, kernel.NewUUID(), nil, h.logger)
	err := view.Start(context.Background())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, 0, h.feed.Subscribers())
	_, ok := view.Current()
	assert.False(t, ok)
}

func TestOrderSessionView_DropsStaleUpdates(t *testing.T) {
	h := newHarness(t, 16)
	x := h.placeOrder(t, "Asha")
	confirmed := h.setStatus(t, x.ID, "confirmed")

	rec := &statusRecorder{}
	view := views.NewOrderSessionView(h.feed, h.store, x.ID, rec.record, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	// A redelivered update from before the fetch.
	require.NoError(t, h.feed.Publish(context.Background(), order.UpdatedEvent{
		OrderID:   x.ID,
		Status:    order.Pending,
		UpdatedAt: x.UpdatedAt,
		Version:   x.Version,
	}))
	h.setStatus(t, x.ID, "ready")

	require.Eventually(t, func() bool {
		current, _ := view.Current()
		return current.Status == order.Ready
	}, waitFor, tick)
	assert.Equal(t, []order.Status{order.Confirmed, order.Ready}, rec.Statuses())
	assert.Greater(t, confirmed.Version, x.Version)
}

// staleReader returns what the store held before the test released it.
type staleReader struct {
	ports.OrderReader
	fetched chan struct{}
	release chan struct{}
}

func (r *staleReader) Get(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	snap, err := r.OrderReader.Get(ctx, id)
	close(r.fetched)
	<-r.release
	return snap, err
}

func TestOrderSessionView_EventsDuringFetchWin(t *testing.T) {
	h := newHarness(t, 16)
	x := h.placeOrder(t, "Asha")

	reader := &staleReader{OrderReader: h.store, fetched: make(chan struct{}), release: make(chan struct{})}
	view := views.NewOrderSessionView(h.feed, reader, x.ID, nil, h.logger)
	defer view.Close()

	started := make(chan error, 1)
	go func() { started <- view.Start(context.Background()) }()

	<-reader.fetched
	h.setStatus(t, x.ID, "confirmed")
	close(reader.release)
	require.NoError(t, <-started)

	require.Eventually(t, func() bool {
		current, _ := view.Current()
		return current.Status == order.Confirmed
	}, waitFor, tick)
}

func TestOrderSessionView_ResyncsAfterLag(t *testing.T) {
	h := newHarness(t, 1)
	x := h.placeOrder(t, "Asha")

	gate := make(chan struct{})
	var once sync.Once
	rec := &statusRecorder{}
	view := views.NewOrderSessionView(h.feed, h.store, x.ID, func(s order.Snapshot) {
		rec.record(s)
		if s.Status == order.Confirmed {
			<-gate
		}
	}, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	h.setStatus(t, x.ID, "confirmed")
	require.Eventually(t, func() bool { return len(rec.Statuses()) == 2 }, waitFor, tick)

	// The listener is stuck, so the one-slot mailbox overflows.
	h.setStatus(t, x.ID, "preparing")
	h.setStatus(t, x.ID, "ready")
	h.setStatus(t, x.ID, "out_for_delivery")
	once.Do(func() { close(gate) })

	require.Eventually(t, func() bool {
		current, _ := view.Current()
		statuses := rec.Statuses()
		return current.Status == order.OutForDelivery && statuses[len(statuses)-1] == order.OutForDelivery
	}, waitFor, tick)
	assert.Equal(t, 1, h.feed.Subscribers())
}

func TestOrderSessionView_CloseUnsubscribes(t *testing.T) {
	h := newHarness(t, 16)
	x := h.placeOrder(t, "Asha")

	view := views.NewOrderSessionView(h.feed, h.store, x.ID, nil, h.logger)
	require.NoError(t, view.Start(context.Background()))
	assert.Equal(t, 1, h.feed.Subscribers())

	view.Close()
	view.Close()

	require.Eventually(t, func() bool { return h.feed.Subscribers() == 0 }, waitFor, tick)
}
