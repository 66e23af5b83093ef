package views_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"foodorders/internal/adapters/out/changefeed"
	"foodorders/internal/adapters/out/memory/orderstore"
	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type harness struct {
	logger *slog.Logger
	store  *orderstore.Store
	feed   *changefeed.Broker
	place  commands.PlaceOrderCommandHandler
	change commands.ChangeOrderStatusCommandHandler
}

func newHarness(t *testing.T, mailboxSize int) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := orderstore.NewStore()
	feed := changefeed.NewBroker(mailboxSize, logger)
	t.Cleanup(feed.Close)

	stored := orderstore.NewUnitOfWorkFactory(store, feed, logger)
	uows := uowFactory(func() commands.OrderUoW { return stored.Create() })

	var mu sync.Mutex
	clock := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}

	return &harness{
		logger: logger,
		store:  store,
		feed:   feed,
		place:  commands.NewPlaceOrderCommandHandler(uows, nil, now),
		change: commands.NewChangeOrderStatusCommandHandler(uows, services.NewStatusMachine(order.Permissive, now)),
	}
}

func (h *harness) placeOrder(t *testing.T, customer string) order.Snapshot {
	t.Helper()
	price, err := kernel.MoneyFromInt(349)
	require.NoError(t, err)
	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		commands.CustomerInput{
			Name:    customer,
			Email:   "guest@example.com",
			Phone:   "+919876543210",
			Address: "12 MG Road, Bengaluru",
		},
		"",
		[]commands.LineInput{{ItemName: "Hyderabadi Biryani", Quantity: 3, UnitPrice: price}},
		"cod",
	)
	require.NoError(t, err)
	placed, err := h.place.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return placed
}

func (h *harness) setStatus(t *testing.T, id kernel.UUID, status string) order.Snapshot {
	t.Helper()
	cmd, err := commands.NewChangeOrderStatusCommand(id, status)
	require.NoError(t, err)
	updated, err := h.change.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return updated
}

type uowFactory func() commands.OrderUoW

func (f uowFactory) Create() commands.OrderUoW { return f() }

type statusRecorder struct {
	mu       sync.Mutex
	statuses []order.Status
}

func (r *statusRecorder) record(s order.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s.Status)
}

func (r *statusRecorder) Statuses() []order.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]order.Status, len(r.statuses))
	copy(out, r.statuses)
	return out
}
