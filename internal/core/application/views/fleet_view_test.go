package views_test

import (
	"context"
	"sync"
	"testing"

	"foodorders/internal/core/application/views"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fleetRecorder struct {
	mu      sync.Mutex
	changes []views.FleetChange
}

func (r *fleetRecorder) record(c views.FleetChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *fleetRecorder) Changes() []views.FleetChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]views.FleetChange, len(r.changes))
	copy(out, r.changes)
	return out
}

func (r *fleetRecorder) Kinds() []views.FleetChangeKind {
	changes := r.Changes()
	out := make([]views.FleetChangeKind, 0, len(changes))
	for _, c := range changes {
		out = append(out, c.Kind)
	}
	return out
}

func ids(list []order.Snapshot) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(list))
	for _, s := range list {
		out = append(out, s.ID)
	}
	return out
}

func TestFleetView_StartListsNewestFirst(t *testing.T) {
	h := newHarness(t, 16)
	first := h.placeOrder(t, "Asha")
	second := h.placeOrder(t, "Ravi")

	rec := &fleetRecorder{}
	view := views.NewFleetView(h.feed, h.store, rec.record, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	assert.Equal(t, []kernel.UUID{second.ID, first.ID}, ids(view.Orders()))

	changes := rec.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, views.FleetReset, changes[0].Kind)
	assert.Equal(t, []kernel.UUID{second.ID, first.ID}, ids(changes[0].Orders))
}

func TestFleetView_CreatedOrderGoesOnTop(t *testing.T) {
	h := newHarness(t, 16)
	existing := h.placeOrder(t, "Asha")

	rec := &fleetRecorder{}
	view := views.NewFleetView(h.feed, h.store, rec.record, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	placed := h.placeOrder(t, "Ravi")

	require.Eventually(t, func() bool { return len(view.Orders()) == 2 }, waitFor, tick)
	assert.Equal(t, []kernel.UUID{placed.ID, existing.ID}, ids(view.Orders()))

	require.Eventually(t, func() bool { return len(rec.Changes()) == 2 }, waitFor, tick)
	created := rec.Changes()[1]
	assert.Equal(t, views.FleetCreated, created.Kind)
	assert.True(t, created.Order.ID.IsEqual(placed.ID))
	assert.Equal(t, order.Pending, created.Order.Status)
}

func TestFleetView_UpdateMergesIntoListAndSelection(t *testing.T) {
	h := newHarness(t, 16)
	x := h.placeOrder(t, "Asha")
	y := h.placeOrder(t, "Ravi")

	rec := &fleetRecorder{}
	view := views.NewFleetView(h.feed, h.store, rec.record, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	_, ok := view.Selected()
	assert.False(t, ok)

	selected, err := view.Select(context.Background(), x.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Pending, selected.Status)

	h.setStatus(t, x.ID, "confirmed")
	h.setStatus(t, y.ID, "cancelled")

	require.Eventually(t, func() bool {
		s, ok := view.Selected()
		return ok && s.Status == order.Confirmed
	}, waitFor, tick)
	require.Eventually(t, func() bool {
		return len(rec.Changes()) == 3
	}, waitFor, tick)

	statuses := map[string]order.Status{}
	for _, s := range view.Orders() {
		statuses[s.ID.String()] = s.Status
	}
	assert.Equal(t, order.Confirmed, statuses[x.ID.String()])
	assert.Equal(t, order.Cancelled, statuses[y.ID.String()])
	assert.Equal(t,
		[]views.FleetChangeKind{views.FleetReset, views.FleetUpdated, views.FleetUpdated},
		rec.Kinds())
}

func TestFleetView_SelectUnknownOrder(t *testing.T) {
	h := newHarness(t, 16)

	view := views.NewFleetView(h.feed, h.store, nil, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	_, err := view.Select(context.Background(), kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	_, ok := view.Selected()
	assert.False(t, ok)
}

func TestFleetView_RefetchesListAfterLag(t *testing.T) {
	h := newHarness(t, 1)
	h.placeOrder(t, "Asha")

	gate := make(chan struct{})
	rec := &fleetRecorder{}
	view := views.NewFleetView(h.feed, h.store, func(c views.FleetChange) {
		rec.record(c)
		if c.Kind == views.FleetCreated {
			<-gate
		}
	}, h.logger)
	require.NoError(t, view.Start(context.Background()))
	defer view.Close()

	h.placeOrder(t, "Ravi")
	require.Eventually(t, func() bool { return len(rec.Changes()) == 2 }, waitFor, tick)

	// The listener is stuck, so the one-slot mailbox overflows.
	h.placeOrder(t, "Meera")
	h.placeOrder(t, "Kabir")
	close(gate)

	require.Eventually(t, func() bool {
		changes := rec.Changes()
		last := changes[len(changes)-1]
		return last.Kind == views.FleetReset && len(last.Orders) == 4
	}, waitFor, tick)
	assert.Len(t, view.Orders(), 4)
	assert.Equal(t, 1, h.feed.Subscribers())
}
