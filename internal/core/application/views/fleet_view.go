package views

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
)

type FleetChangeKind string

const (
	// FleetReset carries the whole list, after the initial fetch or a resync.
	FleetReset   FleetChangeKind = "reset"
	FleetCreated FleetChangeKind = "created"
	FleetUpdated FleetChangeKind = "updated"
)

type FleetChange struct {
	Kind   FleetChangeKind
	Order  order.Snapshot
	Orders []order.Snapshot
}

// FleetView is the operator dashboard projection: every order, newest first, plus the
// order selected for the detail pane. onChange is called in the order changes happen.
type FleetView struct {
	feed     ports.ChangeFeed
	reader   ports.OrderReader
	onChange func(FleetChange)
	logger   *slog.Logger

	// emitMu is taken before mu so listeners observe changes in state order.
	emitMu sync.Mutex

	mu       sync.Mutex
	orders   []order.Snapshot
	selected *kernel.UUID
	fetching bool
	pending  []order.Event
	sub      ports.Subscription
	closed   bool
	cancel   context.CancelFunc
}

func NewFleetView(
	feed ports.ChangeFeed,
	reader ports.OrderReader,
	onChange func(FleetChange),
	logger *slog.Logger,
) *FleetView {
	return &FleetView{
		feed:     feed,
		reader:   reader,
		onChange: onChange,
		logger:   logger.With("component", "fleet_view"),
	}
}

func (v *FleetView) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	v.mu.Lock()
	v.cancel = cancel
	v.mu.Unlock()

	sub, err := v.sync(ctx)
	if err != nil {
		cancel()
		return err
	}
	go v.supervise(ctx, sub)
	return nil
}

// Orders returns a copy of the list, newest created_at first.
func (v *FleetView) Orders() []order.Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneAll(v.orders)
}

// Select opens an order in the detail pane. An order missing from the list is fetched
// and merged in.
func (v *FleetView) Select(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	if err := id.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	v.mu.Lock()
	if i := v.indexLocked(id); i >= 0 {
		v.selected = &id
		snap := v.orders[i].Clone()
		v.mu.Unlock()
		return snap, nil
	}
	v.mu.Unlock()

	snap, err := v.reader.Get(ctx, id)
	if err != nil {
		return order.Snapshot{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexLocked(id); i >= 0 {
		if snap.Version > v.orders[i].Version {
			v.orders[i] = snap
		}
	} else {
		v.orders = append(v.orders, snap)
		sortNewestFirst(v.orders)
	}
	v.selected = &id
	return v.orders[v.indexLocked(id)].Clone(), nil
}

// Selected returns the detail pane's order, kept current by the feed.
func (v *FleetView) Selected() (order.Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return order.Snapshot{}, false
	}
	if i := v.indexLocked(*v.selected); i >= 0 {
		return v.orders[i].Clone(), true
	}
	return order.Snapshot{}, false
}

func (v *FleetView) Close() {
	v.mu.Lock()
	v.closed = true
	sub, cancel := v.sub, v.cancel
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		sub.Unsubscribe()
	}
}

func (v *FleetView) sync(ctx context.Context) (ports.Subscription, error) {
	v.mu.Lock()
	v.fetching = true
	v.pending = nil
	v.mu.Unlock()

	sub := v.feed.SubscribeAll(v.handle)

	list, err := v.reader.ListAll(ctx)
	if err != nil {
		sub.Unsubscribe()
		v.mu.Lock()
		v.fetching = false
		v.pending = nil
		v.mu.Unlock()
		return nil, err
	}

	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		sub.Unsubscribe()
		return nil, context.Canceled
	}
	v.orders = cloneAll(list)
	sortNewestFirst(v.orders)
	for _, ev := range v.pending {
		v.applyLocked(ev)
	}
	v.pending = nil
	v.fetching = false
	v.sub = sub
	change := FleetChange{Kind: FleetReset, Orders: cloneAll(v.orders)}
	v.mu.Unlock()

	v.emit(change)
	return sub, nil
}

func (v *FleetView) handle(ev order.Event) {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	if v.fetching {
		v.pending = append(v.pending, ev)
		v.mu.Unlock()
		return
	}
	change, ok := v.applyLocked(ev)
	v.mu.Unlock()

	if ok {
		v.emit(change)
	}
}

func (v *FleetView) applyLocked(ev order.Event) (FleetChange, bool) {
	switch e := ev.(type) {
	case order.CreatedEvent:
		if i := v.indexLocked(e.Order.ID); i >= 0 {
			if e.Order.Version <= v.orders[i].Version {
				return FleetChange{}, false
			}
			v.orders[i] = e.Order.Clone()
			return FleetChange{Kind: FleetUpdated, Order: e.Order.Clone()}, true
		}
		v.orders = append([]order.Snapshot{e.Order.Clone()}, v.orders...)
		return FleetChange{Kind: FleetCreated, Order: e.Order.Clone()}, true
	case order.UpdatedEvent:
		i := v.indexLocked(e.OrderID)
		if i < 0 {
			v.logger.Debug("update for an order not in the list", "orderId", e.OrderID.String())
			return FleetChange{}, false
		}
		next, ok := v.orders[i].Apply(e)
		if !ok {
			return FleetChange{}, false
		}
		v.orders[i] = next
		return FleetChange{Kind: FleetUpdated, Order: next.Clone()}, true
	}
	return FleetChange{}, false
}

func (v *FleetView) emit(c FleetChange) {
	if v.onChange != nil {
		v.onChange(c)
	}
}

func (v *FleetView) indexLocked(id kernel.UUID) int {
	for i := range v.orders {
		if v.orders[i].ID.IsEqual(id) {
			return i
		}
	}
	return -1
}

func (v *FleetView) supervise(ctx context.Context, sub ports.Subscription) {
	for {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
			return
		case <-sub.Done():
		}
		if !sub.Lagged() {
			return
		}

		v.logger.Warn("change feed dropped the fleet view, refetching the list")
		next, err := v.resync(ctx)
		if err != nil {
			return
		}
		sub = next
	}
}

func (v *FleetView) resync(ctx context.Context) (ports.Subscription, error) {
	for {
		sub, err := v.sync(ctx)
		if err == nil {
			return sub, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		v.logger.Warn("list refetch failed, retrying", "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(resyncBackoff):
		}
	}
}

func cloneAll(in []order.Snapshot) []order.Snapshot {
	out := make([]order.Snapshot, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func sortNewestFirst(list []order.Snapshot) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
