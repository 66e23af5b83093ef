package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
)

const resyncBackoff = time.Second

// OrderSessionView tracks one order for a customer. onChange, if set, receives every new
// snapshot on the feed's delivery goroutine and must not block for long: a slow listener
// makes the feed drop the subscription, which triggers a resync.
type OrderSessionView struct {
	feed     ports.ChangeFeed
	reader   ports.OrderReader
	orderID  kernel.UUID
	onChange func(order.Snapshot)
	logger   *slog.Logger

	mu       sync.Mutex
	current  *order.Snapshot
	fetching bool
	pending  []order.Event
	sub      ports.Subscription
	closed   bool
	cancel   context.CancelFunc

	emitMu      sync.Mutex
	lastEmitted int64
}

func NewOrderSessionView(
	feed ports.ChangeFeed,
	reader ports.OrderReader,
	orderID kernel.UUID,
	onChange func(order.Snapshot),
	logger *slog.Logger,
) *OrderSessionView {
	return &OrderSessionView{
		feed:     feed,
		reader:   reader,
		orderID:  orderID,
		onChange: onChange,
		logger:   logger.With("component", "order_session_view", "orderId", orderID.String()),
	}
}

// Start subscribes and loads the order. It returns the fetch error, for example
// errs.ObjectNotFoundError, and leaves nothing running in that case.
func (v *OrderSessionView) Start(ctx context.Context) error {
	if err := v.orderID.Validate(); err != nil {
		return err
	}

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

// Current returns the last known snapshot, or false before the first fetch.
func (v *OrderSessionView) Current() (order.Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return order.Snapshot{}, false
	}
	return v.current.Clone(), true
}

// Close unsubscribes. It is safe to call more than once.
func (v *OrderSessionView) Close() {
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

// sync subscribes, fetches and replays the events buffered meanwhile.
func (v *OrderSessionView) sync(ctx context.Context) (ports.Subscription, error) {
	v.mu.Lock()
	v.fetching = true
	v.pending = nil
	v.mu.Unlock()

	sub := v.feed.SubscribeOne(v.orderID, v.handle)

	snap, err := v.reader.Get(ctx, v.orderID)
	if err != nil {
		sub.Unsubscribe()
		v.mu.Lock()
		v.fetching = false
		v.pending = nil
		v.mu.Unlock()
		return nil, err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		sub.Unsubscribe()
		return nil, context.Canceled
	}
	if v.current == nil || snap.Version >= v.current.Version {
		v.current = &snap
	}
	for _, ev := range v.pending {
		v.applyLocked(ev)
	}
	v.pending = nil
	v.fetching = false
	v.sub = sub
	result := v.current.Clone()
	v.mu.Unlock()

	v.emit(result)
	return sub, nil
}

func (v *OrderSessionView) handle(ev order.Event) {
	v.mu.Lock()
	if v.fetching {
		v.pending = append(v.pending, ev)
		v.mu.Unlock()
		return
	}
	changed := v.applyLocked(ev)
	var result order.Snapshot
	if changed {
		result = v.current.Clone()
	}
	v.mu.Unlock()

	if changed {
		v.emit(result)
	}
}

func (v *OrderSessionView) applyLocked(ev order.Event) bool {
	if v.current == nil {
		return false
	}
	switch e := ev.(type) {
	case order.UpdatedEvent:
		next, ok := v.current.Apply(e)
		if ok {
			v.current = &next
		}
		return ok
	case order.CreatedEvent:
		if e.Order.ID.IsEqual(v.current.ID) && e.Order.Version > v.current.Version {
			snap := e.Order.Clone()
			v.current = &snap
			return true
		}
	}
	return false
}

// emit never hands the listener an older version than it already saw.
func (v *OrderSessionView) emit(s order.Snapshot) {
	if v.onChange == nil {
		return
	}
	v.emitMu.Lock()
	defer v.emitMu.Unlock()
	if s.Version < v.lastEmitted {
		return
	}
	v.lastEmitted = s.Version
	v.onChange(s)
}

// supervise resyncs after the feed dropped the subscription for lagging.
func (v *OrderSessionView) supervise(ctx context.Context, sub ports.Subscription) {
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

		v.logger.Warn("change feed dropped the view, refetching")
		next, err := v.resync(ctx)
		if err != nil {
			return
		}
		sub = next
	}
}

func (v *OrderSessionView) resync(ctx context.Context) (ports.Subscription, error) {
	for {
		sub, err := v.sync(ctx)
		if err == nil {
			return sub, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		v.logger.Warn("resync failed, retrying", "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(resyncBackoff):
		}
	}
}
