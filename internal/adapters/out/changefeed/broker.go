// Package changefeed fans committed order events out to in-process subscribers, and
// optionally relays them between service instances over Redis pub/sub.
package changefeed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
)

// DefaultMailboxSize is the per-subscriber buffer used when none is configured.
const DefaultMailboxSize = 256

// Broker is the in-memory change feed. Every subscriber owns a bounded mailbox drained by
// its own goroutine, so Publish never waits for a handler. A subscriber whose mailbox is
// full is dropped and marked lagged.
//
// Each subscriber remembers the last version it delivered per order and skips events that
// are not newer. Publishers racing on one order, or a Redis fallback overtaking messages
// still in transit, cannot hand a subscriber an older state after a newer one.
type Broker struct {
	mu          sync.RWMutex
	subs        map[uint64]*subscriber
	nextID      uint64
	mailboxSize int
	logger      *slog.Logger
}

func NewBroker(mailboxSize int, logger *slog.Logger) *Broker {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	return &Broker{
		subs:        make(map[uint64]*subscriber),
		mailboxSize: mailboxSize,
		logger:      logger.With("component", "change_feed"),
	}
}

func (b *Broker) SubscribeAll(handler ports.EventHandler) ports.Subscription {
	return b.subscribe(nil, handler)
}

func (b *Broker) SubscribeOne(orderID kernel.UUID, handler ports.EventHandler) ports.Subscription {
	return b.subscribe(&orderID, handler)
}

// Publish enqueues events for every matching subscriber. It does not block and always
// returns nil; the error is part of the publisher contract shared with the Redis relay.
func (b *Broker) Publish(_ context.Context, events ...order.Event) error {
	var lagged []*subscriber

	b.mu.RLock()
	for _, s := range b.subs {
		for _, ev := range events {
			if !s.matches(ev) {
				continue
			}
			if !s.offer(ev) {
				lagged = append(lagged, s)
				break
			}
		}
	}
	b.mu.RUnlock()

	for _, s := range lagged {
		b.logger.Warn("subscriber lagged, dropping", "subscriber", s.id)
		s.lagged.Store(true)
		s.Unsubscribe()
	}
	return nil
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription.
func (b *Broker) Close() {
	b.mu.RLock()
	subs := make([]*subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (b *Broker) subscribe(filter *kernel.UUID, handler ports.EventHandler) ports.Subscription {
	b.mu.Lock()
	b.nextID++
	s := &subscriber{
		id:        b.nextID,
		filter:    filter,
		handler:   handler,
		mailbox:   make(chan order.Event, b.mailboxSize),
		done:      make(chan struct{}),
		broker:    b,
		delivered: make(map[kernel.UUID]int64),
	}
	b.subs[s.id] = s
	b.mu.Unlock()

	go s.run()
	return s
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

type subscriber struct {
	id      uint64
	filter  *kernel.UUID
	handler ports.EventHandler
	mailbox chan order.Event
	done    chan struct{}
	once    sync.Once
	lagged  atomic.Bool
	broker  *Broker

	// delivered is owned by the run goroutine.
	delivered map[kernel.UUID]int64
}

func (s *subscriber) matches(ev order.Event) bool {
	return s.filter == nil || s.filter.IsEqual(ev.AggregateID())
}

// offer reports false when the mailbox is full. The mailbox is never closed, so a send
// racing with Unsubscribe is safe.
func (s *subscriber) offer(ev order.Event) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.mailbox <- ev:
		return true
	default:
		return false
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.mailbox:
			select {
			case <-s.done:
				return
			default:
			}
			s.deliver(ev)
		}
	}
}

func (s *subscriber) deliver(ev order.Event) {
	if version, ok := eventVersion(ev); ok {
		id := ev.AggregateID()
		if last, seen := s.delivered[id]; seen && version <= last {
			s.broker.logger.Debug("skipping stale event",
				"subscriber", s.id, "orderId", id.String(), "version", version, "delivered", last)
			return
		}
		s.delivered[id] = version
	}

	defer func() {
		if r := recover(); r != nil {
			s.broker.logger.Error("subscriber handler panicked", "subscriber", s.id, "panic", r)
		}
	}()
	s.handler(ev)
}

func (s *subscriber) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		s.broker.remove(s.id)
	})
}

func (s *subscriber) Done() <-chan struct{} {
	return s.done
}

func (s *subscriber) Lagged() bool {
	return s.lagged.Load()
}

func eventVersion(ev order.Event) (int64, bool) {
	switch e := ev.(type) {
	case order.CreatedEvent:
		return e.Order.Version, true
	case order.UpdatedEvent:
		return e.Version, true
	default:
		return 0, false
	}
}
