package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
)

const (
	DefaultNotificationWorkers = 4
	DefaultNotificationQueue   = 256
	dispatchTimeout            = 15 * time.Second
)

type notification struct {
	placed  order.Snapshot
	channel ports.Channel
}

// NotificationPool implements ports.OrderNotifier with a fixed set of workers fed by a
// buffered queue. NotifyPlaced never blocks: when the queue is full, or the pool is
// stopped, the message is dropped and logged.
type NotificationPool struct {
	dispatcher ports.NotificationDispatcher
	workers    int
	queue      chan notification
	logger     *slog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewNotificationPool(dispatcher ports.NotificationDispatcher, workers, queueSize int, logger *slog.Logger) *NotificationPool {
	if workers <= 0 {
		workers = DefaultNotificationWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultNotificationQueue
	}
	return &NotificationPool{
		dispatcher: dispatcher,
		workers:    workers,
		queue:      make(chan notification, queueSize),
		logger:     logger.With("component", "notification_pool"),
	}
}

func (p *NotificationPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	p.logger.Info("notification workers started", "workers", p.workers)
}

// NotifyPlaced queues the e-mail and the SMS of a freshly placed order.
func (p *NotificationPool) NotifyPlaced(placed order.Snapshot) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, ch := range []ports.Channel{ports.ChannelEmail, ports.ChannelSMS} {
		if p.stopped {
			p.logger.Warn("notification dropped, pool stopped", "orderNumber", placed.Number.String(), "channel", ch)
			continue
		}
		select {
		case p.queue <- notification{placed: placed.Clone(), channel: ch}:
		default:
			p.logger.Warn("notification dropped, queue full", "orderNumber", placed.Number.String(), "channel", ch)
		}
	}
}

// Stop lets the workers drain the queue and waits for them.
func (p *NotificationPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("notification workers stopped")
}

func (p *NotificationPool) work(id int) {
	defer p.wg.Done()
	for n := range p.queue {
		p.dispatch(id, n)
	}
}

func (p *NotificationPool) dispatch(worker int, n notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := p.dispatcher.Dispatch(ctx, n.placed, n.channel); err != nil {
		p.logger.Warn("notification failed",
			"worker", worker,
			"orderNumber", n.placed.Number.String(),
			"channel", n.channel,
			"error", err)
	}
}
