package changefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the Redis channel order events travel on.
const DefaultChannel = "foodorders:order-events"

// RedisRelay is a ports.ChangeFeed spanning several service instances. Publish sends
// events to a Redis channel; Run relays everything received on that channel, including
// this instance's own messages, into the local Broker. Subscribers always attach to the
// local broker.
//
// When Redis rejects a publish the events go straight to the local broker, so this
// instance's views stay current while the others converge on their next fetch.
type RedisRelay struct {
	client  redis.UniversalClient
	channel string
	origin  string
	local   *Broker
	logger  *slog.Logger
}

func NewRedisRelay(client redis.UniversalClient, channel string, local *Broker, logger *slog.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisRelay{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
		logger:  logger.With("component", "redis_relay"),
	}
}

func (r *RedisRelay) SubscribeAll(handler ports.EventHandler) ports.Subscription {
	return r.local.SubscribeAll(handler)
}

func (r *RedisRelay) SubscribeOne(orderID kernel.UUID, handler ports.EventHandler) ports.Subscription {
	return r.local.SubscribeOne(orderID, handler)
}

func (r *RedisRelay) Publish(ctx context.Context, events ...order.Event) error {
	var errList []error
	for _, ev := range events {
		payload, err := encodeEvent(r.origin, ev)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if err = r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
			r.logger.Warn("redis publish failed, delivering locally",
				"orderId", ev.AggregateID().String(), "type", ev.EventType(), "error", err)
			_ = r.local.Publish(ctx, ev)
			errList = append(errList, fmt.Errorf("publish %s: %w", ev.EventType(), err))
		}
	}
	return errors.Join(errList...)
}

// Run subscribes to the channel and relays messages until ctx is cancelled. ready, if
// not nil, is closed once Redis confirmed the subscription.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer func() {
		_ = pubsub.Close()
	}()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	if ready != nil {
		close(ready)
	}
	r.logger.Info("relaying order events", "channel", r.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.relay(ctx, msg)
		}
	}
}

func (r *RedisRelay) relay(ctx context.Context, msg *redis.Message) {
	env, ev, err := decodeEvent([]byte(msg.Payload))
	if err != nil {
		r.logger.Warn("dropping undecodable event", "error", err)
		return
	}
	r.logger.Debug("relaying event", "type", env.Type, "orderId", env.OrderID, "own", env.Origin == r.origin)
	_ = r.local.Publish(ctx, ev)
}
