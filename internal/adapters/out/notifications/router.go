package notifications

import (
	"context"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

// Router picks the dispatcher registered for a channel.
type Router struct {
	byChannel map[ports.Channel]ports.NotificationDispatcher
}

func NewRouter(email, sms ports.NotificationDispatcher) *Router {
	return &Router{byChannel: map[ports.Channel]ports.NotificationDispatcher{
		ports.ChannelEmail: email,
		ports.ChannelSMS:   sms,
	}}
}

func (r *Router) Dispatch(ctx context.Context, placed order.Snapshot, channel ports.Channel) error {
	d, ok := r.byChannel[channel]
	if !ok || d == nil {
		return errs.NewNotificationFailedError(string(channel), errs.NewObjectNotFoundError("channel", string(channel)))
	}
	return d.Dispatch(ctx, placed, channel)
}
