package notifications

import (
	"context"
	"log/slog"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
)

// LogDispatcher stands in for an unconfigured channel. It logs what would have been sent.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With("component", "log_dispatcher")}
}

func (d *LogDispatcher) Dispatch(_ context.Context, placed order.Snapshot, channel ports.Channel) error {
	m := newMessage(placed)
	switch channel {
	case ports.ChannelEmail:
		d.logger.Info("email channel not configured, message logged only",
			"to", placed.CustomerEmail, "subject", "Order Confirmation - "+m.OrderNumber)
	case ports.ChannelSMS:
		text, err := renderSMS(m)
		if err != nil {
			return errs.NewNotificationFailedError(string(channel), err)
		}
		d.logger.Info("sms channel not configured, message logged only", "to", placed.CustomerPhone, "body", text)
	default:
		return errs.NewNotificationFailedError(string(channel), errs.NewValueIsInvalidError("channel"))
	}
	return nil
}
