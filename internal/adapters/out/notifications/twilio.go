package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"

	"github.com/sony/gobreaker/v2"
)

const defaultTwilioBaseURL = "https://api.twilio.com/2010-04-01"

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
	Breaker    BreakerSettings
}

// TwilioDispatcher sends the order confirmation SMS through the Twilio Messages API.
type TwilioDispatcher struct {
	cfg     TwilioConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

func NewTwilioDispatcher(cfg TwilioConfig, client *http.Client, logger *slog.Logger) *TwilioDispatcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTwilioBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger = logger.With("component", "twilio_dispatcher")
	return &TwilioDispatcher{
		cfg:     cfg,
		client:  client,
		breaker: newBreaker("twilio", cfg.Breaker, logger),
		logger:  logger,
	}
}

func (d *TwilioDispatcher) Dispatch(ctx context.Context, placed order.Snapshot, channel ports.Channel) error {
	if channel != ports.ChannelSMS {
		return errs.NewNotificationFailedError(string(channel), fmt.Errorf("twilio only sends %s", ports.ChannelSMS))
	}

	text, err := renderSMS(newMessage(placed))
	if err != nil {
		return errs.NewNotificationFailedError(string(channel), err)
	}

	form := url.Values{}
	form.Set("To", placed.CustomerPhone)
	form.Set("From", d.cfg.FromNumber)
	form.Set("Body", text)

	sid, err := d.breaker.Execute(func() (string, error) {
		return d.send(ctx, form)
	})
	if err != nil {
		return errs.NewNotificationFailedError(string(channel), err)
	}

	d.logger.Info("order sms sent", "orderNumber", placed.Number.String(), "messageSid", sid)
	return nil
}

func (d *TwilioDispatcher) send(ctx context.Context, form url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", d.cfg.BaseURL, url.PathEscape(d.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(d.cfg.AccountSID, d.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	var out struct {
		SID     string `json:"sid"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 {
		if out.Message != "" {
			return "", fmt.Errorf("twilio returned %d: %s", resp.StatusCode, out.Message)
		}
		return "", fmt.Errorf("twilio returned %d", resp.StatusCode)
	}
	return out.SID, nil
}
