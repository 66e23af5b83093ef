package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"

	"github.com/sony/gobreaker/v2"
)

const defaultResendURL = "https://api.resend.com/emails"

type ResendConfig struct {
	APIKey   string
	From     string
	Endpoint string
	Breaker  BreakerSettings
}

// ResendDispatcher sends the order confirmation e-mail through the Resend API.
type ResendDispatcher struct {
	cfg     ResendConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  *slog.Logger
}

func NewResendDispatcher(cfg ResendConfig, client *http.Client, logger *slog.Logger) *ResendDispatcher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultResendURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger = logger.With("component", "resend_dispatcher")
	return &ResendDispatcher{
		cfg:     cfg,
		client:  client,
		breaker: newBreaker("resend", cfg.Breaker, logger),
		logger:  logger,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (d *ResendDispatcher) Dispatch(ctx context.Context, placed order.Snapshot, channel ports.Channel) error {
	if channel != ports.ChannelEmail {
		return errs.NewNotificationFailedError(string(channel), fmt.Errorf("resend only sends %s", ports.ChannelEmail))
	}

	html, err := renderEmail(newMessage(placed))
	if err != nil {
		return errs.NewNotificationFailedError(string(channel), err)
	}
	body, err := json.Marshal(resendRequest{
		From:    d.cfg.From,
		To:      []string{placed.CustomerEmail},
		Subject: "Order Confirmation - " + placed.Number.String(),
		HTML:    html,
	})
	if err != nil {
		return errs.NewNotificationFailedError(string(channel), err)
	}

	id, err := d.breaker.Execute(func() (string, error) {
		return d.send(ctx, body)
	})
	if err != nil {
		return errs.NewNotificationFailedError(string(channel), err)
	}

	d.logger.Info("order e-mail sent", "orderNumber", placed.Number.String(), "emailId", id)
	return nil
}

func (d *ResendDispatcher) send(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	var out resendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 {
		if out.Message != "" {
			return "", fmt.Errorf("resend returned %d: %s", resp.StatusCode, out.Message)
		}
		return "", fmt.Errorf("resend returned %d", resp.StatusCode)
	}
	return out.ID, nil
}
