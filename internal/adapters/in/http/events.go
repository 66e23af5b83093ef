package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"foodorders/internal/core/application/views"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

const (
	streamBuffer      = 32
	heartbeatInterval = 15 * time.Second
)

// StreamOrder handles GET /api/v1/orders/:orderId/events. The first "order" event is the
// current state; every later one is a newer version.
func (s *Server) StreamOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	updates := make(chan order.Snapshot, streamBuffer)
	done := make(chan struct{})
	defer close(done)

	view := views.NewOrderSessionView(s.feed, s.reader, orderID, func(snap order.Snapshot) {
		select {
		case updates <- snap:
		case <-done:
		}
	}, s.logger)
	if err = view.Start(ctx); err != nil {
		return s.fail(c, err)
	}
	defer view.Close()

	openStream(c)
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-updates:
			if err = writeEvent(c, "order", toOrderResponse(snap)); err != nil {
				return nil
			}
		case <-heartbeat.C:
			if err = writeComment(c, "ping"); err != nil {
				return nil
			}
		}
	}
}

// StreamFleet handles GET /api/v1/operator/orders/events. It opens with a "snapshot" of
// every order, then sends "created" and "updated" events; a new "snapshot" follows each
// refetch. With ?selected=<id>, that order is also sent as "selected" whenever it changes.
func (s *Server) StreamFleet(c echo.Context) error {
	ctx := c.Request().Context()

	var selectedID *kernel.UUID
	if raw := c.QueryParam("selected"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid selected")
		}
		selectedID = &id
	}

	changes := make(chan views.FleetChange, streamBuffer)
	done := make(chan struct{})
	defer close(done)

	view := views.NewFleetView(s.feed, s.reader, func(change views.FleetChange) {
		select {
		case changes <- change:
		case <-done:
		}
	}, s.logger)
	if err := view.Start(ctx); err != nil {
		return s.fail(c, err)
	}
	defer view.Close()

	if selectedID != nil {
		if _, err := view.Select(ctx, *selectedID); err != nil {
			return s.fail(c, err)
		}
	}

	openStream(c)
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case change := <-changes:
			if err := s.writeFleetChange(c, view, change, selectedID); err != nil {
				return nil
			}
		case <-heartbeat.C:
			if err := writeComment(c, "ping"); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) writeFleetChange(
	c echo.Context,
	view *views.FleetView,
	change views.FleetChange,
	selectedID *kernel.UUID,
) error {
	var err error
	touchesSelection := false
	switch change.Kind {
	case views.FleetReset:
		err = writeEvent(c, "snapshot", toOrderResponses(change.Orders))
		touchesSelection = selectedID != nil
	case views.FleetCreated:
		err = writeEvent(c, "created", toOrderResponse(change.Order))
	case views.FleetUpdated:
		err = writeEvent(c, "updated", toOrderResponse(change.Order))
		touchesSelection = selectedID != nil && change.Order.ID.IsEqual(*selectedID)
	}
	if err != nil || !touchesSelection {
		return err
	}

	if selected, ok := view.Selected(); ok {
		return writeEvent(c, "selected", toOrderResponse(selected))
	}
	return nil
}

func openStream(c echo.Context) {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()
}

func writeEvent(c echo.Context, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}

func writeComment(c echo.Context, text string) error {
	if _, err := fmt.Fprintf(c.Response(), ": %s\n\n", text); err != nil {
		return err
	}
	c.Response().Flush()
	return nil
}
