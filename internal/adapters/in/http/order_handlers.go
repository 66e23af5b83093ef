package http

import (
	"net/http"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// GetOrder handles GET /api/v1/orders/:orderId and its operator twin.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(snap))
}

// FindOrderByNumber handles GET /api/v1/orders?number=ORD-…. A miss is an empty list.
func (s *Server) FindOrderByNumber(c echo.Context) error {
	query, err := queries.NewFindOrderByNumberQuery(c.QueryParam("number"))
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.handlers.FindOrderByNumber.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	response := []orderResponse{}
	if found != nil {
		response = append(response, toOrderResponse(*found))
	}
	return c.JSON(http.StatusOK, response)
}

// ListOrders handles GET /api/v1/operator/orders.
func (s *Server) ListOrders(c echo.Context) error {
	list, err := s.handlers.ListOrders.Handle(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponses(list))
}

// ChangeOrderStatus handles PUT /api/v1/operator/orders/:orderId/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req changeStatusRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, req.Status)
	if err != nil {
		return s.fail(c, err)
	}
	updated, err := s.handlers.ChangeStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(updated))
}
