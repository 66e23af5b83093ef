package http

import (
	"net/http"
	"strconv"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetMenu handles GET /api/v1/menu.
func (s *Server) GetMenu(c echo.Context) error {
	items := s.handlers.GetMenu.Handle()
	response := make([]menuItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toMenuItemResponse(item))
	}
	return c.JSON(http.StatusOK, response)
}

// CreateCart handles POST /api/v1/carts - opens a cart session.
func (s *Server) CreateCart(c echo.Context) error {
	id, err := s.handlers.CreateCart.Handle(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, emptyCartResponse(id))
}

// GetCart handles GET /api/v1/carts/:cartId.
func (s *Server) GetCart(c echo.Context) error {
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}
	return s.renderCart(c, cartID)
}

// DiscardCart handles DELETE /api/v1/carts/:cartId.
func (s *Server) DiscardCart(c echo.Context) error {
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}
	if err = s.handlers.DiscardCart.Handle(c.Request().Context(), cartID); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddCartItem handles POST /api/v1/carts/:cartId/items.
func (s *Server) AddCartItem(c echo.Context) error {
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}
	var req addCartItemRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewAddCartItemCommand(cartID, req.MenuItemID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CartItems.HandleAdd(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.renderCart(c, cartID)
}

// SetCartItemQuantity handles PUT /api/v1/carts/:cartId/items/:itemId.
func (s *Server) SetCartItemQuantity(c echo.Context) error {
	cartID, itemID, err := cartItemParams(c)
	if err != nil {
		return err
	}
	var req setCartItemQuantityRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewSetCartItemQuantityCommand(cartID, itemID, req.Quantity)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CartItems.HandleSetQuantity(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.renderCart(c, cartID)
}

// RemoveCartItem handles DELETE /api/v1/carts/:cartId/items/:itemId.
func (s *Server) RemoveCartItem(c echo.Context) error {
	cartID, itemID, err := cartItemParams(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRemoveCartItemCommand(cartID, itemID)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.CartItems.HandleRemove(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return s.renderCart(c, cartID)
}

// CheckoutCart handles POST /api/v1/carts/:cartId/checkout. The Idempotency-Key header,
// when present, becomes the order id; resubmitting it returns the first order.
func (s *Server) CheckoutCart(c echo.Context) error {
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if key := c.Request().Header.Get("Idempotency-Key"); key != "" {
		if orderID, err = kernel.UUIDFromString(key); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key must be a UUID")
		}
	}

	cmd, err := commands.NewCheckoutCartCommand(
		cartID,
		orderID,
		commands.CustomerInput{
			Name:    req.CustomerName,
			Email:   req.CustomerEmail,
			Phone:   req.CustomerPhone,
			Address: req.DeliveryAddress,
		},
		req.Notes,
		req.PaymentMethod,
	)
	if err != nil {
		return s.fail(c, err)
	}

	placed, err := s.handlers.Checkout.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(placed))
}

func (s *Server) renderCart(c echo.Context, cartID kernel.UUID) error {
	view, err := s.handlers.GetCart.Handle(c.Request().Context(), cartID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

func cartItemParams(c echo.Context) (kernel.UUID, int, error) {
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return kernel.UUID{}, 0, err
	}
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		return kernel.UUID{}, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid itemId")
	}
	return cartID, itemID, nil
}
