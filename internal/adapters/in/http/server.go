// Package http is the echo adapter: storefront cart and checkout routes, order tracking,
// the operator dashboard and their server-sent event streams.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	// Command handlers
	CreateCart   commands.CreateCartCommandHandler
	DiscardCart  commands.DiscardCartCommandHandler
	CartItems    commands.CartItemCommandHandler
	Checkout     commands.CheckoutCartCommandHandler
	ChangeStatus commands.ChangeOrderStatusCommandHandler

	// Query handlers
	GetMenu           queries.GetMenuQueryHandler
	GetCart           queries.GetCartQueryHandler
	GetOrder          queries.GetOrderQueryHandler
	FindOrderByNumber queries.FindOrderByNumberQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
}

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	feed     ports.ChangeFeed
	reader   ports.OrderReader
	auth     *OperatorAuth
	checks   map[string]HealthCheck
	logger   *slog.Logger
}

func NewServer(
	handlers Handlers,
	feed ports.ChangeFeed,
	reader ports.OrderReader,
	auth *OperatorAuth,
	logger *slog.Logger,
) *Server {
	return &Server{
		handlers: handlers,
		feed:     feed,
		reader:   reader,
		auth:     auth,
		checks:   make(map[string]HealthCheck),
		logger:   logger.With("component", "http"),
	}
}

// AddHealthCheck registers a dependency reported by GET /health.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

// Register installs middleware and routes on e.
func (s *Server) Register(ctx context.Context, e *echo.Echo) error {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return err
	}

	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(s.logger)
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	e.GET("/health", s.Health)
	e.GET("/openapi.yaml", serveOpenAPI)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))

	api := e.Group("/api/v1", validator)
	api.GET("/menu", s.GetMenu)

	api.POST("/carts", s.CreateCart)
	api.GET("/carts/:cartId", s.GetCart)
	api.DELETE("/carts/:cartId", s.DiscardCart)
	api.POST("/carts/:cartId/items", s.AddCartItem)
	api.PUT("/carts/:cartId/items/:itemId", s.SetCartItemQuantity)
	api.DELETE("/carts/:cartId/items/:itemId", s.RemoveCartItem)
	api.POST("/carts/:cartId/checkout", s.CheckoutCart)

	api.GET("/orders", s.FindOrderByNumber)
	api.GET("/orders/:orderId", s.GetOrder)
	api.GET("/orders/:orderId/events", s.StreamOrder)

	api.POST("/operator/login", s.OperatorLogin)
	operator := api.Group("/operator", s.auth.Middleware())
	operator.GET("/orders", s.ListOrders)
	operator.GET("/orders/events", s.StreamFleet)
	operator.GET("/orders/:orderId", s.GetOrder)
	operator.PUT("/orders/:orderId/status", s.ChangeOrderStatus)

	return nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				s.logger.LogAttrs(c.Request().Context(), slog.LevelWarn, "request", attrs...)
				return nil
			}
			s.logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(s.checks))}
	status := http.StatusOK
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	return c.JSON(status, resp)
}

// pathUUID returns an *echo.HTTPError for a malformed id, so callers can return it as is.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
