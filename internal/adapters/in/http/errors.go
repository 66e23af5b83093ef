package http

import (
	"errors"
	"log/slog"
	"net/http"

	"foodorders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrTransitionNotAllowed):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPersistenceFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	switch {
	case status == http.StatusServiceUnavailable:
		s.logger.Warn("request failed, client may retry",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		c.Response().Header().Set("Retry-After", "1")
		message = "storage is temporarily unavailable, try again"
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		message = http.StatusText(status)
	}
	return c.JSON(status, errorResponse{Code: status, Message: message})
}

// errorHandler renders echo's own errors (404, 405, 401 from the token check) in the
// same shape as handler errors.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.Error("unhandled error", "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Code: status, Message: message})
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}
