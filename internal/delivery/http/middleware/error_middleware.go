package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "authsvc/internal/delivery/context"
	domainerrors "authsvc/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)

	if _, ok := domainerrors.AsAppError(err); ok {
		status, body := domainerrors.FromError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				slog.String("path", c.Request().URL.Path),
				slog.String("method", c.Request().Method),
				slog.Any("error", err),
			)
		}
		m.write(c, status, body)

		return
	}

	// Routing, body-limit and binding errors raised by echo itself.
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError {
		m.write(c, httpErr.Code, domainerrors.Response{
			Success: false,
			Code:    httpErr.Code,
			Message: http.StatusText(httpErr.Code),
			Error:   &domainerrors.ErrorInfo{Code: "HTTP_ERROR"},
		})

		return
	}

	logger.Error("Unhandled error",
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
		slog.Any("error", err),
	)

	// Internal details never leave the process.
	status, body := domainerrors.FromError(domainerrors.ErrInternalError)
	m.write(c, status, body)
}

func (m *ErrorMiddleware) write(c echo.Context, status int, body domainerrors.Response) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
