// Package response writes the JSON bodies shared by all handlers.
package response

import (
	"net/http"

	domainerrors "authsvc/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Success wraps data in the standard envelope.
type Success struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK writes a success envelope.
func OK(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Success{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope.
func Error(c echo.Context, statusCode int, errorCode string, message string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, domainerrors.Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error:   &domainerrors.ErrorInfo{Code: errorCode},
	})
}

// BindingError 400 for bodies that cannot be decoded.
func BindingError(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, "INVALID_INPUT", message)
}
