// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	"authsvc/internal/delivery/http/middleware"
	"authsvc/internal/delivery/http/response"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc usecase.AuthUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.AuthUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// Register handles POST /register. Success has no body.
func (h *UserHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid registration input")
	}

	if err := h.uc.Register(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusCreated)
}

// Login handles POST /login and returns {"token": ...}.
func (h *UserHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, output)
}

// Delete handles DELETE /delete/:id. Unknown ids succeed.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Me reports the identity carried by the caller's token.
func (h *UserHandler) Me(c echo.Context) error {
	info, ok := c.Get(middleware.KeyTokenInfo).(*usecase.TokenInfo)
	if !ok {
		return errors.WithStack(domainerrors.ErrTokenInvalid)
	}

	return c.JSON(http.StatusOK, info)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.OK(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
