// Package middleware holds echo middleware specific to the HTTP API.
package middleware

import (
	"strings"

	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// KeyTokenInfo is the echo.Context key holding the verified *usecase.TokenInfo.
const KeyTokenInfo = "tokenInfo"

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates requests carrying a session token.
type AuthMiddleware struct {
	uc usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(uc usecase.AuthUsecase) *AuthMiddleware {
	return &AuthMiddleware{uc: uc}
}

// Authenticate validates the bearer token and stores its info on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return errors.Wrap(domainerrors.ErrTokenInvalid, "authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return errors.Wrap(domainerrors.ErrTokenInvalid, "authorization header is not a bearer token")
		}

		info, err := m.uc.VerifyToken(c.Request().Context(), strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix)))
		if err != nil {
			return err
		}

		c.Set(KeyTokenInfo, info)

		return next(c)
	}
}
