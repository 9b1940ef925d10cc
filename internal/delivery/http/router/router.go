// Package router contains routing for the HTTP delivery.
package router

import (
	"authsvc/internal/delivery/http/middleware"
	"authsvc/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	e.POST("/register", r.userHandler.Register)
	e.POST("/login", r.userHandler.Login)
	e.DELETE("/delete/:id", r.userHandler.Delete)

	e.GET("/me", r.userHandler.Me, r.authMiddleware.Authenticate)
}
