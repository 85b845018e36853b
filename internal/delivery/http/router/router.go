// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"milkrun/internal/delivery/http/middleware"
	"milkrun/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler  *handler.SessionHandler
	ProductHandler  *handler.ProductHandler
	OrderHandler    *handler.OrderHandler
	ExchangeHandler *handler.ExchangeHandler

	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler  *handler.SessionHandler
	productHandler  *handler.ProductHandler
	orderHandler    *handler.OrderHandler
	exchangeHandler *handler.ExchangeHandler

	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler:    params.SessionHandler,
		productHandler:    params.ProductHandler,
		orderHandler:      params.OrderHandler,
		exchangeHandler:   params.ExchangeHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Session routes: login and session inspection are open, logout too
	// so a client with a stale token can always reset itself.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.sessionHandler.Login)
		authGroup.POST("/logout", r.sessionHandler.Logout)
		authGroup.GET("/session", r.sessionHandler.Session)
	}

	// Customer-facing routes require a session.
	productGroup := e.Group("/products")
	productGroup.Use(r.sessionMiddleware.Authenticate)
	{
		productGroup.GET("", r.productHandler.List)
		productGroup.GET("/:id", r.productHandler.Get)
	}

	orderGroup := e.Group("/orders")
	orderGroup.Use(r.sessionMiddleware.Authenticate)
	{
		orderGroup.GET("", r.orderHandler.List)
		orderGroup.POST("", r.orderHandler.Submit)
	}

	// Administrative routes require the configured admin email.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.sessionMiddleware.Authenticate)
	adminGroup.Use(r.sessionMiddleware.RequireAdmin)
	{
		adminGroup.POST("/products", r.productHandler.Create)
		adminGroup.PATCH("/products/:id", r.productHandler.Update)
		adminGroup.PATCH("/products/:id/visibility", r.productHandler.SetVisibility)
		adminGroup.DELETE("/products/:id", r.productHandler.Delete)
		adminGroup.GET("/products/export", r.exchangeHandler.ExportProducts)
		adminGroup.POST("/products/import", r.exchangeHandler.ImportProducts)

		adminGroup.GET("/orders", r.orderHandler.AdminList)
		adminGroup.PATCH("/orders/:id/status", r.orderHandler.SetStatus)
		adminGroup.GET("/orders/export", r.exchangeHandler.ExportOrders)

		adminGroup.GET("/dashboard/notifications", r.orderHandler.Notifications)
		adminGroup.POST("/dashboard/viewed", r.orderHandler.MarkViewed)
	}
}
