// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/api/middleware"
	"storefront/internal/delivery/api/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler         *handler.UserHandler
	CatalogHandler      *handler.CatalogHandler
	CartHandler         *handler.CartHandler
	CheckoutHandler     *handler.CheckoutHandler
	OrderHandler        *handler.OrderHandler
	ProfileHandler      *handler.ProfileHandler
	ContactHandler      *handler.ContactHandler
	NotificationHandler *handler.NotificationHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler         *handler.UserHandler
	catalogHandler      *handler.CatalogHandler
	cartHandler         *handler.CartHandler
	checkoutHandler     *handler.CheckoutHandler
	orderHandler        *handler.OrderHandler
	profileHandler      *handler.ProfileHandler
	contactHandler      *handler.ContactHandler
	notificationHandler *handler.NotificationHandler
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:         params.UserHandler,
		catalogHandler:      params.CatalogHandler,
		cartHandler:         params.CartHandler,
		checkoutHandler:     params.CheckoutHandler,
		orderHandler:        params.OrderHandler,
		profileHandler:      params.ProfileHandler,
		contactHandler:      params.ContactHandler,
		notificationHandler: params.NotificationHandler,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	apiV1 := e.Group("/api/v1")

	// Public catalog and contact form
	{
		apiV1.GET("/products", r.catalogHandler.ListProducts)
		apiV1.GET("/products/:id", r.catalogHandler.GetProduct)
		apiV1.GET("/categories", r.catalogHandler.ListCategories)
		apiV1.POST("/contact", r.contactHandler.Submit)
	}

	authed := apiV1.Group("", r.authMiddleware.Authenticate)

	cartGroup := authed.Group("/cart", middleware.NoStore)
	{
		cartGroup.GET("", r.cartHandler.GetCart)
		cartGroup.DELETE("", r.cartHandler.ClearCart)
		cartGroup.GET("/count", r.cartHandler.Count)
		cartGroup.GET("/total", r.cartHandler.Total)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:productId", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:productId", r.cartHandler.RemoveItem)
	}

	checkoutGroup := authed.Group("/checkout", middleware.NoStore)
	{
		checkoutGroup.GET("", r.checkoutHandler.Prepare)
		checkoutGroup.POST("", r.checkoutHandler.PlaceOrder)
	}

	ordersGroup := authed.Group("/orders")
	{
		ordersGroup.GET("", r.orderHandler.History)
		ordersGroup.GET("/:id/qr", r.orderHandler.QRCode)
	}

	profileGroup := authed.Group("/profile")
	{
		profileGroup.GET("", r.profileHandler.GetProfile)
		profileGroup.PUT("", r.profileHandler.UpdateProfile)
	}

	adminGroup := authed.Group("/admin", r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/stats", r.orderHandler.Stats)
		adminGroup.POST("/sessions/cleanup", r.userHandler.CleanupSessions)

		adminGroup.GET("/products", r.catalogHandler.AdminListProducts)
		adminGroup.POST("/products", r.catalogHandler.CreateProduct)
		adminGroup.GET("/products/:id", r.catalogHandler.AdminGetProduct)
		adminGroup.PUT("/products/:id", r.catalogHandler.UpdateProduct)
		adminGroup.DELETE("/products/:id", r.catalogHandler.DeleteProduct)

		adminGroup.GET("/categories", r.catalogHandler.AdminListCategories)
		adminGroup.POST("/categories", r.catalogHandler.CreateCategory)
		adminGroup.PUT("/categories/:id", r.catalogHandler.UpdateCategory)
		adminGroup.DELETE("/categories/:id", r.catalogHandler.DeleteCategory)

		adminGroup.GET("/orders", r.orderHandler.List)
		adminGroup.GET("/orders/:id", r.orderHandler.Get)
		adminGroup.PUT("/orders/:id/status", r.orderHandler.UpdateStatus)

		adminGroup.GET("/users", r.profileHandler.ListUsers)
		adminGroup.PUT("/users/:id", r.profileHandler.UpdateUser)
		adminGroup.DELETE("/users/:id", r.profileHandler.DeleteUser)

		adminGroup.GET("/contacts", r.contactHandler.List)
		adminGroup.DELETE("/contacts/:id", r.contactHandler.Delete)

		adminGroup.GET("/notifications", r.notificationHandler.List)
		adminGroup.DELETE("/notifications", r.notificationHandler.ClearAll)
		adminGroup.DELETE("/notifications/:type/:id", r.notificationHandler.Dismiss)
	}
}
