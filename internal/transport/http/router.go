package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/ecofinds/marketplace/internal/handlers"
	mwauth "github.com/ecofinds/marketplace/internal/middleware/auth"
	"github.com/ecofinds/marketplace/internal/service"
)

type Deps struct {
	Tokens         *service.TokenService
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	OrderHandler   *handlers.OrderHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	requireLogin := mwauth.RequireLogin(d.Tokens)
	optionalLogin := mwauth.OptionalLogin(d.Tokens)

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)

	users := api.Group("/users", requireLogin)
	users.GET("/me", d.UserHandler.Me)
	users.PUT("/me", d.UserHandler.UpdateMe)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List, optionalLogin)
	products.GET("/my-listings", d.ProductHandler.MyListings, requireLogin)
	products.GET("/:id", d.ProductHandler.Get, optionalLogin)
	products.POST("", d.ProductHandler.Create, requireLogin)
	products.PUT("/:id", d.ProductHandler.Update, requireLogin)
	products.DELETE("/:id", d.ProductHandler.Delete, requireLogin)
	products.POST("/:id/like", d.ProductHandler.ToggleLike, requireLogin)

	api.GET("/search", d.SearchHandler.Search)

	cart := api.Group("/cart", requireLogin)
	cart.GET("", d.CartHandler.Get)
	cart.POST("/add", d.CartHandler.Add)
	cart.PUT("/update", d.CartHandler.Update)
	cart.DELETE("/remove/:productId", d.CartHandler.Remove)
	cart.DELETE("/clear", d.CartHandler.Clear)

	orders := api.Group("/orders", requireLogin)
	orders.POST("", d.OrderHandler.Create)
	orders.GET("/my-orders", d.OrderHandler.MyOrders)
	orders.GET("/sales", d.OrderHandler.Sales)
	orders.GET("/admin/all", d.OrderHandler.All, mwauth.AdminOnly)
	orders.GET("/:id", d.OrderHandler.Get)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus)
}
