package routes

import (
	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/controllers"
	"github.com/rivalsxninjax1/rms/middleware"

	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all customer-facing routes
func initUserRoutes(router *gin.RouterGroup, cfg *config.Config) {
	// Auth
	router.POST("/auth/register", controllers.RegisterUser)
	router.POST("/auth/login", controllers.LoginUser)
	router.POST("/auth/refresh", controllers.RefreshToken)
	router.GET("/auth/me", middleware.AuthMiddleware(), controllers.Me)
	router.POST("/auth/session", middleware.AuthMiddleware(), controllers.SessionLogin)
	router.POST("/auth/logout", controllers.SessionLogout)

	// Menu browsing, public
	router.GET("/menu", controllers.ListMenuItems)
	router.GET("/menu/:id", controllers.GetMenuItem)
	router.GET("/categories", controllers.ListCategories)

	// Cart, works for guests and authenticated users alike
	cart := router.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware())
	{
		cart.GET("", controllers.GetCart)
		cart.PUT("", controllers.ReplaceCart)
		cart.POST("/items", controllers.AddCartItem)
		cart.DELETE("/items", controllers.RemoveCartItem)
		cart.POST("/meta", controllers.SetCartMeta)
		cart.POST("/reset", controllers.ResetCartSession)
		if cfg.Env != "production" {
			cart.GET("/debug", controllers.DebugCart)
		}
		cart.POST("/merge", middleware.AuthMiddleware(), controllers.MergeCart)
	}

	// Coupons
	router.GET("/coupons/validate", controllers.ValidateCoupon)
	router.POST("/coupons/apply", controllers.ApplyCouponToSession)
	router.DELETE("/coupons/apply", controllers.RemoveCouponFromSession)
	router.POST("/coupons/apply-to-order", middleware.AuthMiddleware(), controllers.ApplyCouponToOrder)

	// Orders and checkout
	orders := router.Group("/orders")
	orders.Use(middleware.OptionalAuthMiddleware())
	{
		orders.POST("", controllers.PlaceOrder)
		orders.POST("/:id/pay", controllers.InitiatePayment)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)
	}
	router.GET("/orders", middleware.AuthMiddleware(), controllers.ListMyOrders)
	router.GET("/orders/:id", middleware.AuthMiddleware(), controllers.GetMyOrder)
}
