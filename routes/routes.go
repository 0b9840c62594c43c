package routes

import (
	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/controllers"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes.
// Global middleware must be attached here, before any route is
// registered; gin fixes each route's handler chain at registration time.
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	if cfg.CanonicalHost != "" {
		router.Use(utils.CanonicalHostMiddleware(cfg.CanonicalHost))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24 * 7, // 7 days, carts should survive a revisit
		Path:     "/",
		Secure:   cfg.Env == "production",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("rms_session", store))

	// Provider callbacks and customer return pages live outside the API
	// group; the provider and the browser hit these directly.
	router.POST("/webhooks/razorpay", controllers.RazorpayWebhook)
	router.GET("/payments/success", controllers.CheckoutSuccess)
	router.GET("/payments/cancel", controllers.CheckoutCancel)

	api := router.Group("/api")
	{
		initUserRoutes(api, cfg)
		initAdminRoutes(api)
	}

	return router
}
