package routes

import (
	"github.com/rivalsxninjax1/rms/controllers"
	"github.com/rivalsxninjax1/rms/middleware"

	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			// Menu management
			admin.POST("/menu", controllers.CreateMenuItem)
			admin.PUT("/menu/:id", controllers.UpdateMenuItem)
			admin.DELETE("/menu/:id", controllers.DeleteMenuItem)

			// Coupon management
			admin.GET("/coupons", controllers.ListCoupons)
			admin.POST("/coupons", controllers.CreateCoupon)
			admin.PUT("/coupons/:id", controllers.UpdateCoupon)
			admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

			// Order management
			admin.GET("/orders", controllers.ListAllOrders)
			admin.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)

			// Reporting
			admin.GET("/export/orders", controllers.ExportPaidOrdersCSV)
			admin.GET("/sales-report/excel", controllers.DownloadSalesReportExcel)
		}
	}
}
