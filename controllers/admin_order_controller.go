package controllers

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
)

// ListAllOrders returns orders across all users (admin)
func ListAllOrders(c *gin.Context) {
	utils.LogInfo("ListAllOrders called")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if serviceType := c.Query("service_type"); serviceType != "" {
		if st, ok := normalizeServiceType(serviceType); ok {
			query = query.Where("service_type = ?", st)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("User").Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	summaries := make([]gin.H, 0, len(orders))
	for i := range orders {
		summary := orderSummary(&orders[i])
		if orders[i].UserID != nil {
			summary["user"] = gin.H{
				"id":    orders[i].User.ID,
				"email": orders[i].User.Email,
			}
		}
		summaries = append(summaries, summary)
	}

	utils.Success(c, "Orders retrieved", gin.H{
		"orders": summaries,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// UpdateOrderStatus changes an order's status (admin). Terminal orders
// cannot move; PAID is only ever set by the payment webhook.
func UpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("UpdateOrderStatus called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Status != models.OrderStatusFailed && req.Status != models.OrderStatusPending {
		utils.BadRequest(c, "Status can only be set to PENDING or FAILED", gin.H{"status": req.Status})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if order.Terminal() {
		utils.BadRequest(c, "Order has reached a final status", gin.H{"status": order.Status})
		return
	}

	if err := config.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		utils.LogError("Failed to update order ID: %d status: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to update order", nil)
		return
	}

	utils.LogInfo("Order ID: %d status changed to %s", order.ID, req.Status)
	utils.Success(c, "Order status updated", gin.H{"order_id": order.ID, "status": req.Status})
}

// ExportPaidOrdersCSV streams paid orders as CSV for accounting (admin)
func ExportPaidOrdersCSV(c *gin.Context) {
	utils.LogInfo("ExportPaidOrdersCSV called")

	query := config.DB.Preload("User").Where("status = ?", models.OrderStatusPaid)
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var orders []models.Order
	if err := query.Order("id").Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch paid orders for export: %v", err)
		utils.InternalServerError(c, "Failed to export orders", nil)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=paid_orders_%s.csv", time.Now().Format("20060102")))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write([]string{"order_id", "user_email", "service_type", "subtotal", "discount", "tip", "grand_total", "currency", "coupon", "created_at"})
	for i := range orders {
		o := &orders[i]
		email := ""
		if o.UserID != nil {
			email = o.User.Email
		}
		_ = w.Write([]string{
			strconv.Itoa(int(o.ID)),
			email,
			o.ServiceType,
			fmt.Sprintf("%.2f", o.Subtotal),
			fmt.Sprintf("%.2f", o.DiscountAmount),
			fmt.Sprintf("%.2f", o.TipAmount),
			fmt.Sprintf("%.2f", o.GrandTotal),
			o.Currency,
			o.DiscountCode,
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	utils.LogInfo("Exported %d paid orders as CSV", len(orders))
}
