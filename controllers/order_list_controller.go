package controllers

import (
	"strconv"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
)

func orderSummary(order *models.Order) gin.H {
	return gin.H{
		"id":           order.ID,
		"status":       order.Status,
		"service_type": order.ServiceType,
		"subtotal":     order.Subtotal,
		"discount":     order.DiscountAmount,
		"tip":          order.TipAmount,
		"total":        order.GrandTotal,
		"currency":     order.Currency,
		"created_at":   order.CreatedAt,
	}
}

// ListMyOrders returns the authenticated user's order history,
// newest first
func ListMyOrders(c *gin.Context) {
	utils.LogInfo("ListMyOrders called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	user := userVal.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Model(&models.Order{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	summaries := make([]gin.H, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, orderSummary(&orders[i]))
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

// GetMyOrder returns one of the authenticated user's orders with items
func GetMyOrder(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems.MenuItem").
		Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}

	items := make([]gin.H, 0, len(order.OrderItems))
	for i := range order.OrderItems {
		oi := &order.OrderItems[i]
		items = append(items, gin.H{
			"menu_item_id": oi.MenuItemID,
			"name":         oi.MenuItem.Name,
			"quantity":     oi.Quantity,
			"unit_price":   oi.UnitPrice,
			"line_total":   utils.RoundMoney(oi.LineTotal()),
		})
	}

	detail := orderSummary(&order)
	detail["items"] = items
	detail["table_number"] = order.TableNumber
	detail["discount_code"] = order.DiscountCode
	utils.Success(c, "Order retrieved", gin.H{"order": detail})
}
