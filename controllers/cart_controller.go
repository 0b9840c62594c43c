package controllers

import (
	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// enrichCartLines joins cart lines against the catalog for display.
// Lines whose menu item cannot be loaded are shown bare, not dropped;
// the cart itself is never mutated by a read.
func enrichCartLines(lines []utils.CartLine) ([]gin.H, float64) {
	out := make([]gin.H, 0, len(lines))
	var subtotal float64

	for _, line := range lines {
		entry := gin.H{
			"menu_item_id": line.ID,
			"quantity":     line.Quantity,
		}
		if item, err := menuItemByID(line.ID); err == nil {
			lineTotal := utils.RoundMoney(item.Price * float64(line.Quantity))
			entry["name"] = item.Name
			entry["unit_price"] = item.Price
			entry["line_total"] = lineTotal
			subtotal += item.Price * float64(line.Quantity)
		} else {
			utils.LogDebug("Cart line for missing menu item ID: %d", line.ID)
		}
		out = append(out, entry)
	}
	return out, utils.RoundMoney(subtotal)
}

func sessionUser(c *gin.Context) (*models.User, bool) {
	if userVal, exists := c.Get("user"); exists {
		user := userVal.(models.User)
		return &user, true
	}
	return nil, false
}

// currentCartLines returns the caller's cart: the pending order for an
// authenticated user, the session cart for a guest.
func currentCartLines(c *gin.Context) ([]utils.CartLine, *models.Order, error) {
	user, ok := sessionUser(c)
	if !ok {
		return utils.CartFromSession(c), nil, nil
	}

	var order models.Order
	err := config.DB.Preload("OrderItems").
		Where("user_id = ? AND status = ?", user.ID, models.OrderStatusPending).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	lines := make([]utils.CartLine, 0, len(order.OrderItems))
	for _, oi := range order.OrderItems {
		lines = append(lines, utils.CartLine{ID: oi.MenuItemID, Quantity: oi.Quantity})
	}
	return lines, &order, nil
}

// GetCart returns the caller's cart with catalog details and subtotal
func GetCart(c *gin.Context) {
	lines, order, err := currentCartLines(c)
	if err != nil {
		utils.LogError("Failed to load cart: %v", err)
		utils.InternalServerError(c, "Failed to load cart", nil)
		return
	}

	items, subtotal := enrichCartLines(lines)
	meta := utils.CartMetaFromSession(c)

	payload := gin.H{
		"items":        items,
		"subtotal":     subtotal,
		"service_type": meta.ServiceType,
		"table_number": meta.TableNumber,
	}
	if order != nil {
		payload["order_id"] = order.ID
	}
	if code := utils.CouponCodeFromSession(c); code != "" {
		payload["coupon_code"] = code
	}
	utils.Success(c, "Cart retrieved", payload)
}

// writeCartLines persists the given lines as the caller's cart.
func writeCartLines(c *gin.Context, lines []utils.CartLine) error {
	user, ok := sessionUser(c)
	if !ok {
		return utils.SaveCart(c, lines)
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		order, err := findOrCreatePendingOrder(tx, user.ID)
		if err != nil {
			return err
		}
		return rebuildOrderLines(tx, order, lines)
	})
}

// ReplaceCart overwrites the cart with a normalized item list
func ReplaceCart(c *gin.Context) {
	utils.LogInfo("ReplaceCart called")

	var req struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	lines := utils.NormalizeCartItems(req.Items)
	if err := writeCartLines(c, lines); err != nil {
		utils.LogError("Failed to replace cart: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	items, subtotal := enrichCartLines(lines)
	utils.Success(c, "Cart updated", gin.H{"items": items, "subtotal": subtotal})
}

// AddCartItem adds one item to the cart, merging with an existing line
func AddCartItem(c *gin.Context) {
	utils.LogInfo("AddCartItem called")

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	added := utils.NormalizeCartItems([]map[string]interface{}{req})
	if len(added) == 0 {
		utils.BadRequest(c, "A valid menu item id is required", nil)
		return
	}

	item, err := menuItemByID(added[0].ID)
	if err != nil || !item.IsActive {
		utils.NotFound(c, "Menu item not found")
		return
	}

	current, _, err := currentCartLines(c)
	if err != nil {
		utils.LogError("Failed to load cart: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	merged := utils.NormalizeCartItems(append(utils.CartLinesToMaps(current), utils.CartLinesToMaps(added)...))
	if err := writeCartLines(c, merged); err != nil {
		utils.LogError("Failed to add cart item: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	items, subtotal := enrichCartLines(merged)
	utils.Success(c, "Item added to cart", gin.H{"items": items, "subtotal": subtotal})
}

// RemoveCartItem drops a menu item from the cart entirely
func RemoveCartItem(c *gin.Context) {
	utils.LogInfo("RemoveCartItem called")

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	target := utils.NormalizeCartItems([]map[string]interface{}{req})
	if len(target) == 0 {
		utils.BadRequest(c, "A valid menu item id is required", nil)
		return
	}

	current, _, err := currentCartLines(c)
	if err != nil {
		utils.LogError("Failed to load cart: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	kept := make([]utils.CartLine, 0, len(current))
	for _, line := range current {
		if line.ID != target[0].ID {
			kept = append(kept, line)
		}
	}
	if err := writeCartLines(c, kept); err != nil {
		utils.LogError("Failed to remove cart item: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	items, subtotal := enrichCartLines(kept)
	utils.Success(c, "Item removed from cart", gin.H{"items": items, "subtotal": subtotal})
}

// SetCartMeta records the fulfillment channel and table number
func SetCartMeta(c *gin.Context) {
	utils.LogInfo("SetCartMeta called")

	var req struct {
		ServiceType string `json:"service_type"`
		TableNumber int    `json:"table_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	meta := utils.CartMetaFromSession(c)
	if req.ServiceType != "" {
		st, ok := normalizeServiceType(req.ServiceType)
		if !ok {
			utils.BadRequest(c, "Unknown service type", gin.H{"service_type": req.ServiceType})
			return
		}
		meta.ServiceType = st
	}
	if req.TableNumber > 0 {
		meta.TableNumber = req.TableNumber
	}

	if err := utils.SaveCartMeta(c, meta); err != nil {
		utils.LogError("Failed to save cart meta: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}
	utils.Success(c, "Cart preferences saved", gin.H{
		"service_type": meta.ServiceType,
		"table_number": meta.TableNumber,
	})
}

// ResetCartSession empties the cart keys without rotating the session
func ResetCartSession(c *gin.Context) {
	utils.LogInfo("ResetCartSession called")

	if user, ok := sessionUser(c); ok {
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			err := tx.Where("user_id = ? AND status = ?", user.ID, models.OrderStatusPending).
				Order("id DESC").First(&order).Error
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil
				}
				return err
			}
			return tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error
		})
		if err != nil {
			utils.LogError("Failed to reset cart for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to reset cart", nil)
			return
		}
	}

	if err := utils.ClearCartSession(c); err != nil {
		utils.LogError("Failed to clear cart session: %v", err)
		utils.InternalServerError(c, "Failed to reset cart", nil)
		return
	}
	utils.Success(c, "Cart cleared", nil)
}

// DebugCart dumps raw session cart state, handy while integrating
// front-ends.
func DebugCart(c *gin.Context) {
	session := sessions.Default(c)
	utils.Success(c, "Cart session state", gin.H{
		"cart":        utils.CartFromSession(c),
		"cart_meta":   utils.CartMetaFromSession(c),
		"coupon_code": utils.CouponCodeFromSession(c),
		"user_id":     session.Get(utils.SessionKeyUserID),
	})
}
