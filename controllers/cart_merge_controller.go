package controllers

import (
	"errors"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findOrCreatePendingOrder returns the user's durable cart, the newest
// PENDING order, creating one when none exists. The row is locked FOR
// UPDATE so two concurrent logins cannot both create or both merge.
func findOrCreatePendingOrder(tx *gorm.DB, userID uint) (*models.Order, error) {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("OrderItems").
		Where("user_id = ? AND status = ?", userID, models.OrderStatusPending).
		Order("id DESC").
		First(&order).Error
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order = models.Order{
		UserID:      &userID,
		Status:      models.OrderStatusPending,
		ServiceType: models.ServiceTypeDineIn,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// mergeLinesIntoOrder folds cart lines into the order's items. A line
// matching an existing item adds its quantity; new items snapshot the
// current catalog price. Unknown or inactive menu ids are skipped.
func mergeLinesIntoOrder(tx *gorm.DB, order *models.Order, lines []utils.CartLine) error {
	existing := map[uint]*models.OrderItem{}
	for i := range order.OrderItems {
		existing[order.OrderItems[i].MenuItemID] = &order.OrderItems[i]
	}

	for _, line := range lines {
		item, err := menuItemByID(line.ID)
		if err != nil || !item.IsActive {
			utils.LogDebug("Skipping unavailable menu item ID: %d during merge", line.ID)
			continue
		}

		if oi, ok := existing[line.ID]; ok {
			updates := map[string]interface{}{
				"quantity":   oi.Quantity + line.Quantity,
				"unit_price": item.Price,
			}
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", oi.ID).Updates(updates).Error; err != nil {
				return err
			}
			oi.Quantity += line.Quantity
			oi.UnitPrice = item.Price
			continue
		}

		oi := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.ID,
			Quantity:   line.Quantity,
			UnitPrice:  item.Price,
		}
		if err := tx.Create(&oi).Error; err != nil {
			return err
		}
		order.OrderItems = append(order.OrderItems, oi)
		existing[line.ID] = &order.OrderItems[len(order.OrderItems)-1]
	}
	return nil
}

// rebuildOrderLines replaces the order's items with the given lines.
// Used wherever lines describe the full desired cart, including when
// they were derived from this very order; merging would double them.
func rebuildOrderLines(tx *gorm.DB, order *models.Order, lines []utils.CartLine) error {
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	order.OrderItems = nil
	return mergeLinesIntoOrder(tx, order, lines)
}

// mergeSessionCartIntoUserOrder moves the session cart into the user's
// pending order inside one transaction, then empties the session cart.
// Returns the order id and whether anything was merged.
func mergeSessionCartIntoUserOrder(c *gin.Context, user *models.User) (uint, bool, error) {
	lines := utils.CartFromSession(c)
	if len(lines) == 0 {
		return 0, false, nil
	}

	var orderID uint
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		order, err := findOrCreatePendingOrder(tx, user.ID)
		if err != nil {
			return err
		}
		if err := mergeLinesIntoOrder(tx, order, lines); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	if err := utils.SaveCart(c, nil); err != nil {
		utils.LogError("Failed to clear session cart after merge: %v", err)
	}
	return orderID, true, nil
}

// MergeCart explicitly folds the session cart into the authenticated
// user's pending order. The login flows call the same merge; this
// endpoint covers clients that authenticate out of band.
func MergeCart(c *gin.Context) {
	utils.LogInfo("MergeCart called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	user := userVal.(models.User)

	orderID, merged, err := mergeSessionCartIntoUserOrder(c, &user)
	if err != nil {
		utils.LogError("Cart merge failed for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to merge cart", nil)
		return
	}
	if !merged {
		utils.Success(c, "Nothing to merge", gin.H{"merged": false})
		return
	}

	utils.LogInfo("Merged session cart into order ID: %d for user ID: %d", orderID, user.ID)
	utils.Success(c, "Cart merged", gin.H{"merged": true, "order_id": orderID})
}
