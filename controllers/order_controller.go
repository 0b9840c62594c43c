package controllers

import (
	"strings"
	"time"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// nowFunc is stubbed in tests that exercise coupon validity windows.
var nowFunc = time.Now

// serviceTypeAliases maps loose client spellings to canonical channels.
var serviceTypeAliases = map[string]string{
	"DINE_IN":   models.ServiceTypeDineIn,
	"DINEIN":    models.ServiceTypeDineIn,
	"DINE-IN":   models.ServiceTypeDineIn,
	"IN":        models.ServiceTypeDineIn,
	"TAKEAWAY":  models.ServiceTypeTakeaway,
	"TAKE_AWAY": models.ServiceTypeTakeaway,
	"TAKE-AWAY": models.ServiceTypeTakeaway,
	"PICKUP":    models.ServiceTypeTakeaway,
	"UBEREATS":  models.ServiceTypeUberEats,
	"UBER_EATS": models.ServiceTypeUberEats,
	"UBER":      models.ServiceTypeUberEats,
	"DOORDASH":  models.ServiceTypeDoorDash,
	"DOOR_DASH": models.ServiceTypeDoorDash,
}

func normalizeServiceType(raw string) (string, bool) {
	st, ok := serviceTypeAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return st, ok
}

// resolveServiceType picks the channel for checkout: an explicit value
// in the request wins, then the session cart preference, then DINE_IN.
func resolveServiceType(c *gin.Context, bodyValue string) (string, bool) {
	if bodyValue != "" {
		return normalizeServiceType(bodyValue)
	}
	if meta := utils.CartMetaFromSession(c); meta.ServiceType != "" {
		if st, ok := normalizeServiceType(meta.ServiceType); ok {
			return st, true
		}
	}
	return models.ServiceTypeDineIn, true
}

// orderAccessible reports whether the caller may read this order: the
// owning user (by token or by cookie session), or the anonymous session
// that placed a guest order. Everyone else sees a 404.
func orderAccessible(c *gin.Context, order *models.Order) bool {
	if order.UserID != nil {
		if user, ok := sessionUser(c); ok {
			return *order.UserID == user.ID
		}
		session := sessions.Default(c)
		if uid, ok := session.Get(utils.SessionKeyUserID).(uint); ok {
			return uid == *order.UserID
		}
		return false
	}
	if _, ok := sessionUser(c); ok {
		return false
	}
	for _, id := range utils.GuestOrdersFromSession(c) {
		if id == order.ID {
			return true
		}
	}
	return false
}

// loyaltyPercentForUser returns the configured reward percent for
// returning customers, zero for guests and newer accounts.
func loyaltyPercentForUser(user *models.User) int {
	if user == nil {
		return 0
	}
	cfg, err := config.LoadConfig()
	if err != nil || cfg.LoyaltyRewardPercent <= 0 {
		return 0
	}

	var paid int64
	if err := config.DB.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", user.ID, models.OrderStatusPaid).
		Count(&paid).Error; err != nil {
		utils.LogError("Failed to count paid orders for user ID: %d: %v", user.ID, err)
		return 0
	}
	if paid < int64(cfg.LoyaltyMinPaidOrders) {
		return 0
	}
	return cfg.LoyaltyRewardPercent
}

// couponPercentForCode validates a code against the coupon table and
// returns its percent, zero when the code is empty or unusable.
func couponPercentForCode(tx *gorm.DB, code string) (int, *models.Coupon) {
	if code == "" {
		return 0, nil
	}
	var coupon models.Coupon
	if err := tx.Where("UPPER(code) = UPPER(?)", code).First(&coupon).Error; err != nil {
		return 0, nil
	}
	if !coupon.UsableAt(nowFunc()) {
		return 0, nil
	}
	return coupon.Percent, &coupon
}

// recalcOrderTotals reprices an order from its items and writes the
// monetary columns back. Totals are always derived, never trusted from
// a previous write.
func recalcOrderTotals(tx *gorm.DB, order *models.Order, tipAmount, tipPercent float64, couponCode string, loyaltyPercent int) (utils.TotalsBreakdown, error) {
	var subtotal float64
	for i := range order.OrderItems {
		subtotal += order.OrderItems[i].LineTotal()
	}

	couponPercent, coupon := couponPercentForCode(tx, couponCode)
	breakdown := utils.ComputeTotals(subtotal, tipAmount, tipPercent, couponPercent, loyaltyPercent)

	order.Subtotal = breakdown.Subtotal
	order.TipAmount = breakdown.Tip
	order.DiscountAmount = breakdown.Discount
	order.GrandTotal = breakdown.GrandTotal
	order.DiscountCode = ""
	if coupon != nil {
		order.DiscountCode = coupon.Code
	}

	err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"subtotal":        order.Subtotal,
		"tip_amount":      order.TipAmount,
		"discount_amount": order.DiscountAmount,
		"discount_code":   order.DiscountCode,
		"grand_total":     order.GrandTotal,
	}).Error
	return breakdown, err
}

// PlaceOrder assembles an order from the request plus the caller's cart
// and routes it to the right payment path. Dine-in and takeaway get a
// hosted checkout link; aggregator channels get external deep links.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")

	var req struct {
		Items       []map[string]interface{} `json:"items"`
		ServiceType string                   `json:"service_type"`
		TableNumber int                      `json:"table_number"`
		TipAmount   float64                  `json:"tip_amount"`
		TipPercent  float64                  `json:"tip_percent"`
		CouponCode  string                   `json:"coupon_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	serviceType, ok := resolveServiceType(c, req.ServiceType)
	if !ok {
		utils.BadRequest(c, "Unknown service type", gin.H{"service_type": req.ServiceType})
		return
	}

	// The request body may carry items directly; otherwise the caller's
	// cart (pending order or session) is the source.
	lines := utils.NormalizeCartItems(req.Items)
	if len(lines) == 0 {
		current, _, err := currentCartLines(c)
		if err != nil {
			utils.LogError("Failed to load cart: %v", err)
			utils.InternalServerError(c, "Failed to place order", nil)
			return
		}
		lines = current
	}
	if len(lines) == 0 {
		utils.BadRequest(c, "Cart is empty", nil)
		return
	}

	tableNumber := req.TableNumber
	if tableNumber == 0 {
		tableNumber = utils.CartMetaFromSession(c).TableNumber
	}
	if serviceType == models.ServiceTypeDineIn && tableNumber <= 0 {
		utils.BadRequest(c, "Table number is required for dine-in", nil)
		return
	}

	couponCode := req.CouponCode
	if couponCode == "" {
		couponCode = utils.CouponCodeFromSession(c)
	}

	user, _ := sessionUser(c)
	loyaltyPercent := loyaltyPercentForUser(user)

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	var order *models.Order
	var breakdown utils.TotalsBreakdown
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if user != nil {
			order, err = findOrCreatePendingOrder(tx, user.ID)
			if err != nil {
				return err
			}
		} else {
			order = &models.Order{Status: models.OrderStatusPending}
			if err := tx.Create(order).Error; err != nil {
				return err
			}
		}

		if err := rebuildOrderLines(tx, order, lines); err != nil {
			return err
		}
		if len(order.OrderItems) == 0 {
			return utils.BadRequestError("No orderable items in cart", nil)
		}

		order.ServiceType = serviceType
		order.TableNumber = tableNumber
		order.Currency = cfg.PaymentCurrency
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"service_type": order.ServiceType,
			"table_number": order.TableNumber,
			"currency":     order.Currency,
		}).Error; err != nil {
			return err
		}

		breakdown, err = recalcOrderTotals(tx, order, req.TipAmount, req.TipPercent, couponCode, loyaltyPercent)
		return err
	})
	if err != nil {
		utils.LogError("Failed to place order: %v", err)
		utils.RespondWithError(c, err)
		return
	}

	if user == nil {
		if err := utils.AppendGuestOrder(c, order.ID); err != nil {
			utils.LogError("Failed to bind order ID: %d to guest session: %v", order.ID, err)
		}
	}

	payload := gin.H{
		"id":           order.ID,
		"status":       order.Status,
		"service_type": order.ServiceType,
		"currency":     order.Currency,
		"subtotal":     breakdown.Subtotal,
		"tip":          breakdown.Tip,
		"discount":     breakdown.Discount,
		"total":        breakdown.GrandTotal,
		"eta_minutes":  15,
	}

	switch order.ServiceType {
	case models.ServiceTypeDineIn, models.ServiceTypeTakeaway:
		checkoutURL, err := beginHostedCheckout(order)
		if err != nil {
			utils.LogError("Checkout link creation failed for order ID: %d: %v", order.ID, err)
			utils.RespondWithError(c, err)
			return
		}
		payload["checkout_url"] = checkoutURL
	case models.ServiceTypeUberEats:
		payload["external_options"] = gin.H{"ubereats": cfg.UberEatsOrderURL}
	case models.ServiceTypeDoorDash:
		payload["external_options"] = gin.H{"doordash": cfg.DoorDashOrderURL}
	}

	utils.LogInfo("Placed order ID: %d via %s, total: %.2f", order.ID, order.ServiceType, breakdown.GrandTotal)
	utils.Created(c, "Order placed", payload)
}
