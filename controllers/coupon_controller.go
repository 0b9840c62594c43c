package controllers

import (
	"strings"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ValidateCoupon checks a code without applying it, so the front-end
// can show the discount before checkout.
func ValidateCoupon(c *gin.Context) {
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		utils.BadRequest(c, "Coupon code is required", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.Where("UPPER(code) = UPPER(?)", code).First(&coupon).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}
	if !coupon.UsableAt(nowFunc()) {
		utils.BadRequest(c, "Coupon is not currently valid", gin.H{"code": coupon.Code})
		return
	}

	utils.Success(c, "Coupon is valid", gin.H{
		"code":    coupon.Code,
		"percent": coupon.Percent,
		"phrase":  coupon.Phrase,
	})
}

// ApplyCouponToSession stores a validated code on the session so it is
// picked up at checkout.
func ApplyCouponToSession(c *gin.Context) {
	utils.LogInfo("ApplyCouponToSession called")

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	code := strings.TrimSpace(req.Code)
	var coupon models.Coupon
	if err := config.DB.Where("UPPER(code) = UPPER(?)", code).First(&coupon).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}
	if !coupon.UsableAt(nowFunc()) {
		utils.BadRequest(c, "Coupon is not currently valid", gin.H{"code": coupon.Code})
		return
	}

	if err := utils.SaveCouponCode(c, coupon.Code); err != nil {
		utils.LogError("Failed to save coupon code to session: %v", err)
		utils.InternalServerError(c, "Failed to apply coupon", nil)
		return
	}

	utils.Success(c, "Coupon applied", gin.H{
		"code":    coupon.Code,
		"percent": coupon.Percent,
	})
}

// RemoveCouponFromSession drops the session's coupon code
func RemoveCouponFromSession(c *gin.Context) {
	if err := utils.SaveCouponCode(c, ""); err != nil {
		utils.LogError("Failed to clear coupon code: %v", err)
		utils.InternalServerError(c, "Failed to remove coupon", nil)
		return
	}
	utils.Success(c, "Coupon removed", nil)
}

// ApplyCouponToOrder reprices an existing pending order with a coupon
func ApplyCouponToOrder(c *gin.Context) {
	utils.LogInfo("ApplyCouponToOrder called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "Please login for access")
		return
	}
	user := userVal.(models.User)

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	code := strings.TrimSpace(req.Code)
	var coupon models.Coupon
	if err := config.DB.Where("UPPER(code) = UPPER(?)", code).First(&coupon).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}
	if !coupon.UsableAt(nowFunc()) {
		utils.BadRequest(c, "Coupon is not currently valid", gin.H{"code": coupon.Code})
		return
	}

	var order *models.Order
	var breakdown utils.TotalsBreakdown
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = findOrCreatePendingOrder(tx, user.ID)
		if err != nil {
			return err
		}
		breakdown, err = recalcOrderTotals(tx, order, order.TipAmount, 0, coupon.Code, loyaltyPercentForUser(&user))
		return err
	})
	if err != nil {
		utils.LogError("Failed to apply coupon to order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to apply coupon", nil)
		return
	}

	utils.Success(c, "Coupon applied to order", gin.H{
		"order_id": order.ID,
		"code":     coupon.Code,
		"subtotal": breakdown.Subtotal,
		"discount": breakdown.Discount,
		"total":    breakdown.GrandTotal,
	})
}
