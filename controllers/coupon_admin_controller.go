package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
)

// ListCoupons returns all coupons for the admin panel
func ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := config.DB.Order("id DESC").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to fetch coupons: %v", err)
		utils.InternalServerError(c, "Failed to fetch coupons", nil)
		return
	}
	utils.Success(c, "Coupons retrieved", gin.H{"coupons": coupons})
}

// CreateCoupon adds a percent-off coupon (admin)
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req struct {
		Code      string     `json:"code" binding:"required"`
		Percent   int        `json:"percent" binding:"required,gt=0,lte=100"`
		Phrase    string     `json:"phrase"`
		Active    *bool      `json:"active"`
		ValidFrom *time.Time `json:"valid_from"`
		ValidTo   *time.Time `json:"valid_to"`
		MaxUses   *int       `json:"max_uses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	var existing models.Coupon
	if err := config.DB.Where("UPPER(code) = ?", code).First(&existing).Error; err == nil {
		utils.Conflict(c, "A coupon with that code already exists", gin.H{"code": code})
		return
	}

	coupon := models.Coupon{
		Code:      code,
		Percent:   req.Percent,
		Phrase:    req.Phrase,
		Active:    true,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		MaxUses:   req.MaxUses,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	utils.LogInfo("Created coupon %s at %d%%", coupon.Code, coupon.Percent)
	utils.Created(c, "Coupon created", gin.H{"coupon": coupon})
}

// UpdateCoupon edits a coupon (admin)
func UpdateCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, id).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req struct {
		Percent   *int       `json:"percent"`
		Phrase    *string    `json:"phrase"`
		Active    *bool      `json:"active"`
		ValidFrom *time.Time `json:"valid_from"`
		ValidTo   *time.Time `json:"valid_to"`
		MaxUses   *int       `json:"max_uses"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Percent != nil {
		if *req.Percent <= 0 || *req.Percent > 100 {
			utils.BadRequest(c, "Percent must be between 1 and 100", nil)
			return
		}
		updates["percent"] = *req.Percent
	}
	if req.Phrase != nil {
		updates["phrase"] = *req.Phrase
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidTo != nil {
		updates["valid_to"] = *req.ValidTo
	}
	if req.MaxUses != nil {
		updates["max_uses"] = *req.MaxUses
	}

	if err := config.DB.Model(&coupon).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update coupon ID: %d: %v", coupon.ID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}

	utils.Success(c, "Coupon updated", gin.H{"coupon": coupon})
}

// DeleteCoupon soft-deletes a coupon (admin)
func DeleteCoupon(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	if err := config.DB.Delete(&models.Coupon{}, id).Error; err != nil {
		utils.LogError("Failed to delete coupon ID: %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}
	utils.Success(c, "Coupon deleted", nil)
}
