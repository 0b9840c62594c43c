package controllers

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
)

const menuCacheKey = "menu:active"
const menuCacheTTL = 5 * time.Minute

// menuItemByID resolves a catalog item for cart/order pricing. A
// package variable so tests can stub the catalog out.
var menuItemByID = func(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := config.DB.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// cachedActiveMenu reads the menu from Redis. Any cache failure is
// treated as a miss; the menu is always servable from the database.
func cachedActiveMenu(ctx context.Context) []models.MenuItem {
	if config.RDB == nil {
		return nil
	}
	data, err := config.RDB.Get(ctx, menuCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		utils.LogError("Failed to decode cached menu: %v", err)
		return nil
	}
	return items
}

func cacheActiveMenu(ctx context.Context, items []models.MenuItem) {
	if config.RDB == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := config.RDB.Set(ctx, menuCacheKey, data, menuCacheTTL).Err(); err != nil {
		utils.LogDebug("Menu cache write failed: %v", err)
	}
}

func invalidateMenuCache(ctx context.Context) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(ctx, menuCacheKey).Err(); err != nil {
		utils.LogDebug("Menu cache invalidation failed: %v", err)
	}
}

// CreateDefaultMenu seeds a starter category and a few dishes so a
// fresh install has something to sell.
func CreateDefaultMenu() error {
	var count int64
	if err := config.DB.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	category := models.MenuCategory{Name: "Mains", Description: "House mains"}
	if err := config.DB.Create(&category).Error; err != nil {
		return err
	}

	items := []models.MenuItem{
		{Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Price: 9.99, CategoryID: category.ID, IsActive: true},
		{Name: "Chicken Momo", Description: "Steamed dumplings, ten pieces", Price: 7.50, CategoryID: category.ID, IsActive: true},
		{Name: "Dal Bhat Set", Description: "Lentils, rice, seasonal vegetables", Price: 11.25, CategoryID: category.ID, IsActive: true},
	}
	if err := config.DB.Create(&items).Error; err != nil {
		return err
	}
	utils.LogInfo("Seeded default menu with %d items", len(items))
	return nil
}

// ListMenuItems returns the active menu, cache-first
func ListMenuItems(c *gin.Context) {
	utils.LogInfo("ListMenuItems called")

	// Category filter bypasses the cache; the cached entry is the full menu.
	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := strconv.Atoi(categoryID)
		if err != nil {
			utils.BadRequest(c, "Invalid category_id", nil)
			return
		}
		var items []models.MenuItem
		if err := config.DB.Where("category_id = ? AND is_active = ?", id, true).Order("name").Find(&items).Error; err != nil {
			utils.LogError("Failed to fetch menu items: %v", err)
			utils.InternalServerError(c, "Failed to fetch menu", nil)
			return
		}
		utils.Success(c, "Menu retrieved", gin.H{"items": items})
		return
	}

	ctx := c.Request.Context()
	if items := cachedActiveMenu(ctx); items != nil {
		utils.LogDebug("Serving menu from cache, %d items", len(items))
		utils.Success(c, "Menu retrieved", gin.H{"items": items})
		return
	}

	var items []models.MenuItem
	if err := config.DB.Preload("Category").Where("is_active = ?", true).Order("category_id, name").Find(&items).Error; err != nil {
		utils.LogError("Failed to fetch menu items: %v", err)
		utils.InternalServerError(c, "Failed to fetch menu", nil)
		return
	}
	cacheActiveMenu(ctx, items)

	utils.Success(c, "Menu retrieved", gin.H{"items": items})
}

// GetMenuItem returns a single dish
func GetMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid menu item ID", nil)
		return
	}

	var item models.MenuItem
	if err := config.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.NotFound(c, "Menu item not found")
		return
	}
	utils.Success(c, "Menu item retrieved", gin.H{"item": item})
}

// ListCategories returns all menu categories
func ListCategories(c *gin.Context) {
	var categories []models.MenuCategory
	if err := config.DB.Order("name").Find(&categories).Error; err != nil {
		utils.LogError("Failed to fetch categories: %v", err)
		utils.InternalServerError(c, "Failed to fetch categories", nil)
		return
	}
	utils.Success(c, "Categories retrieved", gin.H{"categories": categories})
}

// CreateMenuItem adds a dish (admin)
func CreateMenuItem(c *gin.Context) {
	utils.LogInfo("CreateMenuItem called")

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required,gt=0"`
		ImageURL    string  `json:"image_url"`
		CategoryID  uint    `json:"category_id" binding:"required"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var category models.MenuCategory
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.LogError("Failed to create menu item: %v", err)
		utils.InternalServerError(c, "Failed to create menu item", nil)
		return
	}

	invalidateMenuCache(c.Request.Context())
	utils.Created(c, "Menu item created", gin.H{"item": item})
}

// UpdateMenuItem edits a dish (admin)
func UpdateMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid menu item ID", nil)
		return
	}

	var item models.MenuItem
	if err := config.DB.First(&item, id).Error; err != nil {
		utils.NotFound(c, "Menu item not found")
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		ImageURL    *string  `json:"image_url"`
		CategoryID  *uint    `json:"category_id"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.BadRequest(c, "Price must be positive", nil)
			return
		}
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := config.DB.Model(&item).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update menu item ID: %d: %v", item.ID, err)
		utils.InternalServerError(c, "Failed to update menu item", nil)
		return
	}

	invalidateMenuCache(c.Request.Context())
	utils.Success(c, "Menu item updated", gin.H{"item": item})
}

// DeleteMenuItem removes a dish (admin)
func DeleteMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid menu item ID", nil)
		return
	}

	if err := config.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		utils.LogError("Failed to delete menu item ID: %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete menu item", nil)
		return
	}

	invalidateMenuCache(c.Request.Context())
	utils.Success(c, "Menu item deleted", nil)
}
