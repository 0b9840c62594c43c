package controllers

import (
	"net/http"
	"testing"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB swaps config.DB for an in-memory database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.Payment{},
	))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

// stubPaymentLink replaces the provider call for the duration of a test.
func stubPaymentLink(t *testing.T) {
	t.Helper()
	prev := createPaymentLink
	createPaymentLink = func(order *models.Order, payment *models.Payment) (string, string, error) {
		return "plink_test", "https://pay.test/plink_test", nil
	}
	t.Cleanup(func() { createPaymentLink = prev })
}

func checkoutRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("rms_session", store))
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", *user)
		}
		c.Next()
	})
	router.POST("/orders", PlaceOrder)
	return router
}

func TestPlaceOrder_RepeatedCheckoutKeepsCartQuantities(t *testing.T) {
	db := setupTestDB(t)
	stubPaymentLink(t)

	user := models.User{Username: "diner", Email: "diner@example.com"}
	require.NoError(t, db.Create(&user).Error)
	item := models.MenuItem{Name: "Margherita Pizza", Price: 9.99, IsActive: true}
	require.NoError(t, db.Create(&item).Error)
	stubMenu(t, map[uint]models.MenuItem{item.ID: item})

	// The durable cart: a pending order holding two of the item.
	userID := user.ID
	order := models.Order{
		UserID: &userID,
		Status: models.OrderStatusPending,
		OrderItems: []models.OrderItem{
			{MenuItemID: item.ID, Quantity: 2, UnitPrice: item.Price},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	router := checkoutRouter(&user)

	// Checkout with no items in the body sources the lines from the
	// pending order itself; quantities must not be summed with
	// themselves, and a retry must not grow them either.
	for attempt := 0; attempt < 2; attempt++ {
		w, _ := doJSON(router, http.MethodPost, "/orders", gin.H{"service_type": "takeaway"}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var items []models.OrderItem
		require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)

		var reloaded models.Order
		require.NoError(t, db.First(&reloaded, order.ID).Error)
		assert.InDelta(t, 19.98, reloaded.Subtotal, 0.001)
		assert.InDelta(t, 19.98, reloaded.GrandTotal, 0.001)
	}
}

func TestPlaceOrder_BodyItemsReplaceDurableCart(t *testing.T) {
	db := setupTestDB(t)
	stubPaymentLink(t)

	user := models.User{Username: "diner2", Email: "diner2@example.com"}
	require.NoError(t, db.Create(&user).Error)
	pizza := models.MenuItem{Name: "Margherita Pizza", Price: 9.99, IsActive: true}
	momo := models.MenuItem{Name: "Chicken Momo", Price: 7.50, IsActive: true}
	require.NoError(t, db.Create(&pizza).Error)
	require.NoError(t, db.Create(&momo).Error)
	stubMenu(t, map[uint]models.MenuItem{pizza.ID: pizza, momo.ID: momo})

	userID := user.ID
	order := models.Order{
		UserID: &userID,
		Status: models.OrderStatusPending,
		OrderItems: []models.OrderItem{
			{MenuItemID: pizza.ID, Quantity: 2, UnitPrice: pizza.Price},
		},
	}
	require.NoError(t, db.Create(&order).Error)

	router := checkoutRouter(&user)
	body := gin.H{
		"service_type": "takeaway",
		"items":        []gin.H{{"menu_item_id": momo.ID, "quantity": 3}},
	}
	w, _ := doJSON(router, http.MethodPost, "/orders", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var items []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, momo.ID, items[0].MenuItemID)
	assert.Equal(t, 3, items[0].Quantity)
}
