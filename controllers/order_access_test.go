package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/rivalsxninjax1/rms/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderAccessRouter wires the order-scoped endpoints a browser or guest
// hits, with an optional fixed authenticated user.
func orderAccessRouter(user *models.User) *gin.Engine {
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
	router.POST("/orders/:id/pay", InitiatePayment)
	router.GET("/payments/success", CheckoutSuccess)
	return router
}

func TestGuestOrder_VisibleOnlyToPlacingSession(t *testing.T) {
	db := setupTestDB(t)
	stubPaymentLink(t)

	item := models.MenuItem{Name: "Chicken Momo", Price: 7.50, IsActive: true}
	require.NoError(t, db.Create(&item).Error)
	stubMenu(t, map[uint]models.MenuItem{item.ID: item})

	router := orderAccessRouter(nil)

	body := gin.H{
		"service_type": "takeaway",
		"items":        []gin.H{{"menu_item_id": item.ID, "quantity": 2}},
	}
	w, placingCookies := doJSON(router, http.MethodPost, "/orders", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(cartData(t, w)["id"].(float64))
	require.NotZero(t, orderID)

	successPath := fmt.Sprintf("/payments/success?order_id=%d", orderID)

	// The session that placed the order can see it.
	w, _ = doJSON(router, http.MethodGet, successPath, nil, placingCookies)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// A fresh anonymous session cannot, even with the right id.
	w, _ = doJSON(router, http.MethodGet, successPath, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(router, http.MethodPost, fmt.Sprintf("/orders/%d/pay", orderID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuestOrder_HiddenFromAuthenticatedStrangers(t *testing.T) {
	db := setupTestDB(t)
	stubPaymentLink(t)

	item := models.MenuItem{Name: "Dal Bhat", Price: 11.25, IsActive: true}
	require.NoError(t, db.Create(&item).Error)
	stubMenu(t, map[uint]models.MenuItem{item.ID: item})

	guestRouter := orderAccessRouter(nil)
	body := gin.H{
		"service_type": "takeaway",
		"items":        []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
	}
	w, _ := doJSON(guestRouter, http.MethodPost, "/orders", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := uint(cartData(t, w)["id"].(float64))

	stranger := models.User{Username: "stranger", Email: "stranger@example.com"}
	require.NoError(t, db.Create(&stranger).Error)

	strangerRouter := orderAccessRouter(&stranger)
	w, _ = doJSON(strangerRouter, http.MethodGet, fmt.Sprintf("/payments/success?order_id=%d", orderID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserOrder_HiddenFromGuestsAndOtherUsers(t *testing.T) {
	db := setupTestDB(t)

	owner := models.User{Username: "owner", Email: "owner@example.com"}
	other := models.User{Username: "other", Email: "other@example.com"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	ownerID := owner.ID
	order := models.Order{UserID: &ownerID, Status: models.OrderStatusPending, GrandTotal: 5}
	require.NoError(t, db.Create(&order).Error)

	successPath := fmt.Sprintf("/payments/success?order_id=%d", order.ID)

	w, _ := doJSON(orderAccessRouter(&owner), http.MethodGet, successPath, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(orderAccessRouter(&other), http.MethodGet, successPath, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(orderAccessRouter(nil), http.MethodGet, successPath, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
