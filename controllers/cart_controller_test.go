package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubMenu replaces the catalog lookup for the duration of a test.
func stubMenu(t *testing.T, items map[uint]models.MenuItem) {
	t.Helper()
	prev := menuItemByID
	menuItemByID = func(id uint) (*models.MenuItem, error) {
		if item, ok := items[id]; ok {
			return &item, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	t.Cleanup(func() { menuItemByID = prev })
}

func cartRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("rms_session", store))
	router.GET("/cart", GetCart)
	router.PUT("/cart", ReplaceCart)
	router.POST("/cart/items", AddCartItem)
	router.DELETE("/cart/items", RemoveCartItem)
	router.POST("/cart/meta", SetCartMeta)
	return router
}

// doJSON issues a request carrying the session cookies from previous
// responses so the guest cart persists across calls.
func doJSON(router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		cookies = set
	}
	return w, cookies
}

func cartData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestGuestCart_AddSameItemTwiceMergesQuantity(t *testing.T) {
	stubMenu(t, map[uint]models.MenuItem{
		5: {Name: "Margherita Pizza", Price: 9.99, IsActive: true},
	})
	router := cartRouter()

	var cookies []*http.Cookie
	w, cookies := doJSON(router, http.MethodPost, "/cart/items", gin.H{"menu_item_id": 5, "quantity": 1}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w, cookies = doJSON(router, http.MethodPost, "/cart/items", gin.H{"product": "5", "qty": 1}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(router, http.MethodGet, "/cart", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	data := cartData(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, float64(5), line["menu_item_id"])
	assert.Equal(t, float64(2), line["quantity"])
	assert.InDelta(t, 19.98, data["subtotal"].(float64), 0.001)
}

func TestGuestCart_ReplaceNormalizesPayload(t *testing.T) {
	stubMenu(t, map[uint]models.MenuItem{
		1: {Name: "Momo", Price: 7.50, IsActive: true},
		2: {Name: "Dal Bhat", Price: 11.25, IsActive: true},
	})
	router := cartRouter()

	body := gin.H{"items": []gin.H{
		{"menu_item": 1, "qty": 2},
		{"id": 2},
		{"id": "junk"},
		{"id": 1, "quantity": 1},
	}}
	w, cookies := doJSON(router, http.MethodPut, "/cart", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(router, http.MethodGet, "/cart", nil, cookies)
	data := cartData(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["menu_item_id"])
	assert.Equal(t, float64(3), first["quantity"])
	assert.InDelta(t, 7.50*3+11.25, data["subtotal"].(float64), 0.001)
}

func TestGuestCart_RemoveItem(t *testing.T) {
	stubMenu(t, map[uint]models.MenuItem{
		1: {Name: "Momo", Price: 7.50, IsActive: true},
		2: {Name: "Dal Bhat", Price: 11.25, IsActive: true},
	})
	router := cartRouter()

	body := gin.H{"items": []gin.H{{"id": 1, "quantity": 1}, {"id": 2, "quantity": 1}}}
	w, cookies := doJSON(router, http.MethodPut, "/cart", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, cookies = doJSON(router, http.MethodDelete, "/cart/items", gin.H{"id": 1}, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(router, http.MethodGet, "/cart", nil, cookies)
	data := cartData(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["menu_item_id"])
}

func TestGuestCart_AddUnknownItemRejected(t *testing.T) {
	stubMenu(t, map[uint]models.MenuItem{})
	router := cartRouter()

	w, _ := doJSON(router, http.MethodPost, "/cart/items", gin.H{"id": 99}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuestCart_MissingLookupDoesNotDropLine(t *testing.T) {
	stubMenu(t, map[uint]models.MenuItem{
		1: {Name: "Momo", Price: 7.50, IsActive: true},
		2: {Name: "Dal Bhat", Price: 11.25, IsActive: true},
	})
	router := cartRouter()

	body := gin.H{"items": []gin.H{{"id": 1, "quantity": 1}, {"id": 2, "quantity": 1}}}
	w, cookies := doJSON(router, http.MethodPut, "/cart", body, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Item 2 disappears from the catalog; the cart line must survive
	// the read with the price fields absent.
	stubMenu(t, map[uint]models.MenuItem{
		1: {Name: "Momo", Price: 7.50, IsActive: true},
	})

	w, _ = doJSON(router, http.MethodGet, "/cart", nil, cookies)
	data := cartData(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 2)
	bare := items[1].(map[string]interface{})
	assert.Equal(t, float64(2), bare["menu_item_id"])
	_, hasPrice := bare["unit_price"]
	assert.False(t, hasPrice)
	assert.InDelta(t, 7.50, data["subtotal"].(float64), 0.001)
}

func TestSetCartMeta_ValidatesServiceType(t *testing.T) {
	router := cartRouter()

	w, cookies := doJSON(router, http.MethodPost, "/cart/meta", gin.H{"service_type": "pickup", "table_number": 4}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := cartData(t, w)
	assert.Equal(t, models.ServiceTypeTakeaway, data["service_type"])
	assert.Equal(t, float64(4), data["table_number"])

	w, _ = doJSON(router, http.MethodPost, "/cart/meta", gin.H{"service_type": "spaceship"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrichCartLines_Subtotal(t *testing.T) {
	stubMenu(t, map[uint]models.MenuItem{
		1: {Name: "Momo", Price: 7.50, IsActive: true},
	})

	items, subtotal := enrichCartLines([]utils.CartLine{{ID: 1, Quantity: 3}})
	require.Len(t, items, 1)
	assert.Equal(t, "Momo", items[0]["name"])
	assert.InDelta(t, 22.50, subtotal, 0.001)
}
