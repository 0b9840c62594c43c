package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rivalsxninjax1/rms/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhooks/razorpay", RazorpayWebhook)
	return router
}

func signBody(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/razorpay", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRazorpayWebhook_RejectsBadSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	router := webhookRouter()

	body := []byte(`{"event":"payment_link.paid"}`)
	w := postWebhook(router, body, "deadbeef")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRazorpayWebhook_RejectsMissingSignature(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	router := webhookRouter()

	w := postWebhook(router, []byte(`{"event":"payment_link.paid"}`), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRazorpayWebhook_RejectsWhenSecretUnset(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "")
	router := webhookRouter()

	body := []byte(`{"event":"payment_link.paid"}`)
	w := postWebhook(router, body, signBody("whsec", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRazorpayWebhook_AcksUnknownEvent(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	router := webhookRouter()

	body := []byte(`{"event":"refund.created","payload":{}}`)
	w := postWebhook(router, body, signBody("whsec", body))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRazorpayWebhook_AcksEventWithoutOrderID(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	router := webhookRouter()

	body := []byte(`{"event":"payment_link.paid","payload":{"payment_link":{"entity":{"id":"plink_1","reference_id":"unrelated"}}}}`)
	w := postWebhook(router, body, signBody("whsec", body))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRazorpayWebhook_AcksMalformedJSON(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec")
	router := webhookRouter()

	body := []byte(`{"event": `)
	w := postWebhook(router, body, signBody("whsec", body))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMarkOrderPaid_RedeliveryCountsCouponOnce(t *testing.T) {
	db := setupTestDB(t)

	coupon := models.Coupon{Code: "WELCOME10", Percent: 10, Active: true}
	require.NoError(t, db.Create(&coupon).Error)

	order := models.Order{
		Status:       models.OrderStatusPending,
		DiscountCode: "WELCOME10",
		GrandTotal:   18.0,
		Currency:     "INR",
	}
	require.NoError(t, db.Create(&order).Error)
	payment := models.Payment{OrderID: order.ID, Amount: 18.0, Currency: "INR"}
	require.NoError(t, db.Create(&payment).Error)

	got, transitioned, err := markOrderPaid(order.ID, "pay_1")
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.OrderStatusPaid, got.Status)

	// Providers redeliver events. The second call must lose the status
	// guard and leave the payment and the coupon counter untouched.
	_, transitioned, err = markOrderPaid(order.ID, "pay_1")
	require.NoError(t, err)
	assert.False(t, transitioned)

	var usedCoupon models.Coupon
	require.NoError(t, db.First(&usedCoupon, coupon.ID).Error)
	assert.Equal(t, 1, usedCoupon.TimesUsed)

	var paidPayment models.Payment
	require.NoError(t, db.First(&paidPayment, payment.ID).Error)
	assert.True(t, paidPayment.IsPaid)
	assert.Equal(t, "pay_1", paidPayment.RazorpayPaymentID)
}

func TestMarkOrderPaid_FailedOrderStaysFailed(t *testing.T) {
	db := setupTestDB(t)

	order := models.Order{Status: models.OrderStatusFailed, GrandTotal: 12.0, Currency: "INR"}
	require.NoError(t, db.Create(&order).Error)

	_, transitioned, err := markOrderPaid(order.ID, "pay_2")
	require.NoError(t, err)
	assert.False(t, transitioned)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusFailed, reloaded.Status)
}

func TestOrderIDFromEvent(t *testing.T) {
	var event webhookEvent
	event.Payload.PaymentLink.Entity.ReferenceID = "order_42"
	id, ok := orderIDFromEvent(&event)
	require.True(t, ok)
	assert.Equal(t, uint(42), id)

	event = webhookEvent{}
	event.Payload.Payment.Entity.Notes = map[string]interface{}{"order_id": "17"}
	id, ok = orderIDFromEvent(&event)
	require.True(t, ok)
	assert.Equal(t, uint(17), id)

	event = webhookEvent{}
	event.Payload.Order.Entity.Notes = map[string]interface{}{"order_id": float64(9)}
	id, ok = orderIDFromEvent(&event)
	require.True(t, ok)
	assert.Equal(t, uint(9), id)

	event = webhookEvent{}
	event.Payload.PaymentLink.Entity.ReferenceID = "order_zero"
	_, ok = orderIDFromEvent(&event)
	assert.False(t, ok)
}
