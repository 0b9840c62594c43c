package controllers

import (
	"fmt"
	"strconv"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"
)

// ensurePayment returns the payment row for an order, creating one if
// absent. The amount is recomputed from the order on every call so a
// stale link amount can never be charged.
func ensurePayment(tx *gorm.DB, order *models.Order) (*models.Payment, error) {
	var payment models.Payment
	err := tx.Where("order_id = ?", order.ID).First(&payment).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err == gorm.ErrRecordNotFound {
		payment = models.Payment{
			OrderID:  order.ID,
			Provider: models.PaymentProviderRazorpay,
			Amount:   order.GrandTotal,
			Currency: order.Currency,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return nil, err
		}
		return &payment, nil
	}

	if payment.IsPaid {
		return &payment, nil
	}
	if payment.Amount != order.GrandTotal || payment.Currency != order.Currency {
		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"amount":   order.GrandTotal,
			"currency": order.Currency,
		}).Error; err != nil {
			return nil, err
		}
		payment.Amount = order.GrandTotal
		payment.Currency = order.Currency
	}
	return &payment, nil
}

// createPaymentLink asks Razorpay for a hosted payment link. The order
// id rides along as reference id and in the notes so the webhook can
// find its way back.
var createPaymentLink = func(order *models.Order, payment *models.Payment) (linkID, shortURL string, err error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", "", err
	}
	if cfg.RazorpayKey == "" || cfg.RazorpaySecret == "" {
		return "", "", fmt.Errorf("payment provider credentials not configured")
	}

	client := razorpay.NewClient(cfg.RazorpayKey, cfg.RazorpaySecret)
	data := map[string]interface{}{
		"amount":       int64(utils.RoundMoney(payment.Amount) * 100),
		"currency":     payment.Currency,
		"description":  fmt.Sprintf("Order #%d", order.ID),
		"reference_id": fmt.Sprintf("order_%d", order.ID),
		"notes": map[string]interface{}{
			"order_id": fmt.Sprintf("%d", order.ID),
		},
		"callback_url":    fmt.Sprintf("%s/payments/success?order_id=%d", cfg.SiteURL, order.ID),
		"callback_method": "get",
	}

	link, err := client.PaymentLink.Create(data, nil)
	if err != nil {
		return "", "", err
	}

	linkID, _ = link["id"].(string)
	shortURL, _ = link["short_url"].(string)
	if shortURL == "" {
		return "", "", fmt.Errorf("payment link response missing short_url")
	}
	return linkID, shortURL, nil
}

// beginHostedCheckout creates or refreshes the payment for an order and
// returns the hosted checkout URL.
func beginHostedCheckout(order *models.Order) (string, error) {
	var payment *models.Payment
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = ensurePayment(tx, order)
		return err
	})
	if err != nil {
		return "", err
	}
	if payment.IsPaid {
		return "", utils.BadRequestError("Order is already paid", nil)
	}
	if payment.Amount <= 0 {
		return "", utils.BadRequestError("Order total must be positive", nil)
	}

	linkID, shortURL, err := createPaymentLink(order, payment)
	if err != nil {
		return "", utils.UpstreamError("Payment provider rejected the request", err)
	}

	if err := config.DB.Model(&models.Payment{}).Where("id = ?", payment.ID).
		Update("razorpay_link_id", linkID).Error; err != nil {
		utils.LogError("Failed to store payment link id for order ID: %d: %v", order.ID, err)
	}
	return shortURL, nil
}

// InitiatePayment creates a fresh checkout link for an existing pending
// order, used when a customer abandons and returns.
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !orderAccessible(c, &order) {
		utils.NotFound(c, "Order not found")
		return
	}
	if order.Terminal() {
		utils.BadRequest(c, "Order is already settled", gin.H{"status": order.Status})
		return
	}
	if order.ServiceType != models.ServiceTypeDineIn && order.ServiceType != models.ServiceTypeTakeaway {
		utils.BadRequest(c, "Order is paid through an external channel", gin.H{"service_type": order.ServiceType})
		return
	}

	checkoutURL, err := beginHostedCheckout(&order)
	if err != nil {
		utils.LogError("Checkout link creation failed for order ID: %d: %v", order.ID, err)
		utils.RespondWithError(c, err)
		return
	}

	utils.Success(c, "Checkout link created", gin.H{
		"order_id":     order.ID,
		"checkout_url": checkoutURL,
		"amount":       order.GrandTotal,
		"currency":     order.Currency,
	})
}

// CheckoutSuccess is the customer's return landing after the hosted
// checkout. Payment truth comes from the webhook; this handler only
// reports the current state, clears the session cart for confirmed
// payments, and makes sure the invoice exists.
func CheckoutSuccess(c *gin.Context) {
	utils.LogInfo("CheckoutSuccess called")

	orderID, err := strconv.Atoi(c.Query("order_id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		utils.NotFound(c, "Order not found")
		return
	}
	if !orderAccessible(c, &order) {
		utils.NotFound(c, "Order not found")
		return
	}

	paid := order.Status == models.OrderStatusPaid
	if paid {
		if err := utils.ClearCartSession(c); err != nil {
			utils.LogError("Failed to clear cart after payment: %v", err)
		}
		if _, err := ensureInvoicePDF(&order); err != nil {
			utils.LogError("Invoice generation failed for order ID: %d: %v", order.ID, err)
		}
	}

	utils.Success(c, "Checkout complete", gin.H{
		"order_id": order.ID,
		"status":   order.Status,
		"paid":     paid,
		"total":    order.GrandTotal,
		"currency": order.Currency,
	})
}

// CheckoutCancel is the landing for an abandoned checkout. The cart and
// the pending order are left untouched so the customer can retry.
func CheckoutCancel(c *gin.Context) {
	utils.LogInfo("CheckoutCancel called")

	payload := gin.H{"cancelled": true}
	if orderID, err := strconv.Atoi(c.Query("order_id")); err == nil {
		payload["order_id"] = orderID
	}
	utils.Success(c, "Checkout cancelled", payload)
}
