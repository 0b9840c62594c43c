package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"
	"github.com/rivalsxninjax1/rms/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// webhookEvent is the slice of the Razorpay webhook payload we care
// about. The order id is carried in the payment link reference id and
// duplicated in the notes.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ID          string                 `json:"id"`
				ReferenceID string                 `json:"reference_id"`
				Notes       map[string]interface{} `json:"notes"`
			} `json:"entity"`
		} `json:"payment_link"`
		Payment struct {
			Entity struct {
				ID    string                 `json:"id"`
				Notes map[string]interface{} `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID    string                 `json:"id"`
				Notes map[string]interface{} `json:"notes"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// verifyWebhookSignature checks the HMAC-SHA256 of the raw body against
// the signature header using the shared webhook secret.
func verifyWebhookSignature(body []byte, signature string) bool {
	secret := os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if secret == "" || signature == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// orderIDFromEvent digs the order id out of the event, trying the
// payment link reference id first, then the notes of each entity.
func orderIDFromEvent(event *webhookEvent) (uint, bool) {
	if ref := event.Payload.PaymentLink.Entity.ReferenceID; strings.HasPrefix(ref, "order_") {
		if id, err := strconv.Atoi(strings.TrimPrefix(ref, "order_")); err == nil && id > 0 {
			return uint(id), true
		}
	}
	for _, notes := range []map[string]interface{}{
		event.Payload.PaymentLink.Entity.Notes,
		event.Payload.Payment.Entity.Notes,
		event.Payload.Order.Entity.Notes,
	} {
		if notes == nil {
			continue
		}
		if raw, ok := notes["order_id"]; ok {
			switch v := raw.(type) {
			case string:
				if id, err := strconv.Atoi(v); err == nil && id > 0 {
					return uint(id), true
				}
			case float64:
				if v > 0 {
					return uint(v), true
				}
			}
		}
	}
	return 0, false
}

// markOrderPaid flips an order to PAID exactly once. Re-delivery of the
// same event finds the order already paid and changes nothing. Coupon
// usage is counted only on the transition.
func markOrderPaid(orderID uint, razorpayPaymentID string) (*models.Order, bool, error) {
	var order models.Order
	transitioned := false

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("OrderItems").Preload("User").First(&order, orderID).Error; err != nil {
			return err
		}

		// Concurrent deliveries of the same event race to this update;
		// the status guard lets exactly one through, and only the winner
		// touches the payment row and the coupon counter.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Update("status", models.OrderStatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		order.Status = models.OrderStatusPaid

		updates := map[string]interface{}{"is_paid": true}
		if razorpayPaymentID != "" {
			updates["razorpay_payment_id"] = razorpayPaymentID
		}
		if err := tx.Model(&models.Payment{}).Where("order_id = ?", order.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if order.DiscountCode != "" {
			if err := tx.Model(&models.Coupon{}).
				Where("UPPER(code) = UPPER(?)", order.DiscountCode).
				Update("times_used", gorm.Expr("times_used + 1")).Error; err != nil {
				return err
			}
		}

		transitioned = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &order, transitioned, nil
}

func markOrderFailed(orderID uint) error {
	return config.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", models.OrderStatusFailed).Error
}

// RazorpayWebhook receives payment events from the provider. A bad
// signature is rejected with 400; everything else acknowledges with
// 200 so the provider does not retry events we cannot act on.
func RazorpayWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.BadRequest(c, "Unreadable payload", nil)
		return
	}

	if !verifyWebhookSignature(body, c.GetHeader("X-Razorpay-Signature")) {
		utils.LogError("Webhook signature verification failed")
		utils.BadRequest(c, "Invalid signature", nil)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.LogError("Webhook payload decode failed: %v", err)
		utils.Success(c, "Ignored", nil)
		return
	}
	utils.LogInfo("Webhook event received: %s", event.Event)

	orderID, ok := orderIDFromEvent(&event)
	if !ok {
		utils.LogDebug("Webhook event %s carries no order id", event.Event)
		utils.Success(c, "Ignored", nil)
		return
	}

	switch event.Event {
	case "payment_link.paid", "order.paid", "payment.captured":
		order, transitioned, err := markOrderPaid(orderID, event.Payload.Payment.Entity.ID)
		if err != nil {
			utils.LogError("Failed to mark order ID: %d paid: %v", orderID, err)
			utils.Success(c, "Acknowledged", nil)
			return
		}
		if transitioned {
			utils.LogInfo("Order ID: %d confirmed paid", order.ID)
			if _, err := ensureInvoicePDF(order); err != nil {
				utils.LogError("Invoice generation failed for order ID: %d: %v", order.ID, err)
			}
			if order.User.Email != "" {
				go utils.SendOrderReceipt(order, order.User.Email)
			}
		} else {
			utils.LogDebug("Duplicate paid event for order ID: %d", order.ID)
		}
	case "payment_link.expired", "payment.failed":
		if err := markOrderFailed(orderID); err != nil {
			utils.LogError("Failed to mark order ID: %d failed: %v", orderID, err)
		} else {
			utils.LogInfo("Order ID: %d marked failed after %s", orderID, event.Event)
		}
	default:
		utils.LogDebug("Unhandled webhook event: %s", event.Event)
	}

	utils.Success(c, "Acknowledged", nil)
}
