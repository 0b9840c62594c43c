package models

import (
	"time"
)

const PaymentProviderRazorpay = "razorpay"

// Payment is the single payment record tied to an Order. Amount is
// recomputed from the order on every access, never trusted on its own.
type Payment struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OrderID           uint      `json:"order_id" gorm:"uniqueIndex"`
	Provider          string    `json:"provider" gorm:"default:'razorpay'"`
	Amount            float64   `json:"amount"`
	Currency          string    `json:"currency"`
	IsPaid            bool      `json:"is_paid"`
	RazorpayLinkID    string    `json:"razorpay_link_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
