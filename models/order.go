package models

import (
	"time"
)

// Order status constants. PENDING acts as the durable cart for
// authenticated users; PAID and FAILED are terminal.
const (
	OrderStatusPending = "PENDING"
	OrderStatusPaid    = "PAID"
	OrderStatusFailed  = "FAILED"
)

// Fulfillment channel constants. DINE_IN and TAKEAWAY are paid through
// the hosted checkout; aggregator channels are paid externally.
const (
	ServiceTypeDineIn   = "DINE_IN"
	ServiceTypeTakeaway = "TAKEAWAY"
	ServiceTypeUberEats = "UBEREATS"
	ServiceTypeDoorDash = "DOORDASH"
)

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         *uint       `json:"user_id"` // nil for guest checkout
	User           User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status         string      `json:"status" gorm:"default:'PENDING'"`
	ServiceType    string      `json:"service_type" gorm:"default:'DINE_IN'"`
	TableNumber    int         `json:"table_number,omitempty"`
	Currency       string      `json:"currency"`
	Subtotal       float64     `json:"subtotal"`
	TipAmount      float64     `json:"tip_amount"`
	DiscountAmount float64     `json:"discount_amount"`
	DiscountCode   string      `json:"discount_code,omitempty"`
	GrandTotal     float64     `json:"grand_total"`
	InvoicePath    string      `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	OrderItems     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem captures the unit price at add-time so historical orders
// stay stable against later menu price changes.
type OrderItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `json:"order_id" gorm:"index"`
	MenuItemID uint     `json:"menu_item_id"`
	MenuItem   MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int      `json:"quantity"`
	UnitPrice  float64  `json:"unit_price"`
}

// LineTotal returns quantity times the captured unit price, unrounded.
func (oi *OrderItem) LineTotal() float64 {
	return oi.UnitPrice * float64(oi.Quantity)
}

// Terminal reports whether the order has reached a final status.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFailed
}
