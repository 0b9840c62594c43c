package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponUsableAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	two := 2

	tests := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{"active no window", Coupon{Code: "SAVE10", Percent: 10, Active: true}, true},
		{"inactive", Coupon{Code: "SAVE10", Percent: 10, Active: false}, false},
		{"zero percent", Coupon{Code: "FREE0", Percent: 0, Active: true}, false},
		{"inside window", Coupon{Percent: 10, Active: true, ValidFrom: &past, ValidTo: &future}, true},
		{"not yet valid", Coupon{Percent: 10, Active: true, ValidFrom: &future}, false},
		{"expired", Coupon{Percent: 10, Active: true, ValidTo: &past}, false},
		{"under usage cap", Coupon{Percent: 10, Active: true, MaxUses: &two, TimesUsed: 1}, true},
		{"at usage cap", Coupon{Percent: 10, Active: true, MaxUses: &two, TimesUsed: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.UsableAt(now))
		})
	}
}

func TestOrderTerminal(t *testing.T) {
	assert.False(t, (&Order{Status: OrderStatusPending}).Terminal())
	assert.True(t, (&Order{Status: OrderStatusPaid}).Terminal())
	assert.True(t, (&Order{Status: OrderStatusFailed}).Terminal())
}

func TestOrderItemLineTotal(t *testing.T) {
	oi := OrderItem{Quantity: 3, UnitPrice: 9.99}
	assert.InDelta(t, 29.97, oi.LineTotal(), 0.0001)
}
