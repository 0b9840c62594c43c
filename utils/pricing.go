package utils

import (
	"math"
)

// RoundMoney rounds to 2 decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// TotalsBreakdown is the result of the pricing calculation.
type TotalsBreakdown struct {
	Subtotal        float64
	Tip             float64
	CouponDiscount  float64
	LoyaltyDiscount float64
	Discount        float64
	GrandTotal      float64
}

// ComputeTotals applies tip and percent discounts to a subtotal.
//
// An explicit tip amount wins over a tip percent when both are given.
// Coupon and loyalty percents are each computed against the original
// subtotal and then summed. The grand total is floored at zero.
func ComputeTotals(subtotal, tipAmount, tipPercent float64, couponPercent, loyaltyPercent int) TotalsBreakdown {
	b := TotalsBreakdown{Subtotal: RoundMoney(subtotal)}

	switch {
	case tipAmount > 0:
		b.Tip = RoundMoney(tipAmount)
	case tipPercent > 0:
		b.Tip = RoundMoney(b.Subtotal * tipPercent / 100)
	}

	if couponPercent > 0 {
		b.CouponDiscount = RoundMoney(b.Subtotal * float64(couponPercent) / 100)
	}
	if loyaltyPercent > 0 {
		b.LoyaltyDiscount = RoundMoney(b.Subtotal * float64(loyaltyPercent) / 100)
	}
	b.Discount = RoundMoney(b.CouponDiscount + b.LoyaltyDiscount)

	b.GrandTotal = RoundMoney(b.Subtotal - b.Discount + b.Tip)
	if b.GrandTotal < 0 {
		b.GrandTotal = 0
	}
	return b
}
