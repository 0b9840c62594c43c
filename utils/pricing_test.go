package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 0.13, RoundMoney(0.125))
	assert.Equal(t, 19.98, RoundMoney(19.98))
	assert.Equal(t, 10.0, RoundMoney(9.999))
	assert.Equal(t, -0.13, RoundMoney(-0.125))
}

func TestComputeTotals_CouponPercent(t *testing.T) {
	b := ComputeTotals(19.98, 0, 0, 10, 0)

	assert.Equal(t, 19.98, b.Subtotal)
	assert.Equal(t, 2.00, b.CouponDiscount)
	assert.Equal(t, 2.00, b.Discount)
	assert.Equal(t, 17.98, b.GrandTotal)
}

func TestComputeTotals_ExplicitTipWinsOverPercent(t *testing.T) {
	b := ComputeTotals(100, 5, 20, 0, 0)

	assert.Equal(t, 5.0, b.Tip)
	assert.Equal(t, 105.0, b.GrandTotal)
}

func TestComputeTotals_TipPercent(t *testing.T) {
	b := ComputeTotals(50, 0, 10, 0, 0)

	assert.Equal(t, 5.0, b.Tip)
	assert.Equal(t, 55.0, b.GrandTotal)
}

func TestComputeTotals_DiscountsStackAgainstSubtotal(t *testing.T) {
	// Both percents apply to the original subtotal, not sequentially.
	b := ComputeTotals(100, 0, 0, 10, 5)

	assert.Equal(t, 10.0, b.CouponDiscount)
	assert.Equal(t, 5.0, b.LoyaltyDiscount)
	assert.Equal(t, 15.0, b.Discount)
	assert.Equal(t, 85.0, b.GrandTotal)
}

func TestComputeTotals_FloorsAtZero(t *testing.T) {
	b := ComputeTotals(10, 0, 0, 100, 100)

	assert.Equal(t, 20.0, b.Discount)
	assert.Equal(t, 0.0, b.GrandTotal)
}

func TestComputeTotals_ZeroSubtotal(t *testing.T) {
	b := ComputeTotals(0, 0, 0, 10, 5)

	assert.Equal(t, 0.0, b.Subtotal)
	assert.Equal(t, 0.0, b.Discount)
	assert.Equal(t, 0.0, b.GrandTotal)
}
