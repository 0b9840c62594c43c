package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon is a percent discount code. Orders copy the code and computed
// amount rather than holding a foreign key, so deleting or editing a
// coupon never rewrites historical orders.
type Coupon struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"uniqueIndex" json:"code"`
	Percent   int            `json:"percent"` // 0-100
	Phrase    string         `json:"phrase,omitempty"`
	Active    bool           `json:"active" gorm:"default:true"`
	ValidFrom *time.Time     `json:"valid_from,omitempty"`
	ValidTo   *time.Time     `json:"valid_to,omitempty"`
	MaxUses   *int           `json:"max_uses,omitempty"` // nil = unlimited
	TimesUsed int            `json:"times_used"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UsableAt reports whether the coupon is currently usable: active,
// inside its validity window, under its usage cap, and percent > 0.
func (c *Coupon) UsableAt(t time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && t.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && t.After(*c.ValidTo) {
		return false
	}
	if c.MaxUses != nil && c.TimesUsed >= *c.MaxUses {
		return false
	}
	if c.Percent <= 0 {
		return false
	}
	return true
}
