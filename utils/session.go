package utils

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys owned by the cart. Handlers must only ever touch these
// keys; clearing the whole session would rotate the visitor's cookie.
const (
	SessionKeyCart        = "cart"
	SessionKeyCartMeta    = "cart_meta"
	SessionKeyCouponCode  = "coupon_code"
	SessionKeyUserID      = "user_id"
	SessionKeyGuestOrders = "guest_orders"
)

// CartMeta holds auxiliary cart state: the chosen fulfillment channel
// and the table number for dine-in.
type CartMeta struct {
	ServiceType string `json:"service_type,omitempty"`
	TableNumber int    `json:"table_number,omitempty"`
}

func init() {
	// The cookie store serializes session values with gob.
	gob.Register([]CartLine{})
	gob.Register(CartMeta{})
	gob.Register([]uint{})
}

// CartFromSession returns the session cart, empty when unset.
func CartFromSession(c *gin.Context) []CartLine {
	session := sessions.Default(c)
	if lines, ok := session.Get(SessionKeyCart).([]CartLine); ok {
		return lines
	}
	return nil
}

// SaveCart stores the cart lines without touching other session keys.
func SaveCart(c *gin.Context, lines []CartLine) error {
	session := sessions.Default(c)
	session.Set(SessionKeyCart, lines)
	return session.Save()
}

// CartMetaFromSession returns the cart metadata, zero when unset.
func CartMetaFromSession(c *gin.Context) CartMeta {
	session := sessions.Default(c)
	if meta, ok := session.Get(SessionKeyCartMeta).(CartMeta); ok {
		return meta
	}
	return CartMeta{}
}

// SaveCartMeta stores the cart metadata.
func SaveCartMeta(c *gin.Context, meta CartMeta) error {
	session := sessions.Default(c)
	session.Set(SessionKeyCartMeta, meta)
	return session.Save()
}

// CouponCodeFromSession returns the coupon code applied to the session.
func CouponCodeFromSession(c *gin.Context) string {
	session := sessions.Default(c)
	if code, ok := session.Get(SessionKeyCouponCode).(string); ok {
		return code
	}
	return ""
}

// SaveCouponCode stores the applied coupon code.
func SaveCouponCode(c *gin.Context, code string) error {
	session := sessions.Default(c)
	session.Set(SessionKeyCouponCode, code)
	return session.Save()
}

// GuestOrdersFromSession returns the order ids this anonymous session
// has placed. Order-scoped reads for guests are limited to these.
func GuestOrdersFromSession(c *gin.Context) []uint {
	session := sessions.Default(c)
	if ids, ok := session.Get(SessionKeyGuestOrders).([]uint); ok {
		return ids
	}
	return nil
}

// AppendGuestOrder records an order id as belonging to this session.
func AppendGuestOrder(c *gin.Context, orderID uint) error {
	session := sessions.Default(c)
	ids := GuestOrdersFromSession(c)
	for _, id := range ids {
		if id == orderID {
			return nil
		}
	}
	session.Set(SessionKeyGuestOrders, append(ids, orderID))
	return session.Save()
}

// ClearCartSession removes only the cart-related keys. Called after a
// confirmed payment and on logout; never on checkout.
func ClearCartSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(SessionKeyCart)
	session.Delete(SessionKeyCartMeta)
	session.Delete(SessionKeyCouponCode)
	return session.Save()
}
