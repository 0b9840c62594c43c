package utils

import (
	"fmt"

	"github.com/rivalsxninjax1/rms/config"
	"github.com/rivalsxninjax1/rms/models"

	"gopkg.in/gomail.v2"
)

// SendOrderReceipt emails a payment receipt for a paid order. Receipts
// are best-effort: an unset SMTP host or a send failure only logs.
func SendOrderReceipt(order *models.Order, toEmail string) {
	cfg, err := config.LoadConfig()
	if err != nil || cfg.SMTPHost == "" || toEmail == "" {
		LogDebug("Receipt email skipped for order %d (no SMTP host or recipient)", order.ID)
		return
	}

	body := fmt.Sprintf(
		"Thank you for your order!\n\nOrder #%d\nSubtotal: %.2f\nDiscount: %.2f\nTip: %.2f\nTotal paid: %.2f %s\n",
		order.ID, order.Subtotal, order.DiscountAmount, order.TipAmount, order.GrandTotal, order.Currency,
	)

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.EmailFrom)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Receipt for order #%d", order.ID))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		LogError("Failed to send receipt for order %d: %v", order.ID, err)
		return
	}
	LogInfo("Receipt email sent for order %d to %s", order.ID, toEmail)
}
