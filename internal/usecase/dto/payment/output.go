package paymentdto

import "time"

type InitiatePaymentOutput struct {
	OrderID     string
	RedirectURL string
	ExpiresAt   time.Time
}
