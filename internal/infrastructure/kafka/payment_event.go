package publisher

import "time"

// PaymentEvent is published to the payment-events topic on every
// terminal transition; the notification service picks it up from
// there, delivery is best effort.
type PaymentEvent struct {
	OrderID          string    `json:"order_id"`
	PayerID          string    `json:"payer_id"`
	EntitlementID    string    `json:"entitlement_id"`
	Status           string    `json:"status"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	GatewayTxnID     string    `json:"gateway_txn_id,omitempty"`
	FlaggedForReview bool      `json:"flagged_for_review"`
	RiskScore        float64   `json:"risk_score"`
	OccurredAt       time.Time `json:"occurred_at"`
}
