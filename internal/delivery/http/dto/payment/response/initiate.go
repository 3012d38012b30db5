package response

import "time"

type InitiateResponse struct {
	OrderID     string    `json:"order_id"`
	RedirectURL string    `json:"redirect_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AttemptResponse struct {
	OrderID          string     `json:"order_id"`
	PayerID          string     `json:"payer_id"`
	EntitlementID    string     `json:"entitlement_id"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	ParentOrderID    string     `json:"parent_order_id,omitempty"`
	GatewayTxnID     string     `json:"gateway_txn_id,omitempty"`
	FlaggedForReview bool       `json:"flagged_for_review"`
	ExpiresAt        time.Time  `json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type ErrorResponse struct {
	Error           string  `json:"error"`
	ExistingOrderID string  `json:"existing_order_id,omitempty"`
	ExpectedAmount  float64 `json:"expected_amount,omitempty"`
	ReceivedAmount  float64 `json:"received_amount,omitempty"`
}
