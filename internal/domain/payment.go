package domain

import "time"

type AttemptStatus string

const (
	StatusPending   AttemptStatus = "PENDING"
	StatusCompleted AttemptStatus = "COMPLETED"
	StatusFailed    AttemptStatus = "FAILED"
	StatusExpired   AttemptStatus = "EXPIRED"
)

// Terminal reports whether no initiation may reuse this attempt.
// EXPIRED is terminal for initiation purposes but stays re-openable
// by a verified gateway success, since the gateway's word is final.
func (s AttemptStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusExpired
}

type PaymentAttempt struct {
	OrderID          string
	GatewayTxnID     string
	PayerID          string
	EntitlementID    string
	Amount           float64
	Currency         string
	Status           AttemptStatus
	ParentOrderID    string
	GatewayPayload   string
	ClientIP         string
	DeviceID         string
	RiskScore        float64
	RiskFactors      string
	FlaggedForReview bool
	ExpiresAt        time.Time
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
