package domain

import "time"

type GatewayStatus string

const (
	GatewaySuccess GatewayStatus = "SUCCESS"
	GatewayFailed  GatewayStatus = "FAILED"
)

// VerifiedEvent is a gateway callback that passed origin, signature,
// freshness and replay checks. EventKey identifies the delivery in the
// receipt store.
type VerifiedEvent struct {
	OrderID      string
	GatewayTxnID string
	Status       GatewayStatus
	Amount       float64
	Currency     string
	Timestamp    time.Time
	RawPayload   string
	EventKey     string
}

// WebhookReceipt marks a callback identity as consumed. A given
// (order, transaction, timestamp) tuple is accepted exactly once;
// later occurrences are replays.
type WebhookReceipt struct {
	ID             string
	EventKey       string
	OrderID        string
	GatewayTxnID   string
	EventTimestamp time.Time
	ReceivedAt     time.Time
	Outcome        string
}
