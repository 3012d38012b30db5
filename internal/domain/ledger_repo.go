package domain

import "time"

type ActivationOutcome string

const (
	ActivationApplied          ActivationOutcome = "APPLIED"
	ActivationAlreadyCompleted ActivationOutcome = "ALREADY_COMPLETED"
	ActivationNotFound         ActivationOutcome = "NOT_FOUND"
	ActivationConflict         ActivationOutcome = "CONFLICT"
)

// ActivationParams describes the atomic completion of an attempt and
// the activation of its entitlement.
type ActivationParams struct {
	OrderID          string
	GatewayTxnID     string
	RawPayload       string
	CompletedAt      time.Time
	Validity         time.Duration
	RiskScore        float64
	RiskFactors      string
	FlaggedForReview bool
}

type LedgerRepository interface {
	CreateAttempt(attempt *PaymentAttempt) error
	GetAttemptByOrderID(orderID string) (*PaymentAttempt, error)
	// FindPendingByPair returns the open attempt for the pair, or nil.
	FindPendingByPair(payerID, entitlementID string) (*PaymentAttempt, error)
	// FindRecentCompletedByPair returns a completed attempt newer than
	// since, or nil. Used by the idempotency guard to absorb
	// near-simultaneous duplicate submissions.
	FindRecentCompletedByPair(payerID, entitlementID string, since time.Time) (*PaymentAttempt, error)
	ListRecentByPayer(payerID string, since time.Time) ([]*PaymentAttempt, error)
	FindExpiredPending(now time.Time) ([]*PaymentAttempt, error)
	// MarkFailed moves a pending attempt to FAILED. No-op when the
	// attempt is not pending anymore.
	MarkFailed(orderID, gatewayTxnID, rawPayload string) error
	MarkExpired(orderID string) error
	// ActivateAttempt runs the activation transaction: attempt to
	// COMPLETED and entitlement to ACTIVE as one atomic unit. Both
	// writes land or neither does.
	ActivateAttempt(params *ActivationParams) (ActivationOutcome, *PaymentAttempt, error)
}

type EntitlementRepository interface {
	GetEntitlementByID(id string) (*Entitlement, error)
}

type PlanRepository interface {
	GetPlanByID(id string) (*RegistrationPlan, error)
}

type ReceiptRepository interface {
	// SaveReceipt records the first acceptance of a callback identity.
	// Returns ErrReplay when the identity was accepted before; the
	// insert itself is the replay gate, so two concurrent deliveries
	// cannot both pass.
	SaveReceipt(receipt *WebhookReceipt) error
	// DeleteByEventKey frees a consumed identity again. Called when
	// processing a verified event fails after the gate admitted it, so
	// the gateway's re-delivery is not rejected as a replay.
	DeleteByEventKey(eventKey string) error
	PurgeOlderThan(cutoff time.Time) (int64, error)
}
