package domain

import (
	"context"
	"time"
)

// PaymentLocker is a short-lived mutual exclusion lease keyed by
// (payer, entitlement). It narrows the check-then-act race between the
// idempotency read and the ledger insert; the ledger's uniqueness
// constraint stays the last line of defense.
type PaymentLocker interface {
	// Acquire returns a holder token, or ErrLockBusy when a live lease
	// for the pair exists. The lease expires on its own after ttl, so a
	// crashed holder cannot block the pair forever.
	Acquire(ctx context.Context, payerID, entitlementID string, ttl time.Duration) (string, error)
	// Release drops the lease if token still holds it. Releasing an
	// expired or stolen lease is a no-op.
	Release(ctx context.Context, payerID, entitlementID, token string) error
}
