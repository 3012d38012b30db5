package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAttempt    = errors.New("payment attempt already exists for payer and entitlement")
	ErrLockBusy            = errors.New("concurrent payment initiation in flight")
	ErrAmountMismatch      = errors.New("claimed amount does not match catalog price")
	ErrUnauthorizedOrigin  = errors.New("webhook origin not allowed")
	ErrBadSignature        = errors.New("webhook signature mismatch")
	ErrMalformedCallback   = errors.New("webhook payload malformed")
	ErrStale               = errors.New("webhook timestamp outside freshness window")
	ErrReplay              = errors.New("webhook already accepted")
	ErrActivationConflict  = errors.New("attempt not in activatable state")
	ErrStoreUnavailable    = errors.New("payment store unavailable")
	ErrAttemptNotFound     = errors.New("payment attempt not found")
	ErrEntitlementNotFound = errors.New("entitlement not found")
	ErrPlanNotFound        = errors.New("registration plan not found")
	ErrParentNotTerminal   = errors.New("previous attempt is still open")
)

// DuplicateAttemptError carries the existing order reference so the
// caller can surface it instead of creating a new attempt.
type DuplicateAttemptError struct {
	OrderID string
}

func (e *DuplicateAttemptError) Error() string {
	return fmt.Sprintf("payment attempt already exists: order %s", e.OrderID)
}

func (e *DuplicateAttemptError) Is(target error) bool {
	return target == ErrDuplicateAttempt
}

// AmountMismatchError reports the catalog price against the claimed one.
type AmountMismatchError struct {
	Expected float64
	Received float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch: expected %.2f, received %.2f", e.Expected, e.Received)
}

func (e *AmountMismatchError) Is(target error) bool {
	return target == ErrAmountMismatch
}
