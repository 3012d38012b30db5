package domain

import "time"

type EntitlementStatus string

const (
	EntitlementPending EntitlementStatus = "PENDING"
	EntitlementActive  EntitlementStatus = "ACTIVE"
	EntitlementExpired EntitlementStatus = "EXPIRED"
)

// Entitlement is the provider's paid registration window. It only becomes
// ACTIVE inside the activation transaction, together with the paying
// attempt moving to COMPLETED.
type Entitlement struct {
	ID               string
	ProviderID       string
	PlanID           string
	Status           EntitlementStatus
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	ActivatedByOrder string
}

// RegistrationPlan is the authoritative price catalog entry for an
// entitlement. Client-claimed amounts are always checked against it.
type RegistrationPlan struct {
	ID           string
	Name         string
	Amount       float64
	Currency     string
	ValidityDays int
	IsActive     bool
}
