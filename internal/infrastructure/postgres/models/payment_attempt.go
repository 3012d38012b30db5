package models

import (
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
)

type PaymentAttemptModel struct {
	OrderID          string               `gorm:"primaryKey;type:uuid"`
	GatewayTxnID     *string              `gorm:"uniqueIndex"`
	PayerID          string               `gorm:"index:idx_payer_created"`
	EntitlementID    string               `gorm:"index:idx_pair"`
	Amount           float64              `gorm:"not null"`
	Currency         string               `gorm:"not null"`
	Status           domain.AttemptStatus `gorm:"index:idx_status_expires;index:idx_pair"`
	ParentOrderID    *string              `gorm:"type:uuid"`
	GatewayPayload   string               // raw callback blob kept for audit
	ClientIP         string
	DeviceID         string
	RiskScore        float64
	RiskFactors      string
	FlaggedForReview bool
	ExpiresAt        time.Time `gorm:"index:idx_status_expires"`
	CreatedAt        time.Time `gorm:"index:idx_payer_created"`
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

func (PaymentAttemptModel) TableName() string {
	return "payment_attempts"
}
