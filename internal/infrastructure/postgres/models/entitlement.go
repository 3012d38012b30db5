package models

import (
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
)

type EntitlementModel struct {
	ID               string                   `gorm:"primaryKey;type:uuid"`
	ProviderID       string                   `gorm:"index"`
	PlanID           string                   `gorm:"type:uuid"`
	Plan             RegistrationPlanModel    `gorm:"foreignKey:PlanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Status           domain.EntitlementStatus `gorm:"index"`
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	ActivatedByOrder *string `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (EntitlementModel) TableName() string {
	return "entitlements"
}

type RegistrationPlanModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Name         string
	Amount       float64 `gorm:"not null"`
	Currency     string  `gorm:"not null"`
	ValidityDays int     `gorm:"not null"`
	IsActive     bool    `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RegistrationPlanModel) TableName() string {
	return "registration_plans"
}
