package repository

import (
	"errors"

	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/mappers"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEntitlementRepository struct {
	DB *gorm.DB
}

func NewDefaultEntitlementRepository(db *gorm.DB) *DefaultEntitlementRepository {
	return &DefaultEntitlementRepository{DB: db}
}

func (r *DefaultEntitlementRepository) GetEntitlementByID(id string) (*domain.Entitlement, error) {
	var entitlement models.EntitlementModel
	if err := r.DB.First(&entitlement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntitlementNotFound
		}
		return nil, err
	}

	return mappers.ToDomainEntitlement(&entitlement), nil
}
