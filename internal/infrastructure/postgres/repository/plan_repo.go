package repository

import (
	"errors"

	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/mappers"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPlanRepository struct {
	DB *gorm.DB
}

func NewDefaultPlanRepository(db *gorm.DB) *DefaultPlanRepository {
	return &DefaultPlanRepository{DB: db}
}

func (r *DefaultPlanRepository) GetPlanByID(id string) (*domain.RegistrationPlan, error) {
	var plan models.RegistrationPlanModel
	if err := r.DB.First(&plan, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}

	return mappers.ToDomainPlan(&plan), nil
}
