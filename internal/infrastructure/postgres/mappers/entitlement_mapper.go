package mappers

import (
	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
)

func ToDomainEntitlement(model *models.EntitlementModel) *domain.Entitlement {
	entitlement := &domain.Entitlement{
		ID:         model.ID,
		ProviderID: model.ProviderID,
		PlanID:     model.PlanID,
		Status:     model.Status,
		ValidFrom:  model.ValidFrom,
		ValidUntil: model.ValidUntil,
	}
	if model.ActivatedByOrder != nil {
		entitlement.ActivatedByOrder = *model.ActivatedByOrder
	}

	return entitlement
}

func ToDomainPlan(model *models.RegistrationPlanModel) *domain.RegistrationPlan {
	return &domain.RegistrationPlan{
		ID:           model.ID,
		Name:         model.Name,
		Amount:       model.Amount,
		Currency:     model.Currency,
		ValidityDays: model.ValidityDays,
		IsActive:     model.IsActive,
	}
}
