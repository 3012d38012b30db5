package mappers

import (
	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
)

func ToGORMAttempt(attempt *domain.PaymentAttempt) *models.PaymentAttemptModel {
	var txnID *string
	if attempt.GatewayTxnID != "" {
		txnID = &attempt.GatewayTxnID
	}
	var parentID *string
	if attempt.ParentOrderID != "" {
		parentID = &attempt.ParentOrderID
	}

	return &models.PaymentAttemptModel{
		OrderID:          attempt.OrderID,
		GatewayTxnID:     txnID,
		PayerID:          attempt.PayerID,
		EntitlementID:    attempt.EntitlementID,
		Amount:           attempt.Amount,
		Currency:         attempt.Currency,
		Status:           attempt.Status,
		ParentOrderID:    parentID,
		GatewayPayload:   attempt.GatewayPayload,
		ClientIP:         attempt.ClientIP,
		DeviceID:         attempt.DeviceID,
		RiskScore:        attempt.RiskScore,
		RiskFactors:      attempt.RiskFactors,
		FlaggedForReview: attempt.FlaggedForReview,
		ExpiresAt:        attempt.ExpiresAt,
		CreatedAt:        attempt.CreatedAt,
		CompletedAt:      attempt.CompletedAt,
	}
}

func ToDomainAttempt(model *models.PaymentAttemptModel) *domain.PaymentAttempt {
	attempt := &domain.PaymentAttempt{
		OrderID:          model.OrderID,
		PayerID:          model.PayerID,
		EntitlementID:    model.EntitlementID,
		Amount:           model.Amount,
		Currency:         model.Currency,
		Status:           model.Status,
		GatewayPayload:   model.GatewayPayload,
		ClientIP:         model.ClientIP,
		DeviceID:         model.DeviceID,
		RiskScore:        model.RiskScore,
		RiskFactors:      model.RiskFactors,
		FlaggedForReview: model.FlaggedForReview,
		ExpiresAt:        model.ExpiresAt,
		CreatedAt:        model.CreatedAt,
		CompletedAt:      model.CompletedAt,
	}
	if model.GatewayTxnID != nil {
		attempt.GatewayTxnID = *model.GatewayTxnID
	}
	if model.ParentOrderID != nil {
		attempt.ParentOrderID = *model.ParentOrderID
	}

	return attempt
}
