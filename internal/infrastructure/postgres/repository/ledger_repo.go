package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/mappers"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{DB: db}
}

func (r *DefaultLedgerRepository) CreateAttempt(attempt *domain.PaymentAttempt) error {
	attemptModel := mappers.ToGORMAttempt(attempt)
	if err := r.DB.Create(attemptModel).Error; err != nil {
		// The partial unique index on (payer, entitlement, PENDING)
		// fired: another attempt won the pair
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: open attempt exists for pair", domain.ErrDuplicateAttempt)
		}
		return fmt.Errorf("failed to create payment attempt: %w", err)
	}
	return nil
}

func (r *DefaultLedgerRepository) GetAttemptByOrderID(orderID string) (*domain.PaymentAttempt, error) {
	var attempt models.PaymentAttemptModel
	if err := r.DB.First(&attempt, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, err
	}

	return mappers.ToDomainAttempt(&attempt), nil
}

func (r *DefaultLedgerRepository) FindPendingByPair(payerID, entitlementID string) (*domain.PaymentAttempt, error) {
	var attempt models.PaymentAttemptModel
	err := r.DB.
		Where("payer_id = ? AND entitlement_id = ? AND status = ?", payerID, entitlementID, domain.StatusPending).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mappers.ToDomainAttempt(&attempt), nil
}

func (r *DefaultLedgerRepository) FindRecentCompletedByPair(payerID, entitlementID string, since time.Time) (*domain.PaymentAttempt, error) {
	var attempt models.PaymentAttemptModel
	err := r.DB.
		Where("payer_id = ? AND entitlement_id = ? AND status = ?", payerID, entitlementID, domain.StatusCompleted).
		Where("completed_at > ?", since).
		Order("completed_at DESC").
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mappers.ToDomainAttempt(&attempt), nil
}

func (r *DefaultLedgerRepository) ListRecentByPayer(payerID string, since time.Time) ([]*domain.PaymentAttempt, error) {
	var attemptModels []models.PaymentAttemptModel
	err := r.DB.
		Where("payer_id = ?", payerID).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&attemptModels).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*domain.PaymentAttempt, len(attemptModels))
	for i, attemptModel := range attemptModels {
		attempts[i] = mappers.ToDomainAttempt(&attemptModel)
	}

	return attempts, nil
}

func (r *DefaultLedgerRepository) FindExpiredPending(now time.Time) ([]*domain.PaymentAttempt, error) {
	var attemptModels []models.PaymentAttemptModel
	err := r.DB.
		Where("status = ?", domain.StatusPending).
		Where("expires_at < ?", now).
		Find(&attemptModels).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*domain.PaymentAttempt, len(attemptModels))
	for i, attemptModel := range attemptModels {
		attempts[i] = mappers.ToDomainAttempt(&attemptModel)
	}

	return attempts, nil
}

func (r *DefaultLedgerRepository) MarkFailed(orderID, gatewayTxnID, rawPayload string) error {
	updates := map[string]interface{}{
		"status":          domain.StatusFailed,
		"gateway_payload": rawPayload,
		"updated_at":      time.Now(),
	}
	if gatewayTxnID != "" {
		updates["gateway_txn_id"] = gatewayTxnID
	}

	result := r.DB.Model(&models.PaymentAttemptModel{}).
		Where("order_id = ? AND status = ?", orderID, domain.StatusPending).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark attempt failed: %w", result.Error)
	}

	return nil
}

func (r *DefaultLedgerRepository) MarkExpired(orderID string) error {
	result := r.DB.Model(&models.PaymentAttemptModel{}).
		Where("order_id = ? AND status = ?", orderID, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":     domain.StatusExpired,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark attempt expired: %w", result.Error)
	}

	return nil
}

// ActivateAttempt is the activation transaction: the attempt moves to
// COMPLETED and its entitlement to ACTIVE inside one database
// transaction. Any failure rolls both writes back, leaving the attempt
// PENDING for a later re-delivery or reconciliation pass. EXPIRED
// attempts are re-opened here, the gateway's authority is final.
func (r *DefaultLedgerRepository) ActivateAttempt(params *domain.ActivationParams) (domain.ActivationOutcome, *domain.PaymentAttempt, error) {
	outcome := domain.ActivationNotFound
	var activated *domain.PaymentAttempt

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var attempt models.PaymentAttemptModel
		if err := tx.First(&attempt, "order_id = ?", params.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome = domain.ActivationNotFound
				return nil
			}
			return err
		}

		if attempt.Status == domain.StatusCompleted {
			outcome = domain.ActivationAlreadyCompleted
			return nil
		}
		if attempt.Status != domain.StatusPending && attempt.Status != domain.StatusExpired {
			outcome = domain.ActivationConflict
			return nil
		}

		completedAt := params.CompletedAt
		attempt.Status = domain.StatusCompleted
		attempt.GatewayTxnID = &params.GatewayTxnID
		attempt.GatewayPayload = params.RawPayload
		attempt.RiskScore = params.RiskScore
		attempt.RiskFactors = params.RiskFactors
		attempt.FlaggedForReview = params.FlaggedForReview
		attempt.CompletedAt = &completedAt
		attempt.UpdatedAt = time.Now()

		if err := tx.Save(&attempt).Error; err != nil {
			return fmt.Errorf("failed to complete attempt: %w", err)
		}

		validUntil := completedAt.Add(params.Validity)
		result := tx.Model(&models.EntitlementModel{}).
			Where("id = ?", attempt.EntitlementID).
			Updates(map[string]interface{}{
				"status":             domain.EntitlementActive,
				"valid_from":         completedAt,
				"valid_until":        validUntil,
				"activated_by_order": attempt.OrderID,
				"updated_at":         time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to activate entitlement: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("entitlement %s not found for order %s", attempt.EntitlementID, attempt.OrderID)
		}

		outcome = domain.ActivationApplied
		activated = mappers.ToDomainAttempt(&attempt)
		return nil
	})
	if err != nil {
		return outcome, nil, err
	}

	return outcome, activated, nil
}
