package repository

import (
	"fmt"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
	"github.com/workhive/payment-integrity-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultReceiptRepository struct {
	DB *gorm.DB
}

func NewDefaultReceiptRepository(db *gorm.DB) *DefaultReceiptRepository {
	return &DefaultReceiptRepository{DB: db}
}

// SaveReceipt inserts the receipt with ON CONFLICT DO NOTHING on the
// event key, so the insert doubles as the replay gate: of two
// concurrent deliveries of the same payload exactly one row lands and
// the other caller gets ErrReplay.
func (r *DefaultReceiptRepository) SaveReceipt(receipt *domain.WebhookReceipt) error {
	receiptModel := models.WebhookReceiptModel{
		ID:             receipt.ID,
		EventKey:       receipt.EventKey,
		OrderID:        receipt.OrderID,
		GatewayTxnID:   receipt.GatewayTxnID,
		EventTimestamp: receipt.EventTimestamp,
		ReceivedAt:     receipt.ReceivedAt,
		Outcome:        receipt.Outcome,
	}

	result := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_key"}},
		DoNothing: true,
	}).Create(&receiptModel)
	if result.Error != nil {
		return fmt.Errorf("failed to save webhook receipt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrReplay
	}

	return nil
}

func (r *DefaultReceiptRepository) DeleteByEventKey(eventKey string) error {
	result := r.DB.
		Where("event_key = ?", eventKey).
		Delete(&models.WebhookReceiptModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete webhook receipt: %w", result.Error)
	}

	return nil
}

func (r *DefaultReceiptRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result := r.DB.
		Where("received_at < ?", cutoff).
		Delete(&models.WebhookReceiptModel{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
