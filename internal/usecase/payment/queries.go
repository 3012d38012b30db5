package usecase

import (
	"context"

	"github.com/workhive/payment-integrity-service/internal/domain"
)

func (uc *DefaultPaymentUsecase) GetAttemptByOrderID(ctx context.Context, orderID string) (*domain.PaymentAttempt, error) {
	return uc.Ledger.GetAttemptByOrderID(orderID)
}
