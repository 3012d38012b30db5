package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
)

// ExpireStalePending sweeps pending attempts past their deadline into
// EXPIRED. A verified success arriving later can still reopen them
// through the activation transaction.
func (uc *DefaultPaymentUsecase) ExpireStalePending(ctx context.Context) error {
	attempts, err := uc.Ledger.FindExpiredPending(time.Now())
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if len(attempts) == 0 {
		return nil
	}

	expired := 0
	for _, attempt := range attempts {
		if err := uc.Ledger.MarkExpired(attempt.OrderID); err != nil {
			slog.Error("failed to expire attempt", "order_id", attempt.OrderID, "error", err.Error())
			continue
		}
		uc.Metrics.RecordExpired(attempt.Currency)
		expired++
	}

	slog.Info("expired stale pending attempts", "count", expired)
	return nil
}

// PurgeOldReceipts trims webhook receipts that fell out of the replay
// window and can no longer gate anything.
func (uc *DefaultPaymentUsecase) PurgeOldReceipts(ctx context.Context) error {
	purged, err := uc.Receipts.PurgeOlderThan(time.Now().Add(-uc.Opts.ReceiptRetention))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if purged > 0 {
		slog.Info("purged webhook receipts", "count", purged)
	}
	return nil
}
