package background

import (
	"context"
	"log"
	"time"

	usecase "github.com/workhive/payment-integrity-service/internal/usecase/payment"
)

type BackgroundTasks struct {
	PaymentUsecase usecase.PaymentUsecase
}

func NewBackgroundTasks(paymentUC usecase.PaymentUsecase) *BackgroundTasks {
	return &BackgroundTasks{
		PaymentUsecase: paymentUC,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startPendingExpiry(ctx)
	go bt.startReceiptPurge(ctx)
}

func (bt *BackgroundTasks) startPendingExpiry(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.PaymentUsecase.ExpireStalePending(ctx); err != nil {
				log.Printf("Pending expiry sweep error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startReceiptPurge(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.PaymentUsecase.PurgeOldReceipts(ctx); err != nil {
				log.Printf("Receipt purge error: %v\n", err)
			}
		}
	}
}
