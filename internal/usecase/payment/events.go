package usecase

import (
	"encoding/json"
	"log/slog"

	"github.com/workhive/payment-integrity-service/internal/domain"
	publisher "github.com/workhive/payment-integrity-service/internal/infrastructure/kafka"
)

// publishEvent pushes one event to the events topic, keyed by payer so
// a payer's events land on one partition in order. Delivery is best
// effort, failures are logged and never propagate.
func (uc *DefaultPaymentUsecase) publishEvent(event publisher.PaymentEvent) {
	v, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode payment event",
			"order_id", event.OrderID, "status", event.Status, "error", err.Error())
		return
	}

	if err := uc.Publisher.Publish(uc.Opts.EventsTopic, domain.Message{Key: []byte(event.PayerID), Value: v}); err != nil {
		slog.Error("failed to publish payment event",
			"order_id", event.OrderID, "status", event.Status, "error", err.Error())
	}
}
