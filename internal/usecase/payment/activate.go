package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workhive/payment-integrity-service/internal/domain"
	publisher "github.com/workhive/payment-integrity-service/internal/infrastructure/kafka"
	"github.com/workhive/payment-integrity-service/internal/usecase/risk"
	"github.com/workhive/payment-integrity-service/internal/usecase/webhook"
)

// HandleGatewayCallback is the webhook entrypoint. Verification is the
// only authority on whether the callback is trusted; after that the
// activation transaction is the only authority on state transitions.
// Duplicate deliveries of an already-applied event return nil so the
// gateway stops retrying.
func (uc *DefaultPaymentUsecase) HandleGatewayCallback(ctx context.Context, remoteIP string, payload []byte) error {
	event, err := uc.Verifier.Verify(remoteIP, payload, time.Now())
	if err != nil {
		reason := webhook.RejectReason(err)
		uc.Metrics.RecordWebhookRejected(reason)
		slog.Warn("gateway callback rejected", "reason", reason, "remote_ip", remoteIP)
		return err
	}
	uc.Metrics.RecordWebhookAccepted(string(event.Status))

	if err := uc.dispatchVerified(ctx, event); err != nil {
		// The receipt gate already consumed this delivery. Processing
		// failed without applying anything, so free the identity again
		// or the gateway's re-delivery bounces off the gate as a replay
		// and the attempt is stranded PENDING.
		uc.releaseReceipt(event)
		return err
	}
	return nil
}

func (uc *DefaultPaymentUsecase) dispatchVerified(ctx context.Context, event *domain.VerifiedEvent) error {
	switch event.Status {
	case domain.GatewaySuccess:
		return uc.processSuccess(ctx, event)
	case domain.GatewayFailed:
		return uc.processFailure(event)
	default:
		return fmt.Errorf("%w: unknown gateway status %q", domain.ErrMalformedCallback, event.Status)
	}
}

func (uc *DefaultPaymentUsecase) releaseReceipt(event *domain.VerifiedEvent) {
	if err := uc.Receipts.DeleteByEventKey(event.EventKey); err != nil {
		slog.Error("failed to release webhook receipt",
			"order_id", event.OrderID, "event_key", event.EventKey, "error", err.Error())
	}
}

func (uc *DefaultPaymentUsecase) processSuccess(ctx context.Context, event *domain.VerifiedEvent) error {
	attempt, err := uc.Ledger.GetAttemptByOrderID(event.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			// The gateway references an order we never issued; the
			// receipt is kept, nothing to activate
			slog.Warn("verified callback for unknown order", "order_id", event.OrderID)
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	// The gateway reports what was actually charged; a disagreement
	// with the ledger means the attempt cannot be trusted
	if event.Amount != attempt.Amount || event.Currency != attempt.Currency {
		uc.Metrics.RecordWebhookRejected("amount_mismatch")
		return &domain.AmountMismatchError{Expected: attempt.Amount, Received: event.Amount}
	}

	entitlement, err := uc.Entitlements.GetEntitlementByID(attempt.EntitlementID)
	if err != nil {
		return err
	}
	plan, err := uc.Plans.GetPlanByID(entitlement.PlanID)
	if err != nil {
		return err
	}

	score := uc.scoreAttempt(attempt)

	outcome, activated, err := uc.Ledger.ActivateAttempt(&domain.ActivationParams{
		OrderID:          attempt.OrderID,
		GatewayTxnID:     event.GatewayTxnID,
		RawPayload:       event.RawPayload,
		CompletedAt:      event.Timestamp,
		Validity:         time.Duration(plan.ValidityDays) * 24 * time.Hour,
		RiskScore:        score.Value,
		RiskFactors:      score.FactorString(),
		FlaggedForReview: score.Flagged,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	uc.Metrics.RecordActivation(string(outcome), attempt.Currency, score.Flagged)

	switch outcome {
	case domain.ActivationApplied:
		slog.Info("entitlement activated",
			"order_id", activated.OrderID, "entitlement_id", activated.EntitlementID,
			"risk_score", score.Value, "flagged", score.Flagged)

		go uc.publishEvent(publisher.PaymentEvent{
			OrderID:          activated.OrderID,
			PayerID:          activated.PayerID,
			EntitlementID:    activated.EntitlementID,
			Status:           string(domain.StatusCompleted),
			Amount:           activated.Amount,
			Currency:         activated.Currency,
			GatewayTxnID:     activated.GatewayTxnID,
			FlaggedForReview: activated.FlaggedForReview,
			RiskScore:        activated.RiskScore,
			OccurredAt:       event.Timestamp,
		})
		return nil

	case domain.ActivationAlreadyCompleted, domain.ActivationNotFound:
		// Redelivery or late event, already settled
		return nil

	default:
		return fmt.Errorf("%w: order %s is %s", domain.ErrActivationConflict, attempt.OrderID, attempt.Status)
	}
}

func (uc *DefaultPaymentUsecase) processFailure(event *domain.VerifiedEvent) error {
	attempt, err := uc.Ledger.GetAttemptByOrderID(event.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			slog.Warn("verified failure callback for unknown order", "order_id", event.OrderID)
			return nil
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if attempt.Status.Terminal() && attempt.Status != domain.StatusExpired {
		return nil
	}

	if err := uc.Ledger.MarkFailed(event.OrderID, event.GatewayTxnID, event.RawPayload); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	go uc.publishEvent(publisher.PaymentEvent{
		OrderID:       attempt.OrderID,
		PayerID:       attempt.PayerID,
		EntitlementID: attempt.EntitlementID,
		Status:        string(domain.StatusFailed),
		Amount:        attempt.Amount,
		Currency:      attempt.Currency,
		GatewayTxnID:  event.GatewayTxnID,
		OccurredAt:    event.Timestamp,
	})
	return nil
}

// scoreAttempt runs the advisory risk model over the payer's recent
// ledger history and the client context captured at initiation.
func (uc *DefaultPaymentUsecase) scoreAttempt(attempt *domain.PaymentAttempt) risk.Score {
	history, err := uc.Ledger.ListRecentByPayer(attempt.PayerID, attempt.CreatedAt.Add(-uc.Scorer.VelocityWindow))
	if err != nil {
		slog.Error("failed to load payer history for scoring", "payer_id", attempt.PayerID, "error", err.Error())
		history = nil
	}
	return uc.Scorer.Score(attempt, history, risk.ClientContext{IP: attempt.ClientIP, DeviceID: attempt.DeviceID})
}
